// Package mep2err defines the numeric MEP2 status codes (§6.2/§7 of the
// protocol) as a small typed error, and a constructor per error taxonomy
// bucket a PDU parser actually raises.
package mep2err

import "fmt"

// Error is a MEP2 status carried as a Go error. Code is one of the values
// in CodeText.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d %s", e.Code, e.Message)
}

func newError(code int, defaultMessage, context string) *Error {
	if context == "" {
		return &Error{Code: code, Message: defaultMessage}
	}
	return &Error{Code: code, Message: fmt.Sprintf("%s: %s", defaultMessage, context)}
}

// UnableToPerform is code 300.
func UnableToPerform(context string) *Error {
	return newError(300, "Unable to perform", context)
}

// Syntax is code 301: framing violations.
func Syntax(context string) *Error {
	return newError(301, "PDU syntax error", context)
}

// Protocol is code 302: an out-of-sequence framer operation, such as
// extracting a PDU before one is complete.
func Protocol(context string) *Error {
	return newError(302, "Protocol violation", context)
}

// Malformed is code 303: content-level violations.
func Malformed(context string) *Error {
	return newError(303, "Malformed data", context)
}

// EnvelopeProblem is code 310.
func EnvelopeProblem(context string) *Error {
	return newError(310, "At least one problem within envelope", context)
}

// EnvelopeNoData is code 311.
func EnvelopeNoData() *Error {
	return newError(311, "No envelope data received", "")
}

// EnvelopeNoTo is code 312.
func EnvelopeNoTo() *Error {
	return newError(312, "At least one To: recipient required", "")
}

// ChecksumError is code 403.
func ChecksumError(context string) *Error {
	return newError(403, "Checksum error", context)
}

// CodeText is the full §6.2 surface code table, including the bands no
// in-scope parser operation constructs directly (the 1xx/2xx/4xx bands a
// caller composing an outbound status line over §6.4 might still need).
var CodeText = map[int]string{
	100: "OK",
	101: "Information",
	200: "Positive Completion",
	300: "Unable_To_Perform",
	301: "PDU_Syntax_Error",
	302: "Protocol_Violation",
	303: "Malformed_Data",
	304: "Unimplemented_Function",
	310: "Envelope_Problem",
	311: "Envelope_No_Data",
	312: "Envelope_No_To",
	399: "Master_Must_Term_Permanent",
	400: "System_Error",
	401: "Insufficient_Space",
	402: "Master_Should_Turn",
	403: "Checksum_Error",
	404: "System_Unavailable",
	405: "Batch_Mode_Unavailable",
	406: "Account_Unknown",
	407: "Account_In_Use",
	408: "Connections_Busy",
	409: "Timeout",
	498: "Too_Many_Checksum_Errors",
	499: "Master_Must_Term_Temporary",
}
