// Package pdu implements the MEP2 PDU type system: the fifteen-value
// PduType enumeration, one body type per realized PDU variant, and the
// line-by-line framer state machine that turns a stream of wire lines
// into a PduVariant.
package pdu

// PduType is one of the fifteen fixed PDU type names the wire protocol
// recognizes.
type PduType int

const (
	TypeBusy PduType = iota
	TypeComment
	TypeCreate
	TypeEnd
	TypeEnv
	TypeHdr
	TypeInit
	TypeReply
	TypeReset
	TypeScan
	TypeSend
	TypeTerm
	TypeText
	TypeTurn
	TypeVerify
)

var pduTypeNames = [...]string{
	TypeBusy:    "BUSY",
	TypeComment: "COMMENT",
	TypeCreate:  "CREATE",
	TypeEnd:     "END",
	TypeEnv:     "ENV",
	TypeHdr:     "HDR",
	TypeInit:    "INIT",
	TypeReply:   "REPLY",
	TypeReset:   "RESET",
	TypeScan:    "SCAN",
	TypeSend:    "SEND",
	TypeTerm:    "TERM",
	TypeText:    "TEXT",
	TypeTurn:    "TURN",
	TypeVerify:  "VERIFY",
}

// String renders the type's literal wire keyword, e.g. "BUSY".
func (t PduType) String() string {
	if int(t) < 0 || int(t) >= len(pduTypeNames) {
		return "UNKNOWN"
	}
	return pduTypeNames[t]
}

// SingleLine reports whether the entire PDU is carried on one line,
// terminated by its own checksum, rather than needing a matching /END.
func (t PduType) SingleLine() bool {
	switch t {
	case TypeCreate, TypeSend, TypeScan, TypeBusy, TypeTurn, TypeTerm:
		return true
	default:
		return false
	}
}

// HasOptions reports whether the type admits a comma-separated option list
// after the type word on its opening line.
func (t PduType) HasOptions() bool {
	switch t {
	case TypeVerify, TypeText, TypeScan, TypeTurn, TypeReply:
		return true
	default:
		return false
	}
}
