package pdu

import "github.com/relaywire/mep2/mep2err"

// Body is the behavior every realized PDU body implements. The framer
// calls ParseOptions once, right after the opening line; ParseLine for
// every information line of a multi-line PDU; and Finalize once the
// matching /END line has checksum-validated. Single-line bodies never see
// ParseLine or Finalize.
type Body interface {
	Type() PduType
	ParseOptions(options string) error
	ParseLine(line string) error
	Finalize() error
}

// noOptions is embedded by bodies that accept no option list at all; a
// non-empty options string on such a body is a syntax error.
type noOptions struct{}

func (noOptions) ParseOptions(options string) error {
	if options != "" {
		return mep2err.Syntax("option for non-option PDU")
	}
	return nil
}

// singleLine is embedded by the four bodies whose entire PDU fits on the
// opening line; the framer never calls ParseLine or Finalize on them.
type singleLine struct{}

func (singleLine) ParseLine(string) error {
	return mep2err.Syntax("parse line called on single-line PDU")
}

func (singleLine) Finalize() error {
	return mep2err.Syntax("finalize called on single-line PDU")
}

// BusyBody is the BUSY PDU: no data beyond its type.
type BusyBody struct {
	noOptions
	singleLine
}

func (BusyBody) Type() PduType { return TypeBusy }

// CreateBody is the CREATE PDU: no data beyond its type.
type CreateBody struct {
	noOptions
	singleLine
}

func (CreateBody) Type() PduType { return TypeCreate }

// TermBody is the TERM PDU: no data beyond its type.
type TermBody struct {
	noOptions
	singleLine
}

func (TermBody) Type() PduType { return TypeTerm }

// SendBody is the SEND PDU: no data beyond its type.
type SendBody struct {
	noOptions
	singleLine
}

func (SendBody) Type() PduType { return TypeSend }
