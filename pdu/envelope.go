package pdu

import (
	"strings"

	"github.com/relaywire/mep2/address"
	"github.com/relaywire/mep2/codec"
	"github.com/relaywire/mep2/mep2date"
	"github.com/relaywire/mep2/mep2err"
)

// Priority is the VERIFY/ENV priority option.
type Priority int

const (
	PriorityNone Priority = iota
	PriorityPostal
	PriorityOnite
)

const (
	maxSourceMessageIDs = 5
	maxUFields          = 5
	maxSubjectLen       = 255
	maxMessageIDLen     = 100
	maxSourceMessageLen = 78
	maxUFieldNameLen    = 20
	maxUFieldValueLen   = 78
)

// UField is one user-defined "U-<name>:" envelope header.
type UField struct {
	Name  string
	Value string
}

type addressParseState int

const (
	addrIdle addressParseState = iota
	addrParsingTo
	addrParsingCC
	addrParsingFrom
)

// EnvelopeHeaderBody backs the VERIFY and ENV PDUs: an aggregator for the
// envelope header fields accumulated across an envelope's information
// lines.
type EnvelopeHeaderBody struct {
	kind        PduType
	addressOnly bool

	Priority Priority

	FromAddress *address.RawAddress
	ToAddress   []address.RawAddress
	CCAddress   []address.RawAddress

	Date            *mep2date.Date
	SourceDate      *mep2date.Date
	Subject         *string
	MessageID       *string
	SourceMessageID []string
	UFields         []UField

	envelopeData      bool
	addressParseState addressParseState
	currentAddress    address.RawAddress

	fuzzMode bool
}

// SetFuzzMode relaxes Finalize's envelope-data and to-recipient checks, for
// use under a fuzz harness that wants to keep exploring past a PDU a
// production parser would reject outright.
func (e *EnvelopeHeaderBody) SetFuzzMode(fuzz bool) { e.fuzzMode = fuzz }

// NewVerifyBody constructs the body for a VERIFY PDU, which accepts only
// To:/Cc: addressing lines.
func NewVerifyBody() *EnvelopeHeaderBody {
	return &EnvelopeHeaderBody{kind: TypeVerify, addressOnly: true}
}

// NewEnvBody constructs the body for an ENV PDU, which accepts the full
// envelope header field set.
func NewEnvBody() *EnvelopeHeaderBody {
	return &EnvelopeHeaderBody{kind: TypeEnv}
}

func (e *EnvelopeHeaderBody) Type() PduType { return e.kind }

// ParseOptions handles the PDU's priority option: empty, POSTAL, or ONITE.
func (e *EnvelopeHeaderBody) ParseOptions(options string) error {
	switch options {
	case "":
		return nil
	case "POSTAL":
		e.Priority = PriorityPostal
		return nil
	case "ONITE":
		e.Priority = PriorityOnite
		return nil
	default:
		return mep2err.Malformed("unknown priority")
	}
}

type headerField int

const (
	fieldFrom headerField = iota
	fieldTo
	fieldCC
	fieldDate
	fieldSourceDate
	fieldMessageID
	fieldSourceMessageID
	fieldSubject
	fieldHandling
	fieldU
	fieldAddressCont
)

// splitEnvelopeLine separates a CR-stripped envelope line into its field
// tag and information, and classifies the tag.
func splitEnvelopeLine(line string) (headerField, string, string, error) {
	line = strings.TrimRight(line, "\r")
	if line == "" {
		return 0, "", "", mep2err.Malformed("empty envelope line")
	}

	colon := strings.IndexByte(line, ':')
	if colon < 0 {
		return 0, "", "", mep2err.Malformed("missing : in envelope line")
	}

	field := strings.TrimRight(line[:colon+1], " \t")
	information := strings.Trim(line[colon+1:], " \t")

	switch {
	case strings.HasPrefix(strings.ToLower(line), "from:"):
		return fieldFrom, field, information, nil
	case strings.HasPrefix(strings.ToLower(line), "to:"):
		return fieldTo, field, information, nil
	case strings.HasPrefix(strings.ToLower(line), "cc:"):
		return fieldCC, field, information, nil
	case strings.HasPrefix(strings.ToLower(line), "date:"):
		return fieldDate, field, information, nil
	case strings.HasPrefix(strings.ToLower(line), "source-date:"):
		return fieldSourceDate, field, information, nil
	case strings.HasPrefix(strings.ToLower(line), "message-id:"):
		return fieldMessageID, field, information, nil
	case strings.HasPrefix(strings.ToLower(line), "source-message-id:"):
		return fieldSourceMessageID, field, information, nil
	case strings.HasPrefix(strings.ToLower(line), "subject:"):
		return fieldSubject, field, information, nil
	case strings.HasPrefix(strings.ToLower(line), "handling:"):
		return fieldHandling, field, information, nil
	case strings.HasPrefix(strings.ToLower(line), "u-"):
		return fieldU, field, information, nil
	case strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t"):
		return fieldAddressCont, strings.TrimLeft(field, " \t"), information, nil
	default:
		return 0, "", "", mep2err.Malformed("invalid header type")
	}
}

// finishCurrentAddress flushes the address being built by a prior To:/Cc:/
// From: line into its destination.
func (e *EnvelopeHeaderBody) finishCurrentAddress() {
	switch e.addressParseState {
	case addrParsingTo:
		e.ToAddress = append(e.ToAddress, e.currentAddress)
	case addrParsingCC:
		e.CCAddress = append(e.CCAddress, e.currentAddress)
	case addrParsingFrom:
		addr := e.currentAddress
		e.FromAddress = &addr
	}
	e.addressParseState = addrIdle
	e.currentAddress = address.RawAddress{}
}

// ParseLine handles one envelope information line: a To:/Cc:/From:
// address-starting line, an EMS:/MBX: continuation, or a structured field.
func (e *EnvelopeHeaderBody) ParseLine(line string) error {
	return e.parseEnvelopeLine(line)
}

func (e *EnvelopeHeaderBody) parseEnvelopeLine(line string) error {
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return mep2err.Malformed("empty address line")
	}

	typ, field, information, err := splitEnvelopeLine(line)
	if err != nil {
		return err
	}

	informationDecoded, err := codec.Decode([]byte(information))
	if err != nil {
		return mep2err.Malformed(err.Error())
	}

	if e.addressOnly {
		switch typ {
		case fieldAddressCont, fieldTo, fieldCC:
		default:
			return mep2err.Malformed("invalid addressing type")
		}
	}

	if typ != fieldAddressCont {
		e.finishCurrentAddress()
	}

	switch typ {
	case fieldAddressCont:
		if e.addressParseState == addrIdle {
			return mep2err.Malformed("invalid start of address")
		}
		if !isPrintable(informationDecoded) {
			return mep2err.Malformed("invalid characters in address")
		}
		if err := e.currentAddress.ParseField(field, informationDecoded); err != nil {
			return err
		}

	case fieldTo, fieldCC, fieldFrom:
		switch typ {
		case fieldTo:
			e.addressParseState = addrParsingTo
		case fieldCC:
			e.addressParseState = addrParsingCC
		case fieldFrom:
			if e.FromAddress != nil {
				return mep2err.EnvelopeProblem("multiple FROM: addresses")
			}
			e.addressParseState = addrParsingFrom
		}

		if !isPrintable(informationDecoded) {
			return mep2err.Malformed("invalid characters in address")
		}
		addr, err := address.ParseFirstLine(informationDecoded)
		if err != nil {
			return err
		}
		e.currentAddress = addr

	case fieldDate, fieldSourceDate:
		d, err := mep2date.Parse(informationDecoded)
		if err != nil {
			return mep2err.Malformed(err.Error())
		}
		if typ == fieldDate {
			e.Date = &d
		} else {
			e.SourceDate = &d
		}

	case fieldSubject:
		s := truncate(informationDecoded, maxSubjectLen)
		e.Subject = &s

	case fieldMessageID:
		s := truncate(informationDecoded, maxMessageIDLen)
		e.MessageID = &s

	case fieldSourceMessageID:
		if len(e.SourceMessageID) == maxSourceMessageIDs {
			e.SourceMessageID = e.SourceMessageID[1:]
		}
		e.SourceMessageID = append(e.SourceMessageID, truncate(informationDecoded, maxSourceMessageLen))

	case fieldU:
		if len(e.UFields) == maxUFields {
			e.UFields = e.UFields[1:]
		}
		name := strings.TrimSuffix(field, ":")
		e.UFields = append(e.UFields, UField{
			Name:  truncate(name, maxUFieldNameLen),
			Value: truncate(informationDecoded, maxUFieldValueLen),
		})

	case fieldHandling:
		// accepted, no semantic action
	}

	e.envelopeData = true
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

// Finalize flushes any pending address and enforces the envelope-level
// invariants: at least one To: address, and some envelope data at all.
func (e *EnvelopeHeaderBody) Finalize() error {
	e.finishCurrentAddress()

	if e.fuzzMode {
		return nil
	}

	if !e.envelopeData {
		return mep2err.EnvelopeNoData()
	}
	if len(e.ToAddress) == 0 {
		return mep2err.EnvelopeNoTo()
	}
	return nil
}
