package pdu

import (
	"io"
	"strings"

	"github.com/relaywire/mep2/codec"
	"github.com/relaywire/mep2/mep2err"
)

// ContentType is the TEXT PDU's declared content type, one of the fourteen
// fixed keywords accepted on its options line.
type ContentType int

const (
	ContentTypeASCII ContentType = iota
	ContentTypePrintable
	ContentTypeEnv
	ContentTypeBinary
	ContentTypeG3Fax
	ContentTypeTLX
	ContentTypeVoice
	ContentTypeTIF0
	ContentTypeTIF1
	ContentTypeTTX
	ContentTypeVideotex
	ContentTypeEncrypted
	ContentTypeSFD
	ContentTypeRacal
)

// ContentHandling is the coarse bucket the framer and any downstream sink
// use to decide how to treat an information line: decode it as percent
// text, or pass it through untouched.
type ContentHandling int

const (
	HandlingASCII ContentHandling = iota
	HandlingEnv
	HandlingBinary
)

var textTypeKeywords = []struct {
	keyword  string
	typ      ContentType
	handling ContentHandling
}{
	{"ascii", ContentTypeASCII, HandlingASCII},
	{"printable", ContentTypePrintable, HandlingASCII},
	{"env", ContentTypeEnv, HandlingEnv},
	{"binary", ContentTypeBinary, HandlingBinary},
	{"g3fax", ContentTypeG3Fax, HandlingBinary},
	{"tlx", ContentTypeTLX, HandlingBinary},
	{"voice", ContentTypeVoice, HandlingBinary},
	{"tif0", ContentTypeTIF0, HandlingBinary},
	{"tif1", ContentTypeTIF1, HandlingBinary},
	{"ttx", ContentTypeTTX, HandlingBinary},
	{"videotex", ContentTypeVideotex, HandlingBinary},
	{"encrypted", ContentTypeEncrypted, HandlingBinary},
	{"sfd", ContentTypeSFD, HandlingBinary},
	{"racal", ContentTypeRacal, HandlingBinary},
}

// icompare reports whether haystack starts with needle, case-insensitively.
func icompare(haystack, needle string) bool {
	if len(haystack) < len(needle) {
		return false
	}
	return strings.EqualFold(haystack[:len(needle)], needle)
}

// TextBody is the TEXT PDU: a declared content type plus an optional
// description, followed by the message text itself carried across the
// PDU's information lines. Sink, if set before parsing begins, receives
// every information line: decoded text for the ASCII/env handling
// categories, the raw line bytes for binary.
type TextBody struct {
	ContentType     ContentType
	ContentHandling ContentHandling
	Description     string
	Sink            io.Writer
}

// NewTextBody constructs an empty TEXT PDU body, defaulting to ASCII
// content pending any options line.
func NewTextBody() *TextBody {
	return &TextBody{ContentType: ContentTypeASCII, ContentHandling: HandlingASCII}
}

func (TextBody) Type() PduType { return TypeText }

// ParseOptions parses the type keyword, in the fixed order the wire
// protocol defines it, followed by an optional ":description" suffix.
func (t *TextBody) ParseOptions(options string) error {
	if options == "" {
		return nil
	}

	options = strings.TrimLeft(options, " \t")

	matched := false
	for _, kw := range textTypeKeywords {
		if icompare(options, kw.keyword) {
			t.ContentType = kw.typ
			t.ContentHandling = kw.handling
			matched = true
			break
		}
	}
	if !matched {
		return mep2err.Malformed("unknown text type")
	}

	colon := strings.IndexByte(options, ':')
	if colon < 0 || colon == len(options) {
		return nil
	}

	description := strings.TrimSpace(options[colon+1:])
	if description == "" {
		return nil
	}

	decoded, err := codec.Decode([]byte(description))
	if err != nil {
		return mep2err.Malformed(err.Error())
	}
	t.Description = decoded
	return nil
}

// ParseLine routes one information line to Sink, decoding it first for
// the ASCII and env handling categories and passing it through verbatim
// for binary.
func (t *TextBody) ParseLine(line string) error {
	if t.ContentHandling == HandlingBinary {
		if t.Sink != nil {
			if _, err := t.Sink.Write([]byte(line)); err != nil {
				return err
			}
		}
		return nil
	}

	decoded, err := codec.Decode([]byte(line))
	if err != nil {
		return mep2err.Malformed(err.Error())
	}
	if t.Sink != nil {
		if _, err := t.Sink.Write([]byte(decoded)); err != nil {
			return err
		}
	}
	return nil
}

func (TextBody) Finalize() error { return nil }
