package pdu

import "github.com/relaywire/mep2/codec"

// CommentBody is the COMMENT PDU: a multi-line body whose content is
// decoded purely to validate it, then discarded.
type CommentBody struct {
	noOptions
}

func (CommentBody) Type() PduType { return TypeComment }

// ParseLine decodes line to check it for illegal percent codes or stray
// delimiters. The decoded text itself carries no semantic meaning and is
// not retained.
func (CommentBody) ParseLine(line string) error {
	_, err := codec.Decode([]byte(line))
	return err
}

func (CommentBody) Finalize() error { return nil }
