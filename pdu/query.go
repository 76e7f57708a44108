package pdu

import (
	"strings"

	"github.com/relaywire/mep2/codec"
	"github.com/relaywire/mep2/mep2err"
)

// Folder identifies which mailbox folder a SCAN or TURN query targets.
type Folder int

const (
	FolderInbox Folder = iota
	FolderOutbox
	FolderDesk
	FolderTrash
)

// QueryBody backs the SCAN and TURN PDUs, which share the same
// comma-separated KEYWORD / KEYWORD=(value) option grammar.
type QueryBody struct {
	kind PduType

	Priority bool
	Folder   Folder
	Subject  string
	From     string
}

// NewScanBody constructs the body for a SCAN PDU.
func NewScanBody() *QueryBody { return &QueryBody{kind: TypeScan, Folder: FolderInbox} }

// NewTurnBody constructs the body for a TURN PDU.
func NewTurnBody() *QueryBody { return &QueryBody{kind: TypeTurn, Folder: FolderInbox} }

func (q *QueryBody) Type() PduType { return q.kind }

func (q *QueryBody) ParseLine(string) error { return mep2err.Syntax("parse line called on single-line PDU") }

func (q *QueryBody) Finalize() error { return mep2err.Syntax("finalize called on single-line PDU") }

// ParseOptions parses the comma-separated KEYWORD / KEYWORD=(value) list
// that follows SCAN and TURN's type word.
func (q *QueryBody) ParseOptions(options string) error {
	for len(options) > 0 {
		var option string
		if idx := strings.IndexByte(options, ','); idx >= 0 {
			option = options[:idx]
			options = options[idx+1:]
		} else {
			option = options
			options = ""
		}

		var keyword, value string
		hasValue := false
		if eq := strings.IndexByte(option, '='); eq >= 0 {
			keyword = option[:eq]
			value = option[eq+1:]
			hasValue = true
			if len(value) <= 3 {
				return mep2err.Syntax("value length invalid")
			}
		} else {
			keyword = option
		}

		if !hasValue {
			if keyword == "PRIORITY" {
				q.Priority = true
				continue
			}
			return mep2err.Syntax("missing value")
		}

		if !(strings.HasPrefix(value, "(") && strings.HasSuffix(value, ")")) {
			return mep2err.Syntax("value must be enclosed in parenthesis")
		}
		value = value[1 : len(value)-1]
		if strings.ContainsAny(value, "()") {
			return mep2err.Syntax("value cannot contain parenthesis")
		}

		switch keyword {
		case "FOLDER":
			switch value {
			case "OUTBOX":
				q.Folder = FolderOutbox
			case "INBOX":
				q.Folder = FolderInbox
			case "DESK":
				q.Folder = FolderDesk
			case "TRASH":
				q.Folder = FolderTrash
			default:
				return mep2err.Malformed("unknown folder type in folder query")
			}
		case "SUBJECT":
			decoded, err := codec.Decode([]byte(value))
			if err != nil {
				return mep2err.Malformed("invalid % code in subject query")
			}
			if !isPrintable(decoded) {
				return mep2err.Malformed("invalid characters in subject query")
			}
			q.Subject = decoded
		case "FROM":
			decoded, err := codec.Decode([]byte(value))
			if err != nil {
				return mep2err.Malformed("invalid % code in from query")
			}
			if !isPrintable(decoded) {
				return mep2err.Malformed("invalid characters in from query")
			}
			q.From = decoded
		case "MAXSIZE", "MINSIZE", "BEFORE", "AFTER":
			// accepted, no semantic action
		default:
			return mep2err.Syntax("unknown keyword")
		}
	}
	return nil
}

func isPrintable(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 32 || s[i] > 126 {
			return false
		}
	}
	return true
}
