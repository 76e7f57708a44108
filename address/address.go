// Package address implements the MEP2 two-line address grammar: an
// identity line (name / MCI-ID / organization / location, with an
// optional parenthesized option list) and continuation lines carrying
// EMS:/MBX: routing directives.
package address

import (
	"fmt"
	"strings"

	"github.com/relaywire/mep2/mciid"
	"github.com/relaywire/mep2/mep2err"
)

const maxMBXLength = 305

// RawAddress is one decoded address, built up across an identity line and
// zero or more continuation lines.
type RawAddress struct {
	Name string
	ID   string

	Organization, Location               string
	UnresolvedOrgLoc1, UnresolvedOrgLoc2 string

	EMS string
	MBX []string

	Board, Instant, List, Owner      bool
	Onite, Print, Receipt, NoReceipt bool
	HasOptions                       bool

	// Alert is carried for parity with the original address model; nothing
	// in the wire grammar ever sets it.
	Alert bool
}

const mciidPrefix = "MCI ID:"

// parseMCIID recognizes an optional explicit "MCI ID:" prefix before a
// candidate name/ID field, mirroring parse_mciid. Without the prefix it
// simply reports whether s is MCI-ID shaped. With the prefix present,
// whatever follows it must be MCI-ID shaped, or the field is malformed.
func parseMCIID(s string) (id string, ok bool, err error) {
	explicit := false
	if strings.HasPrefix(s, mciidPrefix) {
		s = strings.TrimLeft(s[len(mciidPrefix):], " \t")
		explicit = true
	}

	if mciid.IsMCIID(s) {
		return s, true, nil
	}
	if explicit {
		return "", false, mep2err.Malformed("invalid MCI ID after MCI ID:")
	}
	return "", false, nil
}

var optionTokens = map[string]func(*RawAddress){
	"BOARD":      func(a *RawAddress) { a.Board = true },
	"INSTANT":    func(a *RawAddress) { a.Instant = true },
	"LIST":       func(a *RawAddress) { a.List = true },
	"OWNER":      func(a *RawAddress) { a.Owner = true },
	"ONITE":      func(a *RawAddress) { a.Onite = true },
	"PRINT":      func(a *RawAddress) { a.Print = true },
	"RECEIPT":    func(a *RawAddress) { a.Receipt = true },
	"NO RECEIPT": func(a *RawAddress) { a.NoReceipt = true },
}

// parseOptions strips a trailing "(OPT, OPT, ...)" block from line, if
// present, setting the corresponding flags. It returns the line with the
// option block (and any separating whitespace) removed.
func (a *RawAddress) parseOptions(line string) (string, error) {
	line = strings.TrimRight(line, " \t")
	if !strings.HasSuffix(line, ")") {
		return line, nil
	}

	if strings.Count(line, "(") != 1 || strings.Count(line, ")") != 1 {
		return "", mep2err.Malformed("malformed options, too many parenthesis")
	}

	open := strings.IndexByte(line, '(')
	options := strings.TrimSpace(line[open+1 : len(line)-1])
	rest := strings.TrimRight(line[:open], " \t")

	for len(options) > 0 {
		var option string
		if idx := strings.IndexByte(options, ','); idx >= 0 {
			if idx == len(options)-1 {
				return "", mep2err.Malformed("malformed options, trailing comma")
			}
			option = options[:idx]
			options = options[idx+1:]
		} else {
			option = options
			options = ""
		}

		option = strings.TrimSpace(option)
		if option == "" {
			return "", mep2err.Malformed("malformed options, empty option")
		}

		set, ok := optionTokens[option]
		if !ok {
			return "", mep2err.Malformed(fmt.Sprintf("malformed options, unknown option %q", option))
		}
		set(a)
		a.HasOptions = true
	}

	return rest, nil
}

// ParseFirstLine parses an address's identity line, per §4.5
// parse_first_line: name/id, then up to two org/loc fields, with an
// optional option list in parentheses at the end.
func ParseFirstLine(line string) (RawAddress, error) {
	var a RawAddress

	if strings.Count(line, "/") > 2 {
		return RawAddress{}, mep2err.Malformed("too many fields")
	}

	line = strings.TrimRight(line, " \t")
	if line == "" {
		return RawAddress{}, mep2err.Malformed("empty address")
	}

	line, err := a.parseOptions(line)
	if err != nil {
		return RawAddress{}, err
	}

	parts := strings.SplitN(line, "/", 3)

	if len(parts) == 1 {
		if err := a.assignNameOrID(strings.TrimRight(parts[0], " \t")); err != nil {
			return RawAddress{}, err
		}
		return a, nil
	}

	firstPart := strings.TrimRight(parts[0], " \t")
	if firstPart == "" {
		return RawAddress{}, mep2err.Malformed("name/ID field invalid")
	}

	id, isID, err := parseMCIID(firstPart)
	if err != nil {
		return RawAddress{}, err
	}
	if isID {
		canon, err := mciid.Canonicalize(id)
		if err != nil {
			return RawAddress{}, err
		}
		a.ID = canon
	} else {
		a.Name = firstPart
	}

	if len(parts) == 2 {
		second := strings.TrimSpace(parts[1])
		if second == "" {
			return RawAddress{}, mep2err.Malformed("first organization/location field invalid")
		}

		if a.ID == "" {
			id, isID, err := parseMCIID(second)
			if err != nil {
				return RawAddress{}, err
			}
			if isID {
				canon, err := mciid.Canonicalize(id)
				if err != nil {
					return RawAddress{}, err
				}
				a.ID = canon
				return a, nil
			}
		}

		if err := parseOrgOrLoc(&a, second); err != nil {
			return RawAddress{}, err
		}
		return a, nil
	}

	second := strings.TrimSpace(parts[1])
	third := strings.TrimSpace(parts[2])

	if mciid.IsMCIID(second) || mciid.IsMCIID(third) {
		return RawAddress{}, mep2err.Malformed("organization/location cannot be an MCI ID")
	}

	if err := parseOrgOrLoc(&a, second); err != nil {
		return RawAddress{}, err
	}
	if err := parseOrgOrLoc(&a, third); err != nil {
		return RawAddress{}, err
	}
	return a, nil
}

func (a *RawAddress) assignNameOrID(part string) error {
	id, ok, err := parseMCIID(part)
	if err != nil {
		return err
	}
	if ok {
		canon, err := mciid.Canonicalize(id)
		if err != nil {
			return err
		}
		a.ID = canon
		return nil
	}
	if part == "" {
		return mep2err.Malformed("name cannot be empty")
	}
	a.Name = part
	return nil
}

// parseOrgOrLoc routes one org/loc field of an identity line into the
// Organization, Location, or unresolved buckets of a.
func parseOrgOrLoc(a *RawAddress, part string) error {
	if mciid.IsMCIID(part) {
		return mep2err.Malformed("location/organization cannot be an MCI ID")
	}

	switch {
	case strings.HasPrefix(part, "Loc:"):
		loc := strings.TrimSpace(part[len("Loc:"):])
		if loc == "" {
			return mep2err.Malformed("location cannot be empty")
		}
		a.Location = loc
	case strings.HasPrefix(part, "Org:"):
		org := strings.TrimSpace(part[len("Org:"):])
		if org == "" {
			return mep2err.Malformed("organization cannot be empty")
		}
		a.Organization = org
	default:
		if part == "" {
			return mep2err.Malformed("organization/location cannot be empty")
		}
		if a.UnresolvedOrgLoc1 == "" {
			a.UnresolvedOrgLoc1 = part
		} else {
			a.UnresolvedOrgLoc2 = part
		}
	}
	return nil
}

// ParseField applies one EMS:/MBX: continuation-line directive to a.
func (a *RawAddress) ParseField(field, information string) error {
	if len(field) < 4 {
		return mep2err.Malformed("unknown field type")
	}

	switch {
	case strings.EqualFold(field, "ems:"):
		if a.EMS != "" {
			return mep2err.Malformed("multiple EMS directive in address")
		}
		if information == "" {
			return mep2err.Malformed("EMS cannot be empty")
		}
		a.EMS = information
	case strings.EqualFold(field, "mbx:"):
		if a.EMS == "" {
			return mep2err.Malformed("MBX without EMS")
		}
		if information == "" {
			return mep2err.Malformed("MBX cannot be empty")
		}
		a.MBX = append(a.MBX, information)

		total := 0
		for _, m := range a.MBX {
			total += len(m)
		}
		if total > maxMBXLength {
			return mep2err.Malformed(fmt.Sprintf("MBX routing info larger than %d characters", maxMBXLength))
		}
	default:
		return mep2err.Malformed(fmt.Sprintf("unknown address field %s", field))
	}
	return nil
}

// String renders a, the reciprocal of ParseFirstLine for the identity
// portion plus the option block.
func (a RawAddress) String() string {
	var b strings.Builder

	switch {
	case a.Name == "":
		b.WriteString(a.ID)
	default:
		b.WriteString(a.Name)
		switch {
		case a.ID != "":
			b.WriteString(" / ")
			b.WriteString(a.ID)
		default:
			if a.Location != "" {
				fmt.Fprintf(&b, " / Loc: %s", a.Location)
			}
			if a.Organization != "" {
				fmt.Fprintf(&b, " / Org: %s", a.Organization)
			}
			if a.UnresolvedOrgLoc1 != "" {
				fmt.Fprintf(&b, " / %s", a.UnresolvedOrgLoc1)
			}
			if a.UnresolvedOrgLoc2 != "" {
				fmt.Fprintf(&b, " / %s", a.UnresolvedOrgLoc2)
			}
		}
	}

	if a.HasOptions {
		opts := a.optionList()
		b.WriteString(" (")
		b.WriteString(strings.Join(opts, ", "))
		b.WriteString(")")
	}

	return b.String()
}

func (a RawAddress) optionList() []string {
	var opts []string
	if a.Board {
		opts = append(opts, "BOARD")
	}
	if a.Instant {
		opts = append(opts, "INSTANT")
	}
	if a.List {
		opts = append(opts, "LIST")
	}
	if a.Owner {
		opts = append(opts, "OWNER")
	}
	if a.Onite {
		opts = append(opts, "ONITE")
	}
	if a.Print {
		opts = append(opts, "PRINT")
	}
	if a.Receipt {
		opts = append(opts, "RECEIPT")
	}
	if a.NoReceipt {
		opts = append(opts, "NO RECEIPT")
	}
	return opts
}
