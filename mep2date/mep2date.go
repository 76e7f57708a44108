// Package mep2date decodes the MEP2 protocol's fixed-width date/time
// field and projects it to GMT using the protocol's own frozen, literal
// timezone offsets rather than any IANA tzdata.
package mep2date

import (
	"fmt"
	"time"
)

// layout matches the fixed wire format's first 25 bytes: weekday,
// abbreviated month, day, year, and 12-hour time. Byte 25 is a literal
// separating space and bytes 26-28 are the 3-letter zone name, resolved
// separately since the protocol's zone codes predate, and don't line up
// with, IANA's.
const layout = "Mon Jan _2, 2006 03:04 PM"

const wireLength = 29

// Date is a decoded MEP2 date/time.
type Date struct {
	// OrigZone is the 3-letter zone code exactly as it appeared on the wire.
	OrigZone string
	// Local is the decoded wall-clock time in OrigZone.
	Local time.Time
	// GMT is Local projected onto GMT using the protocol's fixed offset
	// table.
	GMT time.Time
}

// zoneOffsetSeconds maps a legacy 3-letter MEP2 zone code to a fixed
// offset from UTC, in seconds. One code, MST, is defined twice in the
// source table this was built from; buildZoneOffsets keeps whichever
// definition it sees first.
var zoneOffsetSeconds = buildZoneOffsets()

func buildZoneOffsets() map[string]int {
	m := make(map[string]int)
	add := func(zone string, hours int) {
		if _, exists := m[zone]; exists {
			return
		}
		m[zone] = hours * 3600
	}

	add("AHS", -10)
	add("AHD", -9)
	add("YST", -9)
	add("YDT", -8)
	add("PST", -8)
	add("PDT", -7)
	add("MST", -7)
	add("MDT", -6)
	add("CST", -6)
	add("CDT", -5)
	add("EST", -5)
	add("EDT", -4)
	add("AST", -4)
	add("GMT", 0)
	add("BST", 1)
	add("WES", 1)
	add("WED", 2)
	add("EMT", 2)
	add("MTS", 3)
	add("MTD", 4)
	add("JST", 9)
	add("EAD", 10)

	// Sierra Solutions Mailroom aliases. The MST entry here collides with
	// the one above and is unreachable: add() keeps the first definition.
	add("AKT", -9)
	add("HST", -10)
	add("MST", -3)
	add("SNG", 8)

	return m
}

// Parse decodes a 29-byte MEP2 date/time field.
func Parse(s string) (Date, error) {
	if len(s) != wireLength {
		return Date{}, fmt.Errorf("mep2date: expected %d bytes, got %d", wireLength, len(s))
	}
	if s[25] != ' ' {
		return Date{}, fmt.Errorf("mep2date: malformed separator before zone in %q", s)
	}

	local, err := time.Parse(layout, s[:25])
	if err != nil {
		return Date{}, fmt.Errorf("mep2date: %w", err)
	}

	zone := s[26:]
	offset, ok := zoneOffsetSeconds[zone]
	if !ok {
		return Date{}, fmt.Errorf("mep2date: invalid timezone specifier %q", zone)
	}

	loc := time.FixedZone(zone, offset)
	localInZone := time.Date(local.Year(), local.Month(), local.Day(),
		local.Hour(), local.Minute(), local.Second(), 0, loc)

	return Date{
		OrigZone: zone,
		Local:    localInZone,
		GMT:      localInZone.In(time.UTC),
	}, nil
}

// Equal compares two dates by original zone name and GMT instant, ignoring
// the local wall-clock value.
func (d Date) Equal(other Date) bool {
	return d.OrigZone == other.OrigZone && d.GMT.Equal(other.GMT)
}

// StringGMT renders the date the way the wire protocol reports it back to
// a client after projection, e.g. "Sun Aug 11, 2024 08:00 AM GMT".
func (d Date) StringGMT() string {
	return d.GMT.Format("Mon Jan 02, 2006 03:04 PM") + " GMT"
}

// StringOrig renders the date in its original zone, e.g.
// "Sun Aug 11, 2024 12:00 AM PST".
func (d Date) StringOrig() string {
	return d.Local.Format("Mon Jan 02, 2006 03:04 PM") + " " + d.OrigZone
}
