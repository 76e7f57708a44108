// Package checksum implements the MEP2 PDU checksum: a 16-bit sum of the
// 7-bit-masked bytes of every line belonging to a PDU, rendered as 4 hex
// digits and compared against the sender's claimed value with a ZZZZ
// escape hatch for manual testing.
package checksum

import (
	"fmt"
	"strconv"
	"strings"
)

// Accumulator is a running MEP2 checksum. The zero value is ready to use.
type Accumulator uint16

// AddLine folds every byte of line into the accumulator, masking off the
// high bit first. It is legal to call AddLine any number of times; the sum
// wraps on overflow the same way the 16-bit original does.
func (a *Accumulator) AddLine(line string) {
	for i := 0; i < len(line); i++ {
		*a += Accumulator(line[i] & 0x7F)
	}
}

// String renders the checksum as 4 uppercase hex digits.
func (a Accumulator) String() string {
	return fmt.Sprintf("%04X", uint16(a))
}

// ParseChecksum decodes a 4-character hex checksum as sent on the wire. It
// returns an error if s is not exactly 4 hex digits.
func ParseChecksum(s string) (Accumulator, error) {
	if len(s) != 4 {
		return 0, fmt.Errorf("checksum must be exactly 4 characters, got %d", len(s))
	}
	v, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, fmt.Errorf("checksum has invalid characters: %w", err)
	}
	return Accumulator(v), nil
}

// Matches reports whether the accumulated checksum matches senderChecksum,
// a raw 4-character wire value. The literal value "ZZZZ" (case insensitive)
// always matches, regardless of what was accumulated; it exists for manual
// protocol testing. Matches returns an error only when senderChecksum is
// not a well-formed checksum and is not the ZZZZ escape.
func (a Accumulator) Matches(senderChecksum string) (bool, error) {
	if strings.EqualFold(senderChecksum, "ZZZZ") {
		return true, nil
	}
	sent, err := ParseChecksum(senderChecksum)
	if err != nil {
		return false, err
	}
	return a == sent, nil
}
