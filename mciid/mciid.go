// Package mciid recognizes and canonicalizes MCI-ID subscriber numbers,
// the numeric identity MEP2 addresses use in place of (or alongside) a
// free-text name.
package mciid

import (
	"fmt"
	"regexp"
)

var mciidPattern = regexp.MustCompile(`^(\d{3}-\d{4}|\d{3}-\d{3}-\d{4}|\d{7}|\d{10})$`)

// IsMCIID reports whether s is one of the four surface forms an MCI-ID can
// take: 123-4567, 123-456-7890, 1234567, or 1234567890.
func IsMCIID(s string) bool {
	return mciidPattern.MatchString(s)
}

// Canonicalize reduces s to its canonical form. A leading "000" (or
// "000-") block on a 10- or 12-character ID is stripped, since it carries
// no information; everything else is just re-dashed into 123-4567 or
// 123-456-7890 form. Canonicalize returns an error if s is not a
// recognized MCI-ID shape.
func Canonicalize(s string) (string, error) {
	if !IsMCIID(s) {
		return "", fmt.Errorf("mciid: %q is not a valid MCI-ID", s)
	}

	// 123-4567 is already canonical. We can't short-circuit on length 12
	// here: 000-123-4567 is also length 12 but needs the 000 stripped
	// below.
	if len(s) == 8 {
		return s, nil
	}

	if len(s) >= 10 && len(s) >= 3 && s[:3] == "000" {
		if len(s) > 3 && s[3] == '-' {
			s = s[4:]
		} else {
			s = s[3:]
		}
	}

	if len(s) == 8 || len(s) == 12 {
		return s, nil
	}

	if len(s) == 7 {
		return fmt.Sprintf("%s-%s", s[:3], s[3:]), nil
	}

	return fmt.Sprintf("%s-%s-%s", s[:3], s[3:6], s[6:]), nil
}
