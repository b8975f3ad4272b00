// Package phone formats Brazilian WhatsApp numbers as the user types them.
package phone

import (
	"fmt"
	"strings"
)

// MaxDigits is the length of a mobile number with area code.
const MaxDigits = 11

// Digits strips everything but 0-9.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Format groups a partial number as "(AA) NNNNN-NNNN". The first block takes
// up to five digits before the second block starts. Input with more than
// MaxDigits digits is returned as typed.
func Format(s string) string {
	d := Digits(s)
	if len(d) > MaxDigits {
		return s
	}

	switch {
	case len(d) < 2:
		return d
	case len(d) == 2:
		return "(" + d
	case len(d) <= 7:
		return fmt.Sprintf("(%s) %s", d[:2], d[2:])
	default:
		return fmt.Sprintf("(%s) %s-%s", d[:2], d[2:7], d[7:])
	}
}
