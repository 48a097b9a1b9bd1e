// Package format holds small presentation helpers shared by templates.
package format

import (
	"fmt"
	"strings"
	"time"
)

// Currency formats an amount in US cents. Whole-dollar amounts drop the
// cents, so Currency(40000) is "$400".
func Currency(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	out := "$" + thousandSep(cents/100)
	if rest := cents % 100; rest != 0 {
		out += fmt.Sprintf(".%02d", rest)
	}
	if neg {
		return "-" + out
	}
	return out
}

func thousandSep(n int64) string {
	s := fmt.Sprintf("%d", n)
	var b strings.Builder
	for i, c := range s {
		if i != 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return b.String()
}

// Percent renders an integer percentage.
func Percent(p int) string {
	return fmt.Sprintf("%d%%", p)
}

// PhoneHref converts a display phone number into a tel: link. Ten-digit
// numbers are assumed to be North American and get a +1 prefix.
func PhoneHref(display string) string {
	var digits strings.Builder
	for _, r := range display {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	switch {
	case d == "":
		return ""
	case len(d) == 10:
		return "tel:+1" + d
	case len(d) == 11 && d[0] == '1':
		return "tel:+" + d
	default:
		return "tel:" + d
	}
}

// Year returns the calendar year of t, used in the copyright line.
func Year(t time.Time) int {
	if t.IsZero() {
		t = time.Now()
	}
	return t.Year()
}

// Stars returns a slice of n elements so templates can range over a rating.
func Stars(n int) []int {
	if n < 0 {
		n = 0
	}
	if n > 5 {
		n = 5
	}
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}
