// Package pipeline contains the data-reconciliation primitives used by the
// batch cleanup scripts: activity-code normalization, category resolution,
// dedup planning, slug generation and the paged batch runner.
package pipeline

import (
	"strconv"
	"strings"
)

// minValidCode is the lowest integer treated as a real activity code. The
// registry uses 0000 and 0001 as "activité non déclarée" placeholders.
const minValidCode = 2

// NormalizeCode reduces a raw ACT_ECON/SCIAN code to its canonical 4-digit
// form. It returns ok=false when the input is empty, non-numeric, or a
// placeholder value, in which case the listing must carry no category.
func NormalizeCode(raw string) (string, bool) {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return "", false
	}

	n, err := strconv.Atoi(digits.String())
	if err != nil {
		// Longer runs of digits than an int can hold are garbage input.
		return "", false
	}
	if n < minValidCode {
		return "", false
	}

	s := strconv.Itoa(n)
	if len(s) > 4 {
		// Codes longer than 4 digits (SCIAN 6-digit) keep their leading
		// 4-digit class.
		s = s[:4]
	}
	return leftPad(s, 4), true
}

func leftPad(s string, width int) string {
	for len(s) < width {
		s = "0" + s
	}
	return s
}
