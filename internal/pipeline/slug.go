package pipeline

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultSlugMaxLen bounds generated slugs; long corporate names get cut.
const DefaultSlugMaxLen = 80

// Slugger derives URL-safe identifiers from display names, disambiguating
// in-run collisions with a numeric suffix. Storage-level uniqueness is still
// enforced by the write path; the in-run counter only avoids the common case.
type Slugger struct {
	maxLen int
	seen   map[string]int
}

func NewSlugger(maxLen int) *Slugger {
	if maxLen <= 0 {
		maxLen = DefaultSlugMaxLen
	}
	return &Slugger{
		maxLen: maxLen,
		seen:   make(map[string]int),
	}
}

// stripDiacritics decomposes accented characters and drops the combining
// marks, so « Café Déjà Vu » slugs to cafe-deja-vu.
var stripDiacritics = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Slugify converts a display name to its base slug: lowercase ASCII letters,
// digits and single hyphens, trimmed and truncated.
func Slugify(name string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultSlugMaxLen
	}

	ascii, _, err := transform.String(stripDiacritics, name)
	if err != nil {
		ascii = name
	}
	ascii = strings.ToLower(ascii)

	var b strings.Builder
	lastHyphen := true // suppress leading hyphen
	for _, r := range ascii {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	slug := strings.Trim(b.String(), "-")
	if len(slug) > maxLen {
		slug = strings.Trim(slug[:maxLen], "-")
	}
	return slug
}

// Next returns a slug for the given name that is unique within the run. The
// first occurrence of a base gets the base itself, later ones get -2, -3, …
func (s *Slugger) Next(name string) string {
	base := Slugify(name, s.maxLen)
	if base == "" {
		base = "entreprise"
	}

	s.seen[base]++
	if n := s.seen[base]; n > 1 {
		return fmt.Sprintf("%s-%d", base, n)
	}
	return base
}
