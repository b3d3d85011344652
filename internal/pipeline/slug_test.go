package pipeline

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "accents stripped", in: "Café Déjà Vu!!", want: "cafe-deja-vu"},
		{name: "mixed case", in: "Les Entreprises BÉLANGER", want: "les-entreprises-belanger"},
		{name: "punctuation runs collapse", in: "A & B -- Plomberie, Inc.", want: "a-b-plomberie-inc"},
		{name: "numbers kept", in: "9171-2342 Québec inc.", want: "9171-2342-quebec-inc"},
		{name: "leading trailing junk", in: "  ***Dépanneur***  ", want: "depanneur"},
		{name: "apostrophes", in: "L'Érablière d'Oka", want: "l-erabliere-d-oka"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Slugify(tt.in, 0)
			assert.Equal(t, tt.want, got)
			assert.Regexp(t, slugPattern, got)
		})
	}
}

func TestSlugify_MaxLength(t *testing.T) {
	long := strings.Repeat("restaurant ", 20)

	got := Slugify(long, 50)
	assert.LessOrEqual(t, len(got), 50)
	assert.Regexp(t, slugPattern, got)
	// Truncation must not leave a trailing hyphen.
	assert.False(t, strings.HasSuffix(got, "-"))
}

func TestSlugger_CollisionCounter(t *testing.T) {
	s := NewSlugger(0)

	first := s.Next("Café Déjà Vu")
	second := s.Next("Café Déjà Vu")
	third := s.Next("café déjà vu!!") // same base after normalization

	assert.Equal(t, "cafe-deja-vu", first)
	assert.Equal(t, "cafe-deja-vu-2", second)
	assert.Equal(t, "cafe-deja-vu-3", third)
}

func TestSlugger_EmptyName(t *testing.T) {
	s := NewSlugger(0)

	assert.Equal(t, "entreprise", s.Next("***"))
	assert.Equal(t, "entreprise-2", s.Next(""))
}
