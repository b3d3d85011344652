package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultCategoryID uint = 99

func newTestResolver() *Resolver {
	return NewResolver(map[string]uint{
		"4217": 1,
		"4210": 2,
		"4200": 3,
		"0100": 4,
	}, defaultCategoryID)
}

func TestResolver_ExactMatch(t *testing.T) {
	r := newTestResolver()

	id, fallback := r.Resolve("4217")
	assert.Equal(t, uint(1), id)
	assert.False(t, fallback)
	assert.Equal(t, 0, r.FallbackCount())
}

func TestResolver_PrefixLadder(t *testing.T) {
	tests := []struct {
		name string
		code string
		want uint
	}{
		// 4218 → no exact → 4210 (3-digit prefix padded)
		{name: "3-digit prefix", code: "4218", want: 2},
		// 4295 → no 4295, no 4290 → 4200 (2-digit prefix padded)
		{name: "2-digit prefix", code: "4295", want: 3},
		// 0171 → no exact, no 0170 → 0100 (spec scenario)
		{name: "rounds to century bucket", code: "0171", want: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestResolver()
			id, fallback := r.Resolve(tt.code)
			assert.Equal(t, tt.want, id)
			assert.False(t, fallback)
		})
	}
}

func TestResolver_FallbackCountsOncePerMiss(t *testing.T) {
	r := newTestResolver()

	id, fallback := r.Resolve("9911")
	assert.Equal(t, defaultCategoryID, id)
	assert.True(t, fallback)
	assert.Equal(t, 1, r.FallbackCount())

	r.Resolve("9912")
	assert.Equal(t, 2, r.FallbackCount())
}

func TestResolver_ResolveRaw(t *testing.T) {
	code4217 := "4217"
	placeholder := "0001"
	garbage := "N/A"

	tests := []struct {
		name string
		raw  *string
		want *uint
	}{
		{name: "nil raw code clears category", raw: nil, want: nil},
		{name: "placeholder clears category, never defaults", raw: &placeholder, want: nil},
		{name: "non numeric clears category", raw: &garbage, want: nil},
		{name: "valid code resolves", raw: &code4217, want: ptr(uint(1))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestResolver()
			got := r.ResolveRaw(tt.raw)
			if tt.want == nil {
				assert.Nil(t, got)
				// Clearing is not a fallback.
				assert.Equal(t, 0, r.FallbackCount())
			} else {
				require.NotNil(t, got)
				assert.Equal(t, *tt.want, *got)
			}
		})
	}
}

func TestResolver_Counters(t *testing.T) {
	r := newTestResolver()
	r.Resolve("4217") // exact
	r.Resolve("4218") // prefix
	r.Resolve("9911") // fallback

	counters := r.Counters()
	assert.Equal(t, 1, counters["exact"])
	assert.Equal(t, 1, counters["prefix"])
	assert.Equal(t, 1, counters["fallback"])
}

func ptr[T any](v T) *T {
	return &v
}
