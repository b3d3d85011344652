package pipeline

// Resolver maps normalized activity codes to category ids. Misses are a
// normal, counted outcome; Resolve never fails.
//
// Lookup policy: exact 4-digit match, then the 3-digit prefix padded with a
// trailing zero, then the 2-digit prefix padded with two zeros, and finally
// the default bucket. `4217` is tried as 4217, 4210, 4200.
type Resolver struct {
	mappings          map[string]uint
	defaultCategoryID uint

	exactHits    int
	prefixHits   int
	fallbackHits int
}

// NewResolver builds a resolver over a code → category id table.
func NewResolver(mappings map[string]uint, defaultCategoryID uint) *Resolver {
	return &Resolver{
		mappings:          mappings,
		defaultCategoryID: defaultCategoryID,
	}
}

// Resolve returns the category id for a normalized 4-digit code, and whether
// the default bucket was used.
func (r *Resolver) Resolve(code string) (categoryID uint, fallback bool) {
	if id, ok := r.mappings[code]; ok {
		r.exactHits++
		return id, false
	}

	for prefixLen := 3; prefixLen >= 2; prefixLen-- {
		if len(code) < prefixLen {
			break
		}
		padded := code[:prefixLen]
		for len(padded) < 4 {
			padded += "0"
		}
		if padded == code {
			continue
		}
		if id, ok := r.mappings[padded]; ok {
			r.prefixHits++
			return id, false
		}
	}

	r.fallbackHits++
	return r.defaultCategoryID, true
}

// ResolveRaw combines normalization and resolution. A raw code that
// normalizes to nothing yields a nil category id: the listing's category must
// be cleared, never defaulted.
func (r *Resolver) ResolveRaw(raw *string) *uint {
	if raw == nil {
		return nil
	}
	code, ok := NormalizeCode(*raw)
	if !ok {
		return nil
	}
	id, _ := r.Resolve(code)
	return &id
}

// FallbackCount reports how many resolutions landed in the default bucket.
func (r *Resolver) FallbackCount() int {
	return r.fallbackHits
}

// Counters reports resolution statistics for the run summary.
func (r *Resolver) Counters() map[string]int {
	return map[string]int{
		"exact":    r.exactHits,
		"prefix":   r.prefixHits,
		"fallback": r.fallbackHits,
	}
}
