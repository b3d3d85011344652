package util

import (
	"math/rand"
	"strconv"
	"time"
)

const slugSuffixAlphabet = "abcdefghjkmnpqrstuvwxyz23456789"

// RandomSlugSuffix returns a short random suffix used to disambiguate a slug
// after a uniqueness-constraint violation.
func RandomSlugSuffix() string {
	b := make([]byte, 4)
	for i := range b {
		b[i] = slugSuffixAlphabet[rand.Intn(len(slugSuffixAlphabet))]
	}
	return string(b)
}

// TimestampSuffix returns a millisecond-resolution suffix for last-resort
// disambiguation.
func TimestampSuffix() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 36)
}
