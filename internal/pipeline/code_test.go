package pipeline

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCode(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   string
		wantOK bool
	}{
		{name: "plain 4-digit code", raw: "4217", want: "4217", wantOK: true},
		{name: "short code is padded", raw: "171", want: "0171", wantOK: true},
		{name: "leading zeros kept", raw: "0171", want: "0171", wantOK: true},
		{name: "6-digit SCIAN keeps class", raw: "811192", want: "8111", wantOK: true},
		{name: "dashes stripped", raw: "42-17", want: "4217", wantOK: true},
		{name: "letters stripped", raw: "SCIAN 4217", want: "4217", wantOK: true},
		{name: "empty string", raw: "", wantOK: false},
		{name: "non numeric", raw: "N/A", wantOK: false},
		{name: "placeholder 0001", raw: "0001", wantOK: false},
		{name: "placeholder 0000", raw: "0000", wantOK: false},
		{name: "placeholder 1", raw: "1", wantOK: false},
		{name: "minimum valid code", raw: "2", want: "0002", wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeCode(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			} else {
				assert.Empty(t, got)
			}
		})
	}
}

func TestNormalizeCode_OutputShape(t *testing.T) {
	pattern := regexp.MustCompile(`^[0-9]{4}$`)
	inputs := []string{"1", "42", "171", "4217", "811192", "x9y8z7", "  98-76  ", "", "----", "9999999999999999999999"}

	for _, raw := range inputs {
		got, ok := NormalizeCode(raw)
		if ok {
			assert.Regexp(t, pattern, got, "raw=%q", raw)
		} else {
			assert.Empty(t, got, "raw=%q", raw)
		}
	}
}
