package ai

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeShout(t *testing.T) {
	cases := []struct {
		in, out string
	}{
		{"", ""},
		{"hello", "hello"},
		{"é", "\u00e9"},
		{"e\u0301", "\u00e9"},
		{"bad\xffutf8", "badutf8"},
		{strings.Repeat("x", MaxShout), strings.Repeat("x", MaxShout)},
		{strings.Repeat("x", MaxShout+1), strings.Repeat("x", MaxShout)},
		{strings.Repeat("\u00e9", 300), strings.Repeat("\u00e9", MaxShout)},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.out, SanitizeShout(tc.in))
	}
}

func TestSanitizeShoutKeepsMarks(t *testing.T) {
	// q + combining dot below has no precomposed form, so each pair is
	// two runes that must stay together.
	in := strings.Repeat("q\u0323", 200)
	out := SanitizeShout(in)
	assert.LessOrEqual(t, utf8.RuneCountInString(out), MaxShout)
	assert.Equal(t, strings.Repeat("q\u0323", MaxShout/2), out)
}
