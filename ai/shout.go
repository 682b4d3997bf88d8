package ai

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// MaxShout is the longest shout the game engine will display, in
// characters.
const MaxShout = 256

// SanitizeShout normalizes s to NFC and truncates it to MaxShout
// characters, cutting only between normalization segments so that a
// base character is never split from its combining marks.
func SanitizeShout(s string) string {
	if s == "" {
		return s
	}
	s = norm.NFC.String(strings.ToValidUTF8(s, ""))
	if utf8.RuneCountInString(s) <= MaxShout {
		return s
	}
	var it norm.Iter
	it.InitString(norm.NFC, s)
	var out strings.Builder
	n := 0
	for !it.Done() {
		seg := it.Next()
		c := utf8.RuneCount(seg)
		if n+c > MaxShout {
			break
		}
		out.Write(seg)
		n += c
	}
	return out.String()
}
