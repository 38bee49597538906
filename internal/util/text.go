package util

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var reSpaces = regexp.MustCompile(`\s+`)

// NormalizeText puts s in NFC so composed and decomposed accents compare equal.
func NormalizeText(s string) string {
	return norm.NFC.String(s)
}

func NormalizeSpaces(input string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(input, " "))
}

// HeaderKey is the comparison form of a spreadsheet column header.
func HeaderKey(header string) string {
	return strings.ToLower(NormalizeSpaces(NormalizeText(header)))
}

// SplitSegments splits on sep, trims every part and drops the empty ones.
func SplitSegments(input, sep string) []string {
	parts := strings.Split(input, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func TruncateRunes(s string, n int) (string, bool) {
	if utf8.RuneCountInString(s) <= n {
		return s, false
	}
	runes := []rune(s)
	return string(runes[:n]), true
}
