// Package normalize converts locale-formatted text found in vendor documents
// into canonical values.
//
// Every converter works from an explicit table of accepted shapes and fails
// closed: text that does not match a known shape is an error, never a guess
// or a default. The package holds no state.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// zero-width runes that survive copy/paste from the vendor site
var invisible = map[rune]bool{
	'\u200b': true, // zero width space
	'\u200c': true,
	'\u200d': true,
	'\u2060': true, // word joiner
	'\ufeff': true, // byte order mark
}

// Text folds full-width and half-width forms to their canonical width,
// recomposes the voiced marks half-width katakana leaves behind, and
// collapses every run of Unicode whitespace (ideographic space, NBSP, tabs,
// newlines) to a single ASCII space.
func Text(s string) string {
	s = norm.NFC.String(width.Fold.String(s))
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		if invisible[r] {
			continue
		}
		if unicode.IsSpace(r) {
			space = true
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte(' ')
		}
		space = false
		b.WriteRune(r)
	}
	return b.String()
}

// Label returns the comparison key for a field or column label: Text with
// all spaces removed, trailing colons dropped and ASCII lowered, so
// "注 文 日：" and "注文日" compare equal.
func Label(s string) string {
	s = strings.ReplaceAll(Text(s), " ", "")
	return strings.ToLower(strings.TrimRight(s, ":"))
}

// SplitLabel splits inline "label: value" text. The label must be one of
// labels and be followed by a colon, a space or the end of the text, so
// "合計" does not match "合計金額". After a space, a label ending in a Latin
// letter does not match a word, so "Tax" does not match "Tax Rate: 10%". It
// returns the value and whether a label matched.
func SplitLabel(s string, labels []string) (string, bool) {
	text := []rune(Text(s))
	for _, l := range labels {
		key := []rune(Label(l))
		if len(key) == 0 {
			continue
		}
		i, matched := 0, true
		for _, r := range key {
			for i < len(text) && text[i] == ' ' {
				i++
			}
			if i >= len(text) || unicode.ToLower(text[i]) != r {
				matched = false
				break
			}
			i++
		}
		if !matched {
			continue
		}
		tail := string(text[i:])
		trimmed := strings.TrimLeft(tail, " ")
		if !strings.HasPrefix(trimmed, ":") && tail != "" {
			if !strings.HasPrefix(tail, " ") || (endsInLetter(key) && startsWithLetter(trimmed)) {
				continue
			}
		}
		return strings.TrimSpace(strings.TrimLeft(trimmed, ":")), true
	}
	return "", false
}

func endsInLetter(key []rune) bool {
	return unicode.Is(unicode.Latin, key[len(key)-1])
}

func startsWithLetter(s string) bool {
	for _, r := range s {
		return unicode.IsLetter(r)
	}
	return false
}
