package classify

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// fold lowercases text for keyword matching. A fresh Caser is used per call
// because cases.Caser is not safe for concurrent use.
func fold(text string) string {
	return cases.Lower(language.Und).String(text)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}

// boundaryBefore reports whether a word boundary sits at byte offset i of s
// given that the character at i is first.
func boundaryBefore(s string, i int, first rune) bool {
	if i == 0 {
		return isWordRune(first)
	}
	prev, _ := utf8.DecodeLastRuneInString(s[:i])
	return isWordRune(prev) != isWordRune(first)
}

// boundaryAfter reports whether a word boundary sits at byte offset end of s
// given that last is the character just before it.
func boundaryAfter(s string, end int, last rune) bool {
	if end >= len(s) {
		return isWordRune(last)
	}
	next, _ := utf8.DecodeRuneInString(s[end:])
	return isWordRune(next) != isWordRune(last)
}

// CountWord counts non-overlapping whole-word occurrences of keyword in text.
// Both arguments must already be folded. Word characters are Unicode letters,
// digits, marks and '_', so "api" does not match inside "apiário".
func CountWord(text, keyword string) int {
	if keyword == "" || len(keyword) > len(text) {
		return 0
	}
	first, _ := utf8.DecodeRuneInString(keyword)
	last, _ := utf8.DecodeLastRuneInString(keyword)

	count := 0
	for i := 0; i <= len(text)-len(keyword); {
		j := strings.Index(text[i:], keyword)
		if j < 0 {
			break
		}
		start := i + j
		end := start + len(keyword)
		if boundaryBefore(text, start, first) && boundaryAfter(text, end, last) {
			count++
			i = end
			continue
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		i = start + size
	}
	return count
}

// HasWordStart reports whether a word boundary precedes byte offset i of s.
func HasWordStart(s string, i int) bool {
	first, _ := utf8.DecodeRuneInString(s[i:])
	return boundaryBefore(s, i, first)
}
