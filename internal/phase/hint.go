package phase

import (
	"strings"
	"unicode/utf8"
)

// MaxHints allows about one hint per three letters, between one and three.
func MaxHints(word string) int {
	return min(max(utf8.RuneCountInString(word)/3, 1), 3)
}

// Reveal replaces the first level letters of input with the word's own
// letters in lowercase and keeps the rest of input.
func Reveal(word, input string, level int) string {
	w := []rune(word)
	level = min(max(level, 0), len(w))

	in := []rune(input)
	var rest string
	if len(in) > level {
		rest = string(in[level:])
	}
	return strings.ToLower(string(w[:level])) + rest
}
