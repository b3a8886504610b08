package utils

import (
	"unicode"
	"unicode/utf8"
)

// minRepeat is the length from which a query made of one repeated
// character is ignored, "aaa" or "www".
const minRepeat = 3

// IsValidInput reports whether a query is worth looking up. Dictionaries
// hold arbitrary bytes, so punctuation, digits and bytes that are not UTF-8
// are accepted; a query needs one letter or one such byte, no control
// character, and must not be a single repeated character.
func IsValidInput(s string) bool {
	if s == "" {
		return false
	}
	wordy := false
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size
		switch {
		case r == utf8.RuneError && size == 1:
			// A byte of an 8-bit encoding.
			wordy = true
		case unicode.IsLetter(r), unicode.IsMark(r):
			wordy = true
		case unicode.IsControl(r):
			return false
		}
	}
	return wordy && !IsRepetitive(s)
}

// IsRepetitive reports whether s is one character repeated minRepeat times
// or more.
func IsRepetitive(s string) bool {
	first, size := utf8.DecodeRuneInString(s)
	n := 1
	for _, r := range s[size:] {
		if r != first {
			return false
		}
		n++
	}
	return n >= minRepeat
}
