package utils

import "strings"

// WordSet holds the words already listed in one result, compared without
// case. It is not safe for concurrent use.
type WordSet map[string]struct{}

// NewWordSet returns a set holding the given words, typically the input that
// should not be suggested back.
func NewWordSet(words ...string) WordSet {
	s := make(WordSet, 16)
	for _, w := range words {
		s[strings.ToLower(w)] = struct{}{}
	}
	return s
}

// Add records word and reports whether it was not in the set yet.
func (s WordSet) Add(word string) bool {
	key := strings.ToLower(word)
	if _, ok := s[key]; ok {
		return false
	}
	s[key] = struct{}{}
	return true
}
