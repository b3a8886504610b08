package suggest

import (
	"unicode"
)

// CapitalPositions marks the runes of s that are upper case.
func CapitalPositions(s string) []bool {
	var positions []bool
	i := 0
	for _, r := range s {
		if unicode.IsUpper(r) {
			if positions == nil {
				positions = make([]bool, len(s))
			}
			positions[i] = true
		}
		i++
	}
	return positions
}

// ApplyCapitalization upper-cases the runes of word marked in
// capitalPositions.
func ApplyCapitalization(word string, capitalPositions []bool) string {
	if len(capitalPositions) == 0 {
		return word
	}

	wordRunes := []rune(word)
	for i := 0; i < len(wordRunes) && i < len(capitalPositions); i++ {
		if capitalPositions[i] {
			wordRunes[i] = unicode.ToUpper(wordRunes[i])
		}
	}
	return string(wordRunes)
}
