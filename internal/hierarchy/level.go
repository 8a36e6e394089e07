package hierarchy

import (
	"strings"
	"unicode/utf8"
)

// Category codes have at most this many characters once dots are removed.
const categoryLength = 3

// MaxLevel is the deepest level the classifier reports.
const MaxLevel = 5

// Clean strips every dot from a code.
func Clean(code string) string {
	return strings.ReplaceAll(code, ".", "")
}

// cleanLength is the number of characters left once dots are removed.
func cleanLength(code string) int {
	return utf8.RuneCountInString(Clean(code))
}

// Level classifies a code into 1-5 from its dot-free length in characters.
// Any string is accepted, including the empty string.
func Level(code string) int {
	n := cleanLength(code)
	switch {
	case n <= 3:
		return 1
	case n <= 4:
		return 2
	case n <= 5:
		return 3
	case n <= 6:
		return 4
	default:
		return MaxLevel
	}
}

// IsCategory reports whether a code is root-level (dot-free length <= 3).
func IsCategory(code string) bool {
	return cleanLength(code) <= categoryLength
}

// Normalize rewrites a code to its dotted form: dots removed, then a single
// dot after the third character when the code is longer than a category.
func Normalize(code string) string {
	clean := Clean(strings.TrimSpace(code))
	return dotted(clean)
}

func dotted(clean string) string {
	runes := []rune(clean)
	if len(runes) <= categoryLength {
		return clean
	}
	return string(runes[:categoryLength]) + "." + string(runes[categoryLength:])
}
