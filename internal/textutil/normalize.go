package textutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormalizeKey trims, collapses internal whitespace and lowercases text.
// Two strings with equal keys are considered the same candidate.
func NormalizeKey(text string) string {
	return strings.ToLower(CollapseSpaces(text))
}

// CollapseSpaces trims text and replaces every run of whitespace with a single space.
func CollapseSpaces(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// TitleWords capitalizes the first letter of each word and lowercases the rest.
// Words are rejoined with single spaces.
func TitleWords(text string) string {
	collapsed := CollapseSpaces(text)
	if collapsed == "" {
		return ""
	}
	// cases.Caser is stateful, so each call builds its own.
	return cases.Title(language.Und).String(strings.ToLower(collapsed))
}
