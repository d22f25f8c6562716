package labels

import (
	"strings"
	"unicode"

	"grocerylens/internal/textutil"
)

// Canonicalize maps a free-text produce name to its Title-Cased dictionary
// entry. It folds regular plurals, applies the alias table and rejects
// generic terms. The second result is false when no specific entry matches.
//
//	Canonicalize("bananas")   // "Banana", true
//	Canonicalize("capsicum")  // "Bell Pepper", true
//	Canonicalize("fruit")     // "", false
func Canonicalize(word string) (string, bool) {
	w := singularForm(textutil.NormalizeKey(word))
	if w == "" {
		return "", false
	}
	if alias, ok := aliases[w]; ok {
		w = alias
	}
	if generic.has(w) {
		return "", false
	}
	if fruits.has(w) || vegetables.has(w) {
		return textutil.TitleWords(w), true
	}
	if match, ok := findDictionaryWord(w); ok {
		return textutil.TitleWords(match), true
	}
	return "", false
}

// singularForm strips a plural suffix when the singular is a known word.
func singularForm(w string) string {
	known := func(s string) bool {
		return fruits.has(s) || vegetables.has(s) || generic.has(s) || aliases[s] != ""
	}
	if known(w) {
		return w
	}
	switch {
	case strings.HasSuffix(w, "ies") && known(strings.TrimSuffix(w, "ies")+"y"):
		return strings.TrimSuffix(w, "ies") + "y"
	case strings.HasSuffix(w, "es") && known(strings.TrimSuffix(w, "es")):
		return strings.TrimSuffix(w, "es")
	case strings.HasSuffix(w, "s") && known(strings.TrimSuffix(w, "s")):
		return strings.TrimSuffix(w, "s")
	}
	return w
}

// findDictionaryWord returns the dictionary entry mentioned earliest in text,
// preferring the longest entry at the same position. Mentions must start on a
// word boundary but may run on into a longer word ("lemonade" mentions
// lemon). Alias spellings resolve to their entry.
func findDictionaryWord(text string) (string, bool) {
	best, bestPos := "", -1
	for _, word := range matchWords {
		pos := wordIndex(text, word)
		if pos < 0 {
			continue
		}
		// matchWords is longest first, so an equal position never replaces.
		if bestPos < 0 || pos < bestPos {
			best, bestPos = word, pos
		}
	}
	if bestPos < 0 {
		return "", false
	}
	if alias, ok := aliases[best]; ok {
		best = alias
	}
	return best, true
}

func wordIndex(text, word string) int {
	offset := 0
	for {
		i := strings.Index(text[offset:], word)
		if i < 0 {
			return -1
		}
		start := offset + i
		if boundaryBefore(text, start) {
			return start
		}
		offset = start + 1
	}
}

func boundaryBefore(text string, pos int) bool {
	if pos == 0 {
		return true
	}
	return !isWordByte(text[pos-1])
}

func isWordByte(b byte) bool {
	return b >= 0x80 || unicode.IsLetter(rune(b)) || unicode.IsDigit(rune(b))
}
