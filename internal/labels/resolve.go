package labels

import (
	"sort"
	"strings"

	"grocerylens/internal/textutil"
)

// ResolveSpecific names the specific fruit or vegetable in result, if any.
// The first rule that produces a match wins:
//
//  1. the caller's hint (for example an object-detector label)
//  2. the highest scoring web entity that mentions a dictionary word
//  3. the highest scoring label that mentions a dictionary word
//  4. the first OCR line that mentions a dictionary word
//
// A hint that does not canonicalize falls through to the next rule.
func ResolveSpecific(result *AnnotationResult, hint string) (string, bool) {
	if strings.TrimSpace(hint) != "" {
		if name, ok := Canonicalize(hint); ok {
			return name, true
		}
	}
	if result == nil {
		return "", false
	}
	if name, ok := resolveAnnotations(result.WebEntities); ok {
		return name, true
	}
	if name, ok := resolveAnnotations(result.Labels); ok {
		return name, true
	}
	return resolveOCR(result.FullText)
}

func resolveAnnotations(annotations []Annotation) (string, bool) {
	if len(annotations) == 0 {
		return "", false
	}
	ordered := make([]Annotation, len(annotations))
	copy(ordered, annotations)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].scoreOr(0) > ordered[j].scoreOr(0)
	})
	for _, a := range ordered {
		text := textutil.NormalizeKey(a.Text)
		if text == "" || generic.has(text) || !mentionsDictionaryWord(text) {
			continue
		}
		if name, ok := Canonicalize(text); ok {
			return name, true
		}
	}
	return "", false
}

// mentionsDictionaryWord reports whether text equals, starts with, or
// contains a space-prefixed dictionary or alias word.
func mentionsDictionaryWord(text string) bool {
	for _, word := range matchWords {
		if strings.HasPrefix(text, word) || strings.Contains(text, " "+word) {
			return true
		}
	}
	return false
}

func resolveOCR(fullText string) (string, bool) {
	if strings.TrimSpace(fullText) == "" {
		return "", false
	}
	for _, raw := range ocrLineBreak.Split(fullText, -1) {
		line := textutil.NormalizeKey(raw)
		if line == "" || generic.has(line) {
			continue
		}
		if word, ok := findDictionaryWord(line); ok {
			return textutil.TitleWords(word), true
		}
	}
	return "", false
}
