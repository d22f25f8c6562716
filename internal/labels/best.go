package labels

import "strings"

// PickBest returns the single most trustworthy label without building the
// full candidate list: a confident logo, else the web best guess, else a
// strong web entity, else the first OCR line, else a confident object, else
// a confident generic label.
func PickBest(result *AnnotationResult) (string, bool) {
	if result == nil {
		return "", false
	}
	if logo, ok := top(result.Logos); ok && logo.scoreOr(0) >= 0.5 {
		return logo.Text, true
	}
	if result.WebBestGuess != "" {
		return result.WebBestGuess, true
	}
	var strong []Annotation
	for _, e := range result.WebEntities {
		if e.scoreOr(0) >= 0.6 {
			strong = append(strong, e)
		}
	}
	if entity, ok := top(strong); ok {
		return entity.Text, true
	}
	for _, raw := range ocrLineBreak.Split(result.FullText, -1) {
		if line := strings.TrimSpace(raw); len([]rune(line)) > 1 {
			return line, true
		}
	}
	if obj, ok := top(result.Objects); ok && obj.scoreOr(0) >= 0.6 {
		return obj.Text, true
	}
	if label, ok := top(result.Labels); ok && label.scoreOr(0) >= 0.7 {
		return label.Text, true
	}
	return "", false
}

// top returns the highest scoring annotation with text; ties keep input order.
func top(annotations []Annotation) (Annotation, bool) {
	var best Annotation
	found := false
	for _, a := range annotations {
		if a.Text == "" {
			continue
		}
		if !found || a.scoreOr(0) > best.scoreOr(0) {
			best, found = a, true
		}
	}
	return best, found
}
