package labels

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// ocrStopwords are packaging words that say nothing about the product.
var ocrStopwords = map[string]struct{}{
	"tea":     {},
	"green":   {},
	"black":   {},
	"carton":  {},
	"bottle":  {},
	"box":     {},
	"drink":   {},
	"organic": {},
	"product": {},
	"net":     {},
	"weight":  {},
	"ml":      {},
	"g":       {},
}

var (
	ocrLineBreak    = regexp.MustCompile(`\r?\n`)
	ocrDisallowed   = regexp.MustCompile(`[^A-Za-z0-9 \-]`)
	ocrSingleToken  = regexp.MustCompile(`^(?:[A-Z][a-z]+|[A-Z]{3,})$`)
	ocrCapitalStart = regexp.MustCompile(`^[A-Z]`)
)

// IsOCRStopword reports whether token (any case) is a packaging stopword.
func IsOCRStopword(token string) bool {
	_, ok := ocrStopwords[strings.ToLower(token)]
	return ok
}

// ExtractOCRLines returns the OCR lines that look like brand or product names,
// in their original order and trimmed, capped at th.OCRMaxLines.
func ExtractOCRLines(fullText string, th Thresholds) []string {
	if strings.TrimSpace(fullText) == "" {
		return nil
	}
	var accepted []string
	for _, raw := range ocrLineBreak.Split(fullText, -1) {
		line := strings.TrimSpace(raw)
		n := utf8.RuneCountInString(line)
		if n < th.OCRMinLineLength || n > th.OCRMaxLineLength {
			continue
		}
		if !acceptOCRLine(line, th) {
			continue
		}
		accepted = append(accepted, line)
		if th.OCRMaxLines > 0 && len(accepted) == th.OCRMaxLines {
			break
		}
	}
	return accepted
}

func acceptOCRLine(line string, th Thresholds) bool {
	pure := strings.TrimSpace(ocrDisallowed.ReplaceAllString(line, ""))
	if pure == "" {
		return false
	}
	tokens := strings.Fields(pure)

	stop := 0
	for _, token := range tokens {
		if IsOCRStopword(token) {
			stop++
		}
	}
	if float64(stop)/float64(len(tokens)) > th.OCRStopwordRatio {
		return false
	}

	if len(tokens) == 1 {
		return !IsOCRStopword(tokens[0]) && ocrSingleToken.MatchString(pure)
	}

	capitalized := 0
	for _, token := range tokens {
		if ocrCapitalStart.MatchString(token) {
			capitalized++
		}
	}
	return float64(capitalized)/float64(len(tokens)) >= th.OCRCapitalRatio
}
