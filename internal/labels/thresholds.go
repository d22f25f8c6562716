package labels

// Thresholds holds the scoring constants used by the Ranker.
// The values are empirical; DefaultThresholds returns the tuned set.
type Thresholds struct {
	LogoDefault      float64 // score for logos without one
	WebGuessScore    float64 // fixed score for the web best guess
	WebEntityFloor   float64 // entities below this are ignored
	WebEntityDefault float64 // score for entities without one
	UnscoredDefault  float64 // assumed score for unscored objects and labels
	ObjectWeight     float64
	LabelWeight      float64

	OCRMinLineLength int
	OCRMaxLineLength int
	OCRStopwordRatio float64 // lines with a higher share of stopwords are dropped
	OCRCapitalRatio  float64 // multi-token lines need at least this share capitalized
	OCRMaxLines      int
	OCRBaseScore     float64
	OCRScoreStep     float64
	MaxResults       int
}

// DefaultThresholds returns the stock scoring constants.
func DefaultThresholds() Thresholds {
	return Thresholds{
		LogoDefault:      0.85,
		WebGuessScore:    0.80,
		WebEntityFloor:   0.50,
		WebEntityDefault: 0.60,
		UnscoredDefault:  0.5,
		ObjectWeight:     0.6,
		LabelWeight:      0.5,
		OCRMinLineLength: 2,
		OCRMaxLineLength: 40,
		OCRStopwordRatio: 0.4,
		OCRCapitalRatio:  0.6,
		OCRMaxLines:      6,
		OCRBaseScore:     0.70,
		OCRScoreStep:     0.05,
		MaxResults:       5,
	}
}
