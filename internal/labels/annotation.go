package labels

// Annotation is one scored detection from a vision source.
// A nil Score means the vendor omitted it and the per-source default applies.
type Annotation struct {
	Text  string   `json:"text"`
	Score *float64 `json:"score,omitempty"`
}

// Scored builds an Annotation with an explicit score.
func Scored(text string, score float64) Annotation {
	return Annotation{Text: text, Score: &score}
}

// Unscored builds an Annotation without a score.
func Unscored(text string) Annotation {
	return Annotation{Text: text}
}

func (a Annotation) scoreOr(fallback float64) float64 {
	if a.Score == nil {
		return fallback
	}
	return *a.Score
}

// AnnotationResult is the vendor-neutral shape of one image analysis.
// Empty strings and nil slices mean the source produced nothing.
type AnnotationResult struct {
	Logos        []Annotation `json:"logos,omitempty"`
	WebBestGuess string       `json:"webBestGuess,omitempty"`
	WebEntities  []Annotation `json:"webEntities,omitempty"`
	FullText     string       `json:"fullText,omitempty"`
	Objects      []Annotation `json:"objects,omitempty"`
	Labels       []Annotation `json:"labels,omitempty"`
}

// IsEmpty reports whether the result carries no usable signal.
func (r *AnnotationResult) IsEmpty() bool {
	if r == nil {
		return true
	}
	return len(r.Logos) == 0 &&
		r.WebBestGuess == "" &&
		len(r.WebEntities) == 0 &&
		r.FullText == "" &&
		len(r.Objects) == 0 &&
		len(r.Labels) == 0
}

// Source identifies which part of the analysis produced a candidate.
type Source int

const (
	SourceLogo Source = iota
	SourceWebGuess
	SourceWebEntity
	SourceOCR
	SourceObject
	SourceLabel
)

func (s Source) String() string {
	switch s {
	case SourceLogo:
		return "logo"
	case SourceWebGuess:
		return "web-guess"
	case SourceWebEntity:
		return "web-entity"
	case SourceOCR:
		return "ocr"
	case SourceObject:
		return "object"
	case SourceLabel:
		return "label"
	default:
		return "unknown"
	}
}

// MarshalText renders the source name in JSON output.
func (s Source) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Candidate is a scored product name produced by a single ranking call.
type Candidate struct {
	Text   string  `json:"text"`
	Score  float64 `json:"score"`
	Source Source  `json:"source"`
}
