package scan

import (
	"context"
	"log/slog"
	"net/url"
	"sort"

	"grocerylens/internal/grocery"
	"grocerylens/internal/labels"
	"grocerylens/internal/logging"
	"grocerylens/internal/services"
	"grocerylens/internal/textutil"
)

// DefaultMinSimilarity is the cosine similarity an item name needs to count
// as a match when the caller does not configure one.
const DefaultMinSimilarity = 0.5

const searchBaseURL = "https://www.google.com/search"

// Annotator produces an annotation for raw image bytes.
type Annotator interface {
	Annotate(ctx context.Context, image []byte) (*labels.AnnotationResult, error)
}

// ItemLister lists grocery items.
type ItemLister interface {
	List(ctx context.Context, filter grocery.ListFilter) ([]*grocery.Item, error)
}

// Match links a scan to an open list item.
type Match struct {
	Item  *grocery.Item `json:"item"`
	Label string        `json:"label"`
	Score float64       `json:"score"`
	// Exact is set when the resolved specific item equals the item name.
	Exact bool `json:"exact"`
}

// Result is everything a scan produced.
type Result struct {
	Candidates []labels.Candidate `json:"candidates"`
	Labels     []string           `json:"labels"`
	Specific   string             `json:"specific,omitempty"`
	Category   string             `json:"category,omitempty"`
	Best       string             `json:"best,omitempty"`
	// Detected is the label shown to the user: the top ranked label, or the
	// single best label when ranking produced nothing.
	Detected  string                   `json:"detected,omitempty"`
	SearchURL string                   `json:"searchUrl,omitempty"`
	Matches   []Match                  `json:"matches,omitempty"`
	Source    *labels.AnnotationResult `json:"annotation,omitempty"`
}

// Found reports whether anything was recognized.
func (r Result) Found() bool {
	return r.Detected != "" || r.Specific != ""
}

// Scanner runs the scan pipeline.
type Scanner struct {
	annotator     Annotator
	items         ItemLister
	ranker        *labels.Ranker
	logger        *slog.Logger
	minSimilarity float64
}

// Option customizes a Scanner.
type Option func(*Scanner)

// WithItems enables matching against open list items.
func WithItems(items ItemLister) Option {
	return func(s *Scanner) {
		s.items = items
	}
}

// WithRanker overrides the default ranker.
func WithRanker(r *labels.Ranker) Option {
	return func(s *Scanner) {
		if r != nil {
			s.ranker = r
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scanner) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMinSimilarity sets the match threshold. Values outside (0,1] keep the default.
func WithMinSimilarity(v float64) Option {
	return func(s *Scanner) {
		if v > 0 && v <= 1 {
			s.minSimilarity = v
		}
	}
}

// New constructs a Scanner. annotator may be nil when only Analyze is used.
func New(annotator Annotator, opts ...Option) *Scanner {
	s := &Scanner{
		annotator:     annotator,
		ranker:        labels.NewRanker(labels.DefaultThresholds()),
		logger:        logging.NewNop(),
		minSimilarity: DefaultMinSimilarity,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.NewComponentLogger(s.logger, "scan")
	return s
}

// Scan annotates image and analyzes the result.
func (s *Scanner) Scan(ctx context.Context, image []byte, hint string) (Result, error) {
	if s.annotator == nil {
		return Result{}, services.Wrap(services.ErrConfiguration, "scan", "annotate", "no annotator configured", nil)
	}
	annotation, err := s.annotator.Annotate(ctx, image)
	if err != nil {
		return Result{}, err
	}
	return s.Analyze(ctx, annotation, hint)
}

// Analyze ranks and resolves a prefetched annotation and matches it against
// the list when an ItemLister is configured.
func (s *Scanner) Analyze(ctx context.Context, annotation *labels.AnnotationResult, hint string) (Result, error) {
	result := Analyze(s.ranker, annotation, hint)
	logger := logging.WithContext(ctx, s.logger)

	if s.items != nil && result.Found() {
		items, err := s.items.List(ctx, grocery.ListFilter{Status: grocery.StatusOpen})
		if err != nil {
			return Result{}, err
		}
		result.Matches = MatchItems(items, result, s.minSimilarity)
	}

	logger.Debug("scan analyzed",
		slog.String("detected", result.Detected),
		slog.String("specific", result.Specific),
		slog.Int("candidates", len(result.Candidates)),
		slog.Int("matches", len(result.Matches)),
	)
	return result, nil
}

// Analyze is the pure part of the pipeline: rank, resolve, pick best.
// A nil ranker uses the default thresholds.
func Analyze(ranker *labels.Ranker, annotation *labels.AnnotationResult, hint string) Result {
	if ranker == nil {
		ranker = labels.NewRanker(labels.DefaultThresholds())
	}
	candidates := ranker.Candidates(annotation)
	result := Result{
		Candidates: candidates,
		Labels:     make([]string, 0, len(candidates)),
		Source:     annotation,
	}
	for _, c := range candidates {
		result.Labels = append(result.Labels, c.Text)
	}
	if specific, ok := labels.ResolveSpecific(annotation, hint); ok {
		result.Specific = specific
		result.Category = labels.Category(specific)
	}
	if best, ok := labels.PickBest(annotation); ok {
		result.Best = best
	}
	switch {
	case len(result.Labels) > 0:
		result.Detected = result.Labels[0]
	default:
		result.Detected = result.Best
	}
	if result.Detected != "" {
		result.SearchURL = SearchURL(result.Detected)
	}
	return result
}

// SearchURL builds a web search link for label.
func SearchURL(label string) string {
	return searchBaseURL + "?" + url.Values{"q": {label}}.Encode()
}

// MatchItems scores each item against the scan's labels. The resolved
// specific item matching an item name exactly (ignoring case and spacing)
// always matches with score 1; otherwise the best cosine similarity over the
// labels must reach minSimilarity. Results are ordered exact first, then by
// score, then by list order.
func MatchItems(items []*grocery.Item, result Result, minSimilarity float64) []Match {
	if len(items) == 0 {
		return nil
	}
	texts := make([]string, 0, len(result.Labels)+2)
	if result.Specific != "" {
		texts = append(texts, result.Specific)
	}
	texts = append(texts, result.Labels...)
	if result.Best != "" {
		texts = append(texts, result.Best)
	}
	prints := make([]*textutil.Fingerprint, len(texts))
	for i, text := range texts {
		prints[i] = textutil.NewFingerprint(text)
	}
	specificKey := textutil.NormalizeKey(result.Specific)

	var matches []Match
	for _, item := range items {
		if item == nil {
			continue
		}
		if specificKey != "" && textutil.NormalizeKey(item.Name) == specificKey {
			matches = append(matches, Match{Item: item, Label: result.Specific, Score: 1, Exact: true})
			continue
		}
		name := textutil.NewFingerprint(item.Name)
		best := Match{Item: item}
		for i, fp := range prints {
			if score := textutil.CosineSimilarity(name, fp); score > best.Score {
				best.Score = score
				best.Label = texts[i]
			}
		}
		if best.Score >= minSimilarity && best.Score > 0 {
			matches = append(matches, best)
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Exact != matches[j].Exact {
			return matches[i].Exact
		}
		return matches[i].Score > matches[j].Score
	})
	return matches
}
