package labels

import (
	"sort"

	"grocerylens/internal/textutil"
)

// Ranker orders product-name candidates drawn from an AnnotationResult.
// The zero value is not usable; construct with NewRanker or use Rank.
type Ranker struct {
	th Thresholds
}

// NewRanker returns a Ranker using the supplied thresholds.
func NewRanker(th Thresholds) *Ranker {
	return &Ranker{th: th}
}

// Thresholds returns the constants the ranker scores with.
func (r *Ranker) Thresholds() Thresholds {
	return r.th
}

var defaultRanker = NewRanker(DefaultThresholds())

// Rank returns up to five distinct product names, best first, using the
// default thresholds.
func Rank(result *AnnotationResult) []string {
	return defaultRanker.Rank(result)
}

// Rank returns the texts of Candidates in order.
func (r *Ranker) Rank(result *AnnotationResult) []string {
	candidates := r.Candidates(result)
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.Text
	}
	return out
}

// Candidates emits, deduplicates and sorts scored candidates.
//
// Candidates sharing a normalized key collapse to the highest scoring one;
// the survivor keeps its own casing. Equal scores keep the order in which
// their keys were first seen, which follows source priority.
func (r *Ranker) Candidates(result *AnnotationResult) []Candidate {
	if result == nil {
		return []Candidate{}
	}
	emitted := r.emit(result)

	index := make(map[string]int, len(emitted))
	unique := make([]Candidate, 0, len(emitted))
	for _, c := range emitted {
		key := textutil.NormalizeKey(c.Text)
		if key == "" {
			continue
		}
		if pos, ok := index[key]; ok {
			if c.Score > unique[pos].Score {
				unique[pos] = c
			}
			continue
		}
		index[key] = len(unique)
		unique = append(unique, c)
	}

	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].Score > unique[j].Score
	})

	limit := r.th.MaxResults
	if limit <= 0 || limit > len(unique) {
		limit = len(unique)
	}
	return unique[:limit]
}

// emit produces raw candidates in source priority order.
func (r *Ranker) emit(result *AnnotationResult) []Candidate {
	th := r.th
	out := make([]Candidate, 0, len(result.Logos)+len(result.WebEntities)+len(result.Objects)+len(result.Labels)+th.OCRMaxLines+1)

	for _, logo := range result.Logos {
		if logo.Text == "" {
			continue
		}
		out = append(out, Candidate{Text: logo.Text, Score: logo.scoreOr(th.LogoDefault), Source: SourceLogo})
	}

	if result.WebBestGuess != "" {
		out = append(out, Candidate{Text: result.WebBestGuess, Score: th.WebGuessScore, Source: SourceWebGuess})
	}

	for _, entity := range result.WebEntities {
		if entity.Text == "" {
			continue
		}
		// The floor sees a missing score as 0, so unscored entities only
		// survive a zero floor and then take the default.
		if entity.scoreOr(0) < th.WebEntityFloor {
			continue
		}
		out = append(out, Candidate{Text: entity.Text, Score: entity.scoreOr(th.WebEntityDefault), Source: SourceWebEntity})
	}

	for i, line := range ExtractOCRLines(result.FullText, th) {
		out = append(out, Candidate{
			Text:   line,
			Score:  th.OCRBaseScore - float64(i)*th.OCRScoreStep,
			Source: SourceOCR,
		})
	}

	for _, obj := range result.Objects {
		if obj.Text == "" {
			continue
		}
		out = append(out, Candidate{Text: obj.Text, Score: obj.scoreOr(th.UnscoredDefault) * th.ObjectWeight, Source: SourceObject})
	}

	for _, label := range result.Labels {
		if label.Text == "" {
			continue
		}
		out = append(out, Candidate{Text: label.Text, Score: label.scoreOr(th.UnscoredDefault) * th.LabelWeight, Source: SourceLabel})
	}
	return out
}
