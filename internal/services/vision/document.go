package vision

import (
	"encoding/json"

	"grocerylens/internal/labels"
)

// document is a JSON object whose fields are decoded one at a time, so a
// field with an unexpected type reads as absent instead of failing the
// whole payload.
type document map[string]json.RawMessage

func (d document) has(key string) bool {
	_, ok := d[key]
	return ok
}

func (d document) object(key string) document {
	raw, ok := d[key]
	if !ok {
		return nil
	}
	var out document
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

// list returns the elements of an array field that are themselves objects.
func (d document) list(key string) []document {
	raw, ok := d[key]
	if !ok {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	out := make([]document, 0, len(items))
	for _, item := range items {
		var obj document
		if err := json.Unmarshal(item, &obj); err == nil && obj != nil {
			out = append(out, obj)
		}
	}
	return out
}

func (d document) str(key string) string {
	var s string
	if raw, ok := d[key]; ok {
		_ = json.Unmarshal(raw, &s)
	}
	return s
}

func (d document) integer(key string) int {
	var n int
	if raw, ok := d[key]; ok {
		_ = json.Unmarshal(raw, &n)
	}
	return n
}

// score returns nil when the field is missing or not a number.
func (d document) score(key string) *float64 {
	raw, ok := d[key]
	if !ok {
		return nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil
	}
	return &f
}

func (d document) annotateResponse() AnnotateResponse {
	var out AnnotateResponse
	for _, item := range d.list("responses") {
		out.Responses = append(out.Responses, item.imageResponse())
	}
	return out
}

func (d document) imageResponse() ImageResponse {
	resp := ImageResponse{
		LogoAnnotations:  d.entities("logoAnnotations"),
		LabelAnnotations: d.entities("labelAnnotations"),
	}
	for _, obj := range d.list("localizedObjectAnnotations") {
		resp.LocalizedObjectAnnotations = append(resp.LocalizedObjectAnnotations,
			ObjectAnnotation{Name: obj.str("name"), Score: obj.score("score")})
	}
	if text := d.object("fullTextAnnotation"); text != nil {
		resp.FullTextAnnotation = &TextAnnotation{Text: text.str("text")}
	}
	if web := d.object("webDetection"); web != nil {
		detection := &WebDetection{}
		for _, entity := range web.list("webEntities") {
			detection.WebEntities = append(detection.WebEntities,
				WebEntity{Description: entity.str("description"), Score: entity.score("score")})
		}
		for _, guess := range web.list("bestGuessLabels") {
			detection.BestGuessLabels = append(detection.BestGuessLabels, BestGuessLabel{Label: guess.str("label")})
		}
		resp.WebDetection = detection
	}
	if status := d.object("error"); status != nil {
		resp.Error = &Status{Code: status.integer("code"), Message: status.str("message")}
	}
	return resp
}

func (d document) entities(key string) []EntityAnnotation {
	var out []EntityAnnotation
	for _, item := range d.list(key) {
		out = append(out, EntityAnnotation{Description: item.str("description"), Score: item.score("score")})
	}
	return out
}

func (d document) annotationResult() *labels.AnnotationResult {
	return &labels.AnnotationResult{
		Logos:        d.annotations("logos"),
		WebBestGuess: d.str("webBestGuess"),
		WebEntities:  d.annotations("webEntities"),
		FullText:     d.str("fullText"),
		Objects:      d.annotations("objects"),
		Labels:       d.annotations("labels"),
	}
}

func (d document) annotations(key string) []labels.Annotation {
	var out []labels.Annotation
	for _, item := range d.list(key) {
		if text := item.str("text"); text != "" {
			out = append(out, labels.Annotation{Text: text, Score: item.score("score")})
		}
	}
	return out
}
