package vision

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"grocerylens/internal/labels"
	"grocerylens/internal/services"
)

// AnnotateResponse is the subset of the batch annotate response grocerylens reads.
type AnnotateResponse struct {
	Responses []ImageResponse `json:"responses"`
}

// ImageResponse is the vendor result for one image.
type ImageResponse struct {
	LogoAnnotations            []EntityAnnotation `json:"logoAnnotations,omitempty"`
	LabelAnnotations           []EntityAnnotation `json:"labelAnnotations,omitempty"`
	LocalizedObjectAnnotations []ObjectAnnotation `json:"localizedObjectAnnotations,omitempty"`
	FullTextAnnotation         *TextAnnotation    `json:"fullTextAnnotation,omitempty"`
	WebDetection               *WebDetection      `json:"webDetection,omitempty"`
	Error                      *Status            `json:"error,omitempty"`
}

// EntityAnnotation covers logo and label detections.
type EntityAnnotation struct {
	Description string   `json:"description"`
	Score       *float64 `json:"score,omitempty"`
}

// ObjectAnnotation is a localized object detection.
type ObjectAnnotation struct {
	Name  string   `json:"name"`
	Score *float64 `json:"score,omitempty"`
}

// TextAnnotation carries the OCR full text.
type TextAnnotation struct {
	Text string `json:"text"`
}

// WebDetection carries web entities and best-guess labels.
type WebDetection struct {
	WebEntities     []WebEntity      `json:"webEntities,omitempty"`
	BestGuessLabels []BestGuessLabel `json:"bestGuessLabels,omitempty"`
}

// WebEntity is one entity matched on the web.
type WebEntity struct {
	Description string   `json:"description,omitempty"`
	Score       *float64 `json:"score,omitempty"`
}

// BestGuessLabel is the vendor's guess at what the image shows.
type BestGuessLabel struct {
	Label string `json:"label"`
}

// Status is the per-image error object.
type Status struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// FromResponse maps one vendor image response to an AnnotationResult.
// Absent sections map to empty fields and absent scores stay nil.
func FromResponse(resp *ImageResponse) *labels.AnnotationResult {
	result := &labels.AnnotationResult{}
	if resp == nil {
		return result
	}
	for _, logo := range resp.LogoAnnotations {
		if logo.Description != "" {
			result.Logos = append(result.Logos, labels.Annotation{Text: logo.Description, Score: logo.Score})
		}
	}
	if web := resp.WebDetection; web != nil {
		if len(web.BestGuessLabels) > 0 {
			result.WebBestGuess = web.BestGuessLabels[0].Label
		}
		for _, entity := range web.WebEntities {
			if entity.Description != "" {
				result.WebEntities = append(result.WebEntities, labels.Annotation{Text: entity.Description, Score: entity.Score})
			}
		}
	}
	if resp.FullTextAnnotation != nil {
		result.FullText = resp.FullTextAnnotation.Text
	}
	for _, obj := range resp.LocalizedObjectAnnotations {
		if obj.Name != "" {
			result.Objects = append(result.Objects, labels.Annotation{Text: obj.Name, Score: obj.Score})
		}
	}
	for _, label := range resp.LabelAnnotations {
		if label.Description != "" {
			result.Labels = append(result.Labels, labels.Annotation{Text: label.Description, Score: label.Score})
		}
	}
	return result
}

// vendorKeys mark a document as a vendor image response rather than an
// AnnotationResult.
var vendorKeys = []string{
	"logoAnnotations", "labelAnnotations", "localizedObjectAnnotations",
	"fullTextAnnotation", "webDetection", "textAnnotations",
}

// DecodeResult parses either a batch annotate response, a single image
// response, or an AnnotationResult document. Only a document that is not a
// JSON object is an error; optional fields of the wrong type are skipped.
func DecodeResult(data []byte) (*labels.AnnotationResult, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return &labels.AnnotationResult{}, nil
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode annotation: %w", err)
	}

	if doc.has("responses") {
		batch := doc.annotateResponse()
		if len(batch.Responses) == 0 {
			return &labels.AnnotationResult{}, nil
		}
		return imageResult(&batch.Responses[0])
	}

	for _, key := range vendorKeys {
		if doc.has(key) {
			single := doc.imageResponse()
			return imageResult(&single)
		}
	}

	return doc.annotationResult(), nil
}

// decodeAnnotateResponse reads a batch response body with the same tolerance
// as DecodeResult.
func decodeAnnotateResponse(data []byte) (AnnotateResponse, error) {
	var doc document
	if err := json.Unmarshal(bytes.TrimSpace(data), &doc); err != nil {
		return AnnotateResponse{}, err
	}
	return doc.annotateResponse(), nil
}

func imageResult(resp *ImageResponse) (*labels.AnnotationResult, error) {
	if resp.Error != nil && resp.Error.Code != 0 {
		msg := fmt.Sprintf("image error %d: %s", resp.Error.Code, strings.TrimSpace(resp.Error.Message))
		return nil, services.Wrap(services.ErrExternal, "vision", "annotate", msg, nil)
	}
	return FromResponse(resp), nil
}
