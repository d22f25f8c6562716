package vision

import (
	"errors"
	"testing"

	"grocerylens/internal/labels"
	"grocerylens/internal/services"
)

func TestDecodeResultFormats(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantLogo string
		wantText string
	}{
		{
			name:     "batch response",
			input:    `{"responses":[{"logoAnnotations":[{"description":"Oreo","score":0.9}]}]}`,
			wantLogo: "Oreo",
		},
		{
			name:     "single image response",
			input:    `{"logoAnnotations":[{"description":"Heinz"}],"fullTextAnnotation":{"text":"Heinz\nKetchup"}}`,
			wantLogo: "Heinz",
			wantText: "Heinz\nKetchup",
		},
		{
			name:     "annotation result",
			input:    `{"logos":[{"text":"Nutella","score":0.7}],"fullText":"Nutella"}`,
			wantLogo: "Nutella",
			wantText: "Nutella",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := DecodeResult([]byte(tt.input))
			if err != nil {
				t.Fatalf("DecodeResult returned error: %v", err)
			}
			if len(result.Logos) != 1 || result.Logos[0].Text != tt.wantLogo {
				t.Fatalf("unexpected logos %+v", result.Logos)
			}
			if result.FullText != tt.wantText {
				t.Fatalf("full text = %q, want %q", result.FullText, tt.wantText)
			}
		})
	}
}

func TestDecodeResultSkipsMalformedFields(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantLogo  string
		wantScore bool
		wantText  string
	}{
		{
			name:      "labels not an array",
			input:     `{"logos":[{"text":"Acme","score":0.9}],"labels":"oops"}`,
			wantLogo:  "Acme",
			wantScore: true,
		},
		{
			name:     "score as string",
			input:    `{"logos":[{"text":"Acme","score":"0.9"}]}`,
			wantLogo: "Acme",
		},
		{
			name:      "fullTextAnnotation not an object",
			input:     `{"logoAnnotations":[{"description":"Acme","score":0.9}],"fullTextAnnotation":"bad"}`,
			wantLogo:  "Acme",
			wantScore: true,
		},
		{
			name:      "non-object entries dropped",
			input:     `{"responses":[{"logoAnnotations":[42,{"description":"Acme","score":0.9}],"webDetection":[]}]}`,
			wantLogo:  "Acme",
			wantScore: true,
		},
		{
			name:     "text not a string",
			input:    `{"logos":[{"text":7},{"text":"Acme"}],"fullText":"Acme\nCola"}`,
			wantLogo: "Acme",
			wantText: "Acme\nCola",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := DecodeResult([]byte(tt.input))
			if err != nil {
				t.Fatalf("DecodeResult returned error: %v", err)
			}
			if len(result.Logos) != 1 || result.Logos[0].Text != tt.wantLogo {
				t.Fatalf("unexpected logos %+v", result.Logos)
			}
			if got := result.Logos[0].Score != nil; got != tt.wantScore {
				t.Fatalf("score present = %v, want %v", got, tt.wantScore)
			}
			if result.FullText != tt.wantText {
				t.Fatalf("full text = %q, want %q", result.FullText, tt.wantText)
			}
		})
	}
}

func TestDecodeResultMalformedScoreUsesLogoDefault(t *testing.T) {
	result, err := DecodeResult([]byte(`{"logos":[{"text":"Acme","score":"0.9"}]}`))
	if err != nil {
		t.Fatalf("DecodeResult returned error: %v", err)
	}
	got := labels.Rank(result)
	if len(got) != 1 || got[0] != "Acme" {
		t.Fatalf("expected Acme, got %v", got)
	}
}

func TestDecodeResultEmptyAndInvalid(t *testing.T) {
	result, err := DecodeResult([]byte("  "))
	if err != nil || !result.IsEmpty() {
		t.Fatalf("expected empty result, got %+v, %v", result, err)
	}
	if _, err := DecodeResult([]byte("{not json")); err == nil {
		t.Fatal("expected decode error")
	}
	_, err = DecodeResult([]byte(`{"responses":[{"error":{"code":7,"message":"denied"}}]}`))
	if !errors.Is(err, services.ErrExternal) {
		t.Fatalf("expected external error, got %v", err)
	}
}

func TestFromResponseFeedsRanker(t *testing.T) {
	score := 0.92
	resp := &ImageResponse{
		LogoAnnotations: []EntityAnnotation{{Description: "Coca-Cola", Score: &score}},
		WebDetection:    &WebDetection{BestGuessLabels: []BestGuessLabel{{Label: "coca-cola"}}},
	}
	got := labels.Rank(FromResponse(resp))
	if len(got) != 1 || got[0] != "Coca-Cola" {
		t.Fatalf("expected deduplicated Coca-Cola, got %v", got)
	}
	if res := FromResponse(nil); !res.IsEmpty() {
		t.Fatalf("expected empty result for nil response, got %+v", res)
	}
}
