package labels

import (
	"reflect"
	"testing"
)

func TestExtractOCRLines(t *testing.T) {
	th := DefaultThresholds()
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"all caps single token", "MILK", []string{"MILK"}},
		{"title case single token", "Heinz", []string{"Heinz"}},
		{"lowercase single token", "milk", nil},
		{"two letter caps token", "UK", nil},
		{"stopword single token", "Organic", nil},
		{"stopword dominated line", "tea leaves", nil},
		{"one stopword in two tokens", "Lipton tea", nil},
		{"mostly capitalized", "Barista Edition oat", []string{"Barista Edition oat"}},
		{"punctuation stripped for checks", "Ben & Jerry's", []string{"Ben & Jerry's"}},
		{"too short", "A", nil},
		{"too long", "This Line Is Far Too Long To Be A Product Name Really", nil},
		{"crlf separated", "Kellogg's\r\nCORN FLAKES\r\n500 g", []string{"Kellogg's", "CORN FLAKES"}},
		{"blank", "   ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractOCRLines(tt.text, th)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("ExtractOCRLines(%q) = %#v, want %#v", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractOCRLinesCapsAtMaxLines(t *testing.T) {
	text := "Alpha\nBravo\nCharlie\nDelta\nEcho\nFoxtrot\nGolf\nHotel"
	got := ExtractOCRLines(text, DefaultThresholds())
	want := []string{"Alpha", "Bravo", "Charlie", "Delta", "Echo", "Foxtrot"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ExtractOCRLines = %v, want %v", got, want)
	}
}

func TestRankAllStopwordOCRContributesNothing(t *testing.T) {
	got := Rank(&AnnotationResult{FullText: "GREEN TEA\nnet weight\nBOTTLE"})
	if len(got) != 0 {
		t.Fatalf("expected no candidates, got %v", got)
	}
}
