package textutil

import (
	"math"
	"reflect"
	"testing"
)

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"trims and lowercases", "  Green Tea ", "green tea"},
		{"collapses internal whitespace", "Oat\t\tMilk\n Barista", "oat milk barista"},
		{"empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeKey(tt.input); got != tt.want {
				t.Errorf("NormalizeKey(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTitleWords(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"banana", "Banana"},
		{"bell pepper", "Bell Pepper"},
		{"BRUSSELS  SPROUT", "Brussels Sprout"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := TitleWords(tt.input); got != tt.want {
			t.Errorf("TitleWords(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSingular(t *testing.T) {
	tests := map[string]string{
		"apples":   "apple",
		"berries":  "berry",
		"tomatoes": "tomato",
		"peaches":  "peach",
		"pies":     "pie",
		"glass":    "glass",
		"hummus":   "hummus",
		"milk":     "milk",
	}
	for input, want := range tests {
		if got := Singular(input); got != want {
			t.Errorf("Singular(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("Organic Bananas, 2 x 1kg")
	want := []string{"organic", "banana", "1kg"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Tokenize = %v, want %v", got, want)
	}
}

func TestNewFingerprintEmpty(t *testing.T) {
	if fp := NewFingerprint(""); fp != nil {
		t.Error("expected nil for empty text")
	}
	if fp := NewFingerprint("a b c"); fp != nil {
		t.Error("expected nil for text with only one-letter tokens")
	}
}

func TestNewFingerprintNormCalculation(t *testing.T) {
	// "milk milk bread" -> milk:2, bread:1
	fp := NewFingerprint("milk milk bread")
	if fp == nil {
		t.Fatal("expected fingerprint")
	}
	if want := math.Sqrt(5); math.Abs(fp.norm-want) > 0.0001 {
		t.Errorf("norm = %v, want %v", fp.norm, want)
	}
	if fp.TokenCount() != 2 {
		t.Errorf("TokenCount = %d, want 2", fp.TokenCount())
	}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    *Fingerprint
		b    *Fingerprint
		want float64
	}{
		{"both nil", nil, nil, 0},
		{"a nil", nil, NewFingerprint("oat milk"), 0},
		{"plural folding", NewFingerprint("Apples"), NewFingerprint("apple"), 1},
		{"disjoint", NewFingerprint("oat milk"), NewFingerprint("rye bread"), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("CosineSimilarity() = %v, want %v", got, tt.want)
			}
		})
	}

	partial := CosineSimilarity(NewFingerprint("oat milk"), NewFingerprint("milk"))
	if partial <= 0 || partial >= 1 {
		t.Errorf("expected partial similarity in (0,1), got %v", partial)
	}
	if CosineSimilarity(NewFingerprint("oat milk"), NewFingerprint("milk")) != CosineSimilarity(NewFingerprint("milk"), NewFingerprint("oat milk")) {
		t.Error("CosineSimilarity not symmetric")
	}
}
