package labels

import "testing"

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		input  string
		want   string
		wantOK bool
	}{
		{"bananas", "Banana", true},
		{"Tomatoes", "Tomato", true},
		{"peaches", "Peach", true},
		{"cherries", "Cherry", true},
		{"capsicum", "Bell Pepper", true},
		{"Aubergines", "Eggplant", true},
		{"courgette", "Zucchini", true},
		{"chilli", "Chili", true},
		{"bell  peppers", "Bell Pepper", true},
		{"organic bananas", "Banana", true},
		{"red capsicum", "Bell Pepper", true},
		{"pineapple", "Pineapple", true},
		{"Lemonade", "Lemon", true},
		{"applesauce", "Apple", true},
		{"grapefruit juice", "Grapefruit", true},
		{"fruit", "", false},
		{"Vegetables", "", false},
		{"produce", "", false},
		{"appear", "", false},
		{"milk", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := Canonicalize(tt.input)
			if got != tt.want || ok != tt.wantOK {
				t.Fatalf("Canonicalize(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestResolveSpecificHint(t *testing.T) {
	if got, ok := ResolveSpecific(nil, "bananas"); !ok || got != "Banana" {
		t.Fatalf("hint bananas: got (%q, %v)", got, ok)
	}
	if got, ok := ResolveSpecific(&AnnotationResult{}, "fruit"); ok {
		t.Fatalf("generic hint should not resolve, got %q", got)
	}
}

func TestResolveSpecificGenericHintFallsThrough(t *testing.T) {
	result := &AnnotationResult{Labels: []Annotation{Scored("Lemon", 0.8)}}
	if got, ok := ResolveSpecific(result, "fruit"); !ok || got != "Lemon" {
		t.Fatalf("expected label fallback, got (%q, %v)", got, ok)
	}
}

func TestResolveSpecificWebEntityAlias(t *testing.T) {
	result := &AnnotationResult{WebEntities: []Annotation{Scored("capsicum", 0.7)}}
	if got, ok := ResolveSpecific(result, ""); !ok || got != "Bell Pepper" {
		t.Fatalf("got (%q, %v), want Bell Pepper", got, ok)
	}
}

func TestResolveSpecificPrefersHighestScoringEntity(t *testing.T) {
	result := &AnnotationResult{
		WebEntities: []Annotation{
			Scored("Fruit", 0.99),
			Scored("Apple", 0.61),
			Scored("Granny Smith apples", 0.83),
			Scored("Food", 0.9),
		},
		Labels: []Annotation{Scored("Pear", 0.99)},
	}
	if got, ok := ResolveSpecific(result, ""); !ok || got != "Apple" {
		t.Fatalf("got (%q, %v), want Apple", got, ok)
	}
}

func TestResolveSpecificLabelsBeforeOCR(t *testing.T) {
	result := &AnnotationResult{
		WebEntities: []Annotation{Scored("Produce", 0.9)},
		Labels:      []Annotation{Scored("Natural foods", 0.95), Scored("Seedless grapes", 0.7)},
		FullText:    "FRESH KIWI",
	}
	if got, ok := ResolveSpecific(result, ""); !ok || got != "Grape" {
		t.Fatalf("got (%q, %v), want Grape", got, ok)
	}
}

func TestResolveSpecificOCR(t *testing.T) {
	result := &AnnotationResult{
		FullText: "Fresh Farms\nfruit\nSweet Potatoes 1kg\nOnions",
	}
	if got, ok := ResolveSpecific(result, ""); !ok || got != "Sweet Potato" {
		t.Fatalf("got (%q, %v), want Sweet Potato", got, ok)
	}
}

func TestResolveSpecificRunOnWords(t *testing.T) {
	tests := []struct {
		name   string
		result *AnnotationResult
		want   string
	}{
		{"web entity", &AnnotationResult{WebEntities: []Annotation{Scored("Lemonade", 0.9)}}, "Lemon"},
		{"label", &AnnotationResult{Labels: []Annotation{Scored("Applesauce", 0.8)}}, "Apple"},
		{"ocr line", &AnnotationResult{FullText: "Brand Co\napplesauce"}, "Apple"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, ok := ResolveSpecific(tt.result, ""); !ok || got != tt.want {
				t.Fatalf("got (%q, %v), want %q", got, ok, tt.want)
			}
		})
	}
}

func TestResolveSpecificNoMatch(t *testing.T) {
	for name, result := range map[string]*AnnotationResult{
		"nil":   nil,
		"empty": {},
		"brand only": {
			Logos:    []Annotation{Scored("Acme", 0.9)},
			FullText: "ACME\nCrunchy Snacks",
			Labels:   []Annotation{Scored("Snack", 0.9)},
		},
	} {
		t.Run(name, func(t *testing.T) {
			if got, ok := ResolveSpecific(result, ""); ok {
				t.Fatalf("expected no match, got %q", got)
			}
		})
	}
}

func TestDictionaryLookups(t *testing.T) {
	if !InDictionary("Mango") || InDictionary("fruit") {
		t.Fatal("unexpected dictionary membership")
	}
	if !IsGeneric(" Groceries ") || IsGeneric("banana") {
		t.Fatal("unexpected generic membership")
	}
	if Category("carrot") != "vegetable" || Category("lime") != "fruit" || Category("milk") != "" {
		t.Fatal("unexpected categories")
	}
}
