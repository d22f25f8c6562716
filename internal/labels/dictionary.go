package labels

import (
	"sort"
	"strings"
)

var fruits = newWordSet(
	"apple", "apricot", "avocado", "banana", "blackberry", "blueberry",
	"cantaloupe", "cherry", "clementine", "coconut", "cranberry", "dragon fruit",
	"fig", "grape", "grapefruit", "guava", "kiwi", "lemon", "lime", "lychee",
	"mandarin", "mango", "melon", "nectarine", "orange", "papaya",
	"passion fruit", "peach", "pear", "persimmon", "pineapple", "plum",
	"pomegranate", "raspberry", "strawberry", "tangerine", "watermelon",
)

var vegetables = newWordSet(
	"artichoke", "arugula", "asparagus", "bean", "beet", "bell pepper",
	"bok choy", "broccoli", "brussels sprout", "cabbage", "carrot",
	"cauliflower", "celery", "chili", "corn", "cucumber", "eggplant", "garlic",
	"ginger", "green bean", "kale", "leek", "lettuce", "mushroom", "okra",
	"onion", "parsnip", "pea", "pepper", "potato", "pumpkin", "radish",
	"shallot", "spinach", "squash", "sweet potato", "tomato", "turnip", "yam",
	"zucchini",
)

// generic names say "this is produce" without saying which.
var generic = newWordSet(
	"berries", "berry", "citrus", "food", "foods", "fruit", "fruits",
	"groceries", "grocery", "ingredient", "local food", "natural foods",
	"plant", "produce", "staple food", "superfood", "vegan nutrition",
	"vegetable", "vegetables", "veggie", "veggies", "whole food",
)

// aliases maps regional or alternate names to their dictionary entry.
var aliases = map[string]string{
	"aubergine": "eggplant",
	"capsicum":  "bell pepper",
	"chilli":    "chili",
	"courgette": "zucchini",
}

// dictionaryWords lists every fruit and vegetable, longest first, so that
// substring scans prefer "bell pepper" over "pepper".
var dictionaryWords = sortedLongestFirst(fruits, vegetables)

// matchWords are the words a web entity or OCR line may mention: the
// dictionary plus alias spellings.
var matchWords = sortedLongestFirst(fruits, vegetables, aliasKeys())

type wordSet map[string]struct{}

func newWordSet(words ...string) wordSet {
	set := make(wordSet, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

func (s wordSet) has(word string) bool {
	_, ok := s[word]
	return ok
}

func aliasKeys() wordSet {
	set := make(wordSet, len(aliases))
	for k := range aliases {
		set[k] = struct{}{}
	}
	return set
}

func sortedLongestFirst(sets ...wordSet) []string {
	var words []string
	for _, set := range sets {
		for w := range set {
			words = append(words, w)
		}
	}
	sort.Slice(words, func(i, j int) bool {
		return longerFirst(words[i], words[j])
	})
	return words
}

func longerFirst(a, b string) bool {
	if len(a) != len(b) {
		return len(a) > len(b)
	}
	return a < b
}

// IsGeneric reports whether word (any case) is a generic produce term.
func IsGeneric(word string) bool {
	return generic.has(strings.ToLower(strings.TrimSpace(word)))
}

// InDictionary reports whether word (any case) is a known fruit or vegetable.
func InDictionary(word string) bool {
	w := strings.ToLower(strings.TrimSpace(word))
	return fruits.has(w) || vegetables.has(w)
}

// Category returns "fruit" or "vegetable" for a dictionary word, or "".
func Category(word string) string {
	w := strings.ToLower(strings.TrimSpace(word))
	switch {
	case fruits.has(w):
		return "fruit"
	case vegetables.has(w):
		return "vegetable"
	default:
		return ""
	}
}
