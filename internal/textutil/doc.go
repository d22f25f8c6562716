// Package textutil provides the text helpers shared by label ranking and list
// matching.
//
// The primary use cases are:
//   - Normalizing free text into dedup keys (trim, collapse whitespace, lowercase)
//   - Title-casing dictionary words for display
//   - Creating token fingerprints of item names and comparing them by cosine
//     similarity so scan candidates can be matched against list entries
//
// Tokenization lowercases text, splits on non-alphanumeric characters, drops
// tokens shorter than two characters and folds simple plurals so "Apples" and
// "apple" share a token.
package textutil
