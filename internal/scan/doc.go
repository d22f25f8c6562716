// Package scan turns a product photo into list suggestions.
//
// A Scanner sends the photo to an Annotator (the vision client in
// production), ranks the returned labels, resolves a specific fruit or
// vegetable when one is present, picks a single best label, and matches all
// of that against the open items on the grocery list. Analyze runs the same
// pipeline on an annotation that was fetched earlier, without any network
// access.
package scan
