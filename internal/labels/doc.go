// Package labels turns a vision-analysis result into product names.
//
// A Ranker fuses logo detections, web guesses and entities, OCR lines,
// localized objects and generic labels into one scored candidate list,
// deduplicates it by normalized text and returns the best names first.
// ResolveSpecific takes the same result (plus an optional hint such as an
// object-detector label) and tries to name a specific fruit or vegetable
// instead of a generic word like "produce". PickBest returns the single label
// a scan screen shows when nothing else is chosen.
//
// Everything here is a pure function of its input. The dictionary and stop
// lists are read-only tables, so the package is safe for concurrent use and
// performs no I/O; fetching the AnnotationResult belongs to internal/vision.
package labels
