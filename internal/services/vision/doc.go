// Package vision wraps the Cloud Vision images:annotate REST endpoint.
//
// A Client sends one image with logo, web, text, object and label detection
// enabled and maps the vendor response into labels.AnnotationResult, the
// shape the label ranker consumes. Transient failures (429, 5xx, timeouts)
// are retried with exponential backoff that honours Retry-After; everything
// else surfaces immediately as a services error marker.
//
// FromResponse and DecodeResult are usable without a network call, which is
// how the CLI ranks previously captured responses.
package vision
