// Package services defines shared utilities consumed by the scan pipeline,
// the HTTP API and the external integrations under this directory.
//
// Key responsibilities:
//   - Context helpers that stamp list item IDs, component names, and
//     correlation identifiers for logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent HTTP statuses and CLI messages.
//   - Classification of vendor HTTP responses into those markers so clients
//     decide uniformly what is retryable.
//
// Use these helpers when wiring a new integration so operational behaviour
// (error handling, observability, retries) stays uniform.
package services
