// Package httpapi exposes the grocery list, scanning and store lookup over a
// small JSON HTTP API routed with gorilla/mux.
//
// Every response is JSON. Failures answer {"error": "..."} with a status
// derived from the services error taxonomy, and every request carries an
// X-Request-ID that is echoed back and attached to log lines.
package httpapi
