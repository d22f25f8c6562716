// Package preflight provides readiness checks for the filesystem paths,
// database and vendor credentials grocerylens depends on.
//
// The CLI "doctor" command prints every result; "serve" runs RunAll at
// startup and logs failures without refusing to start, since list editing
// works without vendor keys.
package preflight
