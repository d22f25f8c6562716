// Package main hosts the grocerylens CLI entrypoint and command graph.
//
// The Cobra command tree covers label ranking for saved annotations, live
// photo scans, the shopping list and its history, nearby store lookup, the
// HTTP API server, and configuration scaffolding. Configuration loading and
// logger setup happen once in commandContext so subcommands stay small.
package main
