// Package driving provides interfaces for use cases exposed to
// primary adapters (CLI, TUI): ingestion, retrieval, routing and chat.
package driving
