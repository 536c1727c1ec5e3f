// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): embedding, vector index, web search,
// text generation, document normalisation, and persistence.
package driven
