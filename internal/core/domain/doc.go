// Package domain contains the core entities of the retrieval engine:
// documents, chunks, index entries, retrieval results, conversation
// sessions and route decisions. It has no dependencies on adapters.
package domain
