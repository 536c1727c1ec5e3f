// Package normalisers hosts the document normalisers and the registry
// that selects one by file extension. Each normaliser turns one raw
// format (plain text, PDF, DOCX) into a domain.Document ready for
// chunking.
package normalisers
