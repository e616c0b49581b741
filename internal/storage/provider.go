// Package storage defines the file-system abstraction the injector works against.
package storage

import "iter"

// Provider is the interface for Markdown file operations.
type Provider interface {
	// Markdown lazily yields the path of every Markdown file under root,
	// depth-first. A walk error is yielded once and ends the sequence.
	Markdown(root string) iter.Seq2[string, error]
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically replaces the content of the file at path.
	Write(path string, content []byte) error
}
