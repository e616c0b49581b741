// Package apperr defines sentinel errors shared across packages.
package apperr

import "errors"

var (
	ErrNotDirectory         = errors.New("not a directory")
	ErrMissingFrontmatter   = errors.New("missing frontmatter")
	ErrMalformedFrontmatter = errors.New("malformed frontmatter")
	ErrInvalidEncoding      = errors.New("content is not valid UTF-8")
)
