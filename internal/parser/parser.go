// Package parser detects and decodes frontmatter at the head of Markdown content.
package parser

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/starford/fminject/internal/apperr"
	"github.com/starford/fminject/internal/metadata"
)

// HasFrontmatter reports whether data starts with the frontmatter delimiter.
// No leading whitespace is tolerated.
func HasFrontmatter(data []byte) bool {
	return bytes.HasPrefix(data, []byte(metadata.Delimiter))
}

// Split separates the leading YAML frontmatter block from the Markdown body.
// Content without a leading delimiter yields apperr.ErrMissingFrontmatter.
// A block that is never closed, or that is not valid YAML, yields
// apperr.ErrMalformedFrontmatter.
func Split(data []byte) (map[string]any, []byte, error) {
	const delim = metadata.Delimiter
	if !HasFrontmatter(data) {
		return nil, data, apperr.ErrMissingFrontmatter
	}

	rest := data[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		return nil, data, fmt.Errorf("%w: no closing delimiter", apperr.ErrMalformedFrontmatter)
	}

	yamlBlock := rest[:idx]
	body := bytes.TrimLeft(rest[idx+1+len(delim):], "\r\n")

	var fm map[string]any
	if err := yaml.Unmarshal(yamlBlock, &fm); err != nil {
		return nil, data, fmt.Errorf("%w: %v", apperr.ErrMalformedFrontmatter, err)
	}
	if fm == nil {
		fm = map[string]any{}
	}
	return fm, body, nil
}
