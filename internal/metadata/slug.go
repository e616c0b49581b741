package metadata

import "github.com/goliatone/go-slug"

// URLSafe reports whether s satisfies the default slug rules (lower-case
// letters, digits and single separators). Slugs derived from file names are
// written as-is; callers use this only to warn.
func URLSafe(s string) bool {
	return slug.IsValid(s)
}
