// Package metadata builds the frontmatter block prepended to Markdown files.
package metadata

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Delimiter opens and closes a frontmatter block.
const Delimiter = "---"

// Default field values.
const (
	DefaultAuthor      = "Anubhav Gain"
	DefaultDescription = "Add your description here."
	DefaultOffset      = "+05:30"
)

// DefaultTags are the placeholder tags written into every new block.
var DefaultTags = []string{"tag1", "tag2"}

// timeLayout is rendered from the local wall clock; the zone suffix is
// appended literally and is not derived from the system timezone.
const timeLayout = "2006-01-02T15:04:05"

// Template holds the fields that are identical for every generated block.
type Template struct {
	Author      string
	Featured    bool
	Draft       bool
	Tags        []string
	Description string
	Offset      string
}

// DefaultTemplate returns the stock template.
func DefaultTemplate() Template {
	return Template{
		Author:      DefaultAuthor,
		Featured:    false,
		Draft:       true,
		Tags:        append([]string(nil), DefaultTags...),
		Description: DefaultDescription,
		Offset:      DefaultOffset,
	}
}

// Block is a fully resolved frontmatter block for one file.
type Block struct {
	Author      string
	PubDatetime string
	ModDatetime string
	Title       string
	Slug        string
	Featured    bool
	Draft       bool
	Tags        []string
	Description string
}

// ForFile resolves the template for the file at path. Publication and
// modification times are both set to now.
func (t Template) ForFile(path string, now time.Time) Block {
	name := BaseName(path)
	ts := Timestamp(now, t.Offset)
	return Block{
		Author:      t.Author,
		PubDatetime: ts,
		ModDatetime: ts,
		Title:       TitleFromName(name),
		Slug:        SlugFromName(name),
		Featured:    t.Featured,
		Draft:       t.Draft,
		Tags:        append([]string(nil), t.Tags...),
		Description: t.Description,
	}
}

// Render writes the block in fixed field order, closed by the delimiter
// and followed by one blank line.
func (b Block) Render() string {
	var sb strings.Builder
	sb.WriteString(Delimiter + "\n")
	field(&sb, "author", b.Author)
	field(&sb, "pubDatetime", b.PubDatetime)
	field(&sb, "modDatetime", b.ModDatetime)
	field(&sb, "title", b.Title)
	field(&sb, "slug", b.Slug)
	field(&sb, "featured", strconv.FormatBool(b.Featured))
	field(&sb, "draft", strconv.FormatBool(b.Draft))
	if len(b.Tags) == 0 {
		sb.WriteString("tags: []\n")
	} else {
		sb.WriteString("tags:\n")
	}
	for _, tag := range b.Tags {
		sb.WriteString("- ")
		sb.WriteString(tag)
		sb.WriteByte('\n')
	}
	field(&sb, "description", b.Description)
	sb.WriteString(Delimiter + "\n\n")
	return sb.String()
}

func field(sb *strings.Builder, key, value string) {
	sb.WriteString(key)
	sb.WriteString(": ")
	sb.WriteString(value)
	sb.WriteByte('\n')
}

// BaseName returns the file name of path without its final extension.
func BaseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// TitleFromName turns a hyphenated file name into a display title:
// "my-first-post" becomes "My First Post". Every run of cased letters is
// title-cased on its own, so a letter after any uncased rune (digit,
// underscore, apostrophe) starts a new word: "o'neil" becomes "O'Neil".
func TitleFromName(name string) string {
	// cases.Caser keeps state and is not safe for concurrent use.
	caser := cases.Title(language.Und)
	src := strings.ReplaceAll(name, "-", " ")

	var sb strings.Builder
	start := -1
	for i, r := range src {
		if isCased(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			sb.WriteString(caser.String(src[start:i]))
			start = -1
		}
		sb.WriteRune(r)
	}
	if start >= 0 {
		sb.WriteString(caser.String(src[start:]))
	}
	return sb.String()
}

func isCased(r rune) bool {
	return unicode.IsUpper(r) || unicode.IsLower(r) || unicode.IsTitle(r)
}

// SlugFromName lower-cases the file name.
func SlugFromName(name string) string {
	return strings.ToLower(name)
}

// Timestamp renders t's wall clock followed by the literal offset suffix.
func Timestamp(t time.Time, offset string) string {
	return t.Format(timeLayout) + offset
}
