package internal

import (
	"log/slog"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/fminject/internal/metadata"
	"github.com/starford/fminject/internal/storage"
)

var (
	offsetRe    = regexp.MustCompile(`^(Z|[+-]\d{2}:\d{2})$`)
	extensionRe = regexp.MustCompile(`^\.[A-Za-z0-9]+$`)
)

// Config represents the application configuration.
type Config struct {
	App      ApplicationConfig `yaml:"app"`
	Scan     ScanConfig        `yaml:"scan"`
	Metadata MetadataConfig    `yaml:"metadata"`
	Journal  JournalConfig     `yaml:"journal"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Scan.Validate(); err != nil {
		return err
	}
	return c.Metadata.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
}

// ScanConfig controls which files are considered Markdown.
type ScanConfig struct {
	Extension string `yaml:"extension"`
}

// Validate validates the scan configuration.
func (c *ScanConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Extension, validation.Required, validation.Match(extensionRe)),
	)
}

// MetadataConfig holds the constant fields of every generated block.
// Offset is appended verbatim to every timestamp, e.g. "+05:30".
type MetadataConfig struct {
	Author      string   `yaml:"author"`
	Featured    bool     `yaml:"featured"`
	Draft       bool     `yaml:"draft"`
	Tags        []string `yaml:"tags"`
	Description string   `yaml:"description"`
	Offset      string   `yaml:"offset"`
}

// Validate validates the metadata configuration.
func (c *MetadataConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Author, validation.Required),
		validation.Field(&c.Tags, validation.Required, validation.Each(validation.Required)),
		validation.Field(&c.Offset, validation.Required, validation.Match(offsetRe)),
	)
}

// Template converts the configuration into a block template.
func (c *MetadataConfig) Template() metadata.Template {
	return metadata.Template{
		Author:      c.Author,
		Featured:    c.Featured,
		Draft:       c.Draft,
		Tags:        append([]string(nil), c.Tags...),
		Description: c.Description,
		Offset:      c.Offset,
	}
}

// JournalConfig holds the SQLite journal location. An empty path disables it.
type JournalConfig struct {
	Path string `yaml:"path"`
}

// Enabled reports whether runs should be journaled.
func (c *JournalConfig) Enabled() bool {
	return c.Path != ""
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	tmpl := metadata.DefaultTemplate()
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelWarn,
		},
		Scan: ScanConfig{
			Extension: storage.DefaultExtension,
		},
		Metadata: MetadataConfig{
			Author:      tmpl.Author,
			Featured:    tmpl.Featured,
			Draft:       tmpl.Draft,
			Tags:        tmpl.Tags,
			Description: tmpl.Description,
			Offset:      tmpl.Offset,
		},
	}
}
