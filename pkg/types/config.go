// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ExtractionBackend identifies the text extraction tool.
type ExtractionBackend string

const (
	BackendTabula    ExtractionBackend = "tabula"
	BackendPDFCPU    ExtractionBackend = "pdfcpu"
	BackendPdftotext ExtractionBackend = "pdftotext"
	BackendText      ExtractionBackend = "text"
)

// DefaultContainerImage is the image used by the pdftotext backend when none
// is configured.
const DefaultContainerImage = "minidocks/poppler:latest"

// ExtractionConfig holds settings for the extraction stage.
type ExtractionConfig struct {
	// Backend selects the extraction tool: tabula, pdfcpu, pdftotext, or text.
	Backend ExtractionBackend `json:"backend" yaml:"backend" validate:"omitempty,oneof=tabula pdfcpu pdftotext text"`

	// ContainerImage is the image providing pdftotext for the pdftotext backend.
	ContainerImage string `json:"container_image" yaml:"container_image"`
}

// ConversionConfig holds settings for the conversion stage.
type ConversionConfig struct {
	ExtractionConfig `yaml:",inline"`

	// ProfilePath is an optional YAML file overriding the built-in keyword profile.
	ProfilePath string `json:"profile" yaml:"profile"`

	// SaveRaw also writes the raw extracted text next to the input as .txt.
	SaveRaw bool `json:"save_raw" yaml:"save_raw"`

	// HTML also writes an HTML preview of the Markdown.
	HTML bool `json:"html" yaml:"html"`

	// Frontmatter prepends YAML frontmatter to the Markdown output.
	Frontmatter bool `json:"frontmatter" yaml:"frontmatter"`

	// Jobs bounds the number of documents converted concurrently in a batch (default 1).
	Jobs int `json:"jobs" yaml:"jobs" validate:"gte=1,lte=64"`

	// CatalogPath is the SQLite catalog database. Empty disables recording.
	CatalogPath string `json:"catalog" yaml:"catalog"`
}

// LogConfig holds diagnostic logging settings.
type LogConfig struct {
	// Level is a logrus level name (default "info").
	Level string `json:"level" yaml:"level" validate:"omitempty,oneof=trace debug info warn warning error"`

	// Format is "text" (default) or "json".
	Format string `json:"format" yaml:"format" validate:"omitempty,oneof=text json"`

	// File adds a rotating log file sink when set.
	File string `json:"file" yaml:"file"`

	// MaxSizeMB is the size in megabytes at which the log file rotates (default 10).
	MaxSizeMB int `json:"max_size_mb" yaml:"max_size_mb" validate:"gte=0"`

	// MaxBackups is the number of rotated files kept (default 3).
	MaxBackups int `json:"max_backups" yaml:"max_backups" validate:"gte=0"`
}

// Config groups all settings read from the config file and environment.
type Config struct {
	Conversion ConversionConfig `json:"conversion" yaml:"conversion"`
	Log        LogConfig        `json:"log" yaml:"log"`
}
