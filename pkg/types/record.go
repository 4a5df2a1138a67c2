// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ConversionStatus indicates the outcome of converting one document.
type ConversionStatus string

const (
	ConversionNone    ConversionStatus = "none"
	ConversionDone    ConversionStatus = "converted"
	ConversionSkipped ConversionStatus = "skipped"
	ConversionFailed  ConversionStatus = "failed"
)

// OutlineEntry is a structural landmark of a converted document: a heading,
// a bold structural title, or an article number.
type OutlineEntry struct {
	// Position is the 0-based index of the fragment in the document.
	Position int `json:"position" yaml:"position"`

	// Kind is the fragment kind (heading, bold, or article).
	Kind FragmentKind `json:"kind" yaml:"kind"`

	// Level is the heading level, zero for non-headings.
	Level int `json:"level,omitempty" yaml:"level,omitempty"`

	// Text is the source line without Markdown markup.
	Text string `json:"text" yaml:"text"`
}

// ConversionRecord describes one successful conversion, as stored in the catalog.
type ConversionRecord struct {
	// ID is assigned by the catalog.
	ID int64 `json:"id" yaml:"id"`

	// Input is the source document path.
	Input string `json:"input" yaml:"input"`

	// Output is the Markdown file written.
	Output string `json:"output" yaml:"output"`

	// Title is the document title used in the header block.
	Title string `json:"title" yaml:"title"`

	// Backend is the extraction backend that produced the raw text.
	Backend ExtractionBackend `json:"backend" yaml:"backend"`

	// Pages is the number of extracted pages.
	Pages int `json:"pages" yaml:"pages"`

	// Stats holds the formatting counters.
	Stats FormatStats `json:"stats" yaml:"stats"`

	// ConvertedAt is when the Markdown was written.
	ConvertedAt time.Time `json:"converted_at" yaml:"converted_at"`

	// Outline lists the document landmarks. Omitted by catalog listings.
	Outline []OutlineEntry `json:"outline,omitempty" yaml:"outline,omitempty"`
}
