// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the pdf2md pipeline:
// extracted page text, rendered Markdown fragments, conversion records and
// the configuration consumed by each stage.
package types

import (
	"fmt"
	"strings"
)

// PageRuleWidth is the number of '=' characters in a page marker rule line.
const PageRuleWidth = 80

// PageRule is the full-width separator drawn above and below a page label.
var PageRule = strings.Repeat("=", PageRuleWidth)

// Page is the plain text of one source page.
type Page struct {
	// Number is the 1-based page number.
	Number int `json:"number" yaml:"number"`

	// Text is the page body as produced by the extraction backend.
	Text string `json:"text" yaml:"text"`
}

// RawDocument is the output of text extraction: every page of the source,
// in page order. It is not modified after extraction.
type RawDocument struct {
	// Source is the path the document was extracted from.
	Source string `json:"source" yaml:"source"`

	// Pages holds the page bodies in page order.
	Pages []Page `json:"pages" yaml:"pages"`
}

// PageCount returns the number of extracted pages.
func (d RawDocument) PageCount() int {
	return len(d.Pages)
}

// Text renders the document as page-marker-delimited text. For each page it
// writes a newline, a rule line, "PAGE <n>", another rule line and a blank
// line, followed by the page body.
func (d RawDocument) Text() string {
	var b strings.Builder
	for _, p := range d.Pages {
		b.WriteString("\n")
		b.WriteString(PageRule)
		b.WriteString("\n")
		fmt.Fprintf(&b, "PAGE %d\n", p.Number)
		b.WriteString(PageRule)
		b.WriteString("\n\n")
		b.WriteString(p.Text)
	}
	return b.String()
}

// FragmentKind is the semantic role assigned to a line by the classifier.
type FragmentKind string

const (
	KindBlank    FragmentKind = "blank"
	KindHeading  FragmentKind = "heading"
	KindBold     FragmentKind = "bold"
	KindTOCEntry FragmentKind = "toc_entry"
	KindArticle  FragmentKind = "article"
	KindCitation FragmentKind = "citation"
	KindPlain    FragmentKind = "plain"
)

// Fragment is one line's worth of rendered Markdown.
type Fragment struct {
	// Kind is the role the line was classified as.
	Kind FragmentKind `json:"kind" yaml:"kind"`

	// Level is the Markdown heading level for KindHeading, zero otherwise.
	Level int `json:"level,omitempty" yaml:"level,omitempty"`

	// Rule names the classification rule that produced the fragment.
	Rule string `json:"rule" yaml:"rule"`

	// Line is the trimmed source line.
	Line string `json:"line" yaml:"line"`

	// Text is the rendered Markdown, including its trailing newlines.
	Text string `json:"text" yaml:"text"`
}

// FormatStats summarizes a formatting run.
type FormatStats struct {
	// Lines is the number of logical lines read.
	Lines int `json:"lines" yaml:"lines"`

	// Dropped is the number of running header/footer lines removed.
	Dropped int `json:"dropped" yaml:"dropped"`

	// Kinds counts emitted fragments by kind.
	Kinds map[FragmentKind]int `json:"kinds" yaml:"kinds"`
}

// Fragments returns the total number of emitted fragments.
func (s FormatStats) Fragments() int {
	n := 0
	for _, c := range s.Kinds {
		n += c
	}
	return n
}
