// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package format turns page-delimited raw text extracted from a legal PDF
// into Markdown. Each logical line is classified on its own by an ordered,
// first-match-wins rule table (see NewRules) and rendered as one fragment;
// running headers and footers are dropped. The package does no I/O.
package format

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/pdf2md-legal/pkg/types"
)

// progressEvery is the line interval between debug progress entries.
const progressEvery = 1000

// Result is a formatted document.
type Result struct {
	// Markdown is the header block followed by every fragment.
	Markdown string

	// Fragments lists the emitted fragments in source order.
	Fragments []types.Fragment

	// Stats counts lines, dropped lines and fragments per kind.
	Stats types.FormatStats
}

// Formatter assembles Markdown documents from raw text.
type Formatter struct {
	profile    *Profile
	classifier *Classifier
	logger     logrus.FieldLogger
}

// Option configures a Formatter.
type Option func(*Formatter)

// WithLogger sets the logger used for progress entries.
func WithLogger(l logrus.FieldLogger) Option {
	return func(f *Formatter) { f.logger = l }
}

// New creates a Formatter for profile p. A nil profile selects DefaultProfile.
func New(p *Profile, opts ...Option) (*Formatter, error) {
	if p == nil {
		p = DefaultProfile()
	}
	c, err := NewClassifier(p)
	if err != nil {
		return nil, err
	}
	silent := logrus.New()
	silent.SetOutput(io.Discard)
	f := &Formatter{profile: p, classifier: c, logger: silent}
	for _, o := range opts {
		o(f)
	}
	return f, nil
}

// Profile returns the profile the formatter was built with.
func (f *Formatter) Profile() *Profile {
	return f.profile
}

// Header renders the title block: a level-1 heading, the two italic
// boilerplate lines and a horizontal rule.
func (f *Formatter) Header(title string) string {
	var b strings.Builder
	b.WriteString("# " + title + "\n")
	b.WriteString("*" + f.profile.Boilerplate.EffectiveDate + "*\n")
	b.WriteString("*" + f.profile.Boilerplate.Copyright + "*\n\n")
	b.WriteString("---\n\n")
	return b.String()
}

// Format converts raw page-delimited text into a Markdown document titled
// title.
func (f *Formatter) Format(title, raw string) Result {
	lines := Lines(raw)
	res := Result{
		Fragments: make([]types.Fragment, 0, len(lines)),
		Stats: types.FormatStats{
			Lines: len(lines),
			Kinds: make(map[types.FragmentKind]int),
		},
	}

	var b strings.Builder
	b.WriteString(f.Header(title))
	for i, line := range lines {
		if i > 0 && i%progressEvery == 0 {
			f.logger.WithFields(logrus.Fields{"line": i, "total": len(lines)}).Debug("formatting")
		}
		frag, ok := f.classifier.Classify(line)
		if !ok {
			res.Stats.Dropped++
			continue
		}
		res.Fragments = append(res.Fragments, frag)
		res.Stats.Kinds[frag.Kind]++
		b.WriteString(frag.Text)
	}
	res.Markdown = b.String()

	f.logger.WithFields(logrus.Fields{
		"profile":   f.profile.Name,
		"lines":     res.Stats.Lines,
		"dropped":   res.Stats.Dropped,
		"fragments": len(res.Fragments),
	}).Debug("formatted document")
	return res
}
