// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package format

import (
	"strings"

	"github.com/pdiddy/pdf2md-legal/pkg/types"
)

// Classifier maps logical lines to Markdown fragments using the ordered
// rule table of a profile. It is stateless and safe for concurrent use.
type Classifier struct {
	profile *Profile
	rules   []Rule
}

// NewClassifier builds a classifier for p, compiling the profile if needed.
func NewClassifier(p *Profile) (*Classifier, error) {
	if p.connector == nil {
		if err := p.Compile(); err != nil {
			return nil, err
		}
	}
	return &Classifier{profile: p, rules: NewRules(p)}, nil
}

// Rules returns the rule table in evaluation order.
func (c *Classifier) Rules() []Rule {
	return c.rules
}

// Classify trims line and renders it with the first matching rule. It
// returns false when the line is a running header or footer and must be
// dropped.
func (c *Classifier) Classify(line string) (types.Fragment, bool) {
	line = strings.TrimSpace(line)
	if line != "" && c.profile.IsMetadata(line) {
		return types.Fragment{}, false
	}
	for _, r := range c.rules {
		if r.Match(line) {
			return types.Fragment{
				Kind:  r.Kind,
				Level: r.Level,
				Rule:  r.Name,
				Line:  line,
				Text:  r.Render(line),
			}, true
		}
	}
	// The plain rule matches everything; this is unreachable with NewRules.
	return types.Fragment{Kind: types.KindPlain, Rule: "plain", Line: line, Text: line + "\n"}, true
}
