// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package format

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Keywords are the structural keywords that open a heading line. Each is
// matched as a prefix of the trimmed line, so the trailing space is part of
// the keyword.
type Keywords struct {
	Book          string `json:"book" yaml:"book"`
	Title         string `json:"title" yaml:"title"`
	Chapter       string `json:"chapter" yaml:"chapter"`
	Section       string `json:"section" yaml:"section"`
	ParagraphMark string `json:"paragraph_mark" yaml:"paragraph_mark"`
}

// Boilerplate holds the two italic lines printed under the document title.
type Boilerplate struct {
	EffectiveDate string `json:"effective_date" yaml:"effective_date"`
	Copyright     string `json:"copyright" yaml:"copyright"`
}

// Profile is the static configuration table behind the rule set: the
// keywords, markers and boilerplate of one legal-document convention.
type Profile struct {
	// Name identifies the profile in logs and catalog records.
	Name string `json:"name" yaml:"name"`

	// MetadataMarkers are substrings identifying running headers and footers.
	MetadataMarkers []string `json:"metadata_markers" yaml:"metadata_markers"`

	// PreliminaryMarkers identify the preliminary disposition heading.
	PreliminaryMarkers []string `json:"preliminary_markers" yaml:"preliminary_markers"`

	// TOCMarkers identify the table of contents heading.
	TOCMarkers []string `json:"toc_markers" yaml:"toc_markers"`

	Keywords Keywords `json:"keywords" yaml:"keywords"`

	// CapsExcludedPrefix keeps short connector lines out of the all-caps rule.
	// Empty excludes nothing.
	CapsExcludedPrefix string `json:"caps_excluded_prefix" yaml:"caps_excluded_prefix"`

	// ConnectorPattern matches structural titles opening with a connector
	// word ("DE LA ...", "DU ...", "DES ...").
	ConnectorPattern string `json:"connector_pattern" yaml:"connector_pattern"`

	// ArticleLabel prefixes bare article numbers.
	ArticleLabel string `json:"article_label" yaml:"article_label"`

	Boilerplate Boilerplate `json:"boilerplate" yaml:"boilerplate"`

	connector *regexp.Regexp
}

// DefaultProfile returns the built-in profile for the consolidated Civil Code
// of Québec. Each call returns a fresh copy.
func DefaultProfile() *Profile {
	p := &Profile{
		Name: "ccq",
		MetadataMarkers: []string{
			"À jour au",
			"© Éditeur officiel",
			"CCQ-1991 /",
			"CODE CIVIL",
		},
		PreliminaryMarkers: []string{"DISPOSITION PRÉLIMINAIRE", "DISPOSITION PRELIMINAIRE"},
		TOCMarkers:         []string{"TABLE DES MATIÈRES", "TABLE DES MATIERES"},
		Keywords: Keywords{
			Book:          "LIVRE ",
			Title:         "TITRE ",
			Chapter:       "CHAPITRE ",
			Section:       "SECTION ",
			ParagraphMark: "§",
		},
		CapsExcludedPrefix: "DE ",
		ConnectorPattern:   `^(D[EU]S?|DU)[\s\p{Zs}]+[A-ZÀÂÄÇÈÉÊËÎÏÔÙÛÜ]`,
		ArticleLabel:       "Article",
		Boilerplate: Boilerplate{
			EffectiveDate: "À jour au 30 juin 2025",
			Copyright:     "© Éditeur officiel du Québec",
		},
	}
	p.connector = regexp.MustCompile(p.ConnectorPattern)
	return p
}

// ParseProfile decodes a YAML profile. Fields absent from data keep their
// DefaultProfile values; lists present in data replace the defaults.
func ParseProfile(data []byte) (*Profile, error) {
	p := DefaultProfile()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parsing profile: %w", err)
	}
	if err := p.Compile(); err != nil {
		return nil, err
	}
	return p, nil
}

// LoadProfile reads a YAML profile from path. An empty path returns the
// default profile.
func LoadProfile(path string) (*Profile, error) {
	if path == "" {
		return DefaultProfile(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile %s: %w", path, err)
	}
	p, err := ParseProfile(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Compile validates the profile and compiles its patterns. It must be called
// after the profile is modified.
func (p *Profile) Compile() error {
	var errs []error
	for _, group := range []struct {
		name    string
		markers []string
	}{
		{"metadata_markers", p.MetadataMarkers},
		{"preliminary_markers", p.PreliminaryMarkers},
		{"toc_markers", p.TOCMarkers},
	} {
		for i, m := range group.markers {
			if m == "" {
				errs = append(errs, fmt.Errorf("%s[%d] is empty", group.name, i))
			}
		}
	}

	kw := p.Keywords
	for _, k := range []struct{ name, value string }{
		{"keywords.book", kw.Book},
		{"keywords.title", kw.Title},
		{"keywords.chapter", kw.Chapter},
		{"keywords.section", kw.Section},
		{"keywords.paragraph_mark", kw.ParagraphMark},
	} {
		if strings.TrimSpace(k.value) == "" {
			errs = append(errs, fmt.Errorf("%s is empty", k.name))
		}
	}

	if p.ArticleLabel == "" {
		errs = append(errs, errors.New("article_label is empty"))
	}

	re, err := regexp.Compile(p.ConnectorPattern)
	if err != nil {
		errs = append(errs, fmt.Errorf("connector_pattern: %w", err))
	} else if p.ConnectorPattern == "" {
		errs = append(errs, errors.New("connector_pattern is empty"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid profile %q: %w", p.Name, errors.Join(errs...))
	}
	p.connector = re
	return nil
}

// IsMetadata reports whether line is a running header or footer.
func (p *Profile) IsMetadata(line string) bool {
	return containsAny(line, p.MetadataMarkers)
}

// YAML encodes the profile in the format ParseProfile reads.
func (p *Profile) YAML() ([]byte, error) {
	return yaml.Marshal(p)
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
