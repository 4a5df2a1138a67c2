// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package format

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pdiddy/pdf2md-legal/pkg/types"
)

// Whitespace classes include Unicode spaces: French legal text uses
// no-break spaces around punctuation and between words of a heading.
var (
	ellipsisRun     = regexp.MustCompile(`\.{3,}|…+`)
	trailingDigits  = regexp.MustCompile(`\d+$`)
	articleNumber   = regexp.MustCompile(`^\d+[.,]?[\s\p{Zs}]*$`)
	chapterCitation = regexp.MustCompile(`\d{4},[\s\p{Zs}]*c\.[\s\p{Zs}]*\d+`)
	romanOrdinal    = regexp.MustCompile(`^[IVX]+\.[\s\p{Zs}]*[—–]`)
)

const (
	capsMinLen      = 10  // all-caps rule: strictly longer
	connectorMaxLen = 100 // connector rule: strictly shorter
)

// Rule is one entry of the ordered classification table: a predicate over a
// trimmed line and the renderer applied when it matches.
type Rule struct {
	Name   string
	Kind   types.FragmentKind
	Level  int
	Match  func(line string) bool
	Render func(line string) string
}

// NewRules builds the ordered rule table for p. Order is significant: the
// first matching rule wins.
func NewRules(p *Profile) []Rule {
	kw := p.Keywords
	return []Rule{
		{
			Name:   "blank",
			Kind:   types.KindBlank,
			Match:  func(line string) bool { return line == "" },
			Render: func(string) string { return "\n" },
		},
		headingRule("preliminary", 2, func(line string) bool {
			return containsAny(line, p.PreliminaryMarkers)
		}),
		headingRule("toc-heading", 2, func(line string) bool {
			return containsAny(line, p.TOCMarkers)
		}),
		headingRule("book", 2, prefix(kw.Book)),
		headingRule("title", 3, prefix(kw.Title)),
		headingRule("chapter", 4, prefix(kw.Chapter)),
		headingRule("section", 5, prefix(kw.Section)),
		headingRule("paragraph-mark", 6, prefix(kw.ParagraphMark)),
		boldRule("caps-heading", func(line string) bool {
			return isUpper(line) &&
				utf8.RuneCountInString(line) > capsMinLen &&
				(p.CapsExcludedPrefix == "" || !strings.HasPrefix(line, p.CapsExcludedPrefix))
		}),
		boldRule("connector-heading", func(line string) bool {
			return p.connector.MatchString(line) &&
				isUpper(line) &&
				utf8.RuneCountInString(line) < connectorMaxLen &&
				!ellipsisRun.MatchString(line)
		}),
		{
			Name: "toc-entry",
			Kind: types.KindTOCEntry,
			Match: func(line string) bool {
				_, _, ok := splitTOCEntry(line)
				return ok
			},
			Render: func(line string) string {
				title, page, _ := splitTOCEntry(line)
				return "- " + title + " `" + page + "`\n"
			},
		},
		{
			Name:  "article",
			Kind:  types.KindArticle,
			Match: articleNumber.MatchString,
			Render: func(line string) string {
				return "`" + p.ArticleLabel + " " + articleNumberOf(line) + "`\n\n"
			},
		},
		{
			Name:   "citation",
			Kind:   types.KindCitation,
			Match:  chapterCitation.MatchString,
			Render: func(line string) string { return "*" + line + "*\n\n" },
		},
		boldRule("roman-heading", romanOrdinal.MatchString),
		{
			Name:   "plain",
			Kind:   types.KindPlain,
			Match:  func(string) bool { return true },
			Render: func(line string) string { return line + "\n" },
		},
	}
}

func headingRule(name string, level int, match func(string) bool) Rule {
	marks := strings.Repeat("#", level)
	return Rule{
		Name:   name,
		Kind:   types.KindHeading,
		Level:  level,
		Match:  match,
		Render: func(line string) string { return marks + " " + line + "\n\n" },
	}
}

func boldRule(name string, match func(string) bool) Rule {
	return Rule{
		Name:   name,
		Kind:   types.KindBold,
		Match:  match,
		Render: func(line string) string { return "**" + line + "**\n\n" },
	}
}

func prefix(p string) func(string) bool {
	return func(line string) bool { return strings.HasPrefix(line, p) }
}

// splitTOCEntry splits a dotted table-of-contents line into its title and
// page number. It requires exactly one ellipsis run followed by nothing but
// digits; anything else is left to later rules.
func splitTOCEntry(line string) (title, page string, ok bool) {
	if !trailingDigits.MatchString(line) {
		return "", "", false
	}
	runs := ellipsisRun.FindAllStringIndex(line, -1)
	if len(runs) != 1 {
		return "", "", false
	}
	page = strings.TrimSpace(line[runs[0][1]:])
	if page == "" || strings.TrimLeft(page, "0123456789") != "" {
		return "", "", false
	}
	return strings.TrimSpace(line[:runs[0][0]]), page, true
}

// articleNumberOf strips surrounding whitespace and punctuation from a bare
// article number line.
func articleNumberOf(line string) string {
	return strings.Trim(strings.TrimSpace(line), ".,")
}

// isUpper reports whether s has at least one cased letter and no lower or
// title case letters.
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		switch {
		case unicode.IsLower(r), unicode.IsTitle(r):
			return false
		case unicode.IsUpper(r):
			cased = true
		}
	}
	return cased
}
