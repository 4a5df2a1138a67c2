// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package format

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pdf2md-legal/pkg/types"
)

func newTestClassifier(t *testing.T) *Classifier {
	t.Helper()
	c, err := NewClassifier(DefaultProfile())
	require.NoError(t, err)
	return c
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantRule string
		wantKind types.FragmentKind
		want     string
	}{
		{"empty line", "", "blank", types.KindBlank, "\n"},
		{"whitespace only", "   \t", "blank", types.KindBlank, "\n"},
		{"preliminary accented", "DISPOSITION PRÉLIMINAIRE", "preliminary", types.KindHeading, "## DISPOSITION PRÉLIMINAIRE\n\n"},
		{"preliminary unaccented", "DISPOSITION PRELIMINAIRE", "preliminary", types.KindHeading, "## DISPOSITION PRELIMINAIRE\n\n"},
		{"table of contents", "TABLE DES MATIÈRES", "toc-heading", types.KindHeading, "## TABLE DES MATIÈRES\n\n"},
		{"book", "LIVRE PREMIER", "book", types.KindHeading, "## LIVRE PREMIER\n\n"},
		{"title", "TITRE PREMIER", "title", types.KindHeading, "### TITRE PREMIER\n\n"},
		{"chapter", "CHAPITRE PREMIER", "chapter", types.KindHeading, "#### CHAPITRE PREMIER\n\n"},
		{"section", "SECTION I", "section", types.KindHeading, "##### SECTION I\n\n"},
		{"paragraph mark", "§ 1. — Des biens", "paragraph-mark", types.KindHeading, "###### § 1. — Des biens\n\n"},
		{"surrounding whitespace trimmed", "   LIVRE DEUXIÈME  ", "book", types.KindHeading, "## LIVRE DEUXIÈME\n\n"},
		{"all caps heading", "DES PERSONNES", "caps-heading", types.KindBold, "**DES PERSONNES**\n\n"},
		{"caps heading ten runes is too short", "DU MARIAGE", "connector-heading", types.KindBold, "**DU MARIAGE**\n\n"},
		{"caps with DE prefix uses connector rule", "DE LA JOUISSANCE DES DROITS CIVILS", "connector-heading", types.KindBold, "**DE LA JOUISSANCE DES DROITS CIVILS**\n\n"},
		{"connector heading with ellipsis is a toc entry", "DE LA VENTE...45", "toc-entry", types.KindTOCEntry, "- DE LA VENTE `45`\n"},
		{"toc dotted entry", "Des successions...125", "toc-entry", types.KindTOCEntry, "- Des successions `125`\n"},
		{"toc long dot run", "Des successions .......... 125", "toc-entry", types.KindTOCEntry, "- Des successions `125`\n"},
		{"toc unicode ellipsis", "Des biens…12", "toc-entry", types.KindTOCEntry, "- Des biens `12`\n"},
		{"toc two ellipsis runs falls through", "Voir...ci-dessous...12", "plain", types.KindPlain, "Voir...ci-dessous...12\n"},
		{"toc non-digit tail falls through", "Des biens...p. 12", "plain", types.KindPlain, "Des biens...p. 12\n"},
		{"article with period", "50.", "article", types.KindArticle, "`Article 50`\n\n"},
		{"article bare", "50", "article", types.KindArticle, "`Article 50`\n\n"},
		{"article with comma", "1457,", "article", types.KindArticle, "`Article 1457`\n\n"},
		{"citation", "1991, c. 64, préam.", "citation", types.KindCitation, "*1991, c. 64, préam.*\n\n"},
		{"citation inside line", "1991, c. 64, a. 3; 2002, c. 19, a. 1.", "citation", types.KindCitation, "*1991, c. 64, a. 3; 2002, c. 19, a. 1.*\n\n"},
		{"citation with no-break space", "1991, c.\u00a064, a. 8.", "citation", types.KindCitation, "*1991, c.\u00a064, a. 8.*\n\n"},
		{"roman numeral em dash", "II. — Des obligations", "roman-heading", types.KindBold, "**II. — Des obligations**\n\n"},
		{"roman numeral en dash", "IV. – Règles générales", "roman-heading", types.KindBold, "**IV. – Règles générales**\n\n"},
		{"plain sentence", "Toute personne est titulaire de droits de la personnalité.", "plain", types.KindPlain, "Toute personne est titulaire de droits de la personnalité.\n"},
		{"short caps without connector", "NOTE", "plain", types.KindPlain, "NOTE\n"},
	}

	c := newTestClassifier(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frag, ok := c.Classify(tt.line)
			require.True(t, ok, "line should not be dropped")
			assert.Equal(t, tt.wantRule, frag.Rule)
			assert.Equal(t, tt.wantKind, frag.Kind)
			assert.Equal(t, tt.want, frag.Text)
		})
	}
}

func TestClassify_HeadingLevels(t *testing.T) {
	c := newTestClassifier(t)
	for line, level := range map[string]int{
		"LIVRE PREMIER":    2,
		"TITRE PREMIER":    3,
		"CHAPITRE PREMIER": 4,
		"SECTION II":       5,
		"§ 2. — Du gage":   6,
	} {
		frag, ok := c.Classify(line)
		require.True(t, ok)
		assert.Equal(t, level, frag.Level, line)
		assert.True(t, strings.HasPrefix(frag.Text, strings.Repeat("#", level)+" "), line)
	}
}

func TestClassify_FirstMatchWins(t *testing.T) {
	c := newTestClassifier(t)

	// Satisfies both the all-caps rule and the preliminary disposition rule.
	frag, ok := c.Classify("DISPOSITION PRÉLIMINAIRE")
	require.True(t, ok)
	assert.Equal(t, "preliminary", frag.Rule)

	// Starts with a keyword and is all caps: the keyword rule comes first.
	frag, ok = c.Classify("CHAPITRE DEUXIÈME")
	require.True(t, ok)
	assert.Equal(t, "chapter", frag.Rule)
}

func TestClassify_MetadataDropped(t *testing.T) {
	c := newTestClassifier(t)
	for _, line := range []string{
		"À jour au 30 juin 2025",
		"© Éditeur officiel du Québec",
		"CCQ-1991 / 12 sur 600",
		"CODE CIVIL DU QUÉBEC",
		"LIVRE PREMIER CODE CIVIL",
		"  DISPOSITION PRÉLIMINAIRE - CODE CIVIL  ",
	} {
		_, ok := c.Classify(line)
		assert.False(t, ok, "line %q should be dropped", line)
	}
}

func TestSplitPages(t *testing.T) {
	t.Run("no marker is a single page", func(t *testing.T) {
		assert.Equal(t, []string{"LIVRE PREMIER\n1."}, SplitPages("LIVRE PREMIER\n1."))
	})

	t.Run("markers removed and leading text discarded", func(t *testing.T) {
		raw := types.RawDocument{Pages: []types.Page{
			{Number: 1, Text: "first\n"},
			{Number: 2, Text: "second\n"},
		}}.Text()
		assert.Equal(t, []string{"\nfirst\n\n", "\nsecond\n"}, SplitPages(raw))
	})
}

func TestLines(t *testing.T) {
	t.Run("preserves empty lines", func(t *testing.T) {
		assert.Equal(t, []string{"a", "", "", "b"}, Lines("a\n\n\nb"))
	})

	t.Run("normalizes CRLF", func(t *testing.T) {
		assert.Equal(t, []string{"a", "b"}, Lines("a\r\nb"))
	})

	t.Run("normalizes decomposed accents", func(t *testing.T) {
		lines := Lines("DISPOSITION PRE\u0301LIMINAIRE")
		require.Len(t, lines, 1)
		assert.Equal(t, "DISPOSITION PRÉLIMINAIRE", lines[0])
	})
}

func TestFormat(t *testing.T) {
	f, err := New(nil)
	require.NoError(t, err)

	raw := types.RawDocument{Pages: []types.Page{
		{Number: 1, Text: "CODE CIVIL DU QUÉBEC\nLIVRE PREMIER\nDES PERSONNES\n"},
		{Number: 2, Text: "1.\nTout être humain possède la personnalité juridique.\n"},
	}}.Text()

	res := f.Format("CODE CIVIL DU QUEBEC", raw)

	want := "# CODE CIVIL DU QUEBEC\n" +
		"*À jour au 30 juin 2025*\n" +
		"*© Éditeur officiel du Québec*\n\n" +
		"---\n\n" +
		"\n" +
		"## LIVRE PREMIER\n\n" +
		"**DES PERSONNES**\n\n" +
		"\n\n\n\n" +
		"`Article 1`\n\n" +
		"Tout être humain possède la personnalité juridique.\n" +
		"\n"
	assert.Equal(t, want, res.Markdown)

	assert.Equal(t, 11, res.Stats.Lines)
	assert.Equal(t, 1, res.Stats.Dropped)
	assert.Equal(t, 10, res.Stats.Fragments())
	assert.Equal(t, 6, res.Stats.Kinds[types.KindBlank])
	assert.Equal(t, 1, res.Stats.Kinds[types.KindHeading])
	assert.Equal(t, 1, res.Stats.Kinds[types.KindBold])
	assert.Equal(t, 1, res.Stats.Kinds[types.KindArticle])
	assert.Equal(t, 1, res.Stats.Kinds[types.KindPlain])
}

func TestFormat_OrderPreserved(t *testing.T) {
	f, err := New(nil)
	require.NoError(t, err)

	lines := []string{
		"TITRE DEUXIÈME",
		"© Éditeur officiel du Québec",
		"CHAPITRE PREMIER",
		"3.",
		"Toute personne est titulaire de droits.",
		"1991, c. 64, a. 3.",
	}
	res := f.Format("T", strings.Join(lines, "\n"))

	var got []string
	for _, frag := range res.Fragments {
		got = append(got, frag.Line)
	}
	assert.Equal(t, []string{
		"TITRE DEUXIÈME",
		"CHAPITRE PREMIER",
		"3.",
		"Toute personne est titulaire de droits.",
		"1991, c. 64, a. 3.",
	}, got)
}

func TestFormat_OneBlankPerEmptyLine(t *testing.T) {
	f, err := New(nil)
	require.NoError(t, err)

	res := f.Format("T", "a\n\n\n\nb")
	assert.Equal(t, 3, res.Stats.Kinds[types.KindBlank])
	assert.True(t, strings.HasSuffix(res.Markdown, "a\n\n\n\nb\n"))
}

func TestFormat_CustomProfile(t *testing.T) {
	p, err := ParseProfile([]byte(`
name: example
metadata_markers: ["Page courante"]
boilerplate:
  effective_date: "En vigueur le 1er janvier 2026"
  copyright: "© Exemple"
keywords:
  book: "PARTIE "
`))
	require.NoError(t, err)

	f, err := New(p)
	require.NoError(t, err)

	res := f.Format("EXEMPLE", "PARTIE UN\nCODE CIVIL DU QUÉBEC\nPage courante 3\nTITRE UN")
	assert.Contains(t, res.Markdown, "*En vigueur le 1er janvier 2026*\n*© Exemple*\n\n")
	assert.Contains(t, res.Markdown, "## PARTIE UN\n\n")
	assert.Contains(t, res.Markdown, "**CODE CIVIL DU QUÉBEC**\n\n", "CODE CIVIL is not a marker in this profile")
	assert.NotContains(t, res.Markdown, "Page courante")
	assert.Contains(t, res.Markdown, "### TITRE UN\n\n", "unset keywords keep their defaults")
}

func TestIsUpper(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"LIVRE PREMIER", true},
		{"DE L'ÉTAT CIVIL", true},
		{"ARTICLE 12", true},
		{"Livre premier", false},
		{"123 456", false},
		{"", false},
		{"ǅ", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isUpper(tt.in), tt.in)
	}
}
