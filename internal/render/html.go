// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render produces a standalone HTML preview of converted Markdown.
package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
)

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="fr">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { max-width: 48em; margin: 2em auto; padding: 0 1em; font-family: Georgia, serif; line-height: 1.5; }
code { font-family: inherit; font-weight: bold; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// Body renders md to sanitized HTML. Headings get generated ids so the
// preview can be linked into.
func Body(md []byte) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	doc := p.Parse(md)

	r := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return bluemonday.UGCPolicy().SanitizeBytes(markdown.Render(doc, r))
}

// HTML renders md as a complete page titled title.
func HTML(title string, md []byte) ([]byte, error) {
	var buf bytes.Buffer
	err := pageTmpl.Execute(&buf, struct {
		Title string
		Body  template.HTML
	}{
		Title: title,
		Body:  template.HTML(Body(md)),
	})
	if err != nil {
		return nil, fmt.Errorf("rendering HTML preview: %w", err)
	}
	return buf.Bytes(), nil
}
