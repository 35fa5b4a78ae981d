package ui

import (
	"html/template"
	"io/fs"
	"path"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// renderMarkdown converts trusted, embedded Markdown into HTML
func renderMarkdown(src []byte) template.HTML {
	// A parser is single-use.
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank})
	return template.HTML(markdown.ToHTML(src, p, renderer))
}

// loadPages renders every .md file under dir, keyed by base name
func loadPages(fsys fs.FS, dir string) (map[string]template.HTML, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}

	pages := make(map[string]template.HTML, len(entries))
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".md" {
			continue
		}
		src, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		pages[strings.TrimSuffix(e.Name(), ".md")] = renderMarkdown(src)
	}
	return pages, nil
}
