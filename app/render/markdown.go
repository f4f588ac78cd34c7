package render

import (
	"bytes"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
)

// Raw HTML in post content is dropped; goldmark's default renderer is not
// "unsafe", so the output is safe to mark as template.HTML.
var markdownEngine = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Typographer,
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithHardWraps(),
	),
)

// Markdown renders post content to HTML. Rendering failures fall back to
// the escaped source text.
func Markdown(source string) template.HTML {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(source), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(source))
	}
	return template.HTML(buf.String())
}

// Funcs are the template helpers shared by every view.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"markdown": Markdown,
	}
}
