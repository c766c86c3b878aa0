package render

import (
	"embed"
	htmltemplate "html/template"
	"io"
	"strings"
	texttemplate "text/template"
)

//go:embed templates/*.tmpl
var printFS embed.FS

var (
	htmlPrint = htmltemplate.Must(htmltemplate.ParseFS(printFS, "templates/print.html.tmpl"))
	textPrint = texttemplate.Must(texttemplate.New("print.txt.tmpl").
			Funcs(texttemplate.FuncMap{"join": strings.Join}).
			ParseFS(printFS, "templates/print.txt.tmpl"))
)

// Print formats.
const (
	FormatJSON = "json"
	FormatHTML = "html"
	FormatText = "text"
)

// WriteHTML writes the print view of a projected document as HTML.
func WriteHTML(w io.Writer, doc RenderableDocument) error {
	return htmlPrint.Execute(w, doc)
}

// WriteText writes the print view of a projected document as plain text.
func WriteText(w io.Writer, doc RenderableDocument) error {
	return textPrint.Execute(w, doc)
}
