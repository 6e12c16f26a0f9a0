package template

import (
	"strings"
	"text/template"
)

// html/template writes &#34; for double quotes; job summaries use &quot;.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// EscapeHTML escapes the five HTML-reserved characters for summary templates.
func EscapeHTML(text string) string {
	return htmlEscaper.Replace(text)
}

// NewTemplate parses a summary template. Values are not escaped implicitly;
// templates call escape on user-controlled fields.
func NewTemplate(name, text string) (*template.Template, error) {
	return template.New(name).
		Funcs(template.FuncMap{
			"escape": EscapeHTML,
		}).
		Parse(text)
}
