package ui

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"strconv"

	"heartrisk/internal/profiles"
)

//go:embed templates/*.html static/*
var embeddedFiles embed.FS

var funcMap = template.FuncMap{
	"fieldValue": func(values url.Values, f profiles.Field) string {
		return values.Get(f.Name())
	},
	"optionSelected": func(values url.Values, f profiles.Field, o profiles.Option) bool {
		return values.Get(f.Name()) == strconv.Itoa(o.Value)
	},
	"num": func(v float64) string {
		return strconv.FormatFloat(v, 'f', -1, 64)
	},
	"fixed": func(v float64) string {
		return strconv.FormatFloat(v, 'f', 2, 64)
	},
	"pct": func(v float64) string {
		return strconv.FormatFloat(v, 'f', 2, 64) + " %"
	},
	"until": func(n int) []int {
		res := make([]int, n)
		for i := range res {
			res[i] = i
		}
		return res
	},
}

// parseTemplates loads every page template with the shared header and footer.
func parseTemplates() (*template.Template, error) {
	t, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return t, nil
}

// renderHTML renders into a buffer first so a template error never leaves a
// half-written page behind.
func renderHTML(t *template.Template, name string, data interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
