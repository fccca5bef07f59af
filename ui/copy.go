package ui

import (
	"embed"
	"fmt"
	"html/template"
	"sort"
	"strings"

	"heartrisk/ports"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

//go:embed content/*.md
var contentFiles embed.FS

// Copy is the static page text, rendered from markdown once at startup.
type Copy struct {
	About      template.HTML
	Disclaimer template.HTML
	EDA        template.HTML
	Footer     template.HTML
}

// LoadCopy renders the embedded markdown files.
func LoadCopy() (*Copy, error) {
	c := &Copy{}
	for name, dst := range map[string]*template.HTML{
		"about":      &c.About,
		"disclaimer": &c.Disclaimer,
		"eda":        &c.EDA,
		"footer":     &c.Footer,
	} {
		md, err := contentFiles.ReadFile("content/" + name + ".md")
		if err != nil {
			return nil, fmt.Errorf("failed to read page copy %s: %w", name, err)
		}
		*dst = renderMarkdown(md)
	}
	return c, nil
}

func renderMarkdown(md []byte) template.HTML {
	// parsers are stateful, one per document
	p := parser.NewWithExtensions(parser.CommonExtensions)
	r := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank})
	return template.HTML(markdown.ToHTML(md, p, r))
}

var metricLabels = map[string]string{
	"recall":    "Recall",
	"precision": "Precision",
	"roc_auc":   "ROC AUC",
	"accuracy":  "Accuracy",
	"f1":        "F1",
}

// Caption summarizes the artifact's test-set metrics, e.g.
// "Random Forest on test data: Recall = 0.89, Precision = 0.89, ROC AUC = 0.93".
func Caption(info ports.ModelInfo) string {
	if len(info.Metrics) == 0 {
		return ""
	}
	keys := make([]string, 0, len(info.Metrics))
	for k := range info.Metrics {
		keys = append(keys, k)
	}
	// recall, precision, roc_auc first, in that order
	rank := func(k string) int {
		switch k {
		case "recall":
			return 0
		case "precision":
			return 1
		case "roc_auc":
			return 2
		}
		return 3
	}
	sort.Slice(keys, func(i, j int) bool {
		if rank(keys[i]) != rank(keys[j]) {
			return rank(keys[i]) < rank(keys[j])
		}
		return keys[i] < keys[j]
	})

	parts := make([]string, len(keys))
	for i, k := range keys {
		label, ok := metricLabels[k]
		if !ok {
			label = k
		}
		parts[i] = fmt.Sprintf("%s = %.2f", label, info.Metrics[k])
	}

	name := info.Name
	if name == "" {
		name = strings.ReplaceAll(info.Kind, "_", " ")
	}
	return fmt.Sprintf("%s on test data: %s", name, strings.Join(parts, ", "))
}
