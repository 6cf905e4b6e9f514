package render

import (
	"bytes"
	_ "embed"
	"html/template"
	"sort"
)

//go:embed resume.html.tmpl
var resumeTemplate string

var tmpl = template.Must(template.New("resume").Funcs(template.FuncMap{
	"sortedCategories": sortedCategories,
}).Parse(resumeTemplate))

// HTML renders the resolved document into a self-contained page suitable
// for printing to PDF.
func HTML(doc *Document) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

type skillCategory struct {
	Name   string
	Skills []string
}

func sortedCategories(m map[string][]string) []skillCategory {
	out := make([]skillCategory, 0, len(m))
	for name, skills := range m {
		out = append(out, skillCategory{Name: name, Skills: skills})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
