package prompts

import (
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed templates/*.tmpl
var files embed.FS

// Library renders the system prompts for the three classification passes.
// Prompt text lives in versioned template files, not in request-handling
// code, so behavior edits don't touch the pipeline.
type Library struct {
	region string
	tmpl   *template.Template
}

func New(region string) (*Library, error) {
	tmpl, err := template.ParseFS(files, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("error parsing prompt templates: %w", err)
	}
	return &Library{region: region, tmpl: tmpl}, nil
}

// Crisis returns the system prompt for the crisis classification pass.
func (l *Library) Crisis() (string, error) {
	return l.render("crisis.tmpl", map[string]any{
		"Region": l.region,
	})
}

// Router returns the system prompt for the routing pass, grounded in the
// live employer and category vocabularies.
func (l *Library) Router(employers, categories []string) (string, error) {
	return l.render("router.tmpl", map[string]any{
		"Region":     l.region,
		"Employers":  bulletList(employers),
		"Categories": bulletList(categories),
	})
}

// Answerer returns the system prompt for the fallback answering pass.
func (l *Library) Answerer() (string, error) {
	return l.render("answerer.tmpl", map[string]any{
		"Region": l.region,
	})
}

func (l *Library) render(name string, data map[string]any) (string, error) {
	var sb strings.Builder
	if err := l.tmpl.ExecuteTemplate(&sb, name, data); err != nil {
		return "", fmt.Errorf("error rendering prompt %s: %w", name, err)
	}
	return sb.String(), nil
}

func bulletList(items []string) string {
	if len(items) == 0 {
		return "(none currently known)"
	}
	var sb strings.Builder
	for _, item := range items {
		sb.WriteString("- ")
		sb.WriteString(item)
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
