package crew

import (
	"bytes"
	"fmt"
	"text/template"
)

// RenderTemplate executes a Go template string against the given inputs.
// Inputs are accessible as {{.name}}. Referencing a missing key is an
// error rather than silently rendering "<no value>".
func RenderTemplate(templateStr string, inputs map[string]any) (string, error) {
	if inputs == nil {
		inputs = map[string]any{}
	}

	tmpl, err := template.New("task").
		Option("missingkey=error").
		Parse(templateStr)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, inputs); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}
