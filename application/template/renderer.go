// Package template renders release URLs and install paths from text templates.
package template

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/reglet-dev/wasmer-pipeline/domain/ports"
)

// templateConfig holds configuration for the GoTemplateEngine.
type templateConfig struct {
	strict bool // Fail on missing keys
}

func defaultTemplateConfig() templateConfig {
	return templateConfig{
		strict: true,
	}
}

// TemplateOption configures a GoTemplateEngine.
type TemplateOption func(*templateConfig)

// WithStrict enables/disables strict mode for missing keys.
// When enabled (default), rendering fails if a referenced key is missing,
// so a typo never produces a download URL with an empty segment.
func WithStrict(enabled bool) TemplateOption {
	return func(c *templateConfig) {
		c.strict = enabled
	}
}

// GoTemplateEngine implements TemplateEngine using standard text/template.
type GoTemplateEngine struct {
	config templateConfig
}

// NewGoTemplateEngine creates a new GoTemplateEngine.
func NewGoTemplateEngine(opts ...TemplateOption) ports.TemplateEngine {
	cfg := defaultTemplateConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &GoTemplateEngine{config: cfg}
}

// Render executes raw as a template against data.
func (e *GoTemplateEngine) Render(raw []byte, data map[string]any) ([]byte, error) {
	tmpl := template.New("pipeline")
	if e.config.strict {
		tmpl = tmpl.Option("missingkey=error")
	}

	tmpl, err := tmpl.Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.Bytes(), nil
}

// MustRenderString renders a string template, panicking on error.
// Only use it with templates and data known at compile time.
func MustRenderString(engine ports.TemplateEngine, raw string, data map[string]any) string {
	out, err := engine.Render([]byte(raw), data)
	if err != nil {
		panic(err)
	}
	return string(out)
}
