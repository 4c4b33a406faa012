package ports

// TemplateEngine renders text templates with the given data.
type TemplateEngine interface {
	// Render processes the raw template bytes with data.
	// Returns the resolved bytes with all placeholders replaced.
	Render(raw []byte, data map[string]any) ([]byte, error)
}
