package prompt

import (
	"bytes"
	"fmt"
	"sort"
	"sync"
	"text/template"
)

// Registry holds prompt templates by id.
type Registry struct {
	prompts map[string]*PromptTemplate
	mu      sync.RWMutex
}

// NewRegistry returns a registry preloaded with the built-in templates.
func NewRegistry() *Registry {
	r := &Registry{prompts: make(map[string]*PromptTemplate)}
	for _, pt := range builtinTemplates() {
		r.prompts[pt.ID] = pt
	}
	return r
}

// Register adds or replaces a prompt template. The user template must parse.
func (r *Registry) Register(pt *PromptTemplate) error {
	if pt.ID == "" {
		return fmt.Errorf("prompt ID cannot be empty")
	}
	if _, err := template.New(pt.ID).Parse(pt.UserPromptTmpl); err != nil {
		return fmt.Errorf("prompt %s: invalid template: %w", pt.ID, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.prompts[pt.ID] = pt
	return nil
}

// GetPrompt retrieves a prompt by ID
func (r *Registry) GetPrompt(id string) (*PromptTemplate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if p, ok := r.prompts[id]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("prompt not found: %s", id)
}

// Render executes the user template of id with vars and returns it together
// with the template's system prompt.
func (r *Registry) Render(id string, vars any) (user string, system string, err error) {
	pt, err := r.GetPrompt(id)
	if err != nil {
		return "", "", err
	}
	tmpl, err := template.New(pt.ID).Parse(pt.UserPromptTmpl)
	if err != nil {
		return "", "", fmt.Errorf("failed to parse template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return "", "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), pt.SystemPrompt, nil
}

// ListPrompts returns all registered prompt IDs, sorted.
func (r *Registry) ListPrompts() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.prompts))
	for id := range r.prompts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
