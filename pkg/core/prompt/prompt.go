// Package prompt provides the template library for the meta-prompts this
// service sends on the user's behalf (section refinement). Templates can be
// overridden by JSON files loaded at runtime, so wording changes need no rebuild.
package prompt

// PromptTemplate represents a reusable prompt with metadata
type PromptTemplate struct {
	ID             string `json:"id"`                   // Unique identifier (e.g., "refine.section")
	Name           string `json:"name"`                 // Human-readable name
	Category       string `json:"category"`             // Derived from the folder when empty
	Description    string `json:"description"`          // Description of prompt purpose
	SystemPrompt   string `json:"system_prompt"`        // Optional system instruction
	UserPromptTmpl string `json:"user_prompt_template"` // Go template for user prompt
	Version        string `json:"version"`
}

// Well-known template ids.
const (
	RefineSectionID = "refine.section"
)

// RefineVars are the variables available to the refine.section template.
type RefineVars struct {
	Label    string
	Draft    string
	HasDraft bool
}

const refineSectionTemplate = `Act as an expert Prompt Engineer.
Your task is to write (or improve) the content for the section: "{{.Label}}" of a structured prompt.

{{if .HasDraft}}The user typed the following draft: "{{.Draft}}"{{else}}The field is empty. Generate a generic, yet robust and professional example.{{end}}

Write only the improved content for this specific field. Be direct, detailed and professional.
Do not use quotes at the beginning or end, only the text.
If the input is very short, expand it creatively to make it useful.`

func builtinTemplates() []*PromptTemplate {
	return []*PromptTemplate{
		{
			ID:             RefineSectionID,
			Name:           "Section refinement",
			Category:       "refine",
			Description:    "Rewrites or expands the draft of a single form section.",
			UserPromptTmpl: refineSectionTemplate,
			Version:        "1",
		},
	}
}
