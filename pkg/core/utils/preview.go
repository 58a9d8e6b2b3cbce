package utils

import "prompt_architect/pkg/models"

// Preview is the displayable form of a generation result.
type Preview struct {
	Text string `json:"text"`
	HTML string `json:"html,omitempty"`
	JSON string `json:"json,omitempty"`
}

// BuildPreview renders text for display. Rendering problems never hide the
// raw text; the affected field is simply left empty.
func BuildPreview(text string, format models.Format) Preview {
	p := Preview{Text: text}
	if html, err := RenderMarkdown(text); err == nil {
		p.HTML = html
	}
	if format == models.FormatJSON {
		if repaired, err := RepairJSON(text); err == nil {
			p.JSON = repaired
		}
	}
	return p
}
