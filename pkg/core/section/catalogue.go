// Package section holds the prompt form: the fixed, ordered catalogue of
// sections and the current value of each one.
package section

import (
	"prompt_architect/pkg/models"
)

// FieldID names one section of the form.
type FieldID string

const (
	FieldRole        FieldID = "role"
	FieldTask        FieldID = "task"
	FieldContext     FieldID = "context"
	FieldReasoning   FieldID = "reasoning"
	FieldFramework   FieldID = "framework"
	FieldFormat      FieldID = "format"
	FieldValidation  FieldID = "validation"
	FieldTemperature FieldID = "temperature"
	FieldLanguage    FieldID = "language"
)

// Kind is the input semantics of a section.
type Kind string

const (
	KindText   Kind = "text"
	KindToggle Kind = "toggle"
	KindSelect Kind = "select"
	KindRange  Kind = "range"
)

// Descriptor describes one section to a form renderer.
type Descriptor struct {
	ID          FieldID         `json:"id"`
	Label       string          `json:"label"`
	Description string          `json:"description"`
	Kind        Kind            `json:"kind"`
	Placeholder string          `json:"placeholder,omitempty"`
	Options     []models.Option `json:"options,omitempty"`
	Min         float64         `json:"min,omitempty"`
	Max         float64         `json:"max,omitempty"`
	Step        float64         `json:"step,omitempty"`
	Assistable  bool            `json:"assistable"`
}

const (
	TemperatureMin  = 0.0
	TemperatureMax  = 1.0
	TemperatureStep = 0.1
)

// Sections returns the catalogue in assembly order.
func Sections() []Descriptor {
	return []Descriptor{
		{
			ID:          FieldRole,
			Label:       "Role",
			Description: "Give the AI a specialty or persona.",
			Kind:        KindText,
			Placeholder: "E.g. Senior Digital Marketing Specialist with 10 years of experience...",
			Assistable:  true,
		},
		{
			ID:          FieldTask,
			Label:       "Task",
			Description: "State the main action to perform.",
			Kind:        KindText,
			Placeholder: "E.g. Create a LinkedIn content plan...",
			Assistable:  true,
		},
		{
			ID:          FieldContext,
			Label:       "Context",
			Description: "Provide relevant information and background.",
			Kind:        KindText,
			Placeholder: "E.g. The company sells B2B software to small businesses. The goal is to increase leads...",
			Assistable:  true,
		},
		{
			ID:          FieldReasoning,
			Label:       "Reasoning",
			Description: "Ask the AI to think step by step before answering.",
			Kind:        KindToggle,
		},
		{
			ID:          FieldFramework,
			Label:       "Framework",
			Description: "Choose a methodology to structure the answer.",
			Kind:        KindSelect,
			Options:     models.FrameworkOptions(),
		},
		{
			ID:          FieldFormat,
			Label:       "Format",
			Description: "How should the output be presented?",
			Kind:        KindSelect,
			Options:     models.FormatOptions(),
		},
		{
			ID:          FieldValidation,
			Label:       "Validation",
			Description: "Quality criteria, style and constraints.",
			Kind:        KindText,
			Placeholder: "E.g. Use a professional tone, avoid technical jargon, 300 words maximum...",
			Assistable:  true,
		},
		{
			ID:          FieldTemperature,
			Label:       "Temperature (Creativity)",
			Description: "Controls randomness: 0 is focused and deterministic, 1 is creative and varied.",
			Kind:        KindRange,
			Min:         TemperatureMin,
			Max:         TemperatureMax,
			Step:        TemperatureStep,
		},
		{
			ID:          FieldLanguage,
			Label:       "Output Language",
			Description: "Which language should the AI answer in?",
			Kind:        KindSelect,
			Options:     models.LanguageOptions(),
		},
	}
}

// Lookup returns the descriptor for id.
func Lookup(id FieldID) (Descriptor, bool) {
	for _, d := range Sections() {
		if d.ID == id {
			return d, true
		}
	}
	return Descriptor{}, false
}
