package models

import (
	"time"
)

// PromptData is the full set of section values a prompt is assembled from.
// Values are copied, never shared: every edit produces a new PromptData.
type PromptData struct {
	Role        string    `json:"role"`
	Task        string    `json:"task"`
	Context     string    `json:"context"`
	Reasoning   bool      `json:"reasoning"`
	Framework   Framework `json:"framework"`
	Format      Format    `json:"format"`
	Validation  string    `json:"validation"`
	Temperature float64   `json:"temperature"`
	Language    Language  `json:"language"`
}

const (
	DefaultTemperature = 0.7
	DefaultLanguage    = LanguagePtBR
)

// DefaultPromptData returns the state a fresh or cleared draft starts from.
func DefaultPromptData() PromptData {
	return PromptData{
		Temperature: DefaultTemperature,
		Language:    DefaultLanguage,
	}
}

// ArchiveRecord is what gets persisted after a successful test run.
type ArchiveRecord struct {
	ID                string    `json:"id" db:"id"`
	UserID            string    `json:"user_id,omitempty" db:"user_id"`
	Role              string    `json:"role" db:"role"`
	Task              string    `json:"task" db:"task"`
	Context           string    `json:"context" db:"context"`
	Temperature       float64   `json:"temperature" db:"temperature"`
	Language          string    `json:"language" db:"language"`
	FinalPrompt       string    `json:"final_prompt" db:"final_prompt"`
	GeneratedResponse string    `json:"generated_response" db:"generated_response"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
}

// AuthorizedEmail is one entry of the access allow-list.
type AuthorizedEmail struct {
	Email     string    `json:"email" db:"email"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Profile is a registered user as mirrored by the hosted auth backend.
type Profile struct {
	ID        string    `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	CPF       *string   `json:"cpf,omitempty" db:"cpf"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
