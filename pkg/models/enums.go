package models

import (
	"strings"
)

// Framework is a structuring methodology the answer should follow.
// The zero value means no framework.
type Framework string

const (
	FrameworkNone Framework = ""
	FrameworkSWOT Framework = "SWOT"
	Framework5W2H Framework = "5W2H"
	FrameworkOKR  Framework = "OKR"
	FrameworkPMI  Framework = "PMI"
	FrameworkSTAR Framework = "STAR"
	FrameworkAIDA Framework = "AIDA"
)

// Format is the presentation the answer must use. The zero value means unspecified.
type Format string

const (
	FormatNone     Format = ""
	FormatText     Format = "TEXT"
	FormatTable    Format = "TABLE"
	FormatList     Format = "LIST"
	FormatJSON     Format = "JSON"
	FormatCode     Format = "CODE"
	FormatMarkdown Format = "MARKDOWN"
)

// Language is an output language code such as "pt-BR".
type Language string

const (
	LanguagePtBR Language = "pt-BR"
	LanguageEnUS Language = "en-US"
	LanguageEs   Language = "es"
	LanguageFr   Language = "fr"
	LanguageDe   Language = "de"
)

// Option is one selectable value of an enumerated section.
// Label is what a form shows; Value is the text injected into the prompt.
type Option struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Value string `json:"value"`
}

var frameworkOptions = []Option{
	{ID: string(FrameworkNone), Label: "None / Custom", Value: ""},
	{ID: string(FrameworkSWOT), Label: "SWOT", Value: "SWOT Analysis (Strengths, Weaknesses, Opportunities, Threats)"},
	{ID: string(Framework5W2H), Label: "5W2H", Value: "5W2H (What, Why, Where, When, Who, How, How much)"},
	{ID: string(FrameworkOKR), Label: "OKR", Value: "OKR (Objectives and Key Results)"},
	{ID: string(FrameworkPMI), Label: "PMI", Value: "PMI Standard (Project Management Institute)"},
	{ID: string(FrameworkSTAR), Label: "STAR", Value: "STAR Method (Situation, Task, Action, Result)"},
	{ID: string(FrameworkAIDA), Label: "AIDA", Value: "AIDA (Attention, Interest, Desire, Action)"},
}

var formatOptions = []Option{
	{ID: string(FormatText), Label: "Running Text", Value: "Running Text"},
	{ID: string(FormatTable), Label: "Structured Table", Value: "Structured Table"},
	{ID: string(FormatList), Label: "Bullet List", Value: "Bullet List"},
	{ID: string(FormatJSON), Label: "JSON", Value: "JSON"},
	{ID: string(FormatCode), Label: "Code Block", Value: "Code Block"},
	{ID: string(FormatMarkdown), Label: "Rich Markdown", Value: "Rich Markdown"},
}

var languageOptions = []Option{
	{ID: string(LanguagePtBR), Label: "Portuguese (Brazil)", Value: "Português do Brasil"},
	{ID: string(LanguageEnUS), Label: "English (US)", Value: "English (US)"},
	{ID: string(LanguageEs), Label: "Spanish", Value: "Español"},
	{ID: string(LanguageFr), Label: "French", Value: "Français"},
	{ID: string(LanguageDe), Label: "German", Value: "Deutsch"},
}

// FrameworkOptions lists every framework, NONE first.
func FrameworkOptions() []Option { return cloneOptions(frameworkOptions) }

// FormatOptions lists every output format.
func FormatOptions() []Option { return cloneOptions(formatOptions) }

// LanguageOptions lists every supported output language.
func LanguageOptions() []Option { return cloneOptions(languageOptions) }

func cloneOptions(in []Option) []Option {
	out := make([]Option, len(in))
	copy(out, in)
	return out
}

// lookup finds an option by id (case-insensitive) or by exact value.
func lookup(options []Option, raw string) (Option, bool) {
	for _, o := range options {
		if strings.EqualFold(o.ID, raw) {
			return o, true
		}
	}
	for _, o := range options {
		if o.Value != "" && o.Value == raw {
			return o, true
		}
	}
	return Option{}, false
}

// ParseFramework resolves an id or display value. Blank input is FrameworkNone.
func ParseFramework(raw string) (Framework, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return FrameworkNone, true
	}
	o, ok := lookup(frameworkOptions, raw)
	return Framework(o.ID), ok
}

// ParseFormat resolves an id or display value. Blank input is FormatNone.
func ParseFormat(raw string) (Format, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return FormatNone, true
	}
	o, ok := lookup(formatOptions, raw)
	return Format(o.ID), ok
}

// ParseLanguage resolves a language code. Blank input is not a language.
func ParseLanguage(raw string) (Language, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	o, ok := lookup(languageOptions, raw)
	return Language(o.ID), ok
}

// Valid reports whether f is one of the declared variants, exactly as stored.
func (f Framework) Valid() bool {
	return canonicalID(frameworkOptions, string(f)) == string(f)
}

func (f Format) Valid() bool {
	if f == FormatNone {
		return true
	}
	return canonicalID(formatOptions, string(f)) == string(f)
}

func (l Language) Valid() bool {
	return l != "" && canonicalID(languageOptions, string(l)) == string(l)
}

func canonicalID(options []Option, id string) string {
	for _, o := range options {
		if o.ID == id {
			return o.ID
		}
	}
	// never equal to a stored id
	return "\x00"
}

// DisplayName is the text injected into the prompt for this framework.
func (f Framework) DisplayName() string {
	for _, o := range frameworkOptions {
		if o.ID == string(f) {
			return o.Value
		}
	}
	return string(f)
}

// DisplayName is the text injected into the prompt for this format.
func (f Format) DisplayName() string {
	for _, o := range formatOptions {
		if o.ID == string(f) {
			return o.Value
		}
	}
	return string(f)
}

// DisplayName resolves the language name used in the prompt.
// Unknown codes fall back to the raw code.
func (l Language) DisplayName() string {
	for _, o := range languageOptions {
		if o.ID == string(l) {
			return o.Value
		}
	}
	return string(l)
}
