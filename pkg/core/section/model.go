package section

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sync"

	"prompt_architect/pkg/models"
)

var (
	ErrUnknownField = errors.New("unknown field")
	ErrInvalidValue = errors.New("invalid value")
)

// Model holds the current value of every section. Each mutation swaps in a
// new PromptData, so a Snapshot is never observed half-updated.
type Model struct {
	mu   sync.RWMutex
	data models.PromptData
}

// NewModel creates a model holding the default values.
func NewModel() *Model {
	return &Model{data: models.DefaultPromptData()}
}

// Snapshot returns a copy of the current values.
func (m *Model) Snapshot() models.PromptData {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data
}

// Get returns the current value of a section.
func (m *Model) Get(id FieldID) (any, error) {
	data := m.Snapshot()
	switch id {
	case FieldRole:
		return data.Role, nil
	case FieldTask:
		return data.Task, nil
	case FieldContext:
		return data.Context, nil
	case FieldReasoning:
		return data.Reasoning, nil
	case FieldFramework:
		return data.Framework, nil
	case FieldFormat:
		return data.Format, nil
	case FieldValidation:
		return data.Validation, nil
	case FieldTemperature:
		return data.Temperature, nil
	case FieldLanguage:
		return data.Language, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, id)
	}
}

// GetText returns the value of a free-text section.
func (m *Model) GetText(id FieldID) (string, error) {
	v, err := m.Get(id)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %q is not a text section", ErrInvalidValue, id)
	}
	return s, nil
}

// Set replaces the value of one section. The stored values are left
// untouched when the new value is rejected.
func (m *Model) Set(id FieldID, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next, err := withField(m.data, id, value)
	if err != nil {
		return err
	}
	m.data = next
	return nil
}

// Reset restores every section to its default.
func (m *Model) Reset() {
	m.mu.Lock()
	m.data = models.DefaultPromptData()
	m.mu.Unlock()
}

func withField(data models.PromptData, id FieldID, value any) (models.PromptData, error) {
	switch id {
	case FieldRole, FieldTask, FieldContext, FieldValidation:
		s, ok := value.(string)
		if !ok {
			return data, invalid(id, "expected text, got %T", value)
		}
		switch id {
		case FieldRole:
			data.Role = s
		case FieldTask:
			data.Task = s
		case FieldContext:
			data.Context = s
		case FieldValidation:
			data.Validation = s
		}
	case FieldReasoning:
		b, ok := value.(bool)
		if !ok {
			return data, invalid(id, "expected boolean, got %T", value)
		}
		data.Reasoning = b
	case FieldFramework:
		s, ok := asString(value)
		if !ok {
			return data, invalid(id, "expected text, got %T", value)
		}
		f, ok := models.ParseFramework(s)
		if !ok {
			return data, invalid(id, "%q is not a known framework", s)
		}
		data.Framework = f
	case FieldFormat:
		s, ok := asString(value)
		if !ok {
			return data, invalid(id, "expected text, got %T", value)
		}
		f, ok := models.ParseFormat(s)
		if !ok {
			return data, invalid(id, "%q is not a known format", s)
		}
		data.Format = f
	case FieldTemperature:
		t, err := parseTemperature(value)
		if err != nil {
			return data, invalid(id, "%v", err)
		}
		data.Temperature = t
	case FieldLanguage:
		s, ok := asString(value)
		if !ok {
			return data, invalid(id, "expected text, got %T", value)
		}
		l, ok := models.ParseLanguage(s)
		if !ok {
			return data, invalid(id, "%q is not a supported language", s)
		}
		data.Language = l
	default:
		return data, fmt.Errorf("%w: %q", ErrUnknownField, id)
	}
	return data, nil
}

func asString(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case models.Framework:
		return string(v), true
	case models.Format:
		return string(v), true
	case models.Language:
		return string(v), true
	default:
		return "", false
	}
}

func parseTemperature(value any) (float64, error) {
	var t float64
	switch v := value.(type) {
	case float64:
		t = v
	case float32:
		t = float64(v)
	case int:
		t = float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, fmt.Errorf("%q is not a number", v.String())
		}
		t = f
	default:
		return 0, fmt.Errorf("expected number, got %T", value)
	}
	return checkTemperature(t)
}

// checkTemperature enforces the [0,1] range on a 0.1 grid and snaps
// floating point noise (0.30000000000000004) onto the grid.
func checkTemperature(t float64) (float64, error) {
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return 0, fmt.Errorf("temperature must be a finite number")
	}
	if t < TemperatureMin || t > TemperatureMax {
		return 0, fmt.Errorf("temperature %v outside [%v, %v]", t, TemperatureMin, TemperatureMax)
	}
	steps := math.Round(t / TemperatureStep)
	if math.Abs(t-steps*TemperatureStep) > 1e-9 {
		return 0, fmt.Errorf("temperature %v is not a multiple of %v", t, TemperatureStep)
	}
	return steps / 10, nil
}

func invalid(id FieldID, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidValue, id, fmt.Sprintf(format, args...))
}
