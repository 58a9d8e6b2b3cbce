package workbench

import (
	"sync"
	"time"

	"prompt_architect/pkg/core/assembler"
	"prompt_architect/pkg/core/section"
	"prompt_architect/pkg/core/utils"
	"prompt_architect/pkg/models"
)

// Result is the outcome of the last test run shown to the user.
type Result struct {
	Prompt    string        `json:"prompt"`
	Preview   utils.Preview `json:"preview"`
	Failed    bool          `json:"failed"`
	CreatedAt time.Time     `json:"created_at"`
}

// Session is one user's in-memory workbench: the draft being edited plus
// the state of each remote operation. Nothing here is persisted.
type Session struct {
	UserID string

	model   *section.Model
	test    Op
	assists map[section.FieldID]*Op

	mu       sync.Mutex
	last     *Result
	lastSeen time.Time
}

func newSession(userID string) *Session {
	s := &Session{
		UserID:   userID,
		model:    section.NewModel(),
		assists:  make(map[section.FieldID]*Op),
		lastSeen: time.Now(),
	}
	for _, d := range section.Sections() {
		if d.Assistable {
			s.assists[d.ID] = &Op{}
		}
	}
	return s
}

// Model exposes the draft for field edits.
func (s *Session) Model() *section.Model {
	s.touch()
	return s.model
}

// Draft returns the current draft value.
func (s *Session) Draft() models.PromptData {
	return s.model.Snapshot()
}

// Prompt assembles the current draft.
func (s *Session) Prompt() string {
	return assembler.Assemble(s.model.Snapshot())
}

// Reset restores the draft defaults. The last result is kept.
func (s *Session) Reset() {
	s.touch()
	s.model.Reset()
}

// TestStatus reports the whole-prompt test operation.
func (s *Session) TestStatus() OpStatus {
	return s.test.Status()
}

// AssistStatus reports the refinement operation of each assistable field.
func (s *Session) AssistStatus() map[section.FieldID]OpStatus {
	out := make(map[section.FieldID]OpStatus, len(s.assists))
	for id, op := range s.assists {
		out[id] = op.Status()
	}
	return out
}

// LastResult returns the most recent test result, or nil.
func (s *Session) LastResult() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func (s *Session) setResult(r *Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = r
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) busy() bool {
	if s.test.InFlight() {
		return true
	}
	for _, op := range s.assists {
		if op.InFlight() {
			return true
		}
	}
	return false
}
