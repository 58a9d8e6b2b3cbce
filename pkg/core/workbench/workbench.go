// Package workbench runs the user-triggered remote operations of the prompt
// builder: testing the assembled prompt and refining a single section. Each
// operation kind is guarded by its own Op, so a second trigger while one is
// in flight is rejected with ErrBusy instead of queued.
package workbench

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"prompt_architect/pkg/core/assembler"
	"prompt_architect/pkg/core/section"
	"prompt_architect/pkg/core/utils"
	"prompt_architect/pkg/metrics"
	"prompt_architect/pkg/models"

	"go.uber.org/zap"
)

var (
	ErrBusy          = errors.New("operation already in progress")
	ErrEmptyPrompt   = errors.New("prompt is empty")
	ErrNotAssistable = errors.New("section does not support refinement")
	ErrGeneration    = errors.New("generation failure")
	ErrRefinement    = errors.New("refinement failure")
)

// NoResponseText replaces an empty model output.
const NoResponseText = "No response generated."

// FailureText is what the user sees in place of a result when generation fails.
func FailureText(err error) string {
	return fmt.Sprintf("Error: %s. (Check that GEMINI_API_KEY is configured for the deployment and that it was redeployed)", err.Error())
}

// Generator produces model output for prompts and section drafts.
type Generator interface {
	Generate(ctx context.Context, prompt string, temperature float64) (string, error)
	Refine(ctx context.Context, label, current string) (string, error)
}

// Archiver persists completed test runs.
type Archiver interface {
	Archive(ctx context.Context, rec *models.ArchiveRecord) error
}

// Options tune a Workbench. Zero values mean no timeout and no eviction.
type Options struct {
	// GenerationTimeout bounds each remote call.
	GenerationTimeout time.Duration
	// ArchiveTimeout bounds each archival write; defaults to 10s.
	ArchiveTimeout time.Duration
	// SessionTTL evicts sessions idle for longer than this.
	SessionTTL time.Duration
}

// Workbench owns the per-user sessions.
type Workbench struct {
	gen     Generator
	archive Archiver
	opts    Options
	logger  *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*Session

	archiving sync.WaitGroup
}

// New creates a Workbench. archive may be nil to disable archiving.
func New(gen Generator, archive Archiver, logger *zap.Logger, opts Options) *Workbench {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.ArchiveTimeout <= 0 {
		opts.ArchiveTimeout = 10 * time.Second
	}
	return &Workbench{
		gen:      gen,
		archive:  archive,
		opts:     opts,
		logger:   logger.Named("Workbench"),
		sessions: make(map[string]*Session),
	}
}

// Session returns the session of userID, creating it on first use. The idle
// clock is refreshed while w.mu is held so eviction cannot drop a session
// that is being resumed.
func (w *Workbench) Session(userID string) *Session {
	w.mu.RLock()
	s, ok := w.sessions[userID]
	if ok {
		s.touch()
	}
	w.mu.RUnlock()
	if ok {
		return s
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if s, ok := w.sessions[userID]; ok {
		s.touch()
		return s
	}
	s = newSession(userID)
	w.sessions[userID] = s
	return s
}

// RunTest sends the assembled draft to the generator. A generation failure is
// not returned as an error: it becomes the displayed result text and the test
// op ends failed. Only ErrEmptyPrompt and ErrBusy are returned.
func (w *Workbench) RunTest(ctx context.Context, s *Session) (result *Result, err error) {
	data := s.model.Snapshot()
	prompt := assembler.Assemble(data)
	if strings.TrimSpace(prompt) == "" {
		return nil, ErrEmptyPrompt
	}

	finish, err := s.test.TryBegin()
	if err != nil {
		return nil, err
	}
	var opErr error
	defer settle(finish, &opErr)
	s.touch()

	callCtx, cancel := w.callContext(ctx)
	defer cancel()

	log := w.logger.With(zap.String("user_id", s.UserID))
	text, genErr := w.gen.Generate(callCtx, prompt, data.Temperature)

	result = &Result{Prompt: prompt, CreatedAt: time.Now().UTC()}
	switch {
	case genErr != nil:
		opErr = fmt.Errorf("%w: %v", ErrGeneration, genErr)
		log.Warn("Generation failed", zap.Error(genErr))
		metrics.GenerationsTotal.WithLabelValues(metrics.OutcomeFailure).Inc()
		result.Failed = true
		text = FailureText(genErr)
	case text == "":
		metrics.GenerationsTotal.WithLabelValues(metrics.OutcomeEmpty).Inc()
		text = NoResponseText
	default:
		metrics.GenerationsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	}
	result.Preview = utils.BuildPreview(text, data.Format)
	s.setResult(result)

	if !result.Failed {
		w.archiveAsync(&models.ArchiveRecord{
			UserID:            s.UserID,
			Role:              data.Role,
			Task:              data.Task,
			Context:           data.Context,
			Temperature:       data.Temperature,
			Language:          string(data.Language),
			FinalPrompt:       prompt,
			GeneratedResponse: text,
			CreatedAt:         result.CreatedAt,
		})
	}
	return result, nil
}

// AssistResult is the value of a section after a refinement attempt.
type AssistResult struct {
	Field   section.FieldID `json:"field"`
	Value   string          `json:"value"`
	Refined bool            `json:"refined"`
}

// Assist refines one free-text section in place. When the remote call fails
// the section keeps its value and the failure is only logged; the caller sees
// Refined=false.
func (w *Workbench) Assist(ctx context.Context, s *Session, field section.FieldID) (AssistResult, error) {
	desc, ok := section.Lookup(field)
	if !ok {
		return AssistResult{}, fmt.Errorf("%w: %s", section.ErrUnknownField, field)
	}
	op, ok := s.assists[field]
	if !desc.Assistable || !ok {
		return AssistResult{}, fmt.Errorf("%w: %s", ErrNotAssistable, field)
	}

	finish, err := op.TryBegin()
	if err != nil {
		return AssistResult{}, err
	}
	var opErr error
	defer settle(finish, &opErr)
	s.touch()

	current, err := s.model.GetText(field)
	if err != nil {
		opErr = err
		return AssistResult{}, err
	}
	res := AssistResult{Field: field, Value: current}

	callCtx, cancel := w.callContext(ctx)
	defer cancel()

	log := w.logger.With(zap.String("user_id", s.UserID), zap.String("section", string(field)))
	refined, refineErr := w.gen.Refine(callCtx, desc.Label, current)
	if refineErr == nil {
		refineErr = s.model.Set(field, refined)
	}
	if refineErr != nil {
		opErr = fmt.Errorf("%w: %v", ErrRefinement, refineErr)
		log.Warn("Refinement failed, keeping previous value", zap.Error(refineErr))
		metrics.RefinementsTotal.WithLabelValues(string(field), metrics.OutcomeFailure).Inc()
		return res, nil
	}

	metrics.RefinementsTotal.WithLabelValues(string(field), metrics.OutcomeSuccess).Inc()
	res.Value = refined
	res.Refined = true
	return res, nil
}

// Wait blocks until pending archival writes have finished.
func (w *Workbench) Wait() {
	w.archiving.Wait()
}

// Run evicts idle sessions until ctx is cancelled. It returns immediately
// when no SessionTTL is configured.
func (w *Workbench) Run(ctx context.Context) {
	if w.opts.SessionTTL <= 0 {
		return
	}
	ticker := time.NewTicker(w.opts.SessionTTL / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.evictIdle(time.Now())
		}
	}
}

func (w *Workbench) evictIdle(now time.Time) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	evicted := 0
	for id, s := range w.sessions {
		if !s.busy() && now.Sub(s.idleSince()) > w.opts.SessionTTL {
			delete(w.sessions, id)
			evicted++
		}
	}
	if evicted > 0 {
		w.logger.Debug("Evicted idle sessions", zap.Int("count", evicted))
	}
	return evicted
}

func (w *Workbench) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if w.opts.GenerationTimeout > 0 {
		return context.WithTimeout(ctx, w.opts.GenerationTimeout)
	}
	return context.WithCancel(ctx)
}

// archiveAsync writes rec in the background. Failures are logged and counted
// but never reach the user, whose result is already on screen.
func (w *Workbench) archiveAsync(rec *models.ArchiveRecord) {
	if w.archive == nil {
		return
	}
	w.archiving.Add(1)
	go func() {
		defer w.archiving.Done()
		ctx, cancel := context.WithTimeout(context.Background(), w.opts.ArchiveTimeout)
		defer cancel()

		if err := w.archive.Archive(ctx, rec); err != nil {
			w.logger.Error("Failed to archive prompt", zap.String("user_id", rec.UserID), zap.Error(err))
			metrics.ArchiveWritesTotal.WithLabelValues(metrics.OutcomeFailure).Inc()
			return
		}
		metrics.ArchiveWritesTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	}()
}
