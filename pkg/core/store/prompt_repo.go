package store

import (
	"context"
	"fmt"
	"time"

	"prompt_architect/pkg/models"

	"github.com/google/uuid"
)

const insertPromptQuery = `
		INSERT INTO prompts (
			id, user_id, role, task, context, temperature, language,
			final_prompt, generated_response, created_at
		) VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8, $9, $10)`

// PromptRepo archives completed test runs in Postgres.
type PromptRepo struct {
	db DBTX
}

func NewPromptRepo(db DBTX) *PromptRepo {
	return &PromptRepo{db: db}
}

// Archive inserts rec, filling ID and CreatedAt when unset.
func (r *PromptRepo) Archive(ctx context.Context, rec *models.ArchiveRecord) error {
	if r.db == nil {
		return fmt.Errorf("%w: database pool not configured", ErrPersistence)
	}
	fillRecord(rec)

	_, err := r.db.Exec(ctx, insertPromptQuery,
		rec.ID, rec.UserID, rec.Role, rec.Task, rec.Context, rec.Temperature, rec.Language,
		rec.FinalPrompt, rec.GeneratedResponse, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: insert prompt: %v", ErrPersistence, err)
	}
	return nil
}

func fillRecord(rec *models.ArchiveRecord) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
}
