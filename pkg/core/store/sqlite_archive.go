package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"prompt_architect/pkg/models"

	_ "modernc.org/sqlite"
)

// SQLiteArchive is a local archive sink for single-user or offline setups.
type SQLiteArchive struct {
	db *sql.DB
}

// NewSQLiteArchive opens (creating if needed) the archive database at path.
func NewSQLiteArchive(path string) (*SQLiteArchive, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS prompts (
			id                 TEXT PRIMARY KEY,
			user_id            TEXT,
			role               TEXT NOT NULL,
			task               TEXT NOT NULL,
			context            TEXT NOT NULL,
			temperature        REAL NOT NULL,
			language           TEXT NOT NULL,
			final_prompt       TEXT NOT NULL,
			generated_response TEXT NOT NULL,
			created_at         TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_prompts_created ON prompts(created_at);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return &SQLiteArchive{db: db}, nil
}

func (s *SQLiteArchive) Archive(ctx context.Context, rec *models.ArchiveRecord) error {
	fillRecord(rec)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO prompts (
			id, user_id, role, task, context, temperature, language,
			final_prompt, generated_response, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.UserID, rec.Role, rec.Task, rec.Context, rec.Temperature, rec.Language,
		rec.FinalPrompt, rec.GeneratedResponse, rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("%w: insert prompt: %v", ErrPersistence, err)
	}
	return nil
}

func (s *SQLiteArchive) Close() error {
	return s.db.Close()
}
