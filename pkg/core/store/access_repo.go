package store

import (
	"context"
	"fmt"
	"strings"

	"prompt_architect/pkg/models"

	"github.com/georgysavva/scany/v2/pgxscan"
	"go.uber.org/zap"
)

const (
	isEmailAuthorizedQuery = `SELECT EXISTS (SELECT 1 FROM authorized_emails WHERE lower(email) = lower($1))`
	isCPFAuthorizedQuery   = `SELECT EXISTS (SELECT 1 FROM authorized_cpfs WHERE cpf = $1)`
	listEmailsQuery        = `SELECT email, created_at FROM authorized_emails ORDER BY created_at DESC`
	insertEmailQuery       = `INSERT INTO authorized_emails (email) VALUES ($1)`
	deleteEmailQuery       = `DELETE FROM authorized_emails WHERE lower(email) = lower($1)`
	listProfilesQuery      = `SELECT id::text AS id, email, cpf, created_at FROM profiles ORDER BY created_at DESC`
	deleteProfileQuery     = `DELETE FROM profiles WHERE id::text = $1`
)

// AccessRepo manages the e-mail and CPF allow-lists and the profile mirror.
type AccessRepo struct {
	db     DBTX
	logger *zap.Logger
}

func NewAccessRepo(db DBTX, logger *zap.Logger) *AccessRepo {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccessRepo{db: db, logger: logger.Named("AccessRepo")}
}

func (r *AccessRepo) IsEmailAuthorized(ctx context.Context, email string) (bool, error) {
	var ok bool
	if err := r.db.QueryRow(ctx, isEmailAuthorizedQuery, strings.TrimSpace(email)).Scan(&ok); err != nil {
		return false, fmt.Errorf("failed to check e-mail authorization: %w", err)
	}
	return ok, nil
}

func (r *AccessRepo) IsCPFAuthorized(ctx context.Context, cpf string) (bool, error) {
	var ok bool
	if err := r.db.QueryRow(ctx, isCPFAuthorizedQuery, strings.TrimSpace(cpf)).Scan(&ok); err != nil {
		return false, fmt.Errorf("failed to check CPF authorization: %w", err)
	}
	return ok, nil
}

// ListEmails returns the allow-list, newest first.
func (r *AccessRepo) ListEmails(ctx context.Context) ([]models.AuthorizedEmail, error) {
	emails := []models.AuthorizedEmail{}
	if err := pgxscan.Select(ctx, r.db, &emails, listEmailsQuery); err != nil {
		return nil, fmt.Errorf("failed to list authorized e-mails: %w", err)
	}
	return emails, nil
}

// AuthorizeEmail stores email lower-cased so the allow-list holds one row per
// address regardless of case.
func (r *AccessRepo) AuthorizeEmail(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := r.db.Exec(ctx, insertEmailQuery, email); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrAlreadyAuthorized, email)
		}
		return fmt.Errorf("failed to authorize e-mail: %w", err)
	}
	r.logger.Info("E-mail authorized", zap.String("email", email))
	return nil
}

func (r *AccessRepo) RevokeEmail(ctx context.Context, email string) error {
	tag, err := r.db.Exec(ctx, deleteEmailQuery, strings.TrimSpace(email))
	if err != nil {
		return fmt.Errorf("failed to revoke e-mail: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: e-mail %s", ErrNotFound, email)
	}
	r.logger.Info("E-mail authorization revoked", zap.String("email", email))
	return nil
}

// ListProfiles returns registered users, newest first.
func (r *AccessRepo) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	profiles := []models.Profile{}
	if err := pgxscan.Select(ctx, r.db, &profiles, listProfilesQuery); err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	return profiles, nil
}

// DeleteProfile removes the profile row only; the login itself lives in the
// hosted auth service.
func (r *AccessRepo) DeleteProfile(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, deleteProfileQuery, id)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: profile %s", ErrNotFound, id)
	}
	r.logger.Info("Profile deleted", zap.String("profile_id", id))
	return nil
}
