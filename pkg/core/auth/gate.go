// Package auth verifies the hosted auth service's access tokens and applies
// the allow-list. The resulting Identity is passed explicitly to whatever
// needs it; there is no process-wide current user.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"prompt_architect/pkg/metrics"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

var (
	ErrTokenMissing  = errors.New("token missing")
	ErrTokenInvalid  = errors.New("token invalid")
	ErrTokenExpired  = errors.New("token expired")
	ErrNotAuthorized = errors.New("account not authorized")
	ErrForbidden     = errors.New("admin only")
	ErrCPFRequired   = errors.New("CPF is required to sign up")
)

// Identity is the authenticated caller of one request.
type Identity struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Admin  bool   `json:"admin"`
}

// Claims are the fields read from the hosted auth service's access token.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Directory answers allow-list questions.
type Directory interface {
	IsEmailAuthorized(ctx context.Context, email string) (bool, error)
	IsCPFAuthorized(ctx context.Context, cpf string) (bool, error)
}

// Gate turns bearer tokens into authorized identities.
type Gate struct {
	secret     []byte
	adminEmail string
	dir        Directory
	logger     *zap.Logger
}

func NewGate(secret, adminEmail string, dir Directory, logger *zap.Logger) (*Gate, error) {
	if secret == "" {
		return nil, errors.New("JWT secret cannot be empty")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gate{
		secret:     []byte(secret),
		adminEmail: strings.TrimSpace(adminEmail),
		dir:        dir,
		logger:     logger.Named("AuthGate"),
	}, nil
}

// IsAdmin reports whether email is the configured administrator.
func (g *Gate) IsAdmin(email string) bool {
	return g.adminEmail != "" && strings.EqualFold(strings.TrimSpace(email), g.adminEmail)
}

// Verify checks the token signature and expiry and returns the identity it
// carries. The allow-list is not consulted.
func (g *Gate) Verify(tokenString string) (Identity, error) {
	if tokenString == "" {
		return Identity{}, ErrTokenMissing
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return g.secret, nil
	})
	if err != nil {
		g.logger.Debug("Failed to verify token", zap.String("tokenSnippet", tokenSnippet(tokenString)), zap.Error(err))
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, ErrTokenExpired
		}
		return Identity{}, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !token.Valid || claims.Subject == "" || claims.Email == "" {
		return Identity{}, fmt.Errorf("%w: subject or email missing", ErrTokenInvalid)
	}

	return Identity{
		UserID: claims.Subject,
		Email:  claims.Email,
		Admin:  g.IsAdmin(claims.Email),
	}, nil
}

// Authorize applies the allow-list; the administrator always passes.
func (g *Gate) Authorize(ctx context.Context, id Identity) error {
	if id.Admin {
		return nil
	}
	ok, err := g.dir.IsEmailAuthorized(ctx, id.Email)
	if err != nil {
		return fmt.Errorf("checking allow-list: %w", err)
	}
	if !ok {
		metrics.AccessDeniedTotal.WithLabelValues("email").Inc()
		g.logger.Info("Access denied for unlisted account", zap.String("user_id", id.UserID))
		return ErrNotAuthorized
	}
	return nil
}

// Authenticate is Verify followed by Authorize.
func (g *Gate) Authenticate(ctx context.Context, tokenString string) (Identity, error) {
	id, err := g.Verify(tokenString)
	if err != nil {
		metrics.AccessDeniedTotal.WithLabelValues("token").Inc()
		return Identity{}, err
	}
	if err := g.Authorize(ctx, id); err != nil {
		return Identity{}, err
	}
	return id, nil
}

// CheckSignup decides whether email may register. Everyone except the
// administrator must present a CPF that is on the CPF allow-list.
func (g *Gate) CheckSignup(ctx context.Context, email, cpf string) error {
	if g.IsAdmin(email) {
		return nil
	}
	cpf = NormalizeCPF(cpf)
	if cpf == "" {
		return ErrCPFRequired
	}
	ok, err := g.dir.IsCPFAuthorized(ctx, cpf)
	if err != nil {
		return fmt.Errorf("checking CPF allow-list: %w", err)
	}
	if !ok {
		metrics.AccessDeniedTotal.WithLabelValues("cpf").Inc()
		return fmt.Errorf("%w: CPF not authorized for registration", ErrNotAuthorized)
	}
	return nil
}

// NormalizeCPF keeps only the digits of a CPF ("123.456.789-00" -> "12345678900").
func NormalizeCPF(cpf string) string {
	var b strings.Builder
	for _, r := range cpf {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) string {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

func tokenSnippet(tokenString string) string {
	limit := 15
	if len(tokenString) > limit {
		return tokenString[:limit] + "..."
	}
	return tokenString
}
