// Package access serves sign-up eligibility, the caller's identity and the
// administrator's allow-list and profile management.
package access

import (
	"context"
	"net/http"
	"net/mail"
	"strings"

	"prompt_architect/pkg/api/httpx"
	"prompt_architect/pkg/api/middleware"
	"prompt_architect/pkg/models"

	"github.com/gin-gonic/gin"
)

// Store is implemented by *store.AccessRepo.
type Store interface {
	ListEmails(ctx context.Context) ([]models.AuthorizedEmail, error)
	AuthorizeEmail(ctx context.Context, email string) error
	RevokeEmail(ctx context.Context, email string) error
	ListProfiles(ctx context.Context) ([]models.Profile, error)
	DeleteProfile(ctx context.Context, id string) error
}

// SignupChecker is implemented by *auth.Gate.
type SignupChecker interface {
	CheckSignup(ctx context.Context, email, cpf string) error
}

type Handler struct {
	store  Store
	signup SignupChecker
}

func NewHandler(store Store, signup SignupChecker) *Handler {
	return &Handler{store: store, signup: signup}
}

type SignupCheckRequest struct {
	Email string `json:"email"`
	CPF   string `json:"cpf"`
}

type EmailRequest struct {
	Email string `json:"email"`
}

// RegisterPublicRoutes mounts the endpoints reachable without a token.
func (h *Handler) RegisterPublicRoutes(r gin.IRoutes) {
	r.POST("/signup/check", h.CheckSignup)
}

// RegisterUserRoutes mounts the endpoints for any authorized account.
func (h *Handler) RegisterUserRoutes(r gin.IRoutes) {
	r.GET("/me", h.Me)
}

// RegisterAdminRoutes mounts the administrator endpoints; r must already
// enforce middleware.RequireAdmin.
func (h *Handler) RegisterAdminRoutes(r gin.IRoutes) {
	r.GET("/emails", h.ListEmails)
	r.POST("/emails", h.AuthorizeEmail)
	r.DELETE("/emails/:email", h.RevokeEmail)
	r.GET("/profiles", h.ListProfiles)
	r.DELETE("/profiles/:id", h.DeleteProfile)
}

func (h *Handler) CheckSignup(c *gin.Context) {
	var req SignupCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, "invalid request body")
		return
	}
	if !validEmail(req.Email) {
		httpx.BadRequest(c, "a valid e-mail is required")
		return
	}
	if err := h.signup.CheckSignup(c.Request.Context(), req.Email, req.CPF); err != nil {
		httpx.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"allowed": true})
}

func (h *Handler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.Identity(c))
}

func (h *Handler) ListEmails(c *gin.Context) {
	emails, err := h.store.ListEmails(c.Request.Context())
	if err != nil {
		httpx.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"emails": emails})
}

func (h *Handler) AuthorizeEmail(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil || !validEmail(req.Email) {
		httpx.BadRequest(c, "a valid e-mail is required")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := h.store.AuthorizeEmail(c.Request.Context(), email); err != nil {
		httpx.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"email": email})
}

func (h *Handler) RevokeEmail(c *gin.Context) {
	if err := h.store.RevokeEmail(c.Request.Context(), c.Param("email")); err != nil {
		httpx.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListProfiles(c *gin.Context) {
	profiles, err := h.store.ListProfiles(c.Request.Context())
	if err != nil {
		httpx.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profiles": profiles})
}

// DeleteProfile removes the profile row; the login itself stays in the hosted
// auth service until removed there.
func (h *Handler) DeleteProfile(c *gin.Context) {
	if err := h.store.DeleteProfile(c.Request.Context(), c.Param("id")); err != nil {
		httpx.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(strings.TrimSpace(s))
	return err == nil && addr.Address == strings.TrimSpace(s)
}
