// Package assistant serves per-section AI refinement.
package assistant

import (
	"context"
	"net/http"

	"prompt_architect/pkg/api/httpx"
	"prompt_architect/pkg/api/middleware"
	"prompt_architect/pkg/core/section"
	"prompt_architect/pkg/core/workbench"

	"github.com/gin-gonic/gin"
)

// Handler provides HTTP handlers for section refinement
type Handler struct {
	wb *workbench.Workbench
}

// NewHandler creates a new assistant handler
func NewHandler(wb *workbench.Workbench) *Handler {
	return &Handler{wb: wb}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/draft/:field/assist", h.Assist)
}

// Assist rewrites one free-text section with the model. The remote call is
// not tied to the client connection: a refinement that completes after the
// client went away still updates the draft.
func (h *Handler) Assist(c *gin.Context) {
	s := h.wb.Session(middleware.Identity(c).UserID)
	ctx := context.WithoutCancel(c.Request.Context())

	res, err := h.wb.Assist(ctx, s, section.FieldID(c.Param("field")))
	if err != nil {
		httpx.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
