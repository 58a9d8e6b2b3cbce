// Package builder serves the section catalogue and the caller's draft.
package builder

import (
	"net/http"

	"prompt_architect/pkg/api/httpx"
	"prompt_architect/pkg/api/middleware"
	"prompt_architect/pkg/core/section"
	"prompt_architect/pkg/core/workbench"
	"prompt_architect/pkg/models"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	wb *workbench.Workbench
}

func NewHandler(wb *workbench.Workbench) *Handler {
	return &Handler{wb: wb}
}

// DraftResponse is the full state of the caller's workbench.
type DraftResponse struct {
	Draft   models.PromptData                      `json:"draft"`
	Prompt  string                                 `json:"prompt"`
	Test    workbench.OpStatus                     `json:"test"`
	Assists map[section.FieldID]workbench.OpStatus `json:"assists"`
}

// SetFieldRequest carries the new value of one section.
type SetFieldRequest struct {
	Value any `json:"value"`
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/sections", h.ListSections)
	r.GET("/draft", h.GetDraft)
	r.PUT("/draft/:field", h.SetField)
	r.POST("/draft/reset", h.ResetDraft)
	r.GET("/prompt", h.GetPrompt)
}

func (h *Handler) ListSections(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sections": section.Sections()})
}

func (h *Handler) GetDraft(c *gin.Context) {
	c.JSON(http.StatusOK, h.draftResponse(h.session(c)))
}

func (h *Handler) SetField(c *gin.Context) {
	var req SetFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	if req.Value == nil {
		httpx.BadRequest(c, "value is required")
		return
	}

	s := h.session(c)
	if err := s.Model().Set(section.FieldID(c.Param("field")), req.Value); err != nil {
		httpx.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.draftResponse(s))
}

func (h *Handler) ResetDraft(c *gin.Context) {
	s := h.session(c)
	s.Reset()
	c.JSON(http.StatusOK, h.draftResponse(s))
}

func (h *Handler) GetPrompt(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"prompt": h.session(c).Prompt()})
}

func (h *Handler) session(c *gin.Context) *workbench.Session {
	return h.wb.Session(middleware.Identity(c).UserID)
}

func (h *Handler) draftResponse(s *workbench.Session) DraftResponse {
	draft := s.Draft()
	return DraftResponse{
		Draft:   draft,
		Prompt:  s.Prompt(),
		Test:    s.TestStatus(),
		Assists: s.AssistStatus(),
	}
}
