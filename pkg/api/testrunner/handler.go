// Package testrunner provides API handlers for running the assembled prompt
// against the configured model.
package testrunner

import (
	"context"
	"net/http"

	"prompt_architect/pkg/api/httpx"
	"prompt_architect/pkg/api/middleware"
	"prompt_architect/pkg/core/workbench"

	"github.com/gin-gonic/gin"
)

// TestResponse is the outcome of the latest run plus the op state.
type TestResponse struct {
	Status workbench.OpStatus `json:"status"`
	Result *workbench.Result  `json:"result,omitempty"`
}

type Handler struct {
	wb *workbench.Workbench
}

func NewHandler(wb *workbench.Workbench) *Handler {
	return &Handler{wb: wb}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/test", h.RunTest)
	r.GET("/test", h.GetTest)
}

// RunTest blocks until the model answers. A failed generation still returns
// 200 with the failure text as the result.
func (h *Handler) RunTest(c *gin.Context) {
	s := h.wb.Session(middleware.Identity(c).UserID)
	ctx := context.WithoutCancel(c.Request.Context())

	result, err := h.wb.RunTest(ctx, s)
	if err != nil {
		httpx.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, TestResponse{Status: s.TestStatus(), Result: result})
}

// GetTest reports whether a run is in flight and the last result.
func (h *Handler) GetTest(c *gin.Context) {
	s := h.wb.Session(middleware.Identity(c).UserID)
	c.JSON(http.StatusOK, TestResponse{Status: s.TestStatus(), Result: s.LastResult()})
}
