// Package provider lets the administrator inspect and switch the model
// provider at runtime.
package provider

import (
	"net/http"

	"prompt_architect/pkg/api/httpx"
	"prompt_architect/pkg/core/agent"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Response struct {
	ActiveProvider string   `json:"active_provider"`
	Available      []string `json:"available"`
}

type SwitchRequest struct {
	Provider string `json:"provider" binding:"required"`
}

// Handler holds dependencies for provider endpoints
type Handler struct {
	AgentMgr *agent.Manager
}

// NewHandler creates a new provider handler
func NewHandler(agentMgr *agent.Manager) *Handler {
	return &Handler{AgentMgr: agentMgr}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/providers", h.HandleConfig)
	r.POST("/providers/switch", h.HandleSwitch)
}

func (h *Handler) HandleConfig(c *gin.Context) {
	c.JSON(http.StatusOK, h.response())
}

func (h *Handler) HandleSwitch(c *gin.Context) {
	var req SwitchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, "provider is required")
		return
	}
	if err := h.AgentMgr.SetGlobalProvider(req.Provider); err != nil {
		zap.L().Warn("Provider switch rejected", zap.String("provider", req.Provider), zap.Error(err))
		httpx.BadRequest(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, h.response())
}

func (h *Handler) response() Response {
	return Response{
		ActiveProvider: h.AgentMgr.GetActiveProvider(),
		Available:      h.AgentMgr.Available(),
	}
}
