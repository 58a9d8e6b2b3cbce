// Package server assembles the gin engine for the prompt builder API.
package server

import (
	"net/http"
	"time"

	"prompt_architect/pkg/api/access"
	"prompt_architect/pkg/api/assistant"
	"prompt_architect/pkg/api/builder"
	"prompt_architect/pkg/api/middleware"
	"prompt_architect/pkg/api/provider"
	"prompt_architect/pkg/api/testrunner"
	"prompt_architect/pkg/core/agent"
	"prompt_architect/pkg/core/workbench"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"
)

// Deps are the collaborators the routes are built from.
type Deps struct {
	Gate           middleware.Authenticator
	Signup         access.SignupChecker
	Access         access.Store
	Workbench      *workbench.Workbench
	AgentMgr       *agent.Manager
	Logger         *zap.Logger
	AllowedOrigins []string
	// EnableMetrics registers the request metrics and /metrics. Only one
	// engine per process may enable it.
	EnableMetrics bool
}

func NewRouter(d Deps) *gin.Engine {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}

	router := gin.New()
	router.RedirectTrailingSlash = true
	router.Use(middleware.ZapLogger(d.Logger))
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(d.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = d.AllowedOrigins
	} else {
		corsConfig.AllowOrigins = []string{"http://localhost:3000"}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", middleware.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{middleware.RequestIDHeader}
	corsConfig.AllowCredentials = true
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	if d.EnableMetrics {
		// Registers its middleware, so it must precede the routes it measures.
		p := ginprometheus.NewPrometheus("gin")
		p.Use(router)
	}

	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	api := router.Group("/api")
	accessHandler := access.NewHandler(d.Access, d.Signup)
	accessHandler.RegisterPublicRoutes(api)

	user := api.Group("", middleware.Auth(d.Gate))
	accessHandler.RegisterUserRoutes(user)
	builder.NewHandler(d.Workbench).RegisterRoutes(user)
	assistant.NewHandler(d.Workbench).RegisterRoutes(user)
	testrunner.NewHandler(d.Workbench).RegisterRoutes(user)

	admin := user.Group("", middleware.RequireAdmin())
	accessHandler.RegisterAdminRoutes(admin.Group("/admin"))
	if d.AgentMgr != nil {
		provider.NewHandler(d.AgentMgr).RegisterRoutes(admin)
	}
	return router
}
