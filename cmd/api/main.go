package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"prompt_architect/pkg/api/server"
	"prompt_architect/pkg/config"
	"prompt_architect/pkg/core/agent"
	"prompt_architect/pkg/core/auth"
	"prompt_architect/pkg/core/prompt"
	"prompt_architect/pkg/core/store"
	"prompt_architect/pkg/core/workbench"
	"prompt_architect/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		panic(err)
	}

	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Encoding: cfg.LogEncoding})
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	prompts := prompt.NewRegistry()
	if n, err := prompt.LoadFromDirectory(prompts, cfg.PromptsDir); err != nil {
		log.Warn("Failed to load prompt library, using built-in templates", zap.Error(err))
	} else {
		log.Info("Prompt library loaded", zap.Int("overrides", n), zap.Strings("prompts", prompts.ListPrompts()))
	}

	modelsCfg, err := config.LoadModels(cfg.ModelsFile)
	if err != nil {
		log.Fatal("Failed to load model configuration", zap.Error(err))
	}
	agentMgr := agent.NewManager(modelsCfg, cfg.Credentials(), log)
	if cfg.GeminiAPIKey == "" {
		log.Warn("GEMINI_API_KEY is not set; test runs will show a configuration error")
	}

	pool, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()
	if cfg.MigrateOnStart {
		if err := store.Migrate(cfg.DatabaseURL); err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}
	accessRepo := store.NewAccessRepo(pool, log)

	var archive workbench.Archiver
	switch cfg.ArchiveDriver {
	case config.ArchivePostgres:
		archive = store.NewPromptRepo(pool)
	case config.ArchiveSQLite:
		sqliteArchive, err := store.NewSQLiteArchive(cfg.ArchiveSQLitePath)
		if err != nil {
			log.Fatal("Failed to open SQLite archive", zap.Error(err))
		}
		defer sqliteArchive.Close()
		archive = sqliteArchive
	}
	log.Info("Archive configured", zap.String("driver", cfg.ArchiveDriver))

	gate, err := auth.NewGate(cfg.JWTSecret, cfg.AdminEmail, accessRepo, log)
	if err != nil {
		log.Fatal("Failed to create auth gate", zap.Error(err))
	}

	wb := workbench.New(agent.NewGenerator(agentMgr, prompts), archive, log, workbench.Options{
		GenerationTimeout: cfg.GenerationTimeout,
		SessionTTL:        12 * time.Hour,
	})
	go wb.Run(ctx)

	gin.SetMode(gin.ReleaseMode)
	if cfg.Env == "development" {
		gin.SetMode(gin.DebugMode)
	}
	router := server.NewRouter(server.Deps{
		Gate:           gate,
		Signup:         gate,
		Access:         accessRepo,
		Workbench:      wb,
		AgentMgr:       agentMgr,
		Logger:         log,
		AllowedOrigins: cfg.GetAllowedOrigins(),
		EnableMetrics:  true,
	})

	// No write timeout: a test run lasts as long as the model takes.
	srv := &http.Server{
		Addr:        ":" + cfg.ServerPort,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info("Starting HTTP server", zap.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server listen error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	wb.Wait()
	log.Info("Server exited")
}
