package main

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/voltdesk/voltdesk-backend/internal/auth"
	"github.com/voltdesk/voltdesk-backend/internal/calculator"
	"github.com/voltdesk/voltdesk-backend/internal/config"
	"github.com/voltdesk/voltdesk-backend/internal/db"
	"github.com/voltdesk/voltdesk-backend/internal/handlers"
	"github.com/voltdesk/voltdesk-backend/internal/logging"
	"github.com/voltdesk/voltdesk-backend/internal/metrics"
	"github.com/voltdesk/voltdesk-backend/internal/models"
	"github.com/voltdesk/voltdesk-backend/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if err := calculator.ValidateTables(); err != nil {
		logger.Fatal("reference tables", zap.Error(err))
	}
	if cfg.JWTSecret == config.Default().JWTSecret {
		logger.Warn("JWT_SECRET is not set, using the built-in development secret")
	}

	gin.SetMode(cfg.GinMode)
	auth.Init(cfg.JWTSecret)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	mongoClient, err := db.Connect(ctx, cfg.Mongo)
	if err != nil {
		logger.Fatal("mongo", zap.Error(err))
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			logger.Warn("mongo disconnect", zap.Error(err))
		}
	}()

	rdb := db.InitRedis(cfg.Redis)
	defer rdb.Close()

	users := models.NewUserRepository(db.GetCollection("users"))
	if err := users.EnsureIndexes(ctx); err != nil {
		logger.Fatal("user indexes", zap.Error(err))
	}
	tokens := db.NewRefreshTokens(rdb)
	if cfg.Admin.Username != "" {
		if err := handlers.NewAuthHandler(users, tokens, logger).SeedAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password); err != nil {
			logger.Fatal("seed admin", zap.Error(err))
		}
		logger.Info("admin account ready", zap.String("username", cfg.Admin.Username))
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	router := server.NewRouter(server.Deps{
		Config:   cfg,
		Logger:   logger,
		Metrics:  m,
		Users:    users,
		Tokens:   tokens,
		Circuits: models.NewCircuitRepository(db.GetCollection("circuits")),
		Health: map[string]handlers.Pinger{
			"mongo": db.PingMongo,
			"redis": db.PingRedis,
		},
	})

	if err := server.Run(ctx, cfg, server.New(cfg, router), logger); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
