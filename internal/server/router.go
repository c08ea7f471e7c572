package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/voltdesk/voltdesk-backend/internal/auth"
	"github.com/voltdesk/voltdesk-backend/internal/config"
	"github.com/voltdesk/voltdesk-backend/internal/handlers"
	"github.com/voltdesk/voltdesk-backend/internal/logging"
	"github.com/voltdesk/voltdesk-backend/internal/metrics"
	"github.com/voltdesk/voltdesk-backend/internal/models"
)

const cableSizePath = "/calculators/cable-size"

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Config   *config.Config
	Logger   *zap.Logger
	Metrics  *metrics.Metrics // nil disables /metrics
	Users    handlers.UserStore
	Tokens   handlers.TokenStore
	Circuits handlers.CircuitStore
	Health   map[string]handlers.Pinger
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logging.Middleware(d.Logger))
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware())
	}
	r.Use(corsMiddleware(d.Config.AllowedOrigins))

	users := handlers.NewAuthHandler(d.Users, d.Tokens, d.Logger)
	calc := handlers.NewCalculatorHandler(d.Logger, d.Metrics)
	circuits := handlers.NewCircuitHandler(d.Circuits, calc, d.Logger)

	r.GET("/healthz", handlers.Health(d.Health))
	if d.Metrics != nil {
		r.GET(d.Config.Metrics.Path, gin.WrapH(d.Metrics.Handler()))
	}

	r.POST("/register", users.Register)
	r.POST("/login", users.Login)
	r.POST("/refresh", users.RefreshToken)

	// The calculator page posts to the bare path.
	r.POST(cableSizePath, auth.AuthMiddleware(), calc.CalculateCableSize)

	protected := r.Group("/api")
	protected.Use(auth.AuthMiddleware())
	{
		protected.GET("/me", handlers.Me)
		protected.GET("/permissions", handlers.GetPermissions)

		protected.POST(cableSizePath, calc.CalculateCableSize)
		protected.GET(cableSizePath+"/options", calc.CableSizeOptions)

		protected.GET("/circuits", circuits.Index)
		protected.GET("/circuits/:id", circuits.Edit)

		editors := protected.Group("", auth.RequireRole(models.RoleAdmin, models.RoleEngineer))
		editors.POST("/circuits", circuits.New)
		editors.PUT("/circuits/:id", circuits.Update)
		editors.DELETE("/circuits/:id", circuits.Delete)

		admins := protected.Group("", auth.RequireRole(models.RoleAdmin))
		admins.PUT("/users/:username/role", users.SetRole)
	}

	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "X-Requested-With", "Content-Type", "Accept", logging.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", logging.RequestIDHeader},
		MaxAge:           12 * time.Hour,
	}
	// Credentials are only sent to origins that are listed by name.
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}
