package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/courtsidehq/court-pricing-backend/internal/auth"
	"github.com/courtsidehq/court-pricing-backend/internal/court"
	courtHttp "github.com/courtsidehq/court-pricing-backend/internal/court/http"
	"github.com/courtsidehq/court-pricing-backend/internal/pricing"
	"github.com/courtsidehq/court-pricing-backend/internal/user"
)

// Config carries everything the router needs.
type Config struct {
	IsProduction bool
	ProdOrigins  []string

	UserService  user.Service
	CourtService court.Service

	Hub       *pricing.Hub
	Calc      pricing.Calculator
	Estimator pricing.Estimator
	Cache     *pricing.EstimateCache

	JWTManager *auth.JWTManager
}

// NewRouter assembles middleware (CORS, logging, recovery, auth) and
// registers all routes under /v1.
func NewRouter(cfg Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction {
		corsConfig.AllowOrigins = cfg.ProdOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	adminMiddleware := RequireAdmin(cfg.UserService)

	authHandler := NewAuthHandler(cfg.UserService, cfg.JWTManager)
	userHandler := NewUserHandler(cfg.UserService)
	courtHandler := courtHttp.NewHandler(cfg.CourtService, cfg.Hub, cfg.Calc, cfg.Estimator, cfg.Cache)

	v1 := r.Group("/v1")
	{
		v1.POST("/auth/register", authHandler.Register)
		v1.POST("/auth/login", authHandler.Login)
		v1.GET("/me", authMiddleware, authHandler.Me)

		users := v1.Group("/users", authMiddleware, adminMiddleware)
		{
			users.GET("", userHandler.List)
			users.GET("/:id", userHandler.Get)
			users.PATCH("/:id", userHandler.Update)
		}

		courtHttp.RegisterRoutes(v1, courtHandler, authMiddleware, adminMiddleware)
	}

	return r
}
