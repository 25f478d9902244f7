package app

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/courtsidehq/court-pricing-backend/internal/api"
	"github.com/courtsidehq/court-pricing-backend/internal/auth"
	"github.com/courtsidehq/court-pricing-backend/internal/court"
	"github.com/courtsidehq/court-pricing-backend/internal/notify"
	"github.com/courtsidehq/court-pricing-backend/internal/pricing"
	"github.com/courtsidehq/court-pricing-backend/internal/user"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  []string
	DBPool       *pgxpool.Pool
	Redis        *redis.Client
	Sink         notify.Sink
	JWTSecret    string
	JWTTTL       time.Duration
	BcryptCost   int

	Calculator      pricing.Calculator
	EstimatorConfig pricing.EstimatorConfig
	EstimateTTL     time.Duration
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
	Hub        *pricing.Hub
}

// consoleStore adapts the court service to the console's whole-object
// replace port.
type consoleStore struct {
	svc court.Service
}

func (s consoleStore) Get(ctx context.Context, courtID string) (*court.Court, error) {
	return s.svc.GetByID(ctx, courtID)
}

func (s consoleStore) Put(ctx context.Context, c *court.Court) (*court.Court, error) {
	return s.svc.Replace(ctx, c)
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	sink := cfg.Sink
	if sink == nil {
		sink = notify.NewLogSink()
	}

	// User module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo, passwordHasher)

	// Court module
	courtRepo := court.NewPgxRepository(cfg.DBPool)
	courtService := court.NewService(courtRepo)

	// Pricing engine
	estimator := pricing.NewEstimator(cfg.Calculator, cfg.EstimatorConfig)
	cache := pricing.NewEstimateCache(cfg.Redis, cfg.EstimateTTL)
	hub := pricing.NewHub(consoleStore{svc: courtService}, sink)

	router := api.NewRouter(api.Config{
		IsProduction: cfg.IsProduction,
		ProdOrigins:  cfg.ProdOrigins,
		UserService:  userService,
		CourtService: courtService,
		Hub:          hub,
		Calc:         cfg.Calculator,
		Estimator:    estimator,
		Cache:        cache,
		JWTManager:   jwtManager,
	})

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
		Hub:        hub,
	}
}
