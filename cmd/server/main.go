package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/courtsidehq/court-pricing-backend/internal/app"
	"github.com/courtsidehq/court-pricing-backend/internal/config"
	"github.com/courtsidehq/court-pricing-backend/internal/db"
	"github.com/courtsidehq/court-pricing-backend/internal/notify"
	"github.com/courtsidehq/court-pricing-backend/internal/pricing"
)

func main() {
	// For receiving Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	pool, err := db.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}
	defer pool.Close()

	// Notification sink: RabbitMQ when configured, process log otherwise.
	var sink notify.Sink = notify.NewLogSink()
	if cfg.AMQPURL != "" {
		amqpSink, err := notify.NewAMQPSink(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			log.Printf("rabbitmq unavailable, notifications fall back to log: %v", err)
		} else {
			defer amqpSink.Close()
			sink = amqpSink
		}
	}

	rdb := config.NewRedisClient(cfg)
	if rdb != nil {
		defer rdb.Close()
	}

	estimatorCfg := pricing.DefaultEstimatorConfig()
	estimatorCfg.OperatingStartHour = cfg.OperatingStartHour
	estimatorCfg.OperatingEndHour = cfg.OperatingEndHour
	estimatorCfg.FlatHours = cfg.FlatHours
	estimatorCfg.WeekdayWeight = cfg.WeekdayWeight
	estimatorCfg.WeekendWeight = cfg.WeekendWeight

	container := app.NewContainer(app.Config{
		IsProduction: cfg.IsProduction,
		ProdOrigins:  splitOrigins(cfg.ProdOrigins),
		DBPool:       pool,
		Redis:        rdb,
		Sink:         sink,
		JWTSecret:    cfg.JWTSecret,
		JWTTTL:       cfg.JWTAccessTokenTTL,
		BcryptCost:   cfg.BcryptCost,
		Calculator: pricing.Calculator{
			PeakStartHour: cfg.PeakStartHour,
			PeakEndHour:   cfg.PeakEndHour,
		},
		EstimatorConfig: estimatorCfg,
		EstimateTTL:     cfg.EstimateTTL,
	})

	// Use http.Server for graceful shutdown
	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: container.Router,
	}

	go func() {
		log.Printf("server running on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("server forced to shutdown: %v", err)
	}

	log.Println("server exited gracefully")
}

func splitOrigins(origins string) []string {
	if origins == "" {
		return nil
	}
	parts := strings.Split(origins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
