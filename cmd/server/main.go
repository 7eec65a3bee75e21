package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/shreeeniyaa/chitfund-engine/internal/config"
	"github.com/shreeeniyaa/chitfund-engine/internal/handler"
	"github.com/shreeeniyaa/chitfund-engine/internal/repository"
	"github.com/shreeeniyaa/chitfund-engine/internal/service"
	"github.com/shreeeniyaa/chitfund-engine/pkg/lock"
	"github.com/shreeeniyaa/chitfund-engine/pkg/response"
)

func main() {
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	setupLogging(cfg)

	// Initialize database
	db, err := initDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	// Initialize Redis
	redisClient := initRedis(cfg)
	defer redisClient.Close()

	// Initialize repositories
	planRepo := repository.NewPlanRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)

	// Initialize services
	locker := lock.NewRedisLocker(redisClient)
	ledger := service.NewArrearLedger(enrollmentRepo, invoiceRepo, cfg.Business.RolloverDay)
	invoiceService := service.NewInvoiceService(planRepo, enrollmentRepo, invoiceRepo, ledger, locker, cfg)
	rolloverJob := service.NewRolloverJob(planRepo, enrollmentRepo, invoiceRepo, ledger, locker,
		cfg.Business.CutoffDay, cfg.Business.RolloverDay)

	invoiceHandler := handler.NewInvoiceHandler(invoiceService, rolloverJob)
	healthHandler := handler.NewHealthHandler(db, redisClient, cfg.GetHealthTimeout())

	// Setup routes
	router := setupRoutes(invoiceHandler, healthHandler)

	// Start server
	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", server.Addr).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

func setupLogging(cfg *config.Config) {
	if level, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
		zerolog.SetGlobalLevel(level)
	}
	if cfg.IsDevelopment() || cfg.Logging.Format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.GetConnMaxLifetime())

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func setupRoutes(invoiceHandler *handler.InvoiceHandler, healthHandler *handler.HealthHandler) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.LoggingMiddleware)

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/customers/{customerId}/plans/{planId}/invoice-preview", invoiceHandler.Preview).Methods("GET")
	api.HandleFunc("/customers/{customerId}/plans/{planId}/invoices", invoiceHandler.ListInvoices).Methods("GET")
	api.HandleFunc("/customers/{customerId}/plans/{planId}/arrear", invoiceHandler.SetArrear).Methods("POST")
	api.HandleFunc("/customers/{customerId}/plans/{planId}/arrear/clear", invoiceHandler.ClearArrear).Methods("POST")
	api.HandleFunc("/invoices", invoiceHandler.CreateInvoice).Methods("POST")
	api.HandleFunc("/invoices/{invoiceId}/status", invoiceHandler.UpdateInvoiceStatus).Methods("POST")
	api.HandleFunc("/rollover", invoiceHandler.RunRollover).Methods("POST")

	return router
}
