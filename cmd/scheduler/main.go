package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/shreeeniyaa/chitfund-engine/internal/config"
	"github.com/shreeeniyaa/chitfund-engine/internal/repository"
	"github.com/shreeeniyaa/chitfund-engine/internal/service"
	"github.com/shreeeniyaa/chitfund-engine/pkg/lock"
)

const rolloverRunTimeout = 30 * time.Minute

func main() {
	_ = godotenv.Load()

	log.Info().Msg("Starting billing scheduler...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	setupLogging(cfg)

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	planRepo := repository.NewPlanRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)

	locker := lock.NewRedisLocker(redisClient)
	ledger := service.NewArrearLedger(enrollmentRepo, invoiceRepo, cfg.Business.RolloverDay)
	rolloverJob := service.NewRolloverJob(planRepo, enrollmentRepo, invoiceRepo, ledger, locker,
		cfg.Business.CutoffDay, cfg.Business.RolloverDay)

	// Initialize cron scheduler in the business timezone: day-of-month
	// qualification depends on the local calendar date.
	location := cfg.GetSchedulerLocation()
	c := cron.New(cron.WithSeconds(), cron.WithLocation(location))

	// The pass runs daily; the job itself decides per enrollment whether
	// today is a qualifying day.
	_, err = c.AddFunc(cfg.Scheduler.RolloverCron, func() {
		runRollover(rolloverJob, location)
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to schedule rollover job")
	}

	// Start the scheduler
	c.Start()
	log.Info().Str("cron", cfg.Scheduler.RolloverCron).Str("timezone", cfg.Scheduler.Timezone).Msg("Scheduler started")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down scheduler...")
	<-c.Stop().Done()
	log.Info().Msg("Scheduler stopped")
}

func runRollover(job *service.RolloverJob, location *time.Location) {
	ctx, cancel := context.WithTimeout(context.Background(), rolloverRunTimeout)
	defer cancel()

	asOf := time.Now().In(location)
	log.Info().Str("as_of", asOf.Format("2006-01-02")).Msg("Running daily rollover pass")

	result, err := job.RunForAll(ctx, asOf, false)
	if err != nil {
		log.Error().Err(err).Msg("Rollover pass aborted")
		return
	}

	log.Info().
		Int("updated", len(result.Updated)).
		Int("skipped", len(result.Skipped)).
		Int("errors", len(result.Errors)).
		Msg("Rollover pass complete")
}

func setupLogging(cfg *config.Config) {
	if level, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
		zerolog.SetGlobalLevel(level)
	}
	if cfg.IsDevelopment() || cfg.Logging.Format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
