package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // Loads .env files into the environment
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/med-schedule-service/internal/config"     // Internal config loader
	"github.com/iliyamo/med-schedule-service/internal/database"   // MySQL connection helper
	"github.com/iliyamo/med-schedule-service/internal/handler"    // HTTP handlers
	"github.com/iliyamo/med-schedule-service/internal/middleware" // Cache and rate-limit middleware
	"github.com/iliyamo/med-schedule-service/internal/notifier"   // Dose reminder scanner
	"github.com/iliyamo/med-schedule-service/internal/queue"      // RabbitMQ consumer
	"github.com/iliyamo/med-schedule-service/internal/repository" // DB repositories
	"github.com/iliyamo/med-schedule-service/internal/router"     // Route registration
	"github.com/iliyamo/med-schedule-service/internal/schedule"   // Scheduling engine
)

func main() {
	_ = godotenv.Load() // Load .env when present; real env vars win

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Repositories share the single sql.DB pool.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	medicines := repository.NewMedicineRepo(db)
	prescriptions := repository.NewPrescriptionRepo(db)
	schedules := repository.NewScheduleRepo(db)
	timings := repository.NewTimingRepo(db)
	intakeLogs := repository.NewIntakeLogRepo(db)

	clock := schedule.SystemClock()
	builder := schedule.NewCalendarBuilder(prescriptions, schedules, timings, intakeLogs, prescriptions)

	e := echo.New()
	router.RegisterRoutes(e) // Health check
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), cfg.JWTSecret)

	// Redis backs both the calendar response cache and the rate limiter.
	// When Redis is unavailable both middlewares degrade to pass-through.
	rdb := config.NewRedisClient()
	var cacheMW echo.MiddlewareFunc
	var extra []echo.MiddlewareFunc
	if rdb != nil {
		cacheMW = middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
		extra = append(extra, middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	}

	router.RegisterAPI(e, router.APIHandlers{
		Medicines:     handler.NewMedicineHandler(medicines),
		Prescriptions: handler.NewPrescriptionHandler(prescriptions, medicines),
		Schedules:     handler.NewScheduleHandler(prescriptions, schedules, timings, clock),
		Timings:       handler.NewTimingHandler(timings, schedules),
		Intake:        handler.NewIntakeHandler(intakeLogs, schedules, clock),
		Calendar:      handler.NewCalendarHandler(builder, clock),
	}, cfg.JWTSecret, cacheMW, extra...)

	// Background consumer appends schedule/dose events to logs/medication.log.
	go func() {
		if err := queue.StartMedicationConsumer(); err != nil {
			log.Printf("medication consumer stopped: %v", err)
		}
	}()

	// Reminder scanner publishes dose.due events on a cron schedule.
	if cfg.ReminderCron != "" {
		n := notifier.New(users, builder, clock, cfg.ReminderCron, cfg.ReminderAheadMin)
		if err := n.Start(); err != nil {
			log.Fatalf("notifier: invalid REMINDER_CRON %q: %v", cfg.ReminderCron, err)
		}
		defer n.Stop()
	}

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
