package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/armonia-saas/access-service-go/internal/config"
	"github.com/armonia-saas/access-service-go/internal/database"
	"github.com/armonia-saas/access-service-go/internal/handler"
	"github.com/armonia-saas/access-service-go/internal/jobs"
	"github.com/armonia-saas/access-service-go/internal/middleware"
	"github.com/armonia-saas/access-service-go/internal/qr"
	"github.com/armonia-saas/access-service-go/internal/redis"
	"github.com/armonia-saas/access-service-go/internal/repository"
	"github.com/armonia-saas/access-service-go/internal/service"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	setLogLevel(cfg.LogLevel)

	isProduction := os.Getenv("FLY_APP_NAME") != "" || os.Getenv("APP_ENV") == "production"
	if err := cfg.Validate(isProduction); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	db, err := database.Connect(cfg.DatabaseURL, cfg.TenantSchema)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), config.DBPingTimeout)
	if err := db.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}
	cancel()
	log.Info().Str("schema", cfg.TenantSchema).Msg("database connected")

	redisClient, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected")

	passRepo := repository.NewAccessPassRepository(db.DB)
	logRepo := repository.NewAccessLogRepository(db.DB)
	preRegRepo := repository.NewPreRegistrationRepository(db.DB)
	notificationRepo := repository.NewNotificationRepository(db.DB)

	encoder := qr.NewEncoder(cfg.QRPixelWidth)
	passService := service.NewAccessPassService(passRepo, logRepo, encoder)
	notifierService := service.NewNotifierService(notificationRepo)
	preRegService := service.NewPreRegistrationService(
		preRegRepo, passRepo, logRepo, passService, notifierService,
	)
	rateLimiter := service.NewRateLimiter(redisClient.Client)

	stationAuthMiddleware := middleware.NewStationAuthMiddleware(cfg.StationTokenHash)
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(
		rateLimiter, config.DefaultRateLimitPerMin, time.Minute, "api",
	)
	bodyLimitMiddleware := middleware.NewBodyLimitMiddleware(0)
	securityHeadersMiddleware := middleware.NewSecurityHeadersMiddleware(isProduction)

	passHandler := handler.NewAccessPassHandler(passService)
	preRegHandler := handler.NewPreRegistrationHandler(preRegService)
	notificationHandler := handler.NewNotificationHandler(notifierService)

	if cfg.SeedDemoData {
		seedDemoData(passService, preRegService)
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(config.ServerRequestTimeout))
	r.Use(bodyLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"status":    "ok",
			"timestamp": time.Now().UnixMilli(),
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(securityHeadersMiddleware.Handler)
		r.Use(stationAuthMiddleware.Handler)
		r.Use(rateLimitMiddleware.Handler)
		r.Mount("/passes", passHandler.Routes())
		r.Mount("/pre-registrations", preRegHandler.Routes())
		r.Mount("/notifications", notificationHandler.Routes())
	})

	sweepJob := jobs.NewSweepJob(passRepo, notificationRepo, config.SweepJobInterval)
	sweepJob.Start()
	defer sweepJob.Stop()

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: 0,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func seedDemoData(passService *service.AccessPassService, preRegService *service.PreRegistrationService) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := passService.SeedDemoPasses(ctx); err != nil {
		log.Error().Err(err).Msg("failed to seed demo passes")
	}
	if _, err := preRegService.SeedDemoPreRegistrations(ctx, 1, "Administrador", "Administración"); err != nil {
		log.Error().Err(err).Msg("failed to seed demo pre-registrations")
	}
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
