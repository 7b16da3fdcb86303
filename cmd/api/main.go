package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/nimasrn/clinic-whatsapp/internal/config"
	"github.com/nimasrn/clinic-whatsapp/internal/handlers"
	"github.com/nimasrn/clinic-whatsapp/internal/repository"
	"github.com/nimasrn/clinic-whatsapp/internal/services"
	"github.com/nimasrn/clinic-whatsapp/internal/whatsapp"
	xhttp "github.com/nimasrn/clinic-whatsapp/pkg/http"
	"github.com/nimasrn/clinic-whatsapp/pkg/logger"
	"github.com/nimasrn/clinic-whatsapp/pkg/pg"
	"github.com/nimasrn/clinic-whatsapp/pkg/prom"
	"github.com/nimasrn/clinic-whatsapp/pkg/redis"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	defer logger.Sync()

	err := config.Load(argContainsEnvPath())
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}
	cfg := config.Get()
	logger.Info("starting api", "version", version, "commit", commit, "date", date)

	if cfg.AppDebugMetricsAddr != "" {
		host, _ := os.Hostname()
		if err := prom.Create(host, cfg.AppEnv, cfg.PromNamespace); err != nil {
			logger.Error("failed registering metrics", "error", err)
		}
		go prom.ListenAndServer(cfg.AppDebugMetricsAddr, cfg.AppDebugMetricsURI)
	}

	s := xhttp.NewServer(xhttp.DefaultServerOption)
	s.Use(xhttp.RequestIDMiddleware)
	s.Use(xhttp.RequestLoggerMiddleware)
	s.Use(xhttp.RecoverMiddleware)
	s.Use(xhttp.TimeoutMiddleware(cfg.HttpRequestTimeout))
	s.Use(xhttp.CompressMiddleware(6))
	s.Router = xhttp.CreateDefaultRouter()

	db, err := pg.CreateReadWrite(cfg.ReadDB(), cfg.WriteDB(), cfg.AppEnv == "dev")
	if err != nil {
		logger.Error("failed connecting to pg", "error", err)
		return
	}
	deps := map[string]services.Pinger{"postgres": db}

	var guard services.ClickGuard
	if cfg.RedisAddr != "" {
		redisAdap, err := redis.NewRedisAdapter("default", cfg.RedisUniversalKeyPrefix, &redis.Options{
			Addrs:      []string{cfg.RedisAddr},
			ClientName: "default",
			DB:         cfg.RedisDatabase,
			Username:   cfg.RedisUsername,
			Password:   cfg.RedisPassword,
		})
		if err != nil {
			logger.Error("failed connecting to redis", "error", err)
			return
		}
		defer redisAdap.Close()
		guard = services.NewRedisClickGuard(redisAdap, cfg.ClickGuardTTL)
		deps["redis"] = redisAdap
	} else {
		logger.Warn("REDIS_ADDR is empty, duplicate clicks will not be detected")
	}

	links, err := whatsapp.NewLinkBuilder(cfg.WhatsAppBaseURL)
	if err != nil {
		logger.Error("invalid whatsapp base url", "error", err)
		return
	}

	patientRepo := repository.NewPatientRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	// services
	whatsAppService := services.NewWhatsAppService(patientRepo, appointmentRepo, messageRepo, db, guard, services.Options{
		ClinicName:   cfg.ClinicName,
		Location:     cfg.Location(),
		Links:        links,
		HistoryLimit: cfg.HistoryPageLimit,
	})
	healthService := services.NewHealthService(deps)

	// v1 handlers
	whatsAppHandler := handlers.NewWhatsAppHandler(whatsAppService)
	healthHandler := handlers.NewHealthHandler(healthService)

	g := s.Router.Group("/api/v1")
	handlers.RegisterWhatsAppRoutes(g, whatsAppHandler)
	handlers.RegisterHealthRoutes(g, healthHandler)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		var err = s.ListenAndServe(cfg.HttpListenAddr)
		if err != nil {
			logger.Error("error in running http-server", "error", err)
		}
	}()

	<-c
	s.Shutdown()
}

func argContainsEnvPath() string {
	for _, v := range os.Args {
		if strings.HasPrefix(v, "--env=") {
			s := strings.SplitN(v, "=", 2)
			if _, err := os.Stat(s[1]); err != nil {
				logger.Error("failed to open the passed env file", "error", err)
				return ""
			}
			return s[1]
		}
	}
	return ""
}
