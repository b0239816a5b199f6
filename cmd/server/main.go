package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"budong-api/internal/auth"
	"budong-api/internal/config"
	apphttp "budong-api/internal/http"
	"budong-api/internal/metrics"
	"budong-api/internal/repository"
	"budong-api/internal/repository/redis"
	"budong-api/internal/repository/sqlite"
	"budong-api/internal/service"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(level)
	} else {
		logger.Warnf("unknown log level %q, using info", cfg.Log.Level)
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("invalid config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	userRepo := sqlite.NewUserRepository(db)
	regionRepo := sqlite.NewRegionRepository(db)
	buildingRepo := sqlite.NewBuildingRepository(db)
	reviewRepo := sqlite.NewReviewRepository(db)
	savedRepo := sqlite.NewSavedBuildingRepository(db)
	facilityRepo := sqlite.NewFacilityRepository(db)

	if err := sqlite.InitAll(ctx, userRepo, regionRepo, buildingRepo, reviewRepo, savedRepo, facilityRepo); err != nil {
		logger.Fatalf("init repositories: %v", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)

	hasher := auth.NewHasher(cfg.Auth.BcryptCost, cfg.Auth.HashConcurrency, collector)
	tokens, err := auth.NewTokenService(auth.TokenConfig{
		Secret:     cfg.Auth.JWTSecret,
		Algorithm:  cfg.Auth.Algorithm,
		AccessTTL:  cfg.AccessTTL(),
		RefreshTTL: cfg.RefreshTTL(),
		Leeway:     cfg.Leeway(),
		Logger:     logger,
		Recorder:   collector,
	})
	if err != nil {
		logger.Fatalf("setup tokens: %v", err)
	}

	var denylist repository.TokenDenylist
	if cfg.Auth.Revocation {
		rdb, err := redis.Connect(ctx, redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, logger)
		if err != nil {
			logger.Fatalf("connect redis: %v", err)
		}
		defer rdb.Close()
		denylist = redis.NewDenylist(rdb)
	}

	userService, err := service.NewUserService(userRepo, hasher)
	if err != nil {
		logger.Fatalf("setup user service: %v", err)
	}
	sessionService := service.NewSessionService(userService, tokens, denylist, logger)
	searchService := service.NewSearchService(buildingRepo, facilityRepo, cfg.Search.MaxRadiusMeters, collector)
	buildingService := service.NewBuildingService(buildingRepo, reviewRepo, savedRepo, facilityRepo, regionRepo, service.BuildingRadii{
		Nearby:  cfg.Search.NearbyRadiusMeters,
		Station: cfg.Search.StationRadiusMeters,
	})
	regionService := service.NewRegionService(regionRepo, facilityRepo)

	limiter := apphttp.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, 10*time.Minute, logger)
	defer limiter.Stop()

	if err := apphttp.RegisterValidations(); err != nil {
		logger.Fatalf("register validations: %v", err)
	}

	gin.SetMode(gin.ReleaseMode)
	router, err := apphttp.NewRouter(cfg.Server.TrustedProxies)
	if err != nil {
		logger.Fatalf("setup router: %v", err)
	}
	handler := apphttp.NewHandler(apphttp.Deps{
		Users:     userService,
		Sessions:  sessionService,
		Search:    searchService,
		Buildings: buildingService,
		Regions:   regionService,
		Limiter:   limiter,
		Metrics:   collector,
		Gatherer:  registry,
		Logger:    logger,
	})
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}
