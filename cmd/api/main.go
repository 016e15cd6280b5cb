package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"jobdesk/internal/adapter/repo"
	"jobdesk/internal/http/handlers"
	"jobdesk/internal/http/httpapi"
	"jobdesk/internal/infra"
	"jobdesk/internal/infra/geoip"
	"jobdesk/internal/ledger"
	"jobdesk/internal/middleware"
	"jobdesk/internal/posting"
	"jobdesk/internal/quota"
	"jobdesk/internal/sequence"
	"jobdesk/internal/stats"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	var recorder stats.Recorder = stats.Noop{}
	rdb, err := infra.NewRedisClient(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect redis")
	}
	if rdb != nil {
		defer rdb.Close()
		recorder = stats.NewRedisRecorder(rdb, "", logger)
	} else {
		logger.Warn().Msg("redis not configured, site stats disabled")
	}

	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open geoip database")
	}
	var countryLookup middleware.CountryLookup
	if resolver != nil {
		defer resolver.Close()
		countryLookup = resolver.CountryCode
	}

	// Services over the postgres adapters.
	quotaMgr := quota.NewManager(repo.NewSubscriptionRepository(dbpool))
	allocator := sequence.NewAllocator(repo.NewCounterRepository(dbpool))
	appLedger := ledger.NewLedger(repo.NewApplicationRepository(dbpool))
	postingSvc := posting.NewService(quotaMgr, allocator, appLedger, repo.NewJobPostingRepository(dbpool), logger)

	app := handlers.NewApp(logger, quotaMgr, appLedger, postingSvc, recorder)
	router := httpapi.NewRouter(app, httpapi.Options{
		JWTSecret:      cfg.JWTSecret,
		AllowedOrigins: cfg.AllowedOrigins,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		DefaultLocale:  "en",
		CountryLookup:  countryLookup,
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on %s", server.Addr())
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
