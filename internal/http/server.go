package http

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	echoMid "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sherlingdev/flare-sub001/internal/config"
	"github.com/sherlingdev/flare-sub001/internal/http/middleware"
	"github.com/sherlingdev/flare-sub001/internal/metrics"
	"github.com/sherlingdev/flare-sub001/internal/model"
	"github.com/sherlingdev/flare-sub001/internal/ratelimit"
	"github.com/sherlingdev/flare-sub001/internal/repository"
	ratesvc "github.com/sherlingdev/flare-sub001/internal/service/rates"
)

type Server struct{ e *echo.Echo }

func tierFromConfig(tc config.TierConfig, fallback model.Tier) model.Tier {
	if tc.Requests <= 0 || tc.WindowSeconds <= 0 {
		return fallback
	}
	return model.Tier{Requests: tc.Requests, Window: time.Duration(tc.WindowSeconds) * time.Second}
}

func NewServer(cfg config.Config, mysqlDB, clickhouseDB *sqlx.DB, rds *redis.Client) *Server {
	// repos (MySQL)
	currenciesRepo := repository.NewCurrenciesRepository(mysqlDB)
	ratesRepo := repository.NewRatesRepository(mysqlDB)
	apiKeysRepo := repository.NewAPIKeysRepository(mysqlDB)
	ledgerRepo := repository.NewRateLimitRepository(mysqlDB)

	// repos (ClickHouse)
	historyRepo := repository.NewHistoryRepository(clickhouseDB)

	// services
	ratesService := ratesvc.New(ratesRepo, rds, cfg.Cache.TTL)
	limiter := ratelimit.NewLimiter(ledgerRepo, ratelimit.LimiterOpts{
		Anonymous:     tierFromConfig(cfg.RateLimit.Anonymous, model.TierAnonymous),
		Authenticated: tierFromConfig(cfg.RateLimit.Authenticated, model.TierAuthenticated),
		FailOpen:      !cfg.IsProduction(),
	})
	validator := ratelimit.NewValidator(apiKeysRepo)

	// echo
	e := echo.New()
	e.HideBanner = true
	e.Use(echoMid.Recover(), echoMid.Logger())

	metrics.MustRegister(prometheus.DefaultRegisterer)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// health
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	// gatekeeper: every /api route goes through identify -> limit -> forward/reject
	e.Use(middleware.Gatekeeper(middleware.GatekeeperConfig{
		Limiter:     limiter,
		Validator:   validator,
		APIPrefix:   cfg.RateLimit.APIPrefix,
		KeysPath:    cfg.RateLimit.KeysPath,
		BypassPaths: cfg.RateLimit.BypassPaths,
	}))

	defaultBase := "USD"
	if len(cfg.Provider.Bases) > 0 {
		defaultBase = cfg.Provider.Bases[0]
	}

	// routes
	api := e.Group("/api")
	api.GET("/currencies", listCurrenciesHandler(currenciesRepo))
	api.GET("/rates", latestRatesHandler(ratesService, defaultBase))
	api.GET("/rates/:code", rateByCodeHandler(ratesService, defaultBase))
	api.GET("/convert", convertHandler(ratesService, defaultBase))
	api.GET("/history", historyHandler(historyRepo, defaultBase))
	api.GET("/keys", keysInfoHandler(cfg.RateLimit.Authenticated.Requests))
	api.POST("/keys", createKeyHandler(apiKeysRepo))
	api.DELETE("/keys/:id", deactivateKeyHandler(apiKeysRepo))
	api.POST("/internal/rates/bulk", bulkRatesHandler(ratesRepo, ratesService))

	return &Server{e: e}
}

func (s *Server) Start(addr string) error {
	log.Printf("http: listening on %s", addr)
	return s.e.Start(addr)
}
func (s *Server) Shutdown(ctx context.Context) error { return s.e.Shutdown(ctx) }
