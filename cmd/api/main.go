package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ev-charge-planner/internal/api"
	"ev-charge-planner/internal/config"
	"ev-charge-planner/internal/data"
	"ev-charge-planner/internal/logger"
	"ev-charge-planner/internal/metrics"
	"ev-charge-planner/internal/planner"
	"ev-charge-planner/internal/theme"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfgPath := flag.String("config", os.Getenv("CONFIG_PATH"), "Path to YAML config (defaults when empty)")
	flag.Parse()

	if err := run(*cfgPath); err != nil {
		logger.New("api").Errorf("%v", err)
		os.Exit(1)
	}
}

func run(cfgPath string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	logger.SetLevel(cfg.Logging.Level)
	log := logger.New("api")

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	rec, err := metrics.NewPromRecorder(prometheus.DefaultRegisterer)
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	cache, closeCache, err := newCache(cfg, log)
	if err != nil {
		return err
	}
	defer closeCache()

	upstream := data.NewAwattarClient(cfg.Market.BaseURL, cfg.Market.Timeout, logger.New("awattar"))
	source := data.NewCachedSource(upstream, cache, rec, logger.New("prices"))

	sess := planner.New(source, planner.Config{
		CapacityKWh:            cfg.Vehicle.CapacityKWh,
		ChargingRateKWhPerHour: cfg.Vehicle.ChargingRateKWhPerHour,
		Location:               loc,
		Debounce:               cfg.Planner.Debounce,
		Window:                 cfg.Window,
		Defaults:               cfg.Defaults,
	}, planner.WithLogger(logger.New("planner")), planner.WithMetrics(rec))
	defer sess.Close()

	// Initial load runs in the background; the session reports loading until it finishes.
	go func() {
		if err := sess.Refresh(ctx); err != nil {
			log.Warnf("initial market data load failed: %v", err)
		}
	}()

	pref, _ := theme.ParsePreference(cfg.Theme.Preference)
	sysMode, _ := theme.ParseMode(cfg.Theme.SystemDefault)
	themes := theme.NewStore(pref, sysMode)
	unsubscribe := themes.Subscribe(func(m theme.Mode) { log.Infof("theme set to %s", m) })
	defer unsubscribe()

	handler := api.NewHandler(api.Deps{
		Config:   cfg,
		Source:   source,
		Planner:  sess,
		Theme:    themes,
		Metrics:  rec,
		Gatherer: prometheus.DefaultGatherer,
		Log:      logger.New("http"),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("starting API server on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Infof("shutting down")
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		cfg := config.Default()
		cfg.ApplyEnv()
		return cfg, cfg.Validate()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// newCache uses redis when an address is configured, an in-process cache otherwise.
func newCache(cfg *config.Config, log logger.Logger) (data.Cache, func(), error) {
	if cfg.Cache.RedisAddr == "" {
		c := data.NewMemoryCache(cfg.Cache.TTL)
		return c, func() { _ = c.Close() }, nil
	}
	client, err := data.NewRedisClient(cfg.Cache.RedisAddr, cfg.Cache.RedisPassword)
	if err != nil {
		return nil, nil, fmt.Errorf("redis: %w", err)
	}
	log.Infof("price cache: redis at %s", cfg.Cache.RedisAddr)
	c := data.NewRedisCache(client, cfg.Cache.TTL, logger.New("redis"))
	return c, func() { _ = c.Close() }, nil
}
