package main

import (
	"context"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"message-buffer/msgbuffer"
	"message-buffer/msgbuffer/application"
	"message-buffer/msgbuffer/infra"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

func main() {
	// .env é opcional
	envErr := godotenv.Load()

	cfg, err := readConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.logLevel}))
	slog.SetDefault(logger)
	if envErr == nil {
		logger.Debug("loaded .env file")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// contadores em memória sempre ligados; resumo no log ao parar
	memStats := infra.NewMemoryStatsStore(infra.WithTrackAuthors(cfg.statsTrackAuthors))
	sinks := infra.MultiStatsStore{memStats}
	if cfg.statsRedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.statsRedisAddr,
			Password: cfg.statsRedisPassword,
			DB:       cfg.statsRedisDB,
		})
		defer func() { _ = rdb.Close() }()

		pingCtx, pingCancel := context.WithTimeout(ctx, 2*time.Second)
		_, err := rdb.Ping(pingCtx).Result()
		pingCancel()
		if err != nil {
			log.Fatalf("redis stats ping error: %v", err)
		}

		sinks = append(sinks, infra.NewRedisStatsStore(
			rdb,
			infra.WithStatsPrefix(cfg.statsPrefix),
			infra.WithStatsTTL(cfg.statsTTL),
			infra.WithStatsBucket(cfg.statsBucket),
			infra.WithStatsTrackAuthors(cfg.statsTrackAuthors),
		))
	}

	var metrics http.Handler
	if cfg.metricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		prom, err := infra.NewPrometheusStatsStore(reg)
		if err != nil {
			log.Fatalf("prometheus register error: %v", err)
		}
		sinks = append(sinks, prom)
		metrics = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}

	var throttle msgbuffer.ThrottleOptions
	if cfg.rateEnabled {
		limiters := infra.NewLimiterStore(cfg.rateRPS, cfg.rateBurst)
		limiters.StartJanitor(ctx)
		throttle = msgbuffer.ThrottleOptions{
			Store:               limiters,
			ClientHeader:        cfg.rateKeyHeader,
			TrustXForwardedFor:  cfg.trustXFF,
			RetryAfter:          cfg.retryAfter,
			AddRateLimitHeaders: cfg.addHeaders,
			Logger:              logger,
		}
	}

	h := msgbuffer.NewHandler(msgbuffer.HandlerOptions{
		Service: application.Service{
			Store:  infra.NewBuffer(cfg.limits),
			Stats:  sinks,
			Logger: logger,
		},
		Auth:     msgbuffer.AuthOptions{Key: cfg.apiKey},
		Throttle: throttle,
		Metrics:  metrics,
		Logger:   logger,
	})

	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	ln, err := net.Listen("tcp", cfg.listenAddr)
	if err != nil {
		log.Fatalf("listen error: %v", err)
	}

	logger.Info("listening", "addr", ln.Addr().String())
	logger.Info("buffer", "queue_size", cfg.limits.QueueSize, "max_message_size", cfg.limits.MaxMessageSize,
		"max_author_count", cfg.limits.MaxAuthorCount, "max_age", cfg.limits.MaxAge)
	logger.Info("throttle", "enabled", cfg.rateEnabled, "rps", cfg.rateRPS, "burst", cfg.rateBurst,
		"key_header", cfg.rateKeyHeader, "trust_xff", cfg.trustXFF, "headers", cfg.addHeaders)
	logger.Info("stats", "redis_addr", cfg.statsRedisAddr, "bucket", cfg.statsBucket,
		"track_authors", cfg.statsTrackAuthors, "metrics", cfg.metricsEnabled)

	if err := serve(ctx, srv, ln, 10*time.Second); err != nil {
		log.Fatalf("server error: %v", err)
	}

	total := memStats.Total()
	logger.Info("server stopped", "accepted", total.Accepted, "too_large", total.TooLarge,
		"quota_exceeded", total.QuotaExceeded)
	if cfg.statsTrackAuthors {
		for author, c := range memStats.ByAuthor() {
			logger.Debug("author stats", "author", author, "accepted", c.Accepted,
				"too_large", c.TooLarge, "quota_exceeded", c.QuotaExceeded)
		}
	}
}
