package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"message-buffer/msgbuffer/domain"
)

type config struct {
	listenAddr string
	limits     domain.Limits
	apiKey     string
	logLevel   slog.Level

	rateEnabled   bool
	rateRPS       float64
	rateBurst     int
	rateKeyHeader string
	trustXFF      bool
	retryAfter    time.Duration
	addHeaders    bool

	statsRedisAddr     string
	statsRedisPassword string
	statsRedisDB       int
	statsPrefix        string
	statsBucket        string
	statsTTL           time.Duration
	statsTrackAuthors  bool

	metricsEnabled bool
}

// envReader acumula o primeiro erro de parse; variável inválida não cai
// silenciosamente no default.
type envReader struct {
	err error
}

func (e *envReader) fail(k, v string, err error) {
	if e.err == nil {
		e.err = fmt.Errorf("invalid %s=%q: %w", k, v, err)
	}
}

func (e *envReader) getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func (e *envReader) getenvInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		e.fail(k, v, err)
		return def
	}
	return i
}

func (e *envReader) getenvFloat(k string, def float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		e.fail(k, v, err)
		return def
	}
	return f
}

func (e *envReader) getenvBool(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.fail(k, v, err)
		return def
	}
	return b
}

func (e *envReader) getenvDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.fail(k, v, err)
		return def
	}
	return d
}

func (e *envReader) getenvLevel(k string, def slog.Level) slog.Level {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(v)); err != nil {
		e.fail(k, v, err)
		return def
	}
	return l
}

func readConfig() (config, error) {
	env := &envReader{}
	cfg := config{}

	cfg.listenAddr = net.JoinHostPort(env.getenv("HOST", "127.0.0.1"), env.getenv("PORT", "3000"))

	cfg.limits.QueueSize = env.getenvInt("QUEUE_SIZE", 100)
	cfg.limits.MaxMessageSize = env.getenvInt("MAX_MESSAGE_SIZE", 1024)
	// MAX_AUTHOR_SIZE é o nome antigo; é uma contagem de mensagens, não um tamanho.
	authorVar := "MAX_AUTHOR_COUNT"
	if os.Getenv(authorVar) == "" {
		authorVar = "MAX_AUTHOR_SIZE"
	}
	cfg.limits.MaxAuthorCount = env.getenvInt(authorVar, 50)
	cfg.limits.MaxAge = time.Duration(env.getenvInt("MAX_AGE", 5)) * time.Minute

	cfg.apiKey = os.Getenv("API_KEY")
	cfg.logLevel = env.getenvLevel("LOG_LEVEL", slog.LevelInfo)

	cfg.rateEnabled = env.getenvBool("RATE_ENABLED", false)
	cfg.rateRPS = env.getenvFloat("RATE_RPS", 10)
	cfg.rateBurst = env.getenvInt("RATE_BURST", 20)
	cfg.rateKeyHeader = os.Getenv("RATE_KEY_HEADER")
	cfg.trustXFF = env.getenvBool("TRUST_XFF", false)
	cfg.retryAfter = env.getenvDuration("RETRY_AFTER", time.Second)
	cfg.addHeaders = env.getenvBool("ADD_RATELIMIT_HEADERS", false)

	cfg.statsRedisAddr = strings.TrimSpace(os.Getenv("STATS_REDIS_ADDR"))
	cfg.statsRedisPassword = os.Getenv("STATS_REDIS_PASSWORD")
	cfg.statsRedisDB = env.getenvInt("STATS_REDIS_DB", 0)
	cfg.statsPrefix = env.getenv("STATS_PREFIX", "msgbuffer:stats")
	cfg.statsBucket = strings.ToLower(env.getenv("STATS_BUCKET", "minute"))
	cfg.statsTTL = env.getenvDuration("STATS_TTL", 24*time.Hour)
	cfg.statsTrackAuthors = env.getenvBool("STATS_TRACK_AUTHORS", false)

	cfg.metricsEnabled = env.getenvBool("METRICS_ENABLED", false)

	if env.err != nil {
		return config{}, env.err
	}

	if cfg.apiKey == "" {
		return config{}, errors.New("API_KEY is required")
	}
	if cfg.limits.QueueSize < 0 {
		return config{}, errors.New("QUEUE_SIZE must be >= 0")
	}
	if cfg.limits.MaxMessageSize < 0 {
		return config{}, errors.New("MAX_MESSAGE_SIZE must be >= 0")
	}
	if cfg.limits.MaxAuthorCount < 0 {
		return config{}, errors.New("MAX_AUTHOR_COUNT must be >= 0")
	}
	if cfg.limits.MaxAge < 0 {
		return config{}, errors.New("MAX_AGE must be >= 0")
	}
	if cfg.statsBucket != "minute" && cfg.statsBucket != "none" {
		return config{}, errors.New(`STATS_BUCKET must be "minute" or "none"`)
	}
	if cfg.rateEnabled && cfg.rateRPS <= 0 {
		return config{}, errors.New("RATE_RPS must be > 0")
	}
	if cfg.rateEnabled && cfg.rateBurst <= 0 {
		return config{}, errors.New("RATE_BURST must be > 0")
	}
	return cfg, nil
}
