package msgbuffer

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"message-buffer/msgbuffer/application"
	"message-buffer/msgbuffer/domain"
)

// DefaultMaxBodyBytes é o teto do corpo de um POST /message.
const DefaultMaxBodyBytes = 2 << 20

type HandlerOptions struct {
	Service application.Service
	Auth    AuthOptions

	// Throttle é opcional; aplicado só em /message, depois do gate.
	Throttle ThrottleOptions

	// Metrics, se não nil, é montado em GET /metrics (sem gate).
	Metrics http.Handler

	MaxBodyBytes int64
	Logger       *slog.Logger
}

type api struct {
	svc     application.Service
	maxBody int64
	log     *slog.Logger
}

// NewHandler monta as rotas:
//
//	GET  /health   sem gate
//	POST /message  gate + throttle
//	GET  /message  gate + throttle
//	GET  /metrics  opcional, sem gate
func NewHandler(opts HandlerOptions) http.Handler {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	a := &api{svc: opts.Service, maxBody: opts.MaxBodyBytes, log: opts.Logger}

	guard := func(h http.Handler) http.Handler {
		h = ThrottleMiddleware(opts.Throttle)(h)
		return APIKeyMiddleware(opts.Auth)(h)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", a.health)
	mux.Handle("POST /message", guard(http.HandlerFunc(a.submit)))
	mux.Handle("GET /message", guard(http.HandlerFunc(a.list)))
	if opts.Metrics != nil {
		mux.Handle("GET /metrics", opts.Metrics)
	}
	return mux
}

func (a *api) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "ok")
}

func (a *api) submit(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r.Header.Get("Content-Type")) {
		reject(w, http.StatusUnsupportedMediaType)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, a.maxBody))
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			reject(w, http.StatusRequestEntityTooLarge)
			return
		}
		a.log.WarnContext(r.Context(), "read body", "err", err)
		reject(w, http.StatusBadRequest)
		return
	}

	m, err := DecodeMessage(body)
	if err != nil {
		if errors.Is(err, ErrInvalidMessage) {
			reject(w, http.StatusUnprocessableEntity)
			return
		}
		reject(w, http.StatusBadRequest)
		return
	}

	w.WriteHeader(statusFor(a.svc.Submit(r.Context(), m)))
}

func (a *api) list(w http.ResponseWriter, r *http.Request) {
	msgs := a.svc.List(r.Context())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(msgs); err != nil {
		a.log.WarnContext(r.Context(), "write messages", "err", err)
	}
}

// statusFor traduz o resultado do Append para o status HTTP.
func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusCreated
	case errors.Is(err, domain.ErrMessageTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrAuthorQuotaExceeded):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func reject(w http.ResponseWriter, code int) {
	http.Error(w, http.StatusText(code), code)
}
