package msgbuffer

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"message-buffer/msgbuffer/application"
	"message-buffer/msgbuffer/domain"
)

// ClientKey identifica quem está chamando /message para o throttle.
// Não tem relação com o autor da mensagem: a cota por autor é do buffer.
type ClientKey func(r *http.Request) string

type ThrottleOptions struct {
	Store domain.LimiterStore

	// ClientKey tem precedência; sem ele usa ClientKeyFrom(ClientHeader, TrustXForwardedFor).
	ClientKey          ClientKey
	ClientHeader       string
	TrustXForwardedFor bool

	RetryAfter          time.Duration
	AddRateLimitHeaders bool
	Logger              *slog.Logger
}

// ClientKeyFrom tenta, nessa ordem: o header configurado, o primeiro IP do
// X-Forwarded-For (se confiável) e o host do RemoteAddr.
func ClientKeyFrom(header string, trustXFF bool) ClientKey {
	return func(r *http.Request) string {
		if k := headerKey(r, header); k != "" {
			return k
		}
		if trustXFF {
			if k := forwardedKey(r); k != "" {
				return k
			}
		}
		if k := remoteKey(r); k != "" {
			return k
		}
		return "unknown"
	}
}

func headerKey(r *http.Request, header string) string {
	if header == "" {
		return ""
	}
	return strings.TrimSpace(r.Header.Get(header))
}

func forwardedKey(r *http.Request) string {
	first, _, _ := strings.Cut(r.Header.Get("X-Forwarded-For"), ",")
	return strings.TrimSpace(first)
}

func remoteKey(r *http.Request) string {
	addr := strings.TrimSpace(r.RemoteAddr)
	if host, _, err := net.SplitHostPort(addr); err == nil && host != "" {
		return host
	}
	return addr
}

// ThrottleMiddleware limita requisições por cliente com token bucket.
// Sem Store é um passthrough.
func ThrottleMiddleware(opts ThrottleOptions) func(next http.Handler) http.Handler {
	if opts.Store == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	if opts.ClientKey == nil {
		opts.ClientKey = ClientKeyFrom(opts.ClientHeader, opts.TrustXForwardedFor)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	th := application.Throttle{Store: opts.Store, RetryAfter: opts.RetryAfter}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if opts.AddRateLimitHeaders {
				setRateHeaders(w, opts.Store)
			}

			client := opts.ClientKey(r)
			if dec := th.Decide(domain.Key(client)); !dec.Allowed {
				opts.Logger.DebugContext(r.Context(), "request throttled", "client", client, "path", r.URL.Path)
				w.Header().Set("Retry-After", formatInt(int(dec.RetryAfter.Seconds())))
				reject(w, http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// setRateHeaders só escreve algo quando o store expõe RPS/Burst (infra.LimiterStore).
func setRateHeaders(w http.ResponseWriter, store domain.LimiterStore) {
	ri, ok := store.(interface {
		RPS() float64
		Burst() int
	})
	if !ok {
		return
	}
	w.Header().Set("X-RateLimit-RPS", formatFloat(ri.RPS()))
	w.Header().Set("X-RateLimit-Burst", formatInt(ri.Burst()))
}
