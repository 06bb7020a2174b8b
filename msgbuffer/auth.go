package msgbuffer

import (
	"crypto/subtle"
	"net/http"
)

const DefaultAPIKeyHeader = "x-api-key"

type AuthOptions struct {
	// Header default: x-api-key
	Header string
	Key    string
}

// APIKeyMiddleware bloqueia com 401 qualquer request cujo header não seja
// igual à chave configurada. Sem chave configurada, nada passa.
func APIKeyMiddleware(opts AuthOptions) func(next http.Handler) http.Handler {
	if opts.Header == "" {
		opts.Header = DefaultAPIKeyHeader
	}
	key := []byte(opts.Key)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			vals := r.Header.Values(opts.Header)
			if len(key) == 0 || len(vals) == 0 || subtle.ConstantTimeCompare([]byte(vals[0]), key) != 1 {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
