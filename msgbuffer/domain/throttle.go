package domain

// Contratos do throttle opcional por cliente (requisições por segundo).
// Não confundir com a cota por autor, que é regra do buffer.

import "time"

type Key string

// Limiter decide se uma ação é permitida agora.
// A infra usa token bucket (golang.org/x/time/rate).
type Limiter interface {
	Allow() bool
}

// LimiterStore obtém um limiter por chave (IP, header, etc).
type LimiterStore interface {
	Get(Key) Limiter
}

type Decision struct {
	Allowed bool
	// RetryAfter vai no header Retry-After quando bloquear.
	RetryAfter time.Duration
}
