package application

import (
	"time"

	"message-buffer/msgbuffer/domain"
)

// Throttle decide se um cliente pode fazer mais uma requisição agora.
//
// Ele não sabe nada sobre HTTP (headers/status), apenas retorna uma decisão.
type Throttle struct {
	Store      domain.LimiterStore
	RetryAfter time.Duration
}

func (t Throttle) Decide(key domain.Key) domain.Decision {
	if t.Store == nil {
		return domain.Decision{Allowed: true}
	}

	lim := t.Store.Get(key)
	if lim == nil || lim.Allow() {
		return domain.Decision{Allowed: true}
	}

	retry := t.RetryAfter
	if retry <= 0 {
		retry = time.Second
	}
	return domain.Decision{Allowed: false, RetryAfter: retry}
}
