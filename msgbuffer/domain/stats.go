package domain

import (
	"context"
	"errors"
	"time"
)

// Outcome é o resultado de um submit, do ponto de vista das estatísticas.
type Outcome string

const (
	OutcomeAccepted      Outcome = "accepted"
	OutcomeTooLarge      Outcome = "too_large"
	OutcomeQuotaExceeded Outcome = "quota_exceeded"
)

// OutcomeOf traduz o erro do Append para um Outcome.
// Erros desconhecidos não têm outcome (retorna "").
func OutcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeAccepted
	case errors.Is(err, ErrMessageTooLarge):
		return OutcomeTooLarge
	case errors.Is(err, ErrAuthorQuotaExceeded):
		return OutcomeQuotaExceeded
	default:
		return ""
	}
}

// StatsEvent registra uma decisão de admissão.
//
// Cuidado com cardinalidade: Author só deve virar chave/label quando
// explicitamente habilitado.
type StatsEvent struct {
	Author  string
	Outcome Outcome
	// Length é o tamanho da mensagem em bytes.
	Length int
	// Count é o tamanho do buffer após um submit aceito.
	Count int

	At time.Time
}

// StatsStore persiste estatísticas de submit (memória, Redis, Prometheus).
// Erros são best-effort: nunca mudam a resposta ao cliente.
type StatsStore interface {
	Record(ctx context.Context, ev StatsEvent) error
}
