package infra

import (
	"context"
	"sync"

	"message-buffer/msgbuffer/domain"
)

type Counters struct {
	Accepted      int64
	TooLarge      int64
	QuotaExceeded int64
}

func (c *Counters) add(o domain.Outcome) {
	switch o {
	case domain.OutcomeAccepted:
		c.Accepted++
	case domain.OutcomeTooLarge:
		c.TooLarge++
	case domain.OutcomeQuotaExceeded:
		c.QuotaExceeded++
	}
}

// MemoryStatsStore guarda contadores de submit em memória.
// Útil para testes e desenvolvimento; não expira nada.
type MemoryStatsStore struct {
	mu       sync.Mutex
	total    Counters
	byAuthor map[string]Counters

	trackAuthors bool
}

type MemoryStatsOption func(*MemoryStatsStore)

func WithTrackAuthors(track bool) MemoryStatsOption {
	return func(s *MemoryStatsStore) { s.trackAuthors = track }
}

func NewMemoryStatsStore(opts ...MemoryStatsOption) *MemoryStatsStore {
	s := &MemoryStatsStore{
		byAuthor: make(map[string]Counters),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStatsStore) Record(_ context.Context, ev domain.StatsEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.total.add(ev.Outcome)
	if s.trackAuthors {
		c := s.byAuthor[ev.Author]
		c.add(ev.Outcome)
		s.byAuthor[ev.Author] = c
	}
	return nil
}

func (s *MemoryStatsStore) Total() Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

func (s *MemoryStatsStore) ByAuthor() map[string]Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]Counters, len(s.byAuthor))
	for k, v := range s.byAuthor {
		out[k] = v
	}
	return out
}
