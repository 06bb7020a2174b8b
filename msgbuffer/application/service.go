package application

import (
	"context"
	"log/slog"
	"time"

	"message-buffer/msgbuffer/domain"
)

// Service envolve o MessageStore com logs e estatísticas.
//
// Ele não sabe nada sobre HTTP: Submit devolve os erros do domain e o
// adapter traduz para status.
type Service struct {
	Store  domain.MessageStore
	Stats  domain.StatsStore
	Logger *slog.Logger
}

func (s Service) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

// Submit tenta adicionar m ao buffer.
// Retorna nil, domain.ErrMessageTooLarge ou domain.ErrAuthorQuotaExceeded.
func (s Service) Submit(ctx context.Context, m domain.Message) error {
	count, err := s.Store.Append(m)

	log := s.logger()
	switch domain.OutcomeOf(err) {
	case domain.OutcomeAccepted:
		log.DebugContext(ctx, "added message", "count", count)
	case domain.OutcomeTooLarge:
		log.ErrorContext(ctx, "message too large", "author", m.Author, "length", len(m.Message))
	case domain.OutcomeQuotaExceeded:
		log.ErrorContext(ctx, "too many messages", "author", m.Author)
	}

	if s.Stats != nil {
		ev := domain.StatsEvent{
			Author:  m.Author,
			Outcome: domain.OutcomeOf(err),
			Length:  len(m.Message),
			Count:   count,
			At:      time.Now(),
		}
		if recErr := s.Stats.Record(ctx, ev); recErr != nil {
			log.WarnContext(ctx, "record stats", "err", recErr)
		}
	}

	return err
}

// List devolve o conteúdo atual do buffer em ordem de inserção.
func (s Service) List(ctx context.Context) []domain.Message {
	msgs := s.Store.Snapshot()
	// a lista vazia sai como [] e não null
	if msgs == nil {
		msgs = []domain.Message{}
	}
	s.logger().DebugContext(ctx, "returning messages", "count", len(msgs))
	return msgs
}
