package infra

import (
	"slices"
	"sync"
	"time"

	"message-buffer/msgbuffer/domain"
)

// Buffer é o buffer compartilhado de mensagens, em memória.
//
// Append exige acesso exclusivo; Snapshot usa só o lock de leitura.
// A janela expira de forma preguiçosa: só o próximo Append percebe que
// passou MaxAge e limpa tudo. Leitores podem ver conteúdo velho até lá.
type Buffer struct {
	mu          sync.RWMutex
	entries     []domain.Message
	windowStart time.Time

	limits domain.Limits
	now    func() time.Time
}

type BufferOption func(*Buffer)

// WithClock troca o relógio (usado nos testes para avançar a janela).
func WithClock(now func() time.Time) BufferOption {
	return func(b *Buffer) { b.now = now }
}

func NewBuffer(limits domain.Limits, opts ...BufferOption) *Buffer {
	b := &Buffer{
		limits: limits,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.windowStart = b.now()
	return b
}

// Append implementa domain.MessageStore.
//
// Ordem: wipe da janela, tamanho, cota do autor, inserção, trim.
// As checagens vêm antes da mutação, então rejeições não tocam no estado.
func (b *Buffer) Append(m domain.Message) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	if now.Sub(b.windowStart) > b.limits.MaxAge {
		clear(b.entries)
		b.entries = b.entries[:0]
		b.windowStart = now
	}

	if len(m.Message) > b.limits.MaxMessageSize {
		return len(b.entries), domain.ErrMessageTooLarge
	}

	if b.countAuthor(m.Author) >= b.limits.MaxAuthorCount {
		return len(b.entries), domain.ErrAuthorQuotaExceeded
	}

	b.entries = append(b.entries, m)

	// no máximo uma entrada a mais por chamada
	if len(b.entries) > b.limits.QueueSize {
		b.entries = slices.Delete(b.entries, 0, 1)
	}

	return len(b.entries), nil
}

// Snapshot implementa domain.MessageStore. Não dispara o wipe.
func (b *Buffer) Snapshot() []domain.Message {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]domain.Message, len(b.entries))
	copy(out, b.entries)
	return out
}

func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.entries)
}

// O(n) por Append; aceitável para filas pequenas.
func (b *Buffer) countAuthor(author string) int {
	n := 0
	for _, e := range b.entries {
		if e.Author == author {
			n++
		}
	}
	return n
}
