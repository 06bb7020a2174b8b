package domain

import (
	"errors"
	"time"
)

// Message é uma entrada do buffer. Imutável depois de aceita.
type Message struct {
	Message string `json:"message"`
	Author  string `json:"author"`
}

// Limits são os limites de admissão, lidos uma vez no startup.
type Limits struct {
	// QueueSize é o máximo de entradas retidas (a mais antiga sai primeiro).
	QueueSize int
	// MaxMessageSize é o tamanho máximo do conteúdo, em bytes.
	MaxMessageSize int
	// MaxAuthorCount é a quantidade máxima de mensagens de um mesmo autor
	// dentro da janela atual (no legado: MAX_AUTHOR_SIZE).
	MaxAuthorCount int
	// MaxAge é a duração da janela. Passado esse tempo, o próximo Append
	// limpa o buffer inteiro.
	MaxAge time.Duration
}

// Motivos de rejeição do Append. Nenhum deles altera o buffer.
var (
	ErrMessageTooLarge     = errors.New("message too large")
	ErrAuthorQuotaExceeded = errors.New("author quota exceeded")
)

// MessageStore é o buffer compartilhado.
//
// Append retorna a quantidade de entradas retidas após a chamada.
// Snapshot devolve uma cópia em ordem de inserção.
type MessageStore interface {
	Append(Message) (int, error)
	Snapshot() []Message
}
