package msgbuffer

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"strings"
	"unicode/utf8"

	"message-buffer/msgbuffer/domain"
)

// ErrInvalidMessage indica JSON bem formado mas com campo ausente ou do tipo errado.
var ErrInvalidMessage = errors.New("invalid message")

// ErrInvalidUTF8 é erro de sintaxe: o encoding/json trocaria os bytes
// inválidos por U+FFFD e o buffer guardaria outro conteúdo.
var ErrInvalidUTF8 = errors.New("body is not valid UTF-8")

type wireMessage struct {
	Message *string `json:"message"`
	Author  *string `json:"author"`
}

// DecodeMessage faz o parse de {"message": "...", "author": "..."}.
// Erro de sintaxe (inclusive UTF-8 inválido) não é ErrInvalidMessage; campo ausente
// ou com tipo errado vira ErrInvalidMessage.
func DecodeMessage(body []byte) (domain.Message, error) {
	if !utf8.Valid(body) {
		return domain.Message{}, ErrInvalidUTF8
	}

	var w wireMessage
	if err := json.Unmarshal(body, &w); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return domain.Message{}, fmt.Errorf("%w: field %q: %v", ErrInvalidMessage, typeErr.Field, err)
		}
		return domain.Message{}, err
	}
	switch {
	case w.Message == nil:
		return domain.Message{}, fmt.Errorf("%w: missing field %q", ErrInvalidMessage, "message")
	case w.Author == nil:
		return domain.Message{}, fmt.Errorf("%w: missing field %q", ErrInvalidMessage, "author")
	}
	return domain.Message{Message: *w.Message, Author: *w.Author}, nil
}

// isJSONContentType aceita application/json e qualquer subtipo +json.
func isJSONContentType(v string) bool {
	mt, _, err := mime.ParseMediaType(v)
	if err != nil {
		return false
	}
	return mt == "application/json" || (strings.HasPrefix(mt, "application/") && strings.HasSuffix(mt, "+json"))
}
