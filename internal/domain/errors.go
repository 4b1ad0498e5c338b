package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Базовые (sentinel) ошибки; конкретные типы ниже сопоставляются с ними через errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrTransport  = errors.New("remote store unavailable")
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
)

// ValidationError — локальная проверка полей не пройдена; удалённое хранилище не вызывалось.
// Fields: имя поля -> сообщение.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, e.Fields[name])
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, "; "))
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// TransportError — сбой сети или HTTP-статус не из 2xx при обращении к удалённому хранилищу.
type TransportError struct {
	Op         string // list|create|update|delete
	Resource   string
	StatusCode int // 0, если ответа не было
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: status %d: %v", e.Op, e.Resource, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Resource, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// NotFoundError — заказа нет в текущем снимке (снимок мог устареть).
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("order %d: %s", e.ID, ErrNotFound) }

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }
