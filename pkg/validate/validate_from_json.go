package validate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/Gunvolt24/printshop_console/internal/domain"
)

// ValidateDraftFromJSON — разбор черновика из JSON-объекта и проверка по режиму.
// Значения полей могут быть строками или числами; неизвестные ключи запрещены.
func ValidateDraftFromJSON(ctx context.Context, validator *OrderValidator, mode Mode, raw []byte) (domain.Fields, error) {
	draft, err := decodeDraft(raw, nil)
	if err != nil {
		return domain.Fields{}, err
	}
	return validator.Validate(ctx, mode, draft)
}

// serverKeys — поля, которые хранилище добавляет к заказу в выдаче списка.
var serverKeys = map[string]bool{"id": true, "createdAt": true, "created_at": true}

// decodeDraft — JSON-объект в черновик; ключи из skip пропускаются без проверки.
func decodeDraft(raw []byte, skip map[string]bool) (domain.Draft, error) {
	var (
		draft domain.Draft
		obj   map[string]json.RawMessage
	)
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&obj); err != nil {
		return draft, fmt.Errorf("invalid json: %w", err)
	}
	// гарантируем отсутствие данных после объекта
	if err := dec.Decode(new(struct{})); err != io.EOF {
		return draft, fmt.Errorf("invalid json: trailing data")
	}
	if obj == nil {
		return draft, fmt.Errorf("invalid json: object expected")
	}

	var unknown []string
	for name, val := range obj {
		if skip[name] {
			continue
		}
		s, err := scalarString(val)
		if err != nil {
			return draft, fmt.Errorf("invalid json: field %s: %w", name, err)
		}
		if !draft.Set(name, s) {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return draft, fmt.Errorf("invalid json: unknown fields %s", strings.Join(unknown, ", "))
	}
	return draft, nil
}

// scalarString — строка как есть, число литералом, null как пустая строка.
func scalarString(val json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(val)
	if bytes.Equal(trimmed, []byte("null")) {
		return "", nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return "", fmt.Errorf("string or number expected")
	}
	return n.String(), nil
}
