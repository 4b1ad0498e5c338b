package validate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ValidateDump — проверка выгрузки коллекции (JSON-массив заказов из GET /servicios).
// id и createdAt, которые добавляет хранилище, не проверяются; остальные поля — как у черновика.
func ValidateDump(ctx context.Context, validator *OrderValidator, mode Mode, r io.Reader, ow, report io.Writer) (Summary, error) {
	var items []json.RawMessage
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return Summary{}, fmt.Errorf("invalid dump: %w", err)
	}

	var sum Summary
	for i, raw := range items {
		err := validateItem(ctx, validator, mode, raw, ow)
		if err == nil {
			sum.Valid++
			continue
		}
		var werr *writeError
		if errors.As(err, &werr) {
			return sum, werr.err
		}
		sum.Invalid++
		if report != nil {
			fmt.Fprintf(report, "item %d%s: %v\n", i+1, dumpID(raw), err)
		}
	}
	return sum, nil
}

// writeError — сбой записи результата, прерывает проверку выгрузки.
type writeError struct{ err error }

func (e *writeError) Error() string { return e.err.Error() }

func validateItem(ctx context.Context, validator *OrderValidator, mode Mode, raw json.RawMessage, ow io.Writer) error {
	draft, err := decodeDraft(raw, serverKeys)
	if err != nil {
		return err
	}
	fields, err := validator.Validate(ctx, mode, draft)
	if err != nil {
		return err
	}
	if err := writeLine(ow, fields); err != nil {
		return &writeError{err: err}
	}
	return nil
}

// dumpID — " (id N)" для отчёта, если у элемента есть id.
func dumpID(raw json.RawMessage) string {
	var head struct {
		ID json.Number `json:"id"`
	}
	if json.Unmarshal(raw, &head) != nil || head.ID == "" {
		return ""
	}
	return " (id " + head.ID.String() + ")"
}
