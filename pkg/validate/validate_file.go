package validate

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// InputFormat — формат входа CLI.
type InputFormat string

const (
	FormatAuto  InputFormat = "auto"
	FormatJSON  InputFormat = "json"  // один черновик
	FormatJSONL InputFormat = "jsonl" // черновик на строку
	FormatDump  InputFormat = "dump"  // массив заказов, как его отдаёт GET /servicios
)

// Summary — итог проверки.
type Summary struct {
	Valid   int
	Invalid int
}

func (s Summary) String() string { return fmt.Sprintf("%d valid / %d invalid", s.Valid, s.Invalid) }

// ValidateFile — проверка файла; FormatAuto выбирает формат по расширению и первому символу.
// Валидные наборы полей пишутся в ow каноническим JSON, причины отказа — в report.
func ValidateFile(ctx context.Context, validator *OrderValidator, mode Mode, filePath string, format InputFormat, ow, report io.Writer) (Summary, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return Summary{}, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	if format == FormatAuto && strings.EqualFold(filepath.Ext(filePath), ".jsonl") {
		format = FormatJSONL
	}
	if format == FormatAuto && strings.EqualFold(filepath.Ext(filePath), ".json") {
		format = FormatJSON // массив внутри всё равно распознается ниже
	}
	return ValidateReader(ctx, validator, mode, file, format, ow, report)
}

// ValidateReader — то же для произвольного потока (stdin).
// FormatAuto: '[' в начале — выгрузка, иначе JSONL. FormatJSON с '[' в начале — тоже выгрузка.
func ValidateReader(ctx context.Context, validator *OrderValidator, mode Mode, r io.Reader, format InputFormat, ow, report io.Writer) (Summary, error) {
	br := bufio.NewReader(r)

	if format == FormatAuto || format == FormatJSON {
		first, err := firstNonSpace(br)
		if err != nil && err != io.EOF {
			return Summary{}, fmt.Errorf("read input: %w", err)
		}
		switch {
		case first == '[':
			format = FormatDump
		case format == FormatAuto:
			format = FormatJSONL
		}
	}

	switch format {
	case FormatJSON:
		raw, err := io.ReadAll(br)
		if err != nil {
			return Summary{}, fmt.Errorf("read input: %w", err)
		}
		fields, err := ValidateDraftFromJSON(ctx, validator, mode, raw)
		if err != nil {
			return Summary{Invalid: 1}, err
		}
		if err := writeLine(ow, fields); err != nil {
			return Summary{}, err
		}
		return Summary{Valid: 1}, nil

	case FormatJSONL:
		return ValidateJSONLStream(ctx, validator, mode, br, ow, report)

	case FormatDump:
		return ValidateDump(ctx, validator, mode, br, ow, report)

	default:
		return Summary{}, fmt.Errorf("unsupported format: %s", format)
	}
}

// firstNonSpace — первый непробельный байт без его потребления.
func firstNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.Peek(1)
		if err != nil {
			return 0, err
		}
		switch b[0] {
		case ' ', '\t', '\r', '\n':
			_, _ = br.Discard(1)
		default:
			return b[0], nil
		}
	}
}

// writeLine — значение каноническим JSON одной строкой.
func writeLine(w io.Writer, v any) error {
	line, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	if _, err := w.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}
