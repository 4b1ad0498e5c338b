package validate

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
)

// maxLineBytes — верхняя граница строки JSONL (описание заказа бывает длинным).
const maxLineBytes = 10 << 20

// ValidateJSONLStream — черновик на строку; пустые строки пропускаются.
// Валидные строки пишутся в ow каноническим JSON, причины отказа с номером строки — в report (если не nil).
func ValidateJSONLStream(ctx context.Context, validator *OrderValidator, mode Mode, ir io.Reader, ow, report io.Writer) (Summary, error) {
	var sum Summary

	scanner := bufio.NewScanner(ir)
	scanner.Buffer(make([]byte, 0, 64<<10), maxLineBytes)

	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		fields, err := ValidateDraftFromJSON(ctx, validator, mode, line)
		if err != nil {
			sum.Invalid++
			if report != nil {
				fmt.Fprintf(report, "line %d: %v\n", lineNo, err)
			}
			continue
		}
		if err := writeLine(ow, fields); err != nil {
			return sum, err
		}
		sum.Valid++
	}
	if err := scanner.Err(); err != nil {
		return sum, fmt.Errorf("scan: %w", err)
	}
	return sum, nil
}
