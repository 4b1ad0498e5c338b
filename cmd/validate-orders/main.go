package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/Gunvolt24/printshop_console/pkg/validate"
)

// Коды выхода: 0 — всё валидно, 1 — ошибка чтения или формата, 2 — есть невалидные заказы.
const (
	exitOK      = 0
	exitFailure = 1
	exitInvalid = 2
)

// CLI-приложение: проверка черновиков и выгрузок заказов теми же правилами, что и консоль.
func main() {
	inputPath := flag.String("in", "", "path to input (.json, .jsonl or a /servicios dump). If empty, reads from stdin.")
	formatStr := flag.String("format", "auto", "input format: auto|json|jsonl|dump")
	modeStr := flag.String("mode", "create", "rules: create|update")
	quiet := flag.Bool("q", false, "do not print valid orders to stdout")
	flag.Parse()

	os.Exit(run(*inputPath, validate.InputFormat(*formatStr), validate.Mode(*modeStr), *quiet))
}

func run(path string, format validate.InputFormat, mode validate.Mode, quiet bool) int {
	ctx := context.Background()
	orderValidator := validate.NewOrderValidator()

	out := os.Stdout
	if quiet {
		devNull, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open %s: %v\n", os.DevNull, err)
			return exitFailure
		}
		defer devNull.Close()
		out = devNull
	}

	var (
		summary validate.Summary
		err     error
	)
	if path == "" {
		summary, err = validate.ValidateReader(ctx, orderValidator, mode, os.Stdin, format, out, os.Stderr)
	} else {
		summary, err = validate.ValidateFile(ctx, orderValidator, mode, path, format, out, os.Stderr)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "validation: %v (%s)\n", err, summary)
		// одиночный JSON: ошибка и есть результат проверки
		if summary.Invalid > 0 {
			return exitInvalid
		}
		return exitFailure
	}

	fmt.Fprintf(os.Stderr, "validation done (%s)\n", summary)
	if summary.Invalid > 0 {
		return exitInvalid
	}
	return exitOK
}
