// Command microjson parses consecutive JSON objects from stdin against a YAML schema and prints the parsed values.
package main

import (
	_ "embed"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/viant/microjson"
	"github.com/viant/microjson/schema"
)

//go:embed default.yaml
var defaultSchema []byte

func main() {
	schemaPath := flag.String("schema", "", "YAML schema file, defaults to the built-in flag1/flag2/count schema")
	verbose := flag.Bool("v", false, "trace parsing to stderr")
	flag.Parse()
	level := slog.LevelWarn
	if *verbose {
		level = microjson.LevelTrace
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	input, err := io.ReadAll(os.Stdin)
	if err != nil {
		logger.Error("failed to read input", "error", err)
		os.Exit(1)
	}
	if err = run(*schemaPath, input, os.Stdout, logger); err != nil {
		logger.Error("failed to parse input", "error", err)
		os.Exit(1)
	}
}

// run decodes back to back objects from input, printing one rendered line per object
func run(schemaPath string, input []byte, output io.Writer, logger *slog.Logger) error {
	data := defaultSchema
	if schemaPath != "" {
		var err error
		if data, err = os.ReadFile(schemaPath); err != nil {
			return err
		}
	}
	document, err := schema.Load(data)
	if err != nil {
		return err
	}
	for offset := skipSpace(input, 0); offset < len(input) && input[offset] != 0; {
		end, err := document.Decode(input[offset:], microjson.WithLogger(logger))
		if err != nil {
			return fmt.Errorf("object at %d: %w", offset, err)
		}
		offset += end
		rendered, err := document.JSON()
		if err != nil {
			return err
		}
		if _, err = fmt.Fprintf(output, "%s\n", rendered); err != nil {
			return err
		}
	}
	return nil
}

func skipSpace(data []byte, pos int) int {
	for pos < len(data) && (data[pos] == ' ' || data[pos] == '\t' || data[pos] == '\n' || data[pos] == '\r') {
		pos++
	}
	return pos
}
