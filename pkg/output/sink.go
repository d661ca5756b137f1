/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: sink.go
Description: Output sinks for generation results. A Sink serializes the finished
assertion set of a run; NewSink selects the implementation by format name.
*/

package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kleascm/akaylee-ontogen/pkg/generator"
)

// ErrUnsupportedFormat is returned for unknown output formats
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Sink writes a generation result
type Sink interface {
	// Write serializes result to w
	Write(w io.Writer, result *generator.Result) error
	// Extension returns the file extension of the format
	Extension() string
}

// NewSink creates a sink for format: ntriples, json or yaml
func NewSink(format string) (Sink, error) {
	switch strings.ToLower(format) {
	case "ntriples", "nt":
		return &NTriplesSink{}, nil
	case "json":
		return &JSONSink{}, nil
	case "yaml", "yml":
		return &YAMLSink{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// WriteFile writes result to path through sink, creating parent directories
func WriteFile(sink Sink, path string, result *generator.Result) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := sink.Write(f, result); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

// comment returns the annotation attached to the output ontology
func comment(result *generator.Result) string {
	noun := "descriptions"
	if result.Count == 1 {
		noun = "description"
	}
	return fmt.Sprintf("A sample of %d %s %s", result.Count, result.Mode, noun)
}
