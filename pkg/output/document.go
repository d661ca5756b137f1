/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: document.go
Description: JSON and YAML sinks. Both write the same document: run metadata
followed by the assertions in generation order.
*/

package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/kleascm/akaylee-ontogen/pkg/assertions"
	"github.com/kleascm/akaylee-ontogen/pkg/generator"
	"gopkg.in/yaml.v3"
)

// Document is the serialized form of a result
type Document struct {
	RunID      string                 `json:"run_id" yaml:"run_id"`
	Ontology   string                 `json:"ontology" yaml:"ontology"`
	Imports    string                 `json:"imports,omitempty" yaml:"imports,omitempty"`
	Comment    string                 `json:"comment" yaml:"comment"`
	Root       string                 `json:"root" yaml:"root"`
	Mode       string                 `json:"mode" yaml:"mode"`
	Count      int                    `json:"count" yaml:"count"`
	Seed       int64                  `json:"seed" yaml:"seed"`
	Stats      Stats                  `json:"stats" yaml:"stats"`
	Assertions []assertions.Assertion `json:"assertions" yaml:"assertions"`
}

// Stats is the serialized form of run statistics
type Stats struct {
	Descriptions int64          `json:"descriptions" yaml:"descriptions"`
	Individuals  int64          `json:"individuals" yaml:"individuals"`
	Assertions   int64          `json:"assertions" yaml:"assertions"`
	Warnings     int64          `json:"warnings" yaml:"warnings"`
	ByKind       map[string]int `json:"by_kind" yaml:"by_kind"`
}

// NewDocument builds the serialized form of result
func NewDocument(result *generator.Result) *Document {
	byKind := make(map[string]int)
	for kind, n := range result.Set.CountByKind() {
		byKind[kind.String()] = n
	}
	doc := &Document{
		RunID:      result.RunID,
		Ontology:   result.OutputIRI,
		Imports:    result.Imports,
		Comment:    comment(result),
		Root:       result.Root,
		Mode:       string(result.Mode),
		Count:      result.Count,
		Seed:       result.Seed,
		Assertions: result.Set.All(),
		Stats: Stats{
			Assertions: int64(result.Set.Len()),
			ByKind:     byKind,
		},
	}
	if result.Stats != nil {
		doc.Stats.Descriptions = result.Stats.Descriptions
		doc.Stats.Individuals = result.Stats.Individuals
		doc.Stats.Warnings = result.Stats.Warnings
	}
	if doc.Assertions == nil {
		doc.Assertions = []assertions.Assertion{}
	}
	return doc
}

// JSONSink writes results as indented JSON
type JSONSink struct{}

// Extension returns the file extension of the format
func (s *JSONSink) Extension() string {
	return ".json"
}

// Write serializes result as JSON
func (s *JSONSink) Write(w io.Writer, result *generator.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewDocument(result)); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	return nil
}

// YAMLSink writes results as YAML
type YAMLSink struct{}

// Extension returns the file extension of the format
func (s *YAMLSink) Extension() string {
	return ".yaml"
}

// Write serializes result as YAML
func (s *YAMLSink) Write(w io.Writer, result *generator.Result) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(NewDocument(result)); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return nil
}
