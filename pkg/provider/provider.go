/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: provider.go
Description: Ontology Model Provider interface and the format switch used to construct
one. A provider answers told and classifier-inferred questions about classes and
properties and delivers a whole-schema consistency verdict.
*/

package provider

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kleascm/akaylee-ontogen/pkg/schema"
)

// ErrUnsupportedFormat is returned by NewProvider for unknown schema formats
var ErrUnsupportedFormat = errors.New("unsupported schema format")

// Provider exposes a schema and its classification to the extractor
type Provider interface {
	// OntologyIRI returns the IRI of the main ontology
	OntologyIRI() string
	// IsConsistent reports whether the schema and its individuals are consistent
	IsConsistent() bool

	// Signature
	Classes() []string
	ObjectProperties() []string
	DataProperties() []string

	// Told class axioms
	DirectSuperclasses(class string) []string
	AnonymousSuperclasses(class string) []*schema.ClassExpr
	EquivalentClasses(class string) []*schema.ClassExpr
	DisjointClasses(class string) []*schema.ClassExpr

	// Inferred class relations
	InferredSubclasses(class string) []string
	InferredSuperclasses(class string) []string
	InferredEquivalents(class string) []string
	InferredDisjoints(class string) []string
	InstancesOf(class string) []string

	// Told property axioms
	Domains(property string) []string
	ObjectRange(property string) *schema.ClassExpr
	DataRange(property string) *schema.DataRange
	DirectSuperProperties(property string) []string
	EquivalentProperties(property string) []string
	DisjointProperties(property string) []string
	InverseProperties(property string) []string
	Characteristics(property string) schema.Characteristic

	// Inferred property relations
	InferredSubProperties(property string) []string
	InferredSuperProperties(property string) []string
	InferredEquivalentProperties(property string) []string
	InferredInverseProperties(property string) []string
}

// NewProvider returns a provider for the given schema format loaded from the file
// patterns. Imports are resolved through mapping (ontology IRI to file path).
func NewProvider(format string, patterns []string, mapping map[string]string) (Provider, error) {
	switch strings.ToLower(format) {
	case "", "yaml", "yml", "json":
		return LoadDocuments(patterns, mapping)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// ParseIRIMapping parses "iri,path;iri,path" into a map
func ParseIRIMapping(value string) (map[string]string, error) {
	mapping := make(map[string]string)
	if strings.TrimSpace(value) == "" {
		return mapping, nil
	}
	for _, pair := range strings.Split(value, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.Split(pair, ",")
		if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
			return nil, fmt.Errorf("invalid IRI mapping %q: expected iri,path", pair)
		}
		mapping[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	return mapping, nil
}
