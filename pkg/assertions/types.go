/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: types.go
Description: Generated facts. An Assertion is an immutable class, property, identity or
negative property statement about generated individuals. Assertions are collected
write-once into an insertion-ordered Set with constant-time membership checks.
*/

package assertions

import (
	"fmt"
	"sync/atomic"

	"github.com/kleascm/akaylee-ontogen/pkg/schema"
)

// Kind identifies the type of an assertion
type Kind int

const (
	ClassAssertion Kind = iota
	ObjectPropertyAssertion
	NegativeObjectPropertyAssertion
	DataPropertyAssertion
	NegativeDataPropertyAssertion
	SameIndividual
	DifferentIndividuals
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case ClassAssertion:
		return "class"
	case ObjectPropertyAssertion:
		return "object_property"
	case NegativeObjectPropertyAssertion:
		return "negative_object_property"
	case DataPropertyAssertion:
		return "data_property"
	case NegativeDataPropertyAssertion:
		return "negative_data_property"
	case SameIndividual:
		return "same_individual"
	case DifferentIndividuals:
		return "different_individuals"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// MarshalText encodes the kind by name
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name
func (k *Kind) UnmarshalText(text []byte) error {
	for candidate := ClassAssertion; candidate <= DifferentIndividuals; candidate++ {
		if candidate.String() == string(text) {
			*k = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown assertion kind %q", text)
}

// IsNegative reports whether the kind is a negative property assertion
func (k Kind) IsNegative() bool {
	return k == NegativeObjectPropertyAssertion || k == NegativeDataPropertyAssertion
}

// Assertion is a single generated fact
type Assertion struct {
	Kind      Kind           `json:"kind" yaml:"kind"`                             // Kind of fact
	Subject   string         `json:"subject" yaml:"subject"`                       // Subject individual
	Predicate string         `json:"predicate,omitempty" yaml:"predicate,omitempty"` // Class or property IRI
	Object    string         `json:"object,omitempty" yaml:"object,omitempty"`       // Object individual
	Literal   schema.Literal `json:"literal,omitempty" yaml:"literal,omitempty"`     // Data value
}

// Class returns a class assertion
func Class(class, individual string) Assertion {
	return Assertion{Kind: ClassAssertion, Subject: individual, Predicate: class}
}

// Object returns a positive object property assertion
func Object(property, subject, object string) Assertion {
	return Assertion{Kind: ObjectPropertyAssertion, Subject: subject, Predicate: property, Object: object}
}

// NegativeObject returns a negative object property assertion
func NegativeObject(property, subject, object string) Assertion {
	return Assertion{Kind: NegativeObjectPropertyAssertion, Subject: subject, Predicate: property, Object: object}
}

// Data returns a positive data property assertion
func Data(property, subject string, lit schema.Literal) Assertion {
	return Assertion{Kind: DataPropertyAssertion, Subject: subject, Predicate: property, Literal: lit}
}

// NegativeData returns a negative data property assertion
func NegativeData(property, subject string, lit schema.Literal) Assertion {
	return Assertion{Kind: NegativeDataPropertyAssertion, Subject: subject, Predicate: property, Literal: lit}
}

// Same returns a same-individual assertion
func Same(a, b string) Assertion {
	return Assertion{Kind: SameIndividual, Subject: a, Object: b}
}

// Different returns a different-individuals assertion
func Different(a, b string) Assertion {
	return Assertion{Kind: DifferentIndividuals, Subject: a, Object: b}
}

// Key returns the identity of the assertion within a Set
func (a Assertion) Key() string {
	if a.Kind == DataPropertyAssertion || a.Kind == NegativeDataPropertyAssertion {
		return fmt.Sprintf("%d|%s|%s|%s", a.Kind, a.Subject, a.Predicate, a.Literal.Key())
	}
	return fmt.Sprintf("%d|%s|%s|%s", a.Kind, a.Subject, a.Predicate, a.Object)
}

// Stats tracks run statistics
// Uses atomic operations so parallel descriptions can share one instance
type Stats struct {
	Descriptions int64 `json:"descriptions"` // Completed descriptions
	Individuals  int64 `json:"individuals"`  // Minted individuals
	Assertions   int64 `json:"assertions"`   // Assertions in the final set
	Warnings     int64 `json:"warnings"`     // Recoverable conditions logged
}

// IncrementDescriptions atomically increments the description counter
func (s *Stats) IncrementDescriptions() {
	atomic.AddInt64(&s.Descriptions, 1)
}

// AddIndividuals atomically adds to the individual counter
func (s *Stats) AddIndividuals(n int64) {
	atomic.AddInt64(&s.Individuals, n)
}

// IncrementWarnings atomically increments the warning counter
func (s *Stats) IncrementWarnings() {
	atomic.AddInt64(&s.Warnings, 1)
}
