/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: scope.go
Description: Generation scope. Holds the mutable per-class state of a run or of one
parallel description: visited flags, individuals in creation order, naming counters
and cached power sets, together with the random source, assertion set and guard
they are drawn against.
*/

package generator

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/kleascm/akaylee-ontogen/pkg/assertions"
	"github.com/kleascm/akaylee-ontogen/pkg/config"
	"github.com/kleascm/akaylee-ontogen/pkg/grammar"
	"github.com/kleascm/akaylee-ontogen/pkg/guard"
	"github.com/kleascm/akaylee-ontogen/pkg/schema"
	"github.com/sirupsen/logrus"
)

// Warning kinds logged during generation
const (
	WarnUnsupportedExpression = "unsupported_expression"
	WarnUnsupportedRange      = "unsupported_range"
	WarnMaxDepth              = "max_depth"
	WarnUnknownProperty       = "unknown_property"
)

type scope struct {
	model    *schema.Model
	config   *config.GenerationConfig
	rng      *rand.Rand
	set      *assertions.Set
	guard    *guard.Guard
	logger   *logrus.Entry
	stats    *assertions.Stats
	onWarn   func(kind string)
	root     *schema.ClassNode
	ontology string
	prefix   string // Description qualifier for parallel runs

	visited     map[*schema.ClassNode]bool
	individuals map[*schema.ClassNode][]string
	counters    map[*schema.ClassNode]int
	anonymous   int
	powerSets   map[int][][]int
	depth       int
	minted      int64
}

func (e *Engine) newScope(rng *rand.Rand, set *assertions.Set, root *schema.ClassNode, stats *assertions.Stats, prefix string) *scope {
	return &scope{
		model:       e.model,
		config:      e.config,
		rng:         rng,
		set:         set,
		guard:       guard.New(set, rng, e.config, e.logger),
		logger:      e.logger.WithField("component", "generate"),
		stats:       stats,
		onWarn:      e.notifyWarning,
		root:        root,
		ontology:    e.config.OutputIRI(),
		prefix:      prefix,
		visited:     make(map[*schema.ClassNode]bool),
		individuals: make(map[*schema.ClassNode][]string),
		counters:    make(map[*schema.ClassNode]int),
		powerSets:   make(map[int][][]int),
	}
}

// resetVisited clears visited flags between descriptions
func (s *scope) resetVisited() {
	s.visited = make(map[*schema.ClassNode]bool)
}

// instancesOf returns the schema individuals of c followed by those minted for it
func (s *scope) instancesOf(c *schema.ClassNode) []string {
	list, ok := s.individuals[c]
	if !ok {
		list = append([]string(nil), c.Individuals...)
		s.individuals[c] = list
	}
	return list
}

// firstInstances returns the individuals of the first class in c ∪ sub(c) that has any
func (s *scope) firstInstances(c *schema.ClassNode) []string {
	for _, sub := range c.SubOrSelf() {
		if list := s.instancesOf(sub); len(list) > 0 {
			return list
		}
	}
	return nil
}

// mint creates and registers a new individual of c
func (s *scope) mint(c *schema.ClassNode) string {
	n := s.counters[c]
	s.counters[c] = n + 1
	ind := fmt.Sprintf("%s#%s%s_instance%d", s.ontology, s.prefix, schema.LocalName(c.IRI), n)
	s.individuals[c] = append(s.instancesOf(c), ind)
	s.minted++
	s.stats.AddIndividuals(1)
	return ind
}

// mintAnonymous creates an individual for an anonymous class expression
func (s *scope) mintAnonymous() string {
	ind := fmt.Sprintf("%s#%sInstance%d", s.ontology, s.prefix, s.anonymous)
	s.anonymous++
	s.minted++
	s.stats.AddIndividuals(1)
	return ind
}

// assertClass emits a class assertion and, independently, one for a random superclass
func (s *scope) assertClass(ind string, c *schema.ClassNode) {
	if s.rng.Float64() < s.config.ClassAssertion {
		s.set.Add(assertions.Class(c.IRI, ind))
		s.assertSuper(ind, c)
	}
}

func (s *scope) assertSuper(ind string, c *schema.ClassNode) {
	if len(c.Super) > 0 && s.rng.Float64() < s.config.SuperClassSelection {
		s.set.Add(assertions.Class(randomElement(s.rng, c.Super).IRI, ind))
	}
}

// assertRange samples a literal from r and asserts it through the guard.
// Unsupported ranges are logged and skipped; invalid sampling ranges abort.
func (s *scope) assertRange(ind string, p *schema.PropertyNode, r *schema.DataRange) error {
	sample, err := grammar.SampleRange(s.rng, r, p.Range)
	if err != nil {
		if errors.Is(err, grammar.ErrInvalidRange) {
			return fmt.Errorf("sampling %s: %w", p.IRI, err)
		}
		s.warn(WarnUnsupportedRange, "Data range is not supported and will be ignored", logrus.Fields{
			"property": p.IRI,
			"error":    err.Error(),
		})
		return nil
	}
	if sample.Negative {
		s.guard.AssertNegativeDataProperty(p, ind, sample.Literal)
		return nil
	}
	s.guard.AssertDataProperty(p, ind, sample.Literal)
	return nil
}

func (s *scope) objectProperty(iri string) (*schema.PropertyNode, bool) {
	p, ok := s.model.ObjectProperty(iri)
	if !ok {
		s.warn(WarnUnknownProperty, "Restriction names an unknown object property", logrus.Fields{"property": iri})
	}
	return p, ok
}

func (s *scope) dataProperty(iri string) (*schema.PropertyNode, bool) {
	p, ok := s.model.DataProperty(iri)
	if !ok {
		s.warn(WarnUnknownProperty, "Restriction names an unknown data property", logrus.Fields{"property": iri})
	}
	return p, ok
}

func (s *scope) warn(kind, msg string, fields logrus.Fields) {
	s.stats.IncrementWarnings()
	if s.onWarn != nil {
		s.onWarn(kind)
	}
	s.logger.WithFields(fields).WithField("warning", kind).Warn(msg)
}
