/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: guard.go
Description: Consistency guard for property assertions. Before a property assertion
enters a description's assertion set the guard looks for a relevant contradicting
assertion through equivalent, sub and inverse properties, handles reflexive use of
irreflexive and asymmetric properties, and then derives the optional companion
assertions (negative disjoint, inverse, super, equivalent, asymmetric and symmetric).
*/

package guard

import (
	"math/rand"

	"github.com/kleascm/akaylee-ontogen/pkg/assertions"
	"github.com/kleascm/akaylee-ontogen/pkg/config"
	"github.com/kleascm/akaylee-ontogen/pkg/schema"
	"github.com/sirupsen/logrus"
)

// Guard checks and emits property assertions for one description
type Guard struct {
	set    *assertions.Set
	rng    *rand.Rand
	config *config.GenerationConfig
	logger *logrus.Entry
}

// New creates a guard writing into set
func New(set *assertions.Set, rng *rand.Rand, cfg *config.GenerationConfig, logger *logrus.Logger) *Guard {
	if logger == nil {
		logger = logrus.New()
	}
	return &Guard{
		set:    set,
		rng:    rng,
		config: cfg,
		logger: logger.WithField("component", "guard"),
	}
}

// AssertObjectProperty emits p(s, o) unless it contradicts the set.
// Reports whether the positive assertion was added.
func (g *Guard) AssertObjectProperty(p *schema.PropertyNode, s, o string) bool {
	if p == nil || s == "" || o == "" {
		return false
	}

	if g.HasRelevantNegative(p, s, o) {
		g.reject(p, s, o, "relevant negative assertion")
		return false
	}

	if s == o {
		switch {
		case p.Is(schema.Irreflexive):
			if g.rng.Float64() < g.config.IrreflexiveObjectPropertySelection {
				g.addNegativeObject(p, s, s)
			}
			return false
		case p.Is(schema.Asymmetric):
			if g.rng.Float64() < g.config.AsymmetricObjectPropertySelection {
				g.addNegativeObject(p, s, s)
			}
			return false
		}
	}

	for _, inverse := range p.Inverse {
		for _, disjoint := range inverse.Disjoint {
			if g.HasRelevantObject(disjoint, o, s) {
				g.reject(p, s, o, "inverse disjoint assertion")
				return false
			}
		}
	}

	for _, disjoint := range p.Disjoint {
		if g.HasRelevantObject(disjoint, s, o) {
			g.reject(p, s, o, "disjoint assertion")
			return false
		}
	}

	added := g.set.Add(assertions.Object(p.IRI, s, o))

	if len(p.Disjoint) > 0 && g.rng.Float64() < g.config.DisjointObjectPropertySelection {
		g.addNegativeObject(pick(g.rng, p.Disjoint), s, o)
	}
	if len(p.Inverse) > 0 && g.rng.Float64() < g.config.InverseObjectPropertySelection {
		g.addObject(pick(g.rng, p.Inverse), o, s)
	}
	if len(p.Super) > 0 && g.rng.Float64() < g.config.SuperObjectPropertySelection {
		g.addObject(pick(g.rng, p.Super), s, o)
	}
	if len(p.Equivalent) > 0 && g.rng.Float64() < g.config.EquivalentObjectPropertySelection {
		g.addObject(pick(g.rng, p.Equivalent), s, o)
	}
	if p.Is(schema.Asymmetric) && g.rng.Float64() < g.config.AsymmetricObjectPropertySelection {
		g.addNegativeObject(p, o, s)
	}
	if p.Is(schema.Symmetric) && g.rng.Float64() < g.config.SymmetricObjectPropertySelection {
		g.addObject(p, o, s)
	}
	return added
}

// AssertDataProperty emits p(s, lit) unless a disjoint property already holds the value.
// Reports whether the positive assertion was added.
func (g *Guard) AssertDataProperty(p *schema.PropertyNode, s string, lit schema.Literal) bool {
	if p == nil || s == "" {
		return false
	}

	for _, disjoint := range p.Disjoint {
		if g.hasRelevantData(disjoint, s, lit, make(map[*schema.PropertyNode]bool)) {
			g.logger.WithFields(logrus.Fields{
				"property": p.IRI,
				"subject":  s,
				"literal":  lit.Key(),
			}).Debug("Rejected data assertion held by a disjoint property")
			return false
		}
	}

	added := g.addData(p, s, lit)

	if len(p.Disjoint) > 0 && g.rng.Float64() < g.config.DisjointDataPropertySelection {
		g.AssertNegativeDataProperty(pick(g.rng, p.Disjoint), s, lit)
	}
	if len(p.Super) > 0 && g.rng.Float64() < g.config.SuperDataPropertySelection {
		g.addData(pick(g.rng, p.Super), s, lit)
	}
	if len(p.Equivalent) > 0 && g.rng.Float64() < g.config.EquivalentDataPropertySelection {
		g.addData(pick(g.rng, p.Equivalent), s, lit)
	}
	return added
}

// AssertNegativeDataProperty emits the negative p(s, lit) unless the positive is present
func (g *Guard) AssertNegativeDataProperty(p *schema.PropertyNode, s string, lit schema.Literal) bool {
	if p == nil || s == "" {
		return false
	}
	if g.set.Contains(assertions.Data(p.IRI, s, lit)) {
		return false
	}
	return g.set.Add(assertions.NegativeData(p.IRI, s, lit))
}

// HasRelevantObject reports whether p(s, o) holds in the set directly or through an
// equivalent, sub or inverse property
func (g *Guard) HasRelevantObject(p *schema.PropertyNode, s, o string) bool {
	return g.relevant(p, s, o, assertions.Object, make(map[string]bool))
}

// HasRelevantNegative reports whether a negative p(s, o) holds in the set directly or
// through an equivalent, sub or inverse property
func (g *Guard) HasRelevantNegative(p *schema.PropertyNode, s, o string) bool {
	return g.relevant(p, s, o, assertions.NegativeObject, make(map[string]bool))
}

func (g *Guard) relevant(p *schema.PropertyNode, s, o string, build func(string, string, string) assertions.Assertion, visited map[string]bool) bool {
	if p == nil || s == "" || o == "" {
		return false
	}
	a := build(p.IRI, s, o)
	key := a.Key()
	if visited[key] {
		return false
	}
	if g.set.Contains(a) {
		return true
	}
	visited[key] = true

	for _, eq := range p.Equivalent {
		if g.relevant(eq, s, o, build, visited) {
			return true
		}
	}
	for _, sub := range p.Sub {
		if g.relevant(sub, s, o, build, visited) {
			return true
		}
	}
	for _, inv := range p.Inverse {
		if g.relevant(inv, o, s, build, visited) {
			return true
		}
	}
	return false
}

func (g *Guard) hasRelevantData(p *schema.PropertyNode, s string, lit schema.Literal, visited map[*schema.PropertyNode]bool) bool {
	if visited[p] {
		return false
	}
	visited[p] = true
	if g.set.Contains(assertions.Data(p.IRI, s, lit)) {
		return true
	}
	for _, sub := range p.Sub {
		if g.hasRelevantData(sub, s, lit, visited) {
			return true
		}
	}
	for _, eq := range p.Equivalent {
		if g.hasRelevantData(eq, s, lit, visited) {
			return true
		}
	}
	return false
}

// addObject adds a companion positive unless a negative or a reflexive restriction forbids it
func (g *Guard) addObject(p *schema.PropertyNode, s, o string) {
	if s == o && (p.Is(schema.Irreflexive) || p.Is(schema.Asymmetric)) {
		return
	}
	if g.HasRelevantNegative(p, s, o) {
		return
	}
	g.set.Add(assertions.Object(p.IRI, s, o))
}

// addNegativeObject adds a negative unless the positive already holds
func (g *Guard) addNegativeObject(p *schema.PropertyNode, s, o string) {
	if g.HasRelevantObject(p, s, o) {
		return
	}
	g.set.Add(assertions.NegativeObject(p.IRI, s, o))
}

func (g *Guard) addData(p *schema.PropertyNode, s string, lit schema.Literal) bool {
	if g.set.Contains(assertions.NegativeData(p.IRI, s, lit)) {
		return false
	}
	return g.set.Add(assertions.Data(p.IRI, s, lit))
}

func (g *Guard) reject(p *schema.PropertyNode, s, o, reason string) {
	g.logger.WithFields(logrus.Fields{
		"property": p.IRI,
		"subject":  s,
		"object":   o,
		"reason":   reason,
	}).Debug("Rejected object assertion")
}

func pick(rng *rand.Rand, list []*schema.PropertyNode) *schema.PropertyNode {
	return list[rng.Intn(len(list))]
}
