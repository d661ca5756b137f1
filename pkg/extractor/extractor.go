/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: extractor.go
Description: Conceptual model extractor. Turns the told axioms and classifier results
of a Provider into a schema.Model in three phases: signature collection, direct
axiom parsing and post-parsing closure. The closure phase propagates disjoint and
inverse properties, inherits and reduces anonymous restrictions and collects the
special restrictions the generator consults for cardinality-aware linking.
*/

package extractor

import (
	"fmt"
	"time"

	"github.com/kleascm/akaylee-ontogen/pkg/provider"
	"github.com/kleascm/akaylee-ontogen/pkg/schema"
	"github.com/sirupsen/logrus"
)

// Warning kinds logged during extraction
const (
	WarnMissingBinding = "missing_binding"
	WarnInvalidDomain  = "invalid_domain"
)

// Extractor builds a conceptual model from a provider
type Extractor struct {
	provider provider.Provider
	logger   *logrus.Entry
	model    *schema.Model

	// Warnings counts the recoverable conditions logged during extraction
	Warnings int
}

// Extract runs every extraction phase and returns the model
func Extract(p provider.Provider, logger *logrus.Logger) (*schema.Model, error) {
	return New(p, logger).Run()
}

// New creates an extractor. A nil logger falls back to a fresh logrus logger.
func New(p provider.Provider, logger *logrus.Logger) *Extractor {
	if logger == nil {
		logger = logrus.New()
	}
	return &Extractor{
		provider: p,
		logger:   logger.WithField("component", "extract"),
	}
}

// Run executes the three extraction phases
func (e *Extractor) Run() (*schema.Model, error) {
	start := time.Now()

	if !e.provider.IsConsistent() {
		return nil, fmt.Errorf("%s: %w", e.provider.OntologyIRI(), schema.ErrSchemaInconsistent)
	}

	e.model = schema.NewModel(e.provider.OntologyIRI())

	e.logger.Debug("Begin extracting entities")
	e.collectSignature()

	e.logger.Debug("Begin extracting axioms")
	e.parseClassAxioms()
	e.parsePropertyAxioms(schema.ObjectProperty)
	e.parsePropertyAxioms(schema.DataProperty)

	e.logger.Debug("Begin extracting implicit knowledge")
	e.closeClasses()
	e.closeProperties()
	e.closeRestrictions()

	e.logger.WithFields(logrus.Fields{
		"classes":           len(e.model.Classes()),
		"object_properties": len(e.model.ObjectProperties()),
		"data_properties":   len(e.model.DataProperties()),
		"warnings":          e.Warnings,
		"duration":          time.Since(start),
	}).Debug("Model extracted")

	return e.model, nil
}

// collectSignature creates one node per named entity, skipping top and bottom
func (e *Extractor) collectSignature() {
	for _, iri := range e.provider.Classes() {
		if !schema.IsTopOrBottom(iri) {
			e.model.AddClass(iri)
		}
	}
	for _, iri := range e.provider.ObjectProperties() {
		if !schema.IsTopOrBottom(iri) {
			e.model.AddProperty(iri, schema.ObjectProperty)
		}
	}
	for _, iri := range e.provider.DataProperties() {
		if !schema.IsTopOrBottom(iri) {
			e.model.AddProperty(iri, schema.DataProperty)
		}
	}
}

func (e *Extractor) parseClassAxioms() {
	for _, c := range e.model.Classes() {
		for _, superIRI := range e.provider.DirectSuperclasses(c.IRI) {
			if schema.IsTopOrBottom(superIRI) {
				continue
			}
			super, ok := e.model.Class(superIRI)
			if !ok {
				continue
			}
			c.DirectSuper = schema.InsertClass(c.DirectSuper, super)
			super.DirectSub = schema.InsertClass(super.DirectSub, c)
		}
		for _, expr := range e.provider.AnonymousSuperclasses(c.IRI) {
			c.DirectAnonymousRestrictions = schema.InsertExpr(c.DirectAnonymousRestrictions, expr)
		}
		for _, expr := range e.provider.EquivalentClasses(c.IRI) {
			if expr.Kind == schema.ExprClass && expr.Class == c.IRI {
				continue
			}
			c.EquivalentExprs = schema.InsertExpr(c.EquivalentExprs, expr)
		}
		for _, expr := range e.provider.DisjointClasses(c.IRI) {
			if expr.Kind == schema.ExprClass && expr.Class == c.IRI {
				continue
			}
			c.DisjointExprs = schema.InsertExpr(c.DisjointExprs, expr)
		}
	}
}

func (e *Extractor) lookupProperty(iri string, kind schema.PropertyKind) (*schema.PropertyNode, bool) {
	if kind == schema.DataProperty {
		return e.model.DataProperty(iri)
	}
	return e.model.ObjectProperty(iri)
}

func (e *Extractor) propertyList(kind schema.PropertyKind) []*schema.PropertyNode {
	if kind == schema.DataProperty {
		return e.model.DataProperties()
	}
	return e.model.ObjectProperties()
}

// parsePropertyAxioms records told property axioms and attaches range bindings
// to every named domain class
func (e *Extractor) parsePropertyAxioms(kind schema.PropertyKind) {
	for _, p := range e.propertyList(kind) {
		p.Characteristics = e.provider.Characteristics(p.IRI)

		for _, iri := range e.provider.DirectSuperProperties(p.IRI) {
			if super, ok := e.lookupProperty(iri, kind); ok {
				p.DirectSuper = schema.InsertProperty(p.DirectSuper, super)
				super.DirectSub = schema.InsertProperty(super.DirectSub, p)
			}
		}
		for _, iri := range e.provider.EquivalentProperties(p.IRI) {
			if eq, ok := e.lookupProperty(iri, kind); ok && eq != p {
				p.Equivalent = schema.InsertProperty(p.Equivalent, eq)
			}
		}
		for _, iri := range e.provider.DisjointProperties(p.IRI) {
			if d, ok := e.lookupProperty(iri, kind); ok && d != p {
				p.DirectDisjoint = schema.InsertProperty(p.DirectDisjoint, d)
			}
		}
		if kind == schema.ObjectProperty {
			for _, iri := range e.provider.InverseProperties(p.IRI) {
				if inv, ok := e.model.ObjectProperty(iri); ok {
					p.Inverse = schema.InsertProperty(p.Inverse, inv)
				}
			}
		}

		var domains []*schema.ClassNode
		for _, iri := range e.provider.Domains(p.IRI) {
			c, ok := e.model.Class(iri)
			if !ok {
				e.Warnings++
				e.logger.WithFields(logrus.Fields{
					"warning":  WarnInvalidDomain,
					"property": p.IRI,
					"class":    iri,
				}).Error("Property has an invalid domain")
				continue
			}
			p.Domains = append(p.Domains, iri)
			domains = append(domains, c)
		}

		var hasRange bool
		if kind == schema.DataProperty {
			p.Range = e.provider.DataRange(p.IRI)
			hasRange = p.Range != nil
		} else {
			p.ObjectRange = e.provider.ObjectRange(p.IRI)
			hasRange = p.ObjectRange != nil
		}

		if len(domains) == 0 || !hasRange {
			e.Warnings++
			e.logger.WithFields(logrus.Fields{
				"warning":  WarnMissingBinding,
				"property": p.IRI,
				"kind":     kind.String(),
			}).Warn("Property has no domains or ranges and will be ignored")
			continue
		}

		for _, c := range domains {
			if kind == schema.DataProperty {
				c.DataBindings = bindData(c.DataBindings, p, p.Range)
			} else {
				c.ObjectBindings = bindObject(c.ObjectBindings, p, p.ObjectRange)
			}
		}
	}
}

// bindObject sets the range of p on a binding list ordered by property IRI
func bindObject(list []schema.ObjectBinding, p *schema.PropertyNode, r *schema.ClassExpr) []schema.ObjectBinding {
	for i := range list {
		if list[i].Property == p {
			list[i].Range = r
			return list
		}
	}
	i := 0
	for i < len(list) && list[i].Property.IRI < p.IRI {
		i++
	}
	list = append(list, schema.ObjectBinding{})
	copy(list[i+1:], list[i:])
	list[i] = schema.ObjectBinding{Property: p, Range: r}
	return list
}

// bindData sets the range of p on a binding list ordered by property IRI
func bindData(list []schema.DataBinding, p *schema.PropertyNode, r *schema.DataRange) []schema.DataBinding {
	for i := range list {
		if list[i].Property == p {
			list[i].Range = r
			return list
		}
	}
	i := 0
	for i < len(list) && list[i].Property.IRI < p.IRI {
		i++
	}
	list = append(list, schema.DataBinding{})
	copy(list[i+1:], list[i:])
	list[i] = schema.DataBinding{Property: p, Range: r}
	return list
}

// closeClasses pulls the classifier's inferred class relations and instances
func (e *Extractor) closeClasses() {
	for _, c := range e.model.Classes() {
		for _, iri := range e.provider.InferredSubclasses(c.IRI) {
			if sub, ok := e.model.Class(iri); ok && iri != schema.OWLNothing && sub != c {
				c.Sub = schema.InsertClass(c.Sub, sub)
			}
		}
		for _, iri := range e.provider.InferredSuperclasses(c.IRI) {
			if super, ok := e.model.Class(iri); ok && iri != schema.OWLThing && super != c {
				c.Super = schema.InsertClass(c.Super, super)
			}
		}
		for _, iri := range e.provider.InferredEquivalents(c.IRI) {
			if iri != c.IRI {
				c.EquivalentExprs = schema.InsertExpr(c.EquivalentExprs, schema.NamedClass(iri))
			}
		}
		for _, iri := range e.provider.InferredDisjoints(c.IRI) {
			if iri != c.IRI && iri != schema.OWLNothing {
				c.DisjointExprs = schema.InsertExpr(c.DisjointExprs, schema.NamedClass(iri))
			}
		}
		for _, ind := range e.provider.InstancesOf(c.IRI) {
			if !containsString(c.Individuals, ind) {
				c.Individuals = append(c.Individuals, ind)
			}
		}
	}
}

// closeProperties pulls inferred property relations, then closes disjointness and
// inverses under super-properties, symmetry and equivalence
func (e *Extractor) closeProperties() {
	for _, kind := range []schema.PropertyKind{schema.DataProperty, schema.ObjectProperty} {
		props := e.propertyList(kind)

		for _, p := range props {
			for _, iri := range e.provider.InferredSubProperties(p.IRI) {
				if sub, ok := e.lookupProperty(iri, kind); ok && sub != p {
					p.Sub = schema.InsertProperty(p.Sub, sub)
				}
			}
			for _, iri := range e.provider.InferredSuperProperties(p.IRI) {
				if super, ok := e.lookupProperty(iri, kind); ok && super != p {
					p.Super = schema.InsertProperty(p.Super, super)
				}
			}
			for _, iri := range e.provider.InferredEquivalentProperties(p.IRI) {
				if eq, ok := e.lookupProperty(iri, kind); ok && eq != p {
					p.Equivalent = schema.InsertProperty(p.Equivalent, eq)
				}
			}
			if kind == schema.ObjectProperty {
				for _, iri := range e.provider.InferredInverseProperties(p.IRI) {
					if inv, ok := e.model.ObjectProperty(iri); ok {
						p.Inverse = schema.InsertProperty(p.Inverse, inv)
					}
				}
			}
		}

		visited := make(map[*schema.PropertyNode]bool, len(props))
		for _, p := range props {
			closeDisjoint(p, visited)
		}

		// Disjointness and inverses hold in both directions
		for _, p := range props {
			for _, d := range p.Disjoint {
				d.Disjoint = schema.InsertProperty(d.Disjoint, p)
			}
			for _, inv := range p.Inverse {
				inv.Inverse = schema.InsertProperty(inv.Inverse, p)
			}
		}

		for _, p := range props {
			shareAcrossEquivalents(p)
		}
	}
}

// closeDisjoint inherits the disjoint sets of super-properties and adds every
// direct disjoint property with its sub-properties
func closeDisjoint(p *schema.PropertyNode, visited map[*schema.PropertyNode]bool) {
	if visited[p] {
		return
	}
	visited[p] = true

	for _, super := range p.DirectSuper {
		closeDisjoint(super, visited)
		p.Disjoint = schema.MergeProperties(p.Disjoint, super.Disjoint)
	}
	for _, d := range p.DirectDisjoint {
		p.Disjoint = schema.InsertProperty(p.Disjoint, d)
		p.Disjoint = schema.MergeProperties(p.Disjoint, d.Sub)
	}
}

// shareAcrossEquivalents unions the disjoint and inverse sets of an equivalence class
func shareAcrossEquivalents(p *schema.PropertyNode) {
	if len(p.Equivalent) == 0 {
		return
	}

	disjoint := append([]*schema.PropertyNode(nil), p.Disjoint...)
	inverse := append([]*schema.PropertyNode(nil), p.Inverse...)
	for _, eq := range p.Equivalent {
		disjoint = schema.MergeProperties(disjoint, eq.Disjoint)
		inverse = schema.MergeProperties(inverse, eq.Inverse)
	}

	group := append([]*schema.PropertyNode{p}, p.Equivalent...)
	for _, member := range group {
		member.Disjoint = append([]*schema.PropertyNode(nil), disjoint...)
		if member.Kind == schema.ObjectProperty {
			member.Inverse = append([]*schema.PropertyNode(nil), inverse...)
			for _, inv := range inverse {
				inv.Inverse = schema.InsertProperty(inv.Inverse, member)
			}
		}
		for _, d := range disjoint {
			d.Disjoint = schema.InsertProperty(d.Disjoint, member)
		}
	}
}

// closeRestrictions computes inherited anonymous restrictions and special restrictions
func (e *Extractor) closeRestrictions() {
	visited := make(map[*schema.ClassNode]bool)
	for _, c := range e.model.Classes() {
		e.inheritRestrictions(c, visited, make(map[*schema.ClassNode]bool))
	}
	for _, c := range e.model.Classes() {
		c.SpecialRestrictions = specialRestrictions(c.AnonymousRestrictions)
	}
}

// inheritRestrictions reduces the union of the superclasses' closed sets and the
// class's own restrictions. onPath breaks cycles in told hierarchies.
func (e *Extractor) inheritRestrictions(c *schema.ClassNode, visited, onPath map[*schema.ClassNode]bool) {
	if visited[c] || onPath[c] {
		return
	}
	onPath[c] = true

	var candidates []*schema.ClassExpr
	for _, super := range c.DirectSuper {
		e.inheritRestrictions(super, visited, onPath)
		for _, r := range super.AnonymousRestrictions {
			candidates = schema.InsertExpr(candidates, r)
		}
	}
	for _, r := range c.DirectAnonymousRestrictions {
		candidates = schema.InsertExpr(candidates, r)
	}

	var selected []*schema.ClassExpr
	for _, candidate := range candidates {
		selected = Admit(e.model, selected, candidate)
	}
	c.AnonymousRestrictions = selected

	delete(onPath, c)
	visited[c] = true
}

// specialRestrictions returns the object max-cardinality and universal restrictions,
// looking one level into intersections
func specialRestrictions(restrictions []*schema.ClassExpr) []*schema.ClassExpr {
	var out []*schema.ClassExpr
	for _, r := range restrictions {
		switch r.Kind {
		case schema.ExprObjectMax, schema.ExprObjectAll:
			out = schema.InsertExpr(out, r)
		case schema.ExprIntersection:
			for _, op := range r.Operands {
				if op.Kind == schema.ExprObjectMax || op.Kind == schema.ExprObjectAll {
					out = schema.InsertExpr(out, op)
				}
			}
		}
	}
	return out
}

func containsString(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
