/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: coverage.go
Description: Space coverage evaluation of generated datasets. Collects the target
signature reachable from a root class, counts how often generated assertions use
each target class and property, and summarizes the counts as distribution and
coverage metrics.
*/

package coverage

import (
	"math"
	"sort"

	"github.com/kleascm/akaylee-ontogen/pkg/assertions"
	"github.com/kleascm/akaylee-ontogen/pkg/schema"
	"github.com/sirupsen/logrus"
)

// Count is the number of assertions using one schema element
type Count struct {
	IRI   string `json:"iri"`
	Count int    `json:"count"`
}

// Report holds the outcome of a coverage evaluation
type Report struct {
	Root string `json:"root"`

	Classes          []Count  `json:"classes"`            // Target classes with their counts
	NonTargetClasses []string `json:"non_target_classes"` // Classes used outside the target signature
	TotalClasses     int      `json:"total_classes"`      // Classes in the model

	ObjectProperties          []Count  `json:"object_properties"`
	NonTargetObjectProperties []string `json:"non_target_object_properties"`
	TotalObjectProperties     int      `json:"total_object_properties"`

	DataProperties          []Count  `json:"data_properties"`
	NonTargetDataProperties []string `json:"non_target_data_properties"`
	TotalDataProperties     int      `json:"total_data_properties"`

	DIPC float64 `json:"dipc"` // Distribution of individuals per class
	DDP  float64 `json:"ddp"`  // Distribution of data properties
	DOP  float64 `json:"dop"`  // Distribution of object properties
	CC   float64 `json:"cc"`   // Class coverage
	DPC  float64 `json:"dpc"`  // Data property coverage
	OPC  float64 `json:"opc"`  // Object property coverage
}

// Evaluator computes space coverage over a conceptual model
type Evaluator struct {
	model  *schema.Model
	logger *logrus.Entry

	classes map[string]int
	objects map[string]int
	data    map[string]int
	seen    map[string]bool
}

// NewEvaluator creates an evaluator for model
func NewEvaluator(model *schema.Model, logger *logrus.Logger) *Evaluator {
	if logger == nil {
		logger = logrus.New()
	}
	return &Evaluator{
		model:  model,
		logger: logger.WithField("component", "coverage"),
	}
}

// Evaluate counts how the assertions in set cover the signature reachable from root
func (e *Evaluator) Evaluate(root *schema.ClassNode, set *assertions.Set) *Report {
	e.classes = make(map[string]int)
	e.objects = make(map[string]int)
	e.data = make(map[string]int)
	e.seen = make(map[string]bool)

	e.logger.WithField("root", root.IRI).Info("Begin evaluating space coverage of datasets")
	e.visitClass(root)

	nonClasses := make(map[string]bool)
	nonObjects := make(map[string]bool)
	nonData := make(map[string]bool)
	for _, a := range set.All() {
		switch a.Kind {
		case assertions.ClassAssertion:
			hit(e.classes, nonClasses, a.Predicate)
		case assertions.ObjectPropertyAssertion, assertions.NegativeObjectPropertyAssertion:
			hit(e.objects, nonObjects, a.Predicate)
		case assertions.DataPropertyAssertion, assertions.NegativeDataPropertyAssertion:
			hit(e.data, nonData, a.Predicate)
		}
	}

	report := &Report{
		Root:                      root.IRI,
		Classes:                   counts(e.classes),
		NonTargetClasses:          keys(nonClasses),
		TotalClasses:              len(e.model.Classes()),
		ObjectProperties:          counts(e.objects),
		NonTargetObjectProperties: keys(nonObjects),
		TotalObjectProperties:     len(e.model.ObjectProperties()),
		DataProperties:            counts(e.data),
		NonTargetDataProperties:   keys(nonData),
		TotalDataProperties:       len(e.model.DataProperties()),
	}
	report.DIPC = NormalizedStdDev(values(report.Classes))
	report.DDP = NormalizedStdDev(values(report.DataProperties))
	report.DOP = NormalizedStdDev(values(report.ObjectProperties))
	report.CC = SpaceCoverage(values(report.Classes))
	report.DPC = SpaceCoverage(values(report.DataProperties))
	report.OPC = SpaceCoverage(values(report.ObjectProperties))

	e.logger.WithFields(logrus.Fields{
		"classes":           len(report.Classes),
		"object_properties": len(report.ObjectProperties),
		"data_properties":   len(report.DataProperties),
		"cc":                report.CC,
	}).Info("Space coverage evaluated")
	return report
}

func (e *Evaluator) visitClass(c *schema.ClassNode) {
	if c == nil || schema.IsTopOrBottom(c.IRI) || e.once("class:"+c.IRI) {
		return
	}
	e.classes[c.IRI] = 0

	for _, sub := range c.Sub {
		e.visitClass(sub)
	}
	for _, sup := range c.Super {
		e.visitClass(sup)
	}
	for _, x := range c.EquivalentExprs {
		e.visitExpr(x)
	}
	for _, x := range c.DisjointExprs {
		e.visitExpr(x)
	}
	for _, x := range c.AnonymousRestrictions {
		e.visitExpr(x)
	}
	for _, b := range c.ObjectBindings {
		e.visitProperty(b.Property)
		e.visitExpr(b.Range)
	}
	for _, b := range c.DataBindings {
		e.visitProperty(b.Property)
	}
}

func (e *Evaluator) visitExpr(x *schema.ClassExpr) {
	if x == nil || e.once("expr:"+x.Key()) {
		return
	}
	switch {
	case x.Kind == schema.ExprClass:
		if c, ok := e.model.Class(x.Class); ok {
			e.visitClass(c)
		}
	case x.Kind == schema.ExprIntersection, x.Kind == schema.ExprUnion, x.Kind == schema.ExprComplement:
		for _, op := range x.Operands {
			e.visitExpr(op)
		}
	case x.IsObjectRestriction():
		if p, ok := e.model.ObjectProperty(x.Property); ok {
			e.visitProperty(p)
		}
		e.visitExpr(x.Filler)
	case x.IsDataRestriction():
		if p, ok := e.model.DataProperty(x.Property); ok {
			e.visitProperty(p)
		}
	}
}

func (e *Evaluator) visitProperty(p *schema.PropertyNode) {
	if p == nil || schema.IsTopOrBottom(p.IRI) || e.once(p.Kind.String()+":"+p.IRI) {
		return
	}
	if p.Kind == schema.DataProperty {
		e.data[p.IRI] = 0
	} else {
		e.objects[p.IRI] = 0
	}
	for _, related := range [][]*schema.PropertyNode{p.Sub, p.Super, p.Equivalent, p.Disjoint, p.Inverse} {
		for _, q := range related {
			e.visitProperty(q)
		}
	}
}

// once reports whether key was already visited and marks it
func (e *Evaluator) once(key string) bool {
	if e.seen[key] {
		return true
	}
	e.seen[key] = true
	return false
}

func hit(targets map[string]int, others map[string]bool, iri string) {
	if _, ok := targets[iri]; ok {
		targets[iri]++
		return
	}
	others[iri] = true
}

func counts(m map[string]int) []Count {
	out := make([]Count, 0, len(m))
	for iri, n := range m {
		out = append(out, Count{IRI: iri, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IRI < out[j].IRI })
	return out
}

func keys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func values(list []Count) []int {
	out := make([]int, len(list))
	for i, c := range list {
		out[i] = c.Count
	}
	return out
}

// NormalizedStdDev returns the standard deviation of counts normalized to a
// distribution, measured against the uniform distribution. Empty or all-zero
// counts yield 0.
func NormalizedStdDev(counts []int) float64 {
	if len(counts) == 0 {
		return 0
	}
	sum := 0
	for _, n := range counts {
		sum += n
	}
	if sum == 0 {
		return 0
	}
	uniform := 1 / float64(len(counts))
	variance := 0.0
	for _, n := range counts {
		d := float64(n)/float64(sum) - uniform
		variance += d * d
	}
	return math.Sqrt(variance / float64(len(counts)))
}

// SpaceCoverage returns the share of non-zero counts. Empty counts yield 1.
func SpaceCoverage(counts []int) float64 {
	if len(counts) == 0 {
		return 1
	}
	hits := 0
	for _, n := range counts {
		if n != 0 {
			hits++
		}
	}
	return float64(hits) / float64(len(counts))
}
