/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: reducer.go
Description: Restriction redundancy reducer. Admit decides whether a candidate
restriction joins a selected set and which selected members it makes redundant,
comparing restriction kind priority, fillers and the property hierarchy.
*/

package extractor

import (
	"github.com/kleascm/akaylee-ontogen/pkg/schema"
)

// priority ranks quantified restrictions. A lower number is a stronger restriction.
var priority = map[schema.ExprKind]int{
	schema.ExprObjectExact: 1,
	schema.ExprObjectMin:   2,
	schema.ExprObjectMax:   2,
	schema.ExprObjectSome:  3,
	schema.ExprObjectAll:   3,
	schema.ExprDataExact:   1,
	schema.ExprDataMin:     2,
	schema.ExprDataMax:     2,
	schema.ExprDataSome:    3,
	schema.ExprDataAll:     3,
}

type verdict int

const (
	keep verdict = iota
	drop
	reject
)

// Admit returns selected with candidate added and the members it dominates removed.
// A dominated candidate is not added; members removed before it was found to be
// dominated stay removed. The input slice is not modified.
func Admit(m *schema.Model, selected []*schema.ClassExpr, candidate *schema.ClassExpr) []*schema.ClassExpr {
	out := make([]*schema.ClassExpr, 0, len(selected)+1)
	for i, existing := range selected {
		switch compare(m, existing, candidate) {
		case drop:
			continue
		case reject:
			out = append(out, selected[i:]...)
			return out
		}
		out = append(out, existing)
	}
	return schema.InsertExpr(out, candidate)
}

// Reduce admits every candidate in order into an empty set
func Reduce(m *schema.Model, candidates []*schema.ClassExpr) []*schema.ClassExpr {
	var selected []*schema.ClassExpr
	for _, c := range candidates {
		selected = Admit(m, selected, c)
	}
	return selected
}

// compare decides the fate of existing when candidate is admitted
func compare(m *schema.Model, existing, candidate *schema.ClassExpr) verdict {
	if existing.Key() == candidate.Key() {
		return reject
	}

	sameFamily := existing.IsObjectRestriction() == candidate.IsObjectRestriction() &&
		existing.IsDataRestriction() == candidate.IsDataRestriction()
	if !sameFamily {
		return keep
	}
	kind := schema.ObjectProperty
	if candidate.IsDataRestriction() {
		kind = schema.DataProperty
	}

	target := property(m, kind, candidate.Property)
	test := property(m, kind, existing.Property)
	sameProperty := candidate.Property == existing.Property

	switch {
	case candidate.IsQuantified() && existing.IsQuantified():
		return compareQuantified(m, existing, candidate, test, target, sameProperty)

	case candidate.IsQuantified() && existing.IsHasValue():
		if sameProperty {
			return reject
		}

	case candidate.IsHasValue() && existing.IsQuantified():
		if sameProperty {
			return drop
		}

	case candidate.IsHasValue() && existing.IsHasValue():
		switch {
		case narrower(test, target):
			return drop
		case narrower(target, test):
			return reject
		case sameProperty && sameHasValue(existing, candidate):
			return reject
		}
	}
	return keep
}

func compareQuantified(m *schema.Model, existing, candidate *schema.ClassExpr, test, target *schema.PropertyNode, sameProperty bool) verdict {
	sameFiller := fillerKey(existing) == fillerKey(candidate)

	if existing.Kind == candidate.Kind {
		if sameFiller {
			switch {
			case narrower(test, target):
				return drop
			case narrower(target, test):
				return reject
			}
			return keep
		}

		if !candidate.IsObjectRestriction() || candidate.Filler.IsAnonymous() || existing.Filler.IsAnonymous() {
			return keep
		}
		targetClass, ok1 := m.Class(candidate.Filler.Class)
		testClass, ok2 := m.Class(existing.Filler.Class)
		if !ok1 || !ok2 {
			return keep
		}
		switch {
		case schema.ContainsClass(targetClass.Sub, testClass):
			if narrower(target, test) || sameProperty {
				return reject
			}
		case schema.ContainsClass(testClass.Sub, targetClass):
			if narrower(test, target) || sameProperty {
				return drop
			}
		}
		return keep
	}

	if !sameFiller {
		return keep
	}
	switch {
	case priority[existing.Kind] > priority[candidate.Kind]:
		if sameProperty || narrower(test, target) {
			return drop
		}
	case priority[existing.Kind] < priority[candidate.Kind]:
		if sameProperty || narrower(target, test) {
			return reject
		}
	}
	return keep
}

// narrower reports whether q is a strict sub-property of p
func narrower(p, q *schema.PropertyNode) bool {
	if p == nil || q == nil {
		return false
	}
	return p.HasSub(q)
}

func property(m *schema.Model, kind schema.PropertyKind, iri string) *schema.PropertyNode {
	var p *schema.PropertyNode
	if kind == schema.DataProperty {
		p, _ = m.DataProperty(iri)
	} else {
		p, _ = m.ObjectProperty(iri)
	}
	return p
}

func fillerKey(e *schema.ClassExpr) string {
	if e.IsDataRestriction() {
		return e.Range.Key()
	}
	return e.Filler.Key()
}

func sameHasValue(a, b *schema.ClassExpr) bool {
	if a.Kind == schema.ExprDataHasValue {
		return a.Literal.Key() == b.Literal.Key()
	}
	return a.Value == b.Value
}
