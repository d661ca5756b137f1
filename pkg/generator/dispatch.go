/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: dispatch.go
Description: Class expression dispatch. Turns one restriction or boolean class
expression on a subject individual into assertions, recursing into fillers and
consulting special restrictions for cardinality-aware linking.
*/

package generator

import (
	"github.com/kleascm/akaylee-ontogen/pkg/assertions"
	"github.com/kleascm/akaylee-ontogen/pkg/schema"
	"github.com/sirupsen/logrus"
)

// dispatch applies e to ind. origin is the named class the expression came from,
// or nil for fillers of anonymous individuals.
func (s *scope) dispatch(e *schema.ClassExpr, ind string, origin *schema.ClassNode) error {
	switch e.Kind {
	case schema.ExprClass:
		if c, ok := s.model.Class(e.Class); ok {
			s.assertClass(ind, c)
		}
		return nil

	case schema.ExprIntersection:
		subset := randomSubset(s.rng, len(e.Operands), s.powerSets)
		operands := make([]*schema.ClassExpr, 0, len(subset))
		for _, i := range subset {
			operands = append(operands, e.Operands[i])
		}
		return s.boolean(operands, ind, origin)

	case schema.ExprUnion:
		if len(e.Operands) == 0 {
			return nil
		}
		return s.boolean([]*schema.ClassExpr{randomElement(s.rng, e.Operands)}, ind, origin)

	case schema.ExprComplement:
		s.complement(e.Operands[0], ind)
		return nil

	case schema.ExprOneOf:
		if len(e.Individuals) > 0 {
			if other := randomElement(s.rng, e.Individuals); other != ind {
				s.set.Add(assertions.Same(ind, other))
			}
		}
		return nil

	case schema.ExprObjectSome, schema.ExprObjectAll:
		return s.objectSome(e, ind, origin)

	case schema.ExprObjectHasValue:
		if s.rng.Float64() < s.config.ObjectPropertyAssertion {
			if p, ok := s.objectProperty(e.Property); ok {
				s.guard.AssertObjectProperty(p, ind, e.Value)
			}
		}
		return nil

	case schema.ExprObjectHasSelf:
		if s.rng.Float64() < s.config.ObjectPropertyAssertion {
			if p, ok := s.objectProperty(e.Property); ok {
				s.guard.AssertObjectProperty(p, ind, ind)
			}
		}
		return nil

	case schema.ExprObjectMin, schema.ExprObjectMax, schema.ExprObjectExact:
		n, err := s.repetitions(e)
		if err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			if err := s.objectSome(e, ind, origin); err != nil {
				return err
			}
		}
		return nil

	case schema.ExprDataSome, schema.ExprDataAll:
		return s.dataSome(e, ind, true)

	case schema.ExprDataHasValue:
		if s.rng.Float64() < s.config.DataPropertyAssertion {
			if p, ok := s.dataProperty(e.Property); ok {
				s.guard.AssertDataProperty(p, ind, e.Literal)
			}
		}
		return nil

	case schema.ExprDataMin, schema.ExprDataMax, schema.ExprDataExact:
		n, err := s.repetitions(e)
		if err != nil {
			return err
		}
		gated := e.Kind != schema.ExprDataExact
		for i := 0; i < n; i++ {
			if err := s.dataSome(e, ind, gated); err != nil {
				return err
			}
		}
		return nil

	default:
		s.warn(WarnUnsupportedExpression, "Class expression is not supported and will be ignored", logrus.Fields{
			"kind": e.Kind.String(),
		})
		return nil
	}
}

// repetitions draws how often a cardinality restriction is applied
func (s *scope) repetitions(e *schema.ClassExpr) (int, error) {
	n := e.Cardinality
	switch e.Kind {
	case schema.ExprObjectMin, schema.ExprDataMin:
		return RandomInt(s.rng, n, 2*n)
	case schema.ExprObjectMax, schema.ExprDataMax:
		return RandomInt(s.rng, 0, n+1)
	default:
		return n, nil
	}
}

// boolean applies the selected operands of an intersection or union
func (s *scope) boolean(operands []*schema.ClassExpr, ind string, origin *schema.ClassNode) error {
	for _, op := range operands {
		if origin != nil && origin.IsDisjointWith(op) {
			continue
		}
		if op.IsAnonymous() {
			if err := s.dispatch(op, ind, origin); err != nil {
				return err
			}
			continue
		}
		c, ok := s.model.Class(op.Class)
		if !ok {
			continue
		}
		if s.root.Covers(c) {
			return nil
		}
		if origin == nil {
			origin = c
		}
		s.assertClass(ind, c)
	}
	return nil
}

// complement states that ind differs from an individual of a named operand
func (s *scope) complement(op *schema.ClassExpr, ind string) {
	if op.IsAnonymous() {
		s.warn(WarnUnsupportedExpression, "Complement of an anonymous class is not supported and will be ignored", logrus.Fields{
			"kind": op.Kind.String(),
		})
		return
	}
	c, ok := s.model.Class(op.Class)
	if !ok {
		return
	}
	list := s.instancesOf(c)
	if len(list) == 0 {
		return
	}
	if other := randomElement(s.rng, list); other != ind {
		s.set.Add(assertions.Different(other, ind))
	}
}

// objectSome links ind through the restricted property to an individual of the filler
func (s *scope) objectSome(e *schema.ClassExpr, ind string, origin *schema.ClassNode) error {
	if s.rng.Float64() >= s.config.ObjectPropertyAssertion {
		return nil
	}
	p, ok := s.objectProperty(e.Property)
	if !ok {
		return nil
	}

	if e.Filler.IsAnonymous() {
		target := s.mintAnonymous()
		if err := s.dispatch(e.Filler, target, nil); err != nil {
			return err
		}
		s.guard.AssertObjectProperty(p, ind, target)
		return nil
	}

	filler, ok := s.model.Class(e.Filler.Class)
	if !ok {
		return nil
	}

	if s.root.Covers(filler) {
		if list := s.firstInstances(filler); len(list) > 0 {
			s.guard.AssertObjectProperty(p, ind, randomElement(s.rng, list))
		}
		return nil
	}

	target := s.special(p, filler, ind, origin)
	if target == "" {
		var err error
		if target, err = s.descend(filler, false); err != nil {
			return err
		}
	}
	if target != "" {
		s.guard.AssertObjectProperty(p, ind, target)
	}
	return nil
}

// special picks the target of p from the special restrictions of filler ∪ sub(filler).
// A restriction applies when its property is an inverse of p and its filler covers origin.
func (s *scope) special(p *schema.PropertyNode, filler *schema.ClassNode, ind string, origin *schema.ClassNode) string {
	if origin == nil {
		return ""
	}
	for _, c := range filler.SubOrSelf() {
		for _, r := range c.SpecialRestrictions {
			q, ok := s.model.ObjectProperty(r.Property)
			if !ok || !schema.ContainsProperty(q.Inverse, p) || r.Filler.IsAnonymous() {
				continue
			}
			bound, ok := s.model.Class(r.Filler.Class)
			if !ok || !bound.Covers(origin) {
				continue
			}

			switch r.Kind {
			case schema.ExprObjectMax:
				for _, candidate := range s.instancesOf(c) {
					if s.edges(q, candidate, bound, ind, r.Cardinality) < r.Cardinality {
						return candidate
					}
				}
			case schema.ExprObjectAll:
				if list := s.instancesOf(c); len(list) > 0 {
					return randomElement(s.rng, list)
				}
			default:
				continue
			}

			target := s.mint(c)
			s.visited[c] = true
			s.assertClass(target, c)
			return target
		}
	}
	return ""
}

// edges counts individuals of bound ∪ sub(bound), other than ind, that candidate
// already reaches through q, stopping at limit
func (s *scope) edges(q *schema.PropertyNode, candidate string, bound *schema.ClassNode, ind string, limit int) int {
	count := 0
	seen := make(map[string]bool)
	for _, c := range bound.SubOrSelf() {
		for _, other := range s.instancesOf(c) {
			if other == ind || seen[other] {
				continue
			}
			seen[other] = true
			if s.guard.HasRelevantObject(q, candidate, other) {
				count++
				if count >= limit {
					return count
				}
			}
		}
	}
	return count
}

// dataSome samples a literal from the restriction's range and asserts it on ind
func (s *scope) dataSome(e *schema.ClassExpr, ind string, gated bool) error {
	if gated && s.rng.Float64() >= s.config.DataPropertyAssertion {
		return nil
	}
	p, ok := s.dataProperty(e.Property)
	if !ok {
		return nil
	}
	return s.assertRange(ind, p, e.Range)
}
