/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: descend.go
Description: Recursive descent from a class. Reuses or mints an individual for the
class or one of its subclasses and then applies the class's equivalent expressions,
inherited anonymous restrictions or property range bindings.
*/

package generator

import (
	"github.com/kleascm/akaylee-ontogen/pkg/assertions"
	"github.com/kleascm/akaylee-ontogen/pkg/schema"
	"github.com/sirupsen/logrus"
)

// descend returns an individual for c, creating and describing one if needed.
// An empty result means no individual could be provided.
func (s *scope) descend(c *schema.ClassNode, isRoot bool) (string, error) {
	if c == nil {
		return "", nil
	}
	if s.depth >= s.config.MaxDepth {
		s.warn(WarnMaxDepth, "Maximum recursion depth reached", logrus.Fields{
			"class": c.IRI,
			"depth": s.depth,
		})
		return "", nil
	}
	s.depth++
	defer func() { s.depth-- }()

	candidates := c.SubOrSelf()

	// Reuse the latest individual of a class already described in this description
	for _, sub := range candidates {
		if s.visited[sub] {
			list := s.instancesOf(sub)
			return list[len(list)-1], nil
		}
	}

	// Root subtree classes are only linked to, never expanded again
	if !isRoot && s.root.Covers(c) {
		if list := s.firstInstances(c); len(list) > 0 {
			return randomElement(s.rng, list), nil
		}
		return "", nil
	}

	selected := randomElement(s.rng, candidates)
	if !isRoot && s.rng.Float64() < 1-s.config.NewIndividual {
		if list := s.instancesOf(selected); len(list) > 0 {
			return randomElement(s.rng, list), nil
		}
	}

	ind := s.mint(selected)
	s.visited[selected] = true
	s.logger.WithFields(logrus.Fields{
		"class":      selected.IRI,
		"individual": ind,
	}).Debug("Created individual")

	if isRoot {
		s.set.Add(assertions.Class(selected.IRI, ind))
		s.assertSuper(ind, selected)
	} else {
		s.assertClass(ind, selected)
	}

	if err := s.describe(ind, selected); err != nil {
		return "", err
	}
	return ind, nil
}

// describe applies the constraints of c to ind
func (s *scope) describe(ind string, c *schema.ClassNode) error {
	switch {
	case len(c.EquivalentExprs) > 0:
		e := randomElement(s.rng, c.EquivalentExprs)
		if e.IsAnonymous() {
			return s.dispatch(e, ind, c)
		}
		if eq, ok := s.model.Class(e.Class); ok {
			s.assertClass(ind, eq)
		}
		return nil

	case len(c.AnonymousRestrictions) > 0:
		for _, e := range c.AnonymousRestrictions {
			if s.rng.Float64() < s.config.ClassConstraintSelection {
				if err := s.dispatch(e, ind, c); err != nil {
					return err
				}
			}
		}
		return nil

	default:
		return s.bind(ind, c)
	}
}

// bind applies a random subset of the data bindings and of the object bindings of c
func (s *scope) bind(ind string, c *schema.ClassNode) error {
	for _, i := range randomSubset(s.rng, len(c.DataBindings), s.powerSets) {
		b := c.DataBindings[i]
		if s.rng.Float64() < s.config.DataPropertyAssertion {
			if err := s.assertRange(ind, b.Property, b.Range); err != nil {
				return err
			}
		}
	}

	for _, i := range randomSubset(s.rng, len(c.ObjectBindings), s.powerSets) {
		b := c.ObjectBindings[i]
		if s.rng.Float64() >= s.config.ObjectPropertyAssertion {
			continue
		}
		if b.Range.IsAnonymous() {
			target := s.mintAnonymous()
			s.guard.AssertObjectProperty(b.Property, ind, target)
			if err := s.dispatch(b.Range, target, nil); err != nil {
				return err
			}
			continue
		}
		rangeClass, ok := s.model.Class(b.Range.Class)
		if !ok {
			continue
		}
		target, err := s.descend(rangeClass, false)
		if err != nil {
			return err
		}
		if target != "" {
			s.guard.AssertObjectProperty(b.Property, ind, target)
		}
	}
	return nil
}
