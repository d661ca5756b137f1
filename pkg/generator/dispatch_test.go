/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: dispatch_test.go
Description: Tests for class expression dispatch: cardinality-aware linking through
special restrictions, equivalent classes, range bindings, boolean and enumerated
expressions, value and self restrictions, repetition bounds and unsupported
expressions.
*/

package generator_test

import (
	"context"
	"sort"
	"strings"
	"testing"

	"github.com/kleascm/akaylee-ontogen/pkg/assertions"
	"github.com/kleascm/akaylee-ontogen/pkg/generator"
	"github.com/kleascm/akaylee-ontogen/pkg/schema"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const boundedPartsDoc = `
iri: http://example.org/gen
classes:
  Wheel:
    subClassOf: [{property: partOf, some: Car}]
  Car:
    subClassOf: [{property: hasPart, max: 4, of: Wheel}]
objectProperties:
  partOf:
    inverseOf: [hasPart]
  hasPart: {}
`

const universalPartsDoc = `
iri: http://example.org/gen
classes:
  Wheel:
    subClassOf: [{property: partOf, some: Car}]
  Car:
    subClassOf: [{property: hasPart, only: Wheel}]
objectProperties:
  partOf:
    inverseOf: [hasPart]
  hasPart: {}
`

const bindingsDoc = `
iri: http://example.org/gen
classes:
  Bound: {}
  Place: {}
objectProperties:
  near:
    domain: [Bound]
    range: Place
dataProperties:
  size:
    domain: [Bound]
    range: {datatype: xsd:integer, minInclusive: 1, maxInclusive: 9}
`

const expressionsDoc = `
iri: http://example.org/gen
classes:
  Leaf: {}
  Branch: {}
  Alt:
    equivalentTo: [{property: near, some: Leaf}]
  Mixed:
    subClassOf: [{and: [Leaf, Branch]}]
  Either:
    subClassOf: [{or: [Leaf, Branch]}]
  Named:
    subClassOf: [{oneOf: [alpha, beta]}]
  Other:
    subClassOf: [{not: Leaf}]
  Unmatched:
    subClassOf: [{not: Branch}]
  Valued:
    subClassOf:
      - {property: near, value: alpha}
      - {property: size, value: 7}
  Looped:
    subClassOf: [{property: touches, self: true}]
  Many:
    subClassOf: [{property: near, min: 2, of: {and: [Leaf]}}]
  Few:
    subClassOf: [{property: near, max: 2, of: {and: [Leaf]}}]
  Exact:
    subClassOf: [{property: near, exactly: 3, of: {and: [Leaf]}}]
  Odd:
    subClassOf: [{not: {property: near, some: Leaf}}]
objectProperties:
  near: {}
  touches:
    characteristics: [irreflexive]
dataProperties:
  size: {}
individuals:
  alpha: [Leaf]
`

// instancesOf returns the individuals asserted into class, in assertion order
func instancesOf(result *generator.Result, class string) []string {
	var out []string
	for _, a := range result.Set.Filter(assertions.ClassAssertion) {
		if a.Predicate == ns+class {
			out = append(out, a.Subject)
		}
	}
	return out
}

// linksFrom returns the objects subject reaches through property
func linksFrom(result *generator.Result, property, subject string) []string {
	var out []string
	for _, a := range result.Set.Filter(assertions.ObjectPropertyAssertion) {
		if a.Predicate == ns+property && a.Subject == subject {
			out = append(out, a.Object)
		}
	}
	return out
}

// typesOf returns the classes ind is asserted into
func typesOf(result *generator.Result, ind string) map[string]bool {
	out := make(map[string]bool)
	for _, a := range result.Set.Filter(assertions.ClassAssertion) {
		if a.Subject == ind {
			out[strings.TrimPrefix(a.Predicate, ns)] = true
		}
	}
	return out
}

// TestGenerateMaxCardinality tests that shared fillers respect a max cardinality
// on the inverse property
func TestGenerateMaxCardinality(t *testing.T) {
	m := model(t, boundedPartsDoc)
	result := generate(t, m, certain(10), "Wheel")

	wheels := make(map[string]map[string]bool)
	for _, a := range result.Set.Filter(assertions.ObjectPropertyAssertion) {
		car, wheel := a.Object, a.Subject
		if a.Predicate == ns+"hasPart" {
			car, wheel = a.Subject, a.Object
		}
		if wheels[car] == nil {
			wheels[car] = make(map[string]bool)
		}
		wheels[car][wheel] = true
	}

	cars := make([]string, 0, len(wheels))
	for car := range wheels {
		cars = append(cars, car)
	}
	sort.Strings(cars)

	counts := make([]int, len(cars))
	for i, car := range cars {
		assert.True(t, strings.HasSuffix(car, "#Car_instance"+string(rune('0'+i))), car)
		assert.LessOrEqual(t, len(wheels[car]), 4)
		counts[i] = len(wheels[car])
	}
	assert.Equal(t, []int{4, 4, 2}, counts)
	assert.Len(t, instancesOf(result, "Car"), 3)
	assert.Len(t, instancesOf(result, "Wheel"), 10)
}

// TestGenerateUniversalReuse tests that a universal restriction on the inverse
// property links every subject to one shared filler individual
func TestGenerateUniversalReuse(t *testing.T) {
	m := model(t, universalPartsDoc)
	result := generate(t, m, certain(10), "Wheel")

	cars := instancesOf(result, "Car")
	require.Len(t, cars, 1)
	for _, wheel := range instancesOf(result, "Wheel") {
		assert.Equal(t, cars, linksFrom(result, "partOf", wheel))
		assert.Contains(t, linksFrom(result, "hasPart", cars[0]), wheel)
	}
}

// TestGenerateSharedFillerClassAssertion tests that a filler minted for a special
// restriction is typed under the class assertion probability
func TestGenerateSharedFillerClassAssertion(t *testing.T) {
	m := model(t, boundedPartsDoc)
	cfg := certain(10)
	cfg.ClassAssertion = 0

	result := generate(t, m, cfg, "Wheel")

	assert.Empty(t, instancesOf(result, "Car"))
	assert.Len(t, instancesOf(result, "Wheel"), 10)
	for _, wheel := range instancesOf(result, "Wheel") {
		links := linksFrom(result, "partOf", wheel)
		require.Len(t, links, 1)
		assert.Contains(t, links[0], "#Car_instance")
	}
}

// TestGenerateEquivalentClass tests that a class described by an equivalent
// expression applies that expression
func TestGenerateEquivalentClass(t *testing.T) {
	m := model(t, expressionsDoc)
	result := generate(t, m, certain(3), "Alt")

	alts := instancesOf(result, "Alt")
	require.Len(t, alts, 3)
	for _, alt := range alts {
		links := linksFrom(result, "near", alt)
		require.Len(t, links, 1)
		assert.True(t, typesOf(result, links[0])["Leaf"], links[0])
	}
}

// TestGenerateBindings tests that classes without restrictions are described
// through the ranges of properties declaring them as domain
func TestGenerateBindings(t *testing.T) {
	m := model(t, bindingsDoc)
	result := generate(t, m, certain(20), "Bound")

	links := result.Set.Filter(assertions.ObjectPropertyAssertion)
	values := result.Set.Filter(assertions.DataPropertyAssertion)
	require.NotEmpty(t, links)
	require.NotEmpty(t, values)

	for _, a := range links {
		assert.Equal(t, ns+"near", a.Predicate)
		assert.True(t, typesOf(result, a.Subject)["Bound"], a.Subject)
		assert.True(t, typesOf(result, a.Object)["Place"], a.Object)
	}
	for _, a := range values {
		assert.Equal(t, ns+"size", a.Predicate)
		assert.True(t, typesOf(result, a.Subject)["Bound"], a.Subject)
		assert.Equal(t, schema.XSDInteger, a.Literal.Datatype)
		assert.Regexp(t, `^[1-9]$`, a.Literal.Value)
	}
}

// TestGenerateBooleanExpressions tests intersection and union operands
func TestGenerateBooleanExpressions(t *testing.T) {
	m := model(t, expressionsDoc)

	t.Run("intersection", func(t *testing.T) {
		result := generate(t, m, certain(20), "Mixed")
		typed := 0
		for _, ind := range instancesOf(result, "Mixed") {
			types := typesOf(result, ind)
			for class := range types {
				assert.Contains(t, []string{"Mixed", "Leaf", "Branch"}, class)
			}
			if types["Leaf"] || types["Branch"] {
				typed++
			}
		}
		assert.Positive(t, typed)
	})

	t.Run("union", func(t *testing.T) {
		result := generate(t, m, certain(20), "Either")
		for _, ind := range instancesOf(result, "Either") {
			types := typesOf(result, ind)
			assert.True(t, types["Leaf"] != types["Branch"], "%s must take exactly one operand", ind)
		}
	})
}

// TestGenerateEnumeration tests that enumerated classes equate the subject with a member
func TestGenerateEnumeration(t *testing.T) {
	m := model(t, expressionsDoc)
	result := generate(t, m, certain(5), "Named")

	same := result.Set.Filter(assertions.SameIndividual)
	require.Len(t, same, 5)
	named := instancesOf(result, "Named")
	for i, a := range same {
		assert.Equal(t, named[i], a.Subject)
		assert.Contains(t, []string{ns + "alpha", ns + "beta"}, a.Object)
	}
}

// TestGenerateComplement tests that a complement separates the subject from an
// existing individual of the operand, when there is one
func TestGenerateComplement(t *testing.T) {
	m := model(t, expressionsDoc)

	result := generate(t, m, certain(3), "Other")
	different := result.Set.Filter(assertions.DifferentIndividuals)
	require.Len(t, different, 3)
	for i, a := range different {
		assert.Equal(t, ns+"alpha", a.Subject)
		assert.Equal(t, instancesOf(result, "Other")[i], a.Object)
	}

	result = generate(t, m, certain(3), "Unmatched")
	assert.Empty(t, result.Set.Filter(assertions.DifferentIndividuals))
}

// TestGenerateValueRestrictions tests object and data value restrictions
func TestGenerateValueRestrictions(t *testing.T) {
	m := model(t, expressionsDoc)
	result := generate(t, m, certain(2), "Valued")

	for _, ind := range instancesOf(result, "Valued") {
		assert.True(t, result.Set.Contains(assertions.Object(ns+"near", ind, ns+"alpha")))
		assert.True(t, result.Set.Contains(assertions.Data(ns+"size", ind, schema.Literal{Value: "7", Datatype: schema.XSDInteger})))
	}
}

// TestGenerateSelfRestriction tests that a self restriction on an irreflexive
// property yields only the negative self assertion
func TestGenerateSelfRestriction(t *testing.T) {
	m := model(t, expressionsDoc)
	result := generate(t, m, certain(2), "Looped")

	assert.Empty(t, result.Set.Filter(assertions.ObjectPropertyAssertion))
	for _, ind := range instancesOf(result, "Looped") {
		assert.True(t, result.Set.Contains(assertions.NegativeObject(ns+"touches", ind, ind)))
	}
}

// TestGenerateCardinalityRepetitions tests the repetition bounds of min, max and
// exact cardinality restrictions
func TestGenerateCardinalityRepetitions(t *testing.T) {
	m := model(t, expressionsDoc)

	tests := []struct {
		root     string
		min, max int
	}{
		{"Many", 2, 3},
		{"Few", 0, 2},
		{"Exact", 3, 3},
	}
	for _, tt := range tests {
		t.Run(tt.root, func(t *testing.T) {
			result := generate(t, m, certain(20), tt.root)
			inds := instancesOf(result, tt.root)
			require.Len(t, inds, 20)
			for _, ind := range inds {
				n := len(linksFrom(result, "near", ind))
				assert.GreaterOrEqual(t, n, tt.min, ind)
				assert.LessOrEqual(t, n, tt.max, ind)
			}
		})
	}
}

// TestGenerateUnsupportedExpression tests that the complement of an anonymous
// expression is reported and skipped
func TestGenerateUnsupportedExpression(t *testing.T) {
	m := model(t, expressionsDoc)
	logger, hook := test.NewNullLogger()
	reporter := &recordingReporter{}
	engine := generator.NewEngine(m, certain(3), logger)
	engine.AddReporter(reporter)

	result, err := engine.Generate(context.Background(), ns+"Odd")
	require.NoError(t, err)

	assert.Equal(t, []string{
		generator.WarnUnsupportedExpression,
		generator.WarnUnsupportedExpression,
		generator.WarnUnsupportedExpression,
	}, reporter.warnings)
	assert.Equal(t, int64(3), result.Stats.Warnings)
	assert.Empty(t, result.Set.Filter(assertions.ObjectPropertyAssertion))
	assert.Len(t, result.Set.Filter(assertions.ClassAssertion), 3)

	var warned bool
	for _, entry := range hook.AllEntries() {
		if entry.Data["warning"] == generator.WarnUnsupportedExpression {
			warned = true
		}
	}
	assert.True(t, warned)
}
