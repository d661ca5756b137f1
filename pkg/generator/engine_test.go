/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: engine_test.go
Description: Tests for the generation engine: minimal runs, restriction and binding
descent, inverse and characteristic handling, reproducibility in sequential and
parallel mode, disjointness soundness and run errors.
*/

package generator_test

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"testing"

	"github.com/kleascm/akaylee-ontogen/pkg/assertions"
	"github.com/kleascm/akaylee-ontogen/pkg/config"
	"github.com/kleascm/akaylee-ontogen/pkg/extractor"
	"github.com/kleascm/akaylee-ontogen/pkg/generator"
	"github.com/kleascm/akaylee-ontogen/pkg/provider"
	"github.com/kleascm/akaylee-ontogen/pkg/schema"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

const ns = "http://example.org/gen#"

const sensorOnlyDoc = `
iri: http://example.org/gen
classes:
  Sensor: {}
`

const unitsDoc = `
iri: http://example.org/gen
classes:
  Sensor:
    subClassOf: [{property: hasUnit, some: Unit}]
    disjointWith: [Actuator]
  Actuator: {}
  Unit: {}
objectProperties:
  hasUnit: {}
`

const partsDoc = `
iri: http://example.org/gen
classes:
  Wheel:
    subClassOf: [{property: partOf, some: Car}]
  Car: {}
objectProperties:
  partOf:
    inverseOf: [hasPart]
  hasPart: {}
`

const networkDoc = `
iri: http://example.org/gen
classes:
  Node:
    subClassOf:
      - {property: connectsTo, some: Node}
      - {property: linkedTo, some: Peer}
  Peer:
    subClassOf: [{property: parentOf, some: Peer}]
objectProperties:
  connectsTo:
    characteristics: [symmetric, irreflexive]
  linkedTo:
    inverseOf: [linkedFrom]
    disjointWith: [blocks]
  linkedFrom: {}
  blocks: {}
  parentOf:
    characteristics: [asymmetric]
`

const devicesDoc = `
iri: http://example.org/gen
classes:
  Device: {}
  Sensor:
    subClassOf: [Device]
    disjointWith: [Actuator]
  Actuator:
    subClassOf: [Device]
  Controller:
    subClassOf:
      - {property: controls, some: Device}
      - {property: hasSetpoint, some: {datatype: xsd:integer, minInclusive: 0, maxInclusive: 100}}
objectProperties:
  controls: {}
dataProperties:
  hasSetpoint: {}
`

func model(t testing.TB, text string) *schema.Model {
	t.Helper()
	doc, err := provider.ParseDocument([]byte(text), "gen.yaml")
	require.NoError(t, err)
	p, err := provider.NewDocumentProvider(doc)
	require.NoError(t, err)
	logger, _ := test.NewNullLogger()
	m, err := extractor.New(p, logger).Run()
	require.NoError(t, err)
	return m
}

// certain returns a device-mode config in which every probability is 1
func certain(count int) *config.GenerationConfig {
	cfg := config.Default(config.ModeDevice)
	cfg.Count = count
	for _, f := range cfg.Fields() {
		*f.Value = 1
	}
	return cfg
}

func generate(t testing.TB, m *schema.Model, cfg *config.GenerationConfig, root string) *generator.Result {
	t.Helper()
	logger, _ := test.NewNullLogger()
	result, err := generator.NewEngine(m, cfg, logger).Generate(context.Background(), ns+root)
	require.NoError(t, err)
	return result
}

// TestGenerateSingleClass tests a root class without restrictions
func TestGenerateSingleClass(t *testing.T) {
	m := model(t, sensorOnlyDoc)
	cfg := config.Default(config.ModeDevice)
	cfg.Count = 3

	result := generate(t, m, cfg, "Sensor")

	assert.Equal(t, 3, result.Set.Len())
	assert.Len(t, result.Set.Filter(assertions.ClassAssertion), 3)
	assert.Equal(t, int64(3), result.Stats.Individuals)
	assert.Equal(t, int64(3), result.Stats.Descriptions)
	assert.Equal(t, "http://ece.neu.edu/ontologies/DeviceDescription3.owl", result.OutputIRI)
	assert.Equal(t, "http://example.org/gen", result.Imports)
	assert.Equal(t, cfg.EffectiveSeed(), result.Seed)
	assert.NotEmpty(t, result.RunID)

	for i, a := range result.Set.All() {
		assert.Equal(t, ns+"Sensor", a.Predicate)
		assert.Equal(t, result.OutputIRI+"#Sensor_instance"+string(rune('0'+i)), a.Subject)
	}
}

// TestGenerateRestriction tests descent through an existential restriction
func TestGenerateRestriction(t *testing.T) {
	m := model(t, unitsDoc)
	result := generate(t, m, certain(2), "Sensor")

	links := result.Set.Filter(assertions.ObjectPropertyAssertion)
	require.Len(t, links, 2)
	for _, a := range links {
		assert.Equal(t, ns+"hasUnit", a.Predicate)
		assert.True(t, result.Set.Contains(assertions.Class(ns+"Sensor", a.Subject)))
		assert.True(t, result.Set.Contains(assertions.Class(ns+"Unit", a.Object)))
	}
	assert.Len(t, result.Set.Filter(assertions.ClassAssertion), 4)
	assert.Empty(t, result.Set.Filter(assertions.NegativeObjectPropertyAssertion))
}

// TestGenerateInverse tests the inverse companion of a generated link
func TestGenerateInverse(t *testing.T) {
	m := model(t, partsDoc)
	result := generate(t, m, certain(1), "Wheel")

	links := result.Set.Filter(assertions.ObjectPropertyAssertion)
	require.Len(t, links, 2)
	wheel, car := links[0].Subject, links[0].Object
	assert.Equal(t, assertions.Object(ns+"partOf", wheel, car), links[0])
	assert.Equal(t, assertions.Object(ns+"hasPart", car, wheel), links[1])
}

// TestGenerateIrreflexiveSelfLink tests that a self link through an irreflexive
// property becomes a negative assertion
func TestGenerateIrreflexiveSelfLink(t *testing.T) {
	m := model(t, networkDoc)
	result := generate(t, m, certain(1), "Node")

	node := result.Set.Filter(assertions.ClassAssertion)[0].Subject
	assert.False(t, result.Set.Contains(assertions.Object(ns+"connectsTo", node, node)))
	assert.True(t, result.Set.Contains(assertions.NegativeObject(ns+"connectsTo", node, node)))

	// The peer links back to itself through an asymmetric property
	for _, a := range result.Set.Filter(assertions.ObjectPropertyAssertion) {
		if a.Predicate == ns+"parentOf" {
			assert.NotEqual(t, a.Subject, a.Object)
		}
	}
}

// TestGenerateDataRestriction tests literals sampled from a restricted range
func TestGenerateDataRestriction(t *testing.T) {
	m := model(t, devicesDoc)
	result := generate(t, m, certain(5), "Controller")

	values := result.Set.Filter(assertions.DataPropertyAssertion)
	require.Len(t, values, 5)
	for _, a := range values {
		assert.Equal(t, ns+"hasSetpoint", a.Predicate)
		assert.Equal(t, schema.XSDInteger, a.Literal.Datatype)
		assert.Regexp(t, `^(100|[1-9]?[0-9])$`, a.Literal.Value)
	}
}

// TestGenerateDeterministic tests that equal configurations produce equal sets
func TestGenerateDeterministic(t *testing.T) {
	m := model(t, devicesDoc)
	rapid.Check(t, func(rt *rapid.T) {
		cfg := config.Default(config.ModeObject)
		cfg.Count = rapid.IntRange(1, 6).Draw(rt, "count")
		cfg.Seed = rapid.Int64Range(0, 1000).Draw(rt, "seed")
		cfg.Workers = rapid.SampledFrom([]int{1, 3}).Draw(rt, "workers")

		first := generate(t, m, cfg, "Controller")
		second := generate(t, m, cfg, "Controller")
		if first.RunID == second.RunID {
			rt.Fatalf("run ids must differ")
		}
		if len(first.Set.All()) != len(second.Set.All()) {
			rt.Fatalf("sets differ in size: %d and %d", first.Set.Len(), second.Set.Len())
		}
		for i, a := range first.Set.All() {
			if b := second.Set.All()[i]; a != b {
				rt.Fatalf("assertion %d differs: %v and %v", i, a, b)
			}
		}
	})
}

// TestGenerateParallelNaming tests description prefixes and merge order in parallel mode
func TestGenerateParallelNaming(t *testing.T) {
	m := model(t, sensorOnlyDoc)
	cfg := config.Default(config.ModeDevice)
	cfg.Count = 4
	cfg.Workers = 2

	result := generate(t, m, cfg, "Sensor")
	all := result.Set.All()
	require.Len(t, all, 4)
	for i, a := range all {
		assert.True(t, strings.HasSuffix(a.Subject, "#D"+string(rune('0'+i))+"_Sensor_instance0"), a.Subject)
	}
	assert.Equal(t, int64(4), result.Stats.Descriptions)
}

// TestGenerateDisjointSoundness tests that no individual is typed with two disjoint classes
func TestGenerateDisjointSoundness(t *testing.T) {
	m := model(t, devicesDoc)
	rapid.Check(t, func(rt *rapid.T) {
		cfg := config.Default(config.ModeObject)
		cfg.Count = rapid.IntRange(1, 10).Draw(rt, "count")
		cfg.Seed = rapid.Int64Range(0, 1000).Draw(rt, "seed")
		cfg.NewIndividual = rapid.Float64Range(0, 1).Draw(rt, "new_individual")

		result := generate(t, m, cfg, "Controller")
		types := make(map[string]map[string]bool)
		for _, a := range result.Set.Filter(assertions.ClassAssertion) {
			if types[a.Subject] == nil {
				types[a.Subject] = make(map[string]bool)
			}
			types[a.Subject][a.Predicate] = true
		}
		for ind, ts := range types {
			if ts[ns+"Sensor"] && ts[ns+"Actuator"] {
				rt.Fatalf("%s is both a sensor and an actuator", ind)
			}
		}
	})
}

// TestGenerateNoSelfContradiction tests that no positive assertion has a matching negative
func TestGenerateNoSelfContradiction(t *testing.T) {
	m := model(t, networkDoc)
	rapid.Check(t, func(rt *rapid.T) {
		cfg := config.Default(config.ModeObject)
		cfg.Count = rapid.IntRange(1, 5).Draw(rt, "count")
		cfg.Seed = rapid.Int64Range(0, 1000).Draw(rt, "seed")
		for _, f := range cfg.Fields() {
			*f.Value = rapid.Float64Range(0, 1).Draw(rt, f.Key)
		}

		result := generate(t, m, cfg, "Node")
		for _, a := range result.Set.Filter(assertions.ObjectPropertyAssertion) {
			if result.Set.Contains(assertions.NegativeObject(a.Predicate, a.Subject, a.Object)) {
				rt.Fatalf("contradiction on %s(%s, %s)", a.Predicate, a.Subject, a.Object)
			}
			if a.Subject == a.Object && (a.Predicate == ns+"connectsTo" || a.Predicate == ns+"parentOf") {
				rt.Fatalf("reflexive %s on %s", a.Predicate, a.Subject)
			}
		}
	})
}

// TestGenerateErrors tests unknown roots, invalid configurations and cancellation
func TestGenerateErrors(t *testing.T) {
	m := model(t, unitsDoc)
	logger, _ := test.NewNullLogger()

	_, err := generator.NewEngine(m, certain(1), logger).Generate(context.Background(), ns+"Missing")
	assert.ErrorIs(t, err, generator.ErrUnknownClass)

	bad := certain(1)
	bad.Count = -1
	_, err = generator.NewEngine(m, bad, logger).Generate(context.Background(), ns+"Sensor")
	assert.ErrorContains(t, err, "count must be at least 1")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = generator.NewEngine(m, certain(3), logger).Generate(ctx, ns+"Sensor")
	assert.ErrorIs(t, err, context.Canceled)
}

type recordingReporter struct {
	mu           sync.Mutex
	descriptions []generator.DescriptionEvent
	warnings     []string
}

func (r *recordingReporter) OnDescription(event generator.DescriptionEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.descriptions = append(r.descriptions, event)
}

func (r *recordingReporter) OnWarning(kind string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnings = append(r.warnings, kind)
}

// TestGenerateReporters tests description events and depth warnings
func TestGenerateReporters(t *testing.T) {
	m := model(t, unitsDoc)
	logger, hook := test.NewNullLogger()

	cfg := certain(2)
	cfg.MaxDepth = 1
	reporter := &recordingReporter{}
	engine := generator.NewEngine(m, cfg, logger)
	engine.AddReporter(reporter)

	result, err := engine.Generate(context.Background(), ns+"Sensor")
	require.NoError(t, err)

	require.Len(t, reporter.descriptions, 2)
	assert.Equal(t, 0, reporter.descriptions[0].Index)
	assert.Equal(t, int64(1), reporter.descriptions[0].Individuals)
	assert.Equal(t, 1, reporter.descriptions[0].Assertions["class"])
	assert.Equal(t, []string{generator.WarnMaxDepth, generator.WarnMaxDepth}, reporter.warnings)
	assert.Equal(t, int64(2), result.Stats.Warnings)
	assert.Empty(t, result.Set.Filter(assertions.ObjectPropertyAssertion))

	var warned bool
	for _, entry := range hook.AllEntries() {
		if entry.Data["warning"] == generator.WarnMaxDepth {
			warned = true
		}
	}
	assert.True(t, warned)
}

// TestRandomInt tests uniform integer draws over half-open ranges
func TestRandomInt(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		min := rapid.IntRange(-1000, 1000).Draw(rt, "min")
		max := min + rapid.IntRange(0, 1000).Draw(rt, "span")
		rng := rand.New(rand.NewSource(rapid.Int64().Draw(rt, "seed")))

		n, err := generator.RandomInt(rng, min, max)
		if err != nil {
			rt.Fatalf("unexpected error: %v", err)
		}
		if min == max && n != min {
			rt.Fatalf("equal bounds must return %d, got %d", min, n)
		}
		if min < max && (n < min || n >= max) {
			rt.Fatalf("%d outside [%d, %d)", n, min, max)
		}
	})

	_, err := generator.RandomInt(rand.New(rand.NewSource(1)), 5, 4)
	assert.ErrorIs(t, err, generator.ErrInvalidRange)
}
