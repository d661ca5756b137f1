/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: provider_test.go
Description: Tests for schema document parsing, the structural classifier, the
consistency check and multi-document loading with import resolution.
*/

package provider_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kleascm/akaylee-ontogen/pkg/provider"
	"github.com/kleascm/akaylee-ontogen/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ns = "http://example.org/sensors#"

const sensorsDoc = `
iri: http://example.org/sensors
classes:
  Device: {}
  Sensor:
    subClassOf:
      - Device
      - {property: hasUnit, some: Unit}
    disjointWith: [Actuator]
  Thermometer:
    subClassOf: [Sensor]
  Actuator:
    subClassOf: [Device]
  Unit:
    individuals: [Celsius]
objectProperties:
  hasUnit:
    domain: [Sensor]
    range: Unit
    characteristics: [functional]
  partOf:
    inverseOf: [hasPart]
  hasPart: {}
  contains:
    subPropertyOf: [hasPart]
dataProperties:
  hasReading:
    domain: [Sensor]
    range: {datatype: xsd:integer, minInclusive: 0, maxInclusive: 10}
`

func newProvider(t *testing.T, docs ...string) *provider.DocumentProvider {
	t.Helper()
	parsed := make([]*provider.Document, 0, len(docs))
	for i, d := range docs {
		doc, err := provider.ParseDocument([]byte(d), filepath.Join("mem", string(rune('a'+i))+".yaml"))
		require.NoError(t, err)
		parsed = append(parsed, doc)
	}
	p, err := provider.NewDocumentProvider(parsed...)
	require.NoError(t, err)
	return p
}

// TestParseDocumentRequiresIRI tests that documents without an iri are rejected
func TestParseDocumentRequiresIRI(t *testing.T) {
	_, err := provider.ParseDocument([]byte("classes:\n  A: {}\n"), "a.yaml")
	assert.Error(t, err)

	_, err = provider.ParseDocument([]byte("iri: [unterminated"), "b.yaml")
	assert.Error(t, err)
}

// TestDocumentResolve tests name expansion against prefixes and the document IRI
func TestDocumentResolve(t *testing.T) {
	doc, err := provider.ParseDocument([]byte("iri: http://example.org/a\nprefixes:\n  ex: http://example.org/b#\n"), "a.yaml")
	require.NoError(t, err)

	assert.Equal(t, "http://example.org/a#Thing", doc.Resolve("Thing"))
	assert.Equal(t, "http://example.org/b#Other", doc.Resolve("ex:Other"))
	assert.Equal(t, schema.XSDInteger, doc.Resolve("xsd:integer"))
	assert.Equal(t, "http://full.org/x#Y", doc.Resolve("http://full.org/x#Y"))
}

// TestToldAxioms tests the told class and property axioms of a document
func TestToldAxioms(t *testing.T) {
	p := newProvider(t, sensorsDoc)

	assert.Equal(t, "http://example.org/sensors", p.OntologyIRI())
	assert.Contains(t, p.Classes(), ns+"Sensor")
	assert.Equal(t, []string{ns + "Device"}, p.DirectSuperclasses(ns+"Sensor"))

	anonymous := p.AnonymousSuperclasses(ns + "Sensor")
	require.Len(t, anonymous, 1)
	assert.Equal(t, schema.ExprObjectSome, anonymous[0].Kind)
	assert.Equal(t, ns+"hasUnit", anonymous[0].Property)
	assert.Equal(t, ns+"Unit", anonymous[0].Filler.Class)

	// Disjointness is recorded on both sides
	require.Len(t, p.DisjointClasses(ns+"Actuator"), 1)
	assert.Equal(t, ns+"Sensor", p.DisjointClasses(ns+"Actuator")[0].Class)

	assert.Equal(t, []string{ns + "Sensor"}, p.Domains(ns+"hasUnit"))
	assert.Equal(t, ns+"Unit", p.ObjectRange(ns+"hasUnit").Class)
	assert.True(t, p.Characteristics(ns+"hasUnit")&schema.Functional != 0)

	r := p.DataRange(ns + "hasReading")
	require.NotNil(t, r)
	assert.Equal(t, schema.RangeRestriction, r.Kind)
	assert.Equal(t, schema.XSDInteger, r.Datatype)
	v, ok := r.Facet(schema.FacetMaxInclusive)
	assert.True(t, ok)
	assert.Equal(t, "10", v)

	assert.Equal(t, []string{ns + "Celsius"}, p.InstancesOf(ns+"Unit"))
}

// TestClassification tests the inferred closures
func TestClassification(t *testing.T) {
	p := newProvider(t, sensorsDoc)

	assert.Equal(t, []string{ns + "Device", ns + "Sensor"}, p.InferredSuperclasses(ns+"Thermometer"))
	assert.ElementsMatch(t, []string{ns + "Actuator", ns + "Sensor", ns + "Thermometer"}, p.InferredSubclasses(ns+"Device"))

	// Disjointness inherited from Sensor reaches Thermometer
	assert.Equal(t, []string{ns + "Actuator"}, p.InferredDisjoints(ns+"Thermometer"))
	assert.ElementsMatch(t, []string{ns + "Sensor", ns + "Thermometer"}, p.InferredDisjoints(ns+"Actuator"))

	assert.Equal(t, []string{ns + "hasPart"}, p.InferredInverseProperties(ns+"partOf"))
	assert.Equal(t, []string{ns + "partOf"}, p.InferredInverseProperties(ns+"hasPart"))
	assert.Equal(t, []string{ns + "contains"}, p.InferredSubProperties(ns+"hasPart"))
	assert.Equal(t, []string{ns + "hasPart"}, p.InferredSuperProperties(ns+"contains"))
}

// TestNamedEquivalence tests that named equivalents subsume each other
func TestNamedEquivalence(t *testing.T) {
	p := newProvider(t, `
iri: http://example.org/eq
classes:
  Car:
    equivalentTo: [Automobile]
  Automobile: {}
`)
	assert.Equal(t, []string{"http://example.org/eq#Automobile"}, p.InferredEquivalents("http://example.org/eq#Car"))
	assert.Equal(t, []string{"http://example.org/eq#Car"}, p.InferredEquivalents("http://example.org/eq#Automobile"))
}

// TestConsistency tests the individual based consistency verdict
func TestConsistency(t *testing.T) {
	assert.True(t, newProvider(t, sensorsDoc).IsConsistent())

	p := newProvider(t, sensorsDoc, `
iri: http://example.org/bad
imports: [http://example.org/sensors]
individuals:
  http://example.org/sensors#Hybrid: [http://example.org/sensors#Thermometer, http://example.org/sensors#Actuator]
`)
	assert.False(t, p.IsConsistent())
}

// TestCompileErrors tests malformed expressions
func TestCompileErrors(t *testing.T) {
	cases := map[string]string{
		"undeclared property": `
iri: http://example.org/e
classes:
  A:
    subClassOf: [{property: missing, some: B}]
`,
		"no quantifier": `
iri: http://example.org/e
objectProperties:
  p: {}
classes:
  A:
    subClassOf: [{property: p}]
`,
		"unknown characteristic": `
iri: http://example.org/e
objectProperties:
  p:
    characteristics: [sparkly]
`,
		"negative cardinality": `
iri: http://example.org/e
objectProperties:
  p: {}
classes:
  A:
    subClassOf: [{property: p, min: -1}]
`,
	}
	for name, text := range cases {
		t.Run(name, func(t *testing.T) {
			doc, err := provider.ParseDocument([]byte(text), "e.yaml")
			require.NoError(t, err)
			_, err = provider.NewDocumentProvider(doc)
			assert.Error(t, err)
		})
	}
}

// TestParseIRIMapping tests the iri,path;iri,path syntax
func TestParseIRIMapping(t *testing.T) {
	m, err := provider.ParseIRIMapping("http://a.org/x,x.yaml; http://b.org/y , /tmp/y.yaml")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"http://a.org/x": "x.yaml",
		"http://b.org/y": "/tmp/y.yaml",
	}, m)

	m, err = provider.ParseIRIMapping("  ")
	require.NoError(t, err)
	assert.Empty(t, m)

	_, err = provider.ParseIRIMapping("http://a.org/x")
	assert.Error(t, err)
}

// TestNewProviderFormats tests the format switch
func TestNewProviderFormats(t *testing.T) {
	_, err := provider.NewProvider("rdfxml", []string{"x"}, nil)
	assert.ErrorIs(t, err, provider.ErrUnsupportedFormat)
}

// TestLoadDocumentsWithImports tests glob loading and import resolution
func TestLoadDocumentsWithImports(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "onto", "base"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "onto", "main.yaml"), []byte(`
iri: http://example.org/main
imports: [http://example.org/base]
classes:
  Sensor:
    subClassOf: [http://example.org/base#Device]
`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "onto", "base", "base.yaml"), []byte(`
iri: http://example.org/base
classes:
  Device: {}
`), 0644))

	p, err := provider.NewProvider("yaml",
		[]string{filepath.Join(dir, "onto", "*.yaml")},
		map[string]string{"http://example.org/base": "base/base.yaml"})
	require.NoError(t, err)

	assert.Equal(t, "http://example.org/main", p.OntologyIRI())
	assert.Equal(t, []string{"http://example.org/base#Device"}, p.InferredSuperclasses("http://example.org/main#Sensor"))

	// Without a mapping the import cannot be resolved
	_, err = provider.LoadDocuments([]string{filepath.Join(dir, "onto", "*.yaml")}, nil)
	assert.Error(t, err)

	// Recursive globs pick up both documents directly
	p, err = provider.NewProvider("yaml", []string{filepath.Join(dir, "**", "*.yaml")}, map[string]string{"http://example.org/base": "base/base.yaml"})
	require.NoError(t, err)
	assert.Contains(t, p.Classes(), "http://example.org/base#Device")

	_, err = provider.LoadDocuments([]string{filepath.Join(dir, "none", "*.yaml")}, nil)
	assert.Error(t, err)
}
