/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: output_test.go
Description: Tests for the output sinks: N-Triples with reified negatives, JSON and
YAML documents, format selection and file writing.
*/

package output_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kleascm/akaylee-ontogen/pkg/assertions"
	"github.com/kleascm/akaylee-ontogen/pkg/config"
	"github.com/kleascm/akaylee-ontogen/pkg/generator"
	"github.com/kleascm/akaylee-ontogen/pkg/output"
	"github.com/kleascm/akaylee-ontogen/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const (
	out = "http://ece.neu.edu/ontologies/DeviceDescription2.owl"
	ns  = "http://example.org/sensors#"
)

func result() *generator.Result {
	set := assertions.NewSet()
	s0, u0 := out+"#Sensor_instance0", out+"#Unit_instance0"
	reading := schema.Literal{Value: "say \"hi\"\n", Datatype: schema.XSDString}
	set.Add(assertions.Class(ns+"Sensor", s0))
	set.Add(assertions.Object(ns+"hasUnit", s0, u0))
	set.Add(assertions.Data(ns+"hasLabel", s0, reading))
	set.Add(assertions.NegativeObject(ns+"connectsTo", s0, s0))
	set.Add(assertions.NegativeData(ns+"hasReading", s0, schema.Literal{Value: "7", Datatype: schema.XSDInteger}))
	set.Add(assertions.Same(u0, ns+"Celsius"))
	set.Add(assertions.Different(s0, u0))

	return &generator.Result{
		RunID:     "run-1",
		OutputIRI: out,
		Imports:   "http://example.org/sensors",
		Root:      ns + "Sensor",
		Mode:      config.ModeDevice,
		Count:     2,
		Seed:      2,
		Stats:     &assertions.Stats{Descriptions: 2, Individuals: 2, Warnings: 1},
		Set:       set,
	}
}

// TestNTriplesSink tests triples for every assertion kind
func TestNTriplesSink(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&output.NTriplesSink{}).Write(&buf, result()))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	expected := []string{
		`<` + out + `> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://www.w3.org/2002/07/owl#Ontology> .`,
		`<` + out + `> <http://www.w3.org/2002/07/owl#imports> <http://example.org/sensors> .`,
		`<` + out + `> <http://www.w3.org/2000/01/rdf-schema#comment> "A sample of 2 device descriptions"^^<http://www.w3.org/2001/XMLSchema#string> .`,
		`<` + out + `#Sensor_instance0> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <` + ns + `Sensor> .`,
		`<` + out + `#Sensor_instance0> <` + ns + `hasUnit> <` + out + `#Unit_instance0> .`,
		`<` + out + `#Sensor_instance0> <` + ns + `hasLabel> "say \"hi\"\n"^^<http://www.w3.org/2001/XMLSchema#string> .`,
		`_:n0 <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://www.w3.org/2002/07/owl#NegativePropertyAssertion> .`,
		`_:n0 <http://www.w3.org/2002/07/owl#sourceIndividual> <` + out + `#Sensor_instance0> .`,
		`_:n0 <http://www.w3.org/2002/07/owl#assertionProperty> <` + ns + `connectsTo> .`,
		`_:n0 <http://www.w3.org/2002/07/owl#targetIndividual> <` + out + `#Sensor_instance0> .`,
		`_:n1 <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://www.w3.org/2002/07/owl#NegativePropertyAssertion> .`,
		`_:n1 <http://www.w3.org/2002/07/owl#sourceIndividual> <` + out + `#Sensor_instance0> .`,
		`_:n1 <http://www.w3.org/2002/07/owl#assertionProperty> <` + ns + `hasReading> .`,
		`_:n1 <http://www.w3.org/2002/07/owl#targetValue> "7"^^<http://www.w3.org/2001/XMLSchema#integer> .`,
		`<` + out + `#Unit_instance0> <http://www.w3.org/2002/07/owl#sameAs> <` + ns + `Celsius> .`,
		`<` + out + `#Sensor_instance0> <http://www.w3.org/2002/07/owl#differentFrom> <` + out + `#Unit_instance0> .`,
	}
	assert.Equal(t, expected, lines)
}

// TestJSONSink tests the JSON document
func TestJSONSink(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&output.JSONSink{}).Write(&buf, result()))

	var doc output.Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "run-1", doc.RunID)
	assert.Equal(t, out, doc.Ontology)
	assert.Equal(t, "device", doc.Mode)
	assert.Equal(t, "A sample of 2 device descriptions", doc.Comment)
	assert.Equal(t, int64(7), doc.Stats.Assertions)
	assert.Equal(t, int64(1), doc.Stats.Warnings)
	assert.Equal(t, 1, doc.Stats.ByKind["negative_data_property"])
	assert.Equal(t, result().Set.All(), doc.Assertions)
}

// TestYAMLSink tests the YAML document
func TestYAMLSink(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&output.YAMLSink{}).Write(&buf, result()))

	var doc map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "run-1", doc["run_id"])
	assert.Equal(t, ns+"Sensor", doc["root"])
	assert.Equal(t, 2, doc["count"])

	list, ok := doc["assertions"].([]interface{})
	require.True(t, ok)
	require.Len(t, list, 7)
	first := list[0].(map[string]interface{})
	assert.Equal(t, "class", first["kind"])
	assert.Equal(t, ns+"Sensor", first["predicate"])
}

// TestEmptyResult tests documents of runs without assertions
func TestEmptyResult(t *testing.T) {
	r := result()
	r.Set = assertions.NewSet()
	r.Count = 1
	r.Stats = nil

	doc := output.NewDocument(r)
	assert.NotNil(t, doc.Assertions)
	assert.Empty(t, doc.Assertions)
	assert.Equal(t, "A sample of 1 device description", doc.Comment)
}

// TestNewSink tests format selection
func TestNewSink(t *testing.T) {
	for format, ext := range map[string]string{"ntriples": ".nt", "NT": ".nt", "json": ".json", "yml": ".yaml"} {
		sink, err := output.NewSink(format)
		require.NoError(t, err, format)
		assert.Equal(t, ext, sink.Extension())
	}

	_, err := output.NewSink("turtle")
	assert.ErrorIs(t, err, output.ErrUnsupportedFormat)
}

// TestWriteFile tests writing into a directory that does not exist yet
func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.nt")
	require.NoError(t, output.WriteFile(&output.NTriplesSink{}, path, result()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "owl#Ontology")
}
