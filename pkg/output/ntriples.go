/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: ntriples.go
Description: N-Triples sink. Positive facts become single triples; negative property
assertions are reified as owl:NegativePropertyAssertion blank nodes.
*/

package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/kleascm/akaylee-ontogen/pkg/assertions"
	"github.com/kleascm/akaylee-ontogen/pkg/generator"
	"github.com/kleascm/akaylee-ontogen/pkg/schema"
)

const (
	rdfType           = schema.RDFNamespace + "type"
	rdfsComment       = schema.RDFSNamespace + "comment"
	owlOntology       = schema.OWLNamespace + "Ontology"
	owlImports        = schema.OWLNamespace + "imports"
	owlSameAs         = schema.OWLNamespace + "sameAs"
	owlDifferentFrom  = schema.OWLNamespace + "differentFrom"
	owlNegativeAssert = schema.OWLNamespace + "NegativePropertyAssertion"
	owlSource         = schema.OWLNamespace + "sourceIndividual"
	owlAssertionProp  = schema.OWLNamespace + "assertionProperty"
	owlTargetInd      = schema.OWLNamespace + "targetIndividual"
	owlTargetValue    = schema.OWLNamespace + "targetValue"
)

// NTriplesSink writes results as N-Triples
type NTriplesSink struct{}

// Extension returns the file extension of the format
func (s *NTriplesSink) Extension() string {
	return ".nt"
}

// Write serializes result as N-Triples
func (s *NTriplesSink) Write(w io.Writer, result *generator.Result) error {
	bw := bufio.NewWriter(w)
	t := &tripleWriter{w: bw}

	t.triple(iri(result.OutputIRI), iri(rdfType), iri(owlOntology))
	if result.Imports != "" {
		t.triple(iri(result.OutputIRI), iri(owlImports), iri(result.Imports))
	}
	t.triple(iri(result.OutputIRI), iri(rdfsComment), literal(schema.Literal{Value: comment(result)}))

	blank := 0
	for _, a := range result.Set.All() {
		switch a.Kind {
		case assertions.ClassAssertion:
			t.triple(iri(a.Subject), iri(rdfType), iri(a.Predicate))
		case assertions.ObjectPropertyAssertion:
			t.triple(iri(a.Subject), iri(a.Predicate), iri(a.Object))
		case assertions.DataPropertyAssertion:
			t.triple(iri(a.Subject), iri(a.Predicate), literal(a.Literal))
		case assertions.SameIndividual:
			t.triple(iri(a.Subject), iri(owlSameAs), iri(a.Object))
		case assertions.DifferentIndividuals:
			t.triple(iri(a.Subject), iri(owlDifferentFrom), iri(a.Object))
		case assertions.NegativeObjectPropertyAssertion, assertions.NegativeDataPropertyAssertion:
			node := fmt.Sprintf("_:n%d", blank)
			blank++
			t.triple(node, iri(rdfType), iri(owlNegativeAssert))
			t.triple(node, iri(owlSource), iri(a.Subject))
			t.triple(node, iri(owlAssertionProp), iri(a.Predicate))
			if a.Kind == assertions.NegativeObjectPropertyAssertion {
				t.triple(node, iri(owlTargetInd), iri(a.Object))
			} else {
				t.triple(node, iri(owlTargetValue), literal(a.Literal))
			}
		}
	}

	if t.err != nil {
		return t.err
	}
	return bw.Flush()
}

// tripleWriter keeps the first write error
type tripleWriter struct {
	w   io.Writer
	err error
}

func (t *tripleWriter) triple(subject, predicate, object string) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, "%s %s %s .\n", subject, predicate, object)
}

func iri(value string) string {
	return "<" + value + ">"
}

func literal(l schema.Literal) string {
	datatype := l.Datatype
	if datatype == "" {
		datatype = schema.XSDString
	}
	return `"` + escape(l.Value) + `"^^<` + datatype + ">"
}

var escaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

func escape(s string) string {
	return escaper.Replace(s)
}
