/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: vocabulary.go
Description: Well-known OWL, RDF, RDFS and XSD identifiers used by the schema model,
plus helpers for expanding compact names and deriving local names from IRIs.
*/

package schema

import (
	"errors"
	"strings"
)

// ErrSchemaInconsistent is returned when the provider reports an inconsistent schema
var ErrSchemaInconsistent = errors.New("schema is inconsistent")

// Namespaces
const (
	OWLNamespace  = "http://www.w3.org/2002/07/owl#"
	RDFNamespace  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFSNamespace = "http://www.w3.org/2000/01/rdf-schema#"
	XSDNamespace  = "http://www.w3.org/2001/XMLSchema#"
)

// Top and bottom entities, skipped during signature collection
const (
	OWLThing                = OWLNamespace + "Thing"
	OWLNothing              = OWLNamespace + "Nothing"
	OWLTopObjectProperty    = OWLNamespace + "topObjectProperty"
	OWLBottomObjectProperty = OWLNamespace + "bottomObjectProperty"
	OWLTopDataProperty      = OWLNamespace + "topDataProperty"
	OWLBottomDataProperty   = OWLNamespace + "bottomDataProperty"
)

// Built-in datatypes understood by the literal grammars
const (
	RDFSLiteral           = RDFSNamespace + "Literal"
	XSDString             = XSDNamespace + "string"
	XSDBoolean            = XSDNamespace + "boolean"
	XSDDecimal            = XSDNamespace + "decimal"
	XSDDouble             = XSDNamespace + "double"
	XSDFloat              = XSDNamespace + "float"
	XSDInt                = XSDNamespace + "int"
	XSDInteger            = XSDNamespace + "integer"
	XSDLong               = XSDNamespace + "long"
	XSDNonNegativeInteger = XSDNamespace + "nonNegativeInteger"
	XSDPositiveInteger    = XSDNamespace + "positiveInteger"
)

var prefixes = map[string]string{
	"owl":  OWLNamespace,
	"rdf":  RDFNamespace,
	"rdfs": RDFSNamespace,
	"xsd":  XSDNamespace,
}

// IsTopOrBottom reports whether iri names one of the universal top/bottom entities
func IsTopOrBottom(iri string) bool {
	switch iri {
	case OWLThing, OWLNothing,
		OWLTopObjectProperty, OWLBottomObjectProperty,
		OWLTopDataProperty, OWLBottomDataProperty:
		return true
	}
	return false
}

// Expand resolves a compact name against the well-known prefixes. Names without a
// known prefix and without a scheme are resolved against base as base#name.
func Expand(name, base string) string {
	if name == "" {
		return ""
	}
	if strings.Contains(name, "://") || strings.HasPrefix(name, "urn:") {
		return name
	}
	if i := strings.Index(name, ":"); i > 0 {
		if ns, ok := prefixes[name[:i]]; ok {
			return ns + name[i+1:]
		}
	}
	if base == "" {
		return name
	}
	if strings.HasSuffix(base, "#") || strings.HasSuffix(base, "/") {
		return base + name
	}
	return base + "#" + name
}

// LocalName returns the fragment or last path segment of an IRI
func LocalName(iri string) string {
	if i := strings.LastIndex(iri, "#"); i >= 0 && i < len(iri)-1 {
		return iri[i+1:]
	}
	if i := strings.LastIndex(iri, "/"); i >= 0 && i < len(iri)-1 {
		return iri[i+1:]
	}
	return iri
}
