/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: document.go
Description: YAML schema documents. A document declares classes, object properties,
data properties and individuals. Class expressions and data ranges are written as
plain names or small mappings and compiled into schema expressions once every
document of a schema set is loaded, since a restriction's kind depends on whether
its property is an object or a data property.
*/

package provider

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/kleascm/akaylee-ontogen/pkg/schema"
	"gopkg.in/yaml.v3"
)

// Document is one schema document
type Document struct {
	IRI              string                 `yaml:"iri"`
	Imports          []string               `yaml:"imports"`
	Prefixes         map[string]string      `yaml:"prefixes"`
	Classes          map[string]ClassDoc    `yaml:"classes"`
	ObjectProperties map[string]PropertyDoc `yaml:"objectProperties"`
	DataProperties   map[string]PropertyDoc `yaml:"dataProperties"`
	Individuals      map[string][]string    `yaml:"individuals"` // Individual name to class names

	Source string `yaml:"-"`
}

// ClassDoc holds the axioms of one class
type ClassDoc struct {
	SubClassOf   []yaml.Node `yaml:"subClassOf"`
	EquivalentTo []yaml.Node `yaml:"equivalentTo"`
	DisjointWith []yaml.Node `yaml:"disjointWith"`
	Individuals  []string    `yaml:"individuals"`
}

// PropertyDoc holds the axioms of one property
type PropertyDoc struct {
	Domain          []yaml.Node `yaml:"domain"`
	Range           yaml.Node   `yaml:"range"`
	SubPropertyOf   []string    `yaml:"subPropertyOf"`
	EquivalentTo    []string    `yaml:"equivalentTo"`
	DisjointWith    []string    `yaml:"disjointWith"`
	InverseOf       []string    `yaml:"inverseOf"`
	Characteristics []string    `yaml:"characteristics"`
}

// ParseDocument decodes a YAML (or JSON) schema document
func ParseDocument(data []byte, source string) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse schema document %s: %w", source, err)
	}
	if doc.IRI == "" {
		return nil, fmt.Errorf("schema document %s has no iri", source)
	}
	doc.Source = source
	return &doc, nil
}

// Resolve expands a name written in this document into a full IRI
func (d *Document) Resolve(name string) string {
	name = strings.TrimSpace(name)
	if i := strings.Index(name, ":"); i > 0 && !strings.Contains(name, "://") {
		if ns, ok := d.Prefixes[name[:i]]; ok {
			return ns + name[i+1:]
		}
	}
	return schema.Expand(name, d.IRI)
}

// sortedKeys returns the keys of a document section in order
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// compiler turns document nodes into schema expressions
type compiler struct {
	doc        *Document
	objectProp func(iri string) bool
	dataProp   func(iri string) bool
}

func (c *compiler) errorf(node *yaml.Node, format string, args ...interface{}) error {
	return fmt.Errorf("%s:%d: %s", c.doc.Source, node.Line, fmt.Sprintf(format, args...))
}

// classExpr compiles a class expression node
func (c *compiler) classExpr(node *yaml.Node) (*schema.ClassExpr, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		return schema.NamedClass(c.doc.Resolve(node.Value)), nil
	case yaml.MappingNode:
	default:
		return nil, c.errorf(node, "class expression must be a name or a mapping")
	}

	fields := mappingFields(node)

	if prop, ok := fields["property"]; ok {
		return c.restriction(node, c.doc.Resolve(prop.Value), fields)
	}
	if ops, ok := fields["and"]; ok {
		operands, err := c.classExprList(ops)
		if err != nil {
			return nil, err
		}
		return schema.Intersection(operands...), nil
	}
	if ops, ok := fields["or"]; ok {
		operands, err := c.classExprList(ops)
		if err != nil {
			return nil, err
		}
		return schema.Union(operands...), nil
	}
	if op, ok := fields["not"]; ok {
		operand, err := c.classExpr(op)
		if err != nil {
			return nil, err
		}
		return schema.Complement(operand), nil
	}
	if members, ok := fields["oneOf"]; ok {
		if members.Kind != yaml.SequenceNode {
			return nil, c.errorf(members, "oneOf expects a list of individuals")
		}
		individuals := make([]string, 0, len(members.Content))
		for _, m := range members.Content {
			individuals = append(individuals, c.doc.Resolve(m.Value))
		}
		return schema.OneOf(individuals...), nil
	}
	return nil, c.errorf(node, "unrecognized class expression")
}

func (c *compiler) classExprList(node *yaml.Node) ([]*schema.ClassExpr, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, c.errorf(node, "expected a list of class expressions")
	}
	out := make([]*schema.ClassExpr, 0, len(node.Content))
	for _, n := range node.Content {
		e, err := c.classExpr(n)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// restriction compiles {property: p, some|only|value|self|min|max|exactly: ..., of: ...}
func (c *compiler) restriction(node *yaml.Node, property string, fields map[string]*yaml.Node) (*schema.ClassExpr, error) {
	isData := c.dataProp(property)
	if !isData && !c.objectProp(property) {
		return nil, c.errorf(node, "restriction on undeclared property %s", property)
	}

	filler := func(n *yaml.Node) (*schema.ClassExpr, *schema.DataRange, error) {
		if n == nil {
			return nil, nil, nil
		}
		if isData {
			r, err := c.dataRange(n)
			return nil, r, err
		}
		e, err := c.classExpr(n)
		return e, nil, err
	}

	for _, quantifier := range []string{"some", "only"} {
		n, ok := fields[quantifier]
		if !ok {
			continue
		}
		e, r, err := filler(n)
		if err != nil {
			return nil, err
		}
		switch {
		case quantifier == "some" && isData:
			return schema.DataSome(property, r), nil
		case quantifier == "some":
			return schema.ObjectSome(property, e), nil
		case isData:
			return schema.DataAll(property, r), nil
		default:
			return schema.ObjectAll(property, e), nil
		}
	}

	if n, ok := fields["value"]; ok {
		if isData {
			return schema.DataHasValue(property, literal(n)), nil
		}
		return schema.ObjectHasValue(property, c.doc.Resolve(n.Value)), nil
	}

	if n, ok := fields["self"]; ok {
		if isData {
			return nil, c.errorf(n, "self restriction on data property %s", property)
		}
		return schema.ObjectHasSelf(property), nil
	}

	for _, bound := range []string{"min", "max", "exactly"} {
		n, ok := fields[bound]
		if !ok {
			continue
		}
		card, err := strconv.Atoi(n.Value)
		if err != nil || card < 0 {
			return nil, c.errorf(n, "%s expects a non-negative integer", bound)
		}
		e, r, err := filler(fields["of"])
		if err != nil {
			return nil, err
		}
		switch {
		case bound == "min" && isData:
			return schema.DataMin(property, card, r), nil
		case bound == "min":
			return schema.ObjectMin(property, card, e), nil
		case bound == "max" && isData:
			return schema.DataMax(property, card, r), nil
		case bound == "max":
			return schema.ObjectMax(property, card, e), nil
		case isData:
			return schema.DataExact(property, card, r), nil
		default:
			return schema.ObjectExact(property, card, e), nil
		}
	}

	return nil, c.errorf(node, "restriction on %s has no quantifier", property)
}

// dataRange compiles a data range node
func (c *compiler) dataRange(node *yaml.Node) (*schema.DataRange, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		return schema.Datatype(c.doc.Resolve(node.Value)), nil
	case yaml.MappingNode:
	default:
		return nil, c.errorf(node, "data range must be a datatype or a mapping")
	}

	fields := mappingFields(node)

	if members, ok := fields["oneOf"]; ok {
		if members.Kind != yaml.SequenceNode {
			return nil, c.errorf(members, "oneOf expects a list of literals")
		}
		literals := make([]schema.Literal, 0, len(members.Content))
		for _, m := range members.Content {
			literals = append(literals, literal(m))
		}
		return schema.LiteralsOf(literals...), nil
	}
	if op, ok := fields["not"]; ok {
		r, err := c.dataRange(op)
		if err != nil {
			return nil, err
		}
		return schema.ComplementOf(r), nil
	}
	for _, combinator := range []string{"or", "and"} {
		ops, ok := fields[combinator]
		if !ok {
			continue
		}
		if ops.Kind != yaml.SequenceNode {
			return nil, c.errorf(ops, "%s expects a list of data ranges", combinator)
		}
		ranges := make([]*schema.DataRange, 0, len(ops.Content))
		for _, n := range ops.Content {
			r, err := c.dataRange(n)
			if err != nil {
				return nil, err
			}
			ranges = append(ranges, r)
		}
		if combinator == "or" {
			return schema.UnionOf(ranges...), nil
		}
		return schema.IntersectionOf(ranges...), nil
	}

	dt, ok := fields["datatype"]
	if !ok {
		return nil, c.errorf(node, "unrecognized data range")
	}
	datatype := c.doc.Resolve(dt.Value)
	var facets []schema.Facet
	for _, name := range []string{
		schema.FacetMinInclusive, schema.FacetMaxInclusive,
		schema.FacetMinExclusive, schema.FacetMaxExclusive,
		schema.FacetLength, schema.FacetMinLength, schema.FacetMaxLength,
		schema.FacetPattern,
	} {
		if v, ok := fields[name]; ok {
			facets = append(facets, schema.Facet{Name: name, Value: v.Value})
		}
	}
	if len(facets) == 0 {
		return schema.Datatype(datatype), nil
	}
	return schema.Restricted(datatype, facets...), nil
}

// literal decodes a scalar or {value, datatype} node into a literal
func literal(node *yaml.Node) schema.Literal {
	if node.Kind == yaml.MappingNode {
		fields := mappingFields(node)
		lit := schema.Literal{Datatype: schema.XSDString}
		if v, ok := fields["value"]; ok {
			lit.Value = v.Value
		}
		if dt, ok := fields["datatype"]; ok {
			lit.Datatype = schema.Expand(dt.Value, "")
		}
		return lit
	}
	switch node.Tag {
	case "!!int":
		return schema.Literal{Value: node.Value, Datatype: schema.XSDInteger}
	case "!!float":
		return schema.Literal{Value: node.Value, Datatype: schema.XSDDouble}
	case "!!bool":
		return schema.Literal{Value: strings.ToLower(node.Value), Datatype: schema.XSDBoolean}
	default:
		return schema.Literal{Value: node.Value, Datatype: schema.XSDString}
	}
}

// mappingFields indexes the values of a mapping node by key
func mappingFields(node *yaml.Node) map[string]*yaml.Node {
	fields := make(map[string]*yaml.Node, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		fields[node.Content[i].Value] = node.Content[i+1]
	}
	return fields
}
