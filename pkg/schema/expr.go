/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: expr.go
Description: Class expressions as a tagged union. Covers named classes, boolean
combinators, enumerations and every object and data property restriction the
generator understands. Each expression has a canonical key used for equality,
de-duplication and deterministic ordering.
*/

package schema

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ExprKind identifies the variant of a ClassExpr
type ExprKind int

const (
	ExprClass ExprKind = iota
	ExprIntersection
	ExprUnion
	ExprComplement
	ExprOneOf
	ExprObjectSome
	ExprObjectAll
	ExprObjectHasValue
	ExprObjectHasSelf
	ExprObjectMin
	ExprObjectMax
	ExprObjectExact
	ExprDataSome
	ExprDataAll
	ExprDataHasValue
	ExprDataMin
	ExprDataMax
	ExprDataExact
)

var exprKindNames = map[ExprKind]string{
	ExprClass:          "class",
	ExprIntersection:   "and",
	ExprUnion:          "or",
	ExprComplement:     "not",
	ExprOneOf:          "oneOf",
	ExprObjectSome:     "some",
	ExprObjectAll:      "only",
	ExprObjectHasValue: "value",
	ExprObjectHasSelf:  "self",
	ExprObjectMin:      "min",
	ExprObjectMax:      "max",
	ExprObjectExact:    "exactly",
	ExprDataSome:       "dataSome",
	ExprDataAll:        "dataOnly",
	ExprDataHasValue:   "dataValue",
	ExprDataMin:        "dataMin",
	ExprDataMax:        "dataMax",
	ExprDataExact:      "dataExactly",
}

// String returns the short name of the kind
func (k ExprKind) String() string {
	if name, ok := exprKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ClassExpr is a class expression. Only the fields relevant to Kind are set.
type ClassExpr struct {
	Kind        ExprKind     `yaml:"kind"`
	Class       string       `yaml:"class,omitempty"`       // Named class IRI
	Operands    []*ClassExpr `yaml:"operands,omitempty"`    // Intersection, union and complement operands
	Individuals []string     `yaml:"individuals,omitempty"` // OneOf members
	Property    string       `yaml:"property,omitempty"`    // Restricted property IRI
	Filler      *ClassExpr   `yaml:"filler,omitempty"`      // Object restriction filler
	Range       *DataRange   `yaml:"range,omitempty"`       // Data restriction filler
	Value       string       `yaml:"value,omitempty"`       // Object HasValue individual
	Literal     Literal      `yaml:"literal,omitempty"`     // Data HasValue literal
	Cardinality int          `yaml:"cardinality,omitempty"` // Cardinality bound

	key string
}

// NamedClass returns the expression for a named class
func NamedClass(iri string) *ClassExpr {
	return &ClassExpr{Kind: ExprClass, Class: iri}
}

// Intersection returns the intersection of the operands, ordered by key
func Intersection(operands ...*ClassExpr) *ClassExpr {
	return &ClassExpr{Kind: ExprIntersection, Operands: sortedOperands(operands)}
}

// Union returns the union of the operands, ordered by key
func Union(operands ...*ClassExpr) *ClassExpr {
	return &ClassExpr{Kind: ExprUnion, Operands: sortedOperands(operands)}
}

// Complement returns the complement of operand
func Complement(operand *ClassExpr) *ClassExpr {
	return &ClassExpr{Kind: ExprComplement, Operands: []*ClassExpr{operand}}
}

// OneOf returns an enumeration of named individuals
func OneOf(individuals ...string) *ClassExpr {
	members := append([]string(nil), individuals...)
	sort.Strings(members)
	return &ClassExpr{Kind: ExprOneOf, Individuals: dedupStrings(members)}
}

// ObjectSome returns an existential object restriction
func ObjectSome(property string, filler *ClassExpr) *ClassExpr {
	return &ClassExpr{Kind: ExprObjectSome, Property: property, Filler: orThing(filler)}
}

// ObjectAll returns a universal object restriction
func ObjectAll(property string, filler *ClassExpr) *ClassExpr {
	return &ClassExpr{Kind: ExprObjectAll, Property: property, Filler: orThing(filler)}
}

// ObjectHasValue returns an object value restriction
func ObjectHasValue(property, individual string) *ClassExpr {
	return &ClassExpr{Kind: ExprObjectHasValue, Property: property, Value: individual}
}

// ObjectHasSelf returns a self restriction
func ObjectHasSelf(property string) *ClassExpr {
	return &ClassExpr{Kind: ExprObjectHasSelf, Property: property}
}

// ObjectMin returns a qualified minimum cardinality restriction
func ObjectMin(property string, n int, filler *ClassExpr) *ClassExpr {
	return &ClassExpr{Kind: ExprObjectMin, Property: property, Cardinality: n, Filler: orThing(filler)}
}

// ObjectMax returns a qualified maximum cardinality restriction
func ObjectMax(property string, n int, filler *ClassExpr) *ClassExpr {
	return &ClassExpr{Kind: ExprObjectMax, Property: property, Cardinality: n, Filler: orThing(filler)}
}

// ObjectExact returns a qualified exact cardinality restriction
func ObjectExact(property string, n int, filler *ClassExpr) *ClassExpr {
	return &ClassExpr{Kind: ExprObjectExact, Property: property, Cardinality: n, Filler: orThing(filler)}
}

// DataSome returns an existential data restriction
func DataSome(property string, r *DataRange) *ClassExpr {
	return &ClassExpr{Kind: ExprDataSome, Property: property, Range: orLiteral(r)}
}

// DataAll returns a universal data restriction
func DataAll(property string, r *DataRange) *ClassExpr {
	return &ClassExpr{Kind: ExprDataAll, Property: property, Range: orLiteral(r)}
}

// DataHasValue returns a data value restriction
func DataHasValue(property string, lit Literal) *ClassExpr {
	return &ClassExpr{Kind: ExprDataHasValue, Property: property, Literal: lit}
}

// DataMin returns a qualified minimum data cardinality restriction
func DataMin(property string, n int, r *DataRange) *ClassExpr {
	return &ClassExpr{Kind: ExprDataMin, Property: property, Cardinality: n, Range: orLiteral(r)}
}

// DataMax returns a qualified maximum data cardinality restriction
func DataMax(property string, n int, r *DataRange) *ClassExpr {
	return &ClassExpr{Kind: ExprDataMax, Property: property, Cardinality: n, Range: orLiteral(r)}
}

// DataExact returns a qualified exact data cardinality restriction
func DataExact(property string, n int, r *DataRange) *ClassExpr {
	return &ClassExpr{Kind: ExprDataExact, Property: property, Cardinality: n, Range: orLiteral(r)}
}

func orThing(filler *ClassExpr) *ClassExpr {
	if filler == nil {
		return NamedClass(OWLThing)
	}
	return filler
}

func orLiteral(r *DataRange) *DataRange {
	if r == nil {
		return Datatype(RDFSLiteral)
	}
	return r
}

func sortedOperands(operands []*ClassExpr) []*ClassExpr {
	out := make([]*ClassExpr, 0, len(operands))
	for _, op := range operands {
		out = InsertExpr(out, op)
	}
	return out
}

// IsAnonymous reports whether the expression is anything other than a named class
func (e *ClassExpr) IsAnonymous() bool {
	return e.Kind != ExprClass
}

// IsObjectRestriction reports whether the expression restricts an object property
func (e *ClassExpr) IsObjectRestriction() bool {
	return e.Kind >= ExprObjectSome && e.Kind <= ExprObjectExact
}

// IsDataRestriction reports whether the expression restricts a data property
func (e *ClassExpr) IsDataRestriction() bool {
	return e.Kind >= ExprDataSome && e.Kind <= ExprDataExact
}

// IsQuantified reports whether the expression is an existential, universal or
// cardinality restriction
func (e *ClassExpr) IsQuantified() bool {
	switch e.Kind {
	case ExprObjectSome, ExprObjectAll, ExprObjectMin, ExprObjectMax, ExprObjectExact,
		ExprDataSome, ExprDataAll, ExprDataMin, ExprDataMax, ExprDataExact:
		return true
	}
	return false
}

// IsHasValue reports whether the expression is an object or data value restriction
func (e *ClassExpr) IsHasValue() bool {
	return e.Kind == ExprObjectHasValue || e.Kind == ExprDataHasValue
}

// Key returns the canonical form of the expression
func (e *ClassExpr) Key() string {
	if e == nil {
		return ""
	}
	if e.key != "" {
		return e.key
	}
	var b strings.Builder
	switch e.Kind {
	case ExprClass:
		b.WriteString("<" + e.Class + ">")
	case ExprIntersection, ExprUnion, ExprComplement:
		b.WriteString(e.Kind.String() + "(")
		for i, op := range e.Operands {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(op.Key())
		}
		b.WriteString(")")
	case ExprOneOf:
		b.WriteString("oneOf(" + strings.Join(e.Individuals, ",") + ")")
	case ExprObjectHasValue:
		b.WriteString(fmt.Sprintf("value(%s,%s)", e.Property, e.Value))
	case ExprObjectHasSelf:
		b.WriteString(fmt.Sprintf("self(%s)", e.Property))
	case ExprDataHasValue:
		b.WriteString(fmt.Sprintf("dataValue(%s,%s)", e.Property, e.Literal.Key()))
	case ExprObjectSome, ExprObjectAll:
		b.WriteString(fmt.Sprintf("%s(%s,%s)", e.Kind, e.Property, e.Filler.Key()))
	case ExprObjectMin, ExprObjectMax, ExprObjectExact:
		b.WriteString(fmt.Sprintf("%s(%s,%s,%s)", e.Kind, e.Property, strconv.Itoa(e.Cardinality), e.Filler.Key()))
	case ExprDataSome, ExprDataAll:
		b.WriteString(fmt.Sprintf("%s(%s,%s)", e.Kind, e.Property, e.Range.Key()))
	case ExprDataMin, ExprDataMax, ExprDataExact:
		b.WriteString(fmt.Sprintf("%s(%s,%s,%s)", e.Kind, e.Property, strconv.Itoa(e.Cardinality), e.Range.Key()))
	default:
		b.WriteString(e.Kind.String())
	}
	e.key = b.String()
	return e.key
}

// String returns the canonical key
func (e *ClassExpr) String() string {
	return e.Key()
}

// Equal reports whether two expressions have the same canonical form
func (e *ClassExpr) Equal(other *ClassExpr) bool {
	if e == nil || other == nil {
		return e == other
	}
	return e.Key() == other.Key()
}

// NamedClasses returns every named class mentioned in the expression, sorted
func (e *ClassExpr) NamedClasses() []string {
	seen := make(map[string]bool)
	var walk func(*ClassExpr)
	walk = func(x *ClassExpr) {
		if x == nil {
			return
		}
		if x.Kind == ExprClass {
			seen[x.Class] = true
		}
		for _, op := range x.Operands {
			walk(op)
		}
		walk(x.Filler)
	}
	walk(e)
	out := make([]string, 0, len(seen))
	for iri := range seen {
		out = append(out, iri)
	}
	sort.Strings(out)
	return out
}

// InsertExpr adds e to a key-sorted slice unless an equal expression is present
func InsertExpr(list []*ClassExpr, e *ClassExpr) []*ClassExpr {
	if e == nil {
		return list
	}
	key := e.Key()
	i := sort.Search(len(list), func(i int) bool { return list[i].Key() >= key })
	if i < len(list) && list[i].Key() == key {
		return list
	}
	list = append(list, nil)
	copy(list[i+1:], list[i:])
	list[i] = e
	return list
}

// ContainsExpr reports whether a key-sorted slice holds an expression equal to e
func ContainsExpr(list []*ClassExpr, e *ClassExpr) bool {
	key := e.Key()
	i := sort.Search(len(list), func(i int) bool { return list[i].Key() >= key })
	return i < len(list) && list[i].Key() == key
}

func dedupStrings(sorted []string) []string {
	out := sorted[:0]
	for i, s := range sorted {
		if i == 0 || s != sorted[i-1] {
			out = append(out, s)
		}
	}
	return out
}
