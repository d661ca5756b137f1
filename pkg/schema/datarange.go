/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: datarange.go
Description: Data ranges and literals. A data range is a datatype, a facet-restricted
datatype, an enumeration of literals, or a boolean combination of other ranges.
*/

package schema

import (
	"fmt"
	"sort"
	"strings"
)

// RangeKind identifies the variant of a DataRange
type RangeKind int

const (
	RangeDatatype RangeKind = iota
	RangeRestriction
	RangeOneOf
	RangeComplement
	RangeUnion
	RangeIntersection
)

// String returns the short name of the kind
func (k RangeKind) String() string {
	switch k {
	case RangeDatatype:
		return "datatype"
	case RangeRestriction:
		return "restriction"
	case RangeOneOf:
		return "oneOf"
	case RangeComplement:
		return "not"
	case RangeUnion:
		return "or"
	case RangeIntersection:
		return "and"
	default:
		return fmt.Sprintf("range(%d)", int(k))
	}
}

// Facet names
const (
	FacetMinInclusive = "minInclusive"
	FacetMaxInclusive = "maxInclusive"
	FacetMinExclusive = "minExclusive"
	FacetMaxExclusive = "maxExclusive"
	FacetLength       = "length"
	FacetMinLength    = "minLength"
	FacetMaxLength    = "maxLength"
	FacetPattern      = "pattern"
)

// Literal is a typed lexical value
type Literal struct {
	Value    string `yaml:"value" json:"value"`
	Datatype string `yaml:"datatype,omitempty" json:"datatype,omitempty"`
}

// Key returns the canonical form of the literal
func (l Literal) Key() string {
	dt := l.Datatype
	if dt == "" {
		dt = XSDString
	}
	return fmt.Sprintf("%q^^%s", l.Value, dt)
}

// IsZero reports whether the literal is unset
func (l Literal) IsZero() bool {
	return l.Value == "" && l.Datatype == ""
}

// Facet constrains a datatype
type Facet struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

// DataRange is a data range expression. Only the fields relevant to Kind are set.
type DataRange struct {
	Kind     RangeKind    `yaml:"kind"`
	Datatype string       `yaml:"datatype,omitempty"`
	Facets   []Facet      `yaml:"facets,omitempty"`
	Literals []Literal    `yaml:"literals,omitempty"`
	Operands []*DataRange `yaml:"operands,omitempty"`
}

// Datatype returns the range of a plain datatype
func Datatype(iri string) *DataRange {
	return &DataRange{Kind: RangeDatatype, Datatype: iri}
}

// Restricted returns a datatype restricted by facets
func Restricted(datatype string, facets ...Facet) *DataRange {
	fs := append([]Facet(nil), facets...)
	sort.Slice(fs, func(i, j int) bool { return fs[i].Name < fs[j].Name })
	return &DataRange{Kind: RangeRestriction, Datatype: datatype, Facets: fs}
}

// LiteralsOf returns an enumeration of literals
func LiteralsOf(literals ...Literal) *DataRange {
	ls := append([]Literal(nil), literals...)
	sort.Slice(ls, func(i, j int) bool { return ls[i].Key() < ls[j].Key() })
	return &DataRange{Kind: RangeOneOf, Literals: ls}
}

// ComplementOf returns the complement of a range
func ComplementOf(r *DataRange) *DataRange {
	return &DataRange{Kind: RangeComplement, Operands: []*DataRange{r}}
}

// UnionOf returns the union of ranges
func UnionOf(ranges ...*DataRange) *DataRange {
	return &DataRange{Kind: RangeUnion, Operands: sortedRanges(ranges)}
}

// IntersectionOf returns the intersection of ranges
func IntersectionOf(ranges ...*DataRange) *DataRange {
	return &DataRange{Kind: RangeIntersection, Operands: sortedRanges(ranges)}
}

func sortedRanges(ranges []*DataRange) []*DataRange {
	out := append([]*DataRange(nil), ranges...)
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

// Facet returns the value of the named facet
func (r *DataRange) Facet(name string) (string, bool) {
	for _, f := range r.Facets {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Key returns the canonical form of the range
func (r *DataRange) Key() string {
	if r == nil {
		return ""
	}
	switch r.Kind {
	case RangeDatatype:
		return "<" + r.Datatype + ">"
	case RangeRestriction:
		parts := make([]string, len(r.Facets))
		for i, f := range r.Facets {
			parts[i] = fmt.Sprintf("%s=%q", f.Name, f.Value)
		}
		return fmt.Sprintf("<%s>[%s]", r.Datatype, strings.Join(parts, ","))
	case RangeOneOf:
		parts := make([]string, len(r.Literals))
		for i, l := range r.Literals {
			parts[i] = l.Key()
		}
		return "{" + strings.Join(parts, ",") + "}"
	default:
		parts := make([]string, len(r.Operands))
		for i, op := range r.Operands {
			parts[i] = op.Key()
		}
		return r.Kind.String() + "(" + strings.Join(parts, ",") + ")"
	}
}
