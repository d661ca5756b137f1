/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: datatypes.go
Description: Grammar selection for built-in datatypes and facet restrictions, and
sampling from data range expressions.
*/

package grammar

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strconv"

	"github.com/kleascm/akaylee-ontogen/pkg/schema"
)

// ErrUnsupportedRange is returned for data ranges that cannot be sampled
var ErrUnsupportedRange = errors.New("unsupported data range")

const (
	floatDefault      = 100.0
	floatFacetDefault = 10000.0
	exclusiveDelta    = 0.0001
	stringMinLength   = 1
	stringMaxLength   = 10
	facetMaxLength    = 100
)

// ForDatatype returns the grammar of an unrestricted built-in datatype
func ForDatatype(datatype string) (Grammar, error) {
	switch datatype {
	case schema.RDFSLiteral:
		return &ConstantGrammar{Literal: schema.Literal{Value: "literal", Datatype: schema.RDFSLiteral}}, nil
	case schema.XSDBoolean:
		return &BooleanGrammar{}, nil
	case schema.XSDDecimal, schema.XSDDouble, schema.XSDFloat:
		return &FloatGrammar{Datatype: datatype, Min: -floatDefault, Max: floatDefault}, nil
	case schema.XSDInt, schema.XSDInteger, schema.XSDLong, schema.XSDNonNegativeInteger, schema.XSDPositiveInteger:
		min, max := integerLimits(datatype)
		return &IntegerGrammar{Datatype: datatype, Min: min, Max: max}, nil
	case schema.XSDString:
		return &StringGrammar{MinLength: stringMinLength, MaxLength: stringMaxLength}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDatatype, datatype)
	}
}

// integerLimits returns the half-open value range of an integer datatype
func integerLimits(datatype string) (int64, int64) {
	switch datatype {
	case schema.XSDInt:
		return math.MinInt32, math.MaxInt32
	case schema.XSDNonNegativeInteger:
		return 0, math.MaxInt64
	case schema.XSDPositiveInteger:
		return 1, math.MaxInt64
	default:
		return math.MinInt64, math.MaxInt64
	}
}

// ForRestriction returns the grammar of a facet-restricted built-in datatype
func ForRestriction(datatype string, facets []schema.Facet) (Grammar, error) {
	r := schema.Restricted(datatype, facets...)

	switch datatype {
	case schema.XSDDecimal, schema.XSDDouble, schema.XSDFloat:
		min, max := -floatFacetDefault, floatFacetDefault
		if v, ok := r.Facet(schema.FacetMinInclusive); ok {
			f, err := parseFloat(v)
			if err != nil {
				return nil, err
			}
			min = f
		} else if v, ok := r.Facet(schema.FacetMinExclusive); ok {
			f, err := parseFloat(v)
			if err != nil {
				return nil, err
			}
			min = f + exclusiveDelta
		}
		if v, ok := r.Facet(schema.FacetMaxInclusive); ok {
			f, err := parseFloat(v)
			if err != nil {
				return nil, err
			}
			max = f
		} else if v, ok := r.Facet(schema.FacetMaxExclusive); ok {
			f, err := parseFloat(v)
			if err != nil {
				return nil, err
			}
			max = f
		}
		return &FloatGrammar{Datatype: datatype, Min: min, Max: max}, nil

	case schema.XSDInt, schema.XSDInteger, schema.XSDLong, schema.XSDNonNegativeInteger, schema.XSDPositiveInteger:
		min, max := integerLimits(datatype)
		if v, ok := r.Facet(schema.FacetMinInclusive); ok {
			n, err := parseInt(v)
			if err != nil {
				return nil, err
			}
			min = n
		} else if v, ok := r.Facet(schema.FacetMinExclusive); ok {
			n, err := parseInt(v)
			if err != nil {
				return nil, err
			}
			min = saturatingAdd(n, 1)
		}
		if v, ok := r.Facet(schema.FacetMaxInclusive); ok {
			n, err := parseInt(v)
			if err != nil {
				return nil, err
			}
			max = saturatingAdd(n, 1)
		} else if v, ok := r.Facet(schema.FacetMaxExclusive); ok {
			n, err := parseInt(v)
			if err != nil {
				return nil, err
			}
			max = n
		}
		return &IntegerGrammar{Datatype: datatype, Min: min, Max: max}, nil

	case schema.XSDString:
		if p, ok := r.Facet(schema.FacetPattern); ok {
			return NewPatternGrammar(p)
		}
		if v, ok := r.Facet(schema.FacetLength); ok {
			n, err := parseLength(v)
			if err != nil {
				return nil, err
			}
			return &StringGrammar{MinLength: n, MaxLength: n}, nil
		}
		g := &StringGrammar{MinLength: stringMinLength, MaxLength: facetMaxLength}
		if v, ok := r.Facet(schema.FacetMinLength); ok {
			n, err := parseLength(v)
			if err != nil {
				return nil, err
			}
			g.MinLength = n
		}
		if v, ok := r.Facet(schema.FacetMaxLength); ok {
			n, err := parseLength(v)
			if err != nil {
				return nil, err
			}
			g.MaxLength = n
		}
		return g, nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDatatype, datatype)
	}
}

func parseFloat(v string) (float64, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: facet value %q is not a number", ErrUnsupportedRange, v)
	}
	return f, nil
}

func parseInt(v string) (int64, error) {
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: facet value %q is not an integer", ErrUnsupportedRange, v)
	}
	return n, nil
}

func parseLength(v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: facet value %q is not a length", ErrUnsupportedRange, v)
	}
	return n, nil
}

func saturatingAdd(n, d int64) int64 {
	if n > math.MaxInt64-d {
		return math.MaxInt64
	}
	return n + d
}

// Sample is a literal drawn from a data range. Negative marks a literal drawn
// from the complement of a datatype, to be asserted negatively.
type Sample struct {
	Literal  schema.Literal
	Negative bool
}

// SampleRange draws a literal from r. When r is a plain datatype and the property
// declares a different plain datatype, the declared one is used.
func SampleRange(rng *rand.Rand, r *schema.DataRange, declared *schema.DataRange) (Sample, error) {
	if r == nil {
		r = schema.Datatype(schema.RDFSLiteral)
	}

	switch r.Kind {
	case schema.RangeDatatype:
		datatype := r.Datatype
		if declared != nil && declared.Kind == schema.RangeDatatype && declared.Datatype != datatype {
			datatype = declared.Datatype
		}
		return generate(rng, ForDatatype, datatype)

	case schema.RangeRestriction:
		g, err := ForRestriction(r.Datatype, r.Facets)
		if err != nil {
			return Sample{}, err
		}
		lit, err := g.Generate(rng)
		return Sample{Literal: lit}, err

	case schema.RangeOneOf:
		if len(r.Literals) == 0 {
			return Sample{}, fmt.Errorf("%w: empty enumeration", ErrUnsupportedRange)
		}
		return Sample{Literal: r.Literals[rng.Intn(len(r.Literals))]}, nil

	case schema.RangeComplement:
		operand := r.Operands[0]
		if operand.Kind != schema.RangeDatatype {
			return Sample{}, fmt.Errorf("%w: complement of %s", ErrUnsupportedRange, operand.Key())
		}
		s, err := generate(rng, ForDatatype, operand.Datatype)
		s.Negative = true
		return s, err

	case schema.RangeUnion:
		if len(r.Operands) == 0 {
			return Sample{}, fmt.Errorf("%w: empty union", ErrUnsupportedRange)
		}
		operand := r.Operands[rng.Intn(len(r.Operands))]
		if operand.Kind != schema.RangeDatatype {
			return Sample{}, fmt.Errorf("%w: nested %s in union", ErrUnsupportedRange, operand.Key())
		}
		return generate(rng, ForDatatype, operand.Datatype)

	default:
		return Sample{}, fmt.Errorf("%w: %s", ErrUnsupportedRange, r.Key())
	}
}

func generate(rng *rand.Rand, lookup func(string) (Grammar, error), datatype string) (Sample, error) {
	g, err := lookup(datatype)
	if err != nil {
		return Sample{}, err
	}
	lit, err := g.Generate(rng)
	return Sample{Literal: lit}, err
}
