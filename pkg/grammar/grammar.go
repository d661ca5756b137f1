/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: grammar.go
Description: Grammar interface and datatype grammars for literal generation. Each
grammar produces random, valid lexical values of one XSD datatype from an explicit
random source, so generation is reproducible from a seed.
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

var (
	// ErrInvalidRange is returned when a sampling request has min > max
	ErrInvalidRange = errors.New("invalid sampling range")
	// ErrUnsupportedDatatype is returned for datatypes no grammar covers
	ErrUnsupportedDatatype = errors.New("unsupported datatype")
)

// Grammar defines the interface for literal generation.
type Grammar interface {
	// Generate returns a new valid literal.
	Generate(rng *rand.Rand) (schema.Literal, error)
	// Name returns the name of the grammar.
	Name() string
}

const alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ1234567890"

// ConstantGrammar always yields the same literal
type ConstantGrammar struct {
	Literal schema.Literal
}

// Generate returns the constant
func (g *ConstantGrammar) Generate(_ *rand.Rand) (schema.Literal, error) {
	return g.Literal, nil
}

// Name returns the name of the grammar.
func (g *ConstantGrammar) Name() string {
	return "ConstantGrammar"
}

// BooleanGrammar flips a fair coin
type BooleanGrammar struct{}

// Generate returns "true" or "false"
func (g *BooleanGrammar) Generate(rng *rand.Rand) (schema.Literal, error) {
	return schema.Literal{Value: strconv.FormatBool(rng.Float64() < 0.5), Datatype: schema.XSDBoolean}, nil
}

// Name returns the name of the grammar.
func (g *BooleanGrammar) Name() string {
	return "BooleanGrammar"
}

// FloatGrammar yields doubles, floats or decimals in [Min, Max)
type FloatGrammar struct {
	Datatype string
	Min      float64
	Max      float64
}

// Generate returns a value in range, formatted for the datatype
func (g *FloatGrammar) Generate(rng *rand.Rand) (schema.Literal, error) {
	v, err := RandomFloat(rng, g.Min, g.Max)
	if err != nil {
		return schema.Literal{}, err
	}
	var lexical string
	switch g.Datatype {
	case schema.XSDDecimal:
		// At most two fraction digits
		rounded := math.Round(v*100) / 100
		if rounded == 0 {
			rounded = 0
		}
		lexical = strconv.FormatFloat(rounded, 'f', -1, 64)
	case schema.XSDFloat:
		lexical = strconv.FormatFloat(float64(float32(v)), 'g', -1, 32)
	default:
		lexical = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return schema.Literal{Value: lexical, Datatype: g.Datatype}, nil
}

// Name returns the name of the grammar.
func (g *FloatGrammar) Name() string {
	return "FloatGrammar"
}

// IntegerGrammar yields integers in [Min, Max)
type IntegerGrammar struct {
	Datatype string
	Min      int64
	Max      int64
}

// Generate returns a value in range
func (g *IntegerGrammar) Generate(rng *rand.Rand) (schema.Literal, error) {
	v, err := RandomInt64(rng, g.Min, g.Max)
	if err != nil {
		return schema.Literal{}, err
	}
	return schema.Literal{Value: strconv.FormatInt(v, 10), Datatype: g.Datatype}, nil
}

// Name returns the name of the grammar.
func (g *IntegerGrammar) Name() string {
	return "IntegerGrammar"
}

// StringGrammar yields alphanumeric strings with a length in [MinLength, MaxLength]
type StringGrammar struct {
	MinLength int
	MaxLength int
}

// Generate returns a random alphanumeric string
func (g *StringGrammar) Generate(rng *rand.Rand) (schema.Literal, error) {
	n, err := RandomInt64(rng, int64(g.MinLength), int64(g.MaxLength)+1)
	if err != nil {
		return schema.Literal{}, err
	}
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = alphanumeric[rng.Intn(len(alphanumeric))]
	}
	return schema.Literal{Value: string(buf), Datatype: schema.XSDString}, nil
}

// Name returns the name of the grammar.
func (g *StringGrammar) Name() string {
	return "StringGrammar"
}

// RandomInt64 draws uniformly from [min, max). Equal bounds return min.
func RandomInt64(rng *rand.Rand, min, max int64) (int64, error) {
	if max < min {
		return 0, fmt.Errorf("%w: [%d, %d)", ErrInvalidRange, min, max)
	}
	if max == min {
		return min, nil
	}
	span := uint64(max - min)
	return min + int64(uint64n(rng, span)), nil
}

// RandomFloat draws uniformly from [min, max). Equal bounds return min.
func RandomFloat(rng *rand.Rand, min, max float64) (float64, error) {
	if max < min || math.IsNaN(min) || math.IsNaN(max) {
		return 0, fmt.Errorf("%w: [%g, %g)", ErrInvalidRange, min, max)
	}
	if max == min {
		return min, nil
	}
	return min + rng.Float64()*(max-min), nil
}

// uint64n draws uniformly from [0, n) without modulo bias
func uint64n(rng *rand.Rand, n uint64) uint64 {
	if n&(n-1) == 0 {
		return rng.Uint64() & (n - 1)
	}
	limit := math.MaxUint64 - math.MaxUint64%n
	for {
		v := rng.Uint64()
		if v < limit {
			return v % n
		}
	}
}
