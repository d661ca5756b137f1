/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: pattern.go
Description: PatternGrammar generates strings matching an XSD pattern facet by
walking the parsed regular expression.
*/

package grammar

import (
	"fmt"
	"math/rand"
	"regexp"
	"regexp/syntax"
	"strings"

	"github.com/kleascm/akaylee-ontogen/pkg/schema"
)

// unboundedRepeat caps *, + and {n,} repetitions
const unboundedRepeat = 10

// PatternGrammar yields strings matching a regular expression
type PatternGrammar struct {
	pattern string
	re      *syntax.Regexp
	check   *regexp.Regexp
}

// NewPatternGrammar compiles an XSD pattern. XSD patterns match the whole value.
func NewPatternGrammar(pattern string) (*PatternGrammar, error) {
	re, err := syntax.Parse(pattern, syntax.Perl)
	if err != nil {
		return nil, fmt.Errorf("%w: pattern %q: %v", ErrUnsupportedRange, pattern, err)
	}
	check, err := regexp.Compile("^(?:" + pattern + ")$")
	if err != nil {
		return nil, fmt.Errorf("%w: pattern %q: %v", ErrUnsupportedRange, pattern, err)
	}
	return &PatternGrammar{pattern: pattern, re: re.Simplify(), check: check}, nil
}

// Generate returns a string matching the pattern
func (g *PatternGrammar) Generate(rng *rand.Rand) (schema.Literal, error) {
	var b strings.Builder
	g.walk(rng, g.re, &b)
	return schema.Literal{Value: b.String(), Datatype: schema.XSDString}, nil
}

// Name returns the name of the grammar.
func (g *PatternGrammar) Name() string {
	return "PatternGrammar"
}

// Matches reports whether s matches the whole pattern
func (g *PatternGrammar) Matches(s string) bool {
	return g.check.MatchString(s)
}

func (g *PatternGrammar) walk(rng *rand.Rand, re *syntax.Regexp, b *strings.Builder) {
	switch re.Op {
	case syntax.OpLiteral:
		for _, r := range re.Rune {
			b.WriteRune(r)
		}
	case syntax.OpCharClass:
		b.WriteRune(pickRune(rng, re.Rune))
	case syntax.OpAnyCharNotNL, syntax.OpAnyChar:
		b.WriteByte(alphanumeric[rng.Intn(len(alphanumeric))])
	case syntax.OpCapture:
		g.walk(rng, re.Sub[0], b)
	case syntax.OpConcat:
		for _, sub := range re.Sub {
			g.walk(rng, sub, b)
		}
	case syntax.OpAlternate:
		g.walk(rng, re.Sub[rng.Intn(len(re.Sub))], b)
	case syntax.OpStar:
		g.repeat(rng, re.Sub[0], 0, unboundedRepeat, b)
	case syntax.OpPlus:
		g.repeat(rng, re.Sub[0], 1, unboundedRepeat, b)
	case syntax.OpQuest:
		g.repeat(rng, re.Sub[0], 0, 1, b)
	case syntax.OpRepeat:
		max := re.Max
		if max < 0 {
			max = re.Min + unboundedRepeat
		}
		g.repeat(rng, re.Sub[0], re.Min, max, b)
	}
	// Anchors, word boundaries and empty matches produce nothing
}

func (g *PatternGrammar) repeat(rng *rand.Rand, re *syntax.Regexp, min, max int, b *strings.Builder) {
	n := min
	if max > min {
		n += rng.Intn(max - min + 1)
	}
	for i := 0; i < n; i++ {
		g.walk(rng, re, b)
	}
}

// pickRune draws a rune from class ranges, preferring printable ASCII
func pickRune(rng *rand.Rand, ranges []rune) rune {
	printable := clip(ranges, ' ', '~')
	if len(printable) > 0 {
		ranges = printable
	}
	total := 0
	for i := 0; i+1 < len(ranges); i += 2 {
		total += int(ranges[i+1]-ranges[i]) + 1
	}
	if total == 0 {
		return 'a'
	}
	n := rng.Intn(total)
	for i := 0; i+1 < len(ranges); i += 2 {
		size := int(ranges[i+1]-ranges[i]) + 1
		if n < size {
			return ranges[i] + rune(n)
		}
		n -= size
	}
	return ranges[0]
}

// clip intersects class ranges with [lo, hi]
func clip(ranges []rune, lo, hi rune) []rune {
	var out []rune
	for i := 0; i+1 < len(ranges); i += 2 {
		from, to := ranges[i], ranges[i+1]
		if from < lo {
			from = lo
		}
		if to > hi {
			to = hi
		}
		if from <= to {
			out = append(out, from, to)
		}
	}
	return out
}
