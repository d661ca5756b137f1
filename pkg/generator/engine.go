/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: engine.go
Description: Instance generation engine. Runs the configured number of descriptions
from a root class over a conceptual model, sequentially with one seeded random
source or in parallel with one sub-stream and scope per description, and collects
the generated assertions into a single ordered set.
*/

package generator

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/kleascm/akaylee-ontogen/pkg/assertions"
	"github.com/kleascm/akaylee-ontogen/pkg/config"
	"github.com/kleascm/akaylee-ontogen/pkg/grammar"
	"github.com/kleascm/akaylee-ontogen/pkg/schema"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrInvalidRange is returned when a sampling request has min > max
	ErrInvalidRange = grammar.ErrInvalidRange
	// ErrUnknownClass is returned when the root class is not in the model
	ErrUnknownClass = errors.New("unknown class")
)

// Result holds the outcome of a generation run
type Result struct {
	RunID     string            `json:"run_id"`     // Unique identifier of the run
	OutputIRI string            `json:"output_iri"` // IRI of the generated ontology
	Imports   string            `json:"imports"`    // IRI of the schema ontology
	Root      string            `json:"root"`       // Root class IRI
	Mode      config.Mode       `json:"mode"`       // Preset the run used
	Count     int               `json:"count"`      // Requested descriptions
	Seed      int64             `json:"seed"`       // Effective seed
	Duration  time.Duration     `json:"duration"`   // Wall time of the run
	Stats     *assertions.Stats `json:"stats"`      // Run statistics
	Set       *assertions.Set   `json:"-"`          // Generated assertions in order
}

// Engine generates instance data from a conceptual model
type Engine struct {
	model     *schema.Model
	config    *config.GenerationConfig
	logger    *logrus.Logger
	reporters []Reporter
}

// NewEngine creates a new generation engine. A nil logger falls back to a fresh logrus logger.
func NewEngine(model *schema.Model, cfg *config.GenerationConfig, logger *logrus.Logger) *Engine {
	if logger == nil {
		logger = logrus.New()
	}
	return &Engine{
		model:  model,
		config: cfg,
		logger: logger,
	}
}

// AddReporter registers a Reporter for generation telemetry
func (e *Engine) AddReporter(reporter Reporter) {
	e.reporters = append(e.reporters, reporter)
}

// Generate runs every description from the class named rootIRI
func (e *Engine) Generate(ctx context.Context, rootIRI string) (*Result, error) {
	if err := e.config.Validate(); err != nil {
		return nil, err
	}
	root, ok := e.model.Class(rootIRI)
	if !ok {
		return nil, fmt.Errorf("root %s: %w", rootIRI, ErrUnknownClass)
	}

	start := time.Now()
	result := &Result{
		RunID:     uuid.New().String(),
		OutputIRI: e.config.OutputIRI(),
		Imports:   e.model.OntologyIRI,
		Root:      rootIRI,
		Mode:      e.config.Mode,
		Count:     e.config.Count,
		Seed:      e.config.EffectiveSeed(),
		Stats:     &assertions.Stats{},
		Set:       assertions.NewSet(),
	}

	log := e.logger.WithFields(logrus.Fields{
		"component": "generate",
		"run_id":    result.RunID,
	})
	log.WithFields(logrus.Fields{
		"root":    rootIRI,
		"count":   e.config.Count,
		"seed":    result.Seed,
		"workers": e.config.Workers,
	}).Info("Begin generating descriptions")

	var err error
	if e.config.Workers > 1 {
		err = e.generateParallel(ctx, root, result)
	} else {
		err = e.generateSequential(ctx, root, result)
	}
	if err != nil {
		return nil, err
	}

	result.Duration = time.Since(start)
	result.Stats.Assertions = int64(result.Set.Len())
	log.WithFields(logrus.Fields{
		"individuals": result.Stats.Individuals,
		"assertions":  result.Stats.Assertions,
		"warnings":    result.Stats.Warnings,
		"duration":    result.Duration,
	}).Debug("Generation completed")
	return result, nil
}

// generateSequential runs every description in one scope. Individuals minted by
// earlier descriptions stay available for reuse by later ones.
func (e *Engine) generateSequential(ctx context.Context, root *schema.ClassNode, result *Result) error {
	rng := rand.New(rand.NewSource(result.Seed))
	s := e.newScope(rng, result.Set, root, result.Stats, "")

	for i := 0; i < e.config.Count; i++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("generation cancelled after %d descriptions: %w", i, err)
		}
		before, minted := result.Set.Len(), s.minted
		if _, err := s.descend(root, true); err != nil {
			return fmt.Errorf("description %d: %w", i, err)
		}
		s.resetVisited()
		result.Stats.IncrementDescriptions()
		e.notifyDescription(i, s.minted-minted, result.Set.All()[before:])
	}
	return nil
}

// generateParallel runs descriptions on a bounded worker group. Each description
// has its own random sub-stream, scope and naming prefix; sets merge in index order.
func (e *Engine) generateParallel(ctx context.Context, root *schema.ClassNode, result *Result) error {
	sets := make([]*assertions.Set, e.config.Count)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.config.Workers)
	for i := 0; i < e.config.Count; i++ {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return fmt.Errorf("generation cancelled: %w", err)
			}
			set := assertions.NewSet()
			rng := rand.New(rand.NewSource(result.Seed + int64(i)))
			s := e.newScope(rng, set, root, result.Stats, fmt.Sprintf("D%d_", i))
			if _, err := s.descend(root, true); err != nil {
				return fmt.Errorf("description %d: %w", i, err)
			}
			sets[i] = set
			result.Stats.IncrementDescriptions()
			e.notifyDescription(i, s.minted, set.All())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, set := range sets {
		result.Set.Merge(set)
	}
	return nil
}

func (e *Engine) notifyDescription(index int, individuals int64, added []assertions.Assertion) {
	counts := make(map[string]int)
	for _, a := range added {
		counts[a.Kind.String()]++
	}
	event := DescriptionEvent{Index: index, Individuals: individuals, Assertions: counts}
	for _, r := range e.reporters {
		r.OnDescription(event)
	}
}

func (e *Engine) notifyWarning(kind string) {
	for _, r := range e.reporters {
		r.OnWarning(kind)
	}
}
