/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: config.go
Description: Generation configuration. Holds the sampling probabilities, description
count, seed and runtime limits, provides the device and object presets, validates
values with struct tags and loads overrides from viper.
*/

package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Mode selects a preset
type Mode string

const (
	ModeDevice Mode = "device"
	ModeObject Mode = "object"
)

// Probabilities holds every sampling probability used by the engine and guard
type Probabilities struct {
	ClassConstraintSelection           float64 `json:"class_constraint_selection_probability" validate:"gte=0,lte=1"`
	NewIndividual                      float64 `json:"new_individual_probability" validate:"gte=0,lte=1"`
	ClassAssertion                     float64 `json:"class_assertion_probability" validate:"gte=0,lte=1"`
	ObjectPropertyAssertion            float64 `json:"object_property_assertion_probability" validate:"gte=0,lte=1"`
	DataPropertyAssertion              float64 `json:"data_property_assertion_probability" validate:"gte=0,lte=1"`
	SuperClassSelection                float64 `json:"super_class_selection_probability" validate:"gte=0,lte=1"`
	EquivalentObjectPropertySelection  float64 `json:"equivalent_object_property_selection_probability" validate:"gte=0,lte=1"`
	EquivalentDataPropertySelection    float64 `json:"equivalent_data_property_selection_probability" validate:"gte=0,lte=1"`
	DisjointObjectPropertySelection    float64 `json:"disjoint_object_property_selection_probability" validate:"gte=0,lte=1"`
	DisjointDataPropertySelection      float64 `json:"disjoint_data_property_selection_probability" validate:"gte=0,lte=1"`
	SuperObjectPropertySelection       float64 `json:"super_object_property_selection_probability" validate:"gte=0,lte=1"`
	SuperDataPropertySelection         float64 `json:"super_data_property_selection_probability" validate:"gte=0,lte=1"`
	InverseObjectPropertySelection     float64 `json:"inverse_object_property_selection_probability" validate:"gte=0,lte=1"`
	SymmetricObjectPropertySelection   float64 `json:"symmetric_object_property_selection_probability" validate:"gte=0,lte=1"`
	AsymmetricObjectPropertySelection  float64 `json:"asymmetric_object_property_selection_probability" validate:"gte=0,lte=1"`
	IrreflexiveObjectPropertySelection float64 `json:"irreflexive_object_property_selection_probability" validate:"gte=0,lte=1"`
}

// Field describes one probability for flag registration and viper lookups
type Field struct {
	Key   string   // snake_case configuration key
	Usage string   // Flag help text
	Value *float64 // Target
}

// Fields returns every probability with its configuration key, in a fixed order
func (p *Probabilities) Fields() []Field {
	return []Field{
		{"class_constraint_selection_probability", "Probability of applying each anonymous class restriction", &p.ClassConstraintSelection},
		{"new_individual_probability", "Probability of minting a new individual instead of reusing one", &p.NewIndividual},
		{"class_assertion_probability", "Probability of emitting a class assertion for a non-root individual", &p.ClassAssertion},
		{"object_property_assertion_probability", "Probability of emitting an object property assertion", &p.ObjectPropertyAssertion},
		{"data_property_assertion_probability", "Probability of emitting a data property assertion", &p.DataPropertyAssertion},
		{"super_class_selection_probability", "Probability of also asserting a random superclass", &p.SuperClassSelection},
		{"equivalent_object_property_selection_probability", "Probability of restating an object assertion through an equivalent property", &p.EquivalentObjectPropertySelection},
		{"equivalent_data_property_selection_probability", "Probability of restating a data assertion through an equivalent property", &p.EquivalentDataPropertySelection},
		{"disjoint_object_property_selection_probability", "Probability of a negative object assertion through a disjoint property", &p.DisjointObjectPropertySelection},
		{"disjoint_data_property_selection_probability", "Probability of a negative data assertion through a disjoint property", &p.DisjointDataPropertySelection},
		{"super_object_property_selection_probability", "Probability of restating an object assertion through a super-property", &p.SuperObjectPropertySelection},
		{"super_data_property_selection_probability", "Probability of restating a data assertion through a super-property", &p.SuperDataPropertySelection},
		{"inverse_object_property_selection_probability", "Probability of emitting the inverse assertion", &p.InverseObjectPropertySelection},
		{"symmetric_object_property_selection_probability", "Probability of emitting the symmetric partner assertion", &p.SymmetricObjectPropertySelection},
		{"asymmetric_object_property_selection_probability", "Probability of emitting the asymmetric negative assertion", &p.AsymmetricObjectPropertySelection},
		{"irreflexive_object_property_selection_probability", "Probability of emitting the irreflexive negative self assertion", &p.IrreflexiveObjectPropertySelection},
	}
}

// GenerationConfig contains all parameters of a generation run
type GenerationConfig struct {
	// Run configuration
	Mode       Mode   `json:"mode" validate:"oneof=device object"` // Preset the run started from
	Count      int    `json:"count" validate:"gte=1"`              // Number of descriptions
	Seed       int64  `json:"seed"`                                // Base seed, combined with Count
	Workers    int    `json:"workers" validate:"gte=0"`            // Parallel descriptions (0 or 1 = sequential)
	MaxDepth   int    `json:"max_depth" validate:"gte=1"`          // Recursion bound per description
	OutputBase string `json:"output_base"`                         // Base IRI of the output ontology

	// Sampling configuration
	Probabilities
}

// Default returns the preset for mode. Unknown modes fall back to the object preset.
func Default(mode Mode) *GenerationConfig {
	cfg := &GenerationConfig{
		Mode:       mode,
		Count:      1,
		Seed:       0,
		Workers:    1,
		MaxDepth:   256,
		OutputBase: "http://ece.neu.edu/ontologies",
		Probabilities: Probabilities{
			ClassConstraintSelection:           0.9,
			NewIndividual:                      0.5,
			ClassAssertion:                     0.5,
			ObjectPropertyAssertion:            0.5,
			DataPropertyAssertion:              0.5,
			SuperClassSelection:                0.5,
			EquivalentObjectPropertySelection:  0.5,
			EquivalentDataPropertySelection:    0.5,
			DisjointObjectPropertySelection:    0.8,
			DisjointDataPropertySelection:      0.8,
			SuperObjectPropertySelection:       0.5,
			SuperDataPropertySelection:         0.5,
			InverseObjectPropertySelection:     0.8,
			SymmetricObjectPropertySelection:   0.8,
			AsymmetricObjectPropertySelection:  0.8,
			IrreflexiveObjectPropertySelection: 0.8,
		},
	}
	if mode == ModeDevice {
		cfg.ClassAssertion = 1.0
	} else {
		cfg.Mode = ModeObject
	}
	return cfg
}

// EffectiveSeed combines the base seed with the description count as
// seed*2^31 + count in 64-bit arithmetic, so distinct seeds stay distinct
func (c *GenerationConfig) EffectiveSeed() int64 {
	return c.Seed*(1<<31) + int64(c.Count)
}

// DescriptionName returns the capitalized mode name used in output IRIs
func (c *GenerationConfig) DescriptionName() string {
	if c.Mode == ModeDevice {
		return "DeviceDescription"
	}
	return "ObjectDescription"
}

// OutputIRI returns the IRI of the generated ontology
func (c *GenerationConfig) OutputIRI() string {
	return fmt.Sprintf("%s/%s%d.owl", strings.TrimRight(c.OutputBase, "/#"), c.DescriptionName(), c.Count)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// Validate checks the configuration for out-of-range values
func (c *GenerationConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError turns validator errors into readable messages
func formatValidationError(err error) error {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err
	}
	messages := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		messages = append(messages, formatFieldError(fe))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(messages, "; "))
}

func formatFieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch {
	case strings.HasSuffix(field, "_probability"):
		return fmt.Sprintf("%s is out of range [0, 1]", field)
	case fe.Tag() == "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case fe.Tag() == "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// FromViper builds a configuration from the preset named by "mode" and applies
// every key that is set in v
func FromViper(v *viper.Viper) *GenerationConfig {
	mode := Mode(strings.ToLower(v.GetString("mode")))
	if mode == "" {
		mode = ModeObject
	}
	cfg := Default(mode)
	if mode != ModeDevice && mode != ModeObject {
		cfg.Mode = mode
	}

	if v.IsSet("count") {
		cfg.Count = v.GetInt("count")
	}
	if v.IsSet("seed") {
		cfg.Seed = v.GetInt64("seed")
	}
	if v.IsSet("workers") {
		cfg.Workers = v.GetInt("workers")
	}
	if v.IsSet("max_depth") {
		cfg.MaxDepth = v.GetInt("max_depth")
	}
	if v.IsSet("output_base") {
		cfg.OutputBase = v.GetString("output_base")
	}
	for _, f := range cfg.Fields() {
		if v.IsSet(f.Key) {
			*f.Value = v.GetFloat64(f.Key)
		}
	}
	return cfg
}
