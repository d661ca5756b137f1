/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: config_test.go
Description: Tests for generation configuration presets, validation, derived
values and viper overrides.
*/

package config_test

import (
	"testing"

	"github.com/kleascm/akaylee-ontogen/pkg/config"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDefaultPresets tests the device and object presets
func TestDefaultPresets(t *testing.T) {
	device := config.Default(config.ModeDevice)
	object := config.Default(config.ModeObject)

	assert.Equal(t, 1.0, device.ClassAssertion)
	assert.Equal(t, 0.5, object.ClassAssertion)
	assert.Equal(t, 0.9, object.ClassConstraintSelection)
	assert.Equal(t, 0.8, object.IrreflexiveObjectPropertySelection)
	assert.Equal(t, 1, object.Count)
	assert.Equal(t, 1, object.Workers)
	assert.Equal(t, config.ModeObject, config.Default("unknown").Mode)

	require.NoError(t, device.Validate())
	require.NoError(t, object.Validate())
}

// TestFields tests that every probability is addressable by key
func TestFields(t *testing.T) {
	cfg := config.Default(config.ModeObject)
	fields := cfg.Fields()
	require.Len(t, fields, 16)

	seen := make(map[string]bool)
	for _, f := range fields {
		assert.False(t, seen[f.Key], "duplicate key %s", f.Key)
		seen[f.Key] = true
		assert.NotEmpty(t, f.Usage)
		*f.Value = 0.125
	}
	assert.Equal(t, 0.125, cfg.NewIndividual)
	assert.Equal(t, 0.125, cfg.SymmetricObjectPropertySelection)
	assert.True(t, seen["disjoint_data_property_selection_probability"])
}

// TestValidate tests validation messages
func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *config.GenerationConfig)
		message string
	}{
		{"probability above one", func(c *config.GenerationConfig) { c.ClassAssertion = 1.5 }, "class_assertion_probability is out of range [0, 1]"},
		{"negative probability", func(c *config.GenerationConfig) { c.NewIndividual = -0.1 }, "new_individual_probability is out of range [0, 1]"},
		{"negative count", func(c *config.GenerationConfig) { c.Count = -1 }, "count must be at least 1"},
		{"zero count", func(c *config.GenerationConfig) { c.Count = 0 }, "count must be at least 1"},
		{"zero depth", func(c *config.GenerationConfig) { c.MaxDepth = 0 }, "max_depth must be at least 1"},
		{"unknown mode", func(c *config.GenerationConfig) { c.Mode = "bogus" }, "mode must be one of: device object"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default(config.ModeObject)
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid configuration")
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

// TestDerivedValues tests the effective seed and output IRI
func TestDerivedValues(t *testing.T) {
	cfg := config.Default(config.ModeDevice)
	cfg.Seed = 2
	cfg.Count = 3
	cfg.OutputBase = "http://example.org/out/"

	assert.Equal(t, int64(2*(1<<31)+3), cfg.EffectiveSeed())

	// Seeds that share a parity still map to distinct effective seeds
	other := *cfg
	other.Seed = 4
	assert.NotEqual(t, cfg.EffectiveSeed(), other.EffectiveSeed())
	other.Seed = -2
	assert.Equal(t, int64(-2*(1<<31)+3), other.EffectiveSeed())
	assert.Equal(t, "DeviceDescription", cfg.DescriptionName())
	assert.Equal(t, "http://example.org/out/DeviceDescription3.owl", cfg.OutputIRI())

	cfg.Mode = config.ModeObject
	assert.Equal(t, "http://example.org/out/ObjectDescription3.owl", cfg.OutputIRI())
}

// TestFromViper tests presets selected by mode and key overrides
func TestFromViper(t *testing.T) {
	v := viper.New()
	v.Set("mode", "Device")
	v.Set("count", 5)
	v.Set("seed", 9)
	v.Set("workers", 4)
	v.Set("new_individual_probability", 0.25)

	cfg := config.FromViper(v)
	assert.Equal(t, config.ModeDevice, cfg.Mode)
	assert.Equal(t, 5, cfg.Count)
	assert.Equal(t, int64(9), cfg.Seed)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 0.25, cfg.NewIndividual)
	assert.Equal(t, 1.0, cfg.ClassAssertion)
	assert.Equal(t, 256, cfg.MaxDepth)

	empty := config.FromViper(viper.New())
	assert.Equal(t, config.ModeObject, empty.Mode)

	v = viper.New()
	v.Set("mode", "random")
	assert.Error(t, config.FromViper(v).Validate())
}
