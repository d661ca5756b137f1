/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: utils.go
Description: Shared utilities for the Akaylee Ontogen commands. Provides configuration
loading, logging setup and schema loading used across all command implementations.
*/

package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/kleascm/akaylee-ontogen/pkg/extractor"
	"github.com/kleascm/akaylee-ontogen/pkg/logging"
	"github.com/kleascm/akaylee-ontogen/pkg/provider"
	"github.com/kleascm/akaylee-ontogen/pkg/schema"
	"github.com/spf13/viper"
)

// LoadConfig loads configuration from files and environment
func LoadConfig() error {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	viper.SetEnvPrefix("ONTOGEN")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	return nil
}

// SetupLogging builds the run logger from the logging flags
func SetupLogging() (*logging.Logger, error) {
	cfg := logging.DefaultConfig()
	cfg.Level = logging.LogLevel(strings.ToLower(viper.GetString("log_level")))
	cfg.Format = logging.LogFormat(strings.ToLower(viper.GetString("log_format")))
	if viper.GetBool("json_logs") {
		cfg.Format = logging.LogFormatJSON
	}
	cfg.OutputDir = viper.GetString("log_dir")
	if n := viper.GetInt("log_max_files"); n > 0 {
		cfg.MaxFiles = n
	}

	logger, err := logging.NewLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to setup logging: %w", err)
	}
	return logger, nil
}

// schemaPatterns returns the configured schema patterns
func schemaPatterns() ([]string, error) {
	patterns := viper.GetStringSlice("schema")
	if len(patterns) == 0 {
		return nil, fmt.Errorf("no schema given: use --schema or the schema config key")
	}
	return patterns, nil
}

// IRIMapEntry maps an imported ontology IRI to a schema file
type IRIMapEntry struct {
	IRI  string `mapstructure:"iri"`
	Path string `mapstructure:"path"`
}

// iriMapping merges the iri_mapping string with the iri_map list from the config file.
// The list form is needed because viper splits map keys on dots.
func iriMapping() (map[string]string, error) {
	mapping, err := provider.ParseIRIMapping(viper.GetString("iri_mapping"))
	if err != nil {
		return nil, err
	}
	var entries []IRIMapEntry
	if err := viper.UnmarshalKey("iri_map", &entries); err != nil {
		return nil, fmt.Errorf("invalid iri_map: %w", err)
	}
	for _, e := range entries {
		if e.IRI == "" || e.Path == "" {
			return nil, fmt.Errorf("invalid iri_map entry: iri and path are required")
		}
		if _, ok := mapping[e.IRI]; !ok {
			mapping[e.IRI] = e.Path
		}
	}
	return mapping, nil
}

// LoadModel loads the schema and extracts its conceptual model
func LoadModel(logger *logging.Logger) (*schema.Model, *extractor.Extractor, error) {
	patterns, err := schemaPatterns()
	if err != nil {
		return nil, nil, err
	}
	mapping, err := iriMapping()
	if err != nil {
		return nil, nil, err
	}

	start := time.Now()
	p, err := provider.NewProvider(viper.GetString("schema_format"), patterns, mapping)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load schema: %w", err)
	}

	ex := extractor.New(p, logger.GetLogger())
	model, err := ex.Run()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to extract model: %w", err)
	}
	logger.LogExtraction(len(model.Classes()), len(model.ObjectProperties()), len(model.DataProperties()), time.Since(start))
	return model, ex, nil
}

// ResolveClass finds a class by IRI, by prefixed name or by local name in the
// main ontology
func ResolveClass(model *schema.Model, name string) (*schema.ClassNode, bool) {
	if c, ok := model.Class(name); ok {
		return c, true
	}
	return model.Class(schema.Expand(name, model.OntologyIRI))
}
