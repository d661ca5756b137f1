/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: main.go
Description: Main command-line interface for Akaylee Ontogen. Registers the generate,
extract and check commands, binds their flags into viper and reports failures.
*/

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/kleascm/akaylee-ontogen/cmd/ontogen/commands"
	"github.com/kleascm/akaylee-ontogen/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Configuration
	configFile string
	logLevel   string
	jsonLogs   bool

	// Schema configuration
	schemaPatterns []string
	schemaFormat   string
	iriMapping     string

	// Logging configuration
	logDir      string
	logFormat   string
	logMaxFiles int
)

const version = "1.0.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "ontogen",
		Short: "Akaylee Ontogen - OWL instance data generator",
		Long: `Akaylee Ontogen extracts a conceptual model from an OWL schema and generates
randomized, consistency-aware instance data (descriptions) rooted at a chosen class.
Runs are deterministic for a fixed schema, seed and configuration.`,
		Version: version,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "Use JSON format for logs")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "", "Directory for log files (empty disables file logging)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "custom", "Log format (json, text, custom)")
	rootCmd.PersistentFlags().IntVar(&logMaxFiles, "log-max-files", 10, "Maximum number of log files to keep")

	rootCmd.PersistentFlags().StringSliceVar(&schemaPatterns, "schema", []string{}, "Schema document paths or glob patterns (first match is the main ontology)")
	rootCmd.PersistentFlags().StringVar(&schemaFormat, "schema-format", "yaml", "Schema document format")
	rootCmd.PersistentFlags().StringVar(&iriMapping, "iri-mapping", "", "Import resolution as iri,path;iri,path")

	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("json_logs", rootCmd.PersistentFlags().Lookup("json-logs"))
	viper.BindPFlag("log_dir", rootCmd.PersistentFlags().Lookup("log-dir"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("log_max_files", rootCmd.PersistentFlags().Lookup("log-max-files"))
	viper.BindPFlag("schema", rootCmd.PersistentFlags().Lookup("schema"))
	viper.BindPFlag("schema_format", rootCmd.PersistentFlags().Lookup("schema-format"))
	viper.BindPFlag("iri_mapping", rootCmd.PersistentFlags().Lookup("iri-mapping"))

	// Add generate command
	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate instance descriptions from a root class",
		Long: `Extract the conceptual model of the schema and generate the requested number of
descriptions rooted at --root. The result is written as N-Triples, JSON or YAML.`,
		RunE: commands.RunGenerate,
	}

	generateCmd.Flags().String("root", "", "Root class IRI or local name (required)")
	generateCmd.Flags().String("mode", string(config.ModeObject), "Preset (device, object)")
	generateCmd.Flags().Int("count", 1, "Number of descriptions")
	generateCmd.Flags().Int64("seed", 0, "Base random seed")
	generateCmd.Flags().Int("workers", 1, "Parallel descriptions (1 = sequential with individual reuse)")
	generateCmd.Flags().Int("max-depth", 256, "Maximum recursion depth per description")
	generateCmd.Flags().String("output-base", "http://ece.neu.edu/ontologies", "Base IRI of the generated ontology")
	generateCmd.Flags().String("output", "", "Output file (default <Mode>Description<count> in --output-dir)")
	generateCmd.Flags().String("output-dir", ".", "Directory for generated files")
	generateCmd.Flags().String("format", "ntriples", "Output format (ntriples, json, yaml)")
	generateCmd.Flags().String("metrics-file", "", "Write Prometheus metrics to this textfile")
	generateCmd.Flags().Bool("coverage", false, "Evaluate space coverage of the generated dataset")
	generateCmd.Flags().String("results-dir", "./results", "Directory for coverage results")
	generateCmd.Flags().Bool("watch", false, "Regenerate whenever a schema file changes")

	defaults := config.Default(config.ModeObject)
	for _, f := range defaults.Fields() {
		generateCmd.Flags().Float64(flagName(f.Key), *f.Value, f.Usage)
	}

	generateCmd.MarkFlagRequired("root")

	viper.BindPFlag("root", generateCmd.Flags().Lookup("root"))
	viper.BindPFlag("mode", generateCmd.Flags().Lookup("mode"))
	viper.BindPFlag("count", generateCmd.Flags().Lookup("count"))
	viper.BindPFlag("seed", generateCmd.Flags().Lookup("seed"))
	viper.BindPFlag("workers", generateCmd.Flags().Lookup("workers"))
	viper.BindPFlag("max_depth", generateCmd.Flags().Lookup("max-depth"))
	viper.BindPFlag("output_base", generateCmd.Flags().Lookup("output-base"))
	viper.BindPFlag("output", generateCmd.Flags().Lookup("output"))
	viper.BindPFlag("output_dir", generateCmd.Flags().Lookup("output-dir"))
	viper.BindPFlag("format", generateCmd.Flags().Lookup("format"))
	viper.BindPFlag("metrics_file", generateCmd.Flags().Lookup("metrics-file"))
	viper.BindPFlag("coverage", generateCmd.Flags().Lookup("coverage"))
	viper.BindPFlag("results_dir", generateCmd.Flags().Lookup("results-dir"))
	viper.BindPFlag("watch", generateCmd.Flags().Lookup("watch"))
	for _, f := range defaults.Fields() {
		viper.BindPFlag(f.Key, generateCmd.Flags().Lookup(flagName(f.Key)))
	}

	rootCmd.AddCommand(generateCmd)

	// Add extract command for model inspection
	extractCmd := &cobra.Command{
		Use:   "extract",
		Short: "Dump the extracted conceptual model",
		Long: `Extract the conceptual model of the schema and print it as YAML: class hierarchy,
reduced restrictions, bindings and property relations. Useful to inspect what the
generator will see before running it.`,
		RunE: commands.RunExtract,
	}
	extractCmd.Flags().String("class", "", "Only dump this class")
	viper.BindPFlag("extract_class", extractCmd.Flags().Lookup("class"))
	rootCmd.AddCommand(extractCmd)

	// Add check command for configuration and schema validation
	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Validate configuration and schema consistency",
		Long: `Validate the generation configuration, load the schema and verify its consistency.
Exits non-zero when anything is wrong. Very useful for CI/CD integration.`,
		RunE: commands.RunCheck,
	}
	checkCmd.Flags().String("root", "", "Also verify that this root class exists")
	viper.BindPFlag("check_root", checkCmd.Flags().Lookup("root"))
	rootCmd.AddCommand(checkCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// flagName turns a snake_case configuration key into a flag name
func flagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}
