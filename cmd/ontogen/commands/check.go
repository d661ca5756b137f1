/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: check.go
Description: Check command implementation. Validates the generation configuration,
loads the schema, verifies its consistency and optionally that the root class exists.
*/

package commands

import (
	"fmt"

	"github.com/kleascm/akaylee-ontogen/pkg/config"
	"github.com/kleascm/akaylee-ontogen/pkg/generator"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RunCheck performs the configuration and schema checks
func RunCheck(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger, err := SetupLogging()
	if err != nil {
		return err
	}
	defer logger.Close()

	cfg := config.FromViper(viper.GetViper())
	if err := cfg.Validate(); err != nil {
		return err
	}
	fmt.Fprintf(out, "[OK] configuration (mode %s, count %d, seed %d)\n", cfg.Mode, cfg.Count, cfg.EffectiveSeed())

	model, ex, err := LoadModel(logger)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "[OK] schema %s is consistent: %d classes, %d object properties, %d data properties\n",
		model.OntologyIRI, len(model.Classes()), len(model.ObjectProperties()), len(model.DataProperties()))
	if ex.Warnings > 0 {
		fmt.Fprintf(out, "[WARN] %d extraction warnings, see the log for details\n", ex.Warnings)
	}

	if name := viper.GetString("check_root"); name != "" {
		c, ok := ResolveClass(model, name)
		if !ok {
			return fmt.Errorf("root %s: %w", name, generator.ErrUnknownClass)
		}
		fmt.Fprintf(out, "[OK] root class %s\n", c.IRI)
	}
	return nil
}
