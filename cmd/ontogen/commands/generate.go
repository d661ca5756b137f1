/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: generate.go
Description: Generate command implementation. Extracts the model, runs the engine
with metrics and log reporters attached, writes the dataset and optional coverage
results, and can keep regenerating while the schema files change.
*/

package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/kleascm/akaylee-ontogen/pkg/config"
	"github.com/kleascm/akaylee-ontogen/pkg/coverage"
	"github.com/kleascm/akaylee-ontogen/pkg/generator"
	"github.com/kleascm/akaylee-ontogen/pkg/logging"
	"github.com/kleascm/akaylee-ontogen/pkg/monitoring"
	"github.com/kleascm/akaylee-ontogen/pkg/output"
	"github.com/kleascm/akaylee-ontogen/pkg/schema"
	"github.com/kleascm/akaylee-ontogen/pkg/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// watchDebounce collapses bursts of file events into one regeneration
const watchDebounce = 500 * time.Millisecond

// RunGenerate executes a generation run
func RunGenerate(cmd *cobra.Command, args []string) error {
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := generateOnce(ctx, logger, cfg); err != nil {
		return err
	}
	if !viper.GetBool("watch") {
		return nil
	}
	return watchSchema(ctx, logger, cfg)
}

// generateOnce runs extraction, generation and output once
func generateOnce(ctx context.Context, logger *logging.Logger, cfg *config.GenerationConfig) error {
	model, ex, err := LoadModel(logger)
	if err != nil {
		return err
	}

	root, ok := ResolveClass(model, viper.GetString("root"))
	if !ok {
		return fmt.Errorf("root %s: %w", viper.GetString("root"), generator.ErrUnknownClass)
	}

	recorder := monitoring.NewRecorder()
	recorder.RecordExtraction(len(model.Classes()), len(model.ObjectProperties()), len(model.DataProperties()))
	recorder.RecordWarnings("extraction", ex.Warnings)

	engine := generator.NewEngine(model, cfg, logger.GetLogger())
	engine.AddReporter(recorder)
	engine.AddReporter(generator.NewLoggerReporter(logger.GetLogger()))

	result, err := engine.Generate(ctx, root.IRI)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}
	recorder.RecordRun(result)
	logger.LogRunSummary(result.RunID, int(result.Stats.Descriptions), result.Stats.Individuals, result.Set.Len(), result.Duration)

	sink, err := output.NewSink(viper.GetString("format"))
	if err != nil {
		return err
	}
	path := outputPath(cfg, sink)
	if err := output.WriteFile(sink, path, result); err != nil {
		return err
	}
	logger.GetLogger().WithFields(logrus.Fields{
		"path":   path,
		"format": viper.GetString("format"),
	}).Info("Dataset written")

	if metricsFile := viper.GetString("metrics_file"); metricsFile != "" {
		if err := recorder.WriteTextfile(metricsFile); err != nil {
			return err
		}
	}

	if viper.GetBool("coverage") {
		if err := writeCoverage(logger, cfg, model, root, result); err != nil {
			return err
		}
	}
	return nil
}

// outputPath returns the explicit output path or the default dataset name
func outputPath(cfg *config.GenerationConfig, sink output.Sink) string {
	if path := viper.GetString("output"); path != "" {
		return path
	}
	name := fmt.Sprintf("%s%d%s", cfg.DescriptionName(), cfg.Count, sink.Extension())
	return filepath.Join(viper.GetString("output_dir"), name)
}

// writeCoverage evaluates space coverage and writes the text and JSON results
func writeCoverage(logger *logging.Logger, cfg *config.GenerationConfig, model *schema.Model, root *schema.ClassNode, result *generator.Result) error {
	report := coverage.NewEvaluator(model, logger.GetLogger()).Evaluate(root, result.Set)

	dir := viper.GetString("results_dir")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create results directory: %w", err)
	}
	label := fmt.Sprintf("%s%d", cfg.DescriptionName(), cfg.Count)
	textPath := filepath.Join(dir, fmt.Sprintf("SpaceCoverageEvaluationResults_%s.txt", label))

	file, err := os.Create(textPath)
	if err != nil {
		return fmt.Errorf("failed to create coverage report: %w", err)
	}
	if err := report.WriteText(file); err != nil {
		file.Close()
		return fmt.Errorf("failed to write coverage report: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to write coverage report: %w", err)
	}

	jsonPath, err := utils.WriteMetricsResult(dir, "coverage", label, report)
	if err != nil {
		return err
	}
	logger.GetLogger().WithFields(logrus.Fields{
		"text": textPath,
		"json": jsonPath,
		"cc":   report.CC,
		"opc":  report.OPC,
		"dpc":  report.DPC,
	}).Info("Coverage results written")
	return nil
}

// watchSchema regenerates whenever a schema file changes until ctx is done
func watchSchema(ctx context.Context, logger *logging.Logger, cfg *config.GenerationConfig) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	files, err := watchedFiles()
	if err != nil {
		return err
	}
	dirs := make(map[string]bool)
	for path := range files {
		dirs[filepath.Dir(path)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	log := logger.GetLogger().WithField("files", len(files))
	log.Info("Watching schema for changes")

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			log.Info("Watch stopped")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			changed, err := SchemaChanged(event, files)
			if err != nil {
				logger.LogWarning("watcher", "Cannot resolve changed file", map[string]interface{}{
					"file":  event.Name,
					"error": err.Error(),
				})
				continue
			}
			if !changed {
				continue
			}
			pending = time.After(watchDebounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.LogWarning("watcher", "Watcher error", map[string]interface{}{"error": err.Error()})
		case <-pending:
			pending = nil
			log.Info("Schema changed, regenerating")
			if err := generateOnce(ctx, logger, cfg); err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				log.WithError(err).Error("Regeneration failed")
			}
		}
	}
}

// SchemaChanged reports whether event writes, creates or renames one of the watched files
func SchemaChanged(event fsnotify.Event, files map[string]bool) (bool, error) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false, nil
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false, fmt.Errorf("failed to resolve %s: %w", event.Name, err)
	}
	return files[abs], nil
}

// watchedFiles expands the schema patterns into absolute paths
func watchedFiles() (map[string]bool, error) {
	patterns, err := schemaPatterns()
	if err != nil {
		return nil, err
	}
	files := make(map[string]bool)
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid schema pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			abs, err := filepath.Abs(m)
			if err != nil {
				return nil, err
			}
			files[abs] = true
		}
	}
	return files, nil
}
