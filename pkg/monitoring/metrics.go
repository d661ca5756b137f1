/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: metrics.go
Description: Prometheus metrics for generation runs. The recorder is a generator
Reporter that counts descriptions, individuals, assertions by kind and warnings by
kind on a private registry, and writes the registry in the text exposition format
for node_exporter's textfile collector.
*/

package monitoring

import (
	"fmt"
	"sync"

	"github.com/kleascm/akaylee-ontogen/pkg/generator"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ontogen"

// Recorder collects generation metrics
type Recorder struct {
	registry *prometheus.Registry
	mu       sync.Mutex

	descriptions prometheus.Counter
	individuals  prometheus.Counter
	assertions   *prometheus.CounterVec
	warnings     *prometheus.CounterVec
	runDuration  prometheus.Gauge
	extraction   *prometheus.GaugeVec
}

// NewRecorder creates a recorder with its own registry
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Recorder{
		registry: registry,

		// descriptionsTotal counts completed descriptions
		descriptions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "generator",
			Name:      "descriptions_total",
			Help:      "Total completed descriptions",
		}),

		// individualsTotal counts minted individuals
		individuals: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "generator",
			Name:      "individuals_total",
			Help:      "Total minted individuals",
		}),

		// assertionsTotal counts emitted assertions.
		// Labels: kind (class, object_property, negative_object_property, ...)
		assertions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "generator",
			Name:      "assertions_total",
			Help:      "Total emitted assertions by kind",
		}, []string{"kind"}),

		// warningsTotal counts recoverable conditions.
		// Labels: kind (unsupported_expression, unsupported_range, max_depth, missing_binding, ...)
		warnings: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "warnings_total",
			Help:      "Total logged warnings by kind",
		}, []string{"kind"}),

		runDuration: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "generator",
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last generation run",
		}),

		// extraction reports the size of the extracted model.
		// Labels: element (classes, object_properties, data_properties)
		extraction: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "extractor",
			Name:      "elements",
			Help:      "Named elements in the extracted conceptual model",
		}, []string{"element"}),
	}
}

// OnDescription records a completed description
func (r *Recorder) OnDescription(event generator.DescriptionEvent) {
	r.descriptions.Inc()
	r.individuals.Add(float64(event.Individuals))
	for kind, n := range event.Assertions {
		r.assertions.WithLabelValues(kind).Add(float64(n))
	}
}

// OnWarning records a logged warning
func (r *Recorder) OnWarning(kind string) {
	r.warnings.WithLabelValues(kind).Inc()
}

// RecordWarnings adds n warnings of one kind, for counts gathered outside the engine
func (r *Recorder) RecordWarnings(kind string, n int) {
	if n > 0 {
		r.warnings.WithLabelValues(kind).Add(float64(n))
	}
}

// RecordExtraction records the size of an extracted model
func (r *Recorder) RecordExtraction(classes, objectProperties, dataProperties int) {
	r.extraction.WithLabelValues("classes").Set(float64(classes))
	r.extraction.WithLabelValues("object_properties").Set(float64(objectProperties))
	r.extraction.WithLabelValues("data_properties").Set(float64(dataProperties))
}

// RecordRun records the outcome of a finished run
func (r *Recorder) RecordRun(result *generator.Result) {
	r.runDuration.Set(result.Duration.Seconds())
}

// Registry returns the registry backing the recorder
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes every metric to path in the text exposition format
func (r *Recorder) WriteTextfile(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
