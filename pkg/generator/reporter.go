/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: reporter.go
Description: Reporter interface for generation telemetry. The engine notifies every
registered reporter when a description completes and when a recoverable condition
is logged.
*/

package generator

import (
	"github.com/sirupsen/logrus"
)

// Reporter defines the interface for generation telemetry hooks.
// Implementations must be safe for concurrent use when descriptions run in parallel.
type Reporter interface {
	// OnDescription is called after a description completes
	OnDescription(event DescriptionEvent)
	// OnWarning is called for every logged warning
	OnWarning(kind string)
}

// DescriptionEvent summarizes one completed description
type DescriptionEvent struct {
	Index       int            // Description index within the run
	Individuals int64          // Individuals minted by the description
	Assertions  map[string]int // New assertions by kind name
}

// LoggerReporter logs description events at debug level
type LoggerReporter struct {
	logger *logrus.Logger
}

// NewLoggerReporter creates a new LoggerReporter
func NewLoggerReporter(logger *logrus.Logger) *LoggerReporter {
	return &LoggerReporter{logger: logger}
}

// OnDescription logs the description summary
func (r *LoggerReporter) OnDescription(event DescriptionEvent) {
	total := 0
	for _, n := range event.Assertions {
		total += n
	}
	r.logger.WithFields(logrus.Fields{
		"component":   "generate",
		"description": event.Index,
		"individuals": event.Individuals,
		"assertions":  total,
	}).Debug("Description completed")
}

// OnWarning is a no-op; warnings are logged where they occur
func (r *LoggerReporter) OnWarning(string) {}
