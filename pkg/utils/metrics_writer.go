/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: metrics_writer.go
Description: Utility for writing evaluation results to a results directory.
Handles timestamped, type-specific subdirectory naming and writes JSON files
for easy analysis.
*/

package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// WriteMetricsResult writes result as JSON under baseDir/resultType, named with a
// timestamp, the result type and label
func WriteMetricsResult(baseDir, resultType, label string, result interface{}) (string, error) {
	dir := filepath.Join(baseDir, resultType)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create results directory: %w", err)
	}

	// Generate filename: 2024-06-11_01-30-00_coverage_ObjectDescription3.json
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s_%s.json", timestamp, resultType, label))

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write results file: %w", err)
	}
	return path, nil
}
