/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: logger_test.go
Description: Tests for logger configuration, formats, run helpers and log file
retention.
*/

package logging_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kleascm/akaylee-ontogen/pkg/logging"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConfigValidate tests logger configuration validation
func TestConfigValidate(t *testing.T) {
	require.NoError(t, logging.DefaultConfig().Validate())

	cfg := logging.DefaultConfig()
	cfg.Format = "xml"
	assert.EqualError(t, cfg.Validate(), "unsupported log format: xml")

	cfg = logging.DefaultConfig()
	cfg.Level = "verbose"
	assert.EqualError(t, cfg.Validate(), "unsupported log level: verbose")

	cfg = logging.DefaultConfig()
	cfg.OutputDir = t.TempDir()
	cfg.MaxFiles = 0
	assert.EqualError(t, cfg.Validate(), "max_files must be positive")

	_, err := logging.NewLogger(cfg)
	assert.ErrorContains(t, err, "invalid logger config")
}

// TestJSONFormat tests structured output of the run helpers
func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	cfg := logging.DefaultConfig()
	cfg.Format = logging.LogFormatJSON
	cfg.Console = &buf

	logger, err := logging.NewLogger(cfg)
	require.NoError(t, err)
	defer logger.Close()

	logger.LogWarning("missing_binding", "Property has no domain", map[string]interface{}{"property": "p"})
	logger.LogRunSummary("run-1", 3, 4, 9, 20*time.Millisecond)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var warning map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &warning))
	assert.Equal(t, "warning", warning["level"])
	assert.Equal(t, "missing_binding", warning["warning"])
	assert.Equal(t, "p", warning["property"])

	var summary map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &summary))
	assert.Equal(t, "The time for generating 3 descriptions is: 20 ms", summary["msg"])
	assert.Equal(t, "run-1", summary["run_id"])
	assert.Equal(t, float64(9), summary["assertions"])
}

// TestCustomFormat tests the phase prefix and sorted fields
func TestCustomFormat(t *testing.T) {
	var buf bytes.Buffer
	cfg := logging.DefaultConfig()
	cfg.Timestamp = false
	cfg.Colors = false
	cfg.Level = logging.LogLevelDebug
	cfg.Console = &buf

	logger, err := logging.NewLogger(cfg)
	require.NoError(t, err)
	defer logger.Close()

	logger.GetLogger().WithFields(logrus.Fields{
		"component": "generate",
		"b":         2,
		"a":         "x",
	}).Debug("Created individual")
	logger.LogExtraction(3, 2, 1, time.Second)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "DEBUG [GENERATE] Created individual a=x b=2", lines[0])
	assert.Equal(t, "INFO [EXTRACT] Extraction completed classes=3 data_properties=1 duration=1s object_properties=2", lines[1])
}

// TestFileRetention tests that Close keeps only the newest log files
func TestFileRetention(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"ontogen_2000-01-01_00-00-00.log", "ontogen_2000-01-02_00-00-00.log", "ontogen_2000-01-03_00-00-00.log"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}

	cfg := logging.DefaultConfig()
	cfg.OutputDir = dir
	cfg.MaxFiles = 2
	cfg.Console = &bytes.Buffer{}

	logger, err := logging.NewLogger(cfg)
	require.NoError(t, err)
	logger.GetLogger().Info("hello")
	require.NoError(t, logger.Close())

	files, err := filepath.Glob(filepath.Join(dir, "ontogen_*.log"))
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "ontogen_2000-01-03_00-00-00.log", filepath.Base(files[0]))

	data, err := os.ReadFile(files[1])
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}
