package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)
	return log, buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	if err != nil {
		return nil
	}
	return logEntry
}

func TestNewLoggerInvalidLevel(t *testing.T) {
	log := NewLogger("not-a-level")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())

	log = NewLogger("debug")
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
}

func TestNewLoggerForProduction(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewLoggerFor("info", "production", buf)
	log.WithField("week", 5).Info("Slate built")

	entry := parseLogOutput(buf)
	require.NotNil(t, entry)
	assert.Equal(t, float64(5), entry["week"])
	assert.Equal(t, "Slate built", entry["msg"])
}

func TestNewLoggerForDevelopment(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewLoggerFor("warn", "development", buf)
	log.Info("hidden")
	log.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Nil(t, parseLogOutput(buf))
}

func TestOrDiscard(t *testing.T) {
	log, _ := setupTestLogger()
	assert.Same(t, log, OrDiscard(log))
	assert.NotNil(t, OrDiscard(nil))
}

func TestEngineLoggerSimulationCompleted(t *testing.T) {
	log, buf := setupTestLogger()
	engineLogger := NewEngineLogger(log)

	engineLogger.LogSimulationCompleted("Chalk-MaxPoints", 20000, 16, 98.4, 0.21, 0.12, 850.0)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "engine", logEntry["component"])
	assert.Equal(t, "Chalk-MaxPoints", logEntry["strategy"])
	assert.Equal(t, float64(20000), logEntry["trials"])
	assert.Equal(t, "info", logEntry["level"])
}

func TestEngineLoggerScenarioAnalysis(t *testing.T) {
	log, buf := setupTestLogger()
	engineLogger := NewEngineLogger(log)

	engineLogger.LogScenarioAnalysis("alice", 3, 8, 2, 0.25, true)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "alice", logEntry["player"])
	assert.Equal(t, float64(8), logEntry["total_scenarios"])
	assert.Equal(t, true, logEntry["detailed"])
}

func TestEngineLoggerCapacityWarning(t *testing.T) {
	log, buf := setupTestLogger()
	engineLogger := NewEngineLogger(log)

	engineLogger.LogCapacityWarning("bob", 21, 24, true)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "warning", logEntry["level"])
	assert.Equal(t, float64(1<<21), logEntry["scenarios"])
}

func TestEngineLoggerGameExcluded(t *testing.T) {
	log, buf := setupTestLogger()
	engineLogger := NewEngineLogger(log)

	engineLogger.LogGameExcluded("g1", "Kansas City Chiefs", "Denver Broncos", "no usable books")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "g1", logEntry["game_id"])
	assert.Equal(t, "no usable books", logEntry["reason"])
}

func BenchmarkEngineLoggerBookDropped(b *testing.B) {
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})
	log.SetLevel(logrus.DebugLevel)
	engineLogger := NewEngineLogger(log)

	for i := 0; i < b.N; i++ {
		engineLogger.LogBookDropped("g1", "DraftKings", "missing_price")
	}
}
