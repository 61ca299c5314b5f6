package observability

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/xkilldash9x/marionette/internal/config"
)

type memorySink struct {
	strings.Builder
}

func (m *memorySink) Sync() error { return nil }

func testLoggerConfig() config.LoggerConfig {
	return config.LoggerConfig{
		Level:       "debug",
		Format:      "json",
		ServiceName: "marionette-test",
		// No file sink in tests.
		LogFile: "",
	}
}

func TestInitialize_WritesToConsoleSink(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	sink := &memorySink{}
	Initialize(testLoggerConfig(), zapcore.Lock(zapcore.AddSync(sink)))

	GetLogger().Info("hello from the test")
	require.NoError(t, GetLogger().Sync())

	out := sink.String()
	assert.Contains(t, out, "hello from the test")
	assert.Contains(t, out, "marionette-test")
}

func TestInitialize_RunsOnce(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	first := &memorySink{}
	second := &memorySink{}
	Initialize(testLoggerConfig(), zapcore.Lock(zapcore.AddSync(first)))
	Initialize(testLoggerConfig(), zapcore.Lock(zapcore.AddSync(second)))

	GetLogger().Info("only once")
	require.NoError(t, GetLogger().Sync())

	assert.Contains(t, first.String(), "only once")
	assert.Empty(t, second.String())
}

func TestInitialize_BadLevelFallsBackToInfo(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	cfg := testLoggerConfig()
	cfg.Level = "not-a-level"
	sink := &memorySink{}
	Initialize(cfg, zapcore.Lock(zapcore.AddSync(sink)))

	GetLogger().Debug("should be filtered")
	GetLogger().Info("should appear")
	require.NoError(t, GetLogger().Sync())

	out := sink.String()
	assert.NotContains(t, out, "should be filtered")
	assert.Contains(t, out, "should appear")
}

func TestGetLogger_FallbackBeforeInitialize(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)
	assert.NotNil(t, GetLogger())
}
