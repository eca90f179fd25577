// FILE: builder_test.go
package forward

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderBuild(t *testing.T) {
	f, err := NewBuilder().
		Host("10.0.0.5").
		Port(5170).
		MaximumBuffer(200).
		BufferSize(64).
		LevelString("warn").
		DialTimeoutMs(500).
		RetryDelayMs(25).
		Format("json").
		ShowTimestamp(false).
		ShowLevel(false).
		TimestampFormat(time.RFC3339).
		InternalErrorsToStderr(true).
		Build()
	require.NoError(t, err)
	defer f.Shutdown()

	cfg := f.GetConfig()
	assert.Equal(t, "10.0.0.5", cfg.Host)
	assert.Equal(t, int64(5170), cfg.Port)
	assert.Equal(t, int64(200), cfg.MaximumBuffer)
	assert.Equal(t, int64(64), cfg.BufferSize)
	assert.Equal(t, LevelWarn, cfg.Level)
	assert.Equal(t, int64(500), cfg.DialTimeoutMs)
	assert.Equal(t, int64(25), cfg.RetryDelayMs)
	assert.Equal(t, "json", cfg.Format)
	assert.False(t, cfg.ShowTimestamp)
	assert.False(t, cfg.ShowLevel)
	assert.Equal(t, time.RFC3339, cfg.TimestampFormat)
	assert.True(t, cfg.InternalErrorsToStderr)
}

func TestBuilderInvalidLevel(t *testing.T) {
	_, err := NewBuilder().
		Host("127.0.0.1").
		Port(9000).
		LevelString("verbose").
		Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown level")
}

func TestBuilderInvalidConfig(t *testing.T) {
	_, err := NewBuilder().
		Host("127.0.0.1").
		Port(9000).
		Format("yaml").
		Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestBuilderValidationErrorWins(t *testing.T) {
	// Setter errors surface before config validation runs
	_, err := NewBuilder().
		LevelString("nope").
		Port(0).
		Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown level")
}
