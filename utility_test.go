// FILE: utility_test.go
package forward

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelParsing(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"info", LevelInfo, false},
		{"warn", LevelWarn, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"critical", LevelCritical, false},
		{"  WARN  ", LevelWarn, false},
		{"Info", LevelInfo, false},
		{"trace", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Level(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseKeyValue(t *testing.T) {
	key, value, err := parseKeyValue("host=10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "host", key)
	assert.Equal(t, "10.0.0.1", value)

	key, value, err = parseKeyValue(" format = json ")
	require.NoError(t, err)
	assert.Equal(t, "format", key)
	assert.Equal(t, "json", value)

	// Value may contain '='
	_, value, err = parseKeyValue("timestamp_format=2006-01-02T15:04:05Z07:00")
	require.NoError(t, err)
	assert.Equal(t, "2006-01-02T15:04:05Z07:00", value)

	_, _, err = parseKeyValue("no-separator")
	assert.Error(t, err)

	_, _, err = parseKeyValue("=value")
	assert.Error(t, err)
}

func TestFmtErrorf(t *testing.T) {
	err := fmtErrorf("something broke: %d", 7)
	assert.Equal(t, "forward: something broke: 7", err.Error())

	// Prefix is not duplicated
	err = fmtErrorf("forward: already prefixed")
	assert.Equal(t, "forward: already prefixed", err.Error())
}
