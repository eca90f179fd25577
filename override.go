// FILE: override.go
package forward

import (
	"fmt"
	"strconv"
	"strings"
)

// combineConfigErrors combines multiple configuration errors into a single error
func combineConfigErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}

	var sb strings.Builder
	sb.WriteString("forward: multiple configuration errors:")
	for i, err := range errs {
		errMsg := err.Error()
		// Remove "forward: " prefix from individual errors to avoid duplication
		errMsg = strings.TrimPrefix(errMsg, "forward: ")
		sb.WriteString(fmt.Sprintf("\n  %d. %s", i+1, errMsg))
	}
	return fmt.Errorf("%s", sb.String())
}

// applyConfigField applies a single key-value override to a Config.
// This is the core field mapping logic for string overrides.
func applyConfigField(cfg *Config, key, value string) error {
	switch key {
	// Collector endpoint
	case "host":
		cfg.Host = value
	case "port":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for port '%s': %w", value, err)
		}
		cfg.Port = intVal

	// Backpressure
	case "maximum_buffer":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for maximum_buffer '%s': %w", value, err)
		}
		cfg.MaximumBuffer = intVal
	case "buffer_size":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for buffer_size '%s': %w", value, err)
		}
		cfg.BufferSize = intVal

	// Filtering
	case "level":
		// Special handling: accept both numeric and named values
		if numVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			cfg.Level = numVal
		} else {
			levelVal, err := Level(value)
			if err != nil {
				return fmtErrorf("invalid level value '%s': %w", value, err)
			}
			cfg.Level = levelVal
		}

	// Connection
	case "dial_timeout_ms":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for dial_timeout_ms '%s': %w", value, err)
		}
		cfg.DialTimeoutMs = intVal
	case "retry_delay_ms":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for retry_delay_ms '%s': %w", value, err)
		}
		cfg.RetryDelayMs = intVal

	// Formatting
	case "format":
		cfg.Format = value
	case "show_timestamp":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for show_timestamp '%s': %w", value, err)
		}
		cfg.ShowTimestamp = boolVal
	case "show_level":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for show_level '%s': %w", value, err)
		}
		cfg.ShowLevel = boolVal
	case "timestamp_format":
		cfg.TimestampFormat = value

	// Internal error handling
	case "internal_errors_to_stderr":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for internal_errors_to_stderr '%s': %w", value, err)
		}
		cfg.InternalErrorsToStderr = boolVal

	default:
		return fmtErrorf("unknown config key: %s", key)
	}

	return nil
}
