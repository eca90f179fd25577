// FILE: utility.go
package forward

import (
	"fmt"
	"strings"
)

// Level converts a named level to its numeric value
func Level(levelStr string) (int64, error) {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "critical":
		return LevelCritical, nil
	default:
		return 0, fmtErrorf("unknown level: %s", levelStr)
	}
}

// parseKeyValue splits a "key=value" override string
func parseKeyValue(override string) (string, string, error) {
	key, value, found := strings.Cut(override, "=")
	if !found {
		return "", "", fmtErrorf("invalid override format '%s' (expected key=value)", override)
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", "", fmtErrorf("empty key in override '%s'", override)
	}
	return key, strings.TrimSpace(value), nil
}

// fmtErrorf wrapper
func fmtErrorf(format string, args ...any) error {
	if !strings.HasPrefix(format, "forward: ") {
		format = "forward: " + format
	}
	return fmt.Errorf(format, args...)
}
