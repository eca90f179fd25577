// FILE: config.go
package forward

import (
	"errors"
	"fmt"
	"net"
	"reflect"
	"strings"
	"time"

	"github.com/lixenwraith/config"
)

// Config holds all forwarder configuration values
type Config struct {
	// Collector endpoint
	Host string `toml:"host"`
	Port int64  `toml:"port"`

	// Backpressure
	MaximumBuffer int64 `toml:"maximum_buffer"` // Shedding capacity of the record buffer
	BufferSize    int64 `toml:"buffer_size"`    // Hand-off channel depth

	// Filtering
	Level int64 `toml:"level"` // Minimum severity accepted before buffering; the LevelDebug default admits every defined level

	// Connection
	DialTimeoutMs int64 `toml:"dial_timeout_ms"` // Per-attempt dial timeout
	RetryDelayMs  int64 `toml:"retry_delay_ms"`  // Pause between attempts (0 = immediate)

	// Formatting (built-in serializer only; ignored with SetFormatter)
	Format          string `toml:"format"` // "txt", "json", or "raw"
	ShowTimestamp   bool   `toml:"show_timestamp"`
	ShowLevel       bool   `toml:"show_level"`
	TimestampFormat string `toml:"timestamp_format"`

	// Internal error handling
	InternalErrorsToStderr bool `toml:"internal_errors_to_stderr"` // Write internal errors to stderr
}

// defaultConfig is the single source for all configurable default values
var defaultConfig = Config{
	Host: "127.0.0.1",
	Port: 0,

	MaximumBuffer: 1000,
	BufferSize:    1024,

	Level: LevelDebug,

	DialTimeoutMs: 5000,
	RetryDelayMs:  0,

	Format:          "txt",
	ShowTimestamp:   true,
	ShowLevel:       true,
	TimestampFormat: time.RFC3339Nano,

	InternalErrorsToStderr: false,
}

// DefaultConfig returns a copy of the default configuration
func DefaultConfig() *Config {
	copiedConfig := defaultConfig
	return &copiedConfig
}

// NewConfigFromFile loads configuration from a TOML file and returns a
// validated Config
func NewConfigFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	// Use lixenwraith/config as a loader
	loader := config.New()

	// Register the struct to enable proper unmarshaling
	if err := loader.RegisterStruct("forward.", *cfg); err != nil {
		return nil, fmt.Errorf("failed to register config struct: %w", err)
	}

	// Load from file (handles file not found gracefully)
	if err := loader.Load(path, nil); err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	// Extract values into our Config struct
	if err := extractConfig(loader, "forward.", cfg); err != nil {
		return nil, fmt.Errorf("failed to extract config values: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewConfigFromDefaults creates a Config with default values and
// applies overrides
func NewConfigFromDefaults(overrides map[string]any) (*Config, error) {
	cfg := DefaultConfig()

	if err := applyOverrides(cfg, overrides); err != nil {
		return nil, fmt.Errorf("failed to apply overrides: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// extractConfig extracts values from lixenwraith/config into our Config struct
func extractConfig(loader *config.Config, prefix string, cfg *Config) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldValue := v.Field(i)

		tomlTag := field.Tag.Get("toml")
		if tomlTag == "" {
			continue
		}

		key := prefix + tomlTag

		val, found := loader.Get(key)
		if !found {
			continue // Use default value
		}

		if err := setFieldValue(fieldValue, val); err != nil {
			return fmt.Errorf("failed to set field %s: %w", field.Name, err)
		}
	}

	return nil
}

// applyOverrides applies a map of overrides to the Config struct
func applyOverrides(cfg *Config, overrides map[string]any) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	fieldMap := make(map[string]reflect.Value)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tomlTag := field.Tag.Get("toml")
		if tomlTag != "" {
			fieldMap[tomlTag] = v.Field(i)
		}
	}

	for key, value := range overrides {
		fieldValue, exists := fieldMap[key]
		if !exists {
			return fmt.Errorf("unknown config key: %s", key)
		}

		if err := setFieldValue(fieldValue, value); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	}

	return nil
}

// setFieldValue sets a reflect.Value with proper type conversion
func setFieldValue(field reflect.Value, value any) error {
	switch field.Kind() {
	case reflect.String:
		strVal, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
		field.SetString(strVal)

	case reflect.Int64:
		switch v := value.(type) {
		case int64:
			field.SetInt(v)
		case int:
			field.SetInt(int64(v))
		default:
			return fmt.Errorf("expected int64, got %T", value)
		}

	case reflect.Bool:
		boolVal, ok := value.(bool)
		if !ok {
			return fmt.Errorf("expected bool, got %T", value)
		}
		field.SetBool(boolVal)

	default:
		return fmt.Errorf("unsupported field type: %v", field.Kind())
	}

	return nil
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	// Endpoint validations
	if strings.TrimSpace(c.Host) == "" {
		return fmtErrorf("host cannot be empty")
	}

	if strings.Contains(c.Host, ":") && net.ParseIP(c.Host) == nil {
		return fmtErrorf("invalid host: '%s' (not a hostname or IP literal)", c.Host)
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmtErrorf("port must be in 1-65535: %d", c.Port)
	}

	// Numeric validations
	if c.MaximumBuffer <= 0 {
		return fmtErrorf("maximum_buffer must be positive: %d", c.MaximumBuffer)
	}

	if c.BufferSize <= 0 {
		return fmtErrorf("buffer_size must be positive: %d", c.BufferSize)
	}

	if c.DialTimeoutMs <= 0 {
		return fmtErrorf("dial_timeout_ms must be positive: %d", c.DialTimeoutMs)
	}

	if c.RetryDelayMs < 0 {
		return fmtErrorf("retry_delay_ms cannot be negative: %d", c.RetryDelayMs)
	}

	// Formatting validations
	if c.Format != "txt" && c.Format != "json" && c.Format != "raw" {
		return fmtErrorf("invalid format: '%s' (use txt, json, or raw)", c.Format)
	}

	if strings.TrimSpace(c.TimestampFormat) == "" {
		return fmtErrorf("timestamp_format cannot be empty")
	}

	return nil
}

// Clone creates a deep copy of the configuration
func (c *Config) Clone() *Config {
	copied := *c
	return &copied
}

// configRequiresRestart reports whether the change needs the processor
// and its connection rebuilt
func configRequiresRestart(oldCfg, newCfg *Config) bool {
	return oldCfg.Host != newCfg.Host ||
		oldCfg.Port != newCfg.Port ||
		oldCfg.BufferSize != newCfg.BufferSize
}
