// FILE: builder.go
package forward

// Builder provides a fluent API for building forwarder configurations.
// It wraps a Config instance and provides chainable methods for
// setting values.
type Builder struct {
	cfg *Config
	err error // Accumulate errors for deferred handling
}

// NewBuilder creates a new configuration builder with default values
func NewBuilder() *Builder {
	return &Builder{
		cfg: DefaultConfig(),
	}
}

// Build creates a new Forwarder instance with the specified
// configuration. ApplyConfig handles all validation.
func (b *Builder) Build() (*Forwarder, error) {
	if b.err != nil {
		return nil, b.err
	}

	forwarder := NewForwarder()

	if err := forwarder.ApplyConfig(b.cfg); err != nil {
		return nil, err
	}

	return forwarder, nil
}

// Host sets the collector host (IP literal or hostname)
func (b *Builder) Host(host string) *Builder {
	b.cfg.Host = host
	return b
}

// Port sets the collector port
func (b *Builder) Port(port int64) *Builder {
	b.cfg.Port = port
	return b
}

// MaximumBuffer sets the shedding capacity of the record buffer
func (b *Builder) MaximumBuffer(size int64) *Builder {
	b.cfg.MaximumBuffer = size
	return b
}

// BufferSize sets the hand-off channel depth
func (b *Builder) BufferSize(size int64) *Builder {
	b.cfg.BufferSize = size
	return b
}

// Level sets the minimum severity accepted before buffering
func (b *Builder) Level(level int64) *Builder {
	b.cfg.Level = level
	return b
}

// LevelString sets the minimum severity from a name
func (b *Builder) LevelString(level string) *Builder {
	if b.err != nil {
		return b
	}
	levelVal, err := Level(level)
	if err != nil {
		b.err = err
		return b
	}
	b.cfg.Level = levelVal
	return b
}

// DialTimeoutMs sets the per-attempt dial timeout
func (b *Builder) DialTimeoutMs(ms int64) *Builder {
	b.cfg.DialTimeoutMs = ms
	return b
}

// RetryDelayMs sets the pause between connection attempts
func (b *Builder) RetryDelayMs(ms int64) *Builder {
	b.cfg.RetryDelayMs = ms
	return b
}

// Format sets the output format
func (b *Builder) Format(format string) *Builder {
	b.cfg.Format = format
	return b
}

// ShowTimestamp sets whether the built-in serializer prefixes a timestamp
func (b *Builder) ShowTimestamp(show bool) *Builder {
	b.cfg.ShowTimestamp = show
	return b
}

// ShowLevel sets whether the built-in serializer prefixes the level
func (b *Builder) ShowLevel(show bool) *Builder {
	b.cfg.ShowLevel = show
	return b
}

// TimestampFormat sets the timestamp layout
func (b *Builder) TimestampFormat(format string) *Builder {
	b.cfg.TimestampFormat = format
	return b
}

// InternalErrorsToStderr enables internal diagnostics on stderr
func (b *Builder) InternalErrorsToStderr(enable bool) *Builder {
	b.cfg.InternalErrorsToStderr = enable
	return b
}
