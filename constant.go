// FILE: constant.go
package forward

import (
	"time"
)

// Log level constants
const (
	LevelDebug    int64 = -4
	LevelInfo     int64 = 0
	LevelWarn     int64 = 4
	LevelError    int64 = 8
	LevelCritical int64 = 12
)

// Timers
const (
	// Minimum wait time used throughout the package
	minWaitTime = 10 * time.Millisecond
)
