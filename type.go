// FILE: type.go
package forward

import (
	"context"
	"net"
	"time"
)

// Record represents a single log entry queued for delivery
type Record struct {
	TimeStamp time.Time
	Level     int64
	Args      []any

	unreportedDrops uint64 // Dropped record tracker
}

// Formatter renders a record to its wire representation, without the
// trailing newline. The producer frames each rendered record with
// exactly one '\n' byte.
type Formatter func(r Record) string

// DialFunc opens the raw connection to the collector. The network is
// chosen from the configured host ("tcp4" for IPv4 literals, "tcp6"
// for IPv6 literals, "tcp" for hostnames). Injectable for tests and
// for alternate transports such as TLS.
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// connState tracks the connection lifecycle. At most one dial attempt
// is outstanding while in connConnecting.
type connState int32

const (
	connIdle connState = iota
	connConnecting
	connConnected
)

// connEvent is the result of a dial attempt, delivered to the processor
type connEvent struct {
	conn net.Conn
	err  error
}
