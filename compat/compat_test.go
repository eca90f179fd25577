package compat

import (
	"bufio"
	"context"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/forward"
)

// pipeForwarder starts a forwarder whose transport is one end of an
// in-memory pipe and returns a channel of the lines arriving on the
// other end
func pipeForwarder(t *testing.T) (*forward.Forwarder, <-chan string) {
	t.Helper()

	client, server := net.Pipe()

	f, err := forward.NewBuilder().
		Host("127.0.0.1").
		Port(9000).
		Format("txt").
		ShowTimestamp(false).
		ShowLevel(true).
		Build()
	require.NoError(t, err)

	f.SetDialFunc(func(ctx context.Context, network, address string) (net.Conn, error) {
		return client, nil
	})

	lines := make(chan string, 100)
	go func() {
		scanner := bufio.NewScanner(server)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	require.NoError(t, f.Start())
	t.Cleanup(func() { _ = f.Shutdown() })

	return f, lines
}

func recvLine(t *testing.T, lines <-chan string) string {
	t.Helper()
	select {
	case line, ok := <-lines:
		require.True(t, ok, "line channel closed")
		return line
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for line")
		return ""
	}
}

func TestGnetAdapterLevels(t *testing.T) {
	f, lines := pipeForwarder(t)
	adapter := NewGnetAdapter(f)

	adapter.Debugf("accepting on %s", ":9000")
	adapter.Infof("engine started")
	adapter.Warnf("slow consumer: %d pending", 12)
	adapter.Errorf("read failed: %v", "EOF")

	assert.Equal(t, "DEBUG msg accepting on :9000 source gnet", recvLine(t, lines))
	assert.Equal(t, "INFO msg engine started source gnet", recvLine(t, lines))
	assert.Equal(t, "WARN msg slow consumer: 12 pending source gnet", recvLine(t, lines))
	assert.Equal(t, "ERROR msg read failed: EOF source gnet", recvLine(t, lines))
}

func TestGnetAdapterFatalf(t *testing.T) {
	f, lines := pipeForwarder(t)

	var fatalMsg string
	adapter := NewGnetAdapter(f, WithFatalHandler(func(msg string) {
		fatalMsg = msg
	}))

	adapter.Fatalf("unrecoverable: %s", "bind")

	assert.Equal(t, "unrecoverable: bind", fatalMsg)
	line := recvLine(t, lines)
	assert.Contains(t, line, "CRITICAL")
	assert.Contains(t, line, "unrecoverable: bind")
	assert.Contains(t, line, "fatal true")
}

func TestFastHTTPAdapterPrintf(t *testing.T) {
	f, lines := pipeForwarder(t)
	adapter := NewFastHTTPAdapter(f)

	adapter.Printf("serving connection from %s", "10.0.0.9")
	adapter.Printf("write error: %v", "broken pipe")
	adapter.Printf("deprecated option %q ignored", "compress")

	assert.Equal(t, "INFO msg serving connection from 10.0.0.9 source fasthttp", recvLine(t, lines))
	assert.Equal(t, "ERROR msg write error: broken pipe source fasthttp", recvLine(t, lines))
	assert.Equal(t, `WARN msg deprecated option "compress" ignored source fasthttp`, recvLine(t, lines))
}

func TestFastHTTPAdapterDefaultLevel(t *testing.T) {
	f, lines := pipeForwarder(t)
	adapter := NewFastHTTPAdapter(f,
		WithDefaultLevel(forward.LevelWarn),
		WithLevelDetector(nil),
	)

	adapter.Printf("plain message")

	assert.Equal(t, "WARN msg plain message source fasthttp", recvLine(t, lines))
}

func TestSlogHandler(t *testing.T) {
	f, lines := pipeForwarder(t)
	logger := slog.New(NewSlogHandler(f))

	logger.Info("user login", "user", "alice", "attempt", 2)
	assert.Equal(t, "INFO msg user login user alice attempt 2", recvLine(t, lines))

	logger.Warn("token expiring")
	assert.Equal(t, "WARN msg token expiring", recvLine(t, lines))
}

func TestSlogHandlerGroupsAndAttrs(t *testing.T) {
	f, lines := pipeForwarder(t)
	logger := slog.New(NewSlogHandler(f)).
		With("service", "api").
		WithGroup("req")

	logger.Error("handler panic", "path", "/v1/users")

	// Attrs captured before the group keep their bare keys; record
	// attrs pick up the group prefix
	assert.Equal(t,
		"ERROR msg handler panic service api req.path /v1/users",
		recvLine(t, lines))
}

func TestSlogHandlerClampsVerboseLevels(t *testing.T) {
	f, lines := pipeForwarder(t)
	logger := slog.New(NewSlogHandler(f))

	// Custom levels below the defined range still pass the default
	// debug gate instead of being silently filtered
	logger.Log(context.Background(), slog.Level(-8), "wire dump", "bytes", 512)

	assert.Equal(t, "DEBUG msg wire dump bytes 512", recvLine(t, lines))
}

func TestSlogHandlerEnabled(t *testing.T) {
	f, err := forward.NewBuilder().
		Host("127.0.0.1").
		Port(9000).
		LevelString("warn").
		Build()
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Shutdown() })

	h := NewSlogHandler(f)
	assert.False(t, h.Enabled(context.Background(), slog.LevelDebug))
	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, h.Enabled(context.Background(), slog.LevelWarn))
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))
}

func TestDetectLogLevel(t *testing.T) {
	tests := []struct {
		msg  string
		want int64
	}{
		{"connection error on fd 7", forward.LevelError},
		{"handshake failed", forward.LevelError},
		{"PANIC in handler", forward.LevelError},
		{"warning: queue almost full", forward.LevelWarn},
		{"option is deprecated", forward.LevelWarn},
		{"debug: state dump", forward.LevelDebug},
		{"trace id assigned", forward.LevelDebug},
		{"listening on :8080", forward.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectLogLevel(tt.msg))
		})
	}
}
