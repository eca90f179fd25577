// FILE: integration_test.go
package forward

import (
	"bytes"
	"fmt"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tcpSink is a one-connection TCP collector on a loopback port
type tcpSink struct {
	listener net.Listener
	port     int64

	mu   sync.Mutex
	data bytes.Buffer
}

func newTCPSink(t *testing.T) *tcpSink {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = listener.Close() })

	sink := &tcpSink{
		listener: listener,
		port:     int64(listener.Addr().(*net.TCPAddr).Port),
	}

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				defer c.Close()
				buf := make([]byte, 4096)
				for {
					n, err := c.Read(buf)
					if n > 0 {
						sink.mu.Lock()
						sink.data.Write(buf[:n])
						sink.mu.Unlock()
					}
					if err != nil {
						return
					}
				}
			}(conn)
		}
	}()

	return sink
}

func (s *tcpSink) bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.data.Bytes()...)
}

func (s *tcpSink) lineCount() int {
	return bytes.Count(s.bytes(), []byte{'\n'})
}

func startIntegrationForwarder(t *testing.T, sink *tcpSink, mutate func(cfg *Config)) *Forwarder {
	t.Helper()

	f := NewForwarder()
	cfg := DefaultConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = sink.port
	cfg.Format = "raw"
	cfg.RetryDelayMs = 10
	if mutate != nil {
		mutate(cfg)
	}
	require.NoError(t, f.ApplyConfig(cfg))
	require.NoError(t, f.Start())
	t.Cleanup(func() { _ = f.Shutdown(2 * time.Second) })
	return f
}

func TestIntegrationSingleLineOnWire(t *testing.T) {
	sink := newTCPSink(t)
	f := startIntegrationForwarder(t, sink, nil)

	f.Info("Hello there, wally!")

	require.Eventually(t, func() bool { return sink.lineCount() == 1 }, 5*time.Second, 5*time.Millisecond)

	// Exactly one line, one newline byte, no extra framing
	data := sink.bytes()
	assert.Equal(t, []byte("Hello there, wally!\n"), data)
	assert.Equal(t, 1, bytes.Count(data, []byte{'\n'}))
}

func TestIntegrationDeliversManyInOrder(t *testing.T) {
	sink := newTCPSink(t)
	f := startIntegrationForwarder(t, sink, nil)

	const count = 200
	for i := 0; i < count; i++ {
		f.Info(fmt.Sprintf("record %d", i))
	}

	require.Eventually(t, func() bool { return sink.lineCount() == count }, 5*time.Second, 5*time.Millisecond)

	lines := bytes.Split(bytes.TrimSuffix(sink.bytes(), []byte{'\n'}), []byte{'\n'})
	require.Len(t, lines, count)
	for i, line := range lines {
		assert.Equal(t, fmt.Sprintf("record %d", i), string(line))
	}
}

func TestIntegrationConnectsLate(t *testing.T) {
	// Reserve a port, keep it closed while records queue up
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := int64(listener.Addr().(*net.TCPAddr).Port)
	require.NoError(t, listener.Close())

	f := NewForwarder()
	cfg := DefaultConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = port
	cfg.Format = "raw"
	cfg.RetryDelayMs = 10
	require.NoError(t, f.ApplyConfig(cfg))
	require.NoError(t, f.Start())
	t.Cleanup(func() { _ = f.Shutdown(2 * time.Second) })

	f.Info("early bird")
	time.Sleep(100 * time.Millisecond)

	// Collector comes up on the reserved port; retries catch it
	listener, err = net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	require.NoError(t, err)
	defer listener.Close()

	received := make(chan []byte, 1)
	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		data, _ := io.ReadAll(conn)
		received <- data
	}()

	// Nudge delivery in case the reconnect landed between emissions
	f.Info("second")

	require.Eventually(t, func() bool {
		return f.state.DeliveredRecords.Load() == 2
	}, 5*time.Second, 5*time.Millisecond)

	require.NoError(t, f.Shutdown(2*time.Second))

	select {
	case data := <-received:
		assert.Equal(t, "early bird\nsecond\n", string(data))
	case <-time.After(5 * time.Second):
		t.Fatal("collector received nothing")
	}
}
