// Minimal forwarder example: load config from TOML, emit a few
// records to a collector (see cmd/collector), shut down.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/lixenwraith/forward"
)

const configFile = "simple_config.toml"

// Example TOML content
var tomlContent = `
# Example simple_config.toml
[forward]
  host = "127.0.0.1"
  port = 9000
  maximum_buffer = 1000
  level = -4 # Debug
  format = "txt"
  show_timestamp = true
  show_level = true
  internal_errors_to_stderr = true
`

func main() {
	fmt.Println("--- Simple Forwarder Example ---")

	// Create dummy config file
	if err := os.WriteFile(configFile, []byte(tomlContent), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write dummy config: %v\n", err)
	}

	cfg, err := forward.NewConfigFromFile(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	f := forward.NewForwarder()
	if err := f.ApplyConfig(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to configure forwarder: %v\n", err)
		os.Exit(1)
	}
	if err := f.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start forwarder: %v\n", err)
		os.Exit(1)
	}

	f.Debug("application starting", "pid", os.Getpid())
	f.Info("service ready")
	f.Warn("cache miss ratio high", "ratio", 0.92)
	f.Error("upstream request failed", "code", 502)

	// Give the connection a moment, then push the buffer out
	time.Sleep(200 * time.Millisecond)
	if err := f.Flush(time.Second); err != nil {
		fmt.Fprintf(os.Stderr, "Flush: %v\n", err)
	}

	if err := f.Shutdown(2 * time.Second); err != nil {
		fmt.Fprintf(os.Stderr, "Shutdown error: %v\n", err)
	}

	fmt.Println("--- Example Finished ---")
}
