// Stress driver: floods a forwarder from many goroutines to exercise
// the hand-off channel, pressure relief, and reconnects. Run
// cmd/collector in another terminal, kill and restart it mid-run to
// watch records shed and the stream recover.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/lixenwraith/forward"
)

const (
	numWorkers   = 50
	logsPerBurst = 200
	totalBursts  = 100
)

func main() {
	f, err := forward.NewBuilder().
		Host("127.0.0.1").
		Port(9000).
		MaximumBuffer(500).
		BufferSize(256).
		RetryDelayMs(100).
		InternalErrorsToStderr(true).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "build: %v\n", err)
		os.Exit(1)
	}
	if err := f.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "start: %v\n", err)
		os.Exit(1)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for burst := 0; burst < totalBursts; burst++ {
				for i := 0; i < logsPerBurst; i++ {
					switch rand.Intn(4) {
					case 0:
						f.Debug("worker", id, "burst", burst, "seq", i)
					case 1:
						f.Info("worker", id, "burst", burst, "seq", i)
					case 2:
						f.Warn("worker", id, "burst", burst, "seq", i)
					default:
						f.Error("worker", id, "burst", burst, "seq", i)
					}
				}
				select {
				case <-stop:
					return
				case <-time.After(10 * time.Millisecond):
				}
			}
		}(w)
	}

	wg.Wait()

	fmt.Println("waiting for drain...")
	time.Sleep(time.Second)

	if err := f.Shutdown(2 * time.Second); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown: %v\n", err)
	}
	fmt.Println("done")
}
