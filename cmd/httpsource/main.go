// A fasthttp server whose internal logger and request log both stream
// to a remote collector through a forwarder.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/lixenwraith/forward"
	"github.com/lixenwraith/forward/compat"
)

func main() {
	f, err := forward.NewBuilder().
		Host("127.0.0.1").
		Port(9000).
		Level(forward.LevelInfo).
		Format("json").
		RetryDelayMs(250).
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
	defer f.Shutdown(2 * time.Second)

	adapter := compat.NewFastHTTPAdapter(f,
		compat.WithDefaultLevel(forward.LevelInfo),
	)

	server := &fasthttp.Server{
		Handler: func(ctx *fasthttp.RequestCtx) {
			f.Info("request", "method", string(ctx.Method()), "path", string(ctx.Path()))
			ctx.SetContentType("text/plain")
			fmt.Fprintf(ctx, "Hello, world! Path: %s\n", ctx.Path())
		},
		Logger:       adapter,
		Name:         "httpsource",
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	fmt.Println("Starting server on :8080")
	if err := server.ListenAndServe(":8080"); err != nil {
		panic(err)
	}
}
