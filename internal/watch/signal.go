package watch

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// SignalContext returns a context cancelled on SIGTERM or SIGINT. callback,
// when non-nil, is called with the signal before cancellation. The returned
// stop function releases the signal handler.
func SignalContext(parent context.Context, callback func(os.Signal)) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			if callback != nil {
				callback(sig)
			}
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
