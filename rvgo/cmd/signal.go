package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// WithInterrupt returns a context canceled on SIGINT/SIGTERM, the same
// wiring the teacher's rvgo/main.go uses around its cli.App run.
func WithInterrupt(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-ch:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(ch)
	}()
	return ctx, cancel
}
