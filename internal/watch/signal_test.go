package watch

import (
	"context"
	"os"
	"syscall"
	"testing"
	"time"
)

func TestSignalContextNotCancelledInitially(t *testing.T) {
	ctx, stop := SignalContext(context.Background(), nil)
	defer stop()

	select {
	case <-ctx.Done():
		t.Error("Context should not be cancelled immediately")
	default:
	}
}

func TestSignalContextFollowsParent(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	ctx, stop := SignalContext(parent, nil)
	defer stop()

	cancel()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Error("Context was not cancelled with its parent")
	}
}

func TestSignalContextCallback(t *testing.T) {
	if os.Getenv("CI") == "true" {
		t.Skip("Skipping signal test in CI environment")
	}

	received := make(chan os.Signal, 1)
	ctx, stop := SignalContext(context.Background(), func(sig os.Signal) {
		received <- sig
	})
	defer stop()

	time.Sleep(10 * time.Millisecond)
	syscall.Kill(syscall.Getpid(), syscall.SIGTERM)

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("Context was not cancelled after receiving signal")
	}

	select {
	case sig := <-received:
		if sig != syscall.SIGTERM {
			t.Errorf("expected SIGTERM, got %v", sig)
		}
	default:
		t.Error("callback was not called")
	}
}
