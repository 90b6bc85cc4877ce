package browser

import (
	"context"
	"log/slog"
	"testing"
	"time"
)

func TestCloseTabResetsCursor(t *testing.T) {
	t.Parallel()

	base := context.Background()
	tabCtx, tabCancel := context.WithCancel(base)
	sess := &Session{base: base, active: tabCtx}
	tab := &Tab{id: "tab-1", ctx: tabCtx, cancel: tabCancel}

	sess.CloseTab(tab)

	if sess.active != base {
		t.Fatal("cursor should return to the base tab")
	}
	if tabCtx.Err() == nil {
		t.Fatal("tab context should be cancelled")
	}
}

func TestCloseTabIgnoresForeignTab(t *testing.T) {
	t.Parallel()

	base := context.Background()
	sess := &Session{base: base, active: base}

	sess.CloseTab(nil)

	if sess.active != base {
		t.Fatal("cursor must be unchanged")
	}
}

func TestReleaseIdempotent(t *testing.T) {
	t.Parallel()

	baseCalls, allocCalls := 0, 0
	sess := &Session{
		baseCancel:  func() { baseCalls++ },
		allocCancel: func() { allocCalls++ },
		logger:      slog.Default(),
	}

	sess.Release()
	sess.Release()

	if baseCalls != 1 || allocCalls != 1 {
		t.Fatalf("cancel funcs ran %d/%d times, want once each", baseCalls, allocCalls)
	}
}

func TestBoundedContextFollowsCaller(t *testing.T) {
	t.Parallel()

	caller, cancelCaller := context.WithCancel(context.Background())
	rctx, cancel := boundedContext(caller, context.Background(), 0)
	defer cancel()

	select {
	case <-rctx.Done():
		t.Fatal("run context ended early")
	default:
	}

	cancelCaller()
	select {
	case <-rctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("run context did not end with the caller")
	}
}

func TestBoundedContextTimeout(t *testing.T) {
	t.Parallel()

	rctx, cancel := boundedContext(context.Background(), context.Background(), 10*time.Millisecond)
	defer cancel()

	select {
	case <-rctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("run context did not time out")
	}
	if rctx.Err() != context.DeadlineExceeded {
		t.Fatalf("unexpected error: %v", rctx.Err())
	}
}

func TestBoundedContextCancelReleases(t *testing.T) {
	t.Parallel()

	rctx, cancel := boundedContext(context.Background(), context.Background(), 0)
	cancel()
	cancel()

	if rctx.Err() == nil {
		t.Fatal("cancel should end the run context")
	}
}

func TestTabID(t *testing.T) {
	t.Parallel()

	tab := &Tab{id: "tab-7"}
	if tab.ID() != "tab-7" {
		t.Fatalf("unexpected tab id: %s", tab.ID())
	}
}
