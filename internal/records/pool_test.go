package records

import (
	"context"
	"testing"
	"time"
)

func TestConnPoolBoundsConcurrentAcquires(t *testing.T) {
	p := newConnPool(nil, 1)

	ctx := context.Background()
	if err := p.acquire(ctx); err != nil {
		t.Fatalf("unexpected error acquiring first permit: %v", err)
	}

	ctx2, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	if err := p.acquire(ctx2); err == nil {
		t.Fatal("expected second acquire to block until timeout with pool size 1")
	}

	p.release()

	ctx3, cancel3 := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel3()
	if err := p.acquire(ctx3); err != nil {
		t.Fatalf("expected acquire to succeed after release, got %v", err)
	}
}
