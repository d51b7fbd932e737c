package resilience_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rafisgodoy/unibus-core-go/internal/infra/resilience"
)

func TestCircuitBreaker_OpensAfterFailures(t *testing.T) {
	cb := resilience.NewCircuitBreaker("test")
	failing := errors.New("boom")

	// Drive enough failures to trip the breaker (>=5 requests, >=60% failure).
	for i := 0; i < 6; i++ {
		_, _ = cb.Execute(func() (any, error) {
			return nil, failing
		})
	}

	_, err := cb.Execute(func() (any, error) {
		return "should not run", nil
	})
	if err == nil {
		t.Fatal("expected breaker to be open and reject the call")
	}
}

func TestCircuitBreaker_PassesSuccesses(t *testing.T) {
	cb := resilience.NewCircuitBreaker("test")

	got, err := cb.Execute(func() (any, error) {
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" {
		t.Errorf("expected 'ok', got %v", got)
	}
}

func TestBulkhead_LimitsConcurrency(t *testing.T) {
	b := resilience.NewBulkhead(1)

	if err := b.Acquire(context.Background()); err != nil {
		t.Fatalf("first acquire failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := b.Acquire(ctx); err == nil {
		t.Fatal("expected second acquire to block until context timeout")
	}

	b.Release()
	if err := b.Acquire(context.Background()); err != nil {
		t.Fatalf("acquire after release failed: %v", err)
	}
}
