package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
)

func TestRegisterRejectsBadSpec(t *testing.T) {
	s := New(context.Background(), func(ctx context.Context) {})
	if err := s.Register("not a cron spec"); err == nil {
		t.Fatal("expected an error for a malformed spec")
	}
}

func TestRegisterAcceptsSixFieldSpec(t *testing.T) {
	s := New(context.Background(), func(ctx context.Context) {})
	if err := s.Register("0 */5 * * * *"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunNowInvokesWarmer(t *testing.T) {
	var calls atomic.Int32
	s := New(context.Background(), func(ctx context.Context) {
		if ctx.Err() != nil {
			t.Error("warmer context must be live")
		}
		calls.Add(1)
	})

	s.RunNow()
	if calls.Load() != 1 {
		t.Fatalf("expected 1 warmer call, got %d", calls.Load())
	}
}
