package storage

import (
	"context"
	"testing"
	"time"
)

func TestSweeper_RunOnce(t *testing.T) {
	store := NewMemoryStore(MemoryConfig{})
	defer store.Close()
	ctx := context.Background()

	_, _, _ = store.Consume(ctx, "expired", 5, time.Hour, t0)
	_, _, _ = store.Consume(ctx, "live", 5, time.Hour, t0.Add(50*time.Minute))

	sw := NewSweeper(store, "@every 1h", time.Hour, nil)
	sw.now = func() time.Time { return t0.Add(70 * time.Minute) }

	var reported int
	sw.OnSweep = func(n int) { reported = n }

	if got := sw.RunOnce(ctx); got != 1 {
		t.Errorf("expected 1 deleted, got %d", got)
	}
	if reported != 1 {
		t.Errorf("expected OnSweep to report 1, got %d", reported)
	}
	if n, _ := store.Len(ctx); n != 1 {
		t.Errorf("expected 1 record left, got %d", n)
	}
}

func TestSweeper_StartStop(t *testing.T) {
	store := NewMemoryStore(MemoryConfig{})
	defer store.Close()

	sw := NewSweeper(store, "@every 1h", time.Hour, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := sw.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !sw.IsRunning() {
		t.Fatal("expected running")
	}
	if next := sw.NextRun(); next == nil || next.Before(time.Now()) {
		t.Errorf("expected future next run, got %v", next)
	}

	sw.Stop()
	if sw.IsRunning() {
		t.Error("expected stopped")
	}
}

func TestSweeper_EmptyScheduleDisabled(t *testing.T) {
	sw := NewSweeper(NewMemoryStore(MemoryConfig{}), "", time.Hour, nil)
	if err := sw.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if sw.IsRunning() {
		t.Error("empty schedule should not start")
	}
}

func TestSweeper_InvalidSchedule(t *testing.T) {
	sw := NewSweeper(NewMemoryStore(MemoryConfig{}), "every so often", time.Hour, nil)
	if err := sw.Start(context.Background()); err == nil {
		t.Error("expected error for invalid schedule")
	}
}
