package cache

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func newTestInstrumented(t *testing.T) (*Instrumented, *Tracker) {
	t.Helper()
	tracker := NewTracker(nil, nil)
	store := NewMemoryStore(16, Policy{DefaultTTL: time.Minute})
	return NewInstrumented(store, tracker, NewGenerator(), "optimize"), tracker
}

// TestInstrumented_RecordsHitsAndMisses verifies Get outcomes flow
// into the tracker.
func TestInstrumented_RecordsHitsAndMisses(t *testing.T) {
	ctx := context.Background()
	c, tracker := newTestInstrumented(t)

	c.Set(ctx, "k", []byte("v"), 0)

	if _, ok := c.Get(ctx, "k"); !ok {
		t.Fatal("expected hit")
	}
	if _, ok := c.Get(ctx, "absent"); ok {
		t.Fatal("expected miss")
	}

	stats := tracker.Statistics()
	if stats.Hits != 1 {
		t.Errorf("Hits = %d, want 1", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Errorf("Misses = %d, want 1", stats.Misses)
	}
}

// TestInstrumented_RecordsConfirmedSetsOnly verifies unconfirmed
// writes do not count.
func TestInstrumented_RecordsConfirmedSetsOnly(t *testing.T) {
	ctx := context.Background()
	c, tracker := newTestInstrumented(t)

	if !c.Set(ctx, "k", []byte("v"), 0) {
		t.Fatal("expected confirmed write")
	}
	if c.Set(ctx, "", []byte("v"), 0) {
		t.Fatal("expected rejected write")
	}

	if got := tracker.Statistics().Sets; got != 1 {
		t.Errorf("Sets = %d, want 1", got)
	}
}

// TestInstrumented_PassThrough verifies values and the remaining store
// operations are untouched.
func TestInstrumented_PassThrough(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestInstrumented(t)

	c.Set(ctx, "k", []byte("v"), 0)

	got, ok := c.Get(ctx, "k")
	if !ok || !bytes.Equal(got, []byte("v")) {
		t.Errorf("expected value pass-through, got (%q, %v)", got, ok)
	}

	if n := c.Delete(ctx, "k"); n != 1 {
		t.Errorf("Delete = %d, want 1", n)
	}
	if err := c.Flush(ctx); err != nil {
		t.Errorf("unexpected flush error: %v", err)
	}
	if !c.Healthy(ctx) {
		t.Error("expected healthy pass-through")
	}
}

// TestInstrumented_NilDefaults verifies nil collaborators degrade
// safely.
func TestInstrumented_NilDefaults(t *testing.T) {
	ctx := context.Background()
	c := NewInstrumented(nil, nil, nil, "")

	// NopStore: every get misses and gets counted.
	if _, ok := c.Get(ctx, "k"); ok {
		t.Error("expected miss from NopStore")
	}
	if got := c.Statistics().Misses; got != 1 {
		t.Errorf("Misses = %d, want 1", got)
	}

	// Default generator still derives keys.
	key, err := c.Key("ns", map[string]any{"a": 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key == "" {
		t.Error("expected non-empty key")
	}
}

// TestInstrumented_SinkReceivesCacheType verifies the configured type
// labels forwarded events.
func TestInstrumented_SinkReceivesCacheType(t *testing.T) {
	ctx := context.Background()
	sink := newRecordingSink()
	tracker := NewTracker(sink, nil)
	c := NewInstrumented(NewMemoryStore(16, DefaultPolicy()), tracker, nil, "span-labeling")

	c.Get(ctx, "absent")

	if len(sink.misses) != 1 || sink.misses[0] != "span-labeling" {
		t.Errorf("expected miss labeled span-labeling, got %v", sink.misses)
	}
}
