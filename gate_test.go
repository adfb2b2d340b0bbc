package fulltext

import (
	"context"
	"errors"
	"reflect"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"
)

// waitFor polls cond until it holds or a second has passed.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestGateReadersShare(t *testing.T) {
	g := NewGate()
	ctx := context.Background()

	if err := g.AcquireRead(ctx); err != nil {
		t.Fatal(err)
	}
	if err := g.AcquireRead(ctx); err != nil {
		t.Fatal(err)
	}
	if !g.TryAcquireRead() {
		t.Error("third reader refused")
	}
	if s := g.Stats(); s != (GateStats{Readers: 3}) {
		t.Errorf("Stats() = %+v, want 3 readers", s)
	}

	if g.TryAcquireWrite() {
		t.Fatal("writer admitted while readers hold the gate")
	}

	g.ReleaseRead()
	g.ReleaseRead()
	g.ReleaseRead()
	if !g.TryAcquireWrite() {
		t.Fatal("writer refused on an idle gate")
	}
	if s := g.Stats(); s != (GateStats{Writer: true}) {
		t.Errorf("Stats() = %+v, want writer", s)
	}
}

func TestGateWriterExcludes(t *testing.T) {
	g := NewGate()
	if err := g.AcquireWrite(context.Background()); err != nil {
		t.Fatal(err)
	}

	if g.TryAcquireRead() {
		t.Error("reader admitted while the writer holds the gate")
	}
	if g.TryAcquireWrite() {
		t.Error("second writer admitted")
	}

	g.ReleaseWrite()
	if !g.TryAcquireRead() {
		t.Fatal("reader refused after the writer left")
	}
	g.ReleaseRead()
}

func TestGateFairness(t *testing.T) {
	g := NewGate()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := g.AcquireRead(ctx); err != nil {
			t.Fatal(err)
		}
	}

	var mu sync.Mutex
	var order []string
	record := func(s string) {
		mu.Lock()
		order = append(order, s)
		mu.Unlock()
	}

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		if err := g.AcquireWrite(ctx); err != nil {
			t.Error(err)
			return
		}
		record("W")
		g.ReleaseWrite()
	}()

	// once the writer is queued, new readers are refused
	waitFor(t, "queued writer", func() bool {
		if g.TryAcquireRead() {
			g.ReleaseRead()
			return false
		}
		return true
	})

	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		if err := g.AcquireRead(ctx); err != nil {
			t.Error(err)
			return
		}
		record("R3")
		g.ReleaseRead()
	}()

	waitFor(t, "two waiters", func() bool { return g.Stats().Waiting == 2 })

	g.ReleaseRead()
	g.ReleaseRead()
	<-writerDone
	<-readerDone

	if !slices.Equal(order, []string{"W", "R3"}) {
		t.Errorf("admission order = %v, want [W R3]", order)
	}
}

func TestGateContextDeadline(t *testing.T) {
	g := NewGate()
	if err := g.AcquireWrite(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer g.ReleaseWrite()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := g.AcquireRead(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("AcquireRead error = %v, want %v", err, context.DeadlineExceeded)
	}
	if !strings.Contains(err.Error(), "acquire read gate") {
		t.Errorf("error %q lacks the gate mode", err)
	}

	ctx, cancel = context.WithCancel(context.Background())
	cancel()
	if err := g.AcquireWrite(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("AcquireWrite error = %v, want %v", err, context.Canceled)
	}

	if s := g.Stats(); s != (GateStats{Writer: true}) {
		t.Errorf("Stats() = %+v, want the original writer only", s)
	}
}

func TestGateReleasePanics(t *testing.T) {
	g := NewGate()
	if !panics(g.ReleaseRead) {
		t.Error("ReleaseRead on an idle gate did not panic")
	}
	if !panics(g.ReleaseWrite) {
		t.Error("ReleaseWrite on an idle gate did not panic")
	}

	// the failed releases leave the gate usable
	if !g.TryAcquireWrite() {
		t.Fatal("writer refused after failed releases")
	}
	g.ReleaseWrite()
	if s := g.Stats(); s != (GateStats{}) {
		t.Errorf("Stats() = %+v, want idle gate", s)
	}
}

func TestGateWaitObserver(t *testing.T) {
	var mu sync.Mutex
	seen := map[GateMode]int{}
	g := NewGate(WithWaitObserver(func(mode GateMode, wait time.Duration) {
		mu.Lock()
		defer mu.Unlock()
		seen[mode]++
		if wait < 0 {
			t.Errorf("negative wait %v", wait)
		}
	}))

	ctx := context.Background()
	if err := g.AcquireRead(ctx); err != nil {
		t.Fatal(err)
	}
	g.ReleaseRead()
	if err := g.AcquireWrite(ctx); err != nil {
		t.Fatal(err)
	}
	g.ReleaseWrite()

	mu.Lock()
	defer mu.Unlock()
	if want := map[GateMode]int{GateRead: 1, GateWrite: 1}; !reflect.DeepEqual(seen, want) {
		t.Errorf("observed waits = %v, want %v", seen, want)
	}
}
