package fulltext

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
)

// gateCapacity is the weight of the write side. Readers weigh 1, so up to
// gateCapacity readers may hold the gate at once.
const gateCapacity = 1 << 30

// GateMode names the side of a Gate.
type GateMode string

const (
	GateRead  GateMode = "read"
	GateWrite GateMode = "write"
)

// GateStats is a snapshot of the state of a Gate.
type GateStats struct {
	Readers int
	Writer  bool
	Waiting int
}

// GateOption configures a Gate.
type GateOption func(*Gate)

// WithWaitObserver registers a function called with the time every
// successful acquisition spent waiting.
func WithWaitObserver(fn func(mode GateMode, wait time.Duration)) GateOption {
	return func(g *Gate) {
		g.observe = fn
	}
}

// Gate is a fair reader/writer lock. Any number of readers may hold it while
// no writer holds it; a writer holds it alone. Callers are admitted in
// arrival order, so a reader that arrives after a waiting writer waits for
// that writer, and continuous reading never starves writers.
//
// Acquisition blocks until admitted or until the context is done.
type Gate struct {
	sem     *semaphore.Weighted
	readers atomic.Int64
	writer  atomic.Bool
	waiting atomic.Int64
	observe func(mode GateMode, wait time.Duration)
}

// NewGate creates an open gate.
func NewGate(opts ...GateOption) *Gate {
	g := &Gate{sem: semaphore.NewWeighted(gateCapacity)}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Gate) acquire(ctx context.Context, mode GateMode, weight int64) error {
	start := time.Now()
	g.waiting.Add(1)
	err := g.sem.Acquire(ctx, weight)
	g.waiting.Add(-1)
	if err != nil {
		return fmt.Errorf("acquire %s gate: %w", mode, err)
	}
	if g.observe != nil {
		g.observe(mode, time.Since(start))
	}
	return nil
}

// AcquireRead blocks until the read side is admitted.
func (g *Gate) AcquireRead(ctx context.Context) error {
	if err := g.acquire(ctx, GateRead, 1); err != nil {
		return err
	}
	g.readers.Add(1)
	return nil
}

// TryAcquireRead acquires the read side without blocking. It fails while a
// writer holds the gate or anyone is waiting.
func (g *Gate) TryAcquireRead() bool {
	if !g.sem.TryAcquire(1) {
		return false
	}
	g.readers.Add(1)
	return true
}

// ReleaseRead releases the read side. It panics if no reader holds the gate.
func (g *Gate) ReleaseRead() {
	if g.readers.Add(-1) < 0 {
		g.readers.Add(1)
		panic("fulltext: ReleaseRead without a reader")
	}
	g.sem.Release(1)
}

// AcquireWrite blocks until the write side is admitted.
func (g *Gate) AcquireWrite(ctx context.Context) error {
	if err := g.acquire(ctx, GateWrite, gateCapacity); err != nil {
		return err
	}
	g.writer.Store(true)
	return nil
}

// TryAcquireWrite acquires the write side without blocking.
func (g *Gate) TryAcquireWrite() bool {
	if !g.sem.TryAcquire(gateCapacity) {
		return false
	}
	g.writer.Store(true)
	return true
}

// ReleaseWrite releases the write side. It panics if no writer holds the gate.
func (g *Gate) ReleaseWrite() {
	if !g.writer.CompareAndSwap(true, false) {
		panic("fulltext: ReleaseWrite without a writer")
	}
	g.sem.Release(gateCapacity)
}

// Stats returns a snapshot of the gate. The fields are read independently
// and may be mutually inconsistent under contention.
func (g *Gate) Stats() GateStats {
	return GateStats{
		Readers: int(g.readers.Load()),
		Writer:  g.writer.Load(),
		Waiting: int(g.waiting.Load()),
	}
}
