package core

import (
	"context"
	"time"
)

// Pacer is consulted by an asynchronous run before each step that opens a
// new wave. It only controls timing; the order of steps is fixed.
type Pacer interface {
	Pause(ctx context.Context, l Liquid, depth int) error
}

// NoPacer never waits.
type NoPacer struct{}

// Pause returns immediately unless ctx is already done.
func (NoPacer) Pause(ctx context.Context, _ Liquid, _ int) error {
	return ctx.Err()
}

// WaveDelay waits a fixed duration per liquid before every wave after the
// source wave.
type WaveDelay struct {
	Water time.Duration
	Lava  time.Duration
}

// DefaultWaveDelay returns the stock reveal pace.
func DefaultWaveDelay() WaveDelay {
	return WaveDelay{Water: 500 * time.Millisecond, Lava: time.Second}
}

// Pause sleeps for the liquid's delay or until ctx is done.
func (w WaveDelay) Pause(ctx context.Context, l Liquid, depth int) error {
	d := w.Water
	if l == Lava {
		d = w.Lava
	}
	if depth == 0 || d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
