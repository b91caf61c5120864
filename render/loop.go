// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/gogpu/glint/gpu"
)

// FrameSource paces the frame loop. Next blocks until the next frame
// is due and reports false once the source is exhausted or stopped.
//
// The default source is a wall-clock ticker; tests substitute a
// steppable source to run an exact number of frames.
type FrameSource interface {
	Next() bool
	Stop()
}

// tickerSource paces frames off a time.Ticker.
type tickerSource struct {
	ticker *time.Ticker
	done   chan struct{}
}

func newTickerSource(interval time.Duration) *tickerSource {
	return &tickerSource{
		ticker: time.NewTicker(interval),
		done:   make(chan struct{}),
	}
}

func (s *tickerSource) Next() bool {
	select {
	case <-s.done:
		return false
	case <-s.ticker.C:
		return true
	}
}

func (s *tickerSource) Stop() {
	s.ticker.Stop()
	select {
	case <-s.done:
	default:
		close(s.done)
	}
}

// CountedSource is a frame source that yields a fixed number of frames
// immediately, without waiting on the clock.
type CountedSource struct {
	remaining atomic.Int64
}

// NewCountedSource creates a source yielding n frames.
func NewCountedSource(n int) *CountedSource {
	s := &CountedSource{}
	s.remaining.Store(int64(n))
	return s
}

// Next consumes one frame.
func (s *CountedSource) Next() bool {
	return s.remaining.Add(-1) >= 0
}

// Stop exhausts the source.
func (s *CountedSource) Stop() {
	s.remaining.Store(0)
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithFrameSource substitutes the frame pacing source.
func WithFrameSource(src FrameSource) LoopOption {
	return func(l *Loop) { l.src = src }
}

// WithTargetFPS sets the wall-clock frame rate. Ignored when a custom
// frame source is installed.
func WithTargetFPS(fps int) LoopOption {
	return func(l *Loop) { l.fps = fps }
}

// Loop drives frames: each frame it invokes the application callback,
// drains the deferred destruction queue, and flushes the scheduler's
// queued passes. All three run on the goroutine that called Run.
type Loop struct {
	sched   *Scheduler
	destroy *gpu.DestructionQueue
	src     FrameSource
	fps     int
	running atomic.Bool
}

// NewLoop creates a frame loop over sched. The loop owns a destruction
// queue that deferred texture destruction drains through; pass it to
// Texture.Destroy.
func NewLoop(sched *Scheduler, opts ...LoopOption) *Loop {
	l := &Loop{
		sched:   sched,
		destroy: &gpu.DestructionQueue{},
		fps:     60,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// DestructionQueue returns the loop's deferred destruction queue.
func (l *Loop) DestructionQueue() *gpu.DestructionQueue {
	return l.destroy
}

// Run drives frames until the frame source stops, Stop is called, or
// frame returns an error. frame receives the time since the previous
// frame in milliseconds (zero on the first frame).
//
// Each frame runs frame, drains the destruction queue, then flushes
// the scheduler. Draining before the flush keeps a frame from holding
// freed and in-use handles at the same time. Run returns the frame
// callback's error, a flush error, or nil on a clean stop.
func (l *Loop) Run(frame func(deltaMillis float64) error) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrLoopRunning
	}
	defer l.running.Store(false)

	if l.src == nil {
		l.src = newTickerSource(time.Second / time.Duration(l.fps))
	}
	defer l.src.Stop()

	var last time.Time
	for l.src.Next() {
		now := time.Now()
		delta := 0.0
		if !last.IsZero() {
			delta = float64(now.Sub(last)) / float64(time.Millisecond)
		}
		last = now

		if err := frame(delta); err != nil {
			return err
		}
		l.destroy.Drain()
		if err := l.sched.Flush(); err != nil {
			return fmt.Errorf("frame flush: %w", err)
		}
	}
	return nil
}

// Stop makes Run return after the current frame.
func (l *Loop) Stop() {
	if l.src != nil {
		l.src.Stop()
	}
}
