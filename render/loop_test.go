// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render_test

import (
	"errors"
	"image"
	"testing"

	"github.com/gogpu/glint/backend/software"
	"github.com/gogpu/glint/gpu"
	"github.com/gogpu/glint/render"
)

func testSprite() image.Image {
	return image.NewRGBA(image.Rect(0, 0, 2, 2))
}

func TestLoop_RunsCountedFrames(t *testing.T) {
	f := newFixture(t)
	va := triangle(t)

	loop := render.NewLoop(f.sched, render.WithFrameSource(render.NewCountedSource(3)))

	frames := 0
	err := loop.Run(func(delta float64) error {
		if frames == 0 && delta != 0 {
			t.Errorf("first frame delta = %v, want 0", delta)
		}
		frames++
		canvas, err := f.sched.BeginPass(render.PassConfig{Label: "frame", Target: f.target})
		if err != nil {
			return err
		}
		if err := canvas.Draw(render.DrawStep{Pipeline: f.pipeline, Vertices: va}); err != nil {
			return err
		}
		return canvas.End()
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if frames != 3 {
		t.Errorf("ran %d frames, want 3", frames)
	}

	// Every frame flushed: one submit per frame.
	if submits := traceOps(f.dev.Trace(), "submit"); len(submits) != 3 {
		t.Errorf("submits = %v, want 3", submits)
	}
	if f.sched.QueuedPasses() != 0 {
		t.Errorf("passes left queued after Run")
	}
}

func TestLoop_FrameErrorStops(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("boom")

	loop := render.NewLoop(f.sched, render.WithFrameSource(render.NewCountedSource(10)))
	frames := 0
	err := loop.Run(func(float64) error {
		frames++
		if frames == 2 {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Run: %v, want the frame error", err)
	}
	if frames != 2 {
		t.Errorf("ran %d frames after error, want 2", frames)
	}
}

func TestLoop_DrainsDestructionQueue(t *testing.T) {
	f := newFixture(t)
	// Software backends auto-complete at submit, so a destroy during a
	// frame is released by a later frame's drain.
	f.dev.AutoComplete = true
	va := triangle(t)

	loop := render.NewLoop(f.sched, render.WithFrameSource(render.NewCountedSource(3)))
	tex := gpu.NewTexture(testSprite(), "sprite")
	if err := tex.Load(f.dev); err != nil {
		t.Fatalf("Load: %v", err)
	}

	frame := 0
	err := loop.Run(func(float64) error {
		frame++
		if frame == 1 {
			tex.Destroy(loop.DestructionQueue())
		}
		canvas, err := f.sched.BeginPass(render.PassConfig{Target: f.target})
		if err != nil {
			return err
		}
		if err := canvas.Draw(render.DrawStep{Pipeline: f.pipeline, Vertices: va}); err != nil {
			return err
		}
		return canvas.End()
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if loop.DestructionQueue().Len() != 0 {
		t.Errorf("destruction queue not drained")
	}
	if got := f.dev.Counts()["texture"]; got != 1 {
		// The offscreen target's texture remains; the sprite is gone.
		t.Errorf("textures alive = %d, want 1", got)
	}
}

func TestLoop_RejectsConcurrentRun(t *testing.T) {
	dev := software.New()
	sched, err := render.NewScheduler(dev)
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}

	loop := render.NewLoop(sched, render.WithFrameSource(render.NewCountedSource(1)))
	err = loop.Run(func(float64) error {
		// Re-entrant Run from inside a frame must refuse.
		if err := loop.Run(func(float64) error { return nil }); !errors.Is(err, render.ErrLoopRunning) {
			t.Errorf("nested Run: %v, want ErrLoopRunning", err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestCountedSource(t *testing.T) {
	src := render.NewCountedSource(2)
	if !src.Next() || !src.Next() {
		t.Fatal("source exhausted early")
	}
	if src.Next() {
		t.Fatal("source yielded a third frame")
	}

	src = render.NewCountedSource(5)
	src.Stop()
	if src.Next() {
		t.Fatal("stopped source yielded a frame")
	}
}
