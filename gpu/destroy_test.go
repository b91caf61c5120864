// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"sync/atomic"
	"testing"
)

// callbackDevice is a Device stub that only queues work-done callbacks;
// every other operation is inert.
type callbackDevice struct {
	callbacks []func()
}

func (d *callbackDevice) CreateBuffer(int, BufferUsage, string) (BufferID, error) { return 1, nil }
func (d *callbackDevice) DestroyBuffer(BufferID)                                  {}
func (d *callbackDevice) WriteBuffer(BufferID, uint64, []byte)                    {}
func (d *callbackDevice) CreateTexture(*TextureDescriptor) (TextureID, error)     { return 1, nil }
func (d *callbackDevice) DestroyTexture(TextureID)                                {}
func (d *callbackDevice) WriteTexture(TextureID, []byte)                          {}
func (d *callbackDevice) CreateTextureView(TextureID) (TextureViewID, error)      { return 1, nil }
func (d *callbackDevice) DestroyTextureView(TextureViewID)                        {}
func (d *callbackDevice) CreateSampler(*SamplerDescriptor) (SamplerID, error)     { return 1, nil }
func (d *callbackDevice) DestroySampler(SamplerID)                                {}
func (d *callbackDevice) CreateShaderModule(string, string) (ShaderModuleID, error) {
	return 1, nil
}
func (d *callbackDevice) DestroyShaderModule(ShaderModuleID) {}
func (d *callbackDevice) CreateBindGroupLayout(*BindGroupLayoutDescriptor) (BindGroupLayoutID, error) {
	return 1, nil
}
func (d *callbackDevice) DestroyBindGroupLayout(BindGroupLayoutID) {}
func (d *callbackDevice) CreateBindGroup(*BindGroupDescriptor) (BindGroupID, error) {
	return 1, nil
}
func (d *callbackDevice) DestroyBindGroup(BindGroupID) {}
func (d *callbackDevice) CreateRenderPipeline(*RenderPipelineDescriptor) (RenderPipelineID, error) {
	return 1, nil
}
func (d *callbackDevice) DestroyRenderPipeline(RenderPipelineID)         {}
func (d *callbackDevice) CreateCommandEncoder(string) (CommandEncoder, error) {
	return nil, nil
}
func (d *callbackDevice) Submit(...CommandBuffer) error { return nil }

func (d *callbackDevice) OnSubmittedWorkDone(fn func()) {
	d.callbacks = append(d.callbacks, fn)
}

// complete runs the currently queued callbacks; callbacks queued while
// completing wait for the next round, like a real completion fence.
func (d *callbackDevice) complete() {
	batch := d.callbacks
	d.callbacks = nil
	for _, fn := range batch {
		fn()
	}
}

func TestWaitIdle_QuietEpoch(t *testing.T) {
	d := &callbackDevice{}
	epoch := new(atomic.Uint64)

	done := false
	waitIdle(d, epoch, func() { done = true })

	if done {
		t.Fatal("done ran before completion")
	}
	d.complete()
	if !done {
		t.Fatal("done did not run after completion")
	}
}

func TestWaitIdle_RearmsWhenEpochMoves(t *testing.T) {
	d := &callbackDevice{}
	epoch := new(atomic.Uint64)

	done := false
	waitIdle(d, epoch, func() { done = true })

	// New work referencing the resource arrives while the wait is
	// pending: the first completion must not release.
	epoch.Add(1)
	d.complete()
	if done {
		t.Fatal("released while the epoch had moved")
	}
	if len(d.callbacks) != 1 {
		t.Fatalf("wait did not re-arm: %d callbacks queued", len(d.callbacks))
	}

	// The epoch is quiet now; the next completion releases.
	d.complete()
	if !done {
		t.Fatal("done did not run after the re-armed completion")
	}
}

func TestDestructionQueue_Drain(t *testing.T) {
	var q DestructionQueue
	ran := []int{}

	q.Enqueue(func() { ran = append(ran, 1) })
	q.Enqueue(func() { ran = append(ran, 2) })
	if q.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", q.Len())
	}

	q.Drain()
	if len(ran) != 2 || ran[0] != 1 || ran[1] != 2 {
		t.Fatalf("drained in order %v, want [1 2]", ran)
	}
	if q.Len() != 0 {
		t.Errorf("Len() = %d after drain, want 0", q.Len())
	}
}

func TestDestructionQueue_EnqueueDuringDrain(t *testing.T) {
	var q DestructionQueue
	second := false

	q.Enqueue(func() {
		q.Enqueue(func() { second = true })
	})

	q.Drain()
	if second {
		t.Fatal("nested enqueue ran in the same drain")
	}
	if q.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", q.Len())
	}
	q.Drain()
	if !second {
		t.Fatal("nested enqueue never ran")
	}
}
