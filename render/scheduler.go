// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"
	"sort"

	"github.com/gogpu/glint"
	"github.com/gogpu/glint/gpu"
)

// Attachment configures one explicit color attachment of a pass. The
// zero value preserves the target's existing contents and stores the
// pass output; Clear applies when Load is gpu.LoadOpClear, and nil
// means opaque black.
type Attachment struct {
	Target RenderTarget
	Load   gpu.LoadOp
	Store  gpu.StoreOp
	Clear  *gpu.Color
}

// PassConfig configures one render pass.
type PassConfig struct {
	// Label is an optional debug name.
	Label string

	// Target is the surface the pass renders into, cleared at pass
	// start. For load-preserving or multi-target passes use Attachments
	// instead.
	Target RenderTarget

	// Clear is the color Target is cleared to; nil means opaque black.
	Clear *gpu.Color

	// Attachments lists explicit color attachments with per-attachment
	// load, store, and clear configuration. When non-empty it takes
	// precedence over Target.
	Attachments []Attachment
}

// DrawStep is one retained draw command inside a pass.
type DrawStep struct {
	// Pipeline selects the render pipeline. Required.
	Pipeline *gpu.Pipeline

	// BindGroups are step-local bind groups by slot. A slot absent here
	// falls back to the pass default set with Canvas.SetBindGroup.
	BindGroups map[int]*gpu.BindGroup

	// Vertices supplies vertex (and optionally index) data. The array
	// is read at flush time, so mutations between Draw and Flush are
	// picked up.
	Vertices *glint.VertexArray

	// Layout optionally names a layout registered on Vertices with
	// RegisterLayout. Draw resolves the name and fails on an unknown
	// one; empty draws with the array's full record layout.
	Layout string

	// Instances is the instance count; zero draws one instance.
	Instances int
}

// passRecord is one deferred pass: its config, pass-default bind
// groups, and recorded steps.
type passRecord struct {
	cfg      PassConfig
	defaults map[int]*gpu.BindGroup
	steps    []DrawStep
	ended    bool
}

// Canvas is the recording token for one open pass. It stays valid
// until End; recording through an ended canvas is an error.
type Canvas struct {
	s   *Scheduler
	rec *passRecord
}

// Scheduler defers render passes: BeginPass opens a pass and pushes it
// on the config stack, Draw records steps, End pops the pass onto the
// submission queue, and Flush encodes every queued pass into a single
// command buffer and submits it once.
//
// Nothing touches the device between BeginPass and End; all device
// work happens at Flush. The scheduler is single-goroutine, matching
// the frame loop that drives it.
type Scheduler struct {
	device  gpu.Device
	buffers *bufferCache
	stack   []*passRecord
	queued  []*passRecord
}

// NewScheduler creates a scheduler rendering on d.
func NewScheduler(d gpu.Device) (*Scheduler, error) {
	if d == nil {
		return nil, gpu.ErrNilDevice
	}
	return &Scheduler{device: d, buffers: newBufferCache()}, nil
}

// Device returns the device the scheduler renders on.
func (s *Scheduler) Device() gpu.Device {
	return s.device
}

// BeginPass opens a pass over cfg and returns its recording canvas.
// Passes nest: a pass opened while another is open records
// independently and must end before the outer one.
func (s *Scheduler) BeginPass(cfg PassConfig) (*Canvas, error) {
	if cfg.Target == nil && len(cfg.Attachments) == 0 {
		return nil, ErrNilTarget
	}
	for _, att := range cfg.Attachments {
		if att.Target == nil {
			return nil, ErrNilTarget
		}
	}
	rec := &passRecord{cfg: cfg, defaults: make(map[int]*gpu.BindGroup)}
	s.stack = append(s.stack, rec)
	return &Canvas{s: s, rec: rec}, nil
}

// SetBindGroup installs a pass-default bind group for slot. Steps that
// do not carry their own group for the slot use the default.
func (c *Canvas) SetBindGroup(slot int, g *gpu.BindGroup) error {
	if c.rec.ended {
		return ErrPassEnded
	}
	if g == nil {
		return ErrNilBindGroup
	}
	c.rec.defaults[slot] = g
	return nil
}

// Draw records a step into the canvas's pass.
func (c *Canvas) Draw(step DrawStep) error {
	if c.rec.ended {
		return ErrPassEnded
	}
	if step.Pipeline == nil {
		return ErrNilPipeline
	}
	if step.Vertices == nil {
		return ErrNoVertices
	}
	for _, g := range step.BindGroups {
		if g == nil {
			return ErrNilBindGroup
		}
	}
	if step.Layout != "" {
		if _, err := step.Vertices.RegisteredLayout(step.Layout); err != nil {
			return err
		}
	}
	c.rec.steps = append(c.rec.steps, step)
	return nil
}

// End closes the canvas's pass and moves it to the submission queue.
// Only the innermost open pass may end.
func (c *Canvas) End() error {
	if c.rec.ended {
		return ErrPassEnded
	}
	if len(c.s.stack) == 0 {
		return ErrNoActivePass
	}
	if c.s.stack[len(c.s.stack)-1] != c.rec {
		return ErrPassOrder
	}
	c.s.stack = c.s.stack[:len(c.s.stack)-1]
	c.rec.ended = true
	c.s.queued = append(c.s.queued, c.rec)
	return nil
}

// Draw records a step into the innermost open pass.
func (s *Scheduler) Draw(step DrawStep) error {
	if len(s.stack) == 0 {
		return ErrNoActivePass
	}
	return (&Canvas{s: s, rec: s.stack[len(s.stack)-1]}).Draw(step)
}

// EndPass ends the innermost open pass.
func (s *Scheduler) EndPass() error {
	if len(s.stack) == 0 {
		return ErrNoActivePass
	}
	return (&Canvas{s: s, rec: s.stack[len(s.stack)-1]}).End()
}

// ActivePasses returns the number of open passes.
func (s *Scheduler) ActivePasses() int {
	return len(s.stack)
}

// QueuedPasses returns the number of passes awaiting Flush.
func (s *Scheduler) QueuedPasses() int {
	return len(s.queued)
}

// ForgetVertices drops the device buffers cached for va. Call after a
// vertex array leaves the scene for good.
func (s *Scheduler) ForgetVertices(va *glint.VertexArray) {
	s.buffers.forget(va)
}

// Flush encodes every queued pass, in the order the passes ended, into
// one command buffer and submits it. Passes with no draw steps are
// skipped during encoding but leave the queue like any other; the
// queue is cleared on success and on encode failure alike, so a failed
// flush never resubmits stale passes. Flushing with a pass still open
// is an error; flushing an empty queue is a no-op.
func (s *Scheduler) Flush() error {
	if len(s.stack) > 0 {
		return ErrPassActive
	}
	if len(s.queued) == 0 {
		return nil
	}
	queued := s.queued
	s.queued = nil

	steps := 0
	for _, rec := range queued {
		steps += len(rec.steps)
	}
	if steps == 0 {
		return nil
	}

	enc, err := s.device.CreateCommandEncoder("glint flush")
	if err != nil {
		return fmt.Errorf("flush: %w", err)
	}

	used := make(map[*gpu.Texture]struct{})
	for _, rec := range queued {
		if len(rec.steps) == 0 {
			continue
		}
		if err := s.encodePass(enc, rec, used); err != nil {
			return err
		}
	}

	buf, err := enc.Finish()
	if err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	if err := s.device.Submit(buf); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	for t := range used {
		t.MarkUsed()
	}
	glint.Logger().Debug("flush submitted", "passes", len(queued), "steps", steps)
	return nil
}

// passAttachments resolves a pass config to its color attachments. The
// Target shorthand clears; explicit attachments carry their own load
// and store ops with opaque black as the default clear color.
func passAttachments(cfg PassConfig) []gpu.ColorAttachment {
	if len(cfg.Attachments) == 0 {
		clear := gpu.ColorOpaqueBlack
		if cfg.Clear != nil {
			clear = *cfg.Clear
		}
		return []gpu.ColorAttachment{{
			View:   cfg.Target.View(),
			Format: cfg.Target.Format(),
			Load:   gpu.LoadOpClear,
			Store:  gpu.StoreOpStore,
			Clear:  clear,
		}}
	}
	out := make([]gpu.ColorAttachment, len(cfg.Attachments))
	for i, att := range cfg.Attachments {
		clear := gpu.ColorOpaqueBlack
		if att.Clear != nil {
			clear = *att.Clear
		}
		out[i] = gpu.ColorAttachment{
			View:   att.Target.View(),
			Format: att.Target.Format(),
			Load:   att.Load,
			Store:  att.Store,
			Clear:  clear,
		}
	}
	return out
}

func (s *Scheduler) encodePass(enc gpu.CommandEncoder, rec *passRecord, used map[*gpu.Texture]struct{}) error {
	attachments := passAttachments(rec.cfg)
	formats := make([]gpu.TextureFormat, len(attachments))
	for i := range attachments {
		formats[i] = attachments[i].Format
	}

	rp, err := enc.BeginRenderPass(&gpu.RenderPassDescriptor{
		Label:            rec.cfg.Label,
		ColorAttachments: attachments,
	})
	if err != nil {
		return fmt.Errorf("pass %q: %w", rec.cfg.Label, err)
	}

	for _, step := range rec.steps {
		if err := s.encodeStep(rp, rec, step, formats, used); err != nil {
			return fmt.Errorf("pass %q: %w", rec.cfg.Label, err)
		}
	}
	return rp.End()
}

func (s *Scheduler) encodeStep(rp gpu.RenderPassEncoder, rec *passRecord, step DrawStep, formats []gpu.TextureFormat, used map[*gpu.Texture]struct{}) error {
	va := step.Vertices
	if va.VertexCount() == 0 {
		return ErrNoVertices
	}
	if step.Layout != "" {
		// Registered layouts can be unregistered between Draw and Flush.
		if _, err := va.RegisteredLayout(step.Layout); err != nil {
			return err
		}
	}

	pipelineID, err := step.Pipeline.Handle(s.device, formats...)
	if err != nil {
		return err
	}
	rp.SetPipeline(pipelineID)

	for _, slot := range bindSlots(rec.defaults, step.BindGroups) {
		group := step.BindGroups[slot]
		if group == nil {
			group = rec.defaults[slot]
		}
		id, err := group.Handle(s.device)
		if err != nil {
			return err
		}
		rp.SetBindGroup(slot, id)
		for _, t := range group.Textures() {
			used[t] = struct{}{}
		}
	}

	bufs, err := s.buffers.buffersFor(s.device, va)
	if err != nil {
		return err
	}
	vertexID, err := bufs.vertex.Handle(s.device)
	if err != nil {
		return err
	}
	// Subset layouts compute offsets against the full record, so every
	// slot binds the same interleaved buffer.
	for slot := 0; slot < step.Pipeline.VertexBufferSlots(); slot++ {
		rp.SetVertexBuffer(slot, vertexID)
	}

	instances := step.Instances
	if instances <= 0 {
		instances = 1
	}

	if va.HasIndices() {
		indexID, err := bufs.index.Handle(s.device)
		if err != nil {
			return err
		}
		rp.SetIndexBuffer(indexID, va.IndexFormat())
		rp.DrawIndexed(va.IndexCount(), instances)
	} else {
		rp.Draw(va.VertexCount(), instances)
	}
	return nil
}

// bindSlots merges default and step-local slot numbers, sorted.
func bindSlots(defaults, local map[int]*gpu.BindGroup) []int {
	seen := make(map[int]struct{}, len(defaults)+len(local))
	for slot := range defaults {
		seen[slot] = struct{}{}
	}
	for slot := range local {
		seen[slot] = struct{}{}
	}
	slots := make([]int, 0, len(seen))
	for slot := range seen {
		slots = append(slots, slot)
	}
	sort.Ints(slots)
	return slots
}
