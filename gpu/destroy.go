// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import "sync"

// DestructionQueue collects release actions that are safe to run but
// must not run at an arbitrary moment. Resource wrappers enqueue a
// release once the device has confirmed all work referencing the
// resource is complete; the frame loop drains the queue at a known
// point in the frame.
type DestructionQueue struct {
	mu      sync.Mutex
	pending []func()
}

// Enqueue adds a release action.
func (q *DestructionQueue) Enqueue(release func()) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, release)
}

// Len returns the number of queued release actions.
func (q *DestructionQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Drain runs and removes all queued release actions. Actions enqueued
// while draining run on the next Drain call.
func (q *DestructionQueue) Drain() {
	q.mu.Lock()
	batch := q.pending
	q.pending = nil
	q.mu.Unlock()

	for _, release := range batch {
		release()
	}
}
