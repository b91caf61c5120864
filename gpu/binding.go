// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import "fmt"

// binding tracks which device a wrapper has bound to. A wrapper binds
// on its first device-object request and stays bound for its lifetime;
// a request against a different device is a usage error, not a silent
// re-creation. Destroying the wrapper's object does not unbind it.
type binding struct {
	device Device
}

// bind binds to d on first use and verifies the device on every later
// call.
func (b *binding) bind(d Device) error {
	if d == nil {
		return ErrNilDevice
	}
	if b.device == nil {
		b.device = d
		return nil
	}
	if b.device != d {
		return ErrDeviceConflict
	}
	return nil
}

// bound reports whether the wrapper has bound to a device.
func (b *binding) bound() bool {
	return b.device != nil
}

// requireEntries returns ErrInvalidDescriptor when a descriptor that
// must carry entries carries none.
func requireEntries(what string, n int) error {
	if n == 0 {
		return fmt.Errorf("%w: %s has no entries", ErrInvalidDescriptor, what)
	}
	return nil
}
