// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package netchan

// EventLoop is the readiness notifier a Channel is pinned to for its lifetime. Register,
// Reregister, and Deregister are idempotent per state and may fail with an I/O error;
// Channel reads back its own Interest() to know what mask is currently armed. The loop
// invokes ReadFromEventLoop on a readable edge and FlushFromEventLoop on a writable
// edge — see Channel for those entry points.
//
// This interface is the contract the core Channel consumes; code.hybscloud.com/netchan/
// internal/reactor ships one concrete Linux-epoll implementation.
type EventLoop interface {
	// Register arms interest for the first time for c (current Interest is
	// InterestNone). want is never InterestNone.
	Register(c *Channel, want Interest) error

	// Reregister changes an already-armed interest for c. want is never InterestNone.
	Reregister(c *Channel, want Interest) error

	// Deregister withdraws all interest for c.
	Deregister(c *Channel) error
}
