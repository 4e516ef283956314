// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package netchan

// RecvBufferAllocator produces a fresh read buffer for each read attempt in
// Channel.ReadFromEventLoop. It is a strategy object so callers can plug in pooling,
// adaptive sizing, or a fixed-size scheme without touching Channel itself.
type RecvBufferAllocator interface {
	// Buffer returns a Buffer ready to receive a read: its write cursor is at zero
	// (ReadableBytes() == 0) and WriteCapacity() reflects how much a single read should
	// attempt.
	Buffer() *SliceBuffer

	// Record lets an adaptive allocator observe how many bytes the last read actually
	// produced, so it can grow or shrink its next guess. The default FixedRecvAllocator
	// ignores it.
	Record(n int)
}

// FixedRecvAllocator always hands out a buffer of the same capacity. It is the default
// RecvBufferAllocator: simple, predictable, and zero-surprise under backpressure —
// matching this codebase's preference for a conservative default (64KiB) over guessing,
// echoed from the default scratch-buffer sizing used elsewhere in this codebase's
// ancestry.
type FixedRecvAllocator struct {
	Size int
}

// NewFixedRecvAllocator returns a FixedRecvAllocator producing buffers of the given
// size. A non-positive size falls back to a 64KiB default.
func NewFixedRecvAllocator(size int) *FixedRecvAllocator {
	if size <= 0 {
		size = 64 * 1024
	}
	return &FixedRecvAllocator{Size: size}
}

func (a *FixedRecvAllocator) Buffer() *SliceBuffer { return NewSliceBufferCap(a.Size) }

func (a *FixedRecvAllocator) Record(int) {}
