// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package netchan

// Buffer is the minimal cursor-bearing byte buffer PendingWrite and the read path
// consume. Buffer allocation and cursor mechanics beyond this contract belong to the
// caller's allocator strategy; Channel and PendingWriteQueue only ever advance a Buffer's
// cursors (Skip on the write path, Produced on the read path), they never reallocate or
// resize one.
type Buffer interface {
	// ReadableBytes returns the number of unread bytes remaining.
	ReadableBytes() int

	// Skip advances the read cursor by n bytes. It must not be called with
	// n > ReadableBytes().
	Skip(n int)

	// WithReadPointer invokes fn with a slice over the unread region. fn must not retain
	// the slice past the call: the buffer's storage may be reused once WithReadPointer
	// returns. WithReadPointer never advances the cursor itself; callers advance it
	// explicitly via Skip once a syscall result is known, so a would-block leaves the
	// buffer untouched.
	WithReadPointer(fn func(p []byte))

	// WriteCapacity returns the number of bytes available for a read-side fill, i.e. the
	// span a RecvBufferAllocator hands to Socket.Read.
	WriteCapacity() int

	// WritePointer returns the writable region a read-side fill writes into. Like
	// WithReadPointer, the returned slice is only valid until the next mutating call.
	WritePointer() []byte

	// Produced records that n bytes were written into WritePointer()'s region by a read,
	// making them readable.
	Produced(n int)
}

// SliceBuffer is the default Buffer: a []byte plus independent read/write cursors. It is
// the concrete type returned by the default RecvBufferAllocator and accepted anywhere a
// Buffer is expected on the write path.
//
// Grounded on this codebase's own cursor-offset idiom (offset/length bookkeeping over a
// reused scratch slice), generalized from a single reader-side cursor into a
// general-purpose type usable on both the read and write paths.
type SliceBuffer struct {
	data []byte
	r    int // read cursor
	w    int // write cursor; bytes [r:w] are readable
}

// NewSliceBuffer wraps data as a fully-readable Buffer (read cursor at 0, write cursor
// at len(data)). Use it to enqueue a caller-supplied payload for write0.
func NewSliceBuffer(data []byte) *SliceBuffer {
	return &SliceBuffer{data: data, w: len(data)}
}

// NewSliceBufferCap allocates a fresh buffer of the given capacity with nothing yet
// readable. Use it as a read-side scratch buffer: Socket.Read fills WritePointer(), then
// Produced(n) makes the filled region readable.
func NewSliceBufferCap(capacity int) *SliceBuffer {
	return &SliceBuffer{data: make([]byte, capacity)}
}

func (b *SliceBuffer) ReadableBytes() int { return b.w - b.r }

func (b *SliceBuffer) Skip(n int) {
	if n < 0 || n > b.ReadableBytes() {
		panic("netchan: Skip out of range")
	}
	b.r += n
}

func (b *SliceBuffer) WithReadPointer(fn func(p []byte)) {
	fn(b.data[b.r:b.w])
}

func (b *SliceBuffer) WriteCapacity() int { return len(b.data) - b.w }

func (b *SliceBuffer) WritePointer() []byte { return b.data[b.w:] }

func (b *SliceBuffer) Produced(n int) {
	if n < 0 || b.w+n > len(b.data) {
		panic("netchan: Produced out of range")
	}
	b.w += n
}

// Bytes returns the buffer's full readable region without advancing the cursor. It is a
// convenience for handlers that just want to inspect what was read.
func (b *SliceBuffer) Bytes() []byte { return b.data[b.r:b.w] }
