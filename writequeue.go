// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package netchan

import "errors"

// writevLimit bounds how many pending writes a single vectored syscall offers at once,
// mirroring the platform's conventional IOV_MAX.
const writevLimit = 1024

// pendingWrite holds one buffered write: its payload and the promise completed when the
// payload is fully drained (or the queue is failed).
type pendingWrite struct {
	buf  Buffer
	p    Promise
	next *pendingWrite
}

// SingleWriteFunc performs one non-vectored write attempt of the borrowed region. It
// must not retain p past the call. It returns ErrWouldBlock (via errors.Is) if the
// underlying transport would block; any other non-nil error is fatal for the queue.
type SingleWriteFunc func(p []byte) (n int, err error)

// VectorWriteFunc performs one vectored write attempt over the borrowed regions. Same
// error contract as SingleWriteFunc.
type VectorWriteFunc func(vec [][]byte) (n int, err error)

// PendingWriteQueue is a singly-linked FIFO of pendingWrite nodes. It is not safe for
// concurrent use: like the rest of this package, it is owned by a single event-loop
// goroutine.
//
// Invariants:
//   - head == nil iff tail == nil iff outstanding == 0.
//   - outstanding == sum of ReadableBytes() across all live nodes.
//   - A node is unlinked before its promise is settled, so a promise's reentrant call
//     into Enqueue/Consume observes a consistent queue.
type PendingWriteQueue struct {
	head, tail  *pendingWrite
	outstanding int
}

// NewPendingWriteQueue returns an empty queue.
func NewPendingWriteQueue() *PendingWriteQueue { return &PendingWriteQueue{} }

// Enqueue appends buf/p to the tail of the queue.
func (q *PendingWriteQueue) Enqueue(buf Buffer, p Promise) {
	n := &pendingWrite{buf: buf, p: p}
	if q.tail == nil {
		q.head, q.tail = n, n
	} else {
		q.tail.next = n
		q.tail = n
	}
	q.outstanding += buf.ReadableBytes()
}

// IsEmpty reports whether the queue holds no pending writes.
func (q *PendingWriteQueue) IsEmpty() bool { return q.head == nil }

// Outstanding returns the total unsent bytes across all pending writes.
func (q *PendingWriteQueue) Outstanding() int { return q.outstanding }

// Consume is the central drain primitive.
//
// Return shape, standing in for the conceptual Option<bool>:
//   - ok == false: the queue was empty; nothing was attempted.
//   - ok == true, err != nil: the underlying callback failed with something other than
//     ErrWouldBlock. The queue is left exactly as it was before the failing call; the
//     caller (Channel.flushNow) must fail the whole queue via close0.
//   - ok == true, err == nil, progress == true: every byte offered in this call (the
//     head alone, or the whole vector of up to writevLimit nodes) was accepted; the
//     queue may have more work.
//   - ok == true, err == nil, progress == false: either a would-block, or a partial
//     write landed (kernel backpressure).
func (q *PendingWriteQueue) Consume(single SingleWriteFunc, vector VectorWriteFunc) (progress bool, ok bool, err error) {
	if q.head == nil {
		return false, false, nil
	}

	var n, offered int
	if q.head.next == nil {
		offered = q.head.ReadableBytes()
		q.head.buf.WithReadPointer(func(p []byte) {
			n, err = single(p)
		})
	} else {
		vec := make([][]byte, 0, writevLimit)
		for node := q.head; node != nil && len(vec) < writevLimit; node = node.next {
			node.buf.WithReadPointer(func(p []byte) {
				vec = append(vec, p)
				offered += len(p)
			})
		}
		n, err = vector(vec)
	}

	if err != nil {
		if errors.Is(err, ErrWouldBlock) {
			// No cursor was advanced above, since WithReadPointer never mutates the
			// buffer itself. Bytes reported alongside the would-block were really sent,
			// so they are accepted before stopping; with n == 0 this is a no-op.
			if n > 0 {
				q.accept(n, offered)
			}
			return false, true, nil
		}
		return false, true, err
	}

	return q.accept(n, offered), true, nil
}

// accept applies n accepted bytes to the queue head(s), unlinking and completing any
// node that was fully drained, and reports whether total progress equaled what was
// offered by the head/vector.
func (q *PendingWriteQueue) accept(n, offered int) (fullyDrained bool) {
	if n < 0 {
		panic("netchan: write callback returned negative count")
	}
	if n > offered {
		panic("netchan: write callback reported more bytes than offered")
	}

	q.outstanding -= n
	remaining := n
	for remaining > 0 && q.head != nil {
		h := q.head.ReadableBytes()
		if remaining >= h {
			remaining -= h
			q.popHead()
			continue
		}
		q.head.buf.Skip(remaining)
		remaining = 0
	}

	return n == offered && n > 0
}

// popHead unlinks the current head and settles its promise, in that order so a
// reentrant write from within the completion observes the node already gone.
func (q *PendingWriteQueue) popHead() {
	n := q.head
	q.head = n.next
	if q.head == nil {
		q.tail = nil
	}
	n.next = nil
	n.p.Succeed()
}

// FailAll unlinks and fails every pending write with err, in FIFO order. Postcondition:
// the queue is empty and outstanding is zero.
func (q *PendingWriteQueue) FailAll(err error) {
	for q.head != nil {
		n := q.head
		q.head = n.next
		if q.head == nil {
			q.tail = nil
		}
		q.outstanding -= n.buf.ReadableBytes()
		n.next = nil
		n.p.Fail(err)
	}
	q.outstanding = 0
}

func (n *pendingWrite) ReadableBytes() int { return n.buf.ReadableBytes() }
