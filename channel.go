// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package netchan provides a readiness-driven, non-blocking byte-stream channel: a single
// connected Socket mediated between an external EventLoop and a user-facing pipeline of
// inbound/outbound Handlers.
//
// Concurrency model: a Channel is pinned to exactly one EventLoop goroutine for its
// lifetime, and every Channel method is confined to that goroutine — there are no locks
// inside Channel, PendingWriteQueue, or the interest state machine. The one exception is
// RegisterOnEventLoop's first call into EventLoop.Register, which a reference loop (see
// internal/reactor) accepts from any goroutine (e.g. an acceptor running on its own
// goroutine handing a freshly accepted connection to a worker loop) and hands off
// internally onto its own loop goroutine before touching the Channel.
package netchan

import (
	"errors"
	"io"
	"net"
)

// Channel owns one connected Socket and mediates between an EventLoop and a Pipeline. It
// is not safe for concurrent use. Write, Flush and Close run directly on the calling
// goroutine and do not hand off onto the owning EventLoop, so they too must be called
// from the loop goroutine.
type Channel struct {
	socket    Socket
	eventLoop EventLoop
	interestM *interestStateMachine

	open     bool
	closed   bool
	interest Interest

	readPending bool
	autoRead    bool

	maxMessagesPerRead uint32
	recvAlloc          RecvBufferAllocator

	queue    *PendingWriteQueue
	pipeline *Pipeline
	options  *optionRegistry
	logger   Logger

	closePromise Promise
	closeErr     error
}

// NewChannel wraps socket, to be driven by loop. The Channel is not yet registered: call
// RegisterOnEventLoop to arm it and populate its pipeline.
func NewChannel(socket Socket, loop EventLoop) *Channel {
	c := &Channel{
		socket:             socket,
		eventLoop:          loop,
		maxMessagesPerRead: 16,
		recvAlloc:          NewFixedRecvAllocator(0),
		queue:              NewPendingWriteQueue(),
		pipeline:           NewPipeline(),
		options:            newOptionRegistry(),
		logger:             noopLogger{},
		autoRead:           true,
	}
	c.interestM = newInterestStateMachine(loop, c)
	return c
}

// RegisterOnEventLoop arms Read interest, runs init to populate the pipeline, and fires
// FireChannelRegistered. If init fails, the error is reported through the pipeline and
// the channel is closed without ever having gone active.
func (c *Channel) RegisterOnEventLoop(init func(*Pipeline) error) error {
	c.open = true
	c.readPending = true
	if err := c.interestM.addRead(); err != nil {
		c.pipeline.FireErrorCaught(c, err)
		c.close0(err)
		return err
	}
	if init != nil {
		if err := init(c.pipeline); err != nil {
			c.pipeline.FireErrorCaught(c, err)
			c.close0(err)
			return err
		}
	}
	c.pipeline.FireChannelRegistered(c)
	c.pipeline.FireChannelActive(c)
	return nil
}

// Interest reports the Channel's currently armed interest set, read by the owning
// EventLoop to compute its poller's interest mask.
func (c *Channel) Interest() Interest { return c.interest }

// LocalAddr returns the socket's local address.
func (c *Channel) LocalAddr() net.Addr { return c.socket.LocalAddr() }

// RemoteAddr returns the socket's remote address.
func (c *Channel) RemoteAddr() net.Addr { return c.socket.RemoteAddr() }

// IsOpen reports whether the channel still accepts writes and delivers reads.
func (c *Channel) IsOpen() bool { return c.open }

// fdSocket is implemented by Socket implementations that expose a raw file descriptor,
// such as TCPSocket, for registration with an epoll-based EventLoop.
type fdSocket interface {
	Fd() int
}

// Fd returns the channel's underlying file descriptor and true if its Socket exposes
// one. reactor.Loop uses this to register interest with epoll; Sockets that don't
// implement fdSocket (e.g. StreamSocket) cannot be driven by an epoll-based loop.
func (c *Channel) Fd() (int, bool) {
	fd, ok := c.socket.(fdSocket)
	if !ok {
		return -1, false
	}
	return fd.Fd(), true
}

// bind0 binds the underlying socket and settles p with the raw I/O error, if any.
func (c *Channel) bind0(addr net.Addr, p Promise) {
	if err := c.socket.Bind(addr); err != nil {
		p.Fail(err)
		return
	}
	p.Succeed()
}

// Bind is the public, promise-returning entry point for bind0.
func (c *Channel) Bind(addr net.Addr) Promise {
	p := NewPromise()
	c.bind0(addr, p)
	return p
}

// write0 enqueues buf for later draining. It fails immediately with ErrChannelClosed if
// the channel is not open.
func (c *Channel) write0(buf Buffer, p Promise) {
	if !c.open {
		p.Fail(ErrChannelClosed)
		return
	}
	c.queue.Enqueue(buf, p)
}

// Write is the public entry point: msg must be a Buffer (ErrUnsupportedMessage
// otherwise). It enqueues the write and returns a Promise settled once the payload is
// fully drained or the channel closes.
func (c *Channel) Write(msg any) Promise {
	buf, ok := msg.(Buffer)
	if !ok {
		p := NewPromise()
		p.Fail(ErrUnsupportedMessage)
		return p
	}
	p := NewPromise()
	c.write0(buf, p)
	return p
}

// flush0 is the user-driven flush entry point. If a write is already pending at the
// loop (Write interest already armed), it returns immediately and lets the loop drive
// the drain; otherwise it calls flushNow and, on partial progress, arms Write interest
// and reports the channel as no longer writable.
func (c *Channel) flush0() {
	if !c.open {
		return
	}
	if c.interest.hasWrite() {
		return
	}
	if c.flushNow() {
		return
	}
	if err := c.interestM.addWrite(); err != nil {
		c.pipeline.FireErrorCaught(c, err)
		c.close0(err)
		return
	}
	c.pipeline.FireChannelWritabilityChanged(c, false)
}

// Flush is the public entry point for flush0.
func (c *Channel) Flush() { c.flush0() }

// flushNow drains the queue until it empties, a partial write lands, or a would-block is
// observed. It returns true iff the queue fully drained. A hard I/O error fails the whole
// queue via close0 and returns false.
func (c *Channel) flushNow() bool {
	for c.open {
		progress, ok, err := c.queue.Consume(c.singleWrite, c.vectorWrite)
		if err != nil {
			c.pipeline.FireErrorCaught(c, err)
			c.close0(err)
			return false
		}
		if !ok {
			return true
		}
		if progress {
			continue
		}
		return false
	}
	return false
}

func (c *Channel) singleWrite(p []byte) (int, error) { return c.socket.Write(p) }

func (c *Channel) vectorWrite(vec [][]byte) (int, error) { return c.socket.Writev(vec) }

// FlushFromEventLoop is invoked by the EventLoop on a writable edge. On full drain it
// reports the channel writable again and reverts interest to whatever Read state is
// still wanted; on partial progress, Write interest stays armed and the loop will call
// again on the next writable edge.
func (c *Channel) FlushFromEventLoop() {
	drained := c.flushNow()
	if !c.open {
		return
	}
	if !drained {
		return
	}
	c.pipeline.FireChannelWritabilityChanged(c, true)
	if !c.open {
		return
	}
	if err := c.interestM.removeWrite(); err != nil {
		c.pipeline.FireErrorCaught(c, err)
		c.close0(err)
	}
}

// startReading0 arms read interest and requests delivery of further reads.
func (c *Channel) startReading0() error {
	c.readPending = true
	if !c.open {
		return nil
	}
	if err := c.interestM.addRead(); err != nil {
		c.pipeline.FireErrorCaught(c, err)
		c.close0(err)
		return err
	}
	return nil
}

// StartReading is the public entry point for startReading0.
func (c *Channel) StartReading() error { return c.startReading0() }

// stopReading0 withdraws read interest.
func (c *Channel) stopReading0() error {
	c.readPending = false
	if !c.open {
		return nil
	}
	if err := c.interestM.removeRead(); err != nil {
		c.pipeline.FireErrorCaught(c, err)
		c.close0(err)
		return err
	}
	return nil
}

// StopReading is the public entry point for stopReading0.
func (c *Channel) StopReading() error { return c.stopReading0() }

// readIfNeeded re-arms readPending after a completed read batch when AutoReadOption is
// set, mirroring Netty's autoRead semantics.
func (c *Channel) readIfNeeded() {
	if c.autoRead {
		c.readPending = true
	}
}

// ReadFromEventLoop is invoked by the EventLoop on a readable edge. It reads up to
// maxMessagesPerRead times, firing FireChannelRead for each non-empty read and
// FireChannelReadComplete once at the end of the batch, then adjusts read interest
// depending on whether a handler re-requested more reads during dispatch.
func (c *Channel) ReadFromEventLoop() {
	c.readPending = false

	var i uint32
	for i = 0; i < c.maxMessagesPerRead; i++ {
		buf := c.recvAlloc.Buffer()
		n, err := c.socket.Read(buf.WritePointer())
		if err != nil {
			if errors.Is(err, ErrWouldBlock) {
				if n > 0 {
					c.recvAlloc.Record(n)
					buf.Produced(n)
					c.pipeline.FireChannelRead(c, buf)
				}
				break
			}
			c.recvAlloc.Record(n)
			c.pipeline.FireErrorCaught(c, err)
			c.pipeline.FireChannelReadComplete(c)
			c.close0(err)
			return
		}
		c.recvAlloc.Record(n)
		if n == 0 {
			c.pipeline.FireChannelReadComplete(c)
			c.close0(io.EOF)
			return
		}
		buf.Produced(n)
		c.pipeline.FireChannelRead(c, buf)
	}
	c.pipeline.FireChannelReadComplete(c)
	c.readIfNeeded()

	if !c.open {
		return
	}

	var ierr error
	if c.readPending {
		if !c.interest.hasRead() {
			ierr = c.interestM.addRead()
		}
	} else {
		ierr = c.interestM.removeRead()
	}
	if ierr != nil {
		c.pipeline.FireErrorCaught(c, ierr)
		c.close0(ierr)
	}
}

// close0 is idempotent: a second call immediately succeeds the close promise (if any)
// without repeating teardown. Pipeline events fire before pending writes are failed so
// handlers observe the channel inactive during their own teardown.
func (c *Channel) close0(err error) {
	if c.closed {
		if c.closePromise != nil {
			c.closePromise.Succeed()
		}
		return
	}
	c.closed = true
	c.open = false
	c.closeErr = err

	_ = c.eventLoop.Deregister(c)
	c.interest = InterestNone

	closeErr := c.socket.Close()
	if c.closePromise != nil {
		if closeErr != nil {
			c.closePromise.Fail(closeErr)
		} else {
			c.closePromise.Succeed()
		}
	}

	c.pipeline.FireChannelUnregistered(c)
	c.pipeline.FireChannelInactive(c)

	failErr := err
	if failErr == nil {
		failErr = ErrChannelClosed
	}
	c.queue.FailAll(failErr)
}

// Close requests the channel close. It returns a Promise settled with the result of the
// underlying socket close. The channel's pending writes are failed with
// ErrChannelClosed.
func (c *Channel) Close() Promise {
	p := NewPromise()
	c.closePromise = p
	c.close0(nil)
	return p
}
