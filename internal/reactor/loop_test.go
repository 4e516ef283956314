// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build linux

package reactor_test

import (
	"net"
	"sync"
	"testing"
	"time"

	"code.hybscloud.com/netchan"
	"code.hybscloud.com/netchan/internal/reactor"
)

// dialLoopback returns a connected pair of loopback *net.TCPConn, which tests wrap in a
// TCPSocket and Channel themselves to register/deregister against a Loop under test.
func dialLoopback(t *testing.T) (client, server *net.TCPConn) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	accepted := make(chan *net.TCPConn, 1)
	acceptErr := make(chan error, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			acceptErr <- err
			return
		}
		accepted <- conn.(*net.TCPConn)
	}()

	c, err := net.DialTCP("tcp", nil, ln.Addr().(*net.TCPAddr))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}

	select {
	case s := <-accepted:
		return c, s
	case err := <-acceptErr:
		t.Fatalf("accept: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for accept")
	}
	return nil, nil
}

// TestLoop_RegisterReregisterDeregisterIdempotence exercises the Loop's own
// Register/Reregister/Deregister methods directly against a live epoll fd, in the same
// sequence Channel would drive them through its interest transitions, without Run()
// running concurrently so each epoll_ctl call's return value can be asserted without a
// data race against the reactor goroutine.
func TestLoop_RegisterReregisterDeregisterIdempotence(t *testing.T) {
	l, err := reactor.New(nil)
	if err != nil {
		t.Fatalf("reactor.New: %v", err)
	}
	defer l.Close()

	client, server := dialLoopback(t)
	defer client.Close()
	defer server.Close()

	sock, err := netchan.NewTCPSocket(server)
	if err != nil {
		t.Fatalf("NewTCPSocket: %v", err)
	}
	ch := netchan.NewChannel(sock, l)

	if err := l.Register(ch, netchan.InterestRead); err != nil {
		t.Fatalf("Register(Read): %v", err)
	}
	if err := l.Reregister(ch, netchan.InterestBoth); err != nil {
		t.Fatalf("Reregister(Both): %v", err)
	}
	if err := l.Reregister(ch, netchan.InterestWrite); err != nil {
		t.Fatalf("Reregister(Write): %v", err)
	}
	if err := l.Reregister(ch, netchan.InterestRead); err != nil {
		t.Fatalf("Reregister(Read) back down: %v", err)
	}
	if err := l.Deregister(ch); err != nil {
		t.Fatalf("Deregister: %v", err)
	}
	// A second Register after a full Deregister must also succeed: the fd was fully
	// removed from the epoll set, so this is a fresh EPOLL_CTL_ADD, not a duplicate.
	if err := l.Register(ch, netchan.InterestRead); err != nil {
		t.Fatalf("re-Register after Deregister: %v", err)
	}
	if err := l.Deregister(ch); err != nil {
		t.Fatalf("final Deregister: %v", err)
	}
}

// TestLoop_RegisterFromNonLoopGoroutine exercises the task-queue hand-off: Register is
// called from a goroutine other than the one running Loop.Run, which must submit onto the
// loop goroutine and block until epoll_ctl has actually applied there.
func TestLoop_RegisterFromNonLoopGoroutine(t *testing.T) {
	l, err := reactor.New(nil)
	if err != nil {
		t.Fatalf("reactor.New: %v", err)
	}
	defer l.Close()
	go l.Run()

	client, server := dialLoopback(t)
	defer client.Close()
	defer server.Close()

	sock, err := netchan.NewTCPSocket(server)
	if err != nil {
		t.Fatalf("NewTCPSocket: %v", err)
	}
	ch := netchan.NewChannel(sock, l)

	done := make(chan error, 1)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		done <- ch.RegisterOnEventLoop(nil)
	}()
	wg.Wait()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("RegisterOnEventLoop from a foreign goroutine failed: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the cross-goroutine register hand-off")
	}

	if ch.Interest() != netchan.InterestRead {
		t.Fatalf("want Read interest armed after a foreign-goroutine register, got %v", ch.Interest())
	}

	// Send a byte from the client so the loop goroutine has a live readable edge to
	// service before the channel closes; this test does not assert on delivery of the
	// byte.
	if _, err := client.Write([]byte("x")); err != nil {
		t.Fatalf("client write: %v", err)
	}

	closeP := ch.Close()
	<-closeP.Done()
}

// TestLoop_DoubleCloseIsSafe confirms Close can be called more than once (e.g. once from a
// deferred cleanup and once explicitly) without panicking on an already-closed fd.
func TestLoop_DoubleCloseIsSafe(t *testing.T) {
	l, err := reactor.New(nil)
	if err != nil {
		t.Fatalf("reactor.New: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("first close: %v", err)
	}
	_ = l.Close()
}
