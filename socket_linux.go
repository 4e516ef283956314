// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build linux

package netchan

import (
	"net"
	"syscall"

	"golang.org/x/sys/unix"
)

// writevMax bounds how many iovecs one Writev call passes to the kernel, matching
// PendingWriteQueue's own writevLimit so a Channel never builds a vector Writev can't
// accept in one syscall.
const writevMax = writevLimit

// TCPSocket is the reference non-blocking Socket: it drives a *net.TCPConn's raw file
// descriptor directly with O_NONBLOCK set, so Read, Write, and Writev each attempt
// exactly one syscall and translate EAGAIN into ErrWouldBlock instead of asking the Go
// runtime's own poller to park the calling goroutine. Readiness is driven entirely by
// whatever reactor.Loop this socket's Channel is registered with.
type TCPSocket struct {
	conn   *net.TCPConn
	raw    syscall.RawConn
	fd     int
	local  net.Addr
	remote net.Addr
}

// NewTCPSocket wraps an already-connected *net.TCPConn. Ownership of the connection's
// file descriptor transfers to the returned TCPSocket; the caller must not use conn
// directly afterward.
func NewTCPSocket(conn *net.TCPConn) (*TCPSocket, error) {
	raw, err := conn.SyscallConn()
	if err != nil {
		return nil, err
	}
	s := &TCPSocket{conn: conn, raw: raw, local: conn.LocalAddr(), remote: conn.RemoteAddr()}

	var ctrlErr error
	err = raw.Control(func(fd uintptr) {
		s.fd = int(fd)
		ctrlErr = unix.SetNonblock(int(fd), true)
	})
	if err != nil {
		return nil, err
	}
	if ctrlErr != nil {
		return nil, ctrlErr
	}
	return s, nil
}

// Bind attempts a raw bind(2) on the wrapped file descriptor. This only succeeds if the
// descriptor has not already been connected — in practice, callers construct TCPSocket
// from an already-connected net.TCPConn, so Bind almost always returns the kernel's
// EINVAL. It exists to satisfy Socket for callers that construct their own pre-connect
// descriptors.
func (s *TCPSocket) Bind(addr net.Addr) error {
	tcpAddr, ok := addr.(*net.TCPAddr)
	if !ok {
		return newIOError("bind", s.localString(), s.remoteString(), errUnsupportedBind)
	}
	sa := &unix.SockaddrInet4{Port: tcpAddr.Port}
	if ip4 := tcpAddr.IP.To4(); ip4 != nil {
		copy(sa.Addr[:], ip4)
	}
	var bindErr error
	err := s.raw.Control(func(fd uintptr) {
		bindErr = unix.Bind(int(fd), sa)
	})
	if err != nil {
		return newIOError("bind", s.localString(), s.remoteString(), err)
	}
	if bindErr != nil {
		return newIOError("bind", s.localString(), s.remoteString(), bindErr)
	}
	return nil
}

func (s *TCPSocket) Close() error { return s.conn.Close() }

// Read attempts one non-blocking read(2). A zero-byte, nil-error result for a non-empty
// p signals EOF (the peer closed its side), which is how Channel detects it; an EAGAIN
// result instead becomes ErrWouldBlock.
func (s *TCPSocket) Read(p []byte) (int, error) {
	var n int
	var sysErr error
	err := s.raw.Control(func(fd uintptr) {
		n, sysErr = unix.Read(int(fd), p)
	})
	if err != nil {
		return 0, newIOError("read", s.localString(), s.remoteString(), err)
	}
	if sysErr != nil {
		if sysErr == unix.EAGAIN {
			return 0, ErrWouldBlock
		}
		return 0, newIOError("read", s.localString(), s.remoteString(), sysErr)
	}
	return n, nil
}

// Write attempts one non-blocking write(2).
func (s *TCPSocket) Write(p []byte) (int, error) {
	var n int
	var sysErr error
	err := s.raw.Control(func(fd uintptr) {
		n, sysErr = unix.Write(int(fd), p)
	})
	if err != nil {
		return 0, newIOError("write", s.localString(), s.remoteString(), err)
	}
	if sysErr != nil {
		if sysErr == unix.EAGAIN {
			return 0, ErrWouldBlock
		}
		return 0, newIOError("write", s.localString(), s.remoteString(), sysErr)
	}
	return n, nil
}

// Writev attempts one non-blocking writev(2) over at most writevMax buffers, mirroring
// the vector-length bound PendingWriteQueue.Consume already enforces before calling it.
func (s *TCPSocket) Writev(bufs [][]byte) (int, error) {
	if len(bufs) > writevMax {
		bufs = bufs[:writevMax]
	}
	var n int
	var sysErr error
	err := s.raw.Control(func(fd uintptr) {
		n, sysErr = unix.Writev(int(fd), bufs)
	})
	if err != nil {
		return 0, newIOError("writev", s.localString(), s.remoteString(), err)
	}
	if sysErr != nil {
		if sysErr == unix.EAGAIN {
			return 0, ErrWouldBlock
		}
		return 0, newIOError("writev", s.localString(), s.remoteString(), sysErr)
	}
	return n, nil
}

func (s *TCPSocket) LocalAddr() net.Addr  { return s.local }
func (s *TCPSocket) RemoteAddr() net.Addr { return s.remote }

func (s *TCPSocket) SetSocketOption(level, name, value int) error {
	var sysErr error
	err := s.raw.Control(func(fd uintptr) {
		sysErr = unix.SetsockoptInt(int(fd), level, name, value)
	})
	if err != nil {
		return err
	}
	return sysErr
}

func (s *TCPSocket) GetSocketOption(level, name int) (int, error) {
	var v int
	var sysErr error
	err := s.raw.Control(func(fd uintptr) {
		v, sysErr = unix.GetsockoptInt(int(fd), level, name)
	})
	if err != nil {
		return 0, err
	}
	return v, sysErr
}

// Fd returns the raw file descriptor this socket wraps, for registration with
// reactor.Loop.
func (s *TCPSocket) Fd() int { return s.fd }

func (s *TCPSocket) localString() string {
	if s.local == nil {
		return "-"
	}
	return s.local.String()
}

func (s *TCPSocket) remoteString() string {
	if s.remote == nil {
		return "-"
	}
	return s.remote.String()
}
