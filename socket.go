// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package netchan

import (
	"io"
	"net"

	"github.com/sagernet/sing/common/bufio"
)

// Socket is the connected-socket contract Channel consumes. Bind, Close, Read, Write,
// and Writev are all expected to be non-blocking: Read/Write/Writev report "no bytes
// without waiting" via errors.Is(err, ErrWouldBlock), never by blocking the calling
// goroutine. This module ships two implementations:
//
//   - TCPSocket (socket_linux.go): a real, raw-file-descriptor-level non-blocking
//     socket, meant to be driven by a reactor.Loop.
//   - StreamSocket (this file): a portable adapter over any io.ReadWriteCloser that
//     already honors the ErrWouldBlock contract on its own (for example, a transport
//     built on code.hybscloud.com/iox), useful anywhere raw fd access isn't available or
//     desired — including tests.
type Socket interface {
	Bind(addr net.Addr) error
	Close() error
	Read(p []byte) (n int, err error)
	Write(p []byte) (n int, err error)
	Writev(bufs [][]byte) (n int, err error)
	LocalAddr() net.Addr
	RemoteAddr() net.Addr
	SetSocketOption(level, name, value int) error
	GetSocketOption(level, name int) (int, error)
}

// StreamSocket adapts an io.ReadWriteCloser that already speaks the non-blocking
// ErrWouldBlock contract into a Socket. Bind is unsupported (the wrapped connection is
// already established); SetSocketOption/GetSocketOption are unsupported unless conn
// implements an optional socketOptioner interface.
//
// Grounded directly on this codebase's sibling multiplexer ancestor's send loop, which
// detects scatter-gather support with sagernet/sing's bufio.CreateVectorisedWriter and
// issues one vectored write via bufio.WriteVectorised instead of looping per buffer.
type StreamSocket struct {
	conn   io.ReadWriteCloser
	local  net.Addr
	remote net.Addr
	vw     bufio.VectorisedWriter
	hasVW  bool
}

// socketOptioner is implemented by a wrapped connection that supports setsockopt-style
// options despite not being a raw *net.TCPConn (e.g. a test double).
type socketOptioner interface {
	SetSocketOption(level, name, value int) error
	GetSocketOption(level, name int) (int, error)
}

// addresser is implemented by connections that can report local/remote addresses, which
// most net.Conn implementations do.
type addresser interface {
	LocalAddr() net.Addr
	RemoteAddr() net.Addr
}

// NewStreamSocket wraps conn. conn's Read/Write must already return errors matching
// errors.Is(err, ErrWouldBlock) instead of blocking when no progress is possible.
func NewStreamSocket(conn io.ReadWriteCloser) *StreamSocket {
	s := &StreamSocket{conn: conn}
	if a, ok := conn.(addresser); ok {
		s.local, s.remote = a.LocalAddr(), a.RemoteAddr()
	}
	s.vw, s.hasVW = bufio.CreateVectorisedWriter(conn)
	return s
}

func (s *StreamSocket) Bind(net.Addr) error {
	return newIOError("bind", s.localString(), s.remoteString(), errUnsupportedBind)
}

func (s *StreamSocket) Close() error { return s.conn.Close() }

func (s *StreamSocket) Read(p []byte) (int, error) { return s.conn.Read(p) }

func (s *StreamSocket) Write(p []byte) (int, error) { return s.conn.Write(p) }

// Writev issues one vectored write when the wrapped connection supports it, falling back
// to writing each buffer with Write until the vector is exhausted, a would-block occurs,
// or an error is returned.
func (s *StreamSocket) Writev(bufs [][]byte) (int, error) {
	if s.hasVW {
		return bufio.WriteVectorised(s.vw, bufs)
	}
	total := 0
	for _, b := range bufs {
		n, err := s.conn.Write(b)
		total += n
		if err != nil {
			return total, err
		}
		if n < len(b) {
			return total, io.ErrShortWrite
		}
	}
	return total, nil
}

func (s *StreamSocket) LocalAddr() net.Addr  { return s.local }
func (s *StreamSocket) RemoteAddr() net.Addr { return s.remote }

func (s *StreamSocket) SetSocketOption(level, name, value int) error {
	if o, ok := s.conn.(socketOptioner); ok {
		return o.SetSocketOption(level, name, value)
	}
	return errUnsupportedSocketOption
}

func (s *StreamSocket) GetSocketOption(level, name int) (int, error) {
	if o, ok := s.conn.(socketOptioner); ok {
		return o.GetSocketOption(level, name)
	}
	return 0, errUnsupportedSocketOption
}

func (s *StreamSocket) localString() string {
	if s.local == nil {
		return "-"
	}
	return s.local.String()
}

func (s *StreamSocket) remoteString() string {
	if s.remote == nil {
		return "-"
	}
	return s.remote.String()
}
