// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !linux

package netchan

import "net"

// TCPSocket is unavailable on this platform: its raw non-blocking fd path depends on
// golang.org/x/sys/unix calls that are linux-specific (see socket_linux.go). Use
// StreamSocket instead.
type TCPSocket struct{}

func NewTCPSocket(conn *net.TCPConn) (*TCPSocket, error) {
	return nil, errUnsupportedPlatform
}

func (s *TCPSocket) Bind(net.Addr) error                         { return errUnsupportedPlatform }
func (s *TCPSocket) Close() error                                { return errUnsupportedPlatform }
func (s *TCPSocket) Read([]byte) (int, error)                    { return 0, errUnsupportedPlatform }
func (s *TCPSocket) Write([]byte) (int, error)                   { return 0, errUnsupportedPlatform }
func (s *TCPSocket) Writev([][]byte) (int, error)                { return 0, errUnsupportedPlatform }
func (s *TCPSocket) LocalAddr() net.Addr                         { return nil }
func (s *TCPSocket) RemoteAddr() net.Addr                        { return nil }
func (s *TCPSocket) SetSocketOption(level, name, value int) error { return errUnsupportedPlatform }
func (s *TCPSocket) GetSocketOption(level, name int) (int, error) {
	return 0, errUnsupportedPlatform
}
func (s *TCPSocket) Fd() int { return -1 }
