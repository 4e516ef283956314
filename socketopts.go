// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package netchan

import "golang.org/x/sys/unix"

// Common SocketOptionKey presets.
//
// Single source of truth — socket option → (level, name):
//   - ReuseAddr  → SOL_SOCKET,  SO_REUSEADDR
//   - KeepAlive  → SOL_SOCKET,  SO_KEEPALIVE
//   - RecvBuffer → SOL_SOCKET,  SO_RCVBUF
//   - SendBuffer → SOL_SOCKET,  SO_SNDBUF
//   - NoDelay    → IPPROTO_TCP, TCP_NODELAY
//
// These mirror golang.org/x/sys/unix's constants directly rather than redeclaring them,
// so a caller who needs an option this package doesn't name yet can still reach it via a
// raw SocketOptionKey{Level: unix.SOL_SOCKET, Name: unix.SO_...}.
var (
	ReuseAddrOption  = SocketOptionKey{Level: unix.SOL_SOCKET, Name: unix.SO_REUSEADDR}
	KeepAliveOption  = SocketOptionKey{Level: unix.SOL_SOCKET, Name: unix.SO_KEEPALIVE}
	RecvBufferOption = SocketOptionKey{Level: unix.SOL_SOCKET, Name: unix.SO_RCVBUF}
	SendBufferOption = SocketOptionKey{Level: unix.SOL_SOCKET, Name: unix.SO_SNDBUF}
	NoDelayOption    = SocketOptionKey{Level: unix.IPPROTO_TCP, Name: unix.TCP_NODELAY}
)

// boolToInt adapts a boolean socket-option value (ReuseAddr, KeepAlive, NoDelay all take
// 0/1 at the syscall layer) to the int SetSocketOption expects.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// SetReuseAddr is a typed convenience over SetSocketOption(ReuseAddrOption, ...).
func (c *Channel) SetReuseAddr(enabled bool) error {
	return c.SetSocketOption(ReuseAddrOption, boolToInt(enabled))
}

// SetKeepAlive is a typed convenience over SetSocketOption(KeepAliveOption, ...).
func (c *Channel) SetKeepAlive(enabled bool) error {
	return c.SetSocketOption(KeepAliveOption, boolToInt(enabled))
}

// SetNoDelay is a typed convenience over SetSocketOption(NoDelayOption, ...), disabling
// (enabled=true) or re-enabling (enabled=false) Nagle's algorithm.
func (c *Channel) SetNoDelay(enabled bool) error {
	return c.SetSocketOption(NoDelayOption, boolToInt(enabled))
}

// SetRecvBufferSize is a typed convenience over SetSocketOption(RecvBufferOption, ...).
func (c *Channel) SetRecvBufferSize(bytes int) error {
	return c.SetSocketOption(RecvBufferOption, bytes)
}

// SetSendBufferSize is a typed convenience over SetSocketOption(SendBufferOption, ...).
func (c *Channel) SetSendBufferSize(bytes int) error {
	return c.SetSocketOption(SendBufferOption, bytes)
}
