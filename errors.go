// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package netchan

import (
	"errors"
	"fmt"

	"code.hybscloud.com/iox"
	pkgerrors "github.com/pkg/errors"
)

var (
	// ErrWouldBlock means "no further progress without waiting".
	//
	// It is an expected, non-failure control-flow signal for non-blocking I/O. Any
	// returned byte count (n) still represents real progress. Callers must stop the
	// current attempt and wait for the next readiness edge.
	ErrWouldBlock = iox.ErrWouldBlock

	// ErrChannelClosed is used to fail pending writes on close and to reject Write on an
	// already-closed channel.
	ErrChannelClosed = errors.New("netchan: channel closed")

	// ErrUnsupportedMessage reports that Write received a payload whose type is not a
	// Buffer and cannot be converted to one. It fails only the offending promise; the
	// channel itself is unaffected.
	ErrUnsupportedMessage = errors.New("netchan: unsupported message type")

	// ErrUnknownOption reports that SetOption/GetOption was called with a key the
	// channel's registry does not recognize. This is a programmer error.
	ErrUnknownOption = errors.New("netchan: unknown option")

	// errUnsupportedBind is returned by Socket implementations whose underlying
	// connection is already established and cannot be rebound.
	errUnsupportedBind = errors.New("netchan: bind not supported on an already-connected socket")

	// errUnsupportedSocketOption is returned by Socket implementations whose underlying
	// connection does not expose setsockopt/getsockopt.
	errUnsupportedSocketOption = errors.New("netchan: socket option not supported by this transport")

	// errUnsupportedPlatform is returned by TCPSocket on platforms other than linux,
	// where the raw non-blocking fd path this reference implementation relies on is not
	// provided.
	errUnsupportedPlatform = errors.New("netchan: TCPSocket requires linux")
)

// IOError wraps a syscall-level failure with the operation name and the channel's
// addresses, so log lines and FireErrorCaught handlers get context without losing
// errors.Is/errors.As compatibility with the underlying error.
type IOError struct {
	Op     string
	Local  string
	Remote string
	cause  error
}

func newIOError(op, local, remote string, cause error) *IOError {
	return &IOError{Op: op, Local: local, Remote: remote, cause: pkgerrors.WithStack(cause)}
}

func (e *IOError) Error() string {
	return fmt.Sprintf("netchan: %s local=%s remote=%s: %v", e.Op, e.Local, e.Remote, e.cause)
}

// Unwrap exposes the original cause so errors.Is(err, ErrWouldBlock) and similar checks
// see through the wrapper.
func (e *IOError) Unwrap() error { return e.cause }

// Cause satisfies github.com/pkg/errors' Causer interface for callers that still use
// pkgerrors.Cause instead of the stdlib errors package.
func (e *IOError) Cause() error { return e.cause }
