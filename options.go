// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package netchan

import "fmt"

// optionToken is the unique identity behind an OptionKey[T]. Two OptionKeys collide only
// if they share a token pointer, which NewOptionKey guarantees never happens across
// distinct calls — so keys of different T can share a display name without colliding in
// the registry map.
type optionToken struct{ name string }

// OptionKey[T] is a typed, comparable token identifying one entry in a Channel's option
// registry. It plays the role a Netty-style ChannelOption<T> class token plays, using Go
// generics plus a unique pointer identity instead of runtime class checks — the "closed
// tagged variant... string- or integer-tagged dispatch" this design favors over the
// distilled spec's runtime type switches.
type OptionKey[T any] struct{ token *optionToken }

// NewOptionKey returns a fresh OptionKey[T]. Each call produces a distinct key even if
// name is reused; name is for diagnostics only.
func NewOptionKey[T any](name string) OptionKey[T] {
	return OptionKey[T]{token: &optionToken{name: name}}
}

func (k OptionKey[T]) String() string { return k.token.name }

// Predefined channel-level option keys.
var (
	// AutoReadOption, when set to true, causes the Channel to re-arm read interest after
	// every ChannelReadComplete (see Channel.readIfNeeded); set to false to require
	// explicit StartReading calls.
	AutoReadOption = NewOptionKey[bool]("auto_read")

	// MaxMessagesPerReadOption bounds how many ChannelRead events one ReadFromEventLoop
	// call may fire, bounding the worst-case starvation a single Channel can impose on
	// its loop.
	MaxMessagesPerReadOption = NewOptionKey[uint32]("max_messages_per_read")

	// RecvAllocatorOption swaps the RecvBufferAllocator strategy.
	RecvAllocatorOption = NewOptionKey[RecvBufferAllocator]("recv_allocator")

	// LoggerOption swaps the Logger a Channel reports lifecycle events to.
	LoggerOption = NewOptionKey[Logger]("logger")
)

// SocketOptionKey identifies one setsockopt/getsockopt (level, name) pair, e.g.
// (unix.SOL_SOCKET, unix.SO_REUSEADDR). Socket options are int-valued at the syscall
// layer and are not individually type-parameterized; see Channel.SetSocketOption /
// GetSocketOption, and socketopts.go for the common presets.
type SocketOptionKey struct {
	Level, Name int
}

// optionRegistry stores typed option values behind an untyped map, keyed by each
// OptionKey's unique token pointer.
type optionRegistry struct {
	values map[*optionToken]any
}

func newOptionRegistry() *optionRegistry {
	return &optionRegistry{values: make(map[*optionToken]any)}
}

// SetOption sets key to value on c, applying any side effect the key carries
// (AutoReadOption toggles the read-interest state machine; MaxMessagesPerReadOption,
// RecvAllocatorOption, and LoggerOption swap the corresponding Channel field).
//
// This is a package-level function, not a method, because Go methods cannot carry their
// own type parameters; c's receiver type stays ordinary while callers still get
// compile-time type safety on value via T.
func SetOption[T any](c *Channel, key OptionKey[T], value T) error {
	c.options.values[key.token] = value

	switch key.token {
	case AutoReadOption.token:
		autoRead := any(value).(bool)
		c.autoRead = autoRead
		if autoRead {
			return c.startReading0()
		}
		return c.stopReading0()
	case MaxMessagesPerReadOption.token:
		c.maxMessagesPerRead = any(value).(uint32)
	case RecvAllocatorOption.token:
		c.recvAlloc = any(value).(RecvBufferAllocator)
	case LoggerOption.token:
		c.logger = any(value).(Logger)
	}
	return nil
}

// GetOption returns the value currently stored under key. It returns ErrUnknownOption if
// key was never set (a programmer error: the caller is asking about an option the
// Channel's registry has no entry for).
func GetOption[T any](c *Channel, key OptionKey[T]) (T, error) {
	var zero T
	v, ok := c.options.values[key.token]
	if !ok {
		return zero, ErrUnknownOption
	}
	tv, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("netchan: option %s stored with unexpected type %T", key.token.name, v)
	}
	return tv, nil
}

// SetSocketOption passes value through to setsockopt(level, name, value) on the
// underlying socket.
func (c *Channel) SetSocketOption(key SocketOptionKey, value int) error {
	return c.socket.SetSocketOption(key.Level, key.Name, value)
}

// GetSocketOption passes through to getsockopt(level, name).
func (c *Channel) GetSocketOption(key SocketOptionKey) (int, error) {
	return c.socket.GetSocketOption(key.Level, key.Name)
}
