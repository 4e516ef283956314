// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !linux

package reactor

import (
	"errors"

	"code.hybscloud.com/netchan"
)

var errUnsupportedPlatform = errors.New("reactor: epoll-based Loop requires linux")

// Loop is unavailable on this platform: it depends on linux-specific epoll and eventfd
// syscalls (see loop_linux.go).
type Loop struct{}

func New(logger netchan.Logger) (*Loop, error) { return nil, errUnsupportedPlatform }

func (l *Loop) Register(c *netchan.Channel, want netchan.Interest) error {
	return errUnsupportedPlatform
}

func (l *Loop) Reregister(c *netchan.Channel, want netchan.Interest) error {
	return errUnsupportedPlatform
}

func (l *Loop) Deregister(c *netchan.Channel) error { return errUnsupportedPlatform }

func (l *Loop) Run() error { return errUnsupportedPlatform }

func (l *Loop) Close() error { return errUnsupportedPlatform }
