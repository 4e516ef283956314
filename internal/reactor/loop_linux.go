// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build linux

// Package reactor provides a reference, single-goroutine epoll event loop implementing
// code.hybscloud.com/netchan's EventLoop contract.
package reactor

import (
	"sync"

	"code.hybscloud.com/netchan"
	"golang.org/x/sys/unix"
)

const maxEvents = 256

// Loop is a single-goroutine, level-triggered epoll reactor. Run must be called from the
// goroutine meant to own every Channel registered with this Loop; Register may be called
// from any goroutine (e.g. a dedicated accept loop handing a freshly accepted connection
// to a worker Loop) and hands off onto the loop goroutine through a mutex-guarded task
// queue drained on every wakeup, so epoll_ctl and the fd->Channel map are only ever
// touched from the loop goroutine. Reregister and Deregister apply directly with no
// hand-off, so they must be called on the loop goroutine; Channel calls them from its
// interest transitions (Flush, StartReading/StopReading, ReadFromEventLoop,
// FlushFromEventLoop) and from close0.
type Loop struct {
	epfd    int
	eventfd int
	logger  netchan.Logger

	mu       sync.Mutex
	tasks    []func()
	channels map[int]*netchan.Channel

	closeOnce sync.Once
	done      chan struct{}
}

// New creates an epoll instance and a wakeup eventfd. Call Run to start servicing
// registered Channels.
func New(logger netchan.Logger) (*Loop, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, err
	}
	efd, err := unix.Eventfd(0, unix.EFD_NONBLOCK|unix.EFD_CLOEXEC)
	if err != nil {
		_ = unix.Close(epfd)
		return nil, err
	}
	if logger == nil {
		logger = discardLogger{}
	}
	l := &Loop{
		epfd:     epfd,
		eventfd:  efd,
		logger:   logger,
		channels: make(map[int]*netchan.Channel),
		done:     make(chan struct{}),
	}
	err = unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, efd, &unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(efd)})
	if err != nil {
		_ = unix.Close(epfd)
		_ = unix.Close(efd)
		return nil, err
	}
	return l, nil
}

func interestToEpoll(want netchan.Interest) uint32 {
	switch want {
	case netchan.InterestRead:
		return unix.EPOLLIN
	case netchan.InterestWrite:
		return unix.EPOLLOUT
	case netchan.InterestBoth:
		return unix.EPOLLIN | unix.EPOLLOUT
	default:
		return 0
	}
}

// Register arms interest for c for the first time. Safe to call from any goroutine.
func (l *Loop) Register(c *netchan.Channel, want netchan.Interest) error {
	return l.submit(func() error {
		fd, ok := c.Fd()
		if !ok {
			return errNoFd
		}
		ev := &unix.EpollEvent{Events: interestToEpoll(want), Fd: int32(fd)}
		if err := unix.EpollCtl(l.epfd, unix.EPOLL_CTL_ADD, fd, ev); err != nil {
			return err
		}
		l.channels[fd] = c
		return nil
	})
}

// Reregister changes an already-armed interest for c. Must be called from the loop
// goroutine.
func (l *Loop) Reregister(c *netchan.Channel, want netchan.Interest) error {
	fd, ok := c.Fd()
	if !ok {
		return errNoFd
	}
	ev := &unix.EpollEvent{Events: interestToEpoll(want), Fd: int32(fd)}
	return unix.EpollCtl(l.epfd, unix.EPOLL_CTL_MOD, fd, ev)
}

// Deregister withdraws all interest for c. Must be called from the loop goroutine.
func (l *Loop) Deregister(c *netchan.Channel) error {
	fd, ok := c.Fd()
	if !ok {
		return errNoFd
	}
	err := unix.EpollCtl(l.epfd, unix.EPOLL_CTL_DEL, fd, nil)
	delete(l.channels, fd)
	return err
}

// submit hands fn off to the loop goroutine and blocks until it has run, waking the
// epoll_wait call via the loop's eventfd if it's currently blocked.
func (l *Loop) submit(fn func() error) error {
	resultCh := make(chan error, 1)
	l.mu.Lock()
	l.tasks = append(l.tasks, func() { resultCh <- fn() })
	l.mu.Unlock()

	var buf [8]byte
	buf[0] = 1
	_, _ = unix.Write(l.eventfd, buf[:])

	return <-resultCh
}

func (l *Loop) drainTasks() {
	l.mu.Lock()
	tasks := l.tasks
	l.tasks = nil
	l.mu.Unlock()
	for _, t := range tasks {
		t()
	}
}

// Run drives the reactor until Close is called or ctx-like done channel is closed. It
// must be called from exactly one goroutine, which becomes "the loop goroutine" for
// every Channel registered here.
func (l *Loop) Run() error {
	events := make([]unix.EpollEvent, maxEvents)
	for {
		select {
		case <-l.done:
			return nil
		default:
		}

		n, err := unix.EpollWait(l.epfd, events, -1)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return err
		}

		for i := 0; i < n; i++ {
			ev := events[i]
			fd := int(ev.Fd)
			if fd == l.eventfd {
				var buf [8]byte
				_, _ = unix.Read(l.eventfd, buf[:])
				l.drainTasks()
				continue
			}
			c, ok := l.channels[fd]
			if !ok {
				continue
			}
			if ev.Events&(unix.EPOLLHUP|unix.EPOLLERR) != 0 {
				c.ReadFromEventLoop()
				continue
			}
			if ev.Events&unix.EPOLLOUT != 0 {
				c.FlushFromEventLoop()
			}
			if ev.Events&unix.EPOLLIN != 0 {
				c.ReadFromEventLoop()
			}
		}
	}
}

// Close stops Run and releases the epoll and eventfd descriptors.
func (l *Loop) Close() error {
	l.closeOnce.Do(func() { close(l.done) })
	_ = unix.Close(l.eventfd)
	return unix.Close(l.epfd)
}

type discardLogger struct{}

func (discardLogger) Debugf(string, ...any) {}
func (discardLogger) Infof(string, ...any)  {}
func (discardLogger) Warnf(string, ...any)  {}
func (discardLogger) Errorf(string, ...any) {}
