// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package netchan

import "sync"

// Promise is a one-shot completion handle: Succeed or Fail exactly once, observed via
// Done/Err. bind0, write0, and close0 each settle exactly one Promise.
//
// Grounded on this codebase's sibling multiplexer ancestor's write-request completion
// handle: a result channel created per request, written to exactly once, then closed —
// generalized here into a reusable standalone type instead of an ad hoc per-call-site
// channel.
type Promise interface {
	// Succeed settles the promise successfully. A second call is a no-op.
	Succeed()

	// Fail settles the promise with err. A second call is a no-op. err must not be nil.
	Fail(err error)

	// Done returns a channel that is closed once the promise is settled.
	Done() <-chan struct{}

	// Err returns the error the promise was settled with, or nil on success. Err must
	// only be read after Done() has fired.
	Err() error
}

type promise struct {
	once sync.Once
	done chan struct{}
	err  error
}

// NewPromise returns a fresh, unsettled Promise.
func NewPromise() Promise {
	return &promise{done: make(chan struct{})}
}

func (p *promise) Succeed() {
	p.once.Do(func() { close(p.done) })
}

func (p *promise) Fail(err error) {
	if err == nil {
		panic("netchan: Fail called with nil error")
	}
	p.once.Do(func() {
		p.err = err
		close(p.done)
	})
}

func (p *promise) Done() <-chan struct{} { return p.done }

func (p *promise) Err() error { return p.err }
