// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package netchan

// Interest is the set of I/O edges a Channel currently wants readiness notifications
// for. There is exactly one current value per Channel at any moment; the Channel is
// registered with the event loop iff the value is not InterestNone.
type Interest uint8

const (
	InterestNone Interest = iota
	InterestRead
	InterestWrite
	InterestBoth
)

func (i Interest) String() string {
	switch i {
	case InterestNone:
		return "none"
	case InterestRead:
		return "read"
	case InterestWrite:
		return "write"
	case InterestBoth:
		return "both"
	default:
		return "invalid"
	}
}

func (i Interest) hasRead() bool  { return i == InterestRead || i == InterestBoth }
func (i Interest) hasWrite() bool { return i == InterestWrite || i == InterestBoth }

func withRead(i Interest) Interest {
	if i.hasWrite() {
		return InterestBoth
	}
	return InterestRead
}

func withoutRead(i Interest) Interest {
	if i.hasWrite() {
		return InterestWrite
	}
	return InterestNone
}

func withWrite(i Interest) Interest {
	if i.hasRead() {
		return InterestBoth
	}
	return InterestWrite
}

func withoutWrite(i Interest) Interest {
	if i.hasRead() {
		return InterestRead
	}
	return InterestNone
}

// interestStateMachine drives a Channel's current Interest through the loop's
// register/reregister/deregister calls, implementing the additive transition table from
// the design: adding read while write is armed (or vice versa) yields Both, and
// withdrawal is symmetric. It never computes a target Interest; callers ask for "add
// read", "remove write", etc., and the machine issues exactly the loop call the
// transition requires (or none, when the target state already holds).
//
// A channel that is not open silently forces interest to InterestNone and issues no
// further loop calls: Channel.close0 sets InterestNone, and Channel's start/stop reading
// and flush paths return before reaching the machine once the channel is closed.
type interestStateMachine struct {
	loop EventLoop
	ch   *Channel
}

func newInterestStateMachine(loop EventLoop, ch *Channel) *interestStateMachine {
	return &interestStateMachine{loop: loop, ch: ch}
}

// addRead arms the Read bit, issuing register (from None) or reregister (from Write),
// and is a no-op from Read/Both.
func (m *interestStateMachine) addRead() error {
	from := m.ch.interest
	to := withRead(from)
	return m.transition(from, to)
}

// removeRead withdraws the Read bit.
func (m *interestStateMachine) removeRead() error {
	from := m.ch.interest
	to := withoutRead(from)
	return m.transition(from, to)
}

// addWrite arms the Write bit.
func (m *interestStateMachine) addWrite() error {
	from := m.ch.interest
	to := withWrite(from)
	return m.transition(from, to)
}

// removeWrite withdraws the Write bit.
func (m *interestStateMachine) removeWrite() error {
	from := m.ch.interest
	to := withoutWrite(from)
	return m.transition(from, to)
}

func (m *interestStateMachine) transition(from, to Interest) error {
	if from == to {
		return nil
	}

	var err error
	switch {
	case from == InterestNone:
		err = m.loop.Register(m.ch, to)
	case to == InterestNone:
		err = m.loop.Deregister(m.ch)
	default:
		err = m.loop.Reregister(m.ch, to)
	}
	if err != nil {
		return err
	}
	m.ch.interest = to
	return nil
}
