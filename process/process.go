// Package process implements cooperative, tick-driven tasks.
//
// A Process starts uninitialized, initializes and starts running on its first
// tick, may be paused and resumed while running, and ends either finished
// (after Succeed) or rejected (after Fail or Abort). Terminal requests are
// honored on the next tick, or immediately when made from inside Update.
package process

// State is the life-cycle stage of a Process.
type State uint8

const (
	Uninitialized State = iota
	Running
	Paused
	Succeeded
	Failed
	Aborted
	Finished
	Rejected
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	case Aborted:
		return "aborted"
	case Finished:
		return "finished"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Updater does the work of a process on every tick while it runs. The
// process is passed in so Update can Succeed, Fail, Pause or Abort it.
type Updater[D any] interface {
	Update(delta D, p *Process[D])
}

// Initializer is called once, on the first tick.
type Initializer interface {
	Init()
}

// SuccessHandler is called once when a process finishes.
type SuccessHandler interface {
	Succeeded()
}

// FailureHandler is called once when a process fails.
type FailureHandler interface {
	Failed()
}

// AbortHandler is called once when a process is aborted.
type AbortHandler interface {
	Aborted()
}

// Process drives an Updater through its life cycle. D is the type of the
// delta passed on every tick.
type Process[D any] struct {
	state   State
	updater Updater[D]
}

// New wraps u in a process. u may also implement Initializer,
// SuccessHandler, FailureHandler and AbortHandler.
func New[D any](u Updater[D]) *Process[D] {
	return &Process[D]{updater: u}
}

// Tick advances the process by one step.
func (p *Process[D]) Tick(delta D) {
	switch p.state {
	case Uninitialized:
		if h, ok := p.updater.(Initializer); ok {
			h.Init()
		}
		p.state = Running
		p.updater.Update(delta, p)
	case Running:
		p.updater.Update(delta, p)
	}

	// Terminal requests are settled within the same tick.
	switch p.state {
	case Succeeded:
		if h, ok := p.updater.(SuccessHandler); ok {
			h.Succeeded()
		}
		p.state = Finished
	case Failed:
		if h, ok := p.updater.(FailureHandler); ok {
			h.Failed()
		}
		p.state = Rejected
	case Aborted:
		if h, ok := p.updater.(AbortHandler); ok {
			h.Aborted()
		}
		p.state = Rejected
	}
}

// Succeed requests termination with success. Ignored unless alive.
func (p *Process[D]) Succeed() {
	if p.Alive() {
		p.state = Succeeded
	}
}

// Fail requests termination with failure. Ignored unless alive.
func (p *Process[D]) Fail() {
	if p.Alive() {
		p.state = Failed
	}
}

// Pause suspends a running process.
func (p *Process[D]) Pause() {
	if p.state == Running {
		p.state = Paused
	}
}

// Unpause resumes a paused process.
func (p *Process[D]) Unpause() {
	if p.state == Paused {
		p.state = Running
	}
}

// Abort requests termination. With immediately set the abort is settled now
// instead of on the next tick. Ignored unless alive.
func (p *Process[D]) Abort(immediately bool) {
	if !p.Alive() {
		return
	}
	p.state = Aborted
	if immediately {
		var zero D
		p.Tick(zero)
	}
}

// State returns the current life-cycle stage.
func (p *Process[D]) State() State {
	return p.state
}

// Alive reports whether the process is running or paused.
func (p *Process[D]) Alive() bool {
	return p.state == Running || p.state == Paused
}

// Dead reports whether the process has finished or been rejected.
func (p *Process[D]) Dead() bool {
	return p.state == Finished || p.state == Rejected
}

// Paused reports whether the process is paused.
func (p *Process[D]) Paused() bool {
	return p.state == Paused
}

// Rejected reports whether the process failed or was aborted.
func (p *Process[D]) Rejected() bool {
	return p.state == Rejected
}
