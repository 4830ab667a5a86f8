package process_test

import (
	"testing"

	"github.com/plus3/sparsecs/process"
	"github.com/stretchr/testify/assert"
)

type fakeProcess struct {
	initCalls, updateCalls int
	succeeded, failed      int
	aborted                int
	lastDelta              int
}

func (f *fakeProcess) Init()      { f.initCalls++ }
func (f *fakeProcess) Succeeded() { f.succeeded++ }
func (f *fakeProcess) Failed()    { f.failed++ }
func (f *fakeProcess) Aborted()   { f.aborted++ }

func (f *fakeProcess) Update(delta int, _ *process.Process[int]) {
	f.updateCalls++
	f.lastDelta = delta
}

func TestProcessBasics(t *testing.T) {
	fake := &fakeProcess{}
	p := process.New[int](fake)

	assert.Equal(t, process.Uninitialized, p.State())
	assert.False(t, p.Alive())
	assert.False(t, p.Dead())

	p.Tick(0)
	assert.Equal(t, 1, fake.initCalls)
	assert.Equal(t, 1, fake.updateCalls)
	assert.True(t, p.Alive())

	p.Pause()
	assert.True(t, p.Paused())
	assert.True(t, p.Alive())

	p.Tick(0)
	assert.Equal(t, 1, fake.updateCalls)

	p.Unpause()
	assert.False(t, p.Paused())

	p.Tick(7)
	assert.Equal(t, 2, fake.updateCalls)
	assert.Equal(t, 7, fake.lastDelta)
	assert.Equal(t, 1, fake.initCalls)
}

func TestProcessSucceeded(t *testing.T) {
	fake := &fakeProcess{}
	p := process.New[int](fake)

	p.Tick(0)
	p.Succeed()
	assert.Equal(t, process.Succeeded, p.State())
	assert.False(t, p.Dead())

	p.Tick(0)
	assert.Equal(t, process.Finished, p.State())
	assert.True(t, p.Dead())
	assert.False(t, p.Rejected())
	assert.Equal(t, 1, fake.succeeded)
	assert.Equal(t, 1, fake.updateCalls)

	p.Tick(0)
	assert.Equal(t, 1, fake.succeeded)
	assert.Equal(t, 1, fake.updateCalls)
}

func TestProcessFail(t *testing.T) {
	fake := &fakeProcess{}
	p := process.New[int](fake)

	p.Tick(0)
	p.Fail()
	p.Tick(0)

	assert.Equal(t, process.Rejected, p.State())
	assert.True(t, p.Dead())
	assert.True(t, p.Rejected())
	assert.Equal(t, 1, fake.failed)
	assert.Zero(t, fake.succeeded)
}

func TestProcessAbortNextTick(t *testing.T) {
	fake := &fakeProcess{}
	p := process.New[int](fake)

	p.Tick(0)
	p.Abort(false)
	assert.Equal(t, process.Aborted, p.State())
	assert.Zero(t, fake.aborted)

	p.Tick(0)
	assert.True(t, p.Rejected())
	assert.Equal(t, 1, fake.aborted)
	assert.Equal(t, 1, fake.updateCalls)
}

func TestProcessAbortImmediately(t *testing.T) {
	fake := &fakeProcess{}
	p := process.New[int](fake)

	p.Tick(0)
	p.Abort(true)
	assert.True(t, p.Rejected())
	assert.Equal(t, 1, fake.aborted)

	p.Tick(0)
	assert.Equal(t, 1, fake.aborted)
}

func TestProcessIgnoresRequestsWhenNotAlive(t *testing.T) {
	fake := &fakeProcess{}
	p := process.New[int](fake)

	p.Succeed()
	p.Fail()
	p.Abort(true)
	p.Pause()
	assert.Equal(t, process.Uninitialized, p.State())

	p.Tick(0)
	p.Succeed()
	p.Tick(0)
	p.Fail()
	p.Abort(true)
	assert.Equal(t, process.Finished, p.State())
	assert.Zero(t, fake.failed)
	assert.Zero(t, fake.aborted)
}

func TestProcessAbortWhilePaused(t *testing.T) {
	fake := &fakeProcess{}
	p := process.New[int](fake)

	p.Tick(0)
	p.Pause()
	p.Abort(false)
	p.Tick(0)

	assert.True(t, p.Rejected())
	assert.Equal(t, 1, fake.aborted)
}

func TestFuncResolved(t *testing.T) {
	ticks := 0
	p := process.Func[float64](func(delta float64, resolve, _ func()) {
		ticks++
		if ticks == 2 {
			resolve()
		}
	})

	p.Tick(0.1)
	assert.True(t, p.Alive())

	p.Tick(0.1)
	assert.Equal(t, process.Finished, p.State())

	p.Tick(0.1)
	assert.Equal(t, 2, ticks)
}

func TestFuncRejected(t *testing.T) {
	p := process.Func[float64](func(_ float64, _, reject func()) {
		reject()
	})

	p.Tick(0)
	assert.True(t, p.Dead())
	assert.True(t, p.Rejected())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "running", process.Running.String())
	assert.Equal(t, "rejected", process.Rejected.String())
	assert.Equal(t, "unknown", process.State(99).String())
}
