package process

// UpdateFunc is the body of a function-backed process. resolve and reject
// end the process with success or failure.
type UpdateFunc[D any] func(delta D, resolve, reject func())

type funcUpdater[D any] struct {
	fn UpdateFunc[D]
}

func (f funcUpdater[D]) Update(delta D, p *Process[D]) {
	f.fn(delta, p.Succeed, p.Fail)
}

// Func adapts fn into a process.
func Func[D any](fn UpdateFunc[D]) *Process[D] {
	return New[D](funcUpdater[D]{fn: fn})
}
