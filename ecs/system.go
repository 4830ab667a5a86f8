package ecs

// System is one step of a frame. A system is usually a pointer to a struct
// whose exported Query and Singleton fields are bound by Scheduler.Register;
// any other fields are plain state kept across frames.
type System interface {
	Execute(frame *UpdateFrame)
}

// Task is a cooperative process the Scheduler ticks once per frame, after
// every system has run, until it reports Dead. *process.Process[float64]
// satisfies it.
type Task interface {
	Tick(delta float64)
	Dead() bool
	Rejected() bool
}

// executor is implemented by Query; the scheduler refreshes every query of a
// system right before the system runs.
type executor interface {
	Execute()
}
