package ecs

// UpdateFrame is handed to every system during one Scheduler tick.
type UpdateFrame struct {
	DeltaTime float64
	Tick      uint64
	Commands  *Commands
	Storage   *Storage
}

func newUpdateFrame(storage *Storage) *UpdateFrame {
	return &UpdateFrame{
		Commands: newCommands(),
		Storage:  storage,
	}
}
