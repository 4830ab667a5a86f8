package ecs

import "github.com/rotisserie/eris"

var (
	ErrNotFound       = eris.New("identifier not present")
	ErrAlreadyPresent = eris.New("identifier already present")
	ErrInvalidEntity  = eris.New("entity is not alive")
	ErrNotRegistered  = eris.New("component type not registered")
)
