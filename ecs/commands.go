package ecs

import (
	"reflect"

	"github.com/kamstrup/intmap"
)

// Commands buffers structural changes so systems can request them while
// iterating; Flush applies them at the end of the frame.
type Commands struct {
	spawns   [][]any
	deletes  []Entity
	assigns  []assignCommand
	removes  []removeCommand
	defers   []func()
	resorts  []func(*Storage)
	deleted  *intmap.Map[Entity, struct{}]
	failures int
}

func newCommands() *Commands {
	return &Commands{
		deleted: intmap.New[Entity, struct{}](64),
	}
}

type assignCommand struct {
	entity    Entity
	component any
}

type removeCommand struct {
	entity   Entity
	compType reflect.Type
}

// Defer queues a function to run after every other command.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Spawn queues the creation of an entity with the given components.
func (c *Commands) Spawn(components ...any) {
	c.spawns = append(c.spawns, components)
}

// Delete queues an entity deletion.
func (c *Commands) Delete(entity Entity) {
	c.deletes = append(c.deletes, entity)
}

// AddComponent queues attaching (or replacing) a component.
func (c *Commands) AddComponent(entity Entity, component any) {
	c.assigns = append(c.assigns, assignCommand{entity: entity, component: component})
}

// RemoveComponent queues detaching a component.
func (c *Commands) RemoveComponent(entity Entity, compType reflect.Type) {
	c.removes = append(c.removes, removeCommand{entity: entity, compType: compType})
}

// QueueSortAs queues aligning the To pool with the From pool once every
// structural change of the frame has been applied.
func QueueSortAs[To, From any](c *Commands) {
	c.resorts = append(c.resorts, SortAs[To, From])
}

// Failures returns how many queued commands targeted entities that were no
// longer alive during the last Flush.
func (c *Commands) Failures() int {
	return c.failures
}

// Flush applies every queued command to storage and resets the buffer.
// Deletes run first; removes and adds addressed to entities deleted in the
// same flush are dropped. Spawns, pool alignments and deferred functions
// follow, in that order.
func (c *Commands) Flush(storage *Storage) {
	c.failures = 0
	c.deleted.Clear()

	for _, e := range c.deletes {
		if storage.Delete(e) != nil {
			c.failures++
			continue
		}
		c.deleted.Put(e, struct{}{})
	}

	for _, cmd := range c.removes {
		if _, gone := c.deleted.Get(cmd.entity); gone {
			continue
		}
		if storage.RemoveComponent(cmd.entity, cmd.compType) != nil {
			c.failures++
		}
	}

	for _, cmd := range c.assigns {
		if _, gone := c.deleted.Get(cmd.entity); gone {
			continue
		}
		if storage.AddComponent(cmd.entity, cmd.component) != nil {
			c.failures++
		}
	}

	for _, components := range c.spawns {
		storage.Spawn(components...)
	}

	for _, resort := range c.resorts {
		resort(storage)
	}

	for _, fn := range c.defers {
		fn()
	}

	clear(c.spawns)
	clear(c.assigns)
	clear(c.defers)
	clear(c.resorts)
	c.spawns = c.spawns[:0]
	c.deletes = c.deletes[:0]
	c.assigns = c.assigns[:0]
	c.removes = c.removes[:0]
	c.defers = c.defers[:0]
	c.resorts = c.resorts[:0]
}
