package ecs

// Commands buffers structural changes requested while systems run. They are
// applied when the frame is flushed so queries never observe a half-updated world.
type Commands struct {
	spawns  [][]any
	deletes []EntityId
	defers  []func()
}

func newCommands() *Commands {
	return &Commands{}
}

// Spawn queues an entity spawn with the given components.
func (c *Commands) Spawn(components ...any) {
	c.spawns = append(c.spawns, components)
}

// Delete queues an entity deletion.
func (c *Commands) Delete(entity EntityId) {
	c.deletes = append(c.deletes, entity)
}

// Defer queues a function to run after spawns and deletions are applied.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Pending returns the number of queued operations.
func (c *Commands) Pending() int {
	return len(c.spawns) + len(c.deletes) + len(c.defers)
}

// Flush applies all queued operations to storage in the order deletes,
// spawns, defers, and resets the buffer.
func (c *Commands) Flush(storage *Storage) []EntityId {
	for _, id := range c.deletes {
		storage.Delete(id)
	}

	spawned := make([]EntityId, 0, len(c.spawns))
	for _, components := range c.spawns {
		spawned = append(spawned, storage.Spawn(components...))
	}

	for _, fn := range c.defers {
		fn()
	}

	clear(c.spawns)
	clear(c.defers)
	c.spawns = c.spawns[:0]
	c.deletes = c.deletes[:0]
	c.defers = c.defers[:0]
	return spawned
}
