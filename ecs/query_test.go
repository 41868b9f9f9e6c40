package ecs_test

import (
	"testing"

	"github.com/plus3/drift/ecs"
	"github.com/stretchr/testify/assert"
)

func TestQuery(t *testing.T) {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Health](registry)
	ecs.RegisterComponent[Marker](registry)

	storage := ecs.NewStorage(registry)

	storage.Spawn(Position{X: 1, Y: 2}, Velocity{DX: 0.5, DY: 0.5})
	storage.Spawn(Position{X: 3, Y: 4}, Velocity{DX: 1.0, DY: 1.0})
	storage.Spawn(Position{X: 5, Y: 6}, Velocity{DX: 1.5, DY: 1.5}, Health{Current: 100, Max: 100})
	storage.Spawn(Position{X: 7, Y: 8})

	query := ecs.NewQuery[struct {
		*Position
		*Velocity
	}](storage)

	t.Run("matches across archetypes", func(t *testing.T) {
		assert.Equal(t, 3, query.Count())
	})

	t.Run("cache picks up new archetypes", func(t *testing.T) {
		storage.Spawn(Position{}, Velocity{}, Marker{})
		assert.Equal(t, 4, query.Count())
	})

	t.Run("values are non-nil", func(t *testing.T) {
		for item := range query.Iter() {
			assert.NotNil(t, item.Position)
			assert.NotNil(t, item.Velocity)
		}
	})

	t.Run("uninitialized query panics", func(t *testing.T) {
		var q ecs.Query[struct{ *Position }]
		assert.Panics(t, func() { q.Count() })
	})
}

// Marker forces a new archetype in TestQuery.
type Marker struct{}

func TestQuerySingle(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	query := ecs.NewQuery[struct {
		*PlayerController
		*Position
	}](storage)

	_, ok := query.Single()
	assert.False(t, ok, "no match")

	first := storage.Spawn(PlayerController{}, Position{X: 4})
	item, ok := query.Single()
	assert.True(t, ok)
	assert.Equal(t, float32(4), item.Position.X)

	storage.Spawn(PlayerController{}, Position{X: 5}, Health{})
	_, ok = query.Single()
	assert.False(t, ok, "two matches")

	storage.Delete(first)
	item, ok = query.Single()
	assert.True(t, ok)
	assert.Equal(t, float32(5), item.Position.X)
}
