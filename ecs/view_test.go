package ecs_test

import (
	"testing"

	"github.com/plus3/drift/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewIter(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	storage.Spawn(Position{X: 1}, Velocity{DX: 1})
	storage.Spawn(Position{X: 2}, Velocity{DX: 2}, Health{Current: 5})
	storage.Spawn(Position{X: 3})

	view := ecs.NewView[struct {
		*Position
		*Velocity
	}](storage)

	var xs []float32
	for item := range view.Iter() {
		xs = append(xs, item.Position.X)
	}
	assert.ElementsMatch(t, []float32{1, 2}, xs)
	assert.Equal(t, 2, view.Count())
}

func TestViewEntityIdField(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	a := storage.Spawn(Position{X: 1}, Name{Value: "a"})
	b := storage.Spawn(Position{X: 2}, Name{Value: "b"})

	view := ecs.NewView[struct {
		ecs.EntityId
		*Name
	}](storage)

	ids := map[string]ecs.EntityId{}
	for item := range view.Iter() {
		ids[item.Name.Value] = item.EntityId
	}
	assert.Equal(t, a, ids["a"])
	assert.Equal(t, b, ids["b"])
}

func TestViewOptional(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	withHealth := storage.Spawn(Position{X: 1}, Health{Current: 10})
	without := storage.Spawn(Position{X: 2})

	view := ecs.NewView[struct {
		*Position
		Health *Health `ecs:"optional"`
	}](storage)

	assert.Equal(t, 2, view.Count())

	got := view.Get(withHealth)
	require.NotNil(t, got)
	require.NotNil(t, got.Health)
	assert.Equal(t, 10, got.Health.Current)

	got = view.Get(without)
	require.NotNil(t, got)
	assert.Nil(t, got.Health)
}

func TestViewGetMissing(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(Position{X: 1})
	view := ecs.NewView[struct {
		*Position
		*Velocity
	}](storage)

	assert.Nil(t, view.Get(id))

	storage.Delete(id)
	positions := ecs.NewView[struct{ *Position }](storage)
	assert.Nil(t, positions.Get(id), "deleted entity")
}

func TestViewWritesThrough(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(Position{X: 1}, Velocity{DX: 2})
	view := ecs.NewView[struct {
		*Position
		*Velocity
	}](storage)

	for item := range view.Iter() {
		item.Position.X += item.Velocity.DX
	}
	assert.Equal(t, float32(3), ecs.ReadComponent[Position](storage, id).X)
}

func TestViewSpawn(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	view := ecs.NewView[struct {
		*Position
		Health *Health `ecs:"optional"`
	}](storage)

	id := view.Spawn(struct {
		*Position
		Health *Health `ecs:"optional"`
	}{Position: &Position{X: 7}})

	assert.Equal(t, float32(7), ecs.ReadComponent[Position](storage, id).X)
	assert.Nil(t, ecs.ReadComponent[Health](storage, id))
}

func TestViewInvalidDefinitions(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	assert.Panics(t, func() { ecs.NewView[int](storage) })
	assert.Panics(t, func() {
		ecs.NewView[struct{ Position Position }](storage)
	})
	assert.Panics(t, func() {
		ecs.NewView[struct {
			Position *Position `ecs:"sometimes"`
		}](storage)
	})
}
