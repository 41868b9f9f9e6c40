package ecs_test

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/plus3/drift/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityIdEncoding(t *testing.T) {
	tests := []struct {
		archetypeId uint32
		index       uint32
	}{
		{0, 0},
		{0xFFFFFFFF, 0xFFFFFFFF},
		{1, 0},
		{0, 1},
		{0x12345678, 0x9ABCDEF0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("archetype=%d,index=%d", tt.archetypeId, tt.index), func(t *testing.T) {
			entityId := ecs.NewEntityId(tt.archetypeId, tt.index)
			assert.Equal(t, tt.archetypeId, entityId.ArchetypeId())
			assert.Equal(t, tt.index, entityId.Index())
		})
	}
}

func TestSpawnEntity(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(&Position{X: 1.0, Y: 2.0}, &Velocity{DX: 0.5, DY: 0.5}, Score(32))
	assert.NotEqual(t, ecs.EntityId(0), id)
	assert.NotZero(t, id.ArchetypeId())
	assert.True(t, storage.Alive(id))
	assert.Equal(t, 1, storage.EntityCount())
}

func TestSpawnPanics(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	assert.Panics(t, func() { storage.Spawn() }, "no components")
	assert.Panics(t, func() { storage.Spawn(Health{}, Health{}) }, "duplicate component")
	assert.Panics(t, func() { storage.Spawn(uint8(3)) }, "unregistered component")
}

func TestRegistry(t *testing.T) {
	registry := newTestRegistry()
	assert.True(t, registry.Registered(reflect.TypeFor[Position]()))
	assert.False(t, registry.Registered(reflect.TypeFor[uint8]()))

	// Registering twice is harmless.
	ecs.RegisterComponent[Position](registry)
	assert.True(t, registry.Registered(reflect.TypeFor[Position]()))

	assert.Panics(t, func() { ecs.RegisterComponent[*Position](registry) })
	assert.Panics(t, func() { ecs.RegisterComponent[map[string]int](registry) })
}

func TestArchetypeLookup(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{}, Velocity{})

	archetype := storage.Archetype(id.ArchetypeId())
	require.NotNil(t, archetype)
	assert.Equal(t, id.ArchetypeId(), archetype.ID())
	assert.True(t, archetype.HasComponent(reflect.TypeFor[Velocity]()))
	assert.Nil(t, storage.Archetype(id.ArchetypeId()+1))
}

func TestGetComponent(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(&Position{X: 3.0, Y: 4.0}, Name{Value: "Test Entity"})

	pos := ecs.ReadComponent[Position](storage, id)
	require.NotNil(t, pos)
	assert.Equal(t, float32(3.0), pos.X)
	assert.Equal(t, float32(4.0), pos.Y)

	name := storage.GetComponent(id, reflect.TypeOf(Name{}))
	require.NotNil(t, name)
	assert.Equal(t, "Test Entity", name.(*Name).Value)

	assert.Nil(t, storage.GetComponent(id, reflect.TypeOf(Velocity{})))
	assert.Nil(t, ecs.ReadComponent[Velocity](storage, id))
	assert.True(t, storage.HasComponent(id, reflect.TypeOf(Position{})))
	assert.False(t, storage.HasComponent(id, reflect.TypeOf(Velocity{})))
}

func TestComponentPointersAreLive(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(Position{X: 1})
	pos := ecs.ReadComponent[Position](storage, id)
	pos.X = 42

	// Growing the column past a block boundary must not move existing data.
	for i := 0; i < 200; i++ {
		storage.Spawn(Position{X: float32(i)})
	}

	assert.Equal(t, float32(42), ecs.ReadComponent[Position](storage, id).X)
	assert.Same(t, pos, ecs.ReadComponent[Position](storage, id))
}

func TestDeleteEntity(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(&Position{X: 1.0, Y: 1.0}, &Health{Current: 100, Max: 100})
	require.NotNil(t, storage.GetComponent(id, reflect.TypeOf(Position{})))

	assert.True(t, storage.Delete(id))
	assert.False(t, storage.Alive(id))
	assert.Nil(t, storage.GetComponent(id, reflect.TypeOf(Position{})))
	assert.False(t, storage.Delete(id), "second delete is a no-op")
	assert.False(t, storage.Delete(ecs.EntityId(0)))
}

func TestDeletedSlotsAreReused(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	a := storage.Spawn(Position{X: 1}, Velocity{})
	b := storage.Spawn(Position{X: 2}, Velocity{})
	storage.Delete(a)

	c := storage.Spawn(Position{X: 3}, Velocity{})
	assert.Equal(t, a.Index(), c.Index())
	assert.Equal(t, float32(3), ecs.ReadComponent[Position](storage, c).X)
	assert.Equal(t, float32(2), ecs.ReadComponent[Position](storage, b).X)
	assert.Equal(t, 2, storage.EntityCount())
}

func TestMultipleEntitiesSameArchetype(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id1 := storage.Spawn(&Position{X: 1.0, Y: 1.0}, &Velocity{DX: 0.1, DY: 0.1})
	id2 := storage.Spawn(&Velocity{DX: 0.2, DY: 0.2}, &Position{X: 2.0, Y: 2.0})

	// Argument order does not matter for archetype identity
	assert.Equal(t, id1.ArchetypeId(), id2.ArchetypeId())
	assert.NotEqual(t, id1.Index(), id2.Index())
	assert.Len(t, storage.Archetypes(), 1)

	id3 := storage.Spawn(Position{})
	assert.NotEqual(t, id1.ArchetypeId(), id3.ArchetypeId())
	assert.Len(t, storage.Archetypes(), 2)
}

func TestSingletons(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	var score *Score
	assert.False(t, storage.ReadSingleton(&score))
	assert.Nil(t, score)

	storage.AddSingleton(Score(10))
	require.True(t, storage.ReadSingleton(&score))
	assert.Equal(t, Score(10), *score)

	storage.AddSingleton(Score(20))
	assert.Equal(t, Score(20), *score, "AddSingleton overwrites in place")

	accessor := ecs.NewSingleton[Score](storage, Score(99))
	assert.Equal(t, Score(20), *accessor.Get(), "initializer ignored when singleton exists")

	storage.RemoveSingleton(reflect.TypeOf(Score(0)))
	assert.False(t, accessor.Exists())
	assert.Nil(t, accessor.Get())

	assert.Panics(t, func() { storage.ReadSingleton(score) })
}
