package physics_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/drift/ecs"
	"github.com/plus3/drift/internal/components"
	"github.com/plus3/drift/internal/physics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const step = 1.0 / 60

func newWorld() physics.World {
	return physics.NewWorld(4096, 4096, 32)
}

func TestWorldMoveStopsAtSolid(t *testing.T) {
	world := newWorld()
	player := ecs.NewEntityId(1, 0)
	wall := ecs.NewEntityId(2, 0)

	world.Insert(player, mgl64.Vec2{0, 0}, components.CircleCollider(10), components.Dynamic)
	world.Insert(wall, mgl64.Vec2{40, 0}, components.RectangleCollider(20, 20), components.Static)
	require.Equal(t, 2, world.Len())

	moved, contacts := world.Move(player, mgl64.Vec2{50, 0})
	assert.InDelta(t, 20, moved[0], 1e-9, "player edge stops on the wall face")
	require.Len(t, contacts, 1)
	assert.Equal(t, wall, contacts[0].Other)
	assert.Equal(t, mgl64.Vec2{-1, 0}, contacts[0].Normal)

	center, ok := world.Center(player)
	require.True(t, ok)
	assert.InDelta(t, 20, center[0], 1e-9)
	assert.False(t, world.Overlapping(player, wall))

	// Pushing again does not move it further.
	moved, contacts = world.Move(player, mgl64.Vec2{5, 0})
	assert.InDelta(t, 0, moved[0], 1e-9)
	assert.Len(t, contacts, 1)
}

func TestWorldMoveSlidesAlongFace(t *testing.T) {
	world := newWorld()
	player := ecs.NewEntityId(1, 0)
	wall := ecs.NewEntityId(2, 0)

	world.Insert(player, mgl64.Vec2{20, 0}, components.CircleCollider(10), components.Dynamic)
	world.Insert(wall, mgl64.Vec2{40, 0}, components.RectangleCollider(20, 20), components.Static)

	moved, contacts := world.Move(player, mgl64.Vec2{3, 4})
	assert.InDelta(t, 0, moved[0], 1e-9)
	assert.InDelta(t, 4, moved[1], 1e-9, "the free axis keeps moving")
	require.Len(t, contacts, 1)
	assert.Equal(t, mgl64.Vec2{-1, 0}, contacts[0].Normal)
}

func TestWorldMoveIgnoresNonBlocking(t *testing.T) {
	world := newWorld()
	player := ecs.NewEntityId(1, 0)
	wall := ecs.NewEntityId(2, 0)

	// Same broadphase cell, but above the wall.
	world.Insert(player, mgl64.Vec2{40, 30}, components.CircleCollider(5), components.Dynamic)
	world.Insert(wall, mgl64.Vec2{40, 0}, components.RectangleCollider(20, 20), components.Static)

	moved, contacts := world.Move(player, mgl64.Vec2{2, 0})
	assert.InDelta(t, 2, moved[0], 1e-9)
	assert.Empty(t, contacts)

	// Moving away from a face it touches is never blocked.
	world.Teleport(player, mgl64.Vec2{40, 15})
	moved, contacts = world.Move(player, mgl64.Vec2{0, 3})
	assert.InDelta(t, 3, moved[1], 1e-9)
	assert.Empty(t, contacts)
}

func TestWorldNegativeCoordinates(t *testing.T) {
	world := newWorld()
	player := ecs.NewEntityId(1, 0)
	wall := ecs.NewEntityId(2, 0)

	world.Insert(player, mgl64.Vec2{-100, -100}, components.CircleCollider(10), components.Dynamic)
	world.Insert(wall, mgl64.Vec2{-100, -140}, components.RectangleCollider(20, 20), components.Static)

	moved, contacts := world.Move(player, mgl64.Vec2{0, -50})
	assert.InDelta(t, -20, moved[1], 1e-9)
	require.Len(t, contacts, 1)
	assert.Equal(t, mgl64.Vec2{0, 1}, contacts[0].Normal)
}

func TestWorldRemove(t *testing.T) {
	world := newWorld()
	a := ecs.NewEntityId(1, 0)
	b := ecs.NewEntityId(1, 1)
	world.Insert(a, mgl64.Vec2{}, components.CircleCollider(1), components.Dynamic)
	world.Insert(b, mgl64.Vec2{}, components.CircleCollider(1), components.Dynamic)

	world.Retain(func(id ecs.EntityId) bool { return id == a })
	assert.True(t, world.Has(a))
	assert.False(t, world.Has(b))

	world.Remove(a)
	assert.Equal(t, 0, world.Len())
	world.Remove(a)
}

func TestWorldBounds(t *testing.T) {
	world := physics.NewWorld(256, 128, 32)
	lo, hi := world.Bounds()
	assert.Equal(t, mgl64.Vec2{-128, -64}, lo)
	assert.Equal(t, mgl64.Vec2{128, 64}, hi)

	player := ecs.NewEntityId(1, 0)
	world.Insert(player, mgl64.Vec2{100, 0}, components.CircleCollider(10), components.Dynamic)

	moved, contacts := world.Move(player, mgl64.Vec2{50, 0})
	assert.InDelta(t, 18, moved[0], 1e-9, "stops with its edge on the space edge")
	require.Len(t, contacts, 1)
	assert.True(t, contacts[0].Boundary())
	assert.Equal(t, mgl64.Vec2{-1, 0}, contacts[0].Normal)

	moved, contacts = world.Move(player, mgl64.Vec2{0, -500})
	assert.InDelta(t, -54, moved[1], 1e-9)
	require.Len(t, contacts, 1)
	assert.True(t, contacts[0].Boundary())
	assert.Equal(t, mgl64.Vec2{0, 1}, contacts[0].Normal)

	center, ok := world.Center(player)
	require.True(t, ok)
	assert.InDelta(t, 118, center[0], 1e-9)
	assert.InDelta(t, -54, center[1], 1e-9)

	// Teleports outside the space are clamped back in.
	world.Teleport(player, mgl64.Vec2{-1000, 1000})
	center, _ = world.Center(player)
	assert.InDelta(t, -118, center[0], 1e-9)
	assert.InDelta(t, 54, center[1], 1e-9)
}

type scene struct {
	storage   *ecs.Storage
	scheduler *ecs.Scheduler
	player    ecs.EntityId
	obstacle  ecs.EntityId
}

func newScene(t *testing.T, gravity physics.Gravity) *scene {
	t.Helper()

	registry := ecs.NewComponentRegistry()
	components.Register(registry)
	storage := ecs.NewStorage(registry)
	scheduler := ecs.NewScheduler(storage)

	s := &scene{storage: storage, scheduler: scheduler}
	s.player = storage.Spawn(
		components.Player{},
		components.At(0, 0),
		components.RigidBody{Kind: components.Dynamic},
		components.CircleCollider(10),
		components.LinearVelocity{},
	)
	s.obstacle = storage.Spawn(
		components.Obstacle{},
		components.At(40, 0),
		components.RigidBody{Kind: components.Static},
		components.RectangleCollider(20, 20),
	)

	physics.Install(scheduler, newWorld(), gravity)
	return s
}

func (s *scene) transform(id ecs.EntityId) *components.Transform {
	return ecs.ReadComponent[components.Transform](s.storage, id)
}

func (s *scene) velocity() *components.LinearVelocity {
	return ecs.ReadComponent[components.LinearVelocity](s.storage, s.player)
}

func TestStepNeverOverlapsObstacle(t *testing.T) {
	s := newScene(t, physics.Gravity{})
	world := ecs.NewSingleton[physics.World](s.storage).Get()
	collisions := ecs.NewSingleton[physics.Collisions](s.storage)

	started := 0
	for range 240 {
		s.velocity().X = 100
		s.scheduler.Once(step)

		assert.False(t, world.Overlapping(s.player, s.obstacle))
		started += len(collisions.Get().Started)
	}

	assert.InDelta(t, 20, s.transform(s.player).Translation[0], 1e-9)
	assert.Zero(t, s.velocity().X, "blocked axis loses its velocity")
	assert.Equal(t, 1, started, "a held contact starts once")
	assert.NotEmpty(t, collisions.Get().Contacts)
}

func TestStepAppliesGravity(t *testing.T) {
	s := newScene(t, physics.Gravity{Y: -60})
	s.transform(s.player).Translation[0] = -200

	s.scheduler.Once(0.5)
	assert.InDelta(t, -30, s.velocity().Y, 1e-9)
	assert.InDelta(t, -15, s.transform(s.player).Translation[1], 1e-9)
}

func TestBodySyncFollowsEntities(t *testing.T) {
	s := newScene(t, physics.Gravity{})
	world := ecs.NewSingleton[physics.World](s.storage).Get()

	s.scheduler.Once(step)
	assert.Equal(t, 2, world.Len())

	// Moving a static body by its transform moves the collider.
	s.transform(s.obstacle).Translation[0] = 400
	s.scheduler.Once(step)
	center, ok := world.Center(s.obstacle)
	require.True(t, ok)
	assert.InDelta(t, 400, center[0], 1e-9)

	require.True(t, s.storage.Delete(s.obstacle))
	s.scheduler.Once(step)
	assert.Equal(t, 1, world.Len())
	assert.False(t, world.Has(s.obstacle))
}

func TestStepStopsAtSpaceEdge(t *testing.T) {
	s := newScene(t, physics.Gravity{})
	collisions := ecs.NewSingleton[physics.Collisions](s.storage)
	s.transform(s.player).Translation[1] = 100

	edges := 0
	for range 3600 {
		s.velocity().X = 100
		s.scheduler.Once(step)
		for _, c := range collisions.Get().Started {
			if c.Boundary() {
				edges++
			}
		}
	}

	assert.InDelta(t, 2048-10, s.transform(s.player).Translation[0], 1e-6, "held right runs into the edge")
	assert.InDelta(t, 100, s.transform(s.player).Translation[1], 1e-9)
	assert.Zero(t, s.velocity().X)
	assert.Equal(t, 1, edges)
}
