package physics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/drift/ecs"
	"github.com/plus3/drift/internal/components"
)

// Gravity is the acceleration applied to dynamic bodies, in units per second squared.
type Gravity struct {
	X, Y float64
}

// Collisions holds the contacts produced by the last step. Started only lists
// pairs that were not touching on the previous step.
type Collisions struct {
	Contacts []Contact
	Started  []Contact
}

// Install adds the physics singletons and registers the sync and step systems.
// It must run after every system that writes velocities.
func Install(scheduler *ecs.Scheduler, world World, gravity Gravity) {
	storage := scheduler.Storage()
	storage.AddSingleton(world)
	storage.AddSingleton(gravity)
	storage.AddSingleton(Collisions{})

	scheduler.Register(&BodySync{})
	scheduler.Register(&Step{touching: map[pair]struct{}{}})
}

type body struct {
	ecs.EntityId
	*components.Transform
	*components.RigidBody
	*components.Collider
}

// BodySync mirrors entities with a Transform, RigidBody and Collider into the
// collision space. Bodies of deleted entities are dropped; static bodies
// follow their transform.
type BodySync struct {
	Bodies ecs.Query[body]
	World  ecs.Singleton[World]
}

func (s *BodySync) Execute(frame *ecs.UpdateFrame) {
	world := s.World.Get()
	if world == nil {
		return
	}

	world.Retain(frame.Storage.Alive)

	for b := range s.Bodies.Iter() {
		center := b.Transform.XY()
		if !world.Has(b.EntityId) {
			world.Insert(b.EntityId, center, *b.Collider, b.RigidBody.Kind)
			continue
		}
		if b.RigidBody.Kind == components.Static {
			world.Teleport(b.EntityId, center)
		}
	}
}

type dynamicBody struct {
	ecs.EntityId
	*components.Transform
	*components.RigidBody
	*components.LinearVelocity
}

type pair struct {
	body, other ecs.EntityId
}

// Step integrates dynamic bodies and resolves their contacts with solids.
type Step struct {
	Bodies     ecs.Query[dynamicBody]
	World      ecs.Singleton[World]
	Gravity    ecs.Singleton[Gravity]
	Collisions ecs.Singleton[Collisions]

	touching map[pair]struct{}
}

func (s *Step) Execute(frame *ecs.UpdateFrame) {
	world := s.World.Get()
	collisions := s.Collisions.Get()
	if world == nil || collisions == nil {
		return
	}
	if s.touching == nil {
		s.touching = map[pair]struct{}{}
	}

	var gravity mgl64.Vec2
	if g := s.Gravity.Get(); g != nil {
		gravity = mgl64.Vec2{g.X, g.Y}
	}

	dt := frame.DeltaTime
	collisions.Contacts = collisions.Contacts[:0]
	collisions.Started = collisions.Started[:0]
	current := make(map[pair]struct{}, len(s.touching))

	for b := range s.Bodies.Iter() {
		if b.RigidBody.Kind != components.Dynamic || !world.Has(b.EntityId) {
			continue
		}

		// The transform is authoritative; pick up any teleport since the last step.
		world.Teleport(b.EntityId, b.Transform.XY())

		velocity := b.LinearVelocity.Vec().Add(gravity.Mul(dt))
		_, contacts := world.Move(b.EntityId, velocity.Mul(dt))

		for _, c := range contacts {
			if c.Normal[0] != 0 {
				velocity[0] = 0
			}
			if c.Normal[1] != 0 {
				velocity[1] = 0
			}

			key := pair{c.Body, c.Other}
			current[key] = struct{}{}
			collisions.Contacts = append(collisions.Contacts, c)
			if _, ok := s.touching[key]; !ok {
				collisions.Started = append(collisions.Started, c)
			}
		}
		b.LinearVelocity.Set(velocity)

		center, _ := world.Center(b.EntityId)
		b.Transform.Translation[0] = center[0]
		b.Transform.Translation[1] = center[1]
	}

	s.touching = current
}
