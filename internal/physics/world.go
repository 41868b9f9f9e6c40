// Package physics is a small rigid-body layer over a resolv collision space.
//
// Bodies are axis-aligned boxes (circles use their bounding box). Dynamic
// bodies are moved one axis at a time and stop at the first solid they touch;
// static bodies never move.
//
// The space is fixed at creation and centered on the world origin, so the
// playable area is [-width/2, width/2] x [-height/2, height/2]. Bodies are kept
// inside it: the edges block dynamic bodies like a solid would, reported as
// contacts with the zero entity.
package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/kamstrup/intmap"
	"github.com/plus3/drift/ecs"
	"github.com/plus3/drift/internal/components"
	"github.com/solarlune/resolv"
)

const (
	TagSolid   = "solid"
	TagDynamic = "dynamic"

	// touchEpsilon absorbs float error when a body rests exactly on a face.
	touchEpsilon = 1e-9

	overlapTolerance = 1e-6
)

// World owns the collision space and the entity to body index. It is stored
// as a singleton; the struct only holds references, so copies share state.
type World struct {
	space  *resolv.Space
	bodies *intmap.Map[ecs.EntityId, *resolv.Object]
	offset mgl64.Vec2
	size   mgl64.Vec2
}

// NewWorld creates a space of the given size in world units, centered on the origin.
func NewWorld(width, height, cellSize int) World {
	return World{
		space:  resolv.NewSpace(width, height, cellSize, cellSize),
		bodies: intmap.New[ecs.EntityId, *resolv.Object](16),
		offset: mgl64.Vec2{float64(width) / 2, float64(height) / 2},
		size:   mgl64.Vec2{float64(width), float64(height)},
	}
}

// Bounds returns the playable area as min and max corners in world units.
func (w *World) Bounds() (mgl64.Vec2, mgl64.Vec2) {
	return w.offset.Mul(-1), w.size.Sub(w.offset)
}

// Len returns the number of registered bodies.
func (w *World) Len() int {
	return w.bodies.Len()
}

// Has reports whether the entity has a body.
func (w *World) Has(id ecs.EntityId) bool {
	return w.bodies.Has(id)
}

// Insert registers a body centered at center. Re-inserting an entity replaces its body.
func (w *World) Insert(id ecs.EntityId, center mgl64.Vec2, collider components.Collider, kind components.BodyKind) {
	w.Remove(id)

	half := collider.HalfExtents()
	tag := TagSolid
	if kind == components.Dynamic {
		tag = TagDynamic
	}

	obj := resolv.NewObject(0, 0, half[0]*2, half[1]*2, tag)
	obj.Data = id
	w.space.Add(obj)
	w.place(obj, center)
	w.bodies.Put(id, obj)
}

// Remove drops the entity's body, if any.
func (w *World) Remove(id ecs.EntityId) {
	obj, ok := w.bodies.Get(id)
	if !ok {
		return
	}
	w.space.Remove(obj)
	w.bodies.Del(id)
}

// Retain removes every body whose entity fails keep.
func (w *World) Retain(keep func(ecs.EntityId) bool) {
	var stale []ecs.EntityId
	w.bodies.ForEach(func(id ecs.EntityId, _ *resolv.Object) bool {
		if !keep(id) {
			stale = append(stale, id)
		}
		return true
	})
	for _, id := range stale {
		w.Remove(id)
	}
}

// Center returns the world-space center of the entity's body.
func (w *World) Center(id ecs.EntityId) (mgl64.Vec2, bool) {
	obj, ok := w.bodies.Get(id)
	if !ok {
		return mgl64.Vec2{}, false
	}
	return mgl64.Vec2{
		obj.Position.X + obj.Size.X/2 - w.offset[0],
		obj.Position.Y + obj.Size.Y/2 - w.offset[1],
	}, true
}

// Teleport moves a body without collision checks. The body is clamped into
// the space.
func (w *World) Teleport(id ecs.EntityId, center mgl64.Vec2) {
	if obj, ok := w.bodies.Get(id); ok {
		w.place(obj, center)
	}
}

func (w *World) place(obj *resolv.Object, center mgl64.Vec2) {
	obj.Position.X = clampSpan(center[0]+w.offset[0]-obj.Size.X/2, obj.Size.X, w.size[0])
	obj.Position.Y = clampSpan(center[1]+w.offset[1]-obj.Size.Y/2, obj.Size.Y, w.size[1])
	obj.Update()
}

// clampSpan keeps [pos, pos+size] inside [0, limit]. A body larger than the
// space is pinned to its low edge.
func clampSpan(pos, size, limit float64) float64 {
	return math.Max(0, math.Min(pos, limit-size))
}

// Contact is one body touching another during a step. Normal points away
// from Other, towards Body. Other is zero when Body hit the edge of the space.
type Contact struct {
	Body   ecs.EntityId
	Other  ecs.EntityId
	Normal mgl64.Vec2
}

// Boundary reports whether the contact is with the edge of the space.
func (c Contact) Boundary() bool {
	return c.Other == 0
}

// Move sweeps the body by delta, X first then Y, stopping each axis at the
// nearest solid. It returns the distance actually travelled and the contacts hit.
func (w *World) Move(id ecs.EntityId, delta mgl64.Vec2) (mgl64.Vec2, []Contact) {
	obj, ok := w.bodies.Get(id)
	if !ok {
		return mgl64.Vec2{}, nil
	}

	var contacts []Contact
	var moved mgl64.Vec2

	for axis := 0; axis < 2; axis++ {
		d := delta[axis]
		if d == 0 {
			continue
		}

		allowed, hit := w.sweep(obj, axis, d)
		allowed, edge := w.limit(obj, axis, allowed)
		if hit != nil || edge {
			normal := mgl64.Vec2{}
			normal[axis] = -math.Copysign(1, d)
			contact := Contact{Body: id, Normal: normal}
			if !edge {
				contact.Other = entityOf(hit)
			}
			contacts = append(contacts, contact)
		}

		if axis == 0 {
			obj.Position.X += allowed
		} else {
			obj.Position.Y += allowed
		}
		obj.Update()
		moved[axis] = allowed
	}

	return moved, contacts
}

// sweep returns how far obj can travel along one axis and the solid that stopped it.
func (w *World) sweep(obj *resolv.Object, axis int, d float64) (float64, *resolv.Object) {
	dx, dy := 0.0, 0.0
	if axis == 0 {
		dx = d
	} else {
		dy = d
	}

	collision := obj.Check(dx, dy, TagSolid)
	if collision == nil {
		return d, nil
	}

	allowed := d
	var blocker *resolv.Object
	for _, other := range collision.Objects {
		if !overlapsOnCrossAxis(obj, other, axis) {
			continue
		}

		contact := collision.ContactWithObject(other)
		gap := contact.X
		if axis == 1 {
			gap = contact.Y
		}

		// gap is the signed distance to the touching face; a body already past
		// the face (gap of the wrong sign) is not in the way.
		if d > 0 && gap > -touchEpsilon && gap <= allowed {
			allowed, blocker = math.Max(gap, 0), other
		}
		if d < 0 && gap < touchEpsilon && gap >= allowed {
			allowed, blocker = math.Min(gap, 0), other
		}
	}
	return allowed, blocker
}

// limit shortens a move along axis so the body stays inside the space. edge is
// true when the move reaches the edge.
func (w *World) limit(obj *resolv.Object, axis int, d float64) (float64, bool) {
	pos, size := obj.Position.X, obj.Size.X
	if axis == 1 {
		pos, size = obj.Position.Y, obj.Size.Y
	}

	if room := math.Max(w.size[axis]-size-pos, 0); d > 0 && d >= room {
		return room, true
	}
	if room := math.Min(-pos, 0); d < 0 && d <= room {
		return room, true
	}
	return d, false
}

func overlapsOnCrossAxis(a, b *resolv.Object, axis int) bool {
	if axis == 0 {
		return a.Position.Y < b.Position.Y+b.Size.Y && a.Position.Y+a.Size.Y > b.Position.Y
	}
	return a.Position.X < b.Position.X+b.Size.X && a.Position.X+a.Size.X > b.Position.X
}

// Overlapping reports whether two registered bodies intersect. Touching
// faces, within float error, do not count.
func (w *World) Overlapping(a, b ecs.EntityId) bool {
	oa, okA := w.bodies.Get(a)
	ob, okB := w.bodies.Get(b)
	if !okA || !okB {
		return false
	}
	return penetration(oa.Position.X, oa.Size.X, ob.Position.X, ob.Size.X) > overlapTolerance &&
		penetration(oa.Position.Y, oa.Size.Y, ob.Position.Y, ob.Size.Y) > overlapTolerance
}

func penetration(aMin, aSize, bMin, bSize float64) float64 {
	return math.Min(aMin+aSize, bMin+bSize) - math.Max(aMin, bMin)
}

func entityOf(obj *resolv.Object) ecs.EntityId {
	id, _ := obj.Data.(ecs.EntityId)
	return id
}
