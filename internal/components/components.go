// Package components holds the component and singleton types of the game.
// World space is y-up: positive Y is "forward".
package components

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/drift/ecs"
)

// Transform places an entity in the world. Z only orders drawing.
type Transform struct {
	Translation mgl64.Vec3
	Rotation    float64
}

// At returns a transform at (x, y) on the ground plane.
func At(x, y float64) Transform {
	return Transform{Translation: mgl64.Vec3{x, y, 0}}
}

// XY returns the planar part of the translation.
func (t Transform) XY() mgl64.Vec2 {
	return t.Translation.Vec2()
}

// Player tags the controllable light. Exactly one is expected.
type Player struct{}

// Obstacle tags the static blocking square.
type Obstacle struct{}

// Camera2D marks the entity whose transform is the center of the view.
type Camera2D struct {
	Zoom float64
}

// Bloom enables the glow pass for a camera.
type Bloom struct {
	Intensity float64
}

// BloomNatural mirrors a soft, low-intensity glow.
var BloomNatural = Bloom{Intensity: 0.15}

type BodyKind int

const (
	Dynamic BodyKind = iota
	Static
)

func (k BodyKind) String() string {
	switch k {
	case Dynamic:
		return "dynamic"
	case Static:
		return "static"
	default:
		return "unknown"
	}
}

// RigidBody makes an entity part of the physics simulation.
type RigidBody struct {
	Kind BodyKind
}

type ShapeKind int

const (
	Circle ShapeKind = iota
	Rectangle
)

// Collider is the collision shape, centered on the entity's transform.
type Collider struct {
	Shape  ShapeKind
	Radius float64
	Width  float64
	Height float64
}

func CircleCollider(radius float64) Collider {
	return Collider{Shape: Circle, Radius: radius}
}

func RectangleCollider(width, height float64) Collider {
	return Collider{Shape: Rectangle, Width: width, Height: height}
}

// HalfExtents returns half the width and height of the collider's bounding box.
func (c Collider) HalfExtents() mgl64.Vec2 {
	if c.Shape == Circle {
		return mgl64.Vec2{c.Radius, c.Radius}
	}
	return mgl64.Vec2{c.Width / 2, c.Height / 2}
}

// LinearVelocity is the planar velocity in world units per second.
type LinearVelocity struct {
	X, Y float64
}

func (v LinearVelocity) Vec() mgl64.Vec2 {
	return mgl64.Vec2{v.X, v.Y}
}

func (v *LinearVelocity) Set(vec mgl64.Vec2) {
	v.X, v.Y = vec[0], vec[1]
}

// Sprite is the flat colored shape drawn for an entity.
type Sprite struct {
	Shape  ShapeKind
	Radius float64
	Width  float64
	Height float64
	Color  color.RGBA
	// Glow > 1 marks an over-bright color that the bloom pass haloes.
	Glow float64
}

// Text is a screen-anchored label, positioned from the bottom-left corner.
type Text struct {
	Value  string
	Left   float64
	Bottom float64
}

// InputState is the per-frame snapshot of the movement actions.
type InputState struct {
	Up, Down, Left, Right bool
}

// Axis returns the raw (right-left, up-down) input, each component in {-1, 0, 1}.
func (s InputState) Axis() mgl64.Vec2 {
	var axis mgl64.Vec2
	if s.Right {
		axis[0]++
	}
	if s.Left {
		axis[0]--
	}
	if s.Up {
		axis[1]++
	}
	if s.Down {
		axis[1]--
	}
	return axis
}

// Register registers every component type of the game.
func Register(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Transform](registry)
	ecs.RegisterComponent[Player](registry)
	ecs.RegisterComponent[Obstacle](registry)
	ecs.RegisterComponent[Camera2D](registry)
	ecs.RegisterComponent[Bloom](registry)
	ecs.RegisterComponent[RigidBody](registry)
	ecs.RegisterComponent[Collider](registry)
	ecs.RegisterComponent[LinearVelocity](registry)
	ecs.RegisterComponent[Sprite](registry)
	ecs.RegisterComponent[Text](registry)
}
