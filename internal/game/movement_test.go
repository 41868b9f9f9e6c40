package game_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/drift/internal/game"
	"github.com/stretchr/testify/assert"
)

func TestSteer(t *testing.T) {
	t.Run("friction decays each axis", func(t *testing.T) {
		v := game.Steer(mgl64.Vec2{10, -4}, mgl64.Vec2{}, 5, 0.95)
		assert.InDelta(t, 9.5, v[0], 1e-12)
		assert.InDelta(t, -3.8, v[1], 1e-12)
	})

	t.Run("zero is a fixed point", func(t *testing.T) {
		assert.Equal(t, mgl64.Vec2{}, game.Steer(mgl64.Vec2{}, mgl64.Vec2{}, 5, 0.95))
	})

	t.Run("diagonals have unit direction", func(t *testing.T) {
		v := game.Steer(mgl64.Vec2{}, mgl64.Vec2{1, 1}, 5, 0.95)
		assert.InDelta(t, 5, v.Len(), 1e-12)
		assert.InDelta(t, 5/math.Sqrt2, v[0], 1e-12)
	})

	t.Run("opposite keys cancel", func(t *testing.T) {
		v := game.Steer(mgl64.Vec2{2, 0}, mgl64.Vec2{0, 0}, 5, 0.95)
		assert.InDelta(t, 1.9, v[0], 1e-12)
	})

	t.Run("terminal speed", func(t *testing.T) {
		var v mgl64.Vec2
		for range 2000 {
			v = game.Steer(v, mgl64.Vec2{1, 0}, 5, 0.95)
		}
		assert.InDelta(t, 100, v[0], 1e-6)
	})
}

func TestFollow(t *testing.T) {
	camera := mgl64.Vec3{0, 0, 3}
	target := mgl64.Vec3{10, -20, 99}

	got := game.Follow(camera, target, 0.25, 2)
	assert.Equal(t, mgl64.Vec3{5, -10, 3}, got)

	assert.Equal(t, mgl64.Vec3{10, -20, 3}, game.Follow(camera, target, 1, 2), "t clamps to 1")
	assert.Equal(t, camera, game.Follow(camera, target, -1, 2), "t clamps to 0")
	assert.Equal(t, camera, game.Follow(camera, target, 0.5, 0))
}

func ExampleSteer() {
	v := mgl64.Vec2{}
	v = game.Steer(v, mgl64.Vec2{0, 1}, 5, 0.95)
	v = game.Steer(v, mgl64.Vec2{}, 5, 0.95)
	fmt.Printf("%.2f %.2f\n", v[0], v[1])
	// Output: 0.00 4.75
}

func ExampleFollow() {
	camera := game.Follow(mgl64.Vec3{0, 0, 1}, mgl64.Vec3{30, 60, 0}, 1.0/60, 2)
	fmt.Printf("%.1f %.1f %.1f\n", camera[0], camera[1], camera[2])
	// Output: 1.0 2.0 1.0
}
