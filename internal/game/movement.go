package game

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/drift/ecs"
	"github.com/plus3/drift/internal/components"
)

// Steer applies one frame of player control to a velocity: every non-zero
// axis decays by friction, then the normalized input direction scaled by
// speed is added. The result is independent of frame time.
func Steer(velocity, axis mgl64.Vec2, speed, friction float64) mgl64.Vec2 {
	for i := range velocity {
		if velocity[i] != 0 {
			velocity[i] *= friction
		}
	}
	if axis.Len() > 0 {
		velocity = velocity.Add(axis.Normalize().Mul(speed))
	}
	return velocity
}

type movingPlayer struct {
	*components.Player
	*components.LinearVelocity
}

// PlayerMovement steers the player from the input snapshot.
type PlayerMovement struct {
	Speed    float64
	Friction float64

	Players ecs.Query[movingPlayer]
	Input   ecs.Singleton[components.InputState]
}

func (s *PlayerMovement) Execute(frame *ecs.UpdateFrame) {
	player, ok := s.Players.Single()
	if !ok {
		return
	}

	var axis mgl64.Vec2
	if input := s.Input.Get(); input != nil {
		axis = input.Axis()
	}
	player.LinearVelocity.Set(Steer(player.LinearVelocity.Vec(), axis, s.Speed, s.Friction))
}
