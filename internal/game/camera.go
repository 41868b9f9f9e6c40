package game

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/drift/ecs"
	"github.com/plus3/drift/internal/components"
	"go.uber.org/zap"
)

// Follow moves camera towards target by dt*factor of the remaining distance,
// clamped to [0, 1]. Only X and Y move; Z is kept.
func Follow(camera, target mgl64.Vec3, dt, factor float64) mgl64.Vec3 {
	t := mgl64.Clamp(dt*factor, 0, 1)
	return mgl64.Vec3{
		camera[0] + (target[0]-camera[0])*t,
		camera[1] + (target[1]-camera[1])*t,
		camera[2],
	}
}

type cameraView struct {
	*components.Camera2D
	*components.Transform
}

type playerView struct {
	*components.Player
	*components.Transform
}

// CameraFollow eases the camera towards the player. A frame is skipped when
// either is missing or ambiguous.
type CameraFollow struct {
	LerpFactor float64

	Cameras ecs.Query[cameraView]
	Players ecs.Query[playerView]

	logger   *zap.Logger
	skipping bool
}

func NewCameraFollow(lerpFactor float64, logger *zap.Logger) *CameraFollow {
	return &CameraFollow{LerpFactor: lerpFactor, logger: logger}
}

func (s *CameraFollow) Execute(frame *ecs.UpdateFrame) {
	camera, okCamera := s.Cameras.Single()
	player, okPlayer := s.Players.Single()
	if !okCamera || !okPlayer {
		if !s.skipping && s.logger != nil {
			s.logger.Debug("camera follow skipped",
				zap.Int("cameras", s.Cameras.Count()),
				zap.Int("players", s.Players.Count()),
			)
		}
		s.skipping = true
		return
	}
	s.skipping = false

	camera.Transform.Translation = Follow(
		camera.Transform.Translation,
		player.Transform.Translation,
		frame.DeltaTime,
		s.LerpFactor,
	)
}
