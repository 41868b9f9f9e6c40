package game

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/drift/ecs"
	"github.com/plus3/drift/internal/components"
	"github.com/plus3/drift/internal/config"
)

// InstructionsText is shown by the instruction panel.
const InstructionsText = "Move the light with ZQSD or WASD.\nThe camera will smoothly track the light."

// SetupScene spawns the player light and the obstacle.
type SetupScene struct {
	player   config.Player
	obstacle config.Obstacle
}

func NewSetupScene(cfg *config.Config) *SetupScene {
	return &SetupScene{player: cfg.Player, obstacle: cfg.Obstacle}
}

func (s *SetupScene) Execute(frame *ecs.UpdateFrame) {
	frame.Commands.Spawn(
		components.Player{},
		components.At(0, 0),
		components.RigidBody{Kind: components.Dynamic},
		components.CircleCollider(s.player.Radius),
		components.LinearVelocity{},
		components.Sprite{
			Shape:  components.Circle,
			Radius: s.player.Radius,
			Color:  s.player.Color.RGBA(),
			Glow:   s.player.Glow,
		},
	)

	frame.Commands.Spawn(
		components.Obstacle{},
		components.Transform{Translation: mgl64.Vec3{s.obstacle.X, s.obstacle.Y, s.obstacle.Z}},
		components.RigidBody{Kind: components.Static},
		components.RectangleCollider(s.obstacle.Width, s.obstacle.Height),
		components.Sprite{
			Shape:  components.Rectangle,
			Width:  s.obstacle.Width,
			Height: s.obstacle.Height,
			Color:  s.obstacle.Color.RGBA(),
			Glow:   s.obstacle.Glow,
		},
	)
}

// SetupCamera spawns the camera at the origin, with bloom when enabled.
type SetupCamera struct {
	camera config.Camera
}

func NewSetupCamera(cfg *config.Config) *SetupCamera {
	return &SetupCamera{camera: cfg.Camera}
}

func (s *SetupCamera) Execute(frame *ecs.UpdateFrame) {
	camera := []any{components.Camera2D{Zoom: 1}, components.At(0, 0)}
	if s.camera.Bloom {
		bloom := components.BloomNatural
		if s.camera.BloomIntensity > 0 {
			bloom.Intensity = s.camera.BloomIntensity
		}
		camera = append(camera, bloom)
	}
	frame.Commands.Spawn(camera...)
}

// SetupInstructions spawns the help text in the bottom-left corner.
func SetupInstructions(frame *ecs.UpdateFrame) {
	frame.Commands.Spawn(components.Text{Value: InstructionsText, Left: 12, Bottom: 12})
}
