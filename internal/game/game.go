// Package game wires the light-chasing prototype onto an ECS scheduler.
//
// The scene is a glowing player light, a static obstacle and a camera that
// eases towards the player. Input is abstract: the caller supplies the system
// that fills components.InputState, so the same wiring runs in a window or headless.
package game

import (
	"github.com/plus3/drift/ecs"
	"github.com/plus3/drift/internal/components"
	"github.com/plus3/drift/internal/config"
	"github.com/plus3/drift/internal/physics"
	"go.uber.org/zap"
)

// NewStorage returns a storage with every game component registered.
func NewStorage() *ecs.Storage {
	registry := ecs.NewComponentRegistry()
	components.Register(registry)
	return ecs.NewStorage(registry)
}

// Install registers the startup and update systems in frame order:
// input, player movement, physics, collision reporting, camera follow.
// A nil input leaves InputState untouched.
func Install(scheduler *ecs.Scheduler, cfg *config.Config, logger *zap.Logger, input ecs.System) {
	if logger == nil {
		logger = zap.NewNop()
	}
	storage := scheduler.Storage()
	storage.AddSingleton(components.InputState{})

	scheduler.RegisterStartup(NewSetupCamera(cfg))
	scheduler.RegisterStartup(NewSetupScene(cfg))
	if cfg.Debug.Instructions {
		scheduler.RegisterStartup(ecs.SystemFunc(SetupInstructions))
	}

	if input != nil {
		scheduler.Register(input)
	}
	scheduler.Register(&PlayerMovement{Speed: cfg.Player.Speed, Friction: cfg.Player.Friction})

	gx, gy := cfg.Physics.GravityXY()
	physics.Install(scheduler,
		physics.NewWorld(cfg.Physics.SpaceWidth, cfg.Physics.SpaceHeight, cfg.Physics.CellSize),
		physics.Gravity{X: gx, Y: gy},
	)

	if cfg.Debug.LogCollisions {
		scheduler.Register(NewCollisionReporter(logger.Named("physics")))
	}
	scheduler.Register(NewCameraFollow(cfg.Camera.LerpFactor, logger.Named("camera")))

	logger.Debug("game installed",
		zap.Float64("speed", cfg.Player.Speed),
		zap.Float64("friction", cfg.Player.Friction),
		zap.Float64("lerp_factor", cfg.Camera.LerpFactor),
		zap.Bool("instructions", cfg.Debug.Instructions),
	)
}

// State is a read-only snapshot of the scene, used by reports and debug views.
type State struct {
	Player   components.Transform
	Velocity components.LinearVelocity
	Camera   components.Transform
	HasScene bool
}

// Snapshot reads the player and camera. HasScene is false unless both resolve uniquely.
func Snapshot(storage *ecs.Storage) State {
	players := ecs.NewQuery[struct {
		*components.Player
		*components.Transform
		*components.LinearVelocity
	}](storage)
	cameras := ecs.NewQuery[cameraView](storage)

	var state State
	player, okPlayer := players.Single()
	camera, okCamera := cameras.Single()
	if okPlayer {
		state.Player = *player.Transform
		state.Velocity = *player.LinearVelocity
	}
	if okCamera {
		state.Camera = *camera.Transform
	}
	state.HasScene = okPlayer && okCamera
	return state
}

// CameraDistance is the planar distance between the camera and the player.
func (s State) CameraDistance() float64 {
	return s.Camera.XY().Sub(s.Player.XY()).Len()
}
