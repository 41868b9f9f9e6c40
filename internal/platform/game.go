package platform

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/drift/ecs"
	"github.com/plus3/drift/ecs/debugui"
	debugui_ebiten "github.com/plus3/drift/ecs/debugui/ebiten"
	"github.com/plus3/drift/internal/components"
	"github.com/plus3/drift/internal/config"
	"github.com/plus3/drift/internal/game"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Game implements ebiten.Game. Update runs the game scheduler at the tick
// rate; Draw runs a separate render scheduler over the same storage.
type Game struct {
	storage *ecs.Storage
	update  *ecs.Scheduler
	render  *ecs.Scheduler

	screen   *ecs.Singleton[Screen]
	imgui    *ecs.Singleton[debugui_ebiten.ImguiBackend]
	bindings Bindings
	logger   *zap.Logger
}

// NewGame builds the storage and both schedulers and opens the window.
func NewGame(cfg *config.Config, logger *zap.Logger) (*Game, error) {
	bindings, err := ParseBindings(cfg.Bindings)
	if err != nil {
		return nil, eris.Wrap(err, "key bindings")
	}

	storage := game.NewStorage()
	debugui.RegisterComponents(storage.Registry())

	g := &Game{
		storage:  storage,
		update:   ecs.NewScheduler(storage),
		render:   ecs.NewScheduler(storage),
		screen:   ecs.NewSingleton[Screen](storage),
		bindings: bindings,
		logger:   logger,
	}

	if cfg.Debug.Imgui {
		g.imgui = ecs.NewSingleton[debugui_ebiten.ImguiBackend](storage,
			debugui_ebiten.NewImguiBackend(cfg.Window.Title, cfg.Window.Width, cfg.Window.Height))
		ecs.NewSingleton[debugui.ImguiInputState](storage)
	} else {
		ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
		ebiten.SetWindowTitle(cfg.Window.Title)
	}
	if cfg.Window.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}

	game.Install(g.update, cfg, logger, NewKeyboardSystem(bindings))
	if cfg.Debug.Diagnostics {
		g.update.Register(NewDiagnosticsSystem(bindings.Diagnostics, logger.Named("window")))
	}
	if g.imgui != nil {
		g.update.Register(&debugui.ImguiSystem{})
		g.spawnInspector()
	}

	g.render.Register(NewRenderSystem(cfg.Window.Background.RGBA()))

	logger.Info("window ready",
		zap.String("title", cfg.Window.Title),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
		zap.Bool("imgui", cfg.Debug.Imgui),
	)
	return g, nil
}

func (g *Game) spawnInspector() {
	stats := debugui.NewStatsWindow("drift", g.storage, g.update, 120)
	stats.Extra = func() {
		state := game.Snapshot(g.storage)
		if !state.HasScene {
			imgui.Text("scene not ready")
			return
		}
		imgui.Text(fmt.Sprintf("Player: (%.1f, %.1f)", state.Player.Translation[0], state.Player.Translation[1]))
		imgui.Text(fmt.Sprintf("Velocity: (%.2f, %.2f)", state.Velocity.X, state.Velocity.Y))
		imgui.Text(fmt.Sprintf("Camera: (%.1f, %.1f)", state.Camera.Translation[0], state.Camera.Translation[1]))
		imgui.Text(fmt.Sprintf("Camera distance: %.2f", state.CameraDistance()))
	}
	stats.Spawn(g.storage, func() float32 {
		tps := ebiten.ActualTPS()
		if tps <= 0 {
			return 0
		}
		return float32(1 / tps)
	})

	// The player is selected until something else is picked, so its Transform
	// and LinearVelocity can be edited live.
	players := ecs.NewQuery[struct {
		ecs.EntityId
		*components.Player
	}](g.storage)
	browser := debugui.SpawnEntityInspector(g.storage, 50)
	browser.Focus(func() (ecs.EntityId, bool) {
		player, ok := players.Single()
		return player.EntityId, ok
	})
}

// Storage exposes the game storage, mostly for tooling.
func (g *Game) Storage() *ecs.Storage {
	return g.storage
}

func (g *Game) Update() error {
	if g.bindings.Quit.Pressed() {
		return ebiten.Termination
	}

	if g.imgui != nil {
		g.imgui.Get().BeginFrame()
	}
	g.update.Once(1.0 / float64(ebiten.TPS()))
	if g.imgui != nil {
		g.imgui.Get().EndFrame()
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	if s := g.screen.Get(); s != nil {
		s.Image = screen
	}
	g.render.Once(0)

	if g.imgui != nil {
		g.imgui.Get().Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if s := g.screen.Get(); s != nil {
		s.Width, s.Height = outsideWidth, outsideHeight
	}
	if g.imgui != nil {
		g.imgui.Get().Layout(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

// Run opens the window and blocks until it is closed or the quit key is pressed.
func Run(cfg *config.Config, logger *zap.Logger) error {
	g, err := NewGame(cfg, logger)
	if err != nil {
		return err
	}
	if err := ebiten.RunGame(g); err != nil {
		return eris.Wrap(err, "run game")
	}
	logger.Info("window closed", zap.Int64("frames", g.update.GetStats().Frames))
	return nil
}
