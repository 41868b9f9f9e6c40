// Package config loads the game's tuning and window settings.
//
// Defaults are embedded in the binary; an optional YAML file in the working
// directory overrides individual fields.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"image/color"
	"io"
	"io/fs"
	"math"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// FileName is the override file looked up in the working directory.
const FileName = "drift.yaml"

//go:embed default.yaml
var defaultYAML []byte

type Config struct {
	Window   Window   `yaml:"window"`
	Player   Player   `yaml:"player"`
	Camera   Camera   `yaml:"camera"`
	Obstacle Obstacle `yaml:"obstacle"`
	Physics  Physics  `yaml:"physics"`
	Bindings Bindings `yaml:"bindings"`
	Debug    Debug    `yaml:"debug"`
	Log      Log      `yaml:"log"`
}

type Window struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Resizable  bool   `yaml:"resizable"`
	Background RGB    `yaml:"background"`
}

type Player struct {
	// Speed is the velocity added per frame along the normalized input direction.
	Speed float64 `yaml:"speed"`
	// Friction multiplies each non-zero velocity axis once per frame.
	Friction float64 `yaml:"friction"`
	Radius   float64 `yaml:"radius"`
	Color    RGB     `yaml:"color"`
	Glow     float64 `yaml:"glow"`
}

type Camera struct {
	LerpFactor     float64 `yaml:"lerp_factor"`
	Bloom          bool    `yaml:"bloom"`
	BloomIntensity float64 `yaml:"bloom_intensity"`
}

type Obstacle struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	// Z orders drawing; higher is drawn later, over the player at 0.
	Z      float64 `yaml:"z"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Color  RGB     `yaml:"color"`
	Glow   float64 `yaml:"glow"`
}

type Physics struct {
	Gravity     []float64 `yaml:"gravity"`
	SpaceWidth  int       `yaml:"space_width"`
	SpaceHeight int       `yaml:"space_height"`
	CellSize    int       `yaml:"cell_size"`
}

type Bindings struct {
	Up          []string `yaml:"up"`
	Down        []string `yaml:"down"`
	Left        []string `yaml:"left"`
	Right       []string `yaml:"right"`
	Quit        []string `yaml:"quit"`
	Diagnostics []string `yaml:"diagnostics"`
}

type Debug struct {
	Imgui         bool `yaml:"imgui"`
	Instructions  bool `yaml:"instructions"`
	Diagnostics   bool `yaml:"diagnostics"`
	LogCollisions bool `yaml:"log_collisions"`
}

type Log struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
}

// RGB is an opaque 8-bit color written as a three element YAML sequence.
type RGB []uint8

// RGBA returns the color with full alpha. Missing channels read as zero.
func (c RGB) RGBA() color.RGBA {
	var out color.RGBA
	out.A = 0xff
	if len(c) > 0 {
		out.R = c[0]
	}
	if len(c) > 1 {
		out.G = c[1]
	}
	if len(c) > 2 {
		out.B = c[2]
	}
	return out
}

// Default returns the embedded configuration.
func Default() *Config {
	cfg, err := decode(&Config{}, bytes.NewReader(defaultYAML), false)
	if err != nil {
		panic(eris.ToString(eris.Wrap(err, "embedded default config"), false))
	}
	return cfg
}

// Load returns the embedded defaults overridden by the file at path.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.Validate()
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, cfg.Validate()
	}
	if err != nil {
		return nil, eris.Wrapf(err, "open config %s", path)
	}
	defer f.Close()

	return Parse(cfg, f)
}

// Parse decodes r over base and validates the result. Unknown keys are rejected.
func Parse(base *Config, r io.Reader) (*Config, error) {
	cfg, err := decode(base, r, true)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(cfg *Config, r io.Reader, strict bool) (*Config, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(strict)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, eris.Wrap(err, "decode config")
	}
	return cfg, nil
}

// Validate reports the first setting that would make the game misbehave.
func (c *Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return eris.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	case c.Player.Speed < 0:
		return eris.Errorf("player.speed must not be negative, got %v", c.Player.Speed)
	case c.Player.Friction < 0 || c.Player.Friction > 1:
		return eris.Errorf("player.friction must be within [0, 1], got %v", c.Player.Friction)
	case c.Player.Radius <= 0:
		return eris.Errorf("player.radius must be positive, got %v", c.Player.Radius)
	case c.Camera.LerpFactor < 0:
		return eris.Errorf("camera.lerp_factor must not be negative, got %v", c.Camera.LerpFactor)
	case c.Obstacle.Width <= 0 || c.Obstacle.Height <= 0:
		return eris.Errorf("obstacle size must be positive, got %vx%v", c.Obstacle.Width, c.Obstacle.Height)
	case len(c.Physics.Gravity) != 2:
		return eris.Errorf("physics.gravity needs 2 components, got %d", len(c.Physics.Gravity))
	case c.Physics.CellSize <= 0 || c.Physics.SpaceWidth < c.Physics.CellSize || c.Physics.SpaceHeight < c.Physics.CellSize:
		return eris.New("physics space must be at least one cell in each dimension")
	case math.Abs(c.Obstacle.X)+c.Obstacle.Width/2 > float64(c.Physics.SpaceWidth)/2 ||
		math.Abs(c.Obstacle.Y)+c.Obstacle.Height/2 > float64(c.Physics.SpaceHeight)/2:
		return eris.Errorf("obstacle at (%v, %v) lies outside the %dx%d physics space centered on the origin",
			c.Obstacle.X, c.Obstacle.Y, c.Physics.SpaceWidth, c.Physics.SpaceHeight)
	case c.Player.Radius*2 > float64(min(c.Physics.SpaceWidth, c.Physics.SpaceHeight)):
		return eris.Errorf("player.radius %v does not fit the physics space", c.Player.Radius)
	}

	for name, rgb := range map[string]RGB{
		"window.background": c.Window.Background,
		"player.color":      c.Player.Color,
		"obstacle.color":    c.Obstacle.Color,
	} {
		if len(rgb) != 3 {
			return eris.Errorf("%s needs 3 channels, got %d", name, len(rgb))
		}
	}
	return nil
}

// GravityXY returns the configured gravity vector.
func (p Physics) GravityXY() (float64, float64) {
	if len(p.Gravity) != 2 {
		return 0, 0
	}
	return p.Gravity[0], p.Gravity[1]
}
