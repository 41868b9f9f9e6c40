package platform

import (
	"cmp"
	"image/color"
	"slices"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/drift/ecs"
	"github.com/plus3/drift/internal/components"
)

// debugLineHeight is the line height of ebitenutil's debug font.
const debugLineHeight = 16

// haloLayers is the number of translucent rings drawn around a glowing sprite.
const haloLayers = 4

// View maps world coordinates (y-up) onto a screen (y-down) centered on the camera.
type View struct {
	Center mgl64.Vec2
	Zoom   float64
	Width  int
	Height int
}

// ToScreen projects a world point.
func (v View) ToScreen(p mgl64.Vec2) (float32, float32) {
	zoom := v.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	x := float64(v.Width)/2 + (p[0]-v.Center[0])*zoom
	y := float64(v.Height)/2 - (p[1]-v.Center[1])*zoom
	return float32(x), float32(y)
}

type renderCamera struct {
	*components.Camera2D
	*components.Transform
	Bloom *components.Bloom `ecs:"optional"`
}

type renderSprite struct {
	*components.Transform
	*components.Sprite
}

// byDepth orders sprites back to front by translation Z.
func byDepth(a, b renderSprite) int {
	return cmp.Compare(a.Transform.Translation[2], b.Transform.Translation[2])
}

// RenderSystem draws sprites and screen text onto the Screen singleton.
// Nothing but the background is drawn unless exactly one camera exists.
type RenderSystem struct {
	Screen  ecs.Singleton[Screen]
	Cameras ecs.Query[renderCamera]
	Sprites ecs.Query[renderSprite]
	Texts   ecs.Query[struct{ *components.Text }]

	background color.RGBA
	sorted     []renderSprite
}

func NewRenderSystem(background color.RGBA) *RenderSystem {
	return &RenderSystem{background: background}
}

func (s *RenderSystem) Execute(frame *ecs.UpdateFrame) {
	screen := s.Screen.Get()
	if screen == nil || screen.Image == nil {
		return
	}
	dst := screen.Image
	dst.Fill(s.background)

	camera, ok := s.Cameras.Single()
	if !ok {
		return
	}
	view := View{
		Center: camera.Transform.XY(),
		Zoom:   camera.Camera2D.Zoom,
		Width:  dst.Bounds().Dx(),
		Height: dst.Bounds().Dy(),
	}

	s.sorted = s.sorted[:0]
	for sprite := range s.Sprites.Iter() {
		s.sorted = append(s.sorted, sprite)
	}
	slices.SortStableFunc(s.sorted, byDepth)

	for _, sprite := range s.sorted {
		x, y := view.ToScreen(sprite.Transform.XY())
		scale := float32(view.Zoom)
		if scale <= 0 {
			scale = 1
		}
		if camera.Bloom != nil && sprite.Sprite.Glow > 1 {
			drawHalo(dst, x, y, scale, sprite.Sprite, camera.Bloom.Intensity)
		}
		drawShape(dst, x, y, scale, 1, sprite.Sprite, sprite.Sprite.Color)
	}

	for text := range s.Texts.Iter() {
		lines := strings.Count(text.Text.Value, "\n") + 1
		y := view.Height - int(text.Text.Bottom) - lines*debugLineHeight
		ebitenutil.DebugPrintAt(dst, text.Text.Value, int(text.Text.Left), y)
	}
}

func drawShape(dst *ebiten.Image, x, y, scale, grow float32, sprite *components.Sprite, clr color.Color) {
	switch sprite.Shape {
	case components.Circle:
		vector.DrawFilledCircle(dst, x, y, float32(sprite.Radius)*scale*grow, clr, true)
	case components.Rectangle:
		w := float32(sprite.Width) * scale * grow
		h := float32(sprite.Height) * scale * grow
		vector.DrawFilledRect(dst, x-w/2, y-h/2, w, h, clr, true)
	}
}

// drawHalo approximates bloom with concentric translucent copies of the sprite.
// Brighter sprites (higher Glow) get a wider halo.
func drawHalo(dst *ebiten.Image, x, y, scale float32, sprite *components.Sprite, intensity float64) {
	spread := float32(sprite.Glow-1) * 0.25
	for i := haloLayers; i >= 1; i-- {
		grow := 1 + spread*float32(i)/haloLayers
		alpha := mgl64.Clamp(intensity*float64(haloLayers-i+1)/haloLayers, 0, 1)
		drawShape(dst, x, y, scale, grow, sprite, fade(sprite.Color, alpha))
	}
}

// fade returns c with alpha scaled, premultiplied as color.RGBA requires.
func fade(c color.RGBA, alpha float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * alpha),
		G: uint8(float64(c.G) * alpha),
		B: uint8(float64(c.B) * alpha),
		A: uint8(float64(c.A) * alpha),
	}
}
