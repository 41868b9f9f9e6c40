package platform

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/drift/ecs"
	"go.uber.org/zap"
)

// Screen is the render target of the current draw pass and its logical size.
type Screen struct {
	Image  *ebiten.Image
	Width  int
	Height int
}

// WindowSize returns the window size in device-independent pixels, or
// [0, 0] when there is no window (fullscreen or headless).
func WindowSize() [2]int {
	w, h := ebiten.WindowSize()
	if w <= 0 || h <= 0 {
		return [2]int{}
	}
	return [2]int{w, h}
}

// CursorInside reports whether (x, y) lies within a screen of the given size.
func CursorInside(x, y, width, height int) bool {
	return x >= 0 && y >= 0 && x < width && y < height
}

// CursorReport logs the cursor position, or that the cursor is outside the window.
func CursorReport(logger *zap.Logger, width, height int) {
	x, y := ebiten.CursorPosition()
	if !CursorInside(x, y, width, height) {
		logger.Info("cursor not in window")
		return
	}
	logger.Info("cursor position", zap.Int("x", x), zap.Int("y", y))
}

// DiagnosticsSystem logs the window size and cursor when its key is pressed.
type DiagnosticsSystem struct {
	Screen ecs.Singleton[Screen]

	keys   Keys
	logger *zap.Logger
}

func NewDiagnosticsSystem(keys Keys, logger *zap.Logger) *DiagnosticsSystem {
	return &DiagnosticsSystem{keys: keys, logger: logger}
}

func (s *DiagnosticsSystem) Execute(frame *ecs.UpdateFrame) {
	if !s.keys.JustPressed() {
		return
	}

	size := WindowSize()
	s.logger.Info("window size", zap.Ints("size", size[:]), zap.Int64("frame", frame.Frame))

	if screen := s.Screen.Get(); screen != nil {
		CursorReport(s.logger, screen.Width, screen.Height)
	}
}
