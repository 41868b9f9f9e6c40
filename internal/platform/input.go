package platform

import (
	"github.com/plus3/drift/ecs"
	"github.com/plus3/drift/ecs/debugui"
	"github.com/plus3/drift/internal/components"
)

// KeyboardSystem snapshots the movement keys into the InputState singleton.
// While an ImGui window has keyboard focus the snapshot is empty.
type KeyboardSystem struct {
	Input ecs.Singleton[components.InputState]
	Imgui ecs.Singleton[debugui.ImguiInputState]

	bindings Bindings
}

func NewKeyboardSystem(bindings Bindings) *KeyboardSystem {
	return &KeyboardSystem{bindings: bindings}
}

func (s *KeyboardSystem) Execute(frame *ecs.UpdateFrame) {
	input := s.Input.Get()
	if input == nil {
		return
	}

	if imgui := s.Imgui.Get(); imgui != nil && imgui.WantCaptureKeyboard {
		*input = components.InputState{}
		return
	}

	*input = components.InputState{
		Up:    s.bindings.Up.Pressed(),
		Down:  s.bindings.Down.Pressed(),
		Left:  s.bindings.Left.Pressed(),
		Right: s.bindings.Right.Pressed(),
	}
}
