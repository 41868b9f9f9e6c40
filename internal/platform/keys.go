// Package platform connects the game to an ebiten window: keyboard polling,
// drawing, window diagnostics and the optional ImGui overlay.
package platform

import (
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/plus3/drift/internal/config"
	"github.com/rotisserie/eris"
)

// ParseKey resolves a key by its ebiten name ("W", "ArrowUp", "Escape", "F3").
// Matching ignores case and an optional "Key" prefix. Keys are physical
// positions on a US layout, so "W" is also Z on AZERTY keyboards.
func ParseKey(name string) (ebiten.Key, error) {
	want := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), "key")
	if want == "" {
		return 0, eris.New("empty key name")
	}
	for k := ebiten.Key(0); k <= ebiten.KeyMax; k++ {
		if strings.ToLower(k.String()) == want {
			return k, nil
		}
	}
	return 0, eris.Errorf("unknown key %q", name)
}

// Keys is a set of keys bound to one action.
type Keys []ebiten.Key

func parseKeys(action string, names []string) (Keys, error) {
	keys := make(Keys, 0, len(names))
	for _, name := range names {
		k, err := ParseKey(name)
		if err != nil {
			return nil, eris.Wrapf(err, "binding %s", action)
		}
		keys = append(keys, k)
	}
	return keys, nil
}

// Pressed reports whether any key of the set is held.
func (ks Keys) Pressed() bool {
	for _, k := range ks {
		if ebiten.IsKeyPressed(k) {
			return true
		}
	}
	return false
}

// JustPressed reports whether any key of the set went down this tick.
func (ks Keys) JustPressed() bool {
	for _, k := range ks {
		if inpututil.IsKeyJustPressed(k) {
			return true
		}
	}
	return false
}

// Bindings maps every action to its keys.
type Bindings struct {
	Up, Down, Left, Right Keys
	Quit                  Keys
	Diagnostics           Keys
}

// ParseBindings resolves the configured key names.
func ParseBindings(cfg config.Bindings) (Bindings, error) {
	var b Bindings
	for _, action := range []struct {
		name  string
		names []string
		dst   *Keys
	}{
		{"up", cfg.Up, &b.Up},
		{"down", cfg.Down, &b.Down},
		{"left", cfg.Left, &b.Left},
		{"right", cfg.Right, &b.Right},
		{"quit", cfg.Quit, &b.Quit},
		{"diagnostics", cfg.Diagnostics, &b.Diagnostics},
	} {
		keys, err := parseKeys(action.name, action.names)
		if err != nil {
			return Bindings{}, err
		}
		*action.dst = keys
	}
	return b, nil
}
