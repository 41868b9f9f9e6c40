package main

import (
	"math"
	"strings"
	"time"

	"github.com/plus3/drift/ecs"
	"github.com/plus3/drift/internal/components"
	"github.com/rotisserie/eris"
)

// Segment holds one input snapshot for a duration.
type Segment struct {
	Name     string
	Input    components.InputState
	Duration time.Duration
}

// Script is a sequence of input segments played back in order.
type Script []Segment

// Total returns the combined duration of all segments.
func (s Script) Total() time.Duration {
	var total time.Duration
	for _, seg := range s {
		total += seg.Duration
	}
	return total
}

// At returns the input held at elapsed time t. Past the end the script is idle.
func (s Script) At(t time.Duration) components.InputState {
	for _, seg := range s {
		if t < seg.Duration {
			return seg.Input
		}
		t -= seg.Duration
	}
	return components.InputState{}
}

// ParseScript parses "up:1s,upright:500ms,idle:2s". A direction is "idle" or
// a concatenation of up, down, left and right, optionally joined with '+'.
func ParseScript(src string) (Script, error) {
	var script Script
	for i, part := range strings.Split(src, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		name, dur, ok := strings.Cut(part, ":")
		if !ok {
			return nil, eris.Errorf("segment %d %q: expected direction:duration", i, part)
		}
		input, err := parseDirection(name)
		if err != nil {
			return nil, eris.Wrapf(err, "segment %d", i)
		}
		d, err := time.ParseDuration(strings.TrimSpace(dur))
		if err != nil {
			return nil, eris.Wrapf(err, "segment %d", i)
		}
		if d <= 0 {
			return nil, eris.Errorf("segment %d %q: duration must be positive", i, part)
		}
		if d%time.Microsecond != 0 {
			return nil, eris.Errorf("segment %d %q: duration finer than a microsecond", i, part)
		}
		script = append(script, Segment{Name: strings.TrimSpace(name), Input: input, Duration: d})
	}
	return script, nil
}

func parseDirection(name string) (components.InputState, error) {
	var input components.InputState
	rest := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "+", "")
	if rest == "idle" {
		return input, nil
	}
	if rest == "" {
		return input, eris.New("empty direction")
	}

	for rest != "" {
		switch {
		case strings.HasPrefix(rest, "up"):
			input.Up, rest = true, rest[len("up"):]
		case strings.HasPrefix(rest, "down"):
			input.Down, rest = true, rest[len("down"):]
		case strings.HasPrefix(rest, "left"):
			input.Left, rest = true, rest[len("left"):]
		case strings.HasPrefix(rest, "right"):
			input.Right, rest = true, rest[len("right"):]
		default:
			return input, eris.Errorf("unknown direction %q", name)
		}
	}
	return input, nil
}

// ScriptedInput plays a Script into the InputState singleton, advancing by
// the frame delta time. Elapsed time is kept in float seconds and snapped to
// the microsecond when looked up, so a segment covers the frames whose start
// falls inside it: up:1s at 60 Hz is exactly 60 frames.
type ScriptedInput struct {
	Input ecs.Singleton[components.InputState]

	script  Script
	elapsed float64
}

func NewScriptedInput(script Script) *ScriptedInput {
	return &ScriptedInput{script: script}
}

func (s *ScriptedInput) Execute(frame *ecs.UpdateFrame) {
	if input := s.Input.Get(); input != nil {
		*input = s.script.At(s.Elapsed())
	}
	s.elapsed += frame.DeltaTime
}

// Elapsed returns the game time played so far.
func (s *ScriptedInput) Elapsed() time.Duration {
	ns := time.Duration(math.Round(s.elapsed * float64(time.Second)))
	return ns.Round(time.Microsecond)
}
