package main

import (
	"fmt"
	"io"
	"runtime"
	"text/template"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/drift/ecs"
	"github.com/plus3/drift/internal/game"
)

type Report struct {
	// Configuration
	Duration time.Duration
	Step     time.Duration
	Script   Script

	// Results
	Frames        int64
	TotalTime     time.Duration
	UpdateTime    Stats
	State         game.State
	MaxPlayerStep float64
	Systems       []ecs.SystemStats
	Storage       ecs.StorageStats
	MemStatsStart runtime.MemStats
	MemStatsEnd   runtime.MemStats
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		if sample < s.Min {
			s.Min = sample
		}
		if sample > s.Max {
			s.Max = sample
		}
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

const reportTemplate = `
# drift simulation report

## Run
- **Simulated:** {{.Duration}} at {{.Step}} per frame
- **Script:**{{range .Script}} {{.Name}} {{.Duration}};{{else}} idle{{end}}

## Scene
{{- if .State.HasScene}}
- **Frames:** {{.Frames}}
- **Player:** {{vec .State.Player.Translation}}
- **Velocity:** ({{printf "%.3f" .State.Velocity.X}}, {{printf "%.3f" .State.Velocity.Y}})
- **Camera:** {{vec .State.Camera.Translation}}
- **Camera distance:** {{printf "%.3f" .State.CameraDistance}}
- **Largest player step:** {{printf "%.3f" .MaxPlayerStep}}
{{- else}}
- scene not resolvable (player or camera missing)
{{- end}}
- **Entities:** {{.Storage.TotalEntityCount}} in {{.Storage.ArchetypeCount}} archetypes, {{.Storage.SingletonCount}} singletons

## Timing
- **Wall time:** {{.TotalTime}}
- **Update:** avg {{.UpdateTime.Avg}}, min {{.UpdateTime.Min}}, max {{.UpdateTime.Max}}
{{range .Systems}}
- {{.Name}}{{if .Startup}} (startup){{end}}: {{.ExecutionCount}} runs, avg {{.AvgDuration}}, max {{.MaxDuration}}
{{- end}}

## Memory (raw bytes)
- Heap Alloc:  {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc: {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Num GC:      {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end)
`

var reportFuncs = template.FuncMap{
	"bsub": func(a, b uint64) int64 {
		return int64(a) - int64(b)
	},
	"vec": func(v mgl64.Vec3) string {
		return fmt.Sprintf("(%.3f, %.3f)", v[0], v[1])
	},
}

func (r *Report) Generate(w io.Writer) error {
	tmpl, err := template.New("report").Funcs(reportFuncs).Parse(reportTemplate)
	if err != nil {
		return err
	}
	return tmpl.Execute(w, r)
}
