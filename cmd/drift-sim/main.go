// Command drift-sim runs the game headless with scripted input at a fixed
// step and prints a report of where everything ended up.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/plus3/drift/ecs"
	"github.com/plus3/drift/internal/config"
	"github.com/plus3/drift/internal/game"
	"github.com/plus3/drift/internal/logging"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

const defaultStep = time.Second / 60

func main() {
	duration := flag.Duration("duration", 5*time.Second, "Simulated time to run for.")
	scriptSrc := flag.String("script", "up:1s,upright:1s,idle:2s", "Input script, e.g. \"up:1s,left:500ms,idle:2s\".")
	configPath := flag.String("config", config.FileName, "Optional YAML overrides.")
	logLevel := flag.String("log-level", "", "Overrides log.level from the config.")
	flag.Parse()

	if err := run(*duration, *scriptSrc, *configPath, *logLevel); err != nil {
		fmt.Fprintln(os.Stderr, eris.ToString(err, true))
		os.Exit(1)
	}
}

func run(duration time.Duration, scriptSrc, configPath, logLevel string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		return err
	}
	defer logger.Sync()

	script, err := ParseScript(scriptSrc)
	if err != nil {
		return eris.Wrap(err, "parse -script")
	}
	if duration <= 0 {
		return eris.Errorf("-duration must be positive, got %s", duration)
	}

	logger.Info("simulation starting",
		zap.Duration("duration", duration),
		zap.Int("segments", len(script)),
		zap.Duration("script_length", script.Total()),
	)

	report := simulate(cfg, logger, script, duration, defaultStep)

	logger.Info("simulation finished", zap.Int64("frames", report.Frames), zap.Duration("wall", report.TotalTime))
	return eris.Wrap(report.Generate(os.Stdout), "write report")
}

// simulate runs the scene for duration of game time in fixed steps.
func simulate(cfg *config.Config, logger *zap.Logger, script Script, duration, step time.Duration) *Report {
	storage := game.NewStorage()
	scheduler := ecs.NewScheduler(storage)
	game.Install(scheduler, cfg, logger, NewScriptedInput(script))

	report := &Report{
		Duration: duration,
		Step:     step,
		Script:   script,
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	frames := int64(duration / step)
	dt := step.Seconds()
	report.UpdateTime.Samples = make([]time.Duration, 0, frames)

	scheduler.Startup()
	prev := game.Snapshot(storage)
	start := time.Now()
	for range frames {
		updateStart := time.Now()
		scheduler.Once(dt)
		report.UpdateTime.Samples = append(report.UpdateTime.Samples, time.Since(updateStart))

		state := game.Snapshot(storage)
		if state.HasScene && prev.HasScene {
			report.MaxPlayerStep = max(report.MaxPlayerStep, state.Player.XY().Sub(prev.Player.XY()).Len())
		}
		prev = state
	}

	report.TotalTime = time.Since(start)
	report.Frames = frames
	report.UpdateTime.Finalize()
	report.State = prev
	report.Systems = scheduler.GetStats().Systems
	report.Storage = storage.CollectStats()
	runtime.ReadMemStats(&report.MemStatsEnd)

	return report
}
