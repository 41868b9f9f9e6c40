package ecs

import (
	"context"
	"time"
)

// SchedulerStats provides statistics about scheduler execution.
type SchedulerStats struct {
	SystemCount     int
	TotalExecutions int64
	Frames          int64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	Startup        bool
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type scheduledSystem struct {
	system  System
	name    string
	startup bool

	executions int64
	min        time.Duration
	max        time.Duration
	total      time.Duration
	last       time.Duration
}

func (s *scheduledSystem) run(frame *UpdateFrame) {
	start := time.Now()
	s.system.Execute(frame)
	d := time.Since(start)

	s.executions++
	s.last = d
	s.total += d
	if s.executions == 1 || d < s.min {
		s.min = d
	}
	if d > s.max {
		s.max = d
	}
}

// Scheduler runs startup systems once and update systems every frame, in
// registration order.
type Scheduler struct {
	storage *Storage
	startup []*scheduledSystem
	update  []*scheduledSystem
	started bool
	frames  int64
}

// NewScheduler creates a new scheduler for the given storage.
func NewScheduler(storage *Storage) *Scheduler {
	return &Scheduler{storage: storage}
}

// Storage returns the storage the scheduler operates on.
func (s *Scheduler) Storage() *Storage {
	return s.storage
}

// Register adds an update system and initializes its Query and Singleton fields.
func (s *Scheduler) Register(system System) {
	bindFields(system, s.storage)
	s.update = append(s.update, &scheduledSystem{system: system, name: systemName(system)})
}

// RegisterStartup adds a system that runs exactly once, before the first update.
func (s *Scheduler) RegisterStartup(system System) {
	if s.started {
		panic("ecs: startup system registered after startup ran")
	}
	bindFields(system, s.storage)
	s.startup = append(s.startup, &scheduledSystem{system: system, name: systemName(system), startup: true})
}

// Startup runs the startup systems and flushes their commands. It is called
// implicitly by the first Once and is a no-op afterwards.
func (s *Scheduler) Startup() {
	if s.started {
		return
	}
	s.started = true

	frame := newUpdateFrame(0, 0, s.storage)
	for _, system := range s.startup {
		system.run(frame)
	}
	frame.Commands.Flush(s.storage)
}

// Once executes all update systems once with the given delta time (seconds).
func (s *Scheduler) Once(dt float64) {
	s.Startup()

	s.frames++
	frame := newUpdateFrame(dt, s.frames, s.storage)
	for _, system := range s.update {
		system.run(frame)
	}
	frame.Commands.Flush(s.storage)
}

// Run executes all systems repeatedly at the given interval until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now
			s.Once(dt)
		}
	}
}

// GetStats returns statistics about system execution, startup systems first.
func (s *Scheduler) GetStats() *SchedulerStats {
	all := make([]*scheduledSystem, 0, len(s.startup)+len(s.update))
	all = append(all, s.startup...)
	all = append(all, s.update...)

	stats := &SchedulerStats{
		SystemCount: len(all),
		Frames:      s.frames,
		Systems:     make([]SystemStats, len(all)),
	}

	for i, sys := range all {
		var avg time.Duration
		if sys.executions > 0 {
			avg = sys.total / time.Duration(sys.executions)
		}
		stats.Systems[i] = SystemStats{
			Name:           sys.name,
			Startup:        sys.startup,
			ExecutionCount: sys.executions,
			MinDuration:    sys.min,
			MaxDuration:    sys.max,
			AvgDuration:    avg,
			LastDuration:   sys.last,
			TotalDuration:  sys.total,
		}
		stats.TotalExecutions += sys.executions
	}

	return stats
}
