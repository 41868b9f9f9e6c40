package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/drift/ecs"
)

// StatsWindow renders storage occupancy, a frame time graph and per-system
// timings for a scheduler.
type StatsWindow struct {
	Title     string
	storage   *ecs.Storage
	scheduler *ecs.Scheduler

	frameHistory []float32
	frameIndex   int

	// Extra lets the game append its own lines (player velocity, camera position).
	Extra func()
}

// NewStatsWindow creates a window tracking historyFrames frame times.
func NewStatsWindow(title string, storage *ecs.Storage, scheduler *ecs.Scheduler, historyFrames int) *StatsWindow {
	if historyFrames <= 0 {
		historyFrames = 120
	}
	return &StatsWindow{
		Title:        title,
		storage:      storage,
		scheduler:    scheduler,
		frameHistory: make([]float32, historyFrames),
	}
}

// Spawn attaches the window to the storage as an ImguiItem entity.
func (w *StatsWindow) Spawn(storage *ecs.Storage, frameTime func() float32) ecs.EntityId {
	return storage.Spawn(ImguiItem{
		Render: func() { w.Render(frameTime()) },
	})
}

// Render draws the window. deltaTime is the last frame time in seconds.
func (w *StatsWindow) Render(deltaTime float32) {
	w.frameHistory[w.frameIndex] = deltaTime * 1000.0
	w.frameIndex = (w.frameIndex + 1) % len(w.frameHistory)

	imgui.SetNextWindowPosV(imgui.NewVec2(10, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(340, 420), imgui.CondOnce)
	if !imgui.BeginV(w.Title, nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	stats := w.storage.CollectStats()
	imgui.Text(fmt.Sprintf("Entities: %d", stats.TotalEntityCount))
	imgui.Text(fmt.Sprintf("Archetypes: %d", stats.ArchetypeCount))
	imgui.Text(fmt.Sprintf("Singletons: %d", stats.SingletonCount))

	var avg float32
	for _, ft := range w.frameHistory {
		avg += ft
	}
	avg /= float32(len(w.frameHistory))
	if avg > 0 {
		imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avg, 1000.0/avg))
	}
	imgui.PlotLinesFloatPtr("##frametime", &w.frameHistory[0], int32(len(w.frameHistory)))

	if w.Extra != nil {
		imgui.Separator()
		w.Extra()
	}

	if w.scheduler != nil && imgui.TreeNodeStr("Systems") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("SystemTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("System")
			imgui.TableSetupColumn("Runs")
			imgui.TableSetupColumn("Avg")
			imgui.TableHeadersRow()

			for _, sys := range w.scheduler.GetStats().Systems {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(sys.Name)
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", sys.ExecutionCount))
				imgui.TableNextColumn()
				imgui.Text(sys.AvgDuration.String())
			}
			imgui.EndTable()
		}
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Archetypes") {
		for _, arch := range stats.ArchetypeBreakdown {
			imgui.BulletText(fmt.Sprintf("0x%08X  %d entities  %v", arch.ID, arch.EntityCount, arch.ComponentTypes))
		}
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Singletons") {
		for _, name := range stats.SingletonTypes {
			imgui.BulletText(name)
		}
		imgui.TreePop()
	}

	imgui.End()
}
