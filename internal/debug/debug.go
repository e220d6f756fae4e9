package debug

import (
	"fmt"
	"runtime"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	fpsFontSize   = 20
	fpsPadding    = 12
	fpsLineHeight = fpsFontSize + 4
	// updateInterval: only refresh overlay text every N frames to reduce allocations.
	updateInterval = 30
)

// Stats is the scene summary shown by the stats overlay.
type Stats struct {
	Nodes    int
	Meshes   int
	Selected int
	Groups   int
	Pending  int // imports still parsing
}

// String formats s as one overlay line.
func (s Stats) String() string {
	text := fmt.Sprintf("Nodes: %d  Meshes: %d  Selected: %d  Groups: %d", s.Nodes, s.Meshes, s.Selected, s.Groups)
	if s.Pending > 0 {
		text += fmt.Sprintf("  Importing: %d", s.Pending)
	}
	return text
}

// Debug holds runtime debugging overlays (FPS, memory, scene stats). All are off by default.
type Debug struct {
	ShowFPS      bool
	ShowMemAlloc bool
	ShowStats    bool
	frameCount   uint32
	lastFpsText  string
	lastMemText  string
	lastStats    string
	lastMemStats runtime.MemStats
}

// New returns a Debug system with all overlays hidden.
func New() *Debug {
	return &Debug{}
}

// SetShowFPS sets whether the FPS counter is drawn (top-right, green).
func (d *Debug) SetShowFPS(show bool) {
	d.ShowFPS = show
}

// SetShowMemAlloc sets whether the memory allocation counter is drawn (top-right, under FPS).
func (d *Debug) SetShowMemAlloc(show bool) {
	d.ShowMemAlloc = show
}

// SetShowStats sets whether the scene stats line is drawn (top-right, under the others).
func (d *Debug) SetShowStats(show bool) {
	d.ShowStats = show
}

// Draw renders any enabled overlays. Call last in the draw loop.
// Text is only recomputed every updateInterval frames to limit allocations; stats come
// from the stats func, which is not called when the stats overlay is off.
func (d *Debug) Draw(stats func() Stats) {
	d.frameCount++
	update := (d.frameCount % updateInterval) == 0
	if (d.ShowFPS && d.lastFpsText == "") || (d.ShowMemAlloc && d.lastMemText == "") || (d.ShowStats && d.lastStats == "") {
		update = true
	}

	y := int32(fpsPadding)
	if d.ShowFPS {
		if update {
			d.lastFpsText = fmt.Sprintf("FPS: %d", rl.GetFPS())
		}
		drawRight(d.lastFpsText, y)
		y += fpsLineHeight
	}
	if d.ShowMemAlloc {
		if update {
			runtime.ReadMemStats(&d.lastMemStats)
			mb := float64(d.lastMemStats.Alloc) / (1024 * 1024)
			d.lastMemText = fmt.Sprintf("Mem: %.2f MiB", mb)
		}
		drawRight(d.lastMemText, y)
		y += fpsLineHeight
	}
	if d.ShowStats && stats != nil {
		if update {
			d.lastStats = stats().String()
		}
		drawRight(d.lastStats, y)
	}
}

func drawRight(text string, y int32) {
	if text == "" {
		return
	}
	screenW := int32(rl.GetScreenWidth())
	w := rl.MeasureText(text, fpsFontSize)
	rl.DrawText(text, screenW-w-fpsPadding, y, fpsFontSize, rl.Green)
}
