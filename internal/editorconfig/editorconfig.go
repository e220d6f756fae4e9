// Package editorconfig persists editor preferences (overlays, grid, outline, camera) as JSON.
package editorconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DefaultPath is the preferences file, relative to the process working directory.
const DefaultPath = "config/editor.json"

// Prefs holds editor preferences. Persisted across runs; the scene itself is not.
type Prefs struct {
	ShowFPS        bool       `json:"show_fps"`
	ShowMemAlloc   bool       `json:"show_memalloc"`
	ShowStats      bool       `json:"show_stats"`
	GridVisible    bool       `json:"grid_visible"`
	OutlineScale   float32    `json:"outline_scale"`
	OutlineMode    string     `json:"outline_mode"` // "shared" or "per-object"
	CameraPosition [3]float32 `json:"camera_position"`
	ScenePath      string     `json:"scene_path,omitempty"`      // YAML scene; empty means the built-in default scene
	StylesheetPath string     `json:"stylesheet_path,omitempty"` // watched and reloaded on change
	Font           string     `json:"font,omitempty"`            // font file or family name under assets/fonts; empty uses the default
	TargetFPS      int32      `json:"target_fps"`
	WindowWidth    int32      `json:"window_width"`
	WindowHeight   int32      `json:"window_height"`
}

// Default returns default preferences: grid on, overlays off, shared 1.05 outline.
func Default() Prefs {
	return Prefs{
		GridVisible:    true,
		OutlineScale:   1.05,
		OutlineMode:    "shared",
		CameraPosition: [3]float32{8, 6, 10},
		StylesheetPath: "assets/ui/editor.css",
		TargetFPS:      60,
		WindowWidth:    1440,
		WindowHeight:   900,
	}
}

// Load reads preferences from path. A missing file yields Default() and no error; an
// unreadable or invalid one yields Default() and the error. No file is created. Fields
// absent from the file keep their defaults.
func Load(path string) (Prefs, error) {
	p := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return p, fmt.Errorf("editorconfig: %w", err)
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return Default(), fmt.Errorf("editorconfig: %s: %w", path, err)
	}
	p.sanitize()
	return p, nil
}

// Save writes preferences to path, creating its directory if needed.
func Save(path string, p Prefs) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("editorconfig: %w", err)
	}
	data, err := json.MarshalIndent(p, "", "\t")
	if err != nil {
		return fmt.Errorf("editorconfig: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("editorconfig: %w", err)
	}
	return nil
}

func (p *Prefs) sanitize() {
	d := Default()
	if p.OutlineScale <= 1 {
		p.OutlineScale = d.OutlineScale
	}
	if p.OutlineMode != "shared" && p.OutlineMode != "per-object" {
		p.OutlineMode = d.OutlineMode
	}
	if p.TargetFPS <= 0 {
		p.TargetFPS = d.TargetFPS
	}
	if p.WindowWidth <= 0 || p.WindowHeight <= 0 {
		p.WindowWidth, p.WindowHeight = d.WindowWidth, d.WindowHeight
	}
}
