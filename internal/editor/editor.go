// Package editor wires the scene, importer, selection, outline, drag and panels into the
// running application and routes input between them.
package editor

import (
	"errors"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/mitchellh/go-homedir"
	"github.com/sqweek/dialog"

	"scene-editor/internal/commands"
	"scene-editor/internal/debug"
	"scene-editor/internal/drag"
	"scene-editor/internal/editorconfig"
	"scene-editor/internal/fonts"
	"scene-editor/internal/hierarchy"
	"scene-editor/internal/importer"
	"scene-editor/internal/logger"
	"scene-editor/internal/outline"
	"scene-editor/internal/picking"
	"scene-editor/internal/registry"
	"scene-editor/internal/scene"
	"scene-editor/internal/selection"
	"scene-editor/internal/terminal"
	"scene-editor/internal/ui"
	"scene-editor/internal/viewport"
)

// fontAtlasSize is the pixel size UI fonts are rasterized at.
const fontAtlasSize = 32

// Options configures a new Editor.
type Options struct {
	Prefs     editorconfig.Prefs
	PrefsPath string // where save-prefs writes; empty disables saving
	Log       *logger.Logger
}

// Editor owns every piece of editor state. All methods run on the main goroutine; the
// importer hands background results over through Poll.
type Editor struct {
	log       *logger.Logger
	prefs     editorconfig.Prefs
	prefsPath string

	graph    *scene.Graph
	meshes   *registry.Registry
	importer *importer.Importer
	picker   *picking.Picker
	sel      *selection.Controller
	outline  *outline.Outline
	drag     *drag.Controller
	view     *viewport.View

	ui        *ui.Engine
	watcher   *ui.StyleWatcher
	inspector *ui.Inspector
	debug     *debug.Debug
	cmds      *commands.Registry
	term      *terminal.Terminal

	entries []hierarchy.Entry
	panels  panels
	gesture Gesture
	hovered *scene.Node
	styled  bool // raygui style applied from the stylesheet
	font    rl.Font
}

// New returns an editor over graph, which should already hold the starting scene. New does
// not touch the GPU, so it is safe to call before the window opens.
func New(graph *scene.Graph, opts Options) *Editor {
	log := opts.Log
	if log == nil {
		log = logger.New("")
	}
	e := &Editor{
		log:       log,
		prefs:     opts.Prefs,
		prefsPath: opts.PrefsPath,
		graph:     graph,
		meshes:    registry.New(),
		importer:  importer.New(log),
		outline:   outline.New(),
		view:      viewport.New(opts.Prefs.CameraPosition),
		ui:        ui.New(),
		inspector: ui.NewInspector(),
		debug:     debug.New(),
		cmds:      commands.NewRegistry(),
		panels:    newPanels(),
	}
	e.picker = &picking.Picker{Graph: graph, Camera: e.view.PickingCamera}
	e.sel = selection.New(graph, e.picker, log)
	e.drag = drag.New(e.view, e.outline, log)
	e.term = terminal.New(log, e.cmds)

	if mode, ok := outline.ParseMode(opts.Prefs.OutlineMode); ok {
		e.outline.Mode = mode
	}
	if opts.Prefs.OutlineScale > 1 {
		e.outline.Scale = opts.Prefs.OutlineScale
	}
	e.view.SetGridVisible(opts.Prefs.GridVisible)
	e.debug.SetShowFPS(opts.Prefs.ShowFPS)
	e.debug.SetShowMemAlloc(opts.Prefs.ShowMemAlloc)
	e.debug.SetShowStats(opts.Prefs.ShowStats)

	e.sel.OnChange(func(c *selection.Controller) {
		e.entries = hierarchy.Build(e.graph.Root, hierarchy.Names(c.SelectedNames()))
		e.outline.Refresh(c.Selected())
	})
	// A drag hides the outline when it ends; put the selection outline back.
	e.drag.OnEnd = func(*scene.Node) { e.sel.Refresh() }

	e.meshes.Replace(registry.Collect(graph.Root))
	e.registerCommands()
	e.loadStylesheet(opts.Prefs.StylesheetPath)
	e.sel.Refresh()
	return e
}

// Graph returns the scene graph.
func (e *Editor) Graph() *scene.Graph { return e.graph }

// Selection returns the selection controller.
func (e *Editor) Selection() *selection.Controller { return e.sel }

// Meshes returns the mesh registry.
func (e *Editor) Meshes() *registry.Registry { return e.meshes }

// Outline returns the selection outline.
func (e *Editor) Outline() *outline.Outline { return e.outline }

// Commands returns the console command registry.
func (e *Editor) Commands() *commands.Registry { return e.cmds }

// Entries returns the current hierarchy listing.
func (e *Editor) Entries() []hierarchy.Entry { return e.entries }

// Import reads path (a leading ~ is expanded) and adds the model to the scene when parsing
// finishes. Unsupported files and read errors are returned and logged.
func (e *Editor) Import(path string) error {
	expanded, err := homedir.Expand(path)
	if err != nil {
		e.log.Warn("import %s: %v", path, err)
		return err
	}
	return e.importer.ImportFile(expanded, e.onImport)
}

// Importer returns the model importer. Callers without a frame loop can Wait on it.
func (e *Editor) Importer() *importer.Importer { return e.importer }

// onImport attaches a finished import to the scene root. Earlier imports stay in the
// scene; the registry is replaced by the newest import's meshes.
func (e *Editor) onImport(res importer.Result) {
	if res.Err != nil || res.Root == nil {
		return
	}
	e.graph.Add(res.Root)
	e.meshes.Replace(res.Meshes)
	e.sel.Refresh()
}

func (e *Editor) openImportDialog() {
	path, err := dialog.File().
		Filter("3D models", importer.Extensions()...).
		Title("Import Model").
		Load()
	if errors.Is(err, dialog.ErrCancelled) {
		return
	}
	if err != nil {
		e.log.Error("import dialog: %v", err)
		return
	}
	_ = e.Import(path)
}

func (e *Editor) loadStylesheet(path string) {
	if path == "" {
		return
	}
	if err := e.ui.LoadCSS(path); err != nil {
		e.log.Warn("stylesheet %s: %v (using built-in styles)", path, err)
		return
	}
	w, err := ui.WatchStylesheet(path)
	if err != nil {
		e.log.Warn("stylesheet %s: %v (no live reload)", path, err)
		return
	}
	e.watcher = w
}

func (e *Editor) reloadStylesheet() {
	if e.watcher == nil {
		return
	}
	if err := e.watcher.Err(); err != nil {
		e.log.Warn("stylesheet watch: %v", err)
	}
	if !e.watcher.Changed() {
		return
	}
	if err := e.ui.LoadCSS(e.prefs.StylesheetPath); err != nil {
		e.log.Warn("stylesheet reload: %v", err)
		return
	}
	e.styled = false
	e.log.Info("stylesheet reloaded")
}

// CurrentPrefs returns the preferences with the live editor state folded in.
func (e *Editor) CurrentPrefs() editorconfig.Prefs {
	p := e.prefs
	p.GridVisible = e.view.GridVisible
	p.OutlineMode = e.outline.Mode.String()
	p.OutlineScale = e.outline.Scale
	p.CameraPosition = [3]float32(e.view.Orbit.Position())
	p.ShowFPS = e.debug.ShowFPS
	p.ShowMemAlloc = e.debug.ShowMemAlloc
	p.ShowStats = e.debug.ShowStats
	return p
}

func (e *Editor) stats() debug.Stats {
	return debug.Stats{
		Nodes:    e.graph.Count(),
		Meshes:   len(e.graph.Meshes()),
		Selected: e.sel.Len(),
		Groups:   len(e.sel.Groups()),
		Pending:  e.importer.Pending(),
	}
}

func (e *Editor) inspection() ui.Selection {
	n := e.sel.First()
	if n == nil {
		return ui.Selection{}
	}
	s := ui.Selection{
		Name:     n.Name,
		Kind:     n.Kind.String(),
		Count:    e.sel.Len(),
		Position: [3]float32(n.Transform.Position),
		Rotation: [3]float32(n.Transform.EulerDegrees()),
		Scale:    [3]float32(n.Transform.Scale),
	}
	if p := n.Parent(); p != nil {
		s.Parent = p.Name
	}
	return s
}

// Update handles one frame of input. Call it before Draw.
func (e *Editor) Update() {
	wasOpen := e.term.IsOpen()
	e.term.Update()
	if e.term.IsOpen() && !wasOpen {
		e.panels.searchEdit = false
	}
	e.reloadStylesheet()
	e.importer.Poll()
	if rl.IsFileDropped() {
		for _, path := range rl.LoadDroppedFiles() {
			_ = e.Import(path)
		}
		rl.UnloadDroppedFiles()
	}

	mouse := rl.GetMousePosition()
	pos := mgl32.Vec2{mouse.X, mouse.Y}
	pressed := rl.IsMouseButtonPressed(rl.MouseLeftButton)
	down := rl.IsMouseButtonDown(rl.MouseLeftButton)
	released := rl.IsMouseButtonReleased(rl.MouseLeftButton)
	screenW, screenH := float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight())

	captured := false
	if !e.gesture.Active() {
		for _, p := range e.panels.all() {
			if p.HandleMouse(mouse, pressed, down, screenW, screenH) {
				captured = true
			}
		}
	}
	overUI := captured || e.overUI(mouse, screenH)

	rotate := false
	if pressed && !overUI {
		target, _ := e.picker.Pick(e.view.NDC(pos.X(), pos.Y()))
		e.gesture.Press(pos, target)
	}
	if down && e.gesture.Active() {
		switch e.gesture.Move(pos) {
		case ActionOrbit:
			rotate = true
		case ActionDragStart:
			start := e.gesture.Start()
			e.drag.DragStart(e.gesture.Target(), e.view.ScreenRay(start.X(), start.Y()), e.view.ViewDir())
			e.drag.Drag(e.view.ScreenRay(pos.X(), pos.Y()))
		case ActionDrag:
			e.drag.Drag(e.view.ScreenRay(pos.X(), pos.Y()))
		}
	}
	if (released || !down) && e.gesture.Active() {
		switch e.gesture.Release() {
		case ActionClick:
			e.sel.SelectByRaycast(e.view.NDC(pos.X(), pos.Y()), shiftDown())
		case ActionDragEnd:
			e.drag.DragEnd()
		}
	}
	e.view.Update(rotate, overUI)

	e.hovered = nil
	if e.drag.State() == drag.Idle && !overUI {
		e.hovered, _ = e.picker.Pick(e.view.NDC(pos.X(), pos.Y()))
	}
	e.handleShortcuts()
}

func (e *Editor) overUI(mouse rl.Vector2, screenH float32) bool {
	for _, p := range e.panels.all() {
		if p.Contains(mouse) {
			return true
		}
	}
	if e.sel.Len() > 0 && rl.CheckCollisionPointRec(mouse, e.inspector.Bounds()) {
		return true
	}
	if e.term.IsOpen() {
		console := e.ui.Style("div", "console", "")
		if mouse.Y >= screenH-float32(terminal.BarHeight+console.Height) {
			return true
		}
	}
	return false
}

func (e *Editor) handleShortcuts() {
	if e.term.IsOpen() || e.panels.searchEdit {
		return
	}
	ctrl := rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl) ||
		rl.IsKeyDown(rl.KeyLeftSuper) || rl.IsKeyDown(rl.KeyRightSuper)
	switch {
	case ctrl && rl.IsKeyPressed(rl.KeyO):
		e.openImportDialog()
	case ctrl && rl.IsKeyPressed(rl.KeyG) && shiftDown():
		e.sel.ClearGroups()
	case ctrl && rl.IsKeyPressed(rl.KeyG):
		e.sel.CreateGroup()
	case rl.IsKeyPressed(rl.KeyF3):
		e.debug.SetShowStats(!e.debug.ShowStats)
	}
}

func shiftDown() bool {
	return rl.IsKeyDown(rl.KeyLeftShift) || rl.IsKeyDown(rl.KeyRightShift)
}

// Draw renders the scene, the panels, the inspector, the console and the overlays.
func (e *Editor) Draw() {
	if !e.styled {
		if e.font.Texture.ID == 0 && e.prefs.Font != "" {
			e.loadFont(e.prefs.Font)
		}
		e.applyGuiStyle()
		e.styled = true
	}
	e.view.Draw(e.graph, e.outline, e.hovered)
	e.drawPanels()

	visible := e.sel.Len() > 0
	e.ui.SetNodes(e.inspector.AppendNodes(nil, visible, e.inspection()))
	e.ui.Draw()
	if visible {
		e.inspector.DrawRows(e.ui)
	}
	e.term.Draw(e.ui)
	e.debug.Draw(e.stats)
}

// Close stops the stylesheet watcher and frees GPU meshes. Call while the window is open.
func (e *Editor) Close() {
	if e.watcher != nil {
		_ = e.watcher.Close()
		e.watcher = nil
	}
	if e.font.Texture.ID != 0 {
		ui.SetFont(rl.Font{})
		gui.SetFont(rl.GetFontDefault())
		rl.UnloadFont(e.font)
		e.font = rl.Font{}
	}
	e.view.Unload()
}

// loadFont resolves name under the font directories and makes it the UI font. Needs the
// window to be open.
func (e *Editor) loadFont(name string) {
	path, err := fonts.Find(fonts.DefaultDirs, name)
	if err != nil {
		e.log.Warn("font %s: not found (using the default font)", name)
		return
	}
	f := rl.LoadFontEx(path, fontAtlasSize, nil)
	if f.Texture.ID == 0 {
		e.log.Warn("font %s: failed to load", path)
		return
	}
	rl.SetTextureFilter(f.Texture, rl.FilterBilinear)
	e.font = f
	ui.SetFont(f)
	gui.SetFont(f)
	e.log.Info("font: %s", path)
}
