package editor

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"scene-editor/internal/ui"
)

const (
	panelPad     = 6
	buttonHeight = 24
	searchMaxLen = 64
)

// panels holds the three floating panels and their widget state.
type panels struct {
	hierarchy *ui.FloatingPanel
	search    *ui.FloatingPanel
	groups    *ui.FloatingPanel

	searchTerm      string
	searchEdit      bool
	hierarchyScroll float32
	searchScroll    float32
	groupsScroll    float32
}

func newPanels() panels {
	return panels{
		hierarchy: ui.NewFloatingPanel("Hierarchy", 12, 12, 260, 380),
		search:    ui.NewFloatingPanel("Search", 12, 404, 260, 280),
		groups:    ui.NewFloatingPanel("Groups", 284, 12, 220, 260),
	}
}

func (p *panels) all() []*ui.FloatingPanel {
	return []*ui.FloatingPanel{p.hierarchy, p.search, p.groups}
}

// row is one clickable line in a panel list.
type row struct {
	text     string
	selected bool
}

// applyGuiStyle maps the stylesheet's panel colours onto raygui's default control style.
func (e *Editor) applyGuiStyle() {
	body := e.ui.Style("panel", "panel", "")
	title := e.ui.Style("panel", "panel-title", "")
	gui.SetStyle(gui.DEFAULT, gui.TEXT_SIZE, int64(body.FontSize))
	gui.SetStyle(gui.DEFAULT, gui.BACKGROUND_COLOR, gui.NewColorPropertyValue(body.Background))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_NORMAL, gui.NewColorPropertyValue(title.Background))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_FOCUSED, gui.NewColorPropertyValue(title.Background))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_PRESSED, gui.NewColorPropertyValue(title.Accent))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_NORMAL, gui.NewColorPropertyValue(body.Color))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_FOCUSED, gui.NewColorPropertyValue(title.Accent))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_PRESSED, gui.NewColorPropertyValue(title.Color))
	gui.SetStyle(gui.DEFAULT, gui.BORDER_COLOR_NORMAL, gui.NewColorPropertyValue(body.Border))
	gui.SetStyle(gui.DEFAULT, gui.BORDER_COLOR_FOCUSED, gui.NewColorPropertyValue(title.Accent))
}

func (e *Editor) drawPanels() {
	e.drawHierarchyPanel()
	e.drawSearchPanel()
	e.drawGroupsPanel()
}

// drawHierarchyPanel lists the scene; click selects, shift-click adds or removes.
func (e *Editor) drawHierarchyPanel() {
	p := e.panels.hierarchy
	p.Draw(e.ui)
	c := p.Content()
	btn := rl.NewRectangle(c.X+panelPad, c.Y+panelPad, c.Width-2*panelPad, buttonHeight)
	if gui.Button(btn, "Import Model...") {
		e.openImportDialog()
	}
	listTop := btn.Y + buttonHeight + panelPad
	area := rl.NewRectangle(c.X, listTop, c.Width, c.Y+c.Height-listTop)

	rows := make([]row, len(e.entries))
	for i, entry := range e.entries {
		rows[i] = row{text: entry.Label(), selected: entry.Selected}
	}
	if i := e.drawRows(area, &e.panels.hierarchyScroll, rows); i >= 0 {
		e.sel.SelectByName(e.entries[i].Name, shiftDown())
	}
}

// drawSearchPanel has the search box, the Search button and the filtered mesh list.
// The button selects the exact match; clicking a list row toggles it into the selection.
func (e *Editor) drawSearchPanel() {
	p := e.panels.search
	p.Draw(e.ui)
	c := p.Content()
	btnW := float32(72)
	box := rl.NewRectangle(c.X+panelPad, c.Y+panelPad, c.Width-3*panelPad-btnW, buttonHeight)
	btn := rl.NewRectangle(box.X+box.Width+panelPad, box.Y, btnW, buttonHeight)

	submit := false
	if gui.TextBox(box, &e.panels.searchTerm, searchMaxLen, e.panels.searchEdit) {
		if e.panels.searchEdit && rl.IsKeyPressed(rl.KeyEnter) {
			submit = true
		}
		e.panels.searchEdit = !e.panels.searchEdit
	}
	if gui.Button(btn, "Search") {
		submit = true
	}
	if submit {
		e.sel.SelectBySearch(e.panels.searchTerm)
	}

	matches := e.meshes.Filter(e.panels.searchTerm)
	rows := make([]row, len(matches))
	for i, d := range matches {
		rows[i] = row{text: d.Name, selected: e.sel.IsSelected(d.Node)}
	}
	listTop := box.Y + buttonHeight + panelPad
	area := rl.NewRectangle(c.X, listTop, c.Width, c.Y+c.Height-listTop)
	if i := e.drawRows(area, &e.panels.searchScroll, rows); i >= 0 {
		e.sel.Toggle(matches[i].Node, true)
		e.log.Info("search list: toggled %s (selected: %d)", matches[i].Name, e.sel.Len())
	}
}

// drawGroupsPanel has Create Group / Clear Groups and the clickable groups list.
func (e *Editor) drawGroupsPanel() {
	p := e.panels.groups
	p.Draw(e.ui)
	c := p.Content()
	half := (c.Width - 3*panelPad) / 2
	create := rl.NewRectangle(c.X+panelPad, c.Y+panelPad, half, buttonHeight)
	clearBtn := rl.NewRectangle(create.X+half+panelPad, create.Y, half, buttonHeight)
	if gui.Button(create, "Create Group") {
		e.sel.CreateGroup()
	}
	if gui.Button(clearBtn, "Clear Groups") {
		e.sel.ClearGroups()
	}

	groups := e.sel.Groups()
	rows := make([]row, len(groups))
	for i, g := range groups {
		rows[i] = row{text: fmt.Sprintf("%s (%d)", g.Name, g.ChildCount())}
	}
	listTop := create.Y + buttonHeight + panelPad
	area := rl.NewRectangle(c.X, listTop, c.Width, c.Y+c.Height-listTop)
	if i := e.drawRows(area, &e.panels.groupsScroll, rows); i >= 0 {
		e.sel.SelectGroup(groups[i].Name)
	}
}

// drawRows draws rows clipped to area, scrolls with the wheel while hovered, and returns
// the index of the row clicked this frame or -1.
func (e *Editor) drawRows(area rl.Rectangle, scroll *float32, rows []row) int {
	if area.Height <= 0 {
		return -1
	}
	item := e.ui.Style("span", "hierarchy-item", "")
	selected := e.ui.Style("span", "selected hierarchy-item", "")
	lineH := float32(item.LineHeight)
	if lineH <= 0 {
		lineH = float32(item.FontSize + 4)
	}

	mouse := rl.GetMousePosition()
	hovered := rl.CheckCollisionPointRec(mouse, area) && !e.term.IsOpen()
	maxScroll := max(0, float32(len(rows))*lineH+panelPad-area.Height)
	if hovered {
		*scroll -= rl.GetMouseWheelMove() * lineH
	}
	*scroll = max(0, min(*scroll, maxScroll))

	clicked := -1
	rl.BeginScissorMode(int32(area.X), int32(area.Y), int32(area.Width), int32(area.Height))
	for i, r := range rows {
		y := area.Y + float32(i)*lineH - *scroll
		if y+lineH < area.Y || y > area.Y+area.Height {
			continue
		}
		bounds := rl.NewRectangle(area.X, y, area.Width, lineH)
		st := item
		if r.selected {
			st = selected
			rl.DrawRectangleRec(bounds, rl.Fade(selected.Accent, 0.15))
		}
		ui.DrawText(r.text, int32(area.X)+panelPad, int32(y)+(int32(lineH)-st.FontSize)/2, st.FontSize, st.Color)
		if hovered && rl.CheckCollisionPointRec(mouse, bounds) && rl.IsMouseButtonPressed(rl.MouseLeftButton) {
			clicked = i
		}
	}
	rl.EndScissorMode()
	return clicked
}
