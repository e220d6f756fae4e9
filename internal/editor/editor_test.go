package editor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scene-editor/internal/commands"
	"scene-editor/internal/editorconfig"
	"scene-editor/internal/hierarchy"
	"scene-editor/internal/importer"
	"scene-editor/internal/logger"
	"scene-editor/internal/primitives"
	"scene-editor/internal/scene"
)

const carOBJ = `o Wheel
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
o Body
v -2 0 1
v 2 0 1
v 0 3 1
f 4 5 6
`

func newEditor(t *testing.T) (*Editor, *logger.Logger) {
	t.Helper()
	g := scene.New()
	require.NoError(t, primitives.Spawn(g, primitives.DefaultScene()))
	prefs := editorconfig.Default()
	prefs.StylesheetPath = ""
	log := logger.New("")
	e := New(g, Options{
		Prefs:     prefs,
		PrefsPath: filepath.Join(t.TempDir(), "config", "editor.json"),
		Log:       log,
	})
	return e, log
}

func run(t *testing.T, e *Editor, line string) {
	t.Helper()
	require.NoError(t, e.Commands().Run(line))
}

func labels(entries []hierarchy.Entry) []string {
	out := make([]string, len(entries))
	for i, entry := range entries {
		out[i] = entry.Label()
	}
	return out
}

func TestNewListsStartingScene(t *testing.T) {
	e, _ := newEditor(t)
	assert.Equal(t, []string{"    plane", "    MyCube", "    MyCube1"}, labels(e.Entries()))
	assert.Equal(t, 3, e.Meshes().Len(), "primitives are registered")
	assert.False(t, e.Outline().Visible())
}

func TestSelectCommandsDriveOutlineAndHierarchy(t *testing.T) {
	e, _ := newEditor(t)

	run(t, e, "select MyCube")
	assert.Equal(t, []string{"MyCube"}, e.Selection().SelectedNames())
	assert.True(t, e.Outline().Visible())
	assert.True(t, e.Entries()[1].Selected)

	run(t, e, "select -add MyCube1")
	assert.Equal(t, []string{"MyCube", "MyCube1"}, e.Selection().SelectedNames())

	run(t, e, "select -add MyCube")
	assert.Equal(t, []string{"MyCube1"}, e.Selection().SelectedNames(), "shift toggle removes only that node")

	run(t, e, "select plane")
	assert.Equal(t, []string{"plane"}, e.Selection().SelectedNames(), "hierarchy rows select by name")

	run(t, e, "clear")
	assert.Zero(t, e.Selection().Len())
	assert.False(t, e.Outline().Visible())
	for _, entry := range e.Entries() {
		assert.False(t, entry.Selected)
	}
}

func TestSearchCommand(t *testing.T) {
	e, _ := newEditor(t)
	run(t, e, "search mycube")
	assert.Equal(t, []string{"MyCube"}, e.Selection().SelectedNames())
	run(t, e, "search nonexistent")
	assert.Zero(t, e.Selection().Len())
	assert.False(t, e.Outline().Visible())
}

func TestGroupCommands(t *testing.T) {
	e, log := newEditor(t)

	run(t, e, "group")
	assert.Empty(t, e.Selection().Groups(), "nothing selected")
	assert.Contains(t, log.Lines()[len(log.Lines())-1], "nothing selected")

	run(t, e, "select MyCube")
	run(t, e, "select -add MyCube1")
	run(t, e, "group")
	groups := e.Selection().Groups()
	require.Len(t, groups, 1)
	assert.Equal(t, "Group1", groups[0].Name)
	assert.Equal(t, 2, groups[0].ChildCount())
	assert.Zero(t, e.Selection().Len())
	assert.Equal(t, []string{"    plane", "    Group1", "        MyCube", "        MyCube1"}, labels(e.Entries()))

	run(t, e, "selectgroup Group1")
	assert.Equal(t, []string{"MyCube", "MyCube1"}, e.Selection().SelectedNames())

	run(t, e, "ungroup")
	assert.Empty(t, e.Selection().Groups())
	assert.Zero(t, e.Selection().Len())
	assert.NotContains(t, labels(e.Entries()), "    Group1")

	run(t, e, "select MyCube")
	run(t, e, "group")
	assert.Equal(t, "Group2", e.Selection().Groups()[0].Name, "group names are never reused")
}

func TestImportCommandAddsModel(t *testing.T) {
	e, _ := newEditor(t)
	path := filepath.Join(t.TempDir(), "car.obj")
	require.NoError(t, os.WriteFile(path, []byte(carOBJ), 0o644))

	run(t, e, "import "+path)
	require.NotNil(t, e.Graph().FindMesh("Wheel"))
	require.NotNil(t, e.Graph().FindMesh("Body"))
	all := e.Meshes().All()
	require.Len(t, all, 2, "registry holds the newest import only")
	assert.Equal(t, "Wheel", all[0].Name)
	assert.Equal(t, "Body", all[1].Name)
	assert.NotNil(t, e.Graph().FindMesh("MyCube"), "earlier content stays in the scene")
	assert.Contains(t, labels(e.Entries()), "        Wheel")

	run(t, e, "import "+path)
	assert.Len(t, e.Meshes().All(), 2)
	wheels := 0
	for _, n := range e.Graph().Meshes() {
		if n.Name == "Wheel" {
			wheels++
		}
	}
	assert.Equal(t, 2, wheels, "imports are cumulative")
}

func TestImportCommandErrors(t *testing.T) {
	e, _ := newEditor(t)
	assert.ErrorIs(t, e.Commands().Run("import model.stl"), importer.ErrUnsupportedFormat)
	assert.ErrorIs(t, e.Commands().Run("import"), commands.ErrUsage)
	assert.ErrorIs(t, e.Commands().Run("select"), commands.ErrUsage, "command usage errors share the registry sentinel")
	assert.Error(t, e.Commands().Run("import "+filepath.Join(t.TempDir(), "missing.obj")))
	assert.Equal(t, 3, e.Meshes().Len(), "failed imports leave the registry alone")
}

func TestDragEndRestoresSelectionOutline(t *testing.T) {
	e, _ := newEditor(t)
	run(t, e, "select MyCube")
	cube1 := e.Graph().FindMesh("MyCube1")

	e.outline.SnapTo(cube1)
	e.drag.OnEnd(cube1)
	hs := e.Outline().Highlights()
	require.Len(t, hs, 1)
	assert.Equal(t, "MyCube", hs[0].Target.Name)
}

func TestOutlineAndGridCommands(t *testing.T) {
	e, _ := newEditor(t)
	run(t, e, "select MyCube")
	run(t, e, "select -add MyCube1")
	assert.Len(t, e.Outline().Highlights(), 1, "shared outline")

	run(t, e, "outline -mode per-object")
	assert.Len(t, e.Outline().Highlights(), 2)
	assert.ErrorIs(t, e.Commands().Run("outline -mode rainbow"), commands.ErrUsage)
	assert.ErrorIs(t, e.Commands().Run("outline -scale 0.5"), commands.ErrUsage)

	run(t, e, "grid -off")
	assert.False(t, e.view.GridVisible)
	run(t, e, "grid")
	assert.True(t, e.view.GridVisible)
}

func TestSavePrefs(t *testing.T) {
	e, _ := newEditor(t)
	run(t, e, "grid -off")
	run(t, e, "outline -mode per-object")
	run(t, e, "overlay fps")
	run(t, e, "save-prefs")

	p, err := editorconfig.Load(e.prefsPath)
	require.NoError(t, err)
	assert.False(t, p.GridVisible)
	assert.Equal(t, "per-object", p.OutlineMode)
	assert.True(t, p.ShowFPS)
}

func TestHierarchyHTML(t *testing.T) {
	e, _ := newEditor(t)
	run(t, e, "select MyCube")
	path := filepath.Join(t.TempDir(), "out", "hierarchy.html")
	run(t, e, "hierarchy -html "+path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `<span class="selected hierarchy-item" data-name="MyCube">`)
	assert.NotContains(t, string(data), `data-name="grid"`)
}

func TestStatsAndInspection(t *testing.T) {
	e, _ := newEditor(t)
	assert.Equal(t, "", e.inspection().Name)
	run(t, e, "select MyCube")
	s := e.stats()
	assert.Equal(t, 3, s.Meshes)
	assert.Equal(t, 1, s.Selected)
	in := e.inspection()
	assert.Equal(t, "MyCube", in.Name)
	assert.Equal(t, "mesh", in.Kind)
	assert.Equal(t, [3]float32{-2, 0.5, 0}, in.Position)
}
