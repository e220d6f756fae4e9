package ui

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSS(t *testing.T) {
	sheet, err := ParseCSS(`
/* editor panels */
.panel { background: #112233; width: 240px; }
#search, .groups { left: 50%; top: 12 }
@media screen { .panel { background: #ffffff } }
div > .nested { color: #ff0000 }
.panel { color: #abc }
`)
	require.NoError(t, err)
	require.Len(t, sheet.Rules, 4)
	assert.Equal(t, ".panel", sheet.Rules[0].Selector)
	assert.Equal(t, "#112233", sheet.Rules[0].Props["background"])
	assert.Equal(t, "240px", sheet.Rules[0].Props["width"])
	assert.Equal(t, "#search", sheet.Rules[1].Selector)
	assert.Equal(t, ".groups", sheet.Rules[2].Selector)
	assert.Equal(t, "50%", sheet.Rules[2].Props["left"])

	merged := sheet.Match("panel", "panel", "")
	assert.Equal(t, "#112233", merged["background"], "@media block is skipped")
	assert.Equal(t, "#abc", merged["color"], "later rule adds to earlier")
}

func TestDefaultCSSParses(t *testing.T) {
	sheet, err := ParseCSS(DefaultCSS)
	require.NoError(t, err)
	assert.NotEmpty(t, sheet.Rules)
	st := ResolveProps(sheet.Match("panel", "panel", ""))
	assert.True(t, st.HasBorder)
	assert.Equal(t, int32(16), st.FontSize)
}

func TestMatchClassList(t *testing.T) {
	sheet, err := ParseCSS(`.hierarchy-item { color: #010101 } .selected { color: #020202 }`)
	require.NoError(t, err)
	st := ResolveProps(sheet.Match("", "selected hierarchy-item", ""))
	assert.Equal(t, rl.NewColor(2, 2, 2, 255), st.Color)
	st = ResolveProps(sheet.Match("", "hierarchy-item", ""))
	assert.Equal(t, rl.NewColor(1, 1, 1, 255), st.Color)
}

func TestResolveProps(t *testing.T) {
	st := ResolveProps(map[string]string{
		"background": "#11223344",
		"border":     "#fff",
		"width":      "300px",
		"left":       "25%",
		"top":        "40",
		"font-size":  "12",
		"padding":    "-3",
	})
	assert.Equal(t, rl.NewColor(0x11, 0x22, 0x33, 0x44), st.Background)
	assert.True(t, st.HasBorder)
	assert.Equal(t, int32(300), st.Width)
	assert.Equal(t, int32(25), st.LeftPct)
	assert.Equal(t, int32(40), st.Top)
	assert.Equal(t, int32(12), st.FontSize)
	assert.Equal(t, int32(4), st.Padding, "negative padding ignored")

	_, ok := ParseHexColor("red")
	assert.False(t, ok)
	_, ok = ParsePct("120%")
	assert.False(t, ok)
}

func TestEngineStyleCache(t *testing.T) {
	e := New()
	a := e.Style("panel", "panel", "")
	sheet, err := ParseCSS(`.panel { font-size: 30 }`)
	require.NoError(t, err)
	e.SetStylesheet(sheet)
	assert.Same(t, sheet, e.Stylesheet())
	b := e.Style("panel", "panel", "")
	assert.NotEqual(t, a.FontSize, b.FontSize)
	assert.Equal(t, int32(30), b.FontSize)
}

func TestFloatingPanelDrag(t *testing.T) {
	p := NewFloatingPanel("Hierarchy", 10, 10, 200, 300)

	assert.False(t, p.HandleMouse(rl.NewVector2(50, 100), true, true, 800, 600), "press in content does not drag")
	assert.True(t, p.HandleMouse(rl.NewVector2(20, 15), true, true, 800, 600))
	assert.True(t, p.Dragging())
	p.HandleMouse(rl.NewVector2(120, 65), false, true, 800, 600)
	assert.Equal(t, float32(110), p.Bounds.X)
	assert.Equal(t, float32(60), p.Bounds.Y)

	p.HandleMouse(rl.NewVector2(5000, 5000), false, true, 800, 600)
	assert.Equal(t, float32(600), p.Bounds.X, "kept on screen")
	assert.Equal(t, float32(600-TitleBarHeight), p.Bounds.Y)

	assert.False(t, p.HandleMouse(rl.NewVector2(0, 0), false, false, 800, 600))
	assert.False(t, p.Dragging())
	assert.True(t, p.Contains(rl.NewVector2(610, 580)))
	assert.Equal(t, p.Bounds.Y+TitleBarHeight, p.Content().Y)
}

func TestInspectorLines(t *testing.T) {
	in := NewInspector()
	lines := in.Lines(Selection{Name: "MyCube", Kind: "mesh", Count: 2, Position: [3]float32{1, 2, 3}, Scale: [3]float32{1, 1, 1}})
	require.Len(t, lines, 5)
	assert.Equal(t, "Inspector (1 of 2)", lines[0])
	assert.Equal(t, "MyCube (mesh) in scene", lines[1])
	assert.Equal(t, "Position: 1.00, 2.00, 3.00", lines[2])

	nodes := in.AppendNodes(nil, false, Selection{})
	assert.Empty(t, nodes)
	nodes = in.AppendNodes(nil, true, Selection{Name: "A"})
	assert.Len(t, nodes, 1)
}

func TestStyleWatcher(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "editor.css")
	require.NoError(t, os.WriteFile(path, []byte(".panel{}"), 0o644))

	sw, err := WatchStylesheet(path)
	require.NoError(t, err)
	defer sw.Close()
	assert.False(t, sw.Changed())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte(".panel{color:#fff}"), 0o644))
	assert.Eventually(t, sw.Changed, 2*time.Second, 20*time.Millisecond)
	assert.NoError(t, sw.Err())
}

func TestShippedStylesheet(t *testing.T) {
	e := New()
	require.NoError(t, e.LoadCSS(filepath.Join("..", "..", "assets", "ui", "editor.css")))
	st := e.Style("span", "selected hierarchy-item", "")
	assert.Equal(t, rl.NewColor(0xff, 0xaa, 0x00, 255), st.Color)
	assert.Equal(t, int32(20), st.LineHeight)
	console := e.Style("div", "console", "")
	assert.Equal(t, int32(240), console.Height)
}
