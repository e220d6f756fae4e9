// Package primitives draws the built-in shapes and builds scene nodes from YAML
// primitive definitions (assets/scenes/*.yaml).
package primitives

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"

	"scene-editor/internal/scene"
	"scene-editor/internal/ui"
)

// PrimitiveDef is one object of a scene file.
type PrimitiveDef struct {
	Name     string     `yaml:"name"`
	Type     string     `yaml:"type"`
	Position [3]float32 `yaml:"position,omitempty"`
	Rotation [3]float32 `yaml:"rotation,omitempty"` // Euler degrees
	Size     [3]float32 `yaml:"size,omitempty"`     // scale; zero components mean 1
	Color    string     `yaml:"color,omitempty"`    // #rrggbb or #rrggbbaa
}

// SceneDef is a scene file: a flat list of primitives added under the root.
type SceneDef struct {
	Objects []PrimitiveDef `yaml:"objects"`
}

// DefaultColor tints primitives that give no color.
var DefaultColor = [4]uint8{128, 128, 128, 255}

// DefaultScene is the scene shown at startup when no scene file is configured: a 100×100
// ground plane and two grey cubes.
func DefaultScene() SceneDef {
	return SceneDef{Objects: []PrimitiveDef{
		{Name: scene.PlaneName, Type: scene.ShapePlane, Size: [3]float32{100, 1, 100}, Color: "#5a5e66"},
		{Name: "MyCube", Type: scene.ShapeCube, Position: [3]float32{-2, 0.5, 0}, Color: "#808080"},
		{Name: "MyCube1", Type: scene.ShapeCube, Position: [3]float32{2, 0.5, 0}, Color: "#808080"},
	}}
}

// LoadScene reads a scene definition from a YAML file.
func LoadScene(path string) (SceneDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SceneDef{}, fmt.Errorf("primitives: read %s: %w", path, err)
	}
	return ParseScene(data)
}

// ParseScene decodes a YAML scene definition.
func ParseScene(data []byte) (SceneDef, error) {
	var def SceneDef
	if err := yaml.Unmarshal(data, &def); err != nil {
		return SceneDef{}, fmt.Errorf("primitives: parse scene: %w", err)
	}
	return def, nil
}

// Build returns a detached mesh node for def.
func Build(def PrimitiveDef) (*scene.Node, error) {
	bounds := scene.UnitBounds
	switch def.Type {
	case scene.ShapeCube, scene.ShapeSphere, scene.ShapeCylinder:
	case scene.ShapePlane:
		bounds = scene.PlaneBounds
	case "box":
		def.Type = scene.ShapeCube
	default:
		return nil, fmt.Errorf("primitives: %s: unknown type %q", def.Name, def.Type)
	}
	color := DefaultColor
	if def.Color != "" {
		c, ok := ui.ParseHexColor(def.Color)
		if !ok {
			return nil, fmt.Errorf("primitives: %s: bad color %q", def.Name, def.Color)
		}
		color = [4]uint8{c.R, c.G, c.B, c.A}
	}
	n := scene.NewMesh(def.Name, &scene.Mesh{Shape: def.Type, Bounds: bounds, Color: color})
	n.Transform.Position = mgl32.Vec3(def.Position)
	n.Transform.SetEulerDegrees(def.Rotation[0], def.Rotation[1], def.Rotation[2])
	for i, s := range def.Size {
		if s != 0 {
			n.Transform.Scale[i] = s
		}
	}
	return n, nil
}

// LightPosition is where Spawn places the scene light.
var LightPosition = mgl32.Vec3{5, 10, 5}

// Spawn adds the grid helper, every object of def and an unnamed light to g. Objects that
// fail to build are skipped and reported in the returned error.
func Spawn(g *scene.Graph, def SceneDef) error {
	g.Add(scene.NewNode(scene.GridName, scene.KindHelper))
	var bad []string
	for _, o := range def.Objects {
		n, err := Build(o)
		if err != nil {
			bad = append(bad, err.Error())
			continue
		}
		g.Add(n)
	}
	light := scene.NewNode("", scene.KindLight)
	light.Transform.Position = LightPosition
	g.Add(light)
	if len(bad) > 0 {
		return fmt.Errorf("primitives: %d objects skipped: %s", len(bad), strings.Join(bad, "; "))
	}
	return nil
}
