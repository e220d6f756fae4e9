package primitives

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"scene-editor/internal/scene"
)

// cached holds the mesh and lit material for one shape. Created lazily on first Draw.
type cached struct {
	mesh rl.Mesh
	mtl  rl.Material
}

// Registry maps shape names to GPU meshes. Meshes are created on first use so that GPU
// resources are allocated after the window/OpenGL context exists.
type Registry struct {
	cache    map[string]cached
	wire     rl.Material // unlit material for outlines
	wireInit bool
	viewPos  [3]float32 // camera position, set each frame for lighting
	lightDir [3]float32 // direction to light (normalized), set each frame
}

// NewRegistry returns a registry with no meshes built yet.
func NewRegistry() *Registry {
	return &Registry{
		cache:    make(map[string]cached),
		lightDir: [3]float32{0.5, 1, 0.5},
	}
}

// SetView sets camera position and direction-to-light for this frame. Call once per frame
// before drawing so lit shapes get correct shading.
func (r *Registry) SetView(viewPos, lightDir [3]float32) {
	r.viewPos = viewPos
	r.lightDir = lightDir
}

const (
	sphereRings     = 16
	sphereSlices    = 16
	cylinderSlices  = 16
	planeResolution = 1
)

// genMesh builds the unit mesh for a shape: 1×1×1 cube, diameter 1 sphere, radius 0.5
// height 1 cylinder, 1×1 plane in XZ. Imported boxes reuse the cube.
func genMesh(shape string) (rl.Mesh, bool) {
	switch shape {
	case scene.ShapeCube, scene.ShapeBox:
		return rl.GenMeshCube(1, 1, 1), true
	case scene.ShapeSphere:
		return rl.GenMeshSphere(0.5, sphereRings, sphereSlices), true
	case scene.ShapeCylinder:
		return rl.GenMeshCylinder(0.5, 1, cylinderSlices), true
	case scene.ShapePlane:
		return rl.GenMeshPlane(1, 1, planeResolution, planeResolution), true
	}
	return rl.Mesh{}, false
}

// meshKey folds box onto cube so both share one GPU mesh.
func meshKey(shape string) string {
	if shape == scene.ShapeBox {
		return scene.ShapeCube
	}
	return shape
}

func (r *Registry) ensure(shape string) (cached, bool) {
	key := meshKey(shape)
	if c, ok := r.cache[key]; ok {
		return c, true
	}
	mesh, ok := genMesh(key)
	if !ok {
		return cached{}, false
	}
	mtl := rl.LoadMaterialDefault()
	if shader := rl.LoadShaderFromMemory(litVS, litFS); rl.IsShaderValid(shader) {
		mtl.Shader = shader
	}
	c := cached{mesh: mesh, mtl: mtl}
	r.cache[key] = c
	return c, true
}

// ShapeMatrix returns the model matrix that draws mesh's unit shape at world. Boxes are
// stretched over their local bounds; the raylib cylinder has its base at y=0 and is
// shifted down to be centered.
func ShapeMatrix(mesh scene.Mesh, world mgl32.Mat4) mgl32.Mat4 {
	switch mesh.Shape {
	case scene.ShapeBox:
		if !mesh.Bounds.Valid() {
			return world
		}
		c, s := mesh.Bounds.Center(), mesh.Bounds.Size()
		for i := range s {
			if s[i] == 0 {
				s[i] = 0.001
			}
		}
		return world.Mul4(mgl32.Translate3D(c.X(), c.Y(), c.Z())).Mul4(mgl32.Scale3D(s.X(), s.Y(), s.Z()))
	case scene.ShapeCylinder:
		return world.Mul4(mgl32.Translate3D(0, -0.5, 0))
	}
	return world
}

// ToMatrix converts a column-major mgl32 matrix to raylib's layout.
func ToMatrix(m mgl32.Mat4) rl.Matrix {
	return rl.Matrix{
		M0: m[0], M1: m[1], M2: m[2], M3: m[3],
		M4: m[4], M5: m[5], M6: m[6], M7: m[7],
		M8: m[8], M9: m[9], M10: m[10], M11: m[11],
		M12: m[12], M13: m[13], M14: m[14], M15: m[15],
	}
}

// Draw draws a mesh node's shape at its world matrix with the given tint.
// Must be called between BeginMode3D and EndMode3D. Unknown shapes are skipped.
func (r *Registry) Draw(mesh scene.Mesh, world mgl32.Mat4, tint rl.Color) {
	c, ok := r.ensure(mesh.Shape)
	if !ok {
		return
	}
	if albedo := c.mtl.GetMap(rl.MapAlbedo); albedo != nil {
		albedo.Color = tint
	}
	r.setLitShaderUniforms(c.mtl.Shader)
	rl.DrawMesh(c.mesh, c.mtl, ToMatrix(ShapeMatrix(mesh, world)))
}

// DrawOutline draws the shape as an unlit wireframe in color.
func (r *Registry) DrawOutline(mesh scene.Mesh, world mgl32.Mat4, color rl.Color) {
	c, ok := r.ensure(mesh.Shape)
	if !ok {
		return
	}
	if !r.wireInit {
		r.wire = rl.LoadMaterialDefault()
		r.wireInit = true
	}
	if albedo := r.wire.GetMap(rl.MapAlbedo); albedo != nil {
		albedo.Color = color
	}
	rl.EnableWireMode()
	rl.DrawMesh(c.mesh, r.wire, ToMatrix(ShapeMatrix(mesh, world)))
	rl.DisableWireMode()
}

// Unload frees every cached mesh. Call before closing the window.
func (r *Registry) Unload() {
	for k, c := range r.cache {
		rl.UnloadMesh(&c.mesh)
		delete(r.cache, k)
	}
}
