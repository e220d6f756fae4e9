// Package picking casts rays from the camera through screen points and finds the nearest
// mesh they hit. Meshes are tested through their world-space bounding boxes.
package picking

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"scene-editor/internal/scene"
)

// Camera is a perspective camera. FovY is in degrees.
type Camera struct {
	Position mgl32.Vec3
	Target   mgl32.Vec3
	Up       mgl32.Vec3
	FovY     float32
	Aspect   float32
	Near     float32
	Far      float32
}

// View returns the world-to-camera matrix.
func (c Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target, c.Up)
}

// Projection returns the perspective projection matrix.
func (c Camera) Projection() mgl32.Mat4 {
	aspect := c.Aspect
	if aspect <= 0 {
		aspect = 1
	}
	return mgl32.Perspective(mgl32.DegToRad(c.FovY), aspect, c.Near, c.Far)
}

// Forward returns the unit view direction.
func (c Camera) Forward() mgl32.Vec3 {
	return c.Target.Sub(c.Position).Normalize()
}

// Ray is a half-line; Dir is unit length.
type Ray struct {
	Origin mgl32.Vec3
	Dir    mgl32.Vec3
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// NDC converts a pointer position in pixels to normalized device coordinates, x right and
// y up, both in [-1, 1].
func NDC(x, y, width, height float32) mgl32.Vec2 {
	if width <= 0 || height <= 0 {
		return mgl32.Vec2{}
	}
	return mgl32.Vec2{x/width*2 - 1, -(y/height*2 - 1)}
}

// RayFromNDC unprojects ndc on the near and far planes and returns the ray between them.
func RayFromNDC(c Camera, ndc mgl32.Vec2) Ray {
	inv := c.Projection().Mul4(c.View()).Inv()
	near := unproject(inv, ndc, -1)
	far := unproject(inv, ndc, 1)
	return Ray{Origin: near, Dir: far.Sub(near).Normalize()}
}

func unproject(inv mgl32.Mat4, ndc mgl32.Vec2, z float32) mgl32.Vec3 {
	p := inv.Mul4x1(mgl32.Vec4{ndc.X(), ndc.Y(), z, 1})
	if p.W() != 0 {
		p = p.Mul(1 / p.W())
	}
	return p.Vec3()
}

const parallelEps = 1e-8

// IntersectAABB returns the distance along r to the entry point of box, or to r.Origin
// when the origin is inside. ok is false on a miss or when the box is behind the ray.
func IntersectAABB(r Ray, box scene.AABB) (t float32, ok bool) {
	tmin, tmax := float32(0), math32.Inf(1)
	for i := 0; i < 3; i++ {
		o, d := r.Origin[i], r.Dir[i]
		if math32.Abs(d) < parallelEps {
			if o < box.Min[i] || o > box.Max[i] {
				return 0, false
			}
			continue
		}
		t1 := (box.Min[i] - o) / d
		t2 := (box.Max[i] - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math32.Max(tmin, t1)
		tmax = math32.Min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}
	return tmin, true
}

// IntersectPlane returns the distance along r to the plane through point with the given
// normal. ok is false when r is parallel to the plane or the plane is behind it.
func IntersectPlane(r Ray, point, normal mgl32.Vec3) (t float32, ok bool) {
	denom := normal.Dot(r.Dir)
	if math32.Abs(denom) < parallelEps {
		return 0, false
	}
	t = point.Sub(r.Origin).Dot(normal) / denom
	return t, t >= 0
}

// Hit is a ray intersection with a mesh node.
type Hit struct {
	Node     *scene.Node
	Distance float32
	Point    mgl32.Vec3
}

// Cast tests r against every node and returns the nearest hit. Ties keep the earlier node.
func Cast(r Ray, nodes []*scene.Node) (Hit, bool) {
	var best Hit
	found := false
	for _, n := range nodes {
		box, ok := n.WorldBounds()
		if !ok {
			continue
		}
		t, ok := IntersectAABB(r, box)
		if !ok {
			continue
		}
		if !found || t < best.Distance {
			best = Hit{Node: n, Distance: t, Point: r.At(t)}
			found = true
		}
	}
	return best, found
}

// Picker casts camera rays against the graph's mesh nodes.
type Picker struct {
	Graph  *scene.Graph
	Camera func() Camera
}

// Pick returns the nearest mesh under ndc, the ground plane included.
func (p *Picker) Pick(ndc mgl32.Vec2) (*scene.Node, bool) {
	hit, ok := p.Cast(ndc)
	return hit.Node, ok
}

// Cast returns the full nearest hit under ndc.
func (p *Picker) Cast(ndc mgl32.Vec2) (Hit, bool) {
	return Cast(RayFromNDC(p.Camera(), ndc), p.Graph.Meshes())
}
