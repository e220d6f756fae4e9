package viewport

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	rotateSpeed = 0.005 // radians per pixel
	zoomStep    = 0.1   // fraction of distance per wheel notch
	maxPitch    = 89 * math32.Pi / 180
)

// Orbit is a camera rig that circles a target. While disabled (during an object drag)
// it ignores rotate and zoom input.
type Orbit struct {
	Target      mgl32.Vec3
	Yaw         float32 // radians around +Y, 0 looks down -Z
	Pitch       float32 // radians above the XZ plane
	Distance    float32
	MinDistance float32
	MaxDistance float32

	disabled bool
}

// NewOrbit returns a rig whose camera sits at position looking at target.
func NewOrbit(position, target mgl32.Vec3) *Orbit {
	o := &Orbit{Target: target, MinDistance: 1, MaxDistance: 500}
	d := position.Sub(target)
	o.Distance = d.Len()
	if o.Distance == 0 {
		o.Distance = 10
		return o
	}
	o.Pitch = math32.Asin(d.Y() / o.Distance)
	o.Yaw = math32.Atan2(d.X(), d.Z())
	return o
}

// SetEnabled turns orbit input on or off.
func (o *Orbit) SetEnabled(enabled bool) {
	o.disabled = !enabled
}

// Enabled reports whether input moves the camera.
func (o *Orbit) Enabled() bool {
	return !o.disabled
}

// Rotate turns the camera by a mouse delta in pixels.
func (o *Orbit) Rotate(dx, dy float32) {
	if o.disabled {
		return
	}
	o.Yaw -= dx * rotateSpeed
	o.Pitch += dy * rotateSpeed
	o.Pitch = math32.Max(-maxPitch, math32.Min(maxPitch, o.Pitch))
}

// Zoom moves the camera toward (wheel > 0) or away from the target.
func (o *Orbit) Zoom(wheel float32) {
	if o.disabled || wheel == 0 {
		return
	}
	o.Distance *= 1 - wheel*zoomStep
	o.Distance = math32.Max(o.MinDistance, math32.Min(o.MaxDistance, o.Distance))
}

// Position returns the camera position.
func (o *Orbit) Position() mgl32.Vec3 {
	cp := math32.Cos(o.Pitch)
	offset := mgl32.Vec3{
		math32.Sin(o.Yaw) * cp,
		math32.Sin(o.Pitch),
		math32.Cos(o.Yaw) * cp,
	}
	return o.Target.Add(offset.Mul(o.Distance))
}
