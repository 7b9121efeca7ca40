package scene

import (
	"fmt"

	"path-tracer/internal/workers"
	"path-tracer/math"
)

// Movement tuning.
const (
	CameraSpeed         = 5
	CameraRotationSpeed = 1
)

// Movement is one tick of camera input. Of each opposing pair the first
// field wins when both are set.
type Movement struct {
	Forward, Backward bool
	Left, Right       bool
	Down, Up          bool

	// MouseDelta is the cursor motion since the last tick, in pixels.
	MouseDelta math.Vec2
}

// IsZero reports whether m would leave the camera untouched.
func (m Movement) IsZero() bool {
	return !(m.Forward || m.Backward || m.Left || m.Right || m.Up || m.Down) && m.MouseDelta.IsZero()
}

// Camera is a pinhole perspective camera that caches one world-space ray
// direction per pixel. The cache is rebuilt only when the viewport, the FOV
// or the orientation change, so its cost is not paid every frame.
type Camera struct {
	position math.Vec3
	forward  math.Vec3

	verticalFOV float32
	nearClip    float32
	farClip     float32

	projection        math.Mat4
	view              math.Mat4
	inverseProjection math.Mat4
	inverseView       math.Mat4

	rayDirections []math.Vec3

	width, height int

	// Workers bounds the goroutines used to rebuild the ray cache. Zero
	// uses GOMAXPROCS.
	Workers int
}

// NewCamera creates a camera at (0,0,6) looking down -Z. verticalFOV is in
// degrees.
func NewCamera(verticalFOV, nearClip, farClip float32) *Camera {
	c := &Camera{
		position:    math.NewVec3(0, 0, 6),
		forward:     math.NewVec3(0, 0, -1),
		verticalFOV: verticalFOV,
		nearClip:    nearClip,
		farClip:     farClip,
	}
	c.RecalculateView()
	return c
}

// Resize updates the viewport. It is a no-op when the size is unchanged.
// A zero dimension drops the ray cache until the next non-empty Resize.
func (c *Camera) Resize(width, height int) {
	if width == c.width && height == c.height {
		return
	}

	c.width = width
	c.height = height

	if width <= 0 || height <= 0 {
		c.rayDirections = nil
		return
	}

	c.RecalculateProjection()
	c.RecalculateRayDirections()
}

// RecalculateProjection rebuilds the projection matrix and its inverse for
// the current viewport and FOV.
func (c *Camera) RecalculateProjection() {
	if c.width <= 0 || c.height <= 0 {
		return
	}
	aspect := float32(c.width) / float32(c.height)
	c.projection = math.Mat4Perspective(math.Radians(c.verticalFOV), aspect, c.nearClip, c.farClip)
	c.inverseProjection = c.projection.Inverse()
}

// RecalculateView rebuilds the view matrix from position and forward with a
// fixed +Y up vector.
func (c *Camera) RecalculateView() {
	c.view = math.Mat4LookAt(c.position, c.position.Add(c.forward), math.Vec3Up)
	c.inverseView = c.view.Inverse()
}

// RecalculateRayDirections rebuilds the per-pixel ray cache. Row 0 is the
// top of the view. Pixels are independent and are processed in parallel.
func (c *Camera) RecalculateRayDirections() {
	n := c.width * c.height
	if n <= 0 {
		c.rayDirections = nil
		return
	}
	if len(c.rayDirections) != n {
		c.rayDirections = make([]math.Vec3, n)
	}

	w, h := float32(c.width), float32(c.height)
	workers.ForEachChunk(n, c.Workers, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			x, y := i%c.width, i/c.width

			ndcX := (float32(x)+0.5)/w*2 - 1
			ndcY := -((float32(y)+0.5)/h*2 - 1)

			target := math.NewVec4(ndcX, ndcY, 1, 1).MulMat(c.inverseProjection).ToVec3DivW().Normalize()
			c.rayDirections[i] = c.inverseView.MulDirection(target).Normalize()
		}
	})
}

// Update applies one tick of movement scaled by dt seconds. It returns true
// when the camera moved; the ray cache has then already been rebuilt and the
// caller must restart accumulation.
func (c *Camera) Update(m Movement, dt float32) bool {
	if m.IsZero() {
		return false
	}

	moved := false
	right := c.forward.Cross(math.Vec3Up)
	step := CameraSpeed * dt

	if m.Forward {
		c.position = c.position.Add(c.forward.Mul(step))
		moved = true
	} else if m.Backward {
		c.position = c.position.Sub(c.forward.Mul(step))
		moved = true
	}

	if m.Left {
		c.position = c.position.Sub(right.Mul(step))
		moved = true
	} else if m.Right {
		c.position = c.position.Add(right.Mul(step))
		moved = true
	}

	if m.Down {
		c.position = c.position.Sub(math.Vec3Up.Mul(step))
		moved = true
	} else if m.Up {
		c.position = c.position.Add(math.Vec3Up.Mul(step))
		moved = true
	}

	if !m.MouseDelta.IsZero() {
		pitch := m.MouseDelta.Y * CameraRotationSpeed * dt
		yaw := m.MouseDelta.X * CameraRotationSpeed * dt

		q := math.QuaternionFromAxisAngle(right, -pitch).
			Mul(math.QuaternionFromAxisAngle(math.Vec3Up, -yaw)).
			Normalize()
		c.forward = q.RotateVector(c.forward).Normalize()
		moved = true
	}

	if moved {
		c.RecalculateView()
		c.RecalculateRayDirections()
	}
	return moved
}

func (c *Camera) Position() math.Vec3 {
	return c.position
}

func (c *Camera) Forward() math.Vec3 {
	return c.forward
}

// SetPosition moves the camera and rebuilds its view and ray cache.
func (c *Camera) SetPosition(p math.Vec3) {
	c.position = p
	c.RecalculateView()
	c.RecalculateRayDirections()
}

// SetForward points the camera along dir. A zero dir is ignored.
func (c *Camera) SetForward(dir math.Vec3) {
	if dir.IsZero() {
		return
	}
	c.forward = dir.Normalize()
	c.RecalculateView()
	c.RecalculateRayDirections()
}

// SetVerticalFOV changes the field of view, in degrees. Values outside
// (0, 180) are rejected and leave the camera unchanged.
func (c *Camera) SetVerticalFOV(fov float32) error {
	if !(fov > 0 && fov < 180) {
		return fmt.Errorf("%w: %v", ErrFieldOfView, fov)
	}
	c.verticalFOV = fov
	c.RecalculateProjection()
	c.RecalculateRayDirections()
	return nil
}

// SetClipPlanes changes the near and far clip distances. Planes that do not
// satisfy 0 < near < far are rejected and leave the camera unchanged.
func (c *Camera) SetClipPlanes(near, far float32) error {
	if !(near > 0 && far > near) {
		return fmt.Errorf("%w: near %v, far %v", ErrClipPlanes, near, far)
	}
	c.nearClip = near
	c.farClip = far
	c.RecalculateProjection()
	c.RecalculateRayDirections()
	return nil
}

func (c *Camera) VerticalFOV() float32 { return c.verticalFOV }
func (c *Camera) NearClip() float32    { return c.nearClip }
func (c *Camera) FarClip() float32     { return c.farClip }

func (c *Camera) Width() int  { return c.width }
func (c *Camera) Height() int { return c.height }

// RayDirections returns the cached per-pixel directions, row-major from the
// top-left pixel. The slice is owned by the camera.
func (c *Camera) RayDirections() []math.Vec3 {
	return c.rayDirections
}

// RayDirection computes the direction through a fractional pixel coordinate
// without touching the cache.
func (c *Camera) RayDirection(px, py float32) math.Vec3 {
	if c.width <= 0 || c.height <= 0 {
		return c.forward
	}
	ndcX := px/float32(c.width)*2 - 1
	ndcY := -(py/float32(c.height)*2 - 1)
	target := math.NewVec4(ndcX, ndcY, 1, 1).MulMat(c.inverseProjection).ToVec3DivW().Normalize()
	return c.inverseView.MulDirection(target).Normalize()
}

func (c *Camera) Projection() math.Mat4        { return c.projection }
func (c *Camera) View() math.Mat4              { return c.view }
func (c *Camera) InverseProjection() math.Mat4 { return c.inverseProjection }
func (c *Camera) InverseView() math.Mat4       { return c.inverseView }
