package editor

import (
	"path-tracer/core"
	"path-tracer/scene"
)

// CameraController turns held keys and mouse motion into camera movement.
// Input is only consumed while the right mouse button is held; the cursor is
// captured for that time.
type CameraController struct {
	Camera *scene.Camera

	captured bool
}

func NewCameraController(cam *scene.Camera) *CameraController {
	return &CameraController{Camera: cam}
}

// Update applies one tick of input. It returns true when the camera moved.
func (c *CameraController) Update(in *InputManager, dt float32) bool {
	if !in.IsMouseDown(MouseRight) {
		if c.captured {
			in.source.SetCursorCaptured(false)
			c.captured = false
		}
		return false
	}

	m := scene.Movement{
		Forward:  in.IsKeyDown(core.KeyW),
		Backward: in.IsKeyDown(core.KeyS),
		Left:     in.IsKeyDown(core.KeyA),
		Right:    in.IsKeyDown(core.KeyD),
		Down:     in.IsKeyDown(core.KeyQ),
		Up:       in.IsKeyDown(core.KeyE),
	}

	if !c.captured {
		// The cursor jumps when it gets captured; skip this frame's delta.
		in.source.SetCursorCaptured(true)
		c.captured = true
	} else {
		m.MouseDelta = in.MouseDelta()
	}

	return c.Camera.Update(m, dt)
}

// Captured reports whether the controller currently owns the cursor.
func (c *CameraController) Captured() bool {
	return c.captured
}
