package editor

import (
	"fmt"

	"path-tracer/core"
	"path-tracer/log"
	"path-tracer/math"
	"path-tracer/renderer"
	"path-tracer/scene"
)

var logger = log.New("editor")

// Edit step sizes. Holding Shift multiplies them by ten.
const (
	MoveStep      = 0.1
	RadiusStep    = 0.05
	RoughnessStep = 0.1
	MinRadius     = 0.01
	MaxBounces    = 64
)

// RenderControl is the part of the renderer the editor drives.
// *renderer.Renderer implements it.
type RenderControl interface {
	Settings() renderer.Settings
	SetSettings(renderer.Settings)
	SetAccumulate(bool)
}

// Editor applies live edits to the scene and camera between frames.
type Editor struct {
	Scene      *scene.Scene
	Camera     *scene.Camera
	Render     RenderControl
	Input      *InputManager
	Controller *CameraController
	History    *History
	Selection  Selection

	StatusText string
}

func NewEditor(source InputSource, s *scene.Scene, cam *scene.Camera, rc RenderControl) *Editor {
	return &Editor{
		Scene:      s,
		Camera:     cam,
		Render:     rc,
		Input:      NewInputManager(source),
		Controller: NewCameraController(cam),
		History:    NewHistory(100),
		StatusText: "Ready",
	}
}

// Update processes one frame of input. It returns true when the camera or
// the scene changed and accumulation must restart.
func (e *Editor) Update(dt float32) bool {
	e.Input.Update()
	defer e.Input.EndFrame()

	reset := e.Controller.Update(e.Input, dt)
	if e.Controller.Captured() {
		return reset
	}

	if e.handleShortcuts() {
		reset = true
	}
	e.handleSelection()
	if e.handleEdits() {
		reset = true
	}
	e.handleRenderSettings()
	return reset
}

func (e *Editor) handleShortcuts() bool {
	if e.Input.IsShiftShortcut(core.KeyZ) {
		if cmd := e.History.Redo(); cmd != nil {
			e.setStatus("Redo: " + cmd.Description())
			return true
		}
		return false
	}
	if e.Input.IsShortcut(core.KeyZ) {
		if cmd := e.History.Undo(); cmd != nil {
			e.setStatus("Undo: " + cmd.Description())
			return true
		}
	}
	return false
}

func (e *Editor) handleSelection() {
	if !e.Input.IsMousePressed(MouseLeft) {
		return
	}

	w, h := e.Input.source.Size()
	if w <= 0 || h <= 0 {
		return
	}
	px := float32(e.Input.MouseX) / float32(w) * float32(e.Camera.Width())
	py := float32(e.Input.MouseY) / float32(h) * float32(e.Camera.Height())

	e.Selection = Pick(e.Camera, e.Scene, px, py)
	e.setStatus("Selected " + e.Selection.Name(e.Scene))
}

func (e *Editor) handleEdits() bool {
	if !e.Selection.Active {
		return false
	}

	step := float32(1)
	if e.Input.ShiftDown {
		step = 10
	}

	var delta math.Vec3
	switch {
	case e.Input.IsKeyPressed(core.KeyLeft):
		delta.X = -MoveStep
	case e.Input.IsKeyPressed(core.KeyRight):
		delta.X = MoveStep
	case e.Input.IsKeyPressed(core.KeyUp):
		delta.Z = -MoveStep
	case e.Input.IsKeyPressed(core.KeyDown):
		delta.Z = MoveStep
	case e.Input.IsKeyPressed(core.KeyPageUp):
		delta.Y = MoveStep
	case e.Input.IsKeyPressed(core.KeyPageDown):
		delta.Y = -MoveStep
	}
	if !delta.IsZero() {
		pos := e.Selection.Position(e.Scene).Add(delta.Mul(step))
		return e.do(NewMoveCommand(e.Scene, e.Selection, pos))
	}

	if e.Selection.IsSphere() {
		radius := e.Scene.Spheres[e.Selection.Index].Radius
		switch {
		case e.Input.IsKeyPressed(core.KeyLeftBracket):
			radius -= RadiusStep * step
		case e.Input.IsKeyPressed(core.KeyRightBracket):
			radius += RadiusStep * step
		}
		if radius < MinRadius {
			radius = MinRadius
		}
		if radius != e.Scene.Spheres[e.Selection.Index].Radius {
			return e.do(NewRadiusCommand(e.Scene, e.Selection.Index, radius))
		}
	}

	mat := e.Selection.MaterialIndex(e.Scene)
	roughness := e.Scene.Materials[mat].Roughness
	switch {
	case e.Input.IsKeyPressed(core.KeyR):
		roughness = math.Clamp(roughness+RoughnessStep, 0, 1)
	case e.Input.IsKeyPressed(core.KeyF):
		roughness = math.Clamp(roughness-RoughnessStep, 0, 1)
	}
	if roughness != e.Scene.Materials[mat].Roughness {
		return e.do(NewRoughnessCommand(e.Scene, mat, roughness))
	}

	if e.Input.IsKeyPressed(core.KeyM) && len(e.Scene.Materials) > 1 {
		next := (mat + 1) % len(e.Scene.Materials)
		return e.do(NewMaterialCommand(e.Scene, e.Selection, next))
	}
	return false
}

func (e *Editor) handleRenderSettings() {
	if e.Render == nil {
		return
	}

	if e.Input.IsKeyPressed(core.KeySpace) {
		on := !e.Render.Settings().Accumulate
		e.Render.SetAccumulate(on)
		e.setStatus(fmt.Sprintf("Accumulate: %t", on))
	}

	settings := e.Render.Settings()
	bounces := settings.Bounces
	if e.Input.IsKeyPressed(core.KeyEqual) || e.Input.IsKeyPressed(core.KeyKPAdd) {
		bounces++
	}
	if e.Input.IsKeyPressed(core.KeyMinus) || e.Input.IsKeyPressed(core.KeyKPSubtract) {
		bounces--
	}
	if bounces < 1 {
		bounces = 1
	}
	if bounces > MaxBounces {
		bounces = MaxBounces
	}
	if bounces != settings.Bounces {
		settings.Bounces = bounces
		e.Render.SetSettings(settings)
		e.setStatus(fmt.Sprintf("Bounces: %d", bounces))
	}
}

func (e *Editor) do(cmd Command) bool {
	e.History.Do(cmd)
	e.setStatus(cmd.Description())
	return true
}

func (e *Editor) setStatus(text string) {
	e.StatusText = text
	logger.Info(text)
}
