package editor

import (
	"testing"

	"path-tracer/core"
	"path-tracer/math"
	"path-tracer/renderer"
	"path-tracer/scene"
)

type fakeSource struct {
	x, y     float64
	keys     map[int]bool
	buttons  map[int]bool
	captured bool
	w, h     int
}

func newFakeSource() *fakeSource {
	return &fakeSource{keys: map[int]bool{}, buttons: map[int]bool{}, w: 64, h: 64}
}

func (f *fakeSource) GetCursorPos() (float64, float64)     { return f.x, f.y }
func (f *fakeSource) IsKeyPressed(key int) bool            { return f.keys[key] }
func (f *fakeSource) IsMouseButtonPressed(button int) bool { return f.buttons[button] }
func (f *fakeSource) SetScrollCallback(core.ScrollCallback) {}
func (f *fakeSource) SetCursorCaptured(c bool)             { f.captured = c }
func (f *fakeSource) Size() (int, int)                     { return f.w, f.h }

// tap presses key for one frame and releases it on the next.
func tap(e *Editor, src *fakeSource, key int) bool {
	src.keys[key] = true
	reset := e.Update(0.016)
	src.keys[key] = false
	e.Update(0.016)
	return reset
}

func setupEditor(t *testing.T) (*Editor, *fakeSource, *renderer.Renderer) {
	t.Helper()
	sc := scene.DefaultScene()
	cam := scene.NewCamera(scene.DefaultVerticalFOV, scene.DefaultNearClip, scene.DefaultFarClip)
	cam.Resize(64, 64)
	r := renderer.New(renderer.DefaultSettings())
	r.Resize(64, 64)

	src := newFakeSource()
	return NewEditor(src, sc, cam, r), src, r
}

func TestHistory(t *testing.T) {
	sc := scene.DefaultScene()
	h := NewHistory(2)

	h.Do(NewRadiusCommand(sc, 1, 1))
	h.Do(NewRadiusCommand(sc, 1, 2))
	h.Do(NewRadiusCommand(sc, 1, 3))

	if sc.Spheres[1].Radius != 3 {
		t.Fatalf("expected radius 3; got %v", sc.Spheres[1].Radius)
	}

	h.Undo()
	h.Undo()
	if h.Undo() != nil {
		t.Error("expected history depth to be capped at 2")
	}
	if sc.Spheres[1].Radius != 1 {
		t.Errorf("expected radius 1 after two undos; got %v", sc.Spheres[1].Radius)
	}

	h.Redo()
	if sc.Spheres[1].Radius != 2 {
		t.Errorf("expected radius 2 after redo; got %v", sc.Spheres[1].Radius)
	}

	h.Do(NewRadiusCommand(sc, 1, 5))
	if h.CanRedo() {
		t.Error("expected a new command to clear the redo stack")
	}
}

func TestPickSelectsSphere(t *testing.T) {
	e, src, _ := setupEditor(t)

	// The centre of the view looks at the green sphere.
	src.x, src.y = 32, 33
	src.buttons[MouseLeft] = true
	e.Update(0.016)

	if !e.Selection.IsSphere() || e.Selection.Index != 2 {
		t.Fatalf("expected sphere 2 to be selected; got %+v", e.Selection)
	}

	src.buttons[MouseLeft] = false
	src.x, src.y = 32, 0
	e.Update(0.016)
	src.buttons[MouseLeft] = true
	e.Update(0.016)
	if e.Selection.Active {
		t.Errorf("expected clicking the sky to clear the selection; got %+v", e.Selection)
	}
}

func TestEditsAreUndoable(t *testing.T) {
	e, src, _ := setupEditor(t)
	e.Selection = Selection{Active: true, Kind: renderer.HitSphere, Index: 2}
	sc := e.Scene
	start := sc.Spheres[2]

	if !tap(e, src, core.KeyRight) {
		t.Fatal("expected a move to request an accumulation reset")
	}
	if exp := start.Position.Add(math.NewVec3(MoveStep, 0, 0)); sc.Spheres[2].Position != exp {
		t.Errorf("expected position %v; got %v", exp, sc.Spheres[2].Position)
	}

	tap(e, src, core.KeyRightBracket)
	if exp := start.Radius + RadiusStep; sc.Spheres[2].Radius != exp {
		t.Errorf("expected radius %v; got %v", exp, sc.Spheres[2].Radius)
	}

	tap(e, src, core.KeyM)
	if exp := (start.MaterialIndex + 1) % len(sc.Materials); sc.Spheres[2].MaterialIndex != exp {
		t.Errorf("expected material %d; got %d", exp, sc.Spheres[2].MaterialIndex)
	}

	src.keys[core.KeyLeftControl] = true
	for i := 0; i < 3; i++ {
		if !tap(e, src, core.KeyZ) {
			t.Fatalf("expected undo %d to request an accumulation reset", i)
		}
	}
	if sc.Spheres[2] != start {
		t.Errorf("expected undo to restore %+v; got %+v", start, sc.Spheres[2])
	}

	src.keys[core.KeyLeftShift] = true
	tap(e, src, core.KeyZ)
	if exp := start.Position.Add(math.NewVec3(MoveStep, 0, 0)); sc.Spheres[2].Position != exp {
		t.Errorf("expected redo to move the sphere again; got %v", sc.Spheres[2].Position)
	}
}

func TestRoughnessIsClamped(t *testing.T) {
	e, src, _ := setupEditor(t)
	e.Selection = Selection{Active: true, Kind: renderer.HitSphere, Index: 1}
	mat := e.Scene.Spheres[1].MaterialIndex

	if tap(e, src, core.KeyR) {
		t.Error("expected no change for roughness already at 1")
	}
	tap(e, src, core.KeyF)
	if got := e.Scene.Materials[mat].Roughness; got < 0.89 || got > 0.91 {
		t.Errorf("expected roughness 0.9; got %v", got)
	}
}

func TestRenderSettingKeys(t *testing.T) {
	e, src, r := setupEditor(t)

	tap(e, src, core.KeySpace)
	if r.Settings().Accumulate {
		t.Error("expected space to disable accumulation")
	}

	tap(e, src, core.KeyEqual)
	if exp := renderer.DefaultBounces + 1; r.Settings().Bounces != exp {
		t.Errorf("expected %d bounces; got %d", exp, r.Settings().Bounces)
	}

	for i := 0; i < 10; i++ {
		tap(e, src, core.KeyMinus)
	}
	if r.Settings().Bounces != 1 {
		t.Errorf("expected bounces to stop at 1; got %d", r.Settings().Bounces)
	}
}

func TestCameraControllerNeedsRightMouse(t *testing.T) {
	e, src, _ := setupEditor(t)
	start := e.Camera.Position()

	src.keys[core.KeyW] = true
	if e.Update(0.1) {
		t.Error("expected no camera movement without the right mouse button")
	}

	src.buttons[MouseRight] = true
	if !e.Update(0.1) {
		t.Error("expected camera movement with the right mouse button held")
	}
	if !src.captured {
		t.Error("expected the cursor to be captured")
	}
	if e.Camera.Position() == start {
		t.Error("expected the camera to move forward")
	}

	src.buttons[MouseRight] = false
	src.keys[core.KeyW] = false
	e.Update(0.1)
	if src.captured {
		t.Error("expected the cursor to be released")
	}
}
