package editor

import (
	"path-tracer/core"
	"path-tracer/math"
)

// InputSource is the window surface the editor polls. *core.Window
// implements it.
type InputSource interface {
	GetCursorPos() (float64, float64)
	IsKeyPressed(key int) bool
	IsMouseButtonPressed(button int) bool
	SetScrollCallback(cb core.ScrollCallback)
	SetCursorCaptured(captured bool)
	Size() (int, int)
}

// InputManager tracks mouse and keyboard state for the editor
type InputManager struct {
	// Mouse state
	MouseX, MouseY           float64
	MouseDeltaX, MouseDeltaY float64
	lastMouseX, lastMouseY   float64
	ScrollDelta              float64

	// Button states
	mouseButtons     [8]bool
	mouseButtonsPrev [8]bool

	// Key states
	keys     [512]bool
	keysPrev [512]bool

	// Modifiers
	ShiftDown bool
	CtrlDown  bool

	source     InputSource
	firstFrame bool
}

// Mouse button constants
const (
	MouseLeft   = core.MouseButtonLeft
	MouseRight  = core.MouseButtonRight
	MouseMiddle = core.MouseButtonMiddle
)

// trackedKeys are polled every frame for edge detection.
var trackedKeys = []int{
	core.KeyW, core.KeyA, core.KeyS, core.KeyD, core.KeyQ, core.KeyE,
	core.KeyR, core.KeyF, core.KeyM, core.KeyZ,
	core.KeyLeft, core.KeyRight, core.KeyUp, core.KeyDown,
	core.KeyPageUp, core.KeyPageDown,
	core.KeyLeftBracket, core.KeyRightBracket,
	core.KeySpace, core.KeyEqual, core.KeyMinus, core.KeyKPAdd, core.KeyKPSubtract,
	core.KeyEscape, core.KeyF5, core.KeyF12,
}

// NewInputManager creates a new input manager with scroll callback
func NewInputManager(source InputSource) *InputManager {
	im := &InputManager{
		source:     source,
		firstFrame: true,
	}

	source.SetScrollCallback(func(xoff, yoff float64) {
		im.ScrollDelta += yoff
	})

	return im
}

// Update should be called once per frame to compute deltas and poll state
func (im *InputManager) Update() {
	x, y := im.source.GetCursorPos()
	if im.firstFrame {
		im.lastMouseX = x
		im.lastMouseY = y
		im.firstFrame = false
	}
	im.MouseDeltaX = x - im.lastMouseX
	im.MouseDeltaY = y - im.lastMouseY
	im.lastMouseX = x
	im.lastMouseY = y
	im.MouseX = x
	im.MouseY = y

	copy(im.mouseButtonsPrev[:], im.mouseButtons[:])
	copy(im.keysPrev[:], im.keys[:])

	for _, b := range []int{MouseLeft, MouseRight, MouseMiddle} {
		im.mouseButtons[b] = im.source.IsMouseButtonPressed(b)
	}

	im.ShiftDown = im.source.IsKeyPressed(core.KeyLeftShift) || im.source.IsKeyPressed(core.KeyRightShift)
	im.CtrlDown = im.source.IsKeyPressed(core.KeyLeftControl) || im.source.IsKeyPressed(core.KeyRightControl)

	for _, k := range trackedKeys {
		if k >= 0 && k < len(im.keys) {
			im.keys[k] = im.source.IsKeyPressed(k)
		}
	}
}

// EndFrame clears per-frame state
func (im *InputManager) EndFrame() {
	im.ScrollDelta = 0
}

// MouseDelta returns the cursor motion of the current frame.
func (im *InputManager) MouseDelta() math.Vec2 {
	return math.NewVec2(float32(im.MouseDeltaX), float32(im.MouseDeltaY))
}

func (im *InputManager) IsMouseDown(button int) bool {
	if button < 0 || button >= len(im.mouseButtons) {
		return false
	}
	return im.mouseButtons[button]
}

func (im *InputManager) IsMousePressed(button int) bool {
	if button < 0 || button >= len(im.mouseButtons) {
		return false
	}
	return im.mouseButtons[button] && !im.mouseButtonsPrev[button]
}

func (im *InputManager) IsMouseReleased(button int) bool {
	if button < 0 || button >= len(im.mouseButtons) {
		return false
	}
	return !im.mouseButtons[button] && im.mouseButtonsPrev[button]
}

func (im *InputManager) IsKeyDown(key int) bool {
	if key < 0 || key >= len(im.keys) {
		return false
	}
	return im.keys[key]
}

func (im *InputManager) IsKeyPressed(key int) bool {
	if key < 0 || key >= len(im.keys) {
		return false
	}
	return im.keys[key] && !im.keysPrev[key]
}

// IsShortcut checks for a Ctrl+key press without Shift
func (im *InputManager) IsShortcut(key int) bool {
	return im.CtrlDown && !im.ShiftDown && im.IsKeyPressed(key)
}

// IsShiftShortcut checks for Ctrl+Shift+key press
func (im *InputManager) IsShiftShortcut(key int) bool {
	return im.CtrlDown && im.ShiftDown && im.IsKeyPressed(key)
}
