package editor

import (
	"fmt"

	"path-tracer/math"
	"path-tracer/scene"
)

// Command represents an undoable scene edit
type Command interface {
	Execute()
	Undo()
	Description() string
}

// History manages undo/redo stacks
type History struct {
	undoStack []Command
	redoStack []Command
	maxDepth  int
}

// NewHistory creates a new history with the given max undo depth
func NewHistory(maxDepth int) *History {
	return &History{
		undoStack: make([]Command, 0, maxDepth),
		redoStack: make([]Command, 0, maxDepth),
		maxDepth:  maxDepth,
	}
}

// Do executes a command and pushes it to the undo stack
func (h *History) Do(cmd Command) {
	cmd.Execute()
	h.undoStack = append(h.undoStack, cmd)
	if len(h.undoStack) > h.maxDepth {
		h.undoStack = h.undoStack[1:]
	}
	h.redoStack = h.redoStack[:0]
}

// Undo reverts the last action. It returns the reverted command or nil.
func (h *History) Undo() Command {
	if len(h.undoStack) == 0 {
		return nil
	}
	cmd := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	cmd.Undo()
	h.redoStack = append(h.redoStack, cmd)
	return cmd
}

// Redo reapplies the last undone action. It returns the command or nil.
func (h *History) Redo() Command {
	if len(h.redoStack) == 0 {
		return nil
	}
	cmd := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	cmd.Execute()
	h.undoStack = append(h.undoStack, cmd)
	return cmd
}

func (h *History) CanUndo() bool { return len(h.undoStack) > 0 }
func (h *History) CanRedo() bool { return len(h.redoStack) > 0 }

// Clear wipes all undo/redo history
func (h *History) Clear() {
	h.undoStack = h.undoStack[:0]
	h.redoStack = h.redoStack[:0]
}

// MoveCommand records a position change of a sphere or mesh
type MoveCommand struct {
	Scene  *scene.Scene
	Target Selection
	OldPos math.Vec3
	NewPos math.Vec3
}

func NewMoveCommand(s *scene.Scene, target Selection, newPos math.Vec3) *MoveCommand {
	return &MoveCommand{Scene: s, Target: target, OldPos: target.Position(s), NewPos: newPos}
}

func (c *MoveCommand) Execute()            { c.Target.SetPosition(c.Scene, c.NewPos) }
func (c *MoveCommand) Undo()               { c.Target.SetPosition(c.Scene, c.OldPos) }
func (c *MoveCommand) Description() string { return "Move " + c.Target.Name(c.Scene) }

// RadiusCommand records a sphere radius change
type RadiusCommand struct {
	Scene     *scene.Scene
	Sphere    int
	OldRadius float32
	NewRadius float32
}

func NewRadiusCommand(s *scene.Scene, sphere int, newRadius float32) *RadiusCommand {
	return &RadiusCommand{Scene: s, Sphere: sphere, OldRadius: s.Spheres[sphere].Radius, NewRadius: newRadius}
}

func (c *RadiusCommand) Execute() { c.Scene.Spheres[c.Sphere].Radius = c.NewRadius }
func (c *RadiusCommand) Undo()    { c.Scene.Spheres[c.Sphere].Radius = c.OldRadius }
func (c *RadiusCommand) Description() string {
	return fmt.Sprintf("Radius sphere %d: %.2f", c.Sphere, c.NewRadius)
}

// RoughnessCommand records a material roughness change
type RoughnessCommand struct {
	Scene    *scene.Scene
	Material int
	Old, New float32
}

func NewRoughnessCommand(s *scene.Scene, material int, roughness float32) *RoughnessCommand {
	return &RoughnessCommand{Scene: s, Material: material, Old: s.Materials[material].Roughness, New: roughness}
}

func (c *RoughnessCommand) Execute() { c.Scene.Materials[c.Material].Roughness = c.New }
func (c *RoughnessCommand) Undo()    { c.Scene.Materials[c.Material].Roughness = c.Old }
func (c *RoughnessCommand) Description() string {
	return fmt.Sprintf("Roughness %s: %.2f", c.Scene.Materials[c.Material].Name, c.New)
}

// MaterialCommand records a change of the material assigned to an object
type MaterialCommand struct {
	Scene    *scene.Scene
	Target   Selection
	Old, New int
}

func NewMaterialCommand(s *scene.Scene, target Selection, material int) *MaterialCommand {
	return &MaterialCommand{Scene: s, Target: target, Old: target.MaterialIndex(s), New: material}
}

func (c *MaterialCommand) Execute() { c.Target.SetMaterialIndex(c.Scene, c.New) }
func (c *MaterialCommand) Undo()    { c.Target.SetMaterialIndex(c.Scene, c.Old) }
func (c *MaterialCommand) Description() string {
	return fmt.Sprintf("Material %s: %s", c.Target.Name(c.Scene), c.Scene.Materials[c.New].Name)
}
