package editor

import (
	"fmt"

	"path-tracer/math"
	"path-tracer/raycast"
	"path-tracer/renderer"
	"path-tracer/scene"
)

// Selection identifies one sphere or mesh of the scene.
type Selection struct {
	Active bool
	Kind   renderer.HitKind
	Index  int
}

// Pick casts a ray through a point of the render viewport, given in render
// pixels, and selects the closest object.
func Pick(cam *scene.Camera, s *scene.Scene, px, py float32) Selection {
	ray := raycast.Ray{Origin: cam.Position(), Direction: cam.RayDirection(px, py)}
	hit, ok := renderer.TraceRay(s, ray)
	if !ok {
		return Selection{}
	}
	return Selection{Active: true, Kind: hit.Kind, Index: hit.ObjectIndex}
}

func (sel Selection) IsSphere() bool {
	return sel.Active && sel.Kind == renderer.HitSphere
}

func (sel Selection) Name(s *scene.Scene) string {
	if !sel.Active {
		return "nothing"
	}
	if sel.Kind == renderer.HitSphere {
		return fmt.Sprintf("sphere %d", sel.Index)
	}
	return s.Meshes[sel.Index].Name
}

func (sel Selection) Position(s *scene.Scene) math.Vec3 {
	if sel.Kind == renderer.HitSphere {
		return s.Spheres[sel.Index].Position
	}
	return s.Meshes[sel.Index].Transform.Position
}

func (sel Selection) SetPosition(s *scene.Scene, p math.Vec3) {
	if sel.Kind == renderer.HitSphere {
		s.Spheres[sel.Index].Position = p
		return
	}
	s.Meshes[sel.Index].Transform.Position = p
}

func (sel Selection) MaterialIndex(s *scene.Scene) int {
	if sel.Kind == renderer.HitSphere {
		return s.Spheres[sel.Index].MaterialIndex
	}
	return s.Meshes[sel.Index].MaterialIndex
}

func (sel Selection) SetMaterialIndex(s *scene.Scene, idx int) {
	if sel.Kind == renderer.HitSphere {
		s.Spheres[sel.Index].MaterialIndex = idx
		return
	}
	s.Meshes[sel.Index].MaterialIndex = idx
}
