package scene

import (
	"errors"
	"fmt"
)

// Configuration errors reported by Validate.
var (
	ErrNoMaterials   = errors.New("scene: geometry present but no materials defined")
	ErrMaterialIndex = errors.New("scene: material index out of range")
	ErrSphereRadius  = errors.New("scene: sphere radius must be positive")
	ErrIndexCount    = errors.New("scene: index count is not a multiple of 3")
	ErrNormalCount   = errors.New("scene: normal count does not match position count")
	ErrVertexIndex   = errors.New("scene: vertex index out of range")
)

// Camera parameter errors. The projection of such a camera is singular.
var (
	ErrFieldOfView = errors.New("scene: vertical field of view must be in (0, 180) degrees")
	ErrClipPlanes  = errors.New("scene: clip planes must satisfy 0 < near < far")
)

// Validate checks every index the renderer dereferences so that the per-pixel
// loop never has to.
func (s *Scene) Validate() error {
	if len(s.Materials) == 0 && (len(s.Spheres) > 0 || len(s.Meshes) > 0) {
		return ErrNoMaterials
	}

	for i, sp := range s.Spheres {
		if err := s.checkMaterial(sp.MaterialIndex); err != nil {
			return fmt.Errorf("sphere %d: %w", i, err)
		}
		if !(sp.Radius > 0) {
			return fmt.Errorf("sphere %d: %w", i, ErrSphereRadius)
		}
	}

	for i, m := range s.Meshes {
		if err := s.validateMesh(m); err != nil {
			return fmt.Errorf("mesh %d (%s): %w", i, m.Name, err)
		}
	}

	return nil
}

func (s *Scene) checkMaterial(index int) error {
	if index < 0 || index >= len(s.Materials) {
		return fmt.Errorf("%w: %d (have %d)", ErrMaterialIndex, index, len(s.Materials))
	}
	return nil
}

func (s *Scene) validateMesh(m *TriangleMesh) error {
	if err := s.checkMaterial(m.MaterialIndex); err != nil {
		return err
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("%w: %d", ErrIndexCount, len(m.Indices))
	}
	if len(m.Normals) != len(m.Positions) {
		return fmt.Errorf("%w: %d normals, %d positions", ErrNormalCount, len(m.Normals), len(m.Positions))
	}
	for _, idx := range m.Indices {
		if int(idx) >= len(m.Positions) {
			return fmt.Errorf("%w: %d (have %d vertices)", ErrVertexIndex, idx, len(m.Positions))
		}
	}
	return nil
}
