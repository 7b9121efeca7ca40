package scene

import (
	"path-tracer/core"
	"path-tracer/math"
	"path-tracer/raycast"
)

// TriangleMesh is an indexed triangle list with per-vertex normals.
//
// Only Transform.Position is applied when tracing: rays are moved into the
// mesh's local frame by subtracting it from the origin. AABB is kept in that
// local frame. Rotation and scale are baked into Positions and Normals by
// Bake.
type TriangleMesh struct {
	Name          string
	Transform     core.Transform
	Positions     []math.Vec3
	Normals       []math.Vec3
	Indices       []uint32
	AABB          raycast.AABB
	MaterialIndex int
}

// NewTriangleMesh builds a mesh and computes its bounding box.
func NewTriangleMesh(name string, positions, normals []math.Vec3, indices []uint32) *TriangleMesh {
	m := &TriangleMesh{
		Name:      name,
		Transform: core.NewTransform(),
		Positions: positions,
		Normals:   normals,
		Indices:   indices,
	}
	m.RecomputeAABB()
	return m
}

// RecomputeAABB refreshes the local bounding box after Positions change.
func (m *TriangleMesh) RecomputeAABB() {
	box := raycast.EmptyAABB()
	for _, p := range m.Positions {
		box = box.Extend(p)
	}
	m.AABB = box
}

func (m *TriangleMesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Triangle returns the vertex indices of triangle i.
func (m *TriangleMesh) Triangle(i int) (uint32, uint32, uint32) {
	return m.Indices[i*3], m.Indices[i*3+1], m.Indices[i*3+2]
}

// Bake applies the rotation and scale of Transform to positions and normals
// and resets them to identity, leaving only the translation.
func (m *TriangleMesh) Bake() {
	if m.Transform.IsIdentityLinear() {
		return
	}

	linear := m.Transform.Linear()
	normalMat := linear.Inverse().Transpose()
	for i, p := range m.Positions {
		m.Positions[i] = linear.MulPoint(p)
	}
	for i, n := range m.Normals {
		m.Normals[i] = normalMat.MulDirection(n).Normalize()
	}

	m.Transform.Rotation = math.QuaternionIdentity()
	m.Transform.Scale = math.Vec3One
	m.RecomputeAABB()
}

// ComputeNormals replaces Normals with area-weighted vertex normals.
func (m *TriangleMesh) ComputeNormals() {
	normals := make([]math.Vec3, len(m.Positions))
	for i := 0; i+2 < len(m.Indices); i += 3 {
		i0, i1, i2 := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		if int(i0) >= len(m.Positions) || int(i1) >= len(m.Positions) || int(i2) >= len(m.Positions) {
			continue
		}
		p0, p1, p2 := m.Positions[i0], m.Positions[i1], m.Positions[i2]
		n := p1.Sub(p0).Cross(p2.Sub(p0))
		normals[i0] = normals[i0].Add(n)
		normals[i1] = normals[i1].Add(n)
		normals[i2] = normals[i2].Add(n)
	}
	for i := range normals {
		normals[i] = normals[i].Normalize()
	}
	m.Normals = normals
}
