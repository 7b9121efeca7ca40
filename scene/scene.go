package scene

import (
	"path-tracer/math"
)

// Sphere is an analytic sphere referencing a material by index.
type Sphere struct {
	Position      math.Vec3
	Radius        float32
	MaterialIndex int
}

// Light is a directional light. Direction points from the light into the
// scene and is normalised when used.
type Light struct {
	Direction math.Vec3
	Intensity float32
}

// Sky is a vertical three-colour gradient sampled by ray direction.
type Sky struct {
	ZenithColor  math.Vec3
	HorizonColor math.Vec3
	GroundColor  math.Vec3
}

// FlatSky returns a sky that has the same colour in every direction.
func FlatSky(color math.Vec3) Sky {
	return Sky{ZenithColor: color, HorizonColor: color, GroundColor: color}
}

// Sample returns the sky radiance seen along dir.
func (s Sky) Sample(dir math.Vec3) math.Vec3 {
	y := dir.Normalize().Y
	if y >= 0 {
		return s.HorizonColor.Lerp(s.ZenithColor, math.Smoothstep(0, 0.5, y))
	}
	return s.HorizonColor.Lerp(s.GroundColor, math.Smoothstep(0, 0.1, -y))
}

// Scene holds everything the renderer reads during a frame. It is mutated only
// between frames.
type Scene struct {
	Materials []Material
	Spheres   []Sphere
	Meshes    []*TriangleMesh
	Lights    []Light
	Sky       Sky
}

func NewScene() *Scene {
	return &Scene{
		Sky: FlatSky(math.Vec3Zero),
	}
}

// AddMaterial appends m and returns its index.
func (s *Scene) AddMaterial(m Material) int {
	s.Materials = append(s.Materials, m)
	return len(s.Materials) - 1
}

// AddSphere appends sp and returns its index.
func (s *Scene) AddSphere(sp Sphere) int {
	s.Spheres = append(s.Spheres, sp)
	return len(s.Spheres) - 1
}

// AddMesh appends mesh and returns its index.
func (s *Scene) AddMesh(mesh *TriangleMesh) int {
	s.Meshes = append(s.Meshes, mesh)
	return len(s.Meshes) - 1
}

func (s *Scene) AddLight(l Light) int {
	s.Lights = append(s.Lights, l)
	return len(s.Lights) - 1
}

// Lambert returns the diffuse factor applied to albedo at a surface with the
// given normal. Without lights the factor is 1 and emissive materials carry
// the illumination.
func (s *Scene) Lambert(normal math.Vec3) float32 {
	if len(s.Lights) == 0 {
		return 1
	}

	var sum float32
	for _, l := range s.Lights {
		d := normal.Dot(l.Direction.Normalize().Negate())
		if d > 0 {
			sum += d * l.Intensity
		}
	}
	return sum
}

// TriangleCount returns the number of triangles across all meshes.
func (s *Scene) TriangleCount() int {
	n := 0
	for _, m := range s.Meshes {
		n += m.TriangleCount()
	}
	return n
}
