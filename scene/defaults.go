package scene

import "path-tracer/math"

// Default camera parameters.
const (
	DefaultVerticalFOV = 45
	DefaultNearClip    = 0.1
	DefaultFarClip     = 100
)

// DefaultSky is a pale blue zenith fading to a white horizon over a grey
// ground.
func DefaultSky() Sky {
	return Sky{
		ZenithColor:  math.NewVec3(0.6, 0.7, 0.9),
		HorizonColor: math.NewVec3(1, 1, 1),
		GroundColor:  math.NewVec3(0.7, 0.7, 0.7),
	}
}

// DefaultScene returns three coloured spheres resting on a large ground sphere,
// lit by a distant emissive sphere.
func DefaultScene() *Scene {
	s := NewScene()
	s.Sky = DefaultSky()

	s.AddMaterial(NewMaterial("Mirror", math.NewVec3(1, 0, 1), 0))
	ground := s.AddMaterial(NewMaterial("Ground", math.NewVec3(0, 0, 0), 1))
	red := s.AddMaterial(NewMaterial("Red", math.NewVec3(1, 0, 0), 1))
	green := s.AddMaterial(NewMaterial("Green", math.NewVec3(0, 1, 0), 1))
	blue := s.AddMaterial(NewMaterial("Blue", math.NewVec3(0, 0, 1), 1))
	light := s.AddMaterial(NewEmissiveMaterial("Light", math.Vec3One, 2))

	s.AddSphere(Sphere{Position: math.NewVec3(0, -201, 0), Radius: 200, MaterialIndex: ground})
	s.AddSphere(Sphere{Position: math.NewVec3(-1.25, -0.5, 0), Radius: 0.5, MaterialIndex: red})
	s.AddSphere(Sphere{Position: math.NewVec3(0, -0.5, 0), Radius: 0.5, MaterialIndex: green})
	s.AddSphere(Sphere{Position: math.NewVec3(1.25, -0.5, 0), Radius: 0.5, MaterialIndex: blue})
	s.AddSphere(Sphere{Position: math.NewVec3(20, 20, 20), Radius: 10, MaterialIndex: light})

	return s
}
