package scene

import "path-tracer/math"

// Material describes how a surface reflects and emits light.
type Material struct {
	Name   string
	Albedo math.Vec3 // linear reflectance colour

	// Roughness scales the random perturbation of the reflected direction:
	// 0 is a perfect mirror, 1 is fully diffuse.
	Roughness float32

	// Metallic is carried for import/export but does not affect shading.
	Metallic float32

	EmissiveColor     math.Vec3
	EmissiveIntensity float32
}

// DefaultMaterial returns a white, fully rough, non-emissive material.
func DefaultMaterial() Material {
	return Material{
		Name:      "Default",
		Albedo:    math.Vec3One,
		Roughness: 1,
	}
}

// NewMaterial creates a diffuse material with the given albedo and roughness.
func NewMaterial(name string, albedo math.Vec3, roughness float32) Material {
	return Material{
		Name:      name,
		Albedo:    albedo,
		Roughness: roughness,
	}
}

// NewEmissiveMaterial creates a white material emitting color * intensity.
func NewEmissiveMaterial(name string, color math.Vec3, intensity float32) Material {
	m := DefaultMaterial()
	m.Name = name
	m.EmissiveColor = color
	m.EmissiveIntensity = intensity
	return m
}

// Emission returns the emitted radiance.
func (m Material) Emission() math.Vec3 {
	return m.EmissiveColor.Mul(m.EmissiveIntensity)
}

func (m Material) IsEmissive() bool {
	return m.EmissiveIntensity > 0 && !m.EmissiveColor.IsZero()
}
