package core

import (
	"path-tracer/math"
)

// Color is a linear RGBA colour with float channels.
type Color struct {
	R, G, B, A float32
}

func ColorFromVec4(v math.Vec4) Color {
	return Color{v.X, v.Y, v.Z, v.W}
}

// RGBA8 clamps every channel to [0, 1] and truncates it to a byte.
func (c Color) RGBA8() [4]uint8 {
	return [4]uint8{
		uint8(math.Clamp(c.R, 0, 1) * 255),
		uint8(math.Clamp(c.G, 0, 1) * 255),
		uint8(math.Clamp(c.B, 0, 1) * 255),
		uint8(math.Clamp(c.A, 0, 1) * 255),
	}
}

// PutRGBA8 writes the RGBA8 form of c into dst[0:4].
func (c Color) PutRGBA8(dst []byte) {
	px := c.RGBA8()
	dst[0], dst[1], dst[2], dst[3] = px[0], px[1], px[2], px[3]
}

type Transform struct {
	Position math.Vec3
	Rotation math.Quaternion
	Scale    math.Vec3
}

func NewTransform() Transform {
	return Transform{
		Position: math.Vec3Zero,
		Rotation: math.QuaternionIdentity(),
		Scale:    math.Vec3One,
	}
}

// Matrix returns the row-vector model matrix: scale, then rotate, then
// translate.
func (t Transform) Matrix() math.Mat4 {
	return math.Mat4TRS(t.Position, t.Rotation, t.Scale)
}

// Linear returns the matrix without its translation, for baking geometry
// whose translation is applied at intersection time.
func (t Transform) Linear() math.Mat4 {
	return math.Mat4TRS(math.Vec3Zero, t.Rotation, t.Scale)
}

func (t Transform) IsIdentityLinear() bool {
	return t.Rotation == math.QuaternionIdentity() && t.Scale == math.Vec3One
}

