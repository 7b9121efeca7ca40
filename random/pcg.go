// Package random provides the hash based generator used to perturb bounce
// directions. It is deterministic for a given seed and is not suitable for
// anything security related.
package random

import "path-tracer/math"

// PCGHash advances a 32-bit state by one step of the PCG-RXS-M-XS hash.
func PCGHash(input uint32) uint32 {
	state := input*747796405 + 2891336453
	word := ((state >> ((state >> 28) + 4)) ^ state) * 277803737
	return (word >> 22) ^ word
}

// WangHash scrambles a seed so that consecutive inputs produce unrelated
// outputs.
func WangHash(seed uint32) uint32 {
	seed = (seed ^ 61) ^ (seed >> 16)
	seed *= 9
	seed ^= seed >> 4
	seed *= 0x27d4eb2d
	seed ^= seed >> 15
	return seed
}

// Seed derives the starting state for one primary ray from its pixel index,
// the accumulation frame, the ray number within the pixel and a base seed.
func Seed(pixel, frame, ray, base uint32) uint32 {
	s := WangHash(pixel + WangHash(frame+WangHash(ray+WangHash(base))))
	if s == 0 {
		s = 1
	}
	return s
}

// PCG is a generator whose whole state is a single uint32. The zero value
// is usable but every zero-valued generator yields the same sequence.
type PCG struct {
	state uint32
}

func New(seed uint32) *PCG {
	return &PCG{state: seed}
}

// Reset replaces the generator state.
func (p *PCG) Reset(seed uint32) {
	p.state = seed
}

func (p *PCG) Uint32() uint32 {
	p.state = PCGHash(p.state)
	return p.state
}

// Float32 returns a value in [0, 1).
func (p *PCG) Float32() float32 {
	return unitFloat(p.Uint32())
}

// unitFloat keeps the top 24 bits so every result is exactly representable
// and below 1.
func unitFloat(u uint32) float32 {
	return float32(u>>8) / (1 << 24)
}

// Range returns a value in [lo, hi).
func (p *PCG) Range(lo, hi float32) float32 {
	return lo + p.Float32()*(hi-lo)
}

func (p *PCG) Vec3(lo, hi float32) math.Vec3 {
	return math.Vec3{X: p.Range(lo, hi), Y: p.Range(lo, hi), Z: p.Range(lo, hi)}
}

// InUnitSphere returns a random unit vector built from three components in
// [-1, 1). The rare all-zero draw is returned as is.
func (p *PCG) InUnitSphere() math.Vec3 {
	return p.Vec3(-1, 1).Normalize()
}
