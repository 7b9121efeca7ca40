// Package raycast holds the ray/primitive intersection routines shared by the
// path tracer and the editor picking code. Every function is pure and safe to
// call from any number of goroutines.
package raycast

import (
	"github.com/chewxy/math32"

	"path-tracer/math"
)

// TriangleEpsilon rejects rays parallel to a triangle and hits too close to
// the ray origin.
const TriangleEpsilon = 1e-7

// Ray represents a ray in 3D space. Direction does not need to be normalized
// but distances are reported in multiples of its length.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// InverseDirection returns the per-axis reciprocal of the direction used by
// the slab test. Zero components become signed infinities.
func (r Ray) InverseDirection() math.Vec3 {
	return math.Vec3{X: 1 / r.Direction.X, Y: 1 / r.Direction.Y, Z: 1 / r.Direction.Z}
}

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min math.Vec3
	Max math.Vec3
}

// EmptyAABB returns an inverted box that any Extend call will replace.
func EmptyAABB() AABB {
	return AABB{
		Min: math.Splat(math32.MaxFloat32),
		Max: math.Splat(-math32.MaxFloat32),
	}
}

// Extend grows the box to contain p.
func (b AABB) Extend(p math.Vec3) AABB {
	return AABB{Min: b.Min.Min(p), Max: b.Max.Max(p)}
}

// Intersect runs the slab test. invDir must be ray.InverseDirection().
// Boxes entirely behind the origin are rejected. Rays lying in a face plane
// count as inside that slab.
func (b AABB) Intersect(ray Ray, invDir math.Vec3) bool {
	tmin, tmax := slab(b.Min.X, b.Max.X, ray.Origin.X, invDir.X)

	t1, t2 := slab(b.Min.Y, b.Max.Y, ray.Origin.Y, invDir.Y)
	tmin = math32.Max(tmin, t1)
	tmax = math32.Min(tmax, t2)

	t1, t2 = slab(b.Min.Z, b.Max.Z, ray.Origin.Z, invDir.Z)
	tmin = math32.Max(tmin, t1)
	tmax = math32.Min(tmax, t2)

	return tmax >= math32.Max(tmin, 0)
}

// slab returns the entry and exit distances for one axis. A zero direction
// with the origin on a bounding plane yields 0*Inf = NaN; the ray then runs
// inside the plane and the slab does not constrain it.
func slab(lo, hi, origin, inv float32) (float32, float32) {
	t1 := (lo - origin) * inv
	t2 := (hi - origin) * inv
	if math32.IsNaN(t1) || math32.IsNaN(t2) {
		return math32.Inf(-1), math32.Inf(1)
	}
	return math32.Min(t1, t2), math32.Max(t1, t2)
}

// Sphere solves |o + t*d - c|^2 = r^2 for t. It returns both roots, nearest
// first. A negative discriminant is a miss. Callers decide what to do with
// roots behind the origin.
func Sphere(ray Ray, center math.Vec3, radius float32) (near, far float32, ok bool) {
	oc := ray.Origin.Sub(center)

	a := ray.Direction.Dot(ray.Direction)
	b := 2 * oc.Dot(ray.Direction)
	c := oc.Dot(oc) - radius*radius

	discriminant := b*b - 4*a*c
	if discriminant < 0 || a == 0 {
		return 0, 0, false
	}

	sqrtD := math32.Sqrt(discriminant)
	near = (-b - sqrtD) / (2 * a)
	far = (-b + sqrtD) / (2 * a)
	return near, far, true
}

// TriangleHit describes a ray/triangle hit. U and V weight the second and
// third vertex respectively.
type TriangleHit struct {
	Distance float32
	U, V     float32
}

// Weights returns the barycentric weights of the three vertices.
func (h TriangleHit) Weights() (w0, w1, w2 float32) {
	return 1 - h.U - h.V, h.U, h.V
}

// Triangle implements the Moller-Trumbore ray-triangle intersection. Only
// hits in front of the origin are reported.
func Triangle(ray Ray, v0, v1, v2 math.Vec3) (TriangleHit, bool) {
	edge1 := v1.Sub(v0)
	edge2 := v2.Sub(v0)
	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)

	if a > -TriangleEpsilon && a < TriangleEpsilon {
		return TriangleHit{}, false // parallel
	}

	f := 1.0 / a
	s := ray.Origin.Sub(v0)
	u := f * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return TriangleHit{}, false
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return TriangleHit{}, false
	}

	t := f * edge2.Dot(q)
	if t <= TriangleEpsilon {
		return TriangleHit{}, false
	}
	return TriangleHit{Distance: t, U: u, V: v}, true
}
