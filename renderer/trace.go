package renderer

import (
	"github.com/chewxy/math32"

	"path-tracer/math"
	"path-tracer/random"
	"path-tracer/raycast"
	"path-tracer/scene"
)

// SurfaceOffset moves bounce origins off the surface along the normal.
const SurfaceOffset = 1e-4

// HitKind identifies the primitive type of a hit.
type HitKind uint8

const (
	HitSphere HitKind = iota
	HitMesh
)

// HitPayload describes the closest intersection along a ray.
type HitPayload struct {
	Distance      float32
	WorldPosition math.Vec3
	WorldNormal   math.Vec3

	Kind HitKind

	// ObjectIndex indexes Scene.Spheres or Scene.Meshes depending on Kind.
	ObjectIndex   int
	MaterialIndex int
}

type meshHit struct {
	raycast.TriangleHit
	mesh     int
	triangle int
}

// TraceRay returns the closest hit in front of the ray origin. Spheres and
// meshes are resolved separately and the nearer candidate wins; on an exact
// tie the sphere wins.
func TraceRay(sc *scene.Scene, ray raycast.Ray) (HitPayload, bool) {
	sphereIdx, sphereT := closestSphere(sc, ray)
	mh := closestMesh(sc, ray)

	switch {
	case mh.mesh >= 0 && (sphereIdx < 0 || mh.Distance < sphereT):
		return meshPayload(sc, ray, mh), true
	case sphereIdx >= 0:
		return spherePayload(sc, ray, sphereIdx, sphereT), true
	}
	return HitPayload{}, false
}

func closestSphere(sc *scene.Scene, ray raycast.Ray) (int, float32) {
	closest := -1
	hitDistance := float32(math32.MaxFloat32)

	for i := range sc.Spheres {
		sp := &sc.Spheres[i]
		near, _, ok := raycast.Sphere(ray, sp.Position, sp.Radius)
		if !ok || near <= 0 {
			continue
		}
		if near < hitDistance {
			hitDistance = near
			closest = i
		}
	}
	return closest, hitDistance
}

// closestMesh tests every mesh in its local frame: only the mesh translation
// is applied, by moving the ray origin.
func closestMesh(sc *scene.Scene, ray raycast.Ray) meshHit {
	best := meshHit{mesh: -1}
	best.Distance = math32.MaxFloat32
	if len(sc.Meshes) == 0 {
		return best
	}

	invDir := ray.InverseDirection()
	for i, mesh := range sc.Meshes {
		local := raycast.Ray{
			Origin:    ray.Origin.Sub(mesh.Transform.Position),
			Direction: ray.Direction,
		}
		if !mesh.AABB.Intersect(local, invDir) {
			continue
		}

		for t := 0; t < mesh.TriangleCount(); t++ {
			i0, i1, i2 := mesh.Triangle(t)
			hit, ok := raycast.Triangle(local, mesh.Positions[i0], mesh.Positions[i1], mesh.Positions[i2])
			if ok && hit.Distance < best.Distance {
				best = meshHit{TriangleHit: hit, mesh: i, triangle: t}
			}
		}
	}
	return best
}

func spherePayload(sc *scene.Scene, ray raycast.Ray, idx int, t float32) HitPayload {
	sp := &sc.Spheres[idx]
	pos := ray.At(t)
	return HitPayload{
		Distance:      t,
		WorldPosition: pos,
		WorldNormal:   pos.Sub(sp.Position).Normalize(),
		Kind:          HitSphere,
		ObjectIndex:   idx,
		MaterialIndex: sp.MaterialIndex,
	}
}

// meshPayload interpolates the vertex normals with the hit barycentrics.
func meshPayload(sc *scene.Scene, ray raycast.Ray, mh meshHit) HitPayload {
	mesh := sc.Meshes[mh.mesh]
	w0, w1, w2 := mh.Weights()

	i0, i1, i2 := mesh.Triangle(mh.triangle)
	n0, n1, n2 := mesh.Normals[i0], mesh.Normals[i1], mesh.Normals[i2]
	normal := n0.Mul(w0).Add(n1.Mul(w1)).Add(n2.Mul(w2)).Normalize()

	return HitPayload{
		Distance:      mh.Distance,
		WorldPosition: ray.At(mh.Distance),
		WorldNormal:   normal,
		Kind:          HitMesh,
		ObjectIndex:   mh.mesh,
		MaterialIndex: mesh.MaterialIndex,
	}
}

// perPixel follows one path for at most Bounces segments and returns the
// gathered radiance together with the number of segments traced.
func (r *Renderer) perPixel(sc *scene.Scene, ray raycast.Ray, rng *random.PCG) (math.Vec3, int) {
	var light math.Vec3
	multiplier := float32(1)

	bounces := r.settings.Bounces
	for i := 0; i < bounces; i++ {
		payload, ok := TraceRay(sc, ray)
		if !ok {
			light = light.Add(sc.Sky.Sample(ray.Direction).Mul(multiplier))
			return light, i + 1
		}

		mat := &sc.Materials[payload.MaterialIndex]
		normal := payload.WorldNormal

		light = light.Add(mat.Emission().Mul(multiplier))
		light = light.Add(mat.Albedo.Mul(sc.Lambert(normal) * multiplier))
		multiplier *= 0.5

		ray.Origin = payload.WorldPosition.Add(normal.Mul(SurfaceOffset))
		ray.Direction = bounceDirection(ray.Direction, normal, mat.Roughness, rng)
	}
	return light, bounces
}

// bounceDirection reflects dir about the normal perturbed by roughness. A
// degenerate result falls back to the unperturbed normal.
func bounceDirection(dir, normal math.Vec3, roughness float32, rng *random.PCG) math.Vec3 {
	perturbed := normal
	if roughness != 0 {
		perturbed = normal.Add(rng.InUnitSphere().Mul(roughness))
	}
	if perturbed.LengthSqr() == 0 {
		perturbed = normal
	}

	out := dir.Reflect(perturbed.Normalize())
	if out.LengthSqr() == 0 {
		return normal
	}
	return out.Normalize()
}
