package scene

import (
	"github.com/chewxy/math32"

	"path-tracer/math"
)

// meshBuilder accumulates flat-shaded or smooth geometry for the primitive
// constructors below.
type meshBuilder struct {
	positions []math.Vec3
	normals   []math.Vec3
	indices   []uint32
}

func (b *meshBuilder) vertex(p, n math.Vec3) uint32 {
	b.positions = append(b.positions, p)
	b.normals = append(b.normals, n)
	return uint32(len(b.positions) - 1)
}

// quad adds a flat quad with corners in counter-clockwise order.
func (b *meshBuilder) quad(p0, p1, p2, p3, n math.Vec3) {
	i0 := b.vertex(p0, n)
	i1 := b.vertex(p1, n)
	i2 := b.vertex(p2, n)
	i3 := b.vertex(p3, n)
	b.indices = append(b.indices, i0, i1, i2, i2, i3, i0)
}

// triangle adds a flat triangle with its face normal.
func (b *meshBuilder) triangle(p0, p1, p2 math.Vec3) {
	n := p1.Sub(p0).Cross(p2.Sub(p0)).Normalize()
	i0 := b.vertex(p0, n)
	i1 := b.vertex(p1, n)
	i2 := b.vertex(p2, n)
	b.indices = append(b.indices, i0, i1, i2)
}

func (b *meshBuilder) build(name string) *TriangleMesh {
	return NewTriangleMesh(name, b.positions, b.normals, b.indices)
}

// CreateQuad generates a unit quad in the XY plane facing +Z.
func CreateQuad(size float32) *TriangleMesh {
	s := size / 2
	var b meshBuilder
	b.quad(
		math.NewVec3(-s, -s, 0), math.NewVec3(s, -s, 0),
		math.NewVec3(s, s, 0), math.NewVec3(-s, s, 0),
		math.NewVec3(0, 0, 1),
	)
	return b.build("Quad")
}

// CreateCube generates an axis aligned cube with flat faces.
func CreateCube(size float32) *TriangleMesh {
	s := size / 2
	var b meshBuilder

	faces := []struct {
		n, u, v math.Vec3
	}{
		{math.NewVec3(0, 0, 1), math.NewVec3(1, 0, 0), math.NewVec3(0, 1, 0)},
		{math.NewVec3(0, 0, -1), math.NewVec3(-1, 0, 0), math.NewVec3(0, 1, 0)},
		{math.NewVec3(0, 1, 0), math.NewVec3(1, 0, 0), math.NewVec3(0, 0, -1)},
		{math.NewVec3(0, -1, 0), math.NewVec3(1, 0, 0), math.NewVec3(0, 0, 1)},
		{math.NewVec3(1, 0, 0), math.NewVec3(0, 0, -1), math.NewVec3(0, 1, 0)},
		{math.NewVec3(-1, 0, 0), math.NewVec3(0, 0, 1), math.NewVec3(0, 1, 0)},
	}

	for _, f := range faces {
		c := f.n.Mul(s)
		u := f.u.Mul(s)
		v := f.v.Mul(s)
		b.quad(
			c.Sub(u).Sub(v), c.Add(u).Sub(v),
			c.Add(u).Add(v), c.Sub(u).Add(v),
			f.n,
		)
	}
	return b.build("Cube")
}

// CreatePlane generates a subdivided plane in XZ facing +Y.
func CreatePlane(width, depth float32, subdivisions int) *TriangleMesh {
	if subdivisions < 1 {
		subdivisions = 1
	}

	var b meshBuilder
	halfW := width / 2
	halfD := depth / 2

	for z := 0; z <= subdivisions; z++ {
		for x := 0; x <= subdivisions; x++ {
			u := float32(x) / float32(subdivisions)
			v := float32(z) / float32(subdivisions)
			b.vertex(math.NewVec3(-halfW+u*width, 0, -halfD+v*depth), math.Vec3Up)
		}
	}

	for z := 0; z < subdivisions; z++ {
		for x := 0; x < subdivisions; x++ {
			topLeft := uint32(z*(subdivisions+1) + x)
			topRight := topLeft + 1
			bottomLeft := topLeft + uint32(subdivisions+1)
			bottomRight := bottomLeft + 1

			b.indices = append(b.indices, topLeft, bottomLeft, topRight)
			b.indices = append(b.indices, topRight, bottomLeft, bottomRight)
		}
	}
	return b.build("Plane")
}

// CreatePyramid generates a square based pyramid centred on the origin.
func CreatePyramid(width, height float32) *TriangleMesh {
	w := width / 2
	h := height / 2

	base := [4]math.Vec3{
		math.NewVec3(-w, -h, -w),
		math.NewVec3(w, -h, -w),
		math.NewVec3(w, -h, w),
		math.NewVec3(-w, -h, w),
	}
	tip := math.NewVec3(0, h, 0)

	var b meshBuilder
	b.quad(base[0], base[1], base[2], base[3], math.NewVec3(0, -1, 0))
	for i := 0; i < 4; i++ {
		b.triangle(base[(i+1)%4], base[i], tip)
	}
	return b.build("Pyramid")
}

// CreateSphere generates a smooth UV sphere.
func CreateSphere(radius float32, segments, rings int) *TriangleMesh {
	if segments < 3 {
		segments = 3
	}
	if rings < 2 {
		rings = 2
	}

	var b meshBuilder
	for ring := 0; ring <= rings; ring++ {
		phi := float32(ring) * math32.Pi / float32(rings)
		sinPhi, cosPhi := math32.Sin(phi), math32.Cos(phi)

		for seg := 0; seg <= segments; seg++ {
			theta := float32(seg) * 2 * math32.Pi / float32(segments)
			sinTheta, cosTheta := math32.Sin(theta), math32.Cos(theta)

			normal := math.NewVec3(sinPhi*cosTheta, cosPhi, sinPhi*sinTheta)
			b.vertex(normal.Mul(radius), normal)
		}
	}

	for ring := 0; ring < rings; ring++ {
		for seg := 0; seg < segments; seg++ {
			current := uint32(ring*(segments+1) + seg)
			next := current + uint32(segments+1)

			b.indices = append(b.indices, current, next, current+1)
			b.indices = append(b.indices, current+1, next, next+1)
		}
	}
	return b.build("Sphere")
}
