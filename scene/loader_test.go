package scene

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"path-tracer/math"
)

const testOBJ = `# two objects
mtllib box.mtl
o tri
v 0 0 0
v 1 0 0
v 0 1 0
vn 0 0 1
usemtl glow
f 1//1 2//1 3//1
o quad
v 0 0 -1
v 1 0 -1
v 1 1 -1
v 0 1 -1
usemtl matte
f -4 -3 -2 -1
`

const testMTL = `newmtl glow
Kd 1 1 1
Ke 4 3 2
newmtl matte
Kd 0.5 0.25 0.125
Ns 0
Pm 0.5
`

func TestLoadOBJ(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "box.obj"), []byte(testOBJ), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "box.mtl"), []byte(testMTL), 0o644); err != nil {
		t.Fatal(err)
	}

	model, err := LoadOBJ(filepath.Join(dir, "box.obj"))
	if err != nil {
		t.Fatal(err)
	}

	if exp := 2; len(model.Meshes) != exp {
		t.Fatalf("expected %d meshes; got %d", exp, len(model.Meshes))
	}

	tri, quad := model.Meshes[0], model.Meshes[1]
	if tri.TriangleCount() != 1 || quad.TriangleCount() != 2 {
		t.Errorf("expected 1 and 2 triangles; got %d and %d", tri.TriangleCount(), quad.TriangleCount())
	}
	if tri.Normals[0] != math.NewVec3(0, 0, 1) {
		t.Errorf("expected file normal; got %v", tri.Normals[0])
	}
	// The quad has no normals in the file so they are generated.
	for i, n := range quad.Normals {
		if !approxVec3(n, math.NewVec3(0, 0, 1), 1e-6) && !approxVec3(n, math.NewVec3(0, 0, -1), 1e-6) {
			t.Errorf("expected generated normal %d along Z; got %v", i, n)
		}
	}
	if quad.AABB.Min != math.NewVec3(0, 0, -1) || quad.AABB.Max != math.NewVec3(1, 1, -1) {
		t.Errorf("unexpected quad AABB %v-%v", quad.AABB.Min, quad.AABB.Max)
	}

	glow := model.Materials[tri.MaterialIndex]
	if glow.Emission() != math.NewVec3(4, 3, 2) {
		t.Errorf("expected emission (4,3,2); got %v", glow.Emission())
	}
	matte := model.Materials[quad.MaterialIndex]
	if matte.Albedo != math.NewVec3(0.5, 0.25, 0.125) || matte.Roughness != 1 || matte.Metallic != 0.5 {
		t.Errorf("unexpected matte material %+v", matte)
	}

	s := NewScene()
	s.AddModel(model)
	if err := s.Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestParseOBJErrors(t *testing.T) {
	specs := []struct {
		name string
		src  string
		exp  string
	}{
		{"empty", "# nothing\n", "no geometry"},
		{"bad index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 9\n", "vertex index"},
	}

	for _, s := range specs {
		t.Run(s.name, func(t *testing.T) {
			_, err := ParseOBJ(strings.NewReader(s.src), ".")
			if err == nil || !strings.Contains(err.Error(), s.exp) {
				t.Fatalf("expected error containing %q; got %v", s.exp, err)
			}
		})
	}
}

func TestBuildGLTFModel(t *testing.T) {
	doc := gltf.NewDocument()

	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	norm := modeler.WriteNormal(doc, [][3]float32{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}})
	idx := modeler.WriteIndices(doc, []uint16{0, 1, 2})

	doc.Materials = []*gltf.Material{{
		Name: "emitter",
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float64{0.5, 0.5, 0.5, 1},
		},
		EmissiveFactor: [3]float64{1, 0, 0},
	}}
	doc.Meshes = []*gltf.Mesh{{
		Name: "tri",
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(idx),
			Attributes: map[string]int{"POSITION": pos, "NORMAL": norm},
			Material:   gltf.Index(0),
		}},
	}}
	doc.Nodes = []*gltf.Node{
		{Name: "parent", Translation: [3]float64{0, 0, -5}, Children: []int{1}},
		{Name: "child", Mesh: gltf.Index(0), Scale: [3]float64{2, 2, 2}},
	}
	doc.Scenes[0].Nodes = []int{0}

	model, err := buildGLTFModel(doc)
	if err != nil {
		t.Fatal(err)
	}
	if exp := 1; len(model.Meshes) != exp {
		t.Fatalf("expected %d mesh; got %d", exp, len(model.Meshes))
	}

	mesh := model.Meshes[0]
	if mesh.Transform.Position != math.NewVec3(0, 0, -5) {
		t.Errorf("expected world translation (0,0,-5); got %v", mesh.Transform.Position)
	}
	if mesh.Positions[1] != math.NewVec3(2, 0, 0) {
		t.Errorf("expected scale baked into positions; got %v", mesh.Positions[1])
	}
	if !approxVec3(mesh.Normals[0], math.NewVec3(0, 0, 1), 1e-6) {
		t.Errorf("expected unit normal; got %v", mesh.Normals[0])
	}

	mat := model.Materials[mesh.MaterialIndex]
	if mat.Albedo != math.NewVec3(0.5, 0.5, 0.5) || mat.Emission() != math.NewVec3(1, 0, 0) {
		t.Errorf("unexpected material %+v", mat)
	}
}
