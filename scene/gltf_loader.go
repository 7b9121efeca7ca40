package scene

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"path-tracer/math"
)

// LoadGLTF imports the triangle primitives of a .gltf or .glb file. Node
// hierarchies are flattened: rotation and scale are baked into each mesh and
// the world translation becomes the mesh's Transform.Position.
func LoadGLTF(path string) (*Model, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}

	model, err := buildGLTFModel(doc)
	if err != nil {
		return nil, fmt.Errorf("gltf %q: %w", path, err)
	}
	return model, nil
}

func buildGLTFModel(doc *gltf.Document) (*Model, error) {
	model := &Model{
		Materials: make([]Material, len(doc.Materials)),
	}

	for i, gm := range doc.Materials {
		model.Materials[i] = gltfMaterial(gm)
	}

	var visit func(idx int, parent math.Mat4)
	visit = func(idx int, parent math.Mat4) {
		if idx < 0 || idx >= len(doc.Nodes) {
			return
		}
		gn := doc.Nodes[idx]
		world := gltfLocalMatrix(gn).Mul(parent)

		if gn.Mesh != nil && *gn.Mesh < len(doc.Meshes) {
			gm := doc.Meshes[*gn.Mesh]
			for pi, prim := range gm.Primitives {
				mesh, err := loadGLTFPrimitive(doc, gm.Name, pi, prim)
				if err != nil {
					logger.Warningf("gltf: node %d mesh %d prim %d: %v", idx, *gn.Mesh, pi, err)
					continue
				}
				applyWorldMatrix(mesh, world)

				mesh.MaterialIndex = -1
				if prim.Material != nil && *prim.Material < len(model.Materials) {
					mesh.MaterialIndex = *prim.Material
				}
				model.Meshes = append(model.Meshes, mesh)
			}
		}

		for _, child := range gn.Children {
			visit(child, world)
		}
	}

	for _, root := range gltfRoots(doc) {
		visit(root, math.Mat4Identity())
	}

	if len(model.Meshes) == 0 {
		return nil, fmt.Errorf("no triangle geometry found")
	}
	return model, nil
}

// gltfRoots returns the nodes of the default scene, or every parentless node
// when the document has none.
func gltfRoots(doc *gltf.Document) []int {
	if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
		return doc.Scenes[*doc.Scene].Nodes
	}

	hasParent := make([]bool, len(doc.Nodes))
	for _, gn := range doc.Nodes {
		for _, c := range gn.Children {
			if c < len(hasParent) {
				hasParent[c] = true
			}
		}
	}

	var roots []int
	for i := range doc.Nodes {
		if !hasParent[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

// gltfLocalMatrix converts a node transform to a row-vector matrix. glTF
// stores matrices column-major, which is the row-vector layout read row by row.
func gltfLocalMatrix(gn *gltf.Node) math.Mat4 {
	m := gn.MatrixOrDefault()
	if m != gltf.DefaultMatrix {
		var out math.Mat4
		for i := 0; i < 16; i++ {
			out[i/4][i%4] = float32(m[i])
		}
		return out
	}

	t := gn.TranslationOrDefault()
	r := gn.RotationOrDefault() // [x, y, z, w]
	s := gn.ScaleOrDefault()
	return math.Mat4TRS(
		math.NewVec3(float32(t[0]), float32(t[1]), float32(t[2])),
		math.Quaternion{X: float32(r[0]), Y: float32(r[1]), Z: float32(r[2]), W: float32(r[3])},
		math.NewVec3(float32(s[0]), float32(s[1]), float32(s[2])),
	)
}

// applyWorldMatrix bakes the linear part of world into the mesh and keeps
// its translation on the transform.
func applyWorldMatrix(mesh *TriangleMesh, world math.Mat4) {
	normalMat := world.Inverse().Transpose()
	for i, p := range mesh.Positions {
		mesh.Positions[i] = world.MulDirection(p)
	}
	for i, n := range mesh.Normals {
		mesh.Normals[i] = normalMat.MulDirection(n).Normalize()
	}
	mesh.Transform.Position = math.NewVec3(world[3][0], world[3][1], world[3][2])
	mesh.RecomputeAABB()
}

func gltfMaterial(gm *gltf.Material) Material {
	mat := DefaultMaterial()
	mat.Name = gm.Name

	if pbr := gm.PBRMetallicRoughness; pbr != nil {
		cf := pbr.BaseColorFactorOrDefault()
		mat.Albedo = math.NewVec3(float32(cf[0]), float32(cf[1]), float32(cf[2]))
		mat.Roughness = float32(pbr.RoughnessFactorOrDefault())
		mat.Metallic = float32(pbr.MetallicFactorOrDefault())
	}

	e := gm.EmissiveFactor
	mat.EmissiveColor = math.NewVec3(float32(e[0]), float32(e[1]), float32(e[2]))
	if !mat.EmissiveColor.IsZero() {
		mat.EmissiveIntensity = 1
	}
	return mat
}

// loadGLTFPrimitive converts one glTF triangle primitive into a mesh.
func loadGLTFPrimitive(doc *gltf.Document, meshName string, primIdx int, prim *gltf.Primitive) (*TriangleMesh, error) {
	if prim.Mode != gltf.PrimitiveTriangles {
		return nil, fmt.Errorf("unsupported primitive mode %v", prim.Mode)
	}

	name := fmt.Sprintf("%s_p%d", meshName, primIdx)
	if meshName == "" {
		name = fmt.Sprintf("prim_%d", primIdx)
	}

	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, fmt.Errorf("no POSITION attribute")
	}
	rawPos, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}

	var rawNorm [][3]float32
	if idx, ok := prim.Attributes["NORMAL"]; ok {
		rawNorm, err = modeler.ReadNormal(doc, doc.Accessors[idx], nil)
		if err != nil {
			return nil, fmt.Errorf("normals: %w", err)
		}
	}

	positions := make([]math.Vec3, len(rawPos))
	for i, p := range rawPos {
		positions[i] = math.NewVec3(p[0], p[1], p[2])
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	mesh := NewTriangleMesh(name, positions, nil, indices)
	if len(rawNorm) == len(positions) {
		mesh.Normals = make([]math.Vec3, len(rawNorm))
		for i, n := range rawNorm {
			mesh.Normals[i] = math.NewVec3(n[0], n[1], n[2]).Normalize()
		}
	} else {
		mesh.ComputeNormals()
	}
	return mesh, nil
}
