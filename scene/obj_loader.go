package scene

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chewxy/math32"

	"path-tracer/math"
)

// Model is the result of importing a file: meshes whose MaterialIndex points
// into Materials. Use Scene.AddModel to merge it into a scene.
type Model struct {
	Meshes    []*TriangleMesh
	Materials []Material
}

// AddModel appends the model's materials and meshes, remapping each mesh's
// material index. Meshes referencing no material get a default one.
func (s *Scene) AddModel(m *Model) {
	base := len(s.Materials)
	s.Materials = append(s.Materials, m.Materials...)

	fallback := -1
	for _, mesh := range m.Meshes {
		if mesh.MaterialIndex < 0 || mesh.MaterialIndex >= len(m.Materials) {
			if fallback < 0 {
				fallback = s.AddMaterial(DefaultMaterial())
			}
			mesh.MaterialIndex = fallback
		} else {
			mesh.MaterialIndex += base
		}
		s.AddMesh(mesh)
	}
}

type objVertex struct {
	v, vn int // 0-based, -1 when absent
}

type objObject struct {
	name    string
	matName string
	faces   [][3]objVertex
}

// LoadOBJ parses a Wavefront .obj file. Each object or group becomes one
// mesh. Materials come from any referenced .mtl file.
func LoadOBJ(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj %q: %w", path, err)
	}
	defer f.Close()

	model, err := ParseOBJ(f, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("parse obj %q: %w", path, err)
	}
	return model, nil
}

// ParseOBJ reads OBJ data from r. mtllib paths are resolved against dir.
func ParseOBJ(r io.Reader, dir string) (*Model, error) {
	var positions []math.Vec3
	var normals []math.Vec3

	materials := map[string]Material{}
	var objects []objObject
	cur := &objObject{name: "default"}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "v":
			if len(fields) >= 4 {
				positions = append(positions, parseVec3(fields[1:4]))
			}

		case "vn":
			if len(fields) >= 4 {
				normals = append(normals, parseVec3(fields[1:4]))
			}

		case "o", "g":
			if len(cur.faces) > 0 {
				objects = append(objects, *cur)
			}
			name := "default"
			if len(fields) > 1 {
				name = fields[1]
			}
			cur = &objObject{name: name, matName: cur.matName}

		case "usemtl":
			if len(fields) > 1 {
				if len(cur.faces) > 0 && fields[1] != cur.matName {
					objects = append(objects, *cur)
					cur = &objObject{name: cur.name + "." + fields[1]}
				}
				cur.matName = fields[1]
			}

		case "mtllib":
			if len(fields) > 1 {
				loaded, err := loadMTL(filepath.Join(dir, fields[1]))
				if err != nil {
					return nil, err
				}
				for k, v := range loaded {
					materials[k] = v
				}
			}

		case "f":
			if len(fields) < 4 {
				continue
			}
			verts := make([]objVertex, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				verts = append(verts, parseFaceVertex(tok, len(positions), len(normals)))
			}
			for i := 1; i+1 < len(verts); i++ {
				cur.faces = append(cur.faces, [3]objVertex{verts[0], verts[i], verts[i+1]})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan obj: %w", err)
	}

	if len(cur.faces) > 0 {
		objects = append(objects, *cur)
	}
	if len(objects) == 0 {
		return nil, fmt.Errorf("no geometry found")
	}

	model := &Model{}
	matIndex := map[string]int{}
	for _, obj := range objects {
		mesh, err := buildOBJMesh(obj, positions, normals)
		if err != nil {
			return nil, err
		}

		mesh.MaterialIndex = -1
		if mat, ok := materials[obj.matName]; ok {
			idx, seen := matIndex[obj.matName]
			if !seen {
				idx = len(model.Materials)
				model.Materials = append(model.Materials, mat)
				matIndex[obj.matName] = idx
			}
			mesh.MaterialIndex = idx
		}
		model.Meshes = append(model.Meshes, mesh)
	}
	return model, nil
}

// parseFaceVertex parses "v", "v/vt", "v//vn" or "v/vt/vn". Negative indices
// are relative to the end of the lists read so far.
func parseFaceVertex(tok string, numPositions, numNormals int) objVertex {
	resolve := func(s string, count int) int {
		if s == "" {
			return -1
		}
		n, err := strconv.Atoi(s)
		switch {
		case err != nil || n == 0:
			return -1
		case n > 0:
			return n - 1
		default:
			return count + n
		}
	}

	parts := strings.Split(tok, "/")
	res := objVertex{v: resolve(parts[0], numPositions), vn: -1}
	if len(parts) > 2 {
		res.vn = resolve(parts[2], numNormals)
	}
	return res
}

func buildOBJMesh(obj objObject, positions, normals []math.Vec3) (*TriangleMesh, error) {
	vertMap := map[objVertex]uint32{}
	var outPos, outNorm []math.Vec3
	var indices []uint32
	missingNormals := false

	for _, face := range obj.faces {
		for _, fv := range face {
			if fv.v < 0 || fv.v >= len(positions) {
				return nil, fmt.Errorf("object %q: %w: %d", obj.name, ErrVertexIndex, fv.v+1)
			}
			if idx, ok := vertMap[fv]; ok {
				indices = append(indices, idx)
				continue
			}

			n := math.Vec3Up
			if fv.vn >= 0 && fv.vn < len(normals) {
				n = normals[fv.vn].Normalize()
			} else {
				missingNormals = true
			}

			idx := uint32(len(outPos))
			outPos = append(outPos, positions[fv.v])
			outNorm = append(outNorm, n)
			vertMap[fv] = idx
			indices = append(indices, idx)
		}
	}

	mesh := NewTriangleMesh(obj.name, outPos, outNorm, indices)
	if missingNormals {
		mesh.ComputeNormals()
	}
	return mesh, nil
}

func parseVec3(fields []string) math.Vec3 {
	return math.NewVec3(parseFloat(fields[0]), parseFloat(fields[1]), parseFloat(fields[2]))
}

func parseFloat(s string) float32 {
	f, _ := strconv.ParseFloat(s, 32)
	return float32(f)
}

// loadMTL reads the materials of an .mtl file. Kd is the albedo, Ke the
// emissive colour, Pr/Pm the PBR roughness and metallic extensions. Without Pr
// the roughness is derived from the Ns specular exponent.
func loadMTL(path string) (map[string]Material, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mtl %q: %w", path, err)
	}
	defer f.Close()

	mats := map[string]Material{}
	var order []string
	var cur *Material
	hasPr := map[string]bool{}

	flush := func() {
		if cur != nil {
			mats[cur.Name] = *cur
		}
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		if fields[0] == "newmtl" {
			flush()
			if len(fields) < 2 {
				cur = nil
				continue
			}
			m := DefaultMaterial()
			m.Name = fields[1]
			cur = &m
			order = append(order, m.Name)
			continue
		}
		if cur == nil {
			continue
		}

		switch fields[0] {
		case "Kd":
			if len(fields) >= 4 {
				cur.Albedo = parseVec3(fields[1:4])
			}
		case "Ke":
			if len(fields) >= 4 {
				cur.EmissiveColor = parseVec3(fields[1:4])
				if !cur.EmissiveColor.IsZero() {
					cur.EmissiveIntensity = 1
				}
			}
		case "Ns":
			if len(fields) >= 2 && !hasPr[cur.Name] {
				ns := math32.Max(parseFloat(fields[1]), 0)
				cur.Roughness = math.Clamp(math32.Sqrt(2/(ns+2)), 0, 1)
			}
		case "Pr":
			if len(fields) >= 2 {
				cur.Roughness = math.Clamp(parseFloat(fields[1]), 0, 1)
				hasPr[cur.Name] = true
			}
		case "Pm":
			if len(fields) >= 2 {
				cur.Metallic = math.Clamp(parseFloat(fields[1]), 0, 1)
			}
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan mtl: %w", err)
	}
	logger.Debugf("loaded %d materials from %s: %v", len(order), path, order)
	return mats, nil
}
