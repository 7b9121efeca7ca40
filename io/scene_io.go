package io

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"path-tracer/core"
	"path-tracer/math"
	"path-tracer/renderer"
	"path-tracer/scene"
)

// FormatVersion is written to every saved scene file.
const FormatVersion = "1.0"

// Mesh types understood by SceneFile.
const (
	MeshCube    = "cube"
	MeshQuad    = "quad"
	MeshPlane   = "plane"
	MeshPyramid = "pyramid"
	MeshSphere  = "sphere"
	MeshOBJ     = "obj"
	MeshGLTF    = "gltf"
	MeshInline  = "inline"
)

var (
	ErrUnknownMeshType = errors.New("io: unknown mesh type")
	ErrMissingMeshFile = errors.New("io: mesh file not set")
)

// SceneFile is the JSON scene description.
type SceneFile struct {
	Version   string         `json:"version"`
	Name      string         `json:"name,omitempty"`
	Camera    CameraData     `json:"camera"`
	Sky       SkyData        `json:"sky"`
	Lights    []LightData    `json:"lights,omitempty"`
	Materials []MaterialData `json:"materials"`
	Spheres   []SphereData   `json:"spheres,omitempty"`
	Meshes    []MeshData     `json:"meshes,omitempty"`
	Settings  SettingsData   `json:"settings"`
}

// CameraData stores camera state. Zero FOV and clip planes select the
// defaults.
type CameraData struct {
	Position [3]float32 `json:"position"`
	Forward  [3]float32 `json:"forward"`
	FOV      float32    `json:"fov,omitempty"`
	Near     float32    `json:"near,omitempty"`
	Far      float32    `json:"far,omitempty"`
}

// SkyData stores the background gradient
type SkyData struct {
	Zenith  [3]float32 `json:"zenith"`
	Horizon [3]float32 `json:"horizon"`
	Ground  [3]float32 `json:"ground"`
}

// LightData stores a directional light
type LightData struct {
	Direction [3]float32 `json:"direction"`
	Intensity float32    `json:"intensity"`
}

// MaterialData stores material properties
type MaterialData struct {
	Name              string     `json:"name"`
	Albedo            [3]float32 `json:"albedo"`
	Roughness         float32    `json:"roughness"`
	Metallic          float32    `json:"metallic,omitempty"`
	EmissiveColor     [3]float32 `json:"emissive_color"`
	EmissiveIntensity float32    `json:"emissive_intensity,omitempty"`
}

// SphereData stores an analytic sphere
type SphereData struct {
	Position [3]float32 `json:"position"`
	Radius   float32    `json:"radius"`
	Material int        `json:"material"`
}

// MeshData describes one mesh: a generated primitive, an imported file or
// inline geometry. Rotation is a quaternion (x,y,z,w); an all-zero rotation
// or scale means identity. Material -1 keeps the materials of imported
// files.
type MeshData struct {
	Name     string     `json:"name,omitempty"`
	Type     string     `json:"type"`
	File     string     `json:"file,omitempty"`
	Position [3]float32 `json:"position"`
	Rotation [4]float32 `json:"rotation"`
	Scale    [3]float32 `json:"scale"`
	Material int        `json:"material"`

	// Primitive parameters
	Size         float32 `json:"size,omitempty"`
	Width        float32 `json:"width,omitempty"`
	Depth        float32 `json:"depth,omitempty"`
	Height       float32 `json:"height,omitempty"`
	Subdivisions int     `json:"subdivisions,omitempty"`
	Segments     int     `json:"segments,omitempty"`
	Rings        int     `json:"rings,omitempty"`

	// Inline geometry
	Positions [][3]float32 `json:"positions,omitempty"`
	Normals   [][3]float32 `json:"normals,omitempty"`
	Indices   []uint32     `json:"indices,omitempty"`
}

// SettingsData stores render preferences. Unset values keep the defaults.
type SettingsData struct {
	Bounces      int     `json:"bounces,omitempty"`
	RaysPerPixel int     `json:"rays_per_pixel,omitempty"`
	Accumulate   *bool   `json:"accumulate,omitempty"`
	RenderScale  float32 `json:"render_scale,omitempty"`
	Seed         uint32  `json:"seed,omitempty"`
}

// Loaded is a scene file turned into live objects.
type Loaded struct {
	Scene       *scene.Scene
	Camera      *scene.Camera
	Settings    renderer.Settings
	RenderScale float32
}

// SaveScene serializes scene data to a JSON file
func SaveScene(path string, file *SceneFile) error {
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal scene: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write scene %q: %w", path, err)
	}
	return nil
}

// LoadScene deserializes a JSON scene file
func LoadScene(path string) (*SceneFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene %q: %w", path, err)
	}

	file := &SceneFile{}
	if err := json.Unmarshal(data, file); err != nil {
		return nil, fmt.Errorf("parse scene %q: %w", path, err)
	}
	return file, nil
}

// Open loads and builds a scene file. Mesh files are resolved relative to
// the scene file's directory.
func Open(path string) (*Loaded, error) {
	file, err := LoadScene(path)
	if err != nil {
		return nil, err
	}
	return file.Build(filepath.Dir(path))
}

// NewDefaultSceneFile describes the built-in scene.
func NewDefaultSceneFile() *SceneFile {
	cam := scene.NewCamera(scene.DefaultVerticalFOV, scene.DefaultNearClip, scene.DefaultFarClip)
	return FromScene(scene.DefaultScene(), cam, renderer.DefaultSettings(), renderer.DefaultRenderScale)
}

// Build creates the scene, camera and render settings and validates the
// result.
func (f *SceneFile) Build(baseDir string) (*Loaded, error) {
	s := scene.NewScene()
	s.Sky = scene.Sky{
		ZenithColor:  ArrayToVec3(f.Sky.Zenith),
		HorizonColor: ArrayToVec3(f.Sky.Horizon),
		GroundColor:  ArrayToVec3(f.Sky.Ground),
	}

	for _, md := range f.Materials {
		s.AddMaterial(scene.Material{
			Name:              md.Name,
			Albedo:            ArrayToVec3(md.Albedo),
			Roughness:         md.Roughness,
			Metallic:          md.Metallic,
			EmissiveColor:     ArrayToVec3(md.EmissiveColor),
			EmissiveIntensity: md.EmissiveIntensity,
		})
	}
	for _, sd := range f.Spheres {
		s.AddSphere(scene.Sphere{
			Position:      ArrayToVec3(sd.Position),
			Radius:        sd.Radius,
			MaterialIndex: sd.Material,
		})
	}
	for _, ld := range f.Lights {
		s.AddLight(scene.Light{Direction: ArrayToVec3(ld.Direction), Intensity: ld.Intensity})
	}

	for i, md := range f.Meshes {
		if err := addMesh(s, md, baseDir); err != nil {
			return nil, fmt.Errorf("mesh %d (%s): %w", i, md.Type, err)
		}
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	cam, err := f.Camera.build()
	if err != nil {
		return nil, fmt.Errorf("camera: %w", err)
	}

	return &Loaded{
		Scene:       s,
		Camera:      cam,
		Settings:    f.Settings.build(),
		RenderScale: f.Settings.renderScale(),
	}, nil
}

func addMesh(s *scene.Scene, md MeshData, baseDir string) error {
	var mesh *scene.TriangleMesh
	switch md.Type {
	case MeshCube:
		mesh = scene.CreateCube(orDefault(md.Size, 1))
	case MeshQuad:
		mesh = scene.CreateQuad(orDefault(md.Size, 1))
	case MeshPlane:
		mesh = scene.CreatePlane(orDefault(md.Width, 1), orDefault(md.Depth, 1), md.Subdivisions)
	case MeshPyramid:
		mesh = scene.CreatePyramid(orDefault(md.Width, 1), orDefault(md.Height, 1))
	case MeshSphere:
		segments, rings := md.Segments, md.Rings
		if segments <= 0 {
			segments = 32
		}
		if rings <= 0 {
			rings = 16
		}
		mesh = scene.CreateSphere(orDefault(md.Size, 1), segments, rings)
	case MeshInline:
		mesh = scene.NewTriangleMesh(md.Name, arraysToVec3(md.Positions), arraysToVec3(md.Normals), md.Indices)
		if len(mesh.Normals) == 0 {
			mesh.ComputeNormals()
		}
	case MeshOBJ, MeshGLTF:
		return addModel(s, md, baseDir)
	default:
		return fmt.Errorf("%w %q", ErrUnknownMeshType, md.Type)
	}

	if md.Name != "" {
		mesh.Name = md.Name
	}
	mesh.MaterialIndex = md.Material
	place(mesh, md.transform())
	s.AddMesh(mesh)
	return nil
}

func addModel(s *scene.Scene, md MeshData, baseDir string) error {
	if md.File == "" {
		return ErrMissingMeshFile
	}
	path := md.File
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}

	var (
		model *scene.Model
		err   error
	)
	if md.Type == MeshOBJ {
		model, err = scene.LoadOBJ(path)
	} else {
		model, err = scene.LoadGLTF(path)
	}
	if err != nil {
		return err
	}

	t := md.transform()
	for _, mesh := range model.Meshes {
		// Fold the mesh offset into its vertices so the file transform
		// applies to the model as a whole.
		offset := mesh.Transform.Position
		for i, p := range mesh.Positions {
			mesh.Positions[i] = p.Add(offset)
		}
		place(mesh, t)
	}

	if md.Material >= 0 {
		for _, mesh := range model.Meshes {
			mesh.MaterialIndex = md.Material
			s.AddMesh(mesh)
		}
		return nil
	}
	s.AddModel(model)
	return nil
}

// place applies t to a mesh whose vertices are in model space.
func place(mesh *scene.TriangleMesh, t core.Transform) {
	mesh.Transform = t
	mesh.Bake()
	mesh.RecomputeAABB()
}

func (md MeshData) transform() core.Transform {
	t := core.NewTransform()
	t.Position = ArrayToVec3(md.Position)
	if md.Rotation != [4]float32{} {
		t.Rotation = ArrayToQuat(md.Rotation).Normalize()
	}
	if md.Scale != [3]float32{} {
		t.Scale = ArrayToVec3(md.Scale)
	}
	return t
}

func (cd CameraData) build() (*scene.Camera, error) {
	cam := scene.NewCamera(scene.DefaultVerticalFOV, scene.DefaultNearClip, scene.DefaultFarClip)
	if err := cam.SetVerticalFOV(orDefault(cd.FOV, scene.DefaultVerticalFOV)); err != nil {
		return nil, err
	}
	if err := cam.SetClipPlanes(orDefault(cd.Near, scene.DefaultNearClip), orDefault(cd.Far, scene.DefaultFarClip)); err != nil {
		return nil, err
	}
	cam.SetPosition(ArrayToVec3(cd.Position))
	cam.SetForward(ArrayToVec3(cd.Forward))
	return cam, nil
}

func (sd SettingsData) build() renderer.Settings {
	settings := renderer.DefaultSettings()
	if sd.Bounces > 0 {
		settings.Bounces = sd.Bounces
	}
	if sd.RaysPerPixel > 0 {
		settings.RaysPerPixel = sd.RaysPerPixel
	}
	if sd.Accumulate != nil {
		settings.Accumulate = *sd.Accumulate
	}
	settings.Seed = sd.Seed
	return settings
}

func (sd SettingsData) renderScale() float32 {
	return orDefault(sd.RenderScale, renderer.DefaultRenderScale)
}

// FromScene captures live state. Meshes are stored as inline geometry.
func FromScene(s *scene.Scene, cam *scene.Camera, settings renderer.Settings, renderScale float32) *SceneFile {
	accumulate := settings.Accumulate
	f := &SceneFile{
		Version: FormatVersion,
		Camera: CameraData{
			Position: Vec3ToArray(cam.Position()),
			Forward:  Vec3ToArray(cam.Forward()),
			FOV:      cam.VerticalFOV(),
			Near:     cam.NearClip(),
			Far:      cam.FarClip(),
		},
		Sky: SkyData{
			Zenith:  Vec3ToArray(s.Sky.ZenithColor),
			Horizon: Vec3ToArray(s.Sky.HorizonColor),
			Ground:  Vec3ToArray(s.Sky.GroundColor),
		},
		Settings: SettingsData{
			Bounces:      settings.Bounces,
			RaysPerPixel: settings.RaysPerPixel,
			Accumulate:   &accumulate,
			RenderScale:  renderScale,
			Seed:         settings.Seed,
		},
	}

	for _, m := range s.Materials {
		f.Materials = append(f.Materials, MaterialData{
			Name:              m.Name,
			Albedo:            Vec3ToArray(m.Albedo),
			Roughness:         m.Roughness,
			Metallic:          m.Metallic,
			EmissiveColor:     Vec3ToArray(m.EmissiveColor),
			EmissiveIntensity: m.EmissiveIntensity,
		})
	}
	for _, sp := range s.Spheres {
		f.Spheres = append(f.Spheres, SphereData{
			Position: Vec3ToArray(sp.Position),
			Radius:   sp.Radius,
			Material: sp.MaterialIndex,
		})
	}
	for _, l := range s.Lights {
		f.Lights = append(f.Lights, LightData{Direction: Vec3ToArray(l.Direction), Intensity: l.Intensity})
	}
	for _, m := range s.Meshes {
		f.Meshes = append(f.Meshes, MeshData{
			Name:      m.Name,
			Type:      MeshInline,
			Position:  Vec3ToArray(m.Transform.Position),
			Material:  m.MaterialIndex,
			Positions: vec3sToArrays(m.Positions),
			Normals:   vec3sToArrays(m.Normals),
			Indices:   m.Indices,
		})
	}
	return f
}

// --- Helper conversions ---

// Vec3ToArray converts a Vec3 to a [3]float32
func Vec3ToArray(v math.Vec3) [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}

// ArrayToVec3 converts a [3]float32 to Vec3
func ArrayToVec3(a [3]float32) math.Vec3 {
	return math.Vec3{X: a[0], Y: a[1], Z: a[2]}
}

// ArrayToQuat converts [4]float32 to Quaternion
func ArrayToQuat(a [4]float32) math.Quaternion {
	return math.Quaternion{X: a[0], Y: a[1], Z: a[2], W: a[3]}
}

func arraysToVec3(a [][3]float32) []math.Vec3 {
	if len(a) == 0 {
		return nil
	}
	out := make([]math.Vec3, len(a))
	for i, v := range a {
		out[i] = ArrayToVec3(v)
	}
	return out
}

func vec3sToArrays(v []math.Vec3) [][3]float32 {
	out := make([][3]float32, len(v))
	for i, p := range v {
		out[i] = Vec3ToArray(p)
	}
	return out
}

func orDefault(v, def float32) float32 {
	if v == 0 {
		return def
	}
	return v
}
