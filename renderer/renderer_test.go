package renderer

import (
	"bytes"
	"errors"
	stdmath "math"
	"testing"

	"path-tracer/math"
	"path-tracer/random"
	"path-tracer/raycast"
	"path-tracer/scene"
)

func setup(t testing.TB, w, h int, settings Settings) (*Renderer, *scene.Camera) {
	t.Helper()
	cam := scene.NewCamera(scene.DefaultVerticalFOV, scene.DefaultNearClip, scene.DefaultFarClip)
	cam.Resize(w, h)
	r := New(settings)
	r.Resize(w, h)
	return r, cam
}

func TestRenderEmptySceneFlatSky(t *testing.T) {
	skyColor := math.NewVec3(0.2, 0.4, 0.6)
	sc := scene.NewScene()
	sc.Sky = scene.FlatSky(skyColor)

	r, cam := setup(t, 16, 9, DefaultSettings())
	if err := r.Render(cam, sc); err != nil {
		t.Fatal(err)
	}

	exp := []byte{51, 102, 153, 255}
	img := r.Image()
	for i := 0; i < len(img); i += 4 {
		if !bytes.Equal(img[i:i+4], exp) {
			t.Fatalf("expected pixel %d to be %v; got %v", i/4, exp, img[i:i+4])
		}
	}
	for i, acc := range r.Accumulation() {
		if acc.ToVec3() != skyColor {
			t.Fatalf("expected accumulator %d to hold the sky colour; got %v", i, acc)
		}
	}
}

func TestRenderErrors(t *testing.T) {
	sc := scene.DefaultScene()

	r := New(DefaultSettings())
	cam := scene.NewCamera(45, 0.1, 100)
	if err := r.Render(cam, sc); !errors.Is(err, ErrNoPixels) {
		t.Errorf("expected ErrNoPixels; got %v", err)
	}

	r.Resize(8, 8)
	cam.Resize(8, 4)
	if err := r.Render(cam, sc); !errors.Is(err, ErrViewportMismatch) {
		t.Errorf("expected ErrViewportMismatch; got %v", err)
	}
}

func TestFrameIndex(t *testing.T) {
	sc := scene.DefaultScene()
	r, cam := setup(t, 8, 8, DefaultSettings())

	for i := 0; i < 3; i++ {
		if err := r.Render(cam, sc); err != nil {
			t.Fatal(err)
		}
	}
	if exp := uint32(4); r.FrameIndex() != exp {
		t.Errorf("expected frame index %d after three frames; got %d", exp, r.FrameIndex())
	}
	if exp := uint32(3); r.Stats().Frame != exp {
		t.Errorf("expected stats for frame %d; got %d", exp, r.Stats().Frame)
	}

	r.ResetFrameIndex()
	if r.FrameIndex() != 1 {
		t.Errorf("expected reset frame index to be 1; got %d", r.FrameIndex())
	}

	r.SetAccumulate(false)
	for i := 0; i < 2; i++ {
		if err := r.Render(cam, sc); err != nil {
			t.Fatal(err)
		}
		if r.FrameIndex() != 1 {
			t.Errorf("expected frame index to stay at 1 without accumulation; got %d", r.FrameIndex())
		}
	}
}

func TestDisablingAccumulationDoesNotLeak(t *testing.T) {
	sc := scene.DefaultScene()

	accumulated, cam := setup(t, 12, 8, DefaultSettings())
	for i := 0; i < 5; i++ {
		if err := accumulated.Render(cam, sc); err != nil {
			t.Fatal(err)
		}
	}
	accumulated.SetAccumulate(false)
	if err := accumulated.Render(cam, sc); err != nil {
		t.Fatal(err)
	}

	settings := DefaultSettings()
	settings.Accumulate = false
	fresh, _ := setup(t, 12, 8, settings)
	if err := fresh.Render(cam, sc); err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(accumulated.Image(), fresh.Image()) {
		t.Error("expected the first single-sample frame to match a fresh render")
	}
}

func TestAccumulationConverges(t *testing.T) {
	sc := scene.DefaultScene()
	const frames = 64

	progressive, cam := setup(t, 16, 16, DefaultSettings())
	for i := 0; i < frames; i++ {
		if err := progressive.Render(cam, sc); err != nil {
			t.Fatal(err)
		}
	}

	settings := DefaultSettings()
	settings.RaysPerPixel = frames
	settings.Seed = 99
	single, _ := setup(t, 16, 16, settings)
	if err := single.Render(cam, sc); err != nil {
		t.Fatal(err)
	}

	mean := func(acc []math.Vec4, div float32) math.Vec3 {
		var sum math.Vec3
		for _, a := range acc {
			sum = sum.Add(a.ToVec3().Mul(1 / div))
		}
		return sum.Mul(1 / float32(len(acc)))
	}

	got := mean(progressive.Accumulation(), frames)
	exp := mean(single.Accumulation(), 1)
	for _, d := range []float32{got.X - exp.X, got.Y - exp.Y, got.Z - exp.Z} {
		if stdmath.Abs(float64(d)) > 0.03 {
			t.Fatalf("expected progressive mean %v to match high sample mean %v", got, exp)
		}
	}
}

func TestRenderIndependentOfWorkerCount(t *testing.T) {
	sc := scene.DefaultScene()
	sc.AddMaterial(scene.NewMaterial("White", math.Vec3One, 0.5))
	cube := scene.CreateCube(0.6)
	cube.Transform.Position = math.NewVec3(0, 0.5, 0)
	cube.MaterialIndex = len(sc.Materials) - 1
	sc.AddMesh(cube)

	var images [][]byte
	for _, w := range []int{1, 3, 8} {
		settings := DefaultSettings()
		settings.Workers = w
		r, cam := setup(t, 20, 10, settings)
		for i := 0; i < 2; i++ {
			if err := r.Render(cam, sc); err != nil {
				t.Fatal(err)
			}
		}
		images = append(images, append([]byte(nil), r.Image()...))
	}

	for i := 1; i < len(images); i++ {
		if !bytes.Equal(images[0], images[i]) {
			t.Errorf("expected identical output for worker configuration %d", i)
		}
	}
}

func TestTraceRay(t *testing.T) {
	sc := scene.NewScene()
	sc.AddMaterial(scene.DefaultMaterial())
	sc.AddSphere(scene.Sphere{Position: math.NewVec3(0, 0, -2), Radius: 1})
	quad := scene.CreateQuad(2)
	sc.AddMesh(quad)

	ray := raycast.Ray{Origin: math.Vec3Zero, Direction: math.NewVec3(0, 0, -1)}

	specs := []struct {
		name     string
		quadPos  math.Vec3
		expKind  HitKind
		expDist  float32
		expNorm  math.Vec3
		expIndex int
	}{
		{"tie goes to sphere", math.NewVec3(0.2, 0.1, -1), HitSphere, 1, math.NewVec3(0, 0, 1), 0},
		{"closer mesh", math.NewVec3(0.2, 0.1, -0.5), HitMesh, 0.5, math.NewVec3(0, 0, 1), 0},
		{"mesh behind sphere", math.NewVec3(0.2, 0.1, -1.5), HitSphere, 1, math.NewVec3(0, 0, 1), 0},
		{"mesh out of the way", math.NewVec3(5, 0, -0.5), HitSphere, 1, math.NewVec3(0, 0, 1), 0},
	}

	for _, s := range specs {
		t.Run(s.name, func(t *testing.T) {
			quad.Transform.Position = s.quadPos
			hit, ok := TraceRay(sc, ray)
			if !ok {
				t.Fatal("expected a hit")
			}
			if hit.Kind != s.expKind || hit.ObjectIndex != s.expIndex {
				t.Errorf("expected kind %d index %d; got kind %d index %d", s.expKind, s.expIndex, hit.Kind, hit.ObjectIndex)
			}
			if stdmath.Abs(float64(hit.Distance-s.expDist)) > 1e-6 {
				t.Errorf("expected distance %v; got %v", s.expDist, hit.Distance)
			}
			if !approx(hit.WorldNormal, s.expNorm) {
				t.Errorf("expected normal %v; got %v", s.expNorm, hit.WorldNormal)
			}
		})
	}

	if _, ok := TraceRay(sc, raycast.Ray{Origin: math.Vec3Zero, Direction: math.NewVec3(0, 0, 1)}); ok {
		t.Error("expected a ray pointing away from everything to miss")
	}
}

func TestBounceDirection(t *testing.T) {
	normal := math.NewVec3(0, 1, 0)
	in := math.NewVec3(1, -1, 0).Normalize()
	mirror := math.NewVec3(1, 1, 0).Normalize()

	// Zero roughness is a perfect mirror.
	if got := bounceDirection(in, normal, 0, nil); !approx(got, mirror) {
		t.Errorf("expected mirror reflection %v; got %v", mirror, got)
	}

	// Rough bounces are unit length and scatter around the mirror direction.
	// The perturbed normal can tilt past the incoming ray, so individual
	// bounces may point into the surface.
	spread := func(roughness float32) (math.Vec3, float64) {
		rng := random.New(7)
		var sum math.Vec3
		var deviation float64
		const n = 1000
		for i := 0; i < n; i++ {
			d := bounceDirection(in, normal, roughness, rng)
			if l := d.Length(); stdmath.Abs(float64(l-1)) > 1e-5 {
				t.Fatalf("expected unit bounce direction at roughness %v; got length %v", roughness, l)
			}
			sum = sum.Add(d)
			deviation += float64(d.Sub(mirror).Length())
		}
		return sum.Mul(1.0 / n), deviation / n
	}

	meanSmooth, devSmooth := spread(0.2)
	meanRough, devRough := spread(1)

	if meanSmooth.X <= 0 || meanRough.X <= 0 {
		t.Errorf("expected bounces to lean towards the mirror direction; got means %v and %v", meanSmooth, meanRough)
	}
	if meanSmooth.Y <= 0 {
		t.Errorf("expected slightly rough bounces to leave the surface on average; got %v", meanSmooth)
	}
	if !(devRough > devSmooth) {
		t.Errorf("expected the spread to grow with roughness; got %v at 0.2 and %v at 1", devSmooth, devRough)
	}
}

func TestTraceRayMeshNormalPerTriangle(t *testing.T) {
	sc := scene.NewScene()
	sc.AddMaterial(scene.DefaultMaterial())
	sc.AddMesh(scene.CreateCube(2))

	specs := []struct {
		origin, dir, normal math.Vec3
	}{
		{math.NewVec3(0.3, 0.2, 5), math.NewVec3(0, 0, -1), math.NewVec3(0, 0, 1)},
		{math.NewVec3(0.3, 0.2, -5), math.NewVec3(0, 0, 1), math.NewVec3(0, 0, -1)},
		{math.NewVec3(0.3, -5, 0.2), math.NewVec3(0, 1, 0), math.NewVec3(0, -1, 0)},
		{math.NewVec3(-5, 0.1, 0.4), math.NewVec3(1, 0, 0), math.NewVec3(-1, 0, 0)},
	}

	for specIndex, spec := range specs {
		hit, ok := TraceRay(sc, raycast.Ray{Origin: spec.origin, Direction: spec.dir})
		if !ok {
			t.Errorf("[spec %d] expected a hit", specIndex)
			continue
		}
		if !approx(hit.WorldNormal, spec.normal) {
			t.Errorf("[spec %d] expected normal %v; got %v", specIndex, spec.normal, hit.WorldNormal)
		}
		if stdmath.Abs(float64(hit.Distance-4)) > 1e-5 {
			t.Errorf("[spec %d] expected distance 4; got %v", specIndex, hit.Distance)
		}
	}
}

func approx(a, b math.Vec3) bool {
	return stdmath.Abs(float64(a.X-b.X)) < 1e-6 &&
		stdmath.Abs(float64(a.Y-b.Y)) < 1e-6 &&
		stdmath.Abs(float64(a.Z-b.Z)) < 1e-6
}

func BenchmarkRenderDefaultScene(b *testing.B) {
	sc := scene.DefaultScene()
	r, cam := setup(b, 160, 90, DefaultSettings())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := r.Render(cam, sc); err != nil {
			b.Fatal(err)
		}
	}
}

func TestScaleViewport(t *testing.T) {
	specs := []struct {
		w, h   int
		scale  float32
		ew, eh int
	}{
		{1280, 720, 0.75, 960, 540},
		{1280, 720, 1, 1280, 720},
		{1280, 720, 0, 1280, 720},
		{1, 1, 0.1, 1, 1},
		{0, 720, 0.75, 0, 540},
	}

	for specIndex, spec := range specs {
		w, h := ScaleViewport(spec.w, spec.h, spec.scale)
		if w != spec.ew || h != spec.eh {
			t.Errorf("[spec %d] expected %dx%d; got %dx%d", specIndex, spec.ew, spec.eh, w, h)
		}
	}
}
