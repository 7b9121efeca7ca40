package math

import (
	"math"
	"testing"
)

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) <= 1e-4
}

func approxVec3(a, b Vec3) bool {
	return approx(a.X, b.X) && approx(a.Y, b.Y) && approx(a.Z, b.Z)
}

func TestVec3Operations(t *testing.T) {
	v1 := NewVec3(1, 2, 3)
	v2 := NewVec3(4, 5, 6)

	result := v1.Add(v2)
	expected := NewVec3(5, 7, 9)
	if result != expected {
		t.Errorf("Add: expected %v, got %v", expected, result)
	}

	result = v2.Sub(v1)
	expected = NewVec3(3, 3, 3)
	if result != expected {
		t.Errorf("Sub: expected %v, got %v", expected, result)
	}

	result = v1.MulVec(v2)
	expected = NewVec3(4, 10, 18)
	if result != expected {
		t.Errorf("MulVec: expected %v, got %v", expected, result)
	}

	dot := v1.Dot(v2)
	expectedDot := float32(32) // 1*4 + 2*5 + 3*6
	if dot != expectedDot {
		t.Errorf("Dot: expected %v, got %v", expectedDot, dot)
	}

	// Right x Up = Front in a right-handed system
	cross := Vec3Right.Cross(Vec3Up)
	if cross != Vec3Front {
		t.Errorf("Cross: expected %v, got %v", Vec3Front, cross)
	}
}

func TestVec3Normalize(t *testing.T) {
	normalized := NewVec3(3, 0, 0).Normalize()
	expected := NewVec3(1, 0, 0)
	if normalized != expected {
		t.Errorf("Normalize: expected %v, got %v", expected, normalized)
	}

	if zero := Vec3Zero.Normalize(); zero != Vec3Zero {
		t.Errorf("Normalize: expected zero vector to stay zero, got %v", zero)
	}
}

func TestVec3Reflect(t *testing.T) {
	specs := []struct {
		in, normal, expected Vec3
	}{
		{NewVec3(1, -1, 0), Vec3Up, NewVec3(1, 1, 0)},
		{NewVec3(0, 0, -1), Vec3Front, NewVec3(0, 0, 1)},
		{NewVec3(1, 0, 0), Vec3Up, NewVec3(1, 0, 0)},
	}
	for i, s := range specs {
		if got := s.in.Reflect(s.normal); !approxVec3(got, s.expected) {
			t.Errorf("[spec %d] Reflect: expected %v, got %v", i, s.expected, got)
		}
	}
}

func TestSmoothstep(t *testing.T) {
	specs := []struct {
		x, expected float32
	}{
		{-1, 0},
		{0, 0},
		{0.5, 0.5},
		{1, 1},
		{2, 1},
	}
	for _, s := range specs {
		if got := Smoothstep(0, 1, s.x); !approx(got, s.expected) {
			t.Errorf("Smoothstep(%v): expected %v, got %v", s.x, s.expected, got)
		}
	}
}

func TestVec4Clamp(t *testing.T) {
	got := NewVec4(-1, 0.5, 2, 1).Clamp(0, 1)
	expected := NewVec4(0, 0.5, 1, 1)
	if got != expected {
		t.Errorf("Clamp: expected %v, got %v", expected, got)
	}
}

func TestMat4Translation(t *testing.T) {
	translation := NewVec3(1, 2, 3)
	m := Mat4Translation(translation)

	if m[3][0] != 1 || m[3][1] != 2 || m[3][2] != 3 {
		t.Errorf("Translation: expected (1,2,3), got (%v,%v,%v)", m[3][0], m[3][1], m[3][2])
	}
	if got := m.MulPoint(Vec3Zero); got != translation {
		t.Errorf("Translation: expected %v, got %v", translation, got)
	}
	if got := m.MulDirection(Vec3Up); got != Vec3Up {
		t.Errorf("Translation: expected directions to ignore translation, got %v", got)
	}
}

func TestMat4TRS(t *testing.T) {
	rot := QuaternionFromAxisAngle(Vec3Up, math.Pi/2)
	m := Mat4TRS(NewVec3(0, 1, 0), rot, NewVec3(2, 2, 2))

	got := m.MulPoint(Vec3Right)
	expected := NewVec3(0, 1, -2)
	if !approxVec3(got, expected) {
		t.Errorf("TRS: expected %v, got %v", expected, got)
	}
}

func TestMat4Inverse(t *testing.T) {
	view := Mat4LookAt(NewVec3(1, 2, 6), NewVec3(0, 0, 0), Vec3Up)
	proj := Mat4Perspective(Radians(45), 16.0/9.0, 0.1, 100)

	for name, m := range map[string]Mat4{"view": view, "projection": proj, "viewProjection": view.Mul(proj)} {
		product := m.Mul(m.Inverse())
		for i := 0; i < 4; i++ {
			for j := 0; j < 4; j++ {
				expected := float32(0)
				if i == j {
					expected = 1
				}
				if !approx(product[i][j], expected) {
					t.Errorf("%s: expected m * inverse [%d][%d] = %v, got %v", name, i, j, expected, product[i][j])
				}
			}
		}
	}
}

func TestMat4InverseSingular(t *testing.T) {
	var zero Mat4
	if got := zero.Inverse(); got != Mat4Identity() {
		t.Errorf("Inverse: expected identity for a singular matrix, got %v", got)
	}
}

func TestMat4PerspectiveFarPlane(t *testing.T) {
	proj := Mat4Perspective(Radians(90), 1, 0.1, 100)

	// The centre of the far plane unprojects onto the -Z axis.
	target := NewVec4(0, 0, 1, 1).MulMat(proj.Inverse())
	got := target.ToVec3DivW()
	if !approxVec3(got.Normalize(), Vec3Back) {
		t.Errorf("Perspective: expected far plane centre on -Z, got %v", got)
	}
	if math.Abs(float64(got.Z+100)) > 0.1 {
		t.Errorf("Perspective: expected far plane at z=-100, got %v", got.Z)
	}
}

func TestMat4LookAt(t *testing.T) {
	eye := NewVec3(0, 0, 5)
	m := Mat4LookAt(eye, Vec3Zero, Vec3Up)

	if got := m.MulPoint(eye); !approxVec3(got, Vec3Zero) {
		t.Errorf("LookAt: expected eye to transform to origin, got %v", got)
	}
	if got := m.MulPoint(Vec3Zero); !approxVec3(got, NewVec3(0, 0, -5)) {
		t.Errorf("LookAt: expected target in front of the camera on -Z, got %v", got)
	}
}

func TestQuaternionRotation(t *testing.T) {
	q := QuaternionFromAxisAngle(Vec3Up, float32(math.Pi/2))

	// X rotated 90 degrees about Y ends up on -Z
	result := q.RotateVector(Vec3Right)
	if !approxVec3(result, Vec3Back) {
		t.Errorf("Quaternion rotation: expected approximately (0,0,-1), got %v", result)
	}

	// Composition applies the right operand first.
	pitch := QuaternionFromAxisAngle(Vec3Right, float32(math.Pi/2))
	composed := pitch.Mul(q).Normalize().RotateVector(Vec3Right)
	if !approxVec3(composed, pitch.RotateVector(q.RotateVector(Vec3Right))) {
		t.Errorf("Quaternion Mul: expected composed rotation to match sequential rotation, got %v", composed)
	}
}

func TestQuaternionToMat4MatchesRotateVector(t *testing.T) {
	q := QuaternionFromAxisAngle(NewVec3(1, 1, 0), 0.7)
	v := NewVec3(0.3, -2, 5)
	if a, b := q.RotateVector(v), q.ToMat4().MulDirection(v); !approxVec3(a, b) {
		t.Errorf("ToMat4: expected %v, got %v", a, b)
	}
}

func BenchmarkVec3Reflect(b *testing.B) {
	v := NewVec3(1, -1, 0.5)
	n := Vec3Up
	for i := 0; i < b.N; i++ {
		_ = v.Reflect(n)
	}
}

func BenchmarkMat4Inverse(b *testing.B) {
	m := Mat4LookAt(NewVec3(1, 2, 6), Vec3Zero, Vec3Up)
	for i := 0; i < b.N; i++ {
		_ = m.Inverse()
	}
}
