package core

import (
	"testing"

	"path-tracer/math"
)

func TestColorRGBA8(t *testing.T) {
	specs := []struct {
		in  Color
		exp [4]uint8
	}{
		{Color{0, 0, 0, 1}, [4]uint8{0, 0, 0, 255}},
		{Color{1, 1, 1, 1}, [4]uint8{255, 255, 255, 255}},
		{Color{2, -1, 0.5, 1}, [4]uint8{255, 0, 127, 255}},
	}

	for _, s := range specs {
		if got := s.in.RGBA8(); got != s.exp {
			t.Errorf("expected %v for %v, got %v", s.exp, s.in, got)
		}
	}
}

func TestTransformMatrix(t *testing.T) {
	tr := NewTransform()
	tr.Position = math.NewVec3(1, 2, 3)
	tr.Scale = math.NewVec3(2, 2, 2)

	got := tr.Matrix().MulPoint(math.NewVec3(1, 0, 0))
	exp := math.NewVec3(3, 2, 3)
	if got != exp {
		t.Errorf("expected %v, got %v", exp, got)
	}

	if got := tr.Linear().MulPoint(math.NewVec3(1, 0, 0)); got != math.NewVec3(2, 0, 0) {
		t.Errorf("expected linear part to ignore translation, got %v", got)
	}

	if NewTransform().IsIdentityLinear() != true {
		t.Error("expected a fresh transform to have an identity linear part")
	}
}
