package renderer

// Default shading parameters.
const (
	DefaultBounces      = 5
	DefaultRaysPerPixel = 1
)

type Settings struct {
	// Accumulate averages successive frames until the frame index is reset.
	// When false every frame is an independent single sample.
	Accumulate bool

	// Maximum path length.
	Bounces int

	// Independent paths traced per pixel per frame.
	RaysPerPixel int

	// Goroutines used per frame. Zero uses GOMAXPROCS.
	Workers int

	// Mixed into every per-ray seed.
	Seed uint32
}

func DefaultSettings() Settings {
	return Settings{
		Accumulate:   true,
		Bounces:      DefaultBounces,
		RaysPerPixel: DefaultRaysPerPixel,
	}
}

func (s Settings) normalize() Settings {
	if s.Bounces < 1 {
		s.Bounces = 1
	}
	if s.RaysPerPixel < 1 {
		s.RaysPerPixel = 1
	}
	if s.Workers < 0 {
		s.Workers = 0
	}
	return s
}

// DefaultRenderScale is the fraction of the viewport traced by the
// interactive viewer.
const DefaultRenderScale = 0.75

// ScaleViewport returns the render resolution for a viewport. Non-zero
// viewports never scale below one pixel.
func ScaleViewport(width, height int, scale float32) (int, int) {
	if scale <= 0 {
		scale = 1
	}
	return scaleDim(width, scale), scaleDim(height, scale)
}

func scaleDim(n int, scale float32) int {
	if n <= 0 {
		return 0
	}
	s := int(float32(n) * scale)
	if s < 1 {
		s = 1
	}
	return s
}
