package renderer

import "time"

type FrameStats struct {
	// Frame index the stats were collected for.
	Frame uint32

	Width, Height int

	// Paths traced and scene intersections tested during the frame.
	Paths    uint64
	Segments uint64

	// Wall clock time of the whole frame.
	RenderTime time.Duration
}

// PathsPerSecond returns the path throughput of the frame.
func (s FrameStats) PathsPerSecond() float64 {
	if s.RenderTime <= 0 {
		return 0
	}
	return float64(s.Paths) / s.RenderTime.Seconds()
}
