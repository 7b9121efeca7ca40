// Package renderer implements a progressive CPU path tracer. Every frame
// traces new paths for each pixel and averages them into an accumulation
// buffer until the frame index is reset.
package renderer

import (
	"sync/atomic"
	"time"

	"path-tracer/core"
	"path-tracer/internal/workers"
	"path-tracer/math"
	"path-tracer/random"
	"path-tracer/raycast"
	"path-tracer/scene"
)

// Renderer owns the accumulation and display buffers. It is not safe for
// concurrent use; Render itself fans out over worker goroutines.
type Renderer struct {
	settings Settings

	width, height int

	// RGBA8, row-major, top-left origin.
	image []byte

	// Running radiance sum per pixel.
	accumulation []math.Vec4

	frameIndex uint32

	stats FrameStats
}

func New(settings Settings) *Renderer {
	return &Renderer{
		settings:   settings.normalize(),
		frameIndex: 1,
	}
}

// Resize reallocates and clears both buffers and restarts accumulation.
func (r *Renderer) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}

	r.width = width
	r.height = height
	r.image = make([]byte, width*height*4)
	r.accumulation = make([]math.Vec4, width*height)
	r.frameIndex = 1

	logger.Debugf("resized to %dx%d", width, height)
}

// ResetFrameIndex restarts accumulation. Call it after any change to the
// camera or the scene.
func (r *Renderer) ResetFrameIndex() {
	r.frameIndex = 1
}

func (r *Renderer) Settings() Settings {
	return r.settings
}

// SetSettings replaces the shading parameters and restarts accumulation.
func (r *Renderer) SetSettings(s Settings) {
	r.settings = s.normalize()
	r.ResetFrameIndex()
}

// SetAccumulate toggles progressive accumulation. Either way the next frame
// starts from a cleared accumulator.
func (r *Renderer) SetAccumulate(on bool) {
	r.settings.Accumulate = on
	r.ResetFrameIndex()
}

// Render traces one sample pass for every pixel and refreshes Image. The
// camera ray cache must match the renderer size.
func (r *Renderer) Render(cam *scene.Camera, sc *scene.Scene) error {
	n := r.width * r.height
	if n == 0 {
		return ErrNoPixels
	}
	if cam.Width() != r.width || cam.Height() != r.height || len(cam.RayDirections()) != n {
		return ErrViewportMismatch
	}

	if !r.settings.Accumulate {
		r.frameIndex = 1
	}

	start := time.Now()
	var segments uint64

	origin := cam.Position()
	dirs := cam.RayDirections()
	frame := r.frameIndex
	invFrame := 1 / float32(frame)
	rays := r.settings.RaysPerPixel
	invRays := 1 / float32(rays)

	workers.ForEachChunk(n, r.settings.Workers, func(lo, hi int) {
		rng := random.New(1)
		var chunkSegments uint64

		for i := lo; i < hi; i++ {
			if frame == 1 {
				r.accumulation[i] = math.Vec4{}
			}

			var color math.Vec3
			for ray := 0; ray < rays; ray++ {
				rng.Reset(random.Seed(uint32(i), frame, uint32(ray), r.settings.Seed))
				light, bounces := r.perPixel(sc, raycast.Ray{Origin: origin, Direction: dirs[i]}, rng)
				color = color.Add(light)
				chunkSegments += uint64(bounces)
			}
			color = color.Mul(invRays)

			r.accumulation[i] = r.accumulation[i].Add(color.ToVec4(1))

			avg := r.accumulation[i].Mul(invFrame).Clamp(0, 1)
			avg.W = 1
			core.ColorFromVec4(avg).PutRGBA8(r.image[i*4 : i*4+4])
		}

		atomic.AddUint64(&segments, chunkSegments)
	})

	r.stats = FrameStats{
		Frame:      frame,
		Width:      r.width,
		Height:     r.height,
		Paths:      uint64(n) * uint64(rays),
		Segments:   segments,
		RenderTime: time.Since(start),
	}

	if r.settings.Accumulate {
		r.frameIndex++
	} else {
		r.frameIndex = 1
	}
	return nil
}

// Image returns the display buffer. It is owned by the renderer and
// overwritten by the next Render.
func (r *Renderer) Image() []byte {
	return r.image
}

// Accumulation returns the running radiance sums. Dividing an entry by the
// number of frames rendered since the last reset gives the pixel estimate.
func (r *Renderer) Accumulation() []math.Vec4 {
	return r.accumulation
}

// FrameIndex returns the sample number the next Render will produce.
func (r *Renderer) FrameIndex() uint32 {
	return r.frameIndex
}

func (r *Renderer) Width() int  { return r.width }
func (r *Renderer) Height() int { return r.height }

// Stats returns the statistics of the last Render.
func (r *Renderer) Stats() FrameStats {
	return r.stats
}
