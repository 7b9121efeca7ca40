package main

import (
	"fmt"
	"time"

	"path-tracer/renderer"
)

// titleInterval throttles window title updates.
const titleInterval = 250 * time.Millisecond

// frameHUD formats per-frame timings for the window title.
type frameHUD struct {
	lastUpdate time.Time
}

// Title returns the new window title, or "" when it is not yet time to
// refresh it.
func (h *frameHUD) Title(now time.Time, stats renderer.FrameStats, copyTime time.Duration, accumulate bool, status string) string {
	if now.Sub(h.lastUpdate) < titleInterval {
		return ""
	}
	h.lastUpdate = now
	return formatTitle(stats, copyTime, accumulate, status)
}

func formatTitle(stats renderer.FrameStats, copyTime time.Duration, accumulate bool, status string) string {
	mode := "single"
	if accumulate {
		mode = fmt.Sprintf("frame %d", stats.Frame)
	}
	return fmt.Sprintf("Path Tracer | %dx%d | render %.2f ms | copy %.2f ms | %s | %s",
		stats.Width, stats.Height,
		durationMillis(stats.RenderTime), durationMillis(copyTime),
		mode, status)
}

func durationMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
