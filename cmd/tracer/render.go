package main

import (
	"bytes"
	"fmt"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"path-tracer/io"
	"path-tracer/renderer"
)

// RenderFrames accumulates a number of frames headlessly and writes the
// result to a PNG file.
func RenderFrames(ctx *cli.Context) error {
	setupLogging(ctx)

	loaded, _, err := loadScene(ctx)
	if err != nil {
		return err
	}

	width, height := ctx.Int("width"), ctx.Int("height")
	frames := ctx.Int("frames")
	if frames < 1 {
		frames = 1
	}

	stats, r, err := renderFrames(loaded, renderSettings(ctx, loaded.Settings), width, height, frames)
	if err != nil {
		return err
	}

	out := ctx.String("out")
	start := time.Now()
	if err := io.SavePNG(out, r.Image(), width, height); err != nil {
		return err
	}
	logger.Noticef("wrote frame to %s in %s", out, time.Since(start))

	displayFrameStats(stats)
	return nil
}

func renderFrames(loaded *io.Loaded, settings renderer.Settings, width, height, frames int) ([]renderer.FrameStats, *renderer.Renderer, error) {
	loaded.Camera.Resize(width, height)
	r := renderer.New(settings)
	r.Resize(width, height)

	stats := make([]renderer.FrameStats, 0, frames)
	for i := 0; i < frames; i++ {
		if err := r.Render(loaded.Camera, loaded.Scene); err != nil {
			return nil, nil, err
		}
		stats = append(stats, r.Stats())
		logger.Debugf("frame %d rendered in %s", i+1, r.Stats().RenderTime)
	}
	return stats, r, nil
}

func displayFrameStats(stats []renderer.FrameStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Frame", "Resolution", "Paths", "Segments", "Render time", "Paths/s"})

	var total time.Duration
	var paths, segments uint64
	for _, stat := range stats {
		table.Append([]string{
			fmt.Sprintf("%d", stat.Frame),
			fmt.Sprintf("%dx%d", stat.Width, stat.Height),
			fmt.Sprintf("%d", stat.Paths),
			fmt.Sprintf("%d", stat.Segments),
			stat.RenderTime.String(),
			fmt.Sprintf("%.0f", stat.PathsPerSecond()),
		})
		total += stat.RenderTime
		paths += stat.Paths
		segments += stat.Segments
	}
	table.SetFooter([]string{
		"", "TOTAL",
		fmt.Sprintf("%d", paths),
		fmt.Sprintf("%d", segments),
		total.String(),
		fmt.Sprintf("%.0f", renderer.FrameStats{Paths: paths, RenderTime: total}.PathsPerSecond()),
	})

	table.Render()
	logger.Noticef("frame statistics\n%s", buf.String())
}
