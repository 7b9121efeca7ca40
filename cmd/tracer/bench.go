package main

import (
	"bytes"
	"fmt"
	"runtime"
	"sort"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
	"github.com/urfave/cli"

	"path-tracer/internal/workers"
	"path-tracer/renderer"
)

type hostInfo struct {
	CPU      string
	Physical int
	Logical  int
	MHz      float64
	MemoryGB float64
}

func getHostInfo() (hostInfo, error) {
	info := hostInfo{Logical: runtime.NumCPU()}

	cpus, err := cpu.Info()
	if err != nil {
		return info, err
	}
	if len(cpus) > 0 {
		info.CPU = cpus[0].ModelName
		info.MHz = cpus[0].Mhz
	}

	if n, err := cpu.Counts(false); err == nil {
		info.Physical = n
	}
	if n, err := cpu.Counts(true); err == nil {
		info.Logical = n
	}

	vm, err := mem.VirtualMemory()
	if err != nil {
		return info, err
	}
	info.MemoryGB = float64(vm.Total) / (1 << 30)
	return info, nil
}

// Bench renders a fixed number of frames and reports host information and
// throughput.
func Bench(ctx *cli.Context) error {
	setupLogging(ctx)

	host, err := getHostInfo()
	if err != nil {
		logger.Warningf("host info incomplete: %v", err)
	}

	loaded, _, err := loadScene(ctx)
	if err != nil {
		return err
	}

	settings := renderSettings(ctx, loaded.Settings)
	frames := ctx.Int("frames")
	if frames < 1 {
		frames = 1
	}

	// Untimed warm-up frame.
	if _, _, err := renderFrames(loaded, settings, ctx.Int("width"), ctx.Int("height"), 1); err != nil {
		return err
	}

	stats, _, err := renderFrames(loaded, settings, ctx.Int("width"), ctx.Int("height"), frames)
	if err != nil {
		return err
	}

	displayBench(host, settings, summarize(stats))
	return nil
}

type benchSummary struct {
	Frames                 int
	Total, Min, Median, Max time.Duration
	PathsPerSecond         float64
}

func summarize(stats []renderer.FrameStats) benchSummary {
	if len(stats) == 0 {
		return benchSummary{}
	}

	times := make([]time.Duration, len(stats))
	var total time.Duration
	var paths uint64
	for i, s := range stats {
		times[i] = s.RenderTime
		total += s.RenderTime
		paths += s.Paths
	}
	sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })

	return benchSummary{
		Frames:         len(stats),
		Total:          total,
		Min:            times[0],
		Median:         times[len(times)/2],
		Max:            times[len(times)-1],
		PathsPerSecond: renderer.FrameStats{Paths: paths, RenderTime: total}.PathsPerSecond(),
	}
}

func displayBench(host hostInfo, settings renderer.Settings, sum benchSummary) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Metric", "Value"})
	table.AppendBulk([][]string{
		{"CPU", host.CPU},
		{"Cores", fmt.Sprintf("%d physical / %d logical @ %.0f MHz", host.Physical, host.Logical, host.MHz)},
		{"Memory", fmt.Sprintf("%.1f GB", host.MemoryGB)},
		{"Workers", fmt.Sprintf("%d", workers.Count(settings.Workers))},
		{"Bounces", fmt.Sprintf("%d", settings.Bounces)},
		{"Rays per pixel", fmt.Sprintf("%d", settings.RaysPerPixel)},
		{"Frames", fmt.Sprintf("%d", sum.Frames)},
		{"Min frame", sum.Min.String()},
		{"Median frame", sum.Median.String()},
		{"Max frame", sum.Max.String()},
		{"Paths/s", fmt.Sprintf("%.0f", sum.PathsPerSecond)},
	})
	table.SetFooter([]string{"TOTAL", sum.Total.String()})

	table.Render()
	logger.Noticef("benchmark\n%s", buf.String())
}
