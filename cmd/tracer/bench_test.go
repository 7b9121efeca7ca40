package main

import (
	"testing"
	"time"

	"path-tracer/io"
	"path-tracer/renderer"
)

func TestSummarize(t *testing.T) {
	stats := []renderer.FrameStats{
		{Paths: 100, RenderTime: 30 * time.Millisecond},
		{Paths: 100, RenderTime: 10 * time.Millisecond},
		{Paths: 100, RenderTime: 20 * time.Millisecond},
		{Paths: 100, RenderTime: 40 * time.Millisecond},
	}

	sum := summarize(stats)
	if sum.Frames != 4 {
		t.Errorf("expected 4 frames; got %d", sum.Frames)
	}
	if sum.Min != 10*time.Millisecond || sum.Max != 40*time.Millisecond {
		t.Errorf("expected min 10ms and max 40ms; got %s and %s", sum.Min, sum.Max)
	}
	if sum.Median != 30*time.Millisecond {
		t.Errorf("expected median 30ms; got %s", sum.Median)
	}
	if sum.Total != 100*time.Millisecond {
		t.Errorf("expected total 100ms; got %s", sum.Total)
	}
	if sum.PathsPerSecond < 3999 || sum.PathsPerSecond > 4001 {
		t.Errorf("expected 4000 paths/s; got %f", sum.PathsPerSecond)
	}

	if empty := summarize(nil); empty.Frames != 0 {
		t.Errorf("expected an empty summary; got %+v", empty)
	}
}

func TestRenderFramesAccumulates(t *testing.T) {
	loaded, err := io.NewDefaultSceneFile().Build(".")
	if err != nil {
		t.Fatal(err)
	}

	stats, r, err := renderFrames(loaded, renderer.DefaultSettings(), 16, 8, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(stats) != 3 {
		t.Fatalf("expected 3 frame stats; got %d", len(stats))
	}
	for i, s := range stats {
		if s.Frame != uint32(i+1) {
			t.Errorf("[frame %d] expected frame index %d; got %d", i, i+1, s.Frame)
		}
		if s.Paths != 16*8 {
			t.Errorf("[frame %d] expected %d paths; got %d", i, 16*8, s.Paths)
		}
	}
	if len(r.Image()) != 16*8*4 {
		t.Errorf("expected %d image bytes; got %d", 16*8*4, len(r.Image()))
	}
}
