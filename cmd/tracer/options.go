package main

import (
	"github.com/urfave/cli"

	"path-tracer/io"
	"path-tracer/renderer"
)

// shadingFlags are shared by every command that renders.
func shadingFlags() []cli.Flag {
	return []cli.Flag{
		cli.IntFlag{
			Name:  "bounces",
			Value: renderer.DefaultBounces,
			Usage: "maximum path length",
		},
		cli.IntFlag{
			Name:  "rays",
			Value: renderer.DefaultRaysPerPixel,
			Usage: "paths per pixel per frame",
		},
		cli.IntFlag{
			Name:  "workers",
			Usage: "render goroutines (0 uses all CPUs)",
		},
		cli.IntFlag{
			Name:  "seed",
			Usage: "random seed mixed into every path",
		},
		cli.BoolFlag{
			Name:  "no-accumulate",
			Usage: "show independent single-sample frames",
		},
	}
}

// loadScene reads the scene file named by the first argument or falls back
// to the built-in scene. It returns the path F5 saves to.
func loadScene(ctx *cli.Context) (*io.Loaded, string, error) {
	if ctx.NArg() == 0 {
		logger.Info("no scene file given; using the built-in scene")
		loaded, err := io.NewDefaultSceneFile().Build(".")
		return loaded, "scene.json", err
	}

	path := ctx.Args().First()
	loaded, err := io.Open(path)
	if err != nil {
		return nil, "", err
	}
	logger.Infof("loaded %q: %d spheres, %d meshes (%d triangles), %d materials",
		path, len(loaded.Scene.Spheres), len(loaded.Scene.Meshes),
		loaded.Scene.TriangleCount(), len(loaded.Scene.Materials))
	return loaded, path, nil
}

// renderSettings overrides the scene file settings with explicitly set
// flags.
func renderSettings(ctx *cli.Context, settings renderer.Settings) renderer.Settings {
	if ctx.IsSet("bounces") {
		settings.Bounces = ctx.Int("bounces")
	}
	if ctx.IsSet("rays") {
		settings.RaysPerPixel = ctx.Int("rays")
	}
	if ctx.IsSet("workers") {
		settings.Workers = ctx.Int("workers")
	}
	if ctx.IsSet("seed") {
		settings.Seed = uint32(ctx.Int("seed"))
	}
	if ctx.Bool("no-accumulate") {
		settings.Accumulate = false
	}
	return settings
}
