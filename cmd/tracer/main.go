package main

import (
	"os"

	"github.com/urfave/cli"
)

func main() {
	app := cli.NewApp()
	app.Name = "tracer"
	app.Usage = "progressive CPU path tracer"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "view",
			Usage: "open an interactive view of the scene",
			Description: `
Render the scene progressively into a window. Hold the right mouse button and
use WASD/QE to fly. Click an object to select it; arrows and PageUp/PageDown
move it, [ and ] change a sphere's radius, R/F change roughness and M cycles
materials. Ctrl+Z / Ctrl+Shift+Z undo and redo, Space toggles accumulation,
+/- change the bounce count, F5 saves the scene and F12 saves a snapshot.

Without a scene file the built-in scene is shown.`,
			ArgsUsage: "[scene.json]",
			Flags: append([]cli.Flag{
				cli.IntFlag{
					Name:  "width",
					Value: 1280,
					Usage: "window width",
				},
				cli.IntFlag{
					Name:  "height",
					Value: 720,
					Usage: "window height",
				},
				cli.Float64Flag{
					Name:  "scale",
					Value: 0.75,
					Usage: "render resolution as a fraction of the window",
				},
				cli.BoolFlag{
					Name:  "vsync",
					Usage: "wait for vertical sync when presenting",
				},
			}, shadingFlags()...),
			Action: View,
		},
		{
			Name:      "render",
			Usage:     "render a still frame to a PNG file",
			ArgsUsage: "[scene.json]",
			Flags: append([]cli.Flag{
				cli.IntFlag{
					Name:  "width",
					Value: 512,
					Usage: "frame width",
				},
				cli.IntFlag{
					Name:  "height",
					Value: 512,
					Usage: "frame height",
				},
				cli.IntFlag{
					Name:  "frames",
					Value: 64,
					Usage: "number of accumulated frames",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "frame.png",
					Usage: "image filename for the rendered frame",
				},
			}, shadingFlags()...),
			Action: RenderFrames,
		},
		{
			Name:      "bench",
			Usage:     "measure render throughput on this machine",
			ArgsUsage: "[scene.json]",
			Flags: append([]cli.Flag{
				cli.IntFlag{
					Name:  "width",
					Value: 512,
					Usage: "frame width",
				},
				cli.IntFlag{
					Name:  "height",
					Value: 512,
					Usage: "frame height",
				},
				cli.IntFlag{
					Name:  "frames",
					Value: 32,
					Usage: "number of timed frames",
				},
			}, shadingFlags()...),
			Action: Bench,
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}
