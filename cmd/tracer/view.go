package main

import (
	"fmt"
	"time"

	"github.com/urfave/cli"

	"path-tracer/core"
	"path-tracer/editor"
	"path-tracer/io"
	"path-tracer/opengl"
	"path-tracer/renderer"
)

// View renders the scene progressively into a window and applies live edits.
func View(ctx *cli.Context) error {
	setupLogging(ctx)

	loaded, scenePath, err := loadScene(ctx)
	if err != nil {
		return err
	}
	sc, cam := loaded.Scene, loaded.Camera

	scale := loaded.RenderScale
	if ctx.IsSet("scale") {
		scale = float32(ctx.Float64("scale"))
	}

	cfg := core.DefaultWindowConfig()
	cfg.Width = ctx.Int("width")
	cfg.Height = ctx.Int("height")
	cfg.VSync = ctx.Bool("vsync")
	cfg.Resizable = true

	window, err := core.NewWindow(cfg)
	if err != nil {
		return err
	}
	defer window.Destroy()

	presenter, err := opengl.NewPresenter()
	if err != nil {
		return err
	}
	defer presenter.Destroy()

	r := renderer.New(renderSettings(ctx, loaded.Settings))
	ed := editor.NewEditor(window, sc, cam, r)

	var hud frameHUD
	lastTime := time.Now()
	for !window.ShouldClose() {
		window.PollEvents()

		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		fbW, fbH := window.GetFramebufferSize()
		w, h := renderer.ScaleViewport(fbW, fbH, scale)
		if w != r.Width() || h != r.Height() {
			logger.Debugf("viewport %dx%d, rendering at %dx%d", fbW, fbH, w, h)
			r.Resize(w, h)
			cam.Resize(w, h)
		}

		if ed.Update(dt) {
			r.ResetFrameIndex()
		}
		if ed.Input.IsKeyPressed(core.KeyEscape) {
			window.SetShouldClose(true)
		}
		if ed.Input.IsKeyPressed(core.KeyF5) {
			file := io.FromScene(sc, cam, r.Settings(), scale)
			if err := io.SaveScene(scenePath, file); err != nil {
				logger.Error(err)
			} else {
				ed.StatusText = "Saved " + scenePath
				logger.Noticef("saved scene to %s", scenePath)
			}
		}

		if w == 0 || h == 0 {
			// Minimised.
			window.SwapBuffers()
			continue
		}

		if err := r.Render(cam, sc); err != nil {
			return err
		}

		if ed.Input.IsKeyPressed(core.KeyF12) {
			out := fmt.Sprintf("frame-%04d.png", r.Stats().Frame)
			if err := io.SavePNG(out, r.Image(), w, h); err != nil {
				logger.Error(err)
			} else {
				ed.StatusText = "Wrote " + out
				logger.Noticef("wrote frame to %s", out)
			}
		}

		copyStart := time.Now()
		if err := presenter.Draw(r.Image(), w, h, fbW, fbH); err != nil {
			return err
		}
		copyTime := time.Since(copyStart)
		window.SwapBuffers()

		if title := hud.Title(now, r.Stats(), copyTime, r.Settings().Accumulate, ed.StatusText); title != "" {
			window.SetTitle(title)
		}
	}

	return nil
}
