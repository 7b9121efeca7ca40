// Package opengl shows the CPU rendered image in the window.
package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	glutil "path-tracer/internal/opengl"
	"path-tracer/log"
)

var logger = log.New("opengl")

// The fullscreen triangle is generated from gl_VertexID; image row 0 is the
// top of the view so v is flipped.
const vertSrc = `
#version 410 core
out vec2 uv;

void main() {
    vec2 pos = vec2((gl_VertexID << 1) & 2, gl_VertexID & 2);
    uv = vec2(pos.x, 1.0 - pos.y);
    gl_Position = vec4(pos * 2.0 - 1.0, 0.0, 1.0);
}
` + "\x00"

const fragSrc = `
#version 410 core
in vec2 uv;

uniform sampler2D image;

out vec4 outColor;

void main() {
    outColor = texture(image, uv);
}
` + "\x00"

// Presenter blits an RGBA8 image to the default framebuffer.
type Presenter struct {
	program  uint32
	vao      uint32
	imageLoc int32
	texture  *glutil.Texture
}

// NewPresenter initialises OpenGL.
// Must be called after the GLFW window context is made current.
func NewPresenter() (*Presenter, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	logger.Infof("OpenGL version: %s", gl.GoStr(gl.GetString(gl.VERSION)))

	prog, err := glutil.NewProgram(vertSrc, fragSrc)
	if err != nil {
		return nil, fmt.Errorf("shader compile: %w", err)
	}

	p := &Presenter{
		program:  prog,
		imageLoc: gl.GetUniformLocation(prog, gl.Str("image\x00")),
		texture:  glutil.NewTexture(),
	}
	// Core profile refuses draws without a bound VAO even if it is empty.
	gl.GenVertexArrays(1, &p.vao)
	gl.Disable(gl.DEPTH_TEST)
	return p, nil
}

// Draw uploads the image and stretches it over a fbW x fbH framebuffer.
func (p *Presenter) Draw(pixels []byte, w, h, fbW, fbH int) error {
	gl.Viewport(0, 0, int32(fbW), int32(fbH))
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	if w == 0 || h == 0 {
		return nil
	}
	if err := p.texture.Upload(pixels, w, h); err != nil {
		return err
	}

	gl.UseProgram(p.program)
	p.texture.Bind(0)
	gl.Uniform1i(p.imageLoc, 0)

	gl.BindVertexArray(p.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
	gl.BindVertexArray(0)
	return nil
}

// Destroy releases all GPU resources.
func (p *Presenter) Destroy() {
	p.texture.Delete()
	gl.DeleteVertexArrays(1, &p.vao)
	gl.DeleteProgram(p.program)
}
