package opengl

import (
	"errors"

	gl "github.com/go-gl/gl/v4.1-core/gl"
)

// ErrPixelCount is returned by Upload when the pixel slice does not hold
// width*height RGBA8 texels.
var ErrPixelCount = errors.New("opengl: pixel buffer does not match texture size")

// Texture is an RGBA8 2D texture that is re-uploaded every frame.
// Call its methods from the goroutine that owns the GL context.
type Texture struct {
	ID     uint32
	Width  int
	Height int
}

// NewTexture allocates the texture object. Storage is created by the first
// Upload.
func NewTexture() *Texture {
	t := &Texture{}
	gl.GenTextures(1, &t.ID)
	gl.BindTexture(gl.TEXTURE_2D, t.ID)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	gl.BindTexture(gl.TEXTURE_2D, 0)
	return t
}

// Upload copies tightly packed RGBA8 pixels into the texture, reallocating
// storage when the size changed.
func (t *Texture) Upload(pixels []byte, width, height int) error {
	if width <= 0 || height <= 0 || len(pixels) != width*height*4 {
		return ErrPixelCount
	}

	gl.BindTexture(gl.TEXTURE_2D, t.ID)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)

	if width != t.Width || height != t.Height {
		gl.TexImage2D(
			gl.TEXTURE_2D,
			0,
			gl.RGBA8,
			int32(width),
			int32(height),
			0,
			gl.RGBA,
			gl.UNSIGNED_BYTE,
			gl.Ptr(pixels),
		)
		t.Width, t.Height = width, height
	} else {
		gl.TexSubImage2D(
			gl.TEXTURE_2D,
			0,
			0, 0,
			int32(width),
			int32(height),
			gl.RGBA,
			gl.UNSIGNED_BYTE,
			gl.Ptr(pixels),
		)
	}

	gl.BindTexture(gl.TEXTURE_2D, 0)
	return nil
}

// Bind attaches the texture to the given texture unit.
func (t *Texture) Bind(unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, t.ID)
}

// Delete frees the GPU texture.
func (t *Texture) Delete() {
	if t.ID == 0 {
		return
	}
	gl.DeleteTextures(1, &t.ID)
	t.ID = 0
	t.Width, t.Height = 0, 0
}
