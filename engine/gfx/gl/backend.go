// Package glbackend implements gfx.Backend on OpenGL 3.3 core.
package glbackend

import (
	"fmt"
	"log/slog"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/hubastard/grove2d/engine/colors"
	"github.com/hubastard/grove2d/engine/gfx"
	"github.com/hubastard/grove2d/engine/logging"
)

// Backend issues GL calls on the thread owning the current context. It
// caches bindings to skip redundant state changes.
type Backend struct {
	vao      uint32
	array    uint32
	program  uint32
	textures [16]gfx.TextureID

	log *slog.Logger
}

// New returns a backend for the current context; gl.Init must have run.
func New() *Backend {
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.DEPTH_TEST)

	b := &Backend{log: logging.For("gl")}
	b.log.Info("context", "version", gl.GoStr(gl.GetString(gl.VERSION)), "renderer", gl.GoStr(gl.GetString(gl.RENDERER)))
	return b
}

func (b *Backend) ResetState() {
	b.vao, b.array, b.program = 0, 0, 0
	clear(b.textures[:])
	b.log.Debug("binding cache cleared")
}

func (b *Backend) CreateVertexArray() uint32 {
	var id uint32
	gl.GenVertexArrays(1, &id)
	return id
}

func (b *Backend) BindVertexArray(id uint32) {
	if b.vao == id {
		return
	}
	gl.BindVertexArray(id)
	b.vao = id
}

func (b *Backend) DeleteVertexArray(id uint32) {
	if b.vao == id {
		b.vao = 0
	}
	gl.DeleteVertexArrays(1, &id)
}

func (b *Backend) CreateBuffer() uint32 {
	var id uint32
	gl.GenBuffers(1, &id)
	return id
}

func (b *Backend) BindBuffer(target gfx.BufferTarget, id uint32) {
	if target == gfx.ArrayBuffer {
		if b.array == id {
			return
		}
		b.array = id
	}
	// Element bindings live in the VAO, so they are never cached.
	gl.BindBuffer(glTarget(target), id)
}

func (b *Backend) AllocateBuffer(target gfx.BufferTarget, sizeBytes int) {
	gl.BufferData(glTarget(target), sizeBytes, nil, gl.DYNAMIC_DRAW)
}

func (b *Backend) UploadVertices(offsetBytes int, data []float32) {
	if len(data) == 0 {
		return
	}
	gl.BufferSubData(gl.ARRAY_BUFFER, offsetBytes, len(data)*4, gl.Ptr(data))
}

func (b *Backend) UploadIndices(data []uint32) {
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
}

func (b *Backend) DeleteBuffer(id uint32) {
	if b.array == id {
		b.array = 0
	}
	gl.DeleteBuffers(1, &id)
}

func (b *Backend) EnableVertexLayout(layout gfx.VertexLayout) {
	for _, a := range layout.Attributes {
		gl.EnableVertexAttribArray(a.Location)
		gl.VertexAttribPointerWithOffset(a.Location, int32(a.Size), gl.FLOAT, false, int32(layout.Stride), uintptr(a.Offset))
	}
}

func (b *Backend) CreateTexture(desc gfx.TextureDesc) (gfx.Texture, error) {
	if desc.Width <= 0 || desc.Height <= 0 {
		return gfx.Texture{}, fmt.Errorf("gl: texture size %dx%d", desc.Width, desc.Height)
	}
	if len(desc.Pixels) != 0 && len(desc.Pixels) != desc.Width*desc.Height*4 {
		return gfx.Texture{}, fmt.Errorf("gl: %d bytes for a %dx%d RGBA texture", len(desc.Pixels), desc.Width, desc.Height)
	}

	var id uint32
	gl.GenTextures(1, &id)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, id)
	b.textures[0] = gfx.TextureID(id)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, glFilter(desc.MinFilter))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, glFilter(desc.MagFilter))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, glWrap(desc.Wrap))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, glWrap(desc.Wrap))
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)

	var pixels unsafe.Pointer
	if len(desc.Pixels) != 0 {
		pixels = gl.Ptr(desc.Pixels)
	}
	// Rows are uploaded top first, so v=0 is the top of the image.
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(desc.Width), int32(desc.Height), 0, gl.RGBA, gl.UNSIGNED_BYTE, pixels)
	if e := gl.GetError(); e != gl.NO_ERROR {
		gl.DeleteTextures(1, &id)
		b.textures[0] = gfx.NoTexture
		return gfx.Texture{}, fmt.Errorf("gl: TexImage2D error 0x%x", e)
	}
	return gfx.Texture{ID: gfx.TextureID(id), Width: desc.Width, Height: desc.Height}, nil
}

func (b *Backend) BindTexture(unit int, id gfx.TextureID) {
	if unit < 0 || unit >= len(b.textures) {
		panic(fmt.Sprintf("gl: texture unit %d out of range", unit))
	}
	if b.textures[unit] == id {
		return
	}
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, uint32(id))
	b.textures[unit] = id
}

func (b *Backend) DeleteTexture(id gfx.TextureID) {
	for i := range b.textures {
		if b.textures[i] == id {
			b.textures[i] = gfx.NoTexture
		}
	}
	tex := uint32(id)
	gl.DeleteTextures(1, &tex)
}

func (b *Backend) CreateShader(kind gfx.ShaderKind) uint32 {
	if kind == gfx.VertexShader {
		return gl.CreateShader(gl.VERTEX_SHADER)
	}
	return gl.CreateShader(gl.FRAGMENT_SHADER)
}

func (b *Backend) CompileShader(id uint32, source string) (bool, string) {
	csrc, free := gl.Strs(source + "\x00")
	defer free()
	gl.ShaderSource(id, 1, csrc, nil)
	gl.CompileShader(id)

	var status int32
	gl.GetShaderiv(id, gl.COMPILE_STATUS, &status)
	if status == gl.TRUE {
		return true, ""
	}
	var logLen int32
	gl.GetShaderiv(id, gl.INFO_LOG_LENGTH, &logLen)
	log := strings.Repeat("\x00", int(logLen)+1)
	gl.GetShaderInfoLog(id, logLen, nil, gl.Str(log))
	return false, strings.TrimRight(log, "\x00")
}

func (b *Backend) DeleteShader(id uint32)              { gl.DeleteShader(id) }
func (b *Backend) CreateProgram() uint32               { return gl.CreateProgram() }
func (b *Backend) AttachShader(program, shader uint32) { gl.AttachShader(program, shader) }
func (b *Backend) DetachShader(program, shader uint32) { gl.DetachShader(program, shader) }

func (b *Backend) LinkProgram(id uint32) (bool, string) {
	gl.LinkProgram(id)

	var status int32
	gl.GetProgramiv(id, gl.LINK_STATUS, &status)
	if status == gl.TRUE {
		return true, ""
	}
	var logLen int32
	gl.GetProgramiv(id, gl.INFO_LOG_LENGTH, &logLen)
	log := strings.Repeat("\x00", int(logLen)+1)
	gl.GetProgramInfoLog(id, logLen, nil, gl.Str(log))
	return false, strings.TrimRight(log, "\x00")
}

func (b *Backend) UseProgram(id uint32) {
	if b.program == id {
		return
	}
	gl.UseProgram(id)
	b.program = id
}

func (b *Backend) DeleteProgram(id uint32) {
	if b.program == id {
		b.program = 0
	}
	gl.DeleteProgram(id)
}

func (b *Backend) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (b *Backend) SetUniformInt(location int32, v int32) { gl.Uniform1i(location, v) }

func (b *Backend) SetUniformMat4(location int32, m mgl32.Mat4) {
	gl.UniformMatrix4fv(location, 1, false, &m[0])
}

func (b *Backend) DrawIndexed(prim gfx.Primitive, count, firstIndex int) {
	mode := uint32(gl.TRIANGLES)
	if prim == gfx.Lines {
		mode = gl.LINES
	}
	gl.DrawElementsWithOffset(mode, int32(count), gl.UNSIGNED_INT, uintptr(firstIndex*4))
}

func (b *Backend) Viewport(x, y, w, h int) {
	gl.Viewport(int32(x), int32(y), int32(w), int32(h))
}

func (b *Backend) Clear(c colors.Color) {
	gl.ClearColor(c[0], c[1], c[2], c[3])
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

func glTarget(t gfx.BufferTarget) uint32 {
	if t == gfx.ElementArrayBuffer {
		return gl.ELEMENT_ARRAY_BUFFER
	}
	return gl.ARRAY_BUFFER
}

func glFilter(f gfx.Filter) int32 {
	if f == gfx.FilterLinear {
		return gl.LINEAR
	}
	return gl.NEAREST
}

func glWrap(w gfx.Wrap) int32 {
	if w == gfx.WrapRepeat {
		return gl.REPEAT
	}
	return gl.CLAMP_TO_EDGE
}

var _ gfx.Backend = (*Backend)(nil)
