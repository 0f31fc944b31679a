// Package gfx is the contract between the 2D batching core and the graphics
// backend. The core never calls a graphics API directly; it goes through
// Backend, which engine/gfx/gl implements on top of OpenGL.
package gfx

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/hubastard/grove2d/engine/colors"
)

// TextureID is an opaque backend texture handle.
type TextureID uint32

// NoTexture is the null texture reference.
const NoTexture TextureID = 0

// Texture is what a content source hands to the core: an id and its size in pixels.
type Texture struct {
	ID            TextureID
	Width, Height int
}

// Valid reports whether t references a backend texture.
func (t Texture) Valid() bool { return t.ID != NoTexture }

type ShaderKind int

const (
	VertexShader ShaderKind = iota
	FragmentShader
)

func (k ShaderKind) String() string {
	switch k {
	case VertexShader:
		return "vertex"
	case FragmentShader:
		return "fragment"
	default:
		return "unknown"
	}
}

type BufferTarget int

const (
	ArrayBuffer BufferTarget = iota
	ElementArrayBuffer
)

type Primitive int

const (
	Triangles Primitive = iota
	Lines
)

type Filter int

const (
	FilterNearest Filter = iota
	FilterLinear
)

type Wrap int

const (
	WrapClamp Wrap = iota
	WrapRepeat
)

// TextureDesc describes tightly packed RGBA8 pixels to upload.
type TextureDesc struct {
	Width, Height int
	Pixels        []byte
	MinFilter     Filter
	MagFilter     Filter
	Wrap          Wrap
}

// Backend is the synchronous graphics invocation surface. All methods must be
// called from the thread owning the context, after BackendReady.
type Backend interface {
	CreateVertexArray() uint32
	BindVertexArray(id uint32)
	DeleteVertexArray(id uint32)

	CreateBuffer() uint32
	BindBuffer(target BufferTarget, id uint32)
	// AllocateBuffer (re)allocates dynamic storage for the bound buffer.
	AllocateBuffer(target BufferTarget, sizeBytes int)
	// UploadVertices writes into the bound array buffer at offsetBytes.
	UploadVertices(offsetBytes int, data []float32)
	// UploadIndices replaces the bound element buffer with static data.
	UploadIndices(data []uint32)
	DeleteBuffer(id uint32)
	// EnableVertexLayout configures attributes of the bound vertex array.
	EnableVertexLayout(layout VertexLayout)

	CreateTexture(desc TextureDesc) (Texture, error)
	BindTexture(unit int, id TextureID)
	DeleteTexture(id TextureID)

	CreateShader(kind ShaderKind) uint32
	CompileShader(id uint32, source string) (ok bool, infoLog string)
	DeleteShader(id uint32)
	CreateProgram() uint32
	AttachShader(program, shader uint32)
	DetachShader(program, shader uint32)
	LinkProgram(id uint32) (ok bool, infoLog string)
	UseProgram(id uint32)
	DeleteProgram(id uint32)
	UniformLocation(program uint32, name string) int32
	SetUniformInt(location int32, v int32)
	SetUniformMat4(location int32, m mgl32.Mat4)

	// DrawIndexed draws count indices starting at firstIndex of the bound element buffer.
	DrawIndexed(prim Primitive, count, firstIndex int)
	Viewport(x, y, w, h int)
	Clear(c colors.Color)

	// ResetState forgets cached bindings. Called when the context goes away,
	// so that a recreated context starts from a clean slate.
	ResetState()
}
