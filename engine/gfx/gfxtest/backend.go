// Package gfxtest provides a recording gfx.Backend for tests.
package gfxtest

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/hubastard/grove2d/engine/colors"
	"github.com/hubastard/grove2d/engine/gfx"
)

// Call is one recorded backend invocation.
type Call struct {
	Op   string
	Args []any
}

func (c Call) String() string { return fmt.Sprintf("%s%v", c.Op, c.Args) }

// Draw is a recorded DrawIndexed call with the state bound at that time.
type Draw struct {
	Prim       gfx.Primitive
	Count      int
	FirstIndex int
	Program    uint32
	VertexArr  uint32
	Texture    gfx.TextureID
}

// Backend records calls and keeps just enough state to check them.
type Backend struct {
	Calls []Call
	Draws []Draw

	// FailCompile makes CompileShader fail for shaders of that kind.
	FailCompile map[gfx.ShaderKind]string
	// FailLink makes LinkProgram fail with this log when non-empty.
	FailLink string

	// Vertices holds the contents of each array buffer by id.
	Vertices map[uint32][]float32
	Indices  map[uint32][]uint32
	Uniforms map[int32]any

	nextID      uint32
	boundArray  uint32
	boundElem   uint32
	boundVAO    uint32
	program     uint32
	textures    map[int]gfx.TextureID
	locations   map[string]int32
	shaderKinds map[uint32]gfx.ShaderKind
	live        map[string]map[uint32]bool
}

func New() *Backend {
	return &Backend{
		FailCompile: map[gfx.ShaderKind]string{},
		Vertices:    map[uint32][]float32{},
		Indices:     map[uint32][]uint32{},
		Uniforms:    map[int32]any{},
		textures:    map[int]gfx.TextureID{},
		locations:   map[string]int32{},
		shaderKinds: map[uint32]gfx.ShaderKind{},
		live: map[string]map[uint32]bool{
			"vertexarray": {}, "buffer": {}, "texture": {}, "shader": {}, "program": {},
		},
	}
}

func (b *Backend) record(op string, args ...any) { b.Calls = append(b.Calls, Call{Op: op, Args: args}) }

func (b *Backend) id(kind string) uint32 {
	b.nextID++
	b.live[kind][b.nextID] = true
	return b.nextID
}

// Count returns how many times op was called.
func (b *Backend) Count(op string) int {
	n := 0
	for _, c := range b.Calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Live reports the number of undeleted objects of a kind:
// "vertexarray", "buffer", "texture", "shader" or "program".
func (b *Backend) Live(kind string) int { return len(b.live[kind]) }

// Reset forgets recorded calls and draws but keeps object state.
func (b *Backend) Reset() {
	b.Calls = nil
	b.Draws = nil
}

// ItemCount sums the quads drawn, assuming six indices per quad.
func (b *Backend) ItemCount() int {
	n := 0
	for _, d := range b.Draws {
		n += d.Count / 6
	}
	return n
}

// ResetState clears bindings but keeps live objects, so leaks stay visible.
func (b *Backend) ResetState() {
	b.boundArray, b.boundElem, b.boundVAO, b.program = 0, 0, 0, 0
	clear(b.textures)
	b.record("ResetState")
}

func (b *Backend) CreateVertexArray() uint32 {
	id := b.id("vertexarray")
	b.record("CreateVertexArray", id)
	return id
}

func (b *Backend) BindVertexArray(id uint32) {
	b.boundVAO = id
	b.record("BindVertexArray", id)
}

func (b *Backend) DeleteVertexArray(id uint32) {
	delete(b.live["vertexarray"], id)
	b.record("DeleteVertexArray", id)
}

func (b *Backend) CreateBuffer() uint32 {
	id := b.id("buffer")
	b.record("CreateBuffer", id)
	return id
}

func (b *Backend) BindBuffer(target gfx.BufferTarget, id uint32) {
	if target == gfx.ArrayBuffer {
		b.boundArray = id
	} else {
		b.boundElem = id
	}
	b.record("BindBuffer", target, id)
}

func (b *Backend) AllocateBuffer(target gfx.BufferTarget, sizeBytes int) {
	if target == gfx.ArrayBuffer {
		b.Vertices[b.boundArray] = make([]float32, sizeBytes/4)
	}
	b.record("AllocateBuffer", target, sizeBytes)
}

func (b *Backend) UploadVertices(offsetBytes int, data []float32) {
	dst := b.Vertices[b.boundArray]
	off := offsetBytes / 4
	if off+len(data) > len(dst) {
		panic(fmt.Sprintf("gfxtest: vertex upload [%d:%d] overflows buffer of %d floats", off, off+len(data), len(dst)))
	}
	copy(dst[off:], data)
	b.record("UploadVertices", offsetBytes, len(data))
}

func (b *Backend) UploadIndices(data []uint32) {
	b.Indices[b.boundElem] = append([]uint32(nil), data...)
	b.record("UploadIndices", len(data))
}

func (b *Backend) DeleteBuffer(id uint32) {
	delete(b.live["buffer"], id)
	b.record("DeleteBuffer", id)
}

func (b *Backend) EnableVertexLayout(layout gfx.VertexLayout) {
	b.record("EnableVertexLayout", layout.Stride, len(layout.Attributes))
}

func (b *Backend) CreateTexture(desc gfx.TextureDesc) (gfx.Texture, error) {
	if desc.Width <= 0 || desc.Height <= 0 {
		return gfx.Texture{}, fmt.Errorf("gfxtest: bad texture size %dx%d", desc.Width, desc.Height)
	}
	if len(desc.Pixels) != 0 && len(desc.Pixels) != desc.Width*desc.Height*4 {
		return gfx.Texture{}, fmt.Errorf("gfxtest: %d bytes for %dx%d texture", len(desc.Pixels), desc.Width, desc.Height)
	}
	id := b.id("texture")
	b.record("CreateTexture", id, desc.Width, desc.Height)
	return gfx.Texture{ID: gfx.TextureID(id), Width: desc.Width, Height: desc.Height}, nil
}

func (b *Backend) BindTexture(unit int, id gfx.TextureID) {
	b.textures[unit] = id
	b.record("BindTexture", unit, id)
}

func (b *Backend) DeleteTexture(id gfx.TextureID) {
	delete(b.live["texture"], uint32(id))
	b.record("DeleteTexture", id)
}

func (b *Backend) CreateShader(kind gfx.ShaderKind) uint32 {
	id := b.id("shader")
	b.record("CreateShader", kind, id)
	b.shaderKinds[id] = kind
	return id
}

func (b *Backend) CompileShader(id uint32, source string) (bool, string) {
	b.record("CompileShader", id)
	if log, ok := b.FailCompile[b.shaderKinds[id]]; ok {
		return false, log
	}
	if source == "" {
		return false, "empty source"
	}
	return true, ""
}

func (b *Backend) DeleteShader(id uint32) {
	delete(b.live["shader"], id)
	b.record("DeleteShader", id)
}

func (b *Backend) CreateProgram() uint32 {
	id := b.id("program")
	b.record("CreateProgram", id)
	return id
}

func (b *Backend) AttachShader(program, shader uint32) { b.record("AttachShader", program, shader) }
func (b *Backend) DetachShader(program, shader uint32) { b.record("DetachShader", program, shader) }

func (b *Backend) LinkProgram(id uint32) (bool, string) {
	b.record("LinkProgram", id)
	if b.FailLink != "" {
		return false, b.FailLink
	}
	return true, ""
}

func (b *Backend) UseProgram(id uint32) {
	b.program = id
	b.record("UseProgram", id)
}

func (b *Backend) DeleteProgram(id uint32) {
	delete(b.live["program"], id)
	b.record("DeleteProgram", id)
}

func (b *Backend) UniformLocation(program uint32, name string) int32 {
	key := fmt.Sprintf("%d/%s", program, name)
	loc, ok := b.locations[key]
	if !ok {
		loc = int32(len(b.locations))
		b.locations[key] = loc
	}
	b.record("UniformLocation", program, name)
	return loc
}

func (b *Backend) SetUniformInt(location int32, v int32) {
	b.Uniforms[location] = v
	b.record("SetUniformInt", location, v)
}

func (b *Backend) SetUniformMat4(location int32, m mgl32.Mat4) {
	b.Uniforms[location] = m
	b.record("SetUniformMat4", location)
}

func (b *Backend) DrawIndexed(prim gfx.Primitive, count, firstIndex int) {
	b.Draws = append(b.Draws, Draw{
		Prim:       prim,
		Count:      count,
		FirstIndex: firstIndex,
		Program:    b.program,
		VertexArr:  b.boundVAO,
		Texture:    b.textures[0],
	})
	b.record("DrawIndexed", prim, count, firstIndex)
}

func (b *Backend) Viewport(x, y, w, h int) { b.record("Viewport", x, y, w, h) }

func (b *Backend) Clear(c colors.Color) { b.record("Clear", c) }

var _ gfx.Backend = (*Backend)(nil)
