// Package shader manages the backend program of one item kind.
package shader

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/hubastard/grove2d/engine/gfx"
	"github.com/hubastard/grove2d/engine/logging"
	"github.com/hubastard/grove2d/engine/notify"
)

// Source loads vertex and fragment source for a named program.
type Source interface {
	Load(name string) (vertex, fragment string, err error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(name string) (string, string, error)

func (f SourceFunc) Load(name string) (string, string, error) { return f(name) }

// Program is compiled and linked on BackendReady and deleted on ShuttingDown.
type Program struct {
	name     string
	be       gfx.Backend
	src      Source
	samplers []string

	id   uint32
	life gfx.Lifetime
	locs map[string]int32
	subs notify.Group
	log  *slog.Logger
}

// New creates a program and subscribes it to the lifecycle topics. Each
// sampler uniform is bound to the texture unit matching its position.
func New(be gfx.Backend, bus *notify.Bus, src Source, name string, samplers ...string) *Program {
	p := &Program{
		name:     name,
		be:       be,
		src:      src,
		samplers: samplers,
		life:     gfx.Lifetime{Component: "shader " + name},
		locs:     make(map[string]int32),
		log:      logging.For("shader").With("program", name),
	}
	p.subs.Add(
		notify.Subscribe(bus, notify.BackendReady, "shader "+name, func(struct{}) error {
			return p.Init()
		}),
		notify.Subscribe(bus, notify.ShuttingDown, "shader "+name, func(struct{}) error {
			p.release()
			return nil
		}),
	)
	return p
}

func (p *Program) Name() string      { return p.name }
func (p *Program) ID() uint32        { return p.id }
func (p *Program) Initialized() bool { return p.life.Live() }

// Init loads, compiles and links the program, then deletes the shader
// objects. A second Init without ShuttingDown fails without recompiling.
func (p *Program) Init() error {
	if err := p.life.Acquire(); err != nil {
		return err
	}
	id, err := p.build()
	if err != nil {
		p.life.Release()
		return err
	}
	p.id = id
	clear(p.locs)
	for _, s := range p.samplers {
		p.locs[s] = p.be.UniformLocation(id, s)
	}
	p.log.Debug("linked", "id", id)
	return nil
}

func (p *Program) build() (uint32, error) {
	vsSrc, fsSrc, err := p.src.Load(p.name)
	if err != nil {
		return 0, fmt.Errorf("shader %s: load source: %w", p.name, err)
	}
	vs, err := p.compile(gfx.VertexShader, vsSrc)
	if err != nil {
		return 0, err
	}
	fs, err := p.compile(gfx.FragmentShader, fsSrc)
	if err != nil {
		p.be.DeleteShader(vs)
		return 0, err
	}

	prog := p.be.CreateProgram()
	p.be.AttachShader(prog, vs)
	p.be.AttachShader(prog, fs)
	ok, log := p.be.LinkProgram(prog)

	// Shader objects are no longer needed once linking has been attempted.
	p.be.DetachShader(prog, vs)
	p.be.DetachShader(prog, fs)
	p.be.DeleteShader(vs)
	p.be.DeleteShader(fs)

	if !ok {
		p.be.DeleteProgram(prog)
		return 0, &gfx.LinkError{Program: p.name, ProgramID: prog, Log: log}
	}
	return prog, nil
}

func (p *Program) compile(kind gfx.ShaderKind, src string) (uint32, error) {
	id := p.be.CreateShader(kind)
	if ok, log := p.be.CompileShader(id, src); !ok {
		p.be.DeleteShader(id)
		return 0, &gfx.CompileError{Program: p.name, ShaderID: id, Kind: kind, Log: log}
	}
	return id, nil
}

// Use activates the program and binds its samplers to their texture units.
// It panics if the program has not been initialized.
func (p *Program) Use() {
	p.mustBeLive("Use")
	p.be.UseProgram(p.id)
	for unit, s := range p.samplers {
		p.be.SetUniformInt(p.locs[s], int32(unit))
	}
}

// SetMatrix sets a mat4 uniform on the program. Use must have been called.
func (p *Program) SetMatrix(name string, m mgl32.Mat4) {
	p.mustBeLive("SetMatrix")
	loc, ok := p.locs[name]
	if !ok {
		loc = p.be.UniformLocation(p.id, name)
		p.locs[name] = loc
	}
	p.be.SetUniformMat4(loc, m)
}

// Dispose unsubscribes from the bus.
func (p *Program) Dispose() { p.subs.Dispose() }

func (p *Program) release() {
	if !p.life.Release() {
		return
	}
	p.be.DeleteProgram(p.id)
	p.log.Debug("deleted", "id", p.id)
	p.id = 0
}

func (p *Program) mustBeLive(op string) {
	if !p.life.Live() {
		panic(&gfx.SequenceError{
			Component:    "shader " + p.name,
			Op:           op,
			Prerequisite: "BackendReady",
			Detail:       "shader not initialized",
		})
	}
}
