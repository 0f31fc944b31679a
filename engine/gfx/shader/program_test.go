package shader

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/hubastard/grove2d/engine/gfx"
	"github.com/hubastard/grove2d/engine/gfx/gfxtest"
	"github.com/hubastard/grove2d/engine/notify"
)

var testSource = SourceFunc(func(name string) (string, string, error) {
	return "void main(){} // " + name + ".vert", "void main(){} // " + name + ".frag", nil
})

func setup() (*Program, *gfxtest.Backend, *notify.Bus) {
	be := gfxtest.New()
	bus := notify.New()
	return New(be, bus, testSource, "texture", "uTexture"), be, bus
}

func publishReady(bus *notify.Bus) error {
	return notify.Publish(bus, notify.BackendReady, struct{}{})
}

func TestUseBeforeBackendReadyPanics(t *testing.T) {
	p, be, _ := setup()
	defer func() {
		v := recover()
		err, ok := v.(*gfx.SequenceError)
		if !ok {
			t.Fatalf("panic = %v, want *gfx.SequenceError", v)
		}
		if !strings.Contains(err.Error(), "shader not initialized") {
			t.Errorf("message %q", err.Error())
		}
		if be.Count("UseProgram") != 0 {
			t.Error("UseProgram reached the backend")
		}
	}()
	p.Use()
}

func TestInitSequence(t *testing.T) {
	p, be, bus := setup()
	if err := publishReady(bus); err != nil {
		t.Fatal(err)
	}
	if !p.Initialized() || p.ID() == 0 {
		t.Fatal("program not initialized")
	}
	for _, op := range []string{"CompileShader", "AttachShader", "DetachShader", "DeleteShader"} {
		if n := be.Count(op); n != 2 {
			t.Errorf("%s called %d times, want 2", op, n)
		}
	}
	if be.Live("shader") != 0 {
		t.Error("shader objects leaked after linking")
	}
	if be.Count("LinkProgram") != 1 {
		t.Error("program not linked exactly once")
	}
}

func TestUseAfterReady(t *testing.T) {
	p, be, bus := setup()
	if err := publishReady(bus); err != nil {
		t.Fatal(err)
	}
	be.Reset()
	p.Use()
	if be.Count("UseProgram") != 1 || be.Count("SetUniformInt") != 1 {
		t.Fatalf("calls = %v", be.Calls)
	}
	p.Use()
	if be.Count("UseProgram") != 2 || be.Count("SetUniformInt") != 2 {
		t.Errorf("second Use: calls = %v", be.Calls)
	}
	for loc, v := range be.Uniforms {
		if v != int32(0) {
			t.Errorf("sampler at %d bound to unit %v, want 0", loc, v)
		}
	}
}

func TestSecondReadyDoesNotRecompile(t *testing.T) {
	_, be, bus := setup()
	if err := publishReady(bus); err != nil {
		t.Fatal(err)
	}
	err := publishReady(bus)
	var le *gfx.LifecycleError
	if !errors.As(err, &le) {
		t.Fatalf("second BackendReady = %v, want LifecycleError", err)
	}
	if be.Count("CompileShader") != 2 {
		t.Errorf("recompiled: %d compiles", be.Count("CompileShader"))
	}
}

func TestCompileError(t *testing.T) {
	tests := []struct {
		kind gfx.ShaderKind
		live int
	}{
		{gfx.VertexShader, 0},
		{gfx.FragmentShader, 0},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			p, be, bus := setup()
			be.FailCompile[tt.kind] = "0:1 syntax error"
			err := publishReady(bus)
			var ce *gfx.CompileError
			if !errors.As(err, &ce) {
				t.Fatalf("err = %v, want CompileError", err)
			}
			if ce.Kind != tt.kind || ce.ShaderID == 0 || ce.Log != "0:1 syntax error" {
				t.Errorf("CompileError = %+v", ce)
			}
			if p.Initialized() {
				t.Error("program initialized after a compile failure")
			}
			if be.Live("shader") != tt.live {
				t.Errorf("%d shader objects leaked", be.Live("shader"))
			}
		})
	}
}

func TestLinkError(t *testing.T) {
	p, be, bus := setup()
	be.FailLink = "undefined varying"
	err := publishReady(bus)
	var le *gfx.LinkError
	if !errors.As(err, &le) {
		t.Fatalf("err = %v, want LinkError", err)
	}
	if le.ProgramID == 0 || !strings.Contains(le.Error(), "undefined varying") {
		t.Errorf("LinkError = %v", le)
	}
	if p.Initialized() || be.Live("program") != 0 || be.Live("shader") != 0 {
		t.Error("failed link left objects behind")
	}

	// A later BackendReady may try again.
	be.FailLink = ""
	if err := publishReady(bus); err != nil {
		t.Fatalf("retry: %v", err)
	}
}

func TestLoadError(t *testing.T) {
	be := gfxtest.New()
	bus := notify.New()
	boom := errors.New("missing file")
	New(be, bus, SourceFunc(func(string) (string, string, error) { return "", "", boom }), "glyph")
	if err := publishReady(bus); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if be.Count("CreateShader") != 0 {
		t.Error("compiled without source")
	}
}

func TestShutdownDeletesOnce(t *testing.T) {
	p, be, bus := setup()
	if err := publishReady(bus); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := notify.Publish(bus, notify.ShuttingDown, struct{}{}); err != nil {
			t.Fatal(err)
		}
	}
	if be.Count("DeleteProgram") != 1 {
		t.Errorf("DeleteProgram called %d times", be.Count("DeleteProgram"))
	}
	if p.Initialized() {
		t.Error("program still initialized")
	}
}

func TestSetMatrixCachesLocation(t *testing.T) {
	p, be, bus := setup()
	if err := publishReady(bus); err != nil {
		t.Fatal(err)
	}
	be.Reset()
	p.SetMatrix("uProjection", mgl32.Ident4())
	p.SetMatrix("uProjection", mgl32.Ident4())
	if be.Count("UniformLocation") != 1 || be.Count("SetUniformMat4") != 2 {
		t.Errorf("calls = %v", be.Calls)
	}
}

func TestDispose(t *testing.T) {
	p, be, bus := setup()
	p.Dispose()
	if err := publishReady(bus); err != nil {
		t.Fatal(err)
	}
	if p.Initialized() || be.Count("CreateProgram") != 0 {
		t.Error("disposed program reacted to BackendReady")
	}
}
