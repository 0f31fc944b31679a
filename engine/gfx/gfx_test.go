package gfx

import (
	"errors"
	"strings"
	"testing"
)

func TestNewLayout(t *testing.T) {
	l := NewLayout(2, 2, 4)
	if l.Stride != 32 || l.Floats() != 8 {
		t.Fatalf("stride = %d floats = %d, want 32 and 8", l.Stride, l.Floats())
	}
	want := []VertexAttrib{{0, 2, 0}, {1, 2, 8}, {2, 4, 16}}
	for i, a := range l.Attributes {
		if a != want[i] {
			t.Errorf("attr %d = %+v, want %+v", i, a, want[i])
		}
	}
}

func TestLifetime(t *testing.T) {
	l := Lifetime{Component: "buffer texture"}
	if l.Release() {
		t.Error("releasing a fresh lifetime should be a no-op")
	}
	if err := l.Acquire(); err != nil {
		t.Fatalf("first Acquire: %v", err)
	}
	err := l.Acquire()
	var le *LifecycleError
	if !errors.As(err, &le) || le.Component != "buffer texture" {
		t.Fatalf("second Acquire = %v, want LifecycleError", err)
	}
	if !l.Release() || l.Release() {
		t.Error("Release should report true exactly once")
	}
	if err := l.Acquire(); err != nil {
		t.Errorf("Acquire after Release: %v", err)
	}
	if l.Acquisitions() != 2 {
		t.Errorf("Acquisitions = %d, want 2", l.Acquisitions())
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err  error
		want []string
	}{
		{&SequenceError{Component: "renderer2d", Op: "Render", Prerequisite: "BeginBatch"}, []string{"BeginBatch must be invoked before Render"}},
		{&SequenceError{Component: "shader texture", Op: "Use", Prerequisite: "BackendReady", Detail: "shader not initialized"}, []string{"shader not initialized"}},
		{&CompileError{Program: "texture", ShaderID: 7, Kind: FragmentShader, Log: "syntax"}, []string{"fragment", "7", "syntax"}},
		{&LinkError{Program: "texture", ProgramID: 9, Log: "bad"}, []string{"program 9", "bad"}},
		{&ArgumentError{Op: "RenderTexture", Arg: "item.Texture", Err: ErrNullTexture}, []string{"item.Texture", "null texture"}},
	}
	for _, tt := range tests {
		msg := tt.err.Error()
		for _, w := range tt.want {
			if !strings.Contains(msg, w) {
				t.Errorf("%q does not contain %q", msg, w)
			}
		}
	}
	if !errors.Is(&ArgumentError{Err: ErrNullTexture}, ErrNullTexture) {
		t.Error("ArgumentError should unwrap to its cause")
	}
}
