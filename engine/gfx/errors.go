package gfx

import (
	"errors"
	"fmt"
)

// ErrNullTexture is wrapped by the ArgumentError returned for items without a texture.
var ErrNullTexture = errors.New("null texture reference")

// SequenceError reports a call made before its lifecycle prerequisite.
// It is raised with panic: it is always a programming error.
type SequenceError struct {
	Component    string
	Op           string
	Prerequisite string
	Detail       string
}

func (e *SequenceError) Error() string {
	msg := fmt.Sprintf("%s must be invoked before %s", e.Prerequisite, e.Op)
	if e.Detail != "" {
		msg = e.Detail + " (" + msg + ")"
	}
	return e.Component + ": " + msg
}

// ArgumentError reports a rejected argument. The call had no side effects.
type ArgumentError struct {
	Op  string
	Arg string
	Err error
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s: invalid argument %s: %v", e.Op, e.Arg, e.Err)
}

func (e *ArgumentError) Unwrap() error { return e.Err }

// CompileError carries the backend's info log for a failed shader.
type CompileError struct {
	Program  string
	ShaderID uint32
	Kind     ShaderKind
	Log      string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s: compile %s shader %d: %s", e.Program, e.Kind, e.ShaderID, e.Log)
}

// LinkError carries the backend's info log for a failed program link.
type LinkError struct {
	Program   string
	ProgramID uint32
	Log       string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("%s: link program %d: %s", e.Program, e.ProgramID, e.Log)
}

// LifecycleError reports a lifecycle notification that would leak or reuse
// backend objects, such as BackendReady for a component that is still live.
type LifecycleError struct {
	Component string
	Event     string
	Detail    string
}

func (e *LifecycleError) Error() string {
	return fmt.Sprintf("%s: unexpected %s: %s", e.Component, e.Event, e.Detail)
}
