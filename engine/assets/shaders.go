package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
)

//go:embed shaders/*.vert shaders/*.frag
var builtin embed.FS

// Shaders loads "<name>.vert" and "<name>.frag" pairs. It satisfies
// shader.Source.
type Shaders struct {
	fsys fs.FS
}

// BuiltinShaders serves the shaders compiled into the binary.
func BuiltinShaders() Shaders {
	sub, err := fs.Sub(builtin, "shaders")
	if err != nil {
		panic(err)
	}
	return Shaders{fsys: sub}
}

// ShadersFrom serves shaders from fsys, e.g. os.DirFS("assets/shaders").
func ShadersFrom(fsys fs.FS) Shaders { return Shaders{fsys: fsys} }

// ShaderDir serves shaders from a directory on disk.
func ShaderDir(dir string) Shaders { return ShadersFrom(os.DirFS(dir)) }

func (s Shaders) Load(name string) (vertex, fragment string, err error) {
	if vertex, err = s.read(name + ".vert"); err != nil {
		return "", "", err
	}
	if fragment, err = s.read(name + ".frag"); err != nil {
		return "", "", err
	}
	return vertex, fragment, nil
}

func (s Shaders) read(file string) (string, error) {
	b, err := fs.ReadFile(s.fsys, path.Clean(file))
	if err != nil {
		return "", fmt.Errorf("load shader %q: %w", file, err)
	}
	if len(b) == 0 {
		return "", fmt.Errorf("load shader %q: empty file", file)
	}
	return string(b), nil
}
