package layout

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/rwaldren/shuntyard/internal/yard"
)

//go:embed default.cue
var defaultCUE []byte

// Default compiles the embedded standard yard layout.
func Default() (*yard.Topology, error) {
	return LoadBytes("default.cue", defaultCUE)
}

// LoadFile compiles a yard layout from a .cue file on disk.
func LoadFile(path string) (*yard.Topology, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading layout %s: %w", path, err)
	}
	return LoadBytes(path, src)
}

// LoadBytes compiles a yard layout from CUE source. filename is used
// for error positions only.
func LoadBytes(filename string, src []byte) (*yard.Topology, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	return Compile(v.LookupPath(cue.ParsePath("yard")))
}
