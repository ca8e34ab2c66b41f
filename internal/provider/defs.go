package provider

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cwbudde/go-lscript/internal/moduledef"
)

// NativeDefs resolves a native module's ".ld" definition file by trying each
// search root in order and loading the first match (spec §4.4/§6,
// generalized per SPEC_FULL.md C.4). Results are cached since a native
// module is looked up lazily but potentially from many call sites.
type NativeDefs struct {
	roots []string
	cache map[string]*moduledef.Def
}

// NewNativeDefs creates a resolver that searches roots in order.
func NewNativeDefs(roots []string) *NativeDefs {
	return &NativeDefs{roots: roots, cache: make(map[string]*moduledef.Def)}
}

// Resolve implements moduledef.Resolver.
func (n *NativeDefs) Resolve(moduleName string) (*moduledef.Def, error) {
	if def, ok := n.cache[moduleName]; ok {
		return def, nil
	}

	filename := moduleName + ".ld"
	for _, root := range n.roots {
		path := filepath.Join(root, filename)
		f, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		def, err := moduledef.Load(moduleName, f)
		closeErr := f.Close()
		if err != nil {
			return nil, err
		}
		if closeErr != nil {
			return nil, closeErr
		}
		n.cache[moduleName] = def
		return def, nil
	}
	return nil, fmt.Errorf("native module definition %q not found in %v", filename, n.roots)
}
