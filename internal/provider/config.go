// Package provider implements the filesystem-backed external collaborators
// spec §6 names but deliberately leaves unconstrained: a moduledef.Resolver
// that reads ".ld" files from an ordered list of search roots, and a
// module.DependencyProvider that locates and compiles script-module source
// for an import name (SPEC_FULL.md C.4).
package provider

import (
	"os"

	"github.com/goccy/go-yaml"
)

// defaultNativeDefsDir mirrors spec §6's "<compiler-installation-dir>/../defs".
const defaultNativeDefsDir = "../defs"

// Config is the optional lscript.yaml file, read from the path the driver
// passes to LoadConfig (SPEC_FULL.md A.3). The core never reads this file
// itself; only this package does.
type Config struct {
	NativeDefsDir string   `yaml:"nativeDefsDir"`
	ImportPaths   []string `yaml:"importPaths"`
}

// LoadConfig reads and parses path, returning a zero-value Config if path
// does not exist (the file is optional).
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// NativeDefsRoots returns the search roots for native ".ld" files: the
// configured directory (if any) followed by the built-in default, so a
// project-local override is tried first (SPEC_FULL.md C.4).
func (c *Config) NativeDefsRoots() []string {
	var roots []string
	if c != nil && c.NativeDefsDir != "" {
		roots = append(roots, c.NativeDefsDir)
	}
	return append(roots, defaultNativeDefsDir)
}

// ScriptImportRoots returns the configured script-module search roots plus
// dir, the directory of the module being compiled, which is always
// searched last as a fallback.
func (c *Config) ScriptImportRoots(dir string) []string {
	var roots []string
	if c != nil {
		roots = append(roots, c.ImportPaths...)
	}
	return append(roots, dir)
}
