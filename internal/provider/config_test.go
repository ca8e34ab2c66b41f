package provider

import (
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFileReturnsZeroValue(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "lscript.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.NativeDefsDir != "" || len(cfg.ImportPaths) != 0 {
		t.Fatalf("expected zero-value config, got %+v", cfg)
	}
}

func TestLoadConfigParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lscript.yaml")
	writeFile(t, path, "nativeDefsDir: ./defs\nimportPaths:\n  - ./lib\n  - ./vendor\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.NativeDefsDir != "./defs" {
		t.Fatalf("expected nativeDefsDir ./defs, got %q", cfg.NativeDefsDir)
	}
	if len(cfg.ImportPaths) != 2 || cfg.ImportPaths[0] != "./lib" || cfg.ImportPaths[1] != "./vendor" {
		t.Fatalf("expected importPaths [./lib ./vendor], got %v", cfg.ImportPaths)
	}
}

func TestConfigNativeDefsRootsPutsConfiguredDirFirst(t *testing.T) {
	cfg := &Config{NativeDefsDir: "./defs"}
	roots := cfg.NativeDefsRoots()
	if len(roots) != 2 || roots[0] != "./defs" || roots[1] != defaultNativeDefsDir {
		t.Fatalf("expected [./defs %s], got %v", defaultNativeDefsDir, roots)
	}
}

func TestConfigNativeDefsRootsWithNilConfigUsesDefault(t *testing.T) {
	var cfg *Config
	roots := cfg.NativeDefsRoots()
	if len(roots) != 1 || roots[0] != defaultNativeDefsDir {
		t.Fatalf("expected [%s], got %v", defaultNativeDefsDir, roots)
	}
}

func TestConfigScriptImportRootsAppendsModuleDirLast(t *testing.T) {
	cfg := &Config{ImportPaths: []string{"./lib"}}
	roots := cfg.ScriptImportRoots("/scripts")
	if len(roots) != 2 || roots[0] != "./lib" || roots[1] != "/scripts" {
		t.Fatalf("expected [./lib /scripts], got %v", roots)
	}
}
