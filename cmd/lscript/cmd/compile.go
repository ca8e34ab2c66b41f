package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cwbudde/go-lscript/internal/diag"
	"github.com/cwbudde/go-lscript/internal/provider"
	"github.com/cwbudde/go-lscript/pkg/lscript"
)

var (
	compileOutput   bool
	compileOutFile  string
	compileNoLink   bool
	compileJSONDiag bool
)

var compileCmd = &cobra.Command{
	Use:   "compile [file]",
	Short: "Compile and link an L source file",
	Long: `Compile an L program to its linked, textual bytecode form and write it
to an output file.

Examples:
  # Compile a script, resolving its imports and writing script.lc
  lscript compile script.l

  # Compile without resolving imports (emit one unlinked module)
  lscript compile --no-link script.l

  # Choose the output path
  lscript compile script.l -o out.lc`,
	Args: cobra.ExactArgs(1),
	RunE: runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().StringVarP(&compileOutFile, "output", "o", "", "output file (default: <input> with .lc extension)")
	compileCmd.Flags().BoolVar(&compileNoLink, "no-link", false, "emit the unlinked module, skipping dependency resolution")
	compileCmd.Flags().BoolVar(&compileJSONDiag, "json", false, "report failures as JSON instead of plain text")
}

func runCompile(_ *cobra.Command, args []string) error {
	filename := args[0]
	moduleName := moduleNameFromPath(filename)

	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	defs := provider.NewNativeDefs(cfg.NativeDefsRoots())
	opts := lscript.Options{NativeDefs: defs}

	mod, err := lscript.Compile(moduleName, string(content), opts)
	if err != nil {
		return reportCompileFailure(err, moduleName)
	}

	if !compileNoLink {
		deps := provider.NewScriptProvider(cfg.ScriptImportRoots(filepath.Dir(filename)), defs)
		opts.Dependencies = deps
		mod, err = lscript.Link(mod, opts)
		if err != nil {
			return reportCompileFailure(err, moduleName)
		}
	}

	outFile := compileOutFile
	if outFile == "" {
		ext := filepath.Ext(filename)
		if ext != "" {
			outFile = strings.TrimSuffix(filename, ext) + ".lc"
		} else {
			outFile = filename + ".lc"
		}
	}

	if err := os.WriteFile(outFile, []byte(mod.Serialize()), 0o644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", outFile, err)
	}

	fmt.Printf("Compiled %s -> %s\n", filename, outFile)
	return nil
}

func reportCompileFailure(err error, moduleName string) error {
	d := diag.FromError(err, moduleName)
	if compileJSONDiag {
		js, jsonErr := d.FormatJSON()
		if jsonErr != nil {
			return jsonErr
		}
		fmt.Fprintln(os.Stderr, js)
	} else {
		fmt.Fprintln(os.Stderr, d.Format(stderrIsTTY()))
	}
	return fmt.Errorf("compilation failed")
}
