package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cwbudde/go-lscript/internal/diag"
	"github.com/cwbudde/go-lscript/internal/linker"
	"github.com/cwbudde/go-lscript/internal/module"
	"github.com/cwbudde/go-lscript/internal/provider"
)

var linkOutFile string

var linkCmd = &cobra.Command{
	Use:   "link [file]",
	Short: "Link a previously compiled, unlinked module",
	Long: `Link reads a module previously written by "lscript compile --no-link",
resolves its declared imports, and writes the merged, self-contained
bytecode file (spec §4.6).

Useful when a module was compiled once and cached, so only the linking
step needs to run against its (possibly also cached) dependencies.`,
	Args: cobra.ExactArgs(1),
	RunE: runLink,
}

func init() {
	rootCmd.AddCommand(linkCmd)
	linkCmd.Flags().StringVarP(&linkOutFile, "output", "o", "", "output file (default: <input> with .linked.lc extension)")
}

func runLink(_ *cobra.Command, args []string) error {
	filename := args[0]

	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	mod, err := module.Parse(string(content))
	if err != nil {
		return fmt.Errorf("failed to parse compiled module %s: %w", filename, err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	defs := provider.NewNativeDefs(cfg.NativeDefsRoots())
	deps := provider.NewScriptProvider(cfg.ScriptImportRoots(filepath.Dir(filename)), defs)

	lk := linker.New(deps)
	linked, err := lk.Link(mod)
	if err != nil {
		d := diag.FromError(err, mod.Name)
		fmt.Fprintln(os.Stderr, d.Format(stderrIsTTY()))
		return fmt.Errorf("linking failed")
	}

	outFile := linkOutFile
	if outFile == "" {
		ext := filepath.Ext(filename)
		if ext != "" {
			outFile = strings.TrimSuffix(filename, ext) + ".linked.lc"
		} else {
			outFile = filename + ".linked.lc"
		}
	}
	if err := os.WriteFile(outFile, []byte(linked.Serialize()), 0o644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", outFile, err)
	}

	fmt.Printf("Linked %s -> %s\n", filename, outFile)
	return nil
}
