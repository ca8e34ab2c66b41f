package cmd

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cwbudde/go-lscript/internal/provider"
)

var (
	// Version information (set by build flags).
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	verbose    bool
	quiet      bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "lscript",
	Short: "Compiler for the L scripting language",
	Long: `lscript is a compiler for L, a small dynamically-typed scripting
language targeting a stack-based virtual machine.

It lexes and parses a main module, generates a linear opcode stream, and
links it with its declared module imports into one self-contained,
textual bytecode file.`,
	Version:           Version,
	PersistentPreRunE: configureLogging,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "increase logging verbosity (debug level)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all but error-level logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "lscript.yaml", "path to the optional lscript.yaml config file")
}

// configureLogging sets the package-level logrus level from, in order of
// precedence, the -v/-q flags, the LSCRIPT_LOG_LEVEL environment
// variable, then the default Info level (SPEC_FULL.md A.1).
func configureLogging(*cobra.Command, []string) error {
	switch {
	case verbose:
		log.SetLevel(log.DebugLevel)
	case quiet:
		log.SetLevel(log.ErrorLevel)
	default:
		if lvl, err := log.ParseLevel(os.Getenv("LSCRIPT_LOG_LEVEL")); err == nil {
			log.SetLevel(lvl)
		}
	}
	return nil
}

// loadConfig reads configPath, tolerating a missing file since the config
// is optional (SPEC_FULL.md A.3).
func loadConfig() (*provider.Config, error) {
	return provider.LoadConfig(configPath)
}

func moduleNameFromPath(path string) string {
	base := path
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' || path[i] == '\\' {
			base = path[i+1:]
			break
		}
	}
	for i := len(base) - 1; i >= 0; i-- {
		if base[i] == '.' {
			return base[:i]
		}
	}
	return base
}

func stderrIsTTY() bool {
	info, err := os.Stderr.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}
