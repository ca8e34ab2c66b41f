package cmd

import (
	"fmt"
	"os"

	"github.com/kr/pretty"
	"github.com/spf13/cobra"

	"github.com/cwbudde/go-lscript/internal/diag"
	"github.com/cwbudde/go-lscript/internal/lexer"
	"github.com/cwbudde/go-lscript/internal/parser"
)

var (
	parseEvalExpr string
	parseDebugAST bool
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse an L source file and display its syntax tree",
	Long: `Parse an L program and print its top-level statement count, or the
full syntax tree with --debug-ast.

Examples:
  lscript parse script.l
  lscript parse --debug-ast script.l
  lscript parse -e "x = 1"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&parseEvalExpr, "eval", "e", "", "parse inline code instead of reading from file")
	parseCmd.Flags().BoolVar(&parseDebugAST, "debug-ast", false, "pretty-print the full syntax tree")
}

func runParse(_ *cobra.Command, args []string) error {
	input, moduleName, err := readSource(parseEvalExpr, args)
	if err != nil {
		return err
	}

	l := lexer.New(input)
	p := parser.New(l)
	root, err := p.Parse()
	if err != nil {
		d := diag.FromError(err, moduleName)
		fmt.Fprintln(os.Stderr, d.Format(stderrIsTTY()))
		return fmt.Errorf("parsing failed")
	}

	if parseDebugAST {
		if _, err := pretty.Println(root); err != nil {
			return fmt.Errorf("printing syntax tree: %w", err)
		}
		return nil
	}

	fmt.Printf("parsed %d top-level statement(s)\n", len(root.Stmts))
	return nil
}
