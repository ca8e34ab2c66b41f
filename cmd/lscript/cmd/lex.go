package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/go-lscript/internal/diag"
	"github.com/cwbudde/go-lscript/internal/lexer"
)

var (
	lexShowPos  bool
	lexEvalExpr string
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize an L source file",
	Long: `Tokenize (lex) an L program and print the resulting tokens.

Examples:
  # Tokenize a script file
  lscript lex script.l

  # Tokenize inline code
  lscript lex -e "x = 1"

  # Show the source line number of each token
  lscript lex --show-pos script.l`,
	Args: cobra.MaximumNArgs(1),
	RunE: lexSource,
}

func init() {
	rootCmd.AddCommand(lexCmd)

	lexCmd.Flags().StringVarP(&lexEvalExpr, "eval", "e", "", "tokenize inline code instead of reading from file")
	lexCmd.Flags().BoolVar(&lexShowPos, "show-pos", false, "show the source line number of each token")
}

func lexSource(_ *cobra.Command, args []string) error {
	input, moduleName, err := readSource(lexEvalExpr, args)
	if err != nil {
		return err
	}

	l := lexer.New(input)
	for {
		tok, err := l.NextToken()
		if err != nil {
			d := diag.FromError(err, moduleName)
			fmt.Fprintln(os.Stderr, d.Format(stderrIsTTY()))
			return fmt.Errorf("lexing failed")
		}
		printToken(tok)
		if tok.Type == lexer.EOF {
			break
		}
	}
	return nil
}

func printToken(tok lexer.Token) {
	output := fmt.Sprintf("[%-8s]", tok.Type)
	if tok.Literal != "" {
		output += fmt.Sprintf(" %q", tok.Literal)
	}
	if lexShowPos {
		output += fmt.Sprintf(" @%d", tok.Line)
	}
	fmt.Println(output)
}

func readSource(inlineExpr string, args []string) (source, moduleName string, err error) {
	if inlineExpr != "" {
		return inlineExpr, "<eval>", nil
	}
	if len(args) != 1 {
		return "", "", fmt.Errorf("either provide a file path or use -e for inline code")
	}
	content, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", fmt.Errorf("failed to read file %s: %w", args[0], err)
	}
	return string(content), moduleNameFromPath(args[0]), nil
}
