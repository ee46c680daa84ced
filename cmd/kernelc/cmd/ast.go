package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	kast "github.com/cwbudde/go-kernelc/internal/ast"
	"github.com/cwbudde/go-kernelc/internal/parser"
)

var (
	astEval    string
	astDumpAST bool
)

var astCmd = &cobra.Command{
	Use:   "ast [file]",
	Short: "Parse a kernel-function expression and display its AST",
	Long: `Parse a kernel-function expression (the numeric JS-like subset) and
print the Abstract Syntax Tree.

If no file is provided, reads from stdin. Use -e to parse an inline
expression from the command line.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAST,
}

func init() {
	rootCmd.AddCommand(astCmd)

	astCmd.Flags().StringVarP(&astEval, "eval", "e", "", "parse inline code instead of reading from a file")
	astCmd.Flags().BoolVar(&astDumpAST, "dump", false, "dump the full AST node tree instead of the rendered source")
}

func runAST(cmd *cobra.Command, args []string) error {
	source, label, err := readSource(astEval, args)
	if err != nil {
		return err
	}

	fn, cErr := parser.ParseFunctionExpression(source)
	if cErr != nil {
		fmt.Fprintf(os.Stderr, "parse error in %s:\n%s\n", label, cErr.Format())
		return fmt.Errorf("parsing failed")
	}

	if astDumpAST {
		dumpNode(fn, 0)
		return nil
	}
	fmt.Println(fn.String())
	return nil
}

func dumpNode(node kast.Node, indent int) {
	pad := ""
	for i := 0; i < indent; i++ {
		pad += "  "
	}

	switch n := node.(type) {
	case *kast.FunctionLiteral:
		fmt.Printf("%sFunctionLiteral %s(%d params)\n", pad, n.Name, len(n.Params))
		for _, p := range n.Params {
			dumpNode(p, indent+1)
		}
		dumpNode(n.Body, indent+1)
	case *kast.BlockStatement:
		fmt.Printf("%sBlockStatement (%d statements)\n", pad, len(n.Statements))
		for _, s := range n.Statements {
			dumpNode(s, indent+1)
		}
	case *kast.ReturnStatement:
		fmt.Printf("%sReturnStatement\n", pad)
		if n.Value != nil {
			dumpNode(n.Value, indent+1)
		}
	case *kast.BinaryExpression:
		fmt.Printf("%sBinaryExpression (%s)\n", pad, n.Operator)
		dumpNode(n.Left, indent+1)
		dumpNode(n.Right, indent+1)
	case *kast.Identifier:
		fmt.Printf("%sIdentifier: %s\n", pad, n.Value)
	case *kast.IntegerLiteral:
		fmt.Printf("%sIntegerLiteral: %d\n", pad, n.Value)
	case *kast.FloatLiteral:
		fmt.Printf("%sFloatLiteral: %g\n", pad, n.Value)
	default:
		fmt.Printf("%s%T: %s\n", pad, node, node.String())
	}
}
