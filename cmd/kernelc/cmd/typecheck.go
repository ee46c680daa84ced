package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwbudde/go-kernelc/internal/decltable"
	"github.com/cwbudde/go-kernelc/internal/function"
	"github.com/cwbudde/go-kernelc/internal/oracle"
	"github.com/cwbudde/go-kernelc/internal/types"
	"github.com/cwbudde/go-kernelc/internal/walker"
)

var (
	typecheckConfigPath string
	typecheckEval       string
	typecheckOutput     []int
	typecheckArgNames   []string
	typecheckArgTypes   []string
)

var typecheckCmd = &cobra.Command{
	Use:   "typecheck [file]",
	Short: "Run the type oracle over a kernel function's body statements",
	Long: `Parse and construct a Function Unit, lower it once (to populate the
Declaration Table the oracle consults for locally declared names), then
print the Type Oracle's inferred type for each top-level body statement.

A statement the oracle cannot resolve is reported as "unknown" rather
than failing the command — soft unknowns are not errors (spec.md §7).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTypecheck,
}

func init() {
	rootCmd.AddCommand(typecheckCmd)

	typecheckCmd.Flags().StringVar(&typecheckConfigPath, "config", "", "YAML construction-config file")
	typecheckCmd.Flags().StringVarP(&typecheckEval, "eval", "e", "", "typecheck inline code instead of reading from a file")
	typecheckCmd.Flags().IntSliceVar(&typecheckOutput, "shape", nil, "output shape, e.g. --shape 4,4")
	typecheckCmd.Flags().StringArrayVar(&typecheckArgNames, "arg-name", nil, "argument name (repeatable, in order)")
	typecheckCmd.Flags().StringArrayVar(&typecheckArgTypes, "arg-type", nil, "argument type (repeatable, matching --arg-name order)")
}

func runTypecheck(cmd *cobra.Command, args []string) error {
	cfg, typeMap, err := buildConfig(typecheckConfigPath, typecheckEval, args, typecheckOutput, typecheckArgNames, typecheckArgTypes)
	if err != nil {
		return err
	}
	if typeMap == nil {
		typeMap = defaultTypeMap
	}

	u, cErr := function.New(cfg)
	if cErr != nil {
		return cErr
	}

	// Lowering once populates the Declaration Table as a side effect, so
	// the oracle can resolve locally declared names below.
	if _, cErr := u.ToString(walker.DefaultHandlers{}, typeMap); cErr != nil {
		return cErr
	}

	ctx := unitOracleContext{u}
	for i, stmt := range u.AST().Body.Statements {
		t, ok := oracle.TypeOf(ctx, stmt)
		if !ok {
			fmt.Printf("[%d] %s => unknown\n", i, stmt.String())
			continue
		}
		fmt.Printf("[%d] %s => %s\n", i, stmt.String(), t)
	}
	fmt.Printf("return type: %s\n", u.ReturnType())
	return nil
}

// unitOracleContext adapts a *function.Unit to oracle.Context for direct
// oracle calls over the unit's already-built declaration/argument/constant
// state (the walker performs this same wiring internally during lowering).
type unitOracleContext struct{ u *function.Unit }

func (c unitOracleContext) ArgumentType(name string) (types.Type, bool) { return c.u.ArgumentType(name) }
func (c unitOracleContext) Declaration(name string) (decltable.Declaration, bool) {
	return c.u.Declarations().Get(name)
}
func (c unitOracleContext) ConstantType(name string) (types.Type, bool) {
	return c.u.ConstantType(name)
}
func (c unitOracleContext) LookupReturnType(name string) (types.Type, bool) {
	return c.u.LookupReturnType(name)
}
func (c unitOracleContext) StateTop() string { return "" }
