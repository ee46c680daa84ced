package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/go-kernelc/internal/function"
	"github.com/cwbudde/go-kernelc/internal/types"
	"github.com/cwbudde/go-kernelc/internal/walker"
)

var (
	compileConfigPath string
	compileEval       string
	compileOutputFile string
	compileOutput     []int
	compileArgNames   []string
	compileArgTypes   []string
)

var compileCmd = &cobra.Command{
	Use:   "compile [file]",
	Short: "Lower a kernel function to its target-dialect source",
	Long: `Parse, validate, and lower a kernel function via the generic
walker's DefaultHandlers, printing (or saving) the resulting source.

Construction input comes from --config (a YAML Function Unit
configuration) or from the function text plus --shape/--arg-name/--arg-type
flags.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().StringVar(&compileConfigPath, "config", "", "YAML construction-config file")
	compileCmd.Flags().StringVarP(&compileEval, "eval", "e", "", "compile inline code instead of reading from a file")
	compileCmd.Flags().StringVarP(&compileOutputFile, "output", "o", "", "output file (default: stdout)")
	compileCmd.Flags().IntSliceVar(&compileOutput, "shape", nil, "output shape, e.g. --shape 4,4")
	compileCmd.Flags().StringArrayVar(&compileArgNames, "arg-name", nil, "argument name (repeatable, in order)")
	compileCmd.Flags().StringArrayVar(&compileArgTypes, "arg-type", nil, "argument type (repeatable, matching --arg-name order)")
}

func runCompile(cmd *cobra.Command, args []string) error {
	cfg, typeMap, err := buildConfig(compileConfigPath, compileEval, args, compileOutput, compileArgNames, compileArgTypes)
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

	lowered, cErr := u.ToString(walker.DefaultHandlers{}, typeMap)
	if cErr != nil {
		return cErr
	}

	if compileOutputFile == "" {
		fmt.Println(lowered)
		return nil
	}
	if err := os.WriteFile(compileOutputFile, []byte(lowered), 0644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", compileOutputFile, err)
	}
	fmt.Printf("Compiled -> %s\n", compileOutputFile)
	return nil
}

// buildConfig resolves a function.Config either from a YAML --config file
// or from the function text plus --shape/--arg-name/--arg-type flags.
func buildConfig(configPath, eval string, args []string, shape []int, argNames, argTypes []string) (function.Config, map[types.Type]string, error) {
	if configPath != "" {
		return loadConfig(configPath)
	}

	source, _, err := readSource(eval, args)
	if err != nil {
		return function.Config{}, nil, err
	}
	if len(shape) == 0 {
		return function.Config{}, nil, fmt.Errorf("--shape is required when not using --config")
	}

	cfg := function.Config{
		SourceText:    source,
		Output:        shape,
		ArgumentNames: argNames,
	}
	for _, t := range argTypes {
		cfg.ArgumentTypes = append(cfg.ArgumentTypes, types.Type(t))
	}
	return cfg, nil, nil
}
