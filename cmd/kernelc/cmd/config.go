package cmd

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/cwbudde/go-kernelc/internal/function"
	"github.com/cwbudde/go-kernelc/internal/types"
)

// fileConfig is the on-disk YAML shape of a Function Unit's construction
// input (spec.md §6's Config, widened with a CLI-only typeMap section so
// one file drives both construction and lowering).
type fileConfig struct {
	Name              string             `yaml:"name"`
	Source            string             `yaml:"source"`
	IsRootKernel      bool               `yaml:"isRootKernel"`
	IsSubKernel       bool               `yaml:"isSubKernel"`
	Debug             bool               `yaml:"debug"`
	Constants         map[string]float64 `yaml:"constants"`
	ConstantTypes     map[string]string  `yaml:"constantTypes"`
	ArgumentNames     []string           `yaml:"argumentNames"`
	ArgumentTypes     []string           `yaml:"argumentTypes"`
	ArgumentSizes     [][]int            `yaml:"argumentSizes"`
	Output            []int              `yaml:"output"`
	LoopMaxIterations int                `yaml:"loopMaxIterations"`
	ReturnType        string             `yaml:"returnType"`
	TypeMap           map[string]string  `yaml:"typeMap"`
}

// loadConfig reads a YAML construction-config file (cmd/kernelc's
// promotion of github.com/goccy/go-yaml, present in the teacher's go.mod
// only as an indirect go-snaps dependency, to direct use) and returns the
// resulting function.Config plus any lowering typeMap it declares.
func loadConfig(path string) (function.Config, map[types.Type]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return function.Config{}, nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return function.Config{}, nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	cfg := function.Config{
		Name:              fc.Name,
		SourceText:        fc.Source,
		IsRootKernel:      fc.IsRootKernel,
		IsSubKernel:       fc.IsSubKernel,
		Debug:             fc.Debug,
		Constants:         fc.Constants,
		ArgumentNames:     fc.ArgumentNames,
		ArgumentSizes:     fc.ArgumentSizes,
		Output:            fc.Output,
		LoopMaxIterations: fc.LoopMaxIterations,
		ReturnType:        types.Type(fc.ReturnType),
	}
	for _, t := range fc.ArgumentTypes {
		cfg.ArgumentTypes = append(cfg.ArgumentTypes, types.Type(t))
	}
	if len(fc.ConstantTypes) > 0 {
		cfg.ConstantTypes = make(map[string]types.Type, len(fc.ConstantTypes))
		for k, v := range fc.ConstantTypes {
			cfg.ConstantTypes[k] = types.Type(v)
		}
	}

	var typeMap map[types.Type]string
	if len(fc.TypeMap) > 0 {
		typeMap = make(map[types.Type]string, len(fc.TypeMap))
		for k, v := range fc.TypeMap {
			typeMap[types.Type(k)] = v
		}
	}

	return cfg, typeMap, nil
}
