// Package function implements the Function Unit aggregate (spec.md §3,
// §6): construction/validation of a kernel or sub-kernel from textual or
// pre-parsed source, argument-type back-propagation, deterministic JSON
// serialization, and the cached, idempotent toString() lowering driven by
// a caller-supplied internal/walker.Handlers implementation.
package function

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/cwbudde/go-kernelc/internal/ast"
	"github.com/cwbudde/go-kernelc/internal/decltable"
	"github.com/cwbudde/go-kernelc/internal/depsafety"
	"github.com/cwbudde/go-kernelc/internal/kerrors"
	"github.com/cwbudde/go-kernelc/internal/parser"
	"github.com/cwbudde/go-kernelc/internal/types"
	"github.com/cwbudde/go-kernelc/internal/walker"
)

// Config is the Function Unit construction input (spec.md §6). Source is
// required; every other field is optional and defaulted, applied only
// when meaningful for the target (e.g. ArgumentTypes is left empty rather
// than zero-filled when the caller supplies none).
type Config struct {
	// Exactly one of SourceText/SourceAST must be set.
	SourceText string
	SourceAST  *ast.FunctionLiteral

	Name              string
	IsRootKernel      bool
	IsSubKernel       bool
	Debug             bool
	Constants         map[string]float64
	ConstantTypes     map[string]types.Type
	ArgumentNames     []string
	ArgumentTypes     []types.Type
	ArgumentSizes     [][]int
	Output            []int
	LoopMaxIterations int
	ReturnType        types.Type

	LookupReturnType func(name string) (types.Type, bool)
	OnNestedFunction func(source string, returnType types.Type)
	Parent           *Unit
	Plugins          []string
}

// Unit is a constructed, validated Function Unit.
type Unit struct {
	source       string // empty when built from a pre-parsed AST
	sourceOffset int    // wrapper-prefix length ahead of source, see intake
	fn           *ast.FunctionLiteral

	name              string
	isRootKernel      bool
	isSubKernel       bool
	debug             bool
	constants         map[string]float64
	constantTypes     map[string]types.Type
	argumentNames     []string
	argumentTypes     []types.Type
	argumentSizes     [][]int
	output            []int
	loopMaxIterations int
	returnType        types.Type

	lookupReturnType func(name string) (types.Type, bool)
	onNestedFunction func(source string, returnType types.Type)
	parent           *Unit
	plugins          []string

	declarations *decltable.Table
	deps         *depsafety.Analyzer

	// calledFunctionArguments records, for each sub-kernel name called from
	// this unit's body, the argument types observed at each call site, in
	// call order (spec.md §4.5). Populated by RegisterCall; consulted by a
	// child Unit's ArgumentType back-propagation.
	calledFunctionArguments map[string][][]types.Type

	cachedString *string
}

// New validates cfg and constructs a Unit. Configuration errors (missing
// source, unrecognizable function text, missing name, argument-arity
// mismatch, empty output shape) are fatal and returned as
// kerrors.ConfigurationError (spec.md §4.1, §7).
func New(cfg Config) (*Unit, *kerrors.CompilerError) {
	u := &Unit{
		isRootKernel:      cfg.IsRootKernel,
		isSubKernel:       cfg.IsSubKernel,
		debug:             cfg.Debug,
		constants:         cfg.Constants,
		constantTypes:     cfg.ConstantTypes,
		argumentSizes:     cfg.ArgumentSizes,
		output:            cfg.Output,
		loopMaxIterations: cfg.LoopMaxIterations,
		returnType:        cfg.ReturnType,
		lookupReturnType:  cfg.LookupReturnType,
		onNestedFunction:  cfg.OnNestedFunction,
		parent:            cfg.Parent,
		plugins:           cfg.Plugins,
	}

	switch {
	case cfg.SourceAST != nil:
		u.fn = cfg.SourceAST
	case cfg.SourceText != "":
		u.source = cfg.SourceText
		fn, offset, err := intake(cfg.SourceText, cfg.Name)
		if err != nil {
			return nil, err
		}
		u.fn = fn
		u.sourceOffset = offset
	default:
		return nil, kerrors.NewConfigurationError("missing source")
	}

	u.argumentNames = cfg.ArgumentNames
	if len(u.argumentNames) == 0 {
		for _, p := range u.fn.Params {
			u.argumentNames = append(u.argumentNames, p.Value)
		}
	}

	u.argumentTypes = cfg.ArgumentTypes
	if len(u.argumentTypes) > 0 && len(u.argumentTypes) != len(u.argumentNames) {
		return nil, kerrors.NewConfigurationError(fmt.Sprintf(
			"argument-type arity mismatch: %d names, %d types", len(u.argumentNames), len(u.argumentTypes)))
	}

	u.name = cfg.Name
	if u.name == "" {
		u.name = u.fn.Name
	}
	// An unnamed, non-sub-kernel unit with no parent is the root kernel by
	// elimination: spec.md §4.1 forces its name to the literal "kernel".
	if u.name == "" && !u.isSubKernel && u.parent == nil {
		u.isRootKernel = true
	}
	if u.isRootKernel {
		u.name = "kernel"
	}
	if u.name == "" {
		return nil, kerrors.NewConfigurationError("missing function name")
	}

	if len(u.output) == 0 {
		return nil, kerrors.NewConfigurationError("empty output shape")
	}

	if u.returnType == "" {
		u.returnType = types.Number
	}

	u.declarations = decltable.New()
	u.deps = depsafety.NewAnalyzer(u.declarations, u.argumentNames)
	u.calledFunctionArguments = make(map[string][][]types.Type)

	return u, nil
}

// intake implements the Source Intake & Parser Adapter of spec.md §4.1: it
// wraps the user text in a synthetic binding so the parser can be invoked
// uniformly over a program (rather than a bare expression), then extracts
// the function literal from that binding's initializer. The returned
// offset is the wrapper prefix's byte length — every offset the parser
// attaches to a node inside fn is relative to wrapped, not source, and
// must be rebased by subtracting offset before it means anything against
// source (spec.md §4.9; see internal/walker's shapeError).
func intake(source, nameOverride string) (*ast.FunctionLiteral, int, *kerrors.CompilerError) {
	placeholder := nameOverride
	if placeholder == "" {
		placeholder = "anonymous"
	}
	prefix := fmt.Sprintf("const parser_%s = ", placeholder)
	wrapped := prefix + source + ";"

	stmts, err := parser.ParseProgram(wrapped)
	if err != nil {
		return nil, 0, kerrors.NewConfigurationError("unrecognizable function text: " + err.Message)
	}
	if len(stmts) != 1 {
		return nil, 0, kerrors.NewConfigurationError("unrecognizable function text")
	}
	decl, ok := stmts[0].(*ast.VariableDeclaration)
	if !ok || len(decl.Declarations) != 1 {
		return nil, 0, kerrors.NewConfigurationError("unrecognizable function text")
	}
	fn, ok := decl.Declarations[0].Init.(*ast.FunctionLiteral)
	if !ok {
		return nil, 0, kerrors.NewConfigurationError("unrecognizable function text")
	}
	return fn, len(prefix), nil
}

// Name returns the unit's derived or overridden name.
func (u *Unit) Name() string { return u.name }

// IsRootKernel reports whether this unit is the top-level kernel.
func (u *Unit) IsRootKernel() bool { return u.isRootKernel }

// IsSubKernel reports whether this unit is called from a kernel.
func (u *Unit) IsSubKernel() bool { return u.isSubKernel }

// AST returns the unit's parsed function literal.
func (u *Unit) AST() *ast.FunctionLiteral { return u.fn }

// Output returns the unit's output shape.
func (u *Unit) Output() []int { return u.output }

// ReturnType returns the unit's inferred/declared return type.
func (u *Unit) ReturnType() types.Type { return u.returnType }

// ArgumentNames returns the unit's declared argument names.
func (u *Unit) ArgumentNames() []string { return u.argumentNames }

// RegisterCall records one call site's observed argument types against
// calleeName, for later back-propagation into that callee sub-kernel's
// ArgumentType lookups (spec.md §4.5).
func (u *Unit) RegisterCall(calleeName string, argTypes []types.Type) {
	u.calledFunctionArguments[calleeName] = append(u.calledFunctionArguments[calleeName], argTypes)
}

// ArgumentType resolves name's type: a direct argument-type slot if
// already known, else the §4.5 back-propagation from the parent unit's
// called-function-arguments table, memoized into the local slot on
// success (the only permitted post-construction mutation of
// argumentTypes).
func (u *Unit) ArgumentType(name string) (types.Type, bool) {
	idx := -1
	for i, n := range u.argumentNames {
		if n == name {
			idx = i
			break
		}
	}
	if idx == -1 {
		return "", false
	}
	if idx < len(u.argumentTypes) && u.argumentTypes[idx] != "" {
		return u.argumentTypes[idx], true
	}
	if u.parent == nil {
		return "", false
	}
	for _, binding := range u.parent.calledFunctionArguments[u.name] {
		if idx < len(binding) && binding[idx] != "" {
			u.memoizeArgumentType(idx, binding[idx])
			return binding[idx], true
		}
	}
	return "", false
}

func (u *Unit) memoizeArgumentType(idx int, t types.Type) {
	for len(u.argumentTypes) <= idx {
		u.argumentTypes = append(u.argumentTypes, "")
	}
	u.argumentTypes[idx] = t
}

// ConstantType resolves a registered constant's type.
func (u *Unit) ConstantType(name string) (types.Type, bool) {
	t, ok := u.constantTypes[name]
	return t, ok
}

// LookupReturnType resolves a non-intrinsic call's return type, deferring
// to the backend-supplied callback.
func (u *Unit) LookupReturnType(name string) (types.Type, bool) {
	if u.lookupReturnType == nil {
		return "", false
	}
	return u.lookupReturnType(name)
}

// newWalker builds an internal/walker.Walker bound to this unit's
// Declaration Table, Dependency Analyzer, and extension-seam callbacks.
func (u *Unit) newWalker(handlers walker.Handlers, typeMap map[types.Type]string) *walker.Walker {
	w := walker.New(handlers, u.declarations, u.deps, typeMap)
	w.Source = u.source
	w.SourceOffset = u.sourceOffset
	w.SetArgumentType(u.ArgumentType)
	w.SetConstantType(u.ConstantType)
	w.SetLookupReturnType(u.LookupReturnType)
	w.SetOnNestedFunction(u.onNestedFunction)
	return w
}

// ToString lowers the unit's body via the generic walker bound to
// handlers/typeMap, and caches the result: subsequent calls (regardless
// of handlers/typeMap) return the cached string unchanged, matching
// spec.md §5's idempotence contract.
func (u *Unit) ToString(handlers walker.Handlers, typeMap map[types.Type]string) (string, *kerrors.CompilerError) {
	if u.cachedString != nil {
		return *u.cachedString, nil
	}
	w := u.newWalker(handlers, typeMap)
	out, err := w.VisitAll(u.fn.Body.Statements)
	if err != nil {
		return "", err
	}
	u.cachedString = &out
	return out, nil
}

// Declarations exposes the unit's Declaration Table for backend inspection
// (e.g. a backend that needs per-name dependency info after lowering).
func (u *Unit) Declarations() *decltable.Table { return u.declarations }

// Settings is the restricted, JSON-serializable subset of a Function
// Unit's configuration (spec.md §6). It excludes cached derived strings
// and callback fields, which are not serializable.
type Settings struct {
	Source            string                `json:"source"`
	Name              string                `json:"name"`
	Constants         map[string]float64    `json:"constants,omitempty"`
	ConstantTypes     map[string]types.Type `json:"constantTypes,omitempty"`
	IsRootKernel      bool                  `json:"isRootKernel"`
	IsSubKernel       bool                  `json:"isSubKernel"`
	Debug             bool                  `json:"debug"`
	Output            []int                 `json:"output"`
	LoopMaxIterations int                   `json:"loopMaxIterations,omitempty"`
	ArgumentNames     []string              `json:"argumentNames,omitempty"`
	ArgumentTypes     []types.Type          `json:"argumentTypes,omitempty"`
	ArgumentSizes     [][]int               `json:"argumentSizes,omitempty"`
	ReturnType        types.Type            `json:"returnType"`
}

// Settings snapshots the unit's serializable configuration.
func (u *Unit) Settings() Settings {
	return Settings{
		Source:            u.source,
		Name:              u.name,
		Constants:         u.constants,
		ConstantTypes:     u.constantTypes,
		IsRootKernel:      u.isRootKernel,
		IsSubKernel:       u.isSubKernel,
		Debug:             u.debug,
		Output:            u.output,
		LoopMaxIterations: u.loopMaxIterations,
		ArgumentNames:     u.argumentNames,
		ArgumentTypes:     u.argumentTypes,
		ArgumentSizes:     u.argumentSizes,
		ReturnType:        u.returnType,
	}
}

// ToJSON serializes the unit to a payload containing the parsed AST's
// rendered text and the restricted settings object of spec.md §6, built
// incrementally with sjson to avoid hand-rolled JSON string assembly. The
// round-trip law (spec.md §8) is carried entirely by the "settings" half
// of this payload: FromJSON reconstructs a Unit from settings alone.
func (u *Unit) ToJSON() (string, error) {
	doc := "{}"
	var err error
	set := func(path string, value any) {
		if err != nil {
			return
		}
		doc, err = sjson.Set(doc, path, value)
	}

	argumentTypes := make([]string, len(u.argumentTypes))
	for i, t := range u.argumentTypes {
		argumentTypes[i] = string(t)
	}

	set("ast", u.fn.String())
	set("settings.source", u.source)
	set("settings.name", u.name)
	set("settings.isRootKernel", u.isRootKernel)
	set("settings.isSubKernel", u.isSubKernel)
	set("settings.debug", u.debug)
	set("settings.output", u.output)
	set("settings.loopMaxIterations", u.loopMaxIterations)
	set("settings.argumentNames", u.argumentNames)
	set("settings.argumentTypes", argumentTypes)
	set("settings.argumentSizes", u.argumentSizes)
	set("settings.returnType", string(u.returnType))
	if len(u.constants) > 0 {
		set("settings.constants", u.constants)
	}
	if len(u.constantTypes) > 0 {
		constantTypes := make(map[string]string, len(u.constantTypes))
		for k, t := range u.constantTypes {
			constantTypes[k] = string(t)
		}
		set("settings.constantTypes", constantTypes)
	}
	return doc, err
}

// FromJSON reconstructs a Config from a ToJSON payload's "settings"
// object (or from a bare settings object), without requiring a re-parse
// of "ast" — the round-trip law only demands public-field equivalence,
// and "settings.source" already carries the original text to re-parse.
func FromJSON(data string) (Config, error) {
	root := gjson.Parse(data)
	settings := root.Get("settings")
	if !settings.Exists() {
		settings = root
	}

	cfg := Config{
		SourceText:        settings.Get("source").String(),
		Name:              settings.Get("name").String(),
		IsRootKernel:      settings.Get("isRootKernel").Bool(),
		IsSubKernel:       settings.Get("isSubKernel").Bool(),
		Debug:             settings.Get("debug").Bool(),
		LoopMaxIterations: int(settings.Get("loopMaxIterations").Int()),
		ReturnType:        types.Type(settings.Get("returnType").String()),
	}

	settings.Get("output").ForEach(func(_, v gjson.Result) bool {
		cfg.Output = append(cfg.Output, int(v.Int()))
		return true
	})
	settings.Get("argumentNames").ForEach(func(_, v gjson.Result) bool {
		cfg.ArgumentNames = append(cfg.ArgumentNames, v.String())
		return true
	})
	settings.Get("argumentTypes").ForEach(func(_, v gjson.Result) bool {
		cfg.ArgumentTypes = append(cfg.ArgumentTypes, types.Type(v.String()))
		return true
	})
	settings.Get("argumentSizes").ForEach(func(_, v gjson.Result) bool {
		var row []int
		v.ForEach(func(_, e gjson.Result) bool {
			row = append(row, int(e.Int()))
			return true
		})
		cfg.ArgumentSizes = append(cfg.ArgumentSizes, row)
		return true
	})

	if constants := settings.Get("constants"); constants.Exists() {
		cfg.Constants = make(map[string]float64)
		constants.ForEach(func(k, v gjson.Result) bool {
			cfg.Constants[k.String()] = v.Float()
			return true
		})
	}
	if constantTypes := settings.Get("constantTypes"); constantTypes.Exists() {
		cfg.ConstantTypes = make(map[string]types.Type)
		constantTypes.ForEach(func(k, v gjson.Result) bool {
			cfg.ConstantTypes[k.String()] = types.Type(v.String())
			return true
		})
	}

	return cfg, nil
}
