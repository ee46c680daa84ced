// Package kernel is the public facade over the kernel-function core,
// mirroring the teacher's pkg/dwscript re-export layer: host integrators
// (spec.md §6) import this one stable package instead of reaching into
// internal/... directly.
package kernel

import (
	"github.com/cwbudde/go-kernelc/internal/function"
	"github.com/cwbudde/go-kernelc/internal/types"
	"github.com/cwbudde/go-kernelc/internal/walker"
)

// Config is the Function Unit construction input (spec.md §6).
type Config = function.Config

// Type is a member of the closed type vocabulary (spec.md §3).
type Type = types.Type

// Re-exported type constants, so callers never need to import
// internal/types directly.
const (
	Number         = types.Number
	Float          = types.Float
	Integer        = types.Integer
	LiteralInteger = types.LiteralInteger
	Boolean        = types.Boolean
	Array2         = types.Array2
	Array3         = types.Array3
	Array4         = types.Array4
	Array          = types.Array
	Array2D        = types.Array2D
	Array3D        = types.Array3D
	Input          = types.Input
	HTMLImage      = types.HTMLImage
	HTMLImageArray = types.HTMLImageArray
	NumberTexture  = types.NumberTexture
	ArrayTexture4  = types.ArrayTexture4
)

// Handlers is the lowering backend seam (spec.md §4.7); DefaultHandlers
// implements the fixed-behavior subset and is the usual embedding base for
// a target-dialect backend.
type Handlers = walker.Handlers

// DefaultHandlers implements every fixed-behavior handler spec.md §4.7
// names, and leaves every other node kind a no-op seam for a backend to
// override.
type DefaultHandlers = walker.DefaultHandlers

// Unit is a constructed, validated Function Unit.
type Unit struct {
	u *function.Unit
}

// New validates cfg and constructs a Unit. Configuration errors (missing
// source, argument-arity mismatch, empty output shape, missing name) are
// returned as a plain error (spec.md §4.1, §7).
func New(cfg Config) (*Unit, error) {
	u, err := function.New(cfg)
	if err != nil {
		return nil, err
	}
	return &Unit{u: u}, nil
}

// Name returns the unit's derived or overridden name.
func (k *Unit) Name() string { return k.u.Name() }

// IsRootKernel reports whether this unit is the top-level kernel.
func (k *Unit) IsRootKernel() bool { return k.u.IsRootKernel() }

// IsSubKernel reports whether this unit is called from a kernel.
func (k *Unit) IsSubKernel() bool { return k.u.IsSubKernel() }

// Output returns the unit's output shape.
func (k *Unit) Output() []int { return k.u.Output() }

// ReturnType returns the unit's inferred/declared return type.
func (k *Unit) ReturnType() Type { return k.u.ReturnType() }

// ArgumentNames returns the unit's declared argument names.
func (k *Unit) ArgumentNames() []string { return k.u.ArgumentNames() }

// ArgumentType resolves an argument's type, applying back-propagation from
// a parent kernel's call sites when the unit is a sub-kernel (spec.md
// §4.5).
func (k *Unit) ArgumentType(name string) (Type, bool) { return k.u.ArgumentType(name) }

// RegisterCall records one call site's observed argument types against
// calleeName (spec.md §4.5).
func (k *Unit) RegisterCall(calleeName string, argTypes []Type) {
	k.u.RegisterCall(calleeName, argTypes)
}

// Lower renders the unit's body via handlers/typeMap, caching the result
// across calls (spec.md §5, §8's idempotent toString() contract).
func (k *Unit) Lower(handlers Handlers, typeMap map[Type]string) (string, error) {
	out, err := k.u.ToString(handlers, typeMap)
	if err != nil {
		return "", err
	}
	return out, nil
}

// ToJSON serializes the unit to its settings payload (spec.md §6).
func (k *Unit) ToJSON() (string, error) { return k.u.ToJSON() }

// FromJSON reconstructs a Config from a ToJSON payload.
func FromJSON(data string) (Config, error) { return function.FromJSON(data) }

// Index returns the element type obtained by one level of indexing into
// t (spec.md §3, §6's type-lookup map).
func Index(t Type) (Type, bool) { return types.Index(t) }
