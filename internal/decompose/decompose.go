// Package decompose extracts a structured descriptor from a recognized
// member-expression signature (spec.md §4.8), retaining raw index
// sub-expressions so backends can emit them with their own rules.
package decompose

import (
	"fmt"

	"github.com/cwbudde/go-kernelc/internal/ast"
	"github.com/cwbudde/go-kernelc/internal/kerrors"
	"github.com/cwbudde/go-kernelc/internal/signature"
	"github.com/cwbudde/go-kernelc/internal/types"
)

// Origin classifies where a decomposed member expression's base name
// lives.
type Origin string

const (
	OriginUser      Origin = "user"
	OriginConstants Origin = "constants"
	OriginMath      Origin = "Math"
)

// Descriptor is the structured result of decomposing a recognized
// signature (spec.md §4.8).
type Descriptor struct {
	Name      string
	Origin    Origin
	Signature signature.Signature
	Type      types.Type
	Indices   []ast.Expression // raw index sub-nodes, in source order

	XProperty string
	YProperty string
	ZProperty string
	Property  string
}

// ConstantTypeLookup resolves a registered constant's type by name.
type ConstantTypeLookup func(name string) (types.Type, bool)

// Decompose builds a Descriptor for expr given its already-recognized
// signature and inferred type. constantType resolves a
// `this.constants.<name>` type (a nil constantType skips that check).
// Returns a ShapeError diagnostic if the
// underlying name is missing, or a constant has no registered type.
func Decompose(expr ast.Expression, sig signature.Signature, typ types.Type, constantType ConstantTypeLookup) (*Descriptor, *kerrors.CompilerError) {
	desc := &Descriptor{Signature: sig, Type: typ}

	switch sig {
	case signature.Value:
		ident, ok := expr.(*ast.Identifier)
		if !ok || ident.Value == "" {
			return nil, kerrors.NewShapeError("missing underlying name for member expression", expr.String(), "", expr.Pos())
		}
		desc.Name, desc.Origin = ident.Value, OriginUser

	case signature.ValueIndexed1, signature.ValueIndexed2, signature.ValueIndexed3:
		base, indices := peelIndices(expr)
		ident, ok := base.(*ast.Identifier)
		if !ok || ident.Value == "" {
			return nil, kerrors.NewShapeError("missing underlying name for indexed member expression", expr.String(), "", expr.Pos())
		}
		desc.Name, desc.Origin, desc.Indices = ident.Value, OriginUser, indices

	case signature.ThisThreadValue:
		desc.Name, desc.Origin = "thread", OriginUser
		desc.Property, _ = signature.PropertyName(expr)

	case signature.ThisOutputValue:
		desc.Name, desc.Origin = "output", OriginUser
		desc.Property, _ = signature.PropertyName(expr)

	case signature.ThisConstantsValue, signature.ThisConstantsIndex1,
		signature.ThisConstantsIndex2, signature.ThisConstantsIndex3:
		base, indices := peelIndices(expr)
		name, ok := signature.PropertyName(base)
		if !ok || name == "" {
			return nil, kerrors.NewShapeError("missing underlying name for constant reference", expr.String(), "", expr.Pos())
		}
		if constantType != nil {
			if _, ok := constantType(name); !ok {
				return nil, kerrors.NewShapeError(fmt.Sprintf("constant %q has no registered type", name), expr.String(), "", expr.Pos())
			}
		}
		desc.Name, desc.Origin, desc.Indices = name, OriginConstants, indices

	case signature.CallIndexed1, signature.CallIndexed2, signature.CallIndexed3:
		base, indices := peelIndices(expr)
		call, ok := base.(*ast.CallExpression)
		if !ok {
			return nil, kerrors.NewShapeError("missing call expression for indexed call result", expr.String(), "", expr.Pos())
		}
		if ident, ok := call.Callee.(*ast.Identifier); ok {
			desc.Name = ident.Value
		}
		desc.Origin, desc.Indices = OriginUser, indices

	case signature.ValueDotValue:
		me, ok := expr.(*ast.MemberExpression)
		if !ok {
			return nil, kerrors.NewShapeError("expected member expression", expr.String(), "", expr.Pos())
		}
		ident, ok := me.Object.(*ast.Identifier)
		if !ok {
			return nil, kerrors.NewShapeError("missing underlying name for channel access", expr.String(), "", expr.Pos())
		}
		prop, _ := signature.PropertyName(expr)
		desc.Name, desc.Origin, desc.Property = ident.Value, OriginUser, prop
		switch prop {
		case "x", "r":
			desc.XProperty = prop
		case "y", "g":
			desc.YProperty = prop
		case "z", "b":
			desc.ZProperty = prop
		}

	default:
		return nil, kerrors.NewShapeError(fmt.Sprintf("unrecognized member-expression signature %q", sig), expr.String(), "", expr.Pos())
	}

	return desc, nil
}

// peelIndices walks down nested computed MemberExpressions collecting
// their index sub-expressions until it reaches the non-computed base, and
// returns them in source order (the bracket nearest the base first).
func peelIndices(expr ast.Expression) (base ast.Expression, indices []ast.Expression) {
	var rev []ast.Expression
	cur := expr
	for {
		me, ok := cur.(*ast.MemberExpression)
		if !ok || !me.Computed {
			break
		}
		rev = append(rev, me.Property)
		cur = me.Object
	}
	for i := len(rev) - 1; i >= 0; i-- {
		indices = append(indices, rev[i])
	}
	return cur, indices
}
