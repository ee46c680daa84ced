// Package oracle infers the semantic type of any AST expression in the
// kernel-function subset (spec.md §4.3), using argument types,
// declarations, constants, math-intrinsic rules, and indexing rules.
package oracle

import (
	"github.com/cwbudde/go-kernelc/internal/ast"
	"github.com/cwbudde/go-kernelc/internal/decltable"
	"github.com/cwbudde/go-kernelc/internal/signature"
	"github.com/cwbudde/go-kernelc/internal/types"
)

// StateInForLoopInit is the one recognized traversal-state label (spec.md
// §3). TypeOf itself does not read it; the walker's variable-declaration
// handler checks it via StateTop to coerce a LiteralInteger to Integer.
const StateInForLoopInit = "in-for-loop-init"

// Context supplies everything the oracle needs beyond the AST node
// itself: argument types (with back-propagation already applied, see
// internal/function), locally declared types, constants' types, and
// user-defined call-return-type resolution.
type Context interface {
	// ArgumentType returns the resolved type of argument name, if known.
	ArgumentType(name string) (types.Type, bool)
	// Declaration returns the Declaration Record for a local name.
	Declaration(name string) (decltable.Declaration, bool)
	// ConstantType returns the registered type of a named constant.
	ConstantType(name string) (types.Type, bool)
	// LookupReturnType resolves a non-intrinsic call's return type.
	LookupReturnType(name string) (types.Type, bool)
	// StateTop returns the current top of the traversal-state stack, or
	// "" if the stack is empty.
	StateTop() string
}

// TypeOf infers the type of node. It returns (_, false) for an
// unresolvable shape — a "soft unknown" per spec.md §7 that callers may
// choose to escalate into a diagnostic.
func TypeOf(ctx Context, node ast.Node) (types.Type, bool) {
	switch n := node.(type) {

	case *ast.ArrayLiteral:
		return types.ArrayN(len(n.Elements)), true

	case *ast.IntegerLiteral:
		return types.LiteralInteger, true

	case *ast.FloatLiteral:
		return types.Number, true

	case *ast.BooleanLiteral:
		return types.Boolean, true

	case *ast.CallExpression:
		return typeOfCall(ctx, n)

	case *ast.BinaryExpression:
		return typeOfBinary(ctx, n)

	case *ast.LogicalExpression:
		return types.Boolean, true

	case *ast.UnaryExpression:
		return TypeOf(ctx, n.Argument)

	case *ast.UpdateExpression:
		return TypeOf(ctx, n.Argument)

	case *ast.VariableDeclaration:
		if len(n.Declarations) == 0 {
			return "", false
		}
		return TypeOf(ctx, n.Declarations[len(n.Declarations)-1])

	case *ast.VariableDeclarator:
		if n.Init == nil {
			return "", false
		}
		return TypeOf(ctx, n.Init)

	case *ast.ReturnStatement:
		if n.Value == nil {
			return "", false
		}
		return TypeOf(ctx, n.Value)

	case *ast.FunctionLiteral:
		return TypeOf(ctx, n.Body)

	case *ast.BlockStatement:
		if len(n.Statements) == 0 {
			return "", false
		}
		return TypeOf(ctx, n.Statements[len(n.Statements)-1])

	case *ast.ExpressionStatement:
		return TypeOf(ctx, n.Expression)

	case *ast.Identifier:
		return typeOfIdentifier(ctx, n)

	case *ast.ConditionalExpression:
		return TypeOf(ctx, n.Consequent)

	case *ast.MemberExpression:
		return typeOfMember(ctx, n)

	default:
		return "", false
	}
}

func typeOfIdentifier(ctx Context, ident *ast.Identifier) (types.Type, bool) {
	if ident.Value == "Infinity" {
		// Preserved for compatibility per spec.md §4.3/§9 Open Question
		// (ii): inconsistent with IEEE semantics, kept intentionally.
		return types.Integer, true
	}
	if t, ok := ctx.ArgumentType(ident.Value); ok {
		return t, true
	}
	if d, ok := ctx.Declaration(ident.Value); ok {
		return d.Type, true
	}
	return "", false
}

func typeOfBinary(ctx Context, bin *ast.BinaryExpression) (types.Type, bool) {
	switch bin.Operator {
	case "%":
		return types.Number, true
	case "<", ">":
		return types.Boolean, true
	}
	leftType, ok := TypeOf(ctx, bin.Left)
	if !ok {
		return "", false
	}
	if elem, ok := types.Index(leftType); ok {
		return elem, true
	}
	return leftType, true
}

func typeOfCall(ctx Context, call *ast.CallExpression) (types.Type, bool) {
	name, isMath := mathIntrinsicName(call.Callee)
	if isMath {
		if types.IntegerResultIntrinsics[name] {
			return types.Integer, true
		}
		return types.Number, true
	}
	if ident, ok := call.Callee.(*ast.Identifier); ok {
		return ctx.LookupReturnType(ident.Value)
	}
	return "", false
}

// mathIntrinsicName recognizes a `Math.<name>(...)` callee and returns
// the bare intrinsic name, if any.
func mathIntrinsicName(callee ast.Expression) (string, bool) {
	me, ok := callee.(*ast.MemberExpression)
	if !ok || me.Computed {
		return "", false
	}
	obj, ok := me.Object.(*ast.Identifier)
	if !ok || obj.Value != "Math" {
		return "", false
	}
	name, ok := signature.PropertyName(callee)
	if !ok || !types.MathIntrinsics[name] {
		return "", false
	}
	return name, true
}

// mathConstantName recognizes a `Math.<NAME>` constant reference.
func mathConstantName(expr ast.Expression) (string, bool) {
	me, ok := expr.(*ast.MemberExpression)
	if !ok || me.Computed {
		return "", false
	}
	obj, ok := me.Object.(*ast.Identifier)
	if !ok || obj.Value != "Math" {
		return "", false
	}
	name, ok := signature.PropertyName(expr)
	if !ok || !types.MathConstants[name] {
		return "", false
	}
	return name, true
}

func typeOfMember(ctx Context, me *ast.MemberExpression) (types.Type, bool) {
	if _, ok := mathConstantName(me); ok {
		return types.Number, true
	}
	if name, ok := mathIntrinsicName(me); ok {
		if types.IntegerResultIntrinsics[name] {
			return types.Integer, true
		}
		return types.Number, true
	}

	sig := signature.Recognize(me)
	switch sig {
	case signature.ValueIndexed1, signature.ValueIndexed2, signature.ValueIndexed3:
		base := rootIdentifier(me)
		if base == nil {
			return "", false
		}
		t, ok := typeOfIdentifier(ctx, base)
		if !ok {
			return "", false
		}
		for i := 0; i < indexDepth(sig); i++ {
			elem, ok := types.Index(t)
			if !ok {
				return "", false
			}
			t = elem
		}
		return t, true

	case signature.ThisThreadValue, signature.ThisOutputValue:
		return types.Integer, true

	case signature.ThisConstantsValue, signature.ThisConstantsIndex1,
		signature.ThisConstantsIndex2, signature.ThisConstantsIndex3:
		name, ok := constantRootName(me)
		if !ok {
			return "", false
		}
		t, ok := ctx.ConstantType(name)
		if !ok {
			return "", false
		}
		t = types.NormalizeConstant(t)
		for i := 0; i < constantsIndexDepth(sig); i++ {
			elem, ok := types.Index(t)
			if !ok {
				return "", false
			}
			t = elem
		}
		return t, true

	case signature.CallIndexed1, signature.CallIndexed2, signature.CallIndexed3:
		call := rootCall(me)
		if call == nil {
			return "", false
		}
		t, ok := typeOfCall(ctx, call)
		if !ok {
			return "", false
		}
		for i := 0; i < callIndexDepth(sig); i++ {
			elem, ok := types.Index(t)
			if !ok {
				return "", false
			}
			t = elem
		}
		return t, true

	case signature.ValueDotValue:
		prop, _ := signature.PropertyName(me)
		if signature.VectorChannels[prop] {
			base := rootIdentifier(me)
			if base == nil {
				return "", false
			}
			t, ok := typeOfIdentifier(ctx, base)
			if !ok {
				return "", false
			}
			elem, ok := types.Index(t)
			if !ok {
				return "", false
			}
			return elem, true
		}
		return "", false

	default:
		return "", false
	}
}

func indexDepth(sig signature.Signature) int {
	switch sig {
	case signature.ValueIndexed1:
		return 1
	case signature.ValueIndexed2:
		return 2
	case signature.ValueIndexed3:
		return 3
	}
	return 0
}

func constantsIndexDepth(sig signature.Signature) int {
	switch sig {
	case signature.ThisConstantsIndex1:
		return 1
	case signature.ThisConstantsIndex2:
		return 2
	case signature.ThisConstantsIndex3:
		return 3
	}
	return 0
}

func callIndexDepth(sig signature.Signature) int {
	switch sig {
	case signature.CallIndexed1:
		return 1
	case signature.CallIndexed2:
		return 2
	case signature.CallIndexed3:
		return 3
	}
	return 0
}

// rootIdentifier walks down the Object chain of nested computed member
// expressions to the base identifier.
func rootIdentifier(expr ast.Expression) *ast.Identifier {
	for {
		switch e := expr.(type) {
		case *ast.Identifier:
			return e
		case *ast.MemberExpression:
			expr = e.Object
		default:
			return nil
		}
	}
}

func rootCall(expr ast.Expression) *ast.CallExpression {
	for {
		switch e := expr.(type) {
		case *ast.CallExpression:
			return e
		case *ast.MemberExpression:
			expr = e.Object
		default:
			return nil
		}
	}
}

// constantRootName recovers the constant's name from a
// `this.constants.value[...]` chain: the named property immediately
// after the `.constants` suffix.
func constantRootName(expr ast.Expression) (string, bool) {
	me, ok := expr.(*ast.MemberExpression)
	if !ok {
		return "", false
	}
	if me.Computed {
		return constantRootName(me.Object)
	}
	return signature.PropertyName(me)
}
