package walker

import (
	"fmt"
	"strings"

	"github.com/cwbudde/go-kernelc/internal/ast"
	"github.com/cwbudde/go-kernelc/internal/decltable"
	"github.com/cwbudde/go-kernelc/internal/kerrors"
	"github.com/cwbudde/go-kernelc/internal/oracle"
	"github.com/cwbudde/go-kernelc/internal/types"
)

// DefaultHandlers implements the fixed-behavior handlers spec.md §4.7
// names explicitly, and a no-op stub for every other AST kind. A backend
// embeds DefaultHandlers and overrides the stubs it needs to emit
// target-dialect text; the fixed handlers are not meant to be overridden,
// since they encode invariants (the state stack, the Declaration Table,
// the nested-function hook) rather than dialect choices.
type DefaultHandlers struct{}

var _ Handlers = (*DefaultHandlers)(nil)

// Fixed-behavior handlers.

func (DefaultHandlers) VisitConditionalExpression(w *Walker, n *ast.ConditionalExpression) (string, *kerrors.CompilerError) {
	test, err := w.Visit(n.Test)
	if err != nil {
		return "", err
	}
	cons, err := w.Visit(n.Consequent)
	if err != nil {
		return "", err
	}
	alt, err := w.Visit(n.Alternate)
	if err != nil {
		return "", err
	}
	return "(" + test + " ? " + cons + " : " + alt + ")", nil
}

func (DefaultHandlers) VisitExpressionStatement(w *Walker, n *ast.ExpressionStatement) (string, *kerrors.CompilerError) {
	if n.Expression == nil {
		return "", nil
	}
	inner, err := w.Visit(n.Expression)
	if err != nil {
		return "", err
	}
	return inner + ";", nil
}

func (DefaultHandlers) VisitBreakStatement(w *Walker, n *ast.BreakStatement) (string, *kerrors.CompilerError) {
	return "break;", nil
}

func (DefaultHandlers) VisitContinueStatement(w *Walker, n *ast.ContinueStatement) (string, *kerrors.CompilerError) {
	return "continue;\n", nil
}

func (DefaultHandlers) VisitSequenceExpression(w *Walker, n *ast.SequenceExpression) (string, *kerrors.CompilerError) {
	parts := make([]string, len(n.Expressions))
	for i, e := range n.Expressions {
		frag, err := w.Visit(e)
		if err != nil {
			return "", err
		}
		parts[i] = frag
	}
	return strings.Join(parts, ", "), nil
}

func (DefaultHandlers) VisitUnaryExpression(w *Walker, n *ast.UnaryExpression) (string, *kerrors.CompilerError) {
	arg, err := w.Visit(n.Argument)
	if err != nil {
		return "", err
	}
	if n.Prefix {
		return n.Operator + arg, nil
	}
	return arg + n.Operator, nil
}

func (DefaultHandlers) VisitUpdateExpression(w *Walker, n *ast.UpdateExpression) (string, *kerrors.CompilerError) {
	arg, err := w.Visit(n.Argument)
	if err != nil {
		return "", err
	}
	if n.Prefix {
		return n.Operator + arg, nil
	}
	return arg + n.Operator, nil
}

func (DefaultHandlers) VisitLogicalExpression(w *Walker, n *ast.LogicalExpression) (string, *kerrors.CompilerError) {
	left, err := w.Visit(n.Left)
	if err != nil {
		return "", err
	}
	right, err := w.Visit(n.Right)
	if err != nil {
		return "", err
	}
	return "(" + left + " " + n.Operator + " " + right + ")", nil
}

func (DefaultHandlers) VisitVariableDeclarator(w *Walker, n *ast.VariableDeclarator) (string, *kerrors.CompilerError) {
	if n.Init == nil {
		return "user_" + n.Name.Value, nil
	}
	init, err := w.Visit(n.Init)
	if err != nil {
		return "", err
	}
	return "user_" + n.Name.Value + "=" + init, nil
}

// VisitVariableDeclaration infers the first declarator's type, records
// every declarator in the Declaration Table under that type, then emits a typed declaration of the form
// "<lowered-type> user_<name>=<init>" for the first declarator, followed
// by comma-joined additional declarators, then ";" (spec.md §4.6, §4.7).
// Per §9 Open Question (i): the upstream double-emission of the joined
// declarator text for a re-declared name is treated as a defect and not
// reproduced — the joined result is emitted exactly once here.
func (DefaultHandlers) VisitVariableDeclaration(w *Walker, n *ast.VariableDeclaration) (string, *kerrors.CompilerError) {
	if len(n.Declarations) == 0 {
		return "", nil
	}

	parts := make([]string, len(n.Declarations))
	var firstType types.Type

	for i, d := range n.Declarations {
		// Only the first declarator's type is actually inferred; every
		// subsequent one in the same statement reuses it rather than being
		// independently inferred from its own initializer (spec.md §4.6).
		var declType types.Type
		if i == 0 {
			inferred, ok := oracle.TypeOf(w, d)
			if !ok {
				return "", w.shapeError(fmt.Sprintf("cannot infer type of declaration %q", d.Name.Value), n)
			}
			forInit := w.StateTop() == oracle.StateInForLoopInit
			declType = types.CoerceForDeclaration(inferred, forInit)
			firstType = declType
		} else {
			declType = firstType
		}

		var decl decltable.Declaration
		if w.Deps != nil && d.Init != nil {
			ds, _ := w.Deps.Analyze(d.Init)
			decl = decltable.NewDeclaration(declType, ds)
		} else {
			decl = decltable.NewDeclaration(declType, nil)
		}

		// A subsequent declarator's own dependency set still drives its
		// IsSafe flag, but it is forced unsafe regardless (spec.md §4.6).
		if i > 0 {
			decl.IsSafe = false
		}
		if w.Declarations != nil {
			w.Declarations.Set(d.Name.Value, decl)
		}

		frag, err := w.Visit(d)
		if err != nil {
			return "", err
		}
		parts[i] = frag
	}

	lowered, ok := w.TypeMap[firstType]
	if !ok {
		return "", w.shapeError(fmt.Sprintf("no backend type mapping for %q", firstType), n)
	}

	return lowered + " " + strings.Join(parts, ",") + ";", nil
}

// VisitFunctionDeclaration notifies the registered nested-function hook,
// if any, with a stable snapshot of the nested function's source text and
// inferred return type (LiteralInteger coerced to Number), and otherwise
// emits nothing: lowering a nested function's body is the host's
// responsibility (spec.md §4.7, §4.9 Nested-Function Hook).
func (DefaultHandlers) VisitFunctionDeclaration(w *Walker, n *ast.FunctionDeclaration) (string, *kerrors.CompilerError) {
	if w.onNestedFunction == nil {
		return "", nil
	}
	returnType, ok := oracle.TypeOf(w, n.Fn)
	if !ok {
		returnType = types.Number
	}
	if returnType == types.LiteralInteger {
		returnType = types.Number
	}
	w.onNestedFunction(n.Source, returnType)
	return "", nil
}

// No-op seams: core provides no fixed emission for these kinds. Backend
// specializations override them to produce target-dialect text.

func (DefaultHandlers) VisitFunctionLiteral(w *Walker, n *ast.FunctionLiteral) (string, *kerrors.CompilerError) {
	return "", nil
}

func (DefaultHandlers) VisitReturnStatement(w *Walker, n *ast.ReturnStatement) (string, *kerrors.CompilerError) {
	return "", nil
}

func (DefaultHandlers) VisitIntegerLiteral(w *Walker, n *ast.IntegerLiteral) (string, *kerrors.CompilerError) {
	return "", nil
}

func (DefaultHandlers) VisitFloatLiteral(w *Walker, n *ast.FloatLiteral) (string, *kerrors.CompilerError) {
	return "", nil
}

func (DefaultHandlers) VisitBooleanLiteral(w *Walker, n *ast.BooleanLiteral) (string, *kerrors.CompilerError) {
	return "", nil
}

func (DefaultHandlers) VisitArrayLiteral(w *Walker, n *ast.ArrayLiteral) (string, *kerrors.CompilerError) {
	return "", nil
}

func (DefaultHandlers) VisitBinaryExpression(w *Walker, n *ast.BinaryExpression) (string, *kerrors.CompilerError) {
	return "", nil
}

func (DefaultHandlers) VisitIdentifier(w *Walker, n *ast.Identifier) (string, *kerrors.CompilerError) {
	return "", nil
}

func (DefaultHandlers) VisitAssignmentExpression(w *Walker, n *ast.AssignmentExpression) (string, *kerrors.CompilerError) {
	return "", nil
}

func (DefaultHandlers) VisitEmptyStatement(w *Walker, n *ast.EmptyStatement) (string, *kerrors.CompilerError) {
	return "", nil
}

func (DefaultHandlers) VisitBlockStatement(w *Walker, n *ast.BlockStatement) (string, *kerrors.CompilerError) {
	return "", nil
}

func (DefaultHandlers) VisitIfStatement(w *Walker, n *ast.IfStatement) (string, *kerrors.CompilerError) {
	return "", nil
}

func (DefaultHandlers) VisitForStatement(w *Walker, n *ast.ForStatement) (string, *kerrors.CompilerError) {
	return "", nil
}

func (DefaultHandlers) VisitWhileStatement(w *Walker, n *ast.WhileStatement) (string, *kerrors.CompilerError) {
	return "", nil
}

func (DefaultHandlers) VisitDoWhileStatement(w *Walker, n *ast.DoWhileStatement) (string, *kerrors.CompilerError) {
	return "", nil
}

func (DefaultHandlers) VisitThisExpression(w *Walker, n *ast.ThisExpression) (string, *kerrors.CompilerError) {
	return "", nil
}

func (DefaultHandlers) VisitMemberExpression(w *Walker, n *ast.MemberExpression) (string, *kerrors.CompilerError) {
	return "", nil
}

func (DefaultHandlers) VisitCallExpression(w *Walker, n *ast.CallExpression) (string, *kerrors.CompilerError) {
	return "", nil
}

func (DefaultHandlers) VisitDebuggerStatement(w *Walker, n *ast.DebuggerStatement) (string, *kerrors.CompilerError) {
	return "", nil
}
