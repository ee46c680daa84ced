// Package walker implements the generic, re-entrant AST traversal
// framework of spec.md §4.7: a table-driven dispatcher over AST node
// kinds, a traversal-state stack, and a set of fixed-behavior handlers
// that backend specializations may override for everything else.
package walker

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/cwbudde/go-kernelc/internal/ast"
	"github.com/cwbudde/go-kernelc/internal/decltable"
	"github.com/cwbudde/go-kernelc/internal/depsafety"
	"github.com/cwbudde/go-kernelc/internal/kerrors"
	"github.com/cwbudde/go-kernelc/internal/oracle"
	"github.com/cwbudde/go-kernelc/internal/types"
)

// Handlers is the full set of per-node-kind emission hooks. The core
// supplies DefaultHandlers, which implements the fixed-behavior handlers
// spec.md §4.7 names and leaves every other kind as a no-op seam. Backend
// specializations embed DefaultHandlers and override whichever methods
// they need to emit target-dialect text.
type Handlers interface {
	VisitFunctionLiteral(w *Walker, n *ast.FunctionLiteral) (string, *kerrors.CompilerError)
	VisitFunctionDeclaration(w *Walker, n *ast.FunctionDeclaration) (string, *kerrors.CompilerError)
	VisitReturnStatement(w *Walker, n *ast.ReturnStatement) (string, *kerrors.CompilerError)
	VisitIntegerLiteral(w *Walker, n *ast.IntegerLiteral) (string, *kerrors.CompilerError)
	VisitFloatLiteral(w *Walker, n *ast.FloatLiteral) (string, *kerrors.CompilerError)
	VisitBooleanLiteral(w *Walker, n *ast.BooleanLiteral) (string, *kerrors.CompilerError)
	VisitArrayLiteral(w *Walker, n *ast.ArrayLiteral) (string, *kerrors.CompilerError)
	VisitBinaryExpression(w *Walker, n *ast.BinaryExpression) (string, *kerrors.CompilerError)
	VisitLogicalExpression(w *Walker, n *ast.LogicalExpression) (string, *kerrors.CompilerError)
	VisitUnaryExpression(w *Walker, n *ast.UnaryExpression) (string, *kerrors.CompilerError)
	VisitUpdateExpression(w *Walker, n *ast.UpdateExpression) (string, *kerrors.CompilerError)
	VisitIdentifier(w *Walker, n *ast.Identifier) (string, *kerrors.CompilerError)
	VisitAssignmentExpression(w *Walker, n *ast.AssignmentExpression) (string, *kerrors.CompilerError)
	VisitExpressionStatement(w *Walker, n *ast.ExpressionStatement) (string, *kerrors.CompilerError)
	VisitEmptyStatement(w *Walker, n *ast.EmptyStatement) (string, *kerrors.CompilerError)
	VisitBlockStatement(w *Walker, n *ast.BlockStatement) (string, *kerrors.CompilerError)
	VisitIfStatement(w *Walker, n *ast.IfStatement) (string, *kerrors.CompilerError)
	VisitBreakStatement(w *Walker, n *ast.BreakStatement) (string, *kerrors.CompilerError)
	VisitContinueStatement(w *Walker, n *ast.ContinueStatement) (string, *kerrors.CompilerError)
	VisitForStatement(w *Walker, n *ast.ForStatement) (string, *kerrors.CompilerError)
	VisitWhileStatement(w *Walker, n *ast.WhileStatement) (string, *kerrors.CompilerError)
	VisitDoWhileStatement(w *Walker, n *ast.DoWhileStatement) (string, *kerrors.CompilerError)
	VisitVariableDeclaration(w *Walker, n *ast.VariableDeclaration) (string, *kerrors.CompilerError)
	VisitVariableDeclarator(w *Walker, n *ast.VariableDeclarator) (string, *kerrors.CompilerError)
	VisitThisExpression(w *Walker, n *ast.ThisExpression) (string, *kerrors.CompilerError)
	VisitSequenceExpression(w *Walker, n *ast.SequenceExpression) (string, *kerrors.CompilerError)
	VisitMemberExpression(w *Walker, n *ast.MemberExpression) (string, *kerrors.CompilerError)
	VisitCallExpression(w *Walker, n *ast.CallExpression) (string, *kerrors.CompilerError)
	VisitDebuggerStatement(w *Walker, n *ast.DebuggerStatement) (string, *kerrors.CompilerError)
	VisitConditionalExpression(w *Walker, n *ast.ConditionalExpression) (string, *kerrors.CompilerError)
}

// Walker drives the traversal. It owns the traversal-state stack, the
// Declaration Table, the internal-variable-name counter, and the
// extension seams a backend must supply (spec.md §6).
type Walker struct {
	Handlers Handlers

	Declarations *decltable.Table
	Deps         *depsafety.Analyzer

	// TypeMap lowers a Type to its backend-specific declared-type spelling
	// (spec.md §4.7's VariableDeclaration handler, §6's typeMap seam).
	TypeMap map[types.Type]string

	// Source is the original function source text, used to enrich
	// diagnostics with a snippet and line/column (spec.md §4.9). Empty
	// when the unit was built from a pre-parsed AST.
	Source string

	// SourceOffset is the byte length of the synthetic wrapper prefix the
	// parser adapter prepended ahead of Source before scanning (see
	// internal/function's intake). An AST node's Pos().Offset is relative
	// to the wrapped text, not Source, so shapeError subtracts this before
	// recomputing a line/column against Source (spec.md §4.9).
	SourceOffset int

	argumentType     func(name string) (types.Type, bool)
	constantType     func(name string) (types.Type, bool)
	lookupReturnType func(name string) (types.Type, bool)
	onNestedFunction func(source string, returnType types.Type)

	stateStack  []string
	nameCounter map[string]int
}

// New builds a Walker. argumentType/constantType/lookupReturnType/
// onNestedFunction may be nil; Walker treats a nil callback as "not
// resolvable"/"no hook registered" respectively.
func New(handlers Handlers, decls *decltable.Table, deps *depsafety.Analyzer, typeMap map[types.Type]string) *Walker {
	return &Walker{
		Handlers:     handlers,
		Declarations: decls,
		Deps:         deps,
		TypeMap:      typeMap,
		nameCounter:  make(map[string]int),
	}
}

// SetArgumentType registers the callback used to resolve an argument's
// type (with back-propagation already applied upstream, see
// internal/function).
func (w *Walker) SetArgumentType(fn func(name string) (types.Type, bool)) { w.argumentType = fn }

// SetConstantType registers the callback used to resolve a constant's
// registered type.
func (w *Walker) SetConstantType(fn func(name string) (types.Type, bool)) { w.constantType = fn }

// SetLookupReturnType registers the user-defined-call return-type
// resolver (spec.md §6's lookupReturnType seam).
func (w *Walker) SetLookupReturnType(fn func(name string) (types.Type, bool)) {
	w.lookupReturnType = fn
}

// SetOnNestedFunction registers the nested-function notification hook
// (spec.md §4.7, §4.9 Nested-Function Hook).
func (w *Walker) SetOnNestedFunction(fn func(source string, returnType types.Type)) {
	w.onNestedFunction = fn
}

// oracle.Context implementation.

func (w *Walker) ArgumentType(name string) (types.Type, bool) {
	if w.argumentType == nil {
		return "", false
	}
	return w.argumentType(name)
}

func (w *Walker) Declaration(name string) (decltable.Declaration, bool) {
	if w.Declarations == nil {
		return decltable.Declaration{}, false
	}
	return w.Declarations.Get(name)
}

func (w *Walker) ConstantType(name string) (types.Type, bool) {
	if w.constantType == nil {
		return "", false
	}
	return w.constantType(name)
}

func (w *Walker) LookupReturnType(name string) (types.Type, bool) {
	if w.lookupReturnType == nil {
		return "", false
	}
	return w.lookupReturnType(name)
}

func (w *Walker) StateTop() string {
	if len(w.stateStack) == 0 {
		return ""
	}
	return w.stateStack[len(w.stateStack)-1]
}

// TypeOf infers the type of node using the oracle, with this Walker as
// its Context.
func (w *Walker) TypeOf(node ast.Node) (types.Type, bool) {
	return oracle.TypeOf(w, node)
}

// PushState pushes label onto the traversal-state stack (spec.md §3).
func (w *Walker) PushState(label string) {
	w.stateStack = append(w.stateStack, label)
}

// PopState pops the top of the traversal-state stack. It is a fatal
// StateError, and the stack is left unchanged, if label does not match
// the current top (spec.md §3 invariant (v), §8).
func (w *Walker) PopState(label string) *kerrors.CompilerError {
	if len(w.stateStack) == 0 {
		return kerrors.NewStateError(fmt.Sprintf("cannot pop state %q: stack is empty", label))
	}
	top := w.stateStack[len(w.stateStack)-1]
	if top != label {
		return kerrors.NewStateError(fmt.Sprintf("cannot pop state %q: top of stack is %q", label, top))
	}
	w.stateStack = w.stateStack[:len(w.stateStack)-1]
	return nil
}

// InternalVariableName issues a collision-free identifier for
// requested: the first issuance returns requested unchanged, and the
// k-th issuance (k >= 2) appends k, giving n, n2, n3, ... (spec.md §3, §8).
func (w *Walker) InternalVariableName(requested string) string {
	count := w.nameCounter[requested]
	w.nameCounter[requested] = count + 1
	if count == 0 {
		return requested
	}
	return fmt.Sprintf("%s%d", requested, count+1)
}

// dispatch is the table-driven kind→handler map keyed by the AST node's
// concrete Go type (spec.md §4.7 "A table-driven dispatcher over AST node
// kinds").
var dispatch = map[reflect.Type]func(Handlers, *Walker, ast.Node) (string, *kerrors.CompilerError){
	reflect.TypeOf(&ast.FunctionLiteral{}): func(h Handlers, w *Walker, n ast.Node) (string, *kerrors.CompilerError) {
		return h.VisitFunctionLiteral(w, n.(*ast.FunctionLiteral))
	},
	reflect.TypeOf(&ast.FunctionDeclaration{}): func(h Handlers, w *Walker, n ast.Node) (string, *kerrors.CompilerError) {
		return h.VisitFunctionDeclaration(w, n.(*ast.FunctionDeclaration))
	},
	reflect.TypeOf(&ast.ReturnStatement{}): func(h Handlers, w *Walker, n ast.Node) (string, *kerrors.CompilerError) {
		return h.VisitReturnStatement(w, n.(*ast.ReturnStatement))
	},
	reflect.TypeOf(&ast.IntegerLiteral{}): func(h Handlers, w *Walker, n ast.Node) (string, *kerrors.CompilerError) {
		return h.VisitIntegerLiteral(w, n.(*ast.IntegerLiteral))
	},
	reflect.TypeOf(&ast.FloatLiteral{}): func(h Handlers, w *Walker, n ast.Node) (string, *kerrors.CompilerError) {
		return h.VisitFloatLiteral(w, n.(*ast.FloatLiteral))
	},
	reflect.TypeOf(&ast.BooleanLiteral{}): func(h Handlers, w *Walker, n ast.Node) (string, *kerrors.CompilerError) {
		return h.VisitBooleanLiteral(w, n.(*ast.BooleanLiteral))
	},
	reflect.TypeOf(&ast.ArrayLiteral{}): func(h Handlers, w *Walker, n ast.Node) (string, *kerrors.CompilerError) {
		return h.VisitArrayLiteral(w, n.(*ast.ArrayLiteral))
	},
	reflect.TypeOf(&ast.BinaryExpression{}): func(h Handlers, w *Walker, n ast.Node) (string, *kerrors.CompilerError) {
		return h.VisitBinaryExpression(w, n.(*ast.BinaryExpression))
	},
	reflect.TypeOf(&ast.LogicalExpression{}): func(h Handlers, w *Walker, n ast.Node) (string, *kerrors.CompilerError) {
		return h.VisitLogicalExpression(w, n.(*ast.LogicalExpression))
	},
	reflect.TypeOf(&ast.UnaryExpression{}): func(h Handlers, w *Walker, n ast.Node) (string, *kerrors.CompilerError) {
		return h.VisitUnaryExpression(w, n.(*ast.UnaryExpression))
	},
	reflect.TypeOf(&ast.UpdateExpression{}): func(h Handlers, w *Walker, n ast.Node) (string, *kerrors.CompilerError) {
		return h.VisitUpdateExpression(w, n.(*ast.UpdateExpression))
	},
	reflect.TypeOf(&ast.Identifier{}): func(h Handlers, w *Walker, n ast.Node) (string, *kerrors.CompilerError) {
		return h.VisitIdentifier(w, n.(*ast.Identifier))
	},
	reflect.TypeOf(&ast.AssignmentExpression{}): func(h Handlers, w *Walker, n ast.Node) (string, *kerrors.CompilerError) {
		return h.VisitAssignmentExpression(w, n.(*ast.AssignmentExpression))
	},
	reflect.TypeOf(&ast.ExpressionStatement{}): func(h Handlers, w *Walker, n ast.Node) (string, *kerrors.CompilerError) {
		return h.VisitExpressionStatement(w, n.(*ast.ExpressionStatement))
	},
	reflect.TypeOf(&ast.EmptyStatement{}): func(h Handlers, w *Walker, n ast.Node) (string, *kerrors.CompilerError) {
		return h.VisitEmptyStatement(w, n.(*ast.EmptyStatement))
	},
	reflect.TypeOf(&ast.BlockStatement{}): func(h Handlers, w *Walker, n ast.Node) (string, *kerrors.CompilerError) {
		return h.VisitBlockStatement(w, n.(*ast.BlockStatement))
	},
	reflect.TypeOf(&ast.IfStatement{}): func(h Handlers, w *Walker, n ast.Node) (string, *kerrors.CompilerError) {
		return h.VisitIfStatement(w, n.(*ast.IfStatement))
	},
	reflect.TypeOf(&ast.BreakStatement{}): func(h Handlers, w *Walker, n ast.Node) (string, *kerrors.CompilerError) {
		return h.VisitBreakStatement(w, n.(*ast.BreakStatement))
	},
	reflect.TypeOf(&ast.ContinueStatement{}): func(h Handlers, w *Walker, n ast.Node) (string, *kerrors.CompilerError) {
		return h.VisitContinueStatement(w, n.(*ast.ContinueStatement))
	},
	reflect.TypeOf(&ast.ForStatement{}): func(h Handlers, w *Walker, n ast.Node) (string, *kerrors.CompilerError) {
		return h.VisitForStatement(w, n.(*ast.ForStatement))
	},
	reflect.TypeOf(&ast.WhileStatement{}): func(h Handlers, w *Walker, n ast.Node) (string, *kerrors.CompilerError) {
		return h.VisitWhileStatement(w, n.(*ast.WhileStatement))
	},
	reflect.TypeOf(&ast.DoWhileStatement{}): func(h Handlers, w *Walker, n ast.Node) (string, *kerrors.CompilerError) {
		return h.VisitDoWhileStatement(w, n.(*ast.DoWhileStatement))
	},
	reflect.TypeOf(&ast.VariableDeclaration{}): func(h Handlers, w *Walker, n ast.Node) (string, *kerrors.CompilerError) {
		return h.VisitVariableDeclaration(w, n.(*ast.VariableDeclaration))
	},
	reflect.TypeOf(&ast.VariableDeclarator{}): func(h Handlers, w *Walker, n ast.Node) (string, *kerrors.CompilerError) {
		return h.VisitVariableDeclarator(w, n.(*ast.VariableDeclarator))
	},
	reflect.TypeOf(&ast.ThisExpression{}): func(h Handlers, w *Walker, n ast.Node) (string, *kerrors.CompilerError) {
		return h.VisitThisExpression(w, n.(*ast.ThisExpression))
	},
	reflect.TypeOf(&ast.SequenceExpression{}): func(h Handlers, w *Walker, n ast.Node) (string, *kerrors.CompilerError) {
		return h.VisitSequenceExpression(w, n.(*ast.SequenceExpression))
	},
	reflect.TypeOf(&ast.MemberExpression{}): func(h Handlers, w *Walker, n ast.Node) (string, *kerrors.CompilerError) {
		return h.VisitMemberExpression(w, n.(*ast.MemberExpression))
	},
	reflect.TypeOf(&ast.CallExpression{}): func(h Handlers, w *Walker, n ast.Node) (string, *kerrors.CompilerError) {
		return h.VisitCallExpression(w, n.(*ast.CallExpression))
	},
	reflect.TypeOf(&ast.DebuggerStatement{}): func(h Handlers, w *Walker, n ast.Node) (string, *kerrors.CompilerError) {
		return h.VisitDebuggerStatement(w, n.(*ast.DebuggerStatement))
	},
	reflect.TypeOf(&ast.ConditionalExpression{}): func(h Handlers, w *Walker, n ast.Node) (string, *kerrors.CompilerError) {
		return h.VisitConditionalExpression(w, n.(*ast.ConditionalExpression))
	},
}

// Visit dispatches node to its registered handler. An AST kind outside
// the closed vocabulary of spec.md §4.7 is a fatal ShapeError.
func (w *Walker) Visit(node ast.Node) (string, *kerrors.CompilerError) {
	if node == nil {
		return "", nil
	}
	fn, ok := dispatch[reflect.TypeOf(node)]
	if !ok {
		return "", w.shapeError(fmt.Sprintf("unknown AST kind %T", node), node)
	}
	return fn(w.Handlers, w, node)
}

// VisitAll visits a slice of statements and concatenates their fragments.
func (w *Walker) VisitAll(stmts []ast.Statement) (string, *kerrors.CompilerError) {
	var sb strings.Builder
	for _, s := range stmts {
		frag, err := w.Visit(s)
		if err != nil {
			return "", err
		}
		sb.WriteString(frag)
	}
	return sb.String(), nil
}

func (w *Walker) shapeError(message string, node ast.Node) *kerrors.CompilerError {
	pos := node.Pos()
	pos.Offset -= w.SourceOffset
	return kerrors.NewShapeError(message, node.String(), w.Source, pos)
}
