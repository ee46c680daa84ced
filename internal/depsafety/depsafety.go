// Package depsafety computes, for an expression, the set of contributing
// identifiers/literals and a boolean safety flag (spec.md §4.4).
package depsafety

import (
	"math"

	"github.com/cwbudde/go-kernelc/internal/ast"
)

// Origin tags where a Dependency's value originates.
type Origin string

const (
	OriginLiteral      Origin = "literal"
	OriginDeclaration  Origin = "declaration"
	OriginArgument     Origin = "argument"
	OriginFunction     Origin = "function"
	OriginArrayLiteral Origin = "array-literal"
)

// Dependency is a single tagged descriptor contributing to an
// expression's value (spec.md §3).
type Dependency struct {
	Name   string
	Origin Origin
	IsSafe bool
}

// DeclarationLookup is the subset of the Declaration Table's behavior the
// analyzer needs: whether a name is a known local declaration and, if so,
// whether that declaration is safe. Kept as an interface here (rather than
// importing internal/decltable directly) so the Declaration Table can
// depend on this package for the Dependency type without a cycle.
type DeclarationLookup interface {
	Lookup(name string) (isSafe bool, found bool)
}

// Analyzer walks expressions collecting Dependency records, resolving
// identifiers against a Declaration Table and a set of argument names.
type Analyzer struct {
	Declarations DeclarationLookup
	ArgumentSet  map[string]bool
}

// NewAnalyzer builds an Analyzer bound to the given declaration lookup and
// argument-name set.
func NewAnalyzer(decls DeclarationLookup, argumentNames []string) *Analyzer {
	set := make(map[string]bool, len(argumentNames))
	for _, n := range argumentNames {
		set[n] = true
	}
	return &Analyzer{Declarations: decls, ArgumentSet: set}
}

// Analyze walks expr and returns its dependency set and overall safety
// (isSafe = every dependency's IsSafe flag AND'd together; an expression
// with no dependencies, e.g. a bare safe literal, is itself that literal's
// single dependency).
func (a *Analyzer) Analyze(expr ast.Expression) ([]Dependency, bool) {
	deps := a.collect(expr, false)
	safe := true
	for _, d := range deps {
		safe = safe && d.IsSafe
	}
	return deps, safe
}

// collect is the recursive worker. notSafeContext is set by an enclosing
// `*`/`/` operator per spec.md §4.4: it forces every dependency gathered
// from the affected subtree to IsSafe=false, regardless of its own origin.
func (a *Analyzer) collect(expr ast.Expression, notSafeContext bool) []Dependency {
	switch e := expr.(type) {
	case nil:
		return nil

	case *ast.IntegerLiteral:
		return []Dependency{a.clobber(Dependency{Origin: OriginLiteral, IsSafe: true}, notSafeContext)}

	case *ast.FloatLiteral:
		safe := !math.IsNaN(e.Value) && !math.IsInf(e.Value, 0)
		return []Dependency{a.clobber(Dependency{Origin: OriginLiteral, IsSafe: safe}, notSafeContext)}

	case *ast.BooleanLiteral:
		return []Dependency{a.clobber(Dependency{Origin: OriginLiteral, IsSafe: true}, notSafeContext)}

	case *ast.ArrayLiteral:
		// Array-literal interiors are not introspected: the analyzer's
		// policy is that array constants cannot introduce unbounded
		// numeric error (spec.md §4.4).
		return []Dependency{a.clobber(Dependency{Origin: OriginArrayLiteral, IsSafe: true}, notSafeContext)}

	case *ast.CallExpression:
		// Call results are treated as safe and not introspected, same
		// policy as array literals (spec.md §3/§4.4).
		return []Dependency{a.clobber(Dependency{Origin: OriginFunction, IsSafe: true}, notSafeContext)}

	case *ast.Identifier:
		if a.ArgumentSet[e.Value] {
			return []Dependency{a.clobber(Dependency{Name: e.Value, Origin: OriginArgument, IsSafe: false}, notSafeContext)}
		}
		if a.Declarations != nil {
			if isSafe, found := a.Declarations.Lookup(e.Value); found {
				return []Dependency{a.clobber(Dependency{Name: e.Value, Origin: OriginDeclaration, IsSafe: isSafe}, notSafeContext)}
			}
		}
		// Unresolved identifier: treat conservatively as unsafe, matching
		// the oracle's "soft unknown" posture (spec.md §7) rather than
		// erroring inside the safety analyzer.
		return []Dependency{a.clobber(Dependency{Name: e.Value, Origin: OriginDeclaration, IsSafe: false}, notSafeContext)}

	case *ast.BinaryExpression:
		childNotSafe := notSafeContext || e.Operator == "*" || e.Operator == "/"
		deps := a.collect(e.Left, childNotSafe)
		deps = append(deps, a.collect(e.Right, childNotSafe)...)
		return deps

	case *ast.LogicalExpression:
		deps := a.collect(e.Left, notSafeContext)
		deps = append(deps, a.collect(e.Right, notSafeContext)...)
		return deps

	case *ast.UnaryExpression:
		return a.collect(e.Argument, notSafeContext)

	case *ast.UpdateExpression:
		return a.collect(e.Argument, notSafeContext)

	case *ast.ConditionalExpression:
		deps := a.collect(e.Consequent, notSafeContext)
		deps = append(deps, a.collect(e.Alternate, notSafeContext)...)
		return deps

	case *ast.SequenceExpression:
		var deps []Dependency
		for _, sub := range e.Expressions {
			deps = append(deps, a.collect(sub, notSafeContext)...)
		}
		return deps

	case *ast.MemberExpression:
		deps := a.collect(e.Object, notSafeContext)
		if e.Computed {
			deps = append(deps, a.collect(e.Property, notSafeContext)...)
		}
		return deps

	case *ast.AssignmentExpression:
		return a.collect(e.Value, notSafeContext)

	case *ast.ThisExpression:
		return nil

	default:
		return nil
	}
}

func (a *Analyzer) clobber(d Dependency, notSafeContext bool) Dependency {
	if notSafeContext {
		d.IsSafe = false
	}
	return d
}
