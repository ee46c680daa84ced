// Package decltable records typed, dependency-tagged local declarations
// as the walker encounters them (spec.md §3 "Declaration Record", §4.6).
package decltable

import (
	"github.com/cwbudde/go-kernelc/internal/depsafety"
	"github.com/cwbudde/go-kernelc/internal/types"
)

// Declaration is one locally introduced name's record. Immutable after
// creation (spec.md §3): callers obtain a new Declaration and Set it
// rather than mutating one in place.
type Declaration struct {
	Type         types.Type
	Dependencies []depsafety.Dependency
	IsSafe       bool
}

// NewDeclaration builds a Declaration whose IsSafe is the logical AND of
// deps' IsSafe flags (spec.md §8 invariant).
func NewDeclaration(typ types.Type, deps []depsafety.Dependency) Declaration {
	safe := true
	for _, d := range deps {
		safe = safe && d.IsSafe
	}
	return Declaration{Type: typ, Dependencies: deps, IsSafe: safe}
}

// Table maps declaration names to their Declaration Record. Later
// declarations with the same name overwrite the table entry while the
// previously returned Declaration value remains an unchanged, valid
// immutable snapshot (spec.md §3 invariant (iv)).
type Table struct {
	entries map[string]Declaration
}

// New creates an empty Declaration Table.
func New() *Table {
	return &Table{entries: make(map[string]Declaration)}
}

// Set records (or overwrites) the Declaration for name.
func (t *Table) Set(name string, decl Declaration) {
	t.entries[name] = decl
}

// Get returns the Declaration for name, if any.
func (t *Table) Get(name string) (Declaration, bool) {
	d, ok := t.entries[name]
	return d, ok
}

// Lookup implements depsafety.DeclarationLookup.
func (t *Table) Lookup(name string) (isSafe bool, found bool) {
	d, ok := t.entries[name]
	if !ok {
		return false, false
	}
	return d.IsSafe, true
}
