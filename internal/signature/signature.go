// Package signature reduces a member-expression access chain to one of a
// fixed vocabulary of canonical access shapes (spec.md §4.2), the
// "variable signature" the rest of the core dispatches on.
package signature

import (
	"strings"

	"github.com/cwbudde/go-kernelc/internal/ast"
)

// Signature is a recognized canonical access shape, or "" for an
// unrecognized chain (spec.md §4.2's "null signature").
type Signature string

const (
	Value                Signature = "value"
	ValueIndexed1        Signature = "value[]"
	ValueIndexed2        Signature = "value[][]"
	ValueIndexed3        Signature = "value[][][]"
	ValueDotValue        Signature = "value.value"
	ThisThreadValue      Signature = "this.thread.value"
	ThisOutputValue      Signature = "this.output.value"
	ThisConstantsValue   Signature = "this.constants.value"
	ThisConstantsIndex1  Signature = "this.constants.value[]"
	ThisConstantsIndex2  Signature = "this.constants.value[][]"
	ThisConstantsIndex3  Signature = "this.constants.value[][][]"
	CallIndexed1         Signature = "fn()[]"
	CallIndexed2         Signature = "fn()[][]"
	CallIndexed3         Signature = "fn()[][][]"
)

// allowList is the fixed allow-list of spec.md §4.2, bit-exact.
var allowList = map[Signature]bool{
	Value: true, ValueIndexed1: true, ValueIndexed2: true, ValueIndexed3: true,
	ValueDotValue: true, ThisThreadValue: true, ThisOutputValue: true,
	ThisConstantsValue: true, ThisConstantsIndex1: true, ThisConstantsIndex2: true,
	ThisConstantsIndex3: true, CallIndexed1: true, CallIndexed2: true, CallIndexed3: true,
}

// VectorChannels is the parallel recognized set of vector-channel
// properties used only when resolving `value.value` to a channel access
// (spec.md §4.2).
var VectorChannels = map[string]bool{"r": true, "g": true, "b": true, "a": true}

// reservedSuffixes are the three reserved suffix tokens that a named
// property contributes instead of the generic `.value` fragment.
var reservedSuffixes = map[string]string{
	"constants": ".constants",
	"thread":    ".thread",
	"output":    ".output",
}

// Recognize walks a member-expression chain from the outermost access
// inward, building the ordered fragment sequence of spec.md §4.2, and
// matches the joined string against the fixed allow-list. It returns ""
// (the null signature) for any chain outside that list.
func Recognize(expr ast.Expression) Signature {
	fragments := collectFragments(expr)
	if fragments == nil {
		return ""
	}
	joined := Signature(strings.Join(fragments, ""))
	if allowList[joined] {
		return joined
	}
	return ""
}

// collectFragments returns the ordered fragment list for expr, or nil if
// expr contains a construct the recognizer cannot classify at all (as
// opposed to a classifiable-but-disallowed chain, which still returns a
// fragment list — the allow-list check happens in the caller).
func collectFragments(expr ast.Expression) []string {
	switch e := expr.(type) {
	case *ast.Identifier:
		return []string{"value"}

	case *ast.ThisExpression:
		return []string{"this"}

	case *ast.CallExpression:
		return []string{"fn()"}

	case *ast.MemberExpression:
		base := collectFragments(e.Object)
		if base == nil {
			return nil
		}
		if e.Computed {
			return append(base, "[]")
		}
		prop, ok := e.Property.(*ast.Identifier)
		if !ok {
			return nil
		}
		if suffix, ok := reservedSuffixes[prop.Value]; ok {
			return append(base, suffix)
		}
		return append(base, ".value")

	default:
		return nil
	}
}

// PropertyName returns the trailing named-property identifier of a
// non-computed member expression, used by the decomposer and oracle to
// read the concrete property spelling (e.g. which vector channel, or
// which constant name) once a signature has been recognized.
func PropertyName(expr ast.Expression) (string, bool) {
	me, ok := expr.(*ast.MemberExpression)
	if !ok || me.Computed {
		return "", false
	}
	ident, ok := me.Property.(*ast.Identifier)
	if !ok {
		return "", false
	}
	return ident.Value, true
}
