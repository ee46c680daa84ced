// Package types defines the closed type vocabulary of the kernel-function
// subset (spec.md §3) and the bit-exact tables spec.md §6 requires: the
// type-lookup map, and the math-intrinsic/constant name sets.
package types

// Type is one member of the closed type vocabulary. Unlike the teacher's
// open-ended class/interface/record type system, this vocabulary never
// grows at runtime: it is exactly the set spec.md §3 enumerates.
type Type string

const (
	Number         Type = "Number"
	Float          Type = "Float"
	Integer        Type = "Integer"
	LiteralInteger Type = "LiteralInteger"
	Boolean        Type = "Boolean"
	Array2         Type = "Array(2)"
	Array3         Type = "Array(3)"
	Array4         Type = "Array(4)"
	Array          Type = "Array"
	Array2D        Type = "Array2D"
	Array3D        Type = "Array3D"
	Input          Type = "Input"
	HTMLImage      Type = "HTMLImage"
	HTMLImageArray Type = "HTMLImageArray"
	NumberTexture  Type = "NumberTexture"
	ArrayTexture4  Type = "ArrayTexture(4)"
)

// ArrayN returns the Array(n) type for n in {2,3,4}; for any other n it
// returns the generic Array type, matching how spec.md §3 treats
// arbitrary-length array literals.
func ArrayN(n int) Type {
	switch n {
	case 2:
		return Array2
	case 3:
		return Array3
	case 4:
		return Array4
	default:
		return Array
	}
}

// lookupMap is the bit-exact type-lookup map of spec.md §6: the element
// type obtained by indexing one level into a container type.
var lookupMap = map[Type]Type{
	Array:         Number,
	Array2:        Number,
	Array3:        Number,
	Array4:        Number,
	Array2D:       Number,
	Array3D:       Number,
	HTMLImage:     Array4,
	HTMLImageArray: Array4,
	NumberTexture: Number,
	ArrayTexture4: Array4,
}

// Index returns the type obtained by one level of indexing into t, and
// whether t is a recognized indexable container. Scalar arrays collapse
// to Number per spec.md §3.
func Index(t Type) (Type, bool) {
	elem, ok := lookupMap[t]
	return elem, ok
}

// MathIntrinsics is the bit-exact set of 20 recognized math-intrinsic
// function names rooted at a `Math` identifier (spec.md §4.3/§6).
var MathIntrinsics = map[string]bool{
	"abs": true, "acos": true, "asin": true, "atan": true, "atan2": true,
	"ceil": true, "cos": true, "exp": true, "floor": true, "log": true,
	"log2": true, "max": true, "min": true, "pow": true, "random": true,
	"round": true, "sign": true, "sin": true, "sqrt": true, "tan": true,
}

// IntegerResultIntrinsics is the subset of MathIntrinsics whose result is
// specialized to Integer rather than Number (spec.md §4.3).
var IntegerResultIntrinsics = map[string]bool{
	"ceil": true, "floor": true, "round": true,
}

// MathConstants is the bit-exact set of 8 recognized `Math.<NAME>` constant
// references (spec.md §4.3), all of which resolve to Number.
var MathConstants = map[string]bool{
	"E": true, "PI": true, "SQRT2": true, "SQRT1_2": true,
	"LN2": true, "LN10": true, "LOG2E": true, "LOG10E": true,
}

// NormalizeConstant applies the constant-oracle normalization rule of
// spec.md §3: Float surfaces as Number through the constant oracle.
func NormalizeConstant(t Type) Type {
	if t == Float {
		return Number
	}
	return t
}

// CoerceForDeclaration applies the LiteralInteger promotion rule of
// spec.md §3: a LiteralInteger assigned to a runtime declaration slot
// becomes Number, unless forInit requests the for-loop-init Integer
// coercion of spec.md §4.6.
func CoerceForDeclaration(t Type, forInit bool) Type {
	if t != LiteralInteger {
		return t
	}
	if forInit {
		return Integer
	}
	return Number
}
