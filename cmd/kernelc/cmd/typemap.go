package cmd

import "github.com/cwbudde/go-kernelc/internal/types"

// defaultTypeMap is the CLI's own illustrative lowered-type spelling,
// used when the user doesn't supply one via --config. It is not part of
// the core's semantics (spec.md §6 leaves typeMap entirely
// backend-supplied) — just a convenient default for ad-hoc CLI use.
var defaultTypeMap = map[types.Type]string{
	types.Number:         "float",
	types.Float:          "float",
	types.Integer:        "int",
	types.LiteralInteger: "int",
	types.Boolean:        "bool",
	types.Array2:         "vec2",
	types.Array3:         "vec3",
	types.Array4:         "vec4",
	types.Array:          "float*",
	types.Array2D:        "float**",
	types.Array3D:        "float***",
}
