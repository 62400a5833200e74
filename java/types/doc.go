// Package types is the type model shared by the inference engine and the
// checker.
//
// A [Type] is one of [Primitive], [ClassType], [ArrayType], [TypeVar],
// [Wildcard], [InferenceVar], [Captured], [Intersection] or one of the
// singletons [Null] and [Invalid]. Types are compared with
// [Types.IsSameType], never with ==, except for the variable kinds whose
// identity is their pointer.
//
// Declarations are symbols: [ClassSym], [MethodSym] and [FieldSym]. Symbols
// read from class files are completed lazily the first time their members
// or supertypes are needed; symbols declared in source are filled in by the
// checker before any body is checked.
//
// [Types] bundles the relations that need the environment: supertypes,
// subtyping, containment, capture conversion, boxing, lub and glb. One value
// is created per compilation unit, which also numbers its capture
// variables.
//
// Types print the way diagnostics show them: simple names, type arguments
// separated by a bare comma, and intersections joined by " & ".
//
//	Map<String,List<Integer>>
//	Y<I & J>
//	capture#1-of ? extends Number
package types
