package infer

import "github.com/dhamidi/javafront/java/types"

type FormulaKind uint8

const (
	// Compatible is ‹S → T›: S is compatible with T in a loose invocation
	// context.
	Compatible FormulaKind = iota
	// Subtype is ‹S <: T›.
	Subtype
	// Equal is ‹S = T›.
	Equal
	// Contained is ‹S <= T›: type argument S is contained by T.
	Contained
)

var formulaOps = [...]string{
	Compatible: "->",
	Subtype:    "<:",
	Equal:      "=",
	Contained:  "<=",
}

// Formula is a constraint over types that may mention inference variables.
type Formula struct {
	Kind FormulaKind
	S, T types.Type
}

func (f Formula) String() string {
	return f.S.String() + " " + formulaOps[f.Kind] + " " + f.T.String()
}

type BoundKind uint8

const (
	Eq BoundKind = iota
	Upper
	Lower
)

// Bound is one of α = T, α <: T or T <: α.
type Bound struct {
	Kind BoundKind
	Var  *types.InferenceVar
	Type types.Type
}

func (b Bound) String() string {
	switch b.Kind {
	case Upper:
		return b.Var.String() + " <: " + b.Type.String()
	case Lower:
		return b.Type.String() + " <: " + b.Var.String()
	}
	return b.Var.String() + " = " + b.Type.String()
}

type varBounds struct {
	eq, upper, lower []types.Type
}

func (vb *varBounds) list(k BoundKind) *[]types.Type {
	switch k {
	case Upper:
		return &vb.upper
	case Lower:
		return &vb.lower
	}
	return &vb.eq
}
