package parser

import "encoding/json"

// treeJSON is the shape of one node in "javafront parse --json" output.
// Leaves carry their token, error nodes carry what the parser expected.
type treeJSON struct {
	Kind     string      `json:"kind"`
	Span     *spanJSON   `json:"span,omitempty"`
	Token    *tokenJSON  `json:"token,omitempty"`
	Error    *errorJSON  `json:"error,omitempty"`
	Children []*treeJSON `json:"children,omitempty"`
}

type spanJSON struct {
	Start positionJSON `json:"start"`
	End   positionJSON `json:"end"`
}

type positionJSON struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

type tokenJSON struct {
	Kind      string `json:"kind"`
	Literal   string `json:"literal,omitempty"`
	Synthetic bool   `json:"synthetic,omitempty"`
}

type errorJSON struct {
	Message  string   `json:"message"`
	Expected []string `json:"expected,omitempty"`
	Got      string   `json:"got,omitempty"`
}

// MarshalJSON encodes the tree rooted at n. Nodes without a position, such
// as recovery placeholders, omit their span.
func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.tree())
}

func (n *Node) tree() *treeJSON {
	out := &treeJSON{Kind: n.Kind.String()}
	if s := n.Span; s.Start.Line != 0 || s.End.Line != 0 {
		out.Span = &spanJSON{
			Start: positionJSON{Offset: s.Start.Offset, Line: s.Start.Line, Column: s.Start.Column},
			End:   positionJSON{Offset: s.End.Offset, Line: s.End.Line, Column: s.End.Column},
		}
	}
	if tok := n.Token; tok != nil {
		out.Token = &tokenJSON{Kind: tok.Kind.String(), Literal: tok.Literal, Synthetic: tok.Kind.IsSynthetic()}
	}
	if e := n.Error; e != nil {
		out.Error = &errorJSON{Message: e.Message}
		for _, k := range e.Expected {
			out.Error.Expected = append(out.Error.Expected, k.String())
		}
		if e.Got != nil {
			out.Error.Got = e.Got.Literal
		}
	}
	for _, c := range n.Children {
		out.Children = append(out.Children, c.tree())
	}
	return out
}
