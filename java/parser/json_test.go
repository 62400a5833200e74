package parser

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func decodeTree(t *testing.T, n *Node) *treeJSON {
	t.Helper()
	data, err := json.Marshal(n)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var out treeJSON
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v\n%s", err, data)
	}
	return &out
}

func findJSON(n *treeJSON, kind string) *treeJSON {
	if n.Kind == kind {
		return n
	}
	for _, c := range n.Children {
		if f := findJSON(c, kind); f != nil {
			return f
		}
	}
	return nil
}

func TestMarshalJSONLeaves(t *testing.T) {
	root, _ := parseUnit("class A { int x; }")
	tree := decodeTree(t, root)
	if tree.Kind != "CompilationUnit" {
		t.Fatalf("root kind = %q", tree.Kind)
	}
	id := findJSON(tree, "VarDeclarator")
	if id == nil || len(id.Children) == 0 {
		t.Fatalf("no declarator in %+v", tree)
	}
	want := &treeJSON{
		Kind:  "Identifier",
		Span:  &spanJSON{Start: positionJSON{Offset: 14, Line: 1, Column: 15}, End: positionJSON{Offset: 15, Line: 1, Column: 16}},
		Token: &tokenJSON{Kind: "Identifier", Literal: "x"},
	}
	if diff := cmp.Diff(want, id.Children[0]); diff != "" {
		t.Errorf("identifier mismatch (-want +got):\n%s", diff)
	}
}

func TestMarshalJSONErrors(t *testing.T) {
	root, _ := parseUnit("class A { void m() { ) } }")
	tree := decodeTree(t, root)
	e := findJSON(tree, "Error")
	if e == nil {
		t.Fatalf("no error node in %+v", tree)
	}
	if e.Error == nil || e.Error.Message != "expected expression" || e.Error.Got != ")" {
		t.Errorf("error = %+v, want expected expression got )", e.Error)
	}
	if len(e.Error.Expected) != 0 {
		t.Errorf("expected = %v, want none", e.Error.Expected)
	}
}

func TestMarshalJSONOmitsMissingSpan(t *testing.T) {
	n := &Node{Kind: KindBlock}
	n.AddChild(&Node{Kind: KindError, Error: &Error{Message: "x", Expected: []TokenKind{TokenSemicolon}}})
	got := decodeTree(t, n)
	want := &treeJSON{
		Kind: "Block",
		Children: []*treeJSON{{
			Kind:  "Error",
			Error: &errorJSON{Message: "x", Expected: []string{";"}},
		}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}
