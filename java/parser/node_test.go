package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNodeKindString(t *testing.T) {
	tests := []struct {
		kind NodeKind
		want string
	}{
		{KindError, "Error"},
		{KindVarDeclarator, "VarDeclarator"},
		{KindIntersectionType, "IntersectionType"},
		{KindRecordPattern, "RecordPattern"},
		{KindUnnamedVariable, "UnnamedVariable"},
		{NodeKind(9999), "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("NodeKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
			}
		})
	}
}

func TestNodeChild(t *testing.T) {
	a := &Node{Kind: KindIdentifier}
	b := &Node{Kind: KindLiteral}
	n := &Node{Kind: KindBinaryExpr}
	n.AddChild(a)
	n.AddChild(nil)
	n.AddChild(b)

	tests := []struct {
		name string
		node *Node
		i    int
		want *Node
	}{
		{"first", n, 0, a},
		{"nil children are not added", n, 1, b},
		{"past the end", n, 2, nil},
		{"negative", n, -1, nil},
		{"nil receiver", nil, 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.Child(tt.i); got != tt.want {
				t.Errorf("Child(%d) = %v, want %v", tt.i, got, tt.want)
			}
		})
	}
	if got := (*Node)(nil).FirstChildOfKind(KindIdentifier); got != nil {
		t.Errorf("FirstChildOfKind on nil = %v, want nil", got)
	}
}

func kindsOf(root *Node, skip NodeKind) []string {
	var out []string
	root.Walk(func(n *Node) bool {
		out = append(out, n.Kind.String())
		return n.Kind != skip
	})
	return out
}

func TestNodeWalk(t *testing.T) {
	root, diags := parseUnit("class A { int a = 1, b; }")
	if len(diags) > 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	got := 0
	root.Walk(func(n *Node) bool {
		if n.Kind == KindVarDeclarator {
			got++
		}
		return true
	})
	if got != 2 {
		t.Errorf("walked %d VarDeclarator nodes, want 2", got)
	}

	all := kindsOf(root, KindError)
	pruned := kindsOf(root, KindFieldDecl)
	if len(pruned) >= len(all) {
		t.Fatalf("returning false did not prune: %d nodes, %d without pruning", len(pruned), len(all))
	}
	if pruned[len(pruned)-1] != "FieldDecl" {
		t.Errorf("last visited = %s, want FieldDecl", pruned[len(pruned)-1])
	}
	if all[0] != "CompilationUnit" {
		t.Errorf("first visited = %s, want the root", all[0])
	}
}

func TestNodeHasErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"clean", "class A { Object o = (Runnable & Serializable) () -> {}; }", false},
		{"stray token", "class A { void m() { ) } }", true},
		{"missing expression", "class A { int x = ; }", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, _ := parseUnit(tt.input)
			if got := root.HasErrors(); got != tt.want {
				t.Errorf("HasErrors() = %v, want %v\n%s", got, tt.want, root)
			}
		})
	}
}

func TestIntersectionCast(t *testing.T) {
	root, diags := parseUnit("class A { Object o = (Runnable & Serializable) () -> {}; }")
	if len(diags) > 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	var inter *Node
	root.Walk(func(n *Node) bool {
		if n.Kind == KindIntersectionType {
			inter = n
		}
		return inter == nil
	})
	if inter == nil {
		t.Fatalf("no IntersectionType in\n%s", root)
	}
	var got []string
	for _, c := range inter.Children {
		got = append(got, c.Kind.String())
	}
	if diff := cmp.Diff([]string{"Type", "Type"}, got); diff != "" {
		t.Errorf("IntersectionType children mismatch (-want +got):\n%s", diff)
	}
	if inter.Span.Start.Column != 23 {
		t.Errorf("IntersectionType starts at column %d, want 23", inter.Span.Start.Column)
	}
}
