package format

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dhamidi/javafront/java/parser"
	"github.com/dhamidi/javafront/java/token"
	"github.com/dhamidi/javafront/java/types"
	"github.com/dhamidi/javafront/options"
)

func TestASTJSONEncoder(t *testing.T) {
	p := parser.ParseCompilationUnit(strings.NewReader("class A { int x; }"), parser.WithFile("A.java"))
	node := p.Finish()
	if node == nil {
		t.Fatal("parse failed")
	}
	var buf bytes.Buffer
	if err := NewASTJSONEncoder(&buf).Encode(node); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var got struct {
		Kind string `json:"kind"`
		Span *struct {
			Start struct {
				Line int `json:"line"`
			} `json:"start"`
		} `json:"span"`
		Children []json.RawMessage `json:"children"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if got.Kind != node.Kind.String() {
		t.Errorf("root kind = %q, want %q", got.Kind, node.Kind.String())
	}
	if got.Span == nil || got.Span.Start.Line != 1 {
		t.Errorf("root span = %+v, want a span starting on line 1", got.Span)
	}
	if len(got.Children) == 0 {
		t.Error("root has no children")
	}
}

func TestTokenLineEncoder(t *testing.T) {
	sc, err := token.NewScanner(token.Lex([]byte("int x = 1;"), "X.java", options.Default()))
	if err != nil {
		t.Fatal(err)
	}
	toks, err := sc.All()
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := NewTokenLineEncoder(&buf).Encode(toks); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != len(toks) {
		t.Fatalf("got %d lines for %d tokens:\n%s", len(lines), len(toks), buf.String())
	}
	if want := "1:1\t" + toks[0].Kind.String() + "\t\"int\""; lines[0] != want {
		t.Errorf("first line = %q, want %q", lines[0], want)
	}
}

func TestClassLineEncoder(t *testing.T) {
	box := &types.ClassSym{
		Name:       "p.Box",
		SimpleName: "Box",
		Package:    "p",
		Kind:       types.ClassKindClass,
		Visibility: types.VisibilityPublic,
		IsFinal:    true,
	}
	box.Fields = []*types.FieldSym{{Name: "size", Owner: box, Type: types.IntType, Visibility: types.VisibilityPrivate, IsFinal: true}}
	box.Methods = []*types.MethodSym{{
		Name:       "get",
		Owner:      box,
		Params:     []types.Type{types.IntType},
		Result:     types.BooleanType,
		Visibility: types.VisibilityPublic,
	}}
	var buf bytes.Buffer
	if err := NewClassLineEncoder(&buf).Encode(box); err != nil {
		t.Fatal(err)
	}
	want := "class\tp.Box\tpublic,final\n" +
		"field\tsize\tint\tprivate\tfinal\n" +
		"method\tget\tboolean\tint\tpublic\t-\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}
