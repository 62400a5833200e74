package parser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dhamidi/javafront/diag"
	"github.com/dhamidi/javafront/options"
)

func TestLexer(t *testing.T) {
	tests := []struct {
		input    string
		expected []TokenKind
	}{
		{"", []TokenKind{TokenEOF}},
		{"class", []TokenKind{TokenClass, TokenEOF}},
		{"public class Main {}", []TokenKind{TokenPublic, TokenClass, TokenIdent, TokenLBrace, TokenRBrace, TokenEOF}},
		{"123", []TokenKind{TokenIntLiteral, TokenEOF}},
		{"3.14", []TokenKind{TokenFloatLiteral, TokenEOF}},
		{"\"hello\"", []TokenKind{TokenStringLiteral, TokenEOF}},
		{"'a'", []TokenKind{TokenCharLiteral, TokenEOF}},
		{"// comment\nclass", []TokenKind{TokenClass, TokenEOF}},
		{"/* block */ class", []TokenKind{TokenClass, TokenEOF}},
		{"+ - * / %", []TokenKind{TokenPlus, TokenMinus, TokenStar, TokenSlash, TokenPercent, TokenEOF}},
		{"== != < <= > >=", []TokenKind{TokenEQ, TokenNE, TokenLT, TokenLE, TokenGT, TokenGE, TokenEOF}},
		{"&& || !", []TokenKind{TokenAnd, TokenOr, TokenNot, TokenEOF}},
		{"<< >> >>>", []TokenKind{TokenShl, TokenShr, TokenUShr, TokenEOF}},
		{"++ --", []TokenKind{TokenIncrement, TokenDecrement, TokenEOF}},
		{"->", []TokenKind{TokenArrow, TokenEOF}},
		{"::", []TokenKind{TokenColonColon, TokenEOF}},
		{"...", []TokenKind{TokenEllipsis, TokenEOF}},
		{"@", []TokenKind{TokenAt, TokenEOF}},
		{`"Hello world"`, []TokenKind{TokenStringLiteral, TokenEOF}},
		{"\"\"\"Hello world\"\"\"", []TokenKind{TokenTextBlock, TokenEOF}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lexer := NewLexer([]byte(tt.input), "test.java")
			var got []TokenKind
			for {
				tok := lexer.NextToken()
				if tok.Kind != TokenWhitespace && tok.Kind != TokenComment && tok.Kind != TokenLineComment {
					got = append(got, tok.Kind)
				}
				if tok.Kind == TokenEOF {
					break
				}
			}
			if len(got) != len(tt.expected) {
				t.Errorf("got %d tokens, want %d", len(got), len(tt.expected))
				return
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("token %d: got %v, want %v", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestParseExpression(t *testing.T) {
	tests := []struct {
		input string
		kind  NodeKind
	}{
		{"42", KindLiteral},
		{"x", KindIdentifier},
		{"x + y", KindBinaryExpr},
		{"x * y + z", KindBinaryExpr},
		{"-x", KindUnaryExpr},
		{"!x", KindUnaryExpr},
		{"x++", KindPostfixExpr},
		{"a ? b : c", KindTernaryExpr},
		{"x = 5", KindAssignExpr},
		{"(x)", KindParenExpr},
		{"obj.field", KindFieldAccess},
		{"obj.method()", KindCallExpr},
		{"arr[0]", KindArrayAccess},
		{"new Foo()", KindNewExpr},
		{"new int[10]", KindNewArrayExpr},
		{"x -> x + 1", KindLambdaExpr},
		{"(a, b) -> a + b", KindLambdaExpr},
		{"obj::method", KindMethodRef},
		{"x instanceof Foo", KindInstanceofExpr},
		{"(int) x", KindCastExpr},
		{"String.class", KindClassLiteral},
		{"String[].class", KindClassLiteral},
		{"String[][].class", KindClassLiteral},
		{"int.class", KindClassLiteral},
		{"int[].class", KindClassLiteral},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p := ParseExpression(strings.NewReader(tt.input))
			node := p.Finish()
			if node.Kind != tt.kind {
				t.Errorf("got %v, want %v", node.Kind, tt.kind)
			}
		})
	}
}

func TestParseCompilationUnit(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			"empty class",
			"class Foo {}",
		},
		{
			"class with package",
			"package com.example;\nclass Foo {}",
		},
		{
			"class with import",
			"import java.util.List;\nclass Foo {}",
		},
		{
			"class with module import",
			"import module java.base;\nclass Foo {}",
		},
		{
			"class with field",
			"class Foo { int x; }",
		},
		{
			"class with method",
			"class Foo { void bar() {} }",
		},
		{
			"class with constructor",
			"class Foo { Foo() {} }",
		},
		{
			"public class",
			"public class Foo {}",
		},
		{
			"class extends",
			"class Foo extends Bar {}",
		},
		{
			"class implements",
			"class Foo implements Bar, Baz {}",
		},
		{
			"generic class",
			"class Foo<T> {}",
		},
		{
			"interface",
			"interface Foo {}",
		},
		{
			"enum",
			"enum Color { RED, GREEN, BLUE }",
		},
		{
			"record",
			"record Point(int x, int y) {}",
		},
		{
			"annotation",
			"@interface Override {}",
		},
		{
			"method with params",
			"class Foo { void bar(int x, String y) {} }",
		},
		{
			"method with throws",
			"class Foo { void bar() throws Exception {} }",
		},
		{
			"method with return type",
			"class Foo { int bar() { return 0; } }",
		},
		{
			"field with initializer",
			"class Foo { int x = 5; }",
		},
		{
			"static field",
			"class Foo { static int x; }",
		},
		{
			"annotated class",
			"@Deprecated public class Foo {}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, diags := parseUnit(tt.input, WithFile("test.java"))
			if node.Kind != KindCompilationUnit {
				t.Errorf("got %v, want CompilationUnit", node.Kind)
			}
			if hasError(node) || len(diags) > 0 {
				t.Errorf("parse error in: %s", tt.input)
			}
		})
	}
}

func TestParseStatements(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"if stmt", "class Foo { void m() { if (true) {} } }"},
		{"if-else stmt", "class Foo { void m() { if (true) {} else {} } }"},
		{"for stmt", "class Foo { void m() { for (int i = 0; i < 10; i++) {} } }"},
		{"enhanced for", "class Foo { void m() { for (var x : list) {} } }"},
		{"while stmt", "class Foo { void m() { while (true) {} } }"},
		{"do-while stmt", "class Foo { void m() { do {} while (true); } }"},
		{"switch stmt", "class Foo { void m() { switch (x) { case 1: break; default: break; } } }"},
		{"switch pattern", "class Foo { void m() { switch (x) { case Integer i: break; case String s when s.isEmpty(): break; default: break; } } }"},
		{"switch match-all", "class Foo { void m() { switch (x) { case Integer i: break; case _: break; } } }"},
		{"switch record pattern", "class Foo { void m() { switch (x) { case Point(int x, int y): break; case Box(Point p1, Point p2): break; } } }"},
		{"switch nested record", "class Foo { void m() { switch (x) { case Box(Point(int x, int y), _): break; } } }"},
		{"try-catch", "class Foo { void m() { try {} catch (Exception e) {} } }"},
		{"try-finally", "class Foo { void m() { try {} finally {} } }"},
		{"try-with-resources", "class Foo { void m() { try (var r = new R()) {} } }"},
		{"return stmt", "class Foo { int m() { return 1; } }"},
		{"throw stmt", "class Foo { void m() { throw new Exception(); } }"},
		{"assert stmt", "class Foo { void m() { assert x > 0; } }"},
		{"synchronized stmt", "class Foo { void m() { synchronized (this) {} } }"},
		{"labeled stmt", "class Foo { void m() { loop: for (;;) {} } }"},
		{"local var", "class Foo { void m() { int x = 5; } }"},
		{"local var infer", "class Foo { void m() { var x = 5; } }"},
		{"local class", "class Foo { void m() { class Inner {} } }"},
		{"class literal in if", "class Foo { void m() { if (String.class.equals(x)) {} } }"},
		{"array class literal in if", "class Foo { void m() { if (String[].class.equals(x)) {} } }"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, diags := parseUnit(tt.input, preview)
			if hasError(node) || len(diags) > 0 {
				t.Errorf("parse error in: %s", tt.input)
			}
		})
	}
}

func TestPositionTracking(t *testing.T) {
	input := "class Foo {\n    int x;\n}"
	node, _ := parseUnit(input, WithFile("test.java"))

	if node.Span.Start.Line != 1 {
		t.Errorf("start line: got %d, want 1", node.Span.Start.Line)
	}
	if node.Span.Start.Column != 1 {
		t.Errorf("start column: got %d, want 1", node.Span.Start.Column)
	}
}

func TestCompactCompilationUnit(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			"simple main method",
			"void main() { println(\"Hello\"); }",
		},
		{
			"with import",
			"import java.util.List;\nvoid main() {}",
		},
		{
			"with field before method",
			"int x = 5;\nvoid main() {}",
		},
		{
			"with field after method",
			"void main() {}\nint x = 5;",
		},
		{
			"with nested class after method",
			"void main() {}\nclass Helper {}",
		},
		{
			"multiple methods",
			"void main() { helper(); }\nvoid helper() {}",
		},
		{
			"instance main with string array",
			"void main(String[] args) {}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, diags := parseUnit(tt.input, WithFile("test.java"), preview)
			if node.Kind != KindCompilationUnit {
				t.Errorf("got %v, want CompilationUnit", node.Kind)
			}
			if hasError(node) || len(diags) > 0 {
				t.Errorf("parse error in: %s", tt.input)
				printErrors(t, node, diags)
			}
		})
	}
}

func TestComplexJavaFile(t *testing.T) {
	input := `
package com.example;

import java.util.List;
import java.util.ArrayList;

/**
 * A sample class.
 */
@SuppressWarnings("unchecked")
public class Example<T extends Comparable<T>> implements Runnable {
    private static final int MAX = 100;
    private List<T> items = new ArrayList<>();

    public Example() {
        this.items = new ArrayList<>();
    }

    public void add(T item) {
        if (items.size() < MAX) {
            items.add(item);
        }
    }

    @Override
    public void run() {
        for (T item : items) {
            System.out.println(item);
        }
    }

    public static void main(String[] args) {
        var example = new Example<String>();
        example.add("Hello");
        example.run();
    }
}
`
	node, diags := parseUnit(input, WithFile("Example.java"))

	if node.Kind != KindCompilationUnit {
		t.Errorf("got %v, want CompilationUnit", node.Kind)
	}
	if hasError(node) || len(diags) > 0 {
		t.Error("parse error in complex file")
		printErrors(t, node, diags)
	}
}

func TestModularCompilationUnit(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			"simple module",
			"module com.example {}",
		},
		{
			"open module",
			"open module com.example {}",
		},
		{
			"module with import",
			"import java.util.List;\nmodule com.example {}",
		},
		{
			"module with annotation",
			"@Deprecated\nmodule com.example {}",
		},
		{
			"module with requires",
			"module com.example {\n  requires java.base;\n}",
		},
		{
			"module with requires transitive",
			"module com.example {\n  requires transitive java.logging;\n}",
		},
		{
			"module with requires static",
			"module com.example {\n  requires static java.compiler;\n}",
		},
		{
			"module with exports",
			"module com.example {\n  exports com.example.api;\n}",
		},
		{
			"module with exports to",
			"module com.example {\n  exports com.example.internal to com.example.test;\n}",
		},
		{
			"module with opens",
			"module com.example {\n  opens com.example.internal;\n}",
		},
		{
			"module with opens to",
			"module com.example {\n  opens com.example.internal to com.example.test, com.example.other;\n}",
		},
		{
			"module with uses",
			"module com.example {\n  uses com.example.spi.Service;\n}",
		},
		{
			"module with provides",
			"module com.example {\n  provides com.example.spi.Service with com.example.impl.ServiceImpl;\n}",
		},
		{
			"module with provides multiple impls",
			"module com.example {\n  provides com.example.spi.Service with com.example.impl.Impl1, com.example.impl.Impl2;\n}",
		},
		{
			"complete module",
			`module com.example.app {
  requires java.base;
  requires transitive java.logging;
  requires static java.compiler;
  
  exports com.example.api;
  exports com.example.internal to com.example.test;
  
  opens com.example.model;
  opens com.example.internal to com.example.reflection;
  
  uses com.example.spi.Service;
  
  provides com.example.spi.Service with com.example.impl.ServiceImpl;
}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, diags := parseUnit(tt.input, WithFile("module-info.java"))
			if node.Kind != KindCompilationUnit {
				t.Errorf("got %v, want CompilationUnit", node.Kind)
			}
			if hasError(node) || len(diags) > 0 {
				t.Errorf("parse error in: %s", tt.input)
				printErrors(t, node, diags)
			}
			// Verify we have a ModuleDecl child
			hasModuleDecl := false
			for _, child := range node.Children {
				if child.Kind == KindModuleDecl {
					hasModuleDecl = true
					break
				}
			}
			if !hasModuleDecl {
				t.Error("expected ModuleDecl child in CompilationUnit")
			}
		})
	}
}

func TestParseUnnamedVariables(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"local var with underscore", "class Foo { void m() { var _ = getValue(); } }"},
		{"local var int underscore", "class Foo { void m() { int _ = getValue(); } }"},
		{"multiple unnamed vars", "class Foo { void m() { var _ = a(); var _ = b(); } }"},
		{"enhanced for underscore", "class Foo { void m() { for (var _ : list) {} } }"},
		{"enhanced for int underscore", "class Foo { void m() { for (int _ : list) {} } }"},
		{"try-with-resources underscore", "class Foo { void m() { try (var _ = resource()) {} } }"},
		{"catch underscore", "class Foo { void m() { try {} catch (Exception _) {} } }"},
		{"parameter underscore", "class Foo { void m(String _) {} }"},
		{"lambda underscore", "class Foo { void m() { Consumer<String> c = _ -> {}; } }"},
		{"lambda multiple underscore", "class Foo { void m() { BiConsumer<String, Integer> c = (_, _) -> {}; } }"},
		{"for init underscore", "class Foo { void m() { for (var _ = init();;) {} } }"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, diags := parseUnit(tt.input, preview)
			if hasError(node) || len(diags) > 0 {
				t.Errorf("parse error in: %s", tt.input)
				printErrors(t, node, diags)
			}
		})
	}
}

func TestParseUnnamedVariableNodeKind(t *testing.T) {
	input := "class Foo { void m() { var _ = getValue(); } }"
	node, _ := parseUnit(input, preview)

	found := findNode(node, KindUnnamedVariable)
	if found == nil {
		t.Error("expected to find KindUnnamedVariable node")
	}
}

func TestReceiverParameter(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"method receiver", "class Foo { void bar(Foo this) {} }"},
		{"method receiver with annotation", "class Foo { void bar(@NonNull Foo this) {} }"},
		{"method receiver with other params", "class Foo { void bar(Foo this, int x) {} }"},
		{"inner class constructor receiver", "class Outer { class Inner { Inner(Outer Outer.this) {} } }"},
		{"annotated inner receiver", "class Outer { class Inner { Inner(@NonNull Outer Outer.this) {} } }"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, diags := parseUnit(tt.input)
			if hasError(node) || len(diags) > 0 {
				t.Errorf("parse error in: %s", tt.input)
				printErrors(t, node, diags)
			}
		})
	}
}

func TestReceiverParameterNodeKind(t *testing.T) {
	input := "class Foo { void bar(Foo this) {} }"
	node, _ := parseUnit(input)

	found := findNode(node, KindReceiverParameter)
	if found == nil {
		t.Error("expected to find KindReceiverParameter node")
	}
}

func TestExplicitConstructorInvocation(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"this call", "class Foo { Foo() { this(1); } Foo(int x) {} }"},
		{"super call", "class Foo extends Bar { Foo() { super(); } }"},
		{"super call with args", "class Foo extends Bar { Foo(int x) { super(x); } }"},
		{"this call with type args", "class Foo { Foo() { <String>this(); } Foo(String s) {} }"},
		{"super call with statements after", "class Foo extends Bar { Foo() { super(); int x = 1; } }"},
		{"qualified super call", "class Inner extends Outer.Nested { Inner(Outer outer) { outer.super(); } }"},
		{"qualified super call with args", "class Inner extends Outer.Nested { Inner(Outer outer, int x) { outer.super(x); } }"},
		{"qualified super call with type args", "class Inner extends Outer.Nested { Inner(Outer outer) { outer.<String>super(); } }"},
		{"qualified super with qualified name", "class Inner extends Outer.Nested { Inner(Outer.Factory f) { f.outer.super(); } }"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, diags := parseUnit(tt.input)
			if hasError(node) || len(diags) > 0 {
				t.Errorf("parse error in: %s", tt.input)
				printErrors(t, node, diags)
			}
		})
	}
}

func TestExplicitConstructorInvocationNodeKind(t *testing.T) {
	input := "class Foo extends Bar { Foo() { super(); } }"
	node, _ := parseUnit(input)

	found := findNode(node, KindExplicitConstructorInvocation)
	if found == nil {
		t.Error("expected to find KindExplicitConstructorInvocation node")
	}
}

func TestContextualKeywordsAsVariableNames(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"requires as variable name", "class Foo { void bar() { String requires = getValue(); } }"},
		{"exports as variable name", "class Foo { void bar() { String exports = getValue(); } }"},
		{"opens as variable name", "class Foo { void bar() { String opens = getValue(); } }"},
		{"uses as variable name", "class Foo { void bar() { String uses = getValue(); } }"},
		{"provides as variable name", "class Foo { void bar() { String provides = getValue(); } }"},
		{"to as variable name", "class Foo { void bar() { String to = getValue(); } }"},
		{"with as variable name", "class Foo { void bar() { String with = getValue(); } }"},
		{"transitive as variable name", "class Foo { void bar() { String transitive = getValue(); } }"},
		{"module as variable name", "class Foo { void bar() { String module = getValue(); } }"},
		{"var as field name", "class Foo { void bar() { int x = insn.var; } }"},
		{"switch expr with throw", "class Foo { int bar() { return switch(x) { case A -> throw new E(); case B -> 1; }; } }"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, diags := parseUnit(tt.input)
			if hasError(node) || len(diags) > 0 {
				t.Errorf("parse error in: %s", tt.input)
				printErrors(t, node, diags)
			}
		})
	}
}

func TestTypeAnnotationsOnArrayDimensions(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"field with annotated array", "class Foo { int @NonNull [] arr; }"},
		{"field with multiple annotated dims", "class Foo { int @NonNull [] @Nullable [] arr; }"},
		{"method return annotated array", "class Foo { int @NonNull [] bar() { return null; } }"},
		{"parameter with annotated array", "class Foo { void bar(int @NonNull [] arr) {} }"},
		{"local var with annotated array", "class Foo { void bar() { int @NonNull [] arr = null; } }"},
		{"new array with annotated type", "class Foo { void bar() { var arr = new int @NonNull [10]; } }"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, diags := parseUnit(tt.input)
			if hasError(node) || len(diags) > 0 {
				t.Errorf("parse error in: %s", tt.input)
				printErrors(t, node, diags)
			}
		})
	}
}

func findNode(node *Node, kind NodeKind) *Node {
	if node == nil {
		return nil
	}
	if node.Kind == kind {
		return node
	}
	for _, child := range node.Children {
		if found := findNode(child, kind); found != nil {
			return found
		}
	}
	return nil
}

func TestRecordWithCompactConstructor(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			"record with compact constructor",
			`record Point(int x, int y) {
				public Point {
					if (x < 0 || y < 0) {
						throw new IllegalArgumentException();
					}
				}
			}`,
		},
		{
			"record with canonical constructor",
			`record Point(int x, int y) {
				public Point(int x, int y) {
					this.x = x;
					this.y = y;
				}
			}`,
		},
		{
			"record with static field and method",
			`record Point(int x, int y) {
				private static final Point ORIGIN = new Point(0, 0);
				public static Point origin() { return ORIGIN; }
			}`,
		},
		{
			"nested record inside class",
			`class Proxy {
				private record ProxyBuilder(Module module, String packageName, int accessFlags) {
					ProxyBuilder(Module module, Class<?>[] interfaces) {
						this(module, "", 0);
					}
				}
			}`,
		},
		{
			"record with inner class",
			`record Container(String value) {
				class Iterator {
					private int pos;
					Iterator() { pos = 0; }
				}
			}`,
		},
		{
			"record with inner interface",
			`record Container(String value) {
				interface Processor {
					void process(String s);
				}
			}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, diags := parseUnit(tt.input)
			if hasError(node) || len(diags) > 0 {
				t.Errorf("parse error in: %s", tt.input)
				printErrors(t, node, diags)
			}
		})
	}
}

func hasError(node *Node) bool {
	return node != nil && node.HasErrors()
}

func TestDiamondOperator(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantEmpty bool // true if type arguments should be empty (diamond)
	}{
		{
			"diamond operator",
			"class Foo { List<String> items = new ArrayList<>(); }",
			true,
		},
		{
			"explicit type args",
			"class Foo { List<String> items = new ArrayList<String>(); }",
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, diags := parseUnit(tt.input)
			if hasError(node) || len(diags) > 0 {
				t.Errorf("parse error in: %s", tt.input)
				printErrors(t, node, diags)
				return
			}
			newExpr := findNode(node, KindNewExpr)
			if newExpr == nil {
				t.Fatal("expected to find NewExpr node")
			}
			typeArgs := newExpr.FirstChildOfKind(KindType).FirstChildOfKind(KindTypeArguments)
			if typeArgs == nil {
				t.Fatal("expected to find TypeArguments node in NewExpr")
			}
			isEmpty := len(typeArgs.Children) == 0
			if isEmpty != tt.wantEmpty {
				t.Errorf("type arguments empty = %v, want %v", isEmpty, tt.wantEmpty)
			}
		})
	}
}

func TestExtendsImplementsClauses(t *testing.T) {
	tests := []struct {
		name           string
		input          string
		wantExtends    bool
		wantImplements bool
	}{
		{
			"class with extends only",
			"class Foo extends Bar {}",
			true, false,
		},
		{
			"class with implements only",
			"class Foo implements Runnable {}",
			false, true,
		},
		{
			"class with extends and implements",
			"class Foo extends Bar implements Runnable, Comparable {}",
			true, true,
		},
		{
			"interface with extends",
			"interface Foo extends Bar, Baz {}",
			true, false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, diags := parseUnit(tt.input)
			if hasError(node) || len(diags) > 0 {
				t.Errorf("parse error in: %s", tt.input)
				printErrors(t, node, diags)
				return
			}
			classDecl := findNode(node, KindClassDecl)
			if classDecl == nil {
				classDecl = findNode(node, KindInterfaceDecl)
			}
			if classDecl == nil {
				t.Fatal("expected to find class or interface declaration")
			}
			extendsClause := classDecl.FirstChildOfKind(KindExtendsClause)
			implClause := classDecl.FirstChildOfKind(KindImplementsClause)
			if (extendsClause != nil) != tt.wantExtends {
				t.Errorf("extends clause present = %v, want %v", extendsClause != nil, tt.wantExtends)
			}
			if (implClause != nil) != tt.wantImplements {
				t.Errorf("implements clause present = %v, want %v", implClause != nil, tt.wantImplements)
			}
		})
	}
}

func printErrors(t *testing.T, node *Node, diags []diag.Diagnostic) {
	t.Helper()
	node.Walk(func(n *Node) bool {
		if n.Kind == KindError && n.Error != nil {
			t.Logf("error node: %s at line %d", n.Error.Message, n.Span.Start.Line)
		}
		return true
	})
	for _, d := range diags {
		t.Logf("%s %d..%d: %s", d.Problem, d.Start, d.End, d.Message)
	}
}

// parseUnit parses src and collects every diagnostic.
func parseUnit(src string, opts ...Option) (*Node, []diag.Diagnostic) {
	var got []diag.Diagnostic
	opts = append(opts, WithReporter(collect(&got)))
	node := ParseCompilationUnit(strings.NewReader(src), opts...).Finish()
	return node, got
}

var preview = WithOptions(options.Options{Compliance: options.Latest, EnablePreview: true})

func atLevel(l options.Level) Option {
	return WithOptions(options.At(l))
}

func TestNodeShapes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  NodeKind
		want  []NodeKind
	}{
		{"new with diamond", "new ArrayList<>()", KindNewExpr, []NodeKind{KindType, KindArguments}},
		{"qualified new", "outer.new Inner()", KindNewExpr, []NodeKind{KindIdentifier, KindType, KindArguments}},
		{"anonymous class", "new Runnable() { public void run() {} }", KindNewExpr, []NodeKind{KindType, KindArguments, KindClassBody}},
		{"new array with dims", "new int[3][]", KindNewArrayExpr, []NodeKind{KindType, KindLiteral, KindDims}},
		{"new array with initializer", "new String[] { \"a\" }", KindNewArrayExpr, []NodeKind{KindType, KindDims, KindArrayInit}},
		{"call", "foo(1, 2)", KindCallExpr, []NodeKind{KindIdentifier, KindArguments}},
		{"intersection cast", "(Runnable & Serializable) () -> {}", KindCastExpr, []NodeKind{KindIntersectionType, KindLambdaExpr}},
		{"type pattern", "o instanceof String s", KindInstanceofExpr, []NodeKind{KindIdentifier, KindType, KindIdentifier}},
		{"record pattern", "o instanceof Point(int x, var y)", KindInstanceofExpr, []NodeKind{KindIdentifier, KindRecordPattern}},
		{"typed lambda", "(int a, var b) -> a", KindLambdaExpr, []NodeKind{KindParameters, KindIdentifier}},
		{"generic method ref", "List<String>::size", KindMethodRef, []NodeKind{KindType, KindIdentifier}},
		{"array constructor ref", "int[]::new", KindMethodRef, []NodeKind{KindArrayType, KindIdentifier}},
		{"explicit type arguments", "Collections.<String>emptyList()", KindCallExpr, []NodeKind{KindFieldAccess, KindArguments}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var diags []diag.Diagnostic
			node := ParseExpression(strings.NewReader(tt.input), WithReporter(collect(&diags))).Finish()
			if len(diags) > 0 || node.HasErrors() {
				printErrors(t, node, diags)
				t.Fatalf("parse error in: %s", tt.input)
			}
			if node.Kind != tt.kind {
				t.Fatalf("got %v, want %v\n%s", node.Kind, tt.kind, node)
			}
			var got []NodeKind
			for _, child := range node.Children {
				got = append(got, child.Kind)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("children = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("child %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestCatchUnionType(t *testing.T) {
	node, diags := parseUnit("class A { void m() { try { f(); } catch (IOException | RuntimeException e) {} } }")
	if len(diags) > 0 {
		printErrors(t, node, diags)
		t.Fatal("unexpected diagnostics")
	}
	catch := findNode(node, KindCatchClause)
	union := catch.FirstChildOfKind(KindUnionType)
	if union == nil || len(union.Children) != 2 {
		t.Fatalf("catch clause = %s", catch)
	}
}

func TestShiftTokensSurviveSpeculation(t *testing.T) {
	// The cast check speculatively parses "(List<List<String>>)" and must
	// not leave ">>" split for the real parse of "a >> b" later on.
	input := `class A { void m() {
		Object o = (Map<String, List<String>>) x;
		int y = a >> b;
		List<List<String>> z = null;
	} }`
	node, diags := parseUnit(input)
	if hasError(node) || len(diags) > 0 {
		printErrors(t, node, diags)
		t.Fatal("parse error")
	}
	var shifts int
	node.Walk(func(n *Node) bool {
		if n.Kind == KindBinaryExpr && n.Child(1).TokenLiteral() == ">>" {
			shifts++
		}
		return true
	})
	if shifts != 1 {
		t.Errorf("found %d '>>' expressions, want 1", shifts)
	}
}

func TestSyntaxErrorMessages(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		problem diag.Problem
		message string
	}{
		{
			"missing semicolon after local",
			"class A { void m() { int x = 1 } }",
			diag.ParsingErrorInsertToComplete,
			`Syntax error, insert ";" to complete LocalVariableDeclarationStatement`,
		},
		{
			"missing semicolon after call",
			"class A { void m() { foo() } }",
			diag.ParsingErrorInsertToComplete,
			`Syntax error, insert ";" to complete BlockStatements`,
		},
		{
			"missing closing brace",
			"class A { void m() {} ",
			diag.ParsingErrorInsertToComplete,
			`Syntax error, insert "}" to complete ClassBody`,
		},
		{
			"stray token",
			"class A { void m() { ) } }",
			diag.ParsingErrorDeleteToken,
			`Syntax error on token ")", delete this token`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, diags := parseUnit(tt.input, WithFile("A.java"))
			if len(diags) == 0 {
				t.Fatal("no diagnostics")
			}
			if diags[0].Problem != tt.problem {
				t.Errorf("Problem = %v, want %v", diags[0].Problem, tt.problem)
			}
			if diags[0].Message != tt.message {
				t.Errorf("Message = %q, want %q", diags[0].Message, tt.message)
			}
			if diags[0].File != "A.java" {
				t.Errorf("File = %q, want A.java", diags[0].File)
			}
		})
	}
}

func TestErrorsDoNotCascade(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "stray token",
			input: "class A { void m() { ) } }",
			want:  []string{`1: Syntax error on token ")", delete this token`},
		},
		{
			name:  "independent errors on later lines",
			input: "class A {\n\tvoid m() {\n\t\tint x = ;\n\t\tint y = 1\n\t\tfoo(;\n\t}\n}\n",
			want: []string{
				`3: Syntax error on token "=", Expression expected after this token`,
				`4: Syntax error, insert ";" to complete LocalVariableDeclarationStatement`,
				`5: Syntax error on token "(", Expression expected after this token`,
			},
		},
		{
			name:  "recovery stops at the next statement",
			input: "class A {\n\tvoid m() {\n\t\tint x = 1 + ) 2\n\t\tbar(;\n\t}\n}\n",
			want: []string{
				`3: Syntax error on token ")", delete this token`,
				`4: Syntax error on token "(", Expression expected after this token`,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, diags := parseUnit(tt.input)
			var got []string
			for _, d := range diags {
				line := strings.Count(tt.input[:d.Start], "\n") + 1
				got = append(got, fmt.Sprintf("%d: %s", line, d.Message))
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSourceLevelGating(t *testing.T) {
	tests := []struct {
		name  string
		input string
		level options.Level
		want  diag.Problem
	}{
		{"generic type", "class A { java.util.List<String> l; }", options.JDK1_4, diag.GenericsBelow15},
		{"type parameters", "class A<T> {}", options.JDK1_4, diag.GenericsBelow15},
		{"diamond", "class A { Object o = new java.util.ArrayList<>(); }", options.JDK1_6, diag.DiamondBelow17},
		{"lambda", "class A { Runnable r = () -> {}; }", options.JDK1_7, diag.LambdaBelow18},
		{"method reference", "class A { Runnable r = A::m; }", options.JDK1_7, diag.MethodReferenceBelow18},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, diags := parseUnit(tt.input, atLevel(tt.level))
			if len(diags) != 1 || diags[0].Problem != tt.want {
				t.Fatalf("diagnostics = %v, want one %v", diags, tt.want)
			}
			_, diags = parseUnit(tt.input, atLevel(options.Latest))
			if len(diags) != 0 {
				t.Errorf("latest: unexpected diagnostics %v", diags)
			}
		})
	}
}

func TestContextualVarAndUnderscore(t *testing.T) {
	tests := []struct {
		name  string
		input string
		opts  []Option
		want  []diag.Problem
	}{
		{"var class at 10", "class var {}", []Option{atLevel(options.JDK10)}, []diag.Problem{diag.VarIsReserved}},
		{"var class at 9", "class var {}", []Option{atLevel(options.JDK9)}, []diag.Problem{diag.VarIsReservedInFuture}},
		{"var type parameter at 10", "class A<var> {}", []Option{atLevel(options.JDK10)}, []diag.Problem{diag.VarIsNotAllowedHere}},
		{"var field at 10", "class A { var f; }", []Option{atLevel(options.JDK10)}, []diag.Problem{diag.VarIsNotAllowedHere}},
		{"var field at 9", "class A { var f; }", []Option{atLevel(options.JDK9)}, nil},
		{"var parameter at 10", "class A { void m(var x) {} }", []Option{atLevel(options.JDK10)}, []diag.Problem{diag.VarIsNotAllowedHere}},
		{"var local at 10", "class A { void m() { var x = 1; } }", []Option{atLevel(options.JDK10)}, nil},
		{"var for-each at 10", "class A { void m(int[] a) { for (var x : a) {} } }", []Option{atLevel(options.JDK10)}, nil},
		{"var lambda parameter", "class A { Object f = (var x) -> x; }", []Option{atLevel(options.JDK11)}, nil},
		{"var as variable name", "class A { void m() { int var = 1; } }", []Option{atLevel(options.JDK10)}, nil},
		{"underscore at 1.7", "class A { void m() { int _ = 1; } }", []Option{atLevel(options.JDK1_7)}, nil},
		{"underscore at 1.8", "class A { void m() { int _ = 1; } }", []Option{atLevel(options.JDK1_8)}, []diag.Problem{diag.UnderscoreIsReservedInFuture}},
		{"underscore at 9", "class A { void m() { int _ = 1; } }", []Option{atLevel(options.JDK9)}, []diag.Problem{diag.UnderscoreIsKeyword}},
		{"unnamed local with preview", "class A { void m() { int _ = 1; } }", []Option{preview}, nil},
		{"unnamed lambda with preview", "class A { Object f = _ -> 1; }", []Option{preview}, nil},
		{"underscore use with preview", "class A { void m() { f(_); } }", []Option{preview}, []diag.Problem{diag.UnderscoreIsKeyword}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, diags := parseUnit(tt.input, tt.opts...)
			var got []diag.Problem
			for _, d := range diags {
				got = append(got, d.Problem)
			}
			if len(got) != len(tt.want) {
				printErrors(t, node, diags)
				t.Fatalf("problems = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("problem %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestVarStaysInTree(t *testing.T) {
	node, _ := parseUnit("class A { void m() { var x = 1; } }")
	local := findNode(node, KindLocalVarDecl)
	typ := local.FirstChildOfKind(KindType)
	if typ == nil || typ.FirstChildOfKind(KindQualifiedName).Child(0).TokenLiteral() != "var" {
		t.Fatalf("local declaration = %s", local)
	}
}

func TestIsComplete(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"1 + 2", true},
		{"1 + ", false},
		{"foo(", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p := ParseExpression(strings.NewReader(tt.input))
			if got := p.IsComplete(); got != tt.want {
				t.Errorf("IsComplete() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReservedWordsStayReserved(t *testing.T) {
	reserved := map[diag.Problem]bool{
		diag.VarIsReservedInFuture:        true,
		diag.VarIsNotAllowedHere:          true,
		diag.VarIsReserved:                true,
		diag.UnderscoreIsReservedInFuture: true,
		diag.UnderscoreIsKeyword:          true,
	}
	inputs := []string{
		"class var {}",
		"class A<var> {}",
		"class A { var f; }",
		"class A { void m(var x) {} }",
		"class A { void m() { int _ = 1; } }",
		"class A { void m() { f(_); } }",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			var since options.Level
			for l := options.JDK1_3; l <= options.Latest; l++ {
				_, diags := parseUnit(input, atLevel(l))
				illegal := false
				for _, d := range diags {
					if reserved[d.Problem] && d.Problem.DefaultSeverity() == diag.Error {
						illegal = true
					}
				}
				switch {
				case illegal && since == 0:
					since = l
				case !illegal && since != 0:
					t.Fatalf("illegal at %s but accepted at %s", since, l)
				}
			}
			if since == 0 {
				t.Errorf("never rejected")
			}
		})
	}
}
