package check_test

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/javafront/compiler"
	"github.com/dhamidi/javafront/diag"
	"github.com/dhamidi/javafront/internal/testkit"
	"github.com/dhamidi/javafront/options"
)

// problems lists the diagnostics of res as "line: message".
func problems(res *compiler.Result) []string {
	var out []string
	for _, d := range res.Diagnostics {
		out = append(out, fmt.Sprintf("%d: %s", d.Line, d.Message))
	}
	return out
}

func requireProblems(t *testing.T, res *compiler.Result, want ...string) {
	t.Helper()
	if diff := cmp.Diff(want, problems(res)); diff != "" {
		t.Fatalf("problems mismatch (-want +got):\n%s\nlog:\n%s", diff, res.Log())
	}
}

func nlsErrors() options.Options {
	return options.Default().WithSeverity(diag.NonExternalizedStringLiteral.Category(), diag.Error)
}

func TestNonExternalizedString(t *testing.T) {
	testkit.RunNegativeTest(t, nlsErrors(), `
----------
1. ERROR in X.java (at line 2)
	String s5 = "test3";
	            ^^^^^^^
Non-externalized string literal; it should be followed by //$NON-NLS-<n>$
----------
`,
		"X.java", "public class X {\n\tString s5 = \"test3\";\n}\n",
	)
}

func TestNonExternalizedStringTags(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "tagged",
			src:  "public class X {\n\tString s = \"a\"; //$NON-NLS-1$\n}\n",
		},
		{
			name: "second literal untagged",
			src:  "public class X {\n\tString s = \"a\" + \"b\"; //$NON-NLS-1$\n}\n",
			want: []string{"2: Non-externalized string literal; it should be followed by //$NON-NLS-<n>$"},
		},
		{
			name: "unnecessary tag",
			src:  "public class X {\n\tint i = 0; //$NON-NLS-1$\n}\n",
			want: []string{"2: Unnecessary $NON-NLS$ tag"},
		},
		{
			name: "suppressed method",
			src:  "public class X {\n\t@SuppressWarnings(\"nls\")\n\tString m() { return \"a\"; }\n}\n",
		},
		{
			name: "annotation values are not literals to externalize",
			src:  "public class X {\n\t@Deprecated(since = \"1\") //$NON-NLS-1$\n\tvoid m() {}\n}\n",
			want: []string{"2: Unnecessary $NON-NLS$ tag"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := testkit.Compile(t, nlsErrors(), "X.java", tt.src)
			requireProblems(t, res, tt.want...)
		})
	}
}

func TestNonExternalizedStringIgnoredByDefault(t *testing.T) {
	res := testkit.RunConformTest(t, options.Default(),
		"X.java", "public class X {\n\tString s5 = \"test3\";\n}\n",
	)
	require.Empty(t, res.Diagnostics)
}

func TestDiamondAnonymousNonDenotable(t *testing.T) {
	res := testkit.Compile(t, options.Default(), "X.java", `interface I {}
interface J {}
class Y<T extends I & J> {}
public class X {
	void m() {
		Y<?> y = new Y<>() {};
	}
}
`)
	requireProblems(t, res,
		"6: Type Y<I & J> inferred for Y<>, is not valid for an anonymous class with '<>'",
	)
	require.True(t, res.Failed)
}

func TestDiamondAnonymousNonDenotableLog(t *testing.T) {
	testkit.RunNegativeTest(t, options.Default(), `
----------
1. ERROR in X.java (at line 6)
	Y<?> y = new Y<>() {};
	             ^
Type Y<I & J> inferred for Y<>, is not valid for an anonymous class with '<>'
----------
`,
		"X.java", `interface I {}
interface J {}
class Y<T extends I & J> {}
public class X {
	void m() {
		Y<?> y = new Y<>() {};
	}
}
`)
}

func TestDiamondAnonymousCapturedArgument(t *testing.T) {
	res := testkit.Compile(t, options.Default(), "X.java", `import java.util.List;
class Y<T> {
	Y(T t) {}
}
public class X {
	void m(List<?> l) {
		Object o = new Y<>(l.get(0)) {};
	}
}
`)
	requireProblems(t, res,
		"7: Type Y<capture#1-of ?> inferred for Y<>, is not valid for an anonymous class with '<>'",
	)
}

func TestDiamondAnonymousInaccessible(t *testing.T) {
	testkit.RunNegativeTest(t, options.Default(), `
----------
1. ERROR in q/X.java (at line 6)
	Object o = new Box<>(Outer.make()) {};
	               ^^^
The type Outer.P is not visible
----------
`,
		"p/Outer.java", `package p;
public class Outer {
	static class P {}
	public static P make() { return new P(); }
}
`,
		"q/X.java", `package q;
import p.Outer;
class Box<T> {
	Box(T t) {}
	void m() {
		Object o = new Box<>(Outer.make()) {};
	}
}
`)
}

func TestDiamondAnonymousOverrideRequired(t *testing.T) {
	decls := "class Y<T> {\n\tvoid bar() {}\n}\n"
	tests := []struct {
		name string
		body string
		want []string
	}{
		{
			name: "method overriding nothing",
			body: "public void foo() {}",
			want: []string{"6: The method foo() of type new Y<Integer>(){} must override or implement a supertype method"},
		},
		{
			name: "overriding method",
			body: "void bar() {}",
		},
		{
			name: "private method",
			body: "private void foo() {}",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := decls + "public class X {\n\tvoid m() {\n\t\tY<Integer> y = new Y<>() { " + tt.body + " };\n\t}\n}\n"
			res := testkit.Compile(t, options.Default(), "X.java", src)
			requireProblems(t, res, tt.want...)
		})
	}
	t.Run("explicit type arguments", func(t *testing.T) {
		src := decls + "public class X {\n\tvoid m() {\n\t\tY<Integer> y = new Y<Integer>() { public void foo() {} };\n\t}\n}\n"
		testkit.RunConformTest(t, options.Default(), "X.java", src)
	})
}

func TestDiamondCannotInfer(t *testing.T) {
	testkit.RunNegativeTest(t, options.Default(), `
----------
1. ERROR in X.java (at line 6)
	Y<?> y = new Y<>("s");
	         ^^^^^^^^^^^^
Cannot infer type arguments for Y<>
----------
`,
		"X.java", `class Y<T extends Number> {
	Y(T t) {}
}
public class X {
	void m() {
		Y<?> y = new Y<>("s");
	}
}
`)
}

func TestDiamondAnonymousDenotable(t *testing.T) {
	testkit.RunConformTest(t, options.Default(), "X.java", `import java.util.Comparator;
public class X {
	Comparator<String> c = new Comparator<>() {
		public int compare(String a, String b) { return a.length() - b.length(); }
	};
}
`)
}

func TestDiamondAnonymousBelow9(t *testing.T) {
	res := testkit.Compile(t, options.At(options.JDK1_8), "X.java", `import java.util.Comparator;
public class X {
	Comparator<String> c = new Comparator<>() {
		public int compare(String a, String b) { return 0; }
	};
}
`)
	requireProblems(t, res, "3: '<>' cannot be used with anonymous classes")
}

func TestDuplicateInterfaceInstantiation(t *testing.T) {
	decls := `interface A<T> {}
interface B<T> extends A<T> {}
interface C<T> extends A<T> {}
`
	t.Run("different arguments", func(t *testing.T) {
		res := testkit.Compile(t, options.Default(), "X.java", decls+
			"public class X<T extends B<String> & C<Integer>> {}\n")
		requireProblems(t, res,
			"4: The interface A cannot be implemented more than once with different arguments: A<String> and A<Integer>",
		)
	})
	t.Run("identical arguments", func(t *testing.T) {
		res := testkit.RunConformTest(t, options.Default(), "X.java", decls+
			"public class X<T extends B<String> & C<String>> {}\n")
		require.Empty(t, res.Diagnostics)
	})
	t.Run("class header", func(t *testing.T) {
		res := testkit.Compile(t, options.Default(), "X.java", decls+
			"public abstract class X implements B<String>, C<Integer> {}\n")
		requireProblems(t, res,
			"4: The interface A cannot be implemented more than once with different arguments: A<String> and A<Integer>",
		)
	})
}

func TestConform(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"generic method", `import java.util.*;
public class X {
	static <T extends Comparable<T>> T max(List<T> xs) {
		T best = xs.get(0);
		for (T x : xs) {
			if (x.compareTo(best) > 0) best = x;
		}
		return best;
	}
	String m() { return max(Arrays.asList("a", "b")); }
}
`},
		{"lambdas and streams", `import java.util.*;
import java.util.function.*;
public class X {
	Function<String, Integer> len = s -> s.length();
	Supplier<List<String>> make = ArrayList::new;
	int sum(List<Integer> xs) {
		int total = 0;
		for (int x : xs) total += x;
		return total;
	}
	Runnable r = () -> {};
}
`},
		{"records and enums", `public class X {
	record Point(int x, int y) {
		int sum() { return x + y; }
	}
	enum Color { RED, GREEN }
	int m(Point p, Color c) {
		return p.x() + c.ordinal();
	}
}
`},
		{"var and diamond", `import java.util.*;
public class X {
	void m() {
		var names = new ArrayList<String>();
		names.add("x");
		Map<String, List<Integer>> m = new HashMap<>();
		for (var e : m.entrySet()) {
			String k = e.getKey();
		}
	}
}
`},
		{"exceptions", `import java.io.*;
public class X {
	void m() throws IOException {
		throw new FileNotFoundException();
	}
	void n() {
		try {
			m();
		} catch (IOException e) {
			throw new UncheckedIOException(e);
		}
	}
}
`},
		{"override", `public class X {
	@Override
	public String toString() { return ""; }
	@Override
	public boolean equals(Object o) { return o == this; }
}
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testkit.RunConformTest(t, options.Default(), "X.java", tt.src)
		})
	}
}

func TestNestedGenericInvocation(t *testing.T) {
	src := `import java.util.*;
import java.util.stream.*;
public class X {
	List<String> copy(List<String> l) {
		return l.stream().collect(Collectors.toList());
	}
	List<String> names(List<Integer> l) {
		return l.stream().map(i -> i.toString()).collect(Collectors.toList());
	}
	Set<String> unique(List<String> l) {
		Set<String> s = l.stream().collect(Collectors.toSet());
		return s;
	}
	List<String> wrap(String s) {
		return new ArrayList<>(Collections.singletonList(s));
	}
}
`
	for _, level := range []options.Level{options.JDK1_8, options.Latest} {
		t.Run(level.String(), func(t *testing.T) {
			res := testkit.RunConformTest(t, options.At(level), "X.java", src)
			require.Empty(t, res.Diagnostics)
		})
	}
}

func TestProblems(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "undefined type",
			src:  "public class X {\n\tMissing m;\n}\n",
			want: []string{"2: Missing cannot be resolved to a type"},
		},
		{
			name: "import not found",
			src:  "import java.util.Nope;\npublic class X {}\n",
			want: []string{"1: The import java.util.Nope cannot be resolved"},
		},
		{
			name: "unused import",
			src:  "import java.util.List;\npublic class X {}\n",
			want: []string{"1: The import java.util.List is never used"},
		},
		{
			name: "type mismatch",
			src:  "public class X {\n\tint i = \"s\";\n}\n",
			want: []string{"2: Type mismatch: cannot convert from String to int"},
		},
		{
			name: "undefined method",
			src:  "public class X {\n\tvoid m() {\n\t\tfoo();\n\t}\n}\n",
			want: []string{"3: The method foo() is undefined for the type X"},
		},
		{
			name: "undefined variable",
			src:  "public class X {\n\tint m() {\n\t\treturn y;\n\t}\n}\n",
			want: []string{"3: y cannot be resolved to a variable"},
		},
		{
			name: "missing return",
			src:  "public class X {\n\tint m() {\n\t}\n}\n",
			want: []string{"2: This method must return a result of type int"},
		},
		{
			name: "void returns value",
			src:  "public class X {\n\tvoid m() {\n\t\treturn 1;\n\t}\n}\n",
			want: []string{"3: Void methods cannot return a value"},
		},
		{
			name: "override required",
			src:  "public class X {\n\t@Override\n\tvoid nothing() {}\n}\n",
			want: []string{"3: The method nothing() of type X must override or implement a supertype method"},
		},
		{
			name: "missing abstract implementation",
			src:  "public class X implements Runnable {}\n",
			want: []string{"1: The type X must implement the inherited abstract method Runnable.run()"},
		},
		{
			name: "instantiate abstract",
			src:  "abstract class A {}\npublic class X {\n\tObject o = new A();\n}\n",
			want: []string{"3: Cannot instantiate the type A"},
		},
		{
			name: "unhandled exception",
			src:  "public class X {\n\tvoid m() {\n\t\tthrow new Exception();\n\t}\n}\n",
			want: []string{"3: Unhandled exception type Exception"},
		},
		{
			name: "missing body",
			src:  "public class X {\n\tvoid m();\n}\n",
			want: []string{"2: This method requires a body instead of a semicolon"},
		},
		{
			name: "duplicate local",
			src:  "public class X {\n\tvoid m() {\n\t\tint a = 1;\n\t\tint a = 2;\n\t}\n}\n",
			want: []string{"4: Duplicate local variable a"},
		},
		{
			name: "bound mismatch",
			src:  "class Box<T extends Number> {}\npublic class X {\n\tBox<String> b;\n}\n",
			want: []string{"3: Bound mismatch: The type String is not a valid substitute for the bounded parameter <T extends Number> of the type Box<T>"},
		},
		{
			name: "non generic",
			src:  "public class X {\n\tString<Integer> s;\n}\n",
			want: []string{"2: The type String is not generic; it cannot be parameterized with arguments <Integer>"},
		},
		{
			name: "lambda needs functional interface",
			src:  "public class X {\n\tObject o = () -> {};\n}\n",
			want: []string{"2: The target type of this expression must be a functional interface"},
		},
		{
			name: "var without initializer",
			src:  "public class X {\n\tvoid m() {\n\t\tvar v;\n\t}\n}\n",
			want: []string{"3: Cannot use 'var' on variable without initializer"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := testkit.Compile(t, options.Default(), "X.java", tt.src)
			requireProblems(t, res, tt.want...)
		})
	}
}

func TestRedundantTypeArguments(t *testing.T) {
	opts := options.Default().WithSeverity(diag.RedundantTypeArguments.Category(), diag.Warning)
	res := testkit.Compile(t, opts, "X.java", `import java.util.*;
public class X {
	List<String> xs = new ArrayList<String>();
}
`)
	requireProblems(t, res, "3: Redundant specification of type arguments <String>")
	require.False(t, res.Failed)
}

func TestRedundantTypeArgumentsKeepsAnonymousWithExtraMethods(t *testing.T) {
	opts := options.Default().WithSeverity(diag.RedundantTypeArguments.Category(), diag.Warning)
	res := testkit.RunConformTest(t, opts, "X.java", `import java.util.Comparator;
public class X {
	Comparator<String> c = new Comparator<String>() {
		public int compare(String a, String b) { return helper(); }
		int helper() { return 0; }
	};
}
`)
	require.Empty(t, res.Diagnostics)
}

func TestErrorsAcrossUnits(t *testing.T) {
	res := testkit.Compile(t, options.Default(),
		"p/A.java", "package p;\npublic class A {\n\tpublic static int twice(int n) { return n * 2; }\n}\n",
		"q/B.java", "package q;\nimport p.A;\npublic class B {\n\tString s = A.twice(1);\n}\n",
	)
	requireProblems(t, res, "4: Type mismatch: cannot convert from int to String")
	require.Equal(t, "q/B.java", res.Diagnostics[0].File)
}
