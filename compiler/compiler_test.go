package compiler_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dhamidi/javafront/compiler"
	"github.com/dhamidi/javafront/diag"
	"github.com/dhamidi/javafront/internal/testkit"
	"github.com/dhamidi/javafront/options"
)

func TestCompileInvalidConfiguration(t *testing.T) {
	tests := []struct {
		name  string
		opts  options.Options
		field string
	}{
		{"source above compliance", options.Options{Compliance: options.JDK1_8, Source: options.JDK11}, "source"},
		{"target below source", options.Options{Compliance: options.JDK17, Source: options.JDK17, Target: options.JDK11}, "target"},
		{"preview below latest", options.Options{Compliance: options.JDK17, EnablePreview: true}, "enablePreview"},
		{"unknown category", options.Default().WithSeverity("noSuchThing", diag.Error), "severities"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := compiler.Compile(context.Background(), compiler.Batch{
				Files:   testkit.Files("X.java", "class X {}"),
				Options: tt.opts,
			})
			require.Nil(t, res)
			var cfg *options.ConfigurationError
			require.True(t, errors.As(err, &cfg), "got %v", err)
			require.Equal(t, tt.field, cfg.Field)
		})
	}
}

func TestCompileNoFiles(t *testing.T) {
	_, err := compiler.Compile(context.Background(), compiler.Batch{Options: options.Default()})
	require.ErrorIs(t, err, compiler.ErrNoFiles)
}

func TestCompileCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := compiler.Compile(ctx, compiler.Batch{
		Files:   testkit.Files("X.java", "class X {}"),
		Options: options.Default(),
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestCompileSuccess(t *testing.T) {
	res := testkit.RunConformTest(t, options.Default(),
		"p/A.java", "package p;\npublic class A {\n  public String name() { return \"a\"; }\n}\n",
		"p/B.java", "package p;\npublic class B extends A {\n  int n() { return name().length(); }\n}\n",
	)
	require.Equal(t, "compiled", res.Log())
	require.Len(t, res.Units, 2)
	require.NotNil(t, res.Checker.FindType("p.B"))
}

func TestCompileLog(t *testing.T) {
	testkit.RunNegativeTest(t, options.Default(), `
----------
1. ERROR in X.java (at line 3)
	int i = "s";
	        ^^^
Type mismatch: cannot convert from String to int
----------
2. ERROR in Y.java (at line 2)
	Missing m;
	^^^^^^^
Missing cannot be resolved to a type
----------
`,
		"X.java", "class X {\n  void m() {\n    int i = \"s\";\n  }\n}\n",
		"Y.java", "class Y {\n  Missing m;\n}\n",
	)
}

func TestCompileParallelIsDeterministic(t *testing.T) {
	var pairs []string
	for _, name := range []string{"A", "B", "C", "D", "E", "F"} {
		pairs = append(pairs, name+".java",
			"class "+name+" {\n  void m() { undefined(); }\n  Unknown"+name+" f;\n}\n")
	}
	var logs []string
	for _, jobs := range []int{1, 3, 0} {
		res, err := compiler.Compile(context.Background(), compiler.Batch{
			Files:   testkit.Files(pairs...),
			Options: options.Default(),
			Jobs:    jobs,
		})
		require.NoError(t, err)
		require.True(t, res.Failed)
		logs = append(logs, res.Log())
	}
	require.Equal(t, logs[0], logs[1])
	require.Equal(t, logs[0], logs[2])
}

func TestCompileSeverityOverride(t *testing.T) {
	src := []string{"X.java", "import java.util.List;\nclass X {}\n"}

	res := testkit.Compile(t, options.Default(), src...)
	require.False(t, res.Failed)
	require.Len(t, res.Diagnostics, 1)
	require.Equal(t, diag.Warning, res.Diagnostics[0].Severity)

	res = testkit.Compile(t, options.Default().WithSeverity(diag.UnusedImport.Category(), diag.Error), src...)
	require.True(t, res.Failed)
	require.Equal(t, res.Diagnostics[0].Message, "The import java.util.List is never used")

	res = testkit.Compile(t, options.Default().WithSeverity(diag.UnusedImport.Category(), diag.Ignore), src...)
	require.Equal(t, "compiled", res.Log())
}
