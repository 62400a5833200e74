// Package testkit runs source snippets through the compiler the way the
// front end's conformance suites do: a conform test must compile without
// errors and a negative test must produce an exact problem log.
package testkit

import (
	"context"
	"strings"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/javafront/compiler"
	"github.com/dhamidi/javafront/java/env"
	"github.com/dhamidi/javafront/options"
)

// Files pairs up paths and contents: Files("X.java", "class X {}", ...).
func Files(pairs ...string) []compiler.SourceFile {
	if len(pairs)%2 != 0 {
		panic("testkit.Files: odd number of arguments")
	}
	files := make([]compiler.SourceFile, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		files = append(files, compiler.SourceFile{Path: pairs[i], Content: []byte(pairs[i+1])})
	}
	return files
}

// Compile runs one batch against the bootstrap library.
func Compile(t testing.TB, opts options.Options, pairs ...string) *compiler.Result {
	t.Helper()
	res, err := compiler.Compile(context.Background(), compiler.Batch{
		Files:   Files(pairs...),
		Options: opts,
		Env:     env.Bootstrap(),
	})
	require.NoError(t, err)
	return res
}

// RunConformTest requires the sources to compile without errors. Warnings
// are allowed.
func RunConformTest(t testing.TB, opts options.Options, pairs ...string) *compiler.Result {
	t.Helper()
	res := Compile(t, opts, pairs...)
	if res.Failed {
		t.Fatalf("expected the sources to compile, got:\n%s", res.Log())
	}
	return res
}

// RunNegativeTest requires the problem log of the sources to equal want.
// Leading and trailing blank space of both logs is ignored.
func RunNegativeTest(t testing.TB, opts options.Options, want string, pairs ...string) *compiler.Result {
	t.Helper()
	res := Compile(t, opts, pairs...)
	RequireLog(t, want, res.Log())
	return res
}

// RequireLog fails with a unified diff when got differs from want.
func RequireLog(t testing.TB, want, got string) {
	t.Helper()
	want = strings.TrimSpace(want) + "\n"
	got = strings.TrimSpace(got) + "\n"
	if want == got {
		return
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  3,
	})
	require.NoError(t, err)
	t.Fatalf("problem log mismatch:\n%s\nfull log:\n%s", diff, got)
}
