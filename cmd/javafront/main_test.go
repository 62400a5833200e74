package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return dir
}

func TestExpandSources(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"src/p/A.java":   "package p; class A {}",
		"src/p/q/B.java": "package p.q; class B {}",
		"src/notes.txt":  "",
	})
	got, err := expandSources([]string{filepath.Join(dir, "src")})
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(dir, "src", "p", "A.java"),
		filepath.Join(dir, "src", "p", "q", "B.java"),
	}, got)

	got, err = expandSources([]string{
		filepath.Join(dir, "src", "**", "B.java"),
		filepath.Join(dir, "src", "p", "q", "B.java"),
	})
	require.NoError(t, err)
	require.Len(t, got, 1)

	_, err = expandSources([]string{filepath.Join(dir, "missing", "*.java")})
	require.Error(t, err)
}

func runCompile(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newCompileCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--color=never"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestCompileCommand(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"X.java": "public class X {\n\tString s5 = \"test3\";\n}\n",
	})
	out, err := runCompile(t, dir)
	require.NoError(t, err)
	require.Equal(t, "compiled\n", out)

	out, err = runCompile(t, "-O", "nonExternalizedStringLiteral=error", dir)
	require.ErrorIs(t, err, errFailed)
	require.Contains(t, out, "1. ERROR in ")
	require.Contains(t, out, "Non-externalized string literal; it should be followed by //$NON-NLS-<n>$")
}

func TestCompileCommandOptionsFile(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"X.java":         "import java.util.List;\npublic class X {}\n",
		"javafront.toml": "[severities]\nunusedImport = \"error\"\n",
	})
	out, err := runCompile(t, "--options", filepath.Join(dir, "javafront.toml"), filepath.Join(dir, "X.java"))
	require.ErrorIs(t, err, errFailed)
	require.True(t, strings.Contains(out, "The import java.util.List is never used"), out)
}

func TestCompileCommandBadOption(t *testing.T) {
	dir := writeTree(t, map[string]string{"X.java": "class X {}"})
	_, err := runCompile(t, "-O", "noSuchOption=error", dir)
	require.Error(t, err)
	require.NotErrorIs(t, err, errFailed)
}
