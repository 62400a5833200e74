package lsp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/javafront/diag"
	"github.com/dhamidi/javafront/options"
)

func TestDiagnosticsPerDocument(t *testing.T) {
	s := NewServer("test", Config{Options: options.Default()})
	s.Update("file:///w/X.java", "class X {\n  int i = \"s\";\n}\n")
	s.Update("file:///w/Y.java", "class Y {\n  X x;\n}\n")

	got, err := s.Diagnostics(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Empty(t, got["file:///w/Y.java"])

	ds := got["file:///w/X.java"]
	require.Len(t, ds, 1)
	require.Equal(t, "Type mismatch: cannot convert from String to int", ds[0].Message)
	require.Equal(t, protocol.DiagnosticSeverityError, *ds[0].Severity)
	require.Equal(t, protocol.Range{
		Start: protocol.Position{Line: 1, Character: 10},
		End:   protocol.Position{Line: 1, Character: 13},
	}, ds[0].Range)
}

func TestDiagnosticsClearedAfterFix(t *testing.T) {
	s := NewServer("test", Config{Options: options.Default()})
	uri := "file:///w/X.java"
	s.Update(uri, "class X { Missing m; }")
	got, err := s.Diagnostics(context.Background())
	require.NoError(t, err)
	require.Len(t, got[uri], 1)

	s.Close(uri)
	got, err = s.Diagnostics(context.Background())
	require.NoError(t, err)
	ds, ok := got[uri]
	require.True(t, ok, "closed document must be cleared")
	require.Empty(t, ds)

	got, err = s.Diagnostics(context.Background())
	require.NoError(t, err)
	require.NotContains(t, got, uri)
}

func TestPublish(t *testing.T) {
	s := NewServer("test", Config{Options: options.Default()})
	s.Update("file:///w/X.java", "class X {}")
	var methods []string
	var params []protocol.PublishDiagnosticsParams
	s.publish(func(method string, p any) {
		methods = append(methods, method)
		params = append(params, p.(protocol.PublishDiagnosticsParams))
	})
	require.Equal(t, []string{"textDocument/publishDiagnostics"}, methods)
	require.Equal(t, "file:///w/X.java", params[0].URI)
	require.Empty(t, params[0].Diagnostics)
}

func TestPositionCountsUTF16(t *testing.T) {
	f := diag.NewFile("X.java", []byte("a\n\U0001F600é x"))
	pos, err := position(f, len("a\n\U0001F600é "))
	require.NoError(t, err)
	require.Equal(t, protocol.Position{Line: 1, Character: 4}, pos)

	_, err = position(f, 100)
	require.Error(t, err)
}
