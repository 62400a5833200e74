package options

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dhamidi/javafront/diag"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
		err  bool
	}{
		{"1.8", JDK1_8, false},
		{"8", JDK1_8, false},
		{"1.3", JDK1_3, false},
		{"17", JDK17, false},
		{"21", JDK21, false},
		{"1.800000", JDK1_8, false},
		{"17.000000", JDK17, false},
		{"22", 0, true},
		{"1.2", 0, true},
		{"x", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.err {
			t.Errorf("ParseLevel(%q) error = %v, want error %v", tt.in, err, tt.err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLevelString(t *testing.T) {
	if got := JDK1_7.String(); got != "1.7" {
		t.Errorf("JDK1_7 = %q, want 1.7", got)
	}
	if got := JDK10.String(); got != "10" {
		t.Errorf("JDK10 = %q, want 10", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		opts  Options
		field string
	}{
		{"defaults", Default(), ""},
		{"source above compliance", Options{Compliance: JDK1_8, Source: JDK11, Target: JDK11}, "source"},
		{"target below source", Options{Compliance: JDK11, Source: JDK11, Target: JDK1_8}, "target"},
		{"preview below latest", Options{Compliance: JDK17, Source: JDK17, Target: JDK17, EnablePreview: true}, "enablePreview"},
		{"preview at latest", Options{Compliance: Latest, Source: Latest, Target: Latest, EnablePreview: true}, ""},
		{"unknown level", Options{Compliance: 2, Source: 2, Target: 2}, "compliance"},
		{"unknown category", Default().WithSeverity("bogus", diag.Error), "severities"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.field == "" {
				require.NoError(t, err)
				return
			}
			var cfg *ConfigurationError
			require.True(t, errors.As(err, &cfg), "error %v is not a ConfigurationError", err)
			require.Equal(t, tt.field, cfg.Field)
		})
	}
}

func TestSeverityPolicy(t *testing.T) {
	o := Default()
	require.Equal(t, diag.Ignore, o.Severity(diag.NonExternalizedStringLiteral))
	require.Equal(t, diag.Warning, o.Severity(diag.UnusedImport))
	require.Equal(t, diag.Error, o.Severity(diag.UndefinedType))

	o = o.WithSeverity(diag.NonExternalizedString, diag.Error)
	require.Equal(t, diag.Error, o.Severity(diag.NonExternalizedStringLiteral))
	require.Equal(t, diag.Error, o.Severity(diag.UnnecessaryNLSTag))
	require.Equal(t, diag.Ignore, Default().Severity(diag.NonExternalizedStringLiteral), "WithSeverity must not mutate the receiver")
}

func TestSetPairs(t *testing.T) {
	o := Default()
	err := o.SetPairs([]string{
		"level=1.8",
		"org.eclipse.jdt.core.compiler.problem.nonExternalizedStringLiteral=error",
		"unusedImport = ignore",
	})
	require.NoError(t, err)
	require.Equal(t, JDK1_8, o.Compliance)
	require.Equal(t, JDK1_8, o.Source)
	require.Equal(t, diag.Error, o.Severity(diag.NonExternalizedStringLiteral))
	require.Equal(t, diag.Ignore, o.Severity(diag.UnusedImport))

	require.Error(t, o.SetPairs([]string{"nonsense"}))
	require.Error(t, o.SetPairs([]string{"unknownOption=1"}))
	require.Error(t, o.SetPairs([]string{"source=99"}))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "options.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
compliance: 1.8
severities:
  nonExternalizedStringLiteral: error
`), 0o644))
	o, err := Load(yamlPath)
	require.NoError(t, err)
	require.Equal(t, JDK1_8, o.Compliance)
	require.Equal(t, JDK1_8, o.Target)
	require.Equal(t, diag.Error, o.Severity(diag.NonExternalizedStringLiteral))

	tomlPath := filepath.Join(dir, "javafront.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte(`
compliance = "17"
source = "11"

[severities]
unusedImport = "error"
`), 0o644))
	o, err = Load(tomlPath)
	require.NoError(t, err)
	require.Equal(t, JDK17, o.Compliance)
	require.Equal(t, JDK11, o.Source)
	require.Equal(t, JDK11, o.Target)
	require.Equal(t, diag.Error, o.Severity(diag.UnusedImport))
	require.NoError(t, o.Validate())

	badPath := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(badPath, []byte("nope = 1\n"), 0o644))
	_, err = Load(badPath)
	require.Error(t, err)
}

func TestFeatureSwitches(t *testing.T) {
	require.False(t, At(JDK9).VarIsReserved())
	require.True(t, At(JDK10).VarIsReserved())
	require.False(t, At(JDK1_8).UnderscoreIsKeyword())
	require.True(t, At(JDK9).UnderscoreIsKeyword())
	o := At(Latest)
	o.EnablePreview = true
	require.True(t, o.UnnamedVariables())
	require.False(t, At(Latest).UnnamedVariables())
}
