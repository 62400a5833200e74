package options

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/dhamidi/javafront/diag"
	"gopkg.in/yaml.v3"
)

// Options carries every version switch and severity override through all
// phases of a compilation. It is a value: concurrent compiles with
// different options never share state.
type Options struct {
	Compliance    Level                           `yaml:"compliance" toml:"compliance"`
	Source        Level                           `yaml:"source" toml:"source"`
	Target        Level                           `yaml:"target" toml:"target"`
	EnablePreview bool                            `yaml:"enablePreview" toml:"enable_preview"`
	Severities    map[diag.Category]diag.Severity `yaml:"severities" toml:"severities"`
}

// Default returns options for the latest level with built-in severities.
func Default() Options {
	return At(Latest)
}

// At returns options with compliance, source and target all set to l.
func At(l Level) Options {
	return Options{Compliance: l, Source: l, Target: l}
}

// ConfigurationError reports an unsupported option combination. It is fatal
// and raised before any diagnostic is collected.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// Normalize fills unset source and target levels from the compliance level.
func (o Options) Normalize() Options {
	if o.Compliance == 0 {
		o.Compliance = Latest
	}
	if o.Source == 0 {
		o.Source = o.Compliance
	}
	if o.Target == 0 {
		o.Target = o.Source
	}
	return o
}

// Validate checks the level triple and the preview toggle.
func (o Options) Validate() error {
	for _, f := range []struct {
		name  string
		level Level
	}{{"compliance", o.Compliance}, {"source", o.Source}, {"target", o.Target}} {
		if !f.level.Valid() {
			return &ConfigurationError{Field: f.name, Reason: fmt.Sprintf("unsupported level %s", f.level)}
		}
	}
	if o.Source > o.Compliance {
		return &ConfigurationError{Field: "source", Reason: fmt.Sprintf("source level %s exceeds compliance %s", o.Source, o.Compliance)}
	}
	if o.Target < o.Source {
		return &ConfigurationError{Field: "target", Reason: fmt.Sprintf("target level %s is below source %s", o.Target, o.Source)}
	}
	if o.EnablePreview && o.Compliance != Latest {
		return &ConfigurationError{Field: "enablePreview", Reason: fmt.Sprintf("preview features require level %s", Latest)}
	}
	for c := range o.Severities {
		if !knownCategory(c) {
			return &ConfigurationError{Field: "severities", Reason: fmt.Sprintf("unknown category %q", c)}
		}
	}
	return nil
}

func knownCategory(c diag.Category) bool {
	for _, k := range diag.Categories {
		if k == c {
			return true
		}
	}
	return false
}

// Severity implements diag.Policy.
func (o Options) Severity(p diag.Problem) diag.Severity {
	if c := p.Category(); c != "" {
		if s, ok := o.Severities[c]; ok {
			return s
		}
	}
	return p.DefaultSeverity()
}

// WithSeverity returns a copy of o with c reported at s.
func (o Options) WithSeverity(c diag.Category, s diag.Severity) Options {
	m := make(map[diag.Category]diag.Severity, len(o.Severities)+1)
	for k, v := range o.Severities {
		m[k] = v
	}
	m[c] = s
	o.Severities = m
	return o
}

// AtLeast reports whether the source level is l or later.
func (o Options) AtLeast(l Level) bool { return o.Source >= l }

// VarIsReserved reports whether 'var' is a reserved type name.
func (o Options) VarIsReserved() bool { return o.AtLeast(VarReservedTypeName) }

// UnderscoreIsKeyword reports whether '_' is a keyword.
func (o Options) UnderscoreIsKeyword() bool { return o.AtLeast(UnderscoreKeyword) }

// UnnamedVariables reports whether '_' declares an unnamed variable.
func (o Options) UnnamedVariables() bool { return o.Source == Latest && o.EnablePreview }

// Set applies one key=value pair. Keys are option names ("compliance",
// "source", "target", "level", "enablePreview") or problem categories.
// Fully qualified keys such as
// "org.eclipse.jdt.core.compiler.problem.nonExternalizedStringLiteral" are
// matched on their last segment.
func (o *Options) Set(key, value string) error {
	name := key
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	switch name {
	case "compliance", "source", "target", "level":
		l, err := ParseLevel(value)
		if err != nil {
			return &ConfigurationError{Field: key, Reason: err.Error()}
		}
		switch name {
		case "compliance":
			o.Compliance = l
		case "source":
			o.Source = l
		case "target":
			o.Target = l
		default:
			o.Compliance, o.Source, o.Target = l, l, l
		}
		return nil
	case "enablePreview", "enable_preview":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return &ConfigurationError{Field: key, Reason: err.Error()}
		}
		o.EnablePreview = b
		return nil
	}
	c := diag.Category(name)
	if !knownCategory(c) {
		return &ConfigurationError{Field: key, Reason: "unknown option"}
	}
	s, err := diag.ParseSeverity(value)
	if err != nil {
		return &ConfigurationError{Field: key, Reason: err.Error()}
	}
	*o = o.WithSeverity(c, s)
	return nil
}

// SetPairs applies "key=value" strings in order.
func (o *Options) SetPairs(pairs []string) error {
	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		if !ok {
			return &ConfigurationError{Field: p, Reason: "expected key=value"}
		}
		if err := o.Set(strings.TrimSpace(key), strings.TrimSpace(value)); err != nil {
			return err
		}
	}
	return nil
}

// Load reads options from a YAML (.yaml, .yml) or TOML (.toml) file on top
// of Default. The result is normalized but not validated.
func Load(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("reading options: %w", err)
	}
	o := Options{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&o); err != nil {
			return Options{}, fmt.Errorf("decoding %s: %w", path, err)
		}
	case ".toml":
		md, err := toml.Decode(string(data), &o)
		if err != nil {
			return Options{}, fmt.Errorf("decoding %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Options{}, &ConfigurationError{Field: undecoded[0].String(), Reason: "unknown option"}
		}
	default:
		return Options{}, fmt.Errorf("options file %s: unsupported format", path)
	}
	return o.Normalize(), nil
}

// String renders the options as sorted key=value pairs.
func (o Options) String() string {
	parts := []string{
		"compliance=" + o.Compliance.String(),
		"source=" + o.Source.String(),
		"target=" + o.Target.String(),
	}
	if o.EnablePreview {
		parts = append(parts, "enablePreview=true")
	}
	var cats []string
	for c, s := range o.Severities {
		cats = append(cats, string(c)+"="+strings.ToLower(s.String()))
	}
	sort.Strings(cats)
	return strings.Join(append(parts, cats...), " ")
}
