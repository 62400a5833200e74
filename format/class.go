package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/javafront/java/types"
)

// ClassJSONEncoder writes the members of a class symbol as JSON. The
// symbol is completed first.
type ClassJSONEncoder struct {
	writer
	class *types.ClassSym
}

func NewClassJSONEncoder(w io.Writer) *ClassJSONEncoder {
	return &ClassJSONEncoder{writer: writer{w}}
}

func (e *ClassJSONEncoder) Encode(class *types.ClassSym) error {
	e.class = class
	return e.write(e.MarshalText())
}

type jsonClass struct {
	Name       string       `json:"name"`
	SimpleName string       `json:"simpleName"`
	Package    string       `json:"package"`
	Kind       string       `json:"kind"`
	Visibility string       `json:"visibility"`
	Modifiers  []string     `json:"modifiers,omitempty"`
	TypeParams []string     `json:"typeParams,omitempty"`
	SuperClass string       `json:"superClass,omitempty"`
	Interfaces []string     `json:"interfaces,omitempty"`
	Origin     string       `json:"origin,omitempty"`
	Fields     []jsonField  `json:"fields,omitempty"`
	Methods    []jsonMethod `json:"methods,omitempty"`
}

type jsonField struct {
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	Visibility string   `json:"visibility"`
	Modifiers  []string `json:"modifiers,omitempty"`
}

type jsonMethod struct {
	Name       string          `json:"name"`
	TypeParams []string        `json:"typeParams,omitempty"`
	ReturnType string          `json:"returnType"`
	Parameters []jsonParameter `json:"parameters,omitempty"`
	Throws     []string        `json:"throws,omitempty"`
	Visibility string          `json:"visibility"`
	Modifiers  []string        `json:"modifiers,omitempty"`
}

type jsonParameter struct {
	Name string `json:"name,omitempty"`
	Type string `json:"type"`
}

func (e *ClassJSONEncoder) MarshalText() ([]byte, error) {
	c := e.class
	if c == nil {
		return []byte("null\n"), nil
	}
	c.Complete()
	data := jsonClass{
		Name:       c.Name,
		SimpleName: c.SimpleName,
		Package:    c.Package,
		Kind:       string(c.Kind),
		Visibility: string(c.Visibility),
		Modifiers:  classModifiers(c),
		TypeParams: typeParams(c.TypeParams),
		Interfaces: typeStrings(c.Interfaces),
		Origin:     c.Origin,
	}
	if c.Super != nil {
		data.SuperClass = c.Super.String()
	}
	for _, f := range c.Fields {
		data.Fields = append(data.Fields, jsonField{
			Name:       f.Name,
			Type:       f.Type.String(),
			Visibility: string(f.Visibility),
			Modifiers:  fieldModifiers(f),
		})
	}
	for _, m := range c.Methods {
		jm := jsonMethod{
			Name:       m.Name,
			TypeParams: typeParams(m.TypeParams),
			ReturnType: m.Result.String(),
			Throws:     typeStrings(m.Throws),
			Visibility: string(m.Visibility),
			Modifiers:  methodModifiers(m),
		}
		for i, p := range m.Params {
			jp := jsonParameter{Type: p.String()}
			if i < len(m.ParamNames) {
				jp.Name = m.ParamNames[i]
			}
			jm.Parameters = append(jm.Parameters, jp)
		}
		data.Methods = append(data.Methods, jm)
	}
	text, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(text, '\n'), nil
}

// ClassLineEncoder writes a class symbol as tab-separated lines: one for
// the class, then one per field and method. Empty columns print as "-".
type ClassLineEncoder struct {
	writer
	class *types.ClassSym
}

func NewClassLineEncoder(w io.Writer) *ClassLineEncoder {
	return &ClassLineEncoder{writer: writer{w}}
}

func (e *ClassLineEncoder) Encode(class *types.ClassSym) error {
	e.class = class
	return e.write(e.MarshalText())
}

func (e *ClassLineEncoder) MarshalText() ([]byte, error) {
	c := e.class
	if c == nil {
		return nil, nil
	}
	c.Complete()
	var sb strings.Builder
	mods := append([]string{string(c.Visibility)}, classModifiers(c)...)
	fmt.Fprintf(&sb, "%s\t%s\t%s\n", c.Kind, c.Name, column(mods))
	for _, f := range c.Fields {
		fmt.Fprintf(&sb, "field\t%s\t%s\t%s\t%s\n",
			f.Name, f.Type, f.Visibility, column(fieldModifiers(f)))
	}
	for _, m := range c.Methods {
		fmt.Fprintf(&sb, "method\t%s\t%s\t%s\t%s\t%s\n",
			m.Name, m.Result, column(typeStrings(m.Params)), m.Visibility, column(methodModifiers(m)))
	}
	return []byte(sb.String()), nil
}

func column(parts []string) string {
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ",")
}

func classModifiers(c *types.ClassSym) []string {
	var mods []string
	if c.IsStatic {
		mods = append(mods, "static")
	}
	if c.IsFinal {
		mods = append(mods, "final")
	}
	if c.IsAbstract && !c.IsInterface() {
		mods = append(mods, "abstract")
	}
	if c.IsSealed {
		mods = append(mods, "sealed")
	}
	return mods
}

func fieldModifiers(f *types.FieldSym) []string {
	var mods []string
	if f.IsStatic {
		mods = append(mods, "static")
	}
	if f.IsFinal {
		mods = append(mods, "final")
	}
	return mods
}

func methodModifiers(m *types.MethodSym) []string {
	var mods []string
	if m.IsStatic {
		mods = append(mods, "static")
	}
	if m.IsFinal {
		mods = append(mods, "final")
	}
	if m.IsAbstract {
		mods = append(mods, "abstract")
	}
	if m.IsDefault {
		mods = append(mods, "default")
	}
	if m.Varargs {
		mods = append(mods, "varargs")
	}
	return mods
}

func typeStrings[T types.Type](ts []T) []string {
	var out []string
	for _, t := range ts {
		out = append(out, t.String())
	}
	return out
}

func typeParams(tps []*types.TypeVar) []string {
	var out []string
	for _, tv := range tps {
		s := tv.Name
		if len(tv.Bounds) > 0 {
			s += " extends " + strings.Join(typeStrings(tv.Bounds), " & ")
		}
		out = append(out, s)
	}
	return out
}
