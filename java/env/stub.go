package env

import (
	"github.com/dhamidi/javafront/classfile"
)

// ClassStub is the API of one class file: everything symbols are built
// from, and nothing else. Stubs are plain data so that class path indexes
// can be cached.
type ClassStub struct {
	// Name is the internal name, like "java/util/Map$Entry".
	Name       string   `msgpack:"name"`
	Flags      uint16   `msgpack:"flags"`
	Super      string   `msgpack:"super,omitempty"`
	Interfaces []string `msgpack:"interfaces,omitempty"`
	Signature  string   `msgpack:"signature,omitempty"`
	// Outer and Simple come from the class's own InnerClasses entry.
	// InnerFlags replaces Flags for nested classes, which carry their
	// declared visibility and static modifier only there.
	Outer      string       `msgpack:"outer,omitempty"`
	Simple     string       `msgpack:"simple,omitempty"`
	Nested     bool         `msgpack:"nested,omitempty"`
	InnerFlags uint16       `msgpack:"inner_flags,omitempty"`
	Local      bool         `msgpack:"local,omitempty"`
	Members    []string     `msgpack:"members,omitempty"`
	Permitted  []string     `msgpack:"permitted,omitempty"`
	Fields     []MemberStub `msgpack:"fields,omitempty"`
	Methods    []MemberStub `msgpack:"methods,omitempty"`
}

// MemberStub is a field or method of a ClassStub.
type MemberStub struct {
	Name       string   `msgpack:"name"`
	Descriptor string   `msgpack:"desc"`
	Signature  string   `msgpack:"signature,omitempty"`
	Flags      uint16   `msgpack:"flags"`
	Exceptions []string `msgpack:"exceptions,omitempty"`
	ParamNames []string `msgpack:"params,omitempty"`
}

func (s *ClassStub) flags() classfile.AccessFlags {
	if s.Nested {
		return classfile.AccessFlags(s.InnerFlags)
	}
	return classfile.AccessFlags(s.Flags)
}

// NewClassStub extracts the API of cf. Synthetic members, bridge methods
// and static initializers are left out.
func NewClassStub(cf *classfile.ClassFile) *ClassStub {
	cp := cf.ConstantPool
	s := &ClassStub{
		Name:       cf.ClassName(),
		Flags:      uint16(cf.AccessFlags),
		Super:      cf.SuperClassName(),
		Interfaces: cf.InterfaceNames(),
		Signature:  cf.Signature(),
		Permitted:  cf.PermittedSubclasses(),
	}
	for _, ic := range cf.InnerClasses() {
		switch {
		case ic.Inner == s.Name:
			s.Nested = true
			s.Outer = ic.Outer
			s.Simple = ic.Name
			s.InnerFlags = uint16(ic.Flags)
			if ic.Outer == "" {
				s.Local = true
				if outer, ok := cf.EnclosingMethod(); ok {
					s.Outer = outer
				}
			}
		case ic.Outer == s.Name && ic.Name != "":
			s.Members = append(s.Members, ic.Inner)
		}
	}
	for i := range cf.Fields {
		f := &cf.Fields[i]
		if f.IsSynthetic() {
			continue
		}
		s.Fields = append(s.Fields, MemberStub{
			Name:       f.Name,
			Descriptor: f.Descriptor,
			Signature:  f.Signature(cp),
			Flags:      uint16(f.AccessFlags),
		})
	}
	for i := range cf.Methods {
		m := &cf.Methods[i]
		if m.IsSynthetic() || m.AccessFlags.Has(classfile.AccBridge) || m.Name == "<clinit>" {
			continue
		}
		s.Methods = append(s.Methods, MemberStub{
			Name:       m.Name,
			Descriptor: m.Descriptor,
			Signature:  m.Signature(cp),
			Flags:      uint16(m.AccessFlags),
			Exceptions: m.Exceptions(cp),
			ParamNames: m.ParamNames(cp),
		})
	}
	return s
}
