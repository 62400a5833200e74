// Package classfile reads the parts of JVM class files that describe a
// type's API: its header, members and the attributes carrying generic
// signatures, thrown exceptions and nesting. Method bodies are skipped.
package classfile

// ClassFile is a parsed class file.
type ClassFile struct {
	MinorVersion uint16
	MajorVersion uint16
	ConstantPool ConstantPool
	AccessFlags  AccessFlags
	ThisClass    uint16
	SuperClass   uint16
	Interfaces   []uint16
	Fields       []Member
	Methods      []Member
	Attributes   []Attribute
}

// Member is a field_info or method_info structure. Name and descriptor are
// resolved while parsing.
type Member struct {
	AccessFlags AccessFlags
	Name        string
	Descriptor  string
	Attributes  []Attribute
}

// Attribute is an attribute kept undecoded. The accessors on ClassFile and
// Member decode the ones they need.
type Attribute struct {
	Name string
	Info []byte
}

// ClassName returns the internal name of the class, like "java/lang/String".
func (cf *ClassFile) ClassName() string {
	return cf.ConstantPool.ClassName(cf.ThisClass)
}

// SuperClassName returns "" for java/lang/Object and module-info.
func (cf *ClassFile) SuperClassName() string {
	if cf.SuperClass == 0 {
		return ""
	}
	return cf.ConstantPool.ClassName(cf.SuperClass)
}

func (cf *ClassFile) InterfaceNames() []string {
	names := make([]string, len(cf.Interfaces))
	for i, idx := range cf.Interfaces {
		names[i] = cf.ConstantPool.ClassName(idx)
	}
	return names
}

func (cf *ClassFile) IsInterface() bool {
	return cf.AccessFlags.IsInterface() && !cf.AccessFlags.IsAnnotation()
}

// Field returns the field called name, or nil.
func (cf *ClassFile) Field(name string) *Member {
	for i := range cf.Fields {
		if cf.Fields[i].Name == name {
			return &cf.Fields[i]
		}
	}
	return nil
}

// MethodsNamed returns the methods called name in declaration order.
func (cf *ClassFile) MethodsNamed(name string) []*Member {
	var ms []*Member
	for i := range cf.Methods {
		if cf.Methods[i].Name == name {
			ms = append(ms, &cf.Methods[i])
		}
	}
	return ms
}

func findAttribute(attrs []Attribute, name string) []byte {
	for _, a := range attrs {
		if a.Name == name {
			return a.Info
		}
	}
	return nil
}

func hasAttribute(attrs []Attribute, name string) bool {
	for _, a := range attrs {
		if a.Name == name {
			return true
		}
	}
	return false
}

// IsSynthetic reports whether the member was generated by a compiler,
// either through its flag or the Synthetic attribute.
func (m *Member) IsSynthetic() bool {
	return m.AccessFlags.IsSynthetic() || hasAttribute(m.Attributes, "Synthetic")
}

// IsDeprecated reports whether the member carries a Deprecated attribute.
func (m *Member) IsDeprecated() bool {
	return hasAttribute(m.Attributes, "Deprecated")
}
