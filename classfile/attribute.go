package classfile

import "bytes"

// decoded names the attributes readAttributes keeps.
var decoded = map[string]bool{
	"Signature":           true,
	"Exceptions":          true,
	"InnerClasses":        true,
	"ConstantValue":       true,
	"MethodParameters":    true,
	"Record":              true,
	"PermittedSubclasses": true,
	"EnclosingMethod":     true,
	"Deprecated":          true,
	"Synthetic":           true,
	"SourceFile":          true,
}

func infoReader(info []byte) *reader {
	return &reader{r: bytes.NewReader(info)}
}

// InnerClass is one entry of the InnerClasses attribute. Outer and Name
// are empty for local and anonymous classes.
type InnerClass struct {
	Inner string
	Outer string
	Name  string
	Flags AccessFlags
}

// RecordComponent is one entry of the Record attribute.
type RecordComponent struct {
	Name       string
	Descriptor string
	Signature  string
}

func (cf *ClassFile) Signature() string {
	return utf8Attribute(cf.Attributes, "Signature", cf.ConstantPool)
}

func (cf *ClassFile) SourceFile() string {
	return utf8Attribute(cf.Attributes, "SourceFile", cf.ConstantPool)
}

func (cf *ClassFile) IsDeprecated() bool {
	return hasAttribute(cf.Attributes, "Deprecated")
}

func (cf *ClassFile) InnerClasses() []InnerClass {
	info := findAttribute(cf.Attributes, "InnerClasses")
	if info == nil {
		return nil
	}
	r := infoReader(info)
	out := make([]InnerClass, r.u2())
	for i := range out {
		out[i] = InnerClass{
			Inner: cf.ConstantPool.ClassName(r.u2()),
			Outer: cf.ConstantPool.ClassName(r.u2()),
			Name:  cf.ConstantPool.Utf8(r.u2()),
			Flags: AccessFlags(r.u2()),
		}
	}
	if r.err != nil {
		return nil
	}
	return out
}

// InnerClass returns the InnerClasses entry describing this class itself.
func (cf *ClassFile) InnerClass() (InnerClass, bool) {
	self := cf.ClassName()
	for _, ic := range cf.InnerClasses() {
		if ic.Inner == self {
			return ic, true
		}
	}
	return InnerClass{}, false
}

// EnclosingMethod returns the class enclosing a local or anonymous class.
func (cf *ClassFile) EnclosingMethod() (string, bool) {
	info := findAttribute(cf.Attributes, "EnclosingMethod")
	if info == nil {
		return "", false
	}
	r := infoReader(info)
	class := cf.ConstantPool.ClassName(r.u2())
	return class, r.err == nil
}

func (cf *ClassFile) PermittedSubclasses() []string {
	return classList(cf.Attributes, "PermittedSubclasses", cf.ConstantPool)
}

// RecordComponents returns nil for classes that are not records.
func (cf *ClassFile) RecordComponents() []RecordComponent {
	info := findAttribute(cf.Attributes, "Record")
	if info == nil {
		return nil
	}
	cp := cf.ConstantPool
	r := infoReader(info)
	out := make([]RecordComponent, r.u2())
	for i := range out {
		out[i].Name = cp.Utf8(r.u2())
		out[i].Descriptor = cp.Utf8(r.u2())
		for range r.u2() {
			name := cp.Utf8(r.u2())
			body := r.bytes(int(r.u4()))
			if name == "Signature" && len(body) == 2 {
				out[i].Signature = cp.Utf8(uint16(body[0])<<8 | uint16(body[1]))
			}
		}
	}
	if r.err != nil {
		return nil
	}
	return out
}

func (m *Member) Signature(cp ConstantPool) string {
	return utf8Attribute(m.Attributes, "Signature", cp)
}

// Exceptions returns the internal names listed in the throws clause.
func (m *Member) Exceptions(cp ConstantPool) []string {
	return classList(m.Attributes, "Exceptions", cp)
}

// ParamNames returns the MethodParameters names, or nil when the method
// was compiled without them.
func (m *Member) ParamNames(cp ConstantPool) []string {
	info := findAttribute(m.Attributes, "MethodParameters")
	if info == nil {
		return nil
	}
	r := infoReader(info)
	names := make([]string, r.u1())
	for i := range names {
		names[i] = cp.Utf8(r.u2())
		r.u2()
	}
	if r.err != nil {
		return nil
	}
	return names
}

// ConstantValue returns the value of a constant field, or nil.
func (m *Member) ConstantValue(cp ConstantPool) any {
	info := findAttribute(m.Attributes, "ConstantValue")
	if len(info) != 2 {
		return nil
	}
	return cp.Value(uint16(info[0])<<8 | uint16(info[1]))
}

func utf8Attribute(attrs []Attribute, name string, cp ConstantPool) string {
	info := findAttribute(attrs, name)
	if len(info) != 2 {
		return ""
	}
	return cp.Utf8(uint16(info[0])<<8 | uint16(info[1]))
}

func classList(attrs []Attribute, name string, cp ConstantPool) []string {
	info := findAttribute(attrs, name)
	if info == nil {
		return nil
	}
	r := infoReader(info)
	names := make([]string, r.u2())
	for i := range names {
		names[i] = cp.ClassName(r.u2())
	}
	if r.err != nil {
		return nil
	}
	return names
}
