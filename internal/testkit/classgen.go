package testkit

import (
	"bytes"
	"encoding/binary"

	"fortio.org/safecast"

	"github.com/dhamidi/javafront/classfile"
)

// ClassBuilder assembles minimal class files for tests: a constant pool,
// members and the API attributes the class path reader decodes. Methods
// get no Code attribute.
type ClassBuilder struct {
	name       string
	super      string
	interfaces []string
	flags      classfile.AccessFlags
	pool       bytes.Buffer
	count      uint16
	utf8s      map[string]uint16
	classes    map[string]uint16
	fields     []memberDef
	methods    []memberDef
	attrs      []attrDef
}

type memberDef struct {
	flags      classfile.AccessFlags
	name, desc string
	attrs      []attrDef
}

type attrDef struct {
	name string
	body []byte
}

// MemberOption adds an attribute to a field or method.
type MemberOption func(b *ClassBuilder, m *memberDef)

// NewClass starts a public class extending java/lang/Object.
func NewClass(internalName string) *ClassBuilder {
	return &ClassBuilder{
		name:    internalName,
		super:   "java/lang/Object",
		flags:   classfile.AccPublic | classfile.AccSuper,
		count:   1,
		utf8s:   map[string]uint16{},
		classes: map[string]uint16{},
	}
}

func (b *ClassBuilder) Access(flags classfile.AccessFlags) *ClassBuilder {
	b.flags = flags
	return b
}

// Extends sets the superclass; "" leaves it unset as for java/lang/Object.
func (b *ClassBuilder) Extends(super string) *ClassBuilder {
	b.super = super
	return b
}

func (b *ClassBuilder) Implements(names ...string) *ClassBuilder {
	b.interfaces = append(b.interfaces, names...)
	return b
}

func (b *ClassBuilder) Signature(sig string) *ClassBuilder {
	b.attrs = append(b.attrs, attrDef{"Signature", b.u2(b.utf8(sig))})
	return b
}

// Inner adds an InnerClasses entry.
func (b *ClassBuilder) Inner(inner, outer, simple string, flags classfile.AccessFlags) *ClassBuilder {
	var body bytes.Buffer
	write(&body, uint16(1), b.class(inner))
	if outer == "" {
		write(&body, uint16(0))
	} else {
		write(&body, b.class(outer))
	}
	if simple == "" {
		write(&body, uint16(0))
	} else {
		write(&body, b.utf8(simple))
	}
	write(&body, uint16(flags))
	b.attrs = append(b.attrs, attrDef{"InnerClasses", body.Bytes()})
	return b
}

func (b *ClassBuilder) Field(flags classfile.AccessFlags, name, desc string, opts ...MemberOption) *ClassBuilder {
	m := memberDef{flags: flags, name: name, desc: desc}
	for _, o := range opts {
		o(b, &m)
	}
	b.fields = append(b.fields, m)
	return b
}

func (b *ClassBuilder) Method(flags classfile.AccessFlags, name, desc string, opts ...MemberOption) *ClassBuilder {
	m := memberDef{flags: flags, name: name, desc: desc}
	for _, o := range opts {
		o(b, &m)
	}
	b.methods = append(b.methods, m)
	return b
}

func WithSignature(sig string) MemberOption {
	return func(b *ClassBuilder, m *memberDef) {
		m.attrs = append(m.attrs, attrDef{"Signature", b.u2(b.utf8(sig))})
	}
}

func WithExceptions(names ...string) MemberOption {
	return func(b *ClassBuilder, m *memberDef) {
		var body bytes.Buffer
		write(&body, mustU2(len(names)))
		for _, n := range names {
			write(&body, b.class(n))
		}
		m.attrs = append(m.attrs, attrDef{"Exceptions", body.Bytes()})
	}
}

func WithParamNames(names ...string) MemberOption {
	return func(b *ClassBuilder, m *memberDef) {
		var body bytes.Buffer
		n, err := safecast.Conv[uint8](len(names))
		if err != nil {
			panic(err)
		}
		write(&body, n)
		for _, name := range names {
			write(&body, b.utf8(name), uint16(0))
		}
		m.attrs = append(m.attrs, attrDef{"MethodParameters", body.Bytes()})
	}
}

// WithAttribute adds an attribute this builder has no helper for, such as
// Code, which readers are expected to skip.
func WithAttribute(name string, body []byte) MemberOption {
	return func(b *ClassBuilder, m *memberDef) {
		m.attrs = append(m.attrs, attrDef{name, body})
	}
}

// Bytes encodes the class file.
func (b *ClassBuilder) Bytes() []byte {
	this := b.class(b.name)
	var super uint16
	if b.super != "" {
		super = b.class(b.super)
	}
	ifaces := make([]uint16, len(b.interfaces))
	for i, n := range b.interfaces {
		ifaces[i] = b.class(n)
	}
	// Interning member and attribute names grows the pool, so the body is
	// encoded before the pool is written out.
	var body bytes.Buffer
	write(&body, uint16(b.flags), this, super, mustU2(len(ifaces)))
	for _, i := range ifaces {
		write(&body, i)
	}
	b.members(&body, b.fields)
	b.members(&body, b.methods)
	b.attributes(&body, b.attrs)

	var out bytes.Buffer
	write(&out, uint32(classfile.Magic), uint16(0), uint16(65), b.count)
	out.Write(b.pool.Bytes())
	out.Write(body.Bytes())
	return out.Bytes()
}

func (b *ClassBuilder) members(w *bytes.Buffer, ms []memberDef) {
	write(w, mustU2(len(ms)))
	for _, m := range ms {
		write(w, uint16(m.flags), b.utf8(m.name), b.utf8(m.desc))
		b.attributes(w, m.attrs)
	}
}

func (b *ClassBuilder) attributes(w *bytes.Buffer, attrs []attrDef) {
	write(w, mustU2(len(attrs)))
	for _, a := range attrs {
		n, err := safecast.Conv[uint32](len(a.body))
		if err != nil {
			panic(err)
		}
		write(w, b.utf8(a.name), n)
		w.Write(a.body)
	}
}

func (b *ClassBuilder) utf8(s string) uint16 {
	if i, ok := b.utf8s[s]; ok {
		return i
	}
	write(&b.pool, uint8(classfile.ConstantUtf8), mustU2(len(s)))
	b.pool.WriteString(s)
	i := b.count
	b.count++
	b.utf8s[s] = i
	return i
}

func (b *ClassBuilder) class(name string) uint16 {
	if i, ok := b.classes[name]; ok {
		return i
	}
	n := b.utf8(name)
	write(&b.pool, uint8(classfile.ConstantClass), n)
	i := b.count
	b.count++
	b.classes[name] = i
	return i
}

func (b *ClassBuilder) u2(v uint16) []byte {
	return binary.BigEndian.AppendUint16(nil, v)
}

func write(w *bytes.Buffer, vs ...any) {
	for _, v := range vs {
		_ = binary.Write(w, binary.BigEndian, v)
	}
}

func mustU2(n int) uint16 {
	v, err := safecast.Conv[uint16](n)
	if err != nil {
		panic(err)
	}
	return v
}
