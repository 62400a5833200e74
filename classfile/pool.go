package classfile

// Constant is one constant pool entry. Which fields are meaningful depends
// on Tag: Utf8 entries carry Text, numeric entries carry Int or Float, and
// every other entry refers to up to two other entries through A and B.
type Constant struct {
	Tag   ConstantTag
	Text  string
	Int   int64
	Float float64
	A, B  uint16
}

// ConstantPool is indexed like the class file: entry 0 and the slot after a
// Long or Double are zero.
type ConstantPool []Constant

func (cp ConstantPool) entry(i uint16, tag ConstantTag) (Constant, bool) {
	if i == 0 || int(i) >= len(cp) || cp[i].Tag != tag {
		return Constant{}, false
	}
	return cp[i], true
}

// Utf8 returns the text of a Utf8 entry, or "" when i is not one.
func (cp ConstantPool) Utf8(i uint16) string {
	c, _ := cp.entry(i, ConstantUtf8)
	return c.Text
}

// ClassName returns the internal name of a Class entry, for example
// "java/util/Map$Entry".
func (cp ConstantPool) ClassName(i uint16) string {
	c, ok := cp.entry(i, ConstantClass)
	if !ok {
		return ""
	}
	return cp.Utf8(c.A)
}

// NameAndType returns the name and descriptor of a NameAndType entry.
func (cp ConstantPool) NameAndType(i uint16) (name, descriptor string) {
	c, ok := cp.entry(i, ConstantNameAndType)
	if !ok {
		return "", ""
	}
	return cp.Utf8(c.A), cp.Utf8(c.B)
}

// Value returns the Go value of a loadable constant: int32, int64,
// float32, float64 or string. It returns nil for other entries.
func (cp ConstantPool) Value(i uint16) any {
	if i == 0 || int(i) >= len(cp) {
		return nil
	}
	c := cp[i]
	switch c.Tag {
	case ConstantInteger:
		return int32(c.Int)
	case ConstantLong:
		return c.Int
	case ConstantFloat:
		return float32(c.Float)
	case ConstantDouble:
		return c.Float
	case ConstantString:
		return cp.Utf8(c.A)
	}
	return nil
}
