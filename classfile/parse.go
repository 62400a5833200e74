package classfile

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"unicode/utf16"
)

// ErrBadMagic is returned for input that does not start with 0xCAFEBABE.
var ErrBadMagic = errors.New("classfile: bad magic number")

type reader struct {
	r   io.Reader
	err error
}

func (r *reader) u1() uint8 {
	if r.err != nil {
		return 0
	}
	var buf [1]byte
	_, r.err = io.ReadFull(r.r, buf[:])
	return buf[0]
}

func (r *reader) u2() uint16 {
	if r.err != nil {
		return 0
	}
	var buf [2]byte
	_, r.err = io.ReadFull(r.r, buf[:])
	return binary.BigEndian.Uint16(buf[:])
}

func (r *reader) u4() uint32 {
	if r.err != nil {
		return 0
	}
	var buf [4]byte
	_, r.err = io.ReadFull(r.r, buf[:])
	return binary.BigEndian.Uint32(buf[:])
}

func (r *reader) bytes(n int) []byte {
	if r.err != nil {
		return nil
	}
	buf := make([]byte, n)
	_, r.err = io.ReadFull(r.r, buf)
	return buf
}

func ParseFile(path string) (*ClassFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open class file: %w", err)
	}
	defer f.Close()
	cf, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cf, nil
}

// Parse reads one class file from rd.
func Parse(rd io.Reader) (*ClassFile, error) {
	r := &reader{r: rd}

	magic := r.u4()
	if r.err != nil {
		return nil, fmt.Errorf("failed to read magic: %w", r.err)
	}
	if magic != Magic {
		return nil, fmt.Errorf("%w: 0x%X", ErrBadMagic, magic)
	}

	cf := &ClassFile{
		MinorVersion: r.u2(),
		MajorVersion: r.u2(),
	}
	count := r.u2()
	if r.err != nil {
		return nil, fmt.Errorf("failed to read header: %w", r.err)
	}
	if count == 0 {
		return nil, errors.New("classfile: empty constant pool")
	}

	cf.ConstantPool = make(ConstantPool, count)
	for i := uint16(1); i < count; i++ {
		c, err := readConstant(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read constant pool entry %d: %w", i, err)
		}
		cf.ConstantPool[i] = c
		if c.Tag == ConstantLong || c.Tag == ConstantDouble {
			i++
		}
	}

	cf.AccessFlags = AccessFlags(r.u2())
	cf.ThisClass = r.u2()
	cf.SuperClass = r.u2()
	cf.Interfaces = make([]uint16, r.u2())
	for i := range cf.Interfaces {
		cf.Interfaces[i] = r.u2()
	}
	if r.err != nil {
		return nil, fmt.Errorf("failed to read class info: %w", r.err)
	}

	var err error
	if cf.Fields, err = readMembers(r, cf.ConstantPool); err != nil {
		return nil, fmt.Errorf("failed to read fields: %w", err)
	}
	if cf.Methods, err = readMembers(r, cf.ConstantPool); err != nil {
		return nil, fmt.Errorf("failed to read methods: %w", err)
	}
	if cf.Attributes, err = readAttributes(r, cf.ConstantPool); err != nil {
		return nil, fmt.Errorf("failed to read attributes: %w", err)
	}
	return cf, nil
}

func readConstant(r *reader) (Constant, error) {
	c := Constant{Tag: ConstantTag(r.u1())}
	switch c.Tag {
	case ConstantUtf8:
		c.Text = decodeModifiedUtf8(r.bytes(int(r.u2())))
	case ConstantInteger:
		c.Int = int64(int32(r.u4()))
	case ConstantFloat:
		c.Float = float64(math.Float32frombits(r.u4()))
	case ConstantLong:
		hi, lo := r.u4(), r.u4()
		c.Int = int64(uint64(hi)<<32 | uint64(lo))
	case ConstantDouble:
		hi, lo := r.u4(), r.u4()
		c.Float = math.Float64frombits(uint64(hi)<<32 | uint64(lo))
	case ConstantClass, ConstantString, ConstantMethodType, ConstantModule, ConstantPackage:
		c.A = r.u2()
	case ConstantFieldref, ConstantMethodref, ConstantInterfaceMethodref,
		ConstantNameAndType, ConstantDynamic, ConstantInvokeDynamic:
		c.A, c.B = r.u2(), r.u2()
	case ConstantMethodHandle:
		c.A = uint16(r.u1())
		c.B = r.u2()
	default:
		if r.err == nil {
			return c, fmt.Errorf("unknown constant pool tag %d", c.Tag)
		}
	}
	return c, r.err
}

func readMembers(r *reader, cp ConstantPool) ([]Member, error) {
	ms := make([]Member, r.u2())
	for i := range ms {
		ms[i].AccessFlags = AccessFlags(r.u2())
		ms[i].Name = cp.Utf8(r.u2())
		ms[i].Descriptor = cp.Utf8(r.u2())
		attrs, err := readAttributes(r, cp)
		if err != nil {
			return nil, fmt.Errorf("member %d: %w", i, err)
		}
		ms[i].Attributes = attrs
	}
	return ms, r.err
}

// readAttributes keeps the attributes this package decodes and skips the
// rest, Code included.
func readAttributes(r *reader, cp ConstantPool) ([]Attribute, error) {
	n := r.u2()
	var attrs []Attribute
	for range n {
		name := cp.Utf8(r.u2())
		length := r.u4()
		if r.err != nil {
			return nil, r.err
		}
		if !decoded[name] {
			if _, err := io.CopyN(io.Discard, r.r, int64(length)); err != nil {
				return nil, err
			}
			continue
		}
		info := r.bytes(int(length))
		if r.err != nil {
			return nil, r.err
		}
		attrs = append(attrs, Attribute{Name: name, Info: info})
	}
	return attrs, r.err
}

// decodeModifiedUtf8 decodes the JVM's modified UTF-8, where NUL takes two
// bytes and supplementary characters are encoded as surrogate pairs.
func decodeModifiedUtf8(b []byte) string {
	units := make([]uint16, 0, len(b))
	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c&0x80 == 0:
			units = append(units, uint16(c))
			i++
		case c&0xE0 == 0xC0 && i+1 < len(b):
			units = append(units, uint16(c&0x1F)<<6|uint16(b[i+1]&0x3F))
			i += 2
		case c&0xF0 == 0xE0 && i+2 < len(b):
			units = append(units, uint16(c&0x0F)<<12|uint16(b[i+1]&0x3F)<<6|uint16(b[i+2]&0x3F))
			i += 3
		default:
			units = append(units, uint16(c))
			i++
		}
	}
	return string(utf16.Decode(units))
}
