package classfile_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dhamidi/javafront/classfile"
	"github.com/dhamidi/javafront/internal/testkit"
)

func parse(t *testing.T, b *testkit.ClassBuilder) *classfile.ClassFile {
	t.Helper()
	cf, err := classfile.Parse(bytes.NewReader(b.Bytes()))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return cf
}

func TestParseHeader(t *testing.T) {
	cf := parse(t, testkit.NewClass("com/example/Box").
		Signature("<T:Ljava/lang/Object;>Ljava/lang/Object;Ljava/lang/Comparable<Lcom/example/Box<TT;>;>;").
		Implements("java/lang/Comparable", "java/io/Serializable"))

	if got := cf.ClassName(); got != "com/example/Box" {
		t.Errorf("ClassName() = %q", got)
	}
	if got := cf.SuperClassName(); got != "java/lang/Object" {
		t.Errorf("SuperClassName() = %q", got)
	}
	if diff := cmp.Diff([]string{"java/lang/Comparable", "java/io/Serializable"}, cf.InterfaceNames()); diff != "" {
		t.Errorf("InterfaceNames() mismatch (-want +got):\n%s", diff)
	}
	if cf.Signature() == "" {
		t.Error("Signature() is empty")
	}
	if !cf.AccessFlags.IsPublic() || cf.IsInterface() {
		t.Errorf("unexpected flags %#x", cf.AccessFlags)
	}
}

func TestParseMembers(t *testing.T) {
	cf := parse(t, testkit.NewClass("com/example/Io").
		Field(classfile.AccPublic|classfile.AccStatic|classfile.AccFinal, "SIZE", "I").
		Method(classfile.AccPublic, "read", "([BI)I",
			testkit.WithExceptions("java/io/IOException"),
			testkit.WithParamNames("buf", "len"),
			testkit.WithAttribute("Code", []byte{0, 1, 2, 3})).
		Method(classfile.AccPublic|classfile.AccSynthetic|classfile.AccBridge, "read", "(Ljava/lang/Object;)Ljava/lang/Object;"))

	f := cf.Field("SIZE")
	if f == nil || f.Descriptor != "I" || !f.AccessFlags.IsStatic() {
		t.Fatalf("Field(SIZE) = %+v", f)
	}
	if cf.Field("missing") != nil {
		t.Error("Field(missing) != nil")
	}

	reads := cf.MethodsNamed("read")
	if len(reads) != 2 {
		t.Fatalf("MethodsNamed(read) has %d entries", len(reads))
	}
	m := reads[0]
	if diff := cmp.Diff([]string{"java/io/IOException"}, m.Exceptions(cf.ConstantPool)); diff != "" {
		t.Errorf("Exceptions() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"buf", "len"}, m.ParamNames(cf.ConstantPool)); diff != "" {
		t.Errorf("ParamNames() mismatch (-want +got):\n%s", diff)
	}
	for _, a := range m.Attributes {
		if a.Name == "Code" {
			t.Error("Code attribute was kept")
		}
	}
	if m.IsSynthetic() || !reads[1].IsSynthetic() {
		t.Error("IsSynthetic() does not follow the flag")
	}
}

func TestParseInnerClasses(t *testing.T) {
	cf := parse(t, testkit.NewClass("java/util/Map$Entry").
		Access(classfile.AccPublic|classfile.AccInterface|classfile.AccAbstract).
		Inner("java/util/Map$Entry", "java/util/Map", "Entry",
			classfile.AccPublic|classfile.AccStatic|classfile.AccInterface|classfile.AccAbstract))

	ic, ok := cf.InnerClass()
	if !ok {
		t.Fatal("InnerClass() found nothing")
	}
	want := classfile.InnerClass{
		Inner: "java/util/Map$Entry",
		Outer: "java/util/Map",
		Name:  "Entry",
		Flags: classfile.AccPublic | classfile.AccStatic | classfile.AccInterface | classfile.AccAbstract,
	}
	if diff := cmp.Diff(want, ic); diff != "" {
		t.Errorf("InnerClass() mismatch (-want +got):\n%s", diff)
	}
	if !cf.IsInterface() {
		t.Error("IsInterface() = false")
	}
}

func TestParseBadMagic(t *testing.T) {
	_, err := classfile.Parse(bytes.NewReader([]byte{0xde, 0xad, 0xbe, 0xef, 0, 0}))
	if !errors.Is(err, classfile.ErrBadMagic) {
		t.Errorf("Parse() error = %v, want ErrBadMagic", err)
	}
}

func TestParseTruncated(t *testing.T) {
	full := testkit.NewClass("a/B").Method(classfile.AccPublic, "m", "()V").Bytes()
	if _, err := classfile.Parse(bytes.NewReader(full[:len(full)-3])); err == nil {
		t.Error("Parse() of a truncated class succeeded")
	}
}
