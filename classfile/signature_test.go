package classfile_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dhamidi/javafront/classfile"
)

func class(name string, args ...classfile.TypeArg) *classfile.TypeSig {
	return &classfile.TypeSig{Class: []classfile.ClassPart{{Name: name, Args: args}}}
}

func tvar(name string) *classfile.TypeSig { return &classfile.TypeSig{Var: name} }

func exact(t *classfile.TypeSig) classfile.TypeArg { return classfile.TypeArg{Type: t} }

func TestParseDescriptor(t *testing.T) {
	tests := []struct {
		in   string
		want *classfile.TypeSig
	}{
		{"I", &classfile.TypeSig{Base: 'I'}},
		{"Ljava/lang/String;", class("java/lang/String")},
		{"[[J", &classfile.TypeSig{Elem: &classfile.TypeSig{Elem: &classfile.TypeSig{Base: 'J'}}}},
		{"Ljava/util/Map$Entry;", class("java/util/Map$Entry")},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := classfile.ParseDescriptor(tt.in)
			if err != nil {
				t.Fatalf("ParseDescriptor(%q): %v", tt.in, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseDescriptorErrors(t *testing.T) {
	for _, in := range []string{"", "V", "Ljava/lang/String", "Q", "II", "[", "L;"} {
		if _, err := classfile.ParseDescriptor(in); err == nil {
			t.Errorf("ParseDescriptor(%q) succeeded", in)
		}
	}
}

func TestParseMethodSignature(t *testing.T) {
	got, err := classfile.ParseMethodSignature("<T::Ljava/lang/Comparable<-TT;>;>(Ljava/util/List<+TT;>;[TT;)TT;^Ljava/io/IOException;^TX;")
	if err != nil {
		t.Fatal(err)
	}
	want := &classfile.MethodSig{
		TypeParams: []classfile.TypeParam{{
			Name:   "T",
			Bounds: []*classfile.TypeSig{class("java/lang/Comparable", classfile.TypeArg{Wildcard: '-', Type: tvar("T")})},
		}},
		Params: []*classfile.TypeSig{
			class("java/util/List", classfile.TypeArg{Wildcard: '+', Type: tvar("T")}),
			{Elem: tvar("T")},
		},
		Result: tvar("T"),
		Throws: []*classfile.TypeSig{class("java/io/IOException"), tvar("X")},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestParseMethodDescriptor(t *testing.T) {
	got, err := classfile.ParseMethodDescriptor("(ILjava/lang/String;)V")
	if err != nil {
		t.Fatal(err)
	}
	want := &classfile.MethodSig{
		Params: []*classfile.TypeSig{{Base: 'I'}, class("java/lang/String")},
		Result: &classfile.TypeSig{Base: 'V'},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestParseClassSignature(t *testing.T) {
	got, err := classfile.ParseClassSignature("<K:Ljava/lang/Object;V:Ljava/lang/Object;>Ljava/util/AbstractMap<TK;TV;>;Ljava/util/Map<TK;TV;>;")
	if err != nil {
		t.Fatal(err)
	}
	object := class("java/lang/Object")
	want := &classfile.ClassSig{
		TypeParams: []classfile.TypeParam{
			{Name: "K", Bounds: []*classfile.TypeSig{object}},
			{Name: "V", Bounds: []*classfile.TypeSig{object}},
		},
		Super:      class("java/util/AbstractMap", exact(tvar("K")), exact(tvar("V"))),
		Interfaces: []*classfile.TypeSig{class("java/util/Map", exact(tvar("K")), exact(tvar("V")))},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestParseInnerClassSignature(t *testing.T) {
	got, err := classfile.ParseFieldSignature("Lp/Outer<Ljava/lang/String;>.Inner<*>;")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Class) != 2 || got.Class[1].Args[0].Wildcard != '*' {
		t.Fatalf("unexpected parts %+v", got.Class)
	}
	if name := got.InternalName(); name != "p/Outer$Inner" {
		t.Errorf("InternalName() = %q", name)
	}
}
