package xnbfile

import (
	"testing"
)

func TestParseTypeNameSimple(t *testing.T) {
	tn := ParseTypeName("Microsoft.Xna.Framework.Content.Texture2DReader")
	if tn.Name != "Microsoft.Xna.Framework.Content.Texture2DReader" {
		t.Errorf("unexpected name %q", tn.Name)
	}
	if len(tn.Subtypes) != 0 {
		t.Errorf("unexpected subtypes %v", tn.Subtypes)
	}
	if tn.IsArray() {
		t.Error("non-array name reported as array")
	}
}

func TestParseTypeNameAssemblyQualified(t *testing.T) {
	plain := ParseTypeName("SFD.Content.ItemsContentTypeReader")
	qualified := ParseTypeName("SFD.Content.ItemsContentTypeReader, SFD, Version=1.0.0.0, Culture=neutral")
	if !plain.Equal(qualified) {
		t.Error("equality does not ignore the assembly qualifier")
	}
}

func TestParseTypeNameGeneric(t *testing.T) {
	s := "Microsoft.Xna.Framework.Content.ListReader`1[[System.Int32, mscorlib, Version=4.0.0.0]], Microsoft.Xna.Framework"
	tn := ParseTypeName(s)
	if tn.Name != "Microsoft.Xna.Framework.Content.ListReader" {
		t.Errorf("unexpected name %q", tn.Name)
	}
	if len(tn.Subtypes) != 1 || tn.Subtypes[0].Name != "System.Int32" {
		t.Errorf("unexpected subtypes %v", tn.Subtypes)
	}

	want := "Microsoft.Xna.Framework.Content.ListReader`1[[System.Int32]]"
	if got := tn.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestParseTypeNameNestedGeneric(t *testing.T) {
	s := "System.Collections.Generic.Dictionary`2[[System.String, mscorlib],[System.Collections.Generic.List`1[[System.Int32, mscorlib]], mscorlib]]"
	tn := ParseTypeName(s)
	if len(tn.Subtypes) != 2 {
		t.Fatalf("expected 2 subtypes, got %v", tn.Subtypes)
	}
	if tn.Subtypes[0].Name != "System.String" {
		t.Errorf("unexpected first subtype %v", tn.Subtypes[0])
	}
	inner := tn.Subtypes[1]
	if inner.Name != "System.Collections.Generic.List" || len(inner.Subtypes) != 1 ||
		inner.Subtypes[0].Name != "System.Int32" {
		t.Errorf("unexpected second subtype %v", inner)
	}
}

func TestParseTypeNameArray(t *testing.T) {
	tn := ParseTypeName("System.Int32[], mscorlib")
	if tn.Name != "System.Int32[]" {
		t.Errorf("unexpected name %q", tn.Name)
	}
	if !tn.IsArray() {
		t.Error("array name not reported as array")
	}
}

func TestTypeNameEqualRecursive(t *testing.T) {
	a := ParseTypeName("List`1[[Sub, AsmA]]")
	b := ParseTypeName("List`1[[Sub, AsmB]], Outer")
	c := ParseTypeName("List`1[[Other, AsmA]]")
	if !a.Equal(b) {
		t.Error("subtype assembly qualifier affects equality")
	}
	if a.Equal(c) {
		t.Error("differing subtypes compare equal")
	}
}

func TestTypeNameStringRoundTrip(t *testing.T) {
	cases := []string{
		"Simple.Name",
		"List`1[[Sub.Type]]",
		"Dict`2[[K],[V`1[[W]]]]",
	}
	for _, s := range cases {
		tn := ParseTypeName(s)
		if got := ParseTypeName(tn.String()); !got.Equal(tn) {
			t.Errorf("%q does not round trip through String: %q", s, tn.String())
		}
	}
}
