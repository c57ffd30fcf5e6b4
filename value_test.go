// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package metacore

import "testing"

func TestValueAccessors(t *testing.T) {
	tests := []struct {
		name     string
		v        V
		wantKind Kind
	}{
		{"nil", NilV, KindNil},
		{"true", TrueV, KindTrue},
		{"int", IntV(42), KindInt},
		{"obj", ObjV(7), KindObj},
		{"prop", PropV(3), KindProp},
		{"string", StringV("hello"), KindSString},
		{"list", ListV([]V{IntV(1), IntV(2)}), KindList},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.v.Kind() != tt.wantKind {
				t.Errorf("Kind() = %v, want %v", tt.v.Kind(), tt.wantKind)
			}
		})
	}
}

func TestValueInt(t *testing.T) {
	v := IntV(99)
	i, ok := v.Int()
	if !ok || i != 99 {
		t.Errorf("Int() = (%d, %v), want (99, true)", i, ok)
	}
	if _, ok := NilV.Int(); ok {
		t.Errorf("NilV.Int() ok = true, want false")
	}
}

func TestValueObjProp(t *testing.T) {
	v := ObjV(5)
	obj, ok := v.Obj()
	if !ok || obj != 5 {
		t.Errorf("Obj() = (%d, %v), want (5, true)", obj, ok)
	}
	if _, ok := IntV(1).Obj(); ok {
		t.Errorf("IntV.Obj() ok = true, want false")
	}

	p := PropV(9)
	prop, ok := p.Prop()
	if !ok || prop != 9 {
		t.Errorf("Prop() = (%d, %v), want (9, true)", prop, ok)
	}
}

func TestValueString(t *testing.T) {
	v := StringV("abc")
	s, ok := v.String()
	if !ok || s != "abc" {
		t.Errorf("String() = (%q, %v), want (\"abc\", true)", s, ok)
	}
	if _, ok := IntV(1).String(); ok {
		t.Errorf("IntV.String() ok = true, want false")
	}
}

func TestValueList(t *testing.T) {
	elems := []V{IntV(1), StringV("x")}
	v := ListV(elems)
	got, ok := v.List()
	if !ok || len(got) != 2 {
		t.Fatalf("List() = (%v, %v), want 2 elements", got, ok)
	}
	if got[0].Kind() != KindInt || got[1].Kind() != KindSString {
		t.Errorf("List() elements have wrong kinds: %v, %v", got[0].Kind(), got[1].Kind())
	}
}

func TestValueTypeName(t *testing.T) {
	tests := []struct {
		v    V
		want string
	}{
		{NilV, "nil"},
		{TrueV, "true"},
		{IntV(1), "int"},
		{ObjV(1), "object"},
		{PropV(1), "property"},
		{StringV("x"), "string"},
		{ListV(nil), "list"},
	}
	for _, tt := range tests {
		if got := tt.v.TypeName(); got != tt.want {
			t.Errorf("TypeName() = %q, want %q", got, tt.want)
		}
	}
}
