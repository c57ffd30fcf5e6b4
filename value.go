// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package metacore

// Kind identifies the active variant of a V.
type Kind byte

// Variants of the universal value V (spec.md S3.1). The core only ever
// constructs or inspects Int, Obj, Prop, Nil, True, SString and List;
// everything else is opaque and carried only so a metaclass method can
// reject it with ErrBadTypeBif.
const (
	KindNil Kind = iota
	KindTrue
	KindInt
	KindObj
	KindProp
	KindSString
	KindList
	KindOpaque // enum, code-offset, native-code, stack-offset, bifptr, object-pointer
)

// ObjID is an opaque object identifier. The zero value is the INVALID
// sentinel (spec.md S3.1).
type ObjID uint32

// InvalidObj is the sentinel object id.
const InvalidObj ObjID = 0

// PropID is an opaque property identifier. The zero value is the INVALID
// sentinel.
type PropID uint16

// InvalidProp is the sentinel property id.
const InvalidProp PropID = 0

// SString is an immutable, length-prefixed, producer-owned string value.
type SString struct {
	Text string
}

// VList is an immutable, length-prefixed sequence of V.
type VList struct {
	Elems []V
}

// V is the VM's universal tagged-union value.
type V struct {
	kind Kind
	i    int32
	obj  ObjID
	prop PropID
	str  *SString
	list *VList
}

// NilV is the nil value.
var NilV = V{kind: KindNil}

// TrueV is the true value.
var TrueV = V{kind: KindTrue}

// IntV builds an int value.
func IntV(i int32) V { return V{kind: KindInt, i: i} }

// ObjV builds an obj value.
func ObjV(id ObjID) V { return V{kind: KindObj, obj: id} }

// PropV builds a prop value.
func PropV(p PropID) V { return V{kind: KindProp, prop: p} }

// StringV builds an sstring value.
func StringV(s string) V { return V{kind: KindSString, str: &SString{Text: s}} }

// ListV builds a list value.
func ListV(elems []V) V { return V{kind: KindList, list: &VList{Elems: elems}} }

// Kind reports the active variant.
func (v V) Kind() Kind { return v.kind }

// IsNil reports whether v is the nil value.
func (v V) IsNil() bool { return v.kind == KindNil }

// IsNumeric reports whether v holds a plain integer. BigNumber values are
// object references (KindObj) and are not numeric at the V level; callers
// that need to accept either look the object up in the object table.
func (v V) IsNumeric() bool { return v.kind == KindInt }

// Int returns the wrapped integer and true, or 0 and false.
func (v V) Int() (int32, bool) {
	if v.kind != KindInt {
		return 0, false
	}
	return v.i, true
}

// Obj returns the wrapped object id and true, or InvalidObj and false.
func (v V) Obj() (ObjID, bool) {
	if v.kind != KindObj {
		return InvalidObj, false
	}
	return v.obj, true
}

// Prop returns the wrapped property id and true, or InvalidProp and false.
func (v V) Prop() (PropID, bool) {
	if v.kind != KindProp {
		return InvalidProp, false
	}
	return v.prop, true
}

// String returns the wrapped text and true, or "" and false.
func (v V) String() (string, bool) {
	if v.kind != KindSString || v.str == nil {
		return "", false
	}
	return v.str.Text, true
}

// List returns the wrapped elements and true, or nil and false.
func (v V) List() ([]V, bool) {
	if v.kind != KindList || v.list == nil {
		return nil, false
	}
	return v.list.Elems, true
}

// TypeName names v's variant for use in error messages, matching the
// argument-checking preambles throughout vmbignum.cpp/vmdate.cpp that name
// the offending type when throwing VMERR_BAD_TYPE_BIF.
func (v V) TypeName() string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindTrue:
		return "true"
	case KindInt:
		return "int"
	case KindObj:
		return "object"
	case KindProp:
		return "property"
	case KindSString:
		return "string"
	case KindList:
		return "list"
	default:
		return "opaque"
	}
}
