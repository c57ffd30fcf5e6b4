// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package metacore

import (
	"strconv"
	"strings"
)

// FuncIndex is a 1-based index into a Descriptor's intrinsic function
// table. 0 is reserved as "no such function" (spec.md S3.3).
type FuncIndex uint16

// IntrinsicFunc is one entry of a metaclass's fixed function table, called
// through the property-to-function translation described in spec.md S4.1.
type IntrinsicFunc func(ctx *Context, self ObjID, args []V) (V, error)

// Factories groups the three ways an instance of a metaclass can come into
// being (spec.md S3.3).
type Factories struct {
	CreateFromStack   func(ctx *Context, argc int, args []V) (Instance, error)
	CreateForImageLoad func(ctx *Context, id ObjID) (Instance, error)
	CreateForRestore  func(ctx *Context, id ObjID) (Instance, error)
}

// Descriptor is the host-side class descriptor spec.md S3.3 describes:
// one per metaclass, naming it by "base/version" and exposing the fixed
// intrinsic function table property dispatch routes through.
type Descriptor struct {
	// NameWithVersion is e.g. "bignumber/030000".
	NameWithVersion string

	Factories Factories

	// Funcs is the fixed intrinsic function table, indexed from 0 as a
	// normal Go slice. Property dispatch (registry.go's GetProp) looks up
	// a 1-based function index from prop_xlat and calls Funcs[idx-1];
	// index 0 in that 1-based numbering is the reserved translation-array
	// sentinel meaning "no such function" and never reaches this slice.
	Funcs []IntrinsicFunc
}

// BaseName returns the name with any "/version" suffix stripped.
func (d *Descriptor) BaseName() string {
	base, _ := splitNameVersion(d.NameWithVersion)
	return base
}

// Version returns the numeric version suffix, or 0 if absent.
func (d *Descriptor) Version() int {
	_, v := splitNameVersion(d.NameWithVersion)
	return v
}

// splitNameVersion parses "base/version" per spec.md S4.1 step 1: split at
// the first '/'; a missing version is treated as "000000".
func splitNameVersion(nameWithVersion string) (base string, version int) {
	i := strings.IndexByte(nameWithVersion, '/')
	if i < 0 {
		return nameWithVersion, 0
	}
	base = nameWithVersion[:i]
	suffix := nameWithVersion[i+1:]
	n, err := strconv.Atoi(suffix)
	if err != nil {
		return base, 0
	}
	return base, n
}
