// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package metacore

import (
	"github.com/go-kratos/kratos/v2/log"
)

// DepRecord is one row of an image file's metaclass dependency table
// (spec.md S6.2): a name+version string, the function count the image was
// compiled against, and the inclusive property range it maps.
type DepRecord struct {
	NameWithVersion string
	FuncCount       uint16
	MinProp         PropID
	MaxProp         PropID
	// PropMap holds (prop, func_index) pairs covering a subset of
	// [MinProp, MaxProp]; entries not present map to func index 0.
	PropMap map[PropID]FuncIndex
}

// Entry is a loaded image's binding from a dependency-table slot to a
// Descriptor, plus the property<->function-index translation arrays
// (spec.md S3.3).
type Entry struct {
	// ImageMetaName is the exact name string from the image, preserved
	// verbatim for re-save (spec.md S3.3, and SPEC_FULL.md's
	// vmmeta.cpp-grounded round-trip note).
	ImageMetaName string

	Descriptor *Descriptor

	// ClassObj is the IntrinsicClass object representing this class in
	// the program; may be InvalidObj until created on demand.
	ClassObj ObjID

	MinProp PropID

	// PropXlat[p - MinProp] is the 1-based function index for property p,
	// or 0 if unmapped. Indexed by int(p-MinProp).
	PropXlat []FuncIndex

	// FuncXlat[i-1] is the property id mapped to function index i, the
	// symmetric inverse of PropXlat (spec.md S3.3 invariant).
	FuncXlat []PropID
}

// propIndex returns the index into PropXlat for prop, or -1 if prop falls
// outside [MinProp, MinProp+len(PropXlat)).
func (e *Entry) propIndex(prop PropID) int {
	if prop < e.MinProp {
		return -1
	}
	i := int(prop) - int(e.MinProp)
	if i >= len(e.PropXlat) {
		return -1
	}
	return i
}

// FuncIndexFor returns the function index bound to prop, or 0 if prop is
// out of range or unmapped (spec.md S3.3 invariant, S4.1 dispatch step).
func (e *Entry) FuncIndexFor(prop PropID) FuncIndex {
	i := e.propIndex(prop)
	if i < 0 {
		return 0
	}
	return e.PropXlat[i]
}

// PropFor returns the property id bound to function index i (1-based), or
// InvalidProp if i is out of range.
func (e *Entry) PropFor(i FuncIndex) PropID {
	if i == 0 || int(i) > len(e.FuncXlat) {
		return InvalidProp
	}
	return e.FuncXlat[i-1]
}

// Registry is the indexed table of host-side descriptors plus, per loaded
// image, the dependency table that binds image-local indices to
// descriptors (spec.md S3.3/S4.1).
type Registry struct {
	descriptors []*Descriptor

	// entries is the current image's dependency table, indexed by
	// image-local dependency index.
	entries []*Entry

	// reverseMap[descriptorIndex] is the entries index bound to that
	// descriptor in the current load, or -1 if unreferenced (spec.md
	// S3.3 invariant).
	reverseMap []int

	logger *log.Helper
}

// NewRegistry creates a Registry with no descriptors registered.
func NewRegistry(logger *log.Helper) *Registry {
	return &Registry{logger: logger}
}

// Register adds a host descriptor, returning its stable descriptor index.
func (r *Registry) Register(d *Descriptor) int {
	r.descriptors = append(r.descriptors, d)
	r.reverseMap = append(r.reverseMap, -1)
	return len(r.descriptors) - 1
}

// findDescriptor linear-searches for a descriptor whose base name matches
// base (spec.md S4.1 step 2).
func (r *Registry) findDescriptor(base string) (int, *Descriptor) {
	for i, d := range r.descriptors {
		if d.BaseName() == base {
			return i, d
		}
	}
	return -1, nil
}

// LoadDependencyTable implements the loading contract of spec.md S4.1:
// parse each record's name+version, resolve it to a registered
// Descriptor, and build the bidirectional property<->function-index
// translation arrays. It replaces any previously loaded dependency table.
func (r *Registry) LoadDependencyTable(recs []DepRecord) error {
	entries := make([]*Entry, len(recs))
	reverseMap := make([]int, len(r.descriptors))
	for i := range reverseMap {
		reverseMap[i] = -1
	}

	for i, rec := range recs {
		base, version := splitNameVersion(rec.NameWithVersion)

		descIdx, desc := r.findDescriptor(base)
		if desc == nil {
			return &VersionError{Err: ErrUnknownMetaclass, Name: rec.NameWithVersion}
		}
		if desc.Version() < version {
			return &VersionError{Err: ErrMetaclassTooOld, Name: rec.NameWithVersion}
		}

		span := int(rec.MaxProp) - int(rec.MinProp) + 1
		if span < 0 {
			span = 0
		}
		propXlat := make([]FuncIndex, span)
		funcXlat := make([]PropID, rec.FuncCount)
		for i := range funcXlat {
			funcXlat[i] = InvalidProp
		}

		for prop, funcIdx := range rec.PropMap {
			if prop < rec.MinProp || prop > rec.MaxProp {
				continue
			}
			propXlat[int(prop)-int(rec.MinProp)] = funcIdx
			if funcIdx != 0 && int(funcIdx) <= len(funcXlat) {
				funcXlat[funcIdx-1] = prop
			}
		}

		entries[i] = &Entry{
			ImageMetaName: rec.NameWithVersion,
			Descriptor:    desc,
			ClassObj:      InvalidObj,
			MinProp:       rec.MinProp,
			PropXlat:      propXlat,
			FuncXlat:      funcXlat,
		}
		reverseMap[descIdx] = i
	}

	r.entries = entries
	r.reverseMap = reverseMap
	return nil
}

// EntryForDescriptor returns the loaded entry bound to descriptor index
// descIdx, or nil if that descriptor wasn't referenced by this load.
func (r *Registry) EntryForDescriptor(descIdx int) *Entry {
	if descIdx < 0 || descIdx >= len(r.reverseMap) {
		return nil
	}
	i := r.reverseMap[descIdx]
	if i < 0 || i >= len(r.entries) {
		return nil
	}
	return r.entries[i]
}

// EntryAt returns the loaded entry at image-local dependency index i.
func (r *Registry) EntryAt(i int) (*Entry, error) {
	if i < 0 || i >= len(r.entries) {
		return nil, ErrBadMetaclassIndex
	}
	return r.entries[i], nil
}

// descIndexOf returns the stable descriptor index for d, or -1.
func (r *Registry) descIndexOf(d *Descriptor) int {
	for i, desc := range r.descriptors {
		if desc == d {
			return i
		}
	}
	return -1
}

// GetProp implements the per-instance property dispatch of spec.md S4.1:
// translate prop to a function index via the registry entry for obj's
// descriptor, invoke the bound intrinsic function, and fall back to
// NOT_FOUND (ok=false) so callers continue up the general object model's
// inheritance chain. It also walks the modifier-object chain ahead of the
// metaclass vtable, per SPEC_FULL.md's vmmeta.cpp-grounded supplement.
func (r *Registry) GetProp(ctx *Context, objects *ObjTable, obj ObjID, descIdx int, prop PropID, args []V) (V, bool, error) {
	for modifier, ok := objects.ModifierOf(obj); ok; modifier, ok = objects.ModifierOf(modifier) {
		if inst := objects.Get(modifier); inst != nil {
			if v, ok, err := inst.GetProp(ctx, modifier, prop, args); ok || err != nil {
				return v, ok, err
			}
		}
	}

	entry := r.EntryForDescriptor(descIdx)
	if entry == nil {
		return V{}, false, nil
	}
	funcIdx := entry.FuncIndexFor(prop)
	if funcIdx == 0 {
		return V{}, false, nil
	}
	fn := entry.Descriptor.Funcs[funcIdx-1]
	if fn == nil {
		return V{}, false, nil
	}
	result, err := fn(ctx, obj, args)
	if err != nil {
		return V{}, false, err
	}
	return result, true, nil
}

// ClassObjFor returns entry's class object, creating and pinning one as a
// machine global if it doesn't exist yet (spec.md S4.1: "Any descriptor
// whose class_obj is INVALID after load/restore gets one dynamically
// created; dynamically created class objects are pinned as machine
// globals").
func (r *Registry) ClassObjFor(objects *ObjTable, entry *Entry, newClassObj func() Instance) ObjID {
	if entry.ClassObj != InvalidObj {
		return entry.ClassObj
	}
	id := objects.NewID(newClassObj(), true, false, false)
	objects.AddToGlobals(id)
	entry.ClassObj = id
	return id
}

// SavePayload produces the per-image save payload of spec.md S4.2/S6.3:
// name, class object id, function count, property range and the (smaller,
// equivalent) FuncXlat array, from which PropXlat can be rebuilt on
// restore.
type SavePayload struct {
	Name      string
	ClassObj  ObjID
	FuncCount uint16
	MinProp   PropID
	MaxProp   PropID
	FuncXlat  []PropID
}

// Save produces the save/restore payloads for every loaded entry (spec.md
// S4.1 "Save/restore").
func (r *Registry) Save() []SavePayload {
	out := make([]SavePayload, 0, len(r.entries))
	for _, e := range r.entries {
		if e == nil {
			continue
		}
		maxProp := e.MinProp
		if len(e.PropXlat) > 0 {
			maxProp = e.MinProp + PropID(len(e.PropXlat)) - 1
		}
		out = append(out, SavePayload{
			Name:      e.ImageMetaName,
			ClassObj:  e.ClassObj,
			FuncCount: uint16(len(e.FuncXlat)),
			MinProp:   e.MinProp,
			MaxProp:   maxProp,
			FuncXlat:  append([]PropID(nil), e.FuncXlat...),
		})
	}
	return out
}

// Restore rebuilds the dependency table from save payloads, re-deriving
// PropXlat from the smaller FuncXlat array (spec.md S4.1: "func_xlat is
// sufficient because it is the smaller and equivalent representation").
func (r *Registry) Restore(payloads []SavePayload) error {
	recs := make([]DepRecord, len(payloads))
	for i, p := range payloads {
		propMap := make(map[PropID]FuncIndex, len(p.FuncXlat))
		for idx, prop := range p.FuncXlat {
			if prop == InvalidProp {
				continue
			}
			propMap[prop] = FuncIndex(idx + 1)
		}
		recs[i] = DepRecord{
			NameWithVersion: p.Name,
			FuncCount:       p.FuncCount,
			MinProp:         p.MinProp,
			MaxProp:         p.MaxProp,
			PropMap:         propMap,
		}
	}
	if err := r.LoadDependencyTable(recs); err != nil {
		return err
	}
	for i, p := range payloads {
		if p.ClassObj != InvalidObj {
			r.entries[i].ClassObj = p.ClassObj
		}
	}
	return nil
}
