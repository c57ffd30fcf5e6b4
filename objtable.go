// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package metacore

import (
	"github.com/go-kratos/kratos/v2/log"
)

// ObjFlags tracks the per-object bits spec.md S3.2 requires.
type ObjFlags uint8

const (
	FlagInRootSet ObjFlags = 1 << iota
	FlagReachable
	FlagCanHaveRefs
	FlagFinalizeOnGC
	FlagPostLoadInitDone
)

// Instance is the polymorphism boundary spec.md S9 calls out: a closed sum
// type over the core metaclasses, since registration is static and known
// at VM-init time. Each concrete metaclass (BigNumber, Date, TimeZone,
// Dictionary, StringBuffer, ...) implements this interface.
type Instance interface {
	// DescriptorName identifies the owning metaclass, used to resolve the
	// registry entry on every property dispatch (spec.md S4.1).
	DescriptorName() string

	// NotifyDelete runs once, when the object table is about to free id.
	NotifyDelete(ctx *Context, id ObjID)

	// MarkRefs reports every ObjID this instance holds a strong reference
	// to, for the GC's mark phase.
	MarkRefs(visit func(ObjID))

	// RemoveStaleWeakRefs is called before sweep so instances holding weak
	// references (e.g. Dictionary) can drop entries pointing at objects
	// about to be collected.
	RemoveStaleWeakRefs(isDeletable func(ObjID) bool)

	// GetProp dispatches a property fetch; ok is false to mean "property
	// not handled here, continue up the inheritance chain" (spec.md S4.1).
	GetProp(ctx *Context, self ObjID, prop PropID, args []V) (result V, ok bool, err error)

	// SetProp dispatches a property assignment.
	SetProp(ctx *Context, self ObjID, prop PropID, val V) error
}

// entry is one slot of the object table.
type entry struct {
	inst     Instance
	flags    ObjFlags
	modifier ObjID
}

// ObjTable owns object id allocation, extension storage and GC state
// (spec.md S3.2/S6.4). The entry at index 0 is never used; ids start at 1
// so the zero value remains InvalidObj.
type ObjTable struct {
	entries []entry
	globals map[ObjID]bool
	logger  *log.Helper
}

// NewObjTable creates an empty object table.
func NewObjTable(logger *log.Helper) *ObjTable {
	return &ObjTable{
		entries: make([]entry, 1), // index 0 reserved
		globals: make(map[ObjID]bool),
		logger:  logger,
	}
}

// NewID allocates a fresh object id bound to inst. An id is valid from
// allocation until its NotifyDelete runs; it is never reissued within the
// session (spec.md S3.2 invariant).
func (t *ObjTable) NewID(inst Instance, inRootSet, canHaveRefs, finalizeOnGC bool) ObjID {
	var flags ObjFlags
	if inRootSet {
		flags |= FlagInRootSet
	}
	if canHaveRefs {
		flags |= FlagCanHaveRefs
	}
	if finalizeOnGC {
		flags |= FlagFinalizeOnGC
	}

	id := ObjID(len(t.entries))
	t.entries = append(t.entries, entry{inst: inst, flags: flags})
	return id
}

// AllocWithID binds inst to a specific id, used when restoring an image or
// a save file that records explicit ids.
func (t *ObjTable) AllocWithID(id ObjID, inst Instance, canHaveRefs bool) {
	for ObjID(len(t.entries)) <= id {
		t.entries = append(t.entries, entry{})
	}
	flags := t.entries[id].flags
	if canHaveRefs {
		flags |= FlagCanHaveRefs
	}
	t.entries[id] = entry{inst: inst, flags: flags}
}

// Get returns the instance bound to id, or nil if id is unallocated.
func (t *ObjTable) Get(id ObjID) Instance {
	if int(id) >= len(t.entries) {
		return nil
	}
	return t.entries[id].inst
}

// Flags returns id's flag bits.
func (t *ObjTable) Flags(id ObjID) ObjFlags {
	if int(id) >= len(t.entries) {
		return 0
	}
	return t.entries[id].flags
}

// SetFlags ORs extra bits into id's flags.
func (t *ObjTable) SetFlags(id ObjID, extra ObjFlags) {
	if int(id) < len(t.entries) {
		t.entries[id].flags |= extra
	}
}

// ModifierOf returns the chained modifier object for id, if any. This
// supplements spec.md S4.1's direct-dispatch pseudocode per vmmeta.cpp's
// modifier-object chaining (SPEC_FULL.md): Registry.GetProp walks this
// chain before reporting NOT_FOUND.
func (t *ObjTable) ModifierOf(id ObjID) (ObjID, bool) {
	if int(id) >= len(t.entries) {
		return InvalidObj, false
	}
	m := t.entries[id].modifier
	return m, m != InvalidObj
}

// SetModifier installs id's modifier object.
func (t *ObjTable) SetModifier(id, modifier ObjID) {
	if int(id) < len(t.entries) {
		t.entries[id].modifier = modifier
	}
}

// AddToGlobals pins id as a machine global, reachable but not traced
// through any owning object (spec.md S4.1, "dynamically created class
// objects are pinned as machine globals").
func (t *ObjTable) AddToGlobals(id ObjID) {
	t.globals[id] = true
}

// IsObjPersistent reports whether id is a machine global or otherwise
// permanently rooted.
func (t *ObjTable) IsObjPersistent(id ObjID) bool {
	if t.globals[id] {
		return true
	}
	return t.Flags(id)&FlagInRootSet != 0
}

// IsObjDeletable reports whether id may be freed by the GC: allocated,
// not persistent, and not currently marked reachable.
func (t *ObjTable) IsObjDeletable(id ObjID) bool {
	if int(id) >= len(t.entries) || t.entries[id].inst == nil {
		return false
	}
	if t.IsObjPersistent(id) {
		return false
	}
	return t.Flags(id)&FlagReachable == 0
}

// MarkAllRefs runs the mark phase starting from the root set and globals,
// setting FlagReachable on every object transitively reachable.
func (t *ObjTable) MarkAllRefs(ctx *Context) {
	for i := range t.entries {
		t.entries[i].flags &^= FlagReachable
	}

	var stack []ObjID
	for id, e := range t.entries {
		if id == 0 {
			continue
		}
		if e.flags&FlagInRootSet != 0 || t.globals[ObjID(id)] {
			stack = append(stack, ObjID(id))
		}
	}

	for len(stack) > 0 {
		n := len(stack) - 1
		id := stack[n]
		stack = stack[:n]

		if int(id) >= len(t.entries) {
			continue
		}
		if t.entries[id].flags&FlagReachable != 0 {
			continue
		}
		t.entries[id].flags |= FlagReachable

		if inst := t.entries[id].inst; inst != nil {
			inst.MarkRefs(func(ref ObjID) {
				if ref != InvalidObj {
					stack = append(stack, ref)
				}
			})
		}
		if m, ok := t.ModifierOf(id); ok {
			stack = append(stack, m)
		}
	}
}

// Sweep notifies weak-reference holders, then reclaims every unreachable,
// non-persistent object, invoking NotifyDelete on each and clearing its
// slot; NewID never hands a swept id out again. Per spec.md S3.2, "during GC, weak-reference-holders
// see each prospective deletion and may clear their references before
// sweep."
func (t *ObjTable) Sweep(ctx *Context) []ObjID {
	isDeletable := t.IsObjDeletable

	for id, e := range t.entries {
		if id == 0 || e.inst == nil {
			continue
		}
		e.inst.RemoveStaleWeakRefs(isDeletable)
	}

	var freed []ObjID
	for id := range t.entries {
		oid := ObjID(id)
		if oid == 0 || !isDeletable(oid) {
			continue
		}
		if inst := t.entries[id].inst; inst != nil {
			inst.NotifyDelete(ctx, oid)
		}
		t.entries[id] = entry{}
		freed = append(freed, oid)
	}
	return freed
}

// PostLoadInit marks id as having run its post-load initialization, and
// reports whether this is the first such call (spec.md S3.2: "at most once
// per object per load/restore/reset").
func (t *ObjTable) PostLoadInit(id ObjID) (shouldRun bool) {
	if int(id) >= len(t.entries) {
		return false
	}
	if t.entries[id].flags&FlagPostLoadInitDone != 0 {
		return false
	}
	t.entries[id].flags |= FlagPostLoadInitDone
	return true
}

// ResetPostLoadInit clears the post-load-init-requested bit for every
// object, called on load/restore/reset per spec.md S3.2.
func (t *ObjTable) ResetPostLoadInit() {
	for i := range t.entries {
		t.entries[i].flags &^= FlagPostLoadInitDone
	}
}
