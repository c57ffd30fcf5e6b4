// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package metacore

import (
	"github.com/go-kratos/kratos/v2/log"
)

// Record is one entry in the undo journal: an (object, key-value, extra)
// triple (spec.md S2/S3.2). Extra carries a metaclass-private payload, e.g.
// Dictionary's add/remove/set-comparator action or StringBuffer's
// insert/delete/replace splice.
type Record struct {
	Obj   ObjID
	Key   V
	Extra any
}

// Undoable is implemented by every metaclass whose mutations are journaled
// (spec.md S3.3 vtable: apply_undo, discard_undo, mark_undo_ref,
// remove_stale_undo_weak_ref).
type Undoable interface {
	ApplyUndo(rec *Record)
	DiscardUndo(rec *Record)
	MarkUndoRef(rec *Record, visit func(ObjID))
	RemoveStaleUndoWeakRef(rec *Record, isDeletable func(ObjID) bool)
}

// Savepoint names a position in the journal rollback can return to.
type Savepoint int

// UndoJournal is the append-only record stream with savepoints spec.md
// S2/S5 describes. Mutation-visible effects are strictly sequential in
// program order; rollback applies records strictly in reverse (S5).
type UndoJournal struct {
	records    []Record
	savepoints []int
	undoable   map[ObjID]Undoable
	logger     *log.Helper
}

// NewUndoJournal creates an empty journal.
func NewUndoJournal(logger *log.Helper) *UndoJournal {
	return &UndoJournal{
		undoable: make(map[ObjID]Undoable),
		logger:   logger,
	}
}

// Register associates obj with the Undoable that should receive apply/
// discard callbacks for records it owns. Metaclass constructors call this
// once at construction.
func (j *UndoJournal) Register(obj ObjID, u Undoable) {
	j.undoable[obj] = u
}

// AddRecord appends a new undo record in program order, mirroring the
// collaborator hook add_new_record_ptr_key(obj, ptr, value) -> bool from
// spec.md S6.4. It returns false only if the journal has no active
// savepoint, matching the original's "no-op outside undo" behavior: a
// caller with no enclosing savepoint need not pay for recording an undo it
// will never roll back.
func (j *UndoJournal) AddRecord(obj ObjID, key V, extra any) bool {
	if len(j.savepoints) == 0 {
		return false
	}
	j.records = append(j.records, Record{Obj: obj, Key: key, Extra: extra})
	return true
}

// Savepoint creates and returns a new rollback point at the journal's
// current length.
func (j *UndoJournal) Savepoint() Savepoint {
	j.savepoints = append(j.savepoints, len(j.records))
	return Savepoint(len(j.savepoints) - 1)
}

// Rollback undoes every record appended since sp was taken, walking the
// journal strictly in reverse and invoking ApplyUndo on the object that
// registered each record (spec.md S5).
func (j *UndoJournal) Rollback(sp Savepoint) {
	if int(sp) >= len(j.savepoints) {
		return
	}
	mark := j.savepoints[sp]
	for i := len(j.records) - 1; i >= mark; i-- {
		rec := j.records[i]
		if u, ok := j.undoable[rec.Obj]; ok {
			u.ApplyUndo(&rec)
		}
	}
	j.records = j.records[:mark]
	j.savepoints = j.savepoints[:sp]
}

// Discard drops sp and every later savepoint, calling DiscardUndo on each
// record appended since sp. The records themselves stay in the journal, so
// a Rollback to an earlier, still-active savepoint applies them too.
func (j *UndoJournal) Discard(sp Savepoint) {
	if int(sp) >= len(j.savepoints) {
		return
	}
	mark := j.savepoints[sp]
	for i := mark; i < len(j.records); i++ {
		rec := j.records[i]
		if u, ok := j.undoable[rec.Obj]; ok {
			u.DiscardUndo(&rec)
		}
	}
	j.savepoints = j.savepoints[:sp]
}
