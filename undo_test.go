// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package metacore

import "testing"

// recordingUndoable captures the records ApplyUndo/DiscardUndo receive, for
// asserting on the journal's own bookkeeping independent of any specific
// metaclass.
type recordingUndoable struct {
	applied   []*Record
	discarded []*Record
}

func (r *recordingUndoable) ApplyUndo(rec *Record)                           { r.applied = append(r.applied, rec) }
func (r *recordingUndoable) DiscardUndo(rec *Record)                         { r.discarded = append(r.discarded, rec) }
func (r *recordingUndoable) MarkUndoRef(*Record, func(ObjID))                 {}
func (r *recordingUndoable) RemoveStaleUndoWeakRef(*Record, func(ObjID) bool) {}

func TestUndoJournalAddRecordRequiresSavepoint(t *testing.T) {
	j := NewUndoJournal(nil)
	u := &recordingUndoable{}
	j.Register(ObjID(1), u)

	if j.AddRecord(ObjID(1), IntV(1), "x") {
		t.Errorf("AddRecord without an active savepoint = true, want false")
	}
}

func TestUndoJournalRollbackReverseOrder(t *testing.T) {
	j := NewUndoJournal(nil)
	u := &recordingUndoable{}
	j.Register(ObjID(1), u)

	sp := j.Savepoint()
	j.AddRecord(ObjID(1), IntV(1), "first")
	j.AddRecord(ObjID(1), IntV(2), "second")
	j.Rollback(sp)

	if len(u.applied) != 2 {
		t.Fatalf("ApplyUndo called %d times, want 2", len(u.applied))
	}
	if u.applied[0].Extra != "second" || u.applied[1].Extra != "first" {
		t.Errorf("ApplyUndo order = [%v, %v], want [second, first] (strict reverse)", u.applied[0].Extra, u.applied[1].Extra)
	}
}

func TestUndoJournalNestedSavepoints(t *testing.T) {
	j := NewUndoJournal(nil)
	u := &recordingUndoable{}
	j.Register(ObjID(1), u)

	outer := j.Savepoint()
	j.AddRecord(ObjID(1), IntV(1), "outer")
	inner := j.Savepoint()
	j.AddRecord(ObjID(1), IntV(2), "inner")

	j.Rollback(inner)
	if len(u.applied) != 1 || u.applied[0].Extra != "inner" {
		t.Fatalf("after inner rollback, applied = %v, want just [inner]", u.applied)
	}

	j.Rollback(outer)
	if len(u.applied) != 2 || u.applied[1].Extra != "outer" {
		t.Fatalf("after outer rollback, applied = %v, want [inner outer]", u.applied)
	}
}

func TestUndoJournalDiscard(t *testing.T) {
	j := NewUndoJournal(nil)
	u := &recordingUndoable{}
	j.Register(ObjID(1), u)

	sp := j.Savepoint()
	j.AddRecord(ObjID(1), IntV(1), "a")
	j.AddRecord(ObjID(1), IntV(2), "b")
	j.Discard(sp)

	if len(u.discarded) != 2 {
		t.Fatalf("DiscardUndo called %d times, want 2", len(u.discarded))
	}
	if u.discarded[0].Extra != "a" || u.discarded[1].Extra != "b" {
		t.Errorf("Discard order = [%v, %v], want forward order [a, b]", u.discarded[0].Extra, u.discarded[1].Extra)
	}
	// A rollback to a discarded savepoint is a no-op; the journal has
	// already forgotten it.
	j.Rollback(sp)
	if len(u.applied) != 0 {
		t.Errorf("Rollback after Discard invoked ApplyUndo %d times, want 0", len(u.applied))
	}
}
