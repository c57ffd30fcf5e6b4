// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package metacore

import "testing"

func TestDictionaryAddFind(t *testing.T) {
	d := NewDictionary(ObjID(1), nil)
	d.Add("take", ObjID(10), PropID(1), false)
	d.Add("take", ObjID(11), PropID(2), false)

	matches := d.Find("take", InvalidProp)
	if len(matches) != 2 {
		t.Fatalf("Find(take) = %v, want 2 matches", matches)
	}

	matches = d.Find("take", PropID(1))
	if len(matches) != 1 || matches[0].Obj != ObjID(10) {
		t.Errorf("Find(take, prop=1) = %v, want one match for obj 10", matches)
	}

	if matches := d.Find("missing", InvalidProp); len(matches) != 0 {
		t.Errorf("Find(missing) = %v, want none", matches)
	}
}

func TestDictionaryDel(t *testing.T) {
	d := NewDictionary(ObjID(1), nil)
	d.Add("word", ObjID(10), PropID(1), false)
	d.Add("word", ObjID(11), PropID(2), false)

	if !d.Del("word", ObjID(10), InvalidProp) {
		t.Fatalf("Del(word, 10) = false, want true")
	}
	matches := d.Find("word", InvalidProp)
	if len(matches) != 1 || matches[0].Obj != ObjID(11) {
		t.Errorf("after Del, Find(word) = %v, want one match for obj 11", matches)
	}
	if d.Del("word", ObjID(99), InvalidProp) {
		t.Errorf("Del(word, 99) = true, want false (no such association)")
	}
}

func TestDictionaryIsDefined(t *testing.T) {
	d := NewDictionary(ObjID(1), nil)
	d.Add("lamp", ObjID(5), PropID(1), false)

	if !d.IsDefined("lamp", nil) {
		t.Errorf("IsDefined(lamp) = false, want true")
	}
	if d.IsDefined("torch", nil) {
		t.Errorf("IsDefined(torch) = true, want false")
	}
	if d.IsDefined("lamp", func(q int) bool { return q > 100 }) {
		t.Errorf("IsDefined(lamp, quality>100) = true, want false")
	}
}

func TestDictionaryForEachWord(t *testing.T) {
	d := NewDictionary(ObjID(1), nil)
	d.Add("a", ObjID(1), PropID(1), false)
	d.Add("b", ObjID(2), PropID(1), false)

	seen := map[string]ObjID{}
	d.ForEachWord(func(obj ObjID, str string, prop PropID) {
		seen[str] = obj
	})
	if len(seen) != 2 || seen["a"] != ObjID(1) || seen["b"] != ObjID(2) {
		t.Errorf("ForEachWord visited %v, want a->1, b->2", seen)
	}
}

func TestDictionarySetComparator(t *testing.T) {
	d := NewDictionary(ObjID(1), nil)
	d.Add("Lamp", ObjID(5), PropID(1), false)

	// Byte-exact: "lamp" shouldn't match "Lamp".
	if d.IsDefined("lamp", nil) {
		t.Fatalf("IsDefined(lamp) under byte-exact = true, want false")
	}

	d.SetComparator(NewStringComparator())
	if !d.IsDefined("lamp", nil) {
		t.Errorf("IsDefined(lamp) under StringComparator = false, want true (case-folded)")
	}
}

func TestDictionaryUndoAddDel(t *testing.T) {
	undo := NewUndoJournal(nil)
	d := NewDictionary(ObjID(1), undo)

	sp := undo.Savepoint()
	d.Add("word", ObjID(10), PropID(1), false)
	if !d.IsDefined("word", nil) {
		t.Fatalf("IsDefined(word) after Add = false, want true")
	}
	undo.Rollback(sp)
	if d.IsDefined("word", nil) {
		t.Errorf("IsDefined(word) after rollback of Add = true, want false")
	}

	sp2 := undo.Savepoint()
	d.Add("word", ObjID(10), PropID(1), false)
	undo.Discard(sp2)
	sp3 := undo.Savepoint()
	d.Del("word", ObjID(10), InvalidProp)
	undo.Rollback(sp3)
	if !d.IsDefined("word", nil) {
		t.Errorf("IsDefined(word) after rollback of Del = false, want true")
	}
}

func TestDictionaryUndoRestoresModifiedFlag(t *testing.T) {
	undo := NewUndoJournal(nil)
	d := NewDictionary(ObjID(1), undo)

	if d.modifiedSinceLoad {
		t.Fatalf("modifiedSinceLoad = true before any mutation, want false")
	}

	sp := undo.Savepoint()
	d.Add("word", ObjID(10), PropID(1), false)
	if !d.modifiedSinceLoad {
		t.Fatalf("modifiedSinceLoad = false after Add, want true")
	}
	undo.Rollback(sp)
	if d.modifiedSinceLoad {
		t.Errorf("modifiedSinceLoad = true after rollback of Add, want false")
	}

	// A second mutation recorded on top of an already-modified dictionary
	// must roll back to "modified", not to "clean".
	d.Add("base", ObjID(11), PropID(1), false)
	if !d.modifiedSinceLoad {
		t.Fatalf("modifiedSinceLoad = false after base Add, want true")
	}
	sp2 := undo.Savepoint()
	d.Add("word", ObjID(10), PropID(1), false)
	undo.Rollback(sp2)
	if !d.modifiedSinceLoad {
		t.Errorf("modifiedSinceLoad = false after rollback atop a prior mutation, want true (still dirty from base Add)")
	}
}

func TestDictionaryRemoveStaleWeakRefs(t *testing.T) {
	d := NewDictionary(ObjID(1), nil)
	d.Add("keep", ObjID(10), PropID(1), false)
	d.Add("drop", ObjID(20), PropID(1), false)

	d.RemoveStaleWeakRefs(func(o ObjID) bool { return o == ObjID(20) })

	if !d.IsDefined("keep", nil) {
		t.Errorf("IsDefined(keep) after sweep = false, want true")
	}
	if d.IsDefined("drop", nil) {
		t.Errorf("IsDefined(drop) after sweep = true, want false (target was swept)")
	}
}
