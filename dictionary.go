// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package metacore

// Assoc is one (object, property) association a Dictionary entry maps a
// string to. FromImage marks associations loaded from the image file
// baseline, as opposed to ones added at runtime (spec.md S6.1 per-object
// payload distinguishes these for save purposes).
type Assoc struct {
	Obj       ObjID
	Prop      PropID
	FromImage bool
}

// dictAction labels a Dictionary undo record's private payload (spec.md
// S4.4 "Add/remove/set-comparator each emit a private undo record").
type dictAction int

const (
	dictActionAdd dictAction = iota
	dictActionDel
	dictActionSetComparator
)

type dictUndoPayload struct {
	action      dictAction
	str         string
	assoc       Assoc
	oldCmp      Comparator
	oldModified bool
}

// MetaclassDictionary is the registry base name for Dictionary.
const MetaclassDictionary = "dictionary2"

// Dictionary is the mutable string-association metaclass of spec.md
// S3.7/S4.4.
type Dictionary struct {
	comparator        Comparator
	hashtab           map[string][]Assoc
	trie              *Trie
	modifiedSinceLoad bool

	id   ObjID
	undo *UndoJournal
}

// NewDictionary creates an empty Dictionary, registering it with undo so
// its private undo records reach ApplyUndo/DiscardUndo.
func NewDictionary(id ObjID, undo *UndoJournal) *Dictionary {
	d := &Dictionary{
		comparator: ByteExactComparator{},
		hashtab:    make(map[string][]Assoc),
		id:         id,
		undo:       undo,
	}
	if undo != nil {
		undo.Register(id, d)
	}
	return d
}

// DescriptorName implements Instance.
func (*Dictionary) DescriptorName() string { return MetaclassDictionary }

// NotifyDelete implements Instance.
func (*Dictionary) NotifyDelete(*Context, ObjID) {}

// MarkRefs implements Instance; Dictionary's object references are weak
// (spec.md S3.7 invariant) and so are never traced by the GC mark phase.
func (*Dictionary) MarkRefs(func(ObjID)) {}

// RemoveStaleWeakRefs implements Instance: before GC sweep, drop every
// association whose target is about to be collected, trimming the trie
// accordingly (spec.md S3.7/S4.4).
func (d *Dictionary) RemoveStaleWeakRefs(isDeletable func(ObjID) bool) {
	for str, assocs := range d.hashtab {
		kept := assocs[:0]
		for _, a := range assocs {
			if isDeletable(a.Obj) {
				if d.trie != nil {
					d.trie.Remove(str)
				}
				continue
			}
			kept = append(kept, a)
		}
		if len(kept) == 0 {
			delete(d.hashtab, str)
		} else {
			d.hashtab[str] = kept
		}
	}
}

// GetProp implements Instance; see BigNumber.GetProp.
func (*Dictionary) GetProp(*Context, ObjID, PropID, []V) (V, bool, error) {
	return V{}, false, nil
}

// SetProp implements Instance; Dictionary exposes no settable properties.
func (*Dictionary) SetProp(*Context, ObjID, PropID, V) error { return ErrInvalidSetProp }

// Add inserts one (obj, prop) association for str (spec.md S4.4 "add").
func (d *Dictionary) Add(str string, obj ObjID, prop PropID, fromImage bool) {
	oldModified := d.modifiedSinceLoad
	assoc := Assoc{Obj: obj, Prop: prop, FromImage: fromImage}
	d.hashtab[str] = append(d.hashtab[str], assoc)
	if d.trie != nil {
		d.trie.Insert(str)
	}
	d.modifiedSinceLoad = true
	if d.undo != nil {
		d.undo.AddRecord(d.id, StringV(str), dictUndoPayload{action: dictActionAdd, str: str, assoc: assoc, oldModified: oldModified})
	}
}

// Del removes one matching (obj, prop) association for str (spec.md S4.4
// "del"). prop == InvalidProp matches any property.
func (d *Dictionary) Del(str string, obj ObjID, prop PropID) bool {
	assocs := d.hashtab[str]
	for i, a := range assocs {
		if a.Obj != obj {
			continue
		}
		if prop != InvalidProp && a.Prop != prop {
			continue
		}
		oldModified := d.modifiedSinceLoad
		d.hashtab[str] = append(assocs[:i], assocs[i+1:]...)
		if len(d.hashtab[str]) == 0 {
			delete(d.hashtab, str)
		}
		if d.trie != nil {
			d.trie.Remove(str)
		}
		d.modifiedSinceLoad = true
		if d.undo != nil {
			d.undo.AddRecord(d.id, StringV(str), dictUndoPayload{action: dictActionDel, str: str, assoc: a, oldModified: oldModified})
		}
		return true
	}
	return false
}

// FindMatch is one (object, match-quality) hit returned by Find.
type FindMatch struct {
	Obj     ObjID
	Quality int
}

// Find returns every association matching str (and, if prop is not
// InvalidProp, that property), with match quality from the comparator
// (spec.md S4.4 "find").
func (d *Dictionary) Find(str string, prop PropID) []FindMatch {
	var out []FindMatch
	for key, assocs := range d.hashtab {
		q := d.comparator.MatchValues(key, str)
		if q == 0 {
			continue
		}
		for _, a := range assocs {
			if prop != InvalidProp && a.Prop != prop {
				continue
			}
			out = append(out, FindMatch{Obj: a.Obj, Quality: q})
		}
	}
	return out
}

// IsDefined reports whether any entry matches str, optionally filtered by
// filter (called with each match quality; nil filter accepts any non-zero
// quality), per spec.md S4.4 "isDefined".
func (d *Dictionary) IsDefined(str string, filter func(quality int) bool) bool {
	for _, m := range d.Find(str, InvalidProp) {
		if filter == nil || filter(m.Quality) {
			return true
		}
	}
	return false
}

// ForEachWord invokes fn for every association, over a snapshot so fn may
// mutate the Dictionary concurrently without corrupting the iteration
// (spec.md S4.4 "forEachWord").
func (d *Dictionary) ForEachWord(fn func(obj ObjID, str string, prop PropID)) {
	type entry struct {
		str string
		a   Assoc
	}
	var snapshot []entry
	for str, assocs := range d.hashtab {
		for _, a := range assocs {
			snapshot = append(snapshot, entry{str: str, a: a})
		}
	}
	for _, e := range snapshot {
		fn(e.a.Obj, e.str, e.a.Prop)
	}
}

// SetComparator changes the comparator and rebuilds the hash table,
// entries preserved and hashes recomputed, under undo (spec.md S4.4
// "setComparator", S3.7 "changing the comparator rebuilds the hash
// table"). The hash table here is keyed by string value directly (Go
// maps hash their own keys), so "rebuilding" means re-grouping entries by
// the new comparator's notion of equality rather than recomputing an
// explicit integer hash, and any trie is invalidated.
func (d *Dictionary) SetComparator(cmp Comparator) {
	old := d.comparator
	oldModified := d.modifiedSinceLoad
	if d.undo != nil {
		d.undo.AddRecord(d.id, V{}, dictUndoPayload{action: dictActionSetComparator, oldCmp: old, oldModified: oldModified})
	}
	d.comparator = cmp
	d.rebuild()
	d.modifiedSinceLoad = true
}

// rebuild re-groups hashtab's associations under the current comparator's
// equality notion and discards any existing trie (it will be rebuilt
// lazily on the next Correct call).
func (d *Dictionary) rebuild() {
	type bucket struct {
		key    string
		assocs []Assoc
	}
	var buckets []bucket
	for str, assocs := range d.hashtab {
		placed := false
		for i := range buckets {
			if d.comparator.MatchValues(buckets[i].key, str) != 0 {
				buckets[i].assocs = append(buckets[i].assocs, assocs...)
				placed = true
				break
			}
		}
		if !placed {
			buckets = append(buckets, bucket{key: str, assocs: append([]Assoc(nil), assocs...)})
		}
	}
	newTab := make(map[string][]Assoc, len(buckets))
	for _, b := range buckets {
		newTab[b.key] = b.assocs
	}
	d.hashtab = newTab
	d.trie = nil
}

// ensureTrie lazily builds the trie from the current hash table (spec.md
// S3.7 "trie (optional, built lazily)").
func (d *Dictionary) ensureTrie() *Trie {
	if d.trie == nil {
		t := NewTrie()
		for str, assocs := range d.hashtab {
			for range assocs {
				t.Insert(str)
			}
		}
		d.trie = t
	}
	return d.trie
}

// Correct runs spell correction over the dictionary's words (spec.md
// S4.4).
func (d *Dictionary) Correct(str string, maxDist int) []Correction {
	return d.ensureTrie().Correct(str, maxDist, d.comparator)
}

// ApplyUndo implements Undoable: inverts an add (remove), del (re-insert),
// or setComparator (restore old comparator and rebuild) record, then
// restores modifiedSinceLoad to its pre-mutation value (spec.md DC1:
// rollback must restore "hash table, trie word counts, comparator, and
// modified flag exactly to their state at the savepoint").
func (d *Dictionary) ApplyUndo(rec *Record) {
	p, ok := rec.Extra.(dictUndoPayload)
	if !ok {
		return
	}
	switch p.action {
	case dictActionAdd:
		assocs := d.hashtab[p.str]
		for i, a := range assocs {
			if a == p.assoc {
				d.hashtab[p.str] = append(assocs[:i], assocs[i+1:]...)
				if len(d.hashtab[p.str]) == 0 {
					delete(d.hashtab, p.str)
				}
				if d.trie != nil {
					d.trie.Remove(p.str)
				}
				break
			}
		}
	case dictActionDel:
		d.hashtab[p.str] = append(d.hashtab[p.str], p.assoc)
		if d.trie != nil {
			d.trie.Insert(p.str)
		}
	case dictActionSetComparator:
		d.comparator = p.oldCmp
		d.rebuild()
	}
	d.modifiedSinceLoad = p.oldModified
}

// DiscardUndo implements Undoable; nothing to release beyond the record
// itself.
func (d *Dictionary) DiscardUndo(*Record) {}

// MarkUndoRef implements Undoable: the association's object is a weak
// reference even inside an undo record.
func (d *Dictionary) MarkUndoRef(*Record, func(ObjID)) {}

// RemoveStaleUndoWeakRef implements Undoable; it does nothing, so pending
// undo records are not cleaned of collected objects: RemoveStaleWeakRefs
// keeps the live hash table consistent, a rolled-back add record whose
// association was already swept finds nothing to remove, and a rolled-back
// del record re-inserts its association as recorded, whether or not its
// object has since been collected.
func (d *Dictionary) RemoveStaleUndoWeakRef(*Record, func(ObjID) bool) {}
