// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package metacore

import "strings"

// LocaleSlot indexes the 15-slot locale-string vector of spec.md S4.3.
type LocaleSlot int

const (
	LCMonth LocaleSlot = iota
	LCMon
	LCWeekday
	LCWkdy
	LCAmPm
	LCEra
	LCParseFilter
	LCOrdSuf
	LCFmtC
	LCFmtX
	LCFmtBigX
	LCFmtD
	LCFmtF
	LCFmtR
	LCFmtT
	localeSlotCount
)

// localeTableObjID is a reserved sentinel under which the locale table's
// undo records are filed with the journal; the table itself is a
// class-level singleton, not an ordinary tracked object.
const localeTableObjID = ObjID(0xFFFFFFFF)

// LocaleTable holds the comma-separated locale strings spec.md S4.3's
// formatter and parser consult, with C-locale defaults. Each slot's value
// is a comma-separated list where '=' marks an alias (e.g. an era name
// with both long and abbreviated spellings).
type LocaleTable struct {
	slots [localeSlotCount]string
	undo  *UndoJournal
}

// NewLocaleTable creates a LocaleTable with the default (English, US)
// locale strings spec.md S4.3 implies via its %-code/composite-string
// descriptions.
func NewLocaleTable(undo *UndoJournal) *LocaleTable {
	t := &LocaleTable{undo: undo}
	t.slots[LCMonth] = "January,February,March,April,May,June,July,August,September,October,November,December"
	t.slots[LCMon] = "Jan,Feb,Mar,Apr,May,Jun,Jul,Aug,Sep,Oct,Nov,Dec"
	t.slots[LCWeekday] = "Sunday,Monday,Tuesday,Wednesday,Thursday,Friday,Saturday"
	t.slots[LCWkdy] = "Sun,Mon,Tue,Wed,Thu,Fri,Sat"
	t.slots[LCAmPm] = "AM,PM"
	t.slots[LCEra] = "BC=B.C.,AD=A.D."
	t.slots[LCParseFilter] = "us"
	t.slots[LCOrdSuf] = "st,nd,rd,th"
	t.slots[LCFmtC] = "%a %b %e %H:%M:%S %Y"
	t.slots[LCFmtX] = "%m/%d/%y"
	t.slots[LCFmtBigX] = "%H:%M:%S"
	t.slots[LCFmtD] = "%m/%d/%y"
	t.slots[LCFmtF] = "%Y-%m-%d"
	t.slots[LCFmtR] = "%I:%M:%S %p"
	t.slots[LCFmtT] = "%H:%M:%S"
	if undo != nil {
		undo.Register(localeTableObjID, t)
	}
	return t
}

// Get returns the raw comma-separated string for slot.
func (t *LocaleTable) Get(slot LocaleSlot) string {
	if slot < 0 || int(slot) >= int(localeSlotCount) {
		return ""
	}
	return t.slots[slot]
}

// List splits slot's value into its comma-separated entries, resolving any
// "name=alias" pair to its primary name (the part before '=').
func (t *LocaleTable) List(slot LocaleSlot) []string {
	raw := strings.Split(t.Get(slot), ",")
	out := make([]string, len(raw))
	for i, e := range raw {
		if j := strings.IndexByte(e, '='); j >= 0 {
			e = e[:j]
		}
		out[i] = e
	}
	return out
}

// SetLocaleInfo overwrites slot under undo (spec.md S4.3 "The
// setLocaleInfo class method overwrites individual slots under undo").
func (t *LocaleTable) SetLocaleInfo(slot LocaleSlot, value string) {
	if slot < 0 || int(slot) >= int(localeSlotCount) {
		return
	}
	old := t.slots[slot]
	if t.undo != nil {
		t.undo.AddRecord(localeTableObjID, IntV(int32(slot)), old)
	}
	t.slots[slot] = value
}

// ApplyUndo implements Undoable: restores the slot's prior value.
func (t *LocaleTable) ApplyUndo(rec *Record) {
	i, _ := rec.Key.Int()
	slot := LocaleSlot(i)
	if slot < 0 || int(slot) >= int(localeSlotCount) {
		return
	}
	t.slots[slot] = rec.Extra.(string)
}

// DiscardUndo implements Undoable; nothing to release.
func (t *LocaleTable) DiscardUndo(*Record) {}

// MarkUndoRef implements Undoable; locale records hold no object refs.
func (t *LocaleTable) MarkUndoRef(*Record, func(ObjID)) {}

// RemoveStaleUndoWeakRef implements Undoable; no-op, see MarkUndoRef.
func (t *LocaleTable) RemoveStaleUndoWeakRef(*Record, func(ObjID) bool) {}
