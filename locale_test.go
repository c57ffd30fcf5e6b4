// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package metacore

import "testing"

func TestLocaleTableDefaults(t *testing.T) {
	loc := NewLocaleTable(nil)
	months := loc.List(LCMonth)
	if len(months) != 12 || months[0] != "January" || months[11] != "December" {
		t.Errorf("List(LCMonth) = %v, want 12 entries starting January, ending December", months)
	}
	era := loc.List(LCEra)
	if len(era) != 2 || era[0] != "BC" || era[1] != "AD" {
		t.Errorf("List(LCEra) = %v, want [BC AD] (alias resolved to primary name)", era)
	}
}

func TestLocaleTableSetAndApplyUndo(t *testing.T) {
	undo := NewUndoJournal(nil)
	loc := NewLocaleTable(undo)

	sp := undo.Savepoint()
	loc.SetLocaleInfo(LCAmPm, "morning,evening")
	if got := loc.Get(LCAmPm); got != "morning,evening" {
		t.Fatalf("Get(LCAmPm) after Set = %q, want %q", got, "morning,evening")
	}
	undo.Rollback(sp)
	if got := loc.Get(LCAmPm); got != "AM,PM" {
		t.Errorf("Get(LCAmPm) after rollback = %q, want original %q", got, "AM,PM")
	}
}

func TestLocaleTableOutOfRangeSlot(t *testing.T) {
	loc := NewLocaleTable(nil)
	if got := loc.Get(LocaleSlot(999)); got != "" {
		t.Errorf("Get(out-of-range) = %q, want empty", got)
	}
	// Should not panic.
	loc.SetLocaleInfo(LocaleSlot(-1), "x")
}
