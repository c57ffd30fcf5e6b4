// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package metacore

import "testing"

func TestZoneDBFixedOffset(t *testing.T) {
	z := NewZoneDB(nil)
	rec := z.FixedOffset(-5*3600, "EST")
	if rec.StdOffset != -5*3600 || rec.StdAbbrev != "EST" {
		t.Errorf("FixedOffset = %+v, want StdOffset=-18000 StdAbbrev=EST", rec)
	}
	// Repeated lookups with the same abbreviation hit the cache.
	rec2 := z.FixedOffset(-5*3600, "EST")
	if rec2 != rec {
		t.Errorf("FixedOffset did not return the cached record on a repeat call")
	}
}

func TestZoneDBFixedOffsetGeneratesName(t *testing.T) {
	z := NewZoneDB(nil)
	rec := z.FixedOffset(5*3600+1800, "")
	if rec.StdAbbrev != "+0530" {
		t.Errorf("FixedOffset(5:30, \"\").StdAbbrev = %q, want +0530", rec.StdAbbrev)
	}
}

func TestZoneDBLookupAbbrev(t *testing.T) {
	z := NewZoneDB(nil)
	rec, err := z.LookupAbbrev("PST")
	if err != nil {
		t.Fatalf("LookupAbbrev(PST): %v", err)
	}
	if rec.StdOffset != -8*3600 {
		t.Errorf("LookupAbbrev(PST).StdOffset = %d, want %d", rec.StdOffset, -8*3600)
	}
	if _, err := z.LookupAbbrev("ZZZ"); err != ErrBadValBif {
		t.Errorf("LookupAbbrev(ZZZ) error = %v, want ErrBadValBif", err)
	}
}

func TestZoneDBRestoreSynthesizesUnknownZone(t *testing.T) {
	z := NewZoneDB(nil)
	rec := z.Restore("Moon/Tranquility_Base", 3600, 0, "MST", "")
	if !rec.Synthetic {
		t.Errorf("Restore(unknown name).Synthetic = false, want true")
	}
	if rec.StdOffset != 3600 || rec.StdAbbrev != "MST" {
		t.Errorf("Restore(unknown) = %+v, want StdOffset=3600 StdAbbrev=MST", rec)
	}
}

func TestTimeZoneOffsetAtFixed(t *testing.T) {
	z := NewZoneDB(nil)
	rec := z.FixedOffset(-7*3600, "MST")
	tz := &TimeZone{Zone: rec}
	cal := GregorianCalendar{}
	d := Date{Dayno: cal.ToDayno(2020, 6, 15), Daytime: 12 * 3600000}
	off, abbr := tz.OffsetAt(d)
	if off != -7*3600 {
		t.Errorf("OffsetAt fixed zone = %d, want %d", off, -7*3600)
	}
	if abbr != "MST" {
		t.Errorf("OffsetAt abbrev = %q, want MST", abbr)
	}
}

func TestTimeZoneOffsetAtNilZone(t *testing.T) {
	tz := &TimeZone{}
	off, abbr := tz.OffsetAt(Date{})
	if off != 0 || abbr != "UTC" {
		t.Errorf("OffsetAt(nil zone) = (%d, %q), want (0, UTC)", off, abbr)
	}
}
