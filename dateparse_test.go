// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package metacore

import "testing"

func TestParseISODate(t *testing.T) {
	p := NewParser(nil)
	res, err := p.Parse("2024-03-05")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !res.HasYear || res.Year != 2024 || !res.HasMonth || res.Month != 3 || !res.HasDay || res.Day != 5 {
		t.Errorf("res = %+v, want year=2024 month=3 day=5", res)
	}
}

func TestParseISO8601WithOffset(t *testing.T) {
	p := NewParser(nil)
	res, err := p.Parse("2024-03-05T10:15:30+05:00")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if res.Year != 2024 || res.Month != 3 || res.Day != 5 {
		t.Errorf("date = %d-%d-%d, want 2024-3-5", res.Year, res.Month, res.Day)
	}
	if res.Hour != 10 || res.Minute != 15 || res.Second != 30 {
		t.Errorf("time = %d:%d:%d, want 10:15:30", res.Hour, res.Minute, res.Second)
	}
	if !res.HasTZOffset || res.TZOffsetSec != 5*3600 {
		t.Errorf("TZOffsetSec = %d (has=%v), want %d", res.TZOffsetSec, res.HasTZOffset, 5*3600)
	}
}

func TestParseUSNumericYY(t *testing.T) {
	p := NewParser(nil)
	res, err := p.Parse("03/05/24")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !res.HasMonth || res.Month != 3 || !res.HasDay || res.Day != 5 {
		t.Errorf("res = %+v, want month=3 day=5", res)
	}
	if !res.YYNeedsCentury || res.Year != 24 {
		t.Errorf("res.Year = %d (needsCentury=%v), want 24 (true)", res.Year, res.YYNeedsCentury)
	}
}

func TestParseLongDate(t *testing.T) {
	p := NewParser(nil)
	res, err := p.Parse("March 5, 2024")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if res.Month != 3 || res.Day != 5 || res.Year != 2024 {
		t.Errorf("res = %+v, want 2024-03-05", res)
	}
}

func TestParseTimeOnly(t *testing.T) {
	p := NewParser(nil)
	res, err := p.Parse("10:15:30")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if res.Hour != 10 || res.Minute != 15 || res.Second != 30 {
		t.Errorf("res = %+v, want 10:15:30", res)
	}
}

func TestParseUnixTimestamp(t *testing.T) {
	p := NewParser(nil)
	res, err := p.Parse("1700000000")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !res.HasUnix || res.UnixSeconds != 1700000000 {
		t.Errorf("res = %+v, want UnixSeconds=1700000000", res)
	}
}

func TestParseInvalid(t *testing.T) {
	p := NewParser(nil)
	if _, err := p.Parse("not a date at all!!"); err != ErrBadValBif {
		t.Errorf("Parse(garbage) error = %v, want ErrBadValBif", err)
	}
}

func TestResolveISODate(t *testing.T) {
	cal := GregorianCalendar{}
	p := NewParser(nil)
	res, err := p.Parse("2024-03-05")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ref := Date{Dayno: cal.ToDayno(2020, 1, 1)}
	got, err := Resolve(cal, res, ref, 2020)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	wantDayno := cal.ToDayno(2024, 3, 5)
	if got.Dayno != wantDayno || got.Daytime != 0 {
		t.Errorf("Resolve = %+v, want dayno=%d daytime=0", got, wantDayno)
	}
}

func TestResolveUnixTimestamp(t *testing.T) {
	cal := GregorianCalendar{}
	p := NewParser(nil)
	res, err := p.Parse("0")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ref := Date{Dayno: cal.ToDayno(2020, 1, 1)}
	got, err := Resolve(cal, res, ref, 2020)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	wantDayno := cal.ToDayno(1970, 1, 1)
	if got.Dayno != wantDayno || got.Daytime != 0 {
		t.Errorf("Resolve(unix 0) = %+v, want the Unix epoch", got)
	}
}

func TestParseAMPM(t *testing.T) {
	p := NewParser(nil)
	res, err := p.Parse("3/4/05 2:30 PM")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !res.HasMonth || res.Month != 3 || !res.HasDay || res.Day != 4 {
		t.Errorf("res = %+v, want month=3 day=4", res)
	}
	if !res.YYNeedsCentury || res.Year != 5 {
		t.Errorf("res.Year = %d (needsCentury=%v), want 5 (true)", res.Year, res.YYNeedsCentury)
	}
	if res.Hour != 2 || res.Minute != 30 {
		t.Errorf("res time = %d:%d, want 2:30", res.Hour, res.Minute)
	}
	if !res.HasAMPM || !res.PM {
		t.Errorf("res.HasAMPM = %v, res.PM = %v, want true, true", res.HasAMPM, res.PM)
	}
}

func TestResolveAMPM(t *testing.T) {
	cal := GregorianCalendar{}
	p := NewParser(nil)
	res, err := p.Parse("3/4/05 2:30 PM")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ref := Date{Dayno: cal.ToDayno(2012, 6, 15)}
	got, err := Resolve(cal, res, ref, 2012)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	y, m, d := cal.FromDayno(got.Dayno)
	if y != 2005 || m != 3 || d != 4 {
		t.Errorf("Resolve date = %d-%02d-%02d, want 2005-03-04", y, m, d)
	}
	wantDaytime := int64(14*3600000 + 30*60000)
	if got.Daytime != wantDaytime {
		t.Errorf("Resolve daytime = %d, want %d (14:30)", got.Daytime, wantDaytime)
	}
}

func TestParseAMPMMidnightAndNoon(t *testing.T) {
	cal := GregorianCalendar{}
	ref := Date{Dayno: cal.ToDayno(2020, 1, 1)}

	p := NewParser(nil)
	res, err := p.Parse("12:00 AM")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	got, err := Resolve(cal, res, ref, 2020)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.Daytime != 0 {
		t.Errorf("12:00 AM daytime = %d, want 0", got.Daytime)
	}

	res, err = p.Parse("12:00 PM")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	got, err = Resolve(cal, res, ref, 2020)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.Daytime != 12*3600000 {
		t.Errorf("12:00 PM daytime = %d, want %d", got.Daytime, 12*3600000)
	}
}

func TestResolveFillsFromReference(t *testing.T) {
	cal := GregorianCalendar{}
	p := NewParser(nil)
	// A time-only template leaves year/month/day to be filled from ref.
	res, err := p.Parse("08:30:00")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ref := Date{Dayno: cal.ToDayno(2020, 6, 15)}
	got, err := Resolve(cal, res, ref, 2020)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	y, m, d := cal.FromDayno(got.Dayno)
	if y != 2020 || m != 6 || d != 15 {
		t.Errorf("Resolve filled date = %d-%02d-%02d, want 2020-06-15", y, m, d)
	}
	if got.Daytime != int64(8*3600000+30*60000) {
		t.Errorf("Resolve daytime = %d, want %d", got.Daytime, 8*3600000+30*60000)
	}
}
