// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package metacore

import "testing"

func TestGregorianToDayno(t *testing.T) {
	tests := []struct {
		name string
		y    int64
		m, d int
		want int64
	}{
		{"2000-01-01", 2000, 1, 1, 730425},
		{"epoch 0000-03-01", 0, 3, 1, 0},
	}
	cal := GregorianCalendar{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cal.ToDayno(tt.y, tt.m, tt.d); got != tt.want {
				t.Errorf("ToDayno(%d,%d,%d) = %d, want %d", tt.y, tt.m, tt.d, got, tt.want)
			}
		})
	}
}

func TestGregorianRoundTrip(t *testing.T) {
	cal := GregorianCalendar{}
	tests := []struct {
		y    int64
		m, d int
	}{
		{1970, 1, 1},
		{2000, 1, 1},
		{2024, 2, 29},
		{1, 1, 1},
		{1999, 12, 31},
	}
	for _, tt := range tests {
		dn := cal.ToDayno(tt.y, tt.m, tt.d)
		y, m, d := cal.FromDayno(dn)
		if y != tt.y || m != tt.m || d != tt.d {
			t.Errorf("round trip (%d,%d,%d) -> dayno %d -> (%d,%d,%d)", tt.y, tt.m, tt.d, dn, y, m, d)
		}
	}
}

func TestGregorianWeekday(t *testing.T) {
	cal := GregorianCalendar{}
	// 2000-01-01 was a Saturday (weekday 6).
	dn := cal.ToDayno(2000, 1, 1)
	if got := cal.Weekday(dn); got != 6 {
		t.Errorf("Weekday(2000-01-01) = %d, want 6 (Saturday)", got)
	}
	if got := cal.ISOWeekday(dn); got != 6 {
		t.Errorf("ISOWeekday(2000-01-01) = %d, want 6", got)
	}
}

func TestGregorianISOWeekNo(t *testing.T) {
	cal := GregorianCalendar{}
	// 1999-01-01 is in ISO week 53 of 1998.
	dn := cal.ToDayno(1999, 1, 1)
	var isoYear int64
	week := cal.ISOWeekNo(dn, &isoYear)
	if isoYear != 1998 || week != 53 {
		t.Errorf("ISOWeekNo(1999-01-01) = (week %d, year %d), want (53, 1998)", week, isoYear)
	}
}

func TestJulianRoundTrip(t *testing.T) {
	cal := JulianCalendar{}
	tests := []struct {
		y    int64
		m, d int
	}{
		{2000, 1, 1},
		{1582, 10, 4},
		{1, 1, 1},
	}
	for _, tt := range tests {
		dn := cal.ToDayno(tt.y, tt.m, tt.d)
		y, m, d := cal.FromDayno(dn)
		if y != tt.y || m != tt.m || d != tt.d {
			t.Errorf("round trip (%d,%d,%d) -> dayno %d -> (%d,%d,%d)", tt.y, tt.m, tt.d, dn, y, m, d)
		}
	}
}
