// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package metacore

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name           string
		dayno, daytime int64
		wantDayno      int64
		wantDaytime    int64
	}{
		{"already normal", 100, 1000, 100, 1000},
		{"overflow by one day", 100, millisPerDay + 500, 101, 500},
		{"negative daytime", 100, -500, 99, millisPerDay - 500},
		{"exact boundary", 100, millisPerDay, 101, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.dayno, tt.daytime)
			if got.Dayno != tt.wantDayno || got.Daytime != tt.wantDaytime {
				t.Errorf("Normalize(%d, %d) = (%d, %d), want (%d, %d)",
					tt.dayno, tt.daytime, got.Dayno, got.Daytime, tt.wantDayno, tt.wantDaytime)
			}
		})
	}
}

func TestDateAddDaysAndMillis(t *testing.T) {
	d := Date{Dayno: 100, Daytime: 1000}
	if got := d.AddDays(5); got.Dayno != 105 || got.Daytime != 1000 {
		t.Errorf("AddDays(5) = %+v, want {105 1000}", got)
	}
	if got := d.AddMillis(millisPerDay + 1); got.Dayno != 101 || got.Daytime != 1001 {
		t.Errorf("AddMillis overflow = %+v, want {101 1001}", got)
	}
}

func TestSubDate(t *testing.T) {
	d1 := Date{Dayno: 105, Daytime: millisPerDay / 2}
	d2 := Date{Dayno: 100, Daytime: 0}
	diff, err := SubDate(d1, d2, 10)
	if err != nil {
		t.Fatalf("SubDate: %v", err)
	}
	want := "5.5"
	if got := diff.Format(FormatOptions{}); got != want {
		t.Errorf("SubDate = %q, want %q", got, want)
	}
}

func TestAddInterval(t *testing.T) {
	cal := GregorianCalendar{}
	start := Date{Dayno: cal.ToDayno(2020, 1, 31), Daytime: 0}
	got := AddInterval(cal, start, Interval{Months: 1})
	y, m, d := cal.FromDayno(got.Dayno)
	// Jan 31 + 1 month rolls over Feb's shorter length (caldate carry, not clamping).
	if y != 2020 || m != 3 || d != 2 {
		t.Errorf("AddInterval(+1 month) on 2020-01-31 = %d-%02d-%02d, want 2020-03-02", y, m, d)
	}
}

func TestFindWeekday(t *testing.T) {
	cal := GregorianCalendar{}
	// 2000-01-01 is a Saturday (weekday 6); find the first Monday at/after it.
	start := Date{Dayno: cal.ToDayno(2000, 1, 1)}
	got := FindWeekday(cal, start, 1, 1)
	y, m, d := cal.FromDayno(got.Dayno)
	if y != 2000 || m != 1 || d != 3 {
		t.Errorf("FindWeekday(Monday, first at/after 2000-01-01) = %d-%02d-%02d, want 2000-01-03", y, m, d)
	}
}

func TestAddBigNumberFractionalDay(t *testing.T) {
	d := Date{Dayno: 100, Daytime: 0}
	half, err := NewBigNumberFromString("0.5", 10)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	got, err := AddBigNumber(d, half)
	if err != nil {
		t.Fatalf("AddBigNumber: %v", err)
	}
	if got.Dayno != 100 || got.Daytime != millisPerDay/2 {
		t.Errorf("AddBigNumber(0.5) = %+v, want {100 %d}", got, millisPerDay/2)
	}
}
