// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package metacore

// JulianCalendar is the historical Julian-calendar Calendar implementation
// of spec.md S4.3, grounded on the Julian-calendar variant of Howard
// Hinnant's days_from_civil/civil_from_days algorithms (leap year every 4
// years, no centurial exception). It shares GregorianCalendar's day-number
// axis: dayno 0 is proleptic-Gregorian 0000-03-01, which is Julian
// 0000-03-03, so the Julian day count (anchored at Julian 0000-03-01) is
// shifted by julianAxisShift on the way in and out. That shared axis is
// what lets a single day number store dates "calendar-agnostically" per
// spec.md S4.3.
type JulianCalendar struct{}

// julianAxisShift is the Julian day count of the internal epoch: the
// Julian-anchored count is 2 days ahead of the Gregorian-anchored axis
// (e.g. Gregorian 0001-01-01 = Julian 0001-01-03).
const julianAxisShift = 2

// Name implements Calendar.
func (JulianCalendar) Name() string { return "julian" }

// FromDayno implements Calendar.
func (JulianCalendar) FromDayno(dayno int64) (year int64, month int, day int) {
	dayno += julianAxisShift
	era := floorDiv(dayno, 1461)
	doe := dayno - era*1461 // [0, 1460]
	yoe := doe/365 - doe/1460
	y := yoe + era*4
	doy := doe - 365*yoe
	mp := (5*doy + 2) / 153
	d := doy - (153*mp+2)/5 + 1
	m := mp + 3
	if mp >= 10 {
		m = mp - 9
	}
	if m <= 2 {
		y++
	}
	return y, int(m), int(d)
}

// ToDayno implements Calendar.
func (JulianCalendar) ToDayno(year int64, month, day int) int64 {
	year += floorDiv(int64(month)-1, 12)
	month = int(floorMod(int64(month)-1, 12)) + 1
	y := year
	m := int64(month)
	d := int64(day)
	if m <= 2 {
		y--
	}
	era := floorDiv(y, 4)
	yoe := y - era*4
	mAdj := m + 9
	if m > 2 {
		mAdj = m - 3
	}
	doy := (153*mAdj+2)/5 + d - 1
	doe := yoe*365 + doy
	return era*1461 + doe - julianAxisShift
}

// Weekday implements Calendar; weekday is a pure function of the day-number
// axis and doesn't depend on which calendar's leap rule produced it.
func (JulianCalendar) Weekday(dayno int64) int {
	return int(floorMod(dayno+int64(daynoZeroWeekday), 7))
}

// ISOWeekday implements Calendar.
func (j JulianCalendar) ISOWeekday(dayno int64) int {
	w := j.Weekday(dayno)
	if w == 0 {
		return 7
	}
	return w
}

// ISOWeekNo implements Calendar using the Julian calendar's own year/month
// fields for the ISO week-numbering computation.
func (j JulianCalendar) ISOWeekNo(dayno int64, isoYear *int64) int {
	isoWd := j.ISOWeekday(dayno)
	thursday := dayno - int64(isoWd) + 4

	ty, _, _ := j.FromDayno(thursday)
	jan4 := j.ToDayno(ty, 1, 4)
	jan4Wd := j.ISOWeekday(jan4)
	week1Monday := jan4 - int64(jan4Wd) + 1

	week := (thursday-week1Monday)/7 + 1
	if isoYear != nil {
		*isoYear = ty
	}
	return int(week)
}

// JulianDayNumber implements Calendar.
func (JulianCalendar) JulianDayNumber(dayno int64) int64 {
	return dayno + internalEpochJDN
}
