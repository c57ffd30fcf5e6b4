// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package metacore

// GregorianCalendar is the proleptic-Gregorian Calendar implementation of
// spec.md S4.3, grounded on Howard Hinnant's "chrono-Compatible Low-Level
// Date Algorithms" days_from_civil/civil_from_days (a public-domain
// algorithm widely used for exactly this proleptic-Gregorian <-> day-count
// conversion). The internal day-number axis used here is offset from
// Hinnant's Unix-epoch-relative axis by unixEpochDayOffset: his formulas
// compute era*146097+doe relative to 0000-03-01 before subtracting 719468
// to land on 1970-01-01, so using era*146097+doe directly, with no
// subtraction, yields day numbers already relative to the internal epoch.
//
// Hand-verified test case: 2000-01-01 is dayno 730425 internally
// (== 719468 + 10957, where 10957 is the well-known day count from
// 1970-01-01 to 2000-01-01); FromDayno/ToDayno below reproduce that value.
type GregorianCalendar struct{}

// Name implements Calendar.
func (GregorianCalendar) Name() string { return "gregorian" }

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int64) int64 {
	return a - floorDiv(a, b)*b
}

// FromDayno implements Calendar.
func (GregorianCalendar) FromDayno(dayno int64) (year int64, month int, day int) {
	era := floorDiv(dayno, 146097)
	doe := dayno - era*146097 // [0, 146096]
	yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 365
	y := yoe + era*400
	doy := doe - (365*yoe + yoe/4 - yoe/100)
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
func (GregorianCalendar) ToDayno(year int64, month, day int) int64 {
	year += floorDiv(int64(month)-1, 12)
	month = int(floorMod(int64(month)-1, 12)) + 1
	y := year
	m := int64(month)
	d := int64(day)
	if m <= 2 {
		y--
	}
	era := floorDiv(y, 400)
	yoe := y - era*400
	mAdj := m + 9
	if m > 2 {
		mAdj = m - 3
	}
	doy := (153*mAdj+2)/5 + d - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return era*146097 + doe
}

// daynoZeroWeekday is the weekday of dayno 0 (0000-03-01). Derived from
// 1970-01-01 (dayno 719468) being a known Thursday (weekday 4): solving
// (719468+X) mod 7 == 4 with 719468 mod 7 == 1 gives X == 3, i.e. dayno 0
// is a Wednesday.
const daynoZeroWeekday = 3 // 0=Sunday..6=Saturday; 3=Wednesday

// Weekday implements Calendar: 0=Sunday..6=Saturday.
func (GregorianCalendar) Weekday(dayno int64) int {
	return int(floorMod(dayno+int64(daynoZeroWeekday), 7))
}

// ISOWeekday implements Calendar: 1=Monday..7=Sunday.
func (g GregorianCalendar) ISOWeekday(dayno int64) int {
	w := g.Weekday(dayno)
	if w == 0 {
		return 7
	}
	return w
}

// ISOWeekNo implements Calendar per ISO-8601: week 1 is the week
// containing the year's first Thursday.
func (g GregorianCalendar) ISOWeekNo(dayno int64, isoYear *int64) int {
	y, _, _ := g.FromDayno(dayno)
	isoWd := g.ISOWeekday(dayno)
	thursday := dayno - int64(isoWd) + 4

	ty, _, _ := g.FromDayno(thursday)
	jan4 := g.ToDayno(ty, 1, 4)
	jan4Wd := g.ISOWeekday(jan4)
	week1Monday := jan4 - int64(jan4Wd) + 1

	week := (thursday-week1Monday)/7 + 1
	if isoYear != nil {
		*isoYear = ty
	}
	_ = y
	return int(week)
}

// JulianDayNumber implements Calendar.
func (GregorianCalendar) JulianDayNumber(dayno int64) int64 {
	return dayno + internalEpochJDN
}
