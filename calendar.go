// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package metacore

// Calendar converts between the internal day-number axis (spec.md S4.3:
// day 0 = 0000-03-01 UTC) and broken-down calendar fields. Dates store only
// day numbers, so no calendar implementation is privileged in storage —
// Gregorian and Julian are two independent lenses onto the same axis.
type Calendar interface {
	// Name identifies the calendar for save/restore and %-format dispatch.
	Name() string

	// FromDayno converts a day number to (year, month, day), month 1-12.
	FromDayno(dayno int64) (year int64, month int, day int)

	// ToDayno is the inverse of FromDayno. Out-of-range month/day values
	// carry per ordinary calendar arithmetic (e.g. month 13 rolls to
	// January of the following year), matching addInterval's reliance on
	// "caldate carry."
	ToDayno(year int64, month, day int) int64

	// Weekday returns 0=Sunday..6=Saturday for dayno.
	Weekday(dayno int64) int

	// ISOWeekday returns 1=Monday..7=Sunday for dayno.
	ISOWeekday(dayno int64) int

	// ISOWeekNo returns the ISO-8601 week number for dayno, and writes the
	// ISO week-numbering year (which can differ from the calendar year
	// near year boundaries) to *isoYear.
	ISOWeekNo(dayno int64, isoYear *int64) int

	// JulianDayNumber returns the (non-internal) astronomical Julian Day
	// Number of dayno's date: the Julian day that begins at noon UTC on that
	// date, so the midnight that begins dayno is JulianDayNumber(dayno)-0.5.
	JulianDayNumber(dayno int64) int64
}

// internalEpochJDN is the Julian Day Number of the internal epoch,
// 0000-03-01 (proleptic Gregorian): the Julian day that begins at noon UTC
// on that date. Verified by hand against the well-known JDN of 2000-01-01
// (2451545) via the day-count identity JDN(0000-03-01) = JDN(2000-01-01) -
// dayno(2000-01-01): dayno(2000-01-01) = 730425 (see
// calendar_gregorian.go), and 2451545 - 730425 = 1721120.
const internalEpochJDN = 1721120

// unixEpochDayOffset is days_from_civil(1970,1,1) - days_from_civil(0,3,1),
// i.e. how many internal day numbers separate the internal epoch from the
// Unix epoch. Verified by hand in calendar_gregorian.go's doc comment.
const unixEpochDayOffset = 719468
