// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package metacore

import (
	"strconv"
	"strings"
)

// Formatter renders a Date against a Calendar, an optional TimeZone and a
// LocaleTable, per spec.md S4.3's strftime-compatible format language.
type Formatter struct {
	Cal    Calendar
	Locale *LocaleTable
}

// NewFormatter creates a Formatter.
func NewFormatter(cal Calendar, locale *LocaleTable) *Formatter {
	return &Formatter{Cal: cal, Locale: locale}
}

// romanDigits are used by the '&' flag (valid only for 1..4999).
var romanDigits = []struct {
	val int
	sym string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

func roman(n int) string {
	if n < 1 || n > 4999 {
		return strconv.Itoa(n)
	}
	var sb strings.Builder
	for _, rd := range romanDigits {
		for n >= rd.val {
			sb.WriteString(rd.sym)
			n -= rd.val
		}
	}
	return sb.String()
}

// padNum renders n as a zero-padded (or space/NBSP/no-pad per flags) field
// of the given width.
func padNum(n int, width int, flags string) string {
	s := strconv.Itoa(n)
	if strings.ContainsRune(flags, '#') {
		return s
	}
	if len(s) >= width {
		return s
	}
	padChar := byte('0')
	if strings.ContainsRune(flags, ' ') {
		padChar = ' '
	} else if strings.ContainsRune(flags, '_') {
		padChar = ' ' // NBSP collapses to space in a plain string context
	}
	return strings.Repeat(string(padChar), width-len(s)) + s
}

// Format renders layout against d (and tz's offset, if non-nil) per
// spec.md S4.3. A directive has the shape %[#_-&]code.
func (f *Formatter) Format(d Date, tz *TimeZone, layout string) string {
	y, m, day := f.Cal.FromDayno(d.Dayno)
	hour := int(d.Daytime / 3600000)
	minute := int((d.Daytime / 60000) % 60)
	second := int((d.Daytime / 1000) % 60)
	ms := int(d.Daytime % 1000)

	var sb strings.Builder
	i := 0
	for i < len(layout) {
		c := layout[i]
		if c != '%' {
			sb.WriteByte(c)
			i++
			continue
		}
		i++
		if i >= len(layout) {
			sb.WriteByte('%')
			break
		}
		var flags strings.Builder
		for i < len(layout) && strings.ContainsRune("#_ -&", rune(layout[i])) {
			flags.WriteByte(layout[i])
			i++
		}
		if i >= len(layout) {
			break
		}
		code := layout[i]
		i++
		sb.WriteString(f.formatCode(code, flags.String(), d, tz, y, m, day, hour, minute, second, ms))
	}
	return sb.String()
}

func (f *Formatter) formatCode(code byte, flags string, d Date, tz *TimeZone, y int64, m, day, hour, minute, second, ms int) string {
	roman := strings.ContainsRune(flags, '&')
	switch code {
	case '%':
		return "%"
	case 'a':
		return f.Locale.List(LCWkdy)[f.Cal.Weekday(d.Dayno)]
	case 'A':
		return f.Locale.List(LCWeekday)[f.Cal.Weekday(d.Dayno)]
	case 'b', 'h':
		return f.Locale.List(LCMon)[m-1]
	case 'B':
		return f.Locale.List(LCMonth)[m-1]
	case 'd':
		if roman {
			return romanNum(day)
		}
		return padNum(day, 2, flags)
	case 'e':
		return padNum(day, 2, flags+" ")
	case 'm':
		if roman {
			return romanNum(m)
		}
		return padNum(m, 2, flags)
	case 'Y':
		if roman && y > 0 {
			return romanNum(int(y))
		}
		return strconv.FormatInt(y, 10)
	case 'y':
		return padNum(int(y%100+100)%100, 2, flags)
	case 'C':
		return padNum(int(y/100), 2, flags)
	case 'G':
		var isoYear int64
		f.Cal.ISOWeekNo(d.Dayno, &isoYear)
		return strconv.FormatInt(isoYear, 10)
	case 'g':
		var isoYear int64
		f.Cal.ISOWeekNo(d.Dayno, &isoYear)
		return padNum(int(isoYear%100+100)%100, 2, flags)
	case 'H':
		return padNum(hour, 2, flags)
	case 'I':
		h12 := hour % 12
		if h12 == 0 {
			h12 = 12
		}
		return padNum(h12, 2, flags)
	case 'M':
		return padNum(minute, 2, flags)
	case 'S':
		return padNum(second, 2, flags)
	case 'N':
		return padNum(ms, 3, flags)
	case 'p':
		return f.ampm(hour, false)
	case 'P':
		return f.ampm(hour, true)
	case 'j':
		jan1 := f.Cal.ToDayno(y, 1, 1)
		return padNum(int(d.Dayno-jan1)+1, 3, flags)
	case 'u':
		return strconv.Itoa(f.Cal.ISOWeekday(d.Dayno))
	case 'w':
		return strconv.Itoa(f.Cal.Weekday(d.Dayno))
	case 'U':
		jan1 := f.Cal.ToDayno(y, 1, 1)
		wd := int64(f.Cal.Weekday(d.Dayno))
		return padNum(int((d.Dayno-jan1+7-wd)/7), 2, flags)
	case 'W':
		jan1 := f.Cal.ToDayno(y, 1, 1)
		wd := int64((f.Cal.Weekday(d.Dayno) + 6) % 7)
		return padNum(int((d.Dayno-jan1+7-wd)/7), 2, flags)
	case 'V':
		var isoYear int64
		wk := f.Cal.ISOWeekNo(d.Dayno, &isoYear)
		return padNum(wk, 2, flags)
	case 't':
		return "\t"
	case 'z':
		if tz != nil {
			off, _ := tz.OffsetAt(d)
			return formatOffset(off)
		}
		return "+0000"
	case 'Z':
		if tz != nil {
			_, abbr := tz.OffsetAt(d)
			return abbr
		}
		return "UTC"
	case 'J':
		jdnMid := f.Cal.JulianDayNumber(d.Dayno)
		if strings.ContainsRune(flags, '#') {
			return strconv.FormatInt(jdnMid, 10)
		}
		// The Julian Day Number convention counts from noon, not
		// midnight: a civil midnight half a day before jdnMid's noon
		// belongs to jdnMid-1.
		halfDay := int64(millisPerDay / 2)
		jdn := jdnMid
		fracMs := d.Daytime - halfDay
		if fracMs < 0 {
			jdn--
			fracMs += millisPerDay
		}
		return strconv.FormatInt(jdn, 10) + "." + padNum(int(fracMs*1000000/millisPerDay), 6, "")
	case 's':
		unixSec := (d.Dayno-unixEpochDayOffset)*86400 + d.Daytime/1000
		return strconv.FormatInt(unixSec, 10)
	case 'c':
		return f.Format(d, tz, f.composite(flags, LCFmtC))
	case 'x':
		return f.Format(d, tz, f.composite(flags, LCFmtX))
	case 'X':
		return f.Format(d, tz, f.composite(flags, LCFmtBigX))
	case 'D':
		return f.Format(d, tz, f.composite(flags, LCFmtD))
	case 'F':
		return f.Format(d, tz, f.composite(flags, LCFmtF))
	case 'r':
		return f.Format(d, tz, f.composite(flags, LCFmtR))
	case 'R':
		return f.Format(d, tz, strings.TrimSuffix(f.Locale.Get(LCFmtT), ":%S"))
	case 'T':
		return f.Format(d, tz, f.composite(flags, LCFmtT))
	case 'E':
		return f.eraYear(y, flags)
	default:
		return ""
	}
}

// composite resolves a %-directive that expands to a locale format string.
func (f *Formatter) composite(_ string, slot LocaleSlot) string {
	if f.Locale == nil {
		return ""
	}
	return f.Locale.Get(slot)
}

func (f *Formatter) ampm(hour int, lower bool) string {
	names := []string{"AM", "PM"}
	if f.Locale != nil {
		names = f.Locale.List(LCAmPm)
	}
	idx := 0
	if hour >= 12 {
		idx = 1
	}
	s := names[idx]
	if lower {
		s = strings.ToLower(s)
	}
	return s
}

// eraYear renders %E, "era + year" with '-' swapping the order.
func (f *Formatter) eraYear(y int64, flags string) string {
	eraNames := []string{"BC", "AD"}
	if f.Locale != nil {
		eraNames = f.Locale.List(LCEra)
	}
	idx := 1
	val := y
	if y <= 0 {
		idx = 0
		val = 1 - y
	}
	era := eraNames[idx]
	if strings.ContainsRune(flags, '-') {
		return strconv.FormatInt(val, 10) + " " + era
	}
	return era + " " + strconv.FormatInt(val, 10)
}

func formatOffset(sec int) string {
	sign := "+"
	if sec < 0 {
		sign = "-"
		sec = -sec
	}
	h := sec / 3600
	m := (sec % 3600) / 60
	return sign + padNum(h, 2, "") + padNum(m, 2, "")
}

// romanNum is a package-level alias so formatCode can call roman() without
// shadowing the 'roman' bool local it also needs.
func romanNum(n int) string { return roman(n) }
