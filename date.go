// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package metacore

const millisPerDay = 86400000

// Date is the value type of spec.md S3.5: a UTC instant with millisecond
// resolution stored as (dayno, daytime). dayno counts days since the
// internal epoch 0000-03-01 UTC; daytime is milliseconds since UTC
// midnight and must satisfy 0 <= daytime < millisPerDay.
type Date struct {
	Dayno   int64
	Daytime int64
}

// Normalize carries daytime overflow/underflow into dayno, enforcing the
// invariant of spec.md S3.5.
func Normalize(dayno, daytime int64) Date {
	extraDays := floorDiv(daytime, millisPerDay)
	return Date{Dayno: dayno + extraDays, Daytime: daytime - extraDays*millisPerDay}
}

// AddDays returns d shifted by whole days ("date + integer adds integer
// days", spec.md S4.3).
func (d Date) AddDays(days int64) Date {
	return Date{Dayno: d.Dayno + days, Daytime: d.Daytime}
}

// AddMillis returns d shifted by milliseconds, normalizing any carry.
func (d Date) AddMillis(ms int64) Date {
	return Normalize(d.Dayno, d.Daytime+ms)
}

// AddBigNumber adds a fractional-day BigNumber to d: the integer part adds
// whole days, the fractional part converts to milliseconds (spec.md S4.3
// "date + bignum adds fractional days with the fractional part converted
// to milliseconds").
func AddBigNumber(d Date, b *BigNumber) (Date, error) {
	if b.IsNaN() || b.IsInf() {
		return Date{}, ErrOutOfRange
	}
	ip, err := b.ToInt()
	if err != nil {
		return Date{}, err
	}
	ipBig, err := NewBigNumberFromInt(ip, b.Precision())
	if err != nil {
		return Date{}, err
	}
	frac, err := Sub(b, ipBig)
	if err != nil {
		return Date{}, err
	}
	msPerDay, _ := NewBigNumberFromInt(millisPerDay, b.Precision())
	fracMs, err := Mul(frac, msPerDay)
	if err != nil {
		return Date{}, err
	}
	msInt, err := fracMs.ToInt()
	if err != nil {
		return Date{}, err
	}
	return Normalize(d.Dayno+ip, d.Daytime+int64(msInt)), nil
}

// SubDate returns d1-d2 as a BigNumber day-scale difference, including the
// fractional part (spec.md S4.3 "date - date returns a BigNumber").
func SubDate(d1, d2 Date, prec uint16) (*BigNumber, error) {
	days, err := NewBigNumberFromInt(int32(d1.Dayno-d2.Dayno), prec)
	if err != nil {
		return nil, err
	}
	msDiff, err := NewBigNumberFromInt(int32(d1.Daytime-d2.Daytime), prec)
	if err != nil {
		return nil, err
	}
	msPerDay, _ := NewBigNumberFromInt(millisPerDay, prec)
	fracDays, err := Div(msDiff, msPerDay)
	if err != nil {
		return nil, err
	}
	return Add(days, fracDays)
}

// SubNumber subtracts a plain day count (spec.md S4.3 "date - number
// subtracts days symmetrically").
func (d Date) SubNumber(b *BigNumber) (Date, error) {
	return AddBigNumber(d, Neg(b))
}

// Interval is the addInterval argument of spec.md S4.3: [y, m, d, h, mi, s].
type Interval struct {
	Years, Months, Days       int64
	Hours, Minutes, Seconds   int64
	Millis                    int64
}

// AddInterval adds each interval component through cal (month/year carry
// resolved by the calendar's ToDayno, day/time carry by Normalize), per
// spec.md S4.3.
func AddInterval(cal Calendar, d Date, iv Interval) Date {
	y, m, day := cal.FromDayno(d.Dayno)
	y += iv.Years
	newDayno := cal.ToDayno(y, m+int(iv.Months), day+int(iv.Days))

	msDelta := iv.Hours*3600000 + iv.Minutes*60000 + iv.Seconds*1000 + iv.Millis
	return Normalize(newDayno, d.Daytime+msDelta)
}

// FindWeekday returns a new Date at midnight on the which'th occurrence of
// weekday w (0=Sunday..6=Saturday) at/after (which > 0) or at/before
// (which < 0) d, per spec.md S4.3. which == 0 is treated as which == 1.
func FindWeekday(cal Calendar, d Date, w int, which int) Date {
	if which == 0 {
		which = 1
	}
	cur := cal.Weekday(d.Dayno)
	var firstHit int64
	if which > 0 {
		delta := (w - cur + 7) % 7
		firstHit = d.Dayno + int64(delta)
		return Date{Dayno: firstHit + int64(7*(which-1)), Daytime: 0}
	}
	delta := (cur - w + 7) % 7
	firstHit = d.Dayno - int64(delta)
	return Date{Dayno: firstHit - int64(7*(-which-1)), Daytime: 0}
}

// DateInstance is the Instance wrapper around Date stored in the object
// table (spec.md S3.5).
type DateInstance struct {
	Value Date
	id    ObjID
}

// MetaclassDate is the registry base name for Date.
const MetaclassDate = "date"

// DescriptorName implements Instance.
func (*DateInstance) DescriptorName() string { return MetaclassDate }

// NotifyDelete implements Instance; Date holds no host resources.
func (*DateInstance) NotifyDelete(*Context, ObjID) {}

// MarkRefs implements Instance; a bare Date holds no object references
// (its TimeZone, if any, is a separate associated object tracked by the
// caller, per spec.md S3.6's "owns a pointer" phrasing referring to the
// shared ZoneRecord, not an object reference needing GC tracing).
func (*DateInstance) MarkRefs(func(ObjID)) {}

// RemoveStaleWeakRefs implements Instance; no-op, see MarkRefs.
func (*DateInstance) RemoveStaleWeakRefs(func(ObjID) bool) {}

// GetProp implements Instance; see BigNumber.GetProp for why metaclass
// instances return not-found here rather than handling dispatch locally.
func (*DateInstance) GetProp(*Context, ObjID, PropID, []V) (V, bool, error) {
	return V{}, false, nil
}

// SetProp implements Instance; Date exposes no settable properties.
func (*DateInstance) SetProp(*Context, ObjID, PropID, V) error { return ErrInvalidSetProp }
