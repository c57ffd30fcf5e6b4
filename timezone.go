// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package metacore

import "time"

// unixTime builds a UTC time.Time from a Unix-epoch second count.
func unixTime(sec int64) time.Time { return time.Unix(sec, 0).UTC() }

// TimeZone wraps a pointer to a ZoneRecord managed by a ZoneDB shared
// across the VM (spec.md S3.6).
type TimeZone struct {
	Zone *ZoneRecord
	id   ObjID
}

// MetaclassTimeZone is the registry base name for TimeZone.
const MetaclassTimeZone = "tzobj"

// DescriptorName implements Instance.
func (*TimeZone) DescriptorName() string { return MetaclassTimeZone }

// NotifyDelete implements Instance; the ZoneRecord is owned by ZoneDB, not
// this instance.
func (*TimeZone) NotifyDelete(*Context, ObjID) {}

// MarkRefs implements Instance; TimeZone holds no inter-object references.
func (*TimeZone) MarkRefs(func(ObjID)) {}

// RemoveStaleWeakRefs implements Instance; no-op, see MarkRefs.
func (*TimeZone) RemoveStaleWeakRefs(func(ObjID) bool) {}

// GetProp implements Instance; see BigNumber.GetProp.
func (*TimeZone) GetProp(*Context, ObjID, PropID, []V) (V, bool, error) {
	return V{}, false, nil
}

// SetProp implements Instance; TimeZone exposes no settable properties.
func (*TimeZone) SetProp(*Context, ObjID, PropID, V) error { return ErrInvalidSetProp }

// OffsetAt returns the effective UTC offset, in seconds, and abbreviation
// for a UTC instant, honoring DST if the zone has one.
func (tz *TimeZone) OffsetAt(d Date) (offsetSec int, abbrev string) {
	if tz.Zone == nil || tz.Zone.Loc == nil {
		return 0, "UTC"
	}
	unixSec := (d.Dayno-unixEpochDayOffset)*86400 + d.Daytime/1000
	t := unixTime(unixSec).In(tz.Zone.Loc)
	abbrev, off := t.Zone()
	return off, abbrev
}
