// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package metacore

import (
	"fmt"
	"time"

	"github.com/go-kratos/kratos/v2/log"
)

// ZoneRecord is the shared, cacheable zone data a TimeZone instance points
// to (spec.md S3.6/S4.3). Loc is nil for a synthetic zone fabricated on
// restore when the saved name is unknown to the host's database.
type ZoneRecord struct {
	Name       string
	StdOffset  int // seconds east of UTC
	DSTOffset  int // seconds of additional DST offset, 0 if the zone has none
	StdAbbrev  string
	DSTAbbrev  string
	Synthetic  bool
	Loc        *time.Location
}

// localZoneName is the sentinel spec.md S4.3 reserves for the host's
// configured local zone.
const localZoneName = ":local"

// fixedAbbrevOffsets is the small built-in table of abbreviation -> fixed
// UTC offset spec.md S4.3 requires ("'PDT','PST' returns zone and, if the
// abbreviation implies a fixed offset, that offset too"). The IANA
// database itself indexes by name, not abbreviation, so this table is
// hand-maintained the way TADS's own vmtz.cpp ships one.
var fixedAbbrevOffsets = map[string]int{
	"UTC": 0, "GMT": 0,
	"EST": -5 * 3600, "EDT": -4 * 3600,
	"CST": -6 * 3600, "CDT": -5 * 3600,
	"MST": -7 * 3600, "MDT": -6 * 3600,
	"PST": -8 * 3600, "PDT": -7 * 3600,
}

// ZoneDB is the per-VM zone cache of spec.md S4.3, queryable by IANA name,
// abbreviation, fixed offset, or the ":local" sentinel. It is backed by the
// standard library's time.LoadLocation/time.Local, which is itself the
// idiomatic Go interface onto the host's IANA tzdata — no third-party
// package in the retrieval pack offers an alternative, and wrapping
// time.Location is the same "pointer to shared zone record" shape spec.md
// S3.6 describes.
type ZoneDB struct {
	cache  map[string]*ZoneRecord
	logger *log.Helper
}

// NewZoneDB creates an empty zone cache.
func NewZoneDB(logger *log.Helper) *ZoneDB {
	return &ZoneDB{cache: make(map[string]*ZoneRecord), logger: logger}
}

// offsetsFor inspects loc at the current instant to report its standard
// and DST offsets and abbreviations. Real zones are probed at two points
// six months apart so both the standard and DST offsets are observed, per
// how POSIX/IANA zones expose exactly two offsets per location.
func offsetsFor(loc *time.Location) (std, dst int, stdAbbr, dstAbbr string) {
	now := time.Now().In(loc)
	other := now.AddDate(0, 6, 0).In(loc)

	nAbbr, nOff := now.Zone()
	oAbbr, oOff := other.Zone()

	if nOff <= oOff {
		return nOff, oOff, nAbbr, oAbbr
	}
	return oOff, nOff, oAbbr, nAbbr
}

// Lookup resolves name — an IANA zone name or the ":local" sentinel — to a
// ZoneRecord, caching the result.
func (z *ZoneDB) Lookup(name string) (*ZoneRecord, error) {
	if rec, ok := z.cache[name]; ok {
		return rec, nil
	}

	loc := time.Local
	resolvedName := name
	if name != localZoneName {
		var err error
		loc, err = time.LoadLocation(name)
		if err != nil {
			return nil, ErrBadValBif
		}
	}

	std, dst, stdAbbr, dstAbbr := offsetsFor(loc)
	rec := &ZoneRecord{
		Name: resolvedName, StdOffset: std, DSTOffset: dst,
		StdAbbrev: stdAbbr, DSTAbbrev: dstAbbr, Loc: loc,
	}
	z.cache[name] = rec
	return rec, nil
}

// LookupAbbrev resolves a timezone abbreviation to a fixed-offset
// ZoneRecord, per spec.md S4.3.
func (z *ZoneDB) LookupAbbrev(abbrev string) (*ZoneRecord, error) {
	off, ok := fixedAbbrevOffsets[abbrev]
	if !ok {
		return nil, ErrBadValBif
	}
	return z.FixedOffset(off, abbrev), nil
}

// FixedOffset returns (creating and caching if needed) a synthetic
// fixed-offset ZoneRecord.
func (z *ZoneDB) FixedOffset(seconds int, abbrev string) *ZoneRecord {
	if abbrev == "" {
		abbrev = fmt.Sprintf("%+03d%02d", seconds/3600, abs(seconds/60)%60)
	}
	key := "fixed:" + abbrev
	if rec, ok := z.cache[key]; ok {
		return rec
	}
	rec := &ZoneRecord{
		Name: abbrev, StdOffset: seconds, StdAbbrev: abbrev,
		Loc: time.FixedZone(abbrev, seconds),
	}
	z.cache[key] = rec
	return rec
}

// Restore rebuilds (or fabricates) a ZoneRecord from save-payload fields,
// per spec.md S4.3 "if the name is unknown in the host's database, a
// synthetic zone with the saved offsets is fabricated."
func (z *ZoneDB) Restore(name string, stdOffset, dstOffset int, stdAbbrev, dstAbbrev string) *ZoneRecord {
	if name != "" {
		if rec, err := z.Lookup(name); err == nil {
			return rec
		}
	}
	return &ZoneRecord{
		Name: name, StdOffset: stdOffset, DSTOffset: dstOffset,
		StdAbbrev: stdAbbrev, DSTAbbrev: dstAbbrev, Synthetic: true,
		Loc: time.FixedZone(stdAbbrev, stdOffset),
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
