// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package metacore

import (
	"errors"
	"testing"
)

func TestRegistryLoadDependencyTableVersionGating(t *testing.T) {
	reg := NewRegistry(nil)
	reg.Register(&Descriptor{NameWithVersion: "bignumber/030005"})

	// The image was compiled against an older minor version than the
	// host provides: loading should succeed (host >= image requirement).
	if err := reg.LoadDependencyTable([]DepRecord{{NameWithVersion: "bignumber/030003", FuncCount: 1}}); err != nil {
		t.Fatalf("LoadDependencyTable(older image version): %v", err)
	}

	// The image requires a newer version than the host implements.
	err := reg.LoadDependencyTable([]DepRecord{{NameWithVersion: "bignumber/030009", FuncCount: 1}})
	if !errors.Is(err, ErrMetaclassTooOld) {
		t.Fatalf("LoadDependencyTable(newer image version) error = %v, want ErrMetaclassTooOld", err)
	}
}

func TestRegistryLoadDependencyTableUnknownMetaclass(t *testing.T) {
	reg := NewRegistry(nil)
	err := reg.LoadDependencyTable([]DepRecord{{NameWithVersion: "nonesuch/030000", FuncCount: 1}})
	if !errors.Is(err, ErrUnknownMetaclass) {
		t.Fatalf("LoadDependencyTable(unknown) error = %v, want ErrUnknownMetaclass", err)
	}
}

func TestRegistryPropFuncXlat(t *testing.T) {
	reg := NewRegistry(nil)
	reg.Register(&Descriptor{NameWithVersion: "bignumber/030000"})

	recs := []DepRecord{{
		NameWithVersion: "bignumber/030000",
		FuncCount:       4,
		MinProp:         100,
		MaxProp:         103,
		PropMap:         map[PropID]FuncIndex{101: 3, 103: 1},
	}}
	if err := reg.LoadDependencyTable(recs); err != nil {
		t.Fatalf("LoadDependencyTable: %v", err)
	}
	entry, err := reg.EntryAt(0)
	if err != nil {
		t.Fatalf("EntryAt(0): %v", err)
	}
	if entry.FuncIndexFor(101) != 3 {
		t.Errorf("FuncIndexFor(101) = %d, want 3", entry.FuncIndexFor(101))
	}
	if entry.FuncIndexFor(102) != 0 {
		t.Errorf("FuncIndexFor(102) = %d, want 0 (unmapped)", entry.FuncIndexFor(102))
	}
	if entry.PropFor(3) != 101 {
		t.Errorf("PropFor(3) = %d, want 101", entry.PropFor(3))
	}
	if entry.PropFor(1) != 103 {
		t.Errorf("PropFor(1) = %d, want 103", entry.PropFor(1))
	}
}

func TestRegistrySaveRestoreRoundTrip(t *testing.T) {
	reg := NewRegistry(nil)
	reg.Register(&Descriptor{NameWithVersion: "bignumber/030000"})

	recs := []DepRecord{{
		NameWithVersion: "bignumber/030000",
		FuncCount:       2,
		MinProp:         10,
		MaxProp:         11,
		PropMap:         map[PropID]FuncIndex{10: 1, 11: 2},
	}}
	if err := reg.LoadDependencyTable(recs); err != nil {
		t.Fatalf("LoadDependencyTable: %v", err)
	}
	payloads := reg.Save()
	if len(payloads) != 1 || payloads[0].Name != "bignumber/030000" {
		t.Fatalf("Save() = %+v, want one payload for bignumber/030000", payloads)
	}

	reg2 := NewRegistry(nil)
	reg2.Register(&Descriptor{NameWithVersion: "bignumber/030000"})
	if err := reg2.Restore(payloads); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	entry, err := reg2.EntryAt(0)
	if err != nil {
		t.Fatalf("EntryAt(0) after restore: %v", err)
	}
	if entry.FuncIndexFor(10) != 1 || entry.FuncIndexFor(11) != 2 {
		t.Errorf("restored FuncIndexFor(10,11) = (%d,%d), want (1,2)", entry.FuncIndexFor(10), entry.FuncIndexFor(11))
	}
}

func TestRegistryEntryForDescriptorUnreferenced(t *testing.T) {
	reg := NewRegistry(nil)
	idx := reg.Register(&Descriptor{NameWithVersion: "bignumber/030000"})
	reg.Register(&Descriptor{NameWithVersion: "dictionary2/000000"})

	recs := []DepRecord{{NameWithVersion: "dictionary2", FuncCount: 0}}
	if err := reg.LoadDependencyTable(recs); err != nil {
		t.Fatalf("LoadDependencyTable: %v", err)
	}
	if entry := reg.EntryForDescriptor(idx); entry != nil {
		t.Errorf("EntryForDescriptor(unreferenced) = %+v, want nil", entry)
	}
}
