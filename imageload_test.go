// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package metacore

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// buildImageFile writes a minimal MCLD block (one dependency record) to a
// temp file and returns its path.
func buildImageFile(t *testing.T, name string) string {
	t.Helper()
	var buf []byte
	buf = append(buf, imageDepTableMagic[:]...)

	rec := []byte(name)
	le2 := func(v uint16) []byte { b := make([]byte, 2); binary.LittleEndian.PutUint16(b, v); return b }
	le4 := func(v uint32) []byte { b := make([]byte, 4); binary.LittleEndian.PutUint32(b, v); return b }

	buf = append(buf, le4(1)...) // record count

	buf = append(buf, le2(uint16(len(rec)))...)
	buf = append(buf, rec...)
	buf = append(buf, le2(4)...) // func count
	buf = append(buf, le2(100)...) // min prop
	buf = append(buf, le2(103)...) // max prop
	buf = append(buf, le2(1)...)   // prop map entries
	buf = append(buf, le2(101)...) // prop
	buf = append(buf, le2(3)...)   // func index

	dir := t.TempDir()
	path := filepath.Join(dir, "image.bin")
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestImageFileDependencyTable(t *testing.T) {
	tests := []struct {
		name    string
		recName string
	}{
		{"bignumber at v30000", "bignumber/030000"},
		{"dictionary2 no version", "dictionary2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := buildImageFile(t, tt.recName)
			img, err := OpenImageFile(path)
			if err != nil {
				t.Fatalf("OpenImageFile: %v", err)
			}
			defer img.Close()

			recs, err := img.DependencyTable(0)
			if err != nil {
				t.Fatalf("DependencyTable: %v", err)
			}
			if len(recs) != 1 {
				t.Fatalf("got %d records, want 1", len(recs))
			}
			rec := recs[0]
			if rec.NameWithVersion != tt.recName {
				t.Errorf("NameWithVersion = %q, want %q", rec.NameWithVersion, tt.recName)
			}
			if rec.FuncCount != 4 {
				t.Errorf("FuncCount = %d, want 4", rec.FuncCount)
			}
			if rec.MinProp != 100 || rec.MaxProp != 103 {
				t.Errorf("prop range = [%d,%d], want [100,103]", rec.MinProp, rec.MaxProp)
			}
			if rec.PropMap[101] != 3 {
				t.Errorf("PropMap[101] = %d, want 3", rec.PropMap[101])
			}
		})
	}
}

func TestImageFileBadMagic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.bin")
	if err := os.WriteFile(path, []byte("XXXX\x00\x00\x00\x00"), 0o644); err != nil {
		t.Fatal(err)
	}
	img, err := OpenImageFile(path)
	if err != nil {
		t.Fatalf("OpenImageFile: %v", err)
	}
	defer img.Close()

	if _, err := img.DependencyTable(0); err != ErrBadImageFormat {
		t.Fatalf("DependencyTable error = %v, want ErrBadImageFormat", err)
	}
}

func TestLoadImageDependencyTable(t *testing.T) {
	path := buildImageFile(t, "bignumber/030000")
	img, err := OpenImageFile(path)
	if err != nil {
		t.Fatalf("OpenImageFile: %v", err)
	}
	defer img.Close()

	reg := NewRegistry(nil)
	reg.Register(&Descriptor{NameWithVersion: "bignumber/030000"})

	if err := reg.LoadImageDependencyTable(img, 0); err != nil {
		t.Fatalf("LoadImageDependencyTable: %v", err)
	}
	entry, err := reg.EntryAt(0)
	if err != nil {
		t.Fatalf("EntryAt: %v", err)
	}
	if entry.Descriptor.NameWithVersion != "bignumber/030000" {
		t.Errorf("resolved descriptor = %q, want bignumber/030000", entry.Descriptor.NameWithVersion)
	}
}
