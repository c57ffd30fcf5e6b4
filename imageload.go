// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package metacore

import (
	"encoding/binary"
	"os"

	mmap "github.com/edsrzf/mmap-go"
)

// imageDepTableMagic opens the block of an image file this loader expects:
// a MCLD-tagged table of dependency records, the metaclass-dependency-list
// block spec.md S6.2 says the image-file loader walks before dispatching
// per-object payloads.
var imageDepTableMagic = [4]byte{'M', 'C', 'L', 'D'}

// ImageFile is a memory-mapped image file open for its metaclass
// dependency table only; the per-object payload blocks spec.md S6.2
// describes beyond it are outside this package's scope (SPEC_FULL.md's
// Non-goals carry spec.md's own image-file-framing exclusion forward).
// Mapping rather than reading the whole file into memory follows the
// teacher's own File.New, which opens PE images the same way.
type ImageFile struct {
	f    *os.File
	data mmap.MMap
}

// OpenImageFile memory-maps name for reading.
func OpenImageFile(name string) (*ImageFile, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &ImageFile{f: f, data: data}, nil
}

// Close unmaps and closes the underlying file.
func (img *ImageFile) Close() error {
	if err := img.data.Unmap(); err != nil {
		img.f.Close()
		return err
	}
	return img.f.Close()
}

// DependencyTable reads the MCLD block at byte offset off and parses it into
// DepRecords suitable for Registry.LoadDependencyTable. The on-disk layout,
// modeled on spec.md S3.3/S6.2's description of the table's contents
// (name+version string, func_count, min_prop/max_prop, prop->func_index
// pairs), is:
//
//	4   bytes  "MCLD"
//	4   bytes  record count (uint32 LE)
//	per record:
//	  2 bytes  name length (uint16 LE)
//	  N bytes  name+version string (UTF-8)
//	  2 bytes  func_count (uint16 LE)
//	  2 bytes  min_prop (uint16 LE)
//	  2 bytes  max_prop (uint16 LE)
//	  2 bytes  prop_map entry count (uint16 LE)
//	  per entry: 2 bytes prop (uint16 LE), 2 bytes func_index (uint16 LE)
func (img *ImageFile) DependencyTable(off int) ([]DepRecord, error) {
	data := []byte(img.data)
	if off+8 > len(data) || [4]byte(data[off:off+4]) != imageDepTableMagic {
		return nil, ErrBadImageFormat
	}
	count := binary.LittleEndian.Uint32(data[off+4 : off+8])
	pos := off + 8

	recs := make([]DepRecord, count)
	for i := range recs {
		if pos+2 > len(data) {
			return nil, ErrBadImageFormat
		}
		nameLen := int(binary.LittleEndian.Uint16(data[pos : pos+2]))
		pos += 2
		if pos+nameLen > len(data) {
			return nil, ErrBadImageFormat
		}
		name := string(data[pos : pos+nameLen])
		pos += nameLen

		if pos+8 > len(data) {
			return nil, ErrBadImageFormat
		}
		funcCount := binary.LittleEndian.Uint16(data[pos : pos+2])
		minProp := PropID(binary.LittleEndian.Uint16(data[pos+2 : pos+4]))
		maxProp := PropID(binary.LittleEndian.Uint16(data[pos+4 : pos+6]))
		mapCount := binary.LittleEndian.Uint16(data[pos+6 : pos+8])
		pos += 8

		propMap := make(map[PropID]FuncIndex, mapCount)
		for j := uint16(0); j < mapCount; j++ {
			if pos+4 > len(data) {
				return nil, ErrBadImageFormat
			}
			prop := PropID(binary.LittleEndian.Uint16(data[pos : pos+2]))
			funcIdx := FuncIndex(binary.LittleEndian.Uint16(data[pos+2 : pos+4]))
			propMap[prop] = funcIdx
			pos += 4
		}

		recs[i] = DepRecord{
			NameWithVersion: name,
			FuncCount:       funcCount,
			MinProp:         minProp,
			MaxProp:         maxProp,
			PropMap:         propMap,
		}
	}
	return recs, nil
}

// LoadImageDependencyTable is the convenience path callers use to go
// straight from an image file on disk to a loaded Registry (spec.md S4.1's
// loading contract, fed from the S6.2 on-disk block above).
func (r *Registry) LoadImageDependencyTable(img *ImageFile, off int) error {
	recs, err := img.DependencyTable(off)
	if err != nil {
		return err
	}
	return r.LoadDependencyTable(recs)
}
