// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package metacore

import (
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

// MetaclassStringBuffer is the registry base name for StringBuffer.
const MetaclassStringBuffer = "string-buffer"

// sbAction labels a StringBuffer undo record's private payload (spec.md
// S3.8: insert/delete/replace shapes are each journaled so undo can
// invert the mutation exactly).
type sbAction int

const (
	sbActionInsert sbAction = iota
	sbActionDelete
	sbActionReplace
)

type sbUndoPayload struct {
	action  sbAction
	at      int
	removed []rune
	added   []rune
}

// StringBuffer is the mutable wide-character buffer metaclass of spec.md
// S3.8: a rune slice (buf[0:length], cap(buf)==alo) that grows in
// increments of at least growth runes, up to maxLen runes, 1-based
// indexing at the operation layer with negative-from-back addressing.
type StringBuffer struct {
	buf    []rune
	maxLen uint32
	growth uint32

	id   ObjID
	undo *UndoJournal
}

// NewStringBuffer creates an empty StringBuffer with the given growth
// granularity and maximum length (spec.md S3.8; Context.Options supplies
// the module-wide defaults, DefaultStrBufGrowth and DefaultStrBufMaxLen).
func NewStringBuffer(id ObjID, undo *UndoJournal, maxLen, growth uint32) *StringBuffer {
	if growth < 16 {
		growth = 16
	}
	if maxLen == 0 || maxLen > DefaultStrBufMaxLen {
		maxLen = DefaultStrBufMaxLen
	}
	sb := &StringBuffer{maxLen: maxLen, growth: growth, id: id, undo: undo}
	if undo != nil {
		undo.Register(id, sb)
	}
	return sb
}

// NewStringBufferFromString seeds a StringBuffer with s's content,
// decoded from UTF-8 into the buffer's native rune-per-character
// representation.
func NewStringBufferFromString(id ObjID, undo *UndoJournal, maxLen, growth uint32, s string) *StringBuffer {
	sb := NewStringBuffer(id, undo, maxLen, growth)
	sb.buf = append(sb.buf, []rune(s)...)
	return sb
}

// DescriptorName implements Instance.
func (*StringBuffer) DescriptorName() string { return MetaclassStringBuffer }

// NotifyDelete implements Instance.
func (*StringBuffer) NotifyDelete(*Context, ObjID) {}

// MarkRefs implements Instance; a StringBuffer holds no object references.
func (*StringBuffer) MarkRefs(func(ObjID)) {}

// RemoveStaleWeakRefs implements Instance.
func (*StringBuffer) RemoveStaleWeakRefs(func(ObjID) bool) {}

// GetProp implements Instance; see BigNumber.GetProp.
func (*StringBuffer) GetProp(*Context, ObjID, PropID, []V) (V, bool, error) {
	return V{}, false, nil
}

// SetProp implements Instance.
func (*StringBuffer) SetProp(*Context, ObjID, PropID, V) error { return ErrInvalidSetProp }

// Length returns the number of characters currently in the buffer.
func (sb *StringBuffer) Length() int { return len(sb.buf) }

// String renders the buffer's content as a UTF-8 Go string.
func (sb *StringBuffer) String() string { return string(sb.buf) }

// resolveIndex converts a 1-based index, with negative values counting
// from the end of the buffer (spec.md S3.8 "index 1..length, or negative
// to count from the end"), to a 0-based offset. ok is false if the index
// is out of bounds for the given operation's allowed range [lo, hi].
func (sb *StringBuffer) resolveIndex(i, lo, hi int) (int, bool) {
	if i < 0 {
		i = len(sb.buf) + 1 + i
	}
	if i < lo || i > hi {
		return 0, false
	}
	return i - 1, true
}

// CharAt returns the character at 1-based index i (spec.md S3.8
// "charAt").
func (sb *StringBuffer) CharAt(i int) (rune, error) {
	idx, ok := sb.resolveIndex(i, 1, len(sb.buf))
	if !ok {
		return 0, ErrIndexOutOfRange
	}
	return sb.buf[idx], nil
}

// checkGrowth reports ErrStrTooLong if adding extra characters would
// exceed maxLen, otherwise ensures the backing array has room for the
// new length, growing by at least sb.growth runes at a time (spec.md
// S3.8 "grows in increments of at least growth").
func (sb *StringBuffer) checkGrowth(extra int) error {
	newLen := len(sb.buf) + extra
	if newLen < 0 || uint32(newLen) > sb.maxLen {
		return ErrStrTooLong
	}
	if cap(sb.buf) >= newLen {
		return nil
	}
	need := newLen - cap(sb.buf)
	inc := int(sb.growth)
	if need > inc {
		inc = need
	}
	grown := make([]rune, len(sb.buf), cap(sb.buf)+inc)
	copy(grown, sb.buf)
	sb.buf = grown
	return nil
}

// Append adds s to the end of the buffer (spec.md S3.8 "append").
func (sb *StringBuffer) Append(s string) error {
	return sb.Insert(len(sb.buf)+1, s)
}

// Insert places s before 1-based index at (len(buf)+1 inserts at the
// end), journaling the inverse delete for undo (spec.md S3.8 "insert").
func (sb *StringBuffer) Insert(at int, s string) error {
	idx, ok := sb.resolveIndex(at, 1, len(sb.buf)+1)
	if !ok {
		return ErrIndexOutOfRange
	}
	runes := []rune(s)
	if len(runes) == 0 {
		return nil
	}
	if err := sb.checkGrowth(len(runes)); err != nil {
		return err
	}
	sb.buf = append(sb.buf[:idx], append(append([]rune(nil), runes...), sb.buf[idx:]...)...)
	if sb.undo != nil {
		sb.undo.AddRecord(sb.id, IntV(int32(idx)), sbUndoPayload{action: sbActionInsert, at: idx, added: runes})
	}
	return nil
}

// Delete removes the characters in the 1-based, inclusive range
// [from, to] (spec.md S3.8 "delete").
func (sb *StringBuffer) Delete(from, to int) error {
	fi, ok := sb.resolveIndex(from, 1, len(sb.buf))
	if !ok {
		return ErrIndexOutOfRange
	}
	ti, ok := sb.resolveIndex(to, 1, len(sb.buf))
	if !ok {
		return ErrIndexOutOfRange
	}
	if ti < fi {
		return ErrOutOfRange
	}
	removed := append([]rune(nil), sb.buf[fi:ti+1]...)
	sb.buf = append(sb.buf[:fi], sb.buf[ti+1:]...)
	if sb.undo != nil {
		sb.undo.AddRecord(sb.id, IntV(int32(fi)), sbUndoPayload{action: sbActionDelete, at: fi, removed: removed})
	}
	return nil
}

// Splice replaces the 1-based, inclusive range [from, to] with s (spec.md
// S3.8 "splice"; an empty range performs a pure insert, an empty s a pure
// delete).
func (sb *StringBuffer) Splice(from, to int, s string) error {
	fi, ok := sb.resolveIndex(from, 1, len(sb.buf)+1)
	if !ok {
		return ErrIndexOutOfRange
	}
	ti := fi - 1
	if to >= from {
		var ok2 bool
		ti, ok2 = sb.resolveIndex(to, 1, len(sb.buf))
		if !ok2 {
			return ErrIndexOutOfRange
		}
	}
	added := []rune(s)
	var removed []rune
	if ti >= fi {
		removed = append([]rune(nil), sb.buf[fi:ti+1]...)
	}
	if err := sb.checkGrowth(len(added) - len(removed)); err != nil {
		return err
	}
	tail := append([]rune(nil), sb.buf[ti+1:]...)
	sb.buf = append(sb.buf[:fi], append(append([]rune(nil), added...), tail...)...)
	if sb.undo != nil {
		sb.undo.AddRecord(sb.id, IntV(int32(fi)), sbUndoPayload{action: sbActionReplace, at: fi, removed: removed, added: added})
	}
	return nil
}

// Substr returns the 1-based, inclusive range [from, to] as a Go string
// (spec.md S3.8 "substr").
func (sb *StringBuffer) Substr(from, to int) (string, error) {
	fi, ok := sb.resolveIndex(from, 1, len(sb.buf))
	if !ok {
		return "", ErrIndexOutOfRange
	}
	ti, ok := sb.resolveIndex(to, 1, len(sb.buf))
	if !ok {
		return "", ErrIndexOutOfRange
	}
	if ti < fi {
		return "", nil
	}
	return string(sb.buf[fi : ti+1]), nil
}

// CopyChars copies the 1-based, inclusive range [from, to] out to dst at
// 1-based index at, growing dst as needed (spec.md S3.8 "copyChars").
func (sb *StringBuffer) CopyChars(dst *StringBuffer, at, from, to int) error {
	s, err := sb.Substr(from, to)
	if err != nil {
		return err
	}
	return dst.Insert(at, s)
}

// Index implements 1-based obj[i] read access (spec.md S3.8 "obj[i]").
func (sb *StringBuffer) Index(i int) (rune, error) { return sb.CharAt(i) }

// SetIndex implements 1-based obj[i]=v write access, journaled as a
// one-character replace (spec.md S3.8 "obj[i]=v").
func (sb *StringBuffer) SetIndex(i int, r rune) error {
	return sb.Splice(i, i, string(r))
}

// ApplyUndo implements Undoable: inverts an insert (delete the inserted
// span), delete (re-insert the removed span), or replace (restore the
// removed span over the added one).
func (sb *StringBuffer) ApplyUndo(rec *Record) {
	p, ok := rec.Extra.(sbUndoPayload)
	if !ok {
		return
	}
	switch p.action {
	case sbActionInsert:
		sb.buf = append(sb.buf[:p.at], sb.buf[p.at+len(p.added):]...)
	case sbActionDelete:
		tail := append([]rune(nil), sb.buf[p.at:]...)
		sb.buf = append(sb.buf[:p.at], append(append([]rune(nil), p.removed...), tail...)...)
	case sbActionReplace:
		tail := append([]rune(nil), sb.buf[p.at+len(p.added):]...)
		sb.buf = append(sb.buf[:p.at], append(append([]rune(nil), p.removed...), tail...)...)
	}
}

// DiscardUndo implements Undoable.
func (sb *StringBuffer) DiscardUndo(*Record) {}

// MarkUndoRef implements Undoable; a StringBuffer record holds no object
// references.
func (sb *StringBuffer) MarkUndoRef(*Record, func(ObjID)) {}

// RemoveStaleUndoWeakRef implements Undoable.
func (sb *StringBuffer) RemoveStaleUndoWeakRef(*Record, func(ObjID) bool) {}

// utf16Codec and utf32Codec expose the wide encodings an image loader
// uses to translate a saved StringBuffer's on-disk character width (the
// original host's wchar_t size) into this package's rune-per-character
// representation, via golang.org/x/text/encoding/unicode and
// .../unicode/utf32 the way the rest of this package leans on
// golang.org/x/text for Unicode-aware conversions rather than hand-rolled
// byte shuffling.
var (
	utf16Codec = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	utf32Codec = utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM)
)

// DecodeWideBytes converts a little-endian wide-character byte stream
// (wordSize 2 for UTF-16, 4 for UTF-32) into a StringBuffer's rune
// content. It's the counterpart image loaders use when restoring a saved
// StringBuffer (spec.md S6.1).
func DecodeWideBytes(data []byte, wordSize int) (string, error) {
	codec := utf16Codec
	if wordSize == 4 {
		dec := utf32Codec.NewDecoder()
		out, err := dec.Bytes(data)
		if err != nil {
			return "", err
		}
		return string(out), nil
	}
	dec := codec.NewDecoder()
	out, err := dec.Bytes(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// EncodeWideBytes is the inverse of DecodeWideBytes, used when saving a
// StringBuffer back to the original host's wide-character width.
func (sb *StringBuffer) EncodeWideBytes(wordSize int) ([]byte, error) {
	if wordSize == 4 {
		enc := utf32Codec.NewEncoder()
		return enc.Bytes([]byte(string(sb.buf)))
	}
	enc := utf16Codec.NewEncoder()
	return enc.Bytes([]byte(string(sb.buf)))
}
