// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package metacore

import (
	"hash/fnv"

	"golang.org/x/text/cases"
	"golang.org/x/text/width"
)

// Comparator is the Dictionary hashing/matching capability set of spec.md
// S4.4: CalcHash provides the hash-table key, MatchValues reports a
// "match quality" (any non-zero integer counts as a match), and FoldRune
// folds one character for trie/spell-correction comparisons.
type Comparator interface {
	CalcHash(s string) uint64
	MatchValues(a, b string) int
	FoldRune(r rune) rune
}

// ByteExactComparator is the default comparator when Dictionary.comparator
// is INVALID: byte-exact equality with an FNV-1a hash over the UTF-8
// encoding (spec.md S4.4 "absent: byte-exact equality, FNV-style hash on
// UTF-8").
type ByteExactComparator struct{}

// CalcHash implements Comparator.
func (ByteExactComparator) CalcHash(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

// MatchValues implements Comparator: 1 on exact match, 0 otherwise.
func (ByteExactComparator) MatchValues(a, b string) int {
	if a == b {
		return 1
	}
	return 0
}

// FoldRune implements Comparator: no folding.
func (ByteExactComparator) FoldRune(r rune) rune { return r }

// StringComparator is the specialized comparator of spec.md S4.4: folds
// case and full/half-width variants before hashing or matching, using
// golang.org/x/text/cases and golang.org/x/text/width the way the rest of
// this package leans on golang.org/x/text for Unicode-aware text handling.
// Per spec.md S4.4, detecting this concrete type (vs. a generic VM-object
// comparator) lets Dictionary bypass interpreter re-entry on every
// hash/compare.
type StringComparator struct {
	folder cases.Caser
}

// NewStringComparator creates a StringComparator using Unicode default
// case folding.
func NewStringComparator() *StringComparator {
	return &StringComparator{folder: cases.Fold()}
}

func (c *StringComparator) normalize(s string) string {
	return c.folder.String(width.Fold.String(s))
}

// CalcHash implements Comparator.
func (c *StringComparator) CalcHash(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(c.normalize(s)))
	return h.Sum64()
}

// MatchValues implements Comparator.
func (c *StringComparator) MatchValues(a, b string) int {
	if c.normalize(a) == c.normalize(b) {
		return 1
	}
	return 0
}

// FoldRune implements Comparator.
func (c *StringComparator) FoldRune(r rune) rune {
	folded := []rune(c.normalize(string(r)))
	if len(folded) == 0 {
		return r
	}
	return folded[0]
}
