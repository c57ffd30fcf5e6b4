// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package metacore

import (
	"strings"
	"testing"
)

func TestBumpedPrec(t *testing.T) {
	tests := []struct {
		in   uint16
		want uint16
	}{
		{8, 8},
		{1, 8},
		{9, 16},
		{16, 16},
		{0, 0},
	}
	for _, tt := range tests {
		if got := bumpedPrec(tt.in); got != tt.want {
			t.Errorf("bumpedPrec(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestBigNumCacheLeaseRelease(t *testing.T) {
	c := NewBigNumCache(10, nil)
	c.maxRegs = 2

	handles, err := c.Lease(2)
	if err != nil {
		t.Fatalf("Lease(2): %v", err)
	}
	if _, err := c.Lease(1); err != ErrBignumNoRegs {
		t.Errorf("Lease beyond pool capacity error = %v, want ErrBignumNoRegs", err)
	}
	c.Release(handles...)
	if _, err := c.Lease(2); err != nil {
		t.Errorf("Lease(2) after Release: %v, want nil error", err)
	}
}

func TestBigNumCacheSetGet(t *testing.T) {
	c := NewBigNumCache(10, nil)
	handles, err := c.Lease(1)
	if err != nil {
		t.Fatalf("Lease(1): %v", err)
	}
	v, _ := NewBigNumberFromString("42", 10)
	c.Set(handles[0], v)
	if got := c.Get(handles[0]); got != v {
		t.Errorf("Get() = %v, want the value just Set()", got)
	}
}

func TestBigNumCachePi(t *testing.T) {
	c := NewBigNumCache(10, nil)
	pi, err := c.Pi(6)
	if err != nil {
		t.Fatalf("Pi(6): %v", err)
	}
	got := pi.Format(FormatOptions{})
	if !strings.HasPrefix(got, "3.14159") {
		t.Errorf("Pi(6) = %q, want prefix 3.14159", got)
	}
}

func TestBigNumCacheE(t *testing.T) {
	c := NewBigNumCache(10, nil)
	e, err := c.E(6)
	if err != nil {
		t.Fatalf("E(6): %v", err)
	}
	got := e.Format(FormatOptions{})
	if !strings.HasPrefix(got, "2.71828") {
		t.Errorf("E(6) = %q, want prefix 2.71828", got)
	}
}

func TestBigNumCacheLn10(t *testing.T) {
	c := NewBigNumCache(10, nil)
	ln10, err := c.Ln10(6)
	if err != nil {
		t.Fatalf("Ln10(6): %v", err)
	}
	got := ln10.Format(FormatOptions{})
	if !strings.HasPrefix(got, "2.30258") {
		t.Errorf("Ln10(6) = %q, want prefix 2.30258", got)
	}
}

func TestBigNumCachePiCachesAcrossCalls(t *testing.T) {
	c := NewBigNumCache(10, nil)
	if _, err := c.Pi(5); err != nil {
		t.Fatalf("Pi(5): %v", err)
	}
	cached := c.pi
	if _, err := c.Pi(5); err != nil {
		t.Fatalf("Pi(5) again: %v", err)
	}
	if c.pi != cached {
		t.Errorf("Pi(5) recomputed the cached constant when precision did not increase")
	}
}
