// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package metacore

import (
	"strings"
	"testing"
)

func TestSqrt(t *testing.T) {
	c := NewBigNumCache(10, nil)
	x, _ := NewBigNumberFromString("2", 10)
	got, err := Sqrt(c, x, 8)
	if err != nil {
		t.Fatalf("Sqrt(2): %v", err)
	}
	if s := got.Format(FormatOptions{}); !strings.HasPrefix(s, "1.4142135") {
		t.Errorf("Sqrt(2) = %q, want prefix 1.4142135", s)
	}

	perfect, _ := NewBigNumberFromString("9", 10)
	got2, err := Sqrt(c, perfect, 8)
	if err != nil {
		t.Fatalf("Sqrt(9): %v", err)
	}
	if s := got2.Format(FormatOptions{}); s != "3" {
		t.Errorf("Sqrt(9) = %q, want 3", s)
	}
}

func TestSinCos(t *testing.T) {
	c := NewBigNumCache(10, nil)
	zero, _ := NewBigNumberFromString("0", 10)
	sin0, err := Sin(c, zero, 8)
	if err != nil {
		t.Fatalf("Sin(0): %v", err)
	}
	if sin0.Format(FormatOptions{}) != "0" {
		t.Errorf("Sin(0) = %q, want 0", sin0.Format(FormatOptions{}))
	}
	cos0, err := Cos(c, zero, 8)
	if err != nil {
		t.Fatalf("Cos(0): %v", err)
	}
	if cos0.Format(FormatOptions{}) != "1" {
		t.Errorf("Cos(0) = %q, want 1", cos0.Format(FormatOptions{}))
	}
}

func TestAsinOfHalf(t *testing.T) {
	c := NewBigNumCache(10, nil)
	half, _ := NewBigNumberFromString("0.5", 10)
	got, err := Asin(c, half, 8)
	if err != nil {
		t.Fatalf("Asin(0.5): %v", err)
	}
	// asin(0.5) = pi/6 ~= 0.523598776.
	if s := got.Format(FormatOptions{}); !strings.HasPrefix(s, "0.52359") {
		t.Errorf("Asin(0.5) = %q, want prefix 0.52359", s)
	}
}

func TestExpOfOne(t *testing.T) {
	c := NewBigNumCache(10, nil)
	one, _ := NewBigNumberFromString("1", 10)
	got, err := Exp(c, one, 8)
	if err != nil {
		t.Fatalf("Exp(1): %v", err)
	}
	if s := got.Format(FormatOptions{}); !strings.HasPrefix(s, "2.71828") {
		t.Errorf("Exp(1) = %q, want prefix 2.71828", s)
	}
}

func TestLnOfE(t *testing.T) {
	c := NewBigNumCache(10, nil)
	e, err := c.E(8)
	if err != nil {
		t.Fatalf("E(8): %v", err)
	}
	got, err := Ln(c, e, 6)
	if err != nil {
		t.Fatalf("Ln(e): %v", err)
	}
	if s := got.Format(FormatOptions{}); !strings.HasPrefix(s, "1") {
		t.Errorf("Ln(e) = %q, want approximately 1", s)
	}
}

func TestLog10OfHundred(t *testing.T) {
	c := NewBigNumCache(10, nil)
	hundred, _ := NewBigNumberFromString("100", 10)
	got, err := Log10(c, hundred, 6)
	if err != nil {
		t.Fatalf("Log10(100): %v", err)
	}
	if s := got.Format(FormatOptions{}); !strings.HasPrefix(s, "2") {
		t.Errorf("Log10(100) = %q, want 2", s)
	}
}

func TestPow(t *testing.T) {
	c := NewBigNumCache(10, nil)
	two, _ := NewBigNumberFromString("2", 10)
	ten, _ := NewBigNumberFromString("10", 10)
	got, err := Pow(c, two, ten, 8)
	if err != nil {
		t.Fatalf("Pow(2, 10): %v", err)
	}
	if s := got.Format(FormatOptions{}); !strings.HasPrefix(s, "1024") {
		t.Errorf("Pow(2, 10) = %q, want 1024", s)
	}
}

func TestSinhCoshZero(t *testing.T) {
	c := NewBigNumCache(10, nil)
	zero, _ := NewBigNumberFromString("0", 10)
	sinh0, err := Sinh(c, zero, 8)
	if err != nil {
		t.Fatalf("Sinh(0): %v", err)
	}
	if sinh0.Format(FormatOptions{}) != "0" {
		t.Errorf("Sinh(0) = %q, want 0", sinh0.Format(FormatOptions{}))
	}
	cosh0, err := Cosh(c, zero, 8)
	if err != nil {
		t.Fatalf("Cosh(0): %v", err)
	}
	if cosh0.Format(FormatOptions{}) != "1" {
		t.Errorf("Cosh(0) = %q, want 1", cosh0.Format(FormatOptions{}))
	}
}
