// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package metacore

import (
	"github.com/go-kratos/kratos/v2/log"
)

// RegHandle identifies one leased slot of the BigNumber temp-register
// pool (spec.md S4.2/S5).
type RegHandle int

// regHysteresisStep is the "next multiple of 8" bucketing spec.md S4.2
// applies to cached-constant precision, to avoid recomputing pi/e/ln10 on
// every single-digit increase in requested precision.
const regHysteresisStep = 8

// BigNumCache is the per-VM BigNumber constant cache and temp-register
// pool of spec.md S4.2/S5: "A small pool of temp registers is allocated
// from a per-VM CVmBigNumCache keyed by (max_precision_reached, count) so
// repeated operations reuse allocations," plus the cached pi/e/ln10
// registers, "each recomputed from scratch when extended."
type BigNumCache struct {
	defaultPrec uint16

	pi   *BigNumber
	e    *BigNumber
	ln10 *BigNumber

	leased  map[RegHandle]*BigNumber
	free    []RegHandle
	next    RegHandle
	maxRegs int

	logger *log.Helper
}

// NewBigNumCache creates an empty cache.
func NewBigNumCache(defaultPrec uint16, logger *log.Helper) *BigNumCache {
	return &BigNumCache{
		defaultPrec: defaultPrec,
		leased:      make(map[RegHandle]*BigNumber),
		maxRegs:     DefaultMaxTempRegs,
		logger:      logger,
	}
}

// Lease checks out n fresh temp registers, LIFO-per-operation per spec.md
// S5, returning ErrBignumNoRegs if the pool is exhausted.
func (c *BigNumCache) Lease(n int) ([]RegHandle, error) {
	if len(c.leased)+n > c.maxRegs {
		return nil, ErrBignumNoRegs
	}
	out := make([]RegHandle, n)
	for i := 0; i < n; i++ {
		c.next++
		h := c.next
		c.leased[h] = nil
		out[i] = h
	}
	return out, nil
}

// Release returns handles to the pool. Per spec.md S5, "release_temp_regs
// (n, handles...) must be called on every exit path, including throw,
// from the leasing frame" — callers satisfy this with `defer`.
func (c *BigNumCache) Release(handles ...RegHandle) {
	for _, h := range handles {
		delete(c.leased, h)
	}
}

// Set stores v in a leased register.
func (c *BigNumCache) Set(h RegHandle, v *BigNumber) { c.leased[h] = v }

// Get retrieves a leased register's current value.
func (c *BigNumCache) Get(h RegHandle) *BigNumber { return c.leased[h] }

// withTemps leases n scratch registers for the duration of fn, guaranteeing
// release on every exit path (spec.md S5 "Resource acquisition patterns").
func withTemps(c *BigNumCache, n int, fn func() (*BigNumber, error)) (*BigNumber, error) {
	handles, err := c.Lease(n)
	if err != nil {
		return nil, err
	}
	defer c.Release(handles...)
	return fn()
}

// bumpedPrec rounds prec up to the next multiple of regHysteresisStep, the
// hysteresis spec.md S4.2 specifies for the cached constants.
func bumpedPrec(prec uint16) uint16 {
	if prec%regHysteresisStep == 0 {
		return prec
	}
	return ((prec / regHysteresisStep) + 1) * regHysteresisStep
}

// Pi returns pi to at least prec significant digits, recomputing (via
// 4*asin(sqrt(1/2)), spec.md S9 Open Question (b)) only when the cached
// value falls short.
func (c *BigNumCache) Pi(prec uint16) (*BigNumber, error) {
	if c.pi != nil && c.pi.prec >= prec {
		return NewBigNumberFrom(c.pi, prec)
	}
	target := bumpedPrec(prec)
	work := target + 3

	half, err := NewBigNumberFromString("0.5", work)
	if err != nil {
		return nil, err
	}
	sqrtHalf, err := Sqrt(c, half, work)
	if err != nil {
		return nil, err
	}
	asinVal, err := Asin(c, sqrtHalf, work)
	if err != nil {
		return nil, err
	}
	four, _ := NewBigNumberFromInt(4, work)
	piWork, err := Mul(four, asinVal)
	if err != nil {
		return nil, err
	}
	pi, err := NewBigNumberFrom(piWork, target)
	if err != nil {
		return nil, err
	}
	c.pi = pi
	return NewBigNumberFrom(pi, prec)
}

// E returns e to at least prec significant digits (via exp(1)).
func (c *BigNumCache) E(prec uint16) (*BigNumber, error) {
	if c.e != nil && c.e.prec >= prec {
		return NewBigNumberFrom(c.e, prec)
	}
	target := bumpedPrec(prec)
	work := target + 3
	one, _ := NewBigNumberFromInt(1, work)
	eWork, err := Exp(c, one, work)
	if err != nil {
		return nil, err
	}
	e, err := NewBigNumberFrom(eWork, target)
	if err != nil {
		return nil, err
	}
	c.e = e
	return NewBigNumberFrom(e, prec)
}

// Ln10 returns ln(10) to at least prec significant digits (via
// 2*ln(sqrt(10)), spec.md S9 Open Question (b)).
func (c *BigNumCache) Ln10(prec uint16) (*BigNumber, error) {
	if c.ln10 != nil && c.ln10.prec >= prec {
		return NewBigNumberFrom(c.ln10, prec)
	}
	target := bumpedPrec(prec)
	work := target + 3
	ten, _ := NewBigNumberFromInt(10, work)
	sqrt10, err := Sqrt(c, ten, work)
	if err != nil {
		return nil, err
	}
	lnSqrt10, err := lnNoCache(c, sqrt10, work)
	if err != nil {
		return nil, err
	}
	two, _ := NewBigNumberFromInt(2, work)
	ln10Work, err := Mul(two, lnSqrt10)
	if err != nil {
		return nil, err
	}
	ln10, err := NewBigNumberFrom(ln10Work, target)
	if err != nil {
		return nil, err
	}
	c.ln10 = ln10
	return NewBigNumberFrom(ln10, prec)
}
