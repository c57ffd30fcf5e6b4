// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package metacore

import "math/big"

// resultPrecision picks max(prec1, prec2), per spec.md S4.2 "Required
// operations". It does not look at NaN/Inf; nonFiniteBinary gives NaN/Inf
// results this same precision.
func resultPrecision(a, b *BigNumber) uint16 {
	if a.prec >= b.prec {
		return a.prec
	}
	return b.prec
}

// signedVal returns dv scaled by its sign as a big.Int (negative if neg).
func (dv decVal) signedVal() *big.Int {
	v := new(big.Int).Set(dv.val)
	if dv.neg {
		v.Neg(v)
	}
	return v
}

// alignedAdd returns a+b as a signed decVal at the lower of the two
// lsbExp values, schoolbook-style exponent alignment (spec.md S4.2
// "Addition and subtraction perform schoolbook alignment on exponents").
func alignedAdd(a, b decVal) decVal {
	lsb := a.lsbExp
	if b.lsbExp < lsb {
		lsb = b.lsbExp
	}
	av := a.signedVal()
	av.Mul(av, tenPow(a.lsbExp-lsb))
	bv := b.signedVal()
	bv.Mul(bv, tenPow(b.lsbExp-lsb))
	sum := new(big.Int).Add(av, bv)
	neg := sum.Sign() < 0
	if neg {
		sum.Neg(sum)
	}
	return decVal{val: sum, lsbExp: lsb, neg: neg}
}

// Add returns a+b rounded to max(a.prec, b.prec) digits (spec.md S4.2,
// BN2).
func Add(a, b *BigNumber) (*BigNumber, error) {
	if r, ok := nonFiniteBinary(a, b); ok {
		return r, nil
	}
	prec := resultPrecision(a, b)
	sum := alignedAdd(toDecValOrZero(a), toDecValOrZero(b))
	return bigNumberFromDecVal(sum, prec)
}

// Sub returns a-b rounded to max(a.prec, b.prec) digits.
func Sub(a, b *BigNumber) (*BigNumber, error) {
	if r, ok := nonFiniteBinary(a, b); ok {
		return r, nil
	}
	prec := resultPrecision(a, b)
	bv := toDecValOrZero(b)
	bv.neg = !bv.neg
	sum := alignedAdd(toDecValOrZero(a), bv)
	return bigNumberFromDecVal(sum, prec)
}

// Neg returns -b.
func Neg(b *BigNumber) *BigNumber {
	if b.typ != numTypeNumber || b.zero {
		out := *b
		return &out
	}
	out := *b
	out.digits = append([]byte(nil), b.digits...)
	out.neg = !b.neg
	return &out
}

// Mul returns a*b rounded to max(a.prec, b.prec) digits (spec.md S4.2
// "Multiplication").
func Mul(a, b *BigNumber) (*BigNumber, error) {
	if r, ok := nonFiniteBinary(a, b); ok {
		return r, nil
	}
	prec := resultPrecision(a, b)
	av := toDecValOrZero(a)
	bv := toDecValOrZero(b)
	if av.val.Sign() == 0 || bv.val.Sign() == 0 {
		return newZero(prec), nil
	}
	val := new(big.Int).Mul(av.val, bv.val)
	dv := decVal{val: val, lsbExp: av.lsbExp + bv.lsbExp, neg: av.neg != bv.neg}
	return bigNumberFromDecVal(dv, prec)
}

// Div returns a/b rounded to max(a.prec, b.prec) + 1 working digits then
// rounded to max(a.prec, b.prec) (spec.md S4.2 "Division": "stops after
// prec+1 digits, then rounds the last dropped digit").
func Div(a, b *BigNumber) (*BigNumber, error) {
	if r, ok := nonFiniteBinary(a, b); ok {
		return r, nil
	}
	prec := resultPrecision(a, b)
	bv := toDecValOrZero(b)
	if bv.val.Sign() == 0 {
		return nil, ErrDivideByZero
	}
	av := toDecValOrZero(a)
	if av.val.Sign() == 0 {
		return newZero(prec), nil
	}

	na := len(av.val.Text(10))
	nb := len(bv.val.Text(10))
	k := int(prec) + 2 + nb - na
	if k < 0 {
		k = 0
	}

	num := new(big.Int).Mul(av.val, tenPow(k))
	q := new(big.Int).Quo(num, bv.val)
	dv := decVal{val: q, lsbExp: av.lsbExp - bv.lsbExp - k, neg: av.neg != bv.neg}
	return bigNumberFromDecVal(dv, prec)
}

// DivRem performs integer division with remainder: the quotient is
// truncated to an integer and the remainder satisfies a = quotient*b +
// remainder (spec.md S4.2 "An optional remainder output truncates the
// quotient to an integer").
func DivRem(a, b *BigNumber) (quotient, remainder *BigNumber, err error) {
	if a.typ != numTypeNumber || b.typ != numTypeNumber {
		return nil, nil, ErrBadTypeBif
	}
	bv := toDecValOrZero(b)
	if bv.val.Sign() == 0 {
		return nil, nil, ErrDivideByZero
	}
	prec := resultPrecision(a, b)
	q, err := Div(a, b)
	if err != nil {
		return nil, nil, err
	}
	qi, err := q.ToInt()
	if err != nil {
		return nil, nil, err
	}
	quotient, err = NewBigNumberFromInt(qi, prec)
	if err != nil {
		return nil, nil, err
	}
	prod, err := Mul(quotient, b)
	if err != nil {
		return nil, nil, err
	}
	remainder, err = Sub(a, prod)
	if err != nil {
		return nil, nil, err
	}
	return quotient, remainder, nil
}

// toDecValOrZero converts non-zero numeric BigNumbers via toDecVal and
// returns a zero decVal for the zero value.
func toDecValOrZero(b *BigNumber) decVal {
	if b.typ != numTypeNumber || b.zero {
		return decVal{val: big.NewInt(0)}
	}
	return toDecVal(b)
}

// nonFiniteBinary handles NaN/Inf propagation for binary operators,
// returning (result, true) if either operand is non-finite.
func nonFiniteBinary(a, b *BigNumber) (*BigNumber, bool) {
	if a.typ == numTypeNaN || b.typ == numTypeNaN {
		return &BigNumber{prec: resultPrecision(a, b), typ: numTypeNaN, digits: zeroDigits(resultPrecision(a, b))}, true
	}
	if a.typ == numTypeInf || b.typ == numTypeInf {
		prec := resultPrecision(a, b)
		neg := a.neg
		if a.typ != numTypeInf {
			neg = b.neg
		}
		return &BigNumber{prec: prec, typ: numTypeInf, neg: neg, digits: zeroDigits(prec)}, true
	}
	return nil, false
}
