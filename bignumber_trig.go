// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package metacore

import "math/big"

// workingPrec returns the guard-digit precision spec.md S4.2 calls for when
// evaluating a transcendental function: "result_prec+3 guard digits,
// rounded down to result_prec on return."
func workingPrec(resultPrec uint16) uint16 { return resultPrec + 3 }

// negligible reports whether term is small enough, relative to acc, that a
// Taylor series can stop: "the next term's exponent falls below the
// accumulator's exponent minus the working precision" (spec.md S4.2).
func negligible(term, acc *BigNumber, prec uint16) bool {
	if term.IsZero() {
		return true
	}
	if acc.IsZero() {
		return false
	}
	return int(term.Exp()) < int(acc.Exp())-int(prec)
}

// series evaluates an alternating (or not) Taylor series given its first
// term and a function computing term_{k+1} from term_k and the 0-based
// index k just produced, summing until negligible relative to prec.
func series(first *BigNumber, prec uint16, next func(term *BigNumber, k int) (*BigNumber, error)) (*BigNumber, error) {
	sum := first
	term := first
	for k := 0; ; k++ {
		nt, err := next(term, k)
		if err != nil {
			return nil, err
		}
		s2, err := Add(sum, nt)
		if err != nil {
			return nil, err
		}
		if negligible(nt, s2, prec) {
			return s2, nil
		}
		sum = s2
		term = nt
	}
}

// toFloat64 gives a coarse float64 approximation of b, used only to seed
// Newton iteration for Sqrt.
func toFloat64(b *BigNumber) float64 {
	if b.typ != numTypeNumber || b.zero {
		return 0
	}
	dv := toDecVal(b)
	f := new(big.Float).SetInt(dv.val)
	scale := new(big.Float).SetInt(tenPow(intAbs(dv.lsbExp)))
	if dv.lsbExp >= 0 {
		f.Mul(f, scale)
	} else {
		f.Quo(f, scale)
	}
	out, _ := f.Float64()
	if dv.neg {
		out = -out
	}
	return out
}

func intAbs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Sqrt computes the non-negative square root of x via Newton's method,
// seeded from a float64 approximation (spec.md S4.2 "Square root").
func Sqrt(c *BigNumCache, x *BigNumber, prec uint16) (*BigNumber, error) {
	if x.IsNegative() && !x.IsZero() {
		return nil, ErrOutOfRange
	}
	if x.IsZero() {
		return newZero(prec), nil
	}
	work := workingPrec(prec)

	seed := toFloat64(x)
	if seed <= 0 {
		seed = 1
	}
	guess, err := NewBigNumberFromString(bigFloatSqrtSeed(seed), work)
	if err != nil {
		return nil, err
	}
	two, _ := NewBigNumberFromInt(2, work)

	xw, err := NewBigNumberFrom(x, work)
	if err != nil {
		return nil, err
	}

	for i := 0; i < 60; i++ {
		quot, err := Div(xw, guess)
		if err != nil {
			return nil, err
		}
		sum, err := Add(guess, quot)
		if err != nil {
			return nil, err
		}
		next, err := Div(sum, two)
		if err != nil {
			return nil, err
		}
		diff, err := Sub(next, guess)
		if err != nil {
			return nil, err
		}
		guess = next
		if diff.IsZero() || int(diff.Exp()) < int(next.Exp())-int(work) {
			break
		}
	}
	return NewBigNumberFrom(guess, prec)
}

// bigFloatSqrtSeed renders a float64 square-root seed as a decimal literal
// NewBigNumberFromString can parse.
func bigFloatSqrtSeed(x float64) string {
	f := new(big.Float).SetPrec(64).Sqrt(big.NewFloat(x))
	return f.Text('f', 20)
}

// sinSeries evaluates sin(x) for |x| already reduced near zero via its
// Taylor series (spec.md S4.2 "Trigonometric functions").
func sinSeries(x *BigNumber, prec uint16) (*BigNumber, error) {
	x2, err := Mul(x, x)
	if err != nil {
		return nil, err
	}
	return series(x, prec, func(term *BigNumber, k int) (*BigNumber, error) {
		t, err := Mul(term, x2)
		if err != nil {
			return nil, err
		}
		t = Neg(t)
		denom, _ := NewBigNumberFromInt(int32((2*k+2)*(2*k+3)), prec)
		return Div(t, denom)
	})
}

// cosSeries evaluates cos(x) near zero via its Taylor series.
func cosSeries(x *BigNumber, prec uint16) (*BigNumber, error) {
	one, _ := NewBigNumberFromInt(1, prec)
	x2, err := Mul(x, x)
	if err != nil {
		return nil, err
	}
	return series(one, prec, func(term *BigNumber, k int) (*BigNumber, error) {
		t, err := Mul(term, x2)
		if err != nil {
			return nil, err
		}
		t = Neg(t)
		denom, _ := NewBigNumberFromInt(int32((2*k+1)*(2*k+2)), prec)
		return Div(t, denom)
	})
}

// reduceAngle brings x into [0, 2*pi) and returns the reduced angle; the
// quadrant folding down to [0, pi/2] is done afterwards by sinCosReduced.
func reduceAngle(c *BigNumCache, x *BigNumber, work uint16) (r *BigNumber, err error) {
	pi, err := c.Pi(work)
	if err != nil {
		return nil, err
	}
	twoPi, err := Mul(pi, mustInt(2, work))
	if err != nil {
		return nil, err
	}
	q, err := Div(x, twoPi)
	if err != nil {
		return nil, err
	}
	qi, err := q.ToInt()
	if err != nil {
		// Argument too large to reduce via int32 quotient; reject rather
		// than silently mis-reduce.
		return nil, ErrOutOfRange
	}
	qn, err := NewBigNumberFromInt(qi, work)
	if err != nil {
		return nil, err
	}
	prod, err := Mul(qn, twoPi)
	if err != nil {
		return nil, err
	}
	r, err = Sub(x, prod)
	if err != nil {
		return nil, err
	}
	if r.IsNegative() {
		r, err = Add(r, twoPi)
		if err != nil {
			return nil, err
		}
	}
	return r, nil
}

func mustInt(i int32, prec uint16) *BigNumber {
	b, _ := NewBigNumberFromInt(i, prec)
	return b
}

// sinCosReduced returns sin and cos of r, r already in [0, 2*pi), by
// quadrant folding down to [0, pi/4] and picking whichever of the two
// faster-converging series applies.
func sinCosReduced(c *BigNumCache, r *BigNumber, work uint16) (s, cs *BigNumber, err error) {
	pi, err := c.Pi(work)
	if err != nil {
		return nil, nil, err
	}
	halfPi, err := Div(pi, mustInt(2, work))
	if err != nil {
		return nil, nil, err
	}
	quarterPi, err := Div(pi, mustInt(4, work))
	if err != nil {
		return nil, nil, err
	}

	sinSign := int32(1)
	cosSign := int32(1)

	// Fold [pi, 2pi) -> [0, pi) with sin flipped, cos flipped.
	if r.Compare(pi) > 0 {
		r, err = Sub(r, pi)
		if err != nil {
			return nil, nil, err
		}
		sinSign, cosSign = -sinSign, -cosSign
	}
	// Fold [pi/2, pi) -> [0, pi/2) with sin(r)=sin(pi-r), cos(r)=-cos(pi-r).
	if r.Compare(halfPi) > 0 {
		r, err = Sub(pi, r)
		if err != nil {
			return nil, nil, err
		}
		cosSign = -cosSign
	}

	var sinVal, cosVal *BigNumber
	if r.Compare(quarterPi) > 0 {
		comp, err := Sub(halfPi, r)
		if err != nil {
			return nil, nil, err
		}
		sinVal, err = cosSeries(comp, work)
		if err != nil {
			return nil, nil, err
		}
		cosVal, err = sinSeries(comp, work)
		if err != nil {
			return nil, nil, err
		}
	} else {
		sinVal, err = sinSeries(r, work)
		if err != nil {
			return nil, nil, err
		}
		cosVal, err = cosSeries(r, work)
		if err != nil {
			return nil, nil, err
		}
	}

	if sinSign < 0 {
		sinVal = Neg(sinVal)
	}
	if cosSign < 0 {
		cosVal = Neg(cosVal)
	}
	return sinVal, cosVal, nil
}

// Sin computes the sine of x (radians) to prec significant digits.
func Sin(c *BigNumCache, x *BigNumber, prec uint16) (*BigNumber, error) {
	work := workingPrec(prec)
	r, err := reduceAngle(c, x, work)
	if err != nil {
		return nil, err
	}
	s, _, err := sinCosReduced(c, r, work)
	if err != nil {
		return nil, err
	}
	return NewBigNumberFrom(s, prec)
}

// Cos computes the cosine of x (radians) to prec significant digits.
func Cos(c *BigNumCache, x *BigNumber, prec uint16) (*BigNumber, error) {
	work := workingPrec(prec)
	r, err := reduceAngle(c, x, work)
	if err != nil {
		return nil, err
	}
	_, cs, err := sinCosReduced(c, r, work)
	if err != nil {
		return nil, err
	}
	return NewBigNumberFrom(cs, prec)
}

// Tan computes the tangent of x as sin(x)/cos(x) (spec.md S4.2).
func Tan(c *BigNumCache, x *BigNumber, prec uint16) (*BigNumber, error) {
	work := workingPrec(prec)
	r, err := reduceAngle(c, x, work)
	if err != nil {
		return nil, err
	}
	s, cs, err := sinCosReduced(c, r, work)
	if err != nil {
		return nil, err
	}
	if cs.IsZero() {
		return nil, ErrDivideByZero
	}
	q, err := Div(s, cs)
	if err != nil {
		return nil, err
	}
	return NewBigNumberFrom(q, prec)
}

// asinSeries evaluates asin(x) for |x| <= 1/sqrt(2) via the binomial
// series sum_k C(2k,k)/(4^k(2k+1)) x^(2k+1) (spec.md S4.2 "Inverse
// trigonometric functions").
func asinSeries(x *BigNumber, prec uint16) (*BigNumber, error) {
	x2, err := Mul(x, x)
	if err != nil {
		return nil, err
	}
	return series(x, prec, func(term *BigNumber, k int) (*BigNumber, error) {
		t, err := Mul(term, x2)
		if err != nil {
			return nil, err
		}
		num, _ := NewBigNumberFromInt(int32((2*k+1)*(2*k+1)), prec)
		t, err = Mul(t, num)
		if err != nil {
			return nil, err
		}
		den, _ := NewBigNumberFromInt(int32(2*(k+1)*(2*k+3)), prec)
		return Div(t, den)
	})
}

// Asin computes the arcsine of x in [-1, 1] to prec significant digits.
func Asin(c *BigNumCache, x *BigNumber, prec uint16) (*BigNumber, error) {
	work := workingPrec(prec)
	one, _ := NewBigNumberFromInt(1, work)
	if x.Compare(one) > 0 || Neg(x).Compare(one) > 0 {
		return nil, ErrOutOfRange
	}
	xw, err := NewBigNumberFrom(x, work)
	if err != nil {
		return nil, err
	}

	half, _ := NewBigNumberFromString("0.5", work)
	sqrtHalf, err := Sqrt(c, half, work)
	if err != nil {
		return nil, err
	}

	absX := xw
	if absX.IsNegative() {
		absX = Neg(absX)
	}

	var result *BigNumber
	if absX.Compare(sqrtHalf) > 0 {
		// |x| close to 1: asin(x) = sign(x)*(pi/2 - asin(sqrt(1-x^2))).
		x2, err := Mul(xw, xw)
		if err != nil {
			return nil, err
		}
		oneMinusX2, err := Sub(one, x2)
		if err != nil {
			return nil, err
		}
		root, err := Sqrt(c, oneMinusX2, work)
		if err != nil {
			return nil, err
		}
		inner, err := Asin(c, root, work)
		if err != nil {
			return nil, err
		}
		pi, err := c.Pi(work)
		if err != nil {
			return nil, err
		}
		halfPi, err := Div(pi, mustInt(2, work))
		if err != nil {
			return nil, err
		}
		result, err = Sub(halfPi, inner)
		if err != nil {
			return nil, err
		}
		if xw.IsNegative() {
			result = Neg(result)
		}
	} else {
		result, err = asinSeries(xw, work)
		if err != nil {
			return nil, err
		}
	}
	return NewBigNumberFrom(result, prec)
}

// Acos computes the arccosine of x as pi/2 - asin(x).
func Acos(c *BigNumCache, x *BigNumber, prec uint16) (*BigNumber, error) {
	work := workingPrec(prec)
	asinVal, err := Asin(c, x, work)
	if err != nil {
		return nil, err
	}
	pi, err := c.Pi(work)
	if err != nil {
		return nil, err
	}
	halfPi, err := Div(pi, mustInt(2, work))
	if err != nil {
		return nil, err
	}
	result, err := Sub(halfPi, asinVal)
	if err != nil {
		return nil, err
	}
	return NewBigNumberFrom(result, prec)
}

// atanSmallSeries evaluates atan(x) for small |x| via its alternating
// Taylor series x - x^3/3 + x^5/5 - ... .
func atanSmallSeries(x *BigNumber, prec uint16) (*BigNumber, error) {
	x2, err := Mul(x, x)
	if err != nil {
		return nil, err
	}
	return series(x, prec, func(term *BigNumber, k int) (*BigNumber, error) {
		t, err := Mul(term, x2)
		if err != nil {
			return nil, err
		}
		t = Neg(t)
		num, _ := NewBigNumberFromInt(int32(2*k+1), prec)
		den, _ := NewBigNumberFromInt(int32(2*k+3), prec)
		t, err = Mul(t, num)
		if err != nil {
			return nil, err
		}
		return Div(t, den)
	})
}

// Atan computes the arctangent of x to prec significant digits, dispatching
// on x's magnitude per spec.md S4.2: direct series for small |x|, the
// complementary 1/x series for large |x|, and an acos-based form in
// between.
func Atan(c *BigNumCache, x *BigNumber, prec uint16) (*BigNumber, error) {
	work := workingPrec(prec)
	if x.IsZero() {
		return newZero(prec), nil
	}
	xw, err := NewBigNumberFrom(x, work)
	if err != nil {
		return nil, err
	}
	neg := xw.IsNegative()
	absX := xw
	if neg {
		absX = Neg(absX)
	}

	var result *BigNumber
	switch {
	case absX.Exp() < -1:
		result, err = atanSmallSeries(absX, work)
	case absX.Exp() > 2:
		one, _ := NewBigNumberFromInt(1, work)
		y, divErr := Div(one, absX)
		if divErr != nil {
			return nil, divErr
		}
		small, serr := atanSmallSeries(y, work)
		if serr != nil {
			return nil, serr
		}
		pi, perr := c.Pi(work)
		if perr != nil {
			return nil, perr
		}
		halfPi, herr := Div(pi, mustInt(2, work))
		if herr != nil {
			return nil, herr
		}
		result, err = Sub(halfPi, small)
	default:
		one, _ := NewBigNumberFromInt(1, work)
		x2, merr := Mul(absX, absX)
		if merr != nil {
			return nil, merr
		}
		onePlusX2, aerr := Add(one, x2)
		if aerr != nil {
			return nil, aerr
		}
		root, serr := Sqrt(c, onePlusX2, work)
		if serr != nil {
			return nil, serr
		}
		invRoot, derr := Div(one, root)
		if derr != nil {
			return nil, derr
		}
		result, err = Acos(c, invRoot, work)
	}
	if err != nil {
		return nil, err
	}
	if neg {
		result = Neg(result)
	}
	return NewBigNumberFrom(result, prec)
}

// expSeries evaluates e^x for |x| <= 1 via its Taylor series.
func expSeries(x *BigNumber, prec uint16) (*BigNumber, error) {
	one, _ := NewBigNumberFromInt(1, prec)
	return series(one, prec, func(term *BigNumber, k int) (*BigNumber, error) {
		t, err := Mul(term, x)
		if err != nil {
			return nil, err
		}
		den, _ := NewBigNumberFromInt(int32(k+1), prec)
		return Div(t, den)
	})
}

// Exp computes e^x to prec significant digits, range-reducing by repeated
// halving and squaring back (spec.md S4.2 "Exponential and logarithm").
func Exp(c *BigNumCache, x *BigNumber, prec uint16) (*BigNumber, error) {
	work := workingPrec(prec)
	xw, err := NewBigNumberFrom(x, work)
	if err != nil {
		return nil, err
	}
	if xw.IsZero() {
		return NewBigNumberFromInt(1, prec)
	}

	halvings := 0
	arg := xw
	one, _ := NewBigNumberFromInt(1, work)
	for arg.Compare(one) > 0 || Neg(arg).Compare(one) > 0 {
		arg, err = Div(arg, mustInt(2, work))
		if err != nil {
			return nil, err
		}
		halvings++
		if halvings > 2048 {
			return nil, ErrNumOverflow
		}
	}

	result, err := expSeries(arg, work)
	if err != nil {
		return nil, err
	}
	for i := 0; i < halvings; i++ {
		result, err = Mul(result, result)
		if err != nil {
			return nil, err
		}
	}
	return NewBigNumberFrom(result, prec)
}

// powerOfTen builds the BigNumber 10^n at the given precision, returning
// ErrNumOverflow if n doesn't fit the 16-bit signed exponent field (spec.md
// S4.2 "the resulting exponent must fit the 16-bit signed field; otherwise
// num-overflow").
func powerOfTen(n int, prec uint16) (*BigNumber, error) {
	exp := n + 1
	if exp < -32768 || exp > 32767 {
		return nil, ErrNumOverflow
	}
	one, _ := NewBigNumberFromInt(1, prec)
	one.exp = int16(exp)
	return one, nil
}

// lnSeries evaluates ln(m) for m close to 1 via 2*atanh((m-1)/(m+1)).
func lnSeries(m *BigNumber, prec uint16) (*BigNumber, error) {
	one, _ := NewBigNumberFromInt(1, prec)
	num, err := Sub(m, one)
	if err != nil {
		return nil, err
	}
	den, err := Add(m, one)
	if err != nil {
		return nil, err
	}
	t, err := Div(num, den)
	if err != nil {
		return nil, err
	}
	t2, err := Mul(t, t)
	if err != nil {
		return nil, err
	}
	sum, err := series(t, prec, func(term *BigNumber, k int) (*BigNumber, error) {
		nt, err := Mul(term, t2)
		if err != nil {
			return nil, err
		}
		num, _ := NewBigNumberFromInt(int32(2*k+1), prec)
		den, _ := NewBigNumberFromInt(int32(2*k+3), prec)
		nt, err = Mul(nt, num)
		if err != nil {
			return nil, err
		}
		return Div(nt, den)
	})
	if err != nil {
		return nil, err
	}
	return Mul(sum, mustInt(2, prec))
}

// lnNoCache computes ln(x) as ln(m) + e*ln(10) with m in [1, 10). The
// cached BigNumCache.Ln10 is consulted only when e != 0, so Ln10 itself can
// call this with sqrt(10) (e == 0) without recursing on construction.
func lnNoCache(c *BigNumCache, x *BigNumber, prec uint16) (*BigNumber, error) {
	if x.IsZero() || x.IsNegative() {
		return nil, ErrOutOfRange
	}
	work := workingPrec(prec)
	e := int(x.Exp()) - 1
	p10, err := powerOfTen(e, work)
	if err != nil {
		return nil, err
	}
	m, err := Div(x, p10)
	if err != nil {
		return nil, err
	}
	lnm, err := lnSeries(m, work)
	if err != nil {
		return nil, err
	}
	if e == 0 {
		return lnm, nil
	}
	en, _ := NewBigNumberFromInt(int32(e), work)
	ln10, err := c.Ln10(work)
	if err != nil {
		return nil, err
	}
	eLn10, err := Mul(en, ln10)
	if err != nil {
		return nil, err
	}
	return Add(lnm, eLn10)
}

// Ln computes the natural logarithm of x to prec significant digits.
func Ln(c *BigNumCache, x *BigNumber, prec uint16) (*BigNumber, error) {
	result, err := lnNoCache(c, x, workingPrec(prec))
	if err != nil {
		return nil, err
	}
	return NewBigNumberFrom(result, prec)
}

// Log10 computes the base-10 logarithm of x as ln(x)/ln(10).
func Log10(c *BigNumCache, x *BigNumber, prec uint16) (*BigNumber, error) {
	work := workingPrec(prec)
	lnx, err := lnNoCache(c, x, work)
	if err != nil {
		return nil, err
	}
	ln10, err := c.Ln10(work)
	if err != nil {
		return nil, err
	}
	result, err := Div(lnx, ln10)
	if err != nil {
		return nil, err
	}
	return NewBigNumberFrom(result, prec)
}

// Pow computes x^y to prec significant digits. For negative x, y must be an
// exact integer (spec.md S4.2 "Power").
func Pow(c *BigNumCache, x, y *BigNumber, prec uint16) (*BigNumber, error) {
	work := workingPrec(prec)
	if x.IsZero() {
		if y.IsZero() {
			return nil, ErrOutOfRange
		}
		if y.IsNegative() {
			return nil, ErrDivideByZero
		}
		return newZero(prec), nil
	}
	if x.IsNegative() {
		yi, err := y.ToInt()
		if err != nil {
			return nil, ErrOutOfRange
		}
		fi, err := NewBigNumberFromInt(yi, work)
		if err != nil {
			return nil, err
		}
		if fi.Compare(y) != 0 {
			return nil, ErrOutOfRange
		}
		posX := Neg(x)
		result, err := Pow(c, posX, y, work)
		if err != nil {
			return nil, err
		}
		if yi%2 != 0 {
			result = Neg(result)
		}
		return NewBigNumberFrom(result, prec)
	}

	lnx, err := lnNoCache(c, x, work)
	if err != nil {
		return nil, err
	}
	yw, err := NewBigNumberFrom(y, work)
	if err != nil {
		return nil, err
	}
	prod, err := Mul(yw, lnx)
	if err != nil {
		return nil, err
	}
	result, err := Exp(c, prod, work)
	if err != nil {
		return nil, err
	}
	return NewBigNumberFrom(result, prec)
}

// Sinh, Cosh and Tanh follow spec.md S4.2's "compute e^x, then e^-x=1/e^x"
// construction.
func Sinh(c *BigNumCache, x *BigNumber, prec uint16) (*BigNumber, error) {
	work := workingPrec(prec)
	ex, exInv, err := expAndInv(c, x, work)
	if err != nil {
		return nil, err
	}
	diff, err := Sub(ex, exInv)
	if err != nil {
		return nil, err
	}
	result, err := Div(diff, mustInt(2, work))
	if err != nil {
		return nil, err
	}
	return NewBigNumberFrom(result, prec)
}

func Cosh(c *BigNumCache, x *BigNumber, prec uint16) (*BigNumber, error) {
	work := workingPrec(prec)
	ex, exInv, err := expAndInv(c, x, work)
	if err != nil {
		return nil, err
	}
	sum, err := Add(ex, exInv)
	if err != nil {
		return nil, err
	}
	result, err := Div(sum, mustInt(2, work))
	if err != nil {
		return nil, err
	}
	return NewBigNumberFrom(result, prec)
}

func Tanh(c *BigNumCache, x *BigNumber, prec uint16) (*BigNumber, error) {
	work := workingPrec(prec)
	ex, exInv, err := expAndInv(c, x, work)
	if err != nil {
		return nil, err
	}
	num, err := Sub(ex, exInv)
	if err != nil {
		return nil, err
	}
	den, err := Add(ex, exInv)
	if err != nil {
		return nil, err
	}
	if den.IsZero() {
		return nil, ErrDivideByZero
	}
	result, err := Div(num, den)
	if err != nil {
		return nil, err
	}
	return NewBigNumberFrom(result, prec)
}

func expAndInv(c *BigNumCache, x *BigNumber, work uint16) (ex, exInv *BigNumber, err error) {
	ex, err = Exp(c, x, work)
	if err != nil {
		return nil, nil, err
	}
	one, _ := NewBigNumberFromInt(1, work)
	exInv, err = Div(one, ex)
	if err != nil {
		return nil, nil, err
	}
	return ex, exInv, nil
}
