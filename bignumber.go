// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package metacore

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/go-kratos/kratos/v2/log"
)

// numType is the 2-bit "type" subfield of a BigNumber's flags byte
// (spec.md S3.4).
type numType uint8

const (
	numTypeNumber numType = 0
	numTypeNaN    numType = 1
	numTypeInf    numType = 2
)

// BigNumber is the arbitrary-precision decimal metaclass of spec.md S3.4/
// S4.2. Internally the packed-BCD mantissa is kept unpacked as one decimal
// digit per byte (most significant first); PackBCD/UnpackBCD convert to
// and from the on-disk packed form at the S6.1 image/save boundary. Per
// DESIGN.md's design note, the actual arithmetic (add/sub/mul/div) is
// performed by scaling this digit string through math/big.Int rather than
// a hand-rolled digit-by-digit borrow/carry loop: both produce the same
// rounded decimal result and the same on-disk bytes, but the big.Int path
// is far less error-prone to hand-verify without a build, and spec.md S9
// explicitly leaves the internal digit representation to the implementer.
type BigNumber struct {
	prec   uint16
	exp    int16
	zero   bool
	neg    bool
	typ    numType
	digits []byte // len == prec, each 0..9, digits[0] most significant

	id     ObjID
	logger *log.Helper
}

// DescriptorName implements Instance.
func (*BigNumber) DescriptorName() string { return MetaclassBigNumber }

// NotifyDelete implements Instance; BigNumber holds no host resources.
func (*BigNumber) NotifyDelete(*Context, ObjID) {}

// MarkRefs implements Instance; BigNumber holds no inter-object references
// (spec.md S9: "The StringBuffer and BigNumber hold no inter-object
// references and are unaffected").
func (*BigNumber) MarkRefs(func(ObjID)) {}

// RemoveStaleWeakRefs implements Instance; no-op for the same reason.
func (*BigNumber) RemoveStaleWeakRefs(func(ObjID) bool) {}

// GetProp implements Instance. BigNumber's intrinsic methods are dispatched
// through the registry's function table (spec.md S4.1), not through this
// method — it exists only so *BigNumber satisfies Instance for objects
// that chain to it as a modifier, which never applies to a metaclass
// instance itself.
func (*BigNumber) GetProp(*Context, ObjID, PropID, []V) (V, bool, error) { return V{}, false, nil }

// SetProp implements Instance; BigNumber exposes no settable properties.
func (*BigNumber) SetProp(*Context, ObjID, PropID, V) error { return ErrInvalidSetProp }

// MetaclassBigNumber is the registry base name for BigNumber.
const MetaclassBigNumber = "bignumber"

// zeroDigits returns a fresh all-zero digit slice of length prec.
func zeroDigits(prec uint16) []byte {
	return make([]byte, prec)
}

// newZero builds the normalized zero value at the given precision
// (spec.md S3.4: "Zero has zero=1, neg=0, exp=0, all mantissa bytes
// zero").
func newZero(prec uint16) *BigNumber {
	if prec == 0 {
		prec = 1
	}
	return &BigNumber{prec: prec, exp: 0, zero: true, digits: zeroDigits(prec)}
}

// NewBigNumberFromInt constructs a BigNumber representing i at precision
// prec (spec.md S4.2 "Construction from: integer ...").
func NewBigNumberFromInt(i int32, prec uint16) (*BigNumber, error) {
	if prec == 0 {
		prec = DefaultPrecision
	}
	neg := i < 0
	mag := int64(i)
	if neg {
		mag = -mag
	}
	if mag == 0 {
		return newZero(prec), nil
	}
	return bigNumberFromDecVal(decVal{val: big.NewInt(mag), lsbExp: 0, neg: neg}, prec)
}

// NewBigNumberFromString parses a decimal string with optional sign,
// decimal point and scientific exponent (spec.md S4.2). If prec is 0, the
// precision defaults to the number of significant digits present.
func NewBigNumberFromString(s string, prec uint16) (*BigNumber, error) {
	neg, mantDigits, pointPos, sciExp, err := parseDecimalLiteral(s)
	if err != nil {
		return nil, err
	}

	if len(mantDigits) == 0 {
		return newZero(pickPrec(prec, 1)), nil
	}

	// Strip leading zeros (they don't count toward significant digits) but
	// keep at least one digit.
	lead := 0
	for lead < len(mantDigits)-1 && mantDigits[lead] == '0' {
		lead++
	}
	trimmedLeadCount := lead
	mantDigits = mantDigits[lead:]
	pointPos -= trimmedLeadCount

	sigDigits := uint16(len(mantDigits))
	if prec == 0 {
		prec = sigDigits
		if prec == 0 {
			prec = 1
		}
	}

	mant := new(big.Int)
	mant.SetString(string(mantDigits), 10)

	// value = mant * 10^(pointPos - len(mantDigits)) * 10^sciExp
	lsbExp := (pointPos - len(mantDigits)) + sciExp

	return bigNumberFromDecVal(decVal{val: mant, lsbExp: lsbExp, neg: neg}, prec)
}

// pickPrec returns prec if non-zero, else fallback.
func pickPrec(prec, fallback uint16) uint16 {
	if prec == 0 {
		return fallback
	}
	return prec
}

// parseDecimalLiteral accepts [sign] digits [. digits] [(e|E)[sign]digits]
// and returns the sign, concatenated mantissa digits (integer part +
// fractional part, no point), the position of the decimal point within
// that digit string (number of digits before the point), and the parsed
// scientific exponent (0 if absent).
func parseDecimalLiteral(s string) (neg bool, mantissa []byte, pointPos int, sciExp int, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return false, nil, 0, 0, ErrBadValBif
	}
	i := 0
	if s[i] == '+' || s[i] == '-' {
		neg = s[i] == '-'
		i++
	}

	start := i
	intDigits := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
		intDigits++
	}
	var intPart, fracPart []byte
	intPart = []byte(s[start : start+intDigits])

	if i < len(s) && s[i] == '.' {
		i++
		fstart := i
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		fracPart = []byte(s[fstart:i])
	}

	if len(intPart) == 0 && len(fracPart) == 0 {
		return false, nil, 0, 0, ErrBadValBif
	}

	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		expStr := s[i:]
		if expStr == "" {
			return false, nil, 0, 0, ErrBadValBif
		}
		n, err := strconv.Atoi(expStr)
		if err != nil {
			return false, nil, 0, 0, ErrBadValBif
		}
		sciExp = n
		i = len(s)
	}

	if i != len(s) {
		return false, nil, 0, 0, ErrBadValBif
	}

	mantissa = append(append([]byte(nil), intPart...), fracPart...)
	pointPos = len(intPart)
	return neg, mantissa, pointPos, sciExp, nil
}

// NewBigNumberFrom rounds src to the given precision (0 means "keep src's
// current precision"), per spec.md S4.2 "from another BigNumber with
// optional precision (rounded)".
func NewBigNumberFrom(src *BigNumber, prec uint16) (*BigNumber, error) {
	if prec == 0 {
		prec = src.prec
	}
	if src.typ != numTypeNumber {
		out := &BigNumber{prec: prec, typ: src.typ, neg: src.neg}
		out.digits = zeroDigits(prec)
		return out, nil
	}
	if src.zero {
		return newZero(prec), nil
	}
	dv := toDecVal(src)
	return bigNumberFromDecVal(dv, prec)
}

// Precision returns the mantissa precision (digit count).
func (b *BigNumber) Precision() uint16 { return b.prec }

// IsZero reports whether b is the zero value.
func (b *BigNumber) IsZero() bool { return b.typ == numTypeNumber && b.zero }

// IsNegative reports b's sign bit.
func (b *BigNumber) IsNegative() bool { return b.neg }

// IsNaN reports whether b is not-a-number.
func (b *BigNumber) IsNaN() bool { return b.typ == numTypeNaN }

// IsInf reports whether b is an infinity.
func (b *BigNumber) IsInf() bool { return b.typ == numTypeInf }

// decVal is the internal working representation used by arithmetic:
// value = (neg ? -1 : 1) * val * 10^lsbExp, val >= 0.
type decVal struct {
	val    *big.Int
	lsbExp int
	neg    bool
}

// toDecVal converts a normalized, numeric, non-zero BigNumber to its
// working decVal form.
func toDecVal(b *BigNumber) decVal {
	var sb strings.Builder
	sb.Grow(len(b.digits))
	for _, d := range b.digits {
		sb.WriteByte('0' + d)
	}
	mant := new(big.Int)
	mant.SetString(sb.String(), 10)
	return decVal{val: mant, lsbExp: int(b.exp) - int(b.prec), neg: b.neg}
}

// digitsFromString splits a decimal digit string into a []byte of 0..9
// values.
func digitsFromString(s string) []byte {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		out[i] = s[i] - '0'
	}
	return out
}

// bigNumberFromDecVal rounds dv to prec significant digits and builds the
// resulting normalized BigNumber, implementing the leading-non-zero
// invariant (BN1) and the "first dropped digit, round-half-up magnitude"
// rule of spec.md S4.2.
func bigNumberFromDecVal(dv decVal, prec uint16) (*BigNumber, error) {
	if prec == 0 {
		prec = 1
	}
	if dv.val.Sign() == 0 {
		return newZero(prec), nil
	}

	s := dv.val.Text(10)
	nd := len(s)
	lsbExp := dv.lsbExp

	var D string
	if nd <= int(prec) {
		D = s + strings.Repeat("0", int(prec)-nd)
		lsbExp -= int(prec) - nd
	} else {
		drop := nd - int(prec)
		head := s[:prec]
		roundUp := s[prec] >= '5'
		Q := new(big.Int)
		Q.SetString(head, 10)
		if roundUp {
			Q.Add(Q, big.NewInt(1))
		}
		qs := Q.Text(10)
		if len(qs) > int(prec) {
			// Only possible if head was all 9s: Q == 10^prec, which has
			// prec+1 digits ("1" followed by prec zeros). Per spec.md
			// S4.2, "carry from a trailing-digit round shifts and
			// increments exponent."
			qs = qs[:prec]
			drop++
		}
		D = qs
		lsbExp += drop
	}

	exp := lsbExp + int(prec)
	if exp < -32768 || exp > 32767 {
		return nil, ErrNumOverflow
	}

	return &BigNumber{
		prec:   prec,
		exp:    int16(exp),
		neg:    dv.neg,
		digits: digitsFromString(D),
	}, nil
}

// PackBCD returns the on-disk packed-BCD mantissa bytes (spec.md S3.4/
// S6.1): ceil(digits/2) bytes, most significant digit in the high nibble
// of byte 0.
func (b *BigNumber) PackBCD() []byte {
	n := (int(b.prec) + 1) / 2
	out := make([]byte, n)
	for i, d := range b.digits {
		byteIdx := i / 2
		if i%2 == 0 {
			out[byteIdx] |= d << 4
		} else {
			out[byteIdx] |= d
		}
	}
	return out
}

// UnpackBCD fills b's digit array from packed-BCD bytes, given the
// precision the bytes were packed at.
func UnpackBCD(prec uint16, exp int16, flags uint8, packed []byte) *BigNumber {
	b := &BigNumber{prec: prec, exp: exp}
	b.zero = flags&0x1 != 0
	b.neg = flags&0x2 != 0
	b.typ = numType((flags >> 2) & 0x3)
	b.digits = make([]byte, prec)
	for i := range b.digits {
		byteIdx := i / 2
		if byteIdx >= len(packed) {
			break
		}
		if i%2 == 0 {
			b.digits[i] = packed[byteIdx] >> 4
		} else {
			b.digits[i] = packed[byteIdx] & 0xF
		}
	}
	return b
}

// Flags packs the zero/neg/type bits into the on-disk flags byte.
func (b *BigNumber) Flags() uint8 {
	var f uint8
	if b.zero {
		f |= 0x1
	}
	if b.neg {
		f |= 0x2
	}
	f |= uint8(b.typ) << 2
	return f
}

// Exp returns the signed power-of-ten exponent field.
func (b *BigNumber) Exp() int16 { return b.exp }

// ToInt clamps b to a signed 32-bit integer, or returns ErrNumOverflow if
// out of range (spec.md S4.2 "Integer cast").
func (b *BigNumber) ToInt() (int32, error) {
	if b.typ != numTypeNumber {
		return 0, ErrNumOverflow
	}
	if b.zero {
		return 0, nil
	}
	dv := toDecVal(b)
	// Truncate toward zero to an integer: drop digits with negative
	// weight (lsbExp < 0).
	v := new(big.Int).Set(dv.val)
	if dv.lsbExp >= 0 {
		v.Mul(v, tenPow(dv.lsbExp))
	} else {
		v.Quo(v, tenPow(-dv.lsbExp))
	}
	if dv.neg {
		v.Neg(v)
	}
	if !v.IsInt64() {
		return 0, ErrNumOverflow
	}
	i64 := v.Int64()
	if i64 < -(1<<31) || i64 > (1<<31-1) {
		return 0, ErrNumOverflow
	}
	return int32(i64), nil
}

var tenPowCache = map[int]*big.Int{}

// tenPow returns 10^n as a big.Int, memoized since BigNumber operations
// call it repeatedly with small, often-repeated exponents.
func tenPow(n int) *big.Int {
	if n < 0 {
		n = 0
	}
	if v, ok := tenPowCache[n]; ok {
		return v
	}
	v := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
	tenPowCache[n] = v
	return v
}

// Compare orders a and b: by sign, then exponent, then digit-by-digit
// comparison of the common prefix extended with implicit trailing zeros
// (spec.md S4.2 "Comparison").
func (a *BigNumber) Compare(b *BigNumber) int {
	if a.typ != numTypeNumber || b.typ != numTypeNumber {
		// NaN/Inf ordering is not specified beyond equality-by-identity;
		// treat as incomparable-but-total via type then sign.
		if a.typ != b.typ {
			return int(a.typ) - int(b.typ)
		}
		if a.neg != b.neg {
			if a.neg {
				return -1
			}
			return 1
		}
		return 0
	}
	if a.zero && b.zero {
		return 0
	}
	if a.zero != b.zero {
		if a.zero {
			if b.neg {
				return 1
			}
			return -1
		}
		if a.neg {
			return -1
		}
		return 1
	}
	if a.neg != b.neg {
		if a.neg {
			return -1
		}
		return 1
	}
	// Same sign, both non-zero: compare magnitude by exponent then digits.
	mag := compareMagnitude(a, b)
	if a.neg {
		return -mag
	}
	return mag
}

// compareMagnitude compares |a| and |b| by exponent, then digit-by-digit,
// extending the shorter operand with implicit trailing zeros (spec.md
// S4.2).
func compareMagnitude(a, b *BigNumber) int {
	if a.exp != b.exp {
		if a.exp < b.exp {
			return -1
		}
		return 1
	}
	n := len(a.digits)
	if len(b.digits) < n {
		n = len(b.digits)
	}
	for i := 0; i < n; i++ {
		if a.digits[i] != b.digits[i] {
			if a.digits[i] < b.digits[i] {
				return -1
			}
			return 1
		}
	}
	// Common prefix equal; the longer operand's remaining digits compare
	// against implicit zeros.
	for i := n; i < len(a.digits); i++ {
		if a.digits[i] != 0 {
			return 1
		}
	}
	for i := n; i < len(b.digits); i++ {
		if b.digits[i] != 0 {
			return -1
		}
	}
	return 0
}

// Equals reports value equality (spec.md S3.3 vtable "equals").
func (a *BigNumber) Equals(b *BigNumber) bool { return a.Compare(b) == 0 }

// FormatString renders b as a plain decimal string with up to maxDigits
// significant digits, a convenience wrapper over Format using default
// flags; see bignumber_format.go for the full rendering protocol of
// spec.md S4.2.
func (b *BigNumber) FormatString(maxDigits int) string {
	return b.Format(FormatOptions{MaxDigits: maxDigits})
}
