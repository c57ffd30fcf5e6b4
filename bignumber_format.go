// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package metacore

import "strings"

// FormatOptions controls BigNumber.Format's rendering (spec.md S4.2
// "Formatted rendering"): a maximum digit count, whether exponential
// notation may be chosen automatically, and sign display.
type FormatOptions struct {
	// MaxDigits caps the number of significant digits rendered; 0 means
	// "render at full internal precision."
	MaxDigits int

	// AllowExponential lets the renderer switch to scientific notation
	// when the value's magnitude is large or small: more than
	// exponentialThreshold digits before the decimal point, or more than
	// exponentialThreshold zeros right after it.
	AllowExponential bool

	// ForceExponential always renders in scientific notation.
	ForceExponential bool

	// ForceSign renders a leading '+' for non-negative values, including
	// zero ("+0").
	ForceSign bool
}

// exponentialThreshold bounds the exponent (the count of integer digits, or
// minus the count of zeros after the point) that a positional rendering
// tolerates before AllowExponential switches to scientific notation.
const exponentialThreshold = 6

// Format renders b as a decimal string per spec.md S4.2's rendering
// protocol: round to opts.MaxDigits significant digits (restarting the
// digit count if rounding carries out an extra digit, the same carry rule
// bigNumberFromDecVal applies during arithmetic), then lay out the result
// either positionally or in scientific notation.
func (b *BigNumber) Format(opts FormatOptions) string {
	if b.typ == numTypeNaN {
		return "NaN"
	}
	if b.typ == numTypeInf {
		if b.neg {
			return "-Inf"
		}
		return "Inf"
	}
	if b.zero {
		if opts.ForceSign {
			return "+0"
		}
		return "0"
	}

	digits := b.digits
	exp := int(b.exp)
	if opts.MaxDigits > 0 && opts.MaxDigits < len(digits) {
		dv := toDecVal(b)
		rounded, err := bigNumberFromDecVal(dv, uint16(opts.MaxDigits))
		if err == nil {
			digits = rounded.digits
			exp = int(rounded.exp)
		}
	}

	// Trim insignificant trailing zeros so e.g. 1.50 with prec=3 doesn't
	// render as "1.50" when the caller only asked for a value, not a
	// fixed-width mantissa.
	end := len(digits)
	for end > 1 && digits[end-1] == 0 {
		end--
	}
	digits = digits[:end]

	sign := ""
	if b.neg {
		sign = "-"
	} else if opts.ForceSign {
		sign = "+"
	}

	useExp := opts.ForceExponential
	if opts.AllowExponential && !useExp {
		if exp > exponentialThreshold || exp < -exponentialThreshold {
			useExp = true
		}
	}

	if useExp {
		return sign + formatExponential(digits, exp)
	}
	return sign + formatPositional(digits, exp)
}

// formatExponential renders digits (most significant first, no leading or
// trailing zeros) with exp as "d[.ddd]e[+-]NN", value = digits*10^(exp-
// len(digits)).
func formatExponential(digits []byte, exp int) string {
	var sb strings.Builder
	sb.WriteByte('0' + digits[0])
	if len(digits) > 1 {
		sb.WriteByte('.')
		for _, d := range digits[1:] {
			sb.WriteByte('0' + d)
		}
	}
	sb.WriteByte('e')
	e := exp - 1
	if e >= 0 {
		sb.WriteByte('+')
	}
	sb.WriteString(itoa(e))
	return sb.String()
}

// formatPositional renders digits with exp giving the power-of-ten weight
// of the first digit (value in [10^(exp-1), 10^exp)), inserting a decimal
// point and any needed leading/trailing zeros.
func formatPositional(digits []byte, exp int) string {
	var sb strings.Builder
	switch {
	case exp <= 0:
		sb.WriteString("0.")
		for i := 0; i < -exp; i++ {
			sb.WriteByte('0')
		}
		for _, d := range digits {
			sb.WriteByte('0' + d)
		}
	case exp >= len(digits):
		for _, d := range digits {
			sb.WriteByte('0' + d)
		}
		for i := 0; i < exp-len(digits); i++ {
			sb.WriteByte('0')
		}
	default:
		for _, d := range digits[:exp] {
			sb.WriteByte('0' + d)
		}
		sb.WriteByte('.')
		for _, d := range digits[exp:] {
			sb.WriteByte('0' + d)
		}
	}
	return sb.String()
}

// itoa avoids pulling in strconv solely for signed small-int rendering.
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [8]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
