// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package metacore

// Fuzz is the legacy go-fuzz entry point (spec.md S4.2): treat data as a
// decimal literal plus a one-byte operation selector and exercise
// BigNumber's parse/arithmetic/format round trip. It returns 1 when the
// input was "interesting" (parsed and produced a finite result), 0
// otherwise, matching go-fuzz's original corpus-growth convention.
func Fuzz(data []byte) int {
	if len(data) < 2 {
		return 0
	}
	op := data[0]
	b, err := NewBigNumberFromString(string(data[1:]), 0)
	if err != nil {
		return 0
	}

	var result *BigNumber
	switch op % 4 {
	case 0:
		result, err = Add(b, b)
	case 1:
		result, err = Mul(b, b)
	case 2:
		if b.IsZero() {
			return 0
		}
		result, err = Div(b, b)
	default:
		result = Neg(b)
	}
	if err != nil {
		return 0
	}
	_ = result.Format(FormatOptions{AllowExponential: true})
	return 1
}
