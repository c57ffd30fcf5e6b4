// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package metacore

import "errors"

// Errors raised by the core metaclasses (spec.md S7). Each is a sentinel so
// callers can match with errors.Is; ErrUnknownMetaclass and
// ErrMetaclassTooOld are additionally wrapped in a *VersionError so the
// host can recover the offending name and advise the user to upgrade.
var (
	// ErrWrongNumArgs is returned when a metaclass method is called with
	// an argument count it doesn't accept.
	ErrWrongNumArgs = errors.New("wrong number of arguments")

	// ErrBadTypeBif is returned when an argument has a type the method
	// can't operate on.
	ErrBadTypeBif = errors.New("argument has invalid type")

	// ErrBadValBif is returned when an argument has the right type but an
	// unacceptable value (an unparseable date string, an unknown zone
	// name, ...).
	ErrBadValBif = errors.New("argument has invalid value")

	// ErrNumOverflow is returned when a numeric result can't be
	// represented (exponent out of range, integer cast out of range, ...).
	ErrNumOverflow = errors.New("numeric overflow")

	// ErrDivideByZero is returned by BigNumber division and modulo.
	ErrDivideByZero = errors.New("division by zero")

	// ErrOutOfRange is returned when an argument is outside the domain of
	// the function (asin/acos |x|>1, sqrt of a negative number, ...).
	ErrOutOfRange = errors.New("argument out of range")

	// ErrStrTooLong is returned when a StringBuffer mutation would exceed
	// its maximum length.
	ErrStrTooLong = errors.New("string too long")

	// ErrIndexOutOfRange is returned by indexed access outside bounds.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrInvalidSetProp is returned when a property is not settable on a
	// metaclass instance.
	ErrInvalidSetProp = errors.New("property cannot be set")

	// ErrInvalidComparison is returned when two values don't support
	// ordering comparison.
	ErrInvalidComparison = errors.New("values cannot be compared")

	// ErrUnknownMetaclass is returned when an image's dependency table
	// names a metaclass with no registered descriptor.
	ErrUnknownMetaclass = errors.New("unknown metaclass")

	// ErrMetaclassTooOld is returned when the registered descriptor's
	// version is lower than the image requires.
	ErrMetaclassTooOld = errors.New("metaclass implementation is too old")

	// ErrBadMetaclassIndex is returned when a metaclass dependency index
	// in an image is out of range of the loaded dependency table.
	ErrBadMetaclassIndex = errors.New("bad metaclass dependency index")

	// ErrSavedMetaTooLong is returned when a saved metaclass payload
	// exceeds the format's length limits (e.g. a Dictionary key longer
	// than 255 bytes, S6.1).
	ErrSavedMetaTooLong = errors.New("saved metaclass data too long")

	// ErrBignumNoRegs is returned when the BigNumber temp-register pool
	// is exhausted.
	ErrBignumNoRegs = errors.New("no free BigNumber registers")

	// ErrOutOfMemory is returned when an allocation needed to complete an
	// operation fails.
	ErrOutOfMemory = errors.New("out of memory")

	// ErrBadImageFormat is returned when a memory-mapped image file's
	// dependency-table block fails to parse (bad magic, truncated record).
	ErrBadImageFormat = errors.New("malformed image dependency table")
)

// VersionError wraps ErrUnknownMetaclass or ErrMetaclassTooOld with the
// offending image_meta_name, letting callers recover enough detail to
// advise the user to upgrade their interpreter (spec.md S4.1/S7).
type VersionError struct {
	Err  error
	Name string
}

func (e *VersionError) Error() string {
	return e.Name + ": " + e.Err.Error()
}

func (e *VersionError) Unwrap() error { return e.Err }

// IsVersionError reports whether err carries version-error metadata,
// mirroring the "version flag" spec.md S4.1/S7 attaches to
// unknown-metaclass and metaclass-too-old failures.
func IsVersionError(err error) bool {
	var ve *VersionError
	return errors.As(err, &ve)
}
