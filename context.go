// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package metacore

import (
	"os"

	"github.com/go-kratos/kratos/v2/log"
)

// Options configures a Context the way pe.Options configures a pe.File:
// a small struct of knobs with sensible zero-value defaults, filled in by
// NewContext if the caller leaves them unset.
type Options struct {
	// BigNumber default mantissa precision for values constructed without
	// an explicit precision argument.
	DefaultPrecision uint16

	// MaxTempRegs bounds the BigNumber temp-register pool (S5); 0 means
	// DefaultMaxTempRegs.
	MaxTempRegs int

	// StringBufferMaxLen clamps StringBuffer growth (S3.8); 0 means
	// DefaultStrBufMaxLen.
	StringBufferMaxLen uint32

	// StringBufferGrowth is the minimum growth granularity (S3.8); 0 means
	// DefaultStrBufGrowth.
	StringBufferGrowth uint32

	// Logger receives structured log output from every subsystem. If nil,
	// a stdout logger filtered to error level is installed, mirroring
	// pe.New's default-logger branch.
	Logger log.Logger
}

// Defaults used when the corresponding Options field is left at its zero
// value.
const (
	DefaultPrecision    = 32
	DefaultMaxTempRegs  = 64
	DefaultStrBufMaxLen = 1<<31 - 1
	DefaultStrBufGrowth = 16
)

// Context aggregates the per-VM global state spec.md S9 calls out: the
// object table, undo journal, time-zone database, BigNumber constant
// cache/register pool, metaclass registry and locale table. No operation
// in this package reaches for an ambient singleton; every method that
// needs shared state takes a *Context (or a component that embeds one)
// explicitly.
type Context struct {
	Objects  *ObjTable
	Undo     *UndoJournal
	Zones    *ZoneDB
	Registry *Registry
	BigNums  *BigNumCache
	Locale   *LocaleTable

	opts   Options
	logger *log.Helper
}

// NewContext builds a Context, applying defaults for any zero-valued
// Options field.
func NewContext(opts *Options) *Context {
	var o Options
	if opts != nil {
		o = *opts
	}
	if o.DefaultPrecision == 0 {
		o.DefaultPrecision = DefaultPrecision
	}
	if o.MaxTempRegs == 0 {
		o.MaxTempRegs = DefaultMaxTempRegs
	}
	if o.StringBufferMaxLen == 0 {
		o.StringBufferMaxLen = DefaultStrBufMaxLen
	}
	if o.StringBufferGrowth == 0 {
		o.StringBufferGrowth = DefaultStrBufGrowth
	}

	var logger log.Logger
	if o.Logger == nil {
		logger = log.NewStdLogger(os.Stdout)
		logger = log.NewFilter(logger, log.FilterLevel(log.LevelError))
	} else {
		logger = o.Logger
	}
	helper := log.NewHelper(logger)

	ctx := &Context{
		opts:   o,
		logger: helper,
	}
	ctx.Objects = NewObjTable(helper)
	ctx.Undo = NewUndoJournal(helper)
	ctx.Zones = NewZoneDB(helper)
	ctx.Registry = NewRegistry(helper)
	ctx.BigNums = NewBigNumCache(o.DefaultPrecision, helper)
	ctx.BigNums.maxRegs = o.MaxTempRegs
	ctx.Locale = NewLocaleTable(ctx.Undo)
	return ctx
}

// Logger returns the helper every component in this Context logs through.
func (c *Context) Logger() *log.Helper { return c.logger }

// Options returns the resolved options this Context was built with.
func (c *Context) Options() Options { return c.opts }
