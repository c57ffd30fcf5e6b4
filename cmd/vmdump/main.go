// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Command vmdump is a small inspection CLI exercising the registry
// loader and the BigNumber/Date engines from the command line, the
// metacore counterpart to saferwall/pe/cmd's dump/version subcommands.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tadsvm/metacore"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "vmdump",
		Short: "Inspect the metaclass dependency table, BigNumber arithmetic, and date parsing",
	}
	root.AddCommand(newDepsCmd(), newDepsImageCmd(), newBignumCmd(), newDateCmd(), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the vmdump version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("vmdump 1.0.0")
			return nil
		},
	}
}

// depFile is the on-disk shape 'deps' reads: a JSON array standing in for
// an image's dependency table, since parsing the binary image frame
// itself is out of scope (spec.md's Non-goals exclude image-file
// framing; only per-metaclass payloads are in scope here).
type depFile struct {
	Name      string `json:"name"`
	FuncCount int    `json:"funcCount"`
	MinProp   int    `json:"minProp"`
	MaxProp   int    `json:"maxProp"`
}

func newDepsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deps <file>",
		Short: "Resolve a JSON dependency-table description against the registered metaclasses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var recs []depFile
			if err := json.Unmarshal(data, &recs); err != nil {
				return err
			}

			reg := metacore.NewRegistry(metacore.NewContext(nil).Logger())
			for _, m := range builtinMetaclasses() {
				reg.Register(m)
			}

			var table []metacore.DepRecord
			for _, r := range recs {
				table = append(table, metacore.DepRecord{
					NameWithVersion: r.Name,
					FuncCount:       uint16(r.FuncCount),
					MinProp:         metacore.PropID(r.MinProp),
					MaxProp:         metacore.PropID(r.MaxProp),
				})
			}
			if err := reg.LoadDependencyTable(table); err != nil {
				return err
			}
			for i, r := range table {
				entry, err := reg.EntryAt(i)
				if err != nil {
					fmt.Printf("%-30s unresolved\n", r.NameWithVersion)
					continue
				}
				fmt.Printf("%-30s -> %s  props[%d..%d]\n", r.NameWithVersion, entry.Descriptor.NameWithVersion, entry.MinProp, int(entry.MinProp)+len(entry.PropXlat)-1)
			}
			return nil
		},
	}
}

// builtinMetaclasses lists the Descriptor each metaclass registers under,
// in the base-name convention registry.go's findDescriptor expects
// ("name" or "name/version").
func builtinMetaclasses() []*metacore.Descriptor {
	return []*metacore.Descriptor{
		{NameWithVersion: metacore.MetaclassBigNumber},
		{NameWithVersion: metacore.MetaclassDate},
		{NameWithVersion: metacore.MetaclassTimeZone},
		{NameWithVersion: metacore.MetaclassDictionary},
		{NameWithVersion: metacore.MetaclassStringBuffer},
	}
}

// newDepsImageCmd mirrors newDepsCmd but reads the dependency table
// straight out of a memory-mapped image file's MCLD block, rather than a
// JSON stand-in, exercising metacore.OpenImageFile/DependencyTable.
func newDepsImageCmd() *cobra.Command {
	var offset int
	cmd := &cobra.Command{
		Use:   "deps-image <file>",
		Short: "Resolve a memory-mapped image file's MCLD dependency table against the registered metaclasses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := metacore.OpenImageFile(args[0])
			if err != nil {
				return err
			}
			defer img.Close()

			reg := metacore.NewRegistry(metacore.NewContext(nil).Logger())
			for _, m := range builtinMetaclasses() {
				reg.Register(m)
			}
			if err := reg.LoadImageDependencyTable(img, offset); err != nil {
				return err
			}
			for i := 0; ; i++ {
				entry, err := reg.EntryAt(i)
				if err != nil {
					break
				}
				fmt.Printf("%-30s -> %s  props[%d..%d]\n", entry.ImageMetaName, entry.Descriptor.NameWithVersion, entry.MinProp, int(entry.MinProp)+len(entry.PropXlat)-1)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&offset, "offset", 0, "byte offset of the MCLD block within the image file")
	return cmd
}

func newBignumCmd() *cobra.Command {
	var precision uint16
	var op string
	cmd := &cobra.Command{
		Use:   "bignum <a> <b>",
		Short: "Evaluate a BigNumber binary operation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := metacore.NewBigNumberFromString(args[0], precision)
			if err != nil {
				return err
			}
			b, err := metacore.NewBigNumberFromString(args[1], precision)
			if err != nil {
				return err
			}
			var result *metacore.BigNumber
			switch op {
			case "add":
				result, err = metacore.Add(a, b)
			case "sub":
				result, err = metacore.Sub(a, b)
			case "mul":
				result, err = metacore.Mul(a, b)
			case "div":
				result, err = metacore.Div(a, b)
			default:
				return fmt.Errorf("unknown op %q (want add|sub|mul|div)", op)
			}
			if err != nil {
				return err
			}
			fmt.Println(result.Format(metacore.FormatOptions{AllowExponential: true}))
			return nil
		},
	}
	cmd.Flags().Uint16Var(&precision, "precision", metacore.DefaultPrecision, "mantissa precision in digits")
	cmd.Flags().StringVar(&op, "op", "add", "operation: add, sub, mul, div")
	return cmd
}

func newDateCmd() *cobra.Command {
	var layout string
	cmd := &cobra.Command{
		Use:   "date <string>",
		Short: "Parse a date/time string and print it back in a given layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := metacore.NewContext(nil)
			parser := metacore.NewParser(ctx.Locale)
			res, err := parser.Parse(args[0])
			if err != nil {
				return err
			}

			cal := metacore.GregorianCalendar{}
			now := time.Now()
			ref := metacore.AddInterval(cal, metacore.Normalize(0, 0), metacore.Interval{
				Years: int64(now.Year()), Months: int64(now.Month()) - 1, Days: int64(now.Day()) - 1,
			})

			d, err := metacore.Resolve(cal, res, ref, int64(now.Year()))
			if err != nil {
				return err
			}

			formatter := metacore.NewFormatter(cal, ctx.Locale)
			fmt.Println(formatter.Format(d, nil, layout))
			return nil
		},
	}
	cmd.Flags().StringVar(&layout, "layout", "%Y-%m-%d %H:%M:%S", "strftime-style output layout")
	return cmd
}
