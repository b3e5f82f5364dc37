// `qwt buckets` - print the CPU bucket table, or assign core counts to buckets.

package buckets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/Nathan-JzSu/qwt/buckets"
	. "github.com/Nathan-JzSu/qwt/cmd"
	. "github.com/Nathan-JzSu/qwt/table"
)

type BucketsCommand struct {
	DevArgs
	VerboseArgs
	FormatArgs
	Slots  []int
	Groups int
}

var _ PrimitiveCommand = (*BucketsCommand)(nil)
var _ FormatHelpAPI = (*BucketsCommand)(nil)

func (bc *BucketsCommand) Add(fs *CLI) {
	bc.DevArgs.Add(fs)
	bc.VerboseArgs.Add(fs)
	bc.FormatArgs.Add(fs)
	fs.Group("operation-selection")
	fs.Var(NewRepeatableInt(&bc.Slots), "slots",
		"Assign this core `count` to its bucket (repeatable) [default: print the table]")
	fs.IntVar(&bc.Groups, "groups", 0,
		"With -slots, also split the range of the counts into this `number` of equal-width groups")
}

func (bc *BucketsCommand) defaultFields() string {
	if len(bc.Slots) > 0 {
		if bc.Groups > 0 {
			return "assign,group"
		}
		return "assign"
	}
	return "table"
}

func (bc *BucketsCommand) Validate() error {
	var e1 error
	if bc.Groups < 0 || (bc.Groups > 0 && len(bc.Slots) == 0) {
		e1 = errors.New("-groups must be positive and requires -slots")
	}
	for _, s := range bc.Slots {
		if s < 1 {
			e1 = errors.Join(e1, fmt.Errorf("Bad core count %d", s))
		}
	}
	return errors.Join(
		e1,
		bc.DevArgs.Validate(),
		bc.VerboseArgs.Validate(),
		ValidateFormatArgs(&bc.FormatArgs, bc.defaultFields(), bucketFormatters, bucketAliases, DefaultFixed),
	)
}

func (bc *BucketsCommand) Summary(out io.Writer) {
	fmt.Fprint(out, `Print the CPU bucket table used by the omp page, or the buckets of the given
core counts.  Ranges are matched in order and the first match wins; counts that no
range covers are "other".  With -groups, the counts are also split into equal-width
groups the way the mpi box chart groups them.
`)
}

func (bc *BucketsCommand) MaybeFormatHelp() *FormatHelp {
	return StandardFormatHelp(
		bc.Fmt, "Print buckets.", bucketFormatters, bucketAliases, bc.defaultFields())
}

type BucketRow struct {
	Label  string
	Slots  string
	Count  int
	Bucket string
	Group  string
}

// Compress an ascending list of integers to ranges, "2-4,8".
func compress(xs []int) string {
	var b strings.Builder
	for i := 0; i < len(xs); {
		j := i
		for j+1 < len(xs) && xs[j+1] == xs[j]+1 {
			j++
		}
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(xs[i]))
		if j > i {
			b.WriteByte('-')
			b.WriteString(strconv.Itoa(xs[j]))
		}
		i = j + 1
	}
	return b.String()
}

func Rows(tbl *buckets.Table, slots []int, groups int) []*BucketRow {
	rows := make([]*BucketRow, 0)
	if len(slots) == 0 {
		for _, l := range tbl.Labels() {
			b, _ := tbl.Bucket(l)
			s := compress(b.Slots)
			if l == buckets.Other && s == "" {
				s = "> 36"
			}
			rows = append(rows, &BucketRow{Label: l, Slots: s})
		}
		return rows
	}
	var ew buckets.EqualWidth
	if groups > 0 {
		ew = buckets.NewEqualWidth(slices.Min(slots), slices.Max(slots), groups)
	}
	for _, s := range slots {
		r := &BucketRow{Count: s, Bucket: tbl.Assign(s)}
		if groups > 0 {
			r.Group = ew.Assign(s)
		}
		rows = append(rows, r)
	}
	return rows
}

func (bc *BucketsCommand) Perform(_ context.Context, _ io.Reader, stdout, _ io.Writer) error {
	tbl := buckets.NewTable(bc.Slots)
	FormatData(stdout, bc.PrintFields, bucketFormatters, bc.PrintOpts, Rows(tbl, bc.Slots, bc.Groups))
	return nil
}
