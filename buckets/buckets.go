// CPU-core buckets.  A Table maps raw core counts (slots) to named range labels such as "5-8" or
// "other".  Ranges are scanned in order and the first match wins, so overlapping ranges are allowed;
// a value that no range covers is "other".

package buckets

import (
	"fmt"
	"slices"
)

const Other = "other"

type Bucket struct {
	Label string
	Slots []int // ascending
}

// MT: Immutable after construction.
type Table struct {
	buckets []Bucket
	index   map[string]int
}

func span(lo, hi int) []int {
	xs := make([]int, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		xs = append(xs, i)
	}
	return xs
}

// The standard table.  The "other" bucket covers every observed slot count above 36.

func NewTable(observedSlots []int) *Table {
	var other []int
	for _, s := range observedSlots {
		if s > 36 {
			other = append(other, s)
		}
	}
	slices.Sort(other)
	other = slices.Compact(other)
	t, err := NewCustomTable([]Bucket{
		{"2-4", span(2, 4)},
		{"5-8", span(5, 8)},
		{"6-15", span(6, 15)},
		{"16", []int{16}},
		{"17-27", span(17, 27)},
		{"28", []int{28}},
		{"32", []int{32}},
		{"36", []int{36}},
		{Other, other},
	})
	if err != nil {
		panic(err)
	}
	return t
}

func NewCustomTable(buckets []Bucket) (*Table, error) {
	t := &Table{
		buckets: make([]Bucket, len(buckets)),
		index:   make(map[string]int, len(buckets)),
	}
	for i, b := range buckets {
		if _, found := t.index[b.Label]; found {
			return nil, fmt.Errorf("Duplicate bucket label %q", b.Label)
		}
		slots := slices.Clone(b.Slots)
		slices.Sort(slots)
		t.buckets[i] = Bucket{Label: b.Label, Slots: slices.Compact(slots)}
		t.index[b.Label] = i
	}
	return t, nil
}

// Labels in table order.
func (t *Table) Labels() []string {
	ls := make([]string, len(t.buckets))
	for i, b := range t.buckets {
		ls[i] = b.Label
	}
	return ls
}

func (t *Table) Has(label string) bool {
	_, found := t.index[label]
	return found
}

// Position of the label in the table, or -1.
func (t *Table) Order(label string) int {
	if i, found := t.index[label]; found {
		return i
	}
	return -1
}

func (t *Table) Bucket(label string) (Bucket, bool) {
	if i, found := t.index[label]; found {
		return t.buckets[i], true
	}
	return Bucket{}, false
}

func (t *Table) Assign(slots int) string {
	for _, b := range t.buckets {
		if _, found := slices.BinarySearch(b.Slots, slots); found {
			return b.Label
		}
	}
	return Other
}

// The union of the slot sets of the labels, ascending.  Unknown labels contribute nothing.

func (t *Table) Expand(labels []string) []int {
	var xs []int
	for _, l := range labels {
		if i, found := t.index[l]; found {
			xs = append(xs, t.buckets[i].Slots...)
		}
	}
	slices.Sort(xs)
	return slices.Compact(xs)
}

// The labels that cover at least one observed slot count, in table order.  This is what "select
// all" selects.

func (t *Table) Available(observedSlots []int) []string {
	seen := make(map[string]bool)
	for _, s := range observedSlots {
		seen[t.Assign(s)] = true
	}
	var ls []string
	for _, b := range t.buckets {
		if seen[b.Label] {
			ls = append(ls, b.Label)
		}
	}
	return ls
}
