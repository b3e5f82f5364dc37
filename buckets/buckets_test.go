package buckets

import (
	"slices"
	"testing"
)

func assertEq[T comparable](t *testing.T, got, want T) {
	t.Helper()
	if got != want {
		t.Fatalf("Got %v, wanted %v", got, want)
	}
}

func TestAssign(t *testing.T) {
	tbl := NewTable([]int{1, 2, 16, 40, 64, 64})
	assertEq(t, tbl.Assign(16), "16")
	assertEq(t, tbl.Assign(20), "17-27")
	assertEq(t, tbl.Assign(100), "other")
	assertEq(t, tbl.Assign(6), "5-8")
	assertEq(t, tbl.Assign(12), "6-15")
	assertEq(t, tbl.Assign(64), "other")
	assertEq(t, tbl.Assign(1), "other")
}

func TestExpand(t *testing.T) {
	tbl := NewTable([]int{40, 64})
	xs := tbl.Expand([]string{"2-4", "16", "nonsense"})
	if !slices.Equal(xs, []int{2, 3, 4, 16}) {
		t.Fatalf("Bad expansion %v", xs)
	}
	xs = tbl.Expand([]string{"5-8", "6-15"})
	if !slices.Equal(xs, []int{5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}) {
		t.Fatalf("Bad overlap expansion %v", xs)
	}
	xs = tbl.Expand([]string{"other"})
	if !slices.Equal(xs, []int{40, 64}) {
		t.Fatalf("Bad other expansion %v", xs)
	}
	assertEq(t, len(tbl.Expand(nil)), 0)
}

func TestLabels(t *testing.T) {
	tbl := NewTable(nil)
	ls := tbl.Labels()
	assertEq(t, len(ls), 9)
	assertEq(t, ls[0], "2-4")
	assertEq(t, ls[8], "other")
	assertEq(t, tbl.Order("16"), 3)
	assertEq(t, tbl.Order("17"), -1)
	assertEq(t, tbl.Has("other"), true)
	assertEq(t, tbl.Has("17"), false)

	avail := tbl.Available([]int{3, 16, 100})
	if !slices.Equal(avail, []string{"2-4", "16", "other"}) {
		t.Fatalf("Bad available %v", avail)
	}
}

func TestCustomTable(t *testing.T) {
	_, err := NewCustomTable([]Bucket{{"a", []int{1}}, {"a", []int{2}}})
	if err == nil {
		t.Fatalf("Expected duplicate error")
	}
}

func TestEqualWidth(t *testing.T) {
	e := NewEqualWidth(1, 128, 10)
	// Size is 127/10 = 12
	assertEq(t, e.Assign(1), "1-12")
	assertEq(t, e.Assign(13), "13-24")
	assertEq(t, e.Assign(108), "97-108")
	assertEq(t, e.Assign(128), "109-128")
	assertEq(t, e.Assign(200), "other")

	narrow := NewEqualWidth(4, 4, 10)
	assertEq(t, narrow.Assign(4), "4-4")

	assertEq(t, RangeStart("other") > RangeStart("10-20"), true)
	assertEq(t, RangeStart("17-27"), 17)
}
