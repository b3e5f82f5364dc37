package buckets

import (
	"fmt"
	"strconv"
	"strings"
)

// EqualWidth splits [minSlots, maxSlots] into n ranges of equal width.  The last range extends to
// maxSlots, so it may be wider than the others.  Labels are "lo-hi", inclusive.

type EqualWidth struct {
	min, max, size, n int
}

func NewEqualWidth(minSlots, maxSlots, n int) EqualWidth {
	spanned := max(maxSlots-minSlots, 1)
	return EqualWidth{
		min:  minSlots,
		max:  maxSlots,
		size: max(spanned/n, 1),
		n:    n,
	}
}

func (e EqualWidth) Assign(slots int) string {
	for i := 0; i < e.n; i++ {
		lower := e.min + i*e.size
		upper := lower + e.size
		if i == e.n-1 {
			upper = e.max + 1
		}
		if lower <= slots && slots < upper {
			return fmt.Sprintf("%d-%d", lower, upper-1)
		}
	}
	return Other
}

// The lo of a "lo-hi" label, or MaxInt.
func RangeStart(label string) int {
	lo, _, _ := strings.Cut(label, "-")
	n, err := strconv.Atoi(lo)
	if err != nil {
		return int(^uint(0) >> 1)
	}
	return n
}
