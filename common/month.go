package common

import (
	"fmt"
	"strings"
)

// Month is 1..12, and 0 is not a valid month.  Months order intrinsically by their number, which is
// what the charts want, not alphabetically by label.

type Month int

var monthLabels = [...]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

func (m Month) Valid() bool {
	return m >= 1 && m <= 12
}

func (m Month) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Month(%d)", int(m))
	}
	return monthLabels[m-1]
}

func (m Month) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("Invalid month %d", int(m))
	}
	return []byte(monthLabels[m-1]), nil
}

func (m *Month) UnmarshalText(bs []byte) error {
	v, err := ParseMonth(string(bs))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// The label is capitalized before lookup, so "jan", "JAN" and "Jan" are all January.  Full month
// names are not accepted.

func ParseMonth(s string) (Month, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("Empty month")
	}
	c := strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
	for i, l := range monthLabels {
		if l == c {
			return Month(i + 1), nil
		}
	}
	return 0, fmt.Errorf("Invalid month %q, expected one of Jan..Dec", s)
}

func AllMonths() []Month {
	ms := make([]Month, 12)
	for i := range ms {
		ms[i] = Month(i + 1)
	}
	return ms
}
