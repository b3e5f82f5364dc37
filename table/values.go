package table

import (
	"strconv"
	"strings"
)

func FormatString(s string, _ PrintMods) string {
	return s
}

func FormatStrings(xs []string, _ PrintMods) string {
	return strings.Join(xs, ",")
}

func FormatInt(x int, _ PrintMods) string {
	return strconv.Itoa(x)
}

// Two decimals for fixed output, full precision for machine formats.
func FormatFloat(x float64, ctx PrintMods) string {
	if ctx&PrintModFixed != 0 {
		return strconv.FormatFloat(x, 'f', 2, 64)
	}
	return strconv.FormatFloat(x, 'g', -1, 64)
}

// Nil is the empty string in machine formats and "-" in fixed output.
func FormatFloatPtr(x *float64, ctx PrintMods) string {
	if x == nil {
		if ctx&PrintModFixed != 0 {
			return "-"
		}
		return ""
	}
	return FormatFloat(*x, ctx)
}
