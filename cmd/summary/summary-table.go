package summary

import (
	"strconv"

	"github.com/Nathan-JzSu/qwt/pages"
	. "github.com/Nathan-JzSu/qwt/table"
)

// MT: Constant after initialization; immutable
var summaryFormatters = map[string]Formatter[*pages.Result]{
	"Page": {
		Fmt:  func(d *pages.Result, ctx PrintMods) string { return FormatString(d.Page, ctx) },
		Help: "(string) The page queried",
	},
	"Year": {
		Fmt: func(d *pages.Result, ctx PrintMods) string {
			if d.Year == 0 {
				return ""
			}
			return FormatInt(d.Year, ctx)
		},
		Help: "(int) The year of a page with a single year, empty otherwise",
	},
	"Month": {
		Fmt: func(d *pages.Result, ctx PrintMods) string {
			if d.Month == 0 {
				return ""
			}
			return FormatString(d.Month.String(), ctx)
		},
		Help: "(string) The month of a page with a single month, empty otherwise",
	},
	"Count": {
		Fmt:  func(d *pages.Result, ctx PrintMods) string { return FormatInt(d.Summary.Count, ctx) },
		Help: "(int) Number of first jobs selected",
	},
	"Min": {
		Fmt:  func(d *pages.Result, ctx PrintMods) string { return FormatString(d.Text.Min, ctx) },
		Help: "(string) Minimum waiting time with unit",
	},
	"Max": {
		Fmt:  func(d *pages.Result, ctx PrintMods) string { return FormatString(d.Text.Max, ctx) },
		Help: "(string) Maximum waiting time with unit",
	},
	"Mean": {
		Fmt:  func(d *pages.Result, ctx PrintMods) string { return FormatString(d.Text.Mean, ctx) },
		Help: "(string) Mean waiting time with unit",
	},
	"Median": {
		Fmt:  func(d *pages.Result, ctx PrintMods) string { return FormatString(d.Text.Median, ctx) },
		Help: "(string) Median waiting time with unit",
	},
	"MinMinutes": {
		Fmt:  func(d *pages.Result, ctx PrintMods) string { return FormatFloatPtr(d.Summary.Min, ctx) },
		Help: "(float) Minimum waiting time in minutes",
	},
	"MaxMinutes": {
		Fmt:  func(d *pages.Result, ctx PrintMods) string { return FormatFloatPtr(d.Summary.Max, ctx) },
		Help: "(float) Maximum waiting time in minutes",
	},
	"MeanMinutes": {
		Fmt:  func(d *pages.Result, ctx PrintMods) string { return FormatFloatPtr(d.Summary.Mean, ctx) },
		Help: "(float) Mean waiting time in minutes",
	},
	"MedianMinutes": {
		Fmt:  func(d *pages.Result, ctx PrintMods) string { return FormatFloatPtr(d.Summary.Median, ctx) },
		Help: "(float) Median waiting time in minutes",
	},
	"Range": {
		Fmt: func(d *pages.Result, ctx PrintMods) string {
			if d.Range == nil {
				return ""
			}
			return FormatString(
				strconv.Itoa(d.Range.Low)+"-"+strconv.Itoa(d.Range.High)+" "+d.Range.Name, ctx)
		},
		Help: "(string) Waiting-time slider range of the month, all page only",
	},
	"Warning": {
		Fmt:  func(d *pages.Result, ctx PrintMods) string { return FormatString(d.Warning, ctx) },
		Help: "(string) Why the selection is empty or suspect, if it is",
	},
}

func init() {
	DefAlias(summaryFormatters, "Page", "page")
	DefAlias(summaryFormatters, "Year", "year")
	DefAlias(summaryFormatters, "Month", "month")
	DefAlias(summaryFormatters, "Count", "count")
	DefAlias(summaryFormatters, "Min", "min")
	DefAlias(summaryFormatters, "Max", "max")
	DefAlias(summaryFormatters, "Mean", "mean")
	DefAlias(summaryFormatters, "Median", "median")
	DefAlias(summaryFormatters, "MinMinutes", "min-minutes")
	DefAlias(summaryFormatters, "MaxMinutes", "max-minutes")
	DefAlias(summaryFormatters, "MeanMinutes", "mean-minutes")
	DefAlias(summaryFormatters, "MedianMinutes", "median-minutes")
	DefAlias(summaryFormatters, "Range", "range")
	DefAlias(summaryFormatters, "Warning", "warning")
}

// MT: Constant after initialization; immutable
var summaryAliases = map[string][]string{
	"default": {"page", "year", "month", "count", "min", "max", "mean", "median", "warning"},
	"Default": {"Page", "Year", "Month", "Count", "Min", "Max", "Mean", "Median", "Warning"},
	"minutes": {"page", "count", "min-minutes", "max-minutes", "mean-minutes", "median-minutes"},
	"all": {"page", "year", "month", "count", "min", "max", "mean", "median", "min-minutes",
		"max-minutes", "mean-minutes", "median-minutes", "range", "warning"},
}

const summaryDefaultFields = "default"
