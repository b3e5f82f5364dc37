package chart

import (
	. "github.com/Nathan-JzSu/qwt/table"
)

// One output row of a chart.  Which fields are meaningful depends on the kind of chart:
//
//	bar      Group, Minutes, Value, Text, Count, Unit
//	daily    Day, Series, Minutes, Count
//	box      Group (x), Series (color), Facet, Value (median), Q1, Q3, Whiskers, Outliers, Count, Unit
//	scatter  Year, Month, Group (job type), Value (mean hours), Count

type ChartRow struct {
	Kind      string
	Group     string
	Series    string
	Facet     string
	Year      int
	Month     string
	Day       int
	Minutes   float64
	Value     float64
	Text      string
	Count     int
	Unit      string
	Q1        float64
	Q3        float64
	WhiskerLo float64
	WhiskerHi float64
	Outliers  int
}

func optInt(x int, ctx PrintMods) string {
	if x == 0 {
		return ""
	}
	return FormatInt(x, ctx)
}

// MT: Constant after initialization; immutable
var chartFormatters = map[string]Formatter[*ChartRow]{
	"Kind": {
		Fmt:  func(d *ChartRow, ctx PrintMods) string { return FormatString(d.Kind, ctx) },
		Help: "(string) bar, daily, box or scatter",
	},
	"Group": {
		Fmt:  func(d *ChartRow, ctx PrintMods) string { return FormatString(d.Group, ctx) },
		Help: "(string) Bar group, box x label or scatter job type",
	},
	"Series": {
		Fmt:  func(d *ChartRow, ctx PrintMods) string { return FormatString(d.Series, ctx) },
		Help: "(string) Line series or box color group",
	},
	"Facet": {
		Fmt:  func(d *ChartRow, ctx PrintMods) string { return FormatString(d.Facet, ctx) },
		Help: "(string) Box facet",
	},
	"Year": {
		Fmt:  func(d *ChartRow, ctx PrintMods) string { return optInt(d.Year, ctx) },
		Help: "(int) Scatter year",
	},
	"Month": {
		Fmt:  func(d *ChartRow, ctx PrintMods) string { return FormatString(d.Month, ctx) },
		Help: "(string) Scatter month",
	},
	"Day": {
		Fmt:  func(d *ChartRow, ctx PrintMods) string { return optInt(d.Day, ctx) },
		Help: "(int) Day of month of a daily point",
	},
	"Minutes": {
		Fmt:  func(d *ChartRow, ctx PrintMods) string { return FormatFloat(d.Minutes, ctx) },
		Help: "(float) Median waiting time in minutes",
	},
	"Value": {
		Fmt:  func(d *ChartRow, ctx PrintMods) string { return FormatFloat(d.Value, ctx) },
		Help: "(float) The plotted value in the chart's unit",
	},
	"Text": {
		Fmt:  func(d *ChartRow, ctx PrintMods) string { return FormatString(d.Text, ctx) },
		Help: "(string) Bar label text",
	},
	"Count": {
		Fmt:  func(d *ChartRow, ctx PrintMods) string { return FormatInt(d.Count, ctx) },
		Help: "(int) Number of jobs behind the point",
	},
	"Unit": {
		Fmt:  func(d *ChartRow, ctx PrintMods) string { return FormatString(d.Unit, ctx) },
		Help: "(string) Unit of Value",
	},
	"Q1": {
		Fmt:  func(d *ChartRow, ctx PrintMods) string { return FormatFloat(d.Q1, ctx) },
		Help: "(float) Box first quartile",
	},
	"Q3": {
		Fmt:  func(d *ChartRow, ctx PrintMods) string { return FormatFloat(d.Q3, ctx) },
		Help: "(float) Box third quartile",
	},
	"WhiskerLo": {
		Fmt:  func(d *ChartRow, ctx PrintMods) string { return FormatFloat(d.WhiskerLo, ctx) },
		Help: "(float) Box lower whisker",
	},
	"WhiskerHi": {
		Fmt:  func(d *ChartRow, ctx PrintMods) string { return FormatFloat(d.WhiskerHi, ctx) },
		Help: "(float) Box upper whisker",
	},
	"Outliers": {
		Fmt:  func(d *ChartRow, ctx PrintMods) string { return FormatInt(d.Outliers, ctx) },
		Help: "(int) Number of box outliers",
	},
}

func init() {
	DefAlias(chartFormatters, "Kind", "kind")
	DefAlias(chartFormatters, "Group", "group")
	DefAlias(chartFormatters, "Series", "series")
	DefAlias(chartFormatters, "Facet", "facet")
	DefAlias(chartFormatters, "Year", "year")
	DefAlias(chartFormatters, "Month", "month")
	DefAlias(chartFormatters, "Day", "day")
	DefAlias(chartFormatters, "Minutes", "minutes")
	DefAlias(chartFormatters, "Value", "value")
	DefAlias(chartFormatters, "Text", "text")
	DefAlias(chartFormatters, "Count", "count")
	DefAlias(chartFormatters, "Unit", "unit")
	DefAlias(chartFormatters, "Q1", "q1")
	DefAlias(chartFormatters, "Q3", "q3")
	DefAlias(chartFormatters, "WhiskerLo", "whisker-lo")
	DefAlias(chartFormatters, "WhiskerHi", "whisker-hi")
	DefAlias(chartFormatters, "Outliers", "outliers")
}

// The default fields depend on the kind of chart.

// MT: Constant after initialization; immutable
var chartAliases = map[string][]string{
	"bar":     {"group", "value", "unit", "text", "count"},
	"daily":   {"day", "series", "minutes", "count"},
	"box":     {"group", "series", "facet", "q1", "value", "q3", "whisker-lo", "whisker-hi", "outliers", "count", "unit"},
	"scatter": {"year", "month", "group", "value", "count"},
	"all": {"kind", "group", "series", "facet", "year", "month", "day", "minutes", "value", "text",
		"count", "unit", "q1", "q3", "whisker-lo", "whisker-hi", "outliers"},
}
