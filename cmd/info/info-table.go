package info

import (
	. "github.com/Nathan-JzSu/qwt/common"
	. "github.com/Nathan-JzSu/qwt/table"
)

const noData = "No data found"

func seconds(minutes *float64, ctx PrintMods) string {
	if minutes == nil {
		return FormatString(noData, ctx)
	}
	return FormatString(FormatSeconds(*minutes*60), ctx)
}

// MT: Constant after initialization; immutable
var infoFormatters = map[string]Formatter[*InfoRow]{
	"JobType": {
		Fmt:  func(d *InfoRow, ctx PrintMods) string { return FormatString(d.Class.Label(), ctx) },
		Help: "(string) The job class: GPU, MPI, OMP, 1-P",
	},
	"Min": {
		Fmt:  func(d *InfoRow, ctx PrintMods) string { return seconds(d.Summary.Min, ctx) },
		Help: "(string) Minimum waiting time with unit",
	},
	"Max": {
		Fmt:  func(d *InfoRow, ctx PrintMods) string { return seconds(d.Summary.Max, ctx) },
		Help: "(string) Maximum waiting time with unit",
	},
	"Mean": {
		Fmt:  func(d *InfoRow, ctx PrintMods) string { return seconds(d.Summary.Mean, ctx) },
		Help: "(string) Mean waiting time with unit",
	},
	"Median": {
		Fmt:  func(d *InfoRow, ctx PrintMods) string { return seconds(d.Summary.Median, ctx) },
		Help: "(string) Median waiting time with unit",
	},
	"FirstWaitingJobs": {
		Fmt:  func(d *InfoRow, ctx PrintMods) string { return FormatInt(d.Summary.Count, ctx) },
		Help: "(int) Number of first jobs",
	},
}

func init() {
	DefAlias(infoFormatters, "JobType", "type")
	DefAlias(infoFormatters, "Min", "min")
	DefAlias(infoFormatters, "Max", "max")
	DefAlias(infoFormatters, "Mean", "mean")
	DefAlias(infoFormatters, "Median", "median")
	DefAlias(infoFormatters, "FirstWaitingJobs", "count")
}

// MT: Constant after initialization; immutable
var infoAliases = map[string][]string{
	"default": {"JobType", "Min", "Max", "Mean", "Median", "FirstWaitingJobs"},
	"all":     {"type", "min", "max", "mean", "median", "count"},
}

const infoDefaultFields = "default"
