package chart

import (
	"testing"

	"github.com/Nathan-JzSu/qwt/pages"
	"github.com/Nathan-JzSu/qwt/stats"
)

func assertEq[T comparable](t *testing.T, got, want T) {
	t.Helper()
	if got != want {
		t.Fatalf("Got %v, wanted %v", got, want)
	}
}

func TestKindOf(t *testing.T) {
	assertEq(t, kindOf("scatter3d"), "scatter")
	assertEq(t, kindOf("bar"), "bar")
	assertEq(t, kindOf("box"), "box")
	assertEq(t, kindOf("daily"), "daily")
}

func TestRows(t *testing.T) {
	rows := Rows(&pages.Chart{
		Bar: &stats.Series{
			Unit: "min",
			Points: []stats.Point{
				{Group: "GPU", Minutes: 10, Value: 10, Text: "10.0", Count: 3},
				{Group: "MPI", Minutes: 30, Value: 30, Text: "30.0", Count: 1},
			},
		},
	})
	assertEq(t, len(rows), 2)
	assertEq(t, rows[1].Kind, "bar")
	assertEq(t, rows[1].Group, "MPI")
	assertEq(t, rows[1].Count, 1)
	assertEq(t, rows[1].Unit, "min")

	rows = Rows(&pages.Chart{
		Box: &stats.BoxChart{
			Unit: "hour",
			Groups: []stats.BoxGroup{
				{X: "Jan", Color: "16", Stats: stats.BoxStats{N: 5, Median: 2, Outliers: []float64{9, 10}}},
			},
		},
	})
	assertEq(t, len(rows), 1)
	assertEq(t, rows[0].Kind, "box")
	assertEq(t, rows[0].Series, "16")
	assertEq(t, rows[0].Value, 2.0)
	assertEq(t, rows[0].Outliers, 2)

	rows = Rows(&pages.Chart{
		Scatter: []stats.ScatterPoint{{Year: 2024, Month: 3, JobType: "omp", MeanHours: 1.5, Count: 2}},
	})
	assertEq(t, rows[0].Kind, "scatter")
	assertEq(t, rows[0].Month, "Mar")

	// No data at all is an empty daily chart
	assertEq(t, len(Rows(&pages.Chart{})), 0)
}
