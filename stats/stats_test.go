package stats

import (
	"fmt"
	"math"
	"slices"
	"testing"

	"github.com/Nathan-JzSu/qwt/buckets"
	. "github.com/Nathan-JzSu/qwt/common"
	"github.com/Nathan-JzSu/qwt/db"
)

func assertEq[T comparable](t *testing.T, got, want T) {
	t.Helper()
	if got != want {
		t.Fatalf("Got %v, wanted %v", got, want)
	}
}

func assertNear(t *testing.T, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("Got %v, wanted %v", got, want)
	}
}

// One row per waiting time, given in minutes.
func rowsOf(jobType string, mins ...float64) []*db.JobRecord {
	rows := make([]*db.JobRecord, len(mins))
	for i, m := range mins {
		rows[i] = &db.JobRecord{
			JobNumber: uint64(i + 1),
			JobType:   jobType,
			Year:      2024,
			Month:     1,
			Day:       i%3 + 1,
			Slots:     4,
			WaitSec:   m * 60,
		}
	}
	return rows
}

func TestSummarize(t *testing.T) {
	s := Summarize(nil)
	assertEq(t, s.Count, 0)
	if s.Min != nil || s.Max != nil || s.Mean != nil || s.Median != nil {
		t.Fatalf("Expected nil stats")
	}
	assertEq(t, s.Text().Median, "No data available")
	assertEq(t, s.Text().Count, "0")

	rows := rowsOf("omp a", -2, 10, 20, 90)
	s = Summarize(rows)
	assertEq(t, s.Count, len(rows))
	assertNear(t, *s.Min, 0)
	assertNear(t, *s.Max, 90)
	assertNear(t, *s.Mean, 29.5)
	assertNear(t, *s.Median, 15)

	txt := s.Text()
	assertEq(t, txt.Max, "1.5 hours")
	assertEq(t, txt.Median, "15.0 min")

	// Idempotent
	again := Summarize(rows)
	assertEq(t, *again.Median, *s.Median)
	assertEq(t, again.Count, s.Count)
}

func TestQuantile(t *testing.T) {
	xs := []float64{4, 1, 3, 2}
	assertNear(t, Median(xs), 2.5)
	assertNear(t, Quantile(xs, 0.25), 1.75)
	assertNear(t, Quantile(xs, 1), 4)
	if !math.IsNaN(Median(nil)) {
		t.Fatalf("Expected NaN")
	}
	// Input untouched
	if !slices.Equal(xs, []float64{4, 1, 3, 2}) {
		t.Fatalf("Input modified")
	}
	assertNear(t, Round(1.25, 1), 1.3)
	assertNear(t, Round(-2.5, 0), -3)
}

func TestTopKCollapse(t *testing.T) {
	rows := append(rowsOf("MPI job q1", 1, 2, 30), rowsOf("MPI job q2", 19, 20, 21)...)
	for g := 3; g <= 8; g++ {
		m := float64(g * 10)
		rows = append(rows, rowsOf(fmt.Sprintf("MPI job q%d", g), m-1, m, m+1)...)
	}
	s := GroupedMedian(rows, SeriesOptions{
		TrimPrefix:   "MPI job ",
		TopK:         6,
		AdaptiveUnit: true,
	})
	assertEq(t, len(s.Points), 7)
	assertEq(t, s.Unit, "min")
	// "others" is the median of the raw rows of q1 and q2, 1 2 19 20 21 30, not the mean of the
	// group medians 2 and 20
	assertEq(t, s.Points[0].Group, OthersGroup)
	assertNear(t, s.Points[0].Minutes, 19.5)
	assertEq(t, s.Points[0].Count, 6)
	assertEq(t, s.Points[0].Text, "19.5 min")
	for i, p := range s.Points[1:] {
		assertEq(t, p.Group, fmt.Sprintf("q%d", i+3))
	}
}

func TestTopKNoCollapse(t *testing.T) {
	rows := append(rowsOf("GPU = 1 a", 10), rowsOf("GPU > 1 b", 5)...)
	s := GroupedMedian(rows, SeriesOptions{TopK: 5, AdaptiveUnit: true})
	assertEq(t, len(s.Points), 2)
	assertEq(t, s.Points[0].Group, "GPU > 1 b")
}

func TestAdaptiveUnit(t *testing.T) {
	rows := append(rowsOf("a", 30), rowsOf("b", 150)...)
	s := GroupedMedian(rows, SeriesOptions{AdaptiveUnit: true})
	assertEq(t, s.Unit, "hr")
	assertEq(t, s.Points[0].Value, 0.5)
	assertEq(t, s.Points[0].Text, "0.5 hr")
	assertEq(t, s.Points[1].Value, 2.5)

	// Exactly 100 minutes stays in minutes
	s = GroupedMedian(rowsOf("a", 100), SeriesOptions{AdaptiveUnit: true})
	assertEq(t, s.Unit, "min")
	assertEq(t, s.Points[0].Text, "100.0 min")
}

func TestBucketSeries(t *testing.T) {
	tbl := buckets.NewTable([]int{2, 16, 64})
	var rows []*db.JobRecord
	for _, x := range []struct {
		slots int
		wait  float64
	}{{64, 1}, {2, 3}, {16, 0}, {16, 4}, {2, 1.004}} {
		rows = append(rows, &db.JobRecord{JobType: "omp", Year: 2024, Month: 1, Slots: x.slots, WaitSec: x.wait * 60})
	}
	s := GroupedMedian(rows, SeriesOptions{
		Key:       KeyCPUBucket,
		Buckets:   tbl,
		RoundRows: true,
		Order:     OrderByBuckets,
	})
	var labels []string
	for _, p := range s.Points {
		labels = append(labels, p.Group)
	}
	if !slices.Equal(labels, []string{"2-4", "16", "other"}) {
		t.Fatalf("Bad order %v", labels)
	}
	// 1.004 rounds to 1.00 before the median
	assertNear(t, s.Points[0].Minutes, 2)
	assertEq(t, s.Points[0].Text, "2.0")
	assertEq(t, s.Points[1].Text, "2.0")
}

func TestClassSeries(t *testing.T) {
	rows := append(rowsOf("omp a", 0), rowsOf("GPU = 1 x", 5)...)
	rows = append(rows, rowsOf("1-p q", 7)...)
	s := GroupedMedian(rows, SeriesOptions{Key: KeyClass, Order: OrderByKey, RoundRows: true})
	assertEq(t, s.Points[0].Group, "GPU")
	assertEq(t, s.Points[1].Group, "OMP")
	assertEq(t, s.Points[1].Text, "0")
	assertEq(t, s.Points[2].Group, "1-P")
}

func TestDailyMedian(t *testing.T) {
	rows := rowsOf("1-p a", 1, 2, 3, 4, 5, 6)
	rows = append(rows, &db.JobRecord{JobType: "1-p a", Year: 2024, Month: 1, Slots: 1, WaitSec: 6000})
	points := DailyMedian(rows, nil)
	assertEq(t, len(points), 3)
	// Day 1 has 1 and 4
	assertEq(t, points[0].Day, 1)
	assertNear(t, points[0].Minutes, 2.5)
	assertEq(t, points[2].Day, 3)

	byType := DailyMedian(append(rows, rowsOf("1-p b", 9)...), func(r *db.JobRecord) string { return r.JobType })
	assertEq(t, len(byType), 4)
	assertEq(t, byType[1].Series, "1-p b")
}

func TestBox(t *testing.T) {
	b := Box([]float64{1, 2, 3, 4, 100})
	assertNear(t, b.Q1, 2)
	assertNear(t, b.Median, 3)
	assertNear(t, b.Q3, 4)
	assertNear(t, b.UpperFence, 7)
	assertNear(t, b.WhiskerHi, 4)
	if !slices.Equal(b.Outliers, []float64{100}) {
		t.Fatalf("Bad outliers %v", b.Outliers)
	}
	assertEq(t, Box(nil).N, 0)
}

func TestBoxGroups(t *testing.T) {
	rows := rowsOf("omp", 60, 120, 180, 240)
	rows[1].Year = 2023
	chart := BoxGroups(rows, BoxOptions{
		X:      func(r *db.JobRecord) string { return r.Month.String() },
		Color:  func(r *db.JobRecord) string { return fmt.Sprint(r.Year) },
		XOrder: func(s string) int { m, _ := ParseMonth(s); return int(m) },
		Scale:  3600,
		Unit:   "hours",
	})
	assertEq(t, len(chart.Groups), 2)
	assertEq(t, chart.Groups[0].Color, "2023")
	assertNear(t, chart.Groups[0].Stats.Median, 2)
	assertEq(t, chart.Groups[1].Stats.N, 3)
}

func TestSample(t *testing.T) {
	rows := rowsOf("x", make([]float64, 100)...)
	s1 := Sample(rows, 10, DefaultSeed)
	s2 := Sample(rows, 10, DefaultSeed)
	assertEq(t, len(s1), 10)
	for i := range s1 {
		assertEq(t, s1[i], s2[i])
		if i > 0 && s1[i].JobNumber <= s1[i-1].JobNumber {
			t.Fatalf("Order not preserved")
		}
	}
	assertEq(t, len(Sample(rows, 1000, DefaultSeed)), 100)

	for i, r := range rows {
		r.Year = 2023 + i%2
	}
	per := SamplePerYear(rows, []int{2023, 2024}, 20, DefaultSeed)
	assertEq(t, len(per), 20)
	assertEq(t, per[0].Year, 2023)
	assertEq(t, per[19].Year, 2024)
	assertEq(t, len(SamplePerYear(rows, nil, 20, DefaultSeed)), 20)
}

func TestSampleKeepingOutliers(t *testing.T) {
	mins := make([]float64, 50)
	for i := range mins {
		mins[i] = float64(i % 5)
	}
	mins = append(mins, 1000)
	rows := rowsOf("MPI job a", mins...)
	s := SampleKeepingOutliers(rows, []int{2024}, 10, DefaultSeed)
	assertEq(t, len(s), 11)
	assertNear(t, s[10].WaitMinutes(), 1000)
}

func TestScatter3D(t *testing.T) {
	rows := rowsOf("GPU = 1 a", 60, 180)
	rows = append(rows, rowsOf("omp b", 120)...)
	points := Scatter3D(rows, func(r *db.JobRecord) string {
		c, _ := db.ClassOf(r.JobType)
		return c.Label()
	})
	assertEq(t, len(points), 2)
	assertEq(t, points[0].JobType, "GPU")
	assertNear(t, points[0].MeanHours, 2)
	assertEq(t, points[0].Count, 2)
}

func TestScaleRange(t *testing.T) {
	r := ScaleRange(nil)
	assertEq(t, r.Unit, UnitSeconds)
	assertEq(t, r.High, 0)

	rows := rowsOf("x", 0.5, 2)
	r = ScaleRange(rows)
	assertEq(t, r.Unit, UnitMinutes)
	assertEq(t, r.Low, 0)
	assertEq(t, r.High, 3)

	rows = rowsOf("x", 90, 150)
	r = ScaleRange(rows)
	assertEq(t, r.Unit, UnitHours)
	assertEq(t, r.Low, 1)
	assertEq(t, r.High, 3)

	rows = rowsOf("x", 0.25)
	assertEq(t, ScaleRange(rows).Unit, UnitSeconds)
	assertEq(t, ScaleRange(rows).High, 16)
}
