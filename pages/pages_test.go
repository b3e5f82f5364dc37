package pages

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/Nathan-JzSu/qwt/buckets"
	. "github.com/Nathan-JzSu/qwt/common"
	"github.com/Nathan-JzSu/qwt/db"
	"github.com/Nathan-JzSu/qwt/query"
)

func assertEq[T comparable](t *testing.T, got, want T) {
	t.Helper()
	if got != want {
		t.Fatalf("Got %v, wanted %v", got, want)
	}
}

func assertNotErr(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}

func rec(n uint64, jobType string, year int, month Month, day, slots int, waitMin float64, user, own string) *db.JobRecord {
	return &db.JobRecord{
		JobNumber: n,
		JobType:   jobType,
		ClassUser: user,
		ClassOwn:  own,
		Year:      year,
		Month:     month,
		Day:       day,
		Slots:     slots,
		WaitSec:   waitMin * 60,
	}
}

func newTestDashboard() *Dashboard {
	store := db.NewStore([]*db.JobRecord{
		rec(1, "GPU = 1 a100", 2024, 1, 1, 8, 10, "shared", "shared"),
		rec(2, "GPU > 1 a100", 2024, 1, 2, 8, 30, "buyin", "buyin"),
		rec(3, "MPI job a", 2024, 1, 1, 64, 120, "shared", ""),
		rec(4, "MPI job b", 2024, 1, 3, 128, 60, "buyin", "buyin"),
		rec(5, "omp a", 2024, 1, 1, 16, 5, "shared", ""),
		rec(6, "omp b", 2023, 2, 0, 4, 50, "shared", ""),
		rec(7, "1-p x", 2024, 2, 5, 1, 0, "shared", ""),
		rec(8, "1-p y", 2024, 1, 5, 1, 2, "shared", ""),
	})
	engine := query.NewEngine(buckets.NewTable(store.ObservedSlots()))
	return New(store, engine).WithClock(func() time.Time {
		return time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC)
	})
}

func janInput() *query.Input {
	return &query.Input{Years: []string{"2024"}, Months: []string{"Jan"}}
}

func summary(t *testing.T, d *Dashboard, page string, in *query.Input) *Result {
	t.Helper()
	r, err := d.Summary(page, in)
	assertNotErr(t, err)
	return r
}

func chart(t *testing.T, d *Dashboard, page, name string, in *query.Input) *Chart {
	t.Helper()
	c, err := d.Chart(page, name, in)
	assertNotErr(t, err)
	return c
}

func TestHomeSummary(t *testing.T) {
	d := newTestDashboard()
	r := summary(t, d, "all", janInput())
	assertEq(t, r.Summary.Count, 6)
	assertEq(t, *r.Summary.Median, 20.0)
	assertEq(t, r.Text.Median, "20.0 min")
	assertEq(t, r.Text.Max, "2.0 hours")
	assertEq(t, r.Warning, "")
	assertEq(t, r.Range.Unit, UnitHours)
	assertEq(t, r.Range.Low, 0)
	assertEq(t, r.Range.High, 3)

	// Current year and month by default
	assertEq(t, summary(t, d, "all", &query.Input{}).Summary.Count, 6)
}

func TestHomeQueue(t *testing.T) {
	d := newTestDashboard()
	in := janInput()
	in.Queue = "shared"
	assertEq(t, summary(t, d, "all", in).Summary.Count, 4)
	in.Queue = "buyin"
	assertEq(t, summary(t, d, "all", in).Summary.Count, 2)
}

func TestHomeJobTypes(t *testing.T) {
	d := newTestDashboard()
	in := janInput()
	in.JobTypes = []string{"GPU"}
	assertEq(t, summary(t, d, "all", in).Summary.Count, 2)

	// Unselecting every job type selects nothing
	in.JobTypes = []string{}
	r := summary(t, d, "all", in)
	assertEq(t, r.Summary.Count, 0)
	assertEq(t, r.Text.Median, "No data available")
}

func TestHomeYearMonth(t *testing.T) {
	d := newTestDashboard()

	// A bad year is the current year
	r := summary(t, d, "all", &query.Input{Years: []string{"twenty"}, Months: []string{"jan"}})
	assertEq(t, r.Year, 2024)
	assertEq(t, r.Summary.Count, 6)

	r = summary(t, d, "all", &query.Input{Years: []string{"2024"}, Months: []string{"January"}})
	assertEq(t, r.Warning, WarnHomeInvalidMonth)
	assertEq(t, r.Summary.Count, 0)
	assertEq(t, r.Range.High, 0)
	assertEq(t, r.Range.Unit, UnitSeconds)

	r = summary(t, d, "all", &query.Input{Years: []string{"2024"}, Months: []string{"Mar"}})
	assertEq(t, r.Warning, WarnFutureMonth)
	assertEq(t, r.Summary.Count, 0)
	r = summary(t, d, "all", &query.Input{Years: []string{"2025"}, Months: []string{"Jan"}})
	assertEq(t, r.Warning, WarnFutureMonth)

	r = summary(t, d, "all", &query.Input{Years: []string{"2024"}, Months: []string{"Feb"}})
	assertEq(t, r.Warning, "")
	assertEq(t, r.Summary.Count, 1)
}

func TestHomeWaitRange(t *testing.T) {
	d := newTestDashboard()
	in := janInput()
	in.WaitMin = "0"
	in.WaitMax = "1"
	in.WaitUnit = "Hours"
	assertEq(t, summary(t, d, "all", in).Summary.Count, 5)

	in.WaitMin = "2"
	r := summary(t, d, "all", in)
	assertEq(t, r.Summary.Count, 0)
	if r.Warning == "" {
		t.Fatalf("Expected a warning for a bad range")
	}
}

func TestHomeCharts(t *testing.T) {
	d := newTestDashboard()
	bar := chart(t, d, "all", "bar", janInput()).Bar
	var groups []string
	for _, p := range bar.Points {
		groups = append(groups, p.Group)
	}
	if !slices.Equal(groups, []string{"GPU", "MPI", "OMP", "1-P"}) {
		t.Fatalf("Bad groups %v", groups)
	}
	assertEq(t, bar.Points[1].Minutes, 90.0)
	assertEq(t, bar.Points[1].Text, "90.0")

	box := chart(t, d, "all", "box", janInput()).Box
	assertEq(t, box.Unit, "hour")
	assertEq(t, len(box.Groups), 4)
	assertEq(t, box.Groups[0].X, "1")
	assertEq(t, box.Groups[0].Color, "2024")

	sc := chart(t, d, "all", "scatter3d", janInput()).Scatter
	assertEq(t, len(sc), 4)
	assertEq(t, sc[0].JobType, "1-P")
}

func TestGpuPage(t *testing.T) {
	d := newTestDashboard()
	assertEq(t, summary(t, d, "gpu", janInput()).Summary.Count, 2)

	in := janInput()
	in.Queue = "buyin"
	assertEq(t, summary(t, d, "gpu", in).Summary.Count, 1)

	// Job types are not a gpu page input
	in = janInput()
	in.JobTypes = []string{}
	assertEq(t, summary(t, d, "gpu", in).Summary.Count, 2)

	lines := chart(t, d, "gpu", "daily", janInput()).Lines
	assertEq(t, len(lines), 2)
	assertEq(t, lines[0].Series, "GPU = 1")
	assertEq(t, lines[1].Series, "GPU > 1")
	assertEq(t, lines[1].Day, 2)

	r := summary(t, d, "gpu", &query.Input{Years: []string{"x"}, Months: []string{"Jan"}})
	assertEq(t, r.Warning, WarnInvalidYearMonth)
	assertEq(t, r.Summary.Count, 0)
	r = summary(t, d, "gpu", &query.Input{Years: []string{"2024"}, Months: []string{"Foo"}})
	assertEq(t, r.Warning, WarnInvalidMonth)
	r = summary(t, d, "gpu", &query.Input{Years: []string{"2022"}, Months: []string{"Jan"}})
	assertEq(t, r.Warning, WarnNoYearMonth)
	assertEq(t, r.Summary.Count, 0)
}

func TestMpiPage(t *testing.T) {
	d := newTestDashboard()
	bar := chart(t, d, "mpi", "bar", janInput()).Bar
	assertEq(t, bar.Unit, "hr")
	assertEq(t, bar.Points[0].Group, "b")
	assertEq(t, bar.Points[0].Text, "1.0 hr")
	assertEq(t, bar.Points[1].Group, "a")

	in := janInput()
	in.Queue = "buyin"
	assertEq(t, summary(t, d, "mpi", in).Summary.Count, 1)

	box := chart(t, d, "mpi", "box", janInput()).Box
	assertEq(t, len(box.Groups), 2)
	assertEq(t, box.Groups[0].X, "64-69")
	assertEq(t, box.Groups[1].X, "118-128")

	empty := chart(t, d, "mpi", "box", &query.Input{Years: []string{"2022"}, Months: []string{"Jan"}}).Box
	assertEq(t, len(empty.Groups), 0)

	assertEq(t, len(chart(t, d, "mpi", "daily", janInput()).Lines), 2)
}

func TestOmpPage(t *testing.T) {
	d := newTestDashboard()

	// Empty sets do not constrain
	assertEq(t, summary(t, d, "omp", &query.Input{}).Summary.Count, 2)
	assertEq(t, summary(t, d, "omp", &query.Input{CPUBuckets: []string{"16"}}).Summary.Count, 1)
	assertEq(t, summary(t, d, "omp", &query.Input{Years: []string{"2023"}}).Summary.Count, 1)
	assertEq(t, summary(t, d, "omp", &query.Input{Months: []string{"Jan", "Feb"}}).Summary.Count, 2)
	assertEq(t, summary(t, d, "omp", &query.Input{Queue: "buyin"}).Summary.Count, 2)

	bar := chart(t, d, "omp", "bar", &query.Input{}).Bar
	assertEq(t, len(bar.Points), 2)
	assertEq(t, bar.Points[0].Group, "2-4")
	assertEq(t, bar.Points[1].Group, "16")

	box := chart(t, d, "omp", "box", &query.Input{}).Box
	assertEq(t, len(box.Groups), 2)
	assertEq(t, box.Groups[0].Facet, "2-4")
	assertEq(t, box.Groups[0].X, "Feb")
	assertEq(t, box.Groups[0].Color, "2023")
}

func TestOnepPage(t *testing.T) {
	d := newTestDashboard()
	bar := chart(t, d, "onep", "bar", janInput()).Bar
	assertEq(t, len(bar.Points), 1)
	assertEq(t, bar.Points[0].Group, "y")
	assertEq(t, bar.Points[0].Text, "2.0 min")

	in := &query.Input{Years: []string{"2024"}, Months: []string{"Feb"}, Queue: "buyin"}
	assertEq(t, summary(t, d, "onep", in).Summary.Count, 0)
	in.Queue = "all"
	assertEq(t, summary(t, d, "onep", in).Summary.Count, 1)
}

func TestClassPagesContainToken(t *testing.T) {
	store := db.NewStore([]*db.JobRecord{
		rec(1, "GPU = 1 a100", 2024, 1, 1, 8, 10, "shared", "shared"),
		rec(2, "x GPU = 1", 2024, 1, 2, 8, 20, "shared", "shared"),
		rec(3, "gpu lower", 2024, 1, 2, 8, 30, "shared", "shared"),
		rec(4, "big omp run", 2024, 1, 3, 16, 5, "shared", ""),
	})
	d := New(store, query.NewEngine(buckets.NewTable(store.ObservedSlots()))).WithClock(func() time.Time {
		return time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC)
	})

	// The token may appear anywhere in the job type, and case matters
	r := summary(t, d, "gpu", janInput())
	assertEq(t, r.Summary.Count, 2)
	assertEq(t, *r.Summary.Median, 15.0)
	lines := chart(t, d, "gpu", "daily", janInput()).Lines
	assertEq(t, len(lines), 2)
	assertEq(t, lines[0].Series, "GPU = 1")
	assertEq(t, lines[1].Series, "x GPU = 1")

	assertEq(t, summary(t, d, "omp", &query.Input{}).Summary.Count, 1)
	assertEq(t, summary(t, d, "mpi", janInput()).Summary.Count, 0)
}

func TestUnknown(t *testing.T) {
	d := newTestDashboard()
	if _, err := d.Summary("nope", janInput()); !errors.Is(err, ErrUnknownPage) {
		t.Fatalf("Expected unknown page, got %v", err)
	}
	if _, err := d.Chart("omp", "daily", janInput()); !errors.Is(err, ErrUnknownChart) {
		t.Fatalf("Expected unknown chart, got %v", err)
	}
}

func TestDeterministic(t *testing.T) {
	d := newTestDashboard()
	a := chart(t, d, "all", "box", janInput())
	b := chart(t, d, "all", "box", janInput())
	assertEq(t, len(a.Box.Groups), len(b.Box.Groups))
	for i := range a.Box.Groups {
		assertEq(t, a.Box.Groups[i].Stats.Median, b.Box.Groups[i].Stats.Median)
	}
}

func TestControls(t *testing.T) {
	d := newTestDashboard()
	c := d.Controls()
	if !slices.Equal(c.Years, []int{2023, 2024}) {
		t.Fatalf("Bad years %v", c.Years)
	}
	if !slices.Equal(c.JobTypes, []string{"1-P", "GPU", "MPI", "OMP"}) {
		t.Fatalf("Bad job types %v", c.JobTypes)
	}
	if !slices.Equal(c.AvailableBuckets, []string{"2-4", "5-8", "16", buckets.Other}) {
		t.Fatalf("Bad buckets %v", c.AvailableBuckets)
	}
	assertEq(t, len(c.Months), 12)
	assertEq(t, len(c.Pages), 5)
	assertEq(t, c.Pages[2].Name, "mpi")
	if !slices.Equal(c.Pages[2].Charts, []string{"bar", "daily", "box"}) {
		t.Fatalf("Bad charts %v", c.Pages[2].Charts)
	}
}

