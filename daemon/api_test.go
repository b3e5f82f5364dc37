package daemon

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"

	. "github.com/Nathan-JzSu/qwt/common"
	"github.com/Nathan-JzSu/qwt/db"
	"github.com/Nathan-JzSu/qwt/pages"
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

func rec(n uint64, jobType string, month Month, slots int, waitMin float64) *db.JobRecord {
	return &db.JobRecord{
		JobNumber: n,
		JobType:   jobType,
		ClassUser: "shared",
		Year:      2024,
		Month:     month,
		Day:       1,
		Slots:     slots,
		WaitSec:   waitMin * 60,
	}
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	store := db.NewStore([]*db.JobRecord{
		rec(1, "GPU = 1 a100", 1, 8, 10),
		rec(2, "MPI job a", 1, 64, 120),
		rec(3, "omp a", 1, 16, 5),
		rec(4, "omp b", 2, 4, 50),
		rec(5, "1-p x", 1, 1, 2),
	})
	svc, err := NewService(pages.Open(store), 10, false)
	assertNotErr(t, err)
	return svc.WithClock(func() time.Time {
		return time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC)
	})
}

type summaryBody struct {
	Page    string `json:"page"`
	Year    int    `json:"year"`
	Warning string `json:"warning"`
	Summary struct {
		Count int `json:"count"`
	} `json:"summary"`
}

func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if resp.Code != http.StatusOK {
		t.Fatalf("Status %d: %s", resp.Code, resp.Body.String())
	}
	assertNotErr(t, json.Unmarshal(resp.Body.Bytes(), &v))
	return v
}

func TestSummary(t *testing.T) {
	svc := newTestService(t)
	_, api := humatest.New(t)
	svc.Register(api)

	s := decode[summaryBody](t, api.Get("/pages/all/summary?year=2024&month=Jan"))
	assertEq(t, s.Page, "all")
	assertEq(t, s.Year, 2024)
	assertEq(t, s.Summary.Count, 4)

	s = decode[summaryBody](t, api.Get("/pages/all/summary?year=2024&month=Jan&job-type=GPU&job-type=MPI"))
	assertEq(t, s.Summary.Count, 2)

	// Present but empty selects nothing
	s = decode[summaryBody](t, api.Get("/pages/all/summary?year=2024&month=Jan&job-type="))
	assertEq(t, s.Summary.Count, 0)

	// Repeated and comma-separated values are the same selection
	s = decode[summaryBody](t, api.Get("/pages/omp/summary?year=2024&month=Jan,Feb"))
	assertEq(t, s.Summary.Count, 2)
	s = decode[summaryBody](t, api.Get("/pages/omp/summary?year=2024&month=Jan&month=Feb"))
	assertEq(t, s.Summary.Count, 2)
}

func TestNotFound(t *testing.T) {
	svc := newTestService(t)
	_, api := humatest.New(t)
	svc.Register(api)

	assertEq(t, api.Get("/pages/nope/summary").Code, http.StatusNotFound)
	assertEq(t, api.Get("/pages/all/charts/nope").Code, http.StatusNotFound)
	assertEq(t, api.Get("/pages/nope/charts/bar").Code, http.StatusNotFound)
}

func TestChartAndControls(t *testing.T) {
	svc := newTestService(t)
	_, api := humatest.New(t)
	svc.Register(api)

	c := decode[pages.Chart](t, api.Get("/pages/gpu/charts/bar?year=2024&month=Jan"))
	assertEq(t, c.Page, "gpu")
	assertEq(t, c.Name, "bar")

	ctl := decode[pages.Controls](t, api.Get("/pages"))
	assertEq(t, len(ctl.Pages), len(pages.PageNames()))
	assertEq(t, len(ctl.Years), 1)
	assertEq(t, ctl.Years[0], 2024)
}

func TestBuckets(t *testing.T) {
	svc := newTestService(t)
	_, api := humatest.New(t)
	svc.Register(api)

	a := decode[assignment](t, api.Get("/buckets/16"))
	assertEq(t, a.Bucket, "16")
	a = decode[assignment](t, api.Get("/buckets/64"))
	assertEq(t, a.Bucket, "other")
	a = decode[assignment](t, api.Get("/buckets/1"))
	assertEq(t, a.Bucket, "other")

	bs := decode[[]bucketRange](t, api.Get("/buckets"))
	assertEq(t, bs[0].Label, "2-4")
	assertEq(t, bs[len(bs)-1].Label, "other")
}

func TestCache(t *testing.T) {
	svc := newTestService(t)
	_, api := humatest.New(t)
	svc.Register(api)

	decode[summaryBody](t, api.Get("/pages/all/summary?month=Jan&year=2024"))
	assertEq(t, svc.cache.len(), 1)

	// Same request with parameters in a different order
	decode[summaryBody](t, api.Get("/pages/all/summary?year=2024&month=Jan"))
	assertEq(t, svc.cache.len(), 1)

	decode[summaryBody](t, api.Get("/pages/all/summary?year=2024&month=Jan&job-type="))
	assertEq(t, svc.cache.len(), 2)

	// Errors are not cached
	api.Get("/pages/nope/summary")
	assertEq(t, svc.cache.len(), 2)
}

func TestCacheFirstYear(t *testing.T) {
	old := rec(6, "MPI job b", 1, 128, 30)
	old.Year = 2023
	store := db.NewStore([]*db.JobRecord{
		rec(1, "MPI job a", 1, 64, 120),
		old,
	})
	svc, err := NewService(pages.Open(store), 10, false)
	assertNotErr(t, err)
	svc = svc.WithClock(func() time.Time {
		return time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC)
	})
	_, api := humatest.New(t)
	svc.Register(api)

	s := decode[summaryBody](t, api.Get("/pages/mpi/summary?year=2023&year=2024&month=Jan"))
	assertEq(t, s.Year, 2023)
	assertEq(t, s.Summary.Count, 1)

	s = decode[summaryBody](t, api.Get("/pages/mpi/summary?year=2024&year=2023&month=Jan"))
	assertEq(t, s.Year, 2024)
	assertEq(t, s.Summary.Count, 1)
	assertEq(t, svc.cache.len(), 2)
}

func TestCacheKey(t *testing.T) {
	// Text pages use the first year, so the order matters
	a := cacheKey("summary", "mpi", "", "2024-01", &query.Input{Years: []string{"2024", "2023"}})
	b := cacheKey("summary", "mpi", "", "2024-01", &query.Input{Years: []string{"2023", "2024"}})
	if a == b {
		t.Fatal("Year order not part of key")
	}
	c := cacheKey("summary", "mpi", "", "2024-02", &query.Input{Years: []string{"2024", "2023"}})
	if a == c {
		t.Fatal("Clock not part of key")
	}

	// Job types are a set
	f := cacheKey("summary", "all", "", "2024-01", &query.Input{JobTypes: []string{"MPI", "GPU"}})
	g := cacheKey("summary", "all", "", "2024-01", &query.Input{JobTypes: []string{"GPU", "MPI"}})
	assertEq(t, f, g)
	d := cacheKey("summary", "all", "", "2024-01", &query.Input{JobTypes: []string{}})
	e := cacheKey("summary", "all", "", "2024-01", &query.Input{})
	if d == e {
		t.Fatal("Empty and absent are the same")
	}
}

func TestHandler(t *testing.T) {
	svc := newTestService(t)
	srv := httptest.NewServer(svc.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/pages/all/summary?year=2024&month=Jan")
	assertNotErr(t, err)
	resp.Body.Close()
	assertEq(t, resp.StatusCode, http.StatusOK)

	resp, err = http.Get(srv.URL + "/metrics")
	assertNotErr(t, err)
	defer resp.Body.Close()
	assertEq(t, resp.StatusCode, http.StatusOK)
	text, err := io.ReadAll(resp.Body)
	assertNotErr(t, err)
	if !strings.Contains(string(text), "qwt_requests_total") {
		t.Fatal("No request counter in metrics")
	}
	if !strings.Contains(string(text), "qwt_cache_entries 1") {
		t.Fatal("No cache size in metrics")
	}
}
