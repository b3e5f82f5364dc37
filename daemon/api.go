package daemon

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	. "github.com/Nathan-JzSu/qwt/common"
	"github.com/Nathan-JzSu/qwt/pages"
	"github.com/Nathan-JzSu/qwt/query"
)

const (
	apiTitle   = "Queue Waiting Time"
	apiVersion = "1.0.0"
)

// MT: The dashboard, cache and metrics are all safe for concurrent use, and the service itself is
// not mutated after construction except by WithClock, which is for tests.
type Service struct {
	dash     *pages.Dashboard
	cache    *resultCache
	registry *prometheus.Registry
	metrics  *metrics
	verbose  bool
	now      func() time.Time
}

func NewService(dash *pages.Dashboard, cacheEntries int, verbose bool) (*Service, error) {
	cache, err := newResultCache(cacheEntries)
	if err != nil {
		return nil, err
	}
	reg := prometheus.NewRegistry()
	s := &Service{
		dash:     dash,
		cache:    cache,
		registry: reg,
		metrics:  newMetrics(reg),
		verbose:  verbose,
		now:      time.Now,
	}
	s.metrics.datasetRows.Set(float64(dash.Len()))
	return s, nil
}

// For testing: fix the time used both for defaulting year and month and for cache keys.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	s.dash.WithClock(now)
	return s
}

// The complete handler: the API, its OpenAPI document and /metrics.

func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	api := humago.New(mux, huma.DefaultConfig(apiTitle, apiVersion))
	s.Register(api)
	mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{Registry: s.registry}))
	return mux
}

///////////////////////////////////////////////////////////////////////////////////////////////////
//
// Inputs.
//
// The list-valued inputs may be repeated (year=2023&year=2024) or comma-separated.  An input that
// is present with an empty value is different from an absent one: job-type= selects nothing on
// the all page.  The query string is therefore read raw by Resolve rather than trusting the
// decoded fields, which are declared for the benefit of the OpenAPI document.

type QueryParams struct {
	Year     []string `query:"year" doc:"Years to select; free text on the text pages"`
	Month    []string `query:"month" doc:"Months to select, Jan..Dec"`
	Day      []string `query:"day" doc:"Days of the month to select"`
	JobType  []string `query:"job-type" doc:"Job types to select"`
	CPU      []string `query:"cpu" doc:"CPU buckets to select on the omp page"`
	Queue    string   `query:"queue" doc:"Queue class: all, shared or buyin"`
	WaitMin  string   `query:"wait-min" doc:"Least waiting time"`
	WaitMax  string   `query:"wait-max" doc:"Greatest waiting time"`
	WaitUnit string   `query:"wait-unit" doc:"Unit of wait-min and wait-max: sec, min, hour; default min"`

	input query.Input
}

func (qp *QueryParams) Resolve(ctx huma.Context) []error {
	u := ctx.URL()
	values := u.Query()
	list := func(name string) []string {
		if xs, found := values[name]; found {
			return xs
		}
		return nil
	}
	qp.input = query.Input{
		Years:      list("year"),
		Months:     list("month"),
		Days:       list("day"),
		JobTypes:   list("job-type"),
		CPUBuckets: list("cpu"),
		Queue:      values.Get("queue"),
		WaitMin:    values.Get("wait-min"),
		WaitMax:    values.Get("wait-max"),
		WaitUnit:   values.Get("wait-unit"),
	}
	return nil
}

type controlsOutput struct {
	Body *pages.Controls
}

type summaryInput struct {
	Page string `path:"page" doc:"Page name"`
	QueryParams
}

type summaryOutput struct {
	Body *pages.Result
}

type chartInput struct {
	Page  string `path:"page" doc:"Page name"`
	Chart string `path:"chart" doc:"Chart name"`
	QueryParams
}

type chartOutput struct {
	Body *pages.Chart
}

type bucketRange struct {
	Label string `json:"label"`
	Slots []int  `json:"slots"`
}

type bucketsOutput struct {
	Body []bucketRange
}

type assignInput struct {
	Slots int `path:"slots" minimum:"0" doc:"Number of CPU cores"`
}

type assignment struct {
	Slots  int    `json:"slots"`
	Bucket string `json:"bucket"`
}

type assignOutput struct {
	Body assignment
}

///////////////////////////////////////////////////////////////////////////////////////////////////
//
// Operations.

func (s *Service) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-controls",
		Method:      http.MethodGet,
		Path:        "/pages",
		Summary:     "Pages, charts and the values the query inputs can take",
	}, func(ctx context.Context, _ *struct{}) (*controlsOutput, error) {
		v, err := s.cached("controls", "", "", nil, func() (any, error) {
			return s.dash.Controls(), nil
		})
		if err != nil {
			return nil, err
		}
		return &controlsOutput{Body: v.(*pages.Controls)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-summary",
		Method:      http.MethodGet,
		Path:        "/pages/{page}/summary",
		Summary:     "Waiting-time summary statistics of a page",
	}, func(ctx context.Context, in *summaryInput) (*summaryOutput, error) {
		v, err := s.cached("summary", in.Page, "", &in.input, func() (any, error) {
			return s.dash.Summary(in.Page, &in.input)
		})
		if err != nil {
			return nil, err
		}
		return &summaryOutput{Body: v.(*pages.Result)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-chart",
		Method:      http.MethodGet,
		Path:        "/pages/{page}/charts/{chart}",
		Summary:     "Chart data of a page",
	}, func(ctx context.Context, in *chartInput) (*chartOutput, error) {
		v, err := s.cached("chart", in.Page, in.Chart, &in.input, func() (any, error) {
			return s.dash.Chart(in.Page, in.Chart, &in.input)
		})
		if err != nil {
			return nil, err
		}
		return &chartOutput{Body: v.(*pages.Chart)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-buckets",
		Method:      http.MethodGet,
		Path:        "/buckets",
		Summary:     "The CPU bucket table",
	}, func(ctx context.Context, _ *struct{}) (*bucketsOutput, error) {
		start := time.Now()
		tbl := s.dash.Table()
		out := &bucketsOutput{Body: make([]bucketRange, 0)}
		for _, l := range tbl.Labels() {
			b, _ := tbl.Bucket(l)
			out.Body = append(out.Body, bucketRange{Label: b.Label, Slots: b.Slots})
		}
		s.metrics.recordRequest("buckets", "", "ok", time.Since(start).Seconds())
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "assign-bucket",
		Method:      http.MethodGet,
		Path:        "/buckets/{slots}",
		Summary:     "The CPU bucket a core count falls into",
	}, func(ctx context.Context, in *assignInput) (*assignOutput, error) {
		start := time.Now()
		out := &assignOutput{Body: assignment{Slots: in.Slots, Bucket: s.dash.Table().Assign(in.Slots)}}
		s.metrics.recordRequest("assign", "", "ok", time.Since(start).Seconds())
		return out, nil
	})
}

// Look up or compute a result.  Errors are not cached; unknown pages and charts are 404, anything
// else is a server error.

func (s *Service) cached(
	endpoint, page, chart string,
	in *query.Input,
	compute func() (any, error),
) (any, error) {
	start := time.Now()
	if in == nil {
		in = &query.Input{}
	}
	key := cacheKey(endpoint, page, chart, s.now().Format("2006-01"), in)
	if v, found := s.cache.get(key); found {
		s.metrics.recordCache(true)
		s.metrics.recordRequest(endpoint, page, "ok", time.Since(start).Seconds())
		return v, nil
	}
	s.metrics.recordCache(false)
	v, err := compute()
	if err != nil {
		if errors.Is(err, pages.ErrUnknownPage) || errors.Is(err, pages.ErrUnknownChart) {
			s.metrics.recordRequest(endpoint, "unknown", "not-found", time.Since(start).Seconds())
			return nil, huma.Error404NotFound(err.Error())
		}
		s.metrics.recordRequest(endpoint, page, "error", time.Since(start).Seconds())
		Log.Errorf("%s %s: %v", endpoint, page, err)
		return nil, huma.Error500InternalServerError("Query failed")
	}
	s.cache.add(key, v)
	s.metrics.cacheSize.Set(float64(s.cache.len()))
	s.metrics.recordRequest(endpoint, page, "ok", time.Since(start).Seconds())
	if s.verbose {
		Log.Infof("%s %s %s: computed in %v", endpoint, page, chart, time.Since(start))
	}
	return v, nil
}
