package daemon

import (
	"net/url"
	"slices"

	lru "github.com/hashicorp/golang-lru"

	"github.com/Nathan-JzSu/qwt/query"
)

const defaultCacheEntries = 1000

// Results are pure functions of the request and the dataset, so they can be cached by the
// canonical form of the request.  The cache is internally locked.

type resultCache struct {
	entries *lru.Cache
}

func newResultCache(size int) (*resultCache, error) {
	if size <= 0 {
		size = defaultCacheEntries
	}
	entries, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &resultCache{entries: entries}, nil
}

func (c *resultCache) get(key string) (any, bool) {
	return c.entries.Get(key)
}

func (c *resultCache) add(key string, value any) {
	c.entries.Add(key, value)
}

func (c *resultCache) len() int {
	return c.entries.Len()
}

func sortedCopy(xs []string) []string {
	if xs == nil {
		return nil
	}
	ys := slices.Clone(xs)
	slices.Sort(ys)
	return ys
}

// The canonical request: an endpoint, the path parameters and the query inputs.  Set-valued
// inputs are sorted; year and month keep their order since the text pages use only the first
// non-empty value.  An absent parameter and one given with an empty value are different requests.
// today is the year and month that empty year and month inputs default to.

func cacheKey(endpoint, page, chart, today string, in *query.Input) string {
	v := url.Values{}
	list := func(k string, xs []string, sorted bool) {
		switch {
		case xs == nil:
		case len(xs) == 0:
			v[k] = []string{""}
		case sorted:
			v[k] = sortedCopy(xs)
		default:
			v[k] = slices.Clone(xs)
		}
	}
	single := func(k, x string) {
		if x != "" {
			v.Set(k, x)
		}
	}
	list("year", in.Years, false)
	list("month", in.Months, false)
	list("day", in.Days, true)
	list("job-type", in.JobTypes, true)
	list("cpu", in.CPUBuckets, true)
	single("queue", in.Queue)
	single("wait-min", in.WaitMin)
	single("wait-max", in.WaitMax)
	single("wait-unit", in.WaitUnit)
	return endpoint + "|" + page + "|" + chart + "|" + today + "|" + v.Encode()
}
