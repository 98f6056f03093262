// Package search covers the two lookups behind the streamer picker: a local
// fuzzy index over roster names (for "did you mean" hints before adding a
// name) and a debounced live search in front of the platform API.
//
//   - Index is immutable after construction and safe for concurrent use.
//   - Scoring is the Levenshtein distance between the lower-cased query and
//     name; a name containing the query counts as distance 0.
//   - Ties keep roster order, so results are deterministic.
package search

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Result is a roster name with its edit distance to the query.
type Result struct {
	Name     string `json:"name"`
	Distance int    `json:"distance"`
}

// Index is the minimal interface implemented by name indices.
type Index interface {
	TopK(query string, k int) []Result
}

// Option configures NewIndex.
type Option func(*config)

type config struct {
	maxDistance int
	minQuery    int
}

func defaultConfig() config {
	return config{maxDistance: 2, minQuery: 2}
}

// WithMaxDistance sets the largest edit distance still reported (default 2).
func WithMaxDistance(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.maxDistance = n
		}
	}
}

// WithMinQuery sets the shortest query, in runes, that produces results
// (default 2).
func WithMinQuery(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.minQuery = n
		}
	}
}

type entry struct {
	name string
	key  string
}

type index struct {
	cfg     config
	entries []entry
}

// NewIndex builds an index over names in the given order.
func NewIndex(names []string, opts ...Option) Index {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	idx := &index{cfg: cfg, entries: make([]entry, 0, len(names))}
	for _, n := range names {
		idx.entries = append(idx.entries, entry{name: n, key: strings.ToLower(n)})
	}
	return idx
}

// TopK returns at most k names closest to q. k <= 0 means no limit.
func (i *index) TopK(q string, k int) []Result {
	q = strings.ToLower(strings.TrimSpace(q))
	if len([]rune(q)) < i.cfg.minQuery {
		return []Result{}
	}

	out := make([]Result, 0)
	for _, e := range i.entries {
		d := 0
		if !strings.Contains(e.key, q) {
			d = levenshtein.ComputeDistance(q, e.key)
		}
		if d <= i.cfg.maxDistance {
			out = append(out, Result{Name: e.name, Distance: d})
		}
	}

	sort.SliceStable(out, func(a, b int) bool { return out[a].Distance < out[b].Distance })
	if k > 0 && len(out) > k {
		out = out[:k]
	}
	return out
}
