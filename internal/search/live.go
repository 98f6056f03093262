package search

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

// ErrStaleQuery is returned to a caller whose query was superseded by a
// newer one, either while waiting out the debounce window or while its
// fetch was in flight.
var ErrStaleQuery = errors.New("query superseded by a newer one")

// Fetcher performs the actual remote search.
type Fetcher[T any] func(ctx context.Context, query string) ([]T, error)

// Live debounces a stream of queries and applies only the response that
// belongs to the latest dispatched query. Earlier callers get ErrStaleQuery
// instead of overwriting newer results.
type Live[T any] struct {
	fetch  Fetcher[T]
	window time.Duration
	minLen int

	mu      sync.Mutex
	seq     uint64
	pending chan struct{}
	query   string
	results []T
}

// NewLive returns a Live search with the given debounce window. Queries
// shorter than minLen runes clear the results without fetching.
func NewLive[T any](fetch Fetcher[T], window time.Duration, minLen int) *Live[T] {
	return &Live[T]{fetch: fetch, window: window, minLen: minLen}
}

// Submit registers query as the latest one, waits out the debounce window
// and fetches. It blocks until the results are known or the query is
// superseded.
func (l *Live[T]) Submit(ctx context.Context, query string) ([]T, error) {
	query = strings.TrimSpace(query)

	l.mu.Lock()
	l.seq++
	id := l.seq
	if l.pending != nil {
		close(l.pending)
		l.pending = nil
	}
	if utf8.RuneCountInString(query) < l.minLen {
		l.query, l.results = query, nil
		l.mu.Unlock()
		return []T{}, nil
	}
	superseded := make(chan struct{})
	l.pending = superseded
	l.mu.Unlock()

	timer := time.NewTimer(l.window)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-superseded:
		return nil, ErrStaleQuery
	case <-timer.C:
	}

	l.mu.Lock()
	if l.seq != id {
		l.mu.Unlock()
		return nil, ErrStaleQuery
	}
	l.pending = nil
	l.mu.Unlock()

	res, err := l.fetch(ctx, query)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.seq != id {
		return nil, ErrStaleQuery
	}
	if err != nil {
		return nil, err
	}
	l.query, l.results = query, res
	return res, nil
}

// Latest returns the query and results last applied.
func (l *Live[T]) Latest() (string, []T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.query, append([]T(nil), l.results...)
}
