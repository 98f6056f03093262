// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements Idempotency-Key replay for unsafe methods. A client
// that retries POST /generate after a dropped connection gets the original
// response back instead of a second history entry. Successful (2xx)
// responses are cached in memory per method, route and key for a bounded
// time; replays skip the handler and the rate limiter.
package middleware

import (
	"bytes"
	"net/http"
	"regexp"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// HeaderIdempotencyKey carries the client-chosen key for an unsafe request.
const HeaderIdempotencyKey = "Idempotency-Key"

// HeaderReplayed is set to "true" on responses served from the cache.
const HeaderReplayed = "Idempotent-Replayed"

const (
	// ctxKeyIdemKey holds the validated Idempotency-Key in the Gin context.
	ctxKeyIdemKey = "idem.key"
	// ctxKeyRateBypass tells the rate limiter not to charge a replay.
	ctxKeyRateBypass = "rate.bypass"
)

// defaultKeyPattern accepts URL-safe keys such as UUIDs and ULIDs.
var defaultKeyPattern = regexp.MustCompile(`^[A-Za-z0-9._~\-:]+$`)

// IdempotencyOptions tunes NewIdempotency. Zero values pick the defaults
// noted per field.
type IdempotencyOptions struct {
	MaxLen     int            // longest accepted key, default 200
	TTL        time.Duration  // how long a response can be replayed, default 10m
	MaxEntries int            // cache size before eviction, default 1024
	Pattern    *regexp.Regexp // allowed key syntax, default defaultKeyPattern
}

// storedResponse is a cached 2xx response.

type storedResponse struct {
	status      int
	contentType string
	body        []byte
	at          time.Time
}

// Idempotency is a process-local replay cache. Safe for concurrent use.
type Idempotency struct {
	maxLen  int
	ttl     time.Duration
	max     int
	pattern *regexp.Regexp
	now     func() time.Time

	mu      sync.Mutex
	entries map[string]storedResponse
}

// NewIdempotency builds a replay cache with the given options.
func NewIdempotency(opts IdempotencyOptions) *Idempotency {
	id := &Idempotency{
		maxLen:  opts.MaxLen,
		ttl:     opts.TTL,
		max:     opts.MaxEntries,
		pattern: opts.Pattern,
		now:     time.Now,
		entries: make(map[string]storedResponse),
	}
	if id.maxLen <= 0 {
		id.maxLen = 200
	}
	if id.ttl <= 0 {
		id.ttl = 10 * time.Minute
	}
	if id.max <= 0 {
		id.max = 1024
	}
	if id.pattern == nil {
		id.pattern = defaultKeyPattern
	}
	return id
}

// GetIdempotencyKey returns the validated key stashed by the middleware.
func GetIdempotencyKey(c *gin.Context) (string, bool) {
	v, _ := c.Get(ctxKeyIdemKey)
	s := asString(v)
	return s, s != ""
}

// Handler returns the middleware.
//
// Behavior:
//   - GET, HEAD and OPTIONS, and requests without Idempotency-Key, pass
//     through untouched.
//   - A key that is too long or fails Pattern is rejected with 400 and code
//     "bad_idempotency_key".
//   - Entries are keyed by method, route template and key, so the same key
//     on two routes never collides.
//   - A hit within TTL writes the cached status, content type and body, sets
//     Idempotent-Replayed: true, marks the request as rate-limit exempt and
//     skips the handler.
//   - On a miss the handler runs and a 2xx response is cached. Errors are
//     not cached, so a client can retry them with the same key.
func (id *Idempotency) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" || isSafeMethod(c.Request.Method) {
			c.Next()
			return
		}
		if len(key) > id.maxLen || !id.pattern.MatchString(key) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"request_id": RequestIDFrom(c),
				"code":       "bad_idempotency_key",
				"message":    "invalid Idempotency-Key",
			})
			return
		}
		c.Set(ctxKeyIdemKey, key)

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		cacheKey := c.Request.Method + " " + route + " " + key

		if prev, ok := id.lookup(cacheKey); ok {
			c.Set(ctxKeyRateBypass, true)
			c.Header(HeaderReplayed, "true")
			c.Data(prev.status, prev.contentType, prev.body)
			c.Abort()
			return
		}

		cw := &captureWriter{ResponseWriter: c.Writer}
		c.Writer = cw
		c.Next()

		status := cw.Status()
		if status >= 200 && status < 300 {
			id.store(cacheKey, storedResponse{
				status:      status,
				contentType: cw.Header().Get("Content-Type"),
				body:        bytes.Clone(cw.buf.Bytes()),
				at:          id.now(),
			})
		}
	}
}

// lookup returns a live entry for k and drops it when it has expired.
func (id *Idempotency) lookup(k string) (storedResponse, bool) {
	id.mu.Lock()
	defer id.mu.Unlock()
	e, ok := id.entries[k]
	if !ok {
		return storedResponse{}, false
	}
	if id.now().Sub(e.at) >= id.ttl {
		delete(id.entries, k)
		return storedResponse{}, false
	}
	return e, true
}

// store saves e under k, evicting first when the cache is full.
func (id *Idempotency) store(k string, e storedResponse) {
	id.mu.Lock()
	defer id.mu.Unlock()
	if _, exists := id.entries[k]; !exists && len(id.entries) >= id.max {
		id.evictLocked()
	}
	id.entries[k] = e
}

// evictLocked drops expired entries and, if the cache is still full, the
// oldest one.
func (id *Idempotency) evictLocked() {
	now := id.now()
	oldestKey := ""
	var oldest time.Time
	for k, e := range id.entries {
		if now.Sub(e.at) >= id.ttl {
			delete(id.entries, k)
			continue
		}
		if oldestKey == "" || e.at.Before(oldest) {
			oldestKey, oldest = k, e.at
		}
	}
	if len(id.entries) >= id.max && oldestKey != "" {
		delete(id.entries, oldestKey)
	}
}

func (id *Idempotency) size() int {
	id.mu.Lock()
	defer id.mu.Unlock()
	return len(id.entries)
}

func isSafeMethod(m string) bool {
	return m == http.MethodGet || m == http.MethodHead || m == http.MethodOptions
}

// captureWriter tees the response body into buf so it can be cached.
type captureWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
