package middleware

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newGenerateRouter(id *Idempotency, calls *int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(id.Handler())
	r.POST("/generate", func(c *gin.Context) {
		*calls++
		c.JSON(http.StatusOK, gin.H{"n": *calls})
	})
	r.POST("/fail", func(c *gin.Context) {
		*calls++
		c.JSON(http.StatusBadRequest, gin.H{"n": *calls})
	})
	r.GET("/read", func(c *gin.Context) {
		*calls++
		c.JSON(http.StatusOK, gin.H{"n": *calls})
	})
	return r
}

func TestIdempotency_ReplaysSuccessfulResponse(t *testing.T) {
	calls := 0
	r := newGenerateRouter(NewIdempotency(IdempotencyOptions{}), &calls)
	hdr := map[string]string{HeaderIdempotencyKey: "gen-1"}

	w1 := serve(r, http.MethodPost, "/generate", hdr)
	w2 := serve(r, http.MethodPost, "/generate", hdr)

	if calls != 1 {
		t.Fatalf("handler ran %d times; want 1", calls)
	}
	if w2.Code != http.StatusOK || w2.Body.String() != w1.Body.String() {
		t.Fatalf("replay mismatch: %d %q vs %q", w2.Code, w2.Body.String(), w1.Body.String())
	}
	if w2.Header().Get(HeaderReplayed) != "true" || w1.Header().Get(HeaderReplayed) != "" {
		t.Fatalf("replay header not set correctly")
	}
	if !strings.Contains(w2.Header().Get("Content-Type"), "application/json") {
		t.Fatalf("content type lost: %q", w2.Header().Get("Content-Type"))
	}

	serve(r, http.MethodPost, "/generate", map[string]string{HeaderIdempotencyKey: "gen-2"})
	if calls != 2 {
		t.Fatalf("distinct key should run handler, calls=%d", calls)
	}
}

func TestIdempotency_PassThroughCases(t *testing.T) {
	calls := 0
	r := newGenerateRouter(NewIdempotency(IdempotencyOptions{}), &calls)

	serve(r, http.MethodPost, "/generate", nil)
	serve(r, http.MethodPost, "/generate", nil)
	if calls != 2 {
		t.Fatalf("no header: calls=%d", calls)
	}

	hdr := map[string]string{HeaderIdempotencyKey: "k"}
	serve(r, http.MethodGet, "/read", hdr)
	serve(r, http.MethodGet, "/read", hdr)
	if calls != 4 {
		t.Fatalf("safe methods must not be cached: calls=%d", calls)
	}

	serve(r, http.MethodPost, "/fail", hdr)
	serve(r, http.MethodPost, "/fail", hdr)
	if calls != 6 {
		t.Fatalf("non-2xx must not be cached: calls=%d", calls)
	}
}

func TestIdempotency_InvalidKey(t *testing.T) {
	calls := 0
	id := NewIdempotency(IdempotencyOptions{MaxLen: 5, Pattern: regexp.MustCompile(`^[a-z]+$`)})
	r := newGenerateRouter(id, &calls)

	for _, k := range []string{"toolong", "BAD"} {
		w := serve(r, http.MethodPost, "/generate", map[string]string{HeaderIdempotencyKey: k})
		if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "bad_idempotency_key") {
			t.Fatalf("key %q: %d %s", k, w.Code, w.Body.String())
		}
	}
	if calls != 0 {
		t.Fatalf("handler ran for invalid key")
	}
}

func TestIdempotency_TTLExpiry(t *testing.T) {
	calls := 0
	id := NewIdempotency(IdempotencyOptions{TTL: time.Minute})
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	id.now = func() time.Time { return now }
	r := newGenerateRouter(id, &calls)
	hdr := map[string]string{HeaderIdempotencyKey: "k"}

	serve(r, http.MethodPost, "/generate", hdr)
	now = now.Add(59 * time.Second)
	serve(r, http.MethodPost, "/generate", hdr)
	if calls != 1 {
		t.Fatalf("within TTL should replay, calls=%d", calls)
	}
	now = now.Add(2 * time.Second)
	serve(r, http.MethodPost, "/generate", hdr)
	if calls != 2 {
		t.Fatalf("after TTL should re-run, calls=%d", calls)
	}
}

func TestIdempotency_BoundedEntries(t *testing.T) {
	calls := 0
	id := NewIdempotency(IdempotencyOptions{MaxEntries: 3})
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	id.now = func() time.Time { tick++; return base.Add(time.Duration(tick) * time.Millisecond) }
	r := newGenerateRouter(id, &calls)

	for i := 0; i < 5; i++ {
		serve(r, http.MethodPost, "/generate", map[string]string{HeaderIdempotencyKey: fmt.Sprint("k", i)})
	}
	if n := id.size(); n != 3 {
		t.Fatalf("size = %d; want 3", n)
	}
	// Oldest keys were evicted, so k0 runs the handler again.
	serve(r, http.MethodPost, "/generate", map[string]string{HeaderIdempotencyKey: "k0"})
	if calls != 6 {
		t.Fatalf("evicted key should re-run, calls=%d", calls)
	}
}

func TestIdempotency_ReplayBypassesRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	calls := 0
	r := gin.New()
	r.Use(NewIdempotency(IdempotencyOptions{}).Handler())
	r.Use(NewRateLimiter(0.0001, 1, KeyByIP()).Handler())
	r.POST("/generate", func(c *gin.Context) {
		calls++
		key, _ := GetIdempotencyKey(c)
		c.JSON(http.StatusOK, gin.H{"key": key})
	})

	hdr := map[string]string{HeaderIdempotencyKey: "same"}
	if w := serve(r, http.MethodPost, "/generate", hdr); w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"same"`) {
		t.Fatalf("first: %d %s", w.Code, w.Body.String())
	}
	if w := serve(r, http.MethodPost, "/generate", hdr); w.Code != http.StatusOK {
		t.Fatalf("replay should bypass limiter, got %d", w.Code)
	}
	if w := serve(r, http.MethodPost, "/generate", map[string]string{HeaderIdempotencyKey: "other"}); w.Code != http.StatusTooManyRequests {
		t.Fatalf("fresh key should be limited, got %d", w.Code)
	}
	if calls != 1 {
		t.Fatalf("calls = %d", calls)
	}
}
