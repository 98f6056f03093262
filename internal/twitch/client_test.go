package twitch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

var creds = Credentials{ClientID: "cid", ClientSecret: "secret"}

// fakeTwitch serves both the token endpoint and a minimal Helix API.
type fakeTwitch struct {
	tokenCalls  atomic.Int32
	expiresIn   int
	rejectCreds bool
	unauthOnce  atomic.Bool
	usersFail   bool

	mu         sync.Mutex
	lastLogins []string
}

func (f *fakeTwitch) logins() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastLogins
}

func (f *fakeTwitch) server(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if r.Form.Get("grant_type") != "client_credentials" || r.Form.Get("client_id") != "cid" {
			t.Errorf("unexpected token form: %v", r.Form)
		}
		if f.rejectCreds {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"status":403,"message":"invalid client secret"}`))
			return
		}
		n := f.tokenCalls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": fmt.Sprintf("tok%d", n),
			"expires_in":   f.expiresIn,
			"token_type":   "bearer",
		})
	})

	mux.HandleFunc("/helix/search/channels", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Client-Id") != "cid" || !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer tok") {
			t.Errorf("missing auth headers: %v", r.Header)
		}
		if f.unauthOnce.CompareAndSwap(true, false) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Query().Get("first") != "10" {
			t.Errorf("first = %q", r.URL.Query().Get("first"))
		}
		_, _ = w.Write([]byte(`{"data":[
			{"id":"1","broadcaster_login":"alice","display_name":"Alice","is_live":true},
			{"id":"2","broadcaster_login":"bob","display_name":"Bob","is_live":false}]}`))
	})

	mux.HandleFunc("/helix/users", func(w http.ResponseWriter, r *http.Request) {
		if logins := r.URL.Query()["login"]; len(logins) > 0 {
			f.mu.Lock()
			f.lastLogins = logins
			f.mu.Unlock()
			var data []map[string]string
			for _, l := range logins {
				if l != "ghost" {
					data = append(data, map[string]string{"id": l, "login": strings.ToUpper(l)})
				}
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
			return
		}
		if f.usersFail {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"data":[{"id":"1","login":"alice","profile_image_url":"http://img/1.png"}]}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, f *fakeTwitch) *Client {
	srv := f.server(t)
	return New(Config{AuthURL: srv.URL + "/oauth2/token", APIURL: srv.URL + "/helix/"})
}

func TestToken_CachedUntilNearExpiry(t *testing.T) {
	f := &fakeTwitch{expiresIn: 3600}
	c := newTestClient(t, f)
	ctx := context.Background()

	a, err := c.Token(ctx, creds)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := c.Token(ctx, creds)
	if a != b || f.tokenCalls.Load() != 1 {
		t.Fatalf("token not cached: %s %s calls=%d", a, b, f.tokenCalls.Load())
	}

	// Different credentials never reuse the cached token.
	other := Credentials{ClientID: "cid", ClientSecret: "other"}
	if _, err := c.Token(ctx, other); err != nil {
		t.Fatal(err)
	}
	if f.tokenCalls.Load() != 2 {
		t.Fatalf("calls = %d", f.tokenCalls.Load())
	}
}

func TestToken_ShortLivedTokenIsRefreshed(t *testing.T) {
	f := &fakeTwitch{expiresIn: 200} // inside the five minute margin
	c := newTestClient(t, f)
	ctx := context.Background()

	_, _ = c.Token(ctx, creds)
	_, _ = c.Token(ctx, creds)
	if f.tokenCalls.Load() != 2 {
		t.Fatalf("calls = %d; want 2", f.tokenCalls.Load())
	}
}

func TestToken_MissingExpiryIsCached(t *testing.T) {
	f := &fakeTwitch{} // expires_in 0 means no expiry was sent
	c := newTestClient(t, f)
	ctx := context.Background()

	a, err := c.Token(ctx, creds)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := c.Token(ctx, creds)
	if a != b || f.tokenCalls.Load() != 1 {
		t.Fatalf("token without expiry not reused: %s %s calls=%d", a, b, f.tokenCalls.Load())
	}
}

func TestToken_Errors(t *testing.T) {
	c := newTestClient(t, &fakeTwitch{rejectCreds: true})
	if _, err := c.Token(context.Background(), Credentials{}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("empty creds err = %v", err)
	}
	if err := c.ValidateCredentials(context.Background(), creds); !errors.Is(err, ErrAuthFailed) {
		t.Fatalf("rejected creds err = %v", err)
	}
}

func TestValidateCredentials_ForcesFreshToken(t *testing.T) {
	f := &fakeTwitch{expiresIn: 3600}
	c := newTestClient(t, f)
	ctx := context.Background()

	_, _ = c.Token(ctx, creds)
	if err := c.ValidateCredentials(ctx, creds); err != nil {
		t.Fatal(err)
	}
	if f.tokenCalls.Load() != 2 {
		t.Fatalf("calls = %d; want 2", f.tokenCalls.Load())
	}
}

func TestSearchChannels_EnrichesProfileImages(t *testing.T) {
	f := &fakeTwitch{expiresIn: 3600}
	c := newTestClient(t, f)

	got, err := c.SearchChannels(context.Background(), creds, "al ice")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d", len(got))
	}
	if got[0].Login != "alice" || !got[0].IsLive || got[0].ProfileImageURL != "http://img/1.png" {
		t.Fatalf("first = %+v", got[0])
	}
	if got[1].ProfileImageURL != "" {
		t.Fatalf("second should have no image: %+v", got[1])
	}
}

func TestSearchChannels_UsersLookupFailureIsTolerated(t *testing.T) {
	c := newTestClient(t, &fakeTwitch{expiresIn: 3600, usersFail: true})
	got, err := c.SearchChannels(context.Background(), creds, "x")
	if err != nil || len(got) != 2 || got[0].ProfileImageURL != "" {
		t.Fatalf("got %+v, %v", got, err)
	}
}

func TestSearchChannels_401DropsToken(t *testing.T) {
	f := &fakeTwitch{expiresIn: 3600}
	f.unauthOnce.Store(true)
	c := newTestClient(t, f)
	ctx := context.Background()

	if _, err := c.SearchChannels(ctx, creds, "x"); !errors.Is(err, ErrNeedsReauth) {
		t.Fatalf("err = %v", err)
	}
	if _, err := c.SearchChannels(ctx, creds, "x"); err != nil {
		t.Fatalf("retry err = %v", err)
	}
	if f.tokenCalls.Load() != 2 {
		t.Fatalf("expected re-auth, token calls = %d", f.tokenCalls.Load())
	}
}

func TestValidateUsernames(t *testing.T) {
	f := &fakeTwitch{expiresIn: 3600}
	c := newTestClient(t, f)

	got, err := c.ValidateUsernames(context.Background(), creds, []string{"@Alice", "ghost", " bob "})
	if err != nil {
		t.Fatal(err)
	}
	if !got["alice"] || !got["bob"] || got["ghost"] {
		t.Fatalf("valid = %v", got)
	}
	if strings.Join(f.logins(), ",") != "alice,ghost,bob" {
		t.Fatalf("logins sent = %v", f.logins())
	}
}

func TestValidateUsernames_Batches(t *testing.T) {
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok","expires_in":3600}`))
	})
	mux.HandleFunc("/users", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if n := len(r.URL.Query()["login"]); n > maxLoginsPerRequest {
			t.Errorf("batch too large: %d", n)
		}
		_, _ = w.Write([]byte(`{"data":[]}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(Config{AuthURL: srv.URL + "/token", APIURL: srv.URL})
	names := make([]string, 250)
	for i := range names {
		names[i] = fmt.Sprintf("user%d", i)
	}
	if _, err := c.ValidateUsernames(context.Background(), creds, names); err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 3 {
		t.Fatalf("calls = %d; want 3", calls.Load())
	}
}
