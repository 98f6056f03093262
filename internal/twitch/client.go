// Package twitch is a small Helix API client covering what the shoutout
// manager needs: an app access token (client-credentials grant), channel
// search with profile images, and username validation.
//
// The client caches one token per credential pair and refreshes it five
// minutes before it expires. A 401 from the API drops the token and
// surfaces ErrNeedsReauth; retrying is left to the caller.
package twitch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// Default endpoints.
const (
	DefaultAuthURL = "https://id.twitch.tv/oauth2/token"
	DefaultAPIURL  = "https://api.twitch.tv/helix"
)

const (
	// expiryMargin is subtracted from the token lifetime.
	expiryMargin = 5 * time.Minute
	// defaultTokenLifetime is assumed when the token response has no
	// expires_in. Twitch app tokens live for roughly two months.
	defaultTokenLifetime = time.Hour
	// searchLimit is the number of channels requested per search.
	searchLimit = 10
	// maxLoginsPerRequest is the Helix limit for repeated login= params.
	maxLoginsPerRequest = 100
)

// Credentials identify the registered Twitch application.
type Credentials struct {
	ClientID     string
	ClientSecret string
}

// Valid reports whether both fields are set.
func (c Credentials) Valid() bool {
	return strings.TrimSpace(c.ClientID) != "" && strings.TrimSpace(c.ClientSecret) != ""
}

// Channel is a search result enriched with the broadcaster's profile image.
type Channel struct {
	ID              string `json:"id"`
	Login           string `json:"login"`
	DisplayName     string `json:"displayName"`
	IsLive          bool   `json:"isLive"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
}

// Config holds endpoints and transport settings.
type Config struct {
	AuthURL    string
	APIURL     string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client talks to the Twitch Helix API. It is safe for concurrent use.
type Client struct {
	authURL string
	apiURL  string
	http    *http.Client
	now     func() time.Time

	mu     sync.Mutex
	creds  Credentials
	token  string
	expiry time.Time
}

// New builds a Client; empty Config fields get defaults.
func New(cfg Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	c := &Client{
		authURL: cfg.AuthURL,
		apiURL:  strings.TrimRight(cfg.APIURL, "/"),
		http:    hc,
		now:     time.Now,
	}
	if c.authURL == "" {
		c.authURL = DefaultAuthURL
	}
	if c.apiURL == "" {
		c.apiURL = DefaultAPIURL
	}
	return c
}

// Token returns a cached app access token for creds, fetching a new one
// when none is cached, the credentials changed, or the token is about to
// expire.
func (c *Client) Token(ctx context.Context, creds Credentials) (string, error) {
	if !creds.Valid() {
		return "", ErrNotConfigured
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && c.creds == creds && c.now().Before(c.expiry) {
		return c.token, nil
	}
	return c.fetchTokenLocked(ctx, creds)
}

// ValidateCredentials always requests a fresh token, replacing the cache on
// success.
func (c *Client) ValidateCredentials(ctx context.Context, creds Credentials) error {
	if !creds.Valid() {
		return ErrNotConfigured
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := c.fetchTokenLocked(ctx, creds)
	return err
}

// Invalidate drops the cached token.
func (c *Client) Invalidate() {
	c.mu.Lock()
	c.token = ""
	c.expiry = time.Time{}
	c.mu.Unlock()
}

func (c *Client) fetchTokenLocked(ctx context.Context, creds Credentials) (string, error) {
	cc := clientcredentials.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		TokenURL:     c.authURL,
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)

	tok, err := cc.Token(ctx)
	if err != nil {
		c.token, c.expiry = "", time.Time{}
		return "", fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}

	c.creds = creds
	c.token = tok.AccessToken
	c.expiry = c.now().Add(defaultTokenLifetime - expiryMargin)
	if !tok.Expiry.IsZero() {
		c.expiry = tok.Expiry.Add(-expiryMargin)
	}
	return c.token, nil
}

// get performs an authenticated Helix GET and decodes the JSON body into v.
func (c *Client) get(ctx context.Context, creds Credentials, path string, q url.Values, v any) error {
	token, err := c.Token(ctx, creds)
	if err != nil {
		return err
	}

	u := c.apiURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Client-Id", creds.ClientID)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		c.Invalidate()
		return ErrNeedsReauth
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("%w: %s %s", ErrRequestFailed, path, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrRequestFailed, path, err)
	}
	return nil
}
