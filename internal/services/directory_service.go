package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/tbourn/go-shoutout-manager/internal/domain"
	"github.com/tbourn/go-shoutout-manager/internal/search"
	"github.com/tbourn/go-shoutout-manager/internal/store"
	"github.com/tbourn/go-shoutout-manager/internal/twitch"
)

// Platform is the streaming-platform capability consumed by DirectoryService.
type Platform interface {
	SearchChannels(ctx context.Context, creds twitch.Credentials, query string) ([]twitch.Channel, error)
	ValidateUsernames(ctx context.Context, creds twitch.Credentials, names []string) (map[string]bool, error)
	ValidateCredentials(ctx context.Context, creds twitch.Credentials) error
}

// minSearchQuery is the shortest live-search query sent to the platform.
const minSearchQuery = 2

// SearchResult is a platform channel flagged when it is already on the roster.
type SearchResult struct {
	twitch.Channel
	AlreadyAdded bool `json:"alreadyAdded"`
}

// StreamerStatus is the platform validation outcome for one roster entry.
type StreamerStatus struct {
	Streamer domain.Streamer `json:"streamer"`
	Valid    bool            `json:"valid"`
}

// ValidationReport summarizes a roster validation run.
type ValidationReport struct {
	Results []StreamerStatus `json:"results"`
	Valid   int              `json:"valid"`
	Invalid int              `json:"invalid"`
}

// DirectoryService wraps the platform client: live channel search, roster
// validation and credential checks. Every platform call is retried exactly
// once after a re-authentication when the token turns out to be expired.
type DirectoryService struct {
	Store    *store.Store
	Platform Platform

	// Override takes precedence over the persisted credentials field by
	// field when non-empty.
	Override twitch.Credentials

	live *search.Live[SearchResult]
}

// NewDirectoryService constructs a DirectoryService whose live search is
// debounced by window.
func NewDirectoryService(st *store.Store, p Platform, override twitch.Credentials, window time.Duration) *DirectoryService {
	s := &DirectoryService{Store: st, Platform: p, Override: override}
	s.live = search.NewLive(s.fetch, window, minSearchQuery)
	return s
}

// Credentials returns the effective platform credentials.
func (s *DirectoryService) Credentials() twitch.Credentials {
	set := s.Store.Settings()
	c := twitch.Credentials{ClientID: set.TwitchClientID, ClientSecret: set.TwitchClientSecret}
	if s.Override.ClientID != "" {
		c.ClientID = s.Override.ClientID
	}
	if s.Override.ClientSecret != "" {
		c.ClientSecret = s.Override.ClientSecret
	}
	return c
}

// withReauth runs op and, if it fails with twitch.ErrNeedsReauth, runs it
// exactly once more. The client has already dropped its token by then, so
// the second attempt authenticates again. Other errors are not retried.
func withReauth[T any](ctx context.Context, op func() (T, error)) (T, error) {
	attempt := 0
	return backoff.RetryWithData(func() (T, error) {
		attempt++
		v, err := op()
		switch {
		case err == nil:
			return v, nil
		case errors.Is(err, twitch.ErrNeedsReauth):
			if attempt == 1 {
				platformRetries.Inc()
			}
			return v, err
		default:
			return v, backoff.Permanent(err)
		}
	}, backoff.WithContext(backoff.WithMaxRetries(&backoff.ZeroBackOff{}, 1), ctx))
}

// Search runs a debounced live search. Queries shorter than two runes
// return no results without calling the platform; a query superseded by a
// newer one returns search.ErrStaleQuery.
func (s *DirectoryService) Search(ctx context.Context, query string) ([]SearchResult, error) {
	return s.live.Submit(ctx, query)
}

func (s *DirectoryService) fetch(ctx context.Context, query string) ([]SearchResult, error) {
	creds := s.Credentials()
	channels, err := withReauth(ctx, func() ([]twitch.Channel, error) {
		return s.Platform.SearchChannels(ctx, creds, query)
	})
	if err != nil {
		return nil, err
	}

	out := make([]SearchResult, len(channels))
	for i, ch := range channels {
		_, added := s.Store.StreamerByName(ch.Login)
		if !added && ch.DisplayName != "" {
			_, added = s.Store.StreamerByName(ch.DisplayName)
		}
		out[i] = SearchResult{Channel: ch, AlreadyAdded: added}
	}
	return out, nil
}

// ValidateAll checks every roster name against the platform. The result is
// transient and never persisted.
func (s *DirectoryService) ValidateAll(ctx context.Context) (ValidationReport, error) {
	roster := s.Store.Streamers()
	rep := ValidationReport{Results: make([]StreamerStatus, 0, len(roster))}
	if len(roster) == 0 {
		return rep, nil
	}

	names := make([]string, len(roster))
	for i, st := range roster {
		names[i] = st.Name
	}
	creds := s.Credentials()
	valid, err := withReauth(ctx, func() (map[string]bool, error) {
		return s.Platform.ValidateUsernames(ctx, creds, names)
	})
	if err != nil {
		return ValidationReport{}, err
	}

	for _, st := range roster {
		ok := valid[strings.ToLower(st.Name)]
		rep.Results = append(rep.Results, StreamerStatus{Streamer: st, Valid: ok})
		if ok {
			rep.Valid++
		} else {
			rep.Invalid++
		}
	}
	return rep, nil
}

// TestCredentials requests a fresh token. A nil creds tests the effective
// credentials.
func (s *DirectoryService) TestCredentials(ctx context.Context, creds *twitch.Credentials) error {
	c := s.Credentials()
	if creds != nil {
		c = *creds
	}
	return s.Platform.ValidateCredentials(ctx, c)
}
