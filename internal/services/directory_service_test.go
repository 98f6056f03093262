package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tbourn/go-shoutout-manager/internal/domain"
	"github.com/tbourn/go-shoutout-manager/internal/twitch"
)

// fakePlatform fails the first expiredCalls calls with ErrNeedsReauth.
type fakePlatform struct {
	mu           sync.Mutex
	expiredCalls int
	err          error
	calls        int
	lastCreds    twitch.Credentials
	channels     []twitch.Channel
	valid        map[string]bool
}

func (f *fakePlatform) step(creds twitch.Credentials) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastCreds = creds
	if f.expiredCalls > 0 {
		f.expiredCalls--
		return twitch.ErrNeedsReauth
	}
	return f.err
}

func (f *fakePlatform) SearchChannels(_ context.Context, creds twitch.Credentials, _ string) ([]twitch.Channel, error) {
	if err := f.step(creds); err != nil {
		return nil, err
	}
	return f.channels, nil
}

func (f *fakePlatform) ValidateUsernames(_ context.Context, creds twitch.Credentials, _ []string) (map[string]bool, error) {
	if err := f.step(creds); err != nil {
		return nil, err
	}
	return f.valid, nil
}

func (f *fakePlatform) ValidateCredentials(_ context.Context, creds twitch.Credentials) error {
	return f.step(creds)
}

func TestSearch_RetriesOnceAfterReauth(t *testing.T) {
	st := newMemStore(t)
	mustStreamer(t, st, "Alice")
	p := &fakePlatform{
		expiredCalls: 1,
		channels: []twitch.Channel{
			{Login: "alice", DisplayName: "Alice"},
			{Login: "bob", DisplayName: "Bob"},
		},
	}
	svc := NewDirectoryService(st, p, twitch.Credentials{}, 0)

	before := testutil.ToFloat64(platformRetries)
	got, err := svc.Search(context.Background(), "al")
	if err != nil {
		t.Fatal(err)
	}
	if p.calls != 2 {
		t.Fatalf("calls = %d; want 2", p.calls)
	}
	if testutil.ToFloat64(platformRetries)-before != 1 {
		t.Fatal("retry not counted")
	}
	if len(got) != 2 || !got[0].AlreadyAdded || got[1].AlreadyAdded {
		t.Fatalf("results = %+v", got)
	}
}

func TestSearch_SecondExpiryIsSurfaced(t *testing.T) {
	p := &fakePlatform{expiredCalls: 5}
	svc := NewDirectoryService(newMemStore(t), p, twitch.Credentials{}, 0)

	if _, err := svc.Search(context.Background(), "query"); !errors.Is(err, twitch.ErrNeedsReauth) {
		t.Fatalf("err = %v", err)
	}
	if p.calls != 2 {
		t.Fatalf("calls = %d; want exactly one retry", p.calls)
	}
}

func TestSearch_OtherErrorsAreNotRetried(t *testing.T) {
	p := &fakePlatform{err: twitch.ErrRequestFailed}
	svc := NewDirectoryService(newMemStore(t), p, twitch.Credentials{}, 0)

	if _, err := svc.Search(context.Background(), "query"); !errors.Is(err, twitch.ErrRequestFailed) {
		t.Fatalf("err = %v", err)
	}
	if p.calls != 1 {
		t.Fatalf("calls = %d", p.calls)
	}
}

func TestSearch_ShortQuerySkipsPlatform(t *testing.T) {
	p := &fakePlatform{}
	svc := NewDirectoryService(newMemStore(t), p, twitch.Credentials{}, 0)
	got, err := svc.Search(context.Background(), "a")
	if err != nil || len(got) != 0 || p.calls != 0 {
		t.Fatalf("got %v, %v, calls=%d", got, err, p.calls)
	}
}

func TestValidateAll(t *testing.T) {
	st := newMemStore(t)
	mustStreamer(t, st, "Alice")
	mustStreamer(t, st, "ghost")
	p := &fakePlatform{expiredCalls: 1, valid: map[string]bool{"alice": true}}
	svc := NewDirectoryService(st, p, twitch.Credentials{}, 0)

	rep, err := svc.ValidateAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if rep.Valid != 1 || rep.Invalid != 1 || !rep.Results[0].Valid || rep.Results[1].Valid {
		t.Fatalf("report = %+v", rep)
	}

	empty := NewDirectoryService(newMemStore(t), &fakePlatform{}, twitch.Credentials{}, 0)
	if rep, err := empty.ValidateAll(context.Background()); err != nil || len(rep.Results) != 0 {
		t.Fatalf("empty roster = %+v, %v", rep, err)
	}
}

func TestCredentials_OverrideAndTest(t *testing.T) {
	ctx := context.Background()
	st := newMemStore(t)
	_, _ = st.ReplaceSettings(ctx, domain.Settings{TwitchClientID: "stored-id", TwitchClientSecret: "stored-secret"})
	p := &fakePlatform{}
	svc := NewDirectoryService(st, p, twitch.Credentials{ClientSecret: "env-secret"}, 0)

	want := twitch.Credentials{ClientID: "stored-id", ClientSecret: "env-secret"}
	if got := svc.Credentials(); got != want {
		t.Fatalf("Credentials = %+v", got)
	}

	if err := svc.TestCredentials(ctx, nil); err != nil || p.lastCreds != want {
		t.Fatalf("TestCredentials(nil) used %+v, %v", p.lastCreds, err)
	}
	explicit := twitch.Credentials{ClientID: "x", ClientSecret: "y"}
	if err := svc.TestCredentials(ctx, &explicit); err != nil || p.lastCreds != explicit {
		t.Fatalf("TestCredentials(explicit) used %+v", p.lastCreds)
	}
}
