package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tbourn/go-shoutout-manager/internal/domain"
	"github.com/tbourn/go-shoutout-manager/internal/store"
)

// ----- Fakes & fixtures -----

// failingPersister fails every save after the first n.
type failingPersister struct {
	ok int
}

func (p *failingPersister) Load(context.Context) (*domain.Document, error) { return nil, nil }

func (p *failingPersister) Save(context.Context, *domain.Document) error {
	if p.ok > 0 {
		p.ok--
		return nil
	}
	return fmt.Errorf("disk full")
}

func newMemStore(t *testing.T) *store.Store {
	t.Helper()
	n := 0
	return store.New(nil, nil,
		store.WithLogger(zerolog.Nop()),
		store.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id%d", n)
		}),
	)
}

func mustStreamer(t *testing.T, st *store.Store, name string) domain.Streamer {
	t.Helper()
	s, err := st.CreateStreamer(context.Background(), name)
	if err != nil {
		t.Fatalf("CreateStreamer(%q): %v", name, err)
	}
	return s
}

func mustTemplate(t *testing.T, st *store.Store, text string) domain.Template {
	t.Helper()
	tpl, err := st.CreateTemplate(context.Background(), domain.Template{Name: "SO", Command: "so", Text: text})
	if err != nil {
		t.Fatalf("CreateTemplate: %v", err)
	}
	return tpl
}
