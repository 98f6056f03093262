package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-shoutout-manager/internal/domain"
)

// Persister reads and writes the whole document. Load returns (nil, nil)
// when nothing has been saved yet.
type Persister interface {
	Load(ctx context.Context) (*domain.Document, error)
	Save(ctx context.Context, d *domain.Document) error
}

// Store is the explicitly owned application state. It is safe for
// concurrent use; mutations are serialized and each one is saved before
// the next begins, so the persisted document is always last-write-wins.
type Store struct {
	mu  sync.RWMutex
	doc *domain.Document
	p   Persister

	now   func() time.Time
	newID func() string
	log   zerolog.Logger
}

// Option customizes a Store.
type Option func(*Store)

// WithClock overrides the time source used for history timestamps.
func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

// WithIDGenerator overrides the id generator (uuid v4 by default).
func WithIDGenerator(fn func() string) Option { return func(s *Store) { s.newID = fn } }

// WithLogger sets the logger used to report persistence failures.
func WithLogger(l zerolog.Logger) Option { return func(s *Store) { s.log = l } }

// New wraps an already loaded document. The document is normalized and
// owned by the Store afterwards. A nil Persister keeps state in memory only.
func New(doc *domain.Document, p Persister, opts ...Option) *Store {
	if doc == nil {
		doc = domain.NewDocument()
	}
	domain.Normalize(doc)

	s := &Store{
		doc:   doc,
		p:     p,
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
		log:   log.Logger,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Open loads the document through p and returns a Store around it. A
// missing document yields a fresh default one; any other load error is
// returned so a corrupt file is never silently replaced.
func Open(ctx context.Context, p Persister, opts ...Option) (*Store, error) {
	doc, err := p.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	return New(doc, p, opts...), nil
}

// Snapshot returns a deep copy of the current document.
func (s *Store) Snapshot() *domain.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Clone()
}

// persist saves the current document. Callers must hold s.mu for writing.
// The mutation has already been applied in memory, so the save ignores
// cancellation of ctx and only keeps its values.
func (s *Store) persist(ctx context.Context) error {
	if s.p == nil {
		return nil
	}
	if err := s.p.Save(context.WithoutCancel(ctx), s.doc.Clone()); err != nil {
		persistFailures.Inc()
		s.log.Error().Err(err).Msg("persist document failed; keeping in-memory state")
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}
