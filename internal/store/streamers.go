package store

import (
	"context"
	"strings"

	"golang.org/x/text/cases"

	"github.com/tbourn/go-shoutout-manager/internal/domain"
)

// CleanName trims whitespace and a leading "@" from a platform username.
func CleanName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.TrimPrefix(name, "@")
	return strings.TrimSpace(name)
}

// Streamers returns the roster in insertion order.
func (s *Store) Streamers() []domain.Streamer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Streamer{}, s.doc.Streamers...)
}

// Streamer looks up a roster entry by id.
func (s *Store) Streamer(id string) (domain.Streamer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.streamerIndex(id)
	if i < 0 {
		return domain.Streamer{}, false
	}
	return s.doc.Streamers[i], true
}

// StreamerByName finds a roster entry by case-insensitive name.
func (s *Store) StreamerByName(name string) (domain.Streamer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.nameIndex(CleanName(name), "")
	if i < 0 {
		return domain.Streamer{}, false
	}
	return s.doc.Streamers[i], true
}

func (s *Store) streamerIndex(id string) int {
	for i, st := range s.doc.Streamers {
		if st.ID == id {
			return i
		}
	}
	return -1
}

// nameIndex returns the index of a streamer other than exceptID whose name
// folds to the same value as name.
func (s *Store) nameIndex(name, exceptID string) int {
	fold := cases.Fold()
	key := fold.String(name)
	for i, st := range s.doc.Streamers {
		if st.ID != exceptID && fold.String(st.Name) == key {
			return i
		}
	}
	return -1
}

// CreateStreamer adds name to the roster. Duplicates are rejected and leave
// the roster unchanged.
func (s *Store) CreateStreamer(ctx context.Context, name string) (domain.Streamer, error) {
	name = CleanName(name)
	if name == "" {
		return domain.Streamer{}, ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.nameIndex(name, "") >= 0 {
		return domain.Streamer{}, ErrDuplicateStreamer
	}
	st := domain.Streamer{ID: s.newID(), Name: name}
	s.doc.Streamers = append(s.doc.Streamers, st)
	return st, s.persist(ctx)
}

// RenameStreamer changes a roster name. Renaming to a name held by another
// entry is rejected; a missing id is a silent no-op.
func (s *Store) RenameStreamer(ctx context.Context, id, name string) (bool, error) {
	name = CleanName(name)
	if name == "" {
		return false, ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.streamerIndex(id)
	if i < 0 {
		return false, nil
	}
	if s.nameIndex(name, id) >= 0 {
		return false, ErrDuplicateStreamer
	}
	s.doc.Streamers[i].Name = name
	return true, s.persist(ctx)
}

// DeleteStreamer removes a roster entry. Groups and history keep the id.
func (s *Store) DeleteStreamer(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.streamerIndex(id)
	if i < 0 {
		return false, nil
	}
	s.doc.Streamers = append(s.doc.Streamers[:i], s.doc.Streamers[i+1:]...)
	return true, s.persist(ctx)
}

// ResolveStreamers maps ids to roster entries in the given order. Ids that
// no longer exist are skipped and counted in missing.
func (s *Store) ResolveStreamers(ids []string) (found []domain.Streamer, missing int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolve(ids)
}

func (s *Store) resolve(ids []string) ([]domain.Streamer, int) {
	found := make([]domain.Streamer, 0, len(ids))
	missing := 0
	for _, id := range ids {
		if i := s.streamerIndex(id); i >= 0 {
			found = append(found, s.doc.Streamers[i])
		} else {
			missing++
		}
	}
	return found, missing
}
