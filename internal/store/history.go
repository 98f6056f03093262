package store

import (
	"context"

	"github.com/tbourn/go-shoutout-manager/internal/domain"
)

// History returns the entries newest first.
func (s *Store) History() []domain.HistoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.HistoryEntry, len(s.doc.History))
	for i, h := range s.doc.History {
		h.StreamerIDs = append([]string{}, h.StreamerIDs...)
		out[i] = h
	}
	return out
}

// HistoryEntry looks up an entry by id.
func (s *Store) HistoryEntry(id string) (domain.HistoryEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, h := range s.doc.History {
		if h.ID == id {
			h.StreamerIDs = append([]string{}, h.StreamerIDs...)
			return h, true
		}
	}
	return domain.HistoryEntry{}, false
}

// RecordHistory inserts a new entry at the head and drops the oldest ones
// beyond domain.HistoryLimit. streamerIDs is copied.
func (s *Store) RecordHistory(ctx context.Context, templateID string, streamerIDs []string, language string) (domain.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := domain.HistoryEntry{
		ID:          s.newID(),
		Timestamp:   s.now().UnixMilli(),
		TemplateID:  templateID,
		StreamerIDs: append([]string{}, streamerIDs...),
		Language:    language,
	}

	hist := make([]domain.HistoryEntry, 0, len(s.doc.History)+1)
	hist = append(hist, h)
	hist = append(hist, s.doc.History...)
	if len(hist) > domain.HistoryLimit {
		hist = hist[:domain.HistoryLimit]
	}
	s.doc.History = hist

	return h, s.persist(ctx)
}

// ClearHistory removes every entry.
func (s *Store) ClearHistory(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.History = []domain.HistoryEntry{}
	return s.persist(ctx)
}
