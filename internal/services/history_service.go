package services

import (
	"context"

	"github.com/tbourn/go-shoutout-manager/internal/domain"
	"github.com/tbourn/go-shoutout-manager/internal/shoutout"
	"github.com/tbourn/go-shoutout-manager/internal/store"
	"github.com/tbourn/go-shoutout-manager/internal/utils"
)

// Placeholders shown for history entries whose template was deleted.
const (
	DeletedTemplateName    = "(deleted template)"
	DeletedTemplateCommand = "(template deleted)"
)

// HistoryRow is a history entry resolved against the current catalog for
// display.
type HistoryRow struct {
	ID              string   `json:"id"`
	Timestamp       int64    `json:"timestamp"`
	When            string   `json:"when"`
	TemplateID      string   `json:"templateId"`
	TemplateName    string   `json:"templateName"`
	TemplateDeleted bool     `json:"templateDeleted"`
	Command         string   `json:"command"`
	Language        string   `json:"language"`
	Streamers       []string `json:"streamers"`
	Removed         int      `json:"removed"`
}

// HistoryPage is one page of history rows, newest first.
type HistoryPage struct {
	Rows     []HistoryRow `json:"rows"`
	Total    int          `json:"total"`
	Page     int          `json:"page"`
	PageSize int          `json:"pageSize"`
}

// Reused describes the generator state seeded by replaying an entry.
type Reused struct {
	TemplateID string   `json:"templateId"`
	Language   string   `json:"language"`
	Selected   []string `json:"selected"`
	Missing    int      `json:"missing"`
}

// HistoryService lists, replays and clears generation history. Replaying
// never modifies the history collection.
type HistoryService struct {
	Store   *store.Store
	Session *Session
}

// NewHistoryService constructs a HistoryService.
func NewHistoryService(st *store.Store, sess *Session) *HistoryService {
	return &HistoryService{Store: st, Session: sess}
}

// List returns a page of history rows. Page numbers start at 1.
func (s *HistoryService) List(ctx context.Context, page, pageSize int) HistoryPage {
	entries := s.Store.History()
	settings := s.Store.Settings()

	page, pageSize = utils.NormalizePage(page, pageSize, domain.HistoryLimit)
	start, end := utils.PageBounds(len(entries), page, pageSize)

	rows := make([]HistoryRow, 0, end-start)
	for _, h := range entries[start:end] {
		rows = append(rows, s.row(h, settings))
	}
	return HistoryPage{Rows: rows, Total: len(entries), Page: page, PageSize: pageSize}
}

func (s *HistoryService) row(h domain.HistoryEntry, settings domain.Settings) HistoryRow {
	found, missing := s.Store.ResolveStreamers(h.StreamerIDs)
	names := make([]string, len(found))
	for i, st := range found {
		names[i] = st.Name
	}

	r := HistoryRow{
		ID:         h.ID,
		Timestamp:  h.Timestamp,
		When:       domain.FormatDateTime(h.Time(), settings.DateFormat, settings.TimeFormat),
		TemplateID: h.TemplateID,
		Language:   h.Language,
		Streamers:  names,
		Removed:    missing,
	}
	if tpl, ok := s.Store.Template(h.TemplateID); ok {
		r.TemplateName = tpl.Name
		r.Command = shoutout.Build(tpl, shoutout.Mentions(found), domain.Language(h.Language)).Command
	} else {
		r.TemplateName = DeletedTemplateName
		r.Command = DeletedTemplateCommand
		r.TemplateDeleted = true
	}
	return r
}

// Command rebuilds an entry's command from its frozen template id,
// streamer ids and language, using current names.
func (s *HistoryService) Command(ctx context.Context, id string) (shoutout.Result, error) {
	h, ok := s.Store.HistoryEntry(id)
	if !ok {
		return shoutout.Result{}, ErrHistoryNotFound
	}
	tpl, ok := s.Store.Template(h.TemplateID)
	if !ok {
		return shoutout.Result{}, ErrTemplateDeleted
	}
	found, _ := s.Store.ResolveStreamers(h.StreamerIDs)
	return shoutout.Build(tpl, shoutout.Mentions(found), domain.Language(h.Language)), nil
}

// Reuse seeds the session from an entry: the template becomes active if it
// still exists, the entry's language becomes active, and the selection is
// replaced by the entry's surviving streamers. A failed save of the
// language switch is returned alongside the seeded state.
func (s *HistoryService) Reuse(ctx context.Context, id string) (Reused, error) {
	h, ok := s.Store.HistoryEntry(id)
	if !ok {
		return Reused{}, ErrHistoryNotFound
	}

	var persistErr error
	if domain.IsSupportedLanguage(h.Language) {
		persistErr = s.Store.SetLanguage(ctx, h.Language)
	}
	out := Reused{Language: s.Store.Language()}
	if _, ok := s.Store.Template(h.TemplateID); ok {
		s.Session.SetTemplate(h.TemplateID)
		out.TemplateID = h.TemplateID
	}

	found, missing := s.Store.ResolveStreamers(h.StreamerIDs)
	out.Selected = make([]string, len(found))
	for i, st := range found {
		out.Selected[i] = st.ID
	}
	out.Missing = missing
	s.Session.Replace(out.Selected)
	return out, persistErr
}

// Clear removes all history entries.
func (s *HistoryService) Clear(ctx context.Context) error {
	return s.Store.ClearHistory(ctx)
}
