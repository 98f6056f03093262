package services

import (
	"context"

	"github.com/tbourn/go-shoutout-manager/internal/domain"
	"github.com/tbourn/go-shoutout-manager/internal/search"
	"github.com/tbourn/go-shoutout-manager/internal/shoutout"
	"github.com/tbourn/go-shoutout-manager/internal/store"
)

// GroupMembers is a group expanded against the current roster.
type GroupMembers struct {
	Group   domain.Group      `json:"group"`
	Members []domain.Streamer `json:"members"`
	Missing int               `json:"missing"`
}

// GroupView is a group as listed: StreamerIDs holds only members still on
// the roster and Missing counts the ones that were deleted.
type GroupView struct {
	domain.Group
	Missing int `json:"missing"`
}

// CatalogService manages templates, the streamer roster and groups, and
// keeps the session consistent when entries disappear.
type CatalogService struct {
	Store   *store.Store
	Session *Session

	// SuggestLimit caps Suggest results.
	SuggestLimit int
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(st *store.Store, sess *Session) *CatalogService {
	return &CatalogService{Store: st, Session: sess, SuggestLimit: 5}
}

// ---- templates ----

// ListTemplates returns all templates in creation order.
func (s *CatalogService) ListTemplates(ctx context.Context) []domain.Template {
	return s.Store.Templates()
}

// CreateTemplate validates t and stores it under a fresh id. Name, command
// and text are required; a leading "!" on the command is dropped.
func (s *CatalogService) CreateTemplate(ctx context.Context, t domain.Template) (domain.Template, error) {
	return s.Store.CreateTemplate(ctx, t)
}

// UpdateTemplate reports false when the template no longer exists.
func (s *CatalogService) UpdateTemplate(ctx context.Context, t domain.Template) (bool, error) {
	return s.Store.UpdateTemplate(ctx, t)
}

// DeleteTemplate also clears it as the active template.
func (s *CatalogService) DeleteTemplate(ctx context.Context, id string) (bool, error) {
	ok, err := s.Store.DeleteTemplate(ctx, id)
	if ok && s.Session.Template() == id {
		s.Session.SetTemplate("")
	}
	return ok, err
}

// PreviewTemplate renders the command structure with the placeholder kept.
func (s *CatalogService) PreviewTemplate(ctx context.Context, id string) (string, error) {
	t, ok := s.Store.Template(id)
	if !ok {
		return "", ErrTemplateNotFound
	}
	return shoutout.Preview(t), nil
}

// ---- streamers ----

// ListStreamers returns the roster in insertion order.
func (s *CatalogService) ListStreamers(ctx context.Context) []domain.Streamer {
	return s.Store.Streamers()
}

// AddStreamer adds name to the roster after trimming it and stripping a
// leading "@". Names already on the roster, compared case-insensitively,
// are rejected with store.ErrDuplicateStreamer.
func (s *CatalogService) AddStreamer(ctx context.Context, name string) (domain.Streamer, error) {
	return s.Store.CreateStreamer(ctx, name)
}

// RenameStreamer renames a roster entry. It reports false when the id is
// unknown and rejects a name held by a different streamer.
func (s *CatalogService) RenameStreamer(ctx context.Context, id, name string) (bool, error) {
	return s.Store.RenameStreamer(ctx, id, name)
}

// DeleteStreamer removes the roster entry and deselects it. Groups and
// history keep the id.
func (s *CatalogService) DeleteStreamer(ctx context.Context, id string) (bool, error) {
	ok, err := s.Store.DeleteStreamer(ctx, id)
	if ok {
		s.Session.Remove(id)
	}
	return ok, err
}

// Suggest returns roster names close to query, to catch typos before a
// near-duplicate gets added.
func (s *CatalogService) Suggest(ctx context.Context, query string) []search.Result {
	streamers := s.Store.Streamers()
	names := make([]string, len(streamers))
	for i, st := range streamers {
		names[i] = st.Name
	}
	return search.NewIndex(names).TopK(store.CleanName(query), s.SuggestLimit)
}

// ---- groups ----

// ListGroups returns every group with members deleted from the roster
// filtered out of StreamerIDs and counted in Missing.
func (s *CatalogService) ListGroups(ctx context.Context) []GroupView {
	groups := s.Store.Groups()
	out := make([]GroupView, len(groups))
	for i, g := range groups {
		members, missing, _ := s.Store.ExpandGroup(g.ID)
		ids := make([]string, len(members))
		for j, m := range members {
			ids[j] = m.ID
		}
		g.StreamerIDs = ids
		out[i] = GroupView{Group: g, Missing: missing}
	}
	return out
}

// CreateGroup stores a named group of roster ids. Unknown and repeated ids
// are dropped; a group left without members is rejected.
func (s *CatalogService) CreateGroup(ctx context.Context, name string, ids []string) (domain.Group, error) {
	return s.Store.CreateGroup(ctx, name, ids)
}

// UpdateGroup replaces name and members of an existing group with the same
// rules as CreateGroup. It reports false when the id is unknown.
func (s *CatalogService) UpdateGroup(ctx context.Context, g domain.Group) (bool, error) {
	return s.Store.UpdateGroup(ctx, g)
}

// DeleteGroup removes a group. Its members stay on the roster.
func (s *CatalogService) DeleteGroup(ctx context.Context, id string) (bool, error) {
	return s.Store.DeleteGroup(ctx, id)
}

// GroupMembers expands a group, skipping members deleted from the roster.
func (s *CatalogService) GroupMembers(ctx context.Context, id string) (GroupMembers, error) {
	g, ok := s.Store.Group(id)
	if !ok {
		return GroupMembers{}, ErrGroupNotFound
	}
	members, missing, _ := s.Store.ExpandGroup(id)
	return GroupMembers{Group: g, Members: members, Missing: missing}, nil
}
