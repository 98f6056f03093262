package store

import (
	"context"
	"strings"

	"github.com/tbourn/go-shoutout-manager/internal/domain"
)

// Groups returns all groups in insertion order.
func (s *Store) Groups() []domain.Group {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Group, len(s.doc.Groups))
	for i, g := range s.doc.Groups {
		g.StreamerIDs = append([]string{}, g.StreamerIDs...)
		out[i] = g
	}
	return out
}

// Group looks up a group by id.
func (s *Store) Group(id string) (domain.Group, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.groupIndex(id)
	if i < 0 {
		return domain.Group{}, false
	}
	g := s.doc.Groups[i]
	g.StreamerIDs = append([]string{}, g.StreamerIDs...)
	return g, true
}

func (s *Store) groupIndex(id string) int {
	for i, g := range s.doc.Groups {
		if g.ID == id {
			return i
		}
	}
	return -1
}

// cleanMembers de-duplicates ids and drops the ones not on the roster.
// Callers must hold s.mu.
func (s *Store) cleanMembers(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup || s.streamerIndex(id) < 0 {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// CreateGroup saves a named set of roster ids. Unknown and repeated ids are
// dropped; at least one member must remain.
func (s *Store) CreateGroup(ctx context.Context, name string, streamerIDs []string) (domain.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Group{}, ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	members := s.cleanMembers(streamerIDs)
	if len(members) == 0 {
		return domain.Group{}, ErrEmptyGroup
	}
	g := domain.Group{ID: s.newID(), Name: name, StreamerIDs: members}
	s.doc.Groups = append(s.doc.Groups, g)

	g.StreamerIDs = append([]string{}, members...)
	return g, s.persist(ctx)
}

// UpdateGroup replaces name and members of g.ID. A missing id is a silent
// no-op.
func (s *Store) UpdateGroup(ctx context.Context, g domain.Group) (bool, error) {
	g.Name = strings.TrimSpace(g.Name)
	if g.Name == "" {
		return false, ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.groupIndex(g.ID)
	if i < 0 {
		return false, nil
	}
	members := s.cleanMembers(g.StreamerIDs)
	if len(members) == 0 {
		return false, ErrEmptyGroup
	}
	s.doc.Groups[i] = domain.Group{ID: g.ID, Name: g.Name, StreamerIDs: members}
	return true, s.persist(ctx)
}

// DeleteGroup removes a group; its members are untouched.
func (s *Store) DeleteGroup(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.groupIndex(id)
	if i < 0 {
		return false, nil
	}
	s.doc.Groups = append(s.doc.Groups[:i], s.doc.Groups[i+1:]...)
	return true, s.persist(ctx)
}

// ExpandGroup returns the group's members that are still on the roster, in
// saved order, and how many saved ids were dropped because they dangle.
func (s *Store) ExpandGroup(id string) (members []domain.Streamer, missing int, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.groupIndex(id)
	if i < 0 {
		return nil, 0, false
	}
	members, missing = s.resolve(s.doc.Groups[i].StreamerIDs)
	return members, missing, true
}
