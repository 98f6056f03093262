package store

import (
	"context"
	"strings"

	"github.com/tbourn/go-shoutout-manager/internal/domain"
)

func cleanTemplate(t domain.Template) (domain.Template, error) {
	t.Name = strings.TrimSpace(t.Name)
	t.Command = strings.TrimPrefix(strings.TrimSpace(t.Command), "!")
	t.FirstArg = strings.TrimSpace(t.FirstArg)
	t.Text = strings.TrimSpace(t.Text)
	if t.Name == "" || t.Command == "" || t.Text == "" {
		return t, ErrEmptyField
	}
	return t, nil
}

// Templates returns all templates in insertion order.
func (s *Store) Templates() []domain.Template {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Template{}, s.doc.Templates...)
}

// Template looks up a template by id.
func (s *Store) Template(id string) (domain.Template, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.templateIndex(id)
	if i < 0 {
		return domain.Template{}, false
	}
	return s.doc.Templates[i], true
}

func (s *Store) templateIndex(id string) int {
	for i, t := range s.doc.Templates {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// CreateTemplate appends t under a fresh id. Name, command and text are
// required; a leading "!" on the command is dropped.
func (s *Store) CreateTemplate(ctx context.Context, t domain.Template) (domain.Template, error) {
	t, err := cleanTemplate(t)
	if err != nil {
		return domain.Template{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t.ID = s.newID()
	s.doc.Templates = append(s.doc.Templates, t)
	return t, s.persist(ctx)
}

// UpdateTemplate replaces the template with t.ID. It reports false without
// touching the store when the id no longer exists.
func (s *Store) UpdateTemplate(ctx context.Context, t domain.Template) (bool, error) {
	t, err := cleanTemplate(t)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.templateIndex(t.ID)
	if i < 0 {
		return false, nil
	}
	s.doc.Templates[i] = t
	return true, s.persist(ctx)
}

// DeleteTemplate removes a template. History entries keep the dangling id.
func (s *Store) DeleteTemplate(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.templateIndex(id)
	if i < 0 {
		return false, nil
	}
	s.doc.Templates = append(s.doc.Templates[:i], s.doc.Templates[i+1:]...)
	return true, s.persist(ctx)
}
