package store

import (
	"context"
	"fmt"

	"github.com/tbourn/go-shoutout-manager/internal/domain"
)

// Language returns the active language code.
func (s *Store) Language() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Language
}

// SetLanguage switches the active language. Region variants such as
// "en-US" are reduced to their base code.
func (s *Store) SetLanguage(ctx context.Context, code string) error {
	if !domain.IsSupportedLanguage(code) {
		return fmt.Errorf("%w: %q", ErrUnsupportedLanguage, code)
	}
	code = domain.Language(code).Code

	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Language = code
	return s.persist(ctx)
}

// Settings returns the current settings.
func (s *Store) Settings() domain.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Settings
}

// ReplaceSettings validates and stores next as a whole. Empty theme and
// format fields fall back to their defaults.
func (s *Store) ReplaceSettings(ctx context.Context, next domain.Settings) (domain.Settings, error) {
	next, err := cleanSettings(next)
	if err != nil {
		return domain.Settings{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Settings = next
	return next, s.persist(ctx)
}

// UpdateSettings applies fn to a copy of the current settings and stores the
// result with the same validation as ReplaceSettings. The read, fn and the
// write happen under one lock, so concurrent partial updates do not
// overwrite each other. On a validation error nothing changes.
func (s *Store) UpdateSettings(ctx context.Context, fn func(*domain.Settings)) (domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.doc.Settings
	fn(&next)
	next, err := cleanSettings(next)
	if err != nil {
		return domain.Settings{}, err
	}
	s.doc.Settings = next
	return next, s.persist(ctx)
}

func cleanSettings(next domain.Settings) (domain.Settings, error) {
	if next.Theme == "" {
		next.Theme = domain.DefaultTheme
	}
	if next.DateFormat == "" {
		next.DateFormat = domain.DefaultDateFormat
	}
	if next.TimeFormat == "" {
		next.TimeFormat = domain.DefaultTimeFormat
	}
	if !domain.IsTheme(next.Theme) {
		return domain.Settings{}, fmt.Errorf("%w: theme %q", ErrInvalidSetting, next.Theme)
	}
	if !domain.IsDateFormat(next.DateFormat) {
		return domain.Settings{}, fmt.Errorf("%w: date format %q", ErrInvalidSetting, next.DateFormat)
	}
	if !domain.IsTimeFormat(next.TimeFormat) {
		return domain.Settings{}, fmt.Errorf("%w: time format %q", ErrInvalidSetting, next.TimeFormat)
	}
	if next.CustomColor != "" {
		c, ok := domain.NormalizeHexColor(next.CustomColor)
		if !ok {
			return domain.Settings{}, fmt.Errorf("%w: color %q", ErrInvalidSetting, next.CustomColor)
		}
		next.CustomColor = c
	}
	return next, nil
}
