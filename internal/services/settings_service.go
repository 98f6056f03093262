package services

import (
	"context"
	"errors"

	"github.com/tbourn/go-shoutout-manager/internal/domain"
	"github.com/tbourn/go-shoutout-manager/internal/store"
)

// SettingsPatch is a partial settings update; nil fields are left as is.
type SettingsPatch struct {
	TwitchClientID     *string `json:"twitchClientId,omitempty"`
	TwitchClientSecret *string `json:"twitchClientSecret,omitempty"`
	Theme              *string `json:"theme,omitempty"`
	CustomColor        *string `json:"customColor,omitempty"`
	SidebarCollapsed   *bool   `json:"sidebarCollapsed,omitempty"`
	DateFormat         *string `json:"dateFormat,omitempty"`
	TimeFormat         *string `json:"timeFormat,omitempty"`
}

// SettingsService reads and updates user preferences and the active
// language.
type SettingsService struct {
	Store *store.Store
}

// NewSettingsService constructs a SettingsService.
func NewSettingsService(st *store.Store) *SettingsService {
	return &SettingsService{Store: st}
}

// Get returns the current settings.
func (s *SettingsService) Get(ctx context.Context) domain.Settings {
	return s.Store.Settings()
}

// Update applies p on top of the current settings. Applying a non-empty
// custom color also switches the theme to "custom". The patch is applied
// atomically, so concurrent updates of different fields all survive.
func (s *SettingsService) Update(ctx context.Context, p SettingsPatch) (domain.Settings, error) {
	return s.Store.UpdateSettings(ctx, p.apply)
}

func (p SettingsPatch) apply(next *domain.Settings) {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&next.TwitchClientID, p.TwitchClientID)
	set(&next.TwitchClientSecret, p.TwitchClientSecret)
	set(&next.Theme, p.Theme)
	set(&next.CustomColor, p.CustomColor)
	set(&next.DateFormat, p.DateFormat)
	set(&next.TimeFormat, p.TimeFormat)
	if p.SidebarCollapsed != nil {
		next.SidebarCollapsed = *p.SidebarCollapsed
	}
	if p.CustomColor != nil && *p.CustomColor != "" {
		next.Theme = domain.ThemeCustom
	}
}

// Language returns the active language configuration.
func (s *SettingsService) Language(ctx context.Context) domain.LanguageConfig {
	return domain.Language(s.Store.Language())
}

// SetLanguage switches the active language.
func (s *SettingsService) SetLanguage(ctx context.Context, code string) (domain.LanguageConfig, error) {
	err := s.Store.SetLanguage(ctx, code)
	if err != nil && !errors.Is(err, store.ErrPersist) {
		return domain.LanguageConfig{}, err
	}
	return domain.Language(s.Store.Language()), err
}

// Languages lists the supported languages.
func (s *SettingsService) Languages(ctx context.Context) []domain.LanguageConfig {
	return domain.Languages()
}
