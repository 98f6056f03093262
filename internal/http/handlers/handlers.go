package handlers

import (
	"context"

	"github.com/tbourn/go-shoutout-manager/internal/domain"
	"github.com/tbourn/go-shoutout-manager/internal/search"
	"github.com/tbourn/go-shoutout-manager/internal/services"
	"github.com/tbourn/go-shoutout-manager/internal/shoutout"
	"github.com/tbourn/go-shoutout-manager/internal/twitch"
)

//
// Service contracts (context-aware)
//

// TemplateService manages the template catalog.
type TemplateService interface {
	ListTemplates(ctx context.Context) []domain.Template
	CreateTemplate(ctx context.Context, t domain.Template) (domain.Template, error)
	// UpdateTemplate reports false when no template has t.ID.
	UpdateTemplate(ctx context.Context, t domain.Template) (bool, error)
	DeleteTemplate(ctx context.Context, id string) (bool, error)
	PreviewTemplate(ctx context.Context, id string) (string, error)
}

// StreamerService manages the streamer roster and local name suggestions.
type StreamerService interface {
	ListStreamers(ctx context.Context) []domain.Streamer
	AddStreamer(ctx context.Context, name string) (domain.Streamer, error)
	RenameStreamer(ctx context.Context, id, name string) (bool, error)
	DeleteStreamer(ctx context.Context, id string) (bool, error)
	Suggest(ctx context.Context, query string) []search.Result
}

// GroupService manages named streamer groups.
type GroupService interface {
	// ListGroups filters members deleted from the roster out of each group.
	ListGroups(ctx context.Context) []services.GroupView
	CreateGroup(ctx context.Context, name string, streamerIDs []string) (domain.Group, error)
	UpdateGroup(ctx context.Context, g domain.Group) (bool, error)
	DeleteGroup(ctx context.Context, id string) (bool, error)
	GroupMembers(ctx context.Context, id string) (services.GroupMembers, error)
}

// GeneratorService owns the selection and produces shoutout commands.
type GeneratorService interface {
	State(ctx context.Context) services.SelectionState
	SetTemplate(ctx context.Context, id string) error
	Toggle(ctx context.Context, streamerID string) (bool, error)
	SelectGroup(ctx context.Context, groupID string) (int, error)
	ReplaceSelection(ctx context.Context, ids []string) services.SelectionState
	ClearSelection(ctx context.Context)
	// Generate may return a non-nil result together with a store.ErrPersist
	// error when history could not be saved.
	Generate(ctx context.Context, templateID string) (*services.Generated, error)
	Copy(ctx context.Context, text string) error
}

// HistoryService lists and replays generation history.
type HistoryService interface {
	List(ctx context.Context, page, pageSize int) services.HistoryPage
	Command(ctx context.Context, id string) (shoutout.Result, error)
	Reuse(ctx context.Context, id string) (services.Reused, error)
	Clear(ctx context.Context) error
}

// DirectoryService talks to the streaming platform.
type DirectoryService interface {
	Search(ctx context.Context, query string) ([]services.SearchResult, error)
	ValidateAll(ctx context.Context) (services.ValidationReport, error)
	TestCredentials(ctx context.Context, creds *twitch.Credentials) error
}

// SettingsService reads and writes preferences and the active language.
type SettingsService interface {
	Get(ctx context.Context) domain.Settings
	Update(ctx context.Context, p services.SettingsPatch) (domain.Settings, error)
	Language(ctx context.Context) domain.LanguageConfig
	SetLanguage(ctx context.Context, code string) (domain.LanguageConfig, error)
	Languages(ctx context.Context) []domain.LanguageConfig
}

//
// Handler wiring
//

// Services bundles the dependencies of Handlers.
type Services struct {
	Templates TemplateService
	Streamers StreamerService
	Groups    GroupService
	Generator GeneratorService
	History   HistoryService
	Directory DirectoryService
	Settings  SettingsService
}

// Handlers groups the REST endpoints. It depends only on the service
// contracts above.
type Handlers struct {
	tplSvc  TemplateService
	strSvc  StreamerService
	grpSvc  GroupService
	genSvc  GeneratorService
	histSvc HistoryService
	dirSvc  DirectoryService
	setSvc  SettingsService
}

// New constructs Handlers bound to s.
func New(s Services) *Handlers {
	return &Handlers{
		tplSvc:  s.Templates,
		strSvc:  s.Streamers,
		grpSvc:  s.Groups,
		genSvc:  s.Generator,
		histSvc: s.History,
		dirSvc:  s.Directory,
		setSvc:  s.Settings,
	}
}

//
// Shared DTOs
//

// UpdatedResponse reports whether an update found its target. Updating an
// unknown id is a no-op, not an error.
type UpdatedResponse struct {
	Updated bool `json:"updated" example:"true"`
}
