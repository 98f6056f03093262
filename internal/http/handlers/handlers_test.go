package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/tbourn/go-shoutout-manager/internal/clipboard"
	"github.com/tbourn/go-shoutout-manager/internal/domain"
	"github.com/tbourn/go-shoutout-manager/internal/services"
	"github.com/tbourn/go-shoutout-manager/internal/store"
	"github.com/tbourn/go-shoutout-manager/internal/twitch"
)

// ---------- fakes ----------

type fakePlatform struct {
	mu       sync.Mutex
	channels []twitch.Channel
	valid    map[string]bool
	err      error
	tested   []twitch.Credentials
}

func (p *fakePlatform) SearchChannels(_ context.Context, _ twitch.Credentials, _ string) ([]twitch.Channel, error) {
	return p.channels, p.err
}

func (p *fakePlatform) ValidateUsernames(_ context.Context, _ twitch.Credentials, _ []string) (map[string]bool, error) {
	return p.valid, p.err
}

func (p *fakePlatform) ValidateCredentials(_ context.Context, c twitch.Credentials) error {
	p.mu.Lock()
	p.tested = append(p.tested, c)
	p.mu.Unlock()
	if !c.Valid() {
		return twitch.ErrNotConfigured
	}
	return p.err
}

// brokenDisk accepts nothing.
type brokenDisk struct{}

func (brokenDisk) Load(context.Context) (*domain.Document, error) { return nil, nil }
func (brokenDisk) Save(context.Context, *domain.Document) error   { return fmt.Errorf("disk full") }

// ---------- harness ----------

type testAPI struct {
	r        *gin.Engine
	store    *store.Store
	clip     *clipboard.Memory
	platform *fakePlatform
}

func newTestAPI(t *testing.T, p store.Persister) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	n := 0
	st := store.New(nil, p,
		store.WithLogger(zerolog.Nop()),
		store.WithIDGenerator(func() string { n++; return fmt.Sprintf("id%d", n) }),
	)
	sess := services.NewSession()
	clip := &clipboard.Memory{}
	plat := &fakePlatform{}

	catalog := services.NewCatalogService(st, sess)
	h := New(Services{
		Templates: catalog,
		Streamers: catalog,
		Groups:    catalog,
		Generator: services.NewGeneratorService(st, sess, clip),
		History:   services.NewHistoryService(st, sess),
		Directory: services.NewDirectoryService(st, plat, twitch.Credentials{}, 0),
		Settings:  services.NewSettingsService(st),
	})

	r := gin.New()
	r.GET("/templates", h.ListTemplates)
	r.POST("/templates", h.CreateTemplate)
	r.PUT("/templates/:id", h.UpdateTemplate)
	r.DELETE("/templates/:id", h.DeleteTemplate)
	r.GET("/templates/:id/preview", h.PreviewTemplate)
	r.GET("/streamers", h.ListStreamers)
	r.POST("/streamers", h.AddStreamer)
	r.PUT("/streamers/:id", h.RenameStreamer)
	r.DELETE("/streamers/:id", h.DeleteStreamer)
	r.GET("/streamers/suggest", h.SuggestStreamers)
	r.GET("/streamers/search", h.SearchChannels)
	r.POST("/streamers/validate", h.ValidateStreamers)
	r.GET("/groups", h.ListGroups)
	r.POST("/groups", h.CreateGroup)
	r.PUT("/groups/:id", h.UpdateGroup)
	r.DELETE("/groups/:id", h.DeleteGroup)
	r.GET("/groups/:id/members", h.GroupMembers)
	r.GET("/selection", h.GetSelection)
	r.PUT("/selection", h.ReplaceSelection)
	r.DELETE("/selection", h.ClearSelection)
	r.POST("/selection/toggle/:id", h.ToggleStreamer)
	r.POST("/selection/group/:id", h.SelectGroup)
	r.POST("/generate", h.Generate)
	r.POST("/clipboard", h.CopyText)
	r.GET("/history", h.ListHistory)
	r.DELETE("/history", h.ClearHistory)
	r.POST("/history/:id/reuse", h.ReuseHistory)
	r.POST("/history/:id/copy", h.CopyHistory)
	r.GET("/settings", h.GetSettings)
	r.PUT("/settings", h.UpdateSettings)
	r.GET("/language", h.GetLanguage)
	r.PUT("/language", h.SetLanguage)
	r.POST("/settings/twitch/test", h.TestTwitch)

	return &testAPI{r: r, store: st, clip: clip, platform: plat}
}

func (a *testAPI) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rdr *bytes.Reader
	switch b := body.(type) {
	case nil:
		rdr = bytes.NewReader(nil)
	case string:
		rdr = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	a.r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %T from %q: %v", v, w.Body.String(), err)
	}
	return v
}

func expectError(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if w.Code != status {
		t.Fatalf("status = %d; want %d (%s)", w.Code, status, w.Body.String())
	}
	if er := decode[ErrorResponse](t, w); er.Code != code {
		t.Fatalf("code = %q; want %q", er.Code, code)
	}
}

func (a *testAPI) seed(t *testing.T, names ...string) (tpl domain.Template, streamers []domain.Streamer) {
	t.Helper()
	w := a.do(t, http.MethodPost, "/templates", TemplateRequest{Name: "SO", Command: "!so", Text: "Go follow {streamer}!"})
	if w.Code != http.StatusCreated {
		t.Fatalf("seed template: %d %s", w.Code, w.Body.String())
	}
	tpl = decode[domain.Template](t, w)
	for _, n := range names {
		w := a.do(t, http.MethodPost, "/streamers", StreamerRequest{Name: n})
		if w.Code != http.StatusCreated {
			t.Fatalf("seed streamer %q: %d %s", n, w.Code, w.Body.String())
		}
		streamers = append(streamers, decode[domain.Streamer](t, w))
	}
	return tpl, streamers
}

// ---------- templates ----------

func TestTemplates_CRUDAndPreview(t *testing.T) {
	a := newTestAPI(t, nil)

	tpl, _ := a.seed(t)
	if tpl.Command != "so" {
		t.Fatalf("leading ! not stripped: %+v", tpl)
	}

	expectError(t, a.do(t, http.MethodPost, "/templates", TemplateRequest{Name: "x", Command: "so"}), http.StatusBadRequest, ErrCodeValidation)
	expectError(t, a.do(t, http.MethodPost, "/templates", "{not json"), http.StatusBadRequest, ErrCodeBadRequest)

	w := a.do(t, http.MethodPut, "/templates/"+tpl.ID, TemplateRequest{Name: "Raid", Command: "so", FirstArg: "raid", Text: "Hi {STREAMER}"})
	if w.Code != http.StatusOK || !decode[UpdatedResponse](t, w).Updated {
		t.Fatalf("update: %d %s", w.Code, w.Body.String())
	}
	w = a.do(t, http.MethodPut, "/templates/nope", TemplateRequest{Name: "Raid", Command: "so", Text: "x"})
	if w.Code != http.StatusOK || decode[UpdatedResponse](t, w).Updated {
		t.Fatalf("update unknown id: %d %s", w.Code, w.Body.String())
	}

	w = a.do(t, http.MethodGet, "/templates/"+tpl.ID+"/preview", nil)
	if got := decode[PreviewResponse](t, w).Preview; got != "!so raid Hi {streamer}" {
		t.Fatalf("preview = %q", got)
	}

	if w := a.do(t, http.MethodDelete, "/templates/"+tpl.ID, nil); w.Code != http.StatusNoContent {
		t.Fatalf("delete: %d", w.Code)
	}
	if w := a.do(t, http.MethodDelete, "/templates/"+tpl.ID, nil); w.Code != http.StatusNoContent {
		t.Fatalf("delete twice: %d", w.Code)
	}
	expectError(t, a.do(t, http.MethodGet, "/templates/"+tpl.ID+"/preview", nil), http.StatusNotFound, ErrCodeNotFound)
	if got := decode[[]domain.Template](t, a.do(t, http.MethodGet, "/templates", nil)); len(got) != 0 {
		t.Fatalf("templates left: %+v", got)
	}
}

// ---------- streamers ----------

func TestStreamers_AddRenameDeleteSuggest(t *testing.T) {
	a := newTestAPI(t, nil)
	_, ss := a.seed(t, "@alice", "bob")

	if ss[0].Name != "alice" {
		t.Fatalf("@ not stripped: %+v", ss[0])
	}
	expectError(t, a.do(t, http.MethodPost, "/streamers", StreamerRequest{Name: "ALICE"}), http.StatusConflict, ErrCodeDuplicateStreamer)
	expectError(t, a.do(t, http.MethodPost, "/streamers", StreamerRequest{Name: "  @ "}), http.StatusBadRequest, ErrCodeValidation)
	expectError(t, a.do(t, http.MethodPut, "/streamers/"+ss[1].ID, StreamerRequest{Name: "Alice"}), http.StatusConflict, ErrCodeDuplicateStreamer)

	w := a.do(t, http.MethodPut, "/streamers/"+ss[0].ID, StreamerRequest{Name: "Alice"})
	if !decode[UpdatedResponse](t, w).Updated {
		t.Fatalf("self case change rejected: %s", w.Body.String())
	}

	w = a.do(t, http.MethodGet, "/streamers/suggest?q=alcie", nil)
	if !strings.Contains(w.Body.String(), `"Alice"`) {
		t.Fatalf("suggest: %s", w.Body.String())
	}

	if w := a.do(t, http.MethodDelete, "/streamers/"+ss[1].ID, nil); w.Code != http.StatusNoContent {
		t.Fatalf("delete: %d", w.Code)
	}
	if got := decode[[]domain.Streamer](t, a.do(t, http.MethodGet, "/streamers", nil)); len(got) != 1 || got[0].Name != "Alice" {
		t.Fatalf("roster = %+v", got)
	}
}

func TestStreamers_SearchAndValidate(t *testing.T) {
	a := newTestAPI(t, nil)
	_, _ = a.seed(t, "alice", "ghost")
	a.platform.channels = []twitch.Channel{
		{ID: "1", Login: "alice", DisplayName: "Alice"},
		{ID: "2", Login: "alicia", DisplayName: "Alicia", IsLive: true},
	}
	a.platform.valid = map[string]bool{"alice": true}

	w := a.do(t, http.MethodGet, "/streamers/search?q=ali", nil)
	res := decode[[]services.SearchResult](t, w)
	if len(res) != 2 || !res[0].AlreadyAdded || res[1].AlreadyAdded {
		t.Fatalf("search = %+v", res)
	}

	if got := a.do(t, http.MethodGet, "/streamers/search?q=a", nil).Body.String(); strings.TrimSpace(got) != "[]" {
		t.Fatalf("short query = %s", got)
	}

	rep := decode[services.ValidationReport](t, a.do(t, http.MethodPost, "/streamers/validate", nil))
	if rep.Valid != 1 || rep.Invalid != 1 {
		t.Fatalf("report = %+v", rep)
	}

	a.platform.err = fmt.Errorf("%w: 500 Internal Server Error", twitch.ErrRequestFailed)
	expectError(t, a.do(t, http.MethodGet, "/streamers/search?q=alice", nil), http.StatusBadGateway, ErrCodePlatformError)
	expectError(t, a.do(t, http.MethodPost, "/streamers/validate", nil), http.StatusBadGateway, ErrCodePlatformError)
}

// ---------- groups ----------

func TestGroups_CRUDMembersAndSelect(t *testing.T) {
	a := newTestAPI(t, nil)
	_, ss := a.seed(t, "alice", "bob", "carol")

	expectError(t, a.do(t, http.MethodPost, "/groups", GroupRequest{Name: "crew", StreamerIDs: []string{"ghost"}}), http.StatusBadRequest, ErrCodeValidation)

	w := a.do(t, http.MethodPost, "/groups", GroupRequest{Name: "crew", StreamerIDs: []string{ss[1].ID, ss[2].ID, ss[1].ID}})
	if w.Code != http.StatusCreated {
		t.Fatalf("create group: %d %s", w.Code, w.Body.String())
	}
	g := decode[domain.Group](t, w)
	if len(g.StreamerIDs) != 2 {
		t.Fatalf("duplicates kept: %+v", g)
	}

	a.do(t, http.MethodPut, "/selection", SelectionRequest{StreamerIDs: []string{ss[2].ID, ss[0].ID}})
	sg := decode[SelectGroupResponse](t, a.do(t, http.MethodPost, "/selection/group/"+g.ID, nil))
	if sg.Added != 1 || sg.State.Count != 3 {
		t.Fatalf("select group = %+v", sg)
	}
	order := []string{sg.State.Streamers[0].Name, sg.State.Streamers[1].Name, sg.State.Streamers[2].Name}
	if strings.Join(order, ",") != "carol,alice,bob" {
		t.Fatalf("selection order = %v", order)
	}
	expectError(t, a.do(t, http.MethodPost, "/selection/group/nope", nil), http.StatusNotFound, ErrCodeNotFound)

	a.do(t, http.MethodDelete, "/streamers/"+ss[2].ID, nil)
	m := decode[services.GroupMembers](t, a.do(t, http.MethodGet, "/groups/"+g.ID+"/members", nil))
	if len(m.Members) != 1 || m.Missing != 1 {
		t.Fatalf("members = %+v", m)
	}

	list := decode[[]services.GroupView](t, a.do(t, http.MethodGet, "/groups", nil))
	if len(list) != 1 || list[0].Missing != 1 || !reflect.DeepEqual(list[0].StreamerIDs, []string{ss[1].ID}) {
		t.Fatalf("group list = %+v", list)
	}

	if !decode[UpdatedResponse](t, a.do(t, http.MethodPut, "/groups/"+g.ID, GroupRequest{Name: "solo", StreamerIDs: []string{ss[0].ID}})).Updated {
		t.Fatalf("update group failed")
	}
	if w := a.do(t, http.MethodDelete, "/groups/"+g.ID, nil); w.Code != http.StatusNoContent {
		t.Fatalf("delete group: %d", w.Code)
	}
	expectError(t, a.do(t, http.MethodGet, "/groups/"+g.ID+"/members", nil), http.StatusNotFound, ErrCodeNotFound)
}

// ---------- selection + generate ----------

func TestGenerate_FullFlowInEnglish(t *testing.T) {
	a := newTestAPI(t, nil)
	tpl, ss := a.seed(t, "alice", "bob", "carol")

	lr := decode[LanguageResponse](t, a.do(t, http.MethodPut, "/language", LanguageRequest{Code: "en"}))
	if lr.Active.Code != "en" || len(lr.Supported) != 2 {
		t.Fatalf("language = %+v", lr)
	}

	st := decode[services.SelectionState](t, a.do(t, http.MethodPut, "/selection", SelectionRequest{
		StreamerIDs: []string{ss[0].ID, ss[1].ID, ss[2].ID, "ghost"},
		TemplateID:  tpl.ID,
	}))
	if st.Count != 3 || st.TemplateID != tpl.ID {
		t.Fatalf("selection = %+v", st)
	}

	w := a.do(t, http.MethodPost, "/generate", GenerateRequest{Copy: true})
	if w.Code != http.StatusOK {
		t.Fatalf("generate: %d %s", w.Code, w.Body.String())
	}
	g := decode[GenerateResponse](t, w)
	const want = "!so Go follow @alice, @bob, and @carol!"
	if g.Command != want || g.TextOnly != "Go follow @alice, @bob, and @carol!" || g.Language != "en" {
		t.Fatalf("generated = %+v", g)
	}
	if !g.Copied || a.clip.Last() != want || len(g.Warnings) != 0 {
		t.Fatalf("copy: %+v clipboard=%q", g, a.clip.Last())
	}

	page := decode[services.HistoryPage](t, a.do(t, http.MethodGet, "/history", nil))
	if page.Total != 1 || page.Rows[0].ID != g.EntryID || page.Rows[0].Command != want {
		t.Fatalf("history = %+v", page)
	}
}

func TestGenerate_Errors(t *testing.T) {
	a := newTestAPI(t, nil)

	expectError(t, a.do(t, http.MethodPost, "/generate", nil), http.StatusBadRequest, ErrCodeTemplateRequired)

	tpl, ss := a.seed(t, "alice")
	expectError(t, a.do(t, http.MethodPost, "/generate", GenerateRequest{TemplateID: "missing"}), http.StatusBadRequest, ErrCodeTemplateRequired)
	expectError(t, a.do(t, http.MethodPost, "/generate", GenerateRequest{TemplateID: tpl.ID}), http.StatusBadRequest, ErrCodeEmptySelection)

	tr := decode[ToggleResponse](t, a.do(t, http.MethodPost, "/selection/toggle/"+ss[0].ID, nil))
	if !tr.Selected || tr.State.Count != 1 {
		t.Fatalf("toggle = %+v", tr)
	}
	expectError(t, a.do(t, http.MethodPost, "/selection/toggle/ghost", nil), http.StatusNotFound, ErrCodeNotFound)

	// German default, single name.
	g := decode[GenerateResponse](t, a.do(t, http.MethodPost, "/generate", GenerateRequest{TemplateID: tpl.ID}))
	if g.Command != "!so Go follow @alice!" || g.Language != "de" || g.Copied {
		t.Fatalf("generated = %+v", g)
	}

	if w := a.do(t, http.MethodDelete, "/selection", nil); w.Code != http.StatusNoContent {
		t.Fatalf("clear: %d", w.Code)
	}
	expectError(t, a.do(t, http.MethodPost, "/generate", nil), http.StatusBadRequest, ErrCodeEmptySelection)
}

func TestGenerate_PersistFailureStillReturnsCommand(t *testing.T) {
	a := newTestAPI(t, brokenDisk{})

	w := a.do(t, http.MethodPost, "/streamers", StreamerRequest{Name: "alice"})
	expectError(t, w, http.StatusInternalServerError, ErrCodePersistFailed)

	// The in-memory roster kept the streamer.
	roster := decode[[]domain.Streamer](t, a.do(t, http.MethodGet, "/streamers", nil))
	if len(roster) != 1 {
		t.Fatalf("roster = %+v", roster)
	}
	a.do(t, http.MethodPost, "/templates", TemplateRequest{Name: "SO", Command: "so", Text: "{streamer}"})
	tpls := decode[[]domain.Template](t, a.do(t, http.MethodGet, "/templates", nil))

	a.do(t, http.MethodPost, "/selection/toggle/"+roster[0].ID, nil)
	w = a.do(t, http.MethodPost, "/generate", GenerateRequest{TemplateID: tpls[0].ID})
	if w.Code != http.StatusOK {
		t.Fatalf("generate: %d %s", w.Code, w.Body.String())
	}
	g := decode[GenerateResponse](t, w)
	if g.Command != "!so @alice" || len(g.Warnings) != 1 {
		t.Fatalf("generated = %+v", g)
	}
}

func TestClipboard(t *testing.T) {
	a := newTestAPI(t, nil)
	if w := a.do(t, http.MethodPost, "/clipboard", ClipboardRequest{Text: "hello"}); w.Code != http.StatusNoContent {
		t.Fatalf("copy: %d", w.Code)
	}
	if a.clip.Last() != "hello" {
		t.Fatalf("clipboard = %q", a.clip.Last())
	}
	expectError(t, a.do(t, http.MethodPost, "/clipboard", map[string]string{}), http.StatusBadRequest, ErrCodeBadRequest)
}

// ---------- history ----------

func TestHistory_ReuseCopyETagAndClear(t *testing.T) {
	a := newTestAPI(t, nil)
	tpl, ss := a.seed(t, "alice", "bob", "carol")
	a.do(t, http.MethodPut, "/language", LanguageRequest{Code: "en"})
	a.do(t, http.MethodPut, "/selection", SelectionRequest{StreamerIDs: []string{ss[0].ID, ss[1].ID, ss[2].ID}})
	g := decode[GenerateResponse](t, a.do(t, http.MethodPost, "/generate", GenerateRequest{TemplateID: tpl.ID}))

	// Switch language and delete a streamer; the entry keeps its own language.
	a.do(t, http.MethodPut, "/language", LanguageRequest{Code: "de"})
	a.do(t, http.MethodDelete, "/streamers/"+ss[1].ID, nil)
	a.do(t, http.MethodDelete, "/selection", nil)

	cp := decode[CopyHistoryResponse](t, a.do(t, http.MethodPost, "/history/"+g.EntryID+"/copy", nil))
	if cp.Copied != "!so Go follow @alice and @carol!" || a.clip.Last() != cp.Copied {
		t.Fatalf("copy = %+v", cp)
	}
	cp = decode[CopyHistoryResponse](t, a.do(t, http.MethodPost, "/history/"+g.EntryID+"/copy", CopyHistoryRequest{TextOnly: true}))
	if cp.Copied != "Go follow @alice and @carol!" {
		t.Fatalf("copy text = %+v", cp)
	}

	ru := decode[ReuseResponse](t, a.do(t, http.MethodPost, "/history/"+g.EntryID+"/reuse", nil))
	if ru.Language != "en" || ru.TemplateID != tpl.ID || len(ru.Selected) != 2 || ru.Missing != 1 {
		t.Fatalf("reuse = %+v", ru)
	}
	if sel := decode[services.SelectionState](t, a.do(t, http.MethodGet, "/selection", nil)); sel.Count != 2 {
		t.Fatalf("selection after reuse = %+v", sel)
	}
	expectError(t, a.do(t, http.MethodPost, "/history/nope/reuse", nil), http.StatusNotFound, ErrCodeNotFound)

	w := a.do(t, http.MethodGet, "/history", nil)
	etag := w.Header().Get("ETag")
	if etag == "" {
		t.Fatalf("missing ETag")
	}
	req := httptest.NewRequest(http.MethodGet, "/history", nil)
	req.Header.Set("If-None-Match", etag)
	w2 := httptest.NewRecorder()
	a.r.ServeHTTP(w2, req)
	if w2.Code != http.StatusNotModified {
		t.Fatalf("conditional GET = %d", w2.Code)
	}

	a.do(t, http.MethodPut, "/streamers/"+ss[0].ID, StreamerRequest{Name: "alicia"})
	if got := a.do(t, http.MethodGet, "/history", nil).Header().Get("ETag"); got == etag {
		t.Fatalf("ETag unchanged after rename")
	}

	a.do(t, http.MethodDelete, "/templates/"+tpl.ID, nil)
	expectError(t, a.do(t, http.MethodPost, "/history/"+g.EntryID+"/copy", nil), http.StatusGone, ErrCodeTemplateDeleted)
	row := decode[services.HistoryPage](t, a.do(t, http.MethodGet, "/history", nil)).Rows[0]
	if row.TemplateName != services.DeletedTemplateName || !row.TemplateDeleted {
		t.Fatalf("row = %+v", row)
	}

	if w := a.do(t, http.MethodDelete, "/history", nil); w.Code != http.StatusNoContent {
		t.Fatalf("clear: %d", w.Code)
	}
	if p := decode[services.HistoryPage](t, a.do(t, http.MethodGet, "/history", nil)); p.Total != 0 {
		t.Fatalf("history not cleared: %+v", p)
	}
}

// ---------- settings ----------

func TestSettings_UpdateAndValidation(t *testing.T) {
	a := newTestAPI(t, nil)

	s := decode[domain.Settings](t, a.do(t, http.MethodGet, "/settings", nil))
	if s.Theme != domain.DefaultTheme || s.DateFormat != "system" {
		t.Fatalf("defaults = %+v", s)
	}

	s = decode[domain.Settings](t, a.do(t, http.MethodPut, "/settings", map[string]any{"customColor": "A1B2C3", "sidebarCollapsed": true}))
	if s.Theme != domain.ThemeCustom || s.CustomColor != "#a1b2c3" || !s.SidebarCollapsed {
		t.Fatalf("custom color = %+v", s)
	}

	expectError(t, a.do(t, http.MethodPut, "/settings", map[string]any{"theme": "neon"}), http.StatusBadRequest, ErrCodeValidation)
	expectError(t, a.do(t, http.MethodPut, "/settings", map[string]any{"dateFormat": "YY"}), http.StatusBadRequest, ErrCodeValidation)
	expectError(t, a.do(t, http.MethodPut, "/language", LanguageRequest{Code: "fr"}), http.StatusBadRequest, ErrCodeUnsupportedLanguage)
	expectError(t, a.do(t, http.MethodPut, "/language", map[string]string{}), http.StatusBadRequest, ErrCodeBadRequest)

	if lr := decode[LanguageResponse](t, a.do(t, http.MethodGet, "/language", nil)); lr.Active.Code != domain.DefaultLanguage {
		t.Fatalf("language = %+v", lr)
	}
}

func TestSettings_TwitchTest(t *testing.T) {
	a := newTestAPI(t, nil)

	expectError(t, a.do(t, http.MethodPost, "/settings/twitch/test", nil), http.StatusBadRequest, ErrCodeTwitchNotConfigured)

	w := a.do(t, http.MethodPost, "/settings/twitch/test", TwitchTestRequest{ClientID: "id", ClientSecret: "secret"})
	if w.Code != http.StatusOK || !decode[TwitchTestResponse](t, w).OK {
		t.Fatalf("test: %d %s", w.Code, w.Body.String())
	}

	a.do(t, http.MethodPut, "/settings", map[string]any{"twitchClientId": "saved-id", "twitchClientSecret": "saved-secret"})
	a.platform.err = fmt.Errorf("%w: invalid client", twitch.ErrAuthFailed)
	expectError(t, a.do(t, http.MethodPost, "/settings/twitch/test", nil), http.StatusBadGateway, ErrCodeTwitchAuthFailed)

	a.platform.mu.Lock()
	last := a.platform.tested[len(a.platform.tested)-1]
	a.platform.mu.Unlock()
	if last.ClientID != "saved-id" || last.ClientSecret != "saved-secret" {
		t.Fatalf("tested %+v; want saved credentials", last)
	}
}
