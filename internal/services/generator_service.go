package services

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-shoutout-manager/internal/clipboard"
	"github.com/tbourn/go-shoutout-manager/internal/domain"
	"github.com/tbourn/go-shoutout-manager/internal/shoutout"
	"github.com/tbourn/go-shoutout-manager/internal/store"
)

// SelectionState describes the generator inputs currently chosen.
type SelectionState struct {
	TemplateID string            `json:"templateId"`
	Language   string            `json:"language"`
	Streamers  []domain.Streamer `json:"streamers"`
	Count      int               `json:"count"`
}

// Generated is the output of a successful generation.
type Generated struct {
	shoutout.Result
	Language string              `json:"language"`
	Entry    domain.HistoryEntry `json:"entry"`
}

// GeneratorService turns the session's selection into a command, records
// it in history, and copies results to the clipboard.
type GeneratorService struct {
	Store     *store.Store
	Session   *Session
	Clipboard clipboard.Writer
}

// NewGeneratorService constructs a GeneratorService.
func NewGeneratorService(st *store.Store, sess *Session, cb clipboard.Writer) *GeneratorService {
	return &GeneratorService{Store: st, Session: sess, Clipboard: cb}
}

// State returns the active template, language and selected streamers in
// selection order.
func (s *GeneratorService) State(ctx context.Context) SelectionState {
	found, _ := s.Store.ResolveStreamers(s.Session.Selected())
	return SelectionState{
		TemplateID: s.Session.Template(),
		Language:   s.Store.Language(),
		Streamers:  found,
		Count:      len(found),
	}
}

// SetTemplate makes id the active template.
func (s *GeneratorService) SetTemplate(ctx context.Context, id string) error {
	if _, ok := s.Store.Template(id); !ok {
		return ErrTemplateNotFound
	}
	s.Session.SetTemplate(id)
	return nil
}

// Toggle flips a streamer in the selection and reports whether it is now
// selected.
func (s *GeneratorService) Toggle(ctx context.Context, streamerID string) (bool, error) {
	if _, ok := s.Store.Streamer(streamerID); !ok {
		return false, ErrStreamerNotFound
	}
	return s.Session.Toggle(streamerID), nil
}

// SelectGroup adds the group's surviving members to the selection (union,
// existing picks are kept) and returns how many members were added.
func (s *GeneratorService) SelectGroup(ctx context.Context, groupID string) (int, error) {
	members, _, ok := s.Store.ExpandGroup(groupID)
	if !ok {
		return 0, ErrGroupNotFound
	}
	before := s.Session.Len()
	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}
	s.Session.Add(ids...)
	return s.Session.Len() - before, nil
}

// ReplaceSelection selects exactly the given ids that are on the roster.
func (s *GeneratorService) ReplaceSelection(ctx context.Context, ids []string) SelectionState {
	found, _ := s.Store.ResolveStreamers(ids)
	keep := make([]string, len(found))
	for i, st := range found {
		keep[i] = st.ID
	}
	s.Session.Replace(keep)
	return s.State(ctx)
}

// ClearSelection empties the selection.
func (s *GeneratorService) ClearSelection(ctx context.Context) {
	s.Session.Clear()
}

// Generate builds the command for templateID, or the active template when
// templateID is empty, from the current selection in the active language,
// and records it in history. A persistence failure is returned together
// with the generated command.
func (s *GeneratorService) Generate(ctx context.Context, templateID string) (*Generated, error) {
	tr := otel.Tracer("services/GeneratorService")
	ctx, span := tr.Start(ctx, "Generate")
	defer span.End()

	if templateID == "" {
		templateID = s.Session.Template()
	}
	if templateID == "" {
		return nil, ErrTemplateRequired
	}
	tpl, ok := s.Store.Template(templateID)
	if !ok {
		return nil, ErrTemplateRequired
	}
	s.Session.SetTemplate(templateID)

	selected, _ := s.Store.ResolveStreamers(s.Session.Selected())
	if len(selected) == 0 {
		return nil, ErrEmptySelection
	}

	lang := domain.Language(s.Store.Language())
	span.SetAttributes(
		attribute.String("template.id", tpl.ID),
		attribute.String("language", lang.Code),
		attribute.Int("streamers", len(selected)),
	)

	res := shoutout.Build(tpl, shoutout.Mentions(selected), lang)

	ids := make([]string, len(selected))
	for i, st := range selected {
		ids[i] = st.ID
	}
	entry, err := s.Store.RecordHistory(ctx, tpl.ID, ids, lang.Code)
	commandsGenerated.WithLabelValues(lang.Code).Inc()
	if err != nil {
		span.RecordError(err)
		log.Ctx(ctx).Warn().Err(err).Str("template_id", tpl.ID).Msg("history not persisted")
	}

	return &Generated{Result: res, Language: lang.Code, Entry: entry}, err
}

// Copy puts text on the clipboard.
func (s *GeneratorService) Copy(ctx context.Context, text string) error {
	trace.SpanFromContext(ctx).AddEvent("clipboard.copy")
	return s.Clipboard.WriteAll(text)
}
