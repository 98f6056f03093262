package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tbourn/go-shoutout-manager/internal/services"
)

type generateFlags struct {
	template string
	groups   []string
	language string
	copy     bool
	textOnly bool
}

func newGenerateCmd(o *options) *cobra.Command {
	var f generateFlags
	cmd := &cobra.Command{
		Use:   "generate [streamer...]",
		Short: "Generate a shoutout command",
		Long: `Build a shoutout command from a template and the given streamers (names or
ids, in order) plus the members of any --group, and record it in history.`,
		Example: `  shoutout generate --template raid alice bob carol
  shoutout generate -t so --group friends --lang en --copy`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := o.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()
			return runGenerate(cmd, a, f, args)
		},
	}
	cmd.Flags().StringVarP(&f.template, "template", "t", "", "template id or name (default: the only template)")
	cmd.Flags().StringSliceVarP(&f.groups, "group", "g", nil, "group id or name to add (repeatable)")
	cmd.Flags().StringVarP(&f.language, "lang", "l", "", "switch the active language first (de, en)")
	cmd.Flags().BoolVarP(&f.copy, "copy", "c", false, "copy the command to the clipboard")
	cmd.Flags().BoolVar(&f.textOnly, "text", false, "print the text without the command prefix")
	return cmd
}

func runGenerate(cmd *cobra.Command, a *app, f generateFlags, args []string) error {
	ctx := cmd.Context()

	if f.language != "" {
		if _, err := a.settings.SetLanguage(ctx, f.language); warnPersist(err) != nil {
			return err
		}
	}

	tplID, err := resolveTemplate(a, f.template)
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(args))
	for _, arg := range args {
		id, err := resolveStreamer(a, arg)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}
	a.gen.ReplaceSelection(ctx, ids)
	for _, g := range f.groups {
		gid, err := resolveGroup(a, g)
		if err != nil {
			return err
		}
		if _, err := a.gen.SelectGroup(ctx, gid); err != nil {
			return err
		}
	}

	g, err := a.gen.Generate(ctx, tplID)
	if g == nil {
		return err
	}
	if err := warnPersist(err); err != nil {
		return err
	}

	out := g.Command
	if f.textOnly {
		out = g.TextOnly
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)

	if f.copy {
		if err := a.gen.Copy(ctx, out); err != nil {
			log.Warn().Err(err).Msg("not copied")
		}
	}
	return nil
}

// resolveTemplate accepts an id or a case-insensitive name. An empty ref
// selects the only template when there is exactly one.
func resolveTemplate(a *app, ref string) (string, error) {
	tpls := a.catalog.ListTemplates(context.Background())
	if ref == "" {
		if len(tpls) == 1 {
			return tpls[0].ID, nil
		}
		return "", services.ErrTemplateRequired
	}
	for _, t := range tpls {
		if t.ID == ref {
			return t.ID, nil
		}
	}
	for _, t := range tpls {
		if strings.EqualFold(t.Name, ref) || strings.EqualFold(t.Command, strings.TrimPrefix(ref, "!")) {
			return t.ID, nil
		}
	}
	return "", fmt.Errorf("%w: %q", services.ErrTemplateNotFound, ref)
}

// resolveStreamer accepts a roster id or a name (with or without "@").
func resolveStreamer(a *app, ref string) (string, error) {
	if st, ok := a.store.Streamer(ref); ok {
		return st.ID, nil
	}
	if st, ok := a.store.StreamerByName(ref); ok {
		return st.ID, nil
	}
	err := fmt.Errorf("%w: %q", services.ErrStreamerNotFound, ref)
	if s := a.catalog.Suggest(context.Background(), ref); len(s) > 0 {
		err = fmt.Errorf("%w (did you mean %q?)", err, s[0].Name)
	}
	return "", err
}

func resolveGroup(a *app, ref string) (string, error) {
	if g, ok := a.store.Group(ref); ok {
		return g.ID, nil
	}
	for _, g := range a.store.Groups() {
		if strings.EqualFold(g.Name, ref) {
			return g.ID, nil
		}
	}
	return "", fmt.Errorf("%w: %q", services.ErrGroupNotFound, ref)
}
