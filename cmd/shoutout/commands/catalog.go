package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tbourn/go-shoutout-manager/internal/domain"
	"github.com/tbourn/go-shoutout-manager/internal/shoutout"
)

// withApp opens the application around run and closes it afterwards.
func withApp(o *options, run func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := o.open(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		return run(cmd, a, args)
	}
}

func table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

// ---- streamers ----

func newStreamersCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{Use: "streamers", Short: "Manage the streamer roster"}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List streamers",
		Args:  cobra.NoArgs,
		RunE: withApp(o, func(cmd *cobra.Command, a *app, _ []string) error {
			tw := table(cmd.OutOrStdout())
			fmt.Fprintln(tw, "ID\tNAME")
			for _, s := range a.catalog.ListStreamers(cmd.Context()) {
				fmt.Fprintf(tw, "%s\t%s\n", s.ID, s.Name)
			}
			return tw.Flush()
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add NAME...",
		Short: "Add streamers (a leading @ is stripped)",
		Args:  cobra.MinimumNArgs(1),
		RunE: withApp(o, func(cmd *cobra.Command, a *app, args []string) error {
			for _, name := range args {
				st, err := a.catalog.AddStreamer(cmd.Context(), name)
				if err != nil {
					return fmt.Errorf("%s: %w", name, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "added %s (%s)\n", st.Name, st.ID)
			}
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "rm ID|NAME...",
		Aliases: []string{"remove", "delete"},
		Short:   "Remove streamers; groups and history keep their ids",
		Args:    cobra.MinimumNArgs(1),
		RunE: withApp(o, func(cmd *cobra.Command, a *app, args []string) error {
			for _, ref := range args {
				id, err := resolveStreamer(a, ref)
				if err != nil {
					return err
				}
				if _, err := a.catalog.DeleteStreamer(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", ref)
			}
			return nil
		}),
	})
	return cmd
}

// ---- templates ----

func newTemplatesCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{Use: "templates", Short: "Manage command templates"}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List templates with a preview",
		Args:  cobra.NoArgs,
		RunE: withApp(o, func(cmd *cobra.Command, a *app, _ []string) error {
			tw := table(cmd.OutOrStdout())
			fmt.Fprintln(tw, "ID\tNAME\tPREVIEW")
			for _, t := range a.catalog.ListTemplates(cmd.Context()) {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", t.ID, t.Name, shoutout.Preview(t))
			}
			return tw.Flush()
		}),
	})

	var t domain.Template
	add := &cobra.Command{
		Use:     "add",
		Short:   "Add a template",
		Example: `  shoutout templates add --name Raid --command so --arg raid --text "Go follow {streamer}!"`,
		Args:    cobra.NoArgs,
		RunE: withApp(o, func(cmd *cobra.Command, a *app, _ []string) error {
			created, err := a.catalog.CreateTemplate(cmd.Context(), t)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "added %s (%s)\n", created.Name, created.ID)
			if !shoutout.HasPlaceholder(created.Text) {
				fmt.Fprintf(out, "note: text has no %s placeholder\n", shoutout.Placeholder)
			}
			return nil
		}),
	}
	add.Flags().StringVar(&t.Name, "name", "", "display name")
	add.Flags().StringVar(&t.Command, "command", "", "bot command without the leading !")
	add.Flags().StringVar(&t.FirstArg, "arg", "", "optional first argument")
	add.Flags().StringVar(&t.Text, "text", "", "text containing "+shoutout.Placeholder)
	cmd.AddCommand(add)

	cmd.AddCommand(&cobra.Command{
		Use:     "rm ID|NAME...",
		Aliases: []string{"remove", "delete"},
		Short:   "Remove templates; history rows show them as deleted",
		Args:    cobra.MinimumNArgs(1),
		RunE: withApp(o, func(cmd *cobra.Command, a *app, args []string) error {
			for _, ref := range args {
				id, err := resolveTemplate(a, ref)
				if err != nil {
					return err
				}
				if _, err := a.catalog.DeleteTemplate(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", ref)
			}
			return nil
		}),
	})
	return cmd
}

// ---- groups ----

func newGroupsCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{Use: "groups", Short: "Inspect streamer groups"}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List groups with their current members",
		Args:  cobra.NoArgs,
		RunE: withApp(o, func(cmd *cobra.Command, a *app, _ []string) error {
			ctx := cmd.Context()
			tw := table(cmd.OutOrStdout())
			fmt.Fprintln(tw, "ID\tNAME\tMEMBERS\tMISSING")
			for _, g := range a.catalog.ListGroups(ctx) {
				m, err := a.catalog.GroupMembers(ctx, g.ID)
				if err != nil {
					return err
				}
				names := make([]string, len(m.Members))
				for i, s := range m.Members {
					names[i] = s.Name
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", g.ID, g.Name, strings.Join(names, ", "), m.Missing)
			}
			return tw.Flush()
		}),
	})
	return cmd
}
