package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tbourn/go-shoutout-manager/internal/domain"
)

func newHistoryCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{Use: "history", Short: "Show or clear generation history"}

	var page, size int
	list := &cobra.Command{
		Use:   "list",
		Short: "List history, newest first",
		Args:  cobra.NoArgs,
		RunE: withApp(o, func(cmd *cobra.Command, a *app, _ []string) error {
			p := a.history.List(cmd.Context(), page, size)
			tw := table(cmd.OutOrStdout())
			fmt.Fprintln(tw, "ID\tWHEN\tTEMPLATE\tLANG\tCOMMAND")
			for _, r := range p.Rows {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.When, r.TemplateName, r.Language, r.Command)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			if p.Total > len(p.Rows) {
				fmt.Fprintf(cmd.OutOrStdout(), "page %d, %d of %d entries\n", p.Page, len(p.Rows), p.Total)
			}
			return nil
		}),
	}
	list.Flags().IntVar(&page, "page", 1, "page number")
	list.Flags().IntVar(&size, "size", domain.HistoryLimit, "entries per page")
	cmd.AddCommand(list)

	var yes bool
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all history entries",
		Args:  cobra.NoArgs,
		RunE: withApp(o, func(cmd *cobra.Command, a *app, _ []string) error {
			if !yes {
				fmt.Fprint(cmd.OutOrStdout(), "clear all history? [y/N] ")
				var answer string
				_, _ = fmt.Fscanln(cmd.InOrStdin(), &answer)
				if !strings.EqualFold(strings.TrimSpace(answer), "y") {
					fmt.Fprintln(cmd.OutOrStdout(), "aborted")
					return nil
				}
			}
			if err := a.history.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "history cleared")
			return nil
		}),
	}
	clearCmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	cmd.AddCommand(clearCmd)
	return cmd
}
