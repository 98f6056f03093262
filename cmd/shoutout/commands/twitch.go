package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tbourn/go-shoutout-manager/internal/twitch"
)

func newTwitchCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{Use: "twitch", Short: "Twitch credential checks and roster validation"}

	var creds twitch.Credentials
	test := &cobra.Command{
		Use:   "test",
		Short: "Request an app access token with the effective or given credentials",
		Args:  cobra.NoArgs,
		RunE: withApp(o, func(cmd *cobra.Command, a *app, _ []string) error {
			var c *twitch.Credentials
			if creds.ClientID != "" || creds.ClientSecret != "" {
				c = &creds
			}
			if err := a.dir.TestCredentials(cmd.Context(), c); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "credentials OK")
			return nil
		}),
	}
	test.Flags().StringVar(&creds.ClientID, "client-id", "", "client id to test instead of the saved one")
	test.Flags().StringVar(&creds.ClientSecret, "client-secret", "", "client secret to test instead of the saved one")
	cmd.AddCommand(test)

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Check every roster name against Twitch",
		Args:  cobra.NoArgs,
		RunE: withApp(o, func(cmd *cobra.Command, a *app, _ []string) error {
			rep, err := a.dir.ValidateAll(cmd.Context())
			if err != nil {
				return err
			}
			tw := table(cmd.OutOrStdout())
			fmt.Fprintln(tw, "NAME\tSTATUS")
			for _, r := range rep.Results {
				status := "invalid"
				if r.Valid {
					status = "valid"
				}
				fmt.Fprintf(tw, "%s\t%s\n", r.Streamer.Name, status)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d valid, %d invalid\n", rep.Valid, rep.Invalid)
			return nil
		}),
	})
	return cmd
}
