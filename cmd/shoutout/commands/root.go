// Package commands provides the shoutout CLI.
package commands

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tbourn/go-shoutout-manager/internal/clipboard"
	"github.com/tbourn/go-shoutout-manager/internal/config"
	"github.com/tbourn/go-shoutout-manager/internal/sysutil"
)

// Version is set at build time.
var Version = "0.1.0"

// options are shared by every subcommand. cfg is filled in by the root
// PersistentPreRunE.
type options struct {
	envFile  string
	backend  string
	dataPath string
	dbPath   string
	logLevel string

	clip clipboard.Writer
	cfg  config.Config
}

// NewRootCmd builds the command tree. A nil clip uses the system clipboard.
func NewRootCmd(clip clipboard.Writer) *cobra.Command {
	if clip == nil {
		clip = clipboard.System{}
	}
	o := &options{clip: clip}

	root := &cobra.Command{
		Use:   "shoutout",
		Short: "Shoutout command manager for Twitch streamers",
		Long: `shoutout keeps a roster of streamers, reusable command templates and
streamer groups, and builds chat-bot shoutout commands such as

  !so Go follow @alice, @bob, and @carol!

Run 'shoutout serve' to expose the REST API.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return o.load(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&o.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	pf.StringVar(&o.backend, "backend", "", "storage backend: json or sqlite (overrides STORE_BACKEND)")
	pf.StringVar(&o.dataPath, "data", "", "JSON document path (overrides DATA_PATH)")
	pf.StringVar(&o.dbPath, "db", "", "SQLite path (overrides DB_PATH)")
	pf.StringVar(&o.logLevel, "log-level", "", "log level (overrides LOG_LEVEL)")

	root.SetVersionTemplate(fmt.Sprintf("shoutout %s\n", Version))

	root.AddCommand(
		newServeCmd(o),
		newGenerateCmd(o),
		newHistoryCmd(o),
		newStreamersCmd(o),
		newTemplatesCmd(o),
		newGroupsCmd(o),
		newTwitchCmd(o),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd(nil).Execute()
}

// load reads the dotenv file, the environment and the flag overrides, then
// sets up logging.
func (o *options) load(cmd *cobra.Command) error {
	if err := godotenv.Load(o.envFile); err != nil {
		if cmd.Flags().Changed("env-file") || !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", o.envFile, err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if o.backend != "" {
		cfg.StoreBackend = o.backend
	}
	if o.dataPath != "" {
		cfg.DataPath = o.dataPath
	}
	if o.dbPath != "" {
		cfg.DBPath = o.dbPath
	}
	cfg.LogLevel = sysutil.FirstNonEmpty(o.logLevel, cfg.LogLevel)

	switch cfg.StoreBackend {
	case config.BackendJSON, config.BackendSQLite:
	default:
		return fmt.Errorf("unknown backend %q (want json or sqlite)", cfg.StoreBackend)
	}

	sysutil.SetupLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogPretty)
	o.cfg = cfg
	return nil
}
