package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-shoutout-manager/internal/config"
	"github.com/tbourn/go-shoutout-manager/internal/http/handlers"
	"github.com/tbourn/go-shoutout-manager/internal/repo"
	"github.com/tbourn/go-shoutout-manager/internal/services"
	"github.com/tbourn/go-shoutout-manager/internal/store"
	"github.com/tbourn/go-shoutout-manager/internal/sysutil"
	"github.com/tbourn/go-shoutout-manager/internal/twitch"
)

// app is the wired application for one process: the store behind the
// configured backend and the services over it.
type app struct {
	store    *store.Store
	catalog  *services.CatalogService
	gen      *services.GeneratorService
	history  *services.HistoryService
	dir      *services.DirectoryService
	settings *services.SettingsService

	closers []func() error
}

func (o *options) open(ctx context.Context) (*app, error) {
	a := &app{}
	p, err := a.persister(o.cfg)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	st, err := store.Open(ctx, p, store.WithLogger(log.Logger))
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	tc := twitch.New(twitch.Config{
		AuthURL: o.cfg.Twitch.AuthURL,
		APIURL:  o.cfg.Twitch.APIURL,
		Timeout: o.cfg.Twitch.Timeout,
	})
	override := twitch.Credentials{ClientID: o.cfg.Twitch.ClientID, ClientSecret: o.cfg.Twitch.ClientSecret}

	sess := services.NewSession()
	a.store = st
	a.catalog = services.NewCatalogService(st, sess)
	a.gen = services.NewGeneratorService(st, sess, o.clip)
	a.history = services.NewHistoryService(st, sess)
	a.dir = services.NewDirectoryService(st, tc, override, o.cfg.SearchDebounce)
	a.settings = services.NewSettingsService(st)
	return a, nil
}

func (a *app) persister(cfg config.Config) (store.Persister, error) {
	switch cfg.StoreBackend {
	case config.BackendSQLite:
		if err := sysutil.EnsureParentDir(cfg.DBPath); err != nil {
			return nil, err
		}
		db, err := repo.OpenSQLite(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", cfg.DBPath, err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, sqlDB.Close)
		if err := repo.AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		log.Debug().Str("path", cfg.DBPath).Msg("using sqlite backend")
		return repo.NewSQLiteStore(db), nil
	default:
		log.Debug().Str("path", cfg.DataPath).Msg("using json backend")
		return repo.NewFileStore(cfg.DataPath), nil
	}
}

func (a *app) services() handlers.Services {
	return handlers.Services{
		Templates: a.catalog,
		Streamers: a.catalog,
		Groups:    a.catalog,
		Generator: a.gen,
		History:   a.history,
		Directory: a.dir,
		Settings:  a.settings,
	}
}

// Close releases the backend.
func (a *app) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	a.closers = nil
	return errors.Join(errs...)
}

// warnPersist logs a failed save instead of failing the command. Only used
// where the printed result is still useful without the save.
func warnPersist(err error) error {
	if errors.Is(err, store.ErrPersist) {
		log.Warn().Err(err).Msg("changes were not saved")
		return nil
	}
	return err
}
