package commands

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"

	"github.com/tbourn/go-shoutout-manager/docs"
	httpapi "github.com/tbourn/go-shoutout-manager/internal/http"
	"github.com/tbourn/go-shoutout-manager/internal/observability"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(o *options) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API",
		Long: `Start the HTTP server exposing templates, streamers, groups, the
generator, history and settings under API_BASE_PATH. SIGINT or SIGTERM
shut it down gracefully.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if addr == "" {
				addr = net.JoinHostPort("", o.cfg.Port)
			}
			return o.serve(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default :PORT)")
	return cmd
}

func (o *options) serve(ctx context.Context, addr string) error {
	cfg := o.cfg

	shutdownTracing, err := observability.Setup(ctx, cfg.OTEL, Version, attribute.String("store.backend", cfg.StoreBackend))
	if err != nil {
		return err
	}
	defer func() {
		if err := observability.ShutdownWithin(shutdownTracing, shutdownTimeout); err != nil {
			log.Warn().Err(err).Msg("tracing shutdown")
		}
	}()

	a, err := o.open(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	docs.SwaggerInfo.BasePath = cfg.APIBasePath
	httpapi.RegisterRoutes(r, a.services(), cfg)

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", addr).
			Str("base_path", cfg.APIBasePath).
			Str("backend", cfg.StoreBackend).
			Bool("swagger", cfg.SwaggerEnabled).
			Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}
