// Package http provides the token broker HTTP command.

package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "acs-toolkit/docs"
	"acs-toolkit/internal/api/v1/rest/handlers"
	"acs-toolkit/internal/api/v1/rest/middleware"
	commandErrors "acs-toolkit/internal/command/errors"
	"acs-toolkit/internal/config"
	"acs-toolkit/internal/syncutils"

	"github.com/go-chi/chi"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/urfave/cli/v2"
)

const (
	commandName = "http:serve"
	handlerKey  = "cli_command"
	addrKey     = "addr"

	defaultShutdownTimeout = 10 * time.Second
)

// ServeCommand runs the token broker REST API until SIGINT or SIGTERM.
type ServeCommand struct {
	log              *zerolog.Logger
	cfg              *config.Config
	endpointHandlers *handlers.EndpointHandlers
	syncUtils        *syncutils.SyncUtils
}

// NewServeCommand creates a new command instance.
func NewServeCommand(
	logger *zerolog.Logger,
	cfg *config.Config,
	endpointHandlers *handlers.EndpointHandlers,
	syncUtils *syncutils.SyncUtils,
) *ServeCommand {
	logger.Debug().Msg(fmt.Sprintf("calling initializer of %s command", commandName))
	return &ServeCommand{
		log:              logger,
		cfg:              cfg,
		syncUtils:        syncUtils,
		endpointHandlers: endpointHandlers,
	}
}

// Describe handles command description when invoked.
func (t *ServeCommand) Describe() *cli.Command {
	return &cli.Command{
		Category: "http",
		Name:     commandName,
		Usage:    "Serve the token broker REST API issuing communication access tokens",
		Action:   t.Execute,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Usage:   "HTTP port, overrides SERVER_ADDRESS",
				Aliases: []string{"p"},
			},
		},
	}
}

// address prefers the --port flag over SERVER_ADDRESS.
func (t *ServeCommand) address(c *cli.Context) string {
	if !c.IsSet("port") {
		return t.cfg.Server.ServerAddress
	}
	addr := net.JoinHostPort("", strconv.Itoa(c.Int("port")))
	if addr != t.cfg.Server.ServerAddress {
		t.log.Warn().Str("env_addr", t.cfg.Server.ServerAddress).Str(addrKey, addr).Msg("server address overridden by --port")
	}
	return addr
}

// router mounts the broker endpoints and the API docs behind the gzip middleware.
func (t *ServeCommand) router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.CompressHandle)
	r.Use(middleware.DecompressHandle)
	t.endpointHandlers.Routes(r)
	r.Mount("/api/v1/doc", httpSwagger.WrapHandler)
	return r
}

// Execute runs the command-associated execution logic.
func (t *ServeCommand) Execute(c *cli.Context) error {
	t.log.Info().Str(handlerKey, commandName).Msg(fmt.Sprintf("CLI: %s endpoint hit", commandName))
	defer func() {
		t.syncUtils.SyncCancel()
		t.syncUtils.Wg.Wait()
	}()

	srv := &http.Server{
		Addr:         t.address(c),
		Handler:      t.router(),
		IdleTimeout:  t.cfg.Server.IdleTimeout,
		ReadTimeout:  t.cfg.Server.ReadTimeout,
		WriteTimeout: t.cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(t.syncUtils.Ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return t.serve(ctx, srv)
}

// serve blocks until ctx is done, then drains srv within ShutdownTimeout.
func (t *ServeCommand) serve(ctx context.Context, srv *http.Server) error {
	listenErr := make(chan error, 1)
	go func() {
		t.log.Info().Str(addrKey, srv.Addr).Msg("token broker listening")
		listenErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-listenErr:
		t.log.Error().Err(err).Str(addrKey, srv.Addr).Msg(commandErrors.ServerStartError)
		return err
	case <-ctx.Done():
	}

	t.log.Info().Msg("token broker draining in-flight requests")
	// ctx is already done here, so the drain gets a fresh deadline
	timeout := t.cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	drainCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(drainCtx); err != nil {
		t.log.Error().Err(err).Msg(commandErrors.ServerShutdownError)
		return err
	}
	if err := <-listenErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	t.log.Info().Msg("token broker stopped")
	return nil
}
