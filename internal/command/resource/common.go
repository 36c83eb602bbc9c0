package resource

import (
	"context"
	"fmt"
	"time"

	"acs-toolkit/internal/clients/factory"
	"acs-toolkit/internal/config"
	"acs-toolkit/internal/syncutils"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

const (
	commandTimeout = 10 * time.Minute
	handlerKey     = "cli_command"
	resourceKey    = "resource"
)

// managed carries the dependencies of Resource Manager commands.
type managed struct {
	log       *zerolog.Logger
	cfg       *config.Config
	clients   *factory.Factory
	syncUtils *syncutils.SyncUtils
	name      string
}

func newManaged(name string, logger *zerolog.Logger, cfg *config.Config, clients *factory.Factory, syncUtils *syncutils.SyncUtils) managed {
	logger.Debug().Msg(fmt.Sprintf("calling initializer of %s command", name))
	return managed{log: logger, cfg: cfg, clients: clients, syncUtils: syncUtils, name: name}
}

// run bounds fn by the command timeout and releases app-wide resources afterwards.
func (t *managed) run(fn func(ctx context.Context) error) error {
	t.log.Info().Str(handlerKey, t.name).Msg(fmt.Sprintf("CLI: %s endpoint hit", t.name))

	ctxMain, cancel := context.WithTimeout(t.syncUtils.Ctx, commandTimeout)
	defer func() {
		cancel()
		t.syncUtils.SyncCancel()
		t.syncUtils.Wg.Wait()
	}()
	return fn(ctxMain)
}

func (t *managed) fail(err error, resource, message string) error {
	t.log.Error().Err(err).Str(handlerKey, t.name).Str(resourceKey, resource).Msg(message)
	return err
}

func resourceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "resource-group",
			Usage:    "Resource group name",
			Aliases:  []string{"g"},
			Required: true,
		},
		&cli.StringFlag{
			Name:     "name",
			Usage:    "Communication Service name",
			Aliases:  []string{"n"},
			Required: true,
		},
	}
}
