// Package identity provides CLI commands definitions and execution logic.

package identity

import (
	"context"
	"fmt"

	"acs-toolkit/internal/broker/broker"
	"acs-toolkit/internal/clients/factory"
	"acs-toolkit/internal/command/errors"
	"acs-toolkit/internal/communication/shared"
	"acs-toolkit/internal/syncutils"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

// DeleteCommand defines a new command struct and sets its attributes.
type DeleteCommand struct {
	log       *zerolog.Logger
	broker    *broker.Broker
	clients   *factory.Factory
	syncUtils *syncutils.SyncUtils
}

// NewDeleteCommand creates a new command instance.
func NewDeleteCommand(
	logger *zerolog.Logger,
	tokenBroker *broker.Broker,
	clients *factory.Factory,
	syncUtils *syncutils.SyncUtils,
) *DeleteCommand {
	logger.Debug().Msg("calling initializer of identity:delete command")
	return &DeleteCommand{
		log:       logger,
		broker:    tokenBroker,
		clients:   clients,
		syncUtils: syncUtils,
	}
}

// Describe handles command description when invoked.
func (t *DeleteCommand) Describe() *cli.Command {
	return &cli.Command{
		Category: "identity",
		Name:     "identity:delete",
		Usage:    "Delete the communication identity of a user ID or a raw communication ID",
		Action:   t.Execute,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "user-id",
				Usage:   "User identifier (userID)",
				Aliases: []string{"u"},
			},
			&cli.StringFlag{
				Name:  "communication-id",
				Usage: "Communication identity not tracked in the registry",
			},
		},
	}
}

// Execute runs the command-associated execution logic.
func (t *DeleteCommand) Execute(ctx *cli.Context) error {
	const (
		handler    = "identity:delete"
		handlerKey = "cli_command"
		userIDKey  = "userID"
	)

	var (
		userID          = ctx.String("user-id")
		communicationID = ctx.String("communication-id")
	)

	t.log.Info().Str(handlerKey, handler).Msg(fmt.Sprintf("CLI: %s endpoint hit", handler))

	ctxMain, cancel := context.WithTimeout(t.syncUtils.Ctx, commandTimeout)
	defer func() {
		cancel()
		t.syncUtils.SyncCancel()
		t.syncUtils.Wg.Wait()
	}()

	switch {
	case userID != "":
		if err := t.broker.Forget(ctxMain, userID, handler); err != nil {
			t.log.Error().Err(err).Str(handlerKey, handler).Str(userIDKey, userID).Msg(errors.IdentityDeletionError)
			return err
		}
	case communicationID != "":
		client, err := t.clients.Identity()
		if err != nil {
			t.log.Error().Err(err).Str(handlerKey, handler).Msg(errors.ClientBuildingError)
			return err
		}
		if err := client.DeleteUser(ctxMain, shared.CommunicationUser{ID: communicationID}); err != nil {
			t.log.Error().Err(err).Str(handlerKey, handler).Msg(errors.IdentityDeletionError)
			return err
		}
	default:
		return fmt.Errorf("either `--user-id` or `--communication-id` is required")
	}

	t.log.Info().Str(handlerKey, handler).Msg("identity deleted")
	return nil
}
