// Package identity provides CLI commands definitions and execution logic.

package identity

import (
	"context"
	"fmt"
	"os"

	"acs-toolkit/internal/broker/broker"
	"acs-toolkit/internal/clients/factory"
	"acs-toolkit/internal/command/errors"
	"acs-toolkit/internal/syncutils"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

// CreateCommand defines a new command struct and sets its attributes.
type CreateCommand struct {
	log       *zerolog.Logger
	broker    *broker.Broker
	clients   *factory.Factory
	syncUtils *syncutils.SyncUtils
}

// NewCreateCommand creates a new command instance.
func NewCreateCommand(
	logger *zerolog.Logger,
	tokenBroker *broker.Broker,
	clients *factory.Factory,
	syncUtils *syncutils.SyncUtils,
) *CreateCommand {
	logger.Debug().Msg("calling initializer of identity:create command")
	return &CreateCommand{
		log:       logger,
		broker:    tokenBroker,
		clients:   clients,
		syncUtils: syncUtils,
	}
}

// Describe handles command description when invoked.
func (t *CreateCommand) Describe() *cli.Command {
	return &cli.Command{
		Category: "identity",
		Name:     "identity:create",
		Usage:    "Create a communication identity, optionally registered for a user ID",
		Action:   t.Execute,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "user-id",
				Usage:   "User identifier (userID) to register the identity for",
				Aliases: []string{"u"},
			},
		},
	}
}

// Execute runs the command-associated execution logic.
func (t *CreateCommand) Execute(ctx *cli.Context) error {
	const (
		handler    = "identity:create"
		handlerKey = "cli_command"
		userIDKey  = "userID"
	)

	userID := ctx.String("user-id")

	t.log.Info().Str(handlerKey, handler).Msg(fmt.Sprintf("CLI: %s endpoint hit", handler))

	ctxMain, cancel := context.WithTimeout(t.syncUtils.Ctx, commandTimeout)
	defer func() {
		cancel()
		t.syncUtils.SyncCancel()
		t.syncUtils.Wg.Wait()
	}()

	var communicationID string
	if userID != "" {
		id, err := t.broker.Ensure(ctxMain, userID, handler)
		if err != nil {
			t.log.Error().Err(err).Str(handlerKey, handler).Str(userIDKey, userID).Msg(errors.IdentityCreationError)
			return err
		}
		communicationID = id
	} else {
		client, err := t.clients.Identity()
		if err != nil {
			t.log.Error().Err(err).Str(handlerKey, handler).Msg(errors.ClientBuildingError)
			return err
		}
		user, err := client.CreateUser(ctxMain)
		if err != nil {
			t.log.Error().Err(err).Str(handlerKey, handler).Msg(errors.IdentityCreationError)
			return err
		}
		communicationID = user.ID
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"User ID", "Communication ID"})
	table.Append([]string{orNA(userID), communicationID})
	table.Render()

	return nil
}
