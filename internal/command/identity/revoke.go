// Package identity provides CLI commands definitions and execution logic.

package identity

import (
	"context"
	"fmt"

	"acs-toolkit/internal/broker/broker"
	"acs-toolkit/internal/command/errors"
	"acs-toolkit/internal/syncutils"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

// RevokeCommand defines a new command struct and sets its attributes.
type RevokeCommand struct {
	log       *zerolog.Logger
	broker    *broker.Broker
	syncUtils *syncutils.SyncUtils
}

// NewRevokeCommand creates a new command instance.
func NewRevokeCommand(
	logger *zerolog.Logger,
	tokenBroker *broker.Broker,
	syncUtils *syncutils.SyncUtils,
) *RevokeCommand {
	logger.Debug().Msg("calling initializer of identity:revoke command")
	return &RevokeCommand{
		log:       logger,
		broker:    tokenBroker,
		syncUtils: syncUtils,
	}
}

// Describe handles command description when invoked.
func (t *RevokeCommand) Describe() *cli.Command {
	return &cli.Command{
		Category: "identity",
		Name:     "identity:revoke",
		Usage:    "Revoke every access token issued for a user ID",
		Action:   t.Execute,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "user-id",
				Usage:    "User identifier (userID)",
				Aliases:  []string{"u"},
				Required: true,
			},
		},
	}
}

// Execute runs the command-associated execution logic.
func (t *RevokeCommand) Execute(ctx *cli.Context) error {
	const (
		handler    = "identity:revoke"
		handlerKey = "cli_command"
		userIDKey  = "userID"
	)

	userID := ctx.String("user-id")

	t.log.Info().Str(handlerKey, handler).Str(userIDKey, userID).Msg(fmt.Sprintf("CLI: %s endpoint hit", handler))

	ctxMain, cancel := context.WithTimeout(t.syncUtils.Ctx, commandTimeout)
	defer func() {
		cancel()
		t.syncUtils.SyncCancel()
		t.syncUtils.Wg.Wait()
	}()

	if err := t.broker.Revoke(ctxMain, userID, handler); err != nil {
		t.log.Error().Err(err).Str(handlerKey, handler).Str(userIDKey, userID).Msg(errors.TokenRevocationError)
		return err
	}
	return nil
}
