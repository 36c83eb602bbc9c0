// Package identity provides CLI commands definitions and execution logic.

package identity

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"acs-toolkit/internal/broker/broker"
	"acs-toolkit/internal/command/errors"
	"acs-toolkit/internal/scopemanager"
	"acs-toolkit/internal/syncutils"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

// TokenCommand defines a new command struct and sets its attributes.
type TokenCommand struct {
	log       *zerolog.Logger
	broker    *broker.Broker
	scopes    *scopemanager.ScopeManager
	syncUtils *syncutils.SyncUtils
}

// NewTokenCommand creates a new command instance.
func NewTokenCommand(
	logger *zerolog.Logger,
	tokenBroker *broker.Broker,
	scopes *scopemanager.ScopeManager,
	syncUtils *syncutils.SyncUtils,
) *TokenCommand {
	logger.Debug().Msg("calling initializer of identity:token command")
	return &TokenCommand{
		log:       logger,
		broker:    tokenBroker,
		scopes:    scopes,
		syncUtils: syncUtils,
	}
}

// Describe handles command description when invoked.
func (t *TokenCommand) Describe() *cli.Command {
	return &cli.Command{
		Category: "identity",
		Name:     "identity:token",
		Usage:    "Issue an access token for a user ID",
		Action:   t.Execute,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "user-id",
				Usage:    "User identifier (userID)",
				Aliases:  []string{"u"},
				Required: true,
			},
			&cli.StringFlag{
				Name:    "scopes",
				Usage:   "Comma separated scopes out of `chat`, `voip` and `pstn`",
				Aliases: []string{"s"},
			},
			&cli.BoolFlag{
				Name:  "raw",
				Usage: "Print the bare token only",
			},
		},
	}
}

// Execute runs the command-associated execution logic.
func (t *TokenCommand) Execute(ctx *cli.Context) error {
	const (
		handler    = "identity:token"
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

	scopes, err := t.scopes.GetScopes(ctx.String("scopes"))
	if err != nil {
		t.log.Error().Err(err).Str(handlerKey, handler).Msg(errors.InvalidScopesError)
		return err
	}

	grant, err := t.broker.IssueToken(ctxMain, userID, scopes, handler)
	if err != nil {
		t.log.Error().Err(err).Str(handlerKey, handler).Str(userIDKey, userID).Msg(errors.TokenIssuingError)
		return err
	}

	if ctx.Bool("raw") {
		fmt.Fprintln(os.Stdout, grant.Token)
		return nil
	}

	names := make([]string, 0, len(grant.Scopes))
	for _, scope := range grant.Scopes {
		names = append(names, string(scope))
	}
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"User ID", "Communication ID", "Scopes", "Expires On", "Token"})
	table.SetAutoWrapText(false)
	table.Append([]string{
		grant.UserID,
		grant.CommunicationID,
		strings.Join(names, ","),
		grant.ExpiresOn.Format(time.RFC3339),
		grant.Token,
	})
	table.Render()

	return nil
}
