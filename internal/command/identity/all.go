// Package identity provides CLI commands definitions and execution logic.

package identity

import (
	"context"
	"fmt"
	"os"
	"time"

	"acs-toolkit/internal/command/errors"
	"acs-toolkit/internal/storage/v1/psql"
	"acs-toolkit/internal/syncutils"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

// AllCommand defines a new command struct and sets its attributes.
type AllCommand struct {
	log       *zerolog.Logger
	storage   *psql.Storage
	syncUtils *syncutils.SyncUtils
}

// NewAllCommand creates a new command instance.
func NewAllCommand(
	logger *zerolog.Logger,
	storage *psql.Storage,
	syncUtils *syncutils.SyncUtils,
) *AllCommand {
	logger.Debug().Msg("calling initializer of identity:all command")
	return &AllCommand{
		log:       logger,
		storage:   storage,
		syncUtils: syncUtils,
	}
}

// Describe handles command description when invoked.
func (t *AllCommand) Describe() *cli.Command {
	return &cli.Command{
		Category: "identity",
		Name:     "identity:all",
		Usage:    "List every registered identity with its last token expiry",
		Action:   t.Execute,
	}
}

// Execute runs the command-associated execution logic.
func (t *AllCommand) Execute(ctx *cli.Context) error {
	const (
		handler    = "identity:all"
		handlerKey = "cli_command"
	)

	t.log.Info().Str(handlerKey, handler).Msg(fmt.Sprintf("CLI: %s endpoint hit", handler))

	ctxMain, cancel := context.WithTimeout(t.syncUtils.Ctx, 5*time.Second)
	defer func() {
		cancel()
		t.syncUtils.SyncCancel()
		t.syncUtils.Wg.Wait()
	}()

	identities, err := t.storage.GetAllIdentities(ctxMain)
	if err != nil {
		t.log.Error().Err(err).Str(handlerKey, handler).Msg(errors.IdentityListingError)
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"User ID", "Communication ID", "Created At", "Last Token Expiry"})
	for _, identity := range identities {
		expiry, err := t.storage.GetLastTokenExpiry(ctxMain, identity.UserID)
		lastExpiry := orNA("")
		if err == nil {
			lastExpiry = expiry.Format(time.RFC3339)
		}
		table.Append([]string{
			identity.UserID,
			identity.CommunicationID,
			identity.CreatedAt.Format(time.RFC3339),
			lastExpiry,
		})
	}
	table.Render()

	return nil
}
