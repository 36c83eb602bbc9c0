// Package storage provides CLI commands definitions and execution logic.

package storage

import (
	"fmt"

	"acs-toolkit/internal/command/errors"
	"acs-toolkit/internal/storage/v1/psql"
	"acs-toolkit/internal/syncutils"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

// ResetCommand defines a new command struct and sets its attributes.
type ResetCommand struct {
	log       *zerolog.Logger
	storage   *psql.Storage
	syncUtils *syncutils.SyncUtils
}

// NewResetCommand creates a new command instance.
func NewResetCommand(
	logger *zerolog.Logger,
	storage *psql.Storage,
	syncUtils *syncutils.SyncUtils,
) *ResetCommand {
	logger.Debug().Msg("calling initializer of storage:reset command")
	return &ResetCommand{
		log:       logger,
		storage:   storage,
		syncUtils: syncUtils,
	}
}

// Describe handles command description when invoked.
func (t *ResetCommand) Describe() *cli.Command {
	return &cli.Command{
		Category: "storage",
		Name:     "storage:reset",
		Usage:    "Drop the identity registry tables",
		Action:   t.Execute,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Confirm dropping every stored identity and token record",
			},
		},
	}
}

// Execute runs the command-associated execution logic.
func (t *ResetCommand) Execute(ctx *cli.Context) error {
	const (
		handler    = "storage:reset"
		handlerKey = "cli_command"
	)

	defer func() {
		t.syncUtils.SyncCancel()
		t.syncUtils.Wg.Wait()
	}()

	t.log.Info().Str(handlerKey, handler).Msg(fmt.Sprintf("CLI: %s endpoint hit", handler))

	if !ctx.Bool("force") {
		return fmt.Errorf("refusing to drop the identity registry without `--force`")
	}
	if err := t.storage.DropAll(); err != nil {
		t.log.Error().Err(err).Str(handlerKey, handler).Msg(errors.DropError)
		return err
	}
	t.log.Warn().Str(handlerKey, handler).Msg("identity registry dropped")

	return nil
}
