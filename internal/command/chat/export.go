// Package chat provides CLI commands definitions and execution logic.

package chat

import (
	"context"
	"fmt"
	"os"

	"acs-toolkit/internal/broker/broker"
	"acs-toolkit/internal/clients/factory"
	"acs-toolkit/internal/command/errors"
	chatsdk "acs-toolkit/internal/communication/chat"
	"acs-toolkit/internal/s3/s3"
	"acs-toolkit/internal/syncutils"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

// ExportCommand defines a new command struct and sets its attributes.
type ExportCommand struct {
	threadScoped
	archive *s3.Service
}

// NewExportCommand creates a new command instance.
func NewExportCommand(
	logger *zerolog.Logger,
	tokenBroker *broker.Broker,
	clients *factory.Factory,
	archive *s3.Service,
	syncUtils *syncutils.SyncUtils,
) *ExportCommand {
	return &ExportCommand{
		threadScoped: newThreadScoped("chat:export", logger, tokenBroker, clients, syncUtils),
		archive:      archive,
	}
}

// Describe handles command description when invoked.
func (t *ExportCommand) Describe() *cli.Command {
	return &cli.Command{
		Category: "chat",
		Name:     t.name,
		Usage:    "Archive the messages of a chat thread to S3 as JSON lines",
		Action:   t.Execute,
		Flags: append(authFlags(), threadFlag(),
			&cli.BoolFlag{
				Name:  "list",
				Usage: "List the transcripts already archived for the thread instead",
			},
		),
	}
}

// Execute runs the command-associated execution logic.
func (t *ExportCommand) Execute(c *cli.Context) error {
	if c.Bool("list") {
		return t.listTranscripts(c.String("thread-id"))
	}

	return t.run(c, func(ctx context.Context, thread *chatsdk.ThreadClient) error {
		messages, err := collectMessages(ctx, thread, nil)
		if err != nil {
			return t.fail(err, thread.ThreadID(), errors.MessageListingError)
		}
		location, err := t.archive.UploadTranscript(ctx, thread.ThreadID(), messages)
		if err != nil {
			return t.fail(err, thread.ThreadID(), errors.TranscriptExportError)
		}
		fmt.Fprintln(os.Stdout, location)
		return nil
	})
}

func (t *ExportCommand) listTranscripts(threadID string) error {
	t.log.Info().Str(handlerKey, t.name).Msg(fmt.Sprintf("CLI: %s endpoint hit", t.name))

	ctx, cancel := context.WithTimeout(t.syncUtils.Ctx, commandTimeout)
	defer func() {
		cancel()
		t.syncUtils.SyncCancel()
		t.syncUtils.Wg.Wait()
	}()

	keys, err := t.archive.ListTranscripts(ctx, threadID)
	if err != nil {
		return t.fail(err, threadID, errors.TranscriptExportError)
	}
	for _, key := range keys {
		fmt.Fprintln(os.Stdout, key)
	}
	return nil
}
