// Package chat provides CLI commands definitions and execution logic.

package chat

import (
	"context"
	"fmt"
	"os"
	"time"

	"acs-toolkit/internal/broker/broker"
	"acs-toolkit/internal/clients/factory"
	"acs-toolkit/internal/command/errors"
	chatsdk "acs-toolkit/internal/communication/chat"
	"acs-toolkit/internal/syncutils"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

// threadScoped carries the dependencies of commands acting on one thread.
type threadScoped struct {
	log       *zerolog.Logger
	broker    *broker.Broker
	clients   *factory.Factory
	syncUtils *syncutils.SyncUtils
	name      string
}

func newThreadScoped(name string, logger *zerolog.Logger, tokenBroker *broker.Broker, clients *factory.Factory, syncUtils *syncutils.SyncUtils) threadScoped {
	logger.Debug().Msg(fmt.Sprintf("calling initializer of %s command", name))
	return threadScoped{log: logger, broker: tokenBroker, clients: clients, syncUtils: syncUtils, name: name}
}

// run prepares the context and the thread client, then hands over to fn.
func (t *threadScoped) run(c *cli.Context, fn func(ctx context.Context, thread *chatsdk.ThreadClient) error) error {
	t.log.Info().Str(handlerKey, t.name).Msg(fmt.Sprintf("CLI: %s endpoint hit", t.name))

	ctxMain, cancel := context.WithTimeout(t.syncUtils.Ctx, commandTimeout)
	defer func() {
		cancel()
		t.syncUtils.SyncCancel()
		t.syncUtils.Wg.Wait()
	}()

	token, err := userToken(ctxMain, t.broker, c, t.name)
	if err != nil {
		t.log.Error().Err(err).Str(handlerKey, t.name).Msg(errors.TokenIssuingError)
		return err
	}
	thread, err := t.clients.ChatThread(c.String("thread-id"), token)
	if err != nil {
		t.log.Error().Err(err).Str(handlerKey, t.name).Msg(errors.ClientBuildingError)
		return err
	}
	return fn(ctxMain, thread)
}

func (t *threadScoped) fail(err error, threadID, message string) error {
	t.log.Error().Err(err).Str(handlerKey, t.name).Str(threadIDKey, threadID).Msg(message)
	return err
}

// MessageSendCommand defines a new command struct and sets its attributes.
type MessageSendCommand struct{ threadScoped }

// NewMessageSendCommand creates a new command instance.
func NewMessageSendCommand(logger *zerolog.Logger, tokenBroker *broker.Broker, clients *factory.Factory, syncUtils *syncutils.SyncUtils) *MessageSendCommand {
	return &MessageSendCommand{newThreadScoped("chat:message:send", logger, tokenBroker, clients, syncUtils)}
}

// Describe handles command description when invoked.
func (t *MessageSendCommand) Describe() *cli.Command {
	return &cli.Command{
		Category: "chat",
		Name:     t.name,
		Usage:    "Send a message to a chat thread",
		Action:   t.Execute,
		Flags: append(authFlags(), threadFlag(),
			&cli.StringFlag{
				Name:     "content",
				Usage:    "Message content",
				Aliases:  []string{"c"},
				Required: true,
			},
			&cli.StringFlag{
				Name:  "display-name",
				Usage: "Sender display name",
			},
			&cli.BoolFlag{
				Name:  "high",
				Usage: "Send with high priority",
			},
		),
	}
}

// Execute runs the command-associated execution logic.
func (t *MessageSendCommand) Execute(c *cli.Context) error {
	return t.run(c, func(ctx context.Context, thread *chatsdk.ThreadClient) error {
		priority := chatsdk.PriorityNormal
		if c.Bool("high") {
			priority = chatsdk.PriorityHigh
		}
		result, err := thread.SendMessage(ctx, chatsdk.SendChatMessageRequest{
			Content:           c.String("content"),
			Priority:          priority,
			SenderDisplayName: c.String("display-name"),
		})
		if err != nil {
			return t.fail(err, thread.ThreadID(), errors.MessageSendingError)
		}
		fmt.Fprintln(os.Stdout, result.ID)
		return nil
	})
}

// MessageListCommand defines a new command struct and sets its attributes.
type MessageListCommand struct{ threadScoped }

// NewMessageListCommand creates a new command instance.
func NewMessageListCommand(logger *zerolog.Logger, tokenBroker *broker.Broker, clients *factory.Factory, syncUtils *syncutils.SyncUtils) *MessageListCommand {
	return &MessageListCommand{newThreadScoped("chat:message:list", logger, tokenBroker, clients, syncUtils)}
}

// Describe handles command description when invoked.
func (t *MessageListCommand) Describe() *cli.Command {
	return &cli.Command{
		Category: "chat",
		Name:     t.name,
		Usage:    "List the messages of a chat thread",
		Action:   t.Execute,
		Flags: append(authFlags(), threadFlag(),
			&cli.DurationFlag{
				Name:  "since",
				Usage: "Only list messages newer than this duration",
			},
		),
	}
}

// Execute runs the command-associated execution logic.
func (t *MessageListCommand) Execute(c *cli.Context) error {
	return t.run(c, func(ctx context.Context, thread *chatsdk.ThreadClient) error {
		var options *chatsdk.ListMessagesOptions
		if since := c.Duration("since"); since > 0 {
			start := time.Now().Add(-since)
			options = &chatsdk.ListMessagesOptions{StartTime: &start}
		}
		messages, err := collectMessages(ctx, thread, options)
		if err != nil {
			return t.fail(err, thread.ThreadID(), errors.MessageListingError)
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"ID", "Type", "Sender", "Created On", "Content"})
		for _, message := range messages {
			table.Append([]string{message.ID, message.Type, message.SenderDisplayName, formatTime(message.CreatedOn), message.Content})
		}
		table.Render()
		return nil
	})
}

// collectMessages drains every page of the message listing.
func collectMessages(ctx context.Context, thread *chatsdk.ThreadClient, options *chatsdk.ListMessagesOptions) ([]chatsdk.ChatMessage, error) {
	var messages []chatsdk.ChatMessage
	pager := thread.NewListMessagesPager(options)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		messages = append(messages, page.Value...)
	}
	return messages, nil
}
