// Package chat provides CLI commands definitions and execution logic.

package chat

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"acs-toolkit/internal/broker/broker"
	"acs-toolkit/internal/clients/factory"
	"acs-toolkit/internal/command/errors"
	chatsdk "acs-toolkit/internal/communication/chat"
	"acs-toolkit/internal/syncutils"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

// ThreadCommand defines the chat:thread:* commands and sets their attributes.
type ThreadCommand struct {
	log       *zerolog.Logger
	broker    *broker.Broker
	clients   *factory.Factory
	syncUtils *syncutils.SyncUtils
	action    string
}

func newThreadCommand(action string, logger *zerolog.Logger, tokenBroker *broker.Broker, clients *factory.Factory, syncUtils *syncutils.SyncUtils) *ThreadCommand {
	logger.Debug().Msg(fmt.Sprintf("calling initializer of chat:thread:%s command", action))
	return &ThreadCommand{
		log:       logger,
		broker:    tokenBroker,
		clients:   clients,
		syncUtils: syncUtils,
		action:    action,
	}
}

// ThreadCreateCommand wraps chat:thread:create.
type ThreadCreateCommand struct{ *ThreadCommand }

// ThreadGetCommand wraps chat:thread:get.
type ThreadGetCommand struct{ *ThreadCommand }

// ThreadListCommand wraps chat:thread:list.
type ThreadListCommand struct{ *ThreadCommand }

// ThreadDeleteCommand wraps chat:thread:delete.
type ThreadDeleteCommand struct{ *ThreadCommand }

// NewThreadCreateCommand creates a new command instance.
func NewThreadCreateCommand(logger *zerolog.Logger, tokenBroker *broker.Broker, clients *factory.Factory, syncUtils *syncutils.SyncUtils) *ThreadCreateCommand {
	return &ThreadCreateCommand{newThreadCommand("create", logger, tokenBroker, clients, syncUtils)}
}

// NewThreadGetCommand creates a new command instance.
func NewThreadGetCommand(logger *zerolog.Logger, tokenBroker *broker.Broker, clients *factory.Factory, syncUtils *syncutils.SyncUtils) *ThreadGetCommand {
	return &ThreadGetCommand{newThreadCommand("get", logger, tokenBroker, clients, syncUtils)}
}

// NewThreadListCommand creates a new command instance.
func NewThreadListCommand(logger *zerolog.Logger, tokenBroker *broker.Broker, clients *factory.Factory, syncUtils *syncutils.SyncUtils) *ThreadListCommand {
	return &ThreadListCommand{newThreadCommand("list", logger, tokenBroker, clients, syncUtils)}
}

// NewThreadDeleteCommand creates a new command instance.
func NewThreadDeleteCommand(logger *zerolog.Logger, tokenBroker *broker.Broker, clients *factory.Factory, syncUtils *syncutils.SyncUtils) *ThreadDeleteCommand {
	return &ThreadDeleteCommand{newThreadCommand("delete", logger, tokenBroker, clients, syncUtils)}
}

// Describe handles command description when invoked.
func (t *ThreadCreateCommand) Describe() *cli.Command {
	return &cli.Command{
		Category: "chat",
		Name:     "chat:thread:create",
		Usage:    "Create a chat thread",
		Action:   t.Execute,
		Flags: append(authFlags(),
			&cli.StringFlag{
				Name:     "topic",
				Usage:    "Thread topic",
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:     "member",
				Usage:    "Member as `id` or `id=display name`, repeatable",
				Aliases:  []string{"m"},
				Required: true,
			},
		),
	}
}

// Describe handles command description when invoked.
func (t *ThreadGetCommand) Describe() *cli.Command {
	return &cli.Command{
		Category: "chat",
		Name:     "chat:thread:get",
		Usage:    "Show a chat thread and its members",
		Action:   t.Execute,
		Flags:    append(authFlags(), threadFlag()),
	}
}

// Describe handles command description when invoked.
func (t *ThreadListCommand) Describe() *cli.Command {
	return &cli.Command{
		Category: "chat",
		Name:     "chat:thread:list",
		Usage:    "List the chat threads of the acting user",
		Action:   t.Execute,
		Flags: append(authFlags(),
			&cli.IntFlag{
				Name:  "page-size",
				Usage: "Threads per page",
			},
		),
	}
}

// Describe handles command description when invoked.
func (t *ThreadDeleteCommand) Describe() *cli.Command {
	return &cli.Command{
		Category: "chat",
		Name:     "chat:thread:delete",
		Usage:    "Delete a chat thread",
		Action:   t.Execute,
		Flags:    append(authFlags(), threadFlag()),
	}
}

// run prepares the context and chat client, then hands over to fn.
func (t *ThreadCommand) run(c *cli.Context, fn func(ctx context.Context, client *chatsdk.Client) error) error {
	handler := "chat:thread:" + t.action
	t.log.Info().Str(handlerKey, handler).Msg(fmt.Sprintf("CLI: %s endpoint hit", handler))

	ctxMain, cancel := context.WithTimeout(t.syncUtils.Ctx, commandTimeout)
	defer func() {
		cancel()
		t.syncUtils.SyncCancel()
		t.syncUtils.Wg.Wait()
	}()

	token, err := userToken(ctxMain, t.broker, c, handler)
	if err != nil {
		t.log.Error().Err(err).Str(handlerKey, handler).Msg(errors.TokenIssuingError)
		return err
	}
	client, err := t.clients.Chat(token)
	if err != nil {
		t.log.Error().Err(err).Str(handlerKey, handler).Msg(errors.ClientBuildingError)
		return err
	}
	return fn(ctxMain, client)
}

// Execute runs the command-associated execution logic.
func (t *ThreadCreateCommand) Execute(c *cli.Context) error {
	return t.run(c, func(ctx context.Context, client *chatsdk.Client) error {
		result, err := client.CreateChatThread(ctx, chatsdk.CreateChatThreadRequest{
			Topic:   c.String("topic"),
			Members: parseMembers(c.StringSlice("member")),
		}, nil)
		if err != nil {
			t.log.Error().Err(err).Str(handlerKey, "chat:thread:create").Msg(errors.ThreadCreationError)
			return err
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Thread ID", "Member", "Status", "Message"})
		if len(result.MultipleStatus) == 0 {
			table.Append([]string{result.ID, "", "", ""})
		}
		for _, status := range result.MultipleStatus {
			table.Append([]string{result.ID, status.ID, strconv.Itoa(int(status.StatusCode)), status.Message})
		}
		table.Render()
		return nil
	})
}

// Execute runs the command-associated execution logic.
func (t *ThreadGetCommand) Execute(c *cli.Context) error {
	return t.run(c, func(ctx context.Context, client *chatsdk.Client) error {
		threadID := c.String("thread-id")
		thread, err := client.GetChatThread(ctx, threadID)
		if err != nil {
			t.log.Error().Err(err).Str(handlerKey, "chat:thread:get").Str(threadIDKey, threadID).Msg(errors.ThreadReadingError)
			return err
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Thread ID", "Topic", "Created By", "Created On", "Member", "Display Name"})
		for _, member := range thread.Members {
			table.Append([]string{thread.ID, thread.Topic, thread.CreatedBy, formatTime(thread.CreatedOn), member.ID, member.DisplayName})
		}
		if len(thread.Members) == 0 {
			table.Append([]string{thread.ID, thread.Topic, thread.CreatedBy, formatTime(thread.CreatedOn), "", ""})
		}
		table.Render()
		return nil
	})
}

// Execute runs the command-associated execution logic.
func (t *ThreadListCommand) Execute(c *cli.Context) error {
	return t.run(c, func(ctx context.Context, client *chatsdk.Client) error {
		var options *chatsdk.ListChatThreadsOptions
		if size := c.Int("page-size"); size > 0 {
			pageSize := int32(size)
			options = &chatsdk.ListChatThreadsOptions{MaxPageSize: &pageSize}
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Thread ID", "Topic", "Deleted", "Last Message"})
		pager := client.NewListChatThreadsPager(options)
		for pager.More() {
			page, err := pager.NextPage(ctx)
			if err != nil {
				t.log.Error().Err(err).Str(handlerKey, "chat:thread:list").Msg(errors.ThreadListingError)
				return err
			}
			for _, thread := range page.Value {
				table.Append([]string{thread.ID, thread.Topic, strconv.FormatBool(thread.IsDeleted), formatTime(thread.LastMessageReceivedOn)})
			}
		}
		table.Render()
		return nil
	})
}

// Execute runs the command-associated execution logic.
func (t *ThreadDeleteCommand) Execute(c *cli.Context) error {
	return t.run(c, func(ctx context.Context, client *chatsdk.Client) error {
		threadID := c.String("thread-id")
		if err := client.DeleteChatThread(ctx, threadID); err != nil {
			t.log.Error().Err(err).Str(handlerKey, "chat:thread:delete").Str(threadIDKey, threadID).Msg(errors.ThreadDeletionError)
			return err
		}
		t.log.Info().Str(handlerKey, "chat:thread:delete").Str(threadIDKey, threadID).Msg("thread deleted")
		return nil
	})
}
