// Package chat provides CLI commands definitions and execution logic.

package chat

import (
	"context"
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

// MemberListCommand defines a new command struct and sets its attributes.
type MemberListCommand struct{ threadScoped }

// NewMemberListCommand creates a new command instance.
func NewMemberListCommand(logger *zerolog.Logger, tokenBroker *broker.Broker, clients *factory.Factory, syncUtils *syncutils.SyncUtils) *MemberListCommand {
	return &MemberListCommand{newThreadScoped("chat:member:list", logger, tokenBroker, clients, syncUtils)}
}

// Describe handles command description when invoked.
func (t *MemberListCommand) Describe() *cli.Command {
	return &cli.Command{
		Category: "chat",
		Name:     t.name,
		Usage:    "List the members of a chat thread",
		Action:   t.Execute,
		Flags:    append(authFlags(), threadFlag()),
	}
}

// Execute runs the command-associated execution logic.
func (t *MemberListCommand) Execute(c *cli.Context) error {
	return t.run(c, func(ctx context.Context, thread *chatsdk.ThreadClient) error {
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Member", "Display Name", "History Shared Since"})
		pager := thread.NewListMembersPager(nil)
		for pager.More() {
			page, err := pager.NextPage(ctx)
			if err != nil {
				return t.fail(err, thread.ThreadID(), errors.MemberListingError)
			}
			for _, member := range page.Value {
				table.Append([]string{member.ID, member.DisplayName, formatTime(member.ShareHistoryTime)})
			}
		}
		table.Render()
		return nil
	})
}

// MemberAddCommand defines a new command struct and sets its attributes.
type MemberAddCommand struct{ threadScoped }

// NewMemberAddCommand creates a new command instance.
func NewMemberAddCommand(logger *zerolog.Logger, tokenBroker *broker.Broker, clients *factory.Factory, syncUtils *syncutils.SyncUtils) *MemberAddCommand {
	return &MemberAddCommand{newThreadScoped("chat:member:add", logger, tokenBroker, clients, syncUtils)}
}

// Describe handles command description when invoked.
func (t *MemberAddCommand) Describe() *cli.Command {
	return &cli.Command{
		Category: "chat",
		Name:     t.name,
		Usage:    "Add members to a chat thread",
		Action:   t.Execute,
		Flags: append(authFlags(), threadFlag(),
			&cli.StringSliceFlag{
				Name:     "member",
				Usage:    "Member as `id` or `id=display name`, repeatable",
				Aliases:  []string{"m"},
				Required: true,
			},
		),
	}
}

// Execute runs the command-associated execution logic.
func (t *MemberAddCommand) Execute(c *cli.Context) error {
	return t.run(c, func(ctx context.Context, thread *chatsdk.ThreadClient) error {
		result, err := thread.AddMembers(ctx, parseMembers(c.StringSlice("member")))
		if err != nil {
			return t.fail(err, thread.ThreadID(), errors.MemberAddingError)
		}
		if len(result.Errors) == 0 {
			t.log.Info().Str(handlerKey, t.name).Str(threadIDKey, thread.ThreadID()).Msg("members added")
			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Member", "Status", "Message"})
		for _, status := range result.Errors {
			table.Append([]string{status.ID, strconv.Itoa(int(status.StatusCode)), status.Message})
		}
		table.Render()
		return nil
	})
}
