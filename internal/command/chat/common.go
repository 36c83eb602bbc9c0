package chat

import (
	"context"
	"strings"
	"time"

	"acs-toolkit/internal/broker/broker"
	chatsdk "acs-toolkit/internal/communication/chat"
	"acs-toolkit/internal/communication/identity"
	"acs-toolkit/internal/constants"

	"github.com/urfave/cli/v2"
)

const (
	commandTimeout = 60 * time.Second
	handlerKey     = "cli_command"
	threadIDKey    = "threadID"
)

// authFlags select whose chat token a command acts with.
func authFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "token",
			Usage: "Chat user access token, defaults to ACS_CHAT_USER_TOKEN",
		},
		&cli.StringFlag{
			Name:  "as-user",
			Usage: "Issue a chat token for this user ID through the token broker",
		},
	}
}

func threadFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "thread-id",
		Usage:    "Chat thread ID",
		Aliases:  []string{"t"},
		Required: true,
	}
}

// userToken returns the token given with --token, or a fresh one for --as-user.
func userToken(ctx context.Context, tokenBroker *broker.Broker, c *cli.Context, handler string) (string, error) {
	asUser := c.String("as-user")
	if asUser == "" {
		return c.String("token"), nil
	}
	grant, err := tokenBroker.IssueToken(ctx, asUser, []identity.TokenScope{identity.ScopeChat}, handler)
	if err != nil {
		return "", err
	}
	return grant.Token, nil
}

// parseMembers reads `id` or `id=display name` entries.
func parseMembers(raw []string) []chatsdk.ChatThreadMember {
	members := make([]chatsdk.ChatThreadMember, 0, len(raw))
	for _, entry := range raw {
		id, name, _ := strings.Cut(entry, "=")
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		members = append(members, chatsdk.ChatThreadMember{ID: id, DisplayName: strings.TrimSpace(name)})
	}
	return members
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return constants.NA
	}
	return t.Format(time.RFC3339)
}
