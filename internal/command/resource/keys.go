// Package resource provides CLI commands definitions and execution logic.

package resource

import (
	"context"
	"fmt"
	"os"
	"strings"

	"acs-toolkit/internal/clients/factory"
	"acs-toolkit/internal/command/errors"
	"acs-toolkit/internal/config"
	"acs-toolkit/internal/management/armcommunication"
	"acs-toolkit/internal/syncutils"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

// KeysCommand defines a new command struct and sets its attributes.
type KeysCommand struct{ managed }

// NewKeysCommand creates a new command instance.
func NewKeysCommand(logger *zerolog.Logger, cfg *config.Config, clients *factory.Factory, syncUtils *syncutils.SyncUtils) *KeysCommand {
	return &KeysCommand{newManaged("resource:keys", logger, cfg, clients, syncUtils)}
}

// Describe handles command description when invoked.
func (t *KeysCommand) Describe() *cli.Command {
	return &cli.Command{
		Category: "resource",
		Name:     t.name,
		Usage:    "Show or regenerate the access keys of a Communication Service",
		Action:   t.Execute,
		Flags: append(resourceFlags(),
			&cli.StringFlag{
				Name:  "regenerate",
				Usage: "Regenerate the `primary` or `secondary` key first",
			},
		),
	}
}

// Execute runs the command-associated execution logic.
func (t *KeysCommand) Execute(c *cli.Context) error {
	return t.run(func(ctx context.Context) error {
		group, name := c.String("resource-group"), c.String("name")
		client, err := t.clients.Services()
		if err != nil {
			return t.fail(err, name, errors.ClientBuildingError)
		}

		var keys armcommunication.ServiceKeys
		if regenerate := c.String("regenerate"); regenerate != "" {
			keyType, err := parseKeyType(regenerate)
			if err != nil {
				return err
			}
			keys, err = client.RegenerateKey(ctx, group, name, keyType)
			if err != nil {
				return t.fail(err, name, errors.KeysReadingError)
			}
		} else {
			keys, err = client.ListKeys(ctx, group, name)
			if err != nil {
				return t.fail(err, name, errors.KeysReadingError)
			}
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetAutoWrapText(false)
		table.SetHeader([]string{"Key", "Value", "Connection String"})
		table.Append([]string{string(armcommunication.KeyTypePrimary), keys.PrimaryKey, keys.PrimaryConnectionString})
		table.Append([]string{string(armcommunication.KeyTypeSecondary), keys.SecondaryKey, keys.SecondaryConnectionString})
		table.Render()
		return nil
	})
}

func parseKeyType(raw string) (armcommunication.KeyType, error) {
	switch strings.ToLower(raw) {
	case "primary":
		return armcommunication.KeyTypePrimary, nil
	case "secondary":
		return armcommunication.KeyTypeSecondary, nil
	default:
		return "", fmt.Errorf("invalid key type %s", raw)
	}
}
