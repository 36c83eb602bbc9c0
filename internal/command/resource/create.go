// Package resource provides CLI commands definitions and execution logic.

package resource

import (
	"context"
	"os"

	"acs-toolkit/internal/clients/factory"
	"acs-toolkit/internal/command/errors"
	"acs-toolkit/internal/config"
	"acs-toolkit/internal/management/armcommunication"
	"acs-toolkit/internal/syncutils"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

// CreateCommand defines a new command struct and sets its attributes.
type CreateCommand struct{ managed }

// NewCreateCommand creates a new command instance.
func NewCreateCommand(logger *zerolog.Logger, cfg *config.Config, clients *factory.Factory, syncUtils *syncutils.SyncUtils) *CreateCommand {
	return &CreateCommand{newManaged("resource:create", logger, cfg, clients, syncUtils)}
}

// Describe handles command description when invoked.
func (t *CreateCommand) Describe() *cli.Command {
	return &cli.Command{
		Category: "resource",
		Name:     t.name,
		Usage:    "Create or update a Communication Service and wait until it is provisioned",
		Action:   t.Execute,
		Flags: append(resourceFlags(),
			&cli.StringFlag{
				Name:  "data-location",
				Usage: "Data location of the resource",
				Value: "United States",
			},
			&cli.StringSliceFlag{
				Name:  "tag",
				Usage: "Resource tag as `key=value`, repeatable",
			},
			&cli.StringFlag{
				Name:  "notification-hub-id",
				Usage: "Notification Hub resource ID to link once provisioned",
			},
			&cli.StringFlag{
				Name:  "notification-hub-connection-string",
				Usage: "Connection string of the linked Notification Hub",
			},
		),
	}
}

// Execute runs the command-associated execution logic.
func (t *CreateCommand) Execute(c *cli.Context) error {
	return t.run(func(ctx context.Context) error {
		group, name := c.String("resource-group"), c.String("name")
		client, err := t.clients.Services()
		if err != nil {
			return t.fail(err, name, errors.ClientBuildingError)
		}

		_, err = client.CreateOrUpdate(ctx, group, name, armcommunication.ServiceResource{
			Tags:       parseTags(c.StringSlice("tag")),
			Properties: &armcommunication.ServiceProperties{DataLocation: c.String("data-location")},
		})
		if err != nil {
			return t.fail(err, name, errors.ResourceCreationError)
		}

		resource, err := client.WaitForProvisioning(ctx, group, name, &armcommunication.WaitForProvisioningOptions{
			Frequency: t.cfg.Management.PollFrequency,
		})
		if err != nil {
			return t.fail(err, name, errors.ResourceCreationError)
		}

		if hubID := c.String("notification-hub-id"); hubID != "" {
			_, err := client.LinkNotificationHub(ctx, group, name, armcommunication.LinkNotificationHubParameters{
				ResourceID:       hubID,
				ConnectionString: c.String("notification-hub-connection-string"),
			})
			if err != nil {
				return t.fail(err, name, errors.ResourceCreationError)
			}
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Name", "Resource Group", "Location", "Data Location", "Host Name", "State"})
		table.Append(resourceRow(resource))
		table.Render()
		return nil
	})
}

// DeleteCommand defines a new command struct and sets its attributes.
type DeleteCommand struct{ managed }

// NewDeleteCommand creates a new command instance.
func NewDeleteCommand(logger *zerolog.Logger, cfg *config.Config, clients *factory.Factory, syncUtils *syncutils.SyncUtils) *DeleteCommand {
	return &DeleteCommand{newManaged("resource:delete", logger, cfg, clients, syncUtils)}
}

// Describe handles command description when invoked.
func (t *DeleteCommand) Describe() *cli.Command {
	return &cli.Command{
		Category: "resource",
		Name:     t.name,
		Usage:    "Delete a Communication Service",
		Action:   t.Execute,
		Flags:    resourceFlags(),
	}
}

// Execute runs the command-associated execution logic.
func (t *DeleteCommand) Execute(c *cli.Context) error {
	return t.run(func(ctx context.Context) error {
		group, name := c.String("resource-group"), c.String("name")
		client, err := t.clients.Services()
		if err != nil {
			return t.fail(err, name, errors.ClientBuildingError)
		}
		if err := client.Delete(ctx, group, name); err != nil {
			return t.fail(err, name, errors.ResourceDeletionError)
		}
		t.log.Info().Str(handlerKey, t.name).Str(resourceKey, name).Msg("resource deleted")
		return nil
	})
}
