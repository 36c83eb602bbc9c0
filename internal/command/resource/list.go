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

// ListCommand defines a new command struct and sets its attributes.
type ListCommand struct{ managed }

// NewListCommand creates a new command instance.
func NewListCommand(logger *zerolog.Logger, cfg *config.Config, clients *factory.Factory, syncUtils *syncutils.SyncUtils) *ListCommand {
	return &ListCommand{newManaged("resource:list", logger, cfg, clients, syncUtils)}
}

// Describe handles command description when invoked.
func (t *ListCommand) Describe() *cli.Command {
	return &cli.Command{
		Category: "resource",
		Name:     t.name,
		Usage:    "List the Communication Services of the subscription",
		Action:   t.Execute,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "resource-group",
				Usage:   "Only list resources of this resource group",
				Aliases: []string{"g"},
			},
		},
	}
}

// Execute runs the command-associated execution logic.
func (t *ListCommand) Execute(c *cli.Context) error {
	return t.run(func(ctx context.Context) error {
		client, err := t.clients.Services()
		if err != nil {
			return t.fail(err, "", errors.ClientBuildingError)
		}

		pager := client.NewListBySubscriptionPager()
		if group := c.String("resource-group"); group != "" {
			pager = client.NewListByResourceGroupPager(group)
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Name", "Resource Group", "Location", "Data Location", "Host Name", "State"})
		for pager.More() {
			page, err := pager.NextPage(ctx)
			if err != nil {
				return t.fail(err, "", errors.ResourceListingError)
			}
			for _, resource := range page.Value {
				table.Append(resourceRow(resource))
			}
		}
		table.Render()
		return nil
	})
}

func resourceRow(resource armcommunication.ServiceResource) []string {
	var dataLocation, hostName string
	if resource.Properties != nil {
		dataLocation = resource.Properties.DataLocation
		hostName = resource.Properties.HostName
	}
	return []string{
		resource.Name,
		armcommunication.ResourceGroupFromID(resource.ID),
		resource.Location,
		dataLocation,
		hostName,
		string(resource.State()),
	}
}
