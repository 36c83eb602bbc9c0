// Package resource provides CLI commands definitions and execution logic.

package resource

import (
	"context"
	"os"
	"strings"

	"acs-toolkit/internal/clients/factory"
	"acs-toolkit/internal/command/errors"
	"acs-toolkit/internal/config"
	"acs-toolkit/internal/syncutils"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

// OperationsCommand defines a new command struct and sets its attributes.
type OperationsCommand struct{ managed }

// NewOperationsCommand creates a new command instance.
func NewOperationsCommand(logger *zerolog.Logger, cfg *config.Config, clients *factory.Factory, syncUtils *syncutils.SyncUtils) *OperationsCommand {
	return &OperationsCommand{newManaged("resource:operations", logger, cfg, clients, syncUtils)}
}

// Describe handles command description when invoked.
func (t *OperationsCommand) Describe() *cli.Command {
	return &cli.Command{
		Category: "resource",
		Name:     t.name,
		Usage:    "List the operations exposed by the Communication resource provider",
		Action:   t.Execute,
	}
}

// Execute runs the command-associated execution logic.
func (t *OperationsCommand) Execute(_ *cli.Context) error {
	return t.run(func(ctx context.Context) error {
		client, err := t.clients.Operations()
		if err != nil {
			return t.fail(err, "", errors.ClientBuildingError)
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Operation", "Description", "Origin"})
		pager := client.NewListPager()
		for pager.More() {
			page, err := pager.NextPage(ctx)
			if err != nil {
				return t.fail(err, "", errors.OperationsListingError)
			}
			for _, operation := range page.Value {
				var description string
				if operation.Display != nil {
					description = operation.Display.Description
				}
				table.Append([]string{operation.Name, description, operation.Origin})
			}
		}
		table.Render()
		return nil
	})
}

// parseTags reads `key=value` entries; a bare key gets an empty value.
func parseTags(raw []string) map[string]string {
	if len(raw) == 0 {
		return nil
	}
	tags := make(map[string]string, len(raw))
	for _, entry := range raw {
		key, value, _ := strings.Cut(entry, "=")
		if key = strings.TrimSpace(key); key != "" {
			tags[key] = strings.TrimSpace(value)
		}
	}
	return tags
}
