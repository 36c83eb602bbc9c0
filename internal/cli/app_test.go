package cli

import (
	"testing"

	"acs-toolkit/internal/command"

	"github.com/stretchr/testify/assert"
	"github.com/urfave/cli/v2"
)

type stubCommand struct{ name string }

func (s stubCommand) Describe() *cli.Command {
	return &cli.Command{Name: s.name, Action: s.Execute}
}

func (s stubCommand) Execute(*cli.Context) error { return nil }

func TestNewApp(t *testing.T) {
	app := NewApp([]command.Command{stubCommand{"identity:token"}, stubCommand{"http:serve"}})

	assert.Equal(t, "acs-toolkit", app.Name)
	assert.Len(t, app.Commands, 2)
	assert.NotNil(t, app.Command("http:serve"))
	assert.NoError(t, app.Run([]string{"acs-toolkit", "identity:token"}))
}
