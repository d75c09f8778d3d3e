package commands_test

import (
	"testing"

	"github.com/fivetwenty-io/vra-client/cmd/vra/commands"
	"github.com/stretchr/testify/assert"
)

func TestNewRequestsCommand(t *testing.T) {
	t.Parallel()

	cmd := commands.NewRequestsCommand()
	assert.Equal(t, "requests", cmd.Use)
	assert.Equal(t, []string{"request", "reqs"}, cmd.Aliases)
	assert.Equal(t, "Manage provisioning requests", cmd.Short)

	subcommands := cmd.Commands()
	assert.Len(t, subcommands, 4)

	commandNames := make([]string, 0, len(subcommands))
	for _, subcmd := range subcommands {
		commandNames = append(commandNames, subcmd.Name())
	}

	assert.Contains(t, commandNames, "list")
	assert.Contains(t, commandNames, "get")
	assert.Contains(t, commandNames, "watch")
	assert.Contains(t, commandNames, "resource-views")
}

func TestRequestsListCommand(t *testing.T) {
	t.Parallel()

	root := commands.NewRequestsCommand()
	cmd := findSubcommand(root, "list")
	assert.Equal(t, "list", cmd.Use)
	assert.Equal(t, "List provisioning requests", cmd.Short)
	assert.NotNil(t, cmd.RunE)

	assert.NotNil(t, cmd.Flags().Lookup("all"))
	assert.NotNil(t, cmd.Flags().Lookup("page-size"))
	assert.NotNil(t, cmd.Flags().Lookup("filter"))
}

func TestRequestsWatchCommand(t *testing.T) {
	t.Parallel()

	root := commands.NewRequestsCommand()
	cmd := findSubcommand(root, "watch")
	assert.Equal(t, "watch REQUEST_ID", cmd.Use)
	assert.Equal(t, "Watch a request until it completes", cmd.Short)
	assert.NotNil(t, cmd.RunE)
	assert.NotNil(t, cmd.Args)
}
