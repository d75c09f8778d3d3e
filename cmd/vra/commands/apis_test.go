package commands_test

import (
	"testing"

	"github.com/fivetwenty-io/vra-client/cmd/vra/commands"
	"github.com/stretchr/testify/assert"
)

func TestNewAPIsCommand(t *testing.T) {
	t.Parallel()

	cmd := commands.NewAPIsCommand()
	assert.Equal(t, "apis", cmd.Use)
	assert.Equal(t, []string{"api"}, cmd.Aliases)
	assert.Equal(t, "Manage vRealize Automation API endpoints", cmd.Short)

	subcommands := cmd.Commands()
	assert.Len(t, subcommands, 4)

	commandNames := make([]string, 0, len(subcommands))
	for _, subcmd := range subcommands {
		commandNames = append(commandNames, subcmd.Name())
	}

	assert.Contains(t, commandNames, "add")
	assert.Contains(t, commandNames, "list")
	assert.Contains(t, commandNames, "delete")
	assert.Contains(t, commandNames, "target")
}

func TestAPIsAddCommand(t *testing.T) {
	t.Parallel()

	root := commands.NewAPIsCommand()
	cmd := findSubcommand(root, "add")
	assert.Equal(t, "add NAME ENDPOINT", cmd.Use)
	assert.Equal(t, "Add a new vRA API endpoint", cmd.Short)
	assert.NotNil(t, cmd.RunE)
	assert.NotNil(t, cmd.Args)

	assert.NotNil(t, cmd.Flags().Lookup("tenant"))
	assert.NotNil(t, cmd.Flags().Lookup("skip-ssl-validation"))
}

func TestResolveAPIEndpointRequiresInput(t *testing.T) {
	t.Parallel()

	_, err := commands.ResolveAPIEndpoint("")
	assert.ErrorIs(t, err, commands.ErrAPINameOrEndpointRequired)
}

func TestResolveAPIEndpointPassesThroughURLs(t *testing.T) {
	t.Parallel()

	endpoint, err := commands.ResolveAPIEndpoint("https://vra.example.com")
	assert.NoError(t, err)
	assert.Equal(t, "https://vra.example.com", endpoint)
}
