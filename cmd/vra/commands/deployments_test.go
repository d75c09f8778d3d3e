package commands_test

import (
	"testing"

	"github.com/fivetwenty-io/vra-client/cmd/vra/commands"
	"github.com/stretchr/testify/assert"
)

func TestNewDeploymentsCommand(t *testing.T) {
	t.Parallel()

	cmd := commands.NewDeploymentsCommand()
	assert.Equal(t, "deployments", cmd.Use)
	assert.Equal(t, []string{"deployment", "dep"}, cmd.Aliases)
	assert.Equal(t, "Manage deployments", cmd.Short)

	subcommands := cmd.Commands()
	assert.Len(t, subcommands, 8)

	commandNames := make([]string, 0, len(subcommands))
	for _, subcmd := range subcommands {
		commandNames = append(commandNames, subcmd.Name())
	}

	assert.Contains(t, commandNames, "show")
	assert.Contains(t, commandNames, "operations")
	assert.Contains(t, commandNames, "run")
	assert.Contains(t, commandNames, "power-on")
	assert.Contains(t, commandNames, "power-off")
	assert.Contains(t, commandNames, "reboot")
	assert.Contains(t, commandNames, "destroy")
	assert.Contains(t, commandNames, "scale-out")
}

func TestDeploymentsShowCommand(t *testing.T) {
	t.Parallel()

	root := commands.NewDeploymentsCommand()
	cmd := findSubcommand(root, "show")
	assert.Equal(t, "show RESOURCE_ID", cmd.Use)
	assert.Equal(t, "Show a deployment tree", cmd.Short)
	assert.NotNil(t, cmd.RunE)
	assert.NotNil(t, cmd.Args)
}

func TestDeploymentsRunCommand(t *testing.T) {
	t.Parallel()

	root := commands.NewDeploymentsCommand()
	cmd := findSubcommand(root, "run")
	assert.Equal(t, "run RESOURCE_ID OPERATION_NAME", cmd.Use)
	assert.Equal(t, "Run a day-2 operation", cmd.Short)
	assert.NotNil(t, cmd.RunE)
	assert.NotNil(t, cmd.Args)

	assert.NotNil(t, cmd.Flags().Lookup("parameters"))
	assert.NotNil(t, cmd.Flags().Lookup("force"))
}

func TestDeploymentsDestroyCommand(t *testing.T) {
	t.Parallel()

	root := commands.NewDeploymentsCommand()
	cmd := findSubcommand(root, "destroy")
	assert.Equal(t, "destroy RESOURCE_ID", cmd.Use)
	assert.Equal(t, "Destroy a deployment", cmd.Short)
	assert.NotNil(t, cmd.RunE)

	forceFlag := cmd.Flags().Lookup("force")
	assert.NotNil(t, forceFlag)
	assert.Equal(t, "false", forceFlag.DefValue)
}

func TestDeploymentsScaleOutCommand(t *testing.T) {
	t.Parallel()

	root := commands.NewDeploymentsCommand()
	cmd := findSubcommand(root, "scale-out")
	assert.Equal(t, "scale-out RESOURCE_ID CLUSTER_SIZE", cmd.Use)
	assert.Equal(t, "Scale out a deployment", cmd.Short)
	assert.NotNil(t, cmd.RunE)
	assert.NotNil(t, cmd.Args)
}
