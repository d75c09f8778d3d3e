package commands_test

import (
	"testing"

	"github.com/fivetwenty-io/vra-client/cmd/vra/commands"
	"github.com/stretchr/testify/assert"
)

func TestNewCatalogCommand(t *testing.T) {
	t.Parallel()

	cmd := commands.NewCatalogCommand()
	assert.Equal(t, "catalog", cmd.Use)
	assert.Equal(t, "Browse the entitled service catalog", cmd.Short)

	subcommands := cmd.Commands()
	assert.Len(t, subcommands, 5)

	commandNames := make([]string, 0, len(subcommands))
	for _, subcmd := range subcommands {
		commandNames = append(commandNames, subcmd.Name())
	}

	assert.Contains(t, commandNames, "items")
	assert.Contains(t, commandNames, "views")
	assert.Contains(t, commandNames, "get")
	assert.Contains(t, commandNames, "template")
	assert.Contains(t, commandNames, "request")
}

func TestCatalogItemsCommand(t *testing.T) {
	t.Parallel()

	root := commands.NewCatalogCommand()
	cmd := findSubcommand(root, "items")
	assert.Equal(t, "items", cmd.Use)
	assert.Equal(t, "List entitled catalog items", cmd.Short)
	assert.NotNil(t, cmd.RunE)

	assert.NotNil(t, cmd.Flags().Lookup("all"))
	assert.NotNil(t, cmd.Flags().Lookup("page-size"))
	assert.NotNil(t, cmd.Flags().Lookup("service"))
	assert.NotNil(t, cmd.Flags().Lookup("on-behalf-of"))
	assert.NotNil(t, cmd.Flags().Lookup("subtenant"))

	pageSizeFlag := cmd.Flags().Lookup("page-size")
	assert.Equal(t, "50", pageSizeFlag.DefValue)
}

func TestCatalogTemplateCommand(t *testing.T) {
	t.Parallel()

	root := commands.NewCatalogCommand()
	cmd := findSubcommand(root, "template")
	assert.Equal(t, "template ITEM_NAME_OR_ID", cmd.Use)
	assert.Equal(t, "Show a catalog item request template", cmd.Short)
	assert.NotNil(t, cmd.RunE)
	assert.NotNil(t, cmd.Args)
}

func TestCatalogRequestCommand(t *testing.T) {
	t.Parallel()

	root := commands.NewCatalogCommand()
	cmd := findSubcommand(root, "request")
	assert.Equal(t, "request ITEM_NAME_OR_ID", cmd.Use)
	assert.Equal(t, "Request a catalog item", cmd.Short)
	assert.NotNil(t, cmd.RunE)
	assert.NotNil(t, cmd.Args)

	flags := []string{"parameters", "business-group", "requested-for", "description", "reasons", "wait"}
	for _, flagName := range flags {
		flag := cmd.Flags().Lookup(flagName)
		assert.NotNil(t, flag, "Flag %s should exist", flagName)
	}

	waitFlag := cmd.Flags().Lookup("wait")
	assert.Equal(t, "false", waitFlag.DefValue)
}
