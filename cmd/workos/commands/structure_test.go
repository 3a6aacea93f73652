package commands

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func subcommandNames(cmd *cobra.Command) []string {
	var names []string
	for _, subcmd := range cmd.Commands() {
		names = append(names, subcmd.Name())
	}

	return names
}

func TestCommandGroups(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		cmd         *cobra.Command
		use         string
		aliases     []string
		subcommands []string
	}{
		{"fga", NewFGACommand(), "fga", nil,
			[]string{"resources", "resource-types", "warrants", "policies", "schema", "check", "query"}},
		{"orgs", NewOrgsCommand(), "orgs", []string{"organizations", "org"},
			[]string{"list", "get", "create", "update", "delete"}},
		{"domains", NewDomainsCommand(), "domains", []string{"domain"},
			[]string{"create", "get", "verify", "delete"}},
		{"users", NewUsersCommand(), "users", []string{"user"}, []string{"list", "get"}},
		{"memberships", NewMembershipsCommand(), "memberships", []string{"membership"},
			[]string{"list", "get", "create", "update", "deactivate", "reactivate", "delete"}},
		{"directories", NewDirectoriesCommand(), "directories", []string{"directory", "dsync"},
			[]string{"list", "get", "delete", "users", "groups"}},
		{"mfa", NewMFACommand(), "mfa", nil, []string{"enroll", "challenge", "verify", "get", "delete"}},
		{"portal", NewPortalCommand(), "portal", nil, []string{"link"}},
		{"widgets", NewWidgetsCommand(), "widgets", nil, []string{"token"}},
		{"events", NewEventsCommand(), "events", []string{"event"}, []string{"list", "parse"}},
		{"auth", NewAuthCommand(), "auth", nil, []string{"device-login", "status", "logout"}},
		{"config", NewConfigCommand(), "config", nil, []string{"show", "set", "login"}},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.use, testCase.cmd.Use)
			assert.Equal(t, testCase.aliases, testCase.cmd.Aliases)
			assert.NotEmpty(t, testCase.cmd.Short)
			assert.ElementsMatch(t, testCase.subcommands, subcommandNames(testCase.cmd))
		})
	}
}

func TestFGAResourcesCommands(t *testing.T) {
	t.Parallel()

	resources := findSubcommand(NewFGACommand(), "resources")
	require.NotNil(t, resources)
	assert.Equal(t, []string{"resource", "res"}, resources.Aliases)

	list := findSubcommand(resources, "list")
	require.NotNil(t, list)

	for _, flagName := range []string{"type", "search", "limit", "before", "after", "order", "all"} {
		assert.NotNil(t, list.Flags().Lookup(flagName), "Flag %s should exist", flagName)
	}

	create := findSubcommand(resources, "create")
	require.NotNil(t, create)
	assert.Equal(t, "create TYPE ID", create.Use)
	assert.NotNil(t, create.Flags().Lookup("meta"))

	batch := findSubcommand(resources, "batch")
	require.NotNil(t, batch)

	fileFlag := batch.Flags().Lookup("file")
	require.NotNil(t, fileFlag)
	assert.Equal(t, "f", fileFlag.Shorthand)
}

func TestFGACheckCommand(t *testing.T) {
	t.Parallel()

	check := findSubcommand(NewFGACommand(), "check")
	require.NotNil(t, check)
	assert.NotNil(t, check.RunE)

	exitCode := check.Flags().Lookup("exit-code")
	require.NotNil(t, exitCode)
	assert.Equal(t, "false", exitCode.DefValue)

	require.Error(t, check.Args(check, []string{"user:alice"}))
	require.NoError(t, check.Args(check, []string{"user:alice", "viewer", "document:doc-1"}))
}

func TestFGAQueryCommand(t *testing.T) {
	t.Parallel()

	query := findSubcommand(NewFGACommand(), "query")
	require.NotNil(t, query)

	for _, flagName := range []string{"context", "warrant-token", "token", "limit", "all"} {
		assert.NotNil(t, query.Flags().Lookup(flagName), "Flag %s should exist", flagName)
	}
}

func TestEventsListCommandFlags(t *testing.T) {
	t.Parallel()

	list := findSubcommand(NewEventsCommand(), "list")
	require.NotNil(t, list)

	assert.Nil(t, list.Flags().Lookup("before"), "events only page forward")

	pollInterval := list.Flags().Lookup("poll-interval")
	require.NotNil(t, pollInterval)
	assert.Equal(t, "5s", pollInterval.DefValue)
}

func TestVersionCommand(t *testing.T) {
	setupViper(t, "", "json")

	out, err := execute(t, NewVersionCommand("1.2.3", "abc123", "2024-01-01"))
	require.NoError(t, err)
	assert.Contains(t, out, `"version": "1.2.3"`)
	assert.Contains(t, out, `"commit": "abc123"`)
}
