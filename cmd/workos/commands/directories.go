package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/workos-client/pkg/workos"
)

// NewDirectoriesCommand creates the directory sync command group.
func NewDirectoriesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "directories",
		Aliases: []string{"directory", "dsync"},
		Short:   "Inspect Directory Sync directories, users and groups",
	}

	cmd.AddCommand(newDirectoriesListCommand())
	cmd.AddCommand(newDirectoriesGetCommand())
	cmd.AddCommand(newDirectoriesDeleteCommand())
	cmd.AddCommand(newDirectoryUsersCommand())
	cmd.AddCommand(newDirectoryGroupsCommand())

	return cmd
}

func newDirectoriesListCommand() *cobra.Command {
	var (
		params workos.ListDirectoriesParams
		pages  *paginationFlags
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			list, err := listPages(commandContext(cmd), pages,
				func(ctx context.Context, page workos.PaginationParams) (*workos.List[workos.Directory], error) {
					filter := params
					filter.PaginationParams = page

					return client.DirectorySync().ListDirectories(ctx, &filter)
				})
			if err != nil {
				return err
			}

			return render(cmd, list, func(out io.Writer) error {
				table := newTable(out, "ID", "Name", "Type", "State", "Organization")

				for _, directory := range list.Data {
					_ = table.Append(directory.ID, directory.Name, directory.Type, directory.State.String(), valueOrNA(directory.OrganizationID))
				}

				err := table.Render()
				if err != nil {
					return err
				}

				printCursors(out, list.ListMetadata)

				return nil
			})
		},
	}

	cmd.Flags().StringVar(&params.OrganizationID, "org", "", "filter by organization")
	cmd.Flags().StringVar(&params.Search, "search", "", "filter by directory name")
	pages = addPaginationFlags(cmd)

	return cmd
}

func newDirectoriesGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Get a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			directory, err := client.DirectorySync().GetDirectory(commandContext(cmd), args[0])
			if err != nil {
				return err
			}

			return render(cmd, directory, func(out io.Writer) error {
				return renderProperties(out, [][2]string{
					{"ID", directory.ID},
					{"Name", directory.Name},
					{"Type", directory.Type},
					{"State", directory.State.String()},
					{"Domain", valueOrNA(directory.Domain)},
					{"Organization", valueOrNA(directory.OrganizationID)},
					{"Created", formatTime(directory.CreatedAt)},
				})
			})
		},
	}
}

func newDirectoriesDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete a directory",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			err = client.DirectorySync().DeleteDirectory(commandContext(cmd), args[0])
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted directory %s\n", args[0])

			return nil
		},
	}
}

func renderDirectoryUsers(out io.Writer, users []workos.DirectoryUser) error {
	table := newTable(out, "ID", "Email", "Name", "State", "Groups")

	for i := range users {
		user := &users[i]

		name := valueOrDefault(strings.TrimSpace(derefString(user.FirstName)+" "+derefString(user.LastName)), NotAvailable)

		_ = table.Append(user.ID, valueOrDefault(user.PrimaryEmail(), NotAvailable), name, user.State.String(),
			fmt.Sprintf("%d", len(user.Groups)))
	}

	return table.Render()
}

func derefString(value *string) string {
	if value == nil {
		return ""
	}

	return *value
}

func newDirectoryUsersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Inspect directory users",
	}

	var (
		params workos.ListDirectoryUsersParams
		pages  *paginationFlags
	)

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the users of a directory or group",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			users, err := listPages(commandContext(cmd), pages,
				func(ctx context.Context, page workos.PaginationParams) (*workos.List[workos.DirectoryUser], error) {
					filter := params
					filter.PaginationParams = page

					return client.DirectorySync().ListUsers(ctx, &filter)
				})
			if err != nil {
				return err
			}

			return render(cmd, users, func(out io.Writer) error {
				err := renderDirectoryUsers(out, users.Data)
				if err != nil {
					return err
				}

				printCursors(out, users.ListMetadata)

				return nil
			})
		},
	}

	list.Flags().StringVar(&params.Directory, "directory", "", "directory ID")
	list.Flags().StringVar(&params.Group, "group", "", "group ID")
	pages = addPaginationFlags(list)

	get := &cobra.Command{
		Use:   "get ID",
		Short: "Get a directory user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			user, err := client.DirectorySync().GetUser(commandContext(cmd), args[0])
			if err != nil {
				return err
			}

			return render(cmd, user, func(out io.Writer) error {
				return renderDirectoryUsers(out, []workos.DirectoryUser{*user})
			})
		},
	}

	cmd.AddCommand(list, get)

	return cmd
}

func renderDirectoryGroups(out io.Writer, groups []workos.DirectoryGroup) error {
	table := newTable(out, "ID", "Name", "Directory", "Created")

	for _, group := range groups {
		_ = table.Append(group.ID, group.Name, group.DirectoryID, formatTime(group.CreatedAt))
	}

	return table.Render()
}

func newDirectoryGroupsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "Inspect directory groups",
	}

	var (
		params workos.ListDirectoryGroupsParams
		pages  *paginationFlags
	)

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the groups of a directory or user",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			groups, err := listPages(commandContext(cmd), pages,
				func(ctx context.Context, page workos.PaginationParams) (*workos.List[workos.DirectoryGroup], error) {
					filter := params
					filter.PaginationParams = page

					return client.DirectorySync().ListGroups(ctx, &filter)
				})
			if err != nil {
				return err
			}

			return render(cmd, groups, func(out io.Writer) error {
				err := renderDirectoryGroups(out, groups.Data)
				if err != nil {
					return err
				}

				printCursors(out, groups.ListMetadata)

				return nil
			})
		},
	}

	list.Flags().StringVar(&params.Directory, "directory", "", "directory ID")
	list.Flags().StringVar(&params.User, "user", "", "directory user ID")
	pages = addPaginationFlags(list)

	get := &cobra.Command{
		Use:   "get ID",
		Short: "Get a directory group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			group, err := client.DirectorySync().GetGroup(commandContext(cmd), args[0])
			if err != nil {
				return err
			}

			return render(cmd, group, func(out io.Writer) error {
				return renderDirectoryGroups(out, []workos.DirectoryGroup{*group})
			})
		},
	}

	cmd.AddCommand(list, get)

	return cmd
}
