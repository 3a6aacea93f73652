package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/workos-client/pkg/workos"
)

// NewUsersCommand creates the user management command group.
func NewUsersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "users",
		Aliases: []string{"user"},
		Short:   "Manage AuthKit users",
	}

	cmd.AddCommand(newUsersListCommand())
	cmd.AddCommand(newUsersGetCommand())

	return cmd
}

func userName(user *workos.User) string {
	parts := make([]string, 0, 2) //nolint:mnd // first and last name
	if user.FirstName != nil && *user.FirstName != "" {
		parts = append(parts, *user.FirstName)
	}

	if user.LastName != nil && *user.LastName != "" {
		parts = append(parts, *user.LastName)
	}

	if len(parts) == 0 {
		return NotAvailable
	}

	return strings.Join(parts, " ")
}

func newUsersListCommand() *cobra.Command {
	var (
		params workos.ListUsersParams
		pages  *paginationFlags
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			list, err := listPages(commandContext(cmd), pages,
				func(ctx context.Context, page workos.PaginationParams) (*workos.List[workos.User], error) {
					filter := params
					filter.PaginationParams = page

					return client.UserManagement().ListUsers(ctx, &filter)
				})
			if err != nil {
				return err
			}

			return render(cmd, list, func(out io.Writer) error {
				table := newTable(out, "ID", "Email", "Name", "Verified", "Created")

				for i := range list.Data {
					user := &list.Data[i]
					_ = table.Append(user.ID, user.Email, userName(user), fmt.Sprintf("%t", user.EmailVerified), formatTime(user.CreatedAt))
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

	cmd.Flags().StringVar(&params.Email, "email", "", "filter by email")
	cmd.Flags().StringVar(&params.OrganizationID, "org", "", "filter by organization membership")
	pages = addPaginationFlags(cmd)

	return cmd
}

func newUsersGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Get a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			user, err := client.UserManagement().GetUser(commandContext(cmd), args[0])
			if err != nil {
				return err
			}

			return render(cmd, user, func(out io.Writer) error {
				lastSignIn := NotAvailable
				if user.LastSignInAt != nil {
					lastSignIn = formatTime(*user.LastSignInAt)
				}

				return renderProperties(out, [][2]string{
					{"ID", user.ID},
					{"Email", user.Email},
					{"Email Verified", fmt.Sprintf("%t", user.EmailVerified)},
					{"Name", userName(user)},
					{"External ID", valueOrNA(user.ExternalID)},
					{"Last Sign In", lastSignIn},
					{"Metadata", formatMap(user.Metadata)},
					{"Created", formatTime(user.CreatedAt)},
				})
			})
		},
	}
}

// NewMembershipsCommand creates the organization memberships command group.
func NewMembershipsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "memberships",
		Aliases: []string{"membership"},
		Short:   "Manage organization memberships",
	}

	cmd.AddCommand(newMembershipsListCommand())
	cmd.AddCommand(newMembershipsIDCommand("get", "Get a membership",
		func(ctx context.Context, users workos.UserManagementClient, id string) (*workos.OrganizationMembership, error) {
			return users.GetOrganizationMembership(ctx, id)
		}))
	cmd.AddCommand(newMembershipsCreateCommand())
	cmd.AddCommand(newMembershipsUpdateCommand())
	cmd.AddCommand(newMembershipsIDCommand("deactivate", "Deactivate a membership",
		func(ctx context.Context, users workos.UserManagementClient, id string) (*workos.OrganizationMembership, error) {
			return users.DeactivateOrganizationMembership(ctx, id)
		}))
	cmd.AddCommand(newMembershipsIDCommand("reactivate", "Reactivate a membership",
		func(ctx context.Context, users workos.UserManagementClient, id string) (*workos.OrganizationMembership, error) {
			return users.ReactivateOrganizationMembership(ctx, id)
		}))
	cmd.AddCommand(newMembershipsDeleteCommand())

	return cmd
}

func renderMemberships(out io.Writer, memberships []workos.OrganizationMembership) error {
	table := newTable(out, "ID", "User", "Organization", "Role", "Status")

	for _, membership := range memberships {
		_ = table.Append(membership.ID, membership.UserID, membership.OrganizationID, membership.Role.Slug, membership.Status.String())
	}

	return table.Render()
}

func newMembershipsListCommand() *cobra.Command {
	var (
		params   workos.ListOrganizationMembershipsParams
		statuses []string
		pages    *paginationFlags
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List memberships of an organization or a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if (params.OrganizationID == "") == (params.UserID == "") {
				return ErrMembershipFilter
			}

			for _, status := range statuses {
				params.Statuses = append(params.Statuses, workos.OrganizationMembershipStatus(status))
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			list, err := listPages(commandContext(cmd), pages,
				func(ctx context.Context, page workos.PaginationParams) (*workos.List[workos.OrganizationMembership], error) {
					filter := params
					filter.PaginationParams = page

					return client.UserManagement().ListOrganizationMemberships(ctx, &filter)
				})
			if err != nil {
				return err
			}

			return render(cmd, list, func(out io.Writer) error {
				err := renderMemberships(out, list.Data)
				if err != nil {
					return err
				}

				printCursors(out, list.ListMetadata)

				return nil
			})
		},
	}

	cmd.Flags().StringVar(&params.OrganizationID, "org", "", "organization ID")
	cmd.Flags().StringVar(&params.UserID, "user", "", "user ID")
	cmd.Flags().StringSliceVar(&statuses, "status", nil, "only these statuses (active, inactive, pending)")
	pages = addPaginationFlags(cmd)

	return cmd
}

func newMembershipsIDCommand(
	use, short string,
	call func(ctx context.Context, users workos.UserManagementClient, id string) (*workos.OrganizationMembership, error),
) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			membership, err := call(commandContext(cmd), client.UserManagement(), args[0])
			if err != nil {
				return err
			}

			return render(cmd, membership, func(out io.Writer) error {
				return renderMemberships(out, []workos.OrganizationMembership{*membership})
			})
		},
	}
}

func newMembershipsCreateCommand() *cobra.Command {
	var params workos.CreateOrganizationMembershipParams

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a user to an organization",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			membership, err := client.UserManagement().CreateOrganizationMembership(commandContext(cmd), &params)
			if err != nil {
				return err
			}

			return render(cmd, membership, func(out io.Writer) error {
				return renderMemberships(out, []workos.OrganizationMembership{*membership})
			})
		},
	}

	cmd.Flags().StringVar(&params.UserID, "user", "", "user ID")
	cmd.Flags().StringVar(&params.OrganizationID, "org", "", "organization ID")
	cmd.Flags().StringVar(&params.RoleSlug, "role", "", "role slug (defaults to the organization's default role)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("org")

	return cmd
}

func newMembershipsUpdateCommand() *cobra.Command {
	var params workos.UpdateOrganizationMembershipParams

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change the role of a membership",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			membership, err := client.UserManagement().UpdateOrganizationMembership(commandContext(cmd), args[0], &params)
			if err != nil {
				return err
			}

			return render(cmd, membership, func(out io.Writer) error {
				return renderMemberships(out, []workos.OrganizationMembership{*membership})
			})
		},
	}

	cmd.Flags().StringVar(&params.RoleSlug, "role", "", "role slug")
	_ = cmd.MarkFlagRequired("role")

	return cmd
}

func newMembershipsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Remove a membership",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			err = client.UserManagement().DeleteOrganizationMembership(commandContext(cmd), args[0])
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted membership %s\n", args[0])

			return nil
		},
	}
}
