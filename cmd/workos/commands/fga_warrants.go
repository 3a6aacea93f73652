package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/workos-client/pkg/workos"
)

func newFGAWarrantsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "warrants",
		Aliases: []string{"warrant"},
		Short:   "Manage FGA warrants",
	}

	cmd.AddCommand(newFGAWarrantsListCommand())
	cmd.AddCommand(newFGAWarrantsCreateCommand())
	cmd.AddCommand(newFGAWarrantsDeleteCommand())
	cmd.AddCommand(newFGAWarrantsBatchCommand())

	return cmd
}

func renderWarrants(out io.Writer, warrants []workos.Warrant) error {
	table := newTable(out, "Resource", "Relation", "Subject", "Policy")

	for _, warrant := range warrants {
		policy := warrant.Policy
		if policy == "" {
			policy = NotAvailable
		}

		_ = table.Append(warrant.ResourceType+":"+warrant.ResourceID, warrant.Relation, formatSubject(warrant.Subject), policy)
	}

	return table.Render()
}

func newFGAWarrantsListCommand() *cobra.Command {
	var (
		params workos.ListWarrantsParams
		pages  *paginationFlags
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List warrants",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			list, err := listPages(commandContext(cmd), pages,
				func(ctx context.Context, page workos.PaginationParams) (*workos.List[workos.Warrant], error) {
					filter := params
					filter.PaginationParams = page

					return client.FGA().ListWarrants(ctx, &filter)
				})
			if err != nil {
				return err
			}

			return render(cmd, list, func(out io.Writer) error {
				err := renderWarrants(out, list.Data)
				if err != nil {
					return err
				}

				printCursors(out, list.ListMetadata)

				return nil
			})
		},
	}

	cmd.Flags().StringVar(&params.ResourceType, "resource-type", "", "filter by resource type")
	cmd.Flags().StringVar(&params.ResourceID, "resource-id", "", "filter by resource ID")
	cmd.Flags().StringVar(&params.Relation, "relation", "", "filter by relation")
	cmd.Flags().StringVar(&params.SubjectType, "subject-type", "", "filter by subject type")
	cmd.Flags().StringVar(&params.SubjectID, "subject-id", "", "filter by subject ID")
	cmd.Flags().StringVar(&params.SubjectRelation, "subject-relation", "", "filter by subject relation")
	cmd.Flags().StringVar(&params.WarrantToken, "warrant-token", "", "read at least as fresh as this warrant token")
	pages = addPaginationFlags(cmd)

	return cmd
}

// warrantFromArgs parses SUBJECT RELATION RESOURCE.
func warrantFromArgs(args []string, policy string) (*workos.WarrantParams, error) {
	subject, err := parseSubjectRef(args[0])
	if err != nil {
		return nil, err
	}

	resourceType, resourceID, err := parseObjectRef(args[2])
	if err != nil {
		return nil, err
	}

	return &workos.WarrantParams{
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Relation:     args[1],
		Subject:      subject,
		Policy:       policy,
	}, nil
}

func newFGAWarrantsCreateCommand() *cobra.Command {
	var policy string

	cmd := &cobra.Command{
		Use:     "create SUBJECT RELATION RESOURCE",
		Short:   "Grant a subject a relation on a resource",
		Example: "  workos fga warrants create user:alice editor document:doc-1\n  workos fga warrants create team:eng#member viewer document:doc-1",
		Args:    cobra.ExactArgs(3), //nolint:mnd // subject, relation and resource
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := warrantFromArgs(args, policy)
			if err != nil {
				return err
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			warrant, err := client.FGA().CreateWarrant(commandContext(cmd), params)
			if err != nil {
				return err
			}

			return render(cmd, warrant, func(out io.Writer) error {
				return renderWarrants(out, []workos.Warrant{*warrant})
			})
		},
	}

	cmd.Flags().StringVar(&policy, "policy", "", "policy expression that must also hold")

	return cmd
}

func newFGAWarrantsDeleteCommand() *cobra.Command {
	var policy string

	cmd := &cobra.Command{
		Use:     "delete SUBJECT RELATION RESOURCE",
		Aliases: []string{"rm"},
		Short:   "Remove a warrant",
		Args:    cobra.ExactArgs(3), //nolint:mnd // subject, relation and resource
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := warrantFromArgs(args, policy)
			if err != nil {
				return err
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			err = client.FGA().DeleteWarrant(commandContext(cmd), params)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted warrant %s %s %s\n", args[0], args[1], args[2])

			return nil
		},
	}

	cmd.Flags().StringVar(&policy, "policy", "", "policy of the warrant to delete")

	return cmd
}

func newFGAWarrantsBatchCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Write several warrants in one request",
		Long: `Create warrants listed in a YAML or JSON file:

  - resource_type: document
    resource_id: doc-1
    relation: viewer
    subject: {resource_type: user, resource_id: alice}`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var writes []workos.WarrantParams

			err := decodeFile(file, &writes)
			if err != nil {
				return err
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			err = client.FGA().BatchWriteWarrants(commandContext(cmd), writes)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d warrants\n", len(writes))

			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML or JSON file of warrants")

	return cmd
}

func newFGAPoliciesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "policies",
		Aliases: []string{"policy"},
		Short:   "Manage FGA policies",
	}

	cmd.AddCommand(newFGAPoliciesListCommand())
	cmd.AddCommand(newFGAPoliciesGetCommand())
	cmd.AddCommand(newFGAPoliciesApplyCommand())
	cmd.AddCommand(newFGAPoliciesDeleteCommand())

	return cmd
}

func renderPolicies(out io.Writer, policies []workos.Policy) error {
	table := newTable(out, "Name", "Language", "Expression", "Description")

	for _, policy := range policies {
		description := policy.Description
		if description == "" {
			description = NotAvailable
		}

		_ = table.Append(policy.Name, policy.Language, policy.Expression, description)
	}

	return table.Render()
}

func newFGAPoliciesListCommand() *cobra.Command {
	var pages *paginationFlags

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List policies",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			list, err := listPages(commandContext(cmd), pages,
				func(ctx context.Context, page workos.PaginationParams) (*workos.List[workos.Policy], error) {
					return client.FGA().ListPolicies(ctx, &page)
				})
			if err != nil {
				return err
			}

			return render(cmd, list, func(out io.Writer) error { return renderPolicies(out, list.Data) })
		},
	}

	pages = addPaginationFlags(cmd)

	return cmd
}

func newFGAPoliciesGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get NAME",
		Short: "Get a policy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			policy, err := client.FGA().GetPolicy(commandContext(cmd), args[0])
			if err != nil {
				return err
			}

			return render(cmd, policy, func(out io.Writer) error {
				return renderPolicies(out, []workos.Policy{*policy})
			})
		},
	}
}

func newFGAPoliciesApplyCommand() *cobra.Command {
	var (
		file   string
		update bool
	)

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Create or update a policy from a file",
		Long: `Create a policy described in a YAML or JSON file, or update it with --update:

  name: is_weekday
  language: expr
  parameters:
    - {name: day, type: string}
  expression: day != "saturday" && day != "sunday"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var params workos.PolicyParams

			err := decodeFile(file, &params)
			if err != nil {
				return err
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			apply := client.FGA().CreatePolicy
			if update {
				apply = client.FGA().UpdatePolicy
			}

			policy, err := apply(commandContext(cmd), &params)
			if err != nil {
				return err
			}

			return render(cmd, policy, func(out io.Writer) error {
				return renderPolicies(out, []workos.Policy{*policy})
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML or JSON policy file")
	cmd.Flags().BoolVar(&update, "update", false, "update an existing policy instead of creating one")

	return cmd
}

func newFGAPoliciesDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete NAME",
		Aliases: []string{"rm"},
		Short:   "Delete a policy",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			err = client.FGA().DeletePolicy(commandContext(cmd), args[0])
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted policy %s\n", args[0])

			return nil
		},
	}
}

func newFGASchemaCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Read or apply the FGA schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Show the compiled schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			schema, err := client.FGA().GetSchema(commandContext(cmd))
			if err != nil {
				return err
			}

			return render(cmd, schema, func(out io.Writer) error {
				err := renderResourceTypes(out, schema.ResourceTypes)
				if err != nil || len(schema.Policies) == 0 {
					return err
				}

				return renderPolicies(out, schema.Policies)
			})
		},
	})

	var file string

	apply := &cobra.Command{
		Use:   "apply",
		Short: "Apply a schema written in the FGA schema language",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return ErrFileRequired
			}

			source, err := os.ReadFile(file) //nolint:gosec // path is chosen by the user
			if err != nil {
				return fmt.Errorf("reading %s: %w", file, err)
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			err = client.FGA().ApplySchema(commandContext(cmd), string(source))
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Schema applied")

			return nil
		},
	}

	apply.Flags().StringVarP(&file, "file", "f", "", "schema source file")
	cmd.AddCommand(apply)

	return cmd
}

func newFGACheckCommand() *cobra.Command {
	var (
		file     string
		exitCode bool
	)

	cmd := &cobra.Command{
		Use:   "check [SUBJECT RELATION RESOURCE]",
		Short: "Check whether a subject has a relation on a resource",
		Long: `Check one relation given as arguments, or several listed in a file with --file:

  - {subject: "user:alice", relation: viewer, resource: "document:doc-1"}`,
		Example: "  workos fga check user:alice viewer document:doc-1 --exit-code",
		Args: func(cmd *cobra.Command, args []string) error {
			if file != "" {
				return cobra.NoArgs(cmd, args)
			}

			return cobra.ExactArgs(3)(cmd, args) //nolint:mnd // subject, relation and resource
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var checks []workos.CheckParams

			if file != "" {
				err := decodeFile(file, &checks)
				if err != nil {
					return err
				}
			} else {
				checks = []workos.CheckParams{{Subject: args[0], Relation: args[1], Resource: args[2]}}
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			results, err := runChecks(commandContext(cmd), client.FGA(), checks)
			if err != nil {
				return err
			}

			err = render(cmd, results, func(out io.Writer) error {
				table := newTable(out, "Subject", "Relation", "Resource", "Result")

				for _, result := range results {
					_ = table.Append(result.Subject, result.Relation, result.Resource, checkVerdict(result.Allowed))
				}

				return table.Render()
			})
			if err != nil {
				return err
			}

			if exitCode {
				for _, result := range results {
					if !result.Allowed {
						return ErrCheckDenied
					}
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML or JSON file of checks to run as a batch")
	cmd.Flags().BoolVar(&exitCode, "exit-code", false, "fail when any check is denied")

	return cmd
}

// runChecks sends a single check to the check endpoint and several to the batch endpoint.
func runChecks(ctx context.Context, fga workos.FGAClient, checks []workos.CheckParams) ([]workos.CheckResult, error) {
	if len(checks) != 1 {
		return fga.BatchCheck(ctx, checks)
	}

	allowed, err := fga.Check(ctx, &checks[0])
	if err != nil {
		return nil, err
	}

	return []workos.CheckResult{{
		Subject:  checks[0].Subject,
		Relation: checks[0].Relation,
		Resource: checks[0].Resource,
		Allowed:  allowed,
	}}, nil
}

func checkVerdict(allowed bool) string {
	if allowed {
		return "authorized"
	}

	return "not authorized"
}

func newFGAQueryCommand() *cobra.Command {
	var (
		params workos.QueryParams
		pages  *paginationFlags
	)

	cmd := &cobra.Command{
		Use:     "query QUERY",
		Short:   "Run an FGA query",
		Example: `  workos fga query "select document where user:alice is viewer"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			list, err := listPages(commandContext(cmd), pages,
				func(ctx context.Context, page workos.PaginationParams) (*workos.List[workos.QueryResult], error) {
					query := params
					query.PaginationParams = page
					query.Q = args[0]

					return client.FGA().Query(ctx, &query)
				})
			if err != nil {
				return err
			}

			return render(cmd, list, func(out io.Writer) error {
				table := newTable(out, "Resource", "Relation", "Implicit", "Warrant")

				for _, result := range list.Data {
					_ = table.Append(result.ResourceType+":"+result.ResourceID, result.Relation,
						fmt.Sprintf("%t", result.IsImplicit), formatSubject(result.Warrant.Subject))
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

	cmd.Flags().StringVar(&params.Context, "context", "", "JSON object of policy context values")
	cmd.Flags().StringVar(&params.WarrantToken, "warrant-token", "", "read at least as fresh as this warrant token")
	cmd.Flags().StringVar(&params.Token, "token", "", "run the query with this access token instead of the API key")
	pages = addPaginationFlags(cmd)

	return cmd
}
