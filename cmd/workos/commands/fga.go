package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/workos-client/pkg/workos"
)

// ErrCheckDenied is returned by "fga check --exit-code" when the check fails.
var ErrCheckDenied = errors.New("check denied")

// NewFGACommand creates the fine-grained authorization command group.
func NewFGACommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fga",
		Short: "Manage fine-grained authorization",
		Long:  "Manage FGA resources, resource types, warrants, policies and the schema, and run checks and queries",
	}

	cmd.AddCommand(newFGAResourcesCommand())
	cmd.AddCommand(newFGAResourceTypesCommand())
	cmd.AddCommand(newFGAWarrantsCommand())
	cmd.AddCommand(newFGAPoliciesCommand())
	cmd.AddCommand(newFGASchemaCommand())
	cmd.AddCommand(newFGACheckCommand())
	cmd.AddCommand(newFGAQueryCommand())

	return cmd
}

// decodeFile reads a YAML or JSON document and decodes it into target through its
// JSON tags, so YAML files follow the API field names.
func decodeFile(path string, target any) error {
	if path == "" {
		return ErrFileRequired
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is chosen by the user
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var document interface{}

	err = yaml.Unmarshal(data, &document)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	encoded, err := json.Marshal(document)
	if err != nil {
		return fmt.Errorf("converting %s: %w", path, err)
	}

	err = json.Unmarshal(encoded, target)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}

	return nil
}

func newFGAResourcesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "resources",
		Aliases: []string{"resource", "res"},
		Short:   "Manage FGA resources",
	}

	cmd.AddCommand(newFGAResourcesListCommand())
	cmd.AddCommand(newFGAResourcesGetCommand())
	cmd.AddCommand(newFGAResourcesCreateCommand())
	cmd.AddCommand(newFGAResourcesUpdateCommand())
	cmd.AddCommand(newFGAResourcesDeleteCommand())
	cmd.AddCommand(newFGAResourcesBatchCommand())

	return cmd
}

func renderResources(out io.Writer, list *workos.List[workos.Resource]) error {
	table := newTable(out, "Type", "ID", "Meta")

	for _, resource := range list.Data {
		_ = table.Append(resource.ResourceType, resource.ResourceID, formatMap(resource.Meta))
	}

	err := table.Render()
	if err != nil {
		return err
	}

	printCursors(out, list.ListMetadata)

	return nil
}

func renderResource(out io.Writer, resource *workos.Resource) error {
	return renderProperties(out, [][2]string{
		{"Type", resource.ResourceType},
		{"ID", resource.ResourceID},
		{"Meta", formatMap(resource.Meta)},
	})
}

func newFGAResourcesListCommand() *cobra.Command {
	var (
		resourceType, search string
		pages                *paginationFlags
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List resources",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			list, err := listPages(commandContext(cmd), pages,
				func(ctx context.Context, page workos.PaginationParams) (*workos.List[workos.Resource], error) {
					return client.FGA().ListResources(ctx, &workos.ListResourcesParams{
						PaginationParams: page,
						ResourceType:     resourceType,
						Search:           search,
					})
				})
			if err != nil {
				return err
			}

			return render(cmd, list, func(out io.Writer) error { return renderResources(out, list) })
		},
	}

	cmd.Flags().StringVar(&resourceType, "type", "", "only list resources of this type")
	cmd.Flags().StringVar(&search, "search", "", "filter by resource ID or metadata")
	pages = addPaginationFlags(cmd)

	return cmd
}

func newFGAResourcesGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get TYPE ID",
		Short: "Get a resource",
		Args:  cobra.ExactArgs(2), //nolint:mnd // type and id
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			resource, err := client.FGA().GetResource(commandContext(cmd), args[0], args[1])
			if err != nil {
				return err
			}

			return render(cmd, resource, func(out io.Writer) error { return renderResource(out, resource) })
		},
	}
}

func newFGAResourcesCreateCommand() *cobra.Command {
	var meta []string

	cmd := &cobra.Command{
		Use:   "create TYPE ID",
		Short: "Create a resource",
		Args:  cobra.ExactArgs(2), //nolint:mnd // type and id
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseKeyValues(meta)
			if err != nil {
				return err
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			resource, err := client.FGA().CreateResource(commandContext(cmd), &workos.CreateResourceParams{
				ResourceType: args[0],
				ResourceID:   args[1],
				Meta:         toAnyMap(values),
			})
			if err != nil {
				return err
			}

			return render(cmd, resource, func(out io.Writer) error { return renderResource(out, resource) })
		},
	}

	cmd.Flags().StringArrayVar(&meta, "meta", nil, "metadata as key=value (repeatable)")

	return cmd
}

func newFGAResourcesUpdateCommand() *cobra.Command {
	var meta []string

	cmd := &cobra.Command{
		Use:   "update TYPE ID",
		Short: "Replace the metadata of a resource",
		Args:  cobra.ExactArgs(2), //nolint:mnd // type and id
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseKeyValues(meta)
			if err != nil {
				return err
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			resource, err := client.FGA().UpdateResource(commandContext(cmd), &workos.UpdateResourceParams{
				ResourceType: args[0],
				ResourceID:   args[1],
				Meta:         toAnyMap(values),
			})
			if err != nil {
				return err
			}

			return render(cmd, resource, func(out io.Writer) error { return renderResource(out, resource) })
		},
	}

	cmd.Flags().StringArrayVar(&meta, "meta", nil, "metadata as key=value (repeatable); omit to clear")

	return cmd
}

func newFGAResourcesDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete TYPE ID",
		Aliases: []string{"rm"},
		Short:   "Delete a resource",
		Args:    cobra.ExactArgs(2), //nolint:mnd // type and id
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			err = client.FGA().DeleteResource(commandContext(cmd), args[0], args[1])
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted resource %s:%s\n", args[0], args[1])

			return nil
		},
	}
}

func newFGAResourcesBatchCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Create or delete resources in one request",
		Long: `Apply a list of resource writes from a YAML or JSON file:

  - type: document
    id: doc-1
    metadata: {owner: alice}
    create: true
  - type: document
    id: doc-0
    create: false`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var writes []workos.ResourceWrite

			err := decodeFile(file, &writes)
			if err != nil {
				return err
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			err = client.FGA().BatchWriteResources(commandContext(cmd), writes)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Applied %d resource writes\n", len(writes))

			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML or JSON file of resource writes")

	return cmd
}

func newFGAResourceTypesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "resource-types",
		Aliases: []string{"types"},
		Short:   "Manage FGA resource types",
	}

	cmd.AddCommand(newFGAResourceTypesListCommand())
	cmd.AddCommand(newFGAResourceTypesGetCommand())
	cmd.AddCommand(newFGAResourceTypesApplyCommand())
	cmd.AddCommand(newFGAResourceTypesDeleteCommand())

	return cmd
}

// describeRule renders a relation rule in a compact text form.
func describeRule(rule workos.RelationRule) string {
	switch rule.Kind {
	case workos.RelationRuleThis:
		return "this"
	case workos.RelationRuleInherit:
		return fmt.Sprintf("%s from %s", rule.Inherit.Relation, rule.Inherit.From)
	case workos.RelationRuleUnion:
		parts := make([]string, 0, len(rule.Union))
		for _, member := range rule.Union {
			parts = append(parts, describeRule(member))
		}

		return "any of (" + strings.Join(parts, ", ") + ")"
	default:
		return NotAvailable
	}
}

func renderResourceTypes(out io.Writer, resourceTypes []workos.ResourceType) error {
	table := newTable(out, "Type", "Relation", "Rule")

	for _, resourceType := range resourceTypes {
		if len(resourceType.Relations) == 0 {
			_ = table.Append(resourceType.Type, NotAvailable, NotAvailable)

			continue
		}

		for _, relation := range sortedKeys(resourceType.Relations) {
			_ = table.Append(resourceType.Type, relation, describeRule(resourceType.Relations[relation]))
		}
	}

	return table.Render()
}

func newFGAResourceTypesListCommand() *cobra.Command {
	var pages *paginationFlags

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List resource types",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			list, err := listPages(commandContext(cmd), pages,
				func(ctx context.Context, page workos.PaginationParams) (*workos.List[workos.ResourceType], error) {
					return client.FGA().ListResourceTypes(ctx, &page)
				})
			if err != nil {
				return err
			}

			return render(cmd, list, func(out io.Writer) error {
				err := renderResourceTypes(out, list.Data)
				if err != nil {
					return err
				}

				printCursors(out, list.ListMetadata)

				return nil
			})
		},
	}

	pages = addPaginationFlags(cmd)

	return cmd
}

func newFGAResourceTypesGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get TYPE",
		Short: "Get a resource type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			resourceType, err := client.FGA().GetResourceType(commandContext(cmd), args[0])
			if err != nil {
				return err
			}

			return render(cmd, resourceType, func(out io.Writer) error {
				return renderResourceTypes(out, []workos.ResourceType{*resourceType})
			})
		},
	}
}

func newFGAResourceTypesApplyCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Create or replace resource types from a file",
		Long: `Apply every resource type listed in a YAML or JSON file in one request:

  - type: document
    relations:
      owner:
        this: {}
      parent:
        this: {}
      viewer:
        union:
          - this: {}
          - inherit: {relation: viewer, from: parent}`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resourceTypes []workos.ResourceType

			err := decodeFile(file, &resourceTypes)
			if err != nil {
				return err
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			applied, err := client.FGA().ApplyResourceTypes(commandContext(cmd), resourceTypes)
			if err != nil {
				return err
			}

			return render(cmd, applied, func(out io.Writer) error { return renderResourceTypes(out, applied) })
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML or JSON file of resource types")

	return cmd
}

func newFGAResourceTypesDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete TYPE",
		Aliases: []string{"rm"},
		Short:   "Delete a resource type",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			err = client.FGA().DeleteResourceType(commandContext(cmd), args[0])
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted resource type %s\n", args[0])

			return nil
		},
	}
}

func sortedKeys[V any](values map[string]V) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}

	slices.Sort(keys)

	return keys
}
