package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/workos-client/pkg/workos"
)

// NewOrgsCommand creates the organizations command group.
func NewOrgsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "orgs",
		Aliases: []string{"organizations", "org"},
		Short:   "Manage organizations",
	}

	cmd.AddCommand(newOrgsListCommand())
	cmd.AddCommand(newOrgsGetCommand())
	cmd.AddCommand(newOrgsCreateCommand())
	cmd.AddCommand(newOrgsUpdateCommand())
	cmd.AddCommand(newOrgsDeleteCommand())

	return cmd
}

func orgDomainNames(org *workos.Organization) string {
	if len(org.Domains) == 0 {
		return NotAvailable
	}

	names := make([]string, 0, len(org.Domains))
	for _, domain := range org.Domains {
		names = append(names, domain.Domain)
	}

	return strings.Join(names, ", ")
}

func renderOrganization(out io.Writer, org *workos.Organization) error {
	return renderProperties(out, [][2]string{
		{"ID", org.ID},
		{"Name", org.Name},
		{"External ID", valueOrNA(org.ExternalID)},
		{"Domains", orgDomainNames(org)},
		{"Stripe Customer", valueOrNA(org.StripeCustomerID)},
		{"Metadata", formatMap(org.Metadata)},
		{"Created", formatTime(org.CreatedAt)},
		{"Updated", formatTime(org.UpdatedAt)},
	})
}

func newOrgsListCommand() *cobra.Command {
	var (
		domains []string
		pages   *paginationFlags
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List organizations",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			list, err := listPages(commandContext(cmd), pages,
				func(ctx context.Context, page workos.PaginationParams) (*workos.List[workos.Organization], error) {
					return client.Organizations().List(ctx, &workos.ListOrganizationsParams{
						PaginationParams: page,
						Domains:          domains,
					})
				})
			if err != nil {
				return err
			}

			return render(cmd, list, func(out io.Writer) error {
				table := newTable(out, "ID", "Name", "Domains", "Created")

				for i := range list.Data {
					org := &list.Data[i]
					_ = table.Append(org.ID, org.Name, orgDomainNames(org), formatTime(org.CreatedAt))
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

	cmd.Flags().StringSliceVar(&domains, "domain", nil, "only organizations with these domains")
	pages = addPaginationFlags(cmd)

	return cmd
}

func newOrgsGetCommand() *cobra.Command {
	var external bool

	cmd := &cobra.Command{
		Use:   "get ID",
		Short: "Get an organization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			get := client.Organizations().Get
			if external {
				get = client.Organizations().GetByExternalID
			}

			org, err := get(commandContext(cmd), args[0])
			if err != nil {
				return err
			}

			return render(cmd, org, func(out io.Writer) error { return renderOrganization(out, org) })
		},
	}

	cmd.Flags().BoolVar(&external, "external-id", false, "treat ID as the organization's external ID")

	return cmd
}

func domainData(domains []string) []workos.DomainData {
	if len(domains) == 0 {
		return nil
	}

	data := make([]workos.DomainData, 0, len(domains))
	for _, domain := range domains {
		data = append(data, workos.DomainData{Domain: domain, State: workos.OrganizationDomainPending})
	}

	return data
}

func newOrgsCreateCommand() *cobra.Command {
	var (
		domains    []string
		externalID string
		metadata   []string
	)

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create an organization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseKeyValues(metadata)
			if err != nil {
				return err
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			org, err := client.Organizations().Create(commandContext(cmd), &workos.CreateOrganizationParams{
				Name:       args[0],
				DomainData: domainData(domains),
				ExternalID: externalID,
				Metadata:   values,
			})
			if err != nil {
				return err
			}

			return render(cmd, org, func(out io.Writer) error { return renderOrganization(out, org) })
		},
	}

	cmd.Flags().StringSliceVar(&domains, "domain", nil, "domains to add in the pending state")
	cmd.Flags().StringVar(&externalID, "external-id", "", "external identifier")
	cmd.Flags().StringArrayVar(&metadata, "metadata", nil, "metadata as key=value (repeatable)")

	return cmd
}

func newOrgsUpdateCommand() *cobra.Command {
	var (
		name             string
		domains          []string
		externalID       string
		stripeCustomerID string
		metadata         []string
	)

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update an organization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseKeyValues(metadata)
			if err != nil {
				return err
			}

			params := &workos.UpdateOrganizationParams{
				Name:             name,
				DomainData:       domainData(domains),
				ExternalID:       externalID,
				StripeCustomerID: stripeCustomerID,
				Metadata:         values,
			}

			if params.Name == "" && params.DomainData == nil && params.ExternalID == "" &&
				params.StripeCustomerID == "" && params.Metadata == nil {
				return ErrNothingToUpdate
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			org, err := client.Organizations().Update(commandContext(cmd), args[0], params)
			if err != nil {
				return err
			}

			return render(cmd, org, func(out io.Writer) error { return renderOrganization(out, org) })
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringSliceVar(&domains, "domain", nil, "replace the domain list")
	cmd.Flags().StringVar(&externalID, "external-id", "", "external identifier")
	cmd.Flags().StringVar(&stripeCustomerID, "stripe-customer-id", "", "Stripe customer ID")
	cmd.Flags().StringArrayVar(&metadata, "metadata", nil, "metadata as key=value (repeatable)")

	return cmd
}

func newOrgsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete an organization",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			err = client.Organizations().Delete(commandContext(cmd), args[0])
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted organization %s\n", args[0])

			return nil
		},
	}
}

// NewDomainsCommand creates the organization domains command group.
func NewDomainsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "domains",
		Aliases: []string{"domain"},
		Short:   "Manage organization domains",
	}

	cmd.AddCommand(newDomainsCreateCommand())
	cmd.AddCommand(newDomainsIDCommand("get", "Get a domain", func(ctx context.Context, client workos.Client, id string) (*workos.OrganizationDomain, error) {
		return client.OrganizationDomains().Get(ctx, id)
	}))
	cmd.AddCommand(newDomainsIDCommand("verify", "Start verification of a domain", func(ctx context.Context, client workos.Client, id string) (*workos.OrganizationDomain, error) {
		return client.OrganizationDomains().Verify(ctx, id)
	}))
	cmd.AddCommand(newDomainsDeleteCommand())

	return cmd
}

func renderDomain(out io.Writer, domain *workos.OrganizationDomain) error {
	strategy := NotAvailable
	if domain.VerificationStrategy != nil {
		strategy = domain.VerificationStrategy.String()
	}

	return renderProperties(out, [][2]string{
		{"ID", domain.ID},
		{"Organization", domain.OrganizationID},
		{"Domain", domain.Domain},
		{"State", domain.State.String()},
		{"Verification Strategy", strategy},
		{"Verification Token", valueOrNA(domain.VerificationToken)},
		{"Created", formatTime(domain.CreatedAt)},
	})
}

func newDomainsCreateCommand() *cobra.Command {
	var orgID string

	cmd := &cobra.Command{
		Use:   "create DOMAIN",
		Short: "Add a domain to an organization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			domain, err := client.OrganizationDomains().Create(commandContext(cmd), &workos.CreateOrganizationDomainParams{
				OrganizationID: orgID,
				Domain:         args[0],
			})
			if err != nil {
				return err
			}

			return render(cmd, domain, func(out io.Writer) error { return renderDomain(out, domain) })
		},
	}

	cmd.Flags().StringVar(&orgID, "org", "", "organization ID")
	_ = cmd.MarkFlagRequired("org")

	return cmd
}

func newDomainsIDCommand(
	use, short string,
	call func(ctx context.Context, client workos.Client, id string) (*workos.OrganizationDomain, error),
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

			domain, err := call(commandContext(cmd), client, args[0])
			if err != nil {
				return err
			}

			return render(cmd, domain, func(out io.Writer) error { return renderDomain(out, domain) })
		},
	}
}

func newDomainsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Remove a domain",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			err = client.OrganizationDomains().Delete(commandContext(cmd), args[0])
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted domain %s\n", args[0])

			return nil
		},
	}
}
