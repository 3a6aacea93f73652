package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/workos-client/pkg/workos"
)

func portalIntentNames() string {
	names := make([]string, 0, len(workos.PortalIntents))
	for _, intent := range workos.PortalIntents {
		names = append(names, string(intent))
	}

	return strings.Join(names, ", ")
}

// NewPortalCommand creates the Admin Portal command group.
func NewPortalCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "portal",
		Short: "Generate Admin Portal links",
	}

	var params workos.GeneratePortalLinkParams

	var intent string

	link := &cobra.Command{
		Use:   "link",
		Short: "Generate an Admin Portal link for an organization",
		RunE: func(cmd *cobra.Command, args []string) error {
			params.Intent = workos.PortalIntent(intent)
			if !params.Intent.IsKnown() {
				return fmt.Errorf("%w: %q (expected one of %s)", ErrUnknownPortalIntent, intent, portalIntentNames())
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			portalLink, err := client.Portal().GenerateLink(commandContext(cmd), &params)
			if err != nil {
				return err
			}

			return render(cmd, portalLink, func(out io.Writer) error {
				_, err := fmt.Fprintln(out, portalLink.Link)

				return err
			})
		},
	}

	link.Flags().StringVar(&params.OrganizationID, "org", "", "organization ID")
	link.Flags().StringVar(&intent, "intent", string(workos.PortalIntentSSO), "portal intent ("+portalIntentNames()+")")
	link.Flags().StringVar(&params.ReturnURL, "return-url", "", "URL to return to from the portal")
	link.Flags().StringVar(&params.SuccessURL, "success-url", "", "URL to redirect to after setup succeeds")
	_ = link.MarkFlagRequired("org")

	cmd.AddCommand(link)

	return cmd
}

// NewWidgetsCommand creates the widgets command group.
func NewWidgetsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "widgets",
		Short: "Issue widget tokens",
	}

	var (
		params workos.WidgetTokenParams
		scopes []string
	)

	token := &cobra.Command{
		Use:   "token",
		Short: "Issue a short-lived widget token",
		RunE: func(cmd *cobra.Command, args []string) error {
			params.Scopes = params.Scopes[:0]
			for _, scope := range scopes {
				params.Scopes = append(params.Scopes, workos.WidgetScope(scope))
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			widgetToken, err := client.Widgets().GetToken(commandContext(cmd), &params)
			if err != nil {
				return err
			}

			return render(cmd, widgetToken, func(out io.Writer) error {
				_, err := fmt.Fprintln(out, widgetToken.Token)

				return err
			})
		},
	}

	token.Flags().StringVar(&params.OrganizationID, "org", "", "organization ID")
	token.Flags().StringVar(&params.UserID, "user", "", "user ID")
	token.Flags().StringSliceVar(&scopes, "scope", []string{string(workos.WidgetScopeUsersTableManage)}, "widget scopes")
	_ = token.MarkFlagRequired("org")

	cmd.AddCommand(token)

	return cmd
}
