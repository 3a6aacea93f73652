package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/workos-client/pkg/workos"
)

// NewMFACommand creates the multi-factor authentication command group.
func NewMFACommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mfa",
		Short: "Enroll and verify authentication factors",
	}

	cmd.AddCommand(newMFAEnrollCommand())
	cmd.AddCommand(newMFAChallengeCommand())
	cmd.AddCommand(newMFAVerifyCommand())
	cmd.AddCommand(newMFAGetCommand())
	cmd.AddCommand(newMFADeleteCommand())

	return cmd
}

func renderFactor(out io.Writer, factor *workos.AuthenticationFactor) error {
	pairs := [][2]string{
		{"ID", factor.ID},
		{"Type", factor.Type.String()},
		{"User", valueOrNA(factor.UserID)},
	}

	if factor.TOTP != nil {
		pairs = append(pairs,
			[2]string{"Issuer", factor.TOTP.Issuer},
			[2]string{"Account", factor.TOTP.User},
		)

		if factor.TOTP.URI != "" {
			pairs = append(pairs, [2]string{"URI", factor.TOTP.URI})
		}
	}

	if factor.SMS != nil {
		pairs = append(pairs, [2]string{"Phone Number", factor.SMS.PhoneNumber})
	}

	pairs = append(pairs, [2]string{"Created", formatTime(factor.CreatedAt)})

	return renderProperties(out, pairs)
}

func newMFAEnrollCommand() *cobra.Command {
	var (
		factorType string
		params     workos.EnrollFactorParams
	)

	cmd := &cobra.Command{
		Use:   "enroll",
		Short: "Enroll a TOTP or SMS factor",
		RunE: func(cmd *cobra.Command, args []string) error {
			params.Type = workos.AuthenticationFactorType(factorType)
			if !params.Type.IsKnown() {
				return fmt.Errorf("%w: %q", ErrUnknownFactorType, factorType)
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			factor, err := client.MFA().EnrollFactor(commandContext(cmd), &params)
			if err != nil {
				return err
			}

			return render(cmd, factor, func(out io.Writer) error { return renderFactor(out, factor) })
		},
	}

	cmd.Flags().StringVar(&factorType, "type", string(workos.FactorTypeTOTP), "factor type (totp, sms)")
	cmd.Flags().StringVar(&params.TOTPIssuer, "issuer", "", "TOTP issuer shown in the authenticator app")
	cmd.Flags().StringVar(&params.TOTPUser, "account", "", "TOTP account name shown in the authenticator app")
	cmd.Flags().StringVar(&params.PhoneNumber, "phone", "", "phone number for SMS factors")

	return cmd
}

func newMFAChallengeCommand() *cobra.Command {
	var params workos.ChallengeFactorParams

	cmd := &cobra.Command{
		Use:   "challenge FACTOR_ID",
		Short: "Create a challenge for a factor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			challenge, err := client.MFA().ChallengeFactor(commandContext(cmd), args[0], &params)
			if err != nil {
				return err
			}

			return render(cmd, challenge, func(out io.Writer) error {
				expires := NotAvailable
				if challenge.ExpiresAt != nil {
					expires = formatTime(*challenge.ExpiresAt)
				}

				return renderProperties(out, [][2]string{
					{"ID", challenge.ID},
					{"Factor", challenge.AuthenticationFactorID},
					{"Expires", expires},
				})
			})
		},
	}

	cmd.Flags().StringVar(&params.SMSTemplate, "sms-template", "", "SMS message template containing {{code}}")

	return cmd
}

func newMFAVerifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "verify CHALLENGE_ID CODE",
		Short: "Verify the code for a challenge",
		Args:  cobra.ExactArgs(2), //nolint:mnd // challenge and code
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			result, err := client.MFA().VerifyChallenge(commandContext(cmd), args[0], args[1])
			if err != nil {
				return err
			}

			return render(cmd, result, func(out io.Writer) error {
				return renderProperties(out, [][2]string{
					{"Challenge", result.Challenge.ID},
					{"Valid", fmt.Sprintf("%t", result.Valid)},
				})
			})
		},
	}
}

func newMFAGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get FACTOR_ID",
		Short: "Get a factor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			factor, err := client.MFA().GetFactor(commandContext(cmd), args[0])
			if err != nil {
				return err
			}

			return render(cmd, factor, func(out io.Writer) error { return renderFactor(out, factor) })
		},
	}
}

func newMFADeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete FACTOR_ID",
		Aliases: []string{"rm"},
		Short:   "Delete a factor",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			err = client.MFA().DeleteFactor(commandContext(cmd), args[0])
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted factor %s\n", args[0])

			return nil
		},
	}
}
