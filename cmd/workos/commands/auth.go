package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/workos-client/internal/auth"
	"github.com/fivetwenty-io/workos-client/internal/constants"
	"github.com/fivetwenty-io/workos-client/pkg/workos"
)

// sleepFunc waits for d or until ctx is done.
type sleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// pollDeviceCode exchanges the device code until the user approves or denies the
// request or the code expires. It waits the server interval before each attempt and
// widens it after every slow_down answer.
func pollDeviceCode(
	ctx context.Context,
	users workos.UserManagementClient,
	clientID string,
	authorization *workos.DeviceAuthorization,
	sleep sleepFunc,
) (*workos.AuthenticationResponse, error) {
	interval := time.Duration(authorization.Interval) * time.Second
	if interval <= 0 {
		interval = constants.DefaultPollInterval
	}

	expiresIn := time.Duration(authorization.ExpiresIn) * time.Second

	var waited time.Duration

	for {
		if expiresIn > 0 && waited >= expiresIn {
			return nil, constants.ErrDeviceLoginExpired
		}

		err := sleep(ctx, interval)
		if err != nil {
			return nil, err
		}

		waited += interval

		response, err := users.AuthenticateWithDeviceCode(ctx, &workos.AuthenticateWithDeviceCodeParams{
			ClientID:   clientID,
			DeviceCode: authorization.DeviceCode,
		})

		switch {
		case err == nil:
			return response, nil
		case errors.Is(err, workos.ErrAuthorizationPending):
			continue
		case errors.Is(err, workos.ErrSlowDown):
			interval += constants.SlowDownIncrement
		case errors.Is(err, workos.ErrExpiredToken):
			return nil, fmt.Errorf("%w: %w", constants.ErrDeviceLoginExpired, err)
		default:
			return nil, err
		}
	}
}

// sessionFromResponse decodes the access token claims. Tokens that cannot be
// decoded are kept without claims.
func sessionFromResponse(response *workos.AuthenticationResponse, logger workos.Logger) *auth.Token {
	token, err := auth.ParseAccessToken(response.AccessToken)
	if err != nil {
		logger.Warn("Could not decode access token", map[string]interface{}{"error": err.Error()})

		token = &auth.Token{AccessToken: response.AccessToken}
	}

	if token.UserID == "" {
		token.UserID = response.User.ID
	}

	if token.OrganizationID == "" && response.OrganizationID != nil {
		token.OrganizationID = *response.OrganizationID
	}

	return token
}

// DeviceLoginResult is printed after a successful device login.
type DeviceLoginResult struct {
	UserID         string    `json:"user_id"                   yaml:"user_id"`
	Email          string    `json:"email"                     yaml:"email"`
	OrganizationID string    `json:"organization_id,omitempty" yaml:"organization_id,omitempty"`
	SessionID      string    `json:"session_id,omitempty"      yaml:"session_id,omitempty"`
	Role           string    `json:"role,omitempty"            yaml:"role,omitempty"`
	Permissions    []string  `json:"permissions,omitempty"     yaml:"permissions,omitempty"`
	ExpiresAt      time.Time `json:"expires_at"                yaml:"expires_at"`
}

// NewAuthCommand creates the auth command group.
func NewAuthCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Sign in users through AuthKit",
	}

	cmd.AddCommand(newAuthDeviceLoginCommand(sleepContext))
	cmd.AddCommand(newAuthStatusCommand())
	cmd.AddCommand(newAuthLogoutCommand())

	return cmd
}

func newAuthDeviceLoginCommand(sleep sleepFunc) *cobra.Command {
	var noSave bool

	cmd := &cobra.Command{
		Use:   "device-login",
		Short: "Sign in with the device authorization flow",
		Long: `Start a device authorization request, print the verification URL and code, and
wait until the user approves it in a browser. The resulting session is stored in
the config file unless --no-save is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			clientID := viper.GetString("client_id")
			if clientID == "" {
				return ErrClientIDNotConfigured
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			ctx := commandContext(cmd)
			users := client.UserManagement()

			authorization, err := users.GetDeviceAuthorizationURL(ctx, &workos.DeviceAuthorizationParams{ClientID: clientID})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Open %s and confirm the code %s\n",
				authorization.VerificationURIComplete, authorization.UserCode)
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Waiting for approval...")

			response, err := pollDeviceCode(ctx, users, clientID, authorization, sleep)
			if err != nil {
				return err
			}

			session := sessionFromResponse(response, newLogger(cmd.ErrOrStderr(), viper.GetBool("verbose")))

			if !noSave {
				err = updateConfig(func(config *Config) error {
					config.Session = session

					return nil
				})
				if err != nil {
					return err
				}
			}

			result := DeviceLoginResult{
				UserID:         session.UserID,
				Email:          response.User.Email,
				OrganizationID: session.OrganizationID,
				SessionID:      session.SessionID,
				Role:           session.Role,
				Permissions:    session.Permissions,
				ExpiresAt:      session.ExpiresAt,
			}

			return render(cmd, result, func(out io.Writer) error {
				return renderProperties(out, [][2]string{
					{"User", result.UserID},
					{"Email", result.Email},
					{"Organization", valueOrDefault(result.OrganizationID, NotAvailable)},
					{"Session", valueOrDefault(result.SessionID, NotAvailable)},
					{"Role", valueOrDefault(result.Role, NotAvailable)},
					{"Permissions", valueOrDefault(strings.Join(result.Permissions, ", "), NotAvailable)},
					{"Expires", formatTime(result.ExpiresAt)},
				})
			})
		},
	}

	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the session in the config file")

	return cmd
}

func newAuthStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath()
			if err != nil {
				return err
			}

			config, err := loadConfig(path)
			if err != nil {
				return err
			}

			session := config.Session
			if session == nil {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")

				return nil
			}

			session.AccessToken = maskSecret(session.AccessToken)

			return render(cmd, session, func(out io.Writer) error {
				return renderProperties(out, [][2]string{
					{"User", session.UserID},
					{"Organization", valueOrDefault(session.OrganizationID, NotAvailable)},
					{"Session", valueOrDefault(session.SessionID, NotAvailable)},
					{"Expires", formatTime(session.ExpiresAt)},
					{"Valid", fmt.Sprintf("%t", config.Session.Valid())},
				})
			})
		},
	}
}

func newAuthLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := updateConfig(func(config *Config) error {
				config.Session = nil

				return nil
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Session removed")

			return nil
		},
	}
}
