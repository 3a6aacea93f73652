package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/workos-client/internal/auth"
	"github.com/fivetwenty-io/workos-client/internal/constants"
	"github.com/fivetwenty-io/workos-client/pkg/workos"
	"github.com/fivetwenty-io/workos-client/pkg/workosclient"
)

// Config represents the persisted CLI configuration.
type Config struct {
	APIKey   string      `json:"api_key,omitempty"   yaml:"api_key,omitempty"`
	BaseURL  string      `json:"base_url,omitempty"  yaml:"base_url,omitempty"`
	ClientID string      `json:"client_id,omitempty" yaml:"client_id,omitempty"`
	Output   string      `json:"output,omitempty"    yaml:"output,omitempty"`
	Session  *auth.Token `json:"session,omitempty"   yaml:"session,omitempty"`
}

// configPath returns --config when given, otherwise $HOME/.workos/config.yml.
func configPath() (string, error) {
	if path := viper.GetString("config"); path != "" {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locating home directory: %w", err)
	}

	return filepath.Join(home, ".workos", "config.yml"), nil
}

// loadConfig reads the config file at path. A missing file is an empty config.
func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is chosen by the user
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var config Config

	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return &config, nil
}

// saveConfig writes config to path, creating the directory when needed.
func saveConfig(path string, config *Config) error {
	err := os.MkdirAll(filepath.Dir(path), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	err = os.WriteFile(path, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// updateConfig loads the config file, applies update and saves the result.
func updateConfig(update func(*Config) error) error {
	path, err := configPath()
	if err != nil {
		return err
	}

	config, err := loadConfig(path)
	if err != nil {
		return err
	}

	err = update(config)
	if err != nil {
		return err
	}

	return saveConfig(path, config)
}

// setConfigValue sets one supported key, validating its value.
func setConfigValue(config *Config, key, value string) error {
	switch key {
	case "api_key", "api-key":
		config.APIKey = value
	case "base_url", "base-url":
		normalized, err := workosclient.NormalizeBaseURL(value)
		if err != nil {
			return err
		}

		config.BaseURL = normalized
	case "client_id", "client-id":
		config.ClientID = value
	case "output":
		switch value {
		case constants.FormatTable, constants.FormatJSON, constants.FormatYAML:
			config.Output = value
		default:
			return fmt.Errorf("%w: %q", constants.ErrInvalidOutputValue, value)
		}
	default:
		return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
	}

	return nil
}

func maskSecret(secret string) string {
	const visible = 4

	if secret == "" {
		return NotAvailable
	}

	if len(secret) <= visible*2 {
		return Masked
	}

	return secret[:visible] + Masked + secret[len(secret)-visible:]
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Manage the API key, base URL, client ID and output format stored in the config file",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigLoginCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the stored configuration with the API key masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath()
			if err != nil {
				return err
			}

			config, err := loadConfig(path)
			if err != nil {
				return err
			}

			config.APIKey = maskSecret(config.APIKey)
			if config.Session != nil {
				config.Session.AccessToken = maskSecret(config.Session.AccessToken)
			}

			return render(cmd, config, func(out io.Writer) error {
				pairs := [][2]string{
					{"Config File", path},
					{"API Key", config.APIKey},
					{"Base URL", valueOrDefault(config.BaseURL, constants.DefaultBaseURL)},
					{"Client ID", valueOrDefault(config.ClientID, NotAvailable)},
					{"Output", valueOrDefault(config.Output, constants.FormatTable)},
				}

				if config.Session != nil {
					pairs = append(pairs,
						[2]string{"Session User", config.Session.UserID},
						[2]string{"Session Expires", formatTime(config.Session.ExpiresAt)},
						[2]string{"Session Valid", fmt.Sprintf("%t", config.Session.Valid())},
					)
				}

				return renderProperties(out, pairs)
			})
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Set one of api_key, base_url, client_id or output in the config file",
		Args:  cobra.ExactArgs(2), //nolint:mnd // key and value
		RunE: func(cmd *cobra.Command, args []string) error {
			err := updateConfig(func(config *Config) error {
				return setConfigValue(config, args[0], args[1])
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s\n", args[0])

			return nil
		},
	}
}

func newConfigLoginCommand() *cobra.Command {
	var skipVerify bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store an API key",
		Long:  "Prompt for an API key, verify it against the API and store it in the config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiKey, err := readSecret(cmd, "API key: ")
			if err != nil {
				return err
			}

			if apiKey == "" {
				return workos.ErrAPIKeyRequired
			}

			viper.Set("api_key", apiKey)

			if !skipVerify {
				client, err := newClient(cmd)
				if err != nil {
					return err
				}

				_, err = client.Organizations().List(commandContext(cmd),
					&workos.ListOrganizationsParams{PaginationParams: workos.PaginationParams{Limit: 1}})
				if err != nil {
					return fmt.Errorf("verifying API key: %w", err)
				}
			}

			err = updateConfig(func(config *Config) error {
				config.APIKey = apiKey

				return nil
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "API key saved")

			return nil
		},
	}

	cmd.Flags().BoolVar(&skipVerify, "skip-verify", false, "store the key without calling the API")

	return cmd
}

// readSecret prompts without echo on a terminal and reads a plain line otherwise.
func readSecret(cmd *cobra.Command, prompt string) (string, error) {
	_, _ = fmt.Fprint(cmd.ErrOrStderr(), prompt)

	if cmd.InOrStdin() == os.Stdin && term.IsTerminal(int(syscall.Stdin)) { //nolint:unconvert // Stdin is uintptr on windows
		secret, err := term.ReadPassword(int(syscall.Stdin)) //nolint:unconvert // Stdin is uintptr on windows
		_, _ = fmt.Fprintln(cmd.ErrOrStderr())

		if err != nil {
			return "", fmt.Errorf("failed to read secret: %w", err)
		}

		return strings.TrimSpace(string(secret)), nil
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read secret: %w", err)
	}

	return strings.TrimSpace(line), nil
}

func valueOrDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}

	return value
}
