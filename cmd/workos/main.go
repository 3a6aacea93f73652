package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/workos-client/cmd/workos/commands"
	"github.com/fivetwenty-io/workos-client/internal/constants"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "workos",
	Short: "WorkOS API CLI",
	Long: `A command-line interface for the WorkOS API.

It covers fine-grained authorization, organizations and their domains, user
management, directory sync, multi-factor authentication, the Admin Portal,
widgets and events.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.workos/config.yml)")
	rootCmd.PersistentFlags().String("api-key", "", "WorkOS API key")
	rootCmd.PersistentFlags().String("base-url", "", "API base URL (default https://api.workos.com)")
	rootCmd.PersistentFlags().String("client-id", "", "AuthKit client ID")
	rootCmd.PersistentFlags().StringP("output", "o", constants.FormatTable, "output format (table, json, yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().Int("retries", 0, "retry failed requests on 429 and 5xx responses")
	rootCmd.PersistentFlags().Float64("rate-limit", 0, "maximum requests per second (0 disables the limit)")
	rootCmd.PersistentFlags().StringArray("header", nil, "extra request header as KEY=VALUE (repeatable)")
	rootCmd.PersistentFlags().String("metrics-addr", "", "serve Prometheus client metrics on this address while the command runs")

	// Bind flags to viper
	for key, flag := range map[string]string{
		"config":       "config",
		"api_key":      "api-key",
		"base_url":     "base-url",
		"client_id":    "client-id",
		"output":       "output",
		"verbose":      "verbose",
		"retries":      "retries",
		"rate_limit":   "rate-limit",
		"headers":      "header",
		"metrics_addr": "metrics-addr",
	} {
		_ = viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag))
	}

	// Add commands
	rootCmd.AddCommand(commands.NewVersionCommand(version, commit, date))
	rootCmd.AddCommand(commands.NewConfigCommand())
	rootCmd.AddCommand(commands.NewAuthCommand())
	rootCmd.AddCommand(commands.NewFGACommand())
	rootCmd.AddCommand(commands.NewOrgsCommand())
	rootCmd.AddCommand(commands.NewDomainsCommand())
	rootCmd.AddCommand(commands.NewUsersCommand())
	rootCmd.AddCommand(commands.NewMembershipsCommand())
	rootCmd.AddCommand(commands.NewDirectoriesCommand())
	rootCmd.AddCommand(commands.NewMFACommand())
	rootCmd.AddCommand(commands.NewPortalCommand())
	rootCmd.AddCommand(commands.NewWidgetsCommand())
	rootCmd.AddCommand(commands.NewEventsCommand())
}

func initConfig() {
	cfgFile := viper.GetString("config")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		// Search config in ~/.workos/config.yml
		viper.AddConfigPath(filepath.Join(home, ".workos"))
		viper.SetConfigType("yml")
		viper.SetConfigName("config")
	}

	// WORKOS_API_KEY, WORKOS_BASE_URL, WORKOS_CLIENT_ID
	viper.SetEnvPrefix("WORKOS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	if err == nil && viper.GetBool("verbose") {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)

	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
