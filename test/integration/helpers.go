//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
)

// TestConfig holds configuration for integration tests.
type TestConfig struct {
	APIKey     string
	BaseURL    string
	ClientID   string
	BinaryPath string
	Verbose    bool
}

// LoadTestConfig loads configuration from environment variables.
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		APIKey:     os.Getenv("WORKOS_API_KEY"),
		BaseURL:    os.Getenv("WORKOS_BASE_URL"),
		ClientID:   os.Getenv("WORKOS_CLIENT_ID"),
		BinaryPath: binaryPath(),
		Verbose:    os.Getenv("WORKOS_VERBOSE") == "true",
	}
}

// binaryPath determines the path to the workos binary.
func binaryPath() string {
	if path := os.Getenv("WORKOS_BINARY_PATH"); path != "" {
		return path
	}

	for _, candidate := range []string{"../../workos", "./workos"} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return "workos"
}

// SkipIfMissingConfig skips the test when no API key is configured.
func (config *TestConfig) SkipIfMissingConfig(t *testing.T) {
	t.Helper()

	if config.APIKey == "" {
		t.Skip("WORKOS_API_KEY not set, skipping integration test")
	}
}

// SkipIfMissingBinary skips the test when the CLI binary cannot be found.
func (config *TestConfig) SkipIfMissingBinary(t *testing.T) {
	t.Helper()

	if _, err := exec.LookPath(config.BinaryPath); err != nil {
		t.Skipf("workos binary not found at %s, skipping integration test", config.BinaryPath)
	}
}

// CommandRunner runs the workos binary against the configured environment.
type CommandRunner struct {
	config *TestConfig
	t      *testing.T
}

// NewCommandRunner creates a new command runner.
func NewCommandRunner(config *TestConfig, t *testing.T) *CommandRunner {
	return &CommandRunner{config: config, t: t}
}

// Run executes a command with JSON output and returns stdout and stderr.
func (runner *CommandRunner) Run(args ...string) (string, string, error) {
	args = append(args, "--output", "json")

	cmd := exec.Command(runner.config.BinaryPath, args...) //nolint:gosec // test binary path
	cmd.Env = append(os.Environ(), "WORKOS_API_KEY="+runner.config.APIKey)

	if runner.config.BaseURL != "" {
		cmd.Env = append(cmd.Env, "WORKOS_BASE_URL="+runner.config.BaseURL)
	}

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if runner.config.Verbose {
		runner.t.Logf("Running: %s %s", runner.config.BinaryPath, strings.Join(args, " "))
	}

	err := cmd.Run()
	if runner.config.Verbose && err != nil {
		runner.t.Logf("Command failed: %v\nStdout: %s\nStderr: %s", err, stdout.String(), stderr.String())
	}

	return stdout.String(), stderr.String(), err
}

// RunJSON executes a command and decodes its JSON output into target.
func (runner *CommandRunner) RunJSON(target any, args ...string) error {
	stdout, stderr, err := runner.Run(args...)
	if err != nil {
		return fmt.Errorf("%w: %s", err, stderr)
	}

	return json.Unmarshal([]byte(stdout), target)
}
