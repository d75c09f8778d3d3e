//go:build integration
// +build integration

package integration

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// testAPIName is the short name the tests register the endpoint under.
const testAPIName = "integration"

// TestConfig holds configuration for integration tests
type TestConfig struct {
	Endpoint     string
	Tenant       string
	Username     string
	Password     string
	DeploymentID string
	SkipSSL      bool
	VraPath      string
	Verbose      bool
}

// LoadTestConfig loads configuration from environment variables
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		Endpoint:     os.Getenv("VRA_ENDPOINT"),
		Tenant:       os.Getenv("VRA_TENANT"),
		Username:     os.Getenv("VRA_USERNAME"),
		Password:     os.Getenv("VRA_PASSWORD"),
		DeploymentID: os.Getenv("VRA_DEPLOYMENT_ID"),
		SkipSSL:      os.Getenv("VRA_SKIP_SSL") == "true",
		VraPath:      getVraPath(),
		Verbose:      os.Getenv("VRA_VERBOSE") == "true",
	}
}

// getVraPath determines the path to the vra binary
func getVraPath() string {
	if path := os.Getenv("VRA_BINARY_PATH"); path != "" {
		return path
	}

	// Try common locations
	candidates := []string{
		"../../vra",
		"./vra",
		"../vra",
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return "vra" // Fallback to PATH
}

// SkipIfMissingConfig skips test if required config is missing
func (config *TestConfig) SkipIfMissingConfig(t *testing.T) {
	if config.Endpoint == "" {
		t.Skip("VRA_ENDPOINT not set, skipping integration test")
	}

	if _, err := os.Stat(config.VraPath); os.IsNotExist(err) {
		t.Skipf("vra binary not found at %s, skipping integration test", config.VraPath)
	}
}

// CommandRunner provides utilities for running vra commands against an
// isolated configuration file, so tests never touch ~/.vra/config.yml.
type CommandRunner struct {
	config     *TestConfig
	configPath string
	t          *testing.T
}

// NewCommandRunner creates a new command runner
func NewCommandRunner(config *TestConfig, t *testing.T) *CommandRunner {
	return &CommandRunner{
		config:     config,
		configPath: filepath.Join(t.TempDir(), "config.yml"),
		t:          t,
	}
}

// Run executes a vra command and returns output
func (runner *CommandRunner) Run(args ...string) (stdout, stderr string, err error) {
	fullArgs := append([]string{"--config", runner.configPath}, args...)
	cmd := exec.Command(runner.config.VraPath, fullArgs...)

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	if runner.config.Verbose {
		runner.t.Logf("Running: %s %s", runner.config.VraPath, strings.Join(fullArgs, " "))
	}

	err = cmd.Run()
	stdout = stdoutBuf.String()
	stderr = stderrBuf.String()

	if runner.config.Verbose && err != nil {
		runner.t.Logf("Command failed: %v\nStdout: %s\nStderr: %s", err, stdout, stderr)
	}

	return stdout, stderr, err
}

// RunWithInput executes a vra command with stdin input
func (runner *CommandRunner) RunWithInput(input string, args ...string) (stdout, stderr string, err error) {
	fullArgs := append([]string{"--config", runner.configPath}, args...)
	cmd := exec.Command(runner.config.VraPath, fullArgs...)

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf
	cmd.Stdin = strings.NewReader(input)

	if runner.config.Verbose {
		runner.t.Logf("Running with input: %s %s", runner.config.VraPath, strings.Join(fullArgs, " "))
	}

	err = cmd.Run()
	stdout = stdoutBuf.String()
	stderr = stderrBuf.String()

	if runner.config.Verbose && err != nil {
		runner.t.Logf("Command failed: %v\nStdout: %s\nStderr: %s", err, stdout, stderr)
	}

	return stdout, stderr, err
}

// SetupAPITarget registers the test endpoint in the isolated config
func (runner *CommandRunner) SetupAPITarget() error {
	args := []string{"apis", "add", testAPIName, runner.config.Endpoint}
	if runner.config.Tenant != "" {
		args = append(args, "--tenant", runner.config.Tenant)
	}

	if runner.config.SkipSSL {
		args = append(args, "--skip-ssl-validation")
	}

	_, stderr, err := runner.Run(args...)
	if err != nil {
		return fmt.Errorf("failed to add API target: %s", stderr)
	}

	return nil
}

// AuthenticateUser logs in with the configured credentials
func (runner *CommandRunner) AuthenticateUser() error {
	if runner.config.Username == "" || runner.config.Password == "" {
		return fmt.Errorf("no authentication credentials provided")
	}

	_, stderr, err := runner.Run("login",
		"--api", testAPIName,
		"--username", runner.config.Username,
		"--password", runner.config.Password)
	if err != nil {
		return fmt.Errorf("failed to log in: %s", stderr)
	}

	return nil
}

// GenerateTestName creates a unique test resource name
func GenerateTestName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().Unix())
}

// WaitForCondition waits for a condition to be met with timeout
func WaitForCondition(t *testing.T, condition func() bool, timeout time.Duration, message string) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	timeoutChan := time.After(timeout)

	for {
		select {
		case <-ticker.C:
			if condition() {
				return
			}
		case <-timeoutChan:
			t.Fatalf("Timeout waiting for condition: %s", message)
		}
	}
}

// AssertJSONOutput verifies command output is valid JSON
func AssertJSONOutput(t *testing.T, output string) {
	// Basic JSON validation
	output = strings.TrimSpace(output)
	if !strings.HasPrefix(output, "{") && !strings.HasPrefix(output, "[") {
		t.Errorf("Output does not appear to be JSON: %s", output)
	}
}

// AssertYAMLOutput verifies command output is valid YAML
func AssertYAMLOutput(t *testing.T, output string) {
	// Basic YAML validation
	output = strings.TrimSpace(output)
	if strings.Contains(output, "---") || strings.Contains(output, ":") {
		return // Looks like YAML
	}
	t.Errorf("Output does not appear to be YAML: %s", output)
}
