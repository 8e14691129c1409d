package harness

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/artpar/hostctl/internal/cli"
)

// CLIResult holds CLI execution results.
type CLIResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// CLIRunner executes CLI commands against the harness files.
type CLIRunner struct {
	harness *E2EHarness
}

// Run executes a CLI command with the given arguments.
func (r *CLIRunner) Run(args ...string) (*CLIResult, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.harness.timeout)
	defer cancel()

	start := time.Now()

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	cmd := cli.NewRootCommand("test")
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(append([]string{
		"--config", r.harness.configPath,
		"--hosts-file", r.harness.hostsPath,
		"--history", r.harness.historyPath,
	}, args...))

	err := cmd.ExecuteContext(ctx)

	result := &CLIResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if err != nil {
		result.ExitCode = 1
	}

	return result, err
}

// Add is a convenience method for the add command.
func (r *CLIRunner) Add(name string, opts ...string) (*CLIResult, error) {
	return r.Run(append([]string{"add", name}, opts...)...)
}

// AddEntry is a convenience method for the add-entry command.
func (r *CLIRunner) AddEntry(env, address string, hostnames ...string) (*CLIResult, error) {
	return r.Run(append([]string{"add-entry", env, address}, hostnames...)...)
}

// Switch is a convenience method for the switch command.
func (r *CLIRunner) Switch(name string, opts ...string) (*CLIResult, error) {
	return r.Run(append([]string{"switch", name}, opts...)...)
}
