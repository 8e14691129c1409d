// Package harness provides E2E testing utilities for hostctl.
package harness

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// E2EHarness is the main test orchestrator. Every file hostctl touches
// lives in a private temporary directory.
type E2EHarness struct {
	t           *testing.T
	tmpDir      string
	configPath  string
	hostsPath   string
	historyPath string
	timeout     time.Duration
}

// Config configures the harness.
type Config struct {
	HostsContent string        // Initial hosts file content
	Timeout      time.Duration // Default: 5 seconds
}

// New creates a new E2E harness.
func New(t *testing.T, cfg Config) *E2EHarness {
	t.Helper()

	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}

	tmpDir, err := os.MkdirTemp("", "hostctl-e2e-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	h := &E2EHarness{
		t:           t,
		tmpDir:      tmpDir,
		configPath:  filepath.Join(tmpDir, "config", "config.yaml"),
		hostsPath:   filepath.Join(tmpDir, "etc", "hosts"),
		historyPath: filepath.Join(tmpDir, "config", "history.db"),
		timeout:     cfg.Timeout,
	}
	t.Cleanup(h.cleanup)

	if err := os.MkdirAll(filepath.Dir(h.hostsPath), 0755); err != nil {
		t.Fatalf("failed to create hosts dir: %v", err)
	}
	if err := os.WriteFile(h.hostsPath, []byte(cfg.HostsContent), 0644); err != nil {
		t.Fatalf("failed to write hosts file: %v", err)
	}

	return h
}

func (h *E2EHarness) cleanup() {
	os.RemoveAll(h.tmpDir)
}

// TmpDir returns the temporary directory path.
func (h *E2EHarness) TmpDir() string {
	return h.tmpDir
}

// ConfigPath returns the configuration file path.
func (h *E2EHarness) ConfigPath() string {
	return h.configPath
}

// HostsPath returns the managed hosts file path.
func (h *E2EHarness) HostsPath() string {
	return h.hostsPath
}

// HistoryPath returns the switch history database path.
func (h *E2EHarness) HistoryPath() string {
	return h.historyPath
}

// WriteHosts replaces the hosts file, simulating an edit by another tool.
func (h *E2EHarness) WriteHosts(content string) {
	h.t.Helper()
	if err := os.WriteFile(h.hostsPath, []byte(content), 0644); err != nil {
		h.t.Fatalf("failed to write hosts file: %v", err)
	}
}

// Hosts returns the current hosts file content.
func (h *E2EHarness) Hosts() string {
	h.t.Helper()
	data, err := os.ReadFile(h.hostsPath)
	if err != nil {
		h.t.Fatalf("failed to read hosts file: %v", err)
	}
	return string(data)
}

// Config returns the current configuration file content.
func (h *E2EHarness) Config() string {
	h.t.Helper()
	data, err := os.ReadFile(h.configPath)
	if err != nil {
		h.t.Fatalf("failed to read config file: %v", err)
	}
	return string(data)
}

// Timeout returns the configured timeout.
func (h *E2EHarness) Timeout() time.Duration {
	return h.timeout
}

// T returns the testing.T instance.
func (h *E2EHarness) T() *testing.T {
	return h.t
}

// CLI returns a CLI runner for this harness.
func (h *E2EHarness) CLI() *CLIRunner {
	return &CLIRunner{harness: h}
}
