package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/pipegrid/internal/hcl"
	"github.com/specialistvlad/pipegrid/internal/registry"
	"github.com/specialistvlad/pipegrid/internal/testutil"
)

// SetupAppTest writes hclContent into a temporary configuration file and
// creates an app for it. Unset fields of cfg get test-friendly defaults.
func SetupAppTest(t *testing.T, hclContent string, cfg Config, modules ...registry.Module) (*App, *testutil.SafeBuffer) {
	t.Helper()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "main.hcl"), []byte(hclContent), 0o600); err != nil {
		t.Fatalf("failed to write configuration: %v", err)
	}

	cfg.ConfigPaths = []string{dir}
	cfg.LogLevel = "debug"
	cfg.LogFormat = "text"
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 2
	}
	appConfig, err := NewConfig(cfg)
	if err != nil {
		t.Fatalf("invalid test configuration: %v", err)
	}

	logBuffer := &testutil.SafeBuffer{}
	testApp, err := NewApp(logBuffer, appConfig, hcl.NewLoader(), modules...)
	if err != nil {
		t.Fatalf("failed to create app: %v", err)
	}

	t.Cleanup(func() {
		if os.Getenv("PIPEGRID_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})
	return testApp, logBuffer
}
