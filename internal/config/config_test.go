package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("Load() returned an unexpected error: %v", err)
	}
	if cfg.Listen != ":8080" {
		t.Errorf("Listen = %q, want :8080", cfg.Listen)
	}
	if cfg.DB != "revisio.db" {
		t.Errorf("DB = %q, want revisio.db", cfg.DB)
	}
	if cfg.Scope.Mode != "shared" || cfg.Scope.Name != "shared" {
		t.Errorf("Scope = %+v, want shared/shared", cfg.Scope)
	}
}

func TestLoadMissingFileIsIgnored(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil); err != nil {
		t.Fatalf("Load() with missing file returned an error: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "revisio.yaml")
	content := `
listen: ":9090"
scope:
  mode: header
  header: X-User
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() returned an unexpected error: %v", err)
	}

	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load() returned an unexpected error: %v", err)
	}
	if cfg.Listen != ":9090" {
		t.Errorf("Listen = %q, want :9090", cfg.Listen)
	}
	if cfg.Scope.Mode != "header" || cfg.Scope.Header != "X-User" {
		t.Errorf("Scope = %+v, want header/X-User", cfg.Scope)
	}
	// Untouched keys keep their defaults.
	if cfg.DB != "revisio.db" {
		t.Errorf("DB = %q, want default", cfg.DB)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "revisio.yaml")
	if err := os.WriteFile(path, []byte("db: from-file.db\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() returned an unexpected error: %v", err)
	}
	t.Setenv("REVISIO_DB", "from-env.db")

	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load() returned an unexpected error: %v", err)
	}
	if cfg.DB != "from-env.db" {
		t.Errorf("DB = %q, want env to override file", cfg.DB)
	}
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	t.Setenv("REVISIO_LISTEN", ":7070")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("listen", ":8080", "")
	flags.String("db", "revisio.db", "")
	if err := flags.Parse([]string{"--listen", ":6060"}); err != nil {
		t.Fatalf("Parse() returned an unexpected error: %v", err)
	}

	cfg, err := Load("", flags)
	if err != nil {
		t.Fatalf("Load() returned an unexpected error: %v", err)
	}
	if cfg.Listen != ":6060" {
		t.Errorf("Listen = %q, want flag to override env", cfg.Listen)
	}
}

func TestLoadRejectsBadScopeMode(t *testing.T) {
	t.Setenv("REVISIO_SCOPE_MODE", "everyone")
	if _, err := Load("", nil); err == nil {
		t.Fatal("Load() should reject an unknown scope mode")
	}
}
