package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func missingEnvFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("", missingEnvFile(t))
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Fatalf("unexpected config (-want +got):\n%s", diff)
	}
	if cfg.Production() {
		t.Fatal("default environment must not be production")
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
addr: ":9090"
docs:
  title: Orders
  ui: redoc
router:
  timeout: 5s
  cors:
    origins: ["https://example.com"]
    allow_credentials: true
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path, missingEnvFile(t))
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	if cfg.Addr != ":9090" || cfg.Docs.Title != "Orders" || cfg.Docs.UI != "redoc" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Router.Timeout != 5*time.Second {
		t.Fatalf("expected 5s timeout, got %s", cfg.Router.Timeout)
	}
	if diff := cmp.Diff([]string{"https://example.com"}, cfg.Router.CORS.Origins); diff != "" {
		t.Fatalf("unexpected origins (-want +got):\n%s", diff)
	}
	if !cfg.Router.CORS.AllowCredentials {
		t.Fatal("expected credentials to be allowed")
	}
	if cfg.Docs.SpecPath != "/swagger" {
		t.Fatalf("expected untouched keys to keep defaults, got %q", cfg.Docs.SpecPath)
	}
}

func TestLoadConfigEnvironmentWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("addr: \":9090\"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("ROUTEWEAVER_ADDR", ":7070")
	t.Setenv("ROUTEWEAVER_DOCS_TITLE", "From Env")
	t.Setenv("APP_ENV", "production")

	cfg, err := LoadConfig(path, missingEnvFile(t))
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if cfg.Addr != ":7070" {
		t.Fatalf("expected env address, got %q", cfg.Addr)
	}
	if cfg.Docs.Title != "From Env" {
		t.Fatalf("expected env title, got %q", cfg.Docs.Title)
	}
	if !cfg.Production() {
		t.Fatalf("expected APP_ENV to select production, got %q", cfg.Environment)
	}
}

func TestLoadConfigReadsDotenv(t *testing.T) {
	const key = "ROUTEWEAVER_DOCS_VERSION"
	if _, set := os.LookupEnv(key); set {
		t.Skipf("%s already set", key)
	}
	t.Cleanup(func() { os.Unsetenv(key) })

	envFile := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(envFile, []byte(key+"=2.3.4\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	cfg, err := LoadConfig("", envFile)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if cfg.Docs.Version != "2.3.4" {
		t.Fatalf("expected dotenv version, got %q", cfg.Docs.Version)
	}
}

func TestLoadConfigRejectsBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("addr: [unterminated\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path, missingEnvFile(t)); err == nil {
		t.Fatal("expected malformed config to fail")
	}
}
