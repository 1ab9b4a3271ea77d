package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":8080" || cfg.DBPath != "db/garudaspot.db" || cfg.LogLevel != "info" {
		t.Fatalf("defaults = %+v", cfg)
	}
	if cfg.Admin.Username != "admin" || cfg.Admin.Password != "" {
		t.Fatalf("admin defaults = %+v", cfg.Admin)
	}
	if cfg.HTTP.ReadTimeout != 10*time.Second || cfg.HTTP.ShutdownTimeout != 10*time.Second {
		t.Fatalf("http defaults = %+v", cfg.HTTP)
	}
	if cfg.Events.RetentionDays != 90 {
		t.Fatalf("retention = %d, want 90", cfg.Events.RetentionDays)
	}
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garudaspot.yaml")
	doc := `
addr: ":9090"
db_path: /var/lib/garudaspot/site.db
log_level: debug
admin:
  username: root
  password: rahasia
http:
  read_timeout: 5s
events:
  retention_days: 30
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":9090" || cfg.DBPath != "/var/lib/garudaspot/site.db" || cfg.LogLevel != "debug" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Admin.Username != "root" || cfg.Admin.Password != "rahasia" {
		t.Fatalf("admin = %+v", cfg.Admin)
	}
	if cfg.HTTP.ReadTimeout != 5*time.Second {
		t.Fatalf("read timeout = %v", cfg.HTTP.ReadTimeout)
	}
	// Unset fields still default.
	if cfg.HTTP.WriteTimeout != 30*time.Second {
		t.Fatalf("write timeout = %v", cfg.HTTP.WriteTimeout)
	}
	if cfg.Events.RetentionDays != 30 {
		t.Fatalf("retention = %d", cfg.Events.RetentionDays)
	}
}

func TestLoad_EnvWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garudaspot.yaml")
	if err := os.WriteFile(path, []byte("addr: \":9090\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PORT", "3000")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("ADMIN_PASSWORD", "dari-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":3000" {
		t.Fatalf("addr = %q, want :3000", cfg.Addr)
	}
	if cfg.LogLevel != "warn" || cfg.Admin.Password != "dari-env" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garudaspot.yaml")
	if err := os.WriteFile(path, []byte("addr: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}
