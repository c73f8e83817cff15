package config

import (
	"os"
	"path/filepath"
	"testing"
)

// TestLoad_Defaults loads defaults when no file is given.
func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Email.SMTPHost != "smtp.gmail.com" || cfg.Email.SMTPPort != 587 {
		t.Errorf("smtp = %s:%d", cfg.Email.SMTPHost, cfg.Email.SMTPPort)
	}
	if cfg.HolidayAPI.BaseURL != "https://api-harilibur.vercel.app/api" {
		t.Errorf("api base = %q", cfg.HolidayAPI.BaseURL)
	}
	if cfg.Scheduler.CronSpec != "0 8 * * *" || cfg.Scheduler.Timezone != "Asia/Jakarta" {
		t.Errorf("scheduler = %+v", cfg.Scheduler)
	}
	if len(cfg.Storage.DefaultReceivers) != 1 || cfg.Storage.DefaultReceivers[0] != "team@company.com" {
		t.Errorf("default receivers = %v", cfg.Storage.DefaultReceivers)
	}
}

// TestLoad_DefaultReceivers configures the seed recipient list from YAML and
// from a comma-separated environment variable.
func TestLoad_DefaultReceivers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
storage:
  default_receivers:
    - a@company.com
    - b@company.com
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Storage.DefaultReceivers) != 2 || cfg.Storage.DefaultReceivers[1] != "b@company.com" {
		t.Errorf("receivers = %v", cfg.Storage.DefaultReceivers)
	}

	t.Setenv("DEFAULT_RECEIVERS", " c@company.com, d@company.com ,,")
	cfg, err = Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"c@company.com", "d@company.com"}
	if len(cfg.Storage.DefaultReceivers) != len(want) {
		t.Fatalf("receivers = %v", cfg.Storage.DefaultReceivers)
	}
	for i, r := range want {
		if cfg.Storage.DefaultReceivers[i] != r {
			t.Errorf("receivers[%d] = %q, want %q", i, cfg.Storage.DefaultReceivers[i], r)
		}
	}
}

// TestLoad_FileOverridesDefaults merges file values over defaults.
func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  addr: ":9090"
email:
  provider: noop
  sender: ops@company.com
scheduler:
  cron_spec: "30 7 * * *"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Email.Provider != "noop" || cfg.Email.Sender != "ops@company.com" {
		t.Errorf("email = %+v", cfg.Email)
	}
	if cfg.Scheduler.CronSpec != "30 7 * * *" {
		t.Errorf("cron = %q", cfg.Scheduler.CronSpec)
	}
	// Untouched sections keep their defaults.
	if cfg.Storage.StatePath != "data.json" {
		t.Errorf("state path = %q", cfg.Storage.StatePath)
	}
}

// TestLoad_EnvOverrides lets environment variables win over file values.
func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SMTP_HOST", "mail.internal")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("EMAIL_PASSWORD", "secret")
	t.Setenv("HOLIDAY_API_URL", "http://localhost:9999/api")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Email.SMTPHost != "mail.internal" || cfg.Email.SMTPPort != 2525 {
		t.Errorf("smtp = %s:%d", cfg.Email.SMTPHost, cfg.Email.SMTPPort)
	}
	if cfg.Email.SMTPPassword != "secret" {
		t.Errorf("password = %q", cfg.Email.SMTPPassword)
	}
	if cfg.HolidayAPI.BaseURL != "http://localhost:9999/api" {
		t.Errorf("api base = %q", cfg.HolidayAPI.BaseURL)
	}
}

// TestLoad_Validation rejects broken configurations.
func TestLoad_Validation(t *testing.T) {
	t.Setenv("EMAIL_PROVIDER", "carrier-pigeon")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for unknown provider")
	}

	t.Setenv("EMAIL_PROVIDER", "resend")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for resend without API key")
	}

	t.Setenv("RESEND_API_KEY", "re_123")
	if _, err := Load(""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// TestLoad_MissingFile surfaces the read error.
func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
