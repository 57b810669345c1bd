package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaultsToLongpoll(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: "123:abc"
  admin_ids: [1797890079]
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Fatalf("run_mode = %q, expected %q", cfg.Telegram.RunMode, RunModeLongpoll)
	}
	if len(cfg.Telegram.AdminIDs) != 1 || cfg.Telegram.AdminIDs[0] != 1797890079 {
		t.Fatalf("admin_ids = %v", cfg.Telegram.AdminIDs)
	}
}

func TestLoadRequiresToken(t *testing.T) {
	path := writeConfig(t, `
telegram:
  run_mode: longpoll
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for missing token")
	}
}

func TestNormalizeRejectsBadRunMode(t *testing.T) {
	cfg := &Config{Telegram: TelegramConfig{Token: "t", RunMode: "carrier-pigeon"}}
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for invalid run_mode")
	}
}

func TestNormalizeAcceptsPollingAlias(t *testing.T) {
	cfg := &Config{Telegram: TelegramConfig{Token: "t", RunMode: "polling"}}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Fatalf("run_mode = %q", cfg.Telegram.RunMode)
	}
}

func TestNormalizeRejectsNonPositiveAdminID(t *testing.T) {
	cfg := &Config{Telegram: TelegramConfig{Token: "t", AdminIDs: []int64{42, 0}}}
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for non-positive admin id")
	}
}

func TestNormalizeWebhookRequiresURL(t *testing.T) {
	cfg := &Config{Telegram: TelegramConfig{Token: "t", RunMode: RunModeWebhook}}
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for webhook mode without url")
	}
}

func TestNormalizeRateLimitExclusions(t *testing.T) {
	cfg := &Config{
		Telegram:  TelegramConfig{Token: "t"},
		RateLimit: RateLimitConfig{ExcludeUpdates: []string{" Callback ", "message"}},
	}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.RateLimit.ExcludeUpdates[0] != UpdateCallback {
		t.Fatalf("exclude[0] = %q", cfg.RateLimit.ExcludeUpdates[0])
	}
	cfg.RateLimit.ExcludeUpdates = []string{"photo"}
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for unknown exclusion")
	}
}
