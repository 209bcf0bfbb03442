package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.toml")

	cfg := &Config{
		DefaultSession: "work",
		AppKey:         "key",
		RefreshDelay:   &Duration{500 * time.Millisecond},
		UnreadInterval: Duration{time.Minute},
	}
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.DefaultSession != "work" {
		t.Errorf("DefaultSession = %q, want %q", loaded.DefaultSession, "work")
	}
	if loaded.AppKey != "key" {
		t.Errorf("AppKey = %q", loaded.AppKey)
	}
	if loaded.Delay() != 500*time.Millisecond {
		t.Errorf("Delay() = %v", loaded.Delay())
	}
	if loaded.PollInterval() != time.Minute {
		t.Errorf("PollInterval() = %v", loaded.PollInterval())
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load("/nonexistent/config.toml")
	if err == nil {
		t.Error("Load() expected error for missing file")
	}

	cfg, err := LoadOrDefault("/nonexistent/config.toml")
	if err != nil {
		t.Fatalf("LoadOrDefault() error = %v", err)
	}
	if cfg.DefaultSession != "" {
		t.Errorf("DefaultSession = %q, want empty", cfg.DefaultSession)
	}
}

func TestDefaults(t *testing.T) {
	cfg := &Config{}
	if cfg.Delay() != DefaultRefreshDelay {
		t.Errorf("Delay() = %v, want %v", cfg.Delay(), DefaultRefreshDelay)
	}
	if cfg.PollInterval() != DefaultUnreadInterval {
		t.Errorf("PollInterval() = %v", cfg.PollInterval())
	}
	if cfg.RequestRate() != DefaultRateLimit {
		t.Errorf("RequestRate() = %v", cfg.RequestRate())
	}
	if cfg.Redirect() != DefaultRedirectURI {
		t.Errorf("Redirect() = %q", cfg.Redirect())
	}
}

func TestZeroDelayAllowed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("refresh_delay = \"0s\"\n"), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Delay() != 0 {
		t.Errorf("Delay() = %v, want 0", cfg.Delay())
	}
}

func TestApplyEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("WEIBO_APP_SECRET=from-dotenv\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvAppKey, "from-env")
	t.Setenv(EnvAppSecret, "")
	t.Setenv(EnvRedirectURI, "")
	// godotenv never overrides variables that are already set, so clear
	// the one the file provides.
	_ = os.Unsetenv(EnvAppSecret)

	cfg := &Config{AppKey: "from-file", AppSecret: "file-secret"}
	if err := cfg.ApplyEnv(envFile, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("ApplyEnv() error = %v", err)
	}
	t.Cleanup(func() { _ = os.Unsetenv(EnvAppSecret) })

	if cfg.AppKey != "from-env" {
		t.Errorf("AppKey = %q", cfg.AppKey)
	}
	if cfg.AppSecret != "from-dotenv" {
		t.Errorf("AppSecret = %q", cfg.AppSecret)
	}
	if cfg.RedirectURI != "" {
		t.Errorf("RedirectURI = %q", cfg.RedirectURI)
	}
}

func TestApplyEnvOverridesDaemonSettings(t *testing.T) {
	t.Setenv(EnvMetricsAddr, "127.0.0.1:9100")
	t.Setenv(EnvRateLimit, "0.5")

	cfg := &Config{MetricsAddr: ":9000", RateLimit: 4}
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv() error = %v", err)
	}
	if cfg.MetricsAddr != "127.0.0.1:9100" {
		t.Errorf("MetricsAddr = %q", cfg.MetricsAddr)
	}
	if cfg.RequestRate() != 0.5 {
		t.Errorf("RequestRate() = %v", cfg.RequestRate())
	}

	t.Setenv(EnvRateLimit, "fast")
	if err := cfg.ApplyEnv(); err == nil {
		t.Error("ApplyEnv() accepted a non-numeric rate limit")
	}
}

func TestSavePermissions(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.toml")

	if err := Save(path, &Config{DefaultSession: "main"}); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	perm := info.Mode().Perm()
	if perm != 0600 {
		t.Errorf("file permission = %o, want 0600", perm)
	}
}
