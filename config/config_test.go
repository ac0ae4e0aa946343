package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func setTestConfigDir(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	t.Setenv("HOME", root)
	t.Setenv("XDG_CONFIG_HOME", root)
	t.Setenv(envCatalogURL, "")
	t.Setenv(envOffline, "")
	return root
}

func TestLoadReturnsDefaultsWhenMissing(t *testing.T) {
	setTestConfigDir(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
	if cfg.AnimationDuration() != 300*time.Millisecond {
		t.Fatalf("unexpected duration: %s", cfg.AnimationDuration())
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	root := setTestConfigDir(t)

	cfg := Config{CatalogURL: "  https://example.test/movies.json ", Offline: true, AnimationMillis: 450}
	if err := Save(cfg); err != nil {
		t.Fatalf("save config: %v", err)
	}

	path, err := ConfigPath()
	if err != nil {
		t.Fatalf("config path: %v", err)
	}
	if filepath.Dir(filepath.Dir(path)) != root {
		t.Fatalf("expected config under %q, got %q", root, path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("stat config path: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	want := Config{CatalogURL: "https://example.test/movies.json", Offline: true, AnimationMillis: 450}
	if loaded != want {
		t.Fatalf("expected %+v, got %+v", want, loaded)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	setTestConfigDir(t)

	if err := Save(Config{CatalogURL: "https://file.test", AnimationMillis: 300}); err != nil {
		t.Fatalf("save config: %v", err)
	}
	t.Setenv(envCatalogURL, "https://env.test")
	t.Setenv(envOffline, "true")

	loaded, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if loaded.CatalogURL != "https://env.test" || !loaded.Offline {
		t.Fatalf("expected env overrides, got %+v", loaded)
	}
}

func TestLoadFileIgnoresEnv(t *testing.T) {
	setTestConfigDir(t)

	if err := Save(Config{CatalogURL: "https://file.test", AnimationMillis: 300}); err != nil {
		t.Fatalf("save config: %v", err)
	}
	t.Setenv(envCatalogURL, "https://env.test")
	t.Setenv(envOffline, "true")

	loaded, err := LoadFile()
	if err != nil {
		t.Fatalf("load config file: %v", err)
	}
	want := Config{CatalogURL: "https://file.test", AnimationMillis: 300}
	if loaded != want {
		t.Fatalf("expected %+v, got %+v", want, loaded)
	}
}

func TestInvalidOfflineEnvIsIgnored(t *testing.T) {
	setTestConfigDir(t)
	t.Setenv(envOffline, "maybe")

	loaded, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if loaded.Offline {
		t.Fatal("expected offline to stay false")
	}
}

func TestValidateRejectsNonPositiveDuration(t *testing.T) {
	setTestConfigDir(t)

	for _, ms := range []int{0, -10} {
		err := Config{AnimationMillis: ms}.Validate()
		if !errors.Is(err, ErrInvalidDuration) {
			t.Fatalf("%dms: expected ErrInvalidDuration, got %v", ms, err)
		}
	}
	if err := Save(Config{AnimationMillis: -1}); !errors.Is(err, ErrInvalidDuration) {
		t.Fatalf("expected save to reject, got %v", err)
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	setTestConfigDir(t)

	path, err := ConfigPath()
	if err != nil {
		t.Fatalf("config path: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("{nope"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(); err == nil {
		t.Fatal("expected parse error")
	}
}
