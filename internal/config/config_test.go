// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/invowk/opsconsole/internal/testutil"
	"github.com/invowk/opsconsole/pkg/cueutil"
)

func load(t *testing.T, opts LoadOptions) (*Config, string, error) {
	t.Helper()
	return NewProvider().Resolve(context.Background(), opts)
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, path, err := load(t, LoadOptions{ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if path != "" {
		t.Errorf("path = %q, want empty", path)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_FromConfigDir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.cue")
	testutil.MustWriteFile(t, file, `
store: {
	driver: "sqlite"
	path:   "/var/lib/opsconsole.db"
}
hydrate: concurrency: 4
`)

	cfg, path, err := load(t, LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if path != file {
		t.Errorf("path = %q, want %q", path, file)
	}
	want := DefaultConfig()
	want.Store = StoreConfig{Driver: StoreDriverSQLite, Path: "/var/lib/opsconsole.db"}
	want.Hydrate.Concurrency = 4
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(dir, "config.cue"), `log_level: "debug"`)
	t.Cleanup(testutil.MustSetenv(t, "OPSCONSOLE_LOG_LEVEL", "warn"))
	t.Cleanup(testutil.MustSetenv(t, "OPSCONSOLE_HYDRATE_CONCURRENCY", "3"))
	t.Cleanup(testutil.MustSetenv(t, "OPSCONSOLE_OUTPUT_FORMAT", "json"))

	cfg, _, err := load(t, LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LogLevel != LogLevelWarn {
		t.Errorf("LogLevel = %q, want warn", cfg.LogLevel)
	}
	if cfg.Hydrate.Concurrency != 3 {
		t.Errorf("Concurrency = %d, want 3", cfg.Hydrate.Concurrency)
	}
	if cfg.Output.Format != cueutil.FormatJSON {
		t.Errorf("Format = %q, want json", cfg.Output.Format)
	}
}

func TestLoad_InvalidEnvValue(t *testing.T) {
	t.Cleanup(testutil.MustSetenv(t, "OPSCONSOLE_STORE_DRIVER", "postgres"))

	_, _, err := load(t, LoadOptions{ConfigDirPath: t.TempDir()})
	if !errors.Is(err, ErrInvalidStoreDriver) {
		t.Fatalf("Load() error = %v, want ErrInvalidStoreDriver", err)
	}
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Load() error = %v, want ErrInvalidConfig", err)
	}
}

func TestLoad_SchemaViolation(t *testing.T) {
	dir := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(dir, "config.cue"), `log_level: "loud"`)

	_, _, err := load(t, LoadOptions{ConfigDirPath: dir})
	if !errors.Is(err, cueutil.ErrInvalidDocument) {
		t.Fatalf("Load() error = %v, want ErrInvalidDocument", err)
	}
	if !strings.Contains(err.Error(), "log_level") {
		t.Errorf("error %q does not name the key", err)
	}
}

func TestLoad_UnknownKey(t *testing.T) {
	dir := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(dir, "config.cue"), `colour: "red"`)

	if _, _, err := load(t, LoadOptions{ConfigDirPath: dir}); err == nil {
		t.Fatal("Load() error = nil, want schema error for unknown key")
	}
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	_, _, err := load(t, LoadOptions{ConfigFilePath: filepath.Join(t.TempDir(), "nope.cue")})
	if err == nil || !strings.Contains(err.Error(), "config file not found") {
		t.Fatalf("Load() error = %v, want config file not found", err)
	}
}

func TestLoad_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewProvider().Load(ctx, LoadOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("Load() error = %v, want context.Canceled", err)
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.cue")

	if err := CreateDefaultConfig(path, false); err != nil {
		t.Fatalf("CreateDefaultConfig() error = %v", err)
	}
	cfg, got, err := load(t, LoadOptions{ConfigFilePath: path})
	if err != nil {
		t.Fatalf("Load(generated) error = %v", err)
	}
	if got != path {
		t.Errorf("path = %q, want %q", got, path)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("generated config mismatch (-want +got):\n%s", diff)
	}

	if err := CreateDefaultConfig(path, false); !errors.Is(err, ErrConfigExists) {
		t.Errorf("second CreateDefaultConfig() error = %v, want ErrConfigExists", err)
	}
	if err := os.WriteFile(path, []byte("garbage {"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := CreateDefaultConfig(path, true); err != nil {
		t.Errorf("forced CreateDefaultConfig() error = %v", err)
	}
}

func TestDirsHonorOverrides(t *testing.T) {
	t.Cleanup(Reset)
	SetConfigDirOverride("/cfg")
	SetDataDirOverride("/data")

	if dir, _ := ConfigDir(); dir != "/cfg" {
		t.Errorf("ConfigDir() = %q, want /cfg", dir)
	}
	if path, _ := DefaultConfigPath(); path != filepath.Join("/cfg", "config.cue") {
		t.Errorf("DefaultConfigPath() = %q", path)
	}

	tests := []struct {
		name  string
		store StoreConfig
		want  string
	}{
		{"file default", StoreConfig{Driver: StoreDriverFile}, filepath.Join("/data", "consoles")},
		{"sqlite default", StoreConfig{Driver: StoreDriverSQLite}, filepath.Join("/data", "consoles.db")},
		{"explicit", StoreConfig{Driver: StoreDriverSQLite, Path: "/x.db"}, "/x.db"},
	}
	for _, tt := range tests {
		cfg := &Config{Store: tt.store}
		got, err := cfg.StorePath()
		if err != nil {
			t.Fatalf("%s: StorePath() error = %v", tt.name, err)
		}
		if got != tt.want {
			t.Errorf("%s: StorePath() = %q, want %q", tt.name, got, tt.want)
		}
	}
}
