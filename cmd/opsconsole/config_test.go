// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/invowk/opsconsole/internal/config"
)

func runWithProvider(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout bytes.Buffer
	app := NewApp(Dependencies{
		Config: config.NewProvider(),
		Stdout: &stdout,
		Stderr: &bytes.Buffer{},
	})
	root := NewRootCommand(app)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestConfigCommands(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "config.cue")

	out, err := runWithProvider(t, "config", "path", "--config", path)
	if err != nil {
		t.Fatalf("config path: %v", err)
	}
	assertContains(t, out, path)

	if _, err := runWithProvider(t, "config", "init", "--config", path); err != nil {
		t.Fatalf("config init: %v", err)
	}
	_, err = runWithProvider(t, "config", "init", "--config", path)
	if !errors.Is(err, config.ErrConfigExists) {
		t.Errorf("second config init error = %v, want ErrConfigExists", err)
	}
	if _, err := runWithProvider(t, "config", "init", "--force", "--config", path); err != nil {
		t.Errorf("config init --force: %v", err)
	}

	out, err = runWithProvider(t, "config", "show", "--config", path)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	assertContains(t, out, "Current Configuration", path, "log_level", "driver")

	out, err = runWithProvider(t, "config", "dump", "--config", path)
	if err != nil {
		t.Fatalf("config dump: %v", err)
	}
	assertContains(t, out, "log_level", "store")
}
