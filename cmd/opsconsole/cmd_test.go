// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/invowk/opsconsole/internal/config"
	"github.com/invowk/opsconsole/internal/testutil"
	"github.com/invowk/opsconsole/internal/testutil/consoletest"
	"github.com/invowk/opsconsole/pkg/console"
	"github.com/invowk/opsconsole/pkg/cueutil"
)

// staticConfig hands out a fixed configuration.
type staticConfig struct {
	cfg *config.Config
}

func (s staticConfig) Load(context.Context, config.LoadOptions) (*config.Config, error) {
	cfg := *s.cfg
	return &cfg, nil
}

func (s staticConfig) Resolve(ctx context.Context, opts config.LoadOptions) (*config.Config, string, error) {
	cfg, err := s.Load(ctx, opts)
	return cfg, "", err
}

// testEnv is a temp directory holding the store and document files.
type testEnv struct {
	dir string
	cfg *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Store.Path = filepath.Join(dir, "store")
	return &testEnv{dir: dir, cfg: cfg}
}

// run executes args against a fresh App and returns what was written to stdout.
func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := NewApp(Dependencies{
		Config: staticConfig{cfg: e.cfg},
		Stdout: &stdout,
		Stderr: &stderr,
	})
	root := NewRootCommand(app)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), err
}

func (e *testEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, args...)
	if err != nil {
		t.Fatalf("%s: %v", strings.Join(args, " "), err)
	}
	return out
}

// writeDocument writes doc to name in the env directory and returns its path.
func (e *testEnv) writeDocument(t *testing.T, name string, doc console.Record) string {
	t.Helper()
	path := filepath.Join(e.dir, name)
	data, err := cueutil.EncodeDocument(doc.Plain(), cueutil.FormatFromFilename(name))
	if err != nil {
		t.Fatalf("EncodeDocument() error = %v", err)
	}
	testutil.MustWriteFile(t, path, string(data))
	return path
}

func assertContains(t *testing.T, out string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("output does not contain %q:\n%s", w, out)
		}
	}
}

func TestValidateCommand(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	valid := env.writeDocument(t, "valid.yaml", consoletest.Sample())
	invalid := env.writeDocument(t, "invalid.json", consoletest.NewDocument("broken",
		consoletest.WithPage("home", "/", "ghost"),
	))

	out := env.mustRun(t, "validate", valid)
	assertContains(t, out, iconOK, "valid.yaml")

	out, err := env.run(t, "validate", valid, invalid)
	if err == nil {
		t.Fatal("validate with an invalid document succeeded")
	}
	if got := exitCode(err); got != ExitInvalid {
		t.Errorf("exitCode() = %d, want %d", got, ExitInvalid)
	}
	if !errors.Is(err, console.ErrUnresolvedReference) {
		t.Errorf("error %v does not wrap ErrUnresolvedReference", err)
	}
	assertContains(t, out, "valid.yaml", iconFail, "invalid.json", "ghost")
}

func TestValidateCommand_MissingFile(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	_, err := env.run(t, "validate", filepath.Join(env.dir, "absent.yaml"))
	if err == nil {
		t.Fatal("validate of a missing file succeeded")
	}
	if !strings.Contains(err.Error(), "1 of 1 documents are invalid") {
		t.Errorf("error = %q", err)
	}
}

func TestParseCommand(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	path := env.writeDocument(t, "ops.yaml", consoletest.Sample())

	out := env.mustRun(t, "parse", path, "--format", "json")
	rec, err := cueutil.DecodeDocument([]byte(out), cueutil.WithFormat(cueutil.FormatJSON))
	if err != nil {
		t.Fatalf("parse output is not JSON: %v\n%s", err, out)
	}
	sk, err := console.ParseJSON(console.Record(rec))
	if err != nil {
		t.Fatalf("ParseJSON() error = %v", err)
	}
	if got := sk.Widgets["main"].ChildrenIDs; len(got) != 1 || got[0] != "summary" {
		t.Errorf("main children = %v, want [summary]", got)
	}

	if _, err := env.run(t, "parse", path, "--format", "xml"); !errors.Is(err, cueutil.ErrInvalidFormat) {
		t.Errorf("parse --format xml error = %v, want ErrInvalidFormat", err)
	}
}

func TestHydrateCommand(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	path := env.writeDocument(t, "ops.cue", consoletest.Sample())

	out := env.mustRun(t, "hydrate", path)
	assertContains(t, out, "Console ops", "/docs", "readme", "Markdown", "tokens", "Static")

	unknown := env.writeDocument(t, "unknown.yaml", consoletest.NewDocument("odd",
		consoletest.WithWidget("w", "Gauge", "Gauge"),
	))
	_, err := env.run(t, "hydrate", unknown)
	if got := exitCode(err); got != ExitTypeLoad {
		t.Errorf("exitCode(%v) = %d, want %d", err, got, ExitTypeLoad)
	}
}

func TestExportCommand(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	t.Run("example is a valid document", func(t *testing.T) {
		t.Parallel()
		out := env.mustRun(t, "export", "--example", "--format", "yaml")
		rec, err := console.DecodeDocument([]byte(out), "example.yaml")
		if err != nil {
			t.Fatalf("DecodeDocument() error = %v\n%s", err, out)
		}
		if err := console.Validate(rec); err != nil {
			t.Errorf("Validate(example) error = %v", err)
		}
	})

	t.Run("file round trip", func(t *testing.T) {
		t.Parallel()
		path := env.writeDocument(t, "export.json", consoletest.Sample())
		out := env.mustRun(t, "export", path, "--format", "toml")
		rec, err := console.DecodeDocument([]byte(out), "export.toml")
		if err != nil {
			t.Fatalf("DecodeDocument() error = %v\n%s", err, out)
		}
		sk, err := console.Parse(rec)
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		if sk.Pages["docs"].Route != "/docs" {
			t.Errorf("docs route = %q, want /docs", sk.Pages["docs"].Route)
		}
	})

	t.Run("no source", func(t *testing.T) {
		t.Parallel()
		if _, err := env.run(t, "export"); err == nil {
			t.Error("export without a source succeeded")
		}
	})
}

func TestRenderCommand(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	path := env.writeDocument(t, "ops.yaml", consoletest.Sample())

	out := env.mustRun(t, "render", path)
	assertContains(t, out, "Main", "Summary", "credentials: token")

	out = env.mustRun(t, "render", path, "--route", "/docs")
	assertContains(t, out, "Runbook", "Restart the service.")

	_, err := env.run(t, "render", path, "--route", "/missing")
	if got := exitCode(err); got != ExitNotFound {
		t.Errorf("exitCode(%v) = %d, want %d", err, got, ExitNotFound)
	}
}

func TestStoreCommands(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	path := env.writeDocument(t, "ops.yaml", consoletest.Sample())

	assertContains(t, env.mustRun(t, "list"), "no consoles stored")
	assertContains(t, env.mustRun(t, "import", path), "Imported console", "ops", "2 pages")
	assertContains(t, env.mustRun(t, "list"), "ops")
	assertContains(t, env.mustRun(t, "render", "--console", "ops", "--route", "/"), "Summary")
	assertContains(t, env.mustRun(t, "export", "--console", "ops", "--format", "json"), `"$ref"`)
	assertContains(t, env.mustRun(t, "delete", "ops"), "Deleted console")

	_, err := env.run(t, "delete", "ops")
	if got := exitCode(err); got != ExitNotFound {
		t.Errorf("exitCode(%v) = %d, want %d", err, got, ExitNotFound)
	}
}

func TestPageCommands(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.mustRun(t, "import", env.writeDocument(t, "ops.yaml", consoletest.Sample()))

	assertContains(t, env.mustRun(t, "page", "list", "--console", "ops"), "/docs", "home", "main")

	env.mustRun(t, "page", "create", "/status", "--id", "status", "-w", "summary", "--console", "ops")
	_, err := env.run(t, "page", "create", "/status", "--console", "ops")
	if got := exitCode(err); got != ExitConflict {
		t.Errorf("duplicate create: exitCode(%v) = %d, want %d", err, got, ExitConflict)
	}

	out := env.mustRun(t, "page", "update", "/status", "--route", "/health", "--console", "ops")
	assertContains(t, out, "/health", "status")

	out = env.mustRun(t, "page", "get", "/health", "--format", "json", "--console", "ops")
	assertContains(t, out, `"status"`, `"summary"`)

	env.mustRun(t, "page", "delete", "/health", "--console", "ops")
	_, err = env.run(t, "page", "get", "/health", "--console", "ops")
	if got := exitCode(err); got != ExitNotFound {
		t.Errorf("get deleted page: exitCode(%v) = %d, want %d", err, got, ExitNotFound)
	}

	if _, err := env.run(t, "page", "list"); err == nil {
		t.Error("page list without --console succeeded")
	}
}

func TestWidgetCommands(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.mustRun(t, "import", env.writeDocument(t, "ops.yaml", consoletest.Sample()))

	env.mustRun(t, "widget", "create", "--id", "extra", "--type", "Basic", "--display-name", "Extra", "--provider", "tokens", "-c", "ops")
	_, err := env.run(t, "widget", "create", "--id", "extra", "--type", "Basic", "--display-name", "Extra", "-c", "ops")
	if got := exitCode(err); got != ExitConflict {
		t.Errorf("duplicate create: exitCode(%v) = %d, want %d", err, got, ExitConflict)
	}
	_, err = env.run(t, "widget", "create", "--id", "gauge", "--type", "Gauge", "--display-name", "Gauge", "-c", "ops")
	if got := exitCode(err); got != ExitTypeLoad {
		t.Errorf("unknown type: exitCode(%v) = %d, want %d", err, got, ExitTypeLoad)
	}

	env.mustRun(t, "widget", "update", "extra", "--description", "More detail", "-c", "ops")
	out := env.mustRun(t, "widget", "get", "extra", "--format", "yaml", "-c", "ops")
	assertContains(t, out, "More detail", "Extra", "tokens")

	spec := filepath.Join(env.dir, "notes.yaml")
	testutil.MustWriteFile(t, spec, "type: Markdown\ndisplayName: Notes\ndisplayOptions:\n  content: \"# Notes\"\n")
	env.mustRun(t, "widget", "create", "--file", spec, "--id", "notes", "-c", "ops")
	assertContains(t, env.mustRun(t, "widget", "list", "-c", "ops"), "notes", "Markdown", "extra")

	env.mustRun(t, "widget", "delete", "summary", "-c", "ops")
	out = env.mustRun(t, "widget", "get", "main", "--format", "json", "-c", "ops")
	if strings.Contains(out, "summary") {
		t.Errorf("main still references the deleted widget:\n%s", out)
	}
	_, err = env.run(t, "widget", "get", "summary", "-c", "ops")
	if got := exitCode(err); got != ExitNotFound {
		t.Errorf("get deleted widget: exitCode(%v) = %d, want %d", err, got, ExitNotFound)
	}
}

func TestTypesCommand(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	out := env.mustRun(t, "types")
	assertContains(t, out, "builtin", "Basic, Markdown, Panel", "Command, Env, Static")
}

func TestRenderCommand_WatchFlags(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	path := env.writeDocument(t, "ops.yaml", consoletest.Sample())

	if _, err := env.run(t, "render", "--watch"); err == nil {
		t.Error("render --watch without a file succeeded")
	}
	if _, err := env.run(t, "render", path, "--console", "ops", "--watch"); err == nil {
		t.Error("render --console --watch succeeded")
	}
}

func TestWatchFiles_StopsOnCancel(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	path := env.writeDocument(t, "ops.yaml", consoletest.Sample())
	app := NewApp(Dependencies{Config: staticConfig{cfg: env.cfg}, Stdout: io.Discard, Stderr: io.Discard})

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	var out bytes.Buffer
	calls := 0
	err := app.watchFiles(ctx, &out, []string{path}, func(context.Context) error {
		calls++
		return errors.New("boom")
	})
	if err != nil {
		t.Fatalf("watchFiles() error = %v", err)
	}
	if calls != 1 {
		t.Errorf("run called %d times, want 1", calls)
	}
	assertContains(t, out.String(), "boom", "Watching for changes")
}
