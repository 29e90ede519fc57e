// SPDX-License-Identifier: MPL-2.0

package render

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/invowk/opsconsole/internal/dag"
	"github.com/invowk/opsconsole/internal/testutil/consoletest"
	"github.com/invowk/opsconsole/pkg/builtin"
	"github.com/invowk/opsconsole/pkg/console"
)

func hydrate(t *testing.T, doc console.Record) *console.Console {
	t.Helper()
	c, err := console.DeepParse(context.Background(), doc, console.HydrateOptions{Loader: builtin.NewRegistry()})
	if err != nil {
		t.Fatalf("DeepParse() error = %v", err)
	}
	return c
}

func TestRenderer_Page(t *testing.T) {
	t.Parallel()

	r := New(hydrate(t, consoletest.Sample()), Options{})

	tests := []struct {
		route string
		want  []string
	}{
		{"/", []string{"Main", "Summary", "Service summary", "credentials: token", "╭"}},
		{"/docs", []string{"Runbook", "Restart the service."}},
	}
	for _, tt := range tests {
		t.Run(tt.route, func(t *testing.T) {
			t.Parallel()

			out, err := r.Page(context.Background(), tt.route)
			if err != nil {
				t.Fatalf("Page(%q) error = %v", tt.route, err)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("Page(%q) output missing %q:\n%s", tt.route, want, out)
				}
			}
		})
	}
}

func TestRenderer_PageNotFound(t *testing.T) {
	t.Parallel()

	r := New(hydrate(t, consoletest.Sample()), Options{})
	_, err := r.Page(context.Background(), "/missing")
	if !errors.Is(err, console.ErrNotFound) {
		t.Fatalf("Page() error = %v, want ErrNotFound", err)
	}
}

func TestRenderer_ChildrenFirstInDeclarationOrder(t *testing.T) {
	t.Parallel()

	doc := consoletest.NewDocument("nested",
		consoletest.WithWidget("outer", builtin.TypeBasic, "Outer", consoletest.Children("b", "a")),
		consoletest.WithWidget("a", builtin.TypeBasic, "Alpha"),
		consoletest.WithWidget("b", builtin.TypeBasic, "Beta", consoletest.Children("a")),
		consoletest.WithPage("home", "/", "outer"),
	)
	r := New(hydrate(t, doc), Options{Concurrency: 1})

	got, err := r.Widgets(context.Background(), []string{"outer"})
	if err != nil {
		t.Fatalf("Widgets() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("rendered %d widgets, want 3", len(got))
	}
	want := "Outer\nBeta\nAlpha\nAlpha"
	if got["outer"].Output != want {
		t.Errorf("outer output = %q, want %q", got["outer"].Output, want)
	}
}

func TestRenderer_ChildCycle(t *testing.T) {
	t.Parallel()

	doc := consoletest.NewDocument("loop",
		consoletest.WithWidget("a", builtin.TypeBasic, "A", consoletest.Children("b")),
		consoletest.WithWidget("b", builtin.TypeBasic, "B", consoletest.Children("a")),
		consoletest.WithPage("home", "/", "a"),
	)
	r := New(hydrate(t, doc), Options{})

	_, err := r.Page(context.Background(), "/")
	if !errors.Is(err, dag.ErrCycle) {
		t.Fatalf("Page() error = %v, want dag.ErrCycle", err)
	}
}

func TestRenderer_ProviderFailure(t *testing.T) {
	t.Parallel()

	doc := consoletest.NewDocument("env",
		consoletest.WithProvider("creds", builtin.TypeEnv, map[string]any{
			"variables": []any{"OPSCONSOLE_RENDER_TEST_UNSET_VARIABLE"},
		}),
		consoletest.WithWidget("w", builtin.TypeBasic, "W", consoletest.Providers("creds")),
		consoletest.WithPage("home", "/", "w"),
	)
	r := New(hydrate(t, doc), Options{})

	_, err := r.Page(context.Background(), "/")
	if !errors.Is(err, builtin.ErrMissingVariable) {
		t.Fatalf("Page() error = %v, want ErrMissingVariable", err)
	}
}

func TestRenderer_DanglingChild(t *testing.T) {
	t.Parallel()

	c := hydrate(t, consoletest.Sample())
	c.DeleteWidget("summary")

	_, err := New(c, Options{}).Page(context.Background(), "/")
	if !errors.Is(err, console.ErrUnresolvedReference) {
		t.Fatalf("Page() error = %v, want ErrUnresolvedReference", err)
	}
}
