// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/invowk/opsconsole/pkg/console"
	"github.com/invowk/opsconsole/pkg/cueutil"
)

func TestValues_OrderedAndComplete(t *testing.T) {
	t.Parallel()

	values := Values()
	if len(values) != int(StoreUnavailableId) {
		t.Fatalf("len(Values()) = %d, want %d", len(values), StoreUnavailableId)
	}
	for i, iss := range values {
		if iss.Id() != Id(i+1) {
			t.Errorf("Values()[%d].Id() = %d, want %d", i, iss.Id(), i+1)
		}
		if strings.TrimSpace(string(iss.MarkdownMsg())) == "" {
			t.Errorf("issue %d has an empty message", iss.Id())
		}
		if len(iss.DocLinks()) == 0 {
			t.Errorf("issue %d has no doc links", iss.Id())
		}
	}
}

func TestGet_Unknown(t *testing.T) {
	t.Parallel()

	if got := Get(Id(9999)); got != nil {
		t.Errorf("Get(9999) = %v, want nil", got)
	}
}

func TestIssue_DocLinksAreCopies(t *testing.T) {
	t.Parallel()

	iss := Get(UnresolvedReferenceId)
	links := iss.DocLinks()
	links[0] = "changed"
	if iss.DocLinks()[0] == "changed" {
		t.Error("DocLinks() exposed the internal slice")
	}
}

func TestForError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want Id
	}{
		{"missing property", &console.MissingPropertyError{Property: "route", Kind: console.KindPage}, MissingPropertyId},
		{"invalid property", &console.InvalidPropertyError{Property: "widgets", Kind: console.KindPage}, InvalidPropertyId},
		{"unresolved", fmt.Errorf("wrapped: %w", &console.UnresolvedReferenceError{ID: "W9", Kind: console.KindWidget}), UnresolvedReferenceId},
		{"malformed", &console.MalformedReferenceError{Pointer: "#/x"}, MalformedReferenceId},
		{"type load", &console.TypeLoadError{Kind: console.KindWidget, Type: "Basic", Cause: console.ErrNoSourceLocator}, TypeLoadFailedId},
		{"capability", &console.CapabilityUnimplementedError{Type: "Basic"}, CapabilityUnimplementedId},
		{"conflict", &console.ConflictError{Console: "c", Kind: console.KindPage, Key: "/"}, ConflictId},
		{"not found", &console.NotFoundError{Console: "c"}, NotFoundId},
		{"decode", &cueutil.ValidationError{FilePath: "c.yaml", Message: "bad"}, DocumentDecodeFailedId},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ForError(tt.err)
			if got == nil {
				t.Fatalf("ForError(%v) = nil, want issue %d", tt.err, tt.want)
			}
			if got.Id() != tt.want {
				t.Errorf("ForError(%v).Id() = %d, want %d", tt.err, got.Id(), tt.want)
			}
		})
	}

	if got := ForError(errors.New("other")); got != nil {
		t.Errorf("ForError(unknown) = %d, want nil", got.Id())
	}
	if got := ForError(nil); got != nil {
		t.Errorf("ForError(nil) = %d, want nil", got.Id())
	}
}

// Render swaps the package-level render function and must not run in parallel.
func TestIssue_Render(t *testing.T) {
	orig := render
	defer func() { render = orig }()

	var gotMarkdown, gotStyle string
	render = func(in, stylePath string) (string, error) {
		gotMarkdown, gotStyle = in, stylePath
		return "rendered", nil
	}

	out, err := Get(TypeLoadFailedId).Render("dark")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if out != "rendered" {
		t.Errorf("Render() = %q, want %q", out, "rendered")
	}
	if gotStyle != "dark" {
		t.Errorf("style = %q, want dark", gotStyle)
	}
	if !strings.Contains(gotMarkdown, "dependencies:") {
		t.Error("rendered markdown is missing the issue body")
	}
	if !strings.Contains(gotMarkdown, "## See also") || !strings.Contains(gotMarkdown, "types.md") {
		t.Errorf("rendered markdown is missing the links section:\n%s", gotMarkdown)
	}
}

func TestIssue_RenderError(t *testing.T) {
	orig := render
	defer func() { render = orig }()

	render = func(string, string) (string, error) { return "", errors.New("bad style") }

	if _, err := Get(NotFoundId).Render("missing"); err == nil {
		t.Error("Render() error = nil, want error")
	}
}
