// SPDX-License-Identifier: MPL-2.0

package client

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/invowk/opsconsole/pkg/builtin"
	"github.com/invowk/opsconsole/pkg/console"
)

func newWidgetClient(t *testing.T) (*WidgetClient, *countingStore) {
	t.Helper()
	s := newStore(t)
	return NewWidgetClient(s, builtin.NewRegistry()), s
}

func TestWidgetClient_GetWidgets(t *testing.T) {
	t.Parallel()

	wc, _ := newWidgetClient(t)
	specs, err := wc.GetWidgets(context.Background(), "ops")
	if err != nil {
		t.Fatalf("GetWidgets() error = %v", err)
	}
	ids := make([]string, len(specs))
	for i, s := range specs {
		ids[i] = s.ID
	}
	if diff := cmp.Diff([]string{"main", "readme", "summary"}, ids); diff != "" {
		t.Errorf("widget ids mismatch (-want +got):\n%s", diff)
	}

	w, err := wc.GetWidget(context.Background(), "ops", "summary")
	if err != nil {
		t.Fatalf("GetWidget() error = %v", err)
	}
	if w.Description != "Service summary" || len(w.ProviderIDs) != 1 {
		t.Errorf("GetWidget() = %+v", w)
	}
	if _, err := wc.GetWidget(context.Background(), "ops", "nope"); !errors.Is(err, console.ErrNotFound) {
		t.Errorf("GetWidget(missing) error = %v, want ErrNotFound", err)
	}
}

func TestWidgetClient_CreateWidget(t *testing.T) {
	t.Parallel()

	wc, s := newWidgetClient(t)
	spec := console.WidgetSpec{ID: "notes", Type: builtin.TypeMarkdown, DisplayName: "Notes"}

	got, err := wc.CreateWidget(context.Background(), "ops", spec)
	if err != nil {
		t.Fatalf("CreateWidget() error = %v", err)
	}
	s.assertCalls(t, 1, 1)
	if got.ID != "notes" || got.Type != builtin.TypeMarkdown {
		t.Errorf("CreateWidget() = %+v", got)
	}

	s.reset()
	_, err = wc.CreateWidget(context.Background(), "ops", spec)
	if !errors.Is(err, console.ErrConflict) {
		t.Fatalf("CreateWidget(duplicate) error = %v, want ErrConflict", err)
	}
	s.assertCalls(t, 1, 0)

	generated, err := wc.CreateWidget(context.Background(), "ops", console.WidgetSpec{Type: builtin.TypeBasic, DisplayName: "Anon"})
	if err != nil {
		t.Fatalf("CreateWidget(no id) error = %v", err)
	}
	if generated.ID == "" {
		t.Error("CreateWidget() did not assign an id")
	}
}

func TestWidgetClient_CreateWidgetUnknownType(t *testing.T) {
	t.Parallel()

	wc, s := newWidgetClient(t)
	_, err := wc.CreateWidget(context.Background(), "ops", console.WidgetSpec{ID: "x", Type: "Chart", DisplayName: "X"})
	if !errors.Is(err, console.ErrTypeLoad) {
		t.Fatalf("CreateWidget() error = %v, want ErrTypeLoad", err)
	}
	s.assertCalls(t, 1, 0)
}

func TestWidgetClient_UpdateWidget(t *testing.T) {
	t.Parallel()

	wc, _ := newWidgetClient(t)
	got, err := wc.UpdateWidget(context.Background(), "ops", "summary", console.WidgetSpec{
		Type:        builtin.TypeBasic,
		DisplayName: "Renamed",
	})
	if err != nil {
		t.Fatalf("UpdateWidget() error = %v", err)
	}
	if got.ID != "summary" || got.DisplayName != "Renamed" {
		t.Errorf("UpdateWidget() = %+v", got)
	}

	_, err = wc.UpdateWidget(context.Background(), "ops", "nope", console.WidgetSpec{Type: builtin.TypeBasic, DisplayName: "N"})
	if !errors.Is(err, console.ErrNotFound) {
		t.Errorf("UpdateWidget(missing) error = %v, want ErrNotFound", err)
	}
}

func TestWidgetClient_DeleteWidgetDetachesReferences(t *testing.T) {
	t.Parallel()

	wc, s := newWidgetClient(t)
	deleted, err := wc.DeleteWidget(context.Background(), "ops", "summary")
	if err != nil {
		t.Fatalf("DeleteWidget() error = %v", err)
	}
	if deleted.ID != "summary" {
		t.Errorf("deleted.ID = %q, want summary", deleted.ID)
	}

	main, err := wc.GetWidget(context.Background(), "ops", "main")
	if err != nil {
		t.Fatalf("GetWidget(main) error = %v", err)
	}
	if len(main.ChildrenIDs) != 0 {
		t.Errorf("main.ChildrenIDs = %v, want none", main.ChildrenIDs)
	}

	if _, err := wc.DeleteWidget(context.Background(), "ops", "main"); err != nil {
		t.Fatalf("DeleteWidget(main) error = %v", err)
	}
	home, err := NewPageClient(s).GetPage(context.Background(), "ops", "/")
	if err != nil {
		t.Fatalf("GetPage() error = %v", err)
	}
	if len(home.WidgetIDs) != 0 {
		t.Errorf("home.WidgetIDs = %v, want none", home.WidgetIDs)
	}

	if _, err := wc.DeleteWidget(context.Background(), "ops", "main"); !errors.Is(err, console.ErrNotFound) {
		t.Errorf("DeleteWidget(missing) error = %v, want ErrNotFound", err)
	}
}
