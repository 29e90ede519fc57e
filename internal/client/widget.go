// SPDX-License-Identifier: MPL-2.0

package client

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/exp/slices"

	"github.com/invowk/opsconsole/pkg/console"
)

// WidgetClient edits widgets. Widgets are addressed by id and hydrated with
// loader on every change.
type WidgetClient struct {
	store  ConsoleStore
	loader console.SourceLoader
}

func NewWidgetClient(store ConsoleStore, loader console.SourceLoader) *WidgetClient {
	return &WidgetClient{store: store, loader: loader}
}

// GetWidgets returns the widget records of the console in id order.
func (wc *WidgetClient) GetWidgets(ctx context.Context, consoleName string) ([]console.WidgetSpec, error) {
	c, err := wc.store.Get(ctx, consoleName)
	if err != nil {
		return nil, err
	}
	ids := c.WidgetIDs()
	out := make([]console.WidgetSpec, 0, len(ids))
	for _, id := range ids {
		w, _ := c.Widget(id)
		out = append(out, w.Spec())
	}
	return out, nil
}

func (wc *WidgetClient) GetWidget(ctx context.Context, consoleName, id string) (console.WidgetSpec, error) {
	c, err := wc.store.Get(ctx, consoleName)
	if err != nil {
		return console.WidgetSpec{}, err
	}
	return widgetSpec(c, id, "")
}

func widgetSpec(c *console.Console, id, action string) (console.WidgetSpec, error) {
	w, ok := c.Widget(id)
	if !ok {
		return console.WidgetSpec{}, &console.NotFoundError{Console: c.Name(), Kind: console.KindWidget, Key: id, Action: action}
	}
	return w.Spec(), nil
}

// CreateWidget hydrates spec and adds it. A widget without an id gets a
// random UUID.
func (wc *WidgetClient) CreateWidget(ctx context.Context, consoleName string, spec console.WidgetSpec) (console.WidgetSpec, error) {
	c, err := wc.store.Get(ctx, consoleName)
	if err != nil {
		return console.WidgetSpec{}, err
	}
	if spec.ID == "" {
		spec.ID = uuid.NewString()
	}
	if _, exists := c.Widget(spec.ID); exists {
		return console.WidgetSpec{}, &console.ConflictError{Console: consoleName, Kind: console.KindWidget, Key: spec.ID, Action: "create"}
	}
	if _, err := c.AddWidget(ctx, wc.loader, spec, ""); err != nil {
		return console.WidgetSpec{}, err
	}
	return wc.save(ctx, c, spec.ID)
}

// UpdateWidget replaces the widget id with spec, re-hydrating it.
func (wc *WidgetClient) UpdateWidget(ctx context.Context, consoleName, id string, spec console.WidgetSpec) (console.WidgetSpec, error) {
	c, err := wc.store.Get(ctx, consoleName)
	if err != nil {
		return console.WidgetSpec{}, err
	}
	if _, err := widgetSpec(c, id, "update"); err != nil {
		return console.WidgetSpec{}, err
	}
	spec.ID = id
	if _, err := c.UpdateWidget(ctx, wc.loader, spec, ""); err != nil {
		return console.WidgetSpec{}, err
	}
	return wc.save(ctx, c, id)
}

// DeleteWidget removes the widget and every page entry and child entry that
// points at it, then returns the removed record. References from tabs are not
// rewritten; if any remain the save fails with the validation error and
// nothing changes.
func (wc *WidgetClient) DeleteWidget(ctx context.Context, consoleName, id string) (console.WidgetSpec, error) {
	c, err := wc.store.Get(ctx, consoleName)
	if err != nil {
		return console.WidgetSpec{}, err
	}
	deleted, err := widgetSpec(c, id, "delete")
	if err != nil {
		return console.WidgetSpec{}, err
	}
	c.DeleteWidget(id)

	for _, page := range c.Pages() {
		if !slices.Contains(page.WidgetIDs, id) {
			continue
		}
		page.WidgetIDs = without(page.WidgetIDs, id)
		if _, err := c.UpdatePage(page, ""); err != nil {
			return console.WidgetSpec{}, err
		}
	}
	for _, parentID := range c.WidgetIDs() {
		parent, _ := c.Widget(parentID)
		spec := parent.Spec()
		if !slices.Contains(spec.ChildrenIDs, id) {
			continue
		}
		spec.ChildrenIDs = without(spec.ChildrenIDs, id)
		if _, err := c.UpdateWidget(ctx, wc.loader, spec, ""); err != nil {
			return console.WidgetSpec{}, fmt.Errorf("detach widget %s from %s: %w", id, parentID, err)
		}
	}

	if _, err := wc.store.Save(ctx, c); err != nil {
		return console.WidgetSpec{}, err
	}
	return deleted, nil
}

func (wc *WidgetClient) save(ctx context.Context, c *console.Console, id string) (console.WidgetSpec, error) {
	saved, err := wc.store.Save(ctx, c)
	if err != nil {
		return console.WidgetSpec{}, err
	}
	return widgetSpec(saved, id, "")
}

func without(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
