// SPDX-License-Identifier: MPL-2.0

package console

import (
	"context"
	"fmt"
)

// Console is a hydrated console: the root aggregate owning its pages, widgets
// and providers.
//
// Mutations modify the owned maps in place. A Console is not safe for
// concurrent mutation; callers sharing one must serialize access themselves.
type Console struct {
	name         string
	providers    map[string]Provider
	pages        map[string]Page
	widgets      map[string]Widget
	dependencies map[string]string
}

// New returns an empty console named name.
func New(name string, dependencies map[string]string) *Console {
	return &Console{
		name:         name,
		providers:    make(map[string]Provider),
		pages:        make(map[string]Page),
		widgets:      make(map[string]Widget),
		dependencies: cloneDependencies(dependencies),
	}
}

// Name returns the console name.
func (c *Console) Name() string { return c.name }

// Dependencies returns a copy of the type-name to source-locator map.
func (c *Console) Dependencies() map[string]string { return cloneDependencies(c.dependencies) }

// Page returns a copy of the page with the given id.
func (c *Console) Page(id string) (Page, bool) {
	p, ok := c.pages[id]
	if !ok {
		return Page{}, false
	}
	return p.Clone(), true
}

// PageByRoute returns the first page, in id order, whose route is route.
func (c *Console) PageByRoute(route string) (Page, bool) {
	for _, id := range sortedKeys(c.pages) {
		if c.pages[id].Route == route {
			return c.pages[id].Clone(), true
		}
	}
	return Page{}, false
}

// Pages returns copies of every page, in id order.
func (c *Console) Pages() []Page {
	out := make([]Page, 0, len(c.pages))
	for _, id := range sortedKeys(c.pages) {
		out = append(out, c.pages[id].Clone())
	}
	return out
}

// Widget returns the hydrated widget with the given id.
func (c *Console) Widget(id string) (Widget, bool) {
	w, ok := c.widgets[id]
	return w, ok
}

// Provider returns the hydrated provider with the given id.
func (c *Console) Provider(id string) (Provider, bool) {
	p, ok := c.providers[id]
	return p, ok
}

// PageIDs returns the page ids in lexical order.
func (c *Console) PageIDs() []string { return sortedKeys(c.pages) }

// WidgetIDs returns the widget ids in lexical order.
func (c *Console) WidgetIDs() []string { return sortedKeys(c.widgets) }

// ProviderIDs returns the provider ids in lexical order.
func (c *Console) ProviderIDs() []string { return sortedKeys(c.providers) }

// AddPage inserts page, or replaces the page with the same id.
// The id is page.ID, or fallbackID when page.ID is empty. The stored page is
// returned with its id set.
func (c *Console) AddPage(page Page, fallbackID string) (Page, error) {
	id := page.ID
	if id == "" {
		id = fallbackID
	}
	if id == "" {
		return Page{}, &MissingPropertyError{Property: propID, Kind: KindPage, Object: page.Record().Render()}
	}
	if page.Route == "" {
		return Page{}, &MissingPropertyError{Property: propRoute, Kind: KindPage, Object: page.Record().Render()}
	}
	page = page.Clone()
	page.ID = id
	c.pages[id] = page
	return page.Clone(), nil
}

// UpdatePage behaves exactly like AddPage.
func (c *Console) UpdatePage(page Page, fallbackID string) (Page, error) {
	return c.AddPage(page, fallbackID)
}

// DeletePage removes the page with the given id and returns it. Deleting an
// unknown id does nothing. Widgets are not touched.
func (c *Console) DeletePage(id string) (Page, bool) {
	p, ok := c.pages[id]
	if !ok {
		return Page{}, false
	}
	delete(c.pages, id)
	return p, true
}

// AddDashboard is AddPage.
func (c *Console) AddDashboard(page Page, fallbackID string) (Page, error) {
	return c.AddPage(page, fallbackID)
}

// UpdateDashboard is UpdatePage.
func (c *Console) UpdateDashboard(page Page, fallbackID string) (Page, error) {
	return c.UpdatePage(page, fallbackID)
}

// DeleteDashboard is DeletePage.
func (c *Console) DeleteDashboard(id string) (Page, bool) {
	return c.DeletePage(id)
}

// AddWidget hydrates spec with the console's own dependencies and stores the
// result, replacing any widget with the same id. The id is spec.ID, or
// fallbackID when spec.ID is empty. On error the console is unchanged.
//
// References held by the widget are not checked; a dangling one is reported
// by the next validation of the console.
func (c *Console) AddWidget(ctx context.Context, loader SourceLoader, spec WidgetSpec, fallbackID string) (Widget, error) {
	if spec.ID == "" {
		spec.ID = fallbackID
	}
	w, err := HydrateWidget(ctx, loader, spec, c.dependencies[spec.Type])
	if err != nil {
		return nil, err
	}
	c.widgets[spec.ID] = w
	return w, nil
}

// UpdateWidget behaves exactly like AddWidget.
func (c *Console) UpdateWidget(ctx context.Context, loader SourceLoader, spec WidgetSpec, fallbackID string) (Widget, error) {
	return c.AddWidget(ctx, loader, spec, fallbackID)
}

// DeleteWidget removes the widget with the given id and returns it. Pages and
// widgets referring to it are left dangling.
func (c *Console) DeleteWidget(id string) (Widget, bool) {
	w, ok := c.widgets[id]
	if !ok {
		return nil, false
	}
	delete(c.widgets, id)
	return w, true
}

// AddProvider hydrates spec and stores it, replacing any provider with the same id.
func (c *Console) AddProvider(ctx context.Context, loader SourceLoader, spec ProviderSpec, fallbackID string) (Provider, error) {
	if spec.ID == "" {
		spec.ID = fallbackID
	}
	p, err := HydrateProvider(ctx, loader, spec, c.dependencies[spec.Type])
	if err != nil {
		return nil, err
	}
	c.providers[spec.ID] = p
	return p, nil
}

// UpdateProvider behaves exactly like AddProvider.
func (c *Console) UpdateProvider(ctx context.Context, loader SourceLoader, spec ProviderSpec, fallbackID string) (Provider, error) {
	return c.AddProvider(ctx, loader, spec, fallbackID)
}

// DeleteProvider removes the provider with the given id and returns it.
func (c *Console) DeleteProvider(id string) (Provider, bool) {
	p, ok := c.providers[id]
	if !ok {
		return nil, false
	}
	delete(c.providers, id)
	return p, true
}

// Skeleton projects the console back to its un-hydrated form.
func (c *Console) Skeleton() *Skeleton {
	sk := &Skeleton{
		Name:         c.name,
		Providers:    make(map[string]ProviderSpec, len(c.providers)),
		Pages:        make(map[string]Page, len(c.pages)),
		Widgets:      make(map[string]WidgetSpec, len(c.widgets)),
		Dependencies: cloneDependencies(c.dependencies),
	}
	for id, p := range c.providers {
		spec := p.Spec()
		spec.ID = id
		sk.Providers[id] = spec
	}
	for id, p := range c.pages {
		sk.Pages[id] = p.Clone()
	}
	for id, w := range c.widgets {
		spec := w.Spec()
		spec.ID = id
		sk.Widgets[id] = spec
	}
	return sk
}

// Validate re-validates the console as a document. It reports references
// left dangling by earlier deletions.
func (c *Console) Validate() error {
	if err := Validate(c.ToDocument()); err != nil {
		return fmt.Errorf("console %s: %w", c.name, err)
	}
	return nil
}
