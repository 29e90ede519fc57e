// SPDX-License-Identifier: MPL-2.0

package client

import (
	"context"

	"github.com/google/uuid"

	"github.com/invowk/opsconsole/pkg/console"
)

// PageClient edits pages. Pages are addressed by route.
type PageClient struct {
	store ConsoleStore
}

func NewPageClient(store ConsoleStore) *PageClient {
	return &PageClient{store: store}
}

// GetPages returns the pages of the console in id order.
func (pc *PageClient) GetPages(ctx context.Context, consoleName string) ([]console.Page, error) {
	c, err := pc.store.Get(ctx, consoleName)
	if err != nil {
		return nil, err
	}
	return c.Pages(), nil
}

func (pc *PageClient) GetPage(ctx context.Context, consoleName, route string) (console.Page, error) {
	c, err := pc.store.Get(ctx, consoleName)
	if err != nil {
		return console.Page{}, err
	}
	p, ok := c.PageByRoute(route)
	if !ok {
		return console.Page{}, &console.NotFoundError{Console: consoleName, Kind: console.KindPage, Key: route}
	}
	return p, nil
}

// CreatePage adds page to the console. A page without an id gets a random
// UUID.
func (pc *PageClient) CreatePage(ctx context.Context, consoleName string, page console.Page) (console.Page, error) {
	c, err := pc.store.Get(ctx, consoleName)
	if err != nil {
		return console.Page{}, err
	}
	if _, exists := c.PageByRoute(page.Route); exists {
		return console.Page{}, &console.ConflictError{Console: consoleName, Kind: console.KindPage, Key: page.Route, Action: "create"}
	}
	if page.ID != "" {
		if _, exists := c.Page(page.ID); exists {
			return console.Page{}, &console.ConflictError{Console: consoleName, Kind: console.KindPage, Key: page.ID, Action: "create"}
		}
	}
	if _, err := c.AddPage(page, uuid.NewString()); err != nil {
		return console.Page{}, err
	}
	if _, err := pc.store.Save(ctx, c); err != nil {
		return console.Page{}, err
	}
	return pc.GetPage(ctx, consoleName, page.Route)
}

// UpdatePage replaces the page at route with page. The page keeps its id
// unless page sets one; page.Route may move it to a free route.
func (pc *PageClient) UpdatePage(ctx context.Context, consoleName, route string, page console.Page) (console.Page, error) {
	c, err := pc.store.Get(ctx, consoleName)
	if err != nil {
		return console.Page{}, err
	}
	existing, ok := c.PageByRoute(route)
	if !ok {
		return console.Page{}, &console.NotFoundError{Console: consoleName, Kind: console.KindPage, Key: route, Action: "update"}
	}
	if page.Route == "" {
		page.Route = route
	}
	if other, taken := c.PageByRoute(page.Route); taken && other.ID != existing.ID {
		return console.Page{}, &console.ConflictError{Console: consoleName, Kind: console.KindPage, Key: page.Route, Action: "update"}
	}
	if page.ID != "" && page.ID != existing.ID {
		if _, taken := c.Page(page.ID); taken {
			return console.Page{}, &console.ConflictError{Console: consoleName, Kind: console.KindPage, Key: page.ID, Action: "update"}
		}
		c.DeletePage(existing.ID)
	}
	if _, err := c.UpdatePage(page, existing.ID); err != nil {
		return console.Page{}, err
	}
	if _, err := pc.store.Save(ctx, c); err != nil {
		return console.Page{}, err
	}
	return pc.GetPage(ctx, consoleName, page.Route)
}

// DeletePage removes the page at route and returns it. Its widgets stay.
func (pc *PageClient) DeletePage(ctx context.Context, consoleName, route string) (console.Page, error) {
	c, err := pc.store.Get(ctx, consoleName)
	if err != nil {
		return console.Page{}, err
	}
	existing, ok := c.PageByRoute(route)
	if !ok {
		return console.Page{}, &console.NotFoundError{Console: consoleName, Kind: console.KindPage, Key: route, Action: "delete"}
	}
	deleted, _ := c.DeletePage(existing.ID)
	if _, err := pc.store.Save(ctx, c); err != nil {
		return console.Page{}, err
	}
	return deleted, nil
}
