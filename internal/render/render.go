// SPDX-License-Identifier: MPL-2.0

// Package render draws the pages of a hydrated console in the terminal.
package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/invowk/opsconsole/internal/dag"
	"github.com/invowk/opsconsole/pkg/console"
)

// Options configures a Renderer.
type Options struct {
	// Concurrency bounds parallel GetData calls; zero or less means GOMAXPROCS.
	Concurrency int
	Logger      *log.Logger
}

// Renderer renders console pages. Widgets are rendered children first, each
// one receiving the output of its children in declaration order.
type Renderer struct {
	console *console.Console
	opts    Options
	logger  *log.Logger
}

func New(c *console.Console, opts Options) *Renderer {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = runtime.GOMAXPROCS(0)
	}
	return &Renderer{console: c, opts: opts, logger: logger}
}

// Page renders the page with the given route. The top-level widgets are
// separated by a blank line.
func (r *Renderer) Page(ctx context.Context, route string) (string, error) {
	page, ok := r.console.PageByRoute(route)
	if !ok {
		return "", &console.NotFoundError{Console: r.console.Name(), Kind: console.KindPage, Key: route}
	}
	rendered, err := r.Widgets(ctx, page.WidgetIDs)
	if err != nil {
		return "", fmt.Errorf("render page %s: %w", route, err)
	}
	outputs := make([]string, len(page.WidgetIDs))
	for i, id := range page.WidgetIDs {
		outputs[i] = rendered[id].Output
	}
	return strings.Join(outputs, "\n\n"), nil
}

// Widgets renders the widgets in ids and everything they contain. The result
// holds one entry per rendered widget.
//
// Data is loaded for every widget first, concurrently. A widget whose type
// does not load data is rendered as is. A child cycle fails with
// dag.CycleError before anything is loaded.
func (r *Renderer) Widgets(ctx context.Context, ids []string) (map[string]console.Rendered, error) {
	order, err := r.order(ids)
	if err != nil {
		return nil, err
	}
	if err := r.loadData(ctx, order); err != nil {
		return nil, err
	}

	out := make(map[string]console.Rendered, len(order))
	for _, id := range order {
		w, _ := r.console.Widget(id)
		spec := w.Spec()
		children := make([]console.Rendered, len(spec.ChildrenIDs))
		for i, childID := range spec.ChildrenIDs {
			children[i] = out[childID]
		}
		res, err := w.Render(ctx, children)
		if err != nil {
			return nil, fmt.Errorf("render widget %s: %w", id, err)
		}
		r.logger.Debug("rendered widget", "id", id, "type", spec.Type)
		out[id] = res
	}
	return out, nil
}

// order returns the widgets reachable from ids, children before parents.
func (r *Renderer) order(ids []string) ([]string, error) {
	g := dag.New()
	queue := append([]string(nil), ids...)
	visited := make(map[string]bool)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if visited[id] {
			continue
		}
		visited[id] = true
		w, ok := r.console.Widget(id)
		if !ok {
			return nil, &console.UnresolvedReferenceError{ID: id, Kind: console.KindWidget}
		}
		g.AddNode(id)
		for _, child := range w.Spec().ChildrenIDs {
			g.AddDependency(id, child)
			queue = append(queue, child)
		}
	}
	return g.Order()
}

func (r *Renderer) loadData(ctx context.Context, ids []string) error {
	var (
		mu        sync.Mutex
		connected = make(map[string]bool)
	)
	connect := func(ctx context.Context, p console.Provider) error {
		id := p.Spec().ID
		mu.Lock()
		defer mu.Unlock()
		if connected[id] {
			return nil
		}
		if err := p.Connect(ctx); err != nil && !errors.Is(err, console.ErrCapabilityUnimplemented) {
			return fmt.Errorf("connect provider %s: %w", id, err)
		}
		connected[id] = true
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Concurrency)
	for _, id := range ids {
		w, _ := r.console.Widget(id)
		g.Go(func() error {
			spec := w.Spec()
			providers := make([]console.Provider, 0, len(spec.ProviderIDs))
			for _, pid := range spec.ProviderIDs {
				p, ok := r.console.Provider(pid)
				if !ok {
					return &console.UnresolvedReferenceError{ID: pid, Kind: console.KindProvider}
				}
				if err := connect(gctx, p); err != nil {
					return err
				}
				providers = append(providers, p)
			}
			err := w.GetData(gctx, console.DataRequest{Providers: providers})
			if errors.Is(err, console.ErrCapabilityUnimplemented) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("load data of widget %s: %w", id, err)
			}
			r.logger.Debug("loaded widget data", "id", id, "providers", len(providers))
			return nil
		})
	}
	return g.Wait()
}
