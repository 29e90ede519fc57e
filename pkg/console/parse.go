// SPDX-License-Identifier: MPL-2.0

package console

import (
	"context"
	"io"
	"runtime"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

type (
	// Skeleton is a validated console whose pointers are resolved to ids but
	// whose widgets and providers are not hydrated yet.
	Skeleton struct {
		Name         string
		Providers    map[string]ProviderSpec
		Pages        map[string]Page
		Widgets      map[string]WidgetSpec
		Dependencies map[string]string
	}

	// HydrateOptions configures Hydrate and DeepParse.
	HydrateOptions struct {
		// Loader resolves the source locators of the console dependencies.
		Loader SourceLoader
		// Concurrency bounds the number of entities hydrated at once.
		// Zero or less means runtime.GOMAXPROCS(0).
		Concurrency int
		// Logger receives debug output; nil discards it.
		Logger *log.Logger
	}
)

// Parse validates doc and flattens every pointer into id lists.
//
// Map keys are authoritative for ids: a page, widget or provider keyed "x" gets
// id "x" whatever its own id property says. The pages map may be supplied
// under the legacy name "dashboards".
func Parse(doc Record) (*Skeleton, error) {
	d, err := checkStructure(doc)
	if err != nil {
		return nil, err
	}
	refs, err := d.resolveReferences()
	if err != nil {
		return nil, err
	}

	sk := &Skeleton{
		Name:         d.name,
		Providers:    make(map[string]ProviderSpec, len(d.providers)),
		Pages:        make(map[string]Page, len(d.pages)),
		Widgets:      make(map[string]WidgetSpec, len(d.widgets)),
		Dependencies: d.dependencies,
	}
	for id, raw := range d.pages {
		route, _ := raw.String(propRoute)
		sk.Pages[id] = Page{ID: id, Route: route, WidgetIDs: cloneIDs(refs.pageWidgets[id])}
	}
	for id, raw := range d.widgets {
		w, err := widgetFromDocument(id, raw)
		if err != nil {
			return nil, err
		}
		w.ProviderIDs = cloneIDs(refs.widgetProviders[id])
		w.ChildrenIDs = cloneIDs(refs.widgetChildren[id])
		sk.Widgets[id] = w
	}
	for id, raw := range d.providers {
		typeName, _ := raw.String(propType)
		sk.Providers[id] = ProviderSpec{ID: id, Type: typeName, Config: extraProperties(raw, propID, propType)}
	}
	return sk, nil
}

func widgetFromDocument(id string, raw Record) (WidgetSpec, error) {
	w := WidgetSpec{ID: id}
	w.Type, _ = raw.String(propType)
	w.DisplayName, _ = raw.String(propDisplayName)
	w.Description, _ = raw.String(propDescription)
	opts, err := optionalMap(raw, propDisplayOptions, KindWidget)
	if err != nil {
		return WidgetSpec{}, err
	}
	w.DisplayOptions = opts
	w.Extra = extraProperties(raw, propID, propType, propDisplayName, propDescription,
		propDisplayOptions, propProviders, propChildren, propProviderIDs, propChildrenIDs)
	return w, nil
}

// Hydrate turns every widget and provider of sk into a live instance, using
// deps to find the source locator of each type.
//
// Entities are hydrated concurrently. The first failure cancels the rest and
// is returned as is; no partially hydrated console is ever returned.
func Hydrate(ctx context.Context, sk *Skeleton, deps map[string]string, opts HydrateOptions) (*Console, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	limit := opts.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	widgetIDs := sortedKeys(sk.Widgets)
	providerIDs := sortedKeys(sk.Providers)
	widgets := make([]Widget, len(widgetIDs))
	providers := make([]Provider, len(providerIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, id := range widgetIDs {
		spec := sk.Widgets[id]
		g.Go(func() error {
			w, err := HydrateWidget(gctx, opts.Loader, spec, deps[spec.Type])
			if err != nil {
				return err
			}
			logger.Debug("hydrated widget", "id", spec.ID, "type", spec.Type)
			widgets[i] = w
			return nil
		})
	}
	for i, id := range providerIDs {
		spec := sk.Providers[id]
		g.Go(func() error {
			p, err := HydrateProvider(gctx, opts.Loader, spec, deps[spec.Type])
			if err != nil {
				return err
			}
			logger.Debug("hydrated provider", "id", spec.ID, "type", spec.Type)
			providers[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c := &Console{
		name:         sk.Name,
		providers:    make(map[string]Provider, len(providers)),
		pages:        make(map[string]Page, len(sk.Pages)),
		widgets:      make(map[string]Widget, len(widgets)),
		dependencies: cloneDependencies(deps),
	}
	for i, id := range widgetIDs {
		c.widgets[id] = widgets[i]
	}
	for i, id := range providerIDs {
		c.providers[id] = providers[i]
	}
	for id, p := range sk.Pages {
		c.pages[id] = p.Clone()
	}
	logger.Debug("hydrated console", "name", c.name, "widgets", len(widgets), "providers", len(providers))
	return c, nil
}

// DeepParse runs the whole pipeline on doc: validate, parse, then hydrate with
// the document's own dependencies. It stops at the first failing phase.
func DeepParse(ctx context.Context, doc Record, opts HydrateOptions) (*Console, error) {
	sk, err := Parse(doc)
	if err != nil {
		return nil, err
	}
	return Hydrate(ctx, sk, sk.Dependencies, opts)
}

// ParseJSON builds a Skeleton from the id-based form produced by ToJSON.
// Required properties and id references are checked the same way Validate
// checks the pointer-based form.
func ParseJSON(rec Record) (*Skeleton, error) {
	if rec == nil {
		rec = Record{}
	}
	if err := ValidateRequiredFields(rec, []string{propName, propProviders, propPages, propWidgets}, KindConsole); err != nil {
		return nil, err
	}
	name, err := optionalString(rec, propName, KindConsole)
	if err != nil {
		return nil, err
	}
	rawProviders, err := entityMap(rec, propProviders)
	if err != nil {
		return nil, err
	}
	rawPages, err := entityMap(rec, propPages)
	if err != nil {
		return nil, err
	}
	rawWidgets, err := entityMap(rec, propWidgets)
	if err != nil {
		return nil, err
	}
	deps, err := dependencyMap(rec)
	if err != nil {
		return nil, err
	}

	sk := &Skeleton{
		Name:         name,
		Providers:    make(map[string]ProviderSpec, len(rawProviders)),
		Pages:        make(map[string]Page, len(rawPages)),
		Widgets:      make(map[string]WidgetSpec, len(rawWidgets)),
		Dependencies: deps,
	}
	for _, id := range sortedKeys(rawPages) {
		p, err := PageFromRecord(rawPages[id])
		if err != nil {
			return nil, err
		}
		p.ID = id
		sk.Pages[id] = p
	}
	for _, id := range sortedKeys(rawWidgets) {
		if err := ValidateRequiredFields(rawWidgets[id], []string{propType, propDisplayName}, KindWidget); err != nil {
			return nil, err
		}
		w, err := WidgetSpecFromRecord(rawWidgets[id])
		if err != nil {
			return nil, err
		}
		w.ID = id
		sk.Widgets[id] = w
	}
	for _, id := range sortedKeys(rawProviders) {
		if err := ValidateRequiredFields(rawProviders[id], []string{propType}, KindProvider); err != nil {
			return nil, err
		}
		p, err := ProviderSpecFromRecord(rawProviders[id])
		if err != nil {
			return nil, err
		}
		p.ID = id
		sk.Providers[id] = p
	}

	if err := sk.checkReferences(); err != nil {
		return nil, err
	}
	return sk, nil
}

// checkReferences checks the id lists of the skeleton against its maps.
func (sk *Skeleton) checkReferences() error {
	var widgetRefs, providerRefs []string
	for _, id := range sortedKeys(sk.Pages) {
		widgetRefs = append(widgetRefs, sk.Pages[id].WidgetIDs...)
	}
	for _, id := range sortedKeys(sk.Widgets) {
		w := sk.Widgets[id]
		widgetRefs = append(widgetRefs, w.ChildrenIDs...)
		tabs, _ := w.Extra.Map(propTabs)
		for _, tabID := range sortedKeys(tabs) {
			tab, ok := AsRecord(tabs[tabID])
			if !ok {
				continue
			}
			ids, err := refIDs(tab, propWidgets, CategoryWidgets)
			if err != nil {
				return err
			}
			widgetRefs = append(widgetRefs, ids...)
		}
		providerRefs = append(providerRefs, w.ProviderIDs...)
	}
	if err := ValidateReferences(keySet(sk.Widgets), widgetRefs, KindWidget); err != nil {
		return err
	}
	return ValidateReferences(keySet(sk.Providers), providerRefs, KindProvider)
}

func cloneDependencies(deps map[string]string) map[string]string {
	out := make(map[string]string, len(deps))
	for k, v := range deps {
		out[k] = v
	}
	return out
}
