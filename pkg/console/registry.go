// SPDX-License-Identifier: MPL-2.0

package console

import (
	"context"
	"fmt"
	"sync"
)

type (
	// WidgetFactory builds a hydrated widget from its generic record.
	WidgetFactory func(spec WidgetSpec) (Widget, error)

	// ProviderFactory builds a hydrated provider from its generic record.
	ProviderFactory func(spec ProviderSpec) (Provider, error)

	// Source is a loaded source of implementations, keyed by type name.
	Source interface {
		WidgetFactory(typeName string) (WidgetFactory, bool)
		ProviderFactory(typeName string) (ProviderFactory, bool)
	}

	// SourceLoader resolves a source locator (the value of a console
	// dependencies entry) to a Source. Loading may perform I/O. Any failure is
	// reported to the caller as a single TypeLoadError.
	SourceLoader interface {
		LoadSource(ctx context.Context, locator string) (Source, error)
	}

	// SourceLoaderFunc adapts a function to the SourceLoader interface.
	SourceLoaderFunc func(ctx context.Context, locator string) (Source, error)

	// Registry is an in-process SourceLoader populated by static registration.
	// It is safe for concurrent use.
	Registry struct {
		mu      sync.RWMutex
		modules map[string]*Module
	}

	// Module is a Source registered in a Registry under one locator.
	Module struct {
		mu        sync.RWMutex
		locator   string
		widgets   map[string]WidgetFactory
		providers map[string]ProviderFactory
	}
)

// LoadSource calls f.
func (f SourceLoaderFunc) LoadSource(ctx context.Context, locator string) (Source, error) {
	return f(ctx, locator)
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{modules: make(map[string]*Module)}
}

// Register returns the module registered under locator, creating it if needed.
func (r *Registry) Register(locator string) *Module {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.modules[locator]; ok {
		return m
	}
	m := &Module{
		locator:   locator,
		widgets:   make(map[string]WidgetFactory),
		providers: make(map[string]ProviderFactory),
	}
	r.modules[locator] = m
	return m
}

// Locators returns the registered locators in lexical order.
func (r *Registry) Locators() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.modules)
}

// Module returns the module registered under locator.
func (r *Registry) Module(locator string) (*Module, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.modules[locator]
	return m, ok
}

// LoadSource returns the module registered under locator.
func (r *Registry) LoadSource(ctx context.Context, locator string) (Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.modules[locator]
	if !ok {
		return nil, fmt.Errorf("source %q is not registered", locator)
	}
	return m, nil
}

// Locator returns the locator the module is registered under.
func (m *Module) Locator() string { return m.locator }

// Widget registers a widget implementation under typeName. Registering the
// same name twice is a programming error and panics.
func (m *Module) Widget(typeName string, factory WidgetFactory) *Module {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.widgets[typeName]; exists {
		panic(fmt.Sprintf("widget type '%s' already registered in source '%s'", typeName, m.locator))
	}
	m.widgets[typeName] = factory
	return m
}

// Provider registers a provider implementation under typeName. Registering
// the same name twice is a programming error and panics.
func (m *Module) Provider(typeName string, factory ProviderFactory) *Module {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.providers[typeName]; exists {
		panic(fmt.Sprintf("provider type '%s' already registered in source '%s'", typeName, m.locator))
	}
	m.providers[typeName] = factory
	return m
}

// WidgetTypes returns the registered widget type names in lexical order.
func (m *Module) WidgetTypes() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sortedKeys(m.widgets)
}

// ProviderTypes returns the registered provider type names in lexical order.
func (m *Module) ProviderTypes() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sortedKeys(m.providers)
}

// WidgetFactory implements Source.
func (m *Module) WidgetFactory(typeName string) (WidgetFactory, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.widgets[typeName]
	return f, ok
}

// ProviderFactory implements Source.
func (m *Module) ProviderFactory(typeName string) (ProviderFactory, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.providers[typeName]
	return f, ok
}

// HydrateWidget turns a widget record into a live Widget using the
// implementation exported under spec.Type by the source at locator.
//
// The record's own required properties are checked before anything is loaded.
// A missing locator, a failing loader, or a source without the type all fail
// with a TypeLoadError naming the type and the locator.
func HydrateWidget(ctx context.Context, loader SourceLoader, spec WidgetSpec, locator string) (Widget, error) {
	if err := ValidateRequiredFields(spec.Record(), []string{propID, propType, propDisplayName}, KindWidget); err != nil {
		return nil, err
	}
	if err := requireNonEmpty(spec.Record(), KindWidget, propID, spec.ID, propType, spec.Type, propDisplayName, spec.DisplayName); err != nil {
		return nil, err
	}
	source, err := loadSource(ctx, loader, KindWidget, spec.Type, locator)
	if err != nil {
		return nil, err
	}
	factory, ok := source.WidgetFactory(spec.Type)
	if !ok || factory == nil {
		return nil, &TypeLoadError{Kind: KindWidget, Type: spec.Type, Locator: locator, Cause: ErrTypeNotExported}
	}
	w, err := factory(spec.Clone())
	if err != nil {
		return nil, fmt.Errorf("hydrate widget %q of type %q: %w", spec.ID, spec.Type, err)
	}
	return w, nil
}

// HydrateProvider turns a provider record into a live Provider. It follows
// the same rules as HydrateWidget; the required properties are id and type.
func HydrateProvider(ctx context.Context, loader SourceLoader, spec ProviderSpec, locator string) (Provider, error) {
	if err := requireNonEmpty(spec.Record(), KindProvider, propID, spec.ID, propType, spec.Type); err != nil {
		return nil, err
	}
	source, err := loadSource(ctx, loader, KindProvider, spec.Type, locator)
	if err != nil {
		return nil, err
	}
	factory, ok := source.ProviderFactory(spec.Type)
	if !ok || factory == nil {
		return nil, &TypeLoadError{Kind: KindProvider, Type: spec.Type, Locator: locator, Cause: ErrTypeNotExported}
	}
	p, err := factory(spec.Clone())
	if err != nil {
		return nil, fmt.Errorf("hydrate provider %q of type %q: %w", spec.ID, spec.Type, err)
	}
	return p, nil
}

func loadSource(ctx context.Context, loader SourceLoader, kind EntityKind, typeName, locator string) (Source, error) {
	if locator == "" {
		return nil, &TypeLoadError{Kind: kind, Type: typeName, Locator: locator, Cause: ErrNoSourceLocator}
	}
	if loader == nil {
		return nil, &TypeLoadError{Kind: kind, Type: typeName, Locator: locator, Cause: fmt.Errorf("no source loader configured")}
	}
	source, err := loader.LoadSource(ctx, locator)
	if err != nil {
		return nil, &TypeLoadError{Kind: kind, Type: typeName, Locator: locator, Cause: err}
	}
	if source == nil {
		return nil, &TypeLoadError{Kind: kind, Type: typeName, Locator: locator, Cause: fmt.Errorf("source %q is empty", locator)}
	}
	return source, nil
}

// requireNonEmpty reports the first empty string among name/value pairs as a
// missing property; the id-based form has no null, so empty means absent.
func requireNonEmpty(rec Record, kind EntityKind, pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			return &MissingPropertyError{Property: pairs[i], Kind: kind, Object: rec.Render()}
		}
	}
	return nil
}
