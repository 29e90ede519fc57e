// SPDX-License-Identifier: MPL-2.0

package consoletest

import (
	"github.com/invowk/opsconsole/pkg/builtin"
	"github.com/invowk/opsconsole/pkg/console"
)

type (
	// DocumentOption configures a test document.
	DocumentOption func(console.Record)

	// WidgetOption configures one widget record.
	WidgetOption func(console.Record)
)

// NewDocument returns a valid, empty pointer-based document named name whose
// dependencies map every builtin type to the builtin source.
func NewDocument(name string, opts ...DocumentOption) console.Record {
	doc := console.Record{
		"name":         name,
		"providers":    map[string]any{},
		"pages":        map[string]any{},
		"widgets":      map[string]any{},
		"dependencies": map[string]any{},
	}
	for typeName, locator := range builtin.Dependencies() {
		doc["dependencies"].(map[string]any)[typeName] = locator
	}
	for _, opt := range opts {
		opt(doc)
	}
	return doc
}

// WithPage adds a page showing widgetIDs in order.
func WithPage(id, route string, widgetIDs ...string) DocumentOption {
	return func(doc console.Record) {
		doc["pages"].(map[string]any)[id] = map[string]any{
			"route":   route,
			"widgets": console.RefList(console.CategoryWidgets, widgetIDs),
		}
	}
}

// WithWidget adds a widget with the required properties set.
func WithWidget(id, typeName, displayName string, opts ...WidgetOption) DocumentOption {
	return func(doc console.Record) {
		w := console.Record{
			"id":          id,
			"type":        typeName,
			"displayName": displayName,
		}
		for _, opt := range opts {
			opt(w)
		}
		doc["widgets"].(map[string]any)[id] = map[string]any(w)
	}
}

// WithProvider adds a provider; config holds its type-specific properties.
func WithProvider(id, typeName string, config map[string]any) DocumentOption {
	return func(doc console.Record) {
		p := map[string]any{"type": typeName}
		for k, v := range config {
			p[k] = v
		}
		doc["providers"].(map[string]any)[id] = p
	}
}

// WithDependency maps typeName to locator.
func WithDependency(typeName, locator string) DocumentOption {
	return func(doc console.Record) {
		doc["dependencies"].(map[string]any)[typeName] = locator
	}
}

func Providers(ids ...string) WidgetOption {
	return func(w console.Record) {
		w["providers"] = console.RefList(console.CategoryProviders, ids)
	}
}

func Children(ids ...string) WidgetOption {
	return func(w console.Record) {
		w["children"] = console.RefList(console.CategoryWidgets, ids)
	}
}

func Description(text string) WidgetOption {
	return func(w console.Record) {
		w["description"] = text
	}
}

// Property sets an arbitrary widget property.
func Property(name string, value any) WidgetOption {
	return func(w console.Record) {
		w[name] = value
	}
}

// Sample returns a small valid document exercising every builtin type:
// a panel on "/" containing a basic widget fed by a static provider, and a
// markdown widget on "/docs".
func Sample() console.Record {
	return NewDocument("ops",
		WithProvider("tokens", builtin.TypeStatic, map[string]any{
			"values": map[string]any{"token": "abc"},
		}),
		WithWidget("summary", builtin.TypeBasic, "Summary",
			Description("Service summary"),
			Providers("tokens"),
		),
		WithWidget("main", builtin.TypePanel, "Main", Children("summary")),
		WithWidget("readme", builtin.TypeMarkdown, "Readme",
			Property("displayOptions", map[string]any{"content": "# Runbook\n\nRestart the service."}),
		),
		WithPage("home", "/", "main"),
		WithPage("docs", "/docs", "readme"),
	)
}
