// SPDX-License-Identifier: MPL-2.0

package console_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/invowk/opsconsole/pkg/console"
)

type (
	basicWidget struct {
		console.BaseWidget
	}

	dataWidget struct {
		console.BaseWidget
		loaded int
	}

	staticProvider struct {
		console.BaseProvider
	}
)

func (w *dataWidget) GetData(_ context.Context, req console.DataRequest) error {
	w.loaded = len(req.Providers)
	return nil
}

func (p *staticProvider) Credentials(context.Context) (console.Credentials, error) {
	return console.Credentials{"token": "static"}, nil
}

// testRegistry serves Basic and Data widgets and a "t" provider under "src".
func testRegistry() *console.Registry {
	reg := console.NewRegistry()
	reg.Register("src").
		Widget("Basic", func(spec console.WidgetSpec) (console.Widget, error) {
			return &basicWidget{BaseWidget: console.NewBaseWidget(spec)}, nil
		}).
		Widget("Data", func(spec console.WidgetSpec) (console.Widget, error) {
			return &dataWidget{BaseWidget: console.NewBaseWidget(spec)}, nil
		}).
		Widget("Broken", func(console.WidgetSpec) (console.Widget, error) {
			return nil, errors.New("broken on purpose")
		}).
		Provider("t", func(spec console.ProviderSpec) (console.Provider, error) {
			return &staticProvider{BaseProvider: console.NewBaseProvider(spec)}, nil
		})
	return reg
}

func ref(category, id string) map[string]any {
	return map[string]any{"$ref": fmt.Sprintf("#/Console/%s/%s", category, id)}
}

// scenarioDoc is a small valid console: one provider, one page, one widget.
func scenarioDoc() console.Record {
	return console.Record{
		"name": "c",
		"providers": map[string]any{
			"P1": map[string]any{"type": "t"},
		},
		"pages": map[string]any{
			"pg1": map[string]any{
				"route":   "/r",
				"widgets": []any{ref("widgets", "W1")},
			},
		},
		"widgets": map[string]any{
			"W1": map[string]any{
				"id":          "W1",
				"type":        "Basic",
				"displayName": "W",
				"providers":   []any{ref("providers", "P1")},
				"children":    []any{},
			},
		},
		"dependencies": map[string]any{"Basic": "src"},
	}
}

// richDoc exercises nesting: children, tabs, extra properties and display options.
func richDoc() console.Record {
	return console.Record{
		"name": "rich",
		"providers": map[string]any{
			"P1": map[string]any{"type": "t", "region": "us-east-1"},
			"P2": map[string]any{"type": "t"},
		},
		"pages": map[string]any{
			"home": map[string]any{
				"route":   "/",
				"widgets": []any{ref("widgets", "root"), ref("widgets", "tabs")},
			},
			"empty": map[string]any{
				"route":   "/empty",
				"widgets": []any{},
			},
		},
		"widgets": map[string]any{
			"root": map[string]any{
				"id":             "root",
				"type":           "Basic",
				"displayName":    "Root",
				"description":    "top level",
				"displayOptions": map[string]any{"width": "full"},
				"providers":      []any{ref("providers", "P1"), ref("providers", "P2")},
				"children":       []any{ref("widgets", "b"), ref("widgets", "a")},
			},
			"a": map[string]any{
				"id":          "a",
				"type":        "Data",
				"displayName": "A",
				"providers":   []any{ref("providers", "P2")},
				"children":    []any{},
			},
			"b": map[string]any{
				"id":          "b",
				"type":        "Basic",
				"displayName": "B",
				"providers":   []any{},
				"children":    []any{},
			},
			"tabs": map[string]any{
				"id":          "tabs",
				"type":        "Basic",
				"displayName": "Tabs",
				"providers":   []any{},
				"children":    []any{},
				"tabs": map[string]any{
					"first": map[string]any{"widgets": []any{ref("widgets", "a")}},
				},
			},
		},
		"dependencies": map[string]any{"Basic": "src", "Data": "src", "t": "src"},
	}
}

// at returns the object at path inside doc, for in-place edits.
func at(doc console.Record, path ...string) console.Record {
	cur := doc
	for _, key := range path {
		next, ok := cur.Map(key)
		if !ok {
			panic("no object at " + key)
		}
		cur = next
	}
	return cur
}
