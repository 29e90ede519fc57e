// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/exp/slices"

	"github.com/invowk/opsconsole/pkg/console"
)

const defaultMarkdownStyle = "notty"

type (
	// Basic shows its title, description and the credential keys its
	// providers expose.
	Basic struct {
		console.BaseWidget

		mu   sync.Mutex
		keys []string
	}

	// Markdown renders displayOptions.content as Markdown.
	Markdown struct {
		console.BaseWidget
		content string
		style   string
	}

	// Panel draws a bordered box around its rendered children.
	Panel struct {
		console.BaseWidget
		width int
	}
)

func newBasic(spec console.WidgetSpec) (console.Widget, error) {
	return &Basic{BaseWidget: console.NewBaseWidget(spec)}, nil
}

// GetData collects the credential keys of every provider.
func (w *Basic) GetData(ctx context.Context, req console.DataRequest) error {
	var keys []string
	for _, p := range req.Providers {
		creds, err := p.Credentials(ctx)
		if err != nil {
			return fmt.Errorf("widget %s: provider %s: %w", w.ID(), p.Spec().ID, err)
		}
		for k := range creds {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	keys = slices.Compact(keys)

	w.mu.Lock()
	w.keys = keys
	w.mu.Unlock()
	return nil
}

// Render writes the title, the description and any loaded data, followed by
// the children.
func (w *Basic) Render(_ context.Context, children []console.Rendered) (console.Rendered, error) {
	spec := w.Spec()
	var b strings.Builder
	b.WriteString(spec.DisplayName)
	if spec.Description != "" {
		b.WriteString("\n" + spec.Description)
	}
	w.mu.Lock()
	if len(w.keys) > 0 {
		b.WriteString("\ncredentials: " + strings.Join(w.keys, ", "))
	}
	w.mu.Unlock()
	for _, child := range children {
		b.WriteString("\n" + child.Output)
	}
	return console.Rendered{WidgetID: spec.ID, Output: b.String()}, nil
}

func newMarkdown(spec console.WidgetSpec) (console.Widget, error) {
	content, _ := spec.DisplayOptions.String("content")
	style, ok := spec.DisplayOptions.String("style")
	if !ok {
		style = defaultMarkdownStyle
	}
	return &Markdown{BaseWidget: console.NewBaseWidget(spec), content: content, style: style}, nil
}

// Render renders the Markdown content with glamour. Children are ignored.
func (w *Markdown) Render(context.Context, []console.Rendered) (console.Rendered, error) {
	source := w.content
	if source == "" {
		source = "# " + w.Spec().DisplayName
	}
	out, err := glamour.Render(source, w.style)
	if err != nil {
		return console.Rendered{}, fmt.Errorf("render markdown widget %s: %w", w.ID(), err)
	}
	return console.Rendered{WidgetID: w.ID(), Output: strings.TrimRight(out, "\n")}, nil
}

func newPanel(spec console.WidgetSpec) (console.Widget, error) {
	p := &Panel{BaseWidget: console.NewBaseWidget(spec)}
	if v, ok := spec.DisplayOptions.Get("width"); ok {
		width, ok := asInt(v)
		if !ok || width < 0 {
			return nil, &console.InvalidPropertyError{
				Property: "displayOptions.width",
				Kind:     console.KindWidget,
				Expected: "a non-negative integer",
				Object:   spec.Record().Render(),
			}
		}
		p.width = width
	}
	return p, nil
}

var panelTitleStyle = lipgloss.NewStyle().Bold(true)

// Render joins the children vertically inside a rounded border.
func (w *Panel) Render(_ context.Context, children []console.Rendered) (console.Rendered, error) {
	parts := []string{panelTitleStyle.Render(w.Spec().DisplayName)}
	for _, child := range children {
		parts = append(parts, child.Output)
	}
	style := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	if w.width > 0 {
		style = style.Width(w.width)
	}
	body := lipgloss.JoinVertical(lipgloss.Left, parts...)
	return console.Rendered{WidgetID: w.ID(), Output: style.Render(body)}, nil
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}
