// SPDX-License-Identifier: MPL-2.0

package console

import (
	_ "embed"
	"fmt"

	"github.com/invowk/opsconsole/pkg/cueutil"
)

//go:embed console_schema.cue
var documentSchema []byte

// DecodeDocument decodes a console document from CUE, JSON, YAML or TOML
// bytes. The format follows the file extension of filename (CUE when it has
// none). The result is checked against the document schema for value shapes
// only; required properties and references are left to Validate.
func DecodeDocument(data []byte, filename string) (Record, error) {
	raw, err := cueutil.DecodeDocument(data,
		cueutil.WithFilename(filename),
		cueutil.WithFormat(cueutil.FormatFromFilename(filename)),
		cueutil.WithSchema(documentSchema, "#Console"),
	)
	if err != nil {
		return nil, err
	}
	return Record(raw), nil
}

// ToJSON returns the id-based form of the skeleton: every reference is a plain
// id list and every entity carries its id.
func (sk *Skeleton) ToJSON() Record {
	providers := make(map[string]any, len(sk.Providers))
	for id, p := range sk.Providers {
		p.ID = id
		providers[id] = map[string]any(p.Record())
	}
	pages := make(map[string]any, len(sk.Pages))
	for id, p := range sk.Pages {
		p.ID = id
		pages[id] = map[string]any(p.Record())
	}
	widgets := make(map[string]any, len(sk.Widgets))
	for id, w := range sk.Widgets {
		w.ID = id
		widgets[id] = map[string]any(w.Record())
	}
	return Record{
		propName:         sk.Name,
		propProviders:    providers,
		propPages:        pages,
		propWidgets:      widgets,
		propDependencies: dependencyRecord(sk.Dependencies),
	}
}

// ToDocument returns the pointer-based document form of the skeleton, the
// inverse of Parse. Pages are always written under "pages".
//
// Only single-document pointers are produced.
func (sk *Skeleton) ToDocument() Record {
	providers := make(map[string]any, len(sk.Providers))
	for id, p := range sk.Providers {
		rec := p.Config.Clone()
		if rec == nil {
			rec = Record{}
		}
		rec[propType] = p.Type
		providers[id] = map[string]any(rec)
	}
	pages := make(map[string]any, len(sk.Pages))
	for id, p := range sk.Pages {
		pages[id] = map[string]any{
			propRoute:   p.Route,
			propWidgets: RefList(CategoryWidgets, p.WidgetIDs),
		}
	}
	widgets := make(map[string]any, len(sk.Widgets))
	for id, w := range sk.Widgets {
		widgets[id] = map[string]any(widgetDocument(id, w))
	}
	doc := Record{
		propName:      sk.Name,
		propProviders: providers,
		propPages:     pages,
		propWidgets:   widgets,
	}
	if len(sk.Dependencies) > 0 {
		doc[propDependencies] = dependencyRecord(sk.Dependencies)
	}
	return doc
}

func widgetDocument(id string, w WidgetSpec) Record {
	rec := w.Extra.Clone()
	if rec == nil {
		rec = Record{}
	}
	rec[propID] = id
	rec[propType] = w.Type
	rec[propDisplayName] = w.DisplayName
	if w.Description != "" {
		rec[propDescription] = w.Description
	}
	if w.DisplayOptions != nil {
		rec[propDisplayOptions] = map[string]any(w.DisplayOptions.Clone())
	}
	rec[propProviders] = RefList(CategoryProviders, w.ProviderIDs)
	rec[propChildren] = RefList(CategoryWidgets, w.ChildrenIDs)
	return rec
}

func dependencyRecord(deps map[string]string) map[string]any {
	out := make(map[string]any, len(deps))
	for k, v := range deps {
		out[k] = v
	}
	return out
}

// MarshalDocument renders the pointer-based document in format.
func (sk *Skeleton) MarshalDocument(format cueutil.Format) ([]byte, error) {
	data, err := cueutil.EncodeDocument(sk.ToDocument().Plain(), format)
	if err != nil {
		return nil, fmt.Errorf("encode console %s: %w", sk.Name, err)
	}
	return data, nil
}

// MarshalJSONForm renders the id-based form in format.
func (sk *Skeleton) MarshalJSONForm(format cueutil.Format) ([]byte, error) {
	data, err := cueutil.EncodeDocument(sk.ToJSON().Plain(), format)
	if err != nil {
		return nil, fmt.Errorf("encode console %s: %w", sk.Name, err)
	}
	return data, nil
}

// ToJSON returns the id-based form of the console.
func (c *Console) ToJSON() Record { return c.Skeleton().ToJSON() }

// ToDocument returns the pointer-based document form of the console.
func (c *Console) ToDocument() Record { return c.Skeleton().ToDocument() }

// MarshalDocument renders the pointer-based document in format.
func (c *Console) MarshalDocument(format cueutil.Format) ([]byte, error) {
	return c.Skeleton().MarshalDocument(format)
}
