// SPDX-License-Identifier: MPL-2.0

package console

import (
	"golang.org/x/exp/slices"
)

// Document property names.
const (
	propName           = "name"
	propProviders      = "providers"
	propPages          = "pages"
	propDashboards     = "dashboards"
	propWidgets        = "widgets"
	propDependencies   = "dependencies"
	propID             = "id"
	propType           = "type"
	propRoute          = "route"
	propWidgetIDs      = "widgetIds"
	propDisplayName    = "displayName"
	propDescription    = "description"
	propDisplayOptions = "displayOptions"
	propProviderIDs    = "providerIds"
	propChildrenIDs    = "childrenIds"
	propChildren       = "children"
	propTabs           = "tabs"
)

type (
	// Page is a routed, ordered collection of widget references.
	// Pages are also called dashboards; both names denote the same entity kind.
	Page struct {
		// ID is the key of the page in the console. It may be empty until the
		// page is added to a console.
		ID string
		// Route is the page route; unique within a console by caller convention.
		Route string
		// WidgetIDs lists the widgets shown on the page, in display order.
		WidgetIDs []string
	}

	// WidgetSpec is the generic, un-hydrated record of a widget.
	WidgetSpec struct {
		ID             string
		Type           string
		DisplayName    string
		Description    string
		DisplayOptions Record
		ProviderIDs    []string
		ChildrenIDs    []string
		// Extra holds every other property of the widget record (for example
		// tabs) so the record survives a round trip unchanged.
		Extra Record
	}

	// ProviderSpec is the generic, un-hydrated record of a provider.
	ProviderSpec struct {
		ID   string
		Type string
		// Config holds the provider-specific properties, opaque to the engine.
		Config Record
	}
)

// Record returns the id-based projection of the page.
func (p Page) Record() Record {
	rec := Record{
		propRoute:     p.Route,
		propWidgetIDs: stringsToList(p.WidgetIDs),
	}
	if p.ID != "" {
		rec[propID] = p.ID
	}
	return rec
}

// Clone returns a copy of the page that shares no slices with p.
func (p Page) Clone() Page {
	p.WidgetIDs = cloneIDs(p.WidgetIDs)
	return p
}

// PageFromRecord builds a Page from its id-based record.
func PageFromRecord(r Record) (Page, error) {
	if err := ValidateRequiredFields(r, []string{propRoute}, KindPage); err != nil {
		return Page{}, err
	}
	id, err := optionalString(r, propID, KindPage)
	if err != nil {
		return Page{}, err
	}
	route, err := optionalString(r, propRoute, KindPage)
	if err != nil {
		return Page{}, err
	}
	widgetIDs, err := optionalStringList(r, propWidgetIDs, KindPage)
	if err != nil {
		return Page{}, err
	}
	return Page{ID: id, Route: route, WidgetIDs: widgetIDs}, nil
}

// Record returns the id-based projection of the widget. The projection is
// lossless: WidgetSpecFromRecord(w.Record()) reproduces w.
func (w WidgetSpec) Record() Record {
	rec := w.Extra.Clone()
	if rec == nil {
		rec = Record{}
	}
	rec[propID] = w.ID
	rec[propType] = w.Type
	rec[propDisplayName] = w.DisplayName
	rec[propProviderIDs] = stringsToList(w.ProviderIDs)
	rec[propChildrenIDs] = stringsToList(w.ChildrenIDs)
	if w.Description != "" {
		rec[propDescription] = w.Description
	}
	if w.DisplayOptions != nil {
		rec[propDisplayOptions] = w.DisplayOptions.Clone()
	}
	return rec
}

// Clone returns a deep copy of the widget record.
func (w WidgetSpec) Clone() WidgetSpec {
	w.DisplayOptions = w.DisplayOptions.Clone()
	w.ProviderIDs = cloneIDs(w.ProviderIDs)
	w.ChildrenIDs = cloneIDs(w.ChildrenIDs)
	w.Extra = w.Extra.Clone()
	return w
}

// WidgetSpecFromRecord builds a WidgetSpec from its id-based record. Required
// properties are not enforced here; hydration re-validates them.
func WidgetSpecFromRecord(r Record) (WidgetSpec, error) {
	var (
		w   WidgetSpec
		err error
	)
	if w.ID, err = optionalString(r, propID, KindWidget); err != nil {
		return WidgetSpec{}, err
	}
	if w.Type, err = optionalString(r, propType, KindWidget); err != nil {
		return WidgetSpec{}, err
	}
	if w.DisplayName, err = optionalString(r, propDisplayName, KindWidget); err != nil {
		return WidgetSpec{}, err
	}
	if w.Description, err = optionalString(r, propDescription, KindWidget); err != nil {
		return WidgetSpec{}, err
	}
	if w.DisplayOptions, err = optionalMap(r, propDisplayOptions, KindWidget); err != nil {
		return WidgetSpec{}, err
	}
	if w.ProviderIDs, err = optionalStringList(r, propProviderIDs, KindWidget); err != nil {
		return WidgetSpec{}, err
	}
	if w.ChildrenIDs, err = optionalStringList(r, propChildrenIDs, KindWidget); err != nil {
		return WidgetSpec{}, err
	}
	w.Extra = extraProperties(r, propID, propType, propDisplayName, propDescription,
		propDisplayOptions, propProviderIDs, propChildrenIDs)
	return w, nil
}

// Record returns the id-based projection of the provider.
func (p ProviderSpec) Record() Record {
	rec := p.Config.Clone()
	if rec == nil {
		rec = Record{}
	}
	rec[propID] = p.ID
	rec[propType] = p.Type
	return rec
}

// Clone returns a deep copy of the provider record.
func (p ProviderSpec) Clone() ProviderSpec {
	p.Config = p.Config.Clone()
	return p
}

// ProviderSpecFromRecord builds a ProviderSpec from its record.
func ProviderSpecFromRecord(r Record) (ProviderSpec, error) {
	var (
		p   ProviderSpec
		err error
	)
	if p.ID, err = optionalString(r, propID, KindProvider); err != nil {
		return ProviderSpec{}, err
	}
	if p.Type, err = optionalString(r, propType, KindProvider); err != nil {
		return ProviderSpec{}, err
	}
	p.Config = extraProperties(r, propID, propType)
	return p, nil
}

func optionalString(r Record, name string, kind EntityKind) (string, error) {
	v, ok := r.Get(name)
	if !ok {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", &InvalidPropertyError{Property: name, Kind: kind, Expected: "a string", Object: r.Render()}
	}
	return s, nil
}

func optionalMap(r Record, name string, kind EntityKind) (Record, error) {
	v, ok := r.Get(name)
	if !ok {
		return nil, nil
	}
	m, ok := AsRecord(v)
	if !ok {
		return nil, &InvalidPropertyError{Property: name, Kind: kind, Expected: "an object", Object: r.Render()}
	}
	return m.Clone(), nil
}

func optionalList(r Record, name string, kind EntityKind) ([]any, error) {
	v, ok := r.Get(name)
	if !ok {
		return nil, nil
	}
	l, ok := asList(v)
	if !ok {
		return nil, &InvalidPropertyError{Property: name, Kind: kind, Expected: "a list", Object: r.Render()}
	}
	return l, nil
}

func optionalStringList(r Record, name string, kind EntityKind) ([]string, error) {
	items, err := optionalList(r, name, kind)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, &InvalidPropertyError{Property: name, Kind: kind, Expected: "a list of strings", Object: r.Render()}
		}
		out = append(out, s)
	}
	return out, nil
}

// extraProperties copies every property of r not named in known.
func extraProperties(r Record, known ...string) Record {
	var extra Record
	for k, v := range r {
		if slices.Contains(known, k) {
			continue
		}
		if extra == nil {
			extra = Record{}
		}
		extra[k] = cloneValue(v)
	}
	return extra
}

func stringsToList(ids []string) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}

func cloneIDs(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return slices.Clone(ids)
}
