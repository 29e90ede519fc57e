// SPDX-License-Identifier: MPL-2.0

package console

import (
	"strings"

	"github.com/agnivade/levenshtein"
	"golang.org/x/exp/slices"
)

// IDSet is a set of entity ids.
type IDSet map[string]struct{}

// NewIDSet returns a set holding ids.
func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is in the set.
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Sorted returns the ids in lexical order.
func (s IDSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// ValidateRequiredFields fails with a MissingPropertyError for the first name
// whose value is absent or null on entity. Names may be dotted paths into
// nested objects.
func ValidateRequiredFields(entity Record, names []string, kind EntityKind) error {
	for _, name := range names {
		if _, ok := Lookup(entity, strings.Split(name, ".")...); !ok {
			return &MissingPropertyError{Property: name, Kind: kind, Object: entity.Render()}
		}
	}
	return nil
}

// ValidateReferences fails with an UnresolvedReferenceError for the first id in
// referenced that is not in defined.
func ValidateReferences(defined IDSet, referenced []string, kind EntityKind) error {
	for _, id := range referenced {
		if defined.Has(id) {
			continue
		}
		return &UnresolvedReferenceError{ID: id, Kind: kind, Suggestion: closestID(defined, id)}
	}
	return nil
}

// closestID returns the defined id nearest to id by edit distance, or "" when
// nothing is close enough to be a plausible typo.
func closestID(defined IDSet, id string) string {
	best, bestDist := "", -1
	for _, candidate := range defined.Sorted() {
		d := levenshtein.ComputeDistance(id, candidate)
		if bestDist < 0 || d < bestDist {
			best, bestDist = candidate, d
		}
	}
	limit := max(len(id)/3, 2)
	if bestDist < 0 || bestDist > limit {
		return ""
	}
	return best
}

// Validate checks a raw console document.
//
// Required properties of the console and of every page, widget and provider are
// checked first; references are checked only after every entity passes, so a
// structural error is always reported before a referential one. Widget
// references from pages, widget children and widget tabs are checked before
// provider references. Validate does not modify doc.
//
// Route uniqueness is a caller concern and is not checked here.
func Validate(doc Record) error {
	d, err := checkStructure(doc)
	if err != nil {
		return err
	}
	_, err = d.resolveReferences()
	return err
}

// document is the structurally checked view of a raw console document.
type document struct {
	raw          Record
	name         string
	providers    map[string]Record
	pages        map[string]Record
	widgets      map[string]Record
	dependencies map[string]string
}

// references holds every pointer of a document flattened to ids.
type references struct {
	pageWidgets     map[string][]string
	widgetProviders map[string][]string
	widgetChildren  map[string][]string
}

func checkStructure(doc Record) (*document, error) {
	if doc == nil {
		doc = Record{}
	}
	if err := ValidateRequiredFields(doc, []string{propName, propProviders}, KindConsole); err != nil {
		return nil, err
	}
	pagesKey := propPages
	if !doc.Has(propPages) && doc.Has(propDashboards) {
		pagesKey = propDashboards
	}
	if err := ValidateRequiredFields(doc, []string{pagesKey, propWidgets}, KindConsole); err != nil {
		return nil, err
	}

	d := &document{raw: doc}
	var err error
	if d.name, err = optionalString(doc, propName, KindConsole); err != nil {
		return nil, err
	}
	if d.providers, err = entityMap(doc, propProviders); err != nil {
		return nil, err
	}
	if d.pages, err = entityMap(doc, pagesKey); err != nil {
		return nil, err
	}
	if d.widgets, err = entityMap(doc, propWidgets); err != nil {
		return nil, err
	}
	if d.dependencies, err = dependencyMap(doc); err != nil {
		return nil, err
	}

	for _, id := range sortedKeys(d.pages) {
		if err := checkPage(d.pages[id]); err != nil {
			return nil, err
		}
	}
	for _, id := range sortedKeys(d.widgets) {
		if err := checkWidget(d.widgets[id]); err != nil {
			return nil, err
		}
	}
	for _, id := range sortedKeys(d.providers) {
		if err := ValidateRequiredFields(d.providers[id], []string{propType}, KindProvider); err != nil {
			return nil, err
		}
		if _, err := optionalString(d.providers[id], propType, KindProvider); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func checkPage(page Record) error {
	if err := ValidateRequiredFields(page, []string{propRoute}, KindPage); err != nil {
		return err
	}
	if _, err := optionalString(page, propRoute, KindPage); err != nil {
		return err
	}
	return checkRefItems(page, propWidgets, KindPage)
}

func checkWidget(widget Record) error {
	if err := ValidateRequiredFields(widget, []string{propType, propDisplayName}, KindWidget); err != nil {
		return err
	}
	for _, name := range []string{propID, propType, propDisplayName, propDescription} {
		if _, err := optionalString(widget, name, KindWidget); err != nil {
			return err
		}
	}
	if _, err := optionalMap(widget, propDisplayOptions, KindWidget); err != nil {
		return err
	}
	if err := checkRefItems(widget, propProviders, KindWidget); err != nil {
		return err
	}
	if err := checkRefItems(widget, propChildren, KindWidget); err != nil {
		return err
	}
	tabs, err := optionalMap(widget, propTabs, KindWidget)
	if err != nil {
		return err
	}
	for _, tabID := range sortedKeys(tabs) {
		tab, ok := AsRecord(tabs[tabID])
		if !ok {
			return &InvalidPropertyError{Property: propTabs + "." + tabID, Kind: KindWidget, Expected: "an object", Object: widget.Render()}
		}
		if err := checkRefItems(tab, propWidgets, KindWidget); err != nil {
			return err
		}
	}
	return nil
}

// checkRefItems checks that name, when present, is a list of {$ref: string} objects.
func checkRefItems(owner Record, name string, kind EntityKind) error {
	items, err := optionalList(owner, name, kind)
	if err != nil {
		return err
	}
	for _, item := range items {
		ref, ok := AsRecord(item)
		if !ok {
			return &InvalidPropertyError{Property: name, Kind: kind, Expected: "a list of reference objects", Object: owner.Render()}
		}
		if err := ValidateRequiredFields(ref, []string{RefKey}, KindReference); err != nil {
			return err
		}
		if _, err := optionalString(ref, RefKey, KindReference); err != nil {
			return err
		}
	}
	return nil
}

func (d *document) resolveReferences() (*references, error) {
	refs := &references{
		pageWidgets:     make(map[string][]string, len(d.pages)),
		widgetProviders: make(map[string][]string, len(d.widgets)),
		widgetChildren:  make(map[string][]string, len(d.widgets)),
	}
	var widgetRefs, providerRefs []string

	for _, id := range sortedKeys(d.pages) {
		ids, err := refIDs(d.pages[id], propWidgets, CategoryWidgets)
		if err != nil {
			return nil, err
		}
		refs.pageWidgets[id] = ids
		widgetRefs = append(widgetRefs, ids...)
	}
	for _, id := range sortedKeys(d.widgets) {
		widget := d.widgets[id]
		children, err := refIDs(widget, propChildren, CategoryWidgets)
		if err != nil {
			return nil, err
		}
		refs.widgetChildren[id] = children
		widgetRefs = append(widgetRefs, children...)

		tabs, _ := widget.Map(propTabs)
		for _, tabID := range sortedKeys(tabs) {
			tab, _ := AsRecord(tabs[tabID])
			ids, err := refIDs(tab, propWidgets, CategoryWidgets)
			if err != nil {
				return nil, err
			}
			widgetRefs = append(widgetRefs, ids...)
		}

		providers, err := refIDs(widget, propProviders, CategoryProviders)
		if err != nil {
			return nil, err
		}
		refs.widgetProviders[id] = providers
		providerRefs = append(providerRefs, providers...)
	}

	if err := ValidateReferences(keySet(d.widgets), widgetRefs, KindWidget); err != nil {
		return nil, err
	}
	if err := ValidateReferences(keySet(d.providers), providerRefs, KindProvider); err != nil {
		return nil, err
	}
	return refs, nil
}

func refIDs(owner Record, name string, want Category) ([]string, error) {
	items, _ := owner.List(name)
	return ResolveRefList(items, want)
}

// entityMap returns the object-of-objects stored under name.
func entityMap(doc Record, name string) (map[string]Record, error) {
	m, err := optionalMap(doc, name, KindConsole)
	if err != nil {
		return nil, err
	}
	out := make(map[string]Record, len(m))
	for id, v := range m {
		rec, ok := AsRecord(v)
		if !ok {
			return nil, &InvalidPropertyError{Property: name + "." + id, Kind: KindConsole, Expected: "an object", Object: doc.Render()}
		}
		out[id] = rec
	}
	return out, nil
}

func dependencyMap(doc Record) (map[string]string, error) {
	m, err := optionalMap(doc, propDependencies, KindConsole)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(m))
	for typeName, v := range m {
		locator, ok := v.(string)
		if !ok {
			return nil, &InvalidPropertyError{Property: propDependencies + "." + typeName, Kind: KindConsole, Expected: "a string", Object: doc.Render()}
		}
		out[typeName] = locator
	}
	return out, nil
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

func keySet[M ~map[string]V, V any](m M) IDSet {
	s := make(IDSet, len(m))
	for k := range m {
		s[k] = struct{}{}
	}
	return s
}
