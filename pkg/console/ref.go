// SPDX-License-Identifier: MPL-2.0

package console

import (
	"fmt"
	"strings"
)

const (
	// CategoryProviders points into the console providers map.
	CategoryProviders Category = "providers"
	// CategoryWidgets points into the console widgets map.
	CategoryWidgets Category = "widgets"
	// CategoryPages points into the console pages map.
	CategoryPages Category = "pages"
	// CategoryDashboards is the legacy name of CategoryPages.
	CategoryDashboards Category = "dashboards"

	// RefKey is the property holding the pointer string in a reference object.
	RefKey = "$ref"

	refPrefix = "#/Console/"
)

// Category is the map a pointer targets.
type Category string

// String returns the category name.
func (c Category) String() string { return string(c) }

// IsValid reports whether c is one of the known categories.
func (c Category) IsValid() bool {
	switch c {
	case CategoryProviders, CategoryWidgets, CategoryPages, CategoryDashboards:
		return true
	default:
		return false
	}
}

// canonical folds the dashboards alias into pages.
func (c Category) canonical() Category {
	if c == CategoryDashboards {
		return CategoryPages
	}
	return c
}

// ParseRef splits a pointer of the form "#/Console/<category>/<id>".
// Pointers into other documents are not supported and are reported as malformed.
func ParseRef(pointer string) (Category, string, error) {
	rest, ok := strings.CutPrefix(pointer, refPrefix)
	if !ok {
		reason := "expected prefix " + refPrefix
		if i := strings.Index(pointer, "#"); i > 0 {
			reason = "references into other documents are not supported"
		}
		return "", "", &MalformedReferenceError{Pointer: pointer, Reason: reason}
	}
	cat, id, ok := strings.Cut(rest, "/")
	if !ok || cat == "" || id == "" || strings.Contains(id, "/") {
		return "", "", &MalformedReferenceError{Pointer: pointer, Reason: "expected #/Console/<category>/<id>"}
	}
	category := Category(cat)
	if !category.IsValid() {
		return "", "", &MalformedReferenceError{Pointer: pointer, Reason: fmt.Sprintf("unknown category %q", cat)}
	}
	return category, id, nil
}

// FormatRef builds the pointer for id in category. It is the inverse of ParseRef.
func FormatRef(category Category, id string) string {
	return refPrefix + string(category) + "/" + id
}

// RefObject builds the {$ref: pointer} object used in documents.
func RefObject(category Category, id string) Record {
	return Record{RefKey: FormatRef(category, id)}
}

// RefList builds a list of reference objects, preserving the order of ids.
func RefList(category Category, ids []string) []any {
	out := make([]any, 0, len(ids))
	for _, id := range ids {
		out = append(out, RefObject(category, id))
	}
	return out
}

// ResolveRefList flattens a list of {$ref: ...} objects into ids, preserving order.
// Every pointer must target want (pages and dashboards are interchangeable).
func ResolveRefList(items []any, want Category) ([]string, error) {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		rec, ok := AsRecord(item)
		if !ok {
			return nil, &MalformedReferenceError{Pointer: fmt.Sprintf("%v", item), Reason: "expected an object with " + RefKey}
		}
		pointer, ok := rec.String(RefKey)
		if !ok {
			return nil, &MalformedReferenceError{Pointer: rec.Render(), Reason: "expected an object with " + RefKey}
		}
		category, id, err := ParseRef(pointer)
		if err != nil {
			return nil, err
		}
		if category.canonical() != want.canonical() {
			return nil, &MalformedReferenceError{
				Pointer: pointer,
				Reason:  fmt.Sprintf("expected a reference to %s, got %s", want, category),
			}
		}
		ids = append(ids, id)
	}
	return ids, nil
}
