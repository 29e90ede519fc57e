// SPDX-License-Identifier: MPL-2.0

package console

import (
	"errors"
	"fmt"
)

const (
	// KindConsole labels the root document object.
	KindConsole EntityKind = "Console"
	// KindPage labels a page (also called dashboard).
	KindPage EntityKind = "Page"
	// KindWidget labels a widget.
	KindWidget EntityKind = "Widget"
	// KindProvider labels a provider.
	KindProvider EntityKind = "Provider"
	// KindReference labels a {$ref: ...} pointer object.
	KindReference EntityKind = "Reference"
)

var (
	// ErrMissingProperty is the sentinel wrapped by MissingPropertyError.
	ErrMissingProperty = errors.New("missing property")
	// ErrInvalidProperty is the sentinel wrapped by InvalidPropertyError.
	ErrInvalidProperty = errors.New("invalid property")
	// ErrUnresolvedReference is the sentinel wrapped by UnresolvedReferenceError.
	ErrUnresolvedReference = errors.New("unresolved reference")
	// ErrMalformedReference is the sentinel wrapped by MalformedReferenceError.
	ErrMalformedReference = errors.New("malformed reference")
	// ErrTypeLoad is the sentinel wrapped by TypeLoadError.
	ErrTypeLoad = errors.New("type load failure")
	// ErrCapabilityUnimplemented is the sentinel wrapped by CapabilityUnimplementedError.
	ErrCapabilityUnimplemented = errors.New("capability not implemented")
	// ErrConflict is the sentinel wrapped by ConflictError.
	ErrConflict = errors.New("conflict")
	// ErrNotFound is the sentinel wrapped by NotFoundError.
	ErrNotFound = errors.New("not found")

	// ErrNoSourceLocator is the TypeLoadError cause when a type has no entry in
	// the console dependencies.
	ErrNoSourceLocator = errors.New("no source locator declared for type")
	// ErrTypeNotExported is the TypeLoadError cause when a source does not export
	// an implementation under the requested type name.
	ErrTypeNotExported = errors.New("source does not export type")
)

type (
	// EntityKind names the kind of document object an error refers to.
	EntityKind string

	// MissingPropertyError is returned when a required property is absent or null.
	// It wraps ErrMissingProperty for errors.Is() compatibility.
	MissingPropertyError struct {
		Property string
		Kind     EntityKind
		// Object is a JSON rendering of the offending object.
		Object string
	}

	// InvalidPropertyError is returned when a property is present but has the
	// wrong shape (e.g. a string where an object is expected).
	InvalidPropertyError struct {
		Property string
		Kind     EntityKind
		Expected string
		Object   string
	}

	// UnresolvedReferenceError is returned when a referenced id is not defined.
	UnresolvedReferenceError struct {
		ID   string
		Kind EntityKind
		// Suggestion is the closest defined id, if any is close enough.
		Suggestion string
	}

	// MalformedReferenceError is returned when a pointer string does not match
	// "#/Console/<category>/<id>".
	MalformedReferenceError struct {
		Pointer string
		Reason  string
	}

	// TypeLoadError is returned when a widget or provider type cannot be
	// resolved to an implementation at its source locator.
	TypeLoadError struct {
		Kind    EntityKind
		Type    string
		Locator string
		Cause   error
	}

	// CapabilityUnimplementedError is returned when a hydrated instance is asked
	// for a capability its implementation does not provide.
	CapabilityUnimplementedError struct {
		Type       string
		Capability Capability
	}

	// ConflictError is returned by higher-level collaborators when an entity
	// with the same key already exists on a console.
	ConflictError struct {
		Console string
		Kind    EntityKind
		Key     string
		Action  string
	}

	// NotFoundError is returned when an entity (or a console) does not exist.
	NotFoundError struct {
		Console string
		Kind    EntityKind
		Key     string
		Action  string
	}
)

// String returns the kind label.
func (k EntityKind) String() string { return string(k) }

// Error implements the error interface.
func (e *MissingPropertyError) Error() string {
	return fmt.Sprintf("property '%s' is missing on object type '%s' object %s", e.Property, e.Kind, e.Object)
}

// Unwrap returns ErrMissingProperty.
func (e *MissingPropertyError) Unwrap() error { return ErrMissingProperty }

// Error implements the error interface.
func (e *InvalidPropertyError) Error() string {
	return fmt.Sprintf("property '%s' on object type '%s' must be %s, object %s", e.Property, e.Kind, e.Expected, e.Object)
}

// Unwrap returns ErrInvalidProperty.
func (e *InvalidPropertyError) Unwrap() error { return ErrInvalidProperty }

// Error implements the error interface.
func (e *UnresolvedReferenceError) Error() string {
	msg := fmt.Sprintf("%s reference %s is not defined", e.Kind, e.ID)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %s?)", e.Suggestion)
	}
	return msg
}

// Unwrap returns ErrUnresolvedReference.
func (e *UnresolvedReferenceError) Unwrap() error { return ErrUnresolvedReference }

// Error implements the error interface.
func (e *MalformedReferenceError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("malformed reference %q: %s", e.Pointer, e.Reason)
	}
	return fmt.Sprintf("malformed reference %q", e.Pointer)
}

// Unwrap returns ErrMalformedReference.
func (e *MalformedReferenceError) Unwrap() error { return ErrMalformedReference }

// Error implements the error interface.
func (e *TypeLoadError) Error() string {
	msg := fmt.Sprintf("error trying to load module %q for %s type %q", e.Locator, e.Kind, e.Type)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns both the sentinel and the underlying load error, so that
// errors.Is matches ErrTypeLoad as well as the cause chain.
func (e *TypeLoadError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrTypeLoad}
	}
	return []error{ErrTypeLoad, e.Cause}
}

// Error implements the error interface.
func (e *CapabilityUnimplementedError) Error() string {
	return fmt.Sprintf("type %q does not implement %s", e.Type, e.Capability)
}

// Unwrap returns ErrCapabilityUnimplemented.
func (e *CapabilityUnimplementedError) Unwrap() error { return ErrCapabilityUnimplemented }

// Error implements the error interface.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("cannot %s %s %s because it already exists on console %s",
		e.action("create"), lower(e.Kind), e.Key, e.Console)
}

// Unwrap returns ErrConflict.
func (e *ConflictError) Unwrap() error { return ErrConflict }

func (e *ConflictError) action(def string) string {
	if e.Action != "" {
		return e.Action
	}
	return def
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if e.Kind == KindConsole || e.Kind == "" {
		return fmt.Sprintf("console %s does not exist", e.Console)
	}
	if e.Action == "" {
		return fmt.Sprintf("%s %s does not exist in console %s", lower(e.Kind), e.Key, e.Console)
	}
	return fmt.Sprintf("cannot %s %s %s because it does not exist on console %s",
		e.Action, lower(e.Kind), e.Key, e.Console)
}

// Unwrap returns ErrNotFound.
func (e *NotFoundError) Unwrap() error { return ErrNotFound }

func lower(k EntityKind) string {
	switch k {
	case KindConsole:
		return "console"
	case KindPage:
		return "page"
	case KindWidget:
		return "widget"
	case KindProvider:
		return "provider"
	case KindReference:
		return "reference"
	default:
		return string(k)
	}
}
