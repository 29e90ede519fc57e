// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"

	"github.com/invowk/opsconsole/pkg/console"
)

type (
	// ActionableError is a failed CLI operation with the context a user needs
	// to fix it: what was attempted, on which document or entity, and hints.
	//
	//	err := issue.NewErrorContext().
	//		WithOperation("validate console").
	//		WithResource("./console.yaml").
	//		Wrap(err).
	//		Build()
	ActionableError struct {
		Operation   string
		Resource    string
		Suggestions []string
		Cause       error
	}

	// ErrorContext builds an ActionableError incrementally.
	ErrorContext struct {
		operation   string
		resource    string
		suggestions []string
		cause       error
	}
)

func NewErrorContext() *ErrorContext {
	return &ErrorContext{}
}

// Wrap attaches operation and resource context to err and derives
// suggestions from the console error kind found in its chain.
// It returns nil for a nil err.
func Wrap(err error, operation, resource string) *ActionableError {
	if err == nil {
		return nil
	}
	return &ActionableError{
		Operation:   operation,
		Resource:    resource,
		Suggestions: SuggestionsFor(err),
		Cause:       err,
	}
}

// SuggestionsFor returns fix hints for the console error kinds it recognizes.
func SuggestionsFor(err error) []string {
	var (
		unresolved *console.UnresolvedReferenceError
		missing    *console.MissingPropertyError
		typeLoad   *console.TypeLoadError
		conflict   *console.ConflictError
		notFound   *console.NotFoundError
	)
	switch {
	case errors.As(err, &unresolved):
		if unresolved.Suggestion != "" {
			return []string{fmt.Sprintf("did you mean %q?", unresolved.Suggestion)}
		}
		return []string{fmt.Sprintf("define %s %q or remove the references to it", lowerKind(unresolved.Kind), unresolved.ID)}
	case errors.As(err, &missing):
		return []string{fmt.Sprintf("add the %q property to the %s", missing.Property, lowerKind(missing.Kind))}
	case errors.As(err, &typeLoad):
		if errors.Is(typeLoad.Cause, console.ErrNoSourceLocator) {
			return []string{fmt.Sprintf("declare a source for %q under dependencies, e.g. %s: builtin", typeLoad.Type, typeLoad.Type)}
		}
		return []string{"run 'opsconsole types' to list the available types"}
	case errors.As(err, &conflict):
		return []string{fmt.Sprintf("use the update command to change the existing %s", lowerKind(conflict.Kind))}
	case errors.As(err, &notFound):
		return []string{"list what exists with the list command of the same group"}
	}
	return nil
}

func lowerKind(k console.EntityKind) string {
	return strings.ToLower(string(k))
}

// Error returns "failed to <operation>: <resource>: <cause>".
func (e *ActionableError) Error() string {
	var msg strings.Builder
	msg.WriteString("failed to ")
	msg.WriteString(e.Operation)
	if e.Resource != "" {
		msg.WriteString(": ")
		msg.WriteString(e.Resource)
	}
	if e.Cause != nil {
		msg.WriteString(": ")
		msg.WriteString(e.Cause.Error())
	}
	return msg.String()
}

func (e *ActionableError) Unwrap() error {
	return e.Cause
}

// Issue returns the guide for the error's cause, or nil.
func (e *ActionableError) Issue() *Issue {
	return ForError(e.Cause)
}

// Format renders the error with its suggestions. In verbose mode the chain of
// wrapped causes follows, one per line.
func (e *ActionableError) Format(verbose bool) string {
	var msg strings.Builder
	msg.WriteString(e.Error())
	if len(e.Suggestions) > 0 {
		msg.WriteString("\n")
		for _, s := range e.Suggestions {
			msg.WriteString("\n  • ")
			msg.WriteString(s)
		}
	}
	if verbose && e.Cause != nil {
		msg.WriteString("\n\nError chain:")
		depth := 1
		for err := e.Cause; err != nil; err = errors.Unwrap(err) {
			fmt.Fprintf(&msg, "\n  %d. %s", depth, err.Error())
			depth++
		}
	}
	return msg.String()
}

func (c *ErrorContext) WithOperation(op string) *ErrorContext {
	c.operation = op
	return c
}

func (c *ErrorContext) WithResource(res string) *ErrorContext {
	c.resource = res
	return c
}

// WithSuggestion adds a hint. It may be called repeatedly.
func (c *ErrorContext) WithSuggestion(s string) *ErrorContext {
	c.suggestions = append(c.suggestions, s)
	return c
}

// Wrap sets the cause. Hints derived from the cause come after the explicit ones.
func (c *ErrorContext) Wrap(err error) *ErrorContext {
	c.cause = err
	return c
}

// Build returns nil when no operation was set.
func (c *ErrorContext) Build() *ActionableError {
	if c.operation == "" {
		return nil
	}
	suggestions := append([]string(nil), c.suggestions...)
	if c.cause != nil {
		suggestions = append(suggestions, SuggestionsFor(c.cause)...)
	}
	return &ActionableError{
		Operation:   c.operation,
		Resource:    c.resource,
		Suggestions: suggestions,
		Cause:       c.cause,
	}
}

// BuildError is Build returned as an error; a nil result stays an untyped nil.
func (c *ErrorContext) BuildError() error {
	if ae := c.Build(); ae != nil {
		return ae
	}
	return nil
}
