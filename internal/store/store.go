// SPDX-License-Identifier: MPL-2.0

// Package store persists console documents and hands back hydrated consoles.
//
// Two implementations exist: a directory holding one document file per
// console, and a SQLite database. Both validate a console before writing it
// and re-read what they wrote through the full parse pipeline.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/invowk/opsconsole/pkg/console"
	"github.com/invowk/opsconsole/pkg/cueutil"
)

// ErrInvalidName is returned for console names that cannot be stored.
var ErrInvalidName = errors.New("invalid console name")

type (
	// Store reads and writes consoles by name.
	Store interface {
		// Get returns the named console, or a *console.NotFoundError.
		Get(ctx context.Context, name string) (*console.Console, error)
		// Save validates c, persists it under its name and returns it as re-read
		// from the store.
		Save(ctx context.Context, c *console.Console) (*console.Console, error)
		// Delete removes the named console, or returns a *console.NotFoundError.
		Delete(ctx context.Context, name string) error
		// List returns the stored console names in lexical order.
		List(ctx context.Context) ([]string, error)
		Close() error
	}

	// Options configures how stored documents are hydrated and written.
	Options struct {
		Hydrate console.HydrateOptions
		// Format is the file format of new documents in a file store.
		// Empty means YAML.
		Format cueutil.Format
	}

	// InvalidNameError wraps ErrInvalidName.
	InvalidNameError struct {
		Name   string
		Reason string
	}
)

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid console name %q: %s", e.Name, e.Reason)
}

func (e *InvalidNameError) Unwrap() error { return ErrInvalidName }

// Open returns the store for driver ("file" or "sqlite") at path.
func Open(ctx context.Context, driver, path string, opts Options) (Store, error) {
	switch driver {
	case "file", "":
		return NewFileStore(path, opts)
	case "sqlite":
		return OpenSQLite(ctx, path, opts)
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

func validateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return &InvalidNameError{Name: name, Reason: "must not be empty"}
	case strings.ContainsAny(name, `/\`):
		return &InvalidNameError{Name: name, Reason: "must not contain path separators"}
	case name == "." || name == "..":
		return &InvalidNameError{Name: name, Reason: "reserved name"}
	}
	return nil
}

func notFound(name string) error {
	return &console.NotFoundError{Console: name, Kind: console.KindConsole}
}

// decode runs a stored document through the whole pipeline. filename selects
// the format.
func decode(ctx context.Context, data []byte, filename string, opts Options) (*console.Console, error) {
	doc, err := console.DecodeDocument(data, filename)
	if err != nil {
		return nil, err
	}
	return console.DeepParse(ctx, doc, opts.Hydrate)
}
