// SPDX-License-Identifier: MPL-2.0

package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/invowk/opsconsole/pkg/console"
	"github.com/invowk/opsconsole/pkg/cueutil"
)

// documentExtensions are tried in order when looking a console up.
var documentExtensions = []string{".yaml", ".yml", ".json", ".cue", ".toml"}

// FileStore keeps one document per console in a directory. The file name is
// the console name plus the extension of its format.
type FileStore struct {
	dir  string
	opts Options
}

// NewFileStore creates dir if needed and returns a store over it.
func NewFileStore(dir string, opts Options) (*FileStore, error) {
	if opts.Format == "" {
		opts.Format = cueutil.FormatYAML
	}
	if !opts.Format.IsValid() {
		return nil, &cueutil.InvalidFormatError{Value: string(opts.Format)}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return &FileStore{dir: dir, opts: opts}, nil
}

// Dir returns the store directory.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) find(name string) (string, error) {
	for _, ext := range documentExtensions {
		path := filepath.Join(s.dir, name+ext)
		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			return path, nil
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("stat %s: %w", path, err)
		}
	}
	return "", notFound(name)
}

func (s *FileStore) Get(ctx context.Context, name string) (*console.Console, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	path, err := s.find(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read console %s: %w", name, err)
	}
	return decode(ctx, data, path, s.opts)
}

// Save writes c in the store format, replacing any earlier document of the
// same console whatever its format.
func (s *FileStore) Save(ctx context.Context, c *console.Console) (*console.Console, error) {
	if err := validateName(c.Name()); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	data, err := c.MarshalDocument(s.opts.Format)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(s.dir, c.Name()+s.opts.Format.Extension())
	tmp, err := os.CreateTemp(s.dir, "."+c.Name()+"-*")
	if err != nil {
		return nil, fmt.Errorf("save console %s: %w", c.Name(), err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return nil, fmt.Errorf("save console %s: %w", c.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("save console %s: %w", c.Name(), err)
	}
	if err := s.removeOthers(c.Name(), path); err != nil {
		return nil, err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return nil, fmt.Errorf("save console %s: %w", c.Name(), err)
	}
	return s.Get(ctx, c.Name())
}

// removeOthers deletes documents of name in formats other than keep.
func (s *FileStore) removeOthers(name, keep string) error {
	for _, ext := range documentExtensions {
		path := filepath.Join(s.dir, name+ext)
		if path == keep {
			continue
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", path, err)
		}
	}
	return nil
}

func (s *FileStore) Delete(_ context.Context, name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	path, err := s.find(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("delete console %s: %w", name, err)
	}
	return s.removeOthers(name, path)
}

func (s *FileStore) List(context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list consoles: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		ext := filepath.Ext(e.Name())
		if slices.Contains(documentExtensions, ext) {
			names = append(names, strings.TrimSuffix(e.Name(), ext))
		}
	}
	slices.Sort(names)
	return slices.Compact(names), nil
}

// Close does nothing; a FileStore holds no resources.
func (s *FileStore) Close() error { return nil }
