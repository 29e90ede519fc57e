// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/invowk/opsconsole/pkg/cueutil"
)

const (
	// StoreDriverFile keeps one document file per console in a directory.
	StoreDriverFile StoreDriver = "file"
	// StoreDriverSQLite keeps consoles in a SQLite database file.
	StoreDriverSQLite StoreDriver = "sqlite"

	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

var (
	// ErrInvalidStoreDriver is returned when a StoreDriver value is not recognized.
	ErrInvalidStoreDriver = errors.New("invalid store driver")
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// StoreDriver selects the console store implementation.
	StoreDriver string

	// InvalidStoreDriverError wraps ErrInvalidStoreDriver.
	InvalidStoreDriverError struct {
		Value StoreDriver
	}

	// LogLevel is the minimum level of the CLI logger.
	LogLevel string

	// InvalidLogLevelError wraps ErrInvalidLogLevel.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// InvalidConfigError collects every field-level problem of a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config is the application configuration.
	Config struct {
		LogLevel LogLevel      `json:"log_level" mapstructure:"log_level"`
		Store    StoreConfig   `json:"store" mapstructure:"store"`
		Hydrate  HydrateConfig `json:"hydrate" mapstructure:"hydrate"`
		Output   OutputConfig  `json:"output" mapstructure:"output"`
	}

	// StoreConfig locates the console store.
	StoreConfig struct {
		Driver StoreDriver `json:"driver" mapstructure:"driver"`
		// Path is the store directory (file driver) or database file (sqlite
		// driver). Empty means a location under the user data directory.
		Path string `json:"path" mapstructure:"path"`
	}

	// HydrateConfig tunes console hydration.
	HydrateConfig struct {
		// Concurrency bounds parallel hydration; 0 uses GOMAXPROCS.
		Concurrency int `json:"concurrency" mapstructure:"concurrency"`
	}

	// OutputConfig sets the default rendering of documents.
	OutputConfig struct {
		Format cueutil.Format `json:"format" mapstructure:"format"`
	}
)

func (e *InvalidStoreDriverError) Error() string {
	return fmt.Sprintf("invalid store driver %q (valid: file, sqlite)", e.Value)
}

func (e *InvalidStoreDriverError) Unwrap() error { return ErrInvalidStoreDriver }

// Validate returns an InvalidStoreDriverError for unknown drivers.
func (d StoreDriver) Validate() error {
	switch d {
	case StoreDriverFile, StoreDriverSQLite:
		return nil
	default:
		return &InvalidStoreDriverError{Value: d}
	}
}

func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", e.Value)
}

func (e *InvalidLogLevelError) Unwrap() error { return ErrInvalidLogLevel }

// Validate returns an InvalidLogLevelError for unknown levels.
func (l LogLevel) Validate() error {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return nil
	default:
		return &InvalidLogLevelError{Value: l}
	}
}

func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: LogLevelInfo,
		Store:    StoreConfig{Driver: StoreDriverFile},
		Output:   OutputConfig{Format: cueutil.FormatYAML},
	}
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	var errs []error
	if err := c.LogLevel.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Store.Driver.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Hydrate.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("hydrate.concurrency must not be negative, got %d", c.Hydrate.Concurrency))
	}
	if !c.Output.Format.IsValid() {
		errs = append(errs, &cueutil.InvalidFormatError{Value: string(c.Output.Format)})
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// Map returns the configuration keyed the way the config file spells it.
func (c *Config) Map() map[string]any {
	return map[string]any{
		"log_level": string(c.LogLevel),
		"store": map[string]any{
			"driver": string(c.Store.Driver),
			"path":   c.Store.Path,
		},
		"hydrate": map[string]any{
			"concurrency": c.Hydrate.Concurrency,
		},
		"output": map[string]any{
			"format": string(c.Output.Format),
		},
	}
}
