// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/invowk/opsconsole/internal/store"
	"github.com/invowk/opsconsole/pkg/console"
	"github.com/invowk/opsconsole/pkg/cueutil"
)

// Exit codes.
const (
	ExitOK       = 0
	ExitFailure  = 1
	ExitInvalid  = 2
	ExitNotFound = 3
	ExitConflict = 4
	ExitTypeLoad = 5
)

// ExitError signals a non-zero exit code without calling os.Exit in RunE
// handlers.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// exitCode maps err to the process exit code.
func exitCode(err error) int {
	var exitErr *ExitError
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &exitErr):
		return exitErr.Code
	case errors.Is(err, console.ErrNotFound):
		return ExitNotFound
	case errors.Is(err, console.ErrConflict):
		return ExitConflict
	case errors.Is(err, console.ErrTypeLoad),
		errors.Is(err, console.ErrCapabilityUnimplemented),
		errors.Is(err, console.ErrNoSourceLocator),
		errors.Is(err, console.ErrTypeNotExported):
		return ExitTypeLoad
	case errors.Is(err, console.ErrMissingProperty),
		errors.Is(err, console.ErrInvalidProperty),
		errors.Is(err, console.ErrUnresolvedReference),
		errors.Is(err, console.ErrMalformedReference),
		errors.Is(err, cueutil.ErrInvalidDocument),
		errors.Is(err, store.ErrInvalidName):
		return ExitInvalid
	default:
		return ExitFailure
	}
}
