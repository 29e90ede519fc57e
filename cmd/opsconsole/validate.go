// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/invowk/opsconsole/internal/issue"
	"github.com/invowk/opsconsole/pkg/console"
)

// newValidateCommand creates the `opsconsole validate` command.
func newValidateCommand(app *App) *cobra.Command {
	var watchFiles bool
	cmd := &cobra.Command{
		Use:   "validate <file>...",
		Short: "Validate console documents",
		Long: `Check that console documents carry every required property and that every
$ref pointer names an entity of the document. Types are not loaded; use
'opsconsole hydrate' for that.

Every file is checked and reported, even after a failure. With --watch the
files are checked again whenever one of them changes.

Examples:
  opsconsole validate console.yaml
  opsconsole validate consoles/*.cue
  opsconsole validate --watch console.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app.logger.Debug("validating documents", "count", len(args))
			if watchFiles {
				return app.watchFiles(cmd.Context(), cmd.OutOrStdout(), args, func(context.Context) error {
					return validateFiles(cmd.OutOrStdout(), args)
				})
			}
			return validateFiles(cmd.OutOrStdout(), args)
		},
	}
	cmd.Flags().BoolVarP(&watchFiles, "watch", "w", false, "validate again when a file changes")
	return cmd
}

// validateFiles reports every file on w and returns the collected failures
// as an ExitError.
func validateFiles(w io.Writer, paths []string) error {
	var errs error
	for _, path := range paths {
		if err := validateFile(path); err != nil {
			fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render(iconFail), path)
			fmt.Fprintf(w, "  %s\n", formatErrorForDisplay(err, false))
			errs = multierr.Append(errs, err)
			continue
		}
		fmt.Fprintf(w, "%s %s\n", SuccessStyle.Render(iconOK), path)
	}
	if errs == nil {
		return nil
	}
	failed := len(multierr.Errors(errs))
	return &ExitError{
		Code: ExitInvalid,
		Err:  fmt.Errorf("%d of %d documents are invalid: %w", failed, len(paths), errs),
	}
}

func validateFile(path string) error {
	rec, err := readDocument(path)
	if err != nil {
		return err
	}
	if err := console.Validate(rec); err != nil {
		return issue.Wrap(err, "validate console document", path)
	}
	return nil
}
