// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/invowk/opsconsole/internal/watch"
)

// watchFiles calls run once, then again whenever one of files changes, until
// ctx is cancelled. Failures of run are printed to w and do not stop watching.
func (a *App) watchFiles(ctx context.Context, w io.Writer, files []string, run func(context.Context) error) error {
	report := func(ctx context.Context) error {
		if err := run(ctx); err != nil {
			fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, a.verbose))
			return err
		}
		return nil
	}
	report(ctx) //nolint:errcheck // printed by report

	watcher, err := watch.New(watch.Config{
		Files:  files,
		Logger: a.logger,
		OnChange: func(ctx context.Context, changed []string) error {
			fmt.Fprintf(w, "\n%s\n", VerboseStyle.Render(fmt.Sprintf("changed: %v", changed)))
			return report(ctx)
		},
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(w, SubtitleStyle.Render("Watching for changes. Press Ctrl+C to stop."))
	return watcher.Run(ctx)
}
