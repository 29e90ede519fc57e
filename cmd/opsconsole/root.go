// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/invowk/opsconsole/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the opsconsole command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "opsconsole",
		Short: "Compose operational consoles from declarative documents",
		Long: TitleStyle.Render("opsconsole") + SubtitleStyle.Render(" - compose operational consoles from declarative documents") + `

A console document declares pages, widgets and data providers. Widgets and
providers name a type; the console's dependencies map every type to the
module that implements it.

` + SubtitleStyle.Render("Examples:") + `
  opsconsole export --example > console.yaml   Write a starter document
  opsconsole validate console.yaml             Check a document
  opsconsole render console.yaml --route /     Render a page
  opsconsole import console.yaml               Store a document
  opsconsole page list --console ops           List the pages of a stored console`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if app.verbose {
				app.logger.SetLevel(log.DebugLevel)
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&app.configPath, "config", "", "config file (default is <user config dir>/opsconsole/config.cue)")

	rootCmd.AddCommand(
		newValidateCommand(app),
		newParseCommand(app),
		newHydrateCommand(app),
		newExportCommand(app),
		newRenderCommand(app),
		newImportCommand(app),
		newListCommand(app),
		newDeleteCommand(app),
		newPageCommand(app),
		newWidgetCommand(app),
		newServeCommand(app),
		newTypesCommand(app),
		newConfigCommand(app),
	)

	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)
	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI and exits with the code matching the returned error.
// It is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	rootCmd := NewRootCommand(app)

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(func(w io.Writer, _ fang.Styles, err error) {
			fmt.Fprintln(w, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, app.verbose))
			if app.verbose {
				renderIssueGuide(w, err)
			}
		}),
	); err != nil {
		os.Exit(exitCode(err))
	}
}

// formatErrorForDisplay formats an error for the user. Actionable errors
// carry their suggestions; in verbose mode the whole error chain follows.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}

// renderIssueGuide writes the Markdown guide matching err, if there is one.
func renderIssueGuide(w io.Writer, err error) {
	guide := issue.ForError(err)
	if guide == nil {
		return
	}
	rendered, renderErr := guide.Render("dark")
	if renderErr != nil {
		return
	}
	fmt.Fprint(w, rendered)
}
