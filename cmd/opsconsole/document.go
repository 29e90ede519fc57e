// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/invowk/opsconsole/internal/issue"
	"github.com/invowk/opsconsole/internal/render"
	"github.com/invowk/opsconsole/internal/store"
	"github.com/invowk/opsconsole/pkg/console"
	"github.com/invowk/opsconsole/pkg/cueutil"
)

//go:embed example.yaml
var exampleDocument []byte

const exampleFilename = "example.yaml"

func newParseCommand(app *App) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Print the resolved, id-based form of a console document",
		Long: `Validate a console document and print its resolved form, in which every
$ref pointer is replaced by the plain id it names. No type is loaded.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := app.outputFormat(cmd.Context(), format)
			if err != nil {
				return err
			}
			rec, err := readDocument(args[0])
			if err != nil {
				return err
			}
			sk, err := console.Parse(rec)
			if err != nil {
				return issue.Wrap(err, "parse console document", args[0])
			}
			data, err := sk.MarshalJSONForm(out)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	addFormatFlag(cmd, &format)
	return cmd
}

func newHydrateCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "hydrate <file>",
		Short: "Load every widget and provider type of a console document",
		Long: `Run the whole pipeline on a console document: validate it, resolve its
references and instantiate every widget and provider through the types named
in its dependencies. A summary of the hydrated console is printed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.deepParseFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), c)
			return nil
		},
	}
}

func newExportCommand(app *App) *cobra.Command {
	var (
		format      string
		consoleName string
		example     bool
	)
	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Print a console as a pointer-based document",
		Long: `Hydrate a console and print it back as a document whose references are
$ref pointers. The console comes from a file, from the store (--console) or
from the built-in example (--example). The output can be converted between
CUE, JSON, YAML and TOML with --format.

Examples:
  opsconsole export --example > console.yaml
  opsconsole export console.yaml --format cue
  opsconsole export --console ops --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out, err := app.outputFormat(ctx, format)
			if err != nil {
				return err
			}
			var c *console.Console
			switch {
			case example:
				c, err = app.deepParse(ctx, exampleDocument, exampleFilename)
			case consoleName != "":
				err = app.withStore(ctx, func(s store.Store) error {
					c, err = s.Get(ctx, consoleName)
					return err
				})
			case len(args) == 1:
				c, err = app.deepParseFile(ctx, args[0])
			default:
				return fmt.Errorf("export needs a file, --console or --example")
			}
			if err != nil {
				return err
			}
			data, err := c.MarshalDocument(out)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	addFormatFlag(cmd, &format)
	cmd.Flags().StringVar(&consoleName, "console", "", "export a stored console")
	cmd.Flags().BoolVar(&example, "example", false, "export the built-in example console")
	cmd.MarkFlagsMutuallyExclusive("console", "example")
	return cmd
}

func newRenderCommand(app *App) *cobra.Command {
	var (
		route       string
		consoleName string
		watchFile   bool
	)
	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a page of a console",
		Long: `Hydrate a console, load the data of the widgets on one page and print the
page. Each widget is rendered after its children.

With --watch the page is rendered again every time the document file changes.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := app.loadConfig(ctx)
			if err != nil {
				return err
			}
			if consoleName == "" && len(args) == 0 {
				return fmt.Errorf("render needs a file or --console")
			}
			if watchFile && len(args) == 0 {
				return fmt.Errorf("--watch needs a document file")
			}

			renderPage := func(ctx context.Context) error {
				var (
					c   *console.Console
					err error
				)
				if consoleName != "" {
					err = app.withStore(ctx, func(s store.Store) error {
						c, err = s.Get(ctx, consoleName)
						return err
					})
				} else {
					c, err = app.deepParseFile(ctx, args[0])
				}
				if err != nil {
					return err
				}
				r := render.New(c, render.Options{
					Concurrency: cfg.Hydrate.Concurrency,
					Logger:      app.logger,
				})
				page, err := r.Page(ctx, route)
				if err != nil {
					return issue.Wrap(err, "render page", route)
				}
				fmt.Fprintln(cmd.OutOrStdout(), page)
				return nil
			}

			if watchFile {
				return app.watchFiles(ctx, cmd.OutOrStdout(), args, renderPage)
			}
			return renderPage(ctx)
		},
	}
	cmd.Flags().StringVar(&route, "route", "/", "route of the page to render")
	cmd.Flags().StringVar(&consoleName, "console", "", "render a stored console")
	cmd.Flags().BoolVarP(&watchFile, "watch", "w", false, "render again when the document file changes")
	cmd.MarkFlagsMutuallyExclusive("console", "watch")
	return cmd
}

func addFormatFlag(cmd *cobra.Command, format *string) {
	cmd.Flags().StringVarP(format, "format", "f", "", "output format: cue, json, yaml or toml (default from config)")
}

// outputFormat returns the format named by flag, or the configured one.
func (a *App) outputFormat(ctx context.Context, flag string) (cueutil.Format, error) {
	cfg, err := a.loadConfig(ctx)
	if err != nil {
		return "", err
	}
	if flag == "" {
		return cfg.Output.Format, nil
	}
	return cueutil.ParseFormat(flag)
}

// readDocument reads and decodes the console document at path. The format
// follows the file extension.
func readDocument(path string) (console.Record, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	rec, err := console.DecodeDocument(data, path)
	if err != nil {
		return nil, issue.Wrap(err, "decode console document", path)
	}
	return rec, nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("read console document").
			WithResource(path).
			WithSuggestion("check that the file exists and is readable").
			Wrap(err).
			BuildError()
	}
	return data, nil
}

func (a *App) deepParseFile(ctx context.Context, path string) (*console.Console, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return a.deepParse(ctx, data, path)
}

func (a *App) deepParse(ctx context.Context, data []byte, filename string) (*console.Console, error) {
	cfg, err := a.loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	rec, err := console.DecodeDocument(data, filename)
	if err != nil {
		return nil, issue.Wrap(err, "decode console document", filename)
	}
	c, err := console.DeepParse(ctx, rec, a.hydrateOptions(cfg))
	if err != nil {
		return nil, issue.Wrap(err, "hydrate console document", filename)
	}
	a.logger.Debug("loaded console", "name", c.Name(), "file", filename)
	return c, nil
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(SubtitleStyle).
		Headers(headers...)
}

// printSummary writes the pages, widgets and providers of c.
func printSummary(w io.Writer, c *console.Console) {
	fmt.Fprintln(w, TitleStyle.Render("Console "+c.Name()))
	fmt.Fprintln(w)

	pages := newTable("ROUTE", "ID", "WIDGETS")
	for _, p := range c.Pages() {
		pages.Row(p.Route, p.ID, strings.Join(p.WidgetIDs, ", "))
	}
	fmt.Fprintln(w, SubtitleStyle.Render("Pages"))
	fmt.Fprintln(w, pages.String())

	widgets := newTable("ID", "TYPE", "NAME", "CHILDREN", "PROVIDERS")
	for _, id := range c.WidgetIDs() {
		wg, _ := c.Widget(id)
		spec := wg.Spec()
		widgets.Row(id, spec.Type, spec.DisplayName, strings.Join(spec.ChildrenIDs, ", "), strings.Join(spec.ProviderIDs, ", "))
	}
	fmt.Fprintln(w, SubtitleStyle.Render("Widgets"))
	fmt.Fprintln(w, widgets.String())

	providers := newTable("ID", "TYPE")
	for _, id := range c.ProviderIDs() {
		p, _ := c.Provider(id)
		providers.Row(id, p.Spec().Type)
	}
	fmt.Fprintln(w, SubtitleStyle.Render("Providers"))
	fmt.Fprintln(w, providers.String())
}

// writeRecord encodes rec in format.
func writeRecord(w io.Writer, rec console.Record, format cueutil.Format) error {
	data, err := cueutil.EncodeDocument(rec.Plain(), format)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
