// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/invowk/opsconsole/internal/client"
	"github.com/invowk/opsconsole/internal/issue"
	"github.com/invowk/opsconsole/internal/store"
	"github.com/invowk/opsconsole/pkg/console"
	"github.com/invowk/opsconsole/pkg/cueutil"
)

// widgetFlags are the widget properties settable from the command line.
type widgetFlags struct {
	file        string
	id          string
	typeName    string
	displayName string
	description string
	providers   []string
	children    []string
}

func (f *widgetFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.file, "file", "", "read the widget record (id-based form) from a file")
	cmd.Flags().StringVar(&f.id, "id", "", "widget id")
	cmd.Flags().StringVarP(&f.typeName, "type", "t", "", "widget type")
	cmd.Flags().StringVar(&f.displayName, "display-name", "", "title of the widget")
	cmd.Flags().StringVar(&f.description, "description", "", "description of the widget")
	cmd.Flags().StringSliceVar(&f.providers, "provider", nil, "provider id the widget reads from (repeatable)")
	cmd.Flags().StringSliceVar(&f.children, "child", nil, "child widget id, in order (repeatable)")
}

// apply overlays the file and then the flags the user set on spec.
func (f *widgetFlags) apply(cmd *cobra.Command, spec console.WidgetSpec) (console.WidgetSpec, error) {
	if f.file != "" {
		data, err := readFile(f.file)
		if err != nil {
			return console.WidgetSpec{}, err
		}
		raw, err := cueutil.DecodeDocument(data,
			cueutil.WithFilename(f.file),
			cueutil.WithFormat(cueutil.FormatFromFilename(f.file)),
		)
		if err != nil {
			return console.WidgetSpec{}, issue.Wrap(err, "decode widget record", f.file)
		}
		fromFile, err := console.WidgetSpecFromRecord(console.Record(raw))
		if err != nil {
			return console.WidgetSpec{}, issue.Wrap(err, "read widget record", f.file)
		}
		if fromFile.ID == "" {
			fromFile.ID = spec.ID
		}
		spec = fromFile
	}
	changed := cmd.Flags().Changed
	if changed("id") {
		spec.ID = f.id
	}
	if changed("type") {
		spec.Type = f.typeName
	}
	if changed("display-name") {
		spec.DisplayName = f.displayName
	}
	if changed("description") {
		spec.Description = f.description
	}
	if changed("provider") {
		spec.ProviderIDs = f.providers
	}
	if changed("child") {
		spec.ChildrenIDs = f.children
	}
	return spec, nil
}

// newWidgetCommand creates the `opsconsole widget` command tree. Widgets are
// addressed by id and re-hydrated on every change.
func newWidgetCommand(app *App) *cobra.Command {
	var consoleName string
	widgetCmd := &cobra.Command{
		Use:   "widget",
		Short: "Manage the widgets of a stored console",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	widgetCmd.PersistentFlags().StringVarP(&consoleName, "console", "c", "", "name of the stored console")
	_ = widgetCmd.MarkPersistentFlagRequired("console")

	withWidgets := func(cmd *cobra.Command, fn func(wc *client.WidgetClient) error) error {
		return app.withStore(cmd.Context(), func(s store.Store) error {
			return fn(client.NewWidgetClient(s, app.Registry))
		})
	}

	widgetCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the widgets of a console",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWidgets(cmd, func(wc *client.WidgetClient) error {
				specs, err := wc.GetWidgets(cmd.Context(), consoleName)
				if err != nil {
					return issue.Wrap(err, "list widgets", consoleName)
				}
				t := newTable("ID", "TYPE", "NAME", "CHILDREN", "PROVIDERS")
				for _, w := range specs {
					t.Row(w.ID, w.Type, w.DisplayName, strings.Join(w.ChildrenIDs, ", "), strings.Join(w.ProviderIDs, ", "))
				}
				fmt.Fprintln(cmd.OutOrStdout(), t.String())
				return nil
			})
		},
	})

	var format string
	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Print one widget record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := app.outputFormat(cmd.Context(), format)
			if err != nil {
				return err
			}
			return withWidgets(cmd, func(wc *client.WidgetClient) error {
				w, err := wc.GetWidget(cmd.Context(), consoleName, args[0])
				if err != nil {
					return issue.Wrap(err, "get widget", args[0])
				}
				return writeRecord(cmd.OutOrStdout(), w.Record(), out)
			})
		},
	}
	addFormatFlag(getCmd, &format)
	widgetCmd.AddCommand(getCmd)

	var createFlags widgetFlags
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Add a widget",
		Long: `Add a widget built from --file and the property flags; flags win over the
file. Without an id the widget gets a random UUID. The widget type must be
listed in the console's dependencies.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := createFlags.apply(cmd, console.WidgetSpec{})
			if err != nil {
				return err
			}
			return withWidgets(cmd, func(wc *client.WidgetClient) error {
				w, err := wc.CreateWidget(cmd.Context(), consoleName, spec)
				if err != nil {
					return issue.Wrap(err, "create widget", spec.ID)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s Created widget %s (%s)\n", SuccessStyle.Render(iconOK), KeyStyle.Render(w.ID), w.Type)
				return nil
			})
		},
	}
	createFlags.register(createCmd)
	widgetCmd.AddCommand(createCmd)

	var updateFlags widgetFlags
	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a widget",
		Long: `Change the properties of a widget. Properties not given by --file or a flag
keep their current value.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWidgets(cmd, func(wc *client.WidgetClient) error {
				ctx := cmd.Context()
				current, err := wc.GetWidget(ctx, consoleName, args[0])
				if err != nil {
					return issue.Wrap(err, "update widget", args[0])
				}
				spec, err := updateFlags.apply(cmd, current)
				if err != nil {
					return err
				}
				w, err := wc.UpdateWidget(ctx, consoleName, args[0], spec)
				if err != nil {
					return issue.Wrap(err, "update widget", args[0])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s Updated widget %s (%s)\n", SuccessStyle.Render(iconOK), KeyStyle.Render(w.ID), w.Type)
				return nil
			})
		},
	}
	updateFlags.register(updateCmd)
	widgetCmd.AddCommand(updateCmd)

	widgetCmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a widget and detach it from pages and parent widgets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWidgets(cmd, func(wc *client.WidgetClient) error {
				w, err := wc.DeleteWidget(cmd.Context(), consoleName, args[0])
				if err != nil {
					return issue.Wrap(err, "delete widget", args[0])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s Deleted widget %s (%s)\n", SuccessStyle.Render(iconOK), KeyStyle.Render(w.ID), w.Type)
				return nil
			})
		},
	})

	return widgetCmd
}
