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
)

// newPageCommand creates the `opsconsole page` command tree. Pages are
// addressed by route.
func newPageCommand(app *App) *cobra.Command {
	var consoleName string
	pageCmd := &cobra.Command{
		Use:     "page",
		Aliases: []string{"dashboard"},
		Short:   "Manage the pages of a stored console",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	pageCmd.PersistentFlags().StringVarP(&consoleName, "console", "c", "", "name of the stored console")
	_ = pageCmd.MarkPersistentFlagRequired("console")

	// withPages runs fn with a page client over the configured store.
	withPages := func(cmd *cobra.Command, fn func(pc *client.PageClient) error) error {
		return app.withStore(cmd.Context(), func(s store.Store) error {
			return fn(client.NewPageClient(s))
		})
	}

	pageCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the pages of a console",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPages(cmd, func(pc *client.PageClient) error {
				pages, err := pc.GetPages(cmd.Context(), consoleName)
				if err != nil {
					return issue.Wrap(err, "list pages", consoleName)
				}
				t := newTable("ROUTE", "ID", "WIDGETS")
				for _, p := range pages {
					t.Row(p.Route, p.ID, strings.Join(p.WidgetIDs, ", "))
				}
				fmt.Fprintln(cmd.OutOrStdout(), t.String())
				return nil
			})
		},
	})

	var format string
	getCmd := &cobra.Command{
		Use:   "get <route>",
		Short: "Print one page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := app.outputFormat(cmd.Context(), format)
			if err != nil {
				return err
			}
			return withPages(cmd, func(pc *client.PageClient) error {
				p, err := pc.GetPage(cmd.Context(), consoleName, args[0])
				if err != nil {
					return issue.Wrap(err, "get page", args[0])
				}
				return writeRecord(cmd.OutOrStdout(), p.Record(), out)
			})
		},
	}
	addFormatFlag(getCmd, &format)
	pageCmd.AddCommand(getCmd)

	var (
		createID      string
		createWidgets []string
	)
	createCmd := &cobra.Command{
		Use:   "create <route>",
		Short: "Add a page",
		Long: `Add a page at a route that no other page uses. Without --id the page gets a
random UUID.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPages(cmd, func(pc *client.PageClient) error {
				p, err := pc.CreatePage(cmd.Context(), consoleName, console.Page{
					ID:        createID,
					Route:     args[0],
					WidgetIDs: createWidgets,
				})
				if err != nil {
					return issue.Wrap(err, "create page", args[0])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s Created page %s (%s)\n", SuccessStyle.Render(iconOK), KeyStyle.Render(p.Route), p.ID)
				return nil
			})
		},
	}
	createCmd.Flags().StringVar(&createID, "id", "", "page id")
	createCmd.Flags().StringSliceVarP(&createWidgets, "widget", "w", nil, "widget id shown on the page, in order (repeatable)")
	pageCmd.AddCommand(createCmd)

	var (
		updateRoute   string
		updateWidgets []string
	)
	updateCmd := &cobra.Command{
		Use:   "update <route>",
		Short: "Change the route or the widgets of a page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPages(cmd, func(pc *client.PageClient) error {
				ctx := cmd.Context()
				current, err := pc.GetPage(ctx, consoleName, args[0])
				if err != nil {
					return issue.Wrap(err, "update page", args[0])
				}
				next := console.Page{Route: updateRoute, WidgetIDs: current.WidgetIDs}
				if cmd.Flags().Changed("widget") {
					next.WidgetIDs = updateWidgets
				}
				p, err := pc.UpdatePage(ctx, consoleName, args[0], next)
				if err != nil {
					return issue.Wrap(err, "update page", args[0])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s Updated page %s (%s)\n", SuccessStyle.Render(iconOK), KeyStyle.Render(p.Route), p.ID)
				return nil
			})
		},
	}
	updateCmd.Flags().StringVar(&updateRoute, "route", "", "new route of the page")
	updateCmd.Flags().StringSliceVarP(&updateWidgets, "widget", "w", nil, "replace the widgets of the page (repeatable)")
	pageCmd.AddCommand(updateCmd)

	pageCmd.AddCommand(&cobra.Command{
		Use:   "delete <route>",
		Short: "Remove a page; its widgets stay",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPages(cmd, func(pc *client.PageClient) error {
				p, err := pc.DeletePage(cmd.Context(), consoleName, args[0])
				if err != nil {
					return issue.Wrap(err, "delete page", args[0])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s Deleted page %s (%s)\n", SuccessStyle.Render(iconOK), KeyStyle.Render(p.Route), p.ID)
				return nil
			})
		},
	})

	return pageCmd
}
