// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/invowk/opsconsole/internal/issue"
	"github.com/invowk/opsconsole/internal/store"
)

func newImportCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Store a console document under its console name",
		Long: `Hydrate a console document and save it in the configured store, replacing
any console with the same name.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := app.deepParseFile(ctx, args[0])
			if err != nil {
				return err
			}
			return app.withStore(ctx, func(s store.Store) error {
				saved, err := s.Save(ctx, c)
				if err != nil {
					return issue.Wrap(err, "import console", c.Name())
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s Imported console %s (%d pages, %d widgets, %d providers)\n",
					SuccessStyle.Render(iconOK), KeyStyle.Render(saved.Name()),
					len(saved.PageIDs()), len(saved.WidgetIDs()), len(saved.ProviderIDs()))
				return nil
			})
		},
	}
}

func newListCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the stored consoles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return app.withStore(ctx, func(s store.Store) error {
				names, err := s.List(ctx)
				if err != nil {
					return err
				}
				if len(names) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), SubtitleStyle.Render("(no consoles stored)"))
					return nil
				}
				for _, name := range names {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			})
		},
	}
}

func newDeleteCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <console>",
		Short: "Remove a stored console",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return app.withStore(ctx, func(s store.Store) error {
				if err := s.Delete(ctx, args[0]); err != nil {
					return issue.Wrap(err, "delete console", args[0])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s Deleted console %s\n", SuccessStyle.Render(iconOK), KeyStyle.Render(args[0]))
				return nil
			})
		},
	}
}
